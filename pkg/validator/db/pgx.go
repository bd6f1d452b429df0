package db

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

// PgxQuerier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type PgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PgxAdapter adapts a pgx connection or pool to Adapter.
type PgxAdapter struct {
	conn PgxQuerier
}

// NewPgxAdapter creates an adapter over conn.
func NewPgxAdapter(conn PgxQuerier) *PgxAdapter {
	return &PgxAdapter{conn: conn}
}

// Query runs the statement.
func (a *PgxAdapter) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := a.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	return pgxRows{rows: rows}, nil
}

// Placeholder returns sq.Dollar.
func (*PgxAdapter) Placeholder() sq.PlaceholderFormat {
	return sq.Dollar
}

// pgxRows bridges pgx.Rows, whose Close has no result, to Rows.
type pgxRows struct {
	rows pgx.Rows
}

func (r pgxRows) Next() bool { return r.rows.Next() }
func (r pgxRows) Err() error { return r.rows.Err() }

func (r pgxRows) Close() error {
	r.rows.Close()
	return r.rows.Err()
}

// Verify interface compliance.
var _ Adapter = (*PgxAdapter)(nil)
