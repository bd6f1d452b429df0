package db

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	sq "github.com/Masterminds/squirrel"
)

// Rows is a lazily evaluated cursor. The validators only ask whether a first
// row exists.
type Rows interface {
	Next() bool
	Err() error
	Close() error
}

// Adapter executes a built SELECT statement. Implementations own the
// connection; validators never close or pool it.
type Adapter interface {
	Query(ctx context.Context, query string, args ...any) (Rows, error)

	// Placeholder returns the bind variable format of the dialect.
	Placeholder() sq.PlaceholderFormat
}

// SQLAdapter adapts a *sql.DB (or anything with QueryContext) to Adapter.
type SQLAdapter struct {
	db     SQLQuerier
	format sq.PlaceholderFormat
}

// SQLQuerier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type SQLQuerier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// NewSQLAdapter creates an adapter over db using the given placeholder
// format. A nil format defaults to sq.Question.
func NewSQLAdapter(db SQLQuerier, format sq.PlaceholderFormat) *SQLAdapter {
	if format == nil {
		format = sq.Question
	}
	return &SQLAdapter{db: db, format: format}
}

// Query runs the statement.
func (a *SQLAdapter) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	return rows, nil
}

// Placeholder returns the configured placeholder format.
func (a *SQLAdapter) Placeholder() sq.PlaceholderFormat {
	return a.format
}

var (
	defaultMu      sync.RWMutex
	defaultAdapter Adapter
)

// SetDefaultAdapter sets the process-wide adapter used by validators that
// were built without one. Passing nil clears it.
func SetDefaultAdapter(a Adapter) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultAdapter = a
}

// DefaultAdapter returns the process-wide adapter, or nil.
func DefaultAdapter() Adapter {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultAdapter
}

// Verify interface compliance.
var _ Adapter = (*SQLAdapter)(nil)
