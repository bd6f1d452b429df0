// Package database opens the connections that back record validation rules.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/txn2/data-validator/pkg/config"
	"github.com/txn2/data-validator/pkg/validator/db"
)

// sqlDriverName is the database/sql driver used for config.DriverPQ.
var sqlDriverName = "postgres"

// Open opens and pings a database/sql connection pool.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	conn, err := sql.Open(sqlDriverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return conn, nil
}

// NewAdapter wraps a PostgreSQL *sql.DB for the record validators.
func NewAdapter(conn *sql.DB) *db.SQLAdapter {
	return db.NewSQLAdapter(conn, sq.Dollar)
}

// OpenAdapter opens the configured driver and returns an adapter together
// with a function releasing the connection.
func OpenAdapter(ctx context.Context, cfg config.DatabaseConfig) (db.Adapter, func(), error) {
	switch cfg.Driver {
	case "", config.DriverPQ:
		conn, err := Open(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return NewAdapter(conn), func() { _ = conn.Close() }, nil
	case config.DriverPgx:
		pool, err := openPool(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return db.NewPgxAdapter(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func openPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing database dsn: %w", err)
	}
	if cfg.MaxOpenConns > 0 && cfg.MaxOpenConns <= math.MaxInt32 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns) // #nosec G115 -- bounds checked above
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("opening database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return pool, nil
}
