//go:build integration

package db

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/txn2/data-validator/internal/fixtures"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	pgContainer, err := postgres.Run(ctx, "postgres:15",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	conn, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()
	require.NoError(t, fixtures.Run(conn))

	return connStr
}

func TestIntegration_Adapters(t *testing.T) {
	connStr := startPostgres(t)
	ctx := context.Background()

	conn, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	adapters := map[string]Adapter{
		"database/sql": NewSQLAdapter(conn, sq.Dollar),
		"pgx":          NewPgxAdapter(pool),
	}

	for name, adapter := range adapters {
		t.Run(name, func(t *testing.T) {
			users := Table{Name: "users", Schema: "my"}

			exists, err := NewRecordExists(Config{Table: users, Field: "email", Adapter: adapter, Logger: slogt.New(t)})
			require.NoError(t, err)

			ok, err := exists.IsValid(ctx, fixtures.SeedEmail)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = exists.IsValid(ctx, "nobody@example.com")
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Equal(t, "No record matching 'nobody@example.com' was found in my.users",
				exists.Messages()[KindNoRecordFound])

			unique, err := NewNoRecordExists(Config{
				Table:   users,
				Field:   "email",
				Exclude: ExcludeField{Field: "id", Value: fixtures.SeedUserID},
				Adapter: adapter,
			})
			require.NoError(t, err)

			ok, err = unique.IsValid(ctx, fixtures.SeedEmail)
			require.NoError(t, err)
			assert.True(t, ok, "own row is excluded")

			ok, err = unique.IsValid(ctx, "bob@example.com")
			require.NoError(t, err)
			assert.False(t, ok)

			byClause, err := NewNoRecordExists(Config{
				Table:   users,
				Field:   "email",
				Exclude: ExcludeClause("username <> 'alice'"),
				Adapter: adapter,
			})
			require.NoError(t, err)
			ok, err = byClause.IsValid(ctx, fixtures.SeedEmail)
			require.NoError(t, err)
			assert.True(t, ok)

			byUUID, err := NewRecordExists(Config{Table: users, Field: "external_id", Adapter: adapter})
			require.NoError(t, err)
			ok, err = byUUID.IsValid(ctx, uuid.MustParse(fixtures.SeedUUID))
			require.NoError(t, err)
			assert.True(t, ok)

			missing, err := NewRecordExists(Config{Table: Table{Name: "missing"}, Field: "id", Adapter: adapter})
			require.NoError(t, err)
			_, err = missing.IsValid(ctx, 1)
			assert.Error(t, err)
		})
	}
}

func TestIntegration_FixturesDown(t *testing.T) {
	connStr := startPostgres(t)

	conn, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	var count int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM my.users").Scan(&count))
	assert.Equal(t, fixtures.SeedUserCount, count)

	require.NoError(t, fixtures.Down(conn))
	require.NoError(t, fixtures.Run(conn))
}
