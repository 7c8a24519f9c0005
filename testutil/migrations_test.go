package testutil_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	pgmigrations "github.com/avoss/trip-pantry/migrations/postgres"
	sqlitemigrations "github.com/avoss/trip-pantry/migrations/sqlite"
	"github.com/avoss/trip-pantry/testutil"
)

// storeTables are the tables every persistence engine must provide.
var storeTables = []string{"records", "record_keys"}

// TestMigrations_SQLite verifies the full migration round-trip against a
// throwaway SQLite database:
//
//  1. Apply all migrations (goose up).
//  2. Assert every expected table exists.
//  3. Roll back all migrations (goose down-to 0).
//  4. Assert every table has been removed.
func TestMigrations_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "migrate.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, sqlitemigrations.FS)
	require.NoError(t, err, "create goose provider")

	ctx := context.Background()

	results, err := provider.Up(ctx)
	require.NoError(t, err, "goose up")
	assert.NotEmpty(t, results, "expected at least one migration to be applied")

	for _, table := range storeTables {
		assertSQLiteTable(t, db, table, true)
	}

	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "goose down-to 0")

	for _, table := range storeTables {
		assertSQLiteTable(t, db, table, false)
	}
}

// TestMigrations_Postgres verifies the same round-trip against a real
// Postgres database. Skipped automatically when TEST_DATABASE_URL is not set.
func TestMigrations_Postgres(t *testing.T) {
	db := testutil.NewPostgresSQLDB(t)

	provider, err := goose.NewProvider(goose.DialectPostgres, db, pgmigrations.FS)
	require.NoError(t, err, "create goose provider")

	ctx := context.Background()

	// Another package's setup may have already applied migrations against
	// this shared test DB. Reset to version 0 first so this test is
	// self-contained and order-independent.
	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "initial reset")

	results, err := provider.Up(ctx)
	require.NoError(t, err, "goose up")
	assert.NotEmpty(t, results, "expected at least one migration to be applied")

	for _, table := range storeTables {
		assertPostgresTable(t, db, table, true)
	}

	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "goose down-to 0")

	for _, table := range storeTables {
		assertPostgresTable(t, db, table, false)
	}
}

func assertSQLiteTable(t *testing.T, db *sql.DB, table string, want bool) {
	t.Helper()
	var n int
	err := db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
	).Scan(&n)
	require.NoErrorf(t, err, "look up table %q", table)
	assert.Equalf(t, want, n == 1, "table %q existence", table)
}

func assertPostgresTable(t *testing.T, db *sql.DB, table string, want bool) {
	t.Helper()
	var exists bool
	err := db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = $1)`, table,
	).Scan(&exists)
	require.NoErrorf(t, err, "look up table %q", table)
	assert.Equalf(t, want, exists, "table %q existence", table)
}
