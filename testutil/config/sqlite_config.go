package config

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/stretchr/testify/require"
)

// SQLiteDSN returns a DSN for a fresh database file with foreign keys enforced.
func SQLiteDSN(t testing.TB) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")

	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
}

// SQLiteSQLDB opens a fresh SQLite database and runs the given DDL statements.
func SQLiteSQLDB(t testing.TB, ddl ...string) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", SQLiteDSN(t))
	require.NoError(t, err, "error opening sqlite database")
	t.Cleanup(func() { _ = db.Close() })

	for _, statement := range ddl {
		_, err = db.ExecContext(context.Background(), statement)
		require.NoError(t, err, "error creating the test schema")
	}

	return db
}

// SQLiteSQLX is SQLiteSQLDB wrapped into sqlx.
func SQLiteSQLX(t testing.TB, ddl ...string) *sqlx.DB {
	t.Helper()

	return sqlx.NewDb(SQLiteSQLDB(t, ddl...), "sqlite3")
}
