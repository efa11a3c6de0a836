package config

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	"github.com/stretchr/testify/require"
)

const (
	defaultMaxConnections  = 10
	defaultMaxConnLifetime = time.Hour
	defaultMaxConnIdleTime = time.Minute * 5
	defaultConnectTimeout  = time.Second * 5
)

// PostgresPGXPool opens a pgxpool.Pool for the test database and closes it on cleanup.
func PostgresPGXPool(t testing.TB) *pgxpool.Pool {
	t.Helper()

	dbConfig, err := pgxpool.ParseConfig(PostgresTestDSN(t))
	require.NoError(t, err, "error parsing the test DSN")

	dbConfig.MaxConns = defaultMaxConnections
	dbConfig.MaxConnLifetime = defaultMaxConnLifetime
	dbConfig.MaxConnIdleTime = defaultMaxConnIdleTime
	dbConfig.ConnConfig.ConnectTimeout = defaultConnectTimeout

	pool, err := pgxpool.NewWithConfig(context.Background(), dbConfig)
	require.NoError(t, err, "error connecting to DB pool in test setup")
	t.Cleanup(pool.Close)

	return pool
}

// PostgresSQLDB opens a *sql.DB (lib/pq) for the test database and closes it on cleanup.
func PostgresSQLDB(t testing.TB) *sql.DB {
	t.Helper()

	db, err := sql.Open("postgres", PostgresTestDSN(t))
	require.NoError(t, err, "error opening database connection")
	configurePool(db)

	require.NoError(t, db.PingContext(context.Background()), "error pinging database")
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// PostgresSQLX opens a *sqlx.DB (lib/pq) for the test database and closes it on cleanup.
func PostgresSQLX(t testing.TB) *sqlx.DB {
	t.Helper()

	return sqlx.NewDb(PostgresSQLDB(t), "postgres")
}

func configurePool(db *sql.DB) {
	db.SetMaxOpenConns(defaultMaxConnections)
	db.SetConnMaxLifetime(defaultMaxConnLifetime)
	db.SetConnMaxIdleTime(defaultMaxConnIdleTime)
}
