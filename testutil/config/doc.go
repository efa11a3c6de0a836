// Package config provides database connections for tests.
//
// SQLite databases are temporary files that are removed when the test finishes.
// PostgreSQL connections use the DSN from POSTGRES_TEST_DSN; tests needing them
// are skipped when the variable is not set.
package config
