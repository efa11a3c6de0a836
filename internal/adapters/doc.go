// Package adapters provide database adapter implementations shared by the SQL record store
// and the snapshot engine.
//
// This package implements the adapter pattern to support multiple database libraries:
// pgx.Pool, sql.DB, and sqlx.DB. All adapters provide equivalent functionality through
// a common DBAdapter interface, including transactions, so the engines work with any
// supported connection type.
//
// The adapters handle the specifics of each database library while presenting a
// unified interface for query execution, transaction handling and result handling.
package adapters
