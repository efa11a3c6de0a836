package adapters

import "context"

// Querier is the part of the adapter contract shared by connections and transactions.
type Querier interface {
	Query(ctx context.Context, query string, args ...any) (DBRows, error)
	Exec(ctx context.Context, query string, args ...any) (DBResult, error)
}

// DBAdapter defines the interface for database operations needed by the engines.
type DBAdapter interface {
	Querier
	BeginTx(ctx context.Context, opts TxOptions) (DBTx, error)
}

// DBTx defines the interface for a running transaction.
type DBTx interface {
	Querier
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DBResult defines the interface for execution results.
type DBResult interface {
	RowsAffected() (int64, error)
}

// TxOptions holds the transaction settings the engines need.
// The zero value starts a read-write transaction with the driver's default isolation level.
type TxOptions struct {
	ReadOnly       bool
	RepeatableRead bool
}
