package sqlstore

import (
	"errors"

	"github.com/AntonStoeckl/dynamic-query-go/internal/instrument"
	"github.com/AntonStoeckl/dynamic-query-go/observability"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

var (
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")
	ErrEmptyTableName        = errors.New("table name must not be empty")
	ErrNoColumns             = errors.New("at least one column must be selected")
	ErrNilRowScanner         = errors.New("row scanner must not be nil")
	ErrUnsupportedDialect    = errors.New("unsupported sql dialect")
	ErrEmptyTieBreaker       = errors.New("tie-breaker column must not be empty")
	ErrUnknownFilterField    = errors.New("filter field has no column")
	ErrBuildingQueryFailed   = errors.New("building sql query failed")
	ErrScanningRowFailed     = errors.New("scanning row failed")
)

type config struct {
	dialect    string
	tieBreaker string
	inst       instrument.Instrumentation
}

// Option defines a functional option for configuring a Store.
type Option func(*config) error

// WithDialect selects the goqu dialect, DialectPostgres by default.
func WithDialect(dialect string) Option {
	return func(c *config) error {
		if dialect != DialectPostgres && dialect != DialectSQLite {
			return ErrUnsupportedDialect
		}

		c.dialect = dialect

		return nil
	}
}

// WithTieBreaker sets the column appended to every ORDER BY so that equal sort values keep
// a stable order across pages. It defaults to the first selected column.
func WithTieBreaker(column string) Option {
	return func(c *config) error {
		if column == "" {
			return ErrEmptyTieBreaker
		}

		c.tieBreaker = column

		return nil
	}
}

// WithLogger sets the logger for the Store.
//
// Debug level: SQL queries with execution timing
// Warn level: failing to close rows.
func WithLogger(logger observability.Logger) Option {
	return func(c *config) error {
		c.inst.Logger = logger
		return nil
	}
}

// WithContextualLogger sets a context-aware logger for the Store.
func WithContextualLogger(logger observability.ContextualLogger) Option {
	return func(c *config) error {
		c.inst.ContextualLogger = logger
		return nil
	}
}
