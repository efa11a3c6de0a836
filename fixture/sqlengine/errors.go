package sqlengine

import "errors"

var (
	ErrNilDatabaseConnection   = errors.New("database connection must not be nil")
	ErrReadingDataSetFailed    = errors.New("reading data set from database failed")
	ErrClearingDatabaseFailed  = errors.New("clearing database failed")
	ErrSeedingDatabaseFailed   = errors.New("seeding database failed")
	ErrRollbackFailed          = errors.New("transaction rollback failed")
	ErrInvalidBatchSize        = errors.New("insert batch size must be at least 1")
	ErrInvalidConstraintToggle = errors.New("constraint toggle needs a name, a dialect and both statement functions")
	ErrNilMetricsCollector     = errors.New("metrics collector must not be nil")
	ErrNilTracingCollector     = errors.New("tracing collector must not be nil")
)
