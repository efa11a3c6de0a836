package sqlengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/dynamic-query-go/internal/adapters"
	"github.com/AntonStoeckl/dynamic-query-go/internal/instrument"
	"github.com/AntonStoeckl/dynamic-query-go/observability"
)

const (
	defaultInsertBatchSize = 500
	maxParamsPerStatement  = 900

	logMsgOperation         = "fixture operation: "
	logMsgStateChanged      = "fixture operation state"
	logMsgCloseRowsFailed   = "failed to close database rows"
	logMsgRollbackFailed    = "failed to roll back transaction"
	logMsgOperationFailed   = "fixture operation failed"
	logAttrOperation        = "operation"
	logAttrState            = "state"
	logAttrTable            = "table"
	logAttrTableCount       = "table_count"
	logAttrRowCount         = "row_count"
	logAttrConstraintToggle = "constraint_toggle"
	logActionSelect         = "select"
	logActionDelete         = "delete"
	logActionInsert         = "insert"
	logActionDisable        = "disable constraints"
	logActionEnable         = "enable constraints"
	logActionExec           = "exec"
	operationRead           = "get_data_set"
	operationClear          = "clear_database"
	operationSeed           = "seed_database"
	stateConnecting         = "connecting"
	stateReading            = "reading"
	stateClearing           = "clearing"
	stateSeeding            = "seeding"
	stateCommitting         = "committing"
	stateRollingBack        = "rolling back"
	stateIdle               = "idle"
	spanPrefix              = "fixture."
	metricOperationDuration = "fixture_operation_duration_seconds"
	metricRowsTotal         = "fixture_rows_total"
	metricErrorsTotal       = "fixture_errors_total"
)

// Engine captures, clears and seeds fixture schemas. It is safe for concurrent use;
// every call owns its own connection and transaction.
type Engine struct {
	db              adapters.DBAdapter
	toggle          ConstraintToggle
	insertBatchSize int
	inst            instrument.Instrumentation
}

// Option defines a functional option for configuring an Engine.
type Option func(*Engine) error

// WithConstraintToggle selects the constraint strategy and with it the SQL dialect.
// The default is PostgresTriggers.
func WithConstraintToggle(toggle ConstraintToggle) Option {
	return func(e *Engine) error {
		if !toggle.valid() {
			return ErrInvalidConstraintToggle
		}

		e.toggle = toggle

		return nil
	}
}

// WithInsertBatchSize sets the maximum number of rows per INSERT statement.
// Batches are further limited so that one statement binds at most 900 parameters.
func WithInsertBatchSize(rows int) Option {
	return func(e *Engine) error {
		if rows < 1 {
			return ErrInvalidBatchSize
		}

		e.insertBatchSize = rows

		return nil
	}
}

// WithLogger sets the logger for the Engine.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL statements with execution timing, operation state changes
// Info level: table and row counts, durations (production-safe)
// Warn level: non-critical issues like failing to close rows
// Error level: failed operations.
func WithLogger(logger observability.Logger) Option {
	return func(e *Engine) error {
		e.inst.Logger = logger
		return nil
	}
}

// WithContextualLogger sets a context-aware logger, e.g. for trace correlation.
func WithContextualLogger(logger observability.ContextualLogger) Option {
	return func(e *Engine) error {
		e.inst.ContextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Engine.
func WithMetrics(collector observability.MetricsCollector) Option {
	return func(e *Engine) error {
		if collector == nil {
			return ErrNilMetricsCollector
		}

		e.inst.Metrics = collector

		return nil
	}
}

// WithTracing sets the tracing collector for the Engine.
func WithTracing(collector observability.TracingCollector) Option {
	return func(e *Engine) error {
		if collector == nil {
			return ErrNilTracingCollector
		}

		e.inst.Tracing = collector

		return nil
	}
}

// NewEngineFromPGXPool creates a new Engine using a pgx Pool with optional configuration.
func NewEngineFromPGXPool(db *pgxpool.Pool, options ...Option) (*Engine, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newEngine(adapters.NewPGXAdapter(db), options)
}

// NewEngineFromSQLDB creates a new Engine using a sql.DB with optional configuration.
func NewEngineFromSQLDB(db *sql.DB, options ...Option) (*Engine, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newEngine(adapters.NewSQLAdapter(db), options)
}

// NewEngineFromSQLX creates a new Engine using a sqlx.DB with optional configuration.
func NewEngineFromSQLX(db *sqlx.DB, options ...Option) (*Engine, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newEngine(adapters.NewSQLXAdapter(db), options)
}

func newEngine(db adapters.DBAdapter, options []Option) (*Engine, error) {
	e := &Engine{
		db:              db,
		toggle:          PostgresTriggers(),
		insertBatchSize: defaultInsertBatchSize,
		inst: instrument.Instrumentation{
			ErrorsMetric:    metricErrorsTotal,
			OperationPrefix: logMsgOperation,
		},
	}

	for _, option := range options {
		if err := option(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// ConstraintToggle returns the configured constraint strategy.
func (e *Engine) ConstraintToggle() ConstraintToggle {
	return e.toggle
}

// Exec runs a single statement outside of any transaction and returns the number of affected rows.
// Scenario seeding procedures use it to mutate storage.
func (e *Engine) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	return e.exec(ctx, e.db, logActionExec, query, args)
}

func (e *Engine) exec(ctx context.Context, q adapters.Querier, action string, query string, args []any) (int64, error) {
	start := time.Now()

	result, err := q.Exec(ctx, query, args...)
	e.inst.LogSQL(ctx, query, action, time.Since(start))

	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (e *Engine) logState(ctx context.Context, operation, state string) {
	e.inst.LogDebug(ctx, logMsgStateChanged, logAttrOperation, operation, logAttrState, state)
}

// inTransaction runs work in one transaction. Any error, or a context canceled while
// working, rolls back; rollback failures are joined to the original error.
func (e *Engine) inTransaction(
	ctx context.Context,
	operation string,
	work func(ctx context.Context, tx adapters.DBTx) error,
) error {

	e.logState(ctx, operation, stateConnecting)

	tx, err := e.db.BeginTx(ctx, adapters.TxOptions{})
	if err != nil {
		return err
	}

	err = work(ctx, tx)
	if err == nil {
		err = ctx.Err()
	}

	if err != nil {
		e.logState(ctx, operation, stateRollingBack)

		if rollbackErr := tx.Rollback(context.WithoutCancel(ctx)); rollbackErr != nil {
			e.inst.LogWarn(ctx, logMsgRollbackFailed, rollbackErr, logAttrOperation, operation)
			return errors.Join(err, ErrRollbackFailed, rollbackErr)
		}

		return err
	}

	e.logState(ctx, operation, stateCommitting)

	if err = tx.Commit(ctx); err != nil {
		if rollbackErr := tx.Rollback(context.WithoutCancel(ctx)); rollbackErr != nil {
			return errors.Join(err, ErrRollbackFailed, rollbackErr)
		}

		return err
	}

	return nil
}

// observe wraps one engine operation with a span, metrics and the final log line.
func (e *Engine) observe(
	ctx context.Context,
	operation string,
	sentinel error,
	run func(ctx context.Context) (rows int, tables int, err error),
) error {

	start := time.Now()
	ctx, span := e.inst.StartSpan(ctx, spanPrefix+operation, map[string]string{
		logAttrOperation:        operation,
		logAttrConstraintToggle: e.toggle.Name,
	})

	rows, tables, err := run(ctx)
	duration := time.Since(start)
	e.logState(ctx, operation, stateIdle)

	if err != nil {
		err = errors.Join(sentinel, err)
		errorType := instrument.ErrorType(err)
		e.inst.LogError(ctx, logMsgOperationFailed, err, logAttrOperation, operation)
		e.inst.RecordError(ctx, operation, errorType)
		e.inst.RecordDuration(ctx, metricOperationDuration, duration, operation, instrument.StatusError)
		span.FinishError(errorType, duration)

		return err
	}

	e.inst.LogOperation(
		ctx,
		operation,
		logAttrTableCount, tables,
		logAttrRowCount, rows,
		instrument.LogAttrDurationMS, instrument.ToMilliseconds(duration),
	)
	e.inst.RecordDuration(ctx, metricOperationDuration, duration, operation, instrument.StatusSuccess)
	e.inst.RecordValue(ctx, metricRowsTotal, float64(rows), operation, instrument.StatusSuccess)
	span.FinishSuccess(duration, nil)

	return nil
}
