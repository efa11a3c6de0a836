package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/dynamic-query-go/internal/adapters"
	"github.com/AntonStoeckl/dynamic-query-go/internal/instrument"
	"github.com/AntonStoeckl/dynamic-query-go/query"
)

const (
	logMsgCloseRowsFailed = "failed to close database rows"
	logMsgRollbackFailed  = "failed to roll back read transaction"
	logAttrTable          = "table"
	logActionCount        = "count"
	logActionFind         = "find"
	logMsgConsistentRead  = "count and find read in one transaction"
)

// RowScanner builds one record from the current row; scan takes one destination per selected column.
type RowScanner[T any] func(scan func(dest ...any) error) (T, error)

// Store reads records of type T from one table. It implements query.Reader and query.ConsistentReader.
type Store[T any] struct {
	db      adapters.DBAdapter
	table   string
	columns []string
	scan    RowScanner[T]
	config  config
}

// NewStoreFromPGXPool creates a new Store using a pgx Pool with optional configuration.
func NewStoreFromPGXPool[T any](
	db *pgxpool.Pool,
	table string,
	columns []string,
	scan RowScanner[T],
	options ...Option,
) (*Store[T], error) {

	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapter(db), table, columns, scan, options)
}

// NewStoreFromPGXPoolWithReplica creates a new Store that sends plain Count and Find reads to the replica pool.
// CountAndFind always runs its transaction on the primary pool.
func NewStoreFromPGXPoolWithReplica[T any](
	primary *pgxpool.Pool,
	replica *pgxpool.Pool,
	table string,
	columns []string,
	scan RowScanner[T],
	options ...Option,
) (*Store[T], error) {

	if primary == nil || replica == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapterWithReplica(primary, replica), table, columns, scan, options)
}

// NewStoreFromSQLDB creates a new Store using a sql.DB with optional configuration.
func NewStoreFromSQLDB[T any](
	db *sql.DB,
	table string,
	columns []string,
	scan RowScanner[T],
	options ...Option,
) (*Store[T], error) {

	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLAdapter(db), table, columns, scan, options)
}

// NewStoreFromSQLX creates a new Store using a sqlx.DB with optional configuration.
func NewStoreFromSQLX[T any](
	db *sqlx.DB,
	table string,
	columns []string,
	scan RowScanner[T],
	options ...Option,
) (*Store[T], error) {

	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLXAdapter(db), table, columns, scan, options)
}

func newStore[T any](
	db adapters.DBAdapter,
	table string,
	columns []string,
	scan RowScanner[T],
	options []Option,
) (*Store[T], error) {

	if strings.TrimSpace(table) == "" {
		return nil, ErrEmptyTableName
	}

	if len(columns) == 0 {
		return nil, ErrNoColumns
	}

	if scan == nil {
		return nil, ErrNilRowScanner
	}

	cfg := config{dialect: DialectPostgres, tieBreaker: columns[0]}

	for _, option := range options {
		if err := option(&cfg); err != nil {
			return nil, err
		}
	}

	return &Store[T]{
		db:      db,
		table:   table,
		columns: append([]string(nil), columns...),
		scan:    scan,
		config:  cfg,
	}, nil
}

func (s *Store[T]) Count(ctx context.Context, selection query.Selection[T]) (int, error) {
	return s.count(ctx, s.db, selection)
}

func (s *Store[T]) Find(ctx context.Context, selection query.Selection[T], window query.PageWindow) ([]T, error) {
	return s.find(ctx, s.db, selection, window)
}

// CountAndFind runs both reads in one read-only, repeatable-read transaction.
func (s *Store[T]) CountAndFind(
	ctx context.Context,
	selection query.Selection[T],
	window query.PageWindow,
) (int, []T, error) {

	start := time.Now()

	tx, err := s.db.BeginTx(ctx, adapters.TxOptions{ReadOnly: true, RepeatableRead: true})
	if err != nil {
		return 0, nil, err
	}

	count, items, err := s.countAndFind(ctx, tx, selection, window)
	if err != nil {
		if rollbackErr := tx.Rollback(context.WithoutCancel(ctx)); rollbackErr != nil {
			s.config.inst.LogWarn(ctx, logMsgRollbackFailed, rollbackErr, logAttrTable, s.table)
		}

		return 0, nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, nil, err
	}

	s.config.inst.LogDebug(
		ctx,
		logMsgConsistentRead,
		logAttrTable, s.table,
		instrument.LogAttrDurationMS, instrument.ToMilliseconds(time.Since(start)),
	)

	return count, items, nil
}

func (s *Store[T]) countAndFind(
	ctx context.Context,
	q adapters.Querier,
	selection query.Selection[T],
	window query.PageWindow,
) (int, []T, error) {

	count, err := s.count(ctx, q, selection)
	if err != nil {
		return 0, nil, err
	}

	items, err := s.find(ctx, q, selection, window)
	if err != nil {
		return 0, nil, err
	}

	return count, items, nil
}

func (s *Store[T]) count(ctx context.Context, q adapters.Querier, selection query.Selection[T]) (int, error) {
	sqlQuery, args, err := s.buildCountQuery(selection)
	if err != nil {
		return 0, errors.Join(ErrBuildingQueryFailed, err)
	}

	start := time.Now()

	rows, err := q.Query(ctx, sqlQuery, args...)
	if err != nil {
		return 0, err
	}
	defer s.closeRows(ctx, rows)

	count := int64(0)
	if rows.Next() {
		if err = rows.Scan(&count); err != nil {
			return 0, errors.Join(ErrScanningRowFailed, err)
		}
	}

	if err = rows.Err(); err != nil {
		return 0, err
	}

	s.config.inst.LogSQL(ctx, sqlQuery, logActionCount, time.Since(start))

	return int(count), nil
}

func (s *Store[T]) find(
	ctx context.Context,
	q adapters.Querier,
	selection query.Selection[T],
	window query.PageWindow,
) ([]T, error) {

	sqlQuery, args, err := s.buildFindQuery(selection, window)
	if err != nil {
		return nil, errors.Join(ErrBuildingQueryFailed, err)
	}

	start := time.Now()

	rows, err := q.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	defer s.closeRows(ctx, rows)

	items := make([]T, 0, window.PageSize)

	for rows.Next() {
		item, scanErr := s.scan(rows.Scan)
		if scanErr != nil {
			return nil, errors.Join(ErrScanningRowFailed, scanErr)
		}

		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	s.config.inst.LogSQL(ctx, sqlQuery, logActionFind, time.Since(start))

	return items, nil
}

func (s *Store[T]) closeRows(ctx context.Context, rows adapters.DBRows) {
	if err := rows.Close(); err != nil {
		s.config.inst.LogWarn(ctx, logMsgCloseRowsFailed, err, logAttrTable, s.table)
	}
}

func (s *Store[T]) selectedColumns() []any {
	cols := make([]any, 0, len(s.columns))
	for _, c := range s.columns {
		cols = append(cols, goqu.C(c))
	}

	return cols
}
