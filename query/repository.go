package query

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/AntonStoeckl/dynamic-query-go/internal/instrument"
	"github.com/AntonStoeckl/dynamic-query-go/observability"
)

const (
	logMsgPagedQueryExecuted = "paged query executed"
	logMsgPagedQueryFailed   = "paged query failed"
	logMsgQueryRejected      = "query rejected"

	logAttrCount       = "count"
	logAttrItems       = "items"
	logAttrPage        = "page"
	logAttrPageSize    = "page_size"
	logAttrSortBy      = "sort_by"
	logAttrConsistency = "consistency"
	logAttrRawQuery    = "raw_query"

	spanNameGetManyAndCount  = "dynquery.get_many_and_count"
	operationGetManyAndCount = "get_many_and_count"

	metricQueryDuration = "dynquery_query_duration_seconds"
	metricItemsReturned = "dynquery_items_returned"
	metricErrorsTotal   = "dynquery_errors_total"

	statusBadRequest = "bad_request"
)

// Reader is the read capability a Repository needs from storage.
type Reader[T any] interface {
	// Count returns the number of records matching the selection.
	Count(ctx context.Context, selection Selection[T]) (int, error)

	// Find returns the matching records in sorting order, sliced to the page window.
	Find(ctx context.Context, selection Selection[T], window PageWindow) ([]T, error)
}

// ConsistentReader is implemented by readers able to count and find from the same snapshot.
type ConsistentReader[T any] interface {
	CountAndFind(ctx context.Context, selection Selection[T], window PageWindow) (int, []T, error)
}

// Writer is the mutate capability of a record store.
type Writer[T any] interface {
	Add(ctx context.Context, records ...T) error

	// Remove deletes all matching records and returns how many were removed.
	Remove(ctx context.Context, predicate Predicate[T]) (int, error)
}

// Repository executes paged queries given as URL query strings against a Reader.
type Repository[T any] struct {
	reader Reader[T]
	fields Fields[T]
	config repositoryConfig
}

type repositoryConfig struct {
	instrument.Instrumentation
}

// Option defines a functional option for configuring a Repository.
type Option func(*repositoryConfig) error

// WithLogger sets the logger for the Repository.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Info level: item counts, page window and durations of executed queries
// Warn level: rejected (bad request) queries
// Error level: storage failures.
func WithLogger(logger observability.Logger) Option {
	return func(c *repositoryConfig) error {
		c.Logger = logger
		return nil
	}
}

// WithContextualLogger sets a context-aware logger, e.g. for trace correlation.
func WithContextualLogger(logger observability.ContextualLogger) Option {
	return func(c *repositoryConfig) error {
		c.ContextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Repository.
func WithMetrics(collector observability.MetricsCollector) Option {
	return func(c *repositoryConfig) error {
		if collector == nil {
			return ErrNilMetricsCollector
		}

		c.Metrics = collector

		return nil
	}
}

// WithTracing sets the tracing collector for the Repository.
func WithTracing(collector observability.TracingCollector) Option {
	return func(c *repositoryConfig) error {
		if collector == nil {
			return ErrNilTracingCollector
		}

		c.Tracing = collector

		return nil
	}
}

// NewRepository creates a Repository for the records of reader described by fields.
func NewRepository[T any](reader Reader[T], fields Fields[T], options ...Option) (*Repository[T], error) {
	if reader == nil {
		return nil, ErrNilReader
	}

	config := repositoryConfig{}
	config.ErrorsMetric = metricErrorsTotal

	for _, option := range options {
		if err := option(&config); err != nil {
			return nil, err
		}
	}

	return &Repository[T]{reader: reader, fields: fields, config: config}, nil
}

// GetManyAndCount parses rawQuery, compiles its filters and quick search, and reads
// the total count plus the requested page.
//
// Parse errors wrap ErrInvalidQuery and never reach storage. Storage errors wrap ErrQueryExecutionFailed.
// The count and the page are independent reads unless ctx carries WithConsistentReads
// and the Reader implements ConsistentReader.
func (r *Repository[T]) GetManyAndCount(
	ctx context.Context,
	rawQuery string,
	defaultSorting string,
) (GetManyAndCountResult[T], error) {

	start := time.Now()
	consistency := GetReadConsistency(ctx)

	ctx, span := r.config.StartSpan(ctx, spanNameGetManyAndCount, map[string]string{
		instrument.SpanAttrOperation: operationGetManyAndCount,
		logAttrConsistency:           consistency.String(),
	})

	parsed, selection, err := r.compile(rawQuery, defaultSorting)
	if err != nil {
		r.config.LogWarn(ctx, logMsgQueryRejected, err, logAttrRawQuery, rawQuery)
		r.config.RecordError(ctx, operationGetManyAndCount, statusBadRequest)
		r.config.RecordDuration(ctx, metricQueryDuration, time.Since(start), operationGetManyAndCount, statusBadRequest)
		span.FinishError(statusBadRequest, time.Since(start))

		return GetManyAndCountResult[T]{}, err
	}

	count, items, err := r.read(ctx, consistency, selection, parsed.Window)
	if err != nil {
		err = errors.Join(ErrQueryExecutionFailed, err)
		errorType := instrument.ErrorType(err)
		r.config.LogError(ctx, logMsgPagedQueryFailed, err, logAttrRawQuery, rawQuery)
		r.config.RecordError(ctx, operationGetManyAndCount, errorType)
		r.config.RecordDuration(ctx, metricQueryDuration, time.Since(start), operationGetManyAndCount, instrument.StatusError)
		span.FinishError(errorType, time.Since(start))

		return GetManyAndCountResult[T]{}, err
	}

	sorting := selection.Sorting().Sorting()
	duration := time.Since(start)

	r.config.LogOperation(
		ctx,
		logMsgPagedQueryExecuted,
		logAttrCount, count,
		logAttrItems, len(items),
		logAttrPage, parsed.Window.Page,
		logAttrPageSize, parsed.Window.PageSize,
		logAttrSortBy, sorting.By,
		logAttrConsistency, consistency.String(),
		instrument.LogAttrDurationMS, instrument.ToMilliseconds(duration),
	)
	r.config.RecordDuration(ctx, metricQueryDuration, duration, operationGetManyAndCount, instrument.StatusSuccess)
	r.config.RecordValue(ctx, metricItemsReturned, float64(len(items)), operationGetManyAndCount, instrument.StatusSuccess)
	span.FinishSuccess(duration, map[string]string{
		logAttrCount: strconv.Itoa(count),
		logAttrItems: strconv.Itoa(len(items)),
	})

	return NewGetManyAndCountResult(items, count, parsed.Window, sorting), nil
}

func (r *Repository[T]) compile(rawQuery, defaultSorting string) (ParsedQuery, Selection[T], error) {
	parsed, err := NewParser(rawQuery, r.fields).Parse(defaultSorting)
	if err != nil {
		return ParsedQuery{}, Selection[T]{}, err
	}

	selection, err := NewSelection(r.fields, parsed.Filters, parsed.QuickSearch, parsed.Sorting)
	if err != nil {
		return ParsedQuery{}, Selection[T]{}, err
	}

	return parsed, selection, nil
}

func (r *Repository[T]) read(
	ctx context.Context,
	consistency ReadConsistency,
	selection Selection[T],
	window PageWindow,
) (int, []T, error) {

	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	if consistentReader, ok := r.reader.(ConsistentReader[T]); ok && consistency == ConsistentReads {
		return consistentReader.CountAndFind(ctx, selection, window)
	}

	count, err := r.reader.Count(ctx, selection)
	if err != nil {
		return 0, nil, err
	}

	if err = ctx.Err(); err != nil {
		return 0, nil, err
	}

	items, err := r.reader.Find(ctx, selection, window)
	if err != nil {
		return 0, nil, err
	}

	return count, items, nil
}
