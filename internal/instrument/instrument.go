// Package instrument bundles the optional logger, metrics and tracing collectors of an engine
// and offers nil-safe helpers to feed them.
package instrument

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/AntonStoeckl/dynamic-query-go/observability"
)

const (
	LogMsgSQLExecuted = "executed sql for: "
	LogAttrError      = "error"
	LogAttrQuery      = "query"
	LogAttrDurationMS = "duration_ms"

	SpanAttrOperation  = "operation"
	SpanAttrErrorType  = "error_type"
	SpanAttrDurationMS = "duration_ms"

	StatusSuccess = "success"
	StatusError   = "error"

	labelStatus = "status"
)

// Instrumentation holds the optional observability collaborators of an engine.
// The zero value is valid and records nothing.
type Instrumentation struct {
	Logger           observability.Logger
	ContextualLogger observability.ContextualLogger
	Metrics          observability.MetricsCollector
	Tracing          observability.TracingCollector
	ErrorsMetric     string
	OperationPrefix  string
}

// LogSQL logs an executed statement with its duration at debug level.
func (in *Instrumentation) LogSQL(ctx context.Context, sqlQuery string, action string, duration time.Duration) {
	if in.Logger != nil {
		in.Logger.Debug(LogMsgSQLExecuted+action, LogAttrDurationMS, ToMilliseconds(duration), LogAttrQuery, sqlQuery)
	}

	if in.ContextualLogger != nil {
		in.ContextualLogger.DebugContext(ctx, LogMsgSQLExecuted+action, LogAttrDurationMS, ToMilliseconds(duration), LogAttrQuery, sqlQuery)
	}
}

// LogDebug logs development details like state transitions at debug level.
func (in *Instrumentation) LogDebug(ctx context.Context, message string, args ...any) {
	if in.Logger != nil {
		in.Logger.Debug(message, args...)
	}

	if in.ContextualLogger != nil {
		in.ContextualLogger.DebugContext(ctx, message, args...)
	}
}

// LogOperation logs operational information at info level.
func (in *Instrumentation) LogOperation(ctx context.Context, action string, args ...any) {
	if in.Logger != nil {
		in.Logger.Info(in.OperationPrefix+action, args...)
	}

	if in.ContextualLogger != nil {
		in.ContextualLogger.InfoContext(ctx, in.OperationPrefix+action, args...)
	}
}

// LogWarn logs non-critical trouble like failing to close rows.
func (in *Instrumentation) LogWarn(ctx context.Context, message string, err error, args ...any) {
	allArgs := append([]any{LogAttrError, err.Error()}, args...)

	if in.Logger != nil {
		in.Logger.Warn(message, allArgs...)
	}

	if in.ContextualLogger != nil {
		in.ContextualLogger.WarnContext(ctx, message, allArgs...)
	}
}

// LogError logs error information at the error level.
func (in *Instrumentation) LogError(ctx context.Context, message string, err error, args ...any) {
	allArgs := append([]any{LogAttrError, err.Error()}, args...)

	if in.Logger != nil {
		in.Logger.Error(message, allArgs...)
	}

	if in.ContextualLogger != nil {
		in.ContextualLogger.ErrorContext(ctx, message, allArgs...)
	}
}

// RecordDuration records a duration metric, preferring the context-aware method.
func (in *Instrumentation) RecordDuration(ctx context.Context, metric string, duration time.Duration, operation, status string) {
	if in.Metrics == nil {
		return
	}

	labels := map[string]string{SpanAttrOperation: operation, labelStatus: status}

	if contextual, ok := in.Metrics.(observability.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	in.Metrics.RecordDuration(metric, duration, labels)
}

// RecordValue records a value metric, preferring the context-aware method.
func (in *Instrumentation) RecordValue(ctx context.Context, metric string, value float64, operation, status string) {
	if in.Metrics == nil {
		return
	}

	labels := map[string]string{SpanAttrOperation: operation, labelStatus: status}

	if contextual, ok := in.Metrics.(observability.ContextualMetricsCollector); ok {
		contextual.RecordValueContext(ctx, metric, value, labels)
		return
	}

	in.Metrics.RecordValue(metric, value, labels)
}

// RecordError increments the error counter for the operation.
func (in *Instrumentation) RecordError(ctx context.Context, operation, errorType string) {
	if in.Metrics == nil || in.ErrorsMetric == "" {
		return
	}

	labels := map[string]string{SpanAttrOperation: operation, labelStatus: StatusError, SpanAttrErrorType: errorType}

	if contextual, ok := in.Metrics.(observability.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, in.ErrorsMetric, labels)
		return
	}

	in.Metrics.IncrementCounter(in.ErrorsMetric, labels)
}

// StartSpan starts a tracing span if the tracing collector is configured.
func (in *Instrumentation) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, *Span) {
	if in.Tracing == nil {
		return ctx, &Span{}
	}

	spanCtx, span := in.Tracing.StartSpan(ctx, name, attrs)

	return spanCtx, &Span{tracing: in.Tracing, span: span}
}

// Span encapsulates the lifecycle of one tracing span. A Span without collector is a no-op.
type Span struct {
	tracing observability.TracingCollector
	span    observability.SpanContext
}

// FinishSuccess completes the span successfully with additional attributes.
func (s *Span) FinishSuccess(duration time.Duration, attrs map[string]string) {
	s.finish(StatusSuccess, duration, attrs)
}

// FinishError completes the span with error details.
func (s *Span) FinishError(errorType string, duration time.Duration) {
	s.finish(StatusError, duration, map[string]string{SpanAttrErrorType: errorType})
}

func (s *Span) finish(status string, duration time.Duration, attrs map[string]string) {
	if s.tracing == nil || s.span == nil {
		return
	}

	s.span.SetStatus(status)

	allAttrs := make(map[string]string, len(attrs)+1)
	for key, value := range attrs {
		allAttrs[key] = value
	}

	if duration > 0 {
		allAttrs[SpanAttrDurationMS] = fmt.Sprintf("%.2f", ToMilliseconds(duration))
	}

	s.tracing.FinishSpan(s.span, status, allAttrs)
}

// ToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func ToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// ErrorType maps an error to a short label for metrics and spans.
func ErrorType(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, context.Canceled):
		return "context_canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "context_deadline_exceeded"
	default:
		return "other"
	}
}
