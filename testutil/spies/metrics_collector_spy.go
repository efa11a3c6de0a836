package spies

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/AntonStoeckl/dynamic-query-go/observability"
)

const (
	MetricKindDuration = "duration"
	MetricKindCounter  = "counter"
	MetricKindValue    = "value"

	labelStatus    = "status"
	labelErrorType = "error_type"
)

// MetricRecord is one captured measurement. Durations are stored in seconds, counters as 1.
type MetricRecord struct {
	Kind   string
	Metric string
	Value  float64
	Labels map[string]string
}

// MetricsCollectorSpy captures the measurements of the query repository and the fixture engine.
type MetricsCollectorSpy struct {
	mu          sync.Mutex
	records     []MetricRecord
	recordCalls bool
}

// NewMetricsCollectorSpy creates a spy; with recordCalls false it only satisfies the interface.
func NewMetricsCollectorSpy(recordCalls bool) *MetricsCollectorSpy {
	return &MetricsCollectorSpy{recordCalls: recordCalls}
}

func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.record(MetricKindDuration, metric, duration.Seconds(), labels)
}

func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.record(MetricKindCounter, metric, 1, labels)
}

func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.record(MetricKindValue, metric, value, labels)
}

func (s *MetricsCollectorSpy) record(kind, metric string, value float64, labels map[string]string) {
	if !s.recordCalls {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, MetricRecord{Kind: kind, Metric: metric, Value: value, Labels: maps.Clone(labels)})
}

// Records returns a copy of all captured measurements.
func (s *MetricsCollectorSpy) Records() []MetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.records)
}

// HasDurationRecordWithStatus checks for a duration of the metric labeled with the status.
func (s *MetricsCollectorSpy) HasDurationRecordWithStatus(metric, status string) bool {
	return s.has(func(r MetricRecord) bool {
		return r.Kind == MetricKindDuration && r.Metric == metric && r.Labels[labelStatus] == status
	})
}

// HasCounterRecordWithErrorType checks for an increment of the metric labeled with the error type.
func (s *MetricsCollectorSpy) HasCounterRecordWithErrorType(metric, errorType string) bool {
	return s.has(func(r MetricRecord) bool {
		return r.Kind == MetricKindCounter && r.Metric == metric && r.Labels[labelErrorType] == errorType
	})
}

// HasValueRecord checks for a value of the metric.
func (s *MetricsCollectorSpy) HasValueRecord(metric string, value float64) bool {
	return s.has(func(r MetricRecord) bool {
		return r.Kind == MetricKindValue && r.Metric == metric && r.Value == value
	})
}

func (s *MetricsCollectorSpy) has(match func(MetricRecord) bool) bool {
	return slices.ContainsFunc(s.Records(), match)
}

var _ observability.MetricsCollector = (*MetricsCollectorSpy)(nil)
