package spies

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/AntonStoeckl/dynamic-query-go/observability"
)

// SpanRecord is one captured span. Status and EndAttributes stay empty until the span is finished.
type SpanRecord struct {
	Name            string
	StartAttributes map[string]string
	Status          string
	EndAttributes   map[string]string
}

// spySpan is the handle given to the instrumented code; id points into the spy's records.
type spySpan struct {
	spy *TracingCollectorSpy
	id  int
}

func (sp spySpan) SetStatus(status string) {
	sp.spy.update(sp.id, func(r *SpanRecord) { r.Status = status })
}

func (sp spySpan) AddAttribute(key, value string) {
	sp.spy.update(sp.id, func(r *SpanRecord) { r.EndAttributes[key] = value })
}

// TracingCollectorSpy captures the spans of the query repository and the fixture engine.
type TracingCollectorSpy struct {
	mu          sync.Mutex
	spans       []SpanRecord
	recordCalls bool
}

// NewTracingCollectorSpy creates a spy; with recordCalls false it hands out no spans.
func NewTracingCollectorSpy(recordCalls bool) *TracingCollectorSpy {
	return &TracingCollectorSpy{recordCalls: recordCalls}
}

func (s *TracingCollectorSpy) StartSpan(
	ctx context.Context,
	name string,
	attrs map[string]string,
) (context.Context, observability.SpanContext) {

	if !s.recordCalls {
		return ctx, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.spans = append(s.spans, SpanRecord{
		Name:            name,
		StartAttributes: maps.Clone(attrs),
		EndAttributes:   make(map[string]string),
	})

	return ctx, spySpan{spy: s, id: len(s.spans) - 1}
}

func (s *TracingCollectorSpy) FinishSpan(spanCtx observability.SpanContext, status string, attrs map[string]string) {
	span, ok := spanCtx.(spySpan)
	if !ok || span.spy != s {
		return
	}

	s.update(span.id, func(r *SpanRecord) {
		r.Status = status
		maps.Copy(r.EndAttributes, attrs)
	})
}

func (s *TracingCollectorSpy) update(id int, change func(r *SpanRecord)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	change(&s.spans[id])
}

// Spans returns a copy of all captured spans.
func (s *TracingCollectorSpy) Spans() []SpanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.spans)
}

// HasSpanWithStatus checks for a finished span with the name and status.
func (s *TracingCollectorSpy) HasSpanWithStatus(name, status string) bool {
	return slices.ContainsFunc(s.Spans(), func(r SpanRecord) bool {
		return r.Name == name && r.Status == status
	})
}

var _ observability.TracingCollector = (*TracingCollectorSpy)(nil)
