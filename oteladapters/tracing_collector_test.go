package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/AntonStoeckl/dynamic-query-go/oteladapters"
)

func newTracingCollector() (*oteladapters.TracingCollector, *tracetest.InMemoryExporter) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	return oteladapters.NewTracingCollector(provider.Tracer("test")), exporter
}

func spanAttribute(span tracetest.SpanStub, key string) (string, bool) {
	for _, attr := range span.Attributes {
		if string(attr.Key) == key {
			return attr.Value.AsString(), true
		}
	}

	return "", false
}

func Test_TracingCollector_StartAndFinishSpan(t *testing.T) {
	// setup
	collector, exporter := newTracingCollector()

	// act
	_, spanCtx := collector.StartSpan(context.Background(), "fixture.seed_database", map[string]string{
		"operation":         "seed_database",
		"constraint_toggle": "sqlite-deferred-foreign-keys",
	})
	spanCtx.AddAttribute("table_count", "2")
	collector.FinishSpan(spanCtx, "success", map[string]string{"duration_ms": "1.50"})

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "fixture.seed_database", spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)

	for key, expected := range map[string]string{
		"operation":         "seed_database",
		"constraint_toggle": "sqlite-deferred-foreign-keys",
		"table_count":       "2",
		"duration_ms":       "1.50",
	} {
		value, found := spanAttribute(spans[0], key)
		assert.True(t, found, key)
		assert.Equal(t, expected, value, key)
	}
}

func Test_TracingCollector_StatusMapping(t *testing.T) {
	tests := []struct {
		name                string
		status              string
		expectedCode        codes.Code
		expectedDescription string
	}{
		{name: "success", status: "success", expectedCode: codes.Ok},
		{name: "error", status: "error", expectedCode: codes.Error, expectedDescription: "operation failed"},
		{name: "bad request", status: "bad_request", expectedCode: codes.Error, expectedDescription: "invalid query"},
		{name: "canceled", status: "canceled", expectedCode: codes.Error, expectedDescription: "operation canceled"},
		{name: "timeout", status: "timeout", expectedCode: codes.Error, expectedDescription: "operation timed out"},
		{name: "unknown", status: "partial", expectedCode: codes.Unset},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// setup
			collector, exporter := newTracingCollector()

			// act
			_, spanCtx := collector.StartSpan(context.Background(), "dynquery.get_many_and_count", nil)
			collector.FinishSpan(spanCtx, tc.status, nil)

			// assert
			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, tc.expectedCode, spans[0].Status.Code)
			assert.Equal(t, tc.expectedDescription, spans[0].Status.Description)
		})
	}
}

func Test_TracingCollector_UnknownStatusIsKeptAsAttribute(t *testing.T) {
	// setup
	collector, exporter := newTracingCollector()

	// act
	_, spanCtx := collector.StartSpan(context.Background(), "fixture.clear_database", nil)
	collector.FinishSpan(spanCtx, "partial", nil)

	// assert
	value, found := spanAttribute(exporter.GetSpans()[0], "status")
	assert.True(t, found)
	assert.Equal(t, "partial", value)
}

func Test_TracingCollector_ContextPropagation(t *testing.T) {
	// setup
	collector, exporter := newTracingCollector()

	// act
	parentCtx, parent := collector.StartSpan(context.Background(), "scenario.run", nil)
	_, child := collector.StartSpan(parentCtx, "fixture.get_data_set", nil)
	collector.FinishSpan(child, "success", nil)
	collector.FinishSpan(parent, "success", nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[1].SpanContext.TraceID(), spans[0].SpanContext.TraceID())
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
}

func Test_TracingCollector_ForeignSpanContextIsIgnored(t *testing.T) {
	// setup
	collector, exporter := newTracingCollector()

	// act + assert
	assert.NotPanics(t, func() {
		collector.FinishSpan(foreignSpanContext{}, "success", nil)
		collector.FinishSpan(nil, "success", nil)
	})
	assert.Empty(t, exporter.GetSpans())
}

type foreignSpanContext struct{}

func (foreignSpanContext) SetStatus(string)            {}
func (foreignSpanContext) AddAttribute(string, string) {}
