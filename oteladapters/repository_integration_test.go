package oteladapters_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/AntonStoeckl/dynamic-query-go/oteladapters"
	"github.com/AntonStoeckl/dynamic-query-go/query"
	"github.com/AntonStoeckl/dynamic-query-go/query/memstore"
	"github.com/AntonStoeckl/dynamic-query-go/testutil/records"
)

func Test_Repository_WithOpenTelemetry(t *testing.T) {
	// setup
	reader := sdkmetric.NewManualReader()
	meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	exporter := tracetest.NewInMemoryExporter()
	tracerProvider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	var logs bytes.Buffer
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(slog.NewJSONHandler(&logs, nil))

	repository, err := query.NewRepository[records.Product](
		memstore.New(records.Products()...),
		records.ProductFields(),
		query.WithContextualLogger(logger),
		query.WithMetrics(oteladapters.NewMetricsCollector(meterProvider.Meter("dynquery"))),
		query.WithTracing(oteladapters.NewTracingCollector(tracerProvider.Tracer("dynquery"))),
	)
	require.NoError(t, err)

	// act
	_, err = repository.GetManyAndCount(context.Background(), "search=CFE", "name")
	require.NoError(t, err)
	_, err = repository.GetManyAndCount(context.Background(), "filter=weight:eq:1", "name")
	require.Error(t, err)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "dynquery.get_many_and_count", spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
	assert.Equal(t, codes.Error, spans[1].Status.Code)

	resourceMetrics := collect(t, reader)
	findMetric(t, resourceMetrics, "dynquery_query_duration_seconds")
	findMetric(t, resourceMetrics, "dynquery_errors_total")

	assert.Contains(t, logs.String(), "paged query executed")
}
