// Package oteladapters implements the observability interfaces with OpenTelemetry.
//
// Wire them into the query repository, the SQL stores and the fixture engine:
//
//	meter := otel.Meter("dynquery")
//	tracer := otel.Tracer("dynquery")
//
//	repository, err := query.NewRepository(
//		reader,
//		fields,
//		query.WithContextualLogger(oteladapters.NewSlogBridgeLogger("dynquery")),
//		query.WithMetrics(oteladapters.NewMetricsCollector(meter)),
//		query.WithTracing(oteladapters.NewTracingCollector(tracer)),
//	)
//
// The slog bridge correlates log records with the active span of the context.
package oteladapters
