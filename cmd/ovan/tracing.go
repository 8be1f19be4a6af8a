package main

import (
	"context"
	"log/slog"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// logSpans writes every finished span to the logger at debug level.
type logSpans struct {
	logger *slog.Logger
}

func (l logSpans) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

func (l logSpans) OnEnd(s sdktrace.ReadOnlySpan) {
	attrs := []any{
		"span", s.Name(),
		"trace_id", s.SpanContext().TraceID().String(),
		"duration", s.EndTime().Sub(s.StartTime()),
		"status", s.Status().Code.String(),
	}
	for _, kv := range s.Attributes() {
		attrs = append(attrs, string(kv.Key), kv.Value.Emit())
	}
	l.logger.Debug("span", attrs...)
}

func (l logSpans) Shutdown(context.Context) error   { return nil }
func (l logSpans) ForceFlush(context.Context) error { return nil }

func newTracerProvider(logger *slog.Logger) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithSpanProcessor(logSpans{logger: logger.With("component", "trace")}),
	)
}
