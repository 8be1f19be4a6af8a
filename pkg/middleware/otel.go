package middleware

import (
	"context"

	"github.com/vango-dev/ovan/pkg/overlay"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "github.com/vango-dev/ovan"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer.
	TracerName string

	// TracerProvider supplies the tracer. Default: the global provider.
	TracerProvider trace.TracerProvider

	// Filter determines which actions to trace. If nil, all are traced.
	Filter func(dc *overlay.DispatchContext) bool

	// AttributeExtractor adds custom attributes to each span.
	AttributeExtractor func(dc *overlay.DispatchContext) []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithActionFilter sets a filter function for actions.
func WithActionFilter(filter func(dc *overlay.DispatchContext) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(dc *overlay.DispatchContext) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: defaultTracerName,
	}
}

// OpenTelemetry creates middleware that traces every dispatch.
//
// Spans are named "ovan.<ACTION>" and carry the system prefix, the target
// overlay and, once the action has been applied, whether the registry
// changed, the overlay count and the current overlay. Errors are recorded
// on the span.
func OpenTelemetry(opts ...OTelOption) overlay.Middleware {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}
	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	tracer := tp.Tracer(config.TracerName)

	return overlay.MiddlewareFunc(func(dc *overlay.DispatchContext, next func() error) error {
		if config.Filter != nil && !config.Filter(dc) {
			return next()
		}

		attrs := []attribute.KeyValue{
			attribute.String("ovan.namespace", dc.Namespace),
			attribute.String("ovan.action", dc.Action.Type.String()),
		}
		if target := dc.Action.Target(); target != "" {
			attrs = append(attrs, attribute.String("ovan.overlay_id", target))
		}
		if dc.Action.Type == overlay.ActionAdd && dc.Action.Item.SlotID != "" {
			attrs = append(attrs, attribute.String("ovan.slot_id", dc.Action.Item.SlotID))
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(dc)...)
		}

		parent := dc.Ctx
		if parent == nil {
			parent = context.Background()
		}
		spanCtx, span := tracer.Start(parent, "ovan."+dc.Action.Type.String(),
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attrs...),
		)
		defer span.End()

		dc.Ctx = spanCtx
		err := next()
		dc.Ctx = parent

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		span.SetStatus(codes.Ok, "")
		span.SetAttributes(attribute.Bool("ovan.changed", dc.Changed()))
		if dc.Next != nil {
			span.SetAttributes(
				attribute.Int("ovan.overlay_count", dc.Next.Len()),
				attribute.String("ovan.current", dc.Next.Current),
			)
		}
		return nil
	})
}

// SpanFromContext returns the dispatch span, or nil outside a traced dispatch.
func SpanFromContext(dc *overlay.DispatchContext) trace.Span {
	if dc == nil || dc.Ctx == nil {
		return nil
	}
	span := trace.SpanFromContext(dc.Ctx)
	if !span.SpanContext().IsValid() {
		return nil
	}
	return span
}
