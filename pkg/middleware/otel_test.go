package middleware

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/vango-dev/ovan/pkg/overlay"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newRecorder(t *testing.T) (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return sr, tp
}

func spanNamed(spans []sdktrace.ReadOnlySpan, name string) sdktrace.ReadOnlySpan {
	for _, s := range spans {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

func spanAttr(s sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range s.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestOpenTelemetry_SpanPerDispatch(t *testing.T) {
	sr, tp := newRecorder(t)

	var inner trace.Span
	spanCheck := overlay.MiddlewareFunc(func(dc *overlay.DispatchContext, next func() error) error {
		if dc.Action.Type == overlay.ActionAdd {
			inner = SpanFromContext(dc)
		}
		return next()
	})

	sys, p := mountSystem(t, "o",
		OpenTelemetry(
			WithTracerProvider(tp),
			WithAttributeExtractor(func(*overlay.DispatchContext) []attribute.KeyValue {
				return []attribute.KeyValue{attribute.String("test.attr", "ok")}
			}),
		),
		spanCheck,
	)
	openAndFlush(t, sys, p, "a")

	if inner == nil {
		t.Fatal("expected SpanFromContext to return a span inside the chain")
	}

	spans := sr.Ended()
	add := spanNamed(spans, "ovan.ADD")
	if add == nil {
		t.Fatalf("no ovan.ADD span among %d spans", len(spans))
	}
	if add.SpanContext().SpanID() != inner.SpanContext().SpanID() {
		t.Error("inner middleware saw a different span")
	}
	if add.Status().Code != codes.Ok {
		t.Errorf("status = %v, want Ok", add.Status().Code)
	}

	checks := map[string]string{
		"ovan.namespace":  sys.Prefix(),
		"ovan.action":     "ADD",
		"ovan.overlay_id": "a",
		"ovan.current":    "a",
		"test.attr":       "ok",
	}
	for key, want := range checks {
		v, ok := spanAttr(add, key)
		if !ok || v.AsString() != want {
			t.Errorf("attribute %s = %v, want %q", key, v.Emit(), want)
		}
	}
	if v, ok := spanAttr(add, "ovan.changed"); !ok || !v.AsBool() {
		t.Error("ovan.changed should be true")
	}

	if spanNamed(spans, "ovan.OPEN") == nil {
		t.Error("deferred OPEN was not traced")
	}
}

func TestOpenTelemetry_RecordsErrors(t *testing.T) {
	sr, tp := newRecorder(t)
	mw := OpenTelemetry(WithTracerProvider(tp))

	boom := stderrors.New("boom")
	dc := &overlay.DispatchContext{
		Ctx:       context.Background(),
		Namespace: "x/ovan",
		Action:    overlay.Close("a"),
	}
	err := mw.Handle(dc, func() error { return boom })
	if !stderrors.Is(err, boom) {
		t.Fatalf("expected error %v, got %v", boom, err)
	}
	if dc.Ctx != context.Background() {
		t.Error("dispatch context should be restored after the span ends")
	}

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Status().Code != codes.Error || spans[0].Status().Description != "boom" {
		t.Errorf("status = %+v", spans[0].Status())
	}
	if len(spans[0].Events()) == 0 {
		t.Error("expected the error to be recorded as an event")
	}
}

func TestOpenTelemetry_FilterSkipsTracing(t *testing.T) {
	sr, tp := newRecorder(t)
	mw := OpenTelemetry(
		WithTracerProvider(tp),
		WithActionFilter(func(dc *overlay.DispatchContext) bool {
			return dc.Action.Type != overlay.ActionClose
		}),
	)

	nextCalled := false
	dc := &overlay.DispatchContext{Ctx: context.Background(), Action: overlay.Close("a")}
	if err := mw.Handle(dc, func() error { nextCalled = true; return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !nextCalled {
		t.Error("filtered action must still reach the registry")
	}
	if len(sr.Ended()) != 0 {
		t.Error("filtered action was traced")
	}
}

func TestSpanFromContext_Untraced(t *testing.T) {
	if SpanFromContext(nil) != nil {
		t.Error("nil dispatch context should have no span")
	}
	if SpanFromContext(&overlay.DispatchContext{Ctx: context.Background()}) != nil {
		t.Error("untraced dispatch should have no span")
	}
}
