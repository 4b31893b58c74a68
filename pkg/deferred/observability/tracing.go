package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the deferred tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("deferred")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartBuildSpan starts a span for an entire topology build.
	// Returns the context with span and the span itself.
	StartBuildSpan(ctx context.Context, topology string) (context.Context, trace.Span)

	// StartLinkSpan starts a span for wiring one link.
	// The link span should be a child of the build span.
	StartLinkSpan(ctx context.Context, from string, slot int, to string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartBuildSpan starts a span for an entire topology build.
func (m *otelSpanManager) StartBuildSpan(ctx context.Context, topology string) (context.Context, trace.Span) {
	return StartBuildSpan(ctx, topology)
}

// StartLinkSpan starts a span for wiring one link.
func (m *otelSpanManager) StartLinkSpan(ctx context.Context, from string, slot int, to string) (context.Context, trace.Span) {
	return StartLinkSpan(ctx, from, slot, to)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	EndSpanWithError(span, err)
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	AddSpanEvent(ctx, name, attrs...)
}

// Convenience functions that operate on the global tracer.
// These are useful for simple cases where you don't need the interface.

// StartBuildSpan starts a span for an entire topology build.
// Uses the global OTel tracer.
func StartBuildSpan(ctx context.Context, topology string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "deferred.build",
		trace.WithAttributes(
			attribute.String("topology", topology),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartLinkSpan starts a span for wiring one link.
// Uses the global OTel tracer.
func StartLinkSpan(ctx context.Context, from string, slot int, to string) (context.Context, trace.Span) {
	return tracer.Start(ctx, fmt.Sprintf("deferred.link.%s.%d", from, slot),
		trace.WithAttributes(
			attribute.String("link.from", from),
			attribute.Int("link.slot", slot),
			attribute.String("link.to", to),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span in context.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
