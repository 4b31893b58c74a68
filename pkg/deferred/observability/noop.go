package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that does nothing.
// Use when metrics are disabled to avoid overhead.
type NoopMetrics struct{}

// Compile-time interface check.
var _ MetricsRecorder = NoopMetrics{}

// RecordLink does nothing.
func (NoopMetrics) RecordLink(_ context.Context, _ string, _ error) {}

// RecordUpgrade does nothing.
func (NoopMetrics) RecordUpgrade(_ context.Context, _ bool) {}

// RecordPoolSize does nothing.
func (NoopMetrics) RecordPoolSize(_ context.Context, _ int64) {}

// RecordBuild does nothing.
func (NoopMetrics) RecordBuild(_ context.Context, _ bool, _ time.Duration) {}

// NoopSpanManager is a SpanManager that does nothing.
// Use when tracing is disabled to avoid overhead.
type NoopSpanManager struct{}

// Compile-time interface check.
var _ SpanManager = NoopSpanManager{}

// noopSpan is a span that does nothing.
// We use the OTel noop package for a proper no-op span implementation.
var noopSpan = noop.Span{}

// StartBuildSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartBuildSpan(ctx context.Context, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// StartLinkSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartLinkSpan(ctx context.Context, _ string, _ int, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// EndSpanWithError does nothing.
func (NoopSpanManager) EndSpanWithError(_ trace.Span, _ error) {}

// AddSpanEvent does nothing.
func (NoopSpanManager) AddSpanEvent(_ context.Context, _ string, _ ...attribute.KeyValue) {}
