package topology

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/deferred/pkg/deferred/graph"
	"github.com/randalmurphal/deferred/pkg/deferred/observability"
)

// buildConfig holds configuration for a topology build.
type buildConfig struct {
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// defaultBuildConfig returns the default build configuration.
func defaultBuildConfig() buildConfig {
	return buildConfig{
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

// BuildOption configures a topology build.
type BuildOption func(*buildConfig)

// WithLogger sets a structured logger for build progress.
// Default: no logging.
func WithLogger(logger *slog.Logger) BuildOption {
	return func(c *buildConfig) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder for build counters.
// Default: observability.NoopMetrics.
func WithMetrics(m observability.MetricsRecorder) BuildOption {
	return func(c *buildConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithTracing enables OpenTelemetry spans around the build.
// Default: disabled.
func WithTracing(enabled bool) BuildOption {
	return func(c *buildConfig) {
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}

// Build materializes a topology document into the given pool: validate,
// add every declared node with empty slots, then wire every link through
// write-only setter views.
//
// The values function supplies each node's payload from its spec. Node IDs
// in the pool are the document's IDs, so a document can only be built once
// into a given pool.
//
// On error the pool may hold a partially built topology; the caller decides
// whether to release it. No link is ever silently rewired.
func Build[T any](ctx context.Context, spec Spec, pool *graph.Pool[T], values func(NodeSpec) T, opts ...BuildOption) error {
	cfg := defaultBuildConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	done := observability.TimedOperation()
	ctx, span := cfg.spans.StartBuildSpan(ctx, spec.Name)
	observability.LogBuildStart(cfg.logger, spec.Name)

	err := build(ctx, spec, pool, values, cfg)

	durationMs := done()
	cfg.metrics.RecordBuild(ctx, err == nil, time.Duration(durationMs*float64(time.Millisecond)))
	cfg.spans.EndSpanWithError(span, err)
	if err != nil {
		observability.LogBuildError(cfg.logger, spec.Name, err, durationMs)
		return err
	}

	observability.LogBuildComplete(cfg.logger, spec.Name, durationMs, len(spec.Nodes), len(spec.Links))
	return nil
}

// build runs the two construction phases.
func build[T any](ctx context.Context, spec Spec, pool *graph.Pool[T], values func(NodeSpec) T, cfg buildConfig) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	// Phase 1: all nodes exist before any link is wired.
	degrees := spec.degrees()
	for _, ns := range spec.Nodes {
		if _, err := pool.AddNamed(ctx, ns.ID, values(ns), degrees[ns.ID]); err != nil {
			return err
		}
	}

	// Phase 2: wire links; every endpoint is guaranteed to exist.
	for _, l := range spec.Links {
		if err := pool.Link(ctx, l.From, l.Slot, l.To); err != nil {
			return err
		}
		cfg.spans.AddSpanEvent(ctx, "link",
			attribute.String("from", l.From),
			attribute.Int("slot", l.Slot),
			attribute.String("to", l.To),
		)
	}

	return nil
}
