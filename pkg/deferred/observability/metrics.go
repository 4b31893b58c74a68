package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records deferred-link metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordLink records a link wiring attempt and whether it conflicted
	// with an earlier write.
	RecordLink(ctx context.Context, nodeID string, err error)

	// RecordUpgrade records a weak-to-strong upgrade attempt on a set slot.
	RecordUpgrade(ctx context.Context, ok bool)

	// RecordPoolSize adjusts the live-node gauge by delta (+1 add, -1 release).
	RecordPoolSize(ctx context.Context, delta int64)

	// RecordBuild records a topology build completion.
	RecordBuild(ctx context.Context, success bool, duration time.Duration)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	linkSets        metric.Int64Counter
	linkConflicts   metric.Int64Counter
	upgradeAttempts metric.Int64Counter
	upgradeFailures metric.Int64Counter
	poolNodes       metric.Int64UpDownCounter
	builds          metric.Int64Counter
	buildLatency    metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("deferred")

	linkSets, err := meter.Int64Counter("deferred.link.sets",
		metric.WithDescription("Number of link wiring attempts"),
	)
	if err != nil {
		return nil, err
	}

	linkConflicts, err := meter.Int64Counter("deferred.link.conflicts",
		metric.WithDescription("Number of wiring attempts rejected by the write-once invariant"),
	)
	if err != nil {
		return nil, err
	}

	upgradeAttempts, err := meter.Int64Counter("deferred.upgrade.attempts",
		metric.WithDescription("Number of weak-to-strong upgrade attempts"),
	)
	if err != nil {
		return nil, err
	}

	upgradeFailures, err := meter.Int64Counter("deferred.upgrade.failures",
		metric.WithDescription("Number of upgrades that found the target released"),
	)
	if err != nil {
		return nil, err
	}

	poolNodes, err := meter.Int64UpDownCounter("deferred.pool.nodes",
		metric.WithDescription("Number of nodes currently owned by pools"),
	)
	if err != nil {
		return nil, err
	}

	builds, err := meter.Int64Counter("deferred.builds",
		metric.WithDescription("Number of topology builds"),
	)
	if err != nil {
		return nil, err
	}

	buildLatency, err := meter.Float64Histogram("deferred.build.latency_ms",
		metric.WithDescription("Topology build latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		linkSets:        linkSets,
		linkConflicts:   linkConflicts,
		upgradeAttempts: upgradeAttempts,
		upgradeFailures: upgradeFailures,
		poolNodes:       poolNodes,
		builds:          builds,
		buildLatency:    buildLatency,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordLink records a link wiring attempt.
func (m *otelMetrics) RecordLink(ctx context.Context, nodeID string, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("node_id", nodeID),
	}

	m.linkSets.Add(ctx, 1, metric.WithAttributes(attrs...))
	if err != nil {
		m.linkConflicts.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordUpgrade records an upgrade attempt.
func (m *otelMetrics) RecordUpgrade(ctx context.Context, ok bool) {
	m.upgradeAttempts.Add(ctx, 1)
	if !ok {
		m.upgradeFailures.Add(ctx, 1)
	}
}

// RecordPoolSize adjusts the live-node gauge.
func (m *otelMetrics) RecordPoolSize(ctx context.Context, delta int64) {
	m.poolNodes.Add(ctx, delta)
}

// RecordBuild records a topology build.
func (m *otelMetrics) RecordBuild(ctx context.Context, success bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.Bool("success", success),
	}
	m.builds.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.buildLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}
