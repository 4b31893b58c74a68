// Package observability provides production-grade observability features
// for deferred pools and topology builds: structured logging, metrics, and
// distributed tracing.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds link context to a logger.
// Returns a new logger with topology and node_id fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "compass", "node-a1b2c3d4")
//	enriched.Info("wiring") // includes topology, node_id
func EnrichLogger(logger *slog.Logger, topology, nodeID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("topology", topology),
		slog.String("node_id", nodeID),
	)
}

// LogBuildStart logs the start of a topology build.
func LogBuildStart(logger *slog.Logger, topology string) {
	if logger == nil {
		return
	}
	logger.Info("topology build starting",
		slog.String("topology", topology),
	)
}

// LogBuildComplete logs successful topology build completion.
func LogBuildComplete(logger *slog.Logger, topology string, durationMs float64, nodes, links int) {
	if logger == nil {
		return
	}
	logger.Info("topology build completed",
		slog.String("topology", topology),
		slog.Float64("duration_ms", durationMs),
		slog.Int("nodes_added", nodes),
		slog.Int("links_wired", links),
	)
}

// LogBuildError logs topology build failure.
func LogBuildError(logger *slog.Logger, topology string, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Error("topology build failed",
		slog.String("topology", topology),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogNodeAdded logs node admission into a pool.
func LogNodeAdded(logger *slog.Logger, nodeID string, degree int) {
	if logger == nil {
		return
	}
	logger.Debug("node added",
		slog.String("node_id", nodeID),
		slog.Int("degree", degree),
	)
}

// LogNodeReleased logs the release of a pool's ownership of a node.
func LogNodeReleased(logger *slog.Logger, nodeID string) {
	if logger == nil {
		return
	}
	logger.Debug("node released",
		slog.String("node_id", nodeID),
	)
}

// LogLink logs a successful link wiring.
func LogLink(logger *slog.Logger, from string, slot int, to string) {
	if logger == nil {
		return
	}
	logger.Debug("link wired",
		slog.String("from", from),
		slog.Int("slot", slot),
		slog.String("to", to),
	)
}

// LogLinkConflict logs a rejected duplicate wiring attempt.
func LogLinkConflict(logger *slog.Logger, from string, slot int, to string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("link conflict",
		slog.String("from", from),
		slog.Int("slot", slot),
		slog.String("to", to),
		slog.String("error", err.Error()),
	)
}

// LogUpgradeFailure logs a failed weak-to-strong upgrade during traversal.
func LogUpgradeFailure(logger *slog.Logger, nodeID string, err error) {
	if logger == nil {
		return
	}
	logger.Debug("upgrade failed",
		slog.String("node_id", nodeID),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
