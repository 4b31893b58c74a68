package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHandler captures log records for testing.
type testHandler struct {
	buf    *bytes.Buffer
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

func newTestHandler() *testHandler {
	return &testHandler{
		buf:   &bytes.Buffer{},
		level: slog.LevelDebug,
	}
}

func (h *testHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *testHandler) Handle(_ context.Context, r slog.Record) error {
	data := map[string]any{
		"level": r.Level.String(),
		"msg":   r.Message,
	}

	for _, attr := range h.attrs {
		data[attr.Key] = attr.Value.Any()
	}

	r.Attrs(func(a slog.Attr) bool {
		data[a.Key] = a.Value.Any()
		return true
	})

	enc := json.NewEncoder(h.buf)
	return enc.Encode(data)
}

func (h *testHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newH := &testHandler{
		buf:    h.buf,
		level:  h.level,
		attrs:  make([]slog.Attr, len(h.attrs)+len(attrs)),
		groups: h.groups,
	}
	copy(newH.attrs, h.attrs)
	copy(newH.attrs[len(h.attrs):], attrs)
	return newH
}

func (h *testHandler) WithGroup(name string) slog.Handler {
	return &testHandler{
		buf:    h.buf,
		level:  h.level,
		attrs:  h.attrs,
		groups: append(h.groups, name),
	}
}

func (h *testHandler) getLastRecord() map[string]any {
	lines := bytes.Split(h.buf.Bytes(), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		if len(lines[i]) > 0 {
			var m map[string]any
			if err := json.Unmarshal(lines[i], &m); err == nil {
				return m
			}
		}
	}
	return nil
}

func TestEnrichLogger(t *testing.T) {
	t.Run("adds topology and node_id", func(t *testing.T) {
		h := newTestHandler()
		logger := slog.New(h)

		enriched := EnrichLogger(logger, "compass", "node-1234")
		enriched.Info("test message")

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "compass", record["topology"])
		assert.Equal(t, "node-1234", record["node_id"])
		assert.Equal(t, "test message", record["msg"])
	})

	t.Run("nil logger returns nil", func(t *testing.T) {
		assert.Nil(t, EnrichLogger(nil, "compass", "node-1234"))
	})
}

func TestLogBuildStart(t *testing.T) {
	t.Run("logs topology at INFO level", func(t *testing.T) {
		h := newTestHandler()
		logger := slog.New(h)

		LogBuildStart(logger, "compass")

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "INFO", record["level"])
		assert.Equal(t, "topology build starting", record["msg"])
		assert.Equal(t, "compass", record["topology"])
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogBuildStart(nil, "compass")
		})
	})
}

func TestLogBuildComplete(t *testing.T) {
	t.Run("logs build counts and duration", func(t *testing.T) {
		h := newTestHandler()
		logger := slog.New(h)

		LogBuildComplete(logger, "compass", 12.5, 5, 16)

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "INFO", record["level"])
		assert.Equal(t, "topology build completed", record["msg"])
		assert.Equal(t, "compass", record["topology"])
		assert.Equal(t, 12.5, record["duration_ms"])
		assert.Equal(t, float64(5), record["nodes_added"])
		assert.Equal(t, float64(16), record["links_wired"])
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogBuildComplete(nil, "compass", 1.0, 1, 1)
		})
	})
}

func TestLogBuildError(t *testing.T) {
	t.Run("logs at ERROR level", func(t *testing.T) {
		h := newTestHandler()
		logger := slog.New(h)

		LogBuildError(logger, "compass", errors.New("unknown endpoint"), 3.0)

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "ERROR", record["level"])
		assert.Equal(t, "topology build failed", record["msg"])
		assert.Equal(t, "unknown endpoint", record["error"])
		assert.Equal(t, 3.0, record["duration_ms"])
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogBuildError(nil, "compass", errors.New("err"), 0)
		})
	})
}

func TestLogNodeLifecycle(t *testing.T) {
	t.Run("added and released log at DEBUG level", func(t *testing.T) {
		h := newTestHandler()
		logger := slog.New(h)

		LogNodeAdded(logger, "node-1234", 3)
		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "DEBUG", record["level"])
		assert.Equal(t, "node added", record["msg"])
		assert.Equal(t, "node-1234", record["node_id"])
		assert.Equal(t, float64(3), record["degree"])

		LogNodeReleased(logger, "node-1234")
		record = h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "node released", record["msg"])
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogNodeAdded(nil, "node", 0)
			LogNodeReleased(nil, "node")
		})
	})
}

func TestLogLink(t *testing.T) {
	t.Run("logs endpoints at DEBUG level", func(t *testing.T) {
		h := newTestHandler()
		logger := slog.New(h)

		LogLink(logger, "a", 2, "b")

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "DEBUG", record["level"])
		assert.Equal(t, "link wired", record["msg"])
		assert.Equal(t, "a", record["from"])
		assert.Equal(t, float64(2), record["slot"])
		assert.Equal(t, "b", record["to"])
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogLink(nil, "a", 0, "b")
		})
	})
}

func TestLogLinkConflict(t *testing.T) {
	t.Run("logs at WARN level", func(t *testing.T) {
		h := newTestHandler()
		logger := slog.New(h)

		LogLinkConflict(logger, "a", 0, "b", errors.New("slot already initialized"))

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "WARN", record["level"])
		assert.Equal(t, "link conflict", record["msg"])
		assert.Equal(t, "slot already initialized", record["error"])
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogLinkConflict(nil, "a", 0, "b", errors.New("err"))
		})
	})
}

func TestLogUpgradeFailure(t *testing.T) {
	t.Run("logs at DEBUG level", func(t *testing.T) {
		h := newTestHandler()
		logger := slog.New(h)

		LogUpgradeFailure(logger, "node-1234", errors.New("target released"))

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "DEBUG", record["level"])
		assert.Equal(t, "upgrade failed", record["msg"])
		assert.Equal(t, "node-1234", record["node_id"])
		assert.Equal(t, "target released", record["error"])
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogUpgradeFailure(nil, "node", errors.New("err"))
		})
	})
}

func TestTimedOperation(t *testing.T) {
	t.Run("measures duration", func(t *testing.T) {
		done := TimedOperation()
		time.Sleep(10 * time.Millisecond)
		duration := done()

		assert.GreaterOrEqual(t, duration, 10.0)
		assert.Less(t, duration, 100.0)
	})

	t.Run("can be called multiple times", func(t *testing.T) {
		done := TimedOperation()
		time.Sleep(5 * time.Millisecond)
		d1 := done()
		time.Sleep(5 * time.Millisecond)
		d2 := done()

		assert.Greater(t, d2, d1)
	})
}
