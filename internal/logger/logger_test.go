package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("json format", func(t *testing.T) {
		// given
		var buf bytes.Buffer
		l := New(&buf, "info", "json")

		// when
		l.Info("catalogue refreshed", slog.Int("products", 12), slog.String("source", "csv"))

		// then
		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "output: %s", buf.String())
		assert.Equal(t, "catalogue refreshed", entry["msg"])
		assert.Equal(t, float64(12), entry["products"])
		assert.Equal(t, "csv", entry["source"])
		assert.Equal(t, "INFO", entry["level"])
		assert.Contains(t, entry, "time")
	})

	t.Run("text format", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, "info", "TEXT")

		l.Info("hello", slog.String("k", "v"))

		assert.True(t, strings.Contains(buf.String(), "msg=hello"), buf.String())
		assert.Contains(t, buf.String(), "k=v")
	})

	t.Run("level filters lower records", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, "warn", "json")

		l.Info("dropped")
		assert.Empty(t, buf.String())

		l.Warn("kept")
		assert.Contains(t, buf.String(), "kept")
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run("ParseLevel_"+tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(New(&buf, "info", "json"))
	t.Cleanup(func() { slog.SetDefault(prev) })

	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Empty(t, RequestID(context.Background()))

	FromContext(ctx).Info("inquiry")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-1", entry["request_id"])
}
