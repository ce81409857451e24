package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"chatty":  slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := WithComponent(New(&buf, FormatJSON, "info"), "api")

	logger.Debug("hidden")
	WithRequestID(logger, "req-1").Info("visible", "clips", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "visible", rec["msg"])
	assert.Equal(t, "api", rec["component"])
	assert.Equal(t, "req-1", rec["request_id"])
	assert.Equal(t, float64(3), rec["clips"])
}

func TestNew_TextDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := WithSessionID(New(&buf, "xml", "debug"), "s-1")

	logger.Debug("journaled")

	assert.Contains(t, buf.String(), "msg=journaled")
	assert.Contains(t, buf.String(), "session_id=s-1")
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { Discard().Error("nothing") })
}
