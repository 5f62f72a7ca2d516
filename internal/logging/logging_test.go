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
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		" WARN ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), "level %q", in)
	}
}

func TestNew_ErrorCarriesStackTrace(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "INFO")

	logger.Error("boom", "project_id", "p1")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "boom", rec["msg"])
	assert.Equal(t, "p1", rec["project_id"])
	assert.Contains(t, rec["stacktrace"], "goroutine")
}

func TestNew_InfoHasNoStackTrace(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "DEBUG").With("component", "test")

	logger.Info("hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "test", rec["component"])
	_, ok := rec["stacktrace"]
	assert.False(t, ok)
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "WARN")

	logger.Info("quiet")

	assert.Zero(t, buf.Len())
}
