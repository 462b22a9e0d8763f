package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProductionUsesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Environment: "production", Level: slog.LevelInfo})

	log.Info("task created", "user_id", int64(1), "task_id", int64(9))

	out := buf.String()
	assert.Contains(t, out, `"msg":"task created"`)
	assert.Contains(t, out, `"level":"INFO"`)
	assert.Contains(t, out, `"task_id":9`)
}

func TestNew_DevelopmentUsesPretty(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Environment: "development", Level: slog.LevelInfo})

	log.Info("server started", "port", 8080)

	out := buf.String()
	assert.Contains(t, out, "INF")
	assert.Contains(t, out, "server started")
	assert.Contains(t, out, "port=8080")
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: "json", Level: slog.LevelWarn})

	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_RedactsSensitiveKeys(t *testing.T) {
	for _, format := range []string{"json", "pretty"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(Config{Writer: &buf, Format: format, Level: slog.LevelInfo})

			log.Info("login", "username", "alice", "password", "hunter2", "access_token", "v4.local.abc")

			out := buf.String()
			assert.Contains(t, out, "alice")
			assert.NotContains(t, out, "hunter2")
			assert.NotContains(t, out, "v4.local.abc")
			assert.Contains(t, out, redacted)
		})
	}
}

func TestPrettyHandler_GroupsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: "pretty", Level: slog.LevelDebug})

	log.With("component", "api").WithGroup("req").Debug("handled", "status", 200)

	out := buf.String()
	assert.Contains(t, out, "DBG")
	assert.Contains(t, out, "component=api")
	assert.Contains(t, out, "req.status=200")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestLogger_WithError(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: "json", Level: slog.LevelInfo})

	log.WithError(errors.New("boom")).WithField("media_id", 4).Warn("rebind failed")

	out := buf.String()
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, `"media_id":4`)
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { Discard().Info("nothing") })
}
