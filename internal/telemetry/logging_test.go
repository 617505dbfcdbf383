package telemetry

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestLogLevel(t *testing.T) {
	tests := []struct {
		env  string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Setenv("LOG_LEVEL", tt.env)
		if got := LogLevel(); got != tt.want {
			t.Errorf("LOG_LEVEL=%q: got %v, want %v", tt.env, got, tt.want)
		}
	}
}

func TestSetupFormats(t *testing.T) {
	var buf bytes.Buffer
	logger := setup(&buf, "json", slog.LevelInfo)
	logger.Info("step", "n", 3)
	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("expected JSON output, got %q", buf.String())
	}

	buf.Reset()
	logger = setup(&buf, "text", slog.LevelInfo)
	logger.Info("step", "n", 3)
	if !strings.Contains(buf.String(), "n=3") {
		t.Errorf("expected text output, got %q", buf.String())
	}
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := WithLogger(context.Background(), WithRunID(logger, "abc"))
	FromContext(ctx).Info("hello")

	if !strings.Contains(buf.String(), "run_id=abc") {
		t.Errorf("run_id missing: %q", buf.String())
	}

	if FromContext(context.Background()) != slog.Default() {
		t.Error("expected default logger without one in context")
	}
}
