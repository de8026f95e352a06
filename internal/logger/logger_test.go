package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLogger_DefaultLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(Options{Output: buf})

	l.Info("visible info")
	l.Debug("hidden debug")

	out := buf.String()
	if !strings.Contains(out, "visible info") {
		t.Error("Info message should be logged at default level")
	}

	if strings.Contains(out, "hidden debug") {
		t.Error("Debug message should not be logged at default level")
	}
}

func TestNew_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(Options{Output: buf, JSON: true})

	l.Warn("json message", "count", 3)

	out := buf.String()
	if !strings.Contains(out, `"msg":"json message"`) {
		t.Errorf("expected JSON msg field, got %q", out)
	}

	if !strings.Contains(out, `"count":3`) {
		t.Errorf("expected JSON count attr, got %q", out)
	}
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
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLogger_SetLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(Options{Output: buf, Level: "error"})

	l.Info("dropped")
	l.SetLevel("debug")
	l.Debug("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Error("info should be dropped at error level")
	}

	if !strings.Contains(out, "kept") {
		t.Error("debug should be kept after SetLevel(debug)")
	}
}

func TestLogger_With(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(Options{Output: buf}).With("stage", "enrich")

	l.Log(context.Background(), slog.LevelError, "failed")

	out := buf.String()
	if !strings.Contains(out, "stage=enrich") {
		t.Errorf("expected child attributes, got %q", out)
	}
}
