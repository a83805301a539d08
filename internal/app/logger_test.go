package app

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/PhuD203/Admissions-consultant-sub001/internal/config"
)

func TestNewLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	newLogger(config.LogConfig{Level: "info", Format: "json"}, &buf).Info("lead_created", "lead_id", "l-1")

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("JSON handler should produce valid JSON: %v", err)
	}
	if m["msg"] != "lead_created" || m["lead_id"] != "l-1" {
		t.Errorf("unexpected record %v", m)
	}
}

func TestNewLogger_TextFormatAddsSource(t *testing.T) {
	var buf bytes.Buffer
	newLogger(config.LogConfig{Level: "debug", Format: "text"}, &buf).Debug("source test")

	if !strings.Contains(buf.String(), "source=") {
		t.Errorf("text format should include source information, got %q", buf.String())
	}
}

func TestNewLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(config.LogConfig{Level: "WARN", Format: "json"}, &buf)
	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at warn level, got %q", buf.String())
	}
	logger.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Error("warn should pass at warn level")
	}
}

func TestNewLogger_SetsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger := NewLogger(config.LogConfig{Level: "info", Format: "json"})
	if slog.Default() != logger {
		t.Error("NewLogger should set the default logger")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		" Warn": slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
