package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"Warning", LevelWarn},
		{"error", LevelError},
		{"off", LevelNone},
		{"garbage", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelWarn, Output: &buf})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message", errors.New("boom"))

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below level should be filtered, got: %s", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("messages at or above level should be logged, got: %s", out)
	}
	if !strings.Contains(out, `error="boom"`) {
		t.Errorf("error detail missing from output: %s", out)
	}
}

func TestTextFormatFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelDebug, Output: &buf})

	logger.Debug("dropped line", Fields{"query_id": "q-1", "line": "not json"})

	out := buf.String()
	if !strings.Contains(out, "query_id=q-1") {
		t.Errorf("field missing from text output: %s", out)
	}
	if !strings.Contains(out, "DEBUG") {
		t.Errorf("level missing from text output: %s", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelDebug, Format: FormatJSON, Output: &buf})

	logger.Info("process started", Fields{"pid": 42})

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v (%s)", err, buf.String())
	}
	if entry.Message != "process started" {
		t.Errorf("Message = %q, want %q", entry.Message, "process started")
	}
	if entry.Level != "INFO" {
		t.Errorf("Level = %q, want INFO", entry.Level)
	}
}

func TestEnableFileOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	logger := New(Options{})

	closer, err := logger.EnableFileOutput(dir, LevelDebug)
	if err != nil {
		t.Fatalf("EnableFileOutput failed: %v", err)
	}

	logger.Debug("to file")
	if err := closer.Close(); err != nil {
		t.Fatalf("close log file: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "ai-shell.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("log file missing entry: %s", data)
	}
}

func TestDefaultLoggerDiscards(t *testing.T) {
	// Default logger must never write anywhere until configured; the
	// terminal belongs to the renderer.
	Debug("should vanish")
	Info("should vanish")
	Warn("should vanish")
	Error("should vanish", errors.New("x"))
}
