package utils

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLoggerJSONLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWith("warn", "json", &buf)

	l.Info("[csv] skipped %d rows", 3)
	l.Warn("[csv] dropped %d rows", 2)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry["level"] != "warn" {
		t.Errorf("level: got %v, want warn", entry["level"])
	}
	if entry["message"] != "[csv] dropped 2 rows" {
		t.Errorf("message: got %v", entry["message"])
	}
}

func TestLoggerConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWith("info", "console", &buf)
	l.Info("hello %s", "movies")
	if !strings.Contains(buf.String(), "hello movies") {
		t.Errorf("console output missing message: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"debug", "debug"},
		{"WARN", "warn"},
		{"warning", "warn"},
		{"error", "error"},
		{"", "info"},
		{"verbose", "info"},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in).String(); got != tt.want {
			t.Errorf("parseLevel(%q): got %s, want %s", tt.in, got, tt.want)
		}
	}
}
