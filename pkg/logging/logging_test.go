package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "json", slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("Balances computed", "group_id", "g1", "suggestions", 2)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line (debug filtered), got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("Expected JSON output, got %q: %v", lines[0], err)
	}
	if entry["msg"] != "Balances computed" || entry["group_id"] != "g1" {
		t.Errorf("Unexpected entry %v", entry)
	}
}

func TestNewTint(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "tint", slog.LevelDebug)
	logger.Debug("Loaded ledger", "expenses", 3)

	out := buf.String()
	if !strings.Contains(out, "Loaded ledger") || !strings.Contains(out, "expenses=3") {
		t.Errorf("Unexpected tint output %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("Expected no color codes when writing to a buffer")
	}
}
