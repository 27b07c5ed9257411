package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "info", "json")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Debug("hidden")
	l.Info("connected", slog.String("status", "101 Switching Protocols"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if rec["msg"] != "connected" || rec["status"] != "101 Switching Protocols" {
		t.Errorf("record = %v", rec)
	}
}

func TestNewTextDebug(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "DEBUG", "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	l.Debug("ping -> pong")
	if !strings.Contains(buf.String(), `msg="ping -> pong"`) {
		t.Errorf("output = %q", buf.String())
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, "loud", "text"); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := New(&bytes.Buffer{}, "info", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
