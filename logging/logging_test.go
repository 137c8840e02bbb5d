// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func tempLog(t *testing.T) *os.File {
	t.Helper()
	f, err := os.Create(filepath.Join(t.TempDir(), "out.log"))
	if err != nil {
		t.Fatalf("Failed to create log file: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestNew_AutoIsJSONOffTerminal(t *testing.T) {
	f := tempLog(t)

	logger, sync, err := New("info", FormatAuto, f)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("project created", "project_id", "p1")
	logger.Debug("hidden")
	if err := sync(); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	data, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected one line below debug level, got %d: %s", len(lines), data)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("Expected JSON output, got %q: %v", lines[0], err)
	}
	if entry["msg"] != "project created" {
		t.Errorf("Expected msg 'project created', got %v", entry["msg"])
	}
	if entry["project_id"] != "p1" {
		t.Errorf("Expected project_id 'p1', got %v", entry["project_id"])
	}
	if entry["level"] != "info" {
		t.Errorf("Expected level 'info', got %v", entry["level"])
	}
}

func TestNew_Console(t *testing.T) {
	f := tempLog(t)

	logger, sync, err := New("debug", FormatConsole, f)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Debug("request started", "path", "/health")
	sync()

	data, _ := os.ReadFile(f.Name())
	out := string(data)
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("Expected console output, got JSON: %s", out)
	}
	if !strings.Contains(out, "request started") || !strings.Contains(out, "/health") {
		t.Errorf("Expected message and field in output, got %s", out)
	}
}

func TestNew_Errors(t *testing.T) {
	f := tempLog(t)

	if _, _, err := New("loud", FormatJSON, f); err == nil {
		t.Error("Expected error for unknown level")
	}
	if _, _, err := New("info", "xml", f); err == nil {
		t.Error("Expected error for unknown format")
	}
}
