package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func decodeLines(t *testing.T, raw string) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for i, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", i, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestNewLogger(t *testing.T) {
	t.Run("creates log file in directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "logs")

		logger, err := NewLogger(dir, LevelDebug)
		if err != nil {
			t.Fatalf("NewLogger failed: %v", err)
		}
		logger.Info("hello")
		if err := logger.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}

		content, err := os.ReadFile(filepath.Join(dir, LogFileName))
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if entries := decodeLines(t, string(content)); len(entries) != 1 {
			t.Errorf("expected 1 entry, got %d", len(entries))
		}
	})

	t.Run("writes to stderr when dir is empty", func(t *testing.T) {
		logger, err := NewLogger("", LevelInfo)
		if err != nil {
			t.Fatalf("NewLogger failed: %v", err)
		}
		defer logger.Close()

		if logger.file != nil {
			t.Error("expected file to be nil when dir is empty")
		}
	})
}

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, LevelDebug)

	logger.Debug("debug message", "key", "value")
	logger.Info("info message", "key", "value")
	logger.Warn("warn message", "key", "value")
	logger.Error("error message", "key", "value")

	entries := decodeLines(t, buf.String())
	if len(entries) != 4 {
		t.Fatalf("expected 4 log lines, got %d", len(entries))
	}

	expectedLevels := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	for i, entry := range entries {
		if entry["level"] != expectedLevels[i] {
			t.Errorf("line %d: expected level %s, got %v", i, expectedLevels[i], entry["level"])
		}
		if entry["key"] != "value" {
			t.Errorf("line %d: expected key=value, got key=%v", i, entry["key"])
		}
	}
}

func TestLogLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, LevelWarn)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	if entries := decodeLines(t, buf.String()); len(entries) != 2 {
		t.Fatalf("expected 2 log lines (WARN and ERROR only), got %d", len(entries))
	}
}

func TestContextPropagation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, LevelInfo)

	child := logger.WithSession("session-123").WithComponent("controller").WithCycle(4)
	child.Info("cycle expired", "score", -5)

	entries := decodeLines(t, buf.String())
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	entry := entries[0]

	if entry["session_id"] != "session-123" {
		t.Errorf("expected session_id=session-123, got %v", entry["session_id"])
	}
	if entry["component"] != "controller" {
		t.Errorf("expected component=controller, got %v", entry["component"])
	}
	// JSON numbers are float64
	if entry["cycle"] != float64(4) {
		t.Errorf("expected cycle=4, got %v", entry["cycle"])
	}
	if entry["score"] != float64(-5) {
		t.Errorf("expected score=-5, got %v", entry["score"])
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, LevelInfo)

	if logger.With() != logger {
		t.Error("With() without args should return the same logger")
	}

	logger.With("foo", "bar", 42, "ignored", "count", 3).Info("test message")

	entry := decodeLines(t, buf.String())[0]
	if entry["foo"] != "bar" {
		t.Errorf("expected foo=bar, got %v", entry["foo"])
	}
	if entry["count"] != float64(3) {
		t.Errorf("expected count=3, got %v", entry["count"])
	}
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()

	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn")
	logger.Error("error")

	if err := logger.Close(); err != nil {
		t.Errorf("NopLogger.Close() returned error: %v", err)
	}
}

func TestValidLevels_MatchFiltering(t *testing.T) {
	for _, level := range ValidLevels() {
		var buf bytes.Buffer
		logger := NewWriterLogger(&buf, strings.ToLower(level))
		logger.Error("always")
		logger.Debug("only at debug")

		lines := decodeLines(t, buf.String())
		wantLines := 1
		if level == LevelDebug {
			wantLines = 2
		}
		if len(lines) != wantLines {
			t.Errorf("level %s: got %d entries, want %d", level, len(lines), wantLines)
		}
	}
}

func TestClose_Twice(t *testing.T) {
	logger, err := NewLogger(t.TempDir(), LevelInfo)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	if err := logger.Close(); err != nil {
		t.Errorf("Close() returned error: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Second Close() returned error: %v", err)
	}
}

func TestConcurrentWrites(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogger(dir, LevelInfo)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	var wg sync.WaitGroup
	for n := range 10 {
		wg.Go(func() {
			for j := range 100 {
				logger.WithCycle(j).Info("concurrent write", "goroutine", n)
			}
		})
	}
	wg.Wait()
	logger.Close()

	content, err := os.ReadFile(filepath.Join(dir, LogFileName))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if entries := decodeLines(t, string(content)); len(entries) != 1000 {
		t.Errorf("expected 1000 log lines, got %d", len(entries))
	}
}
