package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestOpenLogFile tests that a log file is created inside the
// directory, creating missing path segments on the way.
func TestOpenLogFile(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "logs", "nested")
	f, err := OpenLogFile(dir, "build")
	if err != nil {
		t.Fatalf("OpenLogFile() error: %v", err)
	}

	logger, _ := NewLogger(f, false)
	logger.Info("archive started", "workers", 4)
	if err := f.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one log file, found %d", len(entries))
	}
	name := entries[0].Name()
	if !strings.HasPrefix(name, "build_") || !strings.HasSuffix(name, ".log") {
		t.Errorf("unexpected log file name %q", name)
	}

	content, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if !strings.Contains(string(content), "archive started") {
		t.Errorf("log file does not carry the record: %q", content)
	}
}
