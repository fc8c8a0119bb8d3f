package logging

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewFileWriter_WritesToFile(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "writer.log")

	writer := NewFileWriter(logPath)
	if writer == nil {
		t.Fatal("expected non-nil writer")
	}

	if _, err := writer.Write([]byte("hello\n")); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if err := writer.Sync(); err != nil {
		t.Logf("Sync() warning: %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if string(content) != "hello\n" {
		t.Errorf("file content = %q, want %q", content, "hello\n")
	}
}

func TestNewFileWriter_CreatesParentDirs(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "nested", "dir", "writer.log")

	writer := NewFileWriter(logPath)
	if _, err := writer.Write([]byte("x")); err != nil {
		t.Fatalf("Write() to nested path error: %v", err)
	}

	if _, err := os.Stat(logPath); err != nil {
		t.Fatalf("expected log file at %s: %v", logPath, err)
	}
}

func TestDefaultFileWriterConfig(t *testing.T) {
	cfg := DefaultFileWriterConfig()

	if cfg.MaxSizeMB != DefaultMaxSizeMB {
		t.Errorf("MaxSizeMB = %d, want %d", cfg.MaxSizeMB, DefaultMaxSizeMB)
	}
	if cfg.MaxBackups != DefaultMaxBackups {
		t.Errorf("MaxBackups = %d, want %d", cfg.MaxBackups, DefaultMaxBackups)
	}
	if cfg.MaxAgeDays != DefaultMaxAgeDays {
		t.Errorf("MaxAgeDays = %d, want %d", cfg.MaxAgeDays, DefaultMaxAgeDays)
	}
	if !cfg.Compress {
		t.Error("Compress should default to true")
	}
}
