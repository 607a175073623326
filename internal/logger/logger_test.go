package logger

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDebugMode(t *testing.T) {
	log := New("debug", Options{})
	if log == nil {
		t.Fatal("expected logger instance in debug mode")
	}
	if !log.Core().Enabled(-1) { // DebugLevel
		t.Fatal("expected debug level enabled in debug mode")
	}
}

func TestNewFileMode(t *testing.T) {
	dir := t.TempDir()
	log := New("release", Options{Dir: dir, Filename: "test.log"})
	if log == nil {
		t.Fatal("expected logger instance in release mode")
	}
	log.Sugar().Infow("probe", "k", "v")
	if _, err := os.Stat(filepath.Join(dir, "test.log")); err != nil {
		t.Fatalf("expected log file to exist: %v", err)
	}
}

func TestZFallbackWithoutInit(t *testing.T) {
	saved := L
	L = nil
	defer func() { L = saved }()
	if Z() == nil {
		t.Fatal("expected fallback logger when global is nil")
	}
}

func TestNormalizePositiveInt(t *testing.T) {
	if got := normalizePositiveInt(0, 7); got != 7 {
		t.Fatalf("expected fallback 7, got %d", got)
	}
	if got := normalizePositiveInt(3, 7); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}
