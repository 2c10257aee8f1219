package logutil

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetupDisabledIsNop(t *testing.T) {
	logger, err := Setup(Options{})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if logger.Core().Enabled(0) {
		t.Error("disabled logger should not accept any level")
	}
}

func TestSetupFileLogging(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fourshot.log")
	logger, err := Setup(Options{FileLogging: true, FilePath: path})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	logger.Info("capture finished")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"capture finished"`) {
		t.Fatalf("log file missing entry: %s", data)
	}
}

func TestRotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fourshot.log")
	if err := os.WriteFile(path, bytes.Repeat([]byte("x"), maxSizeBytes+1), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := newRotatingWriter(path)
	if err != nil {
		t.Fatalf("newRotatingWriter: %v", err)
	}
	if _, err := w.Write([]byte("fresh\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	_ = w.Sync()

	if _, err := os.Stat(archiveName(path, 1)); err != nil {
		t.Fatalf("expected archive .1: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "fresh\n" {
		t.Fatalf("current log = %q", data)
	}
}

func TestWriteCrossingLimitRotates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fourshot.log")
	// exactly at the limit: not rotated on open
	if err := os.WriteFile(path, bytes.Repeat([]byte("x"), maxSizeBytes), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := newRotatingWriter(path)
	if err != nil {
		t.Fatalf("newRotatingWriter: %v", err)
	}
	if _, err := os.Stat(archiveName(path, 1)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("rotated too early: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := w.Write([]byte("next\n")); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	_ = w.Sync()

	st, err := os.Stat(archiveName(path, 1))
	if err != nil {
		t.Fatalf("expected archive .1: %v", err)
	}
	if st.Size() != maxSizeBytes {
		t.Errorf("archive size = %d, want %d", st.Size(), maxSizeBytes)
	}
	if _, err := os.Stat(archiveName(path, 2)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("rotated more than once: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "next\nnext\nnext\n" {
		t.Fatalf("current log = %q", data)
	}
}
