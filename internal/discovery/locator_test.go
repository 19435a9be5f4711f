package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLocator_Executable(t *testing.T) {
	// Create a temporary directory structure for testing
	tmpDir := t.TempDir()

	binDir := filepath.Join(tmpDir, "node_modules", ".bin")
	if err := os.MkdirAll(binDir, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	notExec := filepath.Join(tmpDir, "electron-readme")
	if err := os.WriteFile(notExec, []byte("text"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	electron := filepath.Join(binDir, "electron")
	if err := os.WriteFile(electron, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	l := &Locator{lookPath: func(name string) (string, error) {
		if name == "electron" {
			return "/usr/local/bin/electron", nil
		}
		return "", errors.New("not found")
	}}

	t.Run("first executable candidate", func(t *testing.T) {
		got, err := l.Executable([]string{filepath.Join(tmpDir, "missing"), notExec, electron, "electron"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != electron {
			t.Errorf("expected %s, got %s", electron, got)
		}
	})

	t.Run("falls back to PATH", func(t *testing.T) {
		got, err := l.Executable([]string{filepath.Join(tmpDir, "missing"), "electron"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "/usr/local/bin/electron" {
			t.Errorf("expected PATH result, got %s", got)
		}
	})

	t.Run("nothing found", func(t *testing.T) {
		if _, err := l.Executable([]string{binDir, "nope"}); err == nil {
			t.Error("expected an error when no candidate exists")
		}
	})
}

func TestLocator_File(t *testing.T) {
	tmpDir := t.TempDir()
	script := filepath.Join(tmpDir, "integration.js")
	if err := os.WriteFile(script, []byte("// main"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	l := NewLocator()
	if _, err := l.File(script); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := l.File(tmpDir); err == nil {
		t.Error("expected an error for a directory")
	}
	if _, err := l.File(filepath.Join(tmpDir, "missing.js")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
