package preflight_test

import (
	"os"
	"path/filepath"
	"testing"

	"sheaf/internal/config"
	"sheaf/internal/preflight"
)

func TestCheckDirectoryAccessOK(t *testing.T) {
	result := preflight.CheckDirectoryAccess(t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass: %+v", result)
	}
}

func TestCheckDirectoryAccessMissing(t *testing.T) {
	result := preflight.CheckDirectoryAccess(filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing directory")
	}
	if !result.Fatal {
		t.Fatal("missing directory must be fatal")
	}
}

func TestCheckDirectoryAccessNotADirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := preflight.CheckDirectoryAccess(file); result.Passed {
		t.Fatal("expected failure for non-directory")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if result := preflight.CheckFreeSpace(dir, 1); !result.Passed {
		t.Fatalf("one byte should be available: %+v", result)
	}
	// No volume has the maximum representable byte count free.
	if result := preflight.CheckFreeSpace(dir, ^uint64(0)); result.Passed {
		t.Fatal("expected low-space warning")
	} else if result.Fatal {
		t.Fatal("low space must not be fatal")
	}
}

func TestRunAll(t *testing.T) {
	dir := t.TempDir()
	if got := len(preflight.RunAll(dir, config.ModeMove, 0)); got != 1 {
		t.Fatalf("move mode checks = %d, want 1", got)
	}
	if got := len(preflight.RunAll(dir, config.ModeCopy, 0)); got != 2 {
		t.Fatalf("copy mode checks = %d, want 2", got)
	}
}
