// Package preflight checks that a grouping pass can plausibly succeed
// before any file is touched.
package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"sheaf/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	// Fatal marks results that should stop the pass when failed;
	// non-fatal failures are warnings.
	Fatal  bool
	Detail string
}

// RunAll executes the applicable checks for a pass over dir.
// requiredBytes is the total size of the eligible files and only matters
// in copy mode, where the duplicates need that much free space.
func RunAll(dir string, mode config.Mode, requiredBytes uint64) []Result {
	results := []Result{CheckDirectoryAccess(dir)}
	if mode == config.ModeCopy {
		results = append(results, CheckFreeSpace(dir, requiredBytes))
	}
	return results
}

// CheckDirectoryAccess verifies that dir exists, is a directory, and is
// readable, writable, and traversable. Failure is fatal: nothing can be
// placed in a directory the process cannot use.
func CheckDirectoryAccess(dir string) Result {
	const name = "Target directory"
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Fatal: true, Detail: fmt.Sprintf("%s does not exist", dir)}
		}
		return Result{Name: name, Fatal: true, Detail: fmt.Sprintf("%s: stat: %v", dir, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Fatal: true, Detail: fmt.Sprintf("%s is not a directory", dir)}
	}
	if err := unix.Access(dir, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Fatal: true, Detail: fmt.Sprintf("%s: insufficient permissions: %v", dir, err)}
	}
	return Result{Name: name, Passed: true, Fatal: true, Detail: fmt.Sprintf("%s (read/write ok)", dir)}
}

// CheckFreeSpace compares the volume's available bytes against required.
// Low space is a warning, not a stop: the pass may still partially
// succeed and per-file errors are handled anyway.
func CheckFreeSpace(dir string, required uint64) Result {
	const name = "Free space"
	var stat unix.Statfs_t
	if err := unix.Statfs(dir, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("statfs %s: %v", dir, err)}
	}
	available := stat.Bavail * uint64(stat.Bsize)
	if available < required {
		return Result{Name: name, Detail: fmt.Sprintf("%d bytes available, %d required for copies", available, required)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d bytes available", available)}
}
