// Package placer moves or copies a file into a destination directory,
// renaming on name collisions so nothing is ever overwritten.
package placer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"sheaf/internal/config"
	"sheaf/internal/fileutil"
)

// Place executes the filesystem action for one file. It ensures dstDir
// exists (creating that single level only), resolves name collisions by
// appending (1), (2), ... before the extension, and returns the path the
// file actually ended up at. Filesystem errors propagate to the caller.
func Place(src, dstDir string, mode config.Mode) (string, error) {
	if err := os.Mkdir(dstDir, 0o755); err != nil && !errors.Is(err, fs.ErrExist) {
		return "", err
	}

	target, err := nextFreePath(dstDir, filepath.Base(src))
	if err != nil {
		return "", err
	}

	if mode == config.ModeCopy {
		if err := fileutil.CopyFilePreserve(src, target); err != nil {
			return "", err
		}
		return target, nil
	}

	if err := moveFile(src, target); err != nil {
		return "", err
	}
	return target, nil
}

// nextFreePath finds the first unused name in dir for base. The search is
// unbounded and re-probes existence on every step rather than assuming
// that higher suffixes are free.
func nextFreePath(dir, base string) (string, error) {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	candidate := filepath.Join(dir, base)
	for n := 1; ; n++ {
		_, err := os.Lstat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s(%d)%s", stem, n, ext))
	}
}

// moveFile renames src to dst, falling back to copy-and-remove when the
// destination is on a different filesystem.
func moveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}

	var linkErr *os.LinkError
	if errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
		if copyErr := fileutil.CopyFilePreserve(src, dst); copyErr != nil {
			return copyErr
		}
		return os.Remove(src)
	}
	return err
}
