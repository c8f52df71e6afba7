// Package runlock serializes grouping passes per directory. The pipeline
// assumes single-process execution; the lock turns a violated assumption
// into a fast, clear failure instead of racing collision resolution.
package runlock

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFilename is the advisory lock file created inside the target
// directory. The file persists between runs; only the flock matters.
const LockFilename = ".sheaf.lock"

// Lock holds an acquired per-directory lock.
type Lock struct {
	fl   *flock.Flock
	path string
}

// Acquire takes the directory lock without blocking. It fails when
// another pass already holds the lock.
func Acquire(dir string) (*Lock, error) {
	path := filepath.Join(dir, LockFilename)
	fl := flock.New(path)

	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire directory lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another sheaf pass is already running in %s", dir)
	}
	return &Lock{fl: fl, path: path}, nil
}

// Release drops the lock. The lock file is left behind; removing it
// would race a concurrent acquirer.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}

// Path returns the lock file location.
func (l *Lock) Path() string { return l.path }
