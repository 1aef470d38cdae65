package theme

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// fileLock serializes preference updates across labsite processes.
type fileLock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

func newFileLock(target string) *fileLock {
	p := target + ".lock"
	return &fileLock{path: p, flock: flock.New(p)}
}

// lock blocks until the lock is held, creating its directory if needed.
func (l *fileLock) lock() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}
	if err := l.flock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	l.locked = true
	return nil
}

// unlock is safe to call when the lock is not held.
func (l *fileLock) unlock() error {
	if !l.locked {
		return nil
	}
	l.locked = false
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}
