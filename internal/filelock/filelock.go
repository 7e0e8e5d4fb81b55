// Package filelock serializes writers of configuration files and replaces
// file contents atomically, so that a concurrent reader sees either the old
// or the new file.
package filelock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// ErrLockTimeout is returned when a lock is not acquired in time.
var ErrLockTimeout = errors.New("timed out waiting for lock")

// DefaultTimeout bounds how long a config writer waits for another one.
const DefaultTimeout = 5 * time.Second

const retryDelay = 20 * time.Millisecond

// lockWithTimeout retries a non-blocking lock on fl until it succeeds or
// timeout elapses.
func lockWithTimeout(fl *flock.Flock, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	acquired, err := fl.TryLockContext(ctx, retryDelay)
	if acquired {
		return nil
	}
	if err == nil || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s after %s", ErrLockTimeout, fl.Path(), timeout)
	}
	return fmt.Errorf("failed to acquire lock on %s: %w", fl.Path(), err)
}

// AtomicWrite writes data to a file atomically using a temp file and rename strategy.
// Parent directories are created as needed. If the operation fails at any
// point, the original file (if it exists) remains unchanged.
func AtomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// Same directory as the target so the rename stays on one filesystem.
	tempFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	tempFile = nil
	return nil
}

// WithLock runs fn while holding the lock "<path>.lock". The lock directory
// is created if missing.
func WithLock(path string, timeout time.Duration, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(path), err)
	}

	lock := flock.New(path + ".lock")
	if err := lockWithTimeout(lock, timeout); err != nil {
		return err
	}
	defer lock.Unlock()

	return fn()
}
