// Package filelock provides advisory file locking so that only one process
// rewrites a roadmap document at a time.
package filelock

import (
	"context"
	"errors"
	"os"
	"time"
)

const (
	lockFileMode  = 0o600
	retryInterval = 5 * time.Millisecond
)

// lockSuffix is appended to a document path to name its lock file.
const lockSuffix = ".lock"

// errBusy is returned by tryLockFile when another handle holds the lock.
var errBusy = errors.New("lock held by another process")

// PathFor returns the lock file guarding the document at path.
func PathFor(path string) string {
	return path + lockSuffix
}

// Lock acquires an exclusive advisory lock on the file at path, creating it
// if it does not exist. It waits for a concurrent holder until ctx is done.
// The returned function releases the lock.
func Lock(ctx context.Context, path string) (unlock func() error, err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFileMode) //nolint:gosec // lock file path from trusted source
	if err != nil {
		return nil, err
	}

	for {
		err := tryLockFile(f)
		if err == nil {
			break
		}
		if !errors.Is(err, errBusy) {
			_ = f.Close()
			return nil, err
		}
		select {
		case <-ctx.Done():
			_ = f.Close()
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}

	return func() error {
		unlockErr := unlockFile(f)
		closeErr := f.Close()
		if unlockErr != nil {
			return unlockErr
		}
		return closeErr
	}, nil
}

// LockDocument locks the document at path for a read-modify-write cycle.
// The lock file is left in place after unlock.
func LockDocument(ctx context.Context, path string) (unlock func() error, err error) {
	return Lock(ctx, PathFor(path))
}
