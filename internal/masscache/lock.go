package masscache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
)

// LockTimeout bounds how long Lock waits for another run to release
// the cache.
const LockTimeout = 5 * time.Second

const (
	lockFileName  = ".lock"
	lockFilePerms = 0o644
)

var errLockTimeout = errors.New("cache lock timeout")

// Lock takes an advisory exclusive lock on the cache root so that
// concurrent runs sharing one cache serialize instead of racing.
// The returned function releases the lock.
func (c *Cache) Lock() (release func(), err error) {
	return c.lockWithTimeout(LockTimeout)
}

func (c *Cache) lockWithTimeout(timeout time.Duration) (func(), error) {
	lockPath := filepath.Join(c.root, lockFileName)

	file, openErr := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, lockFilePerms) //nolint:gosec // path is constructed from the cache root
	if openErr != nil {
		return nil, fmt.Errorf("opening cache lock: %w", openErr)
	}

	deadline := time.Now().Add(timeout)

	const retryInterval = 10 * time.Millisecond

	for {
		flockErr := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if flockErr == nil {
			break
		}

		if time.Now().After(deadline) {
			_ = file.Close()

			return nil, fmt.Errorf("%w: %s", errLockTimeout, c.root)
		}

		time.Sleep(retryInterval)
	}

	return func() {
		_ = unix.Flock(int(file.Fd()), unix.LOCK_UN)
		_ = file.Close()
	}, nil
}
