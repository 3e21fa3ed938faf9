package persist

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"
)

// lockTimeout bounds how long SaveFile waits for an exclusive lock before
// giving up, grounded on the teacher's own LockTimeout for ticket writes.
const lockTimeout = 5 * time.Second

const lockRetryInterval = 10 * time.Millisecond

const lockFilePerms = 0o644

var (
	errLockTimeout  = errors.New("unifiedmap/persist: lock timeout")
	errLockFileOpen = errors.New("unifiedmap/persist: failed to open lock file")
)

// fileLock is an advisory lock on path's ".lock" sibling, guarding against
// two processes calling SaveFile on the same path concurrently. It is an
// external-process concern layered on top of the in-process single-writer
// rule spec.md §5 already requires of Map itself.
type fileLock struct {
	file *os.File
}

func acquireLock(path string) (*fileLock, error) {
	lockPath := path + ".lock"

	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, lockFilePerms) //nolint:gosec // path is from caller
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errLockFileOpen, err)
	}

	deadline := time.Now().Add(lockTimeout)

	for {
		flockErr := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
		if flockErr == nil {
			return &fileLock{file: file}, nil
		}

		if time.Now().After(deadline) {
			_ = file.Close()

			return nil, fmt.Errorf("%w: %s", errLockTimeout, path)
		}

		time.Sleep(lockRetryInterval)
	}
}

func (l *fileLock) release() {
	if l.file == nil {
		return
	}

	_ = syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	_ = l.file.Close()
}
