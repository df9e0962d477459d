package site

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mmr-tortoise/wpsite/internal/model"
)

// LockFileName is the advisory lock file created inside a site directory
// while a command modifies it.
const LockFileName = ".wpsite.lock"

// siteLock is an advisory lock on one site directory. It only guards against
// other wpsite invocations; nothing else honors it.
type siteLock struct {
	path string
}

// acquireLock creates the lock file in dir. If the file already exists,
// another invocation holds the lock and ErrLocked is returned.
func acquireLock(dir string) (*siteLock, error) {
	path := filepath.Join(dir, LockFileName)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("%w: %s (remove it if no other wpsite is running)", model.ErrLocked, path)
		}
		return nil, fmt.Errorf("failed to create lock file: %w", model.ClassifyFSError(err))
	}

	_, werr := f.WriteString(strconv.Itoa(os.Getpid()) + "\n")
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("failed to write lock file: %w", err)
	}

	return &siteLock{path: path}, nil
}

// release removes the lock file. A lock whose directory was removed in the
// meantime is already released.
func (l *siteLock) release() error {
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to release lock: %w", model.ClassifyFSError(err))
	}
	return nil
}
