package core

import (
	"fmt"
	"os"
	"syscall"
)

// bookLock serialises load-modify-save cycles on the task book across
// processes, e.g. a CLI command running next to `tars mcp serve`. A nil
// lock or one with an empty path runs the function unguarded.
type bookLock struct {
	path string
}

// run holds an exclusive flock on the lock file while fn executes.
func (l *bookLock) run(fn func() error) error {
	if l == nil || l.path == "" {
		return fn()
	}

	f, err := os.OpenFile(l.path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return fmt.Errorf("opening lock file: %w", err)
	}
	defer f.Close()

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("acquiring file lock: %w", err)
	}
	defer func() { _ = syscall.Flock(int(f.Fd()), syscall.LOCK_UN) }()

	return fn()
}
