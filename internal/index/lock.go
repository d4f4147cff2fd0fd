//go:build !windows

package index

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"toks/internal/logging"
	"toks/internal/tokserr"
)

const lockFile = "index.lock"

// Lock is the process-wide single-writer lock serialising index writes,
// acquired once per run over the whole indexDir and released on exit.
type Lock struct {
	path   string
	file   *os.File
	logger *logging.Logger
}

// AcquireLock takes an exclusive flock on indexDir, logging the attempt
// through logger. It fails fast with a tokserr.IndexError rather than
// blocking on the lock, since a second toks run waiting indefinitely on
// the first is more surprising than a clear "already running" error.
func AcquireLock(indexDir string, logger *logging.Logger) (*Lock, error) {
	if err := os.MkdirAll(indexDir, 0755); err != nil {
		return nil, tokserr.New(tokserr.FileIoError, fmt.Errorf("creating index directory: %w", err))
	}

	path := filepath.Join(indexDir, lockFile)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, tokserr.New(tokserr.FileIoError, fmt.Errorf("opening lock file: %w", err))
	}

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = file.Close()

		if content, readErr := os.ReadFile(path); readErr == nil && len(content) > 0 {
			pid := strings.TrimSpace(string(content))
			logger.Error("index locked by another process", map[string]interface{}{"path": path, "pid": pid})
			return nil, tokserr.New(tokserr.IndexError,
				fmt.Errorf("index is locked by another process (PID %s); another toks run may be in progress", pid))
		}
		return nil, tokserr.New(tokserr.IndexError, fmt.Errorf("index is locked by another process"))
	}

	if err := file.Truncate(0); err != nil {
		_ = syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
		_ = file.Close()
		return nil, tokserr.New(tokserr.FileIoError, fmt.Errorf("truncating lock file: %w", err))
	}
	if _, err := file.Seek(0, 0); err != nil {
		_ = syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
		_ = file.Close()
		return nil, tokserr.New(tokserr.FileIoError, fmt.Errorf("seeking lock file: %w", err))
	}
	if _, err := file.WriteString(strconv.Itoa(os.Getpid())); err != nil {
		_ = syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
		_ = file.Close()
		return nil, tokserr.New(tokserr.FileIoError, fmt.Errorf("writing PID to lock file: %w", err))
	}

	logger.Debug("index lock acquired", map[string]interface{}{"path": path, "pid": os.Getpid()})
	return &Lock{path: path, file: file, logger: logger}, nil
}

// Release drops the flock and removes the lock file, best effort.
func (l *Lock) Release() {
	if l == nil || l.file == nil {
		return
	}

	_ = syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	_ = l.file.Close()
	_ = os.Remove(l.path)

	if l.logger != nil {
		l.logger.Debug("index lock released", map[string]interface{}{"path": l.path})
	}
}
