//go:build windows

package index

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"toks/internal/logging"
	"toks/internal/tokserr"
)

const lockFile = "index.lock"

// Lock is the process-wide single-writer lock serialising index writes.
// Windows has no syscall.Flock; this falls back to a PID marker file,
// which is advisory rather than kernel-enforced — a crashed process
// leaves a stale PID behind that the next run only warns about.
type Lock struct {
	path   string
	file   *os.File
	logger *logging.Logger
}

// AcquireLock writes indexDir/index.lock with the current PID, warning
// through logger if a stale marker from a previous run is found.
func AcquireLock(indexDir string, logger *logging.Logger) (*Lock, error) {
	if err := os.MkdirAll(indexDir, 0755); err != nil {
		return nil, tokserr.New(tokserr.FileIoError, fmt.Errorf("creating index directory: %w", err))
	}

	path := filepath.Join(indexDir, lockFile)

	if content, err := os.ReadFile(path); err == nil && len(content) > 0 {
		logger.Warn("stale or concurrent index lock marker found, proceeding best-effort", map[string]interface{}{
			"path": path, "pid": string(content),
		})
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0644)
	if err != nil {
		return nil, tokserr.New(tokserr.FileIoError, fmt.Errorf("opening lock file: %w", err))
	}

	if _, err := file.WriteString(strconv.Itoa(os.Getpid())); err != nil {
		_ = file.Close()
		return nil, tokserr.New(tokserr.FileIoError, fmt.Errorf("writing PID to lock file: %w", err))
	}

	logger.Debug("index lock marker written", map[string]interface{}{"path": path, "pid": os.Getpid()})
	return &Lock{path: path, file: file, logger: logger}, nil
}

// Release removes the marker file, best effort.
func (l *Lock) Release() {
	if l == nil || l.file == nil {
		return
	}

	_ = l.file.Close()
	_ = os.Remove(l.path)

	if l.logger != nil {
		l.logger.Debug("index lock marker removed", map[string]interface{}{"path": l.path})
	}
}
