// Package index implements the external index store: a SQLite database
// holding the Version/Files/Refs/Defs/Decls tables, opened once per
// process, mutated with one BEGIN/COMMIT pair per file. Its connection
// wrapper (pragmas, WithTx) and lock/metadata handling are narrowed from
// a general code-knowledge cache down to this one bespoke schema.
package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"toks/internal/logging"
)

// Store wraps the index database connection and transaction helpers.
type Store struct {
	conn   *sql.DB
	logger *logging.Logger
	path   string
}

// Open opens or creates the index database at path (the -i flag,
// default "TOKS"), initializing the schema on first use and checking the
// Version row on reuse.
func Open(path string, logger *logging.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating index directory: %w", err)
		}
	}

	existed := fileExists(path)

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("setting pragma: %w", err)
		}
	}

	s := &Store{conn: conn, logger: logger, path: path}

	if !existed {
		logger.Info("creating new index", map[string]interface{}{"path": path})
		if err := s.initializeSchema(); err != nil {
			conn.Close()
			return nil, err
		}
	} else if err := s.checkVersion(); err != nil {
		conn.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// WithTx runs fn inside a transaction, committing on success and rolling
// back (and propagating fn's error) otherwise.
func (s *Store) WithTx(fn func(*sql.Tx) error) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("rollback failed", map[string]interface{}{
				"error":          err.Error(),
				"rollback_error": rbErr.Error(),
			})
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
