package index

import (
	"bytes"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"toks/internal/logging"
)

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.Config{Level: logging.ErrorLevel, Output: &bytes.Buffer{}})
}

func TestOpenCreatesSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.db")

	s, err := Open(path, testLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	var version int
	if err := s.conn.QueryRow(`SELECT Version FROM Version`).Scan(&version); err != nil {
		t.Fatalf("reading Version row: %v", err)
	}
	if version != schemaVersion {
		t.Errorf("Version = %d, want %d", version, schemaVersion)
	}
}

func TestOpenReopenSameFileSucceeds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.db")

	s1, err := Open(path, testLogger())
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if err := s1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := Open(path, testLogger())
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer s2.Close()
}

func TestWithTxRollsBackOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.db")

	s, err := Open(path, testLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	boom := errors.New("boom")
	err = s.WithTx(func(tx *sql.Tx) error {
		if _, execErr := tx.Exec(`INSERT INTO Files (Digest, Filename) VALUES (?, ?)`, "deadbeef", "rollback.c"); execErr != nil {
			return execErr
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx error = %v, want %v", err, boom)
	}

	var count int
	if scanErr := s.conn.QueryRow(`SELECT COUNT(*) FROM Files WHERE Filename = ?`, "rollback.c").Scan(&count); scanErr != nil {
		t.Fatalf("scanning count: %v", scanErr)
	}
	if count != 0 {
		t.Errorf("rolled-back insert still visible: count = %d", count)
	}
}
