package index

import (
	"database/sql"
	"fmt"

	"toks/internal/tokserr"
)

// schemaVersion is the single row the Version table holds. A mismatch
// on an existing index is process-fatal: the user must delete the index
// and re-run.
const schemaVersion = 1

func (s *Store) initializeSchema() error {
	return s.WithTx(func(tx *sql.Tx) error {
		stmts := []string{
			`CREATE TABLE Version (Version INTEGER NOT NULL)`,
			`INSERT INTO Version (Version) VALUES (?)`,
			`CREATE TABLE Files (
				Filerow  INTEGER PRIMARY KEY AUTOINCREMENT,
				Digest   TEXT NOT NULL,
				Filename TEXT NOT NULL UNIQUE
			)`,
			`CREATE TABLE Refs (
				Filerow     INTEGER NOT NULL,
				Line        INTEGER NOT NULL,
				ColumnStart INTEGER NOT NULL,
				Scope       TEXT NOT NULL,
				Type        INTEGER NOT NULL,
				Identifier  TEXT NOT NULL
			)`,
			`CREATE TABLE Defs (
				Filerow     INTEGER NOT NULL,
				Line        INTEGER NOT NULL,
				ColumnStart INTEGER NOT NULL,
				Scope       TEXT NOT NULL,
				Type        INTEGER NOT NULL,
				Identifier  TEXT NOT NULL
			)`,
			`CREATE TABLE Decls (
				Filerow     INTEGER NOT NULL,
				Line        INTEGER NOT NULL,
				ColumnStart INTEGER NOT NULL,
				Scope       TEXT NOT NULL,
				Type        INTEGER NOT NULL,
				Identifier  TEXT NOT NULL
			)`,
			`CREATE INDEX idx_refs_filerow ON Refs(Filerow)`,
			`CREATE INDEX idx_defs_filerow ON Defs(Filerow)`,
			`CREATE INDEX idx_decls_filerow ON Decls(Filerow)`,
			`CREATE INDEX idx_refs_identifier ON Refs(Identifier)`,
			`CREATE INDEX idx_defs_identifier ON Defs(Identifier)`,
			`CREATE INDEX idx_decls_identifier ON Decls(Identifier)`,
		}
		for _, stmt := range stmts {
			if stmt == `INSERT INTO Version (Version) VALUES (?)` {
				if _, err := tx.Exec(stmt, schemaVersion); err != nil {
					return fmt.Errorf("seeding version row: %w", err)
				}
				continue
			}
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("creating schema: %w", err)
			}
		}
		return nil
	})
}

// checkVersion reads the single Version row and fails process-fatally
// on mismatch: the user must delete the index and re-run.
func (s *Store) checkVersion() error {
	var v int
	err := s.conn.QueryRow(`SELECT Version FROM Version LIMIT 1`).Scan(&v)
	if err != nil {
		return tokserr.New(tokserr.VersionMismatch, fmt.Errorf("reading index version: %w", err))
	}
	if v != schemaVersion {
		return tokserr.New(tokserr.VersionMismatch,
			fmt.Errorf("index was built with version %d, this binary expects %d — delete the index and re-run", v, schemaVersion))
	}
	return nil
}
