package index

import (
	"database/sql"
	"fmt"

	"toks/internal/digest"
	"toks/internal/emit"
	"toks/internal/tokserr"
)

// kindIDs assigns a stable integer ordinal to each string kind
// internal/emit produces. The order is arbitrary but, once an index
// exists on disk, must never change — renumbering would silently
// corrupt an existing index's Type column.
var kindIDs = map[string]int{
	"FUNCTION":       1,
	"MACRO_FUNCTION": 2,
	"MACRO":          3,
	"STRUCT_TYPE":    4,
	"UNION_TYPE":     5,
	"ENUM_TYPE":      6,
	"TYPE":           7,
	"STRUCT":         8,
	"UNION":          9,
	"ENUM":           10,
	"CLASS":          11,
	"FUNCTION_TYPE":  12,
	"ENUM_VAL":       13,
	"VAR":            14,
	"NAMESPACE":      15,
}

var kindNames = func() map[int]string {
	m := make(map[int]string, len(kindIDs))
	for name, id := range kindIDs {
		m[id] = name
	}
	return m
}()

// KindName reverses kindIDs for query output, which prints the KIND
// name rather than its stored integer.
func KindName(id int) string {
	if name, ok := kindNames[id]; ok {
		return name
	}
	return "UNKNOWN"
}

// subKindTable maps an Entry's SubKind to the table the schema uses to
// distinguish it: the schema stores no separate sub_kind column,
// relying instead on which of Refs/Defs/Decls a row lives in.
func subKindTable(subKind string) (string, bool) {
	switch subKind {
	case "DEFINITION":
		return "Defs", true
	case "DECLARATION":
		return "Decls", true
	case "REFERENCE":
		return "Refs", true
	default:
		return "", false
	}
}

// BeginFile implements the per-file ingest rule: look up Files.Filename;
// if absent, insert (digest, filename) and return the new rowid; if
// present and digest equal, report skip=true (no re-analysis needed);
// if present and digest differs, update the digest and delete all of
// that file's existing Refs/Defs/Decls rows.
func (s *Store) BeginFile(filename string, raw []byte) (filerow int64, skip bool, err error) {
	newDigest := digest.Hex(raw)

	err = s.WithTx(func(tx *sql.Tx) error {
		var existingRow int64
		var existingDigest string
		err := tx.QueryRow(`SELECT Filerow, Digest FROM Files WHERE Filename = ?`, filename).
			Scan(&existingRow, &existingDigest)

		switch {
		case err == sql.ErrNoRows:
			res, err := tx.Exec(`INSERT INTO Files (Digest, Filename) VALUES (?, ?)`, newDigest, filename)
			if err != nil {
				return fmt.Errorf("inserting file row: %w", err)
			}
			filerow, err = res.LastInsertId()
			return err

		case err != nil:
			return fmt.Errorf("looking up file row: %w", err)

		case existingDigest == newDigest:
			filerow = existingRow
			skip = true
			return nil

		default:
			if _, err := tx.Exec(`UPDATE Files SET Digest = ? WHERE Filerow = ?`, newDigest, existingRow); err != nil {
				return fmt.Errorf("updating file digest: %w", err)
			}
			for _, table := range []string{"Refs", "Defs", "Decls"} {
				if _, err := tx.Exec(`DELETE FROM `+table+` WHERE Filerow = ?`, existingRow); err != nil {
					return fmt.Errorf("clearing stale %s rows: %w", table, err)
				}
			}
			filerow = existingRow
			return nil
		}
	})
	if err != nil {
		err = tokserr.NewFile(tokserr.IndexError, filename, err)
	}
	return filerow, skip, err
}

// InsertEntries writes every entry under filerow into its sub_kind table,
// inside one BEGIN/COMMIT-per-file transaction.
func (s *Store) InsertEntries(filename string, filerow int64, entries []emit.Entry) error {
	err := s.WithTx(func(tx *sql.Tx) error {
		stmts := map[string]*sql.Stmt{}
		defer func() {
			for _, stmt := range stmts {
				stmt.Close()
			}
		}()

		for _, e := range entries {
			table, ok := subKindTable(e.SubKind)
			if !ok {
				continue
			}
			stmt, ok := stmts[table]
			if !ok {
				var err error
				stmt, err = tx.Prepare(`INSERT INTO ` + table + ` (Filerow, Line, ColumnStart, Scope, Type, Identifier) VALUES (?, ?, ?, ?, ?, ?)`)
				if err != nil {
					return fmt.Errorf("preparing %s insert: %w", table, err)
				}
				stmts[table] = stmt
			}
			if _, err := stmt.Exec(filerow, e.Line, e.Col, e.Scope, kindIDs[e.Kind], e.Identifier); err != nil {
				return fmt.Errorf("inserting into %s: %w", table, err)
			}
		}
		return nil
	})
	if err != nil {
		return tokserr.NewFile(tokserr.IndexError, filename, err)
	}
	return nil
}

// Prune implements the orphan-pruning rule: any Files row whose
// filename no longer exists on disk is removed along with its entries.
func (s *Store) Prune(exists func(filename string) bool) (int, error) {
	rows, err := s.conn.Query(`SELECT Filerow, Filename FROM Files`)
	if err != nil {
		return 0, fmt.Errorf("scanning files for pruning: %w", err)
	}
	type orphan struct {
		filerow int64
		name    string
	}
	var orphans []orphan
	for rows.Next() {
		var o orphan
		if err := rows.Scan(&o.filerow, &o.name); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scanning file row: %w", err)
		}
		if !exists(o.name) {
			orphans = append(orphans, o)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, o := range orphans {
		err := s.WithTx(func(tx *sql.Tx) error {
			for _, table := range []string{"Refs", "Defs", "Decls"} {
				if _, err := tx.Exec(`DELETE FROM `+table+` WHERE Filerow = ?`, o.filerow); err != nil {
					return err
				}
			}
			_, err := tx.Exec(`DELETE FROM Files WHERE Filerow = ?`, o.filerow)
			return err
		})
		if err != nil {
			return len(orphans), fmt.Errorf("pruning %s: %w", o.name, err)
		}
	}
	return len(orphans), nil
}

// Hit is one query-output row, already joined back to its filename.
type Hit struct {
	Filename   string
	Line       int
	Col        int
	Scope      string
	Kind       string
	SubKind    string
	Identifier string
}

// Query implements the --id lookup: pattern's '?' and '*' wildcards are
// translated to SQL LIKE's '_' and '%' before matching against
// Identifier. tables restricts which of Refs/Defs/Decls are searched;
// an empty set means all three.
func (s *Store) Query(pattern string, tables []string) ([]Hit, error) {
	if len(tables) == 0 {
		tables = []string{"Refs", "Defs", "Decls"}
	}
	likePattern := toSQLLike(pattern)
	subKindOf := map[string]string{"Refs": "REFERENCE", "Defs": "DEFINITION", "Decls": "DECLARATION"}

	var hits []Hit
	for _, table := range tables {
		query := `SELECT f.Filename, t.Line, t.ColumnStart, t.Scope, t.Type, t.Identifier
			FROM ` + table + ` t JOIN Files f ON f.Filerow = t.Filerow
			WHERE t.Identifier LIKE ? ESCAPE '\'
			ORDER BY f.Filename, t.Line, t.ColumnStart`
		rows, err := s.conn.Query(query, likePattern)
		if err != nil {
			return nil, fmt.Errorf("querying %s: %w", table, err)
		}
		for rows.Next() {
			var h Hit
			var typeID int
			if err := rows.Scan(&h.Filename, &h.Line, &h.Col, &h.Scope, &typeID, &h.Identifier); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scanning %s row: %w", table, err)
			}
			h.Kind = KindName(typeID)
			h.SubKind = subKindOf[table]
			hits = append(hits, h)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}
	return hits, nil
}

// toSQLLike translates the '?'/'*' wildcard syntax to SQL LIKE's '_'/'%',
// escaping any literal LIKE metacharacter already present in pattern
// with a backslash (matching the ESCAPE '\' clause above).
func toSQLLike(pattern string) string {
	out := make([]byte, 0, len(pattern)+4)
	for i := 0; i < len(pattern); i++ {
		switch c := pattern[i]; c {
		case '?':
			out = append(out, '_')
		case '*':
			out = append(out, '%')
		case '_', '%', '\\':
			out = append(out, '\\', c)
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
