// Package tokserr defines the closed set of error kinds this tool can
// raise: a typed, wrapped error callers inspect with errors.As rather
// than string-matching.
package tokserr

import (
	"errors"
	"fmt"
)

// Kind is one of the six error kinds this taxonomy names.
type Kind string

const (
	FileIoError     Kind = "FileIoError"
	BadEncoding     Kind = "BadEncoding"
	CorruptInput    Kind = "CorruptInput"
	TooDeep         Kind = "TooDeep"
	IndexError      Kind = "IndexError"
	VersionMismatch Kind = "VersionMismatch"
)

// PerFile reports whether a Kind aborts only the current file (true) or is
// process-fatal (false, VersionMismatch alone).
func (k Kind) PerFile() bool {
	return k != VersionMismatch
}

// Error wraps an underlying cause with one of the taxonomy's kinds.
type Error struct {
	Kind Kind
	File string // source file the error pertains to, empty for process-fatal kinds
	Err  error
}

func (e *Error) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.File, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err under kind, with no file attached (process-fatal kinds, or
// file-less internal errors).
func New(kind Kind, err error) error {
	return &Error{Kind: kind, Err: err}
}

// NewFile wraps err under kind, attributed to file.
func NewFile(kind Kind, file string, err error) error {
	return &Error{Kind: kind, File: file, Err: err}
}

// KindOf extracts the Kind from err if it (or something it wraps) is an
// *Error, reporting ok=false otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
