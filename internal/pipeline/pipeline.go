// Package pipeline is the per-file coordinator: it drives decoding,
// tokenizing, cleanup, symbol classification, and scope assignment in
// order, bracketing emission with the external index store's
// begin/end-file calls, and aborting to the next file on any pipeline
// error.
package pipeline

import (
	"fmt"
	"os"

	"toks/internal/braces"
	"toks/internal/chunk"
	"toks/internal/cleanup"
	"toks/internal/decode"
	"toks/internal/emit"
	"toks/internal/index"
	"toks/internal/langs"
	"toks/internal/lexer"
	"toks/internal/logging"
	"toks/internal/scope"
	"toks/internal/symbols"
	"toks/internal/tokserr"
)

// FileState owns the per-file pipeline state: the raw bytes, the resolved
// language, and the chunk list every stage mutates in place.
type FileState struct {
	Path string
	Lang langs.Flag
	Raw  []byte
	List *chunk.List
}

// Result is what ProcessFile reports back to its caller for logging and
// exit-code purposes.
type Result struct {
	Skipped     bool
	EntryCount  int
	DumpedState *FileState // non-nil whenever the file was analysed (not skipped)
}

// Coordinator holds the resources shared across files within one process
// run: the index store and the logger. The coordinator itself keeps no
// cross-file state beyond the external index and this error count.
type Coordinator struct {
	Store  *index.Store
	Logger *logging.Logger

	// ErrCount is the run-wide error counter, incremented once per
	// per-file indexing failure.
	ErrCount int
}

// ProcessFile runs the full per-file pipeline over path under lang:
// decode -> tokenize -> tokenize_cleanup -> brace_cleanup -> (if Pawn)
// pawn_prescan -> fix_symbols -> combine_labels -> assign_scope -> output.
// fix_symbols and combine_labels are both driven from symbols.Run, which
// implements them in source order (see internal/symbols).
//
// The index store's begin-file bookkeeping runs as soon as the raw bytes
// are available, ahead of decode, so an unchanged file's digest match can
// skip the rest of the pipeline entirely — incremental re-indexing applied
// as early as the data dependency (the digest needs the raw bytes)
// allows.
func (c *Coordinator) ProcessFile(path string, lang langs.Flag) (Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Result{}, tokserr.NewFile(tokserr.FileIoError, path, err)
	}

	filerow, skip, err := c.Store.BeginFile(path, raw)
	if err != nil {
		c.ErrCount++
		return Result{}, err
	}
	if skip {
		return Result{Skipped: true}, nil
	}

	fs := &FileState{Path: path, Lang: lang, Raw: raw}

	utf8Src, err := decode.ToUTF8(raw)
	if err != nil {
		return Result{}, wrapDecodeError(path, err)
	}

	fs.List = lexer.Tokenize(utf8Src, lang)
	cleanup.Run(fs.List)

	if err := braces.Run(fs.List); err != nil {
		return Result{}, wrapBracesError(path, err)
	}

	if lang&langs.PAWN != 0 {
		pawnPrescan(fs.List)
	}

	symbols.Run(fs.List)
	scope.Run(fs.List)

	var entries []emit.Entry
	emit.Run(fs.List, func(e emit.Entry) {
		entries = append(entries, e)
	})

	if err := c.Store.InsertEntries(path, filerow, entries); err != nil {
		c.ErrCount++
		return Result{}, err
	}

	return Result{EntryCount: len(entries), DumpedState: fs}, nil
}

func wrapDecodeError(path string, err error) error {
	if de, ok := err.(*decode.Error); ok {
		switch de.Kind {
		case "CorruptInput":
			return tokserr.NewFile(tokserr.CorruptInput, path, err)
		default:
			return tokserr.NewFile(tokserr.BadEncoding, path, err)
		}
	}
	return tokserr.NewFile(tokserr.BadEncoding, path, err)
}

func wrapBracesError(path string, err error) error {
	if be, ok := err.(*braces.Error); ok && be.Kind == "TooDeep" {
		return tokserr.NewFile(tokserr.TooDeep, path, err)
	}
	return tokserr.NewFile(tokserr.TooDeep, path, fmt.Errorf("%w", err))
}
