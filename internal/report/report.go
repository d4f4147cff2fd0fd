// Package report formats the two kinds of output toks can produce: query
// hits (`--id`) and the full token dump (`-d`).
package report

import (
	"bufio"
	"fmt"
	"io"

	"toks/internal/chunk"
	"toks/internal/index"
)

// WriteHits prints one line per hit in the query-output format:
// "<file>:<line>:<col> <scope> <KIND> <SUB_KIND> <identifier>".
func WriteHits(w io.Writer, hits []index.Hit) error {
	bw := bufio.NewWriter(w)
	for _, h := range hits {
		if _, err := fmt.Fprintf(bw, "%s:%d:%d %s %s %s %s\n",
			h.Filename, h.Line, h.Col, h.Scope, h.Kind, h.SubKind, h.Identifier); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// flagNames lists the subset of chunk.Flags worth surfacing in a token
// dump; the full bitset is internal plumbing, but these are the ones a
// developer debugging a misclassification would actually want to see.
var flagNames = []struct {
	bit  chunk.Flags
	name string
}{
	{chunk.FlagDef, "DEF"},
	{chunk.FlagProto, "PROTO"},
	{chunk.FlagRef, "REF"},
	{chunk.FlagVarDef, "VAR_DEF"},
	{chunk.FlagVarDecl, "VAR_DECL"},
	{chunk.FlagKeyword, "KEYWORD"},
	{chunk.FlagPunctuator, "PUNCTUATOR"},
	{chunk.FlagStatic, "STATIC"},
	{chunk.FlagInPreproc, "IN_PREPROC"},
	{chunk.FlagTypedefStruct, "TYPEDEF_STRUCT"},
	{chunk.FlagTypedefUnion, "TYPEDEF_UNION"},
	{chunk.FlagTypedefEnum, "TYPEDEF_ENUM"},
}

func flagsString(f chunk.Flags) string {
	s := ""
	for _, fn := range flagNames {
		if f.Has(fn.bit) {
			if s != "" {
				s += ","
			}
			s += fn.name
		}
	}
	return s
}

// DumpTokens implements the -d flag: dump every chunk after parsing, one
// line per chunk, in list order.
func DumpTokens(w io.Writer, list *chunk.List) error {
	bw := bufio.NewWriter(w)
	for r := list.Head(); r != chunk.NoRef; r = list.Next(r) {
		c := list.At(r)
		if _, err := fmt.Fprintf(bw, "%4d:%-3d %-16s lvl=%d brace=%d pp=%d %-30q %s\n",
			c.OrigLine, c.OrigCol, c.Kind, c.Level, c.BraceLevel, c.PPLevel, c.Text, flagsString(c.Flags)); err != nil {
			return err
		}
	}
	return bw.Flush()
}
