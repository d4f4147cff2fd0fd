// Package emit is the final linear walk over a fully classified and scoped
// chunk list, turning each named-entity chunk into an (identifier, kind,
// sub_kind, scope, position) tuple.
//
// Results are handed to the caller through a callback sink rather than
// built into a result slice — the index store (external to the pipeline)
// is the thing that actually knows how to persist a tuple, and the
// pipeline coordinator (internal/pipeline) is the one composing this stage
// with that sink.
package emit

import (
	"toks/internal/chunk"
)

// Entry is one emitted occurrence, ready for the index store.
type Entry struct {
	Line       int
	Col        int
	Scope      string
	Kind       string
	SubKind    string
	Identifier string
}

// Run walks list and calls sink once for every chunk the classification
// table below assigns a (kind, sub_kind) to. PUNCTUATOR chunks
// and built-in-type KEYWORD chunks are skipped, matching the table's
// explicit exclusions; everything else the table doesn't name is skipped
// by falling through with no call to sink.
func Run(list *chunk.List, sink func(Entry)) {
	for r := list.Head(); r != chunk.NoRef; r = list.Next(r) {
		c := list.At(r)
		if c.Flags.Has(chunk.FlagPunctuator) {
			continue
		}
		if c.Kind == chunk.KindType && c.Flags.Has(chunk.FlagKeyword) {
			continue
		}
		kind, subKind, ok := classify(c)
		if !ok {
			continue
		}
		sink(Entry{
			Line:       c.OrigLine,
			Col:        c.OrigCol,
			Scope:      c.Scope,
			Kind:       kind,
			SubKind:    subKind,
			Identifier: c.Text,
		})
	}
}

// classify implements the (kind, sub_kind) classification table directly:
// each case matches one row in source order, since several rows key off
// the same chunk Kind and are disambiguated only by ParentKind/Flags.
func classify(c *chunk.Chunk) (kind, subKind string, ok bool) {
	switch c.Kind {
	case chunk.KindFuncDef:
		return "FUNCTION", "DEFINITION", true
	case chunk.KindFuncProto:
		return "FUNCTION", "DECLARATION", true
	case chunk.KindFuncCall:
		return "FUNCTION", "REFERENCE", true
	case chunk.KindFuncClass:
		return "FUNCTION", subKindFromFlags(c.Flags), true
	case chunk.KindMacroFunc:
		return "MACRO_FUNCTION", "DEFINITION", true
	case chunk.KindMacro:
		return "MACRO", "DEFINITION", true
	case chunk.KindFuncType:
		return "FUNCTION_TYPE", "DEFINITION", true
	case chunk.KindEnumVal:
		return "ENUM_VAL", subKindFromFlags(c.Flags), true

	case chunk.KindType:
		switch {
		case c.ParentKind == chunk.KindTypedef && c.Flags.Has(chunk.FlagTypedefStruct):
			return "STRUCT_TYPE", "DEFINITION", true
		case c.ParentKind == chunk.KindTypedef && c.Flags.Has(chunk.FlagTypedefUnion):
			return "UNION_TYPE", "DEFINITION", true
		case c.ParentKind == chunk.KindTypedef && c.Flags.Has(chunk.FlagTypedefEnum):
			return "ENUM_TYPE", "DEFINITION", true
		case c.ParentKind == chunk.KindTypedef:
			return "TYPE", "DEFINITION", true
		case c.ParentKind == chunk.KindStruct:
			return "STRUCT", subKindFromFlags(c.Flags), true
		case c.ParentKind == chunk.KindUnion:
			return "UNION", subKindFromFlags(c.Flags), true
		case c.ParentKind == chunk.KindEnum:
			return "ENUM", subKindFromFlags(c.Flags), true
		case c.ParentKind == chunk.KindClass:
			return "CLASS", subKindFromFlags(c.Flags), true
		default:
			return "TYPE", "REFERENCE", true
		}

	case chunk.KindWord, chunk.KindFuncVar, chunk.KindFuncCtorVar:
		switch {
		case c.ParentKind == chunk.KindNamespace:
			return "NAMESPACE", subKindFromFlags(c.Flags), true
		case c.Flags.Has(chunk.FlagVarDef):
			return "VAR", "DEFINITION", true
		case c.Flags.Has(chunk.FlagVarDecl):
			return "VAR", "DECLARATION", true
		default:
			return "VAR", "REFERENCE", true
		}
	}
	return "", "", false
}

func subKindFromFlags(f chunk.Flags) string {
	switch {
	case f.Has(chunk.FlagDef):
		return "DEFINITION"
	case f.Has(chunk.FlagProto):
		return "DECLARATION"
	case f.Has(chunk.FlagRef):
		return "REFERENCE"
	default:
		return "UNKNOWN"
	}
}
