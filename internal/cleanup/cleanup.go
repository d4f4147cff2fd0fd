// Package cleanup applies small pattern rewrites over the raw token
// stream produced by the lexer, before brace/level tracking begins. The
// directive-kind tagging is already performed at lex time
// (internal/lexer records ParentKind on the PREPROC chunk as it scans
// the directive word); this stage focuses on the rewrites that need to
// see the directive's *argument* tokens: naming the macro after
// #define, and marking Objective-C/Java/C# annotations.
package cleanup

import (
	"toks/internal/chunk"
)

// Run mutates list in place, applying the token-cleanup passes in order:
// macro naming, then annotation marking.
func Run(list *chunk.List) {
	markDefineMacros(list)
	markAnnotations(list)
}

// markDefineMacros finds each #define directive and retypes the following
// WORD as MACRO (object-like) or MACRO_FUNC (function-like, iff a '('
// immediately follows with no intervening whitespace). DEF is set on the
// macro name here rather than left for fix_symbols, since the context
// (the directive itself) is only unambiguous before brace_cleanup has a
// chance to mutate nearby tokens.
func markDefineMacros(list *chunk.List) {
	for r := list.Head(); r != chunk.NoRef; r = list.Next(r) {
		c := list.At(r)
		if c.Kind != chunk.KindPreproc || c.ParentKind != chunk.KindPPDefine {
			continue
		}
		nameRef := list.NextNC(r)
		if nameRef == chunk.NoRef {
			continue
		}
		name := list.At(nameRef)
		if name.Kind != chunk.KindWord {
			continue
		}
		// Function-like iff '(' follows with no whitespace: the next
		// raw chunk (not skipping trivia) must itself be '(' since any
		// intervening space would have produced a NEWLINE/space-less
		// token boundary; our lexer does not emit space chunks, so
		// "no whitespace" is "the very next chunk is FPAREN/PAREN".
		next := list.Next(nameRef)
		isFunc := next != chunk.NoRef && list.At(next).Kind == chunk.KindParenOpen &&
			list.At(next).OrigLine == name.OrigLine &&
			list.At(next).OrigCol == name.OrigColEnd

		name.Flags = name.Flags.SetExclusive(chunk.FlagDef)
		if isFunc {
			name.Kind = chunk.KindMacroFunc
		} else {
			name.Kind = chunk.KindMacro
		}
	}
}

// markAnnotations marks '@' followed immediately by a WORD as an
// annotation/OC-keyword marker: annotations (@Name in Java/C#) and
// Objective-C @ keywords. The '@' chunk gets ParentKind AT (the same for
// both forms) and the PUNCTUATOR flag, so emit skips it.
func markAnnotations(list *chunk.List) {
	for r := list.Head(); r != chunk.NoRef; r = list.Next(r) {
		c := list.At(r)
		if c.Kind != chunk.KindAt {
			continue
		}
		next := list.Next(r)
		if next == chunk.NoRef {
			continue
		}
		n := list.At(next)
		if n.Kind == chunk.KindWord && n.OrigLine == c.OrigLine && n.OrigCol == c.OrigColEnd {
			c.ParentKind = chunk.KindAt
			c.Flags |= chunk.FlagPunctuator
		}
	}
}
