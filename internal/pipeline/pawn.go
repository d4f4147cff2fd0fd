package pipeline

import "toks/internal/chunk"

// pawnPrescan is the Pawn-only prescan step: Pawn allows a statement to end
// at a newline without a trailing ';' when the next line's brace/paren
// nesting makes the boundary unambiguous, and Pawn's exact triggering
// rules for this are not fully known here. This is a conservative
// reading of that rule, not a full reimplementation: it only inserts a
// synthetic ';' immediately before a newline that is followed by a
// BRACE_CLOSE, a WORD or a statement keyword, at any brace level, and never
// touches a line already ending in ';', '{', '}', ',', or an operator
// that implies continuation.
func pawnPrescan(list *chunk.List) {
	for r := list.Head(); r != chunk.NoRef; {
		c := list.At(r)
		next := list.Next(r)
		if c.Kind != chunk.KindNewline {
			r = next
			continue
		}

		prev := list.PrevNC(r)
		if prev == chunk.NoRef || !needsSemicolon(list.At(prev)) {
			r = next
			continue
		}

		after := list.NextNCNL(r)
		if after == chunk.NoRef || !startsNewStatement(list.At(after)) {
			r = next
			continue
		}

		list.InsertAfter(prev, chunk.Chunk{
			Kind:       chunk.KindSemicolon,
			Text:       ";",
			Level:      c.Level,
			BraceLevel: c.BraceLevel,
			PPLevel:    c.PPLevel,
			OrigLine:   c.OrigLine,
			OrigCol:    c.OrigCol,
			Flags:      c.Flags & chunk.CopyFlags,
		})
		r = next
	}
}

func needsSemicolon(c *chunk.Chunk) bool {
	switch c.Kind {
	case chunk.KindSemicolon, chunk.KindBraceOpen, chunk.KindBraceClose,
		chunk.KindVBraceOpen, chunk.KindVBraceClose, chunk.KindComma,
		chunk.KindOperatorTok, chunk.KindAssign, chunk.KindComment, chunk.KindCommentMulti:
		return false
	}
	return true
}

func startsNewStatement(c *chunk.Chunk) bool {
	switch c.Kind {
	case chunk.KindWord, chunk.KindBraceClose, chunk.KindVBraceClose,
		chunk.KindIf, chunk.KindFor, chunk.KindWhile, chunk.KindDo, chunk.KindSwitch,
		chunk.KindReturn, chunk.KindBreak, chunk.KindContinue:
		return true
	}
	return false
}
