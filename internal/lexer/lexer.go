// Package lexer is a single left-to-right pass turning decoded UTF-8
// source text into a chunk.List, one chunk per lexeme. The control
// structure (peek/advance/makeToken over a rune or byte cursor, switch on
// leading character) is grounded on a hand-rolled C-family lexer design.
package lexer

import (
	"strings"

	"toks/internal/chartable"
	"toks/internal/chunk"
	"toks/internal/langs"
)

// Lexer turns a source string into a chunk.List.
type Lexer struct {
	src  string
	pos  int
	line int
	col  int

	lang langs.Flag

	list *chunk.List

	inPreproc   bool
	atLineStart bool
}

// Tokenize runs the tokenizer over src under language lang and returns the
// resulting chunk list.
func Tokenize(src string, lang langs.Flag) *chunk.List {
	lx := &Lexer{
		src:         src,
		line:        1,
		col:         1,
		lang:        lang,
		list:        chunk.NewList(),
		atLineStart: true,
	}
	lx.run()
	return lx.list
}

func (lx *Lexer) eof() bool { return lx.pos >= len(lx.src) }

func (lx *Lexer) byteAt(off int) byte {
	if lx.pos+off >= len(lx.src) {
		return 0
	}
	return lx.src[lx.pos+off]
}

func (lx *Lexer) advance() byte {
	b := lx.src[lx.pos]
	lx.pos++
	if b == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return b
}

func (lx *Lexer) emit(kind chunk.Kind, text string, line, col, colEnd int) chunk.Ref {
	c := chunk.Chunk{
		Kind: kind, Text: text,
		OrigLine: line, OrigCol: col, OrigColEnd: colEnd,
	}
	if lx.inPreproc {
		c.Flags |= chunk.FlagInPreproc
	}
	return lx.list.Append(c)
}

func (lx *Lexer) run() {
	for !lx.eof() {
		b := lx.byteAt(0)

		if chartable.Is(b, chartable.Space) {
			lx.lexHorizontalSpace()
			continue
		}
		if b == '\n' || (b == '\r' && lx.byteAt(1) == '\n') ||
			(b == '\\' && (lx.byteAt(1) == '\n' || (lx.byteAt(1) == '\r' && lx.byteAt(2) == '\n'))) {
			lx.lexNewline()
			continue
		}

		if b == '#' && lx.atLineStart && !lx.inPreproc {
			lx.lexPreprocStart()
			continue
		}

		if b == '/' && lx.byteAt(1) == '/' {
			if lx.lang != langs.C || lx.lang&langs.C99Plus != 0 {
				lx.lexLineComment()
				lx.atLineStart = false
				continue
			}
		}
		if b == '/' && lx.byteAt(1) == '*' {
			lx.lexBlockComment()
			lx.atLineStart = false
			continue
		}

		if chartable.Is(b, chartable.WordStart) || (b >= 0x80) {
			lx.lexWord()
			lx.atLineStart = false
			continue
		}
		if chartable.Is(b, chartable.Digit) {
			lx.lexNumber()
			lx.atLineStart = false
			continue
		}
		if b == '"' || (b == '@' && lx.byteAt(1) == '"' && (lx.lang&(langs.OC|langs.CS) != 0)) {
			lx.lexString()
			lx.atLineStart = false
			continue
		}
		if b == '\'' {
			lx.lexChar()
			lx.atLineStart = false
			continue
		}

		lx.lexPunctuator()
		lx.atLineStart = false

		if lx.inPreproc && b == '\n' {
			lx.inPreproc = false
		}
	}
}

// lexHorizontalSpace consumes a run of non-newline whitespace without
// emitting a chunk; column advances but no token is produced.
func (lx *Lexer) lexHorizontalSpace() {
	for !lx.eof() && chartable.Is(lx.byteAt(0), chartable.Space) {
		lx.advance()
	}
}

// lexNewline coalesces a run of whitespace (including multiple blank
// lines) into one NEWLINE chunk whose NLCount records embedded '\n's, and
// closes any open preprocessor line unless the last char before '\n' was a
// line-continuation backslash.
func (lx *Lexer) lexNewline() {
	line, col := lx.line, lx.col
	nl := 0
	cont := false
	for !lx.eof() {
		b := lx.byteAt(0)
		if b == '\\' && (lx.byteAt(1) == '\n' || (lx.byteAt(1) == '\r' && lx.byteAt(2) == '\n')) {
			lx.advance() // backslash
			if lx.byteAt(0) == '\r' {
				lx.advance()
			}
			lx.advance() // newline
			nl++
			cont = true
			continue
		}
		if b == '\r' && lx.byteAt(1) == '\n' {
			lx.advance()
			lx.advance()
			nl++
			continue
		}
		if b == '\n' {
			lx.advance()
			nl++
			continue
		}
		if chartable.Is(b, chartable.Space) {
			lx.advance()
			continue
		}
		break
	}
	kind := chunk.KindNewline
	if cont && nl == 1 {
		kind = chunk.KindNLCont
	}
	r := lx.emit(kind, "", line, col, lx.col)
	lx.list.At(r).NLCount = nl
	lx.atLineStart = true
	if lx.inPreproc && !cont {
		lx.inPreproc = false
	}
}

func (lx *Lexer) lexPreprocStart() {
	line, col := lx.line, lx.col
	start := lx.pos
	lx.advance() // '#'
	for !lx.eof() && chartable.Is(lx.byteAt(0), chartable.Space) {
		lx.advance()
	}
	wordStart := lx.pos
	for !lx.eof() && chartable.Is(lx.byteAt(0), chartable.WordCont) {
		lx.advance()
	}
	directive := "#" + lx.src[wordStart:lx.pos]
	text := lx.src[start:lx.pos]

	lx.inPreproc = true
	r := lx.emit(chunk.KindPreproc, text, line, col, lx.col)
	c := lx.list.At(r)
	if kind, ok := langs.FindKeywordKind(directive, lx.lang, true); ok {
		c.ParentKind = kind
	} else {
		c.ParentKind = chunk.KindPPOther
	}
}

func (lx *Lexer) lexLineComment() {
	line, col := lx.line, lx.col
	start := lx.pos
	for !lx.eof() && lx.byteAt(0) != '\n' {
		lx.advance()
	}
	lx.emit(chunk.KindComment, lx.src[start:lx.pos], line, col, lx.col)
}

func (lx *Lexer) lexBlockComment() {
	line, col := lx.line, lx.col
	start := lx.pos
	lx.advance()
	lx.advance()
	for !lx.eof() {
		if lx.byteAt(0) == '*' && lx.byteAt(1) == '/' {
			lx.advance()
			lx.advance()
			break
		}
		lx.advance()
	}
	lx.emit(chunk.KindCommentMulti, lx.src[start:lx.pos], line, col, lx.col)
}

func (lx *Lexer) lexWord() {
	line, col := lx.line, lx.col
	start := lx.pos
	if lx.byteAt(0) == '@' {
		lx.advance() // annotation / OC keyword marker
	}
	for !lx.eof() && (chartable.Is(lx.byteAt(0), chartable.WordCont) || lx.byteAt(0) >= 0x80) {
		lx.advance()
	}
	text := lx.src[start:lx.pos]

	kind := chunk.KindWord
	if k, ok := langs.FindKeywordKind(text, lx.lang, lx.inPreproc); ok {
		kind = k
	}
	r := lx.emit(kind, text, line, col, lx.col)
	if kind != chunk.KindWord {
		lx.list.At(r).Flags |= chunk.FlagKeyword
	} else if langs.BuiltinTypes[text] || langs.IsExtraType(text) {
		lx.list.At(r).Kind = chunk.KindType
		lx.list.At(r).Flags |= chunk.FlagKeyword | chunk.FlagVarType
	}
}

func (lx *Lexer) lexNumber() {
	line, col := lx.line, lx.col
	start := lx.pos

	if lx.byteAt(0) == '0' && (lx.byteAt(1) == 'x' || lx.byteAt(1) == 'X') {
		lx.advance()
		lx.advance()
		for !lx.eof() && (chartable.Is(lx.byteAt(0), chartable.Hex) || lx.byteAt(0) == '_') {
			lx.advance()
		}
	} else if lx.byteAt(0) == '0' && (lx.byteAt(1) == 'b' || lx.byteAt(1) == 'B') {
		lx.advance()
		lx.advance()
		for !lx.eof() && (lx.byteAt(0) == '0' || lx.byteAt(0) == '1' || lx.byteAt(0) == '_') {
			lx.advance()
		}
	} else {
		for !lx.eof() && (chartable.Is(lx.byteAt(0), chartable.Digit) || lx.byteAt(0) == '_') {
			lx.advance()
		}
		if lx.byteAt(0) == '.' && chartable.Is(lx.byteAt(1), chartable.Digit) {
			lx.advance()
			for !lx.eof() && chartable.Is(lx.byteAt(0), chartable.Digit) {
				lx.advance()
			}
		}
		if lx.byteAt(0) == 'e' || lx.byteAt(0) == 'E' {
			save := lx.pos
			lx.advance()
			if lx.byteAt(0) == '+' || lx.byteAt(0) == '-' {
				lx.advance()
			}
			if chartable.Is(lx.byteAt(0), chartable.Digit) {
				for !lx.eof() && chartable.Is(lx.byteAt(0), chartable.Digit) {
					lx.advance()
				}
			} else {
				lx.pos = save
			}
		}
	}
	// Language-specific numeric suffixes: u/U/l/L/f/F (and combinations).
	for !lx.eof() && strings.ContainsRune("uUlLfF", rune(lx.byteAt(0))) {
		lx.advance()
	}
	lx.emit(chunk.KindNumber, lx.src[start:lx.pos], line, col, lx.col)
}

func (lx *Lexer) lexString() {
	line, col := lx.line, lx.col
	start := lx.pos
	if lx.byteAt(0) == '@' {
		lx.advance() // OC/C# verbatim-string prefix
	}
	quote := lx.advance()
	raw := quote == '"' && lx.src[start] == '@'
	for !lx.eof() {
		b := lx.byteAt(0)
		if b == '\\' && !raw {
			lx.advance()
			if !lx.eof() {
				lx.advance()
			}
			continue
		}
		if b == quote {
			lx.advance()
			break
		}
		lx.advance()
	}
	lx.emit(chunk.KindString, lx.src[start:lx.pos], line, col, lx.col)
}

func (lx *Lexer) lexChar() {
	line, col := lx.line, lx.col
	start := lx.pos
	lx.advance() // opening quote
	for !lx.eof() {
		b := lx.byteAt(0)
		if b == '\\' {
			lx.advance()
			if !lx.eof() {
				lx.advance()
			}
			continue
		}
		if b == '\'' {
			lx.advance()
			break
		}
		lx.advance()
	}
	lx.emit(chunk.KindString, lx.src[start:lx.pos], line, col, lx.col)
}

func (lx *Lexer) lexPunctuator() {
	line, col := lx.line, lx.col
	rest := lx.src[lx.pos:]
	p := langs.MatchPunctuator(rest)
	if p == "" {
		// Unrecognized byte: emit it verbatim as a single-char operator
		// rather than aborting, for best-effort recovery on malformed input.
		b := lx.advance()
		lx.emit(chunk.KindOperatorTok, string(b), line, col, lx.col)
		return
	}
	for range p {
		lx.advance()
	}
	kind := langs.PunctuatorKind(p)
	r := lx.emit(kind, p, line, col, lx.col)
	switch kind {
	case chunk.KindParenOpen, chunk.KindParenClose, chunk.KindBraceOpen, chunk.KindBraceClose,
		chunk.KindSquareOpen, chunk.KindSquareClose:
		// Bracketing tokens are reclassified by brace_cleanup; they are
		// not marked PUNCTUATOR so later stages can still see them as
		// structural.
	default:
		lx.list.At(r).Flags |= chunk.FlagPunctuator
	}
}
