// Package braces implements brace/paren/preprocessor frame balancing,
// virtual-brace insertion for brace-omitting control forms, and
// per-chunk level/flag propagation. It is the largest single stage of
// the pipeline.
package braces

import (
	"fmt"

	"toks/internal/chunk"
)

// Error reports a structural failure that aborts the file, such as the
// TooDeep kind.
type Error struct {
	Kind string
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Msg) }

// controlKeyword reports whether k is one of the keywords whose
// parenthesized condition can be followed by a brace-omitting single
// statement.
func controlKeyword(k chunk.Kind) bool {
	switch k {
	case chunk.KindIf, chunk.KindFor, chunk.KindWhile, chunk.KindSwitch, chunk.KindCatch:
		return true
	}
	return false
}

// statementParenKeyword reports whether k precedes a statement paren
// (SPAREN) rather than a function paren or a grouping paren.
func statementParenKeyword(k chunk.Kind) bool {
	switch k {
	case chunk.KindIf, chunk.KindFor, chunk.KindWhile, chunk.KindSwitch, chunk.KindCatch,
		chunk.KindSizeof, chunk.KindTypeof:
		return true
	}
	return false
}

// copyFlagsFor returns the IN_* flags a chunk should inherit while psTop
// is the active parse-frame entry.
func copyFlagsFor(top *pseEntry) chunk.Flags {
	if top == nil {
		return 0
	}
	switch top.openKind {
	case chunk.KindSParenOpen:
		return chunk.FlagInSparen | inFlagForParent(top.parentKind)
	case chunk.KindFParenOpen:
		return inFlagForParent(top.parentKind)
	case chunk.KindBraceOpen, chunk.KindVBraceOpen:
		return inFlagForParent(top.parentKind)
	case chunk.KindAngleOpen:
		return chunk.FlagInTemplate
	}
	return 0
}

// copyFlags is copyFlagsFor(st.top()) plus FlagInPreproc whenever the
// chunk falls inside an active #if/#ifdef region (st.ppLevel > 0), not
// just while the lexer is still scanning the directive line itself: a
// plain code token on its own line between #if and #endif carries the
// flag too.
func (st *state) copyFlags() chunk.Flags {
	f := copyFlagsFor(st.top())
	if st.ppLevel > 0 {
		f |= chunk.FlagInPreproc
	}
	return f
}

func inFlagForParent(pk chunk.Kind) chunk.Flags {
	switch pk {
	case chunk.KindStruct:
		return chunk.FlagInStruct
	case chunk.KindEnum:
		return chunk.FlagInEnum
	case chunk.KindClass:
		return chunk.FlagInClass
	case chunk.KindNamespace:
		return chunk.FlagInNamespace
	case chunk.KindTypedef:
		return chunk.FlagInTypedef
	case chunk.KindFor:
		return chunk.FlagInFor
	case chunk.KindFuncDef, chunk.KindFuncProto, chunk.KindFuncClass:
		return chunk.FlagInFcnDef
	case chunk.KindFuncCall:
		return chunk.FlagInFcnCall
	}
	return 0
}

// state holds the mutable working set threaded through Run.
type state struct {
	list  *chunk.List
	pse   []pseEntry
	level int
	brace int

	frames  []frame
	ppLevel int
	ppOverflowed bool

	// pending tracks open "single controlled statement" contexts created
	// for brace-omitting if/for/while/else/do bodies: the Ref of the
	// inserted VBRACE_OPEN and the level it was opened at, so the pass
	// knows when the terminating ';' closes it.
	pending []pendingStmt

	// lastSParenParent remembers the controlling keyword of the most
	// recently closed statement-paren, so a '{' immediately following it
	// can adopt that keyword as its ParentKind without rescanning the
	// list (the '{' opened for an enum has parent_kind = ENUM;
	// this generalizes to if/for/while/switch/catch too).
	lastSParenParent chunk.Kind

	// awaitingWhile counts 'do' bodies that have closed and are waiting
	// for their trailing 'while ( ... ) ;' condition. That while's
	// SPAREN matches controlKeyword like any loop-introducing while, but
	// it must not get a virtual-brace body of its own.
	awaitingWhile int
}

type pendingStmt struct {
	vopen chunk.Ref
	level int
	copy  chunk.Flags
}

// Run performs brace/paren/preprocessor-frame cleanup over list in place.
// It takes no language flag: the structural algorithm is the same for
// every supported language.
func Run(list *chunk.List) error {
	st := &state{list: list}

	for r := list.Head(); r != chunk.NoRef; r = list.Next(r) {
		c := list.At(r)

		switch c.Kind {
		case chunk.KindPreproc:
			st.handlePreproc(c)
			continue
		case chunk.KindVBraceOpen, chunk.KindVBraceClose:
			// Inserted by this pass just ahead of the cursor, with its
			// level set and its PSE entry already pushed or popped.
			continue
		case chunk.KindNewline, chunk.KindNLCont, chunk.KindComment, chunk.KindCommentMulti:
			c.Level = st.level
			c.BraceLevel = st.brace
			c.PPLevel = st.ppLevel
			continue
		}

		c.PPLevel = st.ppLevel

		if chunk.IsOpener(c.Kind) || c.Kind == chunk.KindParenOpen {
			if err := st.handleOpenCandidate(r, c); err != nil {
				return err
			}
			continue
		}
		if chunk.IsCloser(c.Kind) {
			st.handleCloser(r, c)
			continue
		}

		// Ordinary token: current level/brace_level, inherit IN_* flags
		// from the enclosing frame, and close out any pending
		// brace-omitting statement on a terminating ';'.
		c.Level = st.level
		c.BraceLevel = st.brace
		c.Flags |= st.copyFlags()

		if c.Kind == chunk.KindElse || c.Kind == chunk.KindDo {
			st.maybeInsertVirtualBraceAfterKeyword(r, c.Kind)
		}

		if c.Kind == chunk.KindSemicolon {
			st.closePendingAt(r, st.level)
		}
	}

	return nil
}

func (st *state) top() *pseEntry {
	if len(st.pse) == 0 {
		return nil
	}
	return &st.pse[len(st.pse)-1]
}

// classifyParen decides SPAREN_OPEN vs FPAREN_OPEN vs PAREN_OPEN for an
// unretyped '('.
func (st *state) classifyParen(r chunk.Ref) (chunk.Kind, chunk.Kind) {
	prev := st.list.PrevNCNL(r)
	if prev == chunk.NoRef {
		return chunk.KindParenOpen, chunk.KindNone
	}
	pk := st.list.At(prev).Kind
	if statementParenKeyword(pk) {
		return chunk.KindSParenOpen, pk
	}
	if pk == chunk.KindWord || pk == chunk.KindFParenClose || pk == chunk.KindParenClose ||
		pk == chunk.KindType || pk == chunk.KindOperator {
		return chunk.KindFParenOpen, chunk.KindNone
	}
	return chunk.KindParenOpen, chunk.KindNone
}

func (st *state) handleOpenCandidate(r chunk.Ref, c *chunk.Chunk) error {
	openKind := c.Kind
	parentKind := chunk.KindNone

	switch c.Kind {
	case chunk.KindParenOpen:
		openKind, parentKind = st.classifyParen(r)
		c.Kind = openKind
	case chunk.KindBraceOpen:
		parentKind = st.braceParentKind(r)
		c.ParentKind = parentKind
	case chunk.KindAngleOpen:
		parentKind = chunk.KindTemplate
	}

	if len(st.pse) >= maxPSEDepth {
		return &Error{Kind: "TooDeep", Msg: "parse stack exceeded maximum depth"}
	}

	c.Level = st.level
	c.BraceLevel = st.brace
	c.Flags |= st.copyFlags()

	st.pse = append(st.pse, pseEntry{
		openKind: openKind, openLine: c.OrigLine, openRef: r, parentKind: parentKind,
		stage: stageNone,
	})
	st.level++
	if chunk.IsBrace(openKind) {
		st.brace++
	}
	return nil
}

// braceParentKind determines the parent_kind a '{' should carry: the
// construct keyword immediately before it (possibly through a class-base
// list or function parameter list) — e.g. the '{' opened for an enum
// has parent_kind = ENUM.
func (st *state) braceParentKind(r chunk.Ref) chunk.Kind {
	prev := st.list.PrevNCNL(r)
	for prev != chunk.NoRef {
		pc := st.list.At(prev)
		switch pc.Kind {
		case chunk.KindWord, chunk.KindType, chunk.KindDCMember, chunk.KindColon, chunk.KindComma:
			prev = st.list.PrevNCNL(prev)
			continue
		case chunk.KindStruct, chunk.KindUnion, chunk.KindEnum, chunk.KindClass, chunk.KindNamespace:
			return pc.Kind
		case chunk.KindFParenClose:
			return chunk.KindFuncDef
		case chunk.KindSParenClose:
			return st.lastSParenParent
		case chunk.KindTypedef:
			return chunk.KindTypedef
		default:
			return chunk.KindNone
		}
	}
	return chunk.KindNone
}

func (st *state) handleCloser(r chunk.Ref, c *chunk.Chunk) {
	var entry pseEntry
	if len(st.pse) > 0 {
		entry = st.pse[len(st.pse)-1]
		st.pse = st.pse[:len(st.pse)-1]
		st.level--
		if chunk.IsBrace(entry.openKind) {
			st.brace--
		}
	} else {
		// Unmatched closer: leave at level 0 rather than underflowing.
		st.level = 0
	}

	// Resolve the generic ')' to match its opener's retyped kind.
	if c.Kind == chunk.KindParenClose {
		switch entry.openKind {
		case chunk.KindSParenOpen:
			c.Kind = chunk.KindSParenClose
		case chunk.KindFParenOpen:
			c.Kind = chunk.KindFParenClose
		}
	}

	c.Level = st.level
	c.BraceLevel = st.brace
	c.Flags |= st.copyFlags()
	if chunk.IsBrace(c.Kind) {
		c.ParentKind = entry.parentKind
	}

	if c.Kind == chunk.KindSParenClose {
		st.lastSParenParent = entry.parentKind
		if controlKeyword(entry.parentKind) {
			st.maybeInsertVirtualBrace(r, entry)
		}
	}
}

// maybeInsertVirtualBrace handles virtual-brace insertion: if the
// statement paren just closed is not immediately followed by '{',
// synthesize a VBRACE_OPEN there and remember to close it with a
// VBRACE_CLOSE after the controlled statement's terminating ';'.
func (st *state) maybeInsertVirtualBrace(closeParen chunk.Ref, entry pseEntry) {
	if entry.parentKind == chunk.KindWhile && st.awaitingWhile > 0 {
		// This is a do-while's trailing condition, not a loop header: its
		// body was already closed by the 'do' keyword's virtual brace.
		st.awaitingWhile--
		return
	}
	next := st.list.NextNCNL(closeParen)
	if next != chunk.NoRef && st.list.At(next).Kind == chunk.KindBraceOpen {
		return
	}
	st.insertVirtualBraceAfter(closeParen, entry.parentKind)
}

// maybeInsertVirtualBraceAfterKeyword handles the 'else'/'do' forms, which
// (unlike if/for/while/switch/catch) have no controlling paren: the
// brace-omission decision is made directly off the keyword itself.
func (st *state) maybeInsertVirtualBraceAfterKeyword(r chunk.Ref, kw chunk.Kind) {
	next := st.list.NextNCNL(r)
	if next != chunk.NoRef && st.list.At(next).Kind == chunk.KindBraceOpen {
		return
	}
	st.insertVirtualBraceAfter(r, kw)
}

// insertVirtualBraceAfter inserts a VBRACE_OPEN immediately after "after"
// and registers a pending close, propagating the IN_* flags the
// controlled statement should carry to the inserted chunk's context.
func (st *state) insertVirtualBraceAfter(after chunk.Ref, parentKind chunk.Kind) {
	refChunk := st.list.At(after)
	vb := chunk.Chunk{
		Kind:       chunk.KindVBraceOpen,
		ParentKind: parentKind,
		OrigLine:   refChunk.OrigLine,
		OrigCol:    refChunk.OrigColEnd,
		OrigColEnd: refChunk.OrigColEnd,
		Level:      st.level,
		BraceLevel: st.brace,
		PPLevel:    st.ppLevel,
	}
	vref := st.list.InsertAfter(after, vb)

	if len(st.pse) >= maxPSEDepth {
		return
	}
	st.pse = append(st.pse, pseEntry{
		openKind: chunk.KindVBraceOpen, openRef: vref, parentKind: parentKind, stage: stageBrace2,
	})
	st.level++
	st.brace++

	st.pending = append(st.pending, pendingStmt{vopen: vref, level: st.level, copy: inFlagForParent(parentKind)})
}

// closePendingAt closes the innermost pending virtual-brace context once
// its controlled statement's terminating ';' is seen at the matching
// level. Only a ';' closes it: a controlled statement that ends in a
// real '}' leaves the context pending.
func (st *state) closePendingAt(afterRef chunk.Ref, level int) {
	if len(st.pending) == 0 {
		return
	}
	p := st.pending[len(st.pending)-1]
	if p.level != level {
		return
	}
	st.pending = st.pending[:len(st.pending)-1]

	// Pop the matching VBRACE_OPEN's PSE entry (it must be the top,
	// since nothing can close out of order past an unclosed virtual
	// brace without itself being inside it).
	if top := st.top(); top != nil && top.openKind == chunk.KindVBraceOpen && top.openRef == p.vopen {
		entry := st.pse[len(st.pse)-1]
		st.pse = st.pse[:len(st.pse)-1]
		st.level--
		st.brace--

		after := st.list.At(afterRef)
		vb := chunk.Chunk{
			Kind:       chunk.KindVBraceClose,
			ParentKind: entry.parentKind,
			OrigLine:   after.OrigLine,
			OrigCol:    after.OrigColEnd,
			OrigColEnd: after.OrigColEnd,
			Level:      st.level,
			BraceLevel: st.brace,
			PPLevel:    st.ppLevel,
		}
		st.list.InsertAfter(afterRef, vb)

		if entry.parentKind == chunk.KindDo {
			st.awaitingWhile++
		}
	}
}

// handlePreproc implements the #if/#else/#endif frame snapshotting.
func (st *state) handlePreproc(c *chunk.Chunk) {
	c.PPLevel = st.ppLevel
	c.Level = st.level
	c.BraceLevel = st.brace

	switch c.ParentKind {
	case chunk.KindPPIf:
		c.PPLevel = st.ppLevel + 1
		if len(st.frames) >= maxFrameDepth {
			st.ppOverflowed = true
			st.ppLevel++
			return
		}
		st.frames = append(st.frames, frame{
			marker: markerIf, level: st.level, braceLevel: st.brace, pse: cloneStack(st.pse),
		})
		st.ppLevel++

	case chunk.KindPPElse:
		if st.ppOverflowed || len(st.frames) == 0 {
			return
		}
		top := &st.frames[len(st.frames)-1]
		if top.marker == markerIf {
			// Push the current (end of #if branch) working state under
			// the base snapshot, then restore the base as the working
			// state for the #else branch - "never the union" semantics.
			cur := frame{marker: markerElse, level: st.level, braceLevel: st.brace, pse: cloneStack(st.pse)}
			base := *top
			st.frames[len(st.frames)-1] = cur
			st.frames = append(st.frames, base)
			st.restoreFrame(base)
			st.frames[len(st.frames)-1].marker = markerElse
		} else {
			st.restoreFrame(*top)
		}

	case chunk.KindPPEndif:
		if st.ppOverflowed {
			if st.ppLevel > 0 {
				st.ppLevel--
			}
			return
		}
		if len(st.frames) == 0 {
			return
		}
		top := st.frames[len(st.frames)-1]
		st.frames = st.frames[:len(st.frames)-1]
		if top.marker == markerElse && len(st.frames) > 0 {
			// Collapse the extra base level pushed on #else, restoring
			// the #if branch's end-of-branch snapshot underneath it -
			// mirrors pf_pop's pf_copy_tos: the post-#endif state is
			// always the #if branch's end state, never the #else
			// branch's.
			second := st.frames[len(st.frames)-1]
			st.frames = st.frames[:len(st.frames)-1]
			st.restoreFrame(second)
		} else {
			st.restoreFrame(top)
		}
		if st.ppLevel > 0 {
			st.ppLevel--
		}
	}
}

func (st *state) restoreFrame(f frame) {
	st.level = f.level
	st.brace = f.braceLevel
	st.pse = cloneStack(f.pse)
}

func cloneStack(s []pseEntry) []pseEntry {
	out := make([]pseEntry, len(s))
	copy(out, s)
	return out
}
