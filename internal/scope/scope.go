// Package scope walks the classified chunk list and attaches a
// ':'-joined scope string to every chunk based on its enclosing
// namespace/class/struct/enum/function chain.
//
// The classifier (internal/symbols) has already told every definer apart
// by kind and DEF/PROTO/REF; this package only needs to find, for each
// definer, the span of chunks its body (or parameter list) covers and the
// text segment that span contributes to the scope strings of everything
// inside it. Because definer spans are exactly the bracket nesting already
// tracked by internal/braces (an opener/closer pair sharing a Level), a
// single forward pass with an explicit stack reproduces the recursive
// enclosing-definer walk without recursion.
package scope

import (
	"strings"

	"toks/internal/chunk"
)

// Run assigns list.At(r).Scope for every chunk.
func Run(list *chunk.List) {
	events := collectEvents(list)

	type activeFrame struct {
		full  string
		close chunk.Ref
	}
	var stack []activeFrame

	for r := list.Head(); r != chunk.NoRef; r = list.Next(r) {
		if ev, ok := events[r]; ok {
			base := defaultScope(ev.definerFlags)
			if len(stack) > 0 {
				base = stack[len(stack)-1].full
			}
			stack = append(stack, activeFrame{full: base + ":" + ev.segment, close: ev.close})
		}

		c := list.At(r)
		if len(stack) == 0 {
			c.Scope = defaultScope(c.Flags)
		} else {
			c.Scope = stack[len(stack)-1].full
		}

		for len(stack) > 0 && stack[len(stack)-1].close == r {
			stack = stack[:len(stack)-1]
		}
	}
}

// defaultScope is the fallback for a chunk with no enclosing definer:
// <local> when it (or the definer whose absence of enclosure we're
// computing a base for) is STATIC, <preproc> when it is inside a
// preprocessor directive, else <global>.
func defaultScope(f chunk.Flags) string {
	switch {
	case f.Has(chunk.FlagStatic):
		return "<local>"
	case f.Has(chunk.FlagInPreproc):
		return "<preproc>"
	default:
		return "<global>"
	}
}

// event is a precomputed (open, close, segment) triple for one definer's
// body or parameter-list span.
type event struct {
	close        chunk.Ref
	segment      string
	definerFlags chunk.Flags
}

// collectEvents scans list once for every NAMESPACE/CLASS/STRUCT/UNION/
// ENUM/FUNC_DEF/FUNC_PROTO/FUNC_CLASS definer and records the span(s) its
// scope segment covers, keyed by the Ref of the span's opening chunk.
func collectEvents(list *chunk.List) map[chunk.Ref]event {
	events := map[chunk.Ref]event{}

	for r := list.Head(); r != chunk.NoRef; r = list.Next(r) {
		c := list.At(r)
		switch {
		case c.Kind == chunk.KindType &&
			(c.ParentKind == chunk.KindStruct || c.ParentKind == chunk.KindUnion ||
				c.ParentKind == chunk.KindEnum || c.ParentKind == chunk.KindClass) &&
			c.Flags.Has(chunk.FlagDef):
			addBodyEvent(list, events, r, "")

		case c.Kind == chunk.KindWord && c.ParentKind == chunk.KindNamespace && c.Flags.Has(chunk.FlagDef):
			addBodyEvent(list, events, r, "")

		case c.Kind == chunk.KindFuncDef:
			addFunctionEvents(list, events, r, true)

		case c.Kind == chunk.KindFuncProto:
			addFunctionEvents(list, events, r, false)

		case c.Kind == chunk.KindFuncClass && c.Flags.Has(chunk.FlagDef):
			addFunctionEvents(list, events, r, true)

		case c.Kind == chunk.KindFuncClass && c.Flags.Has(chunk.FlagProto):
			addFunctionEvents(list, events, r, false)
		}
	}
	return events
}

// addBodyEvent records a brace-only definer (struct/union/enum/class/
// namespace): its segment carries no decoration suffix.
func addBodyEvent(list *chunk.List, events map[chunk.Ref]event, nameRef chunk.Ref, decoration string) {
	open := forwardOpenAtLevel(list, nameRef, chunk.KindBraceOpen)
	if open == chunk.NoRef {
		return
	}
	close := matchingCloser(list, open, chunk.KindBraceClose)
	if close == chunk.NoRef {
		return
	}
	events[open] = event{
		close:        close,
		segment:      definerSegment(list, nameRef, decoration),
		definerFlags: list.At(nameRef).Flags,
	}
}

// addFunctionEvents records a function-shaped definer's parameter-list
// span ("()") and, if withBody, its body span ("{}").
func addFunctionEvents(list *chunk.List, events map[chunk.Ref]event, nameRef chunk.Ref, withBody bool) {
	paramsOpen := list.NextNCNL(nameRef)
	if paramsOpen == chunk.NoRef || list.At(paramsOpen).Kind != chunk.KindFParenOpen {
		return
	}
	paramsClose := matchingCloser(list, paramsOpen, chunk.KindFParenClose)
	if paramsClose == chunk.NoRef {
		return
	}
	flags := list.At(nameRef).Flags
	events[paramsOpen] = event{
		close:        paramsClose,
		segment:      definerSegment(list, nameRef, "()"),
		definerFlags: flags,
	}

	if !withBody {
		return
	}
	bodyOpen := list.NextNCNL(paramsClose)
	if bodyOpen == chunk.NoRef || list.At(bodyOpen).Kind != chunk.KindBraceOpen {
		return
	}
	bodyClose := matchingCloser(list, bodyOpen, chunk.KindBraceClose)
	if bodyClose == chunk.NoRef {
		return
	}
	events[bodyOpen] = event{
		close:        bodyClose,
		segment:      definerSegment(list, nameRef, "{}"),
		definerFlags: flags,
	}
}

// definerSegment builds the single scope segment a definer contributes:
// an optional resolved "A:B:…" qualifier chain, an optional '~' for a
// destructor, the definer's own text, then the decoration suffix.
func definerSegment(list *chunk.List, nameRef chunk.Ref, decoration string) string {
	qualifiers, destructor := resolveNamePrefix(list, nameRef)
	var b strings.Builder
	for _, q := range qualifiers {
		b.WriteString(q)
		b.WriteString(":")
	}
	if destructor {
		b.WriteString("~")
	}
	b.WriteString(list.At(nameRef).Text)
	b.WriteString(decoration)
	return b.String()
}

// resolveNamePrefix walks backward from nameRef over an optional leading
// '~' (destructor marker) and any "TYPE ::" qualifier chain immediately
// preceding it, returning the qualifiers outermost-first.
func resolveNamePrefix(list *chunk.List, nameRef chunk.Ref) (qualifiers []string, destructor bool) {
	cur := list.Prev(nameRef)
	if cur != chunk.NoRef && list.At(cur).Kind == chunk.KindOperatorTok && list.At(cur).Text == "~" {
		destructor = true
		cur = list.Prev(cur)
	}
	var segs []string
	for cur != chunk.NoRef && list.At(cur).Kind == chunk.KindDCMember {
		qualifierRef := list.Prev(cur)
		if qualifierRef == chunk.NoRef || list.At(qualifierRef).Kind != chunk.KindType {
			break
		}
		segs = append(segs, list.At(qualifierRef).Text)
		cur = list.Prev(qualifierRef)
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return segs, destructor
}

// matchingCloser returns the Ref of the first chunk after openRef whose
// Kind is closeKind and whose Level equals openRef's Level, mirroring
// internal/symbols' helper of the same name: matched brackets share a
// Level, so this is a forward scan rather than bracket counting.
func matchingCloser(list *chunk.List, openRef chunk.Ref, closeKind chunk.Kind) chunk.Ref {
	level := list.At(openRef).Level
	for r := list.Next(openRef); r != chunk.NoRef; r = list.Next(r) {
		c := list.At(r)
		if c.Kind == closeKind && c.Level == level {
			return r
		}
	}
	return chunk.NoRef
}

// forwardOpenAtLevel scans forward from after, at after's own Level, for
// the first chunk of the given opening Kind. It is only called when the
// classifier has already established (via the DEF flag) that such an
// opener exists.
func forwardOpenAtLevel(list *chunk.List, after chunk.Ref, openKind chunk.Kind) chunk.Ref {
	level := list.At(after).Level
	for r := list.Next(after); r != chunk.NoRef; r = list.Next(r) {
		c := list.At(r)
		if c.Level != level {
			continue
		}
		if c.Kind == openKind {
			return r
		}
		if c.Kind == chunk.KindSemicolon {
			return chunk.NoRef
		}
	}
	return chunk.NoRef
}
