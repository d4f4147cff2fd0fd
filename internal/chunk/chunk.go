package chunk

// Ref is an index into a List's arena. The value -1 (NoRef) denotes
// "no chunk", playing the role of a nil sentinel; it is not Ref's zero
// value, which is the valid index 0.
type Ref int

// NoRef is the sentinel value meaning "end of list" / "no chunk".
const NoRef Ref = -1

// Chunk is the single central entity of the pipeline.
type Chunk struct {
	Kind       Kind
	ParentKind Kind
	Text       string

	OrigLine   int
	OrigCol    int
	OrigColEnd int

	Level      int
	BraceLevel int
	PPLevel    int

	NLCount int // embedded newlines, meaningful on KindNewline chunks

	Flags Flags
	Scope string

	prev Ref
	next Ref
}

// List is a doubly-linked chain of Chunk values stored in a flat arena.
// Indices (Ref) replace pointers; Head/Tail replace head/tail pointers.
// Deleted slots are left in place with prev/next rewired around them so
// existing Refs captured by other stages never dangle.
type List struct {
	arena []Chunk
	head  Ref
	tail  Ref
}

// NewList returns an empty chunk list.
func NewList() *List {
	return &List{head: NoRef, tail: NoRef}
}

// Head returns the first chunk's Ref, or NoRef if the list is empty.
func (l *List) Head() Ref { return l.head }

// Tail returns the last chunk's Ref, or NoRef if the list is empty.
func (l *List) Tail() Ref { return l.tail }

// Len returns the arena size, which also counts deleted slots (live
// chunks are not tracked separately; callers needing a precise count
// should walk Next).
func (l *List) Len() int { return len(l.arena) }

// At dereferences a Ref. Calling At(NoRef) panics; callers must check
// r != NoRef first, exactly as they must check for a nil pointer in the
// original linked-list design.
func (l *List) At(r Ref) *Chunk {
	return &l.arena[r]
}

// Append adds c to the end of the list and returns its Ref.
func (l *List) Append(c Chunk) Ref {
	r := Ref(len(l.arena))
	c.prev = l.tail
	c.next = NoRef
	l.arena = append(l.arena, c)
	if l.tail != NoRef {
		l.arena[l.tail].next = r
	} else {
		l.head = r
	}
	l.tail = r
	return r
}

// InsertAfter inserts c immediately after "after" and returns its Ref.
func (l *List) InsertAfter(after Ref, c Chunk) Ref {
	oldNext := l.arena[after].next
	r := Ref(len(l.arena))
	c.prev = after
	c.next = oldNext
	l.arena = append(l.arena, c)
	l.arena[after].next = r
	if oldNext != NoRef {
		l.arena[oldNext].prev = r
	} else {
		l.tail = r
	}
	return r
}

// InsertBefore inserts c immediately before "before" and returns its Ref.
func (l *List) InsertBefore(before Ref, c Chunk) Ref {
	oldPrev := l.arena[before].prev
	if oldPrev == NoRef {
		r := Ref(len(l.arena))
		c.prev = NoRef
		c.next = before
		l.arena = append(l.arena, c)
		l.arena[before].prev = r
		l.head = r
		return r
	}
	return l.InsertAfter(oldPrev, c)
}

// Delete unlinks r from the list without shrinking the arena. r's own
// prev/next are left untouched so any stale Refs held elsewhere discover
// (via Next/Prev) that they've been routed around rather than reading a
// dangling slot.
func (l *List) Delete(r Ref) {
	c := &l.arena[r]
	if c.prev != NoRef {
		l.arena[c.prev].next = c.next
	} else {
		l.head = c.next
	}
	if c.next != NoRef {
		l.arena[c.next].prev = c.prev
	} else {
		l.tail = c.prev
	}
}

// Next returns the Ref following r, or NoRef at the tail.
func (l *List) Next(r Ref) Ref {
	if r == NoRef {
		return NoRef
	}
	return l.arena[r].next
}

// Prev returns the Ref preceding r, or NoRef at the head.
func (l *List) Prev(r Ref) Ref {
	if r == NoRef {
		return NoRef
	}
	return l.arena[r].prev
}

// filterFunc is a predicate used by the generic skip-while walkers below.
type filterFunc func(*Chunk) bool

func (l *List) walk(start Ref, step func(Ref) Ref, skip filterFunc) Ref {
	r := step(start)
	for r != NoRef && skip(l.At(r)) {
		r = step(r)
	}
	return r
}

// isTrivia reports whether c should be skipped by the "NC" (no-comment)
// family of navigation helpers.
func isTrivia(c *Chunk) bool {
	return c.Kind == KindComment || c.Kind == KindCommentMulti
}

func isTriviaOrNL(c *Chunk) bool {
	return isTrivia(c) || c.Kind == KindNewline || c.Kind == KindNLCont
}

func isTriviaNLOrPreproc(c *Chunk) bool {
	return isTriviaOrNL(c) || c.Kind == KindPreproc
}

func isVBrace(c *Chunk) bool {
	return c.Kind == KindVBraceOpen || c.Kind == KindVBraceClose
}

// NextNC returns the next non-comment chunk.
func (l *List) NextNC(r Ref) Ref { return l.walk(r, l.Next, isTrivia) }

// PrevNC returns the previous non-comment chunk.
func (l *List) PrevNC(r Ref) Ref { return l.walk(r, l.Prev, isTrivia) }

// NextNCNL returns the next chunk skipping comments and newlines.
func (l *List) NextNCNL(r Ref) Ref { return l.walk(r, l.Next, isTriviaOrNL) }

// PrevNCNL returns the previous chunk skipping comments and newlines.
func (l *List) PrevNCNL(r Ref) Ref { return l.walk(r, l.Prev, isTriviaOrNL) }

// NextNCNLNP returns the next chunk skipping comments, newlines, and whole
// preprocessor lines (used when semantic passes must see past an #if
// branch boundary as if it weren't there).
func (l *List) NextNCNLNP(r Ref) Ref { return l.walk(r, l.Next, isTriviaNLOrPreproc) }

// PrevNCNLNP mirrors NextNCNLNP in the backward direction.
func (l *List) PrevNCNLNP(r Ref) Ref { return l.walk(r, l.Prev, isTriviaNLOrPreproc) }

// NextNVB returns the next chunk skipping virtual braces.
func (l *List) NextNVB(r Ref) Ref { return l.walk(r, l.Next, isVBrace) }

// PrevNVB returns the previous chunk skipping virtual braces.
func (l *List) PrevNVB(r Ref) Ref { return l.walk(r, l.Prev, isVBrace) }

// Each calls fn for every live chunk from Head to Tail in order. fn may
// mutate the chunk in place via l.At but must not delete it mid-walk.
func (l *List) Each(fn func(Ref, *Chunk)) {
	for r := l.head; r != NoRef; r = l.arena[r].next {
		fn(r, &l.arena[r])
	}
}
