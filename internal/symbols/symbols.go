// Package symbols is the semantic classifier. It runs as an ordered chain
// of peephole passes over the chunk list produced by internal/braces,
// re-typing chunks and setting DEF/PROTO/REF and related flags, followed
// by a ':' disambiguation pass. Passes only ever narrow an already-lexed
// WORD/keyword chunk to a more specific kind; none of them allocate new
// chunks or touch level/brace_level/pp_level.
//
// Pass order matters: typedefs and struct/union/enum/class names must be
// resolved before function and variable-declaration passes run, since the
// later passes key off TYPE chunks the earlier ones produce.
package symbols

import (
	"toks/internal/chunk"
)

// Run applies the symbol-classification passes followed by the ':'
// disambiguation pass to list.
//
// markStructUnionEnumClass must precede markTypedefs: "typedef enum e {
// ... } e;" has an inner enum name that markStructUnionEnumClass needs to
// claim (parent_kind ENUM) before markTypedefs' declarator scan reaches it,
// leaving only the trailing alias name for parent_kind TYPEDEF.
func Run(list *chunk.List) {
	markStructUnionEnumClass(list)
	markNamespaces(list)
	markTypedefs(list)
	markConstructorsDestructors(list)
	markFunctions(list)
	markVariableDeclarations(list)
	markEnumValues(list)
	markQualifierChains(list)
	combineLabels(list)
}

// matchingCloser returns the Ref of the first chunk after openRef whose
// Kind is closeKind and whose Level equals openRef's Level — the brace
// stage's invariant that a matched pair shares a Level makes this a plain
// forward scan rather than a bracket-counting one.
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

// followingKind reports the Kind of the first non-trivia chunk after
// closerRef, or KindNone if there is none.
func followingKind(list *chunk.List, closerRef chunk.Ref) chunk.Kind {
	if closerRef == chunk.NoRef {
		return chunk.KindNone
	}
	n := list.NextNCNL(closerRef)
	if n == chunk.NoRef {
		return chunk.KindNone
	}
	return list.At(n).Kind
}

// findSemicolonAtLevel scans forward from start for the first SEMICOLON at
// the given Level — the statement terminator a typedef or declaration is
// scoped to.
func findSemicolonAtLevel(list *chunk.List, start chunk.Ref, level int) chunk.Ref {
	for r := list.Next(start); r != chunk.NoRef; r = list.Next(r) {
		c := list.At(r)
		if c.Kind == chunk.KindSemicolon && c.Level == level {
			return r
		}
	}
	return chunk.NoRef
}

// markStructUnionEnumClass handles the struct/union/enum/class rule: the
// WORD immediately after the keyword becomes TYPE with parent_kind set to
// the keyword, classified DEF/PROTO/REF by what follows its declaration
// (a body, a bare ';', or neither).
func markStructUnionEnumClass(list *chunk.List) {
	for r := list.Head(); r != chunk.NoRef; r = list.Next(r) {
		c := list.At(r)
		switch c.Kind {
		case chunk.KindStruct, chunk.KindUnion, chunk.KindEnum, chunk.KindClass:
		default:
			continue
		}
		nameRef := list.NextNCNLNP(r)
		if nameRef == chunk.NoRef {
			continue
		}
		name := list.At(nameRef)
		if name.Kind != chunk.KindWord {
			continue
		}
		name.Kind = chunk.KindType
		name.ParentKind = c.Kind

		// What immediately follows the name is what tells DEF/PROTO/REF
		// apart. A bare "struct NAME;" forward declaration has nothing
		// at all between the name and its terminating ';': PROTO.
		// "struct NAME { ... }" opens the body right there: DEF. A C++
		// class or struct may instead open a base-clause ("class NAME
		// : public Base { ... }") before its brace, so that case alone
		// still needs a forward scan to find it. Anything else immediately
		// after the name — a '*' declarator, another identifier, a
		// ')' — means NAME is being used as a type, not declared:
		// "struct NAME *b;" reaches a ';' at the same level too, but
		// only after that declarator, so it must not be mistaken for
		// a forward declaration.
		immediate := list.NextNCNLNP(nameRef)
		var immediateKind chunk.Kind
		if immediate != chunk.NoRef {
			immediateKind = list.At(immediate).Kind
		}
		switch {
		case immediateKind == chunk.KindSemicolon:
			name.Flags = name.Flags.SetExclusive(chunk.FlagProto)
		case immediateKind == chunk.KindBraceOpen:
			name.Flags = name.Flags.SetExclusive(chunk.FlagDef)
		case (c.Kind == chunk.KindClass || c.Kind == chunk.KindStruct) && immediateKind == chunk.KindColon &&
			followingStructuralKind(list, nameRef) == chunk.KindBraceOpen:
			name.Flags = name.Flags.SetExclusive(chunk.FlagDef)
		default:
			name.Flags = name.Flags.SetExclusive(chunk.FlagRef)
		}
	}
}

// followingStructuralKind walks forward from after, at after's own Level,
// and returns the Kind of the first BRACE_OPEN or SEMICOLON reached — the
// two terminators that tell a struct/union/enum/class/namespace name apart
// as a definition, a forward declaration, or neither.
func followingStructuralKind(list *chunk.List, after chunk.Ref) chunk.Kind {
	level := list.At(after).Level
	for r := list.Next(after); r != chunk.NoRef; r = list.Next(r) {
		c := list.At(r)
		if c.Level != level {
			continue
		}
		if c.Kind == chunk.KindBraceOpen || c.Kind == chunk.KindSemicolon {
			return c.Kind
		}
	}
	return chunk.KindNone
}

// markNamespaces handles the namespace rule. Unlike struct/union/enum/
// class, the name chunk keeps Kind WORD — the emitter tells namespaces
// apart by parent_kind alone.
func markNamespaces(list *chunk.List) {
	for r := list.Head(); r != chunk.NoRef; r = list.Next(r) {
		c := list.At(r)
		if c.Kind != chunk.KindNamespace {
			continue
		}
		nameRef := list.NextNCNLNP(r)
		if nameRef == chunk.NoRef {
			continue
		}
		name := list.At(nameRef)
		if name.Kind != chunk.KindWord {
			continue
		}
		name.ParentKind = chunk.KindNamespace
		if followingStructuralKind(list, nameRef) == chunk.KindBraceOpen {
			name.Flags = name.Flags.SetExclusive(chunk.FlagDef)
		} else {
			name.Flags = name.Flags.SetExclusive(chunk.FlagRef)
		}
	}
}

// enclosingClassName returns the nearest class name preceding r in the
// chunk list; it does not check that r sits inside that class's body. It
// relies on markStructUnionEnumClass having already retyped that name to
// TYPE/parent_kind=CLASS earlier in the pass chain, and its caller only
// passes chunks carrying IN_CLASS (set by internal/braces).
func enclosingClassName(list *chunk.List, r chunk.Ref) (string, bool) {
	for cur := list.Prev(r); cur != chunk.NoRef; cur = list.Prev(cur) {
		c := list.At(cur)
		if c.Kind == chunk.KindType && c.ParentKind == chunk.KindClass {
			return c.Text, true
		}
	}
	return "", false
}

// markConstructorsDestructors handles the constructor/destructor rule: a
// WORD inside a class body, matching the class's own name (optionally
// preceded by '~'), followed directly by an FPAREN, is
// FUNC_CLASS rather than an ordinary function or a constructor-style
// variable declaration. It must run before markFunctions so the generic
// WORD+FPAREN rule never sees these names.
func markConstructorsDestructors(list *chunk.List) {
	for r := list.Head(); r != chunk.NoRef; r = list.Next(r) {
		c := list.At(r)
		if c.Kind != chunk.KindWord || !c.Flags.Has(chunk.FlagInClass) {
			continue
		}
		next := list.NextNCNL(r)
		if next == chunk.NoRef || list.At(next).Kind != chunk.KindFParenOpen {
			continue
		}
		className, ok := enclosingClassName(list, r)
		if !ok || c.Text != className {
			continue
		}
		c.Kind = chunk.KindFuncClass
		c.ParentKind = chunk.KindClass
		closerRef := matchingCloser(list, next, chunk.KindFParenClose)
		switch followingKind(list, closerRef) {
		case chunk.KindBraceOpen:
			c.Flags = c.Flags.SetExclusive(chunk.FlagDef)
		case chunk.KindSemicolon:
			c.Flags = c.Flags.SetExclusive(chunk.FlagProto)
		default:
			c.Flags = c.Flags.SetExclusive(chunk.FlagRef)
		}
	}
}

// declaratorPrefix returns the Ref of whatever precedes r once any
// pointer/reference declarator markers ('*', '&') directly before it are
// skipped — "int *foo" and "struct s *b" both declare foo/b off the TYPE
// two tokens back, not off the '*' immediately adjacent to them.
func declaratorPrefix(list *chunk.List, r chunk.Ref) chunk.Ref {
	cur := list.PrevNCNLNP(r)
	for cur != chunk.NoRef && list.At(cur).Kind == chunk.KindOperatorTok &&
		(list.At(cur).Text == "*" || list.At(cur).Text == "&") {
		cur = list.PrevNCNLNP(cur)
	}
	return cur
}

// markFunctions handles the function definition/prototype/call/
// constructor-variable rule. A WORD followed directly by an FPAREN is
// a declaration-context candidate only when the token before it is a TYPE;
// otherwise it is being called from an expression and is FUNC_CALL
// regardless of what follows the matching close paren.
func markFunctions(list *chunk.List) {
	for r := list.Head(); r != chunk.NoRef; r = list.Next(r) {
		c := list.At(r)
		if c.Kind != chunk.KindWord {
			continue
		}
		next := list.NextNCNL(r)
		if next == chunk.NoRef || list.At(next).Kind != chunk.KindFParenOpen {
			continue
		}
		prev := declaratorPrefix(list, r)
		if prev == chunk.NoRef || list.At(prev).Kind != chunk.KindType {
			c.Kind = chunk.KindFuncCall
			continue
		}
		closerRef := matchingCloser(list, next, chunk.KindFParenClose)
		switch followingKind(list, closerRef) {
		case chunk.KindBraceOpen:
			c.Kind = chunk.KindFuncDef
			c.Flags = c.Flags.SetExclusive(chunk.FlagDef)
			if isStaticDeclaration(list, r) {
				c.Flags |= chunk.FlagStatic
			}
		case chunk.KindSemicolon:
			if c.Flags.Has(chunk.FlagInFcnDef) {
				// Type name(args); inside a function body is a
				// constructor-style variable declaration, not a
				// prototype.
				c.Kind = chunk.KindFuncCtorVar
				c.Flags = c.Flags.SetExclusive(chunk.FlagDef)
			} else {
				c.Kind = chunk.KindFuncProto
				c.Flags = c.Flags.SetExclusive(chunk.FlagProto)
			}
		default:
			c.Kind = chunk.KindFuncCall
		}
	}
}

// statementBoundary reports whether k ends one statement and begins the
// scope for the next, used by the backward scans below to avoid walking
// past the declaration a WORD belongs to.
func statementBoundary(k chunk.Kind) bool {
	switch k {
	case chunk.KindSemicolon, chunk.KindBraceOpen, chunk.KindBraceClose,
		chunk.KindVBraceOpen, chunk.KindVBraceClose:
		return true
	}
	return false
}

// declarationStatementHasType reports whether the declaration statement
// containing r already has a TYPE token flagged VAR_TYPE earlier in the
// list — i.e. r is a later comma-separated declarator in "T a, b, c;"
// rather than a fresh statement's first word. The scan stops at a Level
// shallower than r's own: that means we have walked out of the bracket
// scope (a parameter list, an init-list) the declarator lives in, and
// anything before that boundary belongs to an unrelated construct.
func declarationStatementHasType(list *chunk.List, r chunk.Ref) bool {
	level := list.At(r).Level
	for cur := list.Prev(r); cur != chunk.NoRef; cur = list.Prev(cur) {
		c := list.At(cur)
		if c.Level < level || statementBoundary(c.Kind) {
			return false
		}
		if c.Kind == chunk.KindType && c.Flags.Has(chunk.FlagVarType) {
			return true
		}
	}
	return false
}

// isExternDeclaration reports whether the statement containing r opens
// with 'extern', which decides the VAR_DEF/VAR_DECL split. See
// declarationStatementHasType for why the scan also stops on a Level drop.
func isExternDeclaration(list *chunk.List, r chunk.Ref) bool {
	return statementStartsWith(list, r, chunk.KindExtern)
}

// isStaticDeclaration reports whether the statement containing r opens with
// 'static'. The scope assigner (internal/scope) falls back a STATIC chunk's
// default scope to <local> rather than <global>.
func isStaticDeclaration(list *chunk.List, r chunk.Ref) bool {
	return statementStartsWith(list, r, chunk.KindStatic)
}

// statementStartsWith scans backward from r, stopping at a statement
// boundary or a Level shallower than r's own (see
// declarationStatementHasType), looking for a leading keyword of kind k.
func statementStartsWith(list *chunk.List, r chunk.Ref, k chunk.Kind) bool {
	level := list.At(r).Level
	for cur := list.Prev(r); cur != chunk.NoRef; cur = list.Prev(cur) {
		c := list.At(cur)
		if c.Level < level || statementBoundary(c.Kind) {
			return false
		}
		if c.Kind == k {
			return true
		}
	}
	return false
}

// markVariableDeclarations handles the variable-declaration rule. It never
// retypes the WORD's Kind — VAR_DEF/VAR_DECL/REF are told apart at emission
// by the VAR_DEF/VAR_DECL flags (absent means REFERENCE, the emitter's
// fallback case).
func markVariableDeclarations(list *chunk.List) {
	for r := list.Head(); r != chunk.NoRef; r = list.Next(r) {
		c := list.At(r)
		if c.Kind != chunk.KindWord {
			continue
		}
		next := list.NextNCNL(r)
		if next != chunk.NoRef && list.At(next).Kind == chunk.KindFParenOpen {
			continue // a function name, handled by markFunctions
		}

		prev := declaratorPrefix(list, r)
		isFirstDeclarator := prev != chunk.NoRef && list.At(prev).Kind == chunk.KindType
		isChainedDeclarator := false
		if !isFirstDeclarator && prev != chunk.NoRef && list.At(prev).Kind == chunk.KindComma {
			isChainedDeclarator = declarationStatementHasType(list, r)
		}
		if !isFirstDeclarator && !isChainedDeclarator {
			continue
		}
		if isFirstDeclarator {
			list.At(prev).Flags |= chunk.FlagVarType
		}

		if isExternDeclaration(list, r) {
			c.Flags |= chunk.FlagVarDecl
		} else {
			c.Flags |= chunk.FlagVarDef
		}
		if isStaticDeclaration(list, r) {
			c.Flags |= chunk.FlagStatic
		}
	}
}

// markEnumValues handles the enum-value rule: the first token of each
// comma/brace-separated entry inside an IN_ENUM body becomes ENUM_VAL with
// DEF.
func markEnumValues(list *chunk.List) {
	for r := list.Head(); r != chunk.NoRef; r = list.Next(r) {
		c := list.At(r)
		if c.Kind != chunk.KindWord || !c.Flags.Has(chunk.FlagInEnum) {
			continue
		}
		prev := list.PrevNCNL(r)
		if prev == chunk.NoRef {
			continue
		}
		switch list.At(prev).Kind {
		case chunk.KindBraceOpen, chunk.KindVBraceOpen, chunk.KindComma:
		default:
			continue
		}
		c.Kind = chunk.KindEnumVal
		c.Flags = c.Flags.SetExclusive(chunk.FlagDef)
	}
}

// markQualifierChains handles the qualifier-chain rule: the segment
// preceding a '::' is a namespace/class qualifier, not a use, and
// is retyped TYPE/REF so it does not fall through to markVariableDeclarations
// or the emitter's generic WORD handling.
func markQualifierChains(list *chunk.List) {
	for r := list.Head(); r != chunk.NoRef; r = list.Next(r) {
		c := list.At(r)
		if c.Kind != chunk.KindDCMember {
			continue
		}
		prev := list.PrevNCNL(r)
		if prev == chunk.NoRef || list.At(prev).Kind != chunk.KindWord {
			continue
		}
		q := list.At(prev)
		q.Kind = chunk.KindType
		q.Flags = q.Flags.SetExclusive(chunk.FlagRef)
	}
}

// combineLabels disambiguates ':' tokens. The underlying heuristics here
// are known to be incomplete for C++ initialiser lists vs. ternary vs.
// bit-field; this keeps to a small, deliberately narrow set of rules
// rather than attempting full expression parsing.
func combineLabels(list *chunk.List) {
	openQuestions := map[int]int{}
	for r := list.Head(); r != chunk.NoRef; r = list.Next(r) {
		c := list.At(r)
		if c.Kind == chunk.KindQuestion {
			openQuestions[c.Level]++
			continue
		}
		if c.Kind != chunk.KindColon {
			continue
		}

		prev := list.PrevNCNL(r)
		next := list.NextNCNL(r)

		switch {
		case prev != chunk.NoRef && isAccessKeyword(list.At(prev).Kind):
			c.Kind = chunk.KindPrivateColon
		case prev != chunk.NoRef && list.At(prev).Kind == chunk.KindType && list.At(prev).ParentKind == chunk.KindClass:
			c.Kind = chunk.KindClassColon
		case openQuestions[c.Level] > 0:
			openQuestions[c.Level]--
			c.Kind = chunk.KindTernaryColon
		case isCaseColon(list, r):
			c.Kind = chunk.KindCaseColon
		case next != chunk.NoRef && list.At(next).Kind == chunk.KindNumber &&
			prev != chunk.NoRef && (list.At(prev).Kind == chunk.KindWord || list.At(prev).Kind == chunk.KindType):
			c.Kind = chunk.KindBitfieldColon
		default:
			c.Kind = chunk.KindLabelColon
		}
	}
}

func isAccessKeyword(k chunk.Kind) bool {
	switch k {
	case chunk.KindPublic, chunk.KindPrivate, chunk.KindProtected:
		return true
	}
	return false
}

// isCaseColon reports whether colonRef's nearest preceding statement-level
// token, at the same Level, is 'case'/'default' rather than another
// colon-ending construct.
func isCaseColon(list *chunk.List, colonRef chunk.Ref) bool {
	level := list.At(colonRef).Level
	for cur := list.Prev(colonRef); cur != chunk.NoRef; cur = list.Prev(cur) {
		c := list.At(cur)
		if c.Level != level {
			continue
		}
		switch c.Kind {
		case chunk.KindCase, chunk.KindDefault:
			return true
		case chunk.KindSemicolon, chunk.KindBraceOpen, chunk.KindBraceClose,
			chunk.KindColon, chunk.KindCaseColon, chunk.KindLabelColon:
			return false
		}
	}
	return false
}

// findFunctionPointerDeclarator locates the "( * NAME )" shape of a
// function-pointer typedef within (start, end), returning the NAME chunk's
// Ref, or NoRef if the typedef does not declare a function pointer.
func findFunctionPointerDeclarator(list *chunk.List, start, end chunk.Ref) chunk.Ref {
	for r := list.Next(start); r != end && r != chunk.NoRef; r = list.Next(r) {
		c := list.At(r)
		if c.Kind != chunk.KindWord {
			continue
		}
		prev := list.Prev(r)
		if prev == chunk.NoRef || list.At(prev).Kind != chunk.KindOperatorTok || list.At(prev).Text != "*" {
			continue
		}
		prevPrev := list.Prev(prev)
		if prevPrev == chunk.NoRef || !chunk.IsOpener(list.At(prevPrev).Kind) {
			continue
		}
		next := list.Next(r)
		if next == chunk.NoRef || !chunk.IsCloser(list.At(next).Kind) {
			continue
		}
		after := list.NextNCNL(next)
		if after != chunk.NoRef && chunk.IsOpener(list.At(after).Kind) {
			return r
		}
	}
	return chunk.NoRef
}

// markTypedefs handles the typedef rule, including the
// function-pointer-typedef special case.
func markTypedefs(list *chunk.List) {
	for r := list.Head(); r != chunk.NoRef; r = list.Next(r) {
		c := list.At(r)
		if c.Kind != chunk.KindTypedef {
			continue
		}
		level := c.Level
		end := findSemicolonAtLevel(list, r, level)
		if end == chunk.NoRef {
			continue
		}

		if fp := findFunctionPointerDeclarator(list, r, end); fp != chunk.NoRef {
			name := list.At(fp)
			name.Kind = chunk.KindFuncType
			name.ParentKind = chunk.KindTypedef
			name.Flags = name.Flags.SetExclusive(chunk.FlagDef)
			continue
		}

		var aggregateKind chunk.Kind
		for cur := list.Next(r); cur != end; cur = list.Next(cur) {
			switch list.At(cur).Kind {
			case chunk.KindStruct, chunk.KindUnion, chunk.KindEnum:
				aggregateKind = list.At(cur).Kind
			}
		}

		for cur := list.Next(r); cur != end; cur = list.Next(cur) {
			cc := list.At(cur)
			if cc.Kind != chunk.KindWord || cc.Level != level {
				continue
			}
			n := list.NextNCNLNP(cur)
			if n != end && (n == chunk.NoRef || list.At(n).Kind != chunk.KindComma) {
				continue
			}
			cc.Kind = chunk.KindType
			cc.ParentKind = chunk.KindTypedef
			cc.Flags = cc.Flags.SetExclusive(chunk.FlagDef)
			switch aggregateKind {
			case chunk.KindStruct:
				cc.Flags |= chunk.FlagTypedefStruct
			case chunk.KindUnion:
				cc.Flags |= chunk.FlagTypedefUnion
			case chunk.KindEnum:
				cc.Flags |= chunk.FlagTypedefEnum
			}
		}
	}
}
