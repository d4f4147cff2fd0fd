package symbols

import (
	"testing"

	"toks/internal/braces"
	"toks/internal/chunk"
	"toks/internal/langs"
	"toks/internal/lexer"
)

func build(t *testing.T, src string) *chunk.List {
	t.Helper()
	list := lexer.Tokenize(src, langs.C)
	if err := braces.Run(list); err != nil {
		t.Fatalf("braces.Run: %v", err)
	}
	Run(list)
	return list
}

func findText(list *chunk.List, text string) *chunk.Chunk {
	for r := list.Head(); r != chunk.NoRef; r = list.Next(r) {
		if list.At(r).Text == text {
			return list.At(r)
		}
	}
	return nil
}

func findTextNth(list *chunk.List, text string, n int) *chunk.Chunk {
	i := 0
	for r := list.Head(); r != chunk.NoRef; r = list.Next(r) {
		if list.At(r).Text == text {
			if i == n {
				return list.At(r)
			}
			i++
		}
	}
	return nil
}

// TestEnumDefinition checks classification of an enum definition and its values.
func TestEnumDefinition(t *testing.T) {
	list := build(t, "enum enua { ENUA_A, ENUA_B };")

	name := findText(list, "enua")
	if name == nil || name.Kind != chunk.KindType || name.ParentKind != chunk.KindEnum {
		t.Fatalf("enua: got %+v, want TYPE/ENUM", name)
	}
	if !name.Flags.Has(chunk.FlagDef) {
		t.Errorf("enua: expected DEF, got flags %v", name.Flags)
	}

	for _, val := range []string{"ENUA_A", "ENUA_B"} {
		c := findText(list, val)
		if c == nil || c.Kind != chunk.KindEnumVal || !c.Flags.Has(chunk.FlagDef) {
			t.Errorf("%s: got %+v, want ENUM_VAL/DEF", val, c)
		}
	}
}

// TestEnumForwardDeclaration checks classification of a forward-declared enum.
func TestEnumForwardDeclaration(t *testing.T) {
	list := build(t, "enum enua;")

	name := findText(list, "enua")
	if name == nil || name.Kind != chunk.KindType || name.ParentKind != chunk.KindEnum {
		t.Fatalf("enua: got %+v, want TYPE/ENUM", name)
	}
	if !name.Flags.Has(chunk.FlagProto) {
		t.Errorf("enua: expected PROTO, got flags %v", name.Flags)
	}
}

// TestTypedefEnum checks that a typedef'd enum's own name and the
// typedef's trailing alias are told apart.
func TestTypedefEnum(t *testing.T) {
	list := build(t, "typedef enum enub { ENUB_A } enub;")

	inner := findTextNth(list, "enub", 0)
	if inner == nil || inner.Kind != chunk.KindType || inner.ParentKind != chunk.KindEnum {
		t.Fatalf("inner enub: got %+v, want TYPE/ENUM", inner)
	}
	if !inner.Flags.Has(chunk.FlagDef) {
		t.Errorf("inner enub: expected DEF, got flags %v", inner.Flags)
	}

	val := findText(list, "ENUB_A")
	if val == nil || val.Kind != chunk.KindEnumVal {
		t.Fatalf("ENUB_A: got %+v, want ENUM_VAL", val)
	}

	alias := findTextNth(list, "enub", 1)
	if alias == nil || alias.Kind != chunk.KindType || alias.ParentKind != chunk.KindTypedef {
		t.Fatalf("trailing enub: got %+v, want TYPE/TYPEDEF", alias)
	}
	if !alias.Flags.Has(chunk.FlagDef) {
		t.Errorf("trailing enub: expected DEF, got flags %v", alias.Flags)
	}
	if !alias.Flags.Has(chunk.FlagTypedefEnum) {
		t.Errorf("trailing enub: expected TYPEDEF_ENUM, got flags %v", alias.Flags)
	}
}

// TestFunctionDefinitionAndParams checks a function definition, its
// parameters as VAR_DEF, and their body uses left as plain references
// (no VAR_DEF/VAR_DECL flag).
func TestFunctionDefinitionAndParams(t *testing.T) {
	list := build(t, "int functiona(int a, int b) { return a + b; }")

	fn := findText(list, "functiona")
	if fn == nil || fn.Kind != chunk.KindFuncDef {
		t.Fatalf("functiona: got %+v, want FUNC_DEF", fn)
	}
	if !fn.Flags.Has(chunk.FlagDef) {
		t.Errorf("functiona: expected DEF, got flags %v", fn.Flags)
	}

	paramA := findTextNth(list, "a", 0)
	if paramA == nil || !paramA.Flags.Has(chunk.FlagVarDef) {
		t.Fatalf("param a: got %+v, want VAR_DEF", paramA)
	}
	paramB := findTextNth(list, "b", 0)
	if paramB == nil || !paramB.Flags.Has(chunk.FlagVarDef) {
		t.Fatalf("param b: got %+v, want VAR_DEF", paramB)
	}

	bodyA := findTextNth(list, "a", 1)
	if bodyA == nil {
		t.Fatal("expected a second 'a' inside the function body")
	}
	if bodyA.Flags.Has(chunk.FlagVarDef) || bodyA.Flags.Has(chunk.FlagVarDecl) {
		t.Errorf("body use of a: expected neither VAR_DEF nor VAR_DECL, got flags %v", bodyA.Flags)
	}
	bodyB := findTextNth(list, "b", 1)
	if bodyB == nil {
		t.Fatal("expected a second 'b' inside the function body")
	}
	if bodyB.Flags.Has(chunk.FlagVarDef) || bodyB.Flags.Has(chunk.FlagVarDecl) {
		t.Errorf("body use of b: expected neither VAR_DEF nor VAR_DECL, got flags %v", bodyB.Flags)
	}
}

// TestStructDefinitionAndSelfReference checks that a struct's own name is
// a DEFINITION, a pointer-to-self member's struct name is a REFERENCE, and
// both members are VAR_DEF.
func TestStructDefinitionAndSelfReference(t *testing.T) {
	list := build(t, "struct struc { int a; struct struc *b; };")

	outer := findTextNth(list, "struc", 0)
	if outer == nil || outer.Kind != chunk.KindType || outer.ParentKind != chunk.KindStruct {
		t.Fatalf("outer struc: got %+v, want TYPE/STRUCT", outer)
	}
	if !outer.Flags.Has(chunk.FlagDef) {
		t.Errorf("outer struc: expected DEF, got flags %v", outer.Flags)
	}

	fieldA := findText(list, "a")
	if fieldA == nil || !fieldA.Flags.Has(chunk.FlagVarDef) {
		t.Fatalf("field a: got %+v, want VAR_DEF", fieldA)
	}

	inner := findTextNth(list, "struc", 1)
	if inner == nil || inner.Kind != chunk.KindType || inner.ParentKind != chunk.KindStruct {
		t.Fatalf("inner struc: got %+v, want TYPE/STRUCT", inner)
	}
	if !inner.Flags.Has(chunk.FlagRef) {
		t.Errorf("inner struc: expected REF, got flags %v", inner.Flags)
	}

	fieldB := findText(list, "b")
	if fieldB == nil || !fieldB.Flags.Has(chunk.FlagVarDef) {
		t.Fatalf("field b: got %+v, want VAR_DEF", fieldB)
	}
}

// TestFunctionPrototype checks a file-scope declaration without a body is
// FUNC_PROTO rather than FUNC_CTOR_VAR.
func TestFunctionPrototype(t *testing.T) {
	list := build(t, "int functiona(int a, int b);")

	fn := findText(list, "functiona")
	if fn == nil || fn.Kind != chunk.KindFuncProto {
		t.Fatalf("functiona: got %+v, want FUNC_PROTO", fn)
	}
	if !fn.Flags.Has(chunk.FlagProto) {
		t.Errorf("functiona: expected PROTO, got flags %v", fn.Flags)
	}
}

// TestFunctionCallInExpression checks a WORD+FPAREN pair not preceded by a
// TYPE is a call, never a declaration, regardless of what follows it.
func TestFunctionCallInExpression(t *testing.T) {
	list := build(t, "int main() { functiona(1, 2); }")

	call := findText(list, "functiona")
	if call == nil || call.Kind != chunk.KindFuncCall {
		t.Fatalf("functiona: got %+v, want FUNC_CALL", call)
	}
}

// TestPointerReturningFunctionDefinition checks that a '*' between the
// return type and the function name does not defeat declaration-context
// detection (markFunctions skips pointer/reference declarator markers via
// declaratorPrefix).
func TestPointerReturningFunctionDefinition(t *testing.T) {
	list := build(t, "struct struc *make_struc() { return 0; }")

	fn := findText(list, "make_struc")
	if fn == nil || fn.Kind != chunk.KindFuncDef || !fn.Flags.Has(chunk.FlagDef) {
		t.Fatalf("make_struc: got %+v, want FUNC_DEF/DEF", fn)
	}

	// struc here is used as a return type, not declared — a permissive
	// forward scan for the statement's brace/semicolon would walk past
	// the '*' and the parameter list and land on make_struc's own body
	// brace, misclassifying this as a struct DEFINITION.
	ref := findText(list, "struc")
	if ref == nil || !ref.Flags.Has(chunk.FlagRef) {
		t.Fatalf("struc: got %+v, want REF", ref)
	}
}

// TestPointerVariableDeclaration checks that a '*' between a type and its
// declarator does not defeat VAR_DEF detection (declaratorPrefix again).
func TestPointerVariableDeclaration(t *testing.T) {
	list := build(t, "int *p, **q;")

	p := findText(list, "p")
	if p == nil || !p.Flags.Has(chunk.FlagVarDef) {
		t.Fatalf("p: got %+v, want VAR_DEF", p)
	}
	q := findText(list, "q")
	if q == nil || !q.Flags.Has(chunk.FlagVarDef) {
		t.Fatalf("q: got %+v, want VAR_DEF", q)
	}
}

// TestVariableDeclarationChain checks comma-chained declarators in a single
// statement all pick up VAR_DEF off the one preceding TYPE.
func TestVariableDeclarationChain(t *testing.T) {
	list := build(t, "int a, b, c;")

	for _, name := range []string{"a", "b", "c"} {
		c := findText(list, name)
		if c == nil || !c.Flags.Has(chunk.FlagVarDef) {
			t.Errorf("%s: got %+v, want VAR_DEF", name, c)
		}
	}
}

// TestExternVariableDeclaration checks an extern-prefixed declaration is
// VAR_DECL rather than VAR_DEF.
func TestExternVariableDeclaration(t *testing.T) {
	list := build(t, "extern int counter;")

	c := findText(list, "counter")
	if c == nil || !c.Flags.Has(chunk.FlagVarDecl) {
		t.Fatalf("counter: got %+v, want VAR_DECL", c)
	}
	if c.Flags.Has(chunk.FlagVarDef) {
		t.Errorf("counter: should not carry VAR_DEF when extern, got flags %v", c.Flags)
	}
}

// TestStaticFunctionAndVariable checks the STATIC flag the scope assigner
// relies on for its <local> fallback.
func TestStaticFunctionAndVariable(t *testing.T) {
	list := build(t, "static int helper() { return 0; } static int counter;")

	fn := findText(list, "helper")
	if fn == nil || fn.Kind != chunk.KindFuncDef || !fn.Flags.Has(chunk.FlagStatic) {
		t.Fatalf("helper: got %+v, want FUNC_DEF/STATIC", fn)
	}

	v := findText(list, "counter")
	if v == nil || !v.Flags.Has(chunk.FlagStatic) || !v.Flags.Has(chunk.FlagVarDef) {
		t.Fatalf("counter: got %+v, want VAR_DEF/STATIC", v)
	}
}

// TestVariableChainDoesNotLeakAcrossParameterList guards the Level-bounded
// backward scan in declarationStatementHasType/isExternDeclaration: a
// parameter list's declarators must not see through to an enclosing
// function's own name or return type.
func TestVariableChainDoesNotLeakAcrossParameterList(t *testing.T) {
	list := build(t, "extern int functiona(int a, int b) { return a; }")

	paramA := findTextNth(list, "a", 0)
	if paramA == nil || !paramA.Flags.Has(chunk.FlagVarDef) {
		t.Fatalf("param a: got %+v, want VAR_DEF", paramA)
	}
	if paramA.Flags.Has(chunk.FlagVarDecl) {
		t.Errorf("param a: should not inherit the enclosing function's extern, got flags %v", paramA.Flags)
	}
}

// TestLabelVsTernaryVsCase exercises the small, intentionally ambiguous
// ':' disambiguation rules.
func TestLabelVsTernaryVsCase(t *testing.T) {
	list := build(t, "int main() { done: x = cond ? 1 : 2; switch (n) { case 1: break; } }")

	colons := map[chunk.Kind]int{}
	list.Each(func(_ chunk.Ref, c *chunk.Chunk) {
		switch c.Kind {
		case chunk.KindLabelColon, chunk.KindTernaryColon, chunk.KindCaseColon:
			colons[c.Kind]++
		}
	})
	if colons[chunk.KindLabelColon] != 1 {
		t.Errorf("expected 1 LABEL_COLON, got %d", colons[chunk.KindLabelColon])
	}
	if colons[chunk.KindTernaryColon] != 1 {
		t.Errorf("expected 1 TERNARY_COLON, got %d", colons[chunk.KindTernaryColon])
	}
	if colons[chunk.KindCaseColon] != 1 {
		t.Errorf("expected 1 CASE_COLON, got %d", colons[chunk.KindCaseColon])
	}
}

// TestIdempotence checks that re-running the classifier over an
// already-classified list changes nothing.
func TestIdempotence(t *testing.T) {
	list := build(t, "struct struc { int a; struct struc *b; }; typedef enum enub { ENUB_A } enub; int functiona(int a, int b) { return a + b; }")

	before := snapshot(list)
	Run(list)
	after := snapshot(list)

	if len(before) != len(after) {
		t.Fatalf("chunk count changed: %d vs %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("chunk %d changed on re-run: %+v -> %+v", i, before[i], after[i])
		}
	}
}

type snap struct {
	kind, parentKind chunk.Kind
	flags            chunk.Flags
	text             string
}

func snapshot(list *chunk.List) []snap {
	var out []snap
	list.Each(func(_ chunk.Ref, c *chunk.Chunk) {
		out = append(out, snap{c.Kind, c.ParentKind, c.Flags, c.Text})
	})
	return out
}
