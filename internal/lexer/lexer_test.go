package lexer

import (
	"testing"

	"toks/internal/chunk"
	"toks/internal/langs"
)

func kinds(l *chunk.List) []chunk.Kind {
	var out []chunk.Kind
	l.Each(func(_ chunk.Ref, c *chunk.Chunk) {
		out = append(out, c.Kind)
	})
	return out
}

func texts(l *chunk.List) []string {
	var out []string
	l.Each(func(_ chunk.Ref, c *chunk.Chunk) {
		if c.Kind == chunk.KindNewline || c.Kind == chunk.KindNLCont {
			return
		}
		out = append(out, c.Text)
	})
	return out
}

func TestTokenizeSimpleFunction(t *testing.T) {
	src := "int f(int a) { return a; }"
	l := Tokenize(src, langs.C)
	got := texts(l)
	want := []string{"int", "f", "(", "int", "a", ")", "{", "return", "a", ";", "}"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestTokenizeEnum(t *testing.T) {
	src := "enum enua { ENUA_A, ENUA_B };"
	l := Tokenize(src, langs.C)
	var sawEnum bool
	l.Each(func(_ chunk.Ref, c *chunk.Chunk) {
		if c.Kind == chunk.KindEnum {
			sawEnum = true
		}
	})
	if !sawEnum {
		t.Fatal("expected an ENUM keyword chunk")
	}
}

func TestTokenizeLineComment(t *testing.T) {
	src := "int a; // hello\nint b;"
	l := Tokenize(src, langs.CPP)
	var comment string
	l.Each(func(_ chunk.Ref, c *chunk.Chunk) {
		if c.Kind == chunk.KindComment {
			comment = c.Text
		}
	})
	if comment != "// hello" {
		t.Errorf("got comment %q", comment)
	}
}

func TestTokenizeBlockComment(t *testing.T) {
	src := "/* a\nb */ int x;"
	l := Tokenize(src, langs.C)
	first := l.At(l.Head())
	if first.Kind != chunk.KindCommentMulti {
		t.Fatalf("got kind %v", first.Kind)
	}
	if first.Text != "/* a\nb */" {
		t.Errorf("got text %q", first.Text)
	}
}

func TestTokenizeString(t *testing.T) {
	src := `char *s = "a\"b";`
	l := Tokenize(src, langs.C)
	var str string
	l.Each(func(_ chunk.Ref, c *chunk.Chunk) {
		if c.Kind == chunk.KindString {
			str = c.Text
		}
	})
	if str != `"a\"b"` {
		t.Errorf("got %q", str)
	}
}

func TestTokenizePreprocLine(t *testing.T) {
	src := "#define FOO 1\nint x;"
	l := Tokenize(src, langs.C)
	head := l.At(l.Head())
	if head.Kind != chunk.KindPreproc {
		t.Fatalf("got kind %v", head.Kind)
	}
	if head.ParentKind != chunk.KindPPDefine {
		t.Errorf("got parent kind %v", head.ParentKind)
	}
	if !head.Flags.Has(chunk.FlagInPreproc) {
		t.Error("expected IN_PREPROC on the directive chunk")
	}

	// the WORD after #define should still carry IN_PREPROC
	name := l.At(l.Next(l.Head()))
	if name.Text != "FOO" || !name.Flags.Has(chunk.FlagInPreproc) {
		t.Errorf("got %q with flags %v, want FOO with IN_PREPROC", name.Text, name.Flags)
	}
}

func TestTokenizeNewlineCoalescing(t *testing.T) {
	src := "int a;\n\n\nint b;"
	l := Tokenize(src, langs.C)
	var nl *chunk.Chunk
	l.Each(func(_ chunk.Ref, c *chunk.Chunk) {
		if c.Kind == chunk.KindNewline && nl == nil {
			nl = c
		}
	})
	if nl == nil {
		t.Fatal("expected a NEWLINE chunk")
	}
	if nl.NLCount != 3 {
		t.Errorf("got NLCount %d, want 3", nl.NLCount)
	}
}

func TestTokenizeLineContinuationInPreproc(t *testing.T) {
	src := "#define FOO \\\n    1\nint x;"
	l := Tokenize(src, langs.C)
	var sawContinuation bool
	l.Each(func(_ chunk.Ref, c *chunk.Chunk) {
		if c.Kind == chunk.KindNLCont {
			sawContinuation = true
		}
	})
	if !sawContinuation {
		t.Fatal("expected a NL_CONT chunk inside the #define")
	}
}

func TestTokenizePunctuatorLongestMatch(t *testing.T) {
	src := "a <<= b;"
	l := Tokenize(src, langs.CPP)
	var op string
	l.Each(func(_ chunk.Ref, c *chunk.Chunk) {
		if c.Text == "<<=" {
			op = c.Text
		}
	})
	if op != "<<=" {
		t.Errorf("expected longest-match <<=, got %q", op)
	}
}

func TestKindsSmoke(t *testing.T) {
	l := Tokenize("struct s { int a; };", langs.C)
	ks := kinds(l)
	if len(ks) == 0 {
		t.Fatal("expected tokens")
	}
}

func TestTokenizeRecognizesExtraTypes(t *testing.T) {
	langs.SetExtraTypes([]string{"widget_t"})
	defer langs.SetExtraTypes(nil)

	l := Tokenize("widget_t w;", langs.C)
	c := l.At(l.Head())
	if c.Kind != chunk.KindType {
		t.Errorf("widget_t Kind = %v, want TYPE", c.Kind)
	}
	if !c.Flags.Has(chunk.FlagVarType) {
		t.Error("widget_t should carry VAR_TYPE")
	}
}
