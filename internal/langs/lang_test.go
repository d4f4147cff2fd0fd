package langs

import "testing"

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag  string
		want Flag
		ok   bool
	}{
		{"C", C, true},
		{"cpp", CPP, true},
		{"OC+", OCPlusPlus, true},
		{"ECMA", ECMA, true},
		{"nope", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseTag(tt.tag)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseTag(%q) = (%v, %v), want (%v, %v)", tt.tag, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDetectByExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     Flag
	}{
		{"a.c", C},
		{"a.h", C},
		{"a.sqc", C},
		{"a.cpp", CPP},
		{"a.hxx", CPP},
		{"a.c++", CPP},
		{"a.d", D},
		{"a.cs", CS},
		{"a.vala", VALA},
		{"a.java", JAVA},
		{"a.sma", PAWN},
		{"a.m", OC},
		{"a.mm", OCPlusPlus},
		{"a.es", ECMA},
		{"a.unknown", C},
		{"noextension", C},
	}
	for _, tt := range tests {
		if got := DetectByExtension(tt.filename); got != tt.want {
			t.Errorf("DetectByExtension(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}
