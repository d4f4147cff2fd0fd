package tokserr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfUnwrapsWrappedError(t *testing.T) {
	base := errors.New("disk full")
	err := fmt.Errorf("indexing foo.c: %w", NewFile(IndexError, "foo.c", base))

	kind, ok := KindOf(err)
	if !ok || kind != IndexError {
		t.Fatalf("KindOf() = %v, %v; want IndexError, true", kind, ok)
	}
}

func TestKindOfFalseForPlainError(t *testing.T) {
	if _, ok := KindOf(errors.New("plain")); ok {
		t.Fatalf("KindOf() on a plain error should report ok=false")
	}
}

func TestPerFile(t *testing.T) {
	cases := []struct {
		kind Kind
		want bool
	}{
		{FileIoError, true},
		{BadEncoding, true},
		{CorruptInput, true},
		{TooDeep, true},
		{IndexError, true},
		{VersionMismatch, false},
	}
	for _, c := range cases {
		if got := c.kind.PerFile(); got != c.want {
			t.Errorf("%s.PerFile() = %v, want %v", c.kind, got, c.want)
		}
	}
}

func TestErrorMessageIncludesFile(t *testing.T) {
	err := NewFile(BadEncoding, "src/a.c", errors.New("truncated sequence"))
	want := "BadEncoding: src/a.c: truncated sequence"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
