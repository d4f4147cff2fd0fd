package fileset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolvePositionalOnly(t *testing.T) {
	got, err := Resolve([]string{"a.c", "b.c"}, nil, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []string{"a.c", "b.c"}
	if !equal(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestResolveListFileSkipsCommentsAndBlanks(t *testing.T) {
	dir := t.TempDir()
	listPath := filepath.Join(dir, "files.lst")
	content := "a.c\n# comment\n\nb.c\n  # indented comment\nc.c\n"
	writeFile(t, listPath, content)

	got, err := Resolve(nil, []string{listPath}, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []string{"a.c", "b.c", "c.c"}
	if !equal(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestResolveListFileFromStdin(t *testing.T) {
	stdin := strings.NewReader("a.c\nb.c\n")
	got, err := Resolve(nil, []string{"-"}, stdin)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []string{"a.c", "b.c"}
	if !equal(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestResolveCombinesPositionalAndListFile(t *testing.T) {
	dir := t.TempDir()
	listPath := filepath.Join(dir, "files.lst")
	writeFile(t, listPath, "b.c\n")

	got, err := Resolve([]string{"a.c"}, []string{listPath}, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []string{"a.c", "b.c"}
	if !equal(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
