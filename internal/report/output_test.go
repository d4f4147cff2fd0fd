package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func TestOpenOutputPlainFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	w, err := OpenOutput(path)
	if err != nil {
		t.Fatalf("OpenOutput: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("content = %q, want %q", data, "hello")
	}
}

func TestOpenOutputGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.gz")

	w, err := OpenOutput(path)
	if err != nil {
		t.Fatalf("OpenOutput: %v", err)
	}
	if _, err := w.Write([]byte("compressed payload")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip.NewReader: %v", err)
	}
	defer gz.Close()

	buf := make([]byte, 64)
	n, _ := gz.Read(buf)
	if string(buf[:n]) != "compressed payload" {
		t.Errorf("decompressed = %q, want %q", buf[:n], "compressed payload")
	}
}

func TestOpenOutputStdoutSentinel(t *testing.T) {
	w, err := OpenOutput("-")
	if err != nil {
		t.Fatalf("OpenOutput: %v", err)
	}
	if w == nil {
		t.Fatal("expected non-nil writer for stdout sentinel")
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close on stdout sentinel should be a no-op, got error: %v", err)
	}
}
