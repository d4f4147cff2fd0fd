package report

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// nopCloser adapts os.Stdout (which must not be closed by the caller) to
// io.WriteCloser.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// gzipFile wraps a *gzip.Writer and the underlying file so Close flushes
// the compressor before closing the file it writes to.
type gzipFile struct {
	gz *gzip.Writer
	f  *os.File
}

func (g *gzipFile) Write(p []byte) (int, error) { return g.gz.Write(p) }

func (g *gzipFile) Close() error {
	if err := g.gz.Close(); err != nil {
		g.f.Close()
		return err
	}
	return g.f.Close()
}

// OpenOutput implements the -o flag, redirecting standard output to path.
// A ".gz" suffix transparently gzip-compresses the stream (klauspost/compress,
// a drop-in faster replacement for compress/gzip), the natural companion to
// -d's full token dump.
func OpenOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".gz") {
		return &gzipFile{gz: gzip.NewWriter(f), f: f}, nil
	}
	return f, nil
}
