package decode

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		raw    []byte
		want   Encoding
		skip   int
	}{
		{"utf8 bom", []byte{0xEF, 0xBB, 0xBF, 'a'}, UTF8, 3},
		{"utf16be bom", []byte{0xFE, 0xFF, 0, 'a'}, UTF16BE, 2},
		{"utf16le bom", []byte{0xFF, 0xFE, 'a', 0}, UTF16LE, 2},
		{"no bom ascii", []byte("int main() {}"), UTF8, 0},
		{"heuristic utf16be", []byte{0, 'a', 0, 'b', 0, 'c'}, UTF16BE, 0},
		{"heuristic utf16le", []byte{'a', 0, 'b', 0, 'c', 0}, UTF16LE, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, skip := Detect(tt.raw)
			if enc != tt.want || skip != tt.skip {
				t.Errorf("Detect(%v) = %v,%d want %v,%d", tt.raw, enc, skip, tt.want, tt.skip)
			}
		})
	}
}

func TestToUTF8ASCII(t *testing.T) {
	out, err := ToUTF8([]byte("int a;\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "int a;\n" {
		t.Errorf("got %q", out)
	}
}

func TestToUTF8EmbeddedNUL(t *testing.T) {
	_, err := ToUTF8([]byte("int a\x00;"))
	if err == nil {
		t.Fatal("expected CorruptInput error")
	}
	var de *Error
	if de, _ = err.(*Error); de == nil || de.Kind != "CorruptInput" {
		t.Errorf("got %v, want CorruptInput", err)
	}
}

func TestToUTF8Surrogates(t *testing.T) {
	// U+1F600 GRINNING FACE encoded as UTF-16LE surrogate pair, preceded
	// by a BOM.
	raw := []byte{0xFF, 0xFE, 0x3D, 0xD8, 0x00, 0xDE}
	out, err := ToUTF8(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := string([]rune{0x1F600})
	if out != want {
		t.Errorf("got %q want %q", out, want)
	}
}

func TestToUTF8LoneSurrogate(t *testing.T) {
	raw := []byte{0xFF, 0xFE, 0x00, 0xDC} // lone low surrogate
	if _, err := ToUTF8(raw); err == nil {
		t.Fatal("expected BadEncoding error")
	}
}

func TestToUTF8OddLength(t *testing.T) {
	raw := []byte{0xFF, 0xFE, 0x41} // one stray byte after BOM
	if _, err := ToUTF8(raw); err == nil {
		t.Fatal("expected BadEncoding error")
	}
}
