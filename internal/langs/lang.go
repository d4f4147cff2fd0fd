// Package langs declares the language-flag bitset, the keyword and
// punctuator tables, and extension-based language detection. The
// extension-matching structure is generalized from a whole-project
// manifest-priority scan down to per-file extensions.
package langs

import "strings"

// Flag is a bitset identifying which language(s) a keyword or construct is
// valid in. A single file is tokenized under exactly one Flag value (plus
// the OC+ compound for Objective-C++), but tables are shared and filtered
// by mask.
type Flag uint16

const (
	C Flag = 1 << iota
	CPP
	D
	CS
	JAVA
	PAWN
	OC
	VALA
	ECMA

	// C99Plus marks a secondary capability bit: under plain C, // line
	// comments are only valid from C99 onward. Callers that know they are
	// looking at C99-or-later code should OR this in alongside C.
	C99Plus
)

// AllCFamily is every language flag this tool tokenizes.
const AllCFamily = C | CPP | D | CS | JAVA | PAWN | OC | VALA | ECMA

// OCPlusPlus is the compound OC+ tag: Objective-C with C++ extensions
// (.mm files).
const OCPlusPlus = OC | CPP

// ParseTag maps a CLI -l tag to a Flag.
func ParseTag(tag string) (Flag, bool) {
	switch strings.ToUpper(tag) {
	case "C":
		return C, true
	case "CPP":
		return CPP, true
	case "D":
		return D, true
	case "CS":
		return CS, true
	case "JAVA":
		return JAVA, true
	case "PAWN":
		return PAWN, true
	case "OC":
		return OC, true
	case "OC+":
		return OCPlusPlus, true
	case "VALA":
		return VALA, true
	case "ECMA":
		return ECMA, true
	}
	return 0, false
}

// extensionTable maps file extensions to language flags. No extension in
// it is a suffix of another, so the first suffix match is the only one.
var extensionTable = []struct {
	ext  string
	flag Flag
}{
	{".c", C}, {".h", C}, {".sqc", C},
	{".cpp", CPP}, {".cxx", CPP}, {".hpp", CPP}, {".hxx", CPP},
	{".cc", CPP}, {".cp", CPP}, {".C", CPP}, {".CPP", CPP}, {".c++", CPP},
	{".d", D}, {".di", D},
	{".cs", CS},
	{".vala", VALA},
	{".java", JAVA},
	{".pawn", PAWN}, {".p", PAWN}, {".sma", PAWN}, {".inl", PAWN},
	{".m", OC},
	{".mm", OCPlusPlus},
	{".es", ECMA},
}

// DetectByExtension returns the language flag for filename, defaulting
// to C when no extension matches.
func DetectByExtension(filename string) Flag {
	for _, e := range extensionTable {
		if strings.HasSuffix(filename, e.ext) {
			return e.flag
		}
	}
	return C
}
