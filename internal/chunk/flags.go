package chunk

// Flags is the per-chunk bitset carried alongside Kind. It is a closed,
// shared set: every pipeline stage reads and mutates the same named
// bits rather than inventing stage-local state.
type Flags uint64

const (
	// Copy flags: propagate to chunks inserted in the same context
	// (virtual braces, synthetic separators).
	FlagInPreproc Flags = 1 << iota
	FlagInStruct
	FlagInEnum
	FlagInFcnDef
	FlagInFcnCall
	FlagInSparen
	FlagInTemplate
	FlagInTypedef
	FlagInConstArgs
	FlagInArrayAssign
	FlagInClass
	FlagInClassBase
	FlagInNamespace
	FlagInFor
	FlagInOCMsg

	// Semantic flags
	FlagStmtStart
	FlagExprStart
	FlagVarType
	FlagVarDef
	FlagVarDecl
	FlagVarInline
	FlagLValue
	FlagOneLiner
	FlagPunctuator
	FlagKeyword
	FlagStatic
	FlagDef
	FlagProto
	FlagRef
	FlagTypedefStruct
	FlagTypedefUnion
	FlagTypedefEnum
)

// CopyFlags is the subset of Flags that propagate onto chunks synthesized
// in the same lexical context (e.g. a VBRACE_OPEN inherits the IN_* flags
// of the statement it wraps).
const CopyFlags = FlagInPreproc | FlagInStruct | FlagInEnum | FlagInFcnDef |
	FlagInFcnCall | FlagInSparen | FlagInTemplate | FlagInTypedef |
	FlagInConstArgs | FlagInArrayAssign | FlagInClass | FlagInClassBase |
	FlagInNamespace | FlagInFor | FlagInOCMsg

// DefProtoRef is the set of mutually exclusive classification flags.
const DefProtoRef = FlagDef | FlagProto | FlagRef

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

func (f Flags) Set(bit Flags) Flags { return f | bit }

func (f Flags) Clear(bit Flags) Flags { return f &^ bit }

// SetExclusive clears the other two DEF/PROTO/REF bits before setting
// bit, keeping the three mutually exclusive.
func (f Flags) SetExclusive(bit Flags) Flags {
	return (f &^ DefProtoRef) | bit
}
