// Package chunk implements the central data model of the toks pipeline: the
// Chunk value, its Kind enumeration, its Flags bitset, and the List that
// holds a whole file's token stream.
//
// A chunk-pipeline tokenizer traditionally represents the token stream as
// a doubly-linked list of heap-allocated nodes with raw pointers. Here the
// list is an arena of Chunk values addressed by index: navigation
// helpers (NextNC, PrevNCNL, ...) walk the arena instead of following
// pointers, which keeps chunk references cheap, copyable, and free of
// lifetime hazards on insert/delete.
package chunk

// Kind identifies what a Chunk is. The full token taxonomy this tool
// classifies against runs to roughly 200 kinds; only the subset actually
// produced/consumed by this implementation is declared here, grouped by
// pipeline stage of origin.
type Kind int

const (
	KindNone Kind = iota

	// Trivia
	KindNewline
	KindNLCont
	KindComment
	KindCommentMulti

	// Literals and bare words
	KindWord
	KindNumber
	KindString

	// Bracketing - generic, retyped by brace_cleanup into statement/
	// function/grouping variants. Close kinds are always Open+1 so that
	// the "close == open + 1" invariant holds by construction.
	KindParenOpen
	KindParenClose
	KindSParenOpen
	KindSParenClose
	KindFParenOpen
	KindFParenClose
	KindBraceOpen
	KindBraceClose
	KindVBraceOpen
	KindVBraceClose
	KindSquareOpen
	KindSquareClose
	KindAngleOpen
	KindAngleClose

	// Preprocessor
	KindPreproc
	KindPPIf
	KindPPElse
	KindPPEndif
	KindPPInclude
	KindPPDefine
	KindPPUndef
	KindPPPragma
	KindPPOther

	// Keywords / control flow
	KindIf
	KindElse
	KindFor
	KindWhile
	KindDo
	KindSwitch
	KindCase
	KindDefault
	KindReturn
	KindGoto
	KindBreak
	KindContinue
	KindSizeof
	KindTypeof
	KindCatch
	KindTry
	KindThrow

	// Type / entity keywords
	KindStruct
	KindUnion
	KindEnum
	KindClass
	KindInterface
	KindNamespace
	KindTypedef
	KindStatic
	KindExtern
	KindConst
	KindTemplate
	KindPublic
	KindPrivate
	KindProtected
	KindFriend
	KindVirtual
	KindOperator
	KindNew
	KindDelete

	// Punctuators
	KindSemicolon
	KindComma
	KindColon
	KindQuestion
	KindDCMember // ::
	KindDot
	KindArrow
	KindAssign
	KindOperatorTok
	KindAt
	KindQualifier

	// Semantic re-typings (assigned by fix_symbols / combine_labels)
	KindType
	KindFuncDef
	KindFuncProto
	KindFuncCall
	KindFuncClass
	KindFuncType
	KindFuncVar
	KindFuncCtorVar
	KindMacro
	KindMacroFunc
	KindEnumVal
	KindLabelColon
	KindCaseColon
	KindPrivateColon
	KindClassColon
	KindTernaryColon
	KindBitfieldColon
)

//go:generate stringer -type=Kind
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

var kindNames = map[Kind]string{
	KindNone:          "NONE",
	KindNewline:       "NEWLINE",
	KindNLCont:        "NL_CONT",
	KindComment:       "COMMENT",
	KindCommentMulti:  "COMMENT_MULTI",
	KindWord:          "WORD",
	KindNumber:        "NUMBER",
	KindString:        "STRING",
	KindParenOpen:     "PAREN_OPEN",
	KindParenClose:    "PAREN_CLOSE",
	KindSParenOpen:    "SPAREN_OPEN",
	KindSParenClose:   "SPAREN_CLOSE",
	KindFParenOpen:    "FPAREN_OPEN",
	KindFParenClose:   "FPAREN_CLOSE",
	KindBraceOpen:     "BRACE_OPEN",
	KindBraceClose:    "BRACE_CLOSE",
	KindVBraceOpen:    "VBRACE_OPEN",
	KindVBraceClose:   "VBRACE_CLOSE",
	KindSquareOpen:    "SQUARE_OPEN",
	KindSquareClose:   "SQUARE_CLOSE",
	KindAngleOpen:     "ANGLE_OPEN",
	KindAngleClose:    "ANGLE_CLOSE",
	KindPreproc:       "PREPROC",
	KindPPIf:          "PP_IF",
	KindPPElse:        "PP_ELSE",
	KindPPEndif:       "PP_ENDIF",
	KindPPInclude:     "PP_INCLUDE",
	KindPPDefine:      "PP_DEFINE",
	KindPPUndef:       "PP_UNDEF",
	KindPPPragma:      "PP_PRAGMA",
	KindPPOther:       "PP_OTHER",
	KindIf:            "IF",
	KindElse:          "ELSE",
	KindFor:           "FOR",
	KindWhile:         "WHILE",
	KindDo:            "DO",
	KindSwitch:        "SWITCH",
	KindCase:          "CASE",
	KindDefault:       "DEFAULT",
	KindReturn:        "RETURN",
	KindGoto:          "GOTO",
	KindBreak:         "BREAK",
	KindContinue:      "CONTINUE",
	KindSizeof:        "SIZEOF",
	KindTypeof:        "TYPEOF",
	KindCatch:         "CATCH",
	KindTry:           "TRY",
	KindThrow:         "THROW",
	KindStruct:        "STRUCT",
	KindUnion:         "UNION",
	KindEnum:          "ENUM",
	KindClass:         "CLASS",
	KindInterface:     "INTERFACE",
	KindNamespace:     "NAMESPACE",
	KindTypedef:       "TYPEDEF",
	KindStatic:        "STATIC",
	KindExtern:        "EXTERN",
	KindConst:         "CONST",
	KindTemplate:      "TEMPLATE",
	KindPublic:        "PUBLIC",
	KindPrivate:       "PRIVATE",
	KindProtected:     "PROTECTED",
	KindFriend:        "FRIEND",
	KindVirtual:       "VIRTUAL",
	KindOperator:      "OPERATOR",
	KindNew:           "NEW",
	KindDelete:        "DELETE",
	KindSemicolon:     "SEMICOLON",
	KindComma:         "COMMA",
	KindColon:         "COLON",
	KindQuestion:      "QUESTION",
	KindDCMember:      "DC_MEMBER",
	KindDot:           "DOT",
	KindArrow:         "ARROW",
	KindAssign:        "ASSIGN",
	KindOperatorTok:   "OPERATOR_TOK",
	KindAt:            "AT",
	KindQualifier:     "QUALIFIER",
	KindType:          "TYPE",
	KindFuncDef:       "FUNC_DEF",
	KindFuncProto:     "FUNC_PROTO",
	KindFuncCall:      "FUNC_CALL",
	KindFuncClass:     "FUNC_CLASS",
	KindFuncType:      "FUNC_TYPE",
	KindFuncVar:       "FUNC_VAR",
	KindFuncCtorVar:   "FUNC_CTOR_VAR",
	KindMacro:         "MACRO",
	KindMacroFunc:     "MACRO_FUNC",
	KindEnumVal:       "ENUM_VAL",
	KindLabelColon:    "LABEL_COLON",
	KindCaseColon:     "CASE_COLON",
	KindPrivateColon:  "PRIVATE_COLON",
	KindClassColon:    "CLASS_COLON",
	KindTernaryColon:  "TERNARY_COLON",
	KindBitfieldColon: "BITFIELD_COLON",
}

var kindByName map[string]Kind

func init() {
	kindByName = make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		kindByName[name] = k
	}
}

// ParseKind looks up a Kind by its String() name (e.g. "STATIC"), for
// config-driven keyword overrides that name a kind by its textual form.
func ParseKind(name string) (Kind, bool) {
	k, ok := kindByName[name]
	return k, ok
}

// IsOpener reports whether k is one of the bracketing "open" kinds.
func IsOpener(k Kind) bool {
	switch k {
	case KindParenOpen, KindSParenOpen, KindFParenOpen, KindBraceOpen,
		KindVBraceOpen, KindSquareOpen, KindAngleOpen:
		return true
	}
	return false
}

// IsCloser reports whether k is one of the bracketing "close" kinds.
func IsCloser(k Kind) bool {
	switch k {
	case KindParenClose, KindSParenClose, KindFParenClose, KindBraceClose,
		KindVBraceClose, KindSquareClose, KindAngleClose:
		return true
	}
	return false
}

// MatchingClose returns the close kind for an open kind, relying on the
// enumeration invariant K_CLOSE == K_OPEN + 1.
func MatchingClose(open Kind) Kind {
	if IsOpener(open) {
		return open + 1
	}
	return KindNone
}

// IsBrace reports whether k is a real or virtual brace.
func IsBrace(k Kind) bool {
	return k == KindBraceOpen || k == KindBraceClose || k == KindVBraceOpen || k == KindVBraceClose
}
