package langs

import "toks/internal/chunk"

// keywordEntry is one row of the static (text, kind, language_mask) table.
type keywordEntry struct {
	kind      chunk.Kind
	mask      Flag
	preprocOnly bool
}

// keywordTable is shared by all languages; entries are filtered by mask.
var keywordTable = map[string]keywordEntry{
	"if":        {chunk.KindIf, AllCFamily, false},
	"else":      {chunk.KindElse, AllCFamily, false},
	"for":       {chunk.KindFor, AllCFamily &^ PAWN, false},
	"while":     {chunk.KindWhile, AllCFamily, false},
	"do":        {chunk.KindDo, AllCFamily, false},
	"switch":    {chunk.KindSwitch, AllCFamily, false},
	"case":      {chunk.KindCase, AllCFamily, false},
	"default":   {chunk.KindDefault, AllCFamily, false},
	"return":    {chunk.KindReturn, AllCFamily, false},
	"goto":      {chunk.KindGoto, C | CPP | D | CS | JAVA, false},
	"break":     {chunk.KindBreak, AllCFamily, false},
	"continue":  {chunk.KindContinue, AllCFamily, false},
	"sizeof":    {chunk.KindSizeof, C | CPP | D | CS, false},
	"typeof":    {chunk.KindTypeof, CPP | D, false},
	"catch":     {chunk.KindCatch, CPP | CS | JAVA | D, false},
	"try":       {chunk.KindTry, CPP | CS | JAVA | D, false},
	"throw":     {chunk.KindThrow, CPP | CS | JAVA | D, false},

	"struct":    {chunk.KindStruct, C | CPP | CS | D, false},
	"union":     {chunk.KindUnion, C | CPP | D, false},
	"enum":      {chunk.KindEnum, AllCFamily &^ PAWN, false},
	"class":     {chunk.KindClass, CPP | CS | JAVA | D | VALA | ECMA, false},
	"interface": {chunk.KindInterface, CS | JAVA | D | VALA, false},
	"namespace": {chunk.KindNamespace, CPP | CS | D, false},
	"typedef":   {chunk.KindTypedef, C | CPP | D, false},
	"static":    {chunk.KindStatic, AllCFamily &^ PAWN, false},
	"extern":    {chunk.KindExtern, C | CPP | D | CS, false},
	"const":     {chunk.KindConst, C | CPP | D | CS | JAVA | ECMA, false},
	"template":  {chunk.KindTemplate, CPP | D, false},
	"public":    {chunk.KindPublic, CPP | CS | JAVA | D | VALA, false},
	"private":   {chunk.KindPrivate, CPP | CS | JAVA | D | VALA, false},
	"protected": {chunk.KindProtected, CPP | CS | JAVA | D | VALA, false},
	"friend":    {chunk.KindFriend, CPP, false},
	"virtual":   {chunk.KindVirtual, CPP | CS, false},
	"operator":  {chunk.KindOperator, CPP | CS, false},
	"new":       {chunk.KindNew, CPP | CS | JAVA | D | VALA, false},
	"delete":    {chunk.KindDelete, CPP | D, false},

	"#if":      {chunk.KindPPIf, AllCFamily, true},
	"#ifdef":   {chunk.KindPPIf, AllCFamily, true},
	"#ifndef":  {chunk.KindPPIf, AllCFamily, true},
	"#else":    {chunk.KindPPElse, AllCFamily, true},
	"#elif":    {chunk.KindPPElse, AllCFamily, true},
	"#endif":   {chunk.KindPPEndif, AllCFamily, true},
	"#include": {chunk.KindPPInclude, AllCFamily, true},
	"#define":  {chunk.KindPPDefine, AllCFamily, true},
	"#undef":   {chunk.KindPPUndef, AllCFamily, true},
	"#pragma":  {chunk.KindPPPragma, AllCFamily, true},
}

// FindKeywordKind looks up word under lang, returning its Kind only if the
// entry's mask intersects lang, and only if preprocessor-only entries are
// queried while inPreproc holds. A language profile's keyword override
// table, when set via SetExtraKeywords, is consulted first and applies
// regardless of lang or inPreproc.
func FindKeywordKind(word string, lang Flag, inPreproc bool) (chunk.Kind, bool) {
	if k, ok := extraKeywords[word]; ok {
		return k, true
	}
	e, ok := keywordTable[word]
	if !ok {
		return chunk.KindNone, false
	}
	if e.preprocOnly && !inPreproc {
		return chunk.KindNone, false
	}
	if e.mask&lang == 0 {
		return chunk.KindNone, false
	}
	return e.kind, true
}

// BuiltinTypes is the set of built-in type keywords that the emitter skips:
// TYPE chunks carrying the KEYWORD flag are never emitted as references.
var BuiltinTypes = map[string]bool{
	"void": true, "char": true, "short": true, "int": true, "long": true,
	"float": true, "double": true, "signed": true, "unsigned": true,
	"bool": true, "wchar_t": true, "size_t": true,
	"byte": true, "sbyte": true, "ushort": true, "uint": true, "ulong": true,
	"string": true, "object": true, "var": true,
}

// extraTypes holds names loaded from the -t file and, where present, a
// config.LangProfile's Types list. It is populated once at CLI startup,
// before any file is processed.
var extraTypes = map[string]bool{}

// extraKeywords holds a config.LangProfile's Keywords overrides, mapping a
// word to the Kind it should be reclassified as. Populated once at CLI
// startup via SetExtraKeywords.
var extraKeywords = map[string]chunk.Kind{}

// SetExtraKeywords replaces the current keyword-override table.
func SetExtraKeywords(overrides map[string]chunk.Kind) {
	extraKeywords = overrides
	if extraKeywords == nil {
		extraKeywords = map[string]chunk.Kind{}
	}
}

// SetExtraTypes replaces the current extra-type set with names.
func SetExtraTypes(names []string) {
	extraTypes = make(map[string]bool, len(names))
	for _, n := range names {
		extraTypes[n] = true
	}
}

// IsExtraType reports whether name was loaded via SetExtraTypes.
func IsExtraType(name string) bool {
	return extraTypes[name]
}

// punctuators is the longest-match trie input: every multi-character
// punctuator text this tokenizer recognizes, sorted so the lexer can try
// longest-first.
var punctuators = []string{
	"<<=", ">>=", "...", "->*", "::*",
	"<<", ">>", "<=", ">=", "==", "!=", "&&", "||", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "->", "::",
	"(", ")", "{", "}", "[", "]", ";", ",", ":", "?", ".", "@",
	"+", "-", "*", "/", "%", "&", "|", "^", "~", "!", "<", ">", "=",
}

// MatchPunctuator returns the longest punctuator in text starting at
// offset 0, trying the punctuator table longest-match first. It returns ""
// if nothing matches.
func MatchPunctuator(s string) string {
	best := ""
	for _, p := range punctuators {
		if len(p) > len(best) && len(p) <= len(s) && s[:len(p)] == p {
			best = p
		}
	}
	return best
}

// PunctuatorKind classifies a matched punctuator string into a Kind, where
// that mapping is static rather than context-sensitive (":" is resolved
// later by combine_labels; ">>" stays an OPERATOR).
func PunctuatorKind(p string) chunk.Kind {
	switch p {
	case "(":
		return chunk.KindParenOpen
	case ")":
		return chunk.KindParenClose
	case "{":
		return chunk.KindBraceOpen
	case "}":
		return chunk.KindBraceClose
	case "[":
		return chunk.KindSquareOpen
	case "]":
		return chunk.KindSquareClose
	case ";":
		return chunk.KindSemicolon
	case ",":
		return chunk.KindComma
	case ":":
		return chunk.KindColon
	case "::":
		return chunk.KindDCMember
	case "?":
		return chunk.KindQuestion
	case ".":
		return chunk.KindDot
	case "->", "->*":
		return chunk.KindArrow
	case "@":
		return chunk.KindAt
	case "=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<=", ">>=":
		return chunk.KindAssign
	default:
		return chunk.KindOperatorTok
	}
}
