package lexer

import (
	"github.com/nooga/tsparse/pkg/errors"
	"github.com/nooga/tsparse/pkg/source"
)

// TokenType represents the type of a token.
type TokenType string

// Token represents a lexical token.
type Token struct {
	Type     TokenType
	Literal  string // Lexeme; the decoded value for string literals
	Line     int    // 1-based line number where the token starts
	Column   int    // 1-based column number (rune index) where the token starts
	StartPos int    // 0-based byte offset where the token starts
	EndPos   int    // 0-based byte offset after the token ends

	NewlineBefore bool       // A line break separates this token from the previous one
	Errors        []LexError // Problems found while scanning this token or the trivia before it
	Comments      []Comment  // Leading comments, only when comment attachment is on
}

// LexError is a lexical problem carried by the token it was found on.
type LexError struct {
	Kind errors.Kind
	Msg  string
	Span source.Span
}

// Comment is a comment that precedes a token.
type Comment struct {
	Text  string
	Block bool
	Span  source.Span
}

// Span returns the token's source range.
func (t Token) Span() source.Span {
	return source.Span{Start: t.StartPos, End: t.EndPos, Line: t.Line, Column: t.Column}
}

// Raw returns the token's text as written in src, quotes and escapes
// included.
func (t Token) Raw(src *source.SourceFile) string {
	if src == nil || t.StartPos < 0 || t.EndPos > len(src.Content) || t.StartPos > t.EndPos {
		return ""
	}
	return src.Content[t.StartPos:t.EndPos]
}

// Is reports whether the token has one of the given types.
func (t Token) Is(types ...TokenType) bool {
	for _, tt := range types {
		if t.Type == tt {
			return true
		}
	}
	return false
}

// --- Token Types ---
const (
	// Special
	ILLEGAL TokenType = "ILLEGAL" // Unknown token/character
	EOF     TokenType = "EOF"     // End Of File

	// Identifiers + Literals
	IDENT    TokenType = "IDENT"    // functionName, variableName
	NUMBER   TokenType = "NUMBER"   // 123, 45.67, 0xff, 10n
	STRING   TokenType = "STRING"   // "hello world"
	TEMPLATE TokenType = "TEMPLATE" // `hello ${name}`

	// Operators
	ASSIGN    TokenType = "="
	PLUS      TokenType = "+"
	MINUS     TokenType = "-"
	BANG      TokenType = "!"
	ASTERISK  TokenType = "*"
	SLASH     TokenType = "/"
	REMAINDER TokenType = "%"
	LT        TokenType = "<"
	GT        TokenType = ">"
	EQ        TokenType = "=="
	NOT_EQ    TokenType = "!="
	LE        TokenType = "<="
	GE        TokenType = ">="
	DOT       TokenType = "."
	SPREAD    TokenType = "..."

	STRICT_EQ     TokenType = "==="
	STRICT_NOT_EQ TokenType = "!=="

	// Compound Assignment
	PLUS_ASSIGN      TokenType = "+="
	MINUS_ASSIGN     TokenType = "-="
	ASTERISK_ASSIGN  TokenType = "*="
	SLASH_ASSIGN     TokenType = "/="
	REMAINDER_ASSIGN TokenType = "%="
	COALESCE_ASSIGN  TokenType = "??="

	// Increment/Decrement
	INC TokenType = "++"
	DEC TokenType = "--"

	// Bitwise / type operators
	PIPE        TokenType = "|" // Union types, bitwise or
	BITWISE_AND TokenType = "&" // Intersection types, bitwise and
	CARET       TokenType = "^"
	TILDE       TokenType = "~"

	// Logical Operators
	LOGICAL_AND TokenType = "&&"
	LOGICAL_OR  TokenType = "||"
	COALESCE    TokenType = "??"

	QUESTION          TokenType = "?"
	OPTIONAL_CHAINING TokenType = "?."

	// Delimiters
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"
	COLON     TokenType = ":"
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACE    TokenType = "{"
	RBRACE    TokenType = "}"
	LBRACKET  TokenType = "["
	RBRACKET  TokenType = "]"
	ARROW     TokenType = "=>"
	AT        TokenType = "@"

	// Keywords
	FUNCTION   TokenType = "FUNCTION"
	CLASS      TokenType = "CLASS"
	INTERFACE  TokenType = "INTERFACE"
	TYPE       TokenType = "TYPE"
	NAMESPACE  TokenType = "NAMESPACE"
	DECLARE    TokenType = "DECLARE"
	MODULE     TokenType = "MODULE"
	GLOBAL     TokenType = "GLOBAL"
	IMPORT     TokenType = "IMPORT"
	EXPORT     TokenType = "EXPORT"
	SWITCH     TokenType = "SWITCH"
	CASE       TokenType = "CASE"
	DEFAULT    TokenType = "DEFAULT"
	TYPEOF     TokenType = "TYPEOF"
	STATIC     TokenType = "STATIC"
	EXTENDS    TokenType = "EXTENDS"
	IMPLEMENTS TokenType = "IMPLEMENTS"
	CONST      TokenType = "CONST"
	LET        TokenType = "LET"
	VAR        TokenType = "VAR"
	IF         TokenType = "IF"
	ELSE       TokenType = "ELSE"
	WHILE      TokenType = "WHILE"
	DO         TokenType = "DO"
	FOR        TokenType = "FOR"
	OF         TokenType = "OF"
	IN         TokenType = "IN"
	INSTANCEOF TokenType = "INSTANCEOF"
	RETURN     TokenType = "RETURN"
	BREAK      TokenType = "BREAK"
	CONTINUE   TokenType = "CONTINUE"
	THROW      TokenType = "THROW"
	TRY        TokenType = "TRY"
	CATCH      TokenType = "CATCH"
	FINALLY    TokenType = "FINALLY"
	NEW        TokenType = "NEW"
	THIS       TokenType = "THIS"
	TRUE       TokenType = "TRUE"
	FALSE      TokenType = "FALSE"
	NULL       TokenType = "NULL"
	VOID       TokenType = "VOID"
	DELETE     TokenType = "DELETE"
	AS         TokenType = "AS"
	FROM       TokenType = "FROM"
	KEYOF      TokenType = "KEYOF"
)

var keywords = map[string]TokenType{
	"function":   FUNCTION,
	"class":      CLASS,
	"interface":  INTERFACE,
	"type":       TYPE,
	"namespace":  NAMESPACE,
	"declare":    DECLARE,
	"module":     MODULE,
	"global":     GLOBAL,
	"import":     IMPORT,
	"export":     EXPORT,
	"switch":     SWITCH,
	"case":       CASE,
	"default":    DEFAULT,
	"typeof":     TYPEOF,
	"static":     STATIC,
	"extends":    EXTENDS,
	"implements": IMPLEMENTS,
	"const":      CONST,
	"let":        LET,
	"var":        VAR,
	"if":         IF,
	"else":       ELSE,
	"while":      WHILE,
	"do":         DO,
	"for":        FOR,
	"of":         OF,
	"in":         IN,
	"instanceof": INSTANCEOF,
	"return":     RETURN,
	"break":      BREAK,
	"continue":   CONTINUE,
	"throw":      THROW,
	"try":        TRY,
	"catch":      CATCH,
	"finally":    FINALLY,
	"new":        NEW,
	"this":       THIS,
	"true":       TRUE,
	"false":      FALSE,
	"null":       NULL,
	"void":       VOID,
	"delete":     DELETE,
	"as":         AS,
	"from":       FROM,
	"keyof":      KEYOF,
}

// Keywords that only have meaning in particular positions and are plain
// identifiers everywhere else.
var contextual = map[TokenType]bool{
	TYPE:      true,
	NAMESPACE: true,
	DECLARE:   true,
	MODULE:    true,
	GLOBAL:    true,
	STATIC:    true,
	OF:        true,
	AS:        true,
	FROM:      true,
	KEYOF:     true,
}

// LookupIdent checks the keywords table for an identifier.
func LookupIdent(ident string) TokenType {
	if tokType, ok := keywords[ident]; ok {
		return tokType
	}
	return IDENT
}

// IsKeyword reports whether t is a keyword token type.
func IsKeyword(t TokenType) bool {
	_, ok := keywordNames[t]
	return ok
}

// IsContextual reports whether t is a keyword that may also be used as an
// identifier.
func IsContextual(t TokenType) bool {
	return contextual[t]
}

// Text returns how a token type is spelled in source: the keyword for
// keyword types, the punctuator itself otherwise.
func (t TokenType) Text() string {
	if name, ok := keywordNames[t]; ok {
		return name
	}
	return string(t)
}

var keywordNames = func() map[TokenType]string {
	m := make(map[TokenType]string, len(keywords))
	for name, t := range keywords {
		m[t] = name
	}
	return m
}()

// TokenKind is the coarse lexical class of a token.
type TokenKind int

const (
	KindIllegal TokenKind = iota
	KindKeyword
	KindIdentifier
	KindPunctuator
	KindNumericLiteral
	KindStringLiteral
	KindTemplateLiteral
	KindEOF
)

var tokenKindNames = [...]string{
	KindIllegal:         "Illegal",
	KindKeyword:         "Keyword",
	KindIdentifier:      "Identifier",
	KindPunctuator:      "Punctuator",
	KindNumericLiteral:  "NumericLiteral",
	KindStringLiteral:   "StringLiteral",
	KindTemplateLiteral: "TemplateLiteral",
	KindEOF:             "EOF",
}

func (k TokenKind) String() string { return tokenKindNames[k] }

// Kind classifies the token.
func (t Token) Kind() TokenKind {
	switch t.Type {
	case ILLEGAL:
		return KindIllegal
	case EOF:
		return KindEOF
	case IDENT:
		return KindIdentifier
	case NUMBER:
		return KindNumericLiteral
	case STRING:
		return KindStringLiteral
	case TEMPLATE:
		return KindTemplateLiteral
	}
	if IsKeyword(t.Type) {
		return KindKeyword
	}
	return KindPunctuator
}

// Describe renders the token for diagnostics.
func (t Token) Describe() string {
	switch t.Type {
	case EOF:
		return "end of file"
	case STRING:
		return "string literal"
	case TEMPLATE:
		return "template literal"
	}
	return "'" + t.Literal + "'"
}
