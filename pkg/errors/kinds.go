package errors

// Severity grades a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Kind identifies what went wrong. Lexical kinds are reported by the
// scanner, the rest by the parser.
type Kind int

const (
	// Lexical errors (E1xxx)
	UnterminatedString Kind = iota + 1
	UnterminatedTemplate
	InvalidEscape
	UnterminatedComment
	ConflictMarker

	// Parse errors (E2xxx)
	UnexpectedToken
	UnterminatedBlock
	RestMustBeLast
	MissingModuleSpecifier
	DuplicateDefaultCase
	InvalidQualifiedName
	TooManyErrors
)

type kindInfo struct {
	name     string
	code     string
	lexical  bool
	severity Severity
}

var kindTable = map[Kind]kindInfo{
	UnterminatedString:     {"UnterminatedString", "E1001", true, SeverityError},
	UnterminatedTemplate:   {"UnterminatedTemplate", "E1002", true, SeverityError},
	InvalidEscape:          {"InvalidEscape", "E1003", true, SeverityWarning},
	UnterminatedComment:    {"UnterminatedComment", "E1004", true, SeverityError},
	ConflictMarker:         {"ConflictMarker", "E1005", true, SeverityError},
	UnexpectedToken:        {"UnexpectedToken", "E2001", false, SeverityError},
	UnterminatedBlock:      {"UnterminatedBlock", "E2002", false, SeverityError},
	RestMustBeLast:         {"RestMustBeLast", "E2003", false, SeverityError},
	MissingModuleSpecifier: {"MissingModuleSpecifier", "E2004", false, SeverityError},
	DuplicateDefaultCase:   {"DuplicateDefaultCase", "E2005", false, SeverityError},
	InvalidQualifiedName:   {"InvalidQualifiedName", "E2006", false, SeverityError},
	TooManyErrors:          {"TooManyErrors", "E2007", false, SeverityError},
}

func (k Kind) String() string {
	if info, ok := kindTable[k]; ok {
		return info.name
	}
	return "Unknown"
}

// Code returns the stable diagnostic code, e.g. "E2001".
func (k Kind) Code() string {
	return kindTable[k].code
}

// IsLexical reports whether the kind belongs to the scanner.
func (k Kind) IsLexical() bool {
	return kindTable[k].lexical
}

// Class returns "LexError" or "ParseError".
func (k Kind) Class() string {
	if k.IsLexical() {
		return "LexError"
	}
	return "ParseError"
}

// DefaultSeverity is the severity a diagnostic of this kind is reported with.
func (k Kind) DefaultSeverity() Severity {
	return kindTable[k].severity
}
