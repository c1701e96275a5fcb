package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dlclark/regexp2"

	"github.com/nooga/tsparse/pkg/errors"
	"github.com/nooga/tsparse/pkg/source"
)

var (
	// A "#!" interpreter line is only recognised at the very start of a file.
	shebangRe = regexp2.MustCompile(`^#!.*`, regexp2.None)
	// Merge conflict markers: seven identical marker characters at the start
	// of a line; all but "=======" must be followed by a space.
	conflictMarkerRe = regexp2.MustCompile(`^(?:([<|>])\1{6} |={7})`, regexp2.None)
)

const conflictMarkerLength = 7

// Lexer holds the state of the scanner. It is lazy: each NextToken call
// scans exactly one token, and Reset rewinds to the start of the input.
type Lexer struct {
	src          *source.SourceFile
	input        string
	position     int  // current position in input (points to current char's byte offset)
	readPosition int  // current reading position in input (byte offset after current char)
	ch           byte // current char under examination
	line         int  // current 1-based line number
	column       int  // current 1-based rune column of l.position on l.line

	attachComments bool

	// Collected while skipping trivia, handed to the next token.
	sawNewline bool
	pending    []LexError
	comments   []Comment
}

// NewLexer creates a new Lexer over an anonymous input.
func NewLexer(input string) *Lexer {
	return NewLexerWithSource(source.NewInlineSource(input))
}

// NewLexerWithSource creates a new Lexer over a source file.
func NewLexerWithSource(src *source.SourceFile) *Lexer {
	l := &Lexer{src: src, input: src.Content}
	l.Reset()
	return l
}

// Source returns the file being scanned.
func (l *Lexer) Source() *source.SourceFile { return l.src }

// SetAttachComments turns leading comment collection on or off.
func (l *Lexer) SetAttachComments(on bool) { l.attachComments = on }

// Reset rewinds the lexer to the beginning of its input.
func (l *Lexer) Reset() {
	l.position, l.readPosition, l.ch = 0, 0, 0
	l.line, l.column = 1, 0
	l.sawNewline = false
	l.pending, l.comments = nil, nil
	l.readChar()

	if strings.HasPrefix(l.input, "\ufeff") {
		l.skipTo(len("\ufeff"))
		l.column = 1
	}
	if strings.HasPrefix(l.input[l.position:], "#!") {
		if m, err := shebangRe.FindStringMatch(firstLine(l.input[l.position:])); err == nil && m != nil {
			l.skipTo(l.position + len(m.String()))
		}
	}
}

// readChar gives us the next character and advances our position in the input string.
// It also updates the line and column count.
func (l *Lexer) readChar() {
	if l.readPosition > len(l.input) {
		return // already at EOF
	}
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition == len(l.input) {
		l.ch = 0 // 0 signifies EOF
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	if l.ch&0xC0 != 0x80 { // UTF-8 continuation bytes share their rune's column
		l.column++
	}
}

func (l *Lexer) skipTo(pos int) {
	for l.position < pos && !l.atEOF() {
		l.readChar()
	}
}

// peekChar looks ahead in the input without consuming the character.
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) atEOF() bool { return l.position >= len(l.input) }

func (l *Lexer) atLineStart() bool {
	return l.position == 0 || l.input[l.position-1] == '\n'
}

func (l *Lexer) spanFrom(startPos, startLine, startCol int) source.Span {
	return source.Span{Start: startPos, End: l.position, Line: startLine, Column: startCol}
}

func (l *Lexer) report(kind errors.Kind, span source.Span, msg string) {
	l.pending = append(l.pending, LexError{Kind: kind, Msg: msg, Span: span})
}

// finish builds the token that started at the given position and ends at
// the current one, handing it the trivia state collected before it.
func (l *Lexer) finish(t TokenType, startPos, startLine, startCol int) Token {
	tok := Token{
		Type:          t,
		Literal:       l.input[startPos:l.position],
		Line:          startLine,
		Column:        startCol,
		StartPos:      startPos,
		EndPos:        l.position,
		NewlineBefore: l.sawNewline,
		Errors:        l.pending,
		Comments:      l.comments,
	}
	l.sawNewline = false
	l.pending, l.comments = nil, nil
	return tok
}

// NextToken scans the input and returns the next token.
func (l *Lexer) NextToken() Token {
	l.skipTrivia()

	startPos, startLine, startCol := l.position, l.line, l.column
	if l.atEOF() {
		return l.finish(EOF, startPos, startLine, startCol)
	}

	var t TokenType
	switch ch := l.ch; ch {
	case '"', '\'':
		return l.readString(ch, startPos, startLine, startCol)
	case '`':
		if !l.readTemplate() {
			l.report(errors.UnterminatedTemplate, l.spanFrom(startPos, startLine, startCol), "unterminated template literal")
		}
		return l.finish(TEMPLATE, startPos, startLine, startCol)
	case '=':
		l.readChar()
		switch l.ch {
		case '=':
			l.readChar()
			t = EQ
			if l.ch == '=' {
				l.readChar()
				t = STRICT_EQ
			}
		case '>':
			l.readChar()
			t = ARROW
		default:
			t = ASSIGN
		}
	case '!':
		l.readChar()
		t = BANG
		if l.ch == '=' {
			l.readChar()
			t = NOT_EQ
			if l.ch == '=' {
				l.readChar()
				t = STRICT_NOT_EQ
			}
		}
	case '+':
		l.readChar()
		t = l.either('+', INC, '=', PLUS_ASSIGN, PLUS)
	case '-':
		l.readChar()
		t = l.either('-', DEC, '=', MINUS_ASSIGN, MINUS)
	case '*':
		l.readChar()
		t = l.either('=', ASTERISK_ASSIGN, 0, "", ASTERISK)
	case '/':
		l.readChar()
		t = l.either('=', SLASH_ASSIGN, 0, "", SLASH)
	case '%':
		l.readChar()
		t = l.either('=', REMAINDER_ASSIGN, 0, "", REMAINDER)
	case '&':
		l.readChar()
		t = l.either('&', LOGICAL_AND, 0, "", BITWISE_AND)
	case '|':
		l.readChar()
		t = l.either('|', LOGICAL_OR, 0, "", PIPE)
	case '<':
		l.readChar()
		t = l.either('=', LE, 0, "", LT)
	case '>':
		// ">>" is never combined so that nested type argument lists close cleanly.
		l.readChar()
		t = l.either('=', GE, 0, "", GT)
	case '?':
		l.readChar()
		switch {
		case l.ch == '?':
			l.readChar()
			t = COALESCE
			if l.ch == '=' {
				l.readChar()
				t = COALESCE_ASSIGN
			}
		case l.ch == '.' && !isDigit(l.peekChar()):
			l.readChar()
			t = OPTIONAL_CHAINING
		default:
			t = QUESTION
		}
	case '.':
		if isDigit(l.peekChar()) {
			l.readNumber()
			return l.finish(NUMBER, startPos, startLine, startCol)
		}
		l.readChar()
		t = DOT
		if l.ch == '.' && l.peekChar() == '.' {
			l.readChar()
			l.readChar()
			t = SPREAD
		}
	case '^', '~', ',', ';', ':', '(', ')', '{', '}', '[', ']', '@':
		l.readChar()
		t = TokenType(string(ch))
	default:
		switch {
		case isDigit(ch):
			l.readNumber()
			return l.finish(NUMBER, startPos, startLine, startCol)
		case l.isIdentStart():
			l.readIdentifier()
			return l.finish(LookupIdent(l.input[startPos:l.position]), startPos, startLine, startCol)
		default:
			// Illegal character; consume the whole rune.
			_, size := utf8.DecodeRuneInString(l.input[l.position:])
			l.skipTo(l.position + size)
			t = ILLEGAL
		}
	}
	return l.finish(t, startPos, startLine, startCol)
}

// either consumes the current char if it is a or b and returns the matching
// type, otherwise it returns fallback.
func (l *Lexer) either(a byte, ta TokenType, b byte, tb TokenType, fallback TokenType) TokenType {
	switch {
	case l.ch == a:
		l.readChar()
		return ta
	case b != 0 && l.ch == b:
		l.readChar()
		return tb
	}
	return fallback
}

// skipTrivia consumes whitespace, comments and merge conflict markers.
func (l *Lexer) skipTrivia() {
	for !l.atEOF() {
		switch l.ch {
		case ' ', '\t', '\r', '\v', '\f':
			l.readChar()
		case '\n':
			l.sawNewline = true
			l.readChar()
		case '/':
			switch l.peekChar() {
			case '/':
				l.skipComment()
			case '*':
				l.skipMultilineComment()
			default:
				return
			}
		case '<', '=', '|', '>':
			if !l.atLineStart() || !l.skipConflictMarker() {
				return
			}
		default:
			if l.ch < utf8.RuneSelf {
				return
			}
			r, size := utf8.DecodeRuneInString(l.input[l.position:])
			if r == '\u2028' || r == '\u2029' {
				l.sawNewline = true
			} else if !unicode.IsSpace(r) && r != '\ufeff' {
				return
			}
			l.skipTo(l.position + size)
		}
	}
}

// skipComment reads until the end of the line.
func (l *Lexer) skipComment() {
	startPos, startLine, startCol := l.position, l.line, l.column
	for l.ch != '\n' && !l.atEOF() {
		l.readChar()
	}
	l.addComment(startPos, startLine, startCol, false)
}

// skipMultilineComment reads until the end of the multiline comment,
// consuming the opening '/*' and the closing '*/'.
func (l *Lexer) skipMultilineComment() {
	startPos, startLine, startCol := l.position, l.line, l.column
	l.readChar() // Consume '/'
	l.readChar() // Consume '*'
	for {
		if l.atEOF() {
			l.report(errors.UnterminatedComment, l.spanFrom(startPos, startLine, startCol), "unterminated comment, '*/' expected")
			break
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			break
		}
		if l.ch == '\n' {
			l.sawNewline = true
		}
		l.readChar()
	}
	l.addComment(startPos, startLine, startCol, true)
}

func (l *Lexer) addComment(startPos, startLine, startCol int, block bool) {
	if !l.attachComments {
		return
	}
	l.comments = append(l.comments, Comment{
		Text:  l.input[startPos:l.position],
		Block: block,
		Span:  l.spanFrom(startPos, startLine, startCol),
	})
}

// skipConflictMarker skips a merge conflict marker line and reports it.
// After a "=======" marker everything up to the closing ">>>>>>>" marker is
// skipped as well, since it is the other side of the conflict.
func (l *Lexer) skipConflictMarker() bool {
	line := firstLine(l.input[l.position:])
	if len(line) < conflictMarkerLength {
		return false
	}
	if ok, err := conflictMarkerRe.MatchString(line); err != nil || !ok {
		return false
	}
	startPos, startLine, startCol := l.position, l.line, l.column
	l.skipTo(l.position + len(line))
	if l.input[startPos] == '=' {
		for !l.atEOF() {
			if l.atLineStart() && strings.HasPrefix(l.input[l.position:], ">>>>>>>") {
				break
			}
			l.readChar()
		}
		l.report(errors.ConflictMarker, source.Span{Start: startPos, End: startPos + len(line), Line: startLine, Column: startCol}, "merge conflict marker encountered")
		return true
	}
	l.report(errors.ConflictMarker, l.spanFrom(startPos, startLine, startCol), "merge conflict marker encountered")
	return true
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSuffix(s, "\r")
}

func (l *Lexer) isIdentStart() bool {
	if isLetter(l.ch) || l.ch == '$' {
		return true
	}
	if l.ch < utf8.RuneSelf {
		return false
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.position:])
	return unicode.IsLetter(r) || unicode.Is(unicode.Nl, r)
}

// readIdentifier reads an identifier (letters, digits, _, $) and advances the lexer's position.
func (l *Lexer) readIdentifier() {
	for !l.atEOF() {
		if isLetter(l.ch) || isDigit(l.ch) || l.ch == '$' {
			l.readChar()
			continue
		}
		if l.ch < utf8.RuneSelf {
			return
		}
		r, size := utf8.DecodeRuneInString(l.input[l.position:])
		if !isIdentPart(r) {
			return
		}
		l.skipTo(l.position + size)
	}
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) ||
		unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nl, unicode.Pc) ||
		r == '\u200c' || r == '\u200d'
}

// readNumber reads a number literal (integer or float, various bases) and advances the lexer's position.
// Handles decimal (optional exponent/fraction), hex (0x), binary (0b), octal (0o),
// numeric separators '_' and the BigInt suffix 'n'.
func (l *Lexer) readNumber() {
	base := 10
	if l.ch == '0' {
		switch l.peekChar() {
		case 'x', 'X':
			base = 16
		case 'b', 'B':
			base = 2
		case 'o', 'O':
			base = 8
		}
		if base != 10 {
			l.readChar() // Consume '0'
			l.readChar() // Consume the base letter
		}
	}

	l.readDigits(base)
	if base == 10 && l.ch == '.' {
		l.readChar()
		l.readDigits(10)
	}
	if base == 10 && (l.ch == 'e' || l.ch == 'E') {
		next := l.peekChar()
		if isDigit(next) || ((next == '+' || next == '-') && l.readPosition+1 < len(l.input) && isDigit(l.input[l.readPosition+1])) {
			l.readChar() // Consume 'e' or 'E'
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			l.readDigits(10)
		}
	}
	if l.ch == 'n' {
		l.readChar()
	}
}

// readDigits consumes digits of base, allowing single '_' separators between digits.
func (l *Lexer) readDigits(base int) {
	for {
		if isDigitForBase(l.ch, base) {
			l.readChar()
		} else if l.ch == '_' && isDigitForBase(l.peekChar(), base) && l.position > 0 && isDigitForBase(l.input[l.position-1], base) {
			l.readChar()
		} else {
			return
		}
	}
}

// readString reads a string literal enclosed in quote. The token literal is
// the decoded value. An unterminated string still yields a STRING token
// that ends at the line break or end of input.
func (l *Lexer) readString(quote byte, startPos, startLine, startCol int) Token {
	var builder strings.Builder
	l.readChar() // Consume the opening quote
	for {
		switch {
		case l.atEOF() || l.ch == '\n' || l.ch == '\r':
			l.report(errors.UnterminatedString, l.spanFrom(startPos, startLine, startCol), "unterminated string literal")
			tok := l.finish(STRING, startPos, startLine, startCol)
			tok.Literal = builder.String()
			return tok
		case l.ch == quote:
			l.readChar()
			tok := l.finish(STRING, startPos, startLine, startCol)
			tok.Literal = builder.String()
			return tok
		case l.ch == '\\':
			l.readEscape(&builder)
		default:
			builder.WriteByte(l.ch)
			l.readChar()
		}
	}
}

// readEscape decodes one escape sequence. Malformed \x and \u escapes are
// kept verbatim and reported as InvalidEscape.
func (l *Lexer) readEscape(b *strings.Builder) {
	escPos, escLine, escCol := l.position, l.line, l.column
	l.readChar() // Consume the backslash
	if l.atEOF() {
		return
	}
	switch l.ch {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'v':
		b.WriteByte('\v')
	case '0':
		if isDigit(l.peekChar()) {
			b.WriteByte('0')
		} else {
			b.WriteByte(0)
		}
	case '\r':
		l.readChar()
		if l.ch == '\n' {
			l.readChar()
		}
		return
	case '\n':
		// Line continuation
	case 'x':
		if r, ok := l.hexRun(l.readPosition, 2); ok {
			l.skipTo(l.readPosition + 2)
			b.WriteRune(r)
			return
		}
		l.invalidEscape(b, escPos, escLine, escCol)
		return
	case 'u':
		if l.peekChar() == '{' {
			end := strings.IndexByte(l.input[l.readPosition:], '}')
			if end > 1 && end <= 7 {
				if r, ok := l.hexRun(l.readPosition+1, end-1); ok && r <= unicode.MaxRune {
					l.skipTo(l.readPosition + end + 1)
					b.WriteRune(r)
					return
				}
			}
		} else if r, ok := l.hexRun(l.readPosition, 4); ok {
			l.skipTo(l.readPosition + 4)
			b.WriteRune(r)
			return
		}
		l.invalidEscape(b, escPos, escLine, escCol)
		return
	default:
		b.WriteByte(l.ch) // Identity escape, including quotes and backslashes
	}
	l.readChar()
}

func (l *Lexer) invalidEscape(b *strings.Builder, escPos, escLine, escCol int) {
	l.readChar() // Consume the escape letter
	b.WriteString(l.input[escPos:l.position])
	l.report(errors.InvalidEscape, l.spanFrom(escPos, escLine, escCol), "invalid escape sequence "+l.input[escPos:l.position])
}

// hexRun decodes n hex digits starting at byte offset pos.
func (l *Lexer) hexRun(pos, n int) (rune, bool) {
	if pos+n > len(l.input) {
		return 0, false
	}
	var r rune
	for i := pos; i < pos+n; i++ {
		c := l.input[i]
		if !isHexDigit(c) {
			return 0, false
		}
		r = r*16 + rune(hexValue(c))
	}
	return r, true
}

// readTemplate consumes a template literal including its substitutions.
// It reports false when the input ends first.
func (l *Lexer) readTemplate() bool {
	l.readChar() // Consume the opening backtick
	for !l.atEOF() {
		switch l.ch {
		case '`':
			l.readChar()
			return true
		case '\\':
			l.readChar()
			if !l.atEOF() {
				l.readChar()
			}
		case '$':
			l.readChar()
			if l.ch == '{' {
				l.readChar()
				if !l.skipSubstitution() {
					return false
				}
			}
		default:
			l.readChar()
		}
	}
	return false
}

// skipSubstitution consumes the body of a ${...} including the closing brace.
func (l *Lexer) skipSubstitution() bool {
	depth := 1
	for !l.atEOF() {
		switch l.ch {
		case '{':
			depth++
			l.readChar()
		case '}':
			depth--
			l.readChar()
			if depth == 0 {
				return true
			}
		case '`':
			if !l.readTemplate() {
				return false
			}
		case '"', '\'':
			quote := l.ch
			l.readChar()
			for !l.atEOF() && l.ch != quote && l.ch != '\n' {
				if l.ch == '\\' {
					l.readChar()
				}
				l.readChar()
			}
			l.readChar()
		default:
			l.readChar()
		}
	}
	return false
}

// isLetter checks if the character is an ASCII letter or underscore.
func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

// isDigit checks if the character is a digit.
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// isHexDigit checks if the character is a hexadecimal digit (0-9, a-f, A-F).
func isHexDigit(ch byte) bool {
	return ('0' <= ch && ch <= '9') || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func hexValue(ch byte) byte {
	switch {
	case '0' <= ch && ch <= '9':
		return ch - '0'
	case 'a' <= ch && ch <= 'f':
		return ch - 'a' + 10
	}
	return ch - 'A' + 10
}

// isDigitForBase checks if the character is a valid digit for the given base.
func isDigitForBase(ch byte, base int) bool {
	switch base {
	case 16:
		return isHexDigit(ch)
	case 10:
		return isDigit(ch)
	case 8:
		return '0' <= ch && ch <= '7'
	case 2:
		return ch == '0' || ch == '1'
	default:
		return false
	}
}
