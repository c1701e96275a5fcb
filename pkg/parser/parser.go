package parser

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/nooga/tsparse/pkg/errors"
	"github.com/nooga/tsparse/pkg/lexer"
	"github.com/nooga/tsparse/pkg/source"
)

// --- Debug Flag ---
const debugParser = false

func debugPrint(format string, args ...interface{}) {
	if debugParser {
		fmt.Printf("[Parser Debug] "+format+"\n", args...)
	}
}

// --- End Debug Flag ---

// Options tunes a parse.
type Options struct {
	MaxErrors      int  // Error diagnostics kept per file; <= 0 means errors.DefaultMaxErrors
	AttachComments bool // Record leading comments of statements in Program.Comments
}

// Option configures Options.
type Option func(*Options)

// WithMaxErrors caps the number of error diagnostics per file.
func WithMaxErrors(n int) Option { return func(o *Options) { o.MaxErrors = n } }

// WithComments turns leading comment collection on or off.
func WithComments(on bool) Option { return func(o *Options) { o.AttachComments = on } }

// WithOptions replaces all options at once.
func WithOptions(opts Options) Option { return func(o *Options) { *o = opts } }

// Parser takes a lexer and builds an AST.
type Parser struct {
	l      *lexer.Lexer
	source *source.SourceFile // cached from lexer
	cur    *Cursor
	sink   *errors.Sink
	opts   Options

	// Pratt parser for value expressions
	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn

	listDepth   int  // Nesting of statement lists; 1 at top level
	noIn        int  // > 0 while parsing a for-loop head, where `in` is not an operator
	eofReported bool // An end-of-input error has been reported; suppress follow-ups
	lexEOF      bool // A literal or comment ran to the end of input; never rolled back
	missingSemi int  // Cursor index of the last reported missing ';', or -1

	failed   map[speculation]bool // Speculations known to fail at a cursor index
	comments CommentMap
}

// speculation names an ambiguous rule tried at a cursor index.
type speculation struct {
	rule speculationRule
	pos  int
}

type speculationRule int

const (
	ruleArrowHead speculationRule = iota
	ruleFunctionType
)

// NewParser creates a parser reading from l.
func NewParser(l *lexer.Lexer, opts ...Option) *Parser {
	p := &Parser{l: l, source: l.Source(), missingSemi: -1, failed: make(map[speculation]bool)}
	for _, opt := range opts {
		opt(&p.opts)
	}
	l.SetAttachComments(p.opts.AttachComments)
	if p.opts.AttachComments {
		p.comments = make(CommentMap)
	}
	p.sink = errors.NewSink(p.source, p.opts.MaxErrors)
	p.cur = NewCursor(l, p.reportLexErrors)
	p.registerExpressionParsers()
	return p
}

func (p *Parser) reportLexErrors(tok lexer.Token) {
	for _, e := range tok.Errors {
		p.sink.Report(e.Kind, e.Span, "%s", e.Msg)
		if tok.Type == lexer.EOF || e.Span.End >= len(p.source.Content) {
			// Unterminated literals and comments run to the end of input.
			if e.Kind != errors.InvalidEscape && e.Kind != errors.ConflictMarker {
				p.lexEOF = true
			}
		}
	}
}

// ParseProgram parses the whole input and returns the program together with
// every diagnostic found, ordered by position.
func (p *Parser) ParseProgram() (*Program, []*errors.Diagnostic) {
	program := &Program{Source: p.source}
	program.Statements = p.parseStatementList()
	program.Loc = source.Span{Start: 0, End: len(p.source.Content), Line: 1, Column: 1}
	program.IsExternalModule = isExternalModule(program)
	if p.comments != nil {
		program.Comments = p.comments
		p.comments.prune(program)
	}
	return program, p.sink.Diagnostics()
}

// ParseResult is the outcome of parsing one file: a best-effort tree and
// the complete diagnostic list.
type ParseResult struct {
	Program     *Program
	Diagnostics []*errors.Diagnostic
}

// Root returns the top-level statements.
func (r *ParseResult) Root() []Statement { return r.Program.Statements }

// HasErrors reports whether any diagnostic has error severity.
func (r *ParseResult) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.IsError() {
			return true
		}
	}
	return false
}

// Err folds the error diagnostics into one error, or returns nil.
func (r *ParseResult) Err() error { return errors.Combine(r.Diagnostics) }

// Parse parses text; fileID names the file in diagnostics.
func Parse(text, fileID string, opts ...Option) *ParseResult {
	src := source.NewInlineSource(text)
	if fileID != "" {
		src = source.FromFile(fileID, text)
	}
	return ParseSource(src, opts...)
}

// ParseSource parses a source file.
func ParseSource(src *source.SourceFile, opts ...Option) *ParseResult {
	p := NewParser(lexer.NewLexerWithSource(src), opts...)
	program, diags := p.ParseProgram()
	return &ParseResult{Program: program, Diagnostics: diags}
}

// isExternalModule reports whether the file has top-level imports or
// exports, or refers to import.meta.
func isExternalModule(program *Program) bool {
	for _, stmt := range program.Statements {
		switch s := stmt.(type) {
		case *ImportClause, *ExportDeclaration, *ExportAssignment:
			return true
		default:
			if modifiersOf(s).Has(ModExport) {
				return true
			}
		}
	}
	found := false
	Inspect(program, func(n Node) bool {
		if _, ok := n.(*MetaProperty); ok {
			found = true
		}
		return !found
	})
	return found
}

func modifiersOf(stmt Statement) ModifierFlags {
	switch s := stmt.(type) {
	case *VariableStatement:
		return s.Modifiers
	case *FunctionDeclaration:
		return s.Modifiers
	case *ClassDeclaration:
		return s.Modifiers
	case *InterfaceDeclaration:
		return s.Modifiers
	case *TypeAliasDeclaration:
		return s.Modifiers
	case *ModuleDeclaration:
		return s.Modifiers
	}
	return 0
}

// --- Token helpers ---

func (p *Parser) peek(k int) lexer.Token { return p.cur.Peek(k) }

func (p *Parser) at(t lexer.TokenType) bool { return p.cur.Peek(0).Type == t }

func (p *Parser) atAny(types ...lexer.TokenType) bool { return p.cur.Peek(0).Is(types...) }

func (p *Parser) next() lexer.Token { return p.cur.Advance() }

// eat consumes the current token if it has type t.
func (p *Parser) eat(t lexer.TokenType) bool {
	if p.at(t) {
		p.next()
		return true
	}
	return false
}

// expect consumes a token of type t or reports UnexpectedToken.
func (p *Parser) expect(t lexer.TokenType) bool {
	if p.eat(t) {
		return true
	}
	p.unexpected(p.peek(0), "'"+t.Text()+"'")
	return false
}

// unexpected reports UnexpectedToken at tok. After one end-of-input error,
// further ones are dropped.
func (p *Parser) unexpected(tok lexer.Token, expected string) {
	if tok.Type == lexer.EOF {
		if p.endReported() {
			return
		}
		p.eofReported = true
	}
	debugPrint("unexpected %s (%s), expected %s", tok.Type, tok.Literal, expected)
	p.addError(errors.UnexpectedToken, tok.Span(), "%s expected, got %s", expected, tok.Describe())
}

func (p *Parser) addError(kind errors.Kind, span source.Span, format string, args ...any) {
	p.sink.Report(kind, span, format, args...)
}

// spanFrom returns the span from start to the end of the last consumed token.
func (p *Parser) spanFrom(start lexer.Token) source.Span {
	end := p.cur.Prev().EndPos
	if end < start.StartPos {
		end = start.StartPos
	}
	return source.Span{Start: start.StartPos, End: end, Line: start.Line, Column: start.Column}
}

// coverFrom returns the span from a node's start to the last consumed token.
func (p *Parser) coverFrom(start source.Span) source.Span {
	end := p.cur.Prev().EndPos
	if end < start.End {
		end = start.End
	}
	return source.Span{Start: start.Start, End: end, Line: start.Line, Column: start.Column}
}

// endReported reports whether an end-of-input error exists already, from
// the lexer or the parser.
func (p *Parser) endReported() bool { return p.eofReported || p.lexEOF }

// speculate runs one candidate rule. On failure the cursor and the parse
// diagnostics are restored, so every ambiguous rule backtracks at most once.
func (p *Parser) speculate(rule func() bool) bool {
	cp := p.cur.Mark()
	diags := p.sink.Checkpoint()
	eof, semi := p.eofReported, p.missingSemi
	if rule() {
		return true
	}
	p.cur.Reset(cp)
	p.sink.Rollback(diags)
	p.eofReported, p.missingSemi = eof, semi
	return false
}

// speculateOnce is speculate for a named rule. A rule that failed at a
// cursor index is not tried there again, so nested ambiguous constructs
// are each attempted once.
func (p *Parser) speculateOnce(rule speculationRule, fn func() bool) bool {
	key := speculation{rule: rule, pos: p.cur.Index()}
	if p.failed[key] {
		return false
	}
	if p.speculate(fn) {
		return true
	}
	p.failed[key] = true
	return false
}

// isIdentifierToken reports whether tok can be a binding or reference name.
func isIdentifierToken(tok lexer.Token) bool {
	return tok.Type == lexer.IDENT || lexer.IsContextual(tok.Type)
}

// isIdentifierName reports whether tok can be a property name, where
// reserved words are allowed too.
func isIdentifierName(tok lexer.Token) bool {
	return tok.Type == lexer.IDENT || lexer.IsKeyword(tok.Type)
}

func (p *Parser) newIdentifier(tok lexer.Token, role BindingRole) *Identifier {
	id := &Identifier{Name: norm.NFC.String(tok.Literal), Role: role}
	id.Loc = tok.Span()
	return id
}

// parseIdentifier parses a single identifier. The role comes from the
// caller, which knows whether the name declares, references or shorthands.
func (p *Parser) parseIdentifier(role BindingRole) *Identifier {
	tok := p.peek(0)
	if !isIdentifierToken(tok) {
		p.unexpected(tok, "identifier")
		return nil
	}
	p.next()
	return p.newIdentifier(tok, role)
}

// parseBindingName parses the target of a declarator or parameter: an
// identifier or a destructuring pattern. Every bound name is a declaration.
func (p *Parser) parseBindingName() BindingName {
	switch p.peek(0).Type {
	case lexer.LBRACE:
		return p.parseObjectBindingPattern()
	case lexer.LBRACKET:
		return p.parseArrayBindingPattern()
	}
	if id := p.parseIdentifier(RoleDeclaration); id != nil {
		return id
	}
	return nil
}

func (p *Parser) parseObjectBindingPattern() BindingName {
	start := p.next() // '{'
	pat := &ObjectBindingPattern{Elements: []*BindingElement{}}
	for !p.at(lexer.RBRACE) {
		el := p.parseObjectBindingElement()
		if el == nil {
			return nil
		}
		pat.Elements = append(pat.Elements, el)
		if el.Rest || !p.eat(lexer.COMMA) {
			break
		}
	}
	if !p.expect(lexer.RBRACE) {
		return nil
	}
	pat.Loc = p.spanFrom(start)
	return pat
}

// parseObjectBindingElement parses `name`, `name = x`, `key: target = x`
// or `...rest`.
func (p *Parser) parseObjectBindingElement() *BindingElement {
	start := p.peek(0)
	el := &BindingElement{}
	switch {
	case p.eat(lexer.SPREAD):
		el.Rest = true
		id := p.parseIdentifier(RoleDeclaration)
		if id == nil {
			return nil
		}
		el.Name = id
	case isIdentifierToken(start) && p.peek(1).Type != lexer.COLON:
		p.next()
		el.Name = p.newIdentifier(start, RoleDeclaration)
	default:
		if el.PropertyName = p.parsePropertyName(); el.PropertyName == nil {
			return nil
		}
		if !p.expect(lexer.COLON) {
			return nil
		}
		if el.Name = p.parseBindingName(); el.Name == nil {
			return nil
		}
	}
	if !el.Rest && !p.parseBindingInitializer(el) {
		return nil
	}
	el.Loc = p.spanFrom(start)
	return el
}

func (p *Parser) parseArrayBindingPattern() BindingName {
	start := p.next() // '['
	pat := &ArrayBindingPattern{Elements: []*BindingElement{}}
	for !p.at(lexer.RBRACKET) {
		if p.eat(lexer.COMMA) {
			pat.Elements = append(pat.Elements, nil) // hole
			continue
		}
		elStart := p.peek(0)
		el := &BindingElement{Rest: p.eat(lexer.SPREAD)}
		if el.Name = p.parseBindingName(); el.Name == nil {
			return nil
		}
		if !el.Rest && !p.parseBindingInitializer(el) {
			return nil
		}
		el.Loc = p.spanFrom(elStart)
		pat.Elements = append(pat.Elements, el)
		if el.Rest || !p.eat(lexer.COMMA) {
			break
		}
	}
	if !p.expect(lexer.RBRACKET) {
		return nil
	}
	pat.Loc = p.spanFrom(start)
	return pat
}

// parseBindingInitializer parses an optional `= default`.
func (p *Parser) parseBindingInitializer(el *BindingElement) bool {
	if !p.eat(lexer.ASSIGN) {
		return true
	}
	restore := p.allowIn()
	defer restore()
	el.Initializer = p.parseExpression(LOWEST)
	return el.Initializer != nil
}

// parseIdentifierName parses an identifier where reserved words are allowed.
func (p *Parser) parseIdentifierName(role BindingRole) *Identifier {
	tok := p.peek(0)
	if !isIdentifierName(tok) {
		p.unexpected(tok, "identifier")
		return nil
	}
	p.next()
	return p.newIdentifier(tok, role)
}

// consumeSemicolon ends a statement: an explicit ';', or an inserted one
// before '}', at end of input, or at a line break.
func (p *Parser) consumeSemicolon() bool {
	if p.eat(lexer.SEMICOLON) {
		return true
	}
	tok := p.peek(0)
	if tok.Type == lexer.RBRACE || tok.Type == lexer.EOF || tok.NewlineBefore {
		return true
	}
	p.unexpected(tok, "';'")
	p.missingSemi = p.cur.Index()
	return false
}

// --- Statement lists and recovery ---

// parseStatementList parses statements until EOF or one of the stop tokens.
// A statement that fails is dropped and the list resynchronises; one that
// ends at a missing ';' is kept and the rest of the line is skipped.
func (p *Parser) parseStatementList(stop ...lexer.TokenType) []Statement {
	p.listDepth++
	defer func() { p.listDepth-- }()

	statements := []Statement{}
	for !p.at(lexer.EOF) && !p.atAny(stop...) {
		start := p.cur.Index()
		leading := p.peek(0).Comments
		stmt := p.parseStatement()
		if stmt != nil {
			statements = append(statements, stmt)
			if len(leading) > 0 && p.comments != nil {
				p.comments[stmt] = leading
			}
		}
		if stmt == nil || p.cur.Index() == start || p.cur.Index() == p.missingSemi {
			p.synchronize(start)
		}
	}
	return statements
}

// Statement keywords that start a fresh statement during recovery.
var recoveryKeywords = map[lexer.TokenType]bool{
	lexer.IMPORT:    true,
	lexer.EXPORT:    true,
	lexer.FUNCTION:  true,
	lexer.CLASS:     true,
	lexer.INTERFACE: true,
	lexer.DECLARE:   true,
	lexer.NAMESPACE: true,
	lexer.CONST:     true,
	lexer.LET:       true,
	lexer.VAR:       true,
	lexer.SWITCH:    true,
	lexer.IF:        true,
	lexer.FOR:       true,
	lexer.WHILE:     true,
	lexer.DO:        true,
	lexer.RETURN:    true,
	lexer.THROW:     true,
	lexer.TRY:       true,
	lexer.BREAK:     true,
	lexer.CONTINUE:  true,
}

// synchronize skips tokens after a failed statement: through the next ';',
// or up to a '}' closing the enclosing list, a statement keyword, or an
// identifier starting a new line. Nested braces are skipped whole.
func (p *Parser) synchronize(start int) {
	if p.cur.Index() == start {
		tok := p.next()
		if tok.Type == lexer.SEMICOLON || (tok.Type == lexer.RBRACE && p.listDepth == 1) {
			return
		}
		if tok.Type == lexer.LBRACE {
			p.skipBalanced()
		}
	}
	depth := 0
	for {
		tok := p.peek(0)
		switch {
		case tok.Type == lexer.EOF:
			return
		case tok.Type == lexer.LBRACE:
			depth++
		case tok.Type == lexer.RBRACE:
			if depth == 0 {
				if p.listDepth == 1 {
					p.next() // stray '}' at top level
				}
				return
			}
			depth--
		case tok.Type == lexer.SEMICOLON && depth == 0:
			p.next()
			return
		case depth == 0 && recoveryKeywords[tok.Type]:
			return
		case depth == 0 && tok.NewlineBefore && isIdentifierToken(tok):
			return
		}
		p.next()
	}
}

// skipBalanced skips to just past the '}' matching an already consumed '{'.
func (p *Parser) skipBalanced() {
	depth := 1
	for depth > 0 && !p.at(lexer.EOF) {
		switch p.next().Type {
		case lexer.LBRACE:
			depth++
		case lexer.RBRACE:
			depth--
		}
	}
}

// --- Statements ---

func (p *Parser) parseStatement() Statement {
	tok := p.peek(0)
	debugPrint("parseStatement: %s (%s)", tok.Type, tok.Literal)

	if isIdentifierToken(tok) && p.peek(1).Type == lexer.COLON {
		return p.parseLabeledStatement()
	}

	switch tok.Type {
	case lexer.LBRACE:
		if block := p.parseBlock(BlockFreeStanding); block != nil {
			return block
		}
		return nil
	case lexer.SEMICOLON:
		p.next()
		stmt := &EmptyStatement{}
		stmt.Loc = tok.Span()
		return stmt
	case lexer.CONST, lexer.LET, lexer.VAR:
		return p.parseVariableStatement(0, tok)
	case lexer.FUNCTION:
		return p.parseFunctionDeclaration(0, tok)
	case lexer.CLASS:
		return p.parseClassDeclaration(0, tok)
	case lexer.INTERFACE:
		if isIdentifierToken(p.peek(1)) {
			return p.parseInterfaceDeclaration(0, tok)
		}
	case lexer.TYPE:
		if isIdentifierToken(p.peek(1)) && !p.peek(1).NewlineBefore {
			return p.parseTypeAliasDeclaration(0, tok)
		}
	case lexer.NAMESPACE, lexer.MODULE:
		next := p.peek(1)
		if (isIdentifierToken(next) || next.Type == lexer.STRING) && !next.NewlineBefore {
			return p.parseModuleDeclaration(0, tok)
		}
	case lexer.GLOBAL:
		if p.peek(1).Type == lexer.LBRACE {
			return p.parseModuleDeclaration(0, tok)
		}
	case lexer.DECLARE:
		if p.startsDeclaration(p.peek(1)) && !p.peek(1).NewlineBefore {
			return p.parseDeclare(0, tok)
		}
	case lexer.IMPORT:
		if !p.peek(1).Is(lexer.LPAREN, lexer.DOT) {
			return p.parseImportDeclaration()
		}
	case lexer.EXPORT:
		return p.parseExportDeclaration()
	case lexer.SWITCH:
		return p.parseSwitchStatement()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.DO:
		return p.parseDoWhileStatement()
	case lexer.FOR:
		return p.parseForStatement()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.BREAK, lexer.CONTINUE:
		return p.parseJumpStatement()
	case lexer.THROW:
		return p.parseThrowStatement()
	case lexer.TRY:
		return p.parseTryStatement()
	case lexer.IDENT:
		switch tok.Literal {
		case "abstract":
			if p.peek(1).Type == lexer.CLASS && !p.peek(1).NewlineBefore {
				p.next()
				return p.parseClassDeclaration(ModAbstract, tok)
			}
		case "async":
			if p.peek(1).Type == lexer.FUNCTION && !p.peek(1).NewlineBefore {
				p.next()
				return p.parseFunctionDeclaration(ModAsync, tok)
			}
		}
	}
	return p.parseExpressionStatement()
}

// startsDeclaration reports whether tok can follow `declare` or `export`.
func (p *Parser) startsDeclaration(tok lexer.Token) bool {
	switch tok.Type {
	case lexer.FUNCTION, lexer.CLASS, lexer.INTERFACE, lexer.TYPE, lexer.CONST, lexer.LET, lexer.VAR,
		lexer.NAMESPACE, lexer.MODULE, lexer.GLOBAL, lexer.DECLARE:
		return true
	case lexer.IDENT:
		return tok.Literal == "abstract" || tok.Literal == "async"
	}
	return false
}

// parseDeclarationWithModifiers parses the declaration following already
// consumed modifiers; start is the first modifier token.
func (p *Parser) parseDeclarationWithModifiers(mods ModifierFlags, start lexer.Token) Statement {
	tok := p.peek(0)
	switch tok.Type {
	case lexer.FUNCTION:
		return p.parseFunctionDeclaration(mods, start)
	case lexer.CLASS:
		return p.parseClassDeclaration(mods, start)
	case lexer.INTERFACE:
		return p.parseInterfaceDeclaration(mods, start)
	case lexer.TYPE:
		return p.parseTypeAliasDeclaration(mods, start)
	case lexer.CONST, lexer.LET, lexer.VAR:
		return p.parseVariableStatement(mods, start)
	case lexer.NAMESPACE, lexer.MODULE, lexer.GLOBAL:
		return p.parseModuleDeclaration(mods, start)
	case lexer.DECLARE:
		return p.parseDeclare(mods, start)
	case lexer.IDENT:
		switch tok.Literal {
		case "abstract":
			p.next()
			return p.parseDeclarationWithModifiers(mods|ModAbstract, start)
		case "async":
			p.next()
			return p.parseDeclarationWithModifiers(mods|ModAsync, start)
		}
	}
	p.unexpected(tok, "declaration")
	return nil
}

// parseDeclare parses `declare <declaration>`.
func (p *Parser) parseDeclare(mods ModifierFlags, start lexer.Token) Statement {
	p.next() // 'declare'
	return p.parseDeclarationWithModifiers(mods|ModDeclare, start)
}

// parseBlock parses `{ statements }`. An unmatched '{' reports
// UnterminatedBlock and yields the statements parsed so far.
func (p *Parser) parseBlock(kind BlockKind) *Block {
	open := p.peek(0)
	if !p.expect(lexer.LBRACE) {
		return nil
	}
	block := &Block{Kind: kind}
	block.Statements = p.parseStatementList(lexer.RBRACE)
	p.closeBrace(open)
	block.Loc = p.spanFrom(open)
	return block
}

// closeBrace consumes the '}' matching open, or reports UnterminatedBlock
// at end of input.
func (p *Parser) closeBrace(open lexer.Token) bool {
	if p.eat(lexer.RBRACE) {
		return true
	}
	if p.at(lexer.EOF) {
		if !p.endReported() {
			p.eofReported = true
			p.addError(errors.UnterminatedBlock, p.spanFrom(open), "'{' at %d:%d is never closed", open.Line, open.Column)
		}
		return false
	}
	p.unexpected(p.peek(0), "'}'")
	return false
}

func (p *Parser) parseExpressionStatement() Statement {
	start := p.peek(0)
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	p.consumeSemicolon()
	stmt := &ExpressionStatement{Expression: expr}
	stmt.Loc = p.spanFrom(start)
	return stmt
}

func (p *Parser) parseVariableStatement(mods ModifierFlags, start lexer.Token) Statement {
	stmt := p.parseVariableDeclarationList(mods, start)
	if stmt == nil {
		return nil
	}
	p.consumeSemicolon()
	stmt.Loc = p.spanFrom(start)
	return stmt
}

// parseVariableDeclarationList parses `const a: T = x, b` without the
// terminating semicolon.
func (p *Parser) parseVariableDeclarationList(mods ModifierFlags, start lexer.Token) *VariableStatement {
	kw := p.next()
	stmt := &VariableStatement{Modifiers: mods, Keyword: kw.Literal}
	for {
		declStart := p.peek(0)
		name := p.parseBindingName()
		if name == nil {
			return nil
		}
		decl := &VariableDeclarator{Name: name}
		p.eat(lexer.BANG) // definite assignment assertion
		if p.eat(lexer.COLON) {
			if decl.Type = p.parseType(); decl.Type == nil {
				return nil
			}
		}
		if p.eat(lexer.ASSIGN) {
			if decl.Init = p.parseExpression(LOWEST); decl.Init == nil {
				return nil
			}
		}
		decl.Loc = p.spanFrom(declStart)
		stmt.Declarations = append(stmt.Declarations, decl)
		if !p.eat(lexer.COMMA) {
			break
		}
	}
	stmt.Loc = p.spanFrom(start)
	return stmt
}

func (p *Parser) parseFunctionDeclaration(mods ModifierFlags, start lexer.Token) Statement {
	p.next() // 'function'
	p.eat(lexer.ASTERISK)
	fn := &FunctionDeclaration{Modifiers: mods}
	if isIdentifierToken(p.peek(0)) || !mods.Has(ModDefault) {
		if fn.Name = p.parseIdentifier(RoleDeclaration); fn.Name == nil {
			return nil
		}
	}
	if fn.Signature = p.parseCallSignature(); fn.Signature == nil {
		return nil
	}
	if p.at(lexer.LBRACE) {
		fn.Body = p.parseBlock(BlockFunction)
	} else {
		p.consumeSemicolon() // overload or ambient declaration
	}
	fn.Loc = p.spanFrom(start)
	return fn
}

// parseControlBody parses the body of if/while/for/do.
func (p *Parser) parseControlBody() Statement {
	if p.at(lexer.LBRACE) {
		if b := p.parseBlock(BlockControl); b != nil {
			return b
		}
		return nil
	}
	return p.parseStatement()
}

// parseParenExpression parses `( expr )`.
func (p *Parser) parseParenExpression() Expression {
	if !p.expect(lexer.LPAREN) {
		return nil
	}
	expr := p.parseExpression(LOWEST)
	if expr == nil || !p.expect(lexer.RPAREN) {
		return nil
	}
	return expr
}

func (p *Parser) parseIfStatement() Statement {
	start := p.next() // 'if'
	stmt := &IfStatement{}
	if stmt.Test = p.parseParenExpression(); stmt.Test == nil {
		return nil
	}
	if stmt.Consequent = p.parseControlBody(); stmt.Consequent == nil {
		return nil
	}
	if p.eat(lexer.ELSE) {
		if p.at(lexer.IF) {
			stmt.Alternate = p.parseIfStatement()
		} else {
			stmt.Alternate = p.parseControlBody()
		}
		if stmt.Alternate == nil {
			return nil
		}
	}
	stmt.Loc = p.spanFrom(start)
	return stmt
}

func (p *Parser) parseWhileStatement() Statement {
	start := p.next() // 'while'
	stmt := &WhileStatement{}
	if stmt.Test = p.parseParenExpression(); stmt.Test == nil {
		return nil
	}
	if stmt.Body = p.parseControlBody(); stmt.Body == nil {
		return nil
	}
	stmt.Loc = p.spanFrom(start)
	return stmt
}

func (p *Parser) parseDoWhileStatement() Statement {
	start := p.next() // 'do'
	stmt := &DoWhileStatement{}
	if stmt.Body = p.parseControlBody(); stmt.Body == nil {
		return nil
	}
	if !p.expect(lexer.WHILE) {
		return nil
	}
	if stmt.Test = p.parseParenExpression(); stmt.Test == nil {
		return nil
	}
	p.eat(lexer.SEMICOLON)
	stmt.Loc = p.spanFrom(start)
	return stmt
}

func (p *Parser) parseForStatement() Statement {
	start := p.next() // 'for'
	if !p.expect(lexer.LPAREN) {
		return nil
	}

	var init Statement
	if !p.at(lexer.SEMICOLON) {
		initStart := p.peek(0)
		p.noIn++
		if p.atAny(lexer.CONST, lexer.LET, lexer.VAR) {
			if vs := p.parseVariableDeclarationList(0, initStart); vs != nil {
				init = vs
			}
		} else if expr := p.parseExpression(LOWEST); expr != nil {
			es := &ExpressionStatement{Expression: expr}
			es.Loc = p.spanFrom(initStart)
			init = es
		}
		p.noIn--
		if init == nil {
			return nil
		}
		if p.atAny(lexer.OF, lexer.IN) {
			loop := &ForInOfStatement{Left: init, Of: p.next().Type == lexer.OF}
			if loop.Right = p.parseExpression(LOWEST); loop.Right == nil || !p.expect(lexer.RPAREN) {
				return nil
			}
			if loop.Body = p.parseControlBody(); loop.Body == nil {
				return nil
			}
			loop.Loc = p.spanFrom(start)
			return loop
		}
	}

	loop := &ForStatement{Init: init}
	if !p.expect(lexer.SEMICOLON) {
		return nil
	}
	if !p.at(lexer.SEMICOLON) {
		if loop.Test = p.parseExpression(LOWEST); loop.Test == nil {
			return nil
		}
	}
	if !p.expect(lexer.SEMICOLON) {
		return nil
	}
	if !p.at(lexer.RPAREN) {
		if loop.Update = p.parseExpression(LOWEST); loop.Update == nil {
			return nil
		}
	}
	if !p.expect(lexer.RPAREN) {
		return nil
	}
	if loop.Body = p.parseControlBody(); loop.Body == nil {
		return nil
	}
	loop.Loc = p.spanFrom(start)
	return loop
}

func (p *Parser) parseReturnStatement() Statement {
	start := p.next() // 'return'
	stmt := &ReturnStatement{}
	if !p.atAny(lexer.SEMICOLON, lexer.RBRACE, lexer.EOF) && !p.peek(0).NewlineBefore {
		if stmt.Argument = p.parseExpression(LOWEST); stmt.Argument == nil {
			return nil
		}
	}
	p.consumeSemicolon()
	stmt.Loc = p.spanFrom(start)
	return stmt
}

func (p *Parser) parseJumpStatement() Statement {
	start := p.next() // 'break' or 'continue'
	var label *Identifier
	if isIdentifierToken(p.peek(0)) && !p.peek(0).NewlineBefore {
		label = p.parseIdentifier(RoleReference)
	}
	p.consumeSemicolon()
	if start.Type == lexer.BREAK {
		stmt := &BreakStatement{Label: label}
		stmt.Loc = p.spanFrom(start)
		return stmt
	}
	stmt := &ContinueStatement{Label: label}
	stmt.Loc = p.spanFrom(start)
	return stmt
}

func (p *Parser) parseLabeledStatement() Statement {
	start := p.peek(0)
	stmt := &LabeledStatement{Label: p.parseIdentifier(RoleDeclaration)}
	p.next() // ':'
	if stmt.Body = p.parseControlBody(); stmt.Body == nil {
		return nil
	}
	stmt.Loc = p.spanFrom(start)
	return stmt
}

func (p *Parser) parseThrowStatement() Statement {
	start := p.next() // 'throw'
	stmt := &ThrowStatement{}
	if stmt.Argument = p.parseExpression(LOWEST); stmt.Argument == nil {
		return nil
	}
	p.consumeSemicolon()
	stmt.Loc = p.spanFrom(start)
	return stmt
}

func (p *Parser) parseTryStatement() Statement {
	start := p.next() // 'try'
	stmt := &TryStatement{}
	if stmt.Block = p.parseBlock(BlockControl); stmt.Block == nil {
		return nil
	}
	if p.eat(lexer.CATCH) {
		if p.eat(lexer.LPAREN) {
			if stmt.Param = p.parseIdentifier(RoleDeclaration); stmt.Param == nil {
				return nil
			}
			if p.eat(lexer.COLON) && p.parseType() == nil {
				return nil
			}
			if !p.expect(lexer.RPAREN) {
				return nil
			}
		}
		if stmt.Handler = p.parseBlock(BlockControl); stmt.Handler == nil {
			return nil
		}
	}
	if p.eat(lexer.FINALLY) {
		if stmt.Finalizer = p.parseBlock(BlockControl); stmt.Finalizer == nil {
			return nil
		}
	}
	if stmt.Handler == nil && stmt.Finalizer == nil {
		p.unexpected(p.peek(0), "'catch' or 'finally'")
		return nil
	}
	stmt.Loc = p.spanFrom(start)
	return stmt
}
