package parser

import (
	"strconv"
	"strings"

	"github.com/nooga/tsparse/pkg/lexer"
)

// Pratt parser functions
type (
	prefixParseFn func() Expression
	infixParseFn  func(Expression) Expression
)

// Precedence levels for operators
const (
	_ int = iota
	LOWEST
	ASSIGNMENT  // = += -= ...
	TERNARY     // ?:
	COALESCE    // ??
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	BITWISE_OR  // |
	BITWISE_XOR // ^
	BITWISE_AND // &
	EQUALS      // == != === !==
	LESSGREATER // < > <= >= in instanceof as
	SUM         // + -
	PRODUCT     // * / %
	PREFIX      // -x !x typeof x
	POSTFIX     // x++ x--  x!
	CALL        // f(x)
	MEMBER      // a.b a[b] a?.b
)

var precedences = map[lexer.TokenType]int{
	lexer.ASSIGN:           ASSIGNMENT,
	lexer.PLUS_ASSIGN:      ASSIGNMENT,
	lexer.MINUS_ASSIGN:     ASSIGNMENT,
	lexer.ASTERISK_ASSIGN:  ASSIGNMENT,
	lexer.SLASH_ASSIGN:     ASSIGNMENT,
	lexer.REMAINDER_ASSIGN: ASSIGNMENT,
	lexer.COALESCE_ASSIGN:  ASSIGNMENT,

	lexer.QUESTION:    TERNARY,
	lexer.COALESCE:    COALESCE,
	lexer.LOGICAL_OR:  LOGICAL_OR,
	lexer.LOGICAL_AND: LOGICAL_AND,

	lexer.PIPE:        BITWISE_OR,
	lexer.CARET:       BITWISE_XOR,
	lexer.BITWISE_AND: BITWISE_AND,

	lexer.EQ:            EQUALS,
	lexer.NOT_EQ:        EQUALS,
	lexer.STRICT_EQ:     EQUALS,
	lexer.STRICT_NOT_EQ: EQUALS,

	lexer.LT:         LESSGREATER,
	lexer.GT:         LESSGREATER,
	lexer.LE:         LESSGREATER,
	lexer.GE:         LESSGREATER,
	lexer.IN:         LESSGREATER,
	lexer.INSTANCEOF: LESSGREATER,
	lexer.AS:         LESSGREATER,

	lexer.PLUS:      SUM,
	lexer.MINUS:     SUM,
	lexer.ASTERISK:  PRODUCT,
	lexer.SLASH:     PRODUCT,
	lexer.REMAINDER: PRODUCT,

	lexer.INC:  POSTFIX,
	lexer.DEC:  POSTFIX,
	lexer.BANG: POSTFIX, // non-null assertion

	lexer.LPAREN:            CALL,
	lexer.DOT:               MEMBER,
	lexer.OPTIONAL_CHAINING: MEMBER,
	lexer.LBRACKET:          MEMBER,
}

func (p *Parser) registerPrefix(tokenType lexer.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType lexer.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *Parser) registerExpressionParsers() {
	p.prefixParseFns = make(map[lexer.TokenType]prefixParseFn)
	p.infixParseFns = make(map[lexer.TokenType]infixParseFn)

	p.registerPrefix(lexer.IDENT, p.parseIdentifierExpression)
	for _, t := range []lexer.TokenType{
		lexer.TYPE, lexer.NAMESPACE, lexer.DECLARE, lexer.MODULE, lexer.GLOBAL,
		lexer.STATIC, lexer.OF, lexer.AS, lexer.FROM, lexer.KEYOF,
	} {
		p.registerPrefix(t, p.parseIdentifierExpression)
	}
	p.registerPrefix(lexer.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(lexer.STRING, p.parseStringLiteral)
	p.registerPrefix(lexer.TEMPLATE, p.parseTemplateLiteral)
	p.registerPrefix(lexer.TRUE, p.parseBooleanLiteral)
	p.registerPrefix(lexer.FALSE, p.parseBooleanLiteral)
	p.registerPrefix(lexer.NULL, p.parseNullLiteral)
	p.registerPrefix(lexer.THIS, p.parseThisExpression)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(lexer.LT, p.parseGenericArrowFunction)
	p.registerPrefix(lexer.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(lexer.LBRACE, p.parseObjectLiteral)
	p.registerPrefix(lexer.FUNCTION, p.parseFunctionExpression)
	p.registerPrefix(lexer.NEW, p.parseNewExpression)
	p.registerPrefix(lexer.IMPORT, p.parseImportExpression)
	for _, t := range []lexer.TokenType{
		lexer.BANG, lexer.MINUS, lexer.PLUS, lexer.TILDE, lexer.TYPEOF, lexer.VOID, lexer.DELETE,
	} {
		p.registerPrefix(t, p.parsePrefixExpression)
	}
	p.registerPrefix(lexer.INC, p.parsePrefixUpdate)
	p.registerPrefix(lexer.DEC, p.parsePrefixUpdate)

	for _, t := range []lexer.TokenType{
		lexer.PLUS, lexer.MINUS, lexer.ASTERISK, lexer.SLASH, lexer.REMAINDER,
		lexer.EQ, lexer.NOT_EQ, lexer.STRICT_EQ, lexer.STRICT_NOT_EQ,
		lexer.LT, lexer.GT, lexer.LE, lexer.GE, lexer.IN, lexer.INSTANCEOF,
		lexer.PIPE, lexer.CARET, lexer.BITWISE_AND,
		lexer.LOGICAL_AND, lexer.LOGICAL_OR, lexer.COALESCE,
	} {
		p.registerInfix(t, p.parseInfixExpression)
	}
	for _, t := range []lexer.TokenType{
		lexer.ASSIGN, lexer.PLUS_ASSIGN, lexer.MINUS_ASSIGN, lexer.ASTERISK_ASSIGN,
		lexer.SLASH_ASSIGN, lexer.REMAINDER_ASSIGN, lexer.COALESCE_ASSIGN,
	} {
		p.registerInfix(t, p.parseAssignmentExpression)
	}
	p.registerInfix(lexer.QUESTION, p.parseConditionalExpression)
	p.registerInfix(lexer.LPAREN, p.parseCallExpression)
	p.registerInfix(lexer.DOT, p.parseMemberExpression)
	p.registerInfix(lexer.OPTIONAL_CHAINING, p.parseOptionalChain)
	p.registerInfix(lexer.LBRACKET, p.parseIndexExpression)
	p.registerInfix(lexer.INC, p.parsePostfixUpdate)
	p.registerInfix(lexer.DEC, p.parsePostfixUpdate)
	p.registerInfix(lexer.BANG, p.parseNonNullExpression)
	p.registerInfix(lexer.AS, p.parseAsExpression)
}

// infixPrecedence returns the binding power of tok in infix position.
func (p *Parser) infixPrecedence(tok lexer.Token) int {
	switch tok.Type {
	case lexer.IN:
		if p.noIn > 0 {
			return LOWEST
		}
	case lexer.INC, lexer.DEC, lexer.BANG, lexer.AS:
		// Postfix operators and `as` do not continue across a line break.
		if tok.NewlineBefore {
			return LOWEST
		}
	}
	if prec, ok := precedences[tok.Type]; ok {
		return prec
	}
	return LOWEST
}

// allowIn re-enables the `in` operator inside brackets of a for-loop head
// and returns a function that restores the previous state.
func (p *Parser) allowIn() func() {
	saved := p.noIn
	p.noIn = 0
	return func() { p.noIn = saved }
}

func (p *Parser) noPrefixParseFnError(tok lexer.Token) {
	p.unexpected(tok, "expression")
}

// parseExpression is the Pratt loop.
func (p *Parser) parseExpression(precedence int) Expression {
	tok := p.peek(0)
	debugPrint("parseExpression(%d): %s (%s)", precedence, tok.Type, tok.Literal)

	prefix := p.prefixParseFns[tok.Type]
	if prefix == nil {
		p.noPrefixParseFnError(tok)
		return nil
	}
	leftExp := prefix()
	if leftExp == nil {
		return nil
	}

	for {
		tok = p.peek(0)
		if tok.Type == lexer.LT && precedence < CALL {
			if call, ok := p.tryTypeArgumentCall(leftExp); ok {
				if call == nil {
					return nil
				}
				leftExp = call
				continue
			}
		}
		if p.infixPrecedence(tok) <= precedence {
			break
		}
		infix := p.infixParseFns[tok.Type]
		if infix == nil {
			break
		}
		leftExp = infix(leftExp)
		if leftExp == nil {
			return nil
		}
	}
	return leftExp
}

// --- Prefix parsers ---

func (p *Parser) parseIdentifierExpression() Expression {
	tok := p.peek(0)
	next := p.peek(1)

	// x => body
	if next.Type == lexer.ARROW && !next.NewlineBefore {
		p.next()
		return p.parseArrowBody(tok, p.singleParameterSignature(tok))
	}
	if tok.Literal == "async" && !next.NewlineBefore {
		switch {
		case isIdentifierToken(next) && p.peek(2).Type == lexer.ARROW:
			p.next()
			param := p.next()
			return p.parseArrowBody(tok, p.singleParameterSignature(param))
		case next.Type == lexer.LPAREN || next.Type == lexer.LT:
			cp := p.cur.Mark()
			p.next()
			if arrow, ok := p.tryArrowFunction(tok); ok {
				return arrow
			}
			p.cur.Reset(cp) // a call of something named async
		case next.Type == lexer.FUNCTION:
			p.next()
			return p.parseFunctionExpressionFrom(tok)
		}
	}

	p.next()
	return p.newIdentifier(tok, RoleReference)
}

func (p *Parser) singleParameterSignature(tok lexer.Token) *CallSignature {
	param := &Parameter{Name: p.newIdentifier(tok, RoleDeclaration)}
	param.Loc = tok.Span()
	sig := &CallSignature{Parameters: []*Parameter{param}}
	sig.Loc = tok.Span()
	return sig
}

func (p *Parser) parseNumberLiteral() Expression {
	tok := p.next()
	lit := &NumberLiteral{Raw: tok.Literal, Value: numberValue(tok.Literal)}
	lit.Loc = tok.Span()
	return lit
}

// numberValue evaluates a numeric literal the lexer has already validated.
// BigInt literals evaluate to 0.
func numberValue(raw string) float64 {
	s := strings.ReplaceAll(raw, "_", "")
	if strings.HasSuffix(s, "n") {
		return 0
	}
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			if v, err := strconv.ParseUint(s[2:], base, 64); err == nil {
				return float64(v)
			}
			return 0
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func (p *Parser) parseStringLiteral() Expression {
	return p.stringLiteral(p.next())
}

func (p *Parser) stringLiteral(tok lexer.Token) *StringLiteral {
	lit := &StringLiteral{Value: tok.Literal}
	lit.Loc = tok.Span()
	return lit
}

// parseModuleSpecifier parses the string naming a module.
func (p *Parser) parseModuleSpecifier() *StringLiteral {
	if !p.at(lexer.STRING) {
		p.unexpected(p.peek(0), "module specifier")
		return nil
	}
	return p.stringLiteral(p.next())
}

func (p *Parser) parseTemplateLiteral() Expression {
	tok := p.next()
	lit := &TemplateLiteral{Raw: tok.Literal}
	lit.Loc = tok.Span()
	return lit
}

func (p *Parser) parseBooleanLiteral() Expression {
	tok := p.next()
	lit := &BooleanLiteral{Value: tok.Type == lexer.TRUE}
	lit.Loc = tok.Span()
	return lit
}

func (p *Parser) parseNullLiteral() Expression {
	tok := p.next()
	lit := &NullLiteral{}
	lit.Loc = tok.Span()
	return lit
}

func (p *Parser) parseThisExpression() Expression {
	tok := p.next()
	expr := &ThisExpression{}
	expr.Loc = tok.Span()
	return expr
}

// parseGroupedExpression parses either an arrow function head or a
// parenthesized expression; the arrow form is tried first.
func (p *Parser) parseGroupedExpression() Expression {
	start := p.peek(0)
	if arrow, ok := p.tryArrowFunction(start); ok {
		return arrow
	}

	p.next() // '('
	restore := p.allowIn()
	expr := p.parseExpression(LOWEST)
	restore()
	if expr == nil || !p.expect(lexer.RPAREN) {
		return nil
	}
	paren := &ParenthesizedExpression{Expression: expr}
	paren.Loc = p.spanFrom(start)
	return paren
}

// parseGenericArrowFunction parses `<T>(x: T) => x`.
func (p *Parser) parseGenericArrowFunction() Expression {
	start := p.peek(0)
	if arrow, ok := p.tryArrowFunction(start); ok {
		return arrow
	}
	p.noPrefixParseFnError(start)
	return nil
}

// tryArrowFunction speculatively parses an arrow function head at the
// current token. ok is false, with nothing consumed, if the head does not
// parse or is not followed by '=>'. Once the head matches, the body is
// parsed for real and expr is nil only if it fails.
func (p *Parser) tryArrowFunction(start lexer.Token) (expr Expression, ok bool) {
	var sig *CallSignature
	matched := p.speculateOnce(ruleArrowHead, func() bool {
		sig = p.parseCallSignature()
		return sig != nil && p.at(lexer.ARROW) && !p.peek(0).NewlineBefore
	})
	if !matched {
		return nil, false
	}
	if arrow := p.parseArrowBody(start, sig); arrow != nil {
		return arrow, true
	}
	return nil, true
}

// parseArrowBody parses `=> body` for an already parsed signature.
func (p *Parser) parseArrowBody(start lexer.Token, sig *CallSignature) Expression {
	if !p.expect(lexer.ARROW) {
		return nil
	}
	arrow := &ArrowFunction{Signature: sig}
	if p.at(lexer.LBRACE) {
		body := p.parseBlock(BlockLambda)
		if body == nil {
			return nil
		}
		arrow.Body = body
	} else {
		body := p.parseExpression(LOWEST)
		if body == nil {
			return nil
		}
		arrow.Body = body
	}
	arrow.Loc = p.spanFrom(start)
	return arrow
}

func (p *Parser) parseArrayLiteral() Expression {
	start := p.next() // '['
	restore := p.allowIn()
	defer restore()

	arr := &ArrayLiteral{Elements: []Expression{}}
	for !p.at(lexer.RBRACKET) {
		if p.eat(lexer.COMMA) { // hole
			continue
		}
		elem := p.parseElement()
		if elem == nil {
			return nil
		}
		arr.Elements = append(arr.Elements, elem)
		if !p.eat(lexer.COMMA) {
			break
		}
	}
	if !p.expect(lexer.RBRACKET) {
		return nil
	}
	arr.Loc = p.spanFrom(start)
	return arr
}

// parseElement parses an array element or call argument, which may be
// spread.
func (p *Parser) parseElement() Expression {
	if !p.at(lexer.SPREAD) {
		return p.parseExpression(LOWEST)
	}
	start := p.next()
	arg := p.parseExpression(LOWEST)
	if arg == nil {
		return nil
	}
	spread := &SpreadElement{Argument: arg}
	spread.Loc = p.spanFrom(start)
	return spread
}

func (p *Parser) parseObjectLiteral() Expression {
	start := p.next() // '{'
	restore := p.allowIn()
	defer restore()

	obj := &ObjectLiteral{Properties: []Expression{}}
	for !p.at(lexer.RBRACE) {
		prop := p.parseObjectProperty()
		if prop == nil {
			return nil
		}
		obj.Properties = append(obj.Properties, prop)
		if !p.eat(lexer.COMMA) {
			break
		}
	}
	if !p.expect(lexer.RBRACE) {
		return nil
	}
	obj.Loc = p.spanFrom(start)
	return obj
}

func (p *Parser) parseObjectProperty() Expression {
	start := p.peek(0)
	if start.Type == lexer.SPREAD {
		return p.parseElement()
	}

	// { name } and { name, ... }
	if isIdentifierToken(start) && p.peek(1).Is(lexer.COMMA, lexer.RBRACE) {
		p.next()
		prop := &Property{Key: p.newIdentifier(start, RolePropertyShorthand), Shorthand: true}
		prop.Loc = start.Span()
		return prop
	}

	// get/set/async prefixes on methods
	if start.Type == lexer.IDENT && !p.peek(1).NewlineBefore && p.startsPropertyName(p.peek(1)) {
		switch start.Literal {
		case "get", "set", "async":
			p.next()
		}
	}
	p.eat(lexer.ASTERISK)

	key := p.parsePropertyName()
	if key == nil {
		return nil
	}
	prop := &Property{Key: key}
	if p.atAny(lexer.LPAREN, lexer.LT) {
		sigStart := p.peek(0)
		sig := p.parseCallSignature()
		if sig == nil {
			return nil
		}
		body := p.parseBlock(BlockFunction)
		if body == nil {
			return nil
		}
		fn := &FunctionExpression{Signature: sig, Body: body}
		fn.Loc = p.spanFrom(sigStart)
		prop.Value, prop.Method = fn, true
	} else {
		if !p.expect(lexer.COLON) {
			return nil
		}
		if prop.Value = p.parseExpression(LOWEST); prop.Value == nil {
			return nil
		}
	}
	prop.Loc = p.spanFrom(start)
	return prop
}

// startsPropertyName reports whether tok can begin a property name.
func (p *Parser) startsPropertyName(tok lexer.Token) bool {
	return isIdentifierName(tok) || tok.Is(lexer.STRING, lexer.NUMBER, lexer.LBRACKET, lexer.ASTERISK)
}

// parsePropertyName parses an identifier, string, number or computed name.
func (p *Parser) parsePropertyName() Expression {
	tok := p.peek(0)
	switch {
	case isIdentifierName(tok):
		p.next()
		return p.newIdentifier(tok, RoleReference)
	case tok.Type == lexer.STRING:
		return p.parseStringLiteral()
	case tok.Type == lexer.NUMBER:
		return p.parseNumberLiteral()
	case tok.Type == lexer.LBRACKET:
		p.next()
		restore := p.allowIn()
		expr := p.parseExpression(LOWEST)
		restore()
		if expr == nil || !p.expect(lexer.RBRACKET) {
			return nil
		}
		name := &ComputedPropertyName{Expression: expr}
		name.Loc = p.spanFrom(tok)
		return name
	}
	p.unexpected(tok, "property name")
	return nil
}

func (p *Parser) parseFunctionExpression() Expression {
	return p.parseFunctionExpressionFrom(p.peek(0))
}

// parseFunctionExpressionFrom parses `function [name](...) {...}`; start
// is the first token, which may be an `async` already consumed.
func (p *Parser) parseFunctionExpressionFrom(start lexer.Token) Expression {
	if !p.expect(lexer.FUNCTION) {
		return nil
	}
	p.eat(lexer.ASTERISK)
	fn := &FunctionExpression{}
	if isIdentifierToken(p.peek(0)) {
		fn.Name = p.parseIdentifier(RoleDeclaration)
	}
	if fn.Signature = p.parseCallSignature(); fn.Signature == nil {
		return nil
	}
	if fn.Body = p.parseBlock(BlockFunction); fn.Body == nil {
		return nil
	}
	fn.Loc = p.spanFrom(start)
	return fn
}

func (p *Parser) parseNewExpression() Expression {
	start := p.next() // 'new'

	// new.target
	if p.eat(lexer.DOT) {
		prop := p.parseIdentifierName(RoleReference)
		if prop == nil {
			return nil
		}
		meta := &MetaProperty{Meta: p.newIdentifier(start, RoleReference), Property: prop}
		meta.Loc = p.spanFrom(start)
		return meta
	}

	var callee Expression
	if p.at(lexer.NEW) {
		callee = p.parseNewExpression()
	} else {
		prefix := p.prefixParseFns[p.peek(0).Type]
		if prefix == nil {
			p.noPrefixParseFnError(p.peek(0))
			return nil
		}
		callee = prefix()
	}
	for callee != nil && p.atAny(lexer.DOT, lexer.LBRACKET) {
		callee = p.infixParseFns[p.peek(0).Type](callee)
	}
	if callee == nil {
		return nil
	}

	expr := &NewExpression{Callee: callee}
	if p.at(lexer.LT) {
		p.speculate(func() bool {
			expr.TypeArguments = p.parseTypeArguments()
			return expr.TypeArguments != nil && p.at(lexer.LPAREN)
		})
	}
	if p.at(lexer.LPAREN) {
		args, ok := p.parseArguments()
		if !ok {
			return nil
		}
		expr.Arguments = args
	}
	expr.Loc = p.spanFrom(start)
	return expr
}

// parseImportExpression parses `import("m")` and `import.meta`.
func (p *Parser) parseImportExpression() Expression {
	start := p.next() // 'import'
	if p.eat(lexer.DOT) {
		prop := p.parseIdentifierName(RoleReference)
		if prop == nil {
			return nil
		}
		meta := &MetaProperty{Meta: p.newIdentifier(start, RoleReference), Property: prop}
		meta.Loc = p.spanFrom(start)
		return meta
	}
	if !p.expect(lexer.LPAREN) {
		return nil
	}
	restore := p.allowIn()
	defer restore()
	arg := p.parseExpression(LOWEST)
	if arg == nil {
		return nil
	}
	if p.eat(lexer.COMMA) && !p.at(lexer.RPAREN) {
		if p.parseExpression(LOWEST) == nil { // import options
			return nil
		}
		p.eat(lexer.COMMA)
	}
	if !p.expect(lexer.RPAREN) {
		return nil
	}
	call := &ImportCall{Argument: arg}
	call.Loc = p.spanFrom(start)
	return call
}

func (p *Parser) parsePrefixExpression() Expression {
	start := p.next()
	operand := p.parseExpression(PREFIX)
	if operand == nil {
		return nil
	}
	expr := &UnaryExpression{Operator: start.Literal, Operand: operand}
	expr.Loc = p.spanFrom(start)
	return expr
}

func (p *Parser) parsePrefixUpdate() Expression {
	start := p.next()
	operand := p.parseExpression(PREFIX)
	if operand == nil {
		return nil
	}
	expr := &UpdateExpression{Operator: start.Literal, Prefix: true, Operand: operand}
	expr.Loc = p.spanFrom(start)
	return expr
}

// --- Infix parsers ---

func (p *Parser) parseInfixExpression(left Expression) Expression {
	tok := p.next()
	right := p.parseExpression(p.infixPrecedence(tok))
	if right == nil {
		return nil
	}
	expr := &BinaryExpression{Operator: tok.Literal, Left: left, Right: right}
	expr.Loc = p.coverFrom(left.Span())
	return expr
}

// parseAssignmentExpression is right-associative.
func (p *Parser) parseAssignmentExpression(left Expression) Expression {
	tok := p.next()
	value := p.parseExpression(ASSIGNMENT - 1)
	if value == nil {
		return nil
	}
	expr := &AssignmentExpression{Operator: tok.Literal, Target: left, Value: value}
	expr.Loc = p.coverFrom(left.Span())
	return expr
}

func (p *Parser) parseConditionalExpression(test Expression) Expression {
	p.next() // '?'
	restore := p.allowIn()
	consequent := p.parseExpression(LOWEST)
	restore()
	if consequent == nil || !p.expect(lexer.COLON) {
		return nil
	}
	alternate := p.parseExpression(LOWEST)
	if alternate == nil {
		return nil
	}
	expr := &ConditionalExpression{Test: test, Consequent: consequent, Alternate: alternate}
	expr.Loc = p.coverFrom(test.Span())
	return expr
}

// parseArguments parses `(a, ...b)`.
func (p *Parser) parseArguments() ([]Expression, bool) {
	if !p.expect(lexer.LPAREN) {
		return nil, false
	}
	restore := p.allowIn()
	defer restore()

	args := []Expression{}
	for !p.at(lexer.RPAREN) {
		arg := p.parseElement()
		if arg == nil {
			return nil, false
		}
		args = append(args, arg)
		if !p.eat(lexer.COMMA) {
			break
		}
	}
	if !p.expect(lexer.RPAREN) {
		return nil, false
	}
	return args, true
}

func (p *Parser) parseCallExpression(callee Expression) Expression {
	args, ok := p.parseArguments()
	if !ok {
		return nil
	}
	expr := &CallExpression{Callee: callee, Arguments: args}
	expr.Loc = p.coverFrom(callee.Span())
	return expr
}

// tryTypeArgumentCall parses `f<T>(x)`. ok is false, with nothing
// consumed, when the '<' is a comparison instead.
func (p *Parser) tryTypeArgumentCall(callee Expression) (expr Expression, ok bool) {
	var typeArgs []TypeNode
	if !p.speculate(func() bool {
		typeArgs = p.parseTypeArguments()
		return typeArgs != nil && p.at(lexer.LPAREN)
	}) {
		return nil, false
	}
	args, argsOK := p.parseArguments()
	if !argsOK {
		return nil, true
	}
	call := &CallExpression{Callee: callee, TypeArguments: typeArgs, Arguments: args}
	call.Loc = p.coverFrom(callee.Span())
	return call, true
}

func (p *Parser) parseMemberExpression(object Expression) Expression {
	p.next() // '.'
	prop := p.parseIdentifierName(RoleReference)
	if prop == nil {
		return nil
	}
	expr := &MemberExpression{Object: object, Property: prop}
	expr.Loc = p.coverFrom(object.Span())
	return expr
}

// parseOptionalChain parses `a?.b`, `a?.[i]` and `a?.(x)`.
func (p *Parser) parseOptionalChain(object Expression) Expression {
	p.next() // '?.'
	switch {
	case p.at(lexer.LPAREN):
		args, ok := p.parseArguments()
		if !ok {
			return nil
		}
		expr := &CallExpression{Callee: object, Arguments: args, Optional: true}
		expr.Loc = p.coverFrom(object.Span())
		return expr
	case p.at(lexer.LBRACKET):
		return p.parseIndexTail(object, true)
	}
	prop := p.parseIdentifierName(RoleReference)
	if prop == nil {
		return nil
	}
	expr := &MemberExpression{Object: object, Property: prop, Optional: true}
	expr.Loc = p.coverFrom(object.Span())
	return expr
}

func (p *Parser) parseIndexExpression(object Expression) Expression {
	return p.parseIndexTail(object, false)
}

func (p *Parser) parseIndexTail(object Expression, optional bool) Expression {
	p.next() // '['
	restore := p.allowIn()
	index := p.parseExpression(LOWEST)
	restore()
	if index == nil || !p.expect(lexer.RBRACKET) {
		return nil
	}
	expr := &IndexExpression{Object: object, Index: index, Optional: optional}
	expr.Loc = p.coverFrom(object.Span())
	return expr
}

func (p *Parser) parsePostfixUpdate(operand Expression) Expression {
	tok := p.next()
	expr := &UpdateExpression{Operator: tok.Literal, Operand: operand}
	expr.Loc = p.coverFrom(operand.Span())
	return expr
}

func (p *Parser) parseNonNullExpression(operand Expression) Expression {
	p.next() // '!'
	expr := &NonNullExpression{Expression: operand}
	expr.Loc = p.coverFrom(operand.Span())
	return expr
}

// parseAsExpression parses `expr as T` and `expr as const`.
func (p *Parser) parseAsExpression(left Expression) Expression {
	p.next() // 'as'
	var typ TypeNode
	if tok := p.peek(0); tok.Type == lexer.CONST {
		p.next()
		kw := &KeywordType{Keyword: "const"}
		kw.Loc = tok.Span()
		typ = kw
	} else if typ = p.parseType(); typ == nil {
		return nil
	}
	expr := &AsExpression{Expression: left, Type: typ}
	expr.Loc = p.coverFrom(left.Span())
	return expr
}
