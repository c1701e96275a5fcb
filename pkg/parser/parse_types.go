package parser

import (
	"github.com/nooga/tsparse/pkg/errors"
	"github.com/nooga/tsparse/pkg/lexer"
)

// Predefined type names; they are plain identifiers to the lexer.
var keywordTypes = map[string]bool{
	"any":       true,
	"unknown":   true,
	"number":    true,
	"bigint":    true,
	"boolean":   true,
	"string":    true,
	"symbol":    true,
	"object":    true,
	"never":     true,
	"undefined": true,
}

// parseType parses a full type: unions of intersections of operator types.
func (p *Parser) parseType() TypeNode {
	debugPrint("parseType: %s (%s)", p.peek(0).Type, p.peek(0).Literal)
	start := p.peek(0)
	leading := p.eat(lexer.PIPE)

	first := p.parseIntersectionType()
	if first == nil {
		return nil
	}
	if !p.at(lexer.PIPE) && !leading {
		return first
	}
	union := &UnionType{Types: []TypeNode{first}}
	for p.eat(lexer.PIPE) {
		t := p.parseIntersectionType()
		if t == nil {
			return nil
		}
		union.Types = append(union.Types, t)
	}
	if len(union.Types) == 1 {
		return first
	}
	union.Loc = p.spanFrom(start)
	return union
}

func (p *Parser) parseIntersectionType() TypeNode {
	start := p.peek(0)
	leading := p.eat(lexer.BITWISE_AND)

	first := p.parseTypeOperator()
	if first == nil {
		return nil
	}
	if !p.at(lexer.BITWISE_AND) && !leading {
		return first
	}
	inter := &IntersectionType{Types: []TypeNode{first}}
	for p.eat(lexer.BITWISE_AND) {
		t := p.parseTypeOperator()
		if t == nil {
			return nil
		}
		inter.Types = append(inter.Types, t)
	}
	if len(inter.Types) == 1 {
		return first
	}
	inter.Loc = p.spanFrom(start)
	return inter
}

// parseTypeOperator parses `keyof T`, `readonly T` and `unique symbol`.
func (p *Parser) parseTypeOperator() TypeNode {
	tok := p.peek(0)
	operator := ""
	switch {
	case tok.Type == lexer.KEYOF:
		operator = "keyof"
	case tok.Type == lexer.IDENT && (tok.Literal == "readonly" || tok.Literal == "unique"):
		next := p.peek(1)
		if !next.NewlineBefore && p.startsType(next) {
			operator = tok.Literal
		}
	}
	if operator == "" {
		return p.parsePostfixType()
	}
	p.next()
	operand := p.parseTypeOperator()
	if operand == nil {
		return nil
	}
	op := &TypeOperator{Operator: operator, Type: operand}
	op.Loc = p.spanFrom(tok)
	return op
}

// startsType reports whether tok can begin a type.
func (p *Parser) startsType(tok lexer.Token) bool {
	switch tok.Type {
	case lexer.IDENT, lexer.LPAREN, lexer.LBRACKET, lexer.LBRACE, lexer.LT, lexer.TYPEOF, lexer.IMPORT,
		lexer.KEYOF, lexer.STRING, lexer.NUMBER, lexer.TEMPLATE, lexer.TRUE, lexer.FALSE, lexer.NULL,
		lexer.VOID, lexer.THIS, lexer.MINUS, lexer.NEW:
		return true
	}
	return lexer.IsContextual(tok.Type)
}

// parsePostfixType parses `T[]` and `T[K]` suffixes.
func (p *Parser) parsePostfixType() TypeNode {
	start := p.peek(0)
	t := p.parsePrimaryType()
	for t != nil && p.at(lexer.LBRACKET) && !p.peek(0).NewlineBefore {
		p.next()
		if p.eat(lexer.RBRACKET) {
			arr := &ArrayType{ElementType: t}
			arr.Loc = p.spanFrom(start)
			t = arr
			continue
		}
		index := p.parseType()
		if index == nil || !p.expect(lexer.RBRACKET) {
			return nil
		}
		access := &IndexedAccessType{ObjectType: t, IndexType: index}
		access.Loc = p.spanFrom(start)
		t = access
	}
	return t
}

func (p *Parser) parsePrimaryType() TypeNode {
	tok := p.peek(0)
	switch tok.Type {
	case lexer.LPAREN:
		if fn, ok := p.tryFunctionType(tok, false); ok {
			return fn
		}
		return p.parseParenthesizedType()
	case lexer.LT:
		if fn, ok := p.tryFunctionType(tok, false); ok {
			return fn
		}
	case lexer.NEW:
		p.next()
		if fn, ok := p.tryFunctionType(tok, true); ok {
			return fn
		}
		p.unexpected(p.peek(0), "'('")
		return nil
	case lexer.LBRACE:
		return p.parseTypeLiteral()
	case lexer.LBRACKET:
		return p.parseTupleType()
	case lexer.TYPEOF:
		return p.parseTypeQuery()
	case lexer.IMPORT:
		return p.parseImportType()
	case lexer.STRING, lexer.NUMBER, lexer.TEMPLATE, lexer.TRUE, lexer.FALSE:
		lit := &LiteralType{Literal: p.prefixParseFns[tok.Type]()}
		lit.Loc = tok.Span()
		return lit
	case lexer.MINUS:
		if p.peek(1).Type == lexer.NUMBER {
			p.next()
			num := p.parseNumberLiteral()
			neg := &UnaryExpression{Operator: "-", Operand: num}
			neg.Loc = p.spanFrom(tok)
			lit := &LiteralType{Literal: neg}
			lit.Loc = neg.Loc
			return lit
		}
	case lexer.VOID, lexer.NULL:
		p.next()
		kw := &KeywordType{Keyword: tok.Literal}
		kw.Loc = tok.Span()
		return kw
	case lexer.THIS:
		p.next()
		this := &ThisType{}
		this.Loc = tok.Span()
		return this
	}

	if isIdentifierToken(tok) {
		if keywordTypes[tok.Literal] && p.peek(1).Type != lexer.DOT {
			p.next()
			kw := &KeywordType{Keyword: tok.Literal}
			kw.Loc = tok.Span()
			return kw
		}
		return p.parseTypeReference()
	}
	p.unexpected(tok, "type")
	return nil
}

func (p *Parser) parseParenthesizedType() TypeNode {
	start := p.next() // '('
	inner := p.parseType()
	if inner == nil || !p.expect(lexer.RPAREN) {
		return nil
	}
	paren := &ParenthesizedType{Type: inner}
	paren.Loc = p.spanFrom(start)
	return paren
}

// tryFunctionType speculatively parses a function type head `<T>(x: T)`
// followed by '=>'. When it does not match, ok is false and nothing is
// consumed; the caller then reads a parenthesized type instead.
func (p *Parser) tryFunctionType(start lexer.Token, constructor bool) (TypeNode, bool) {
	var sig *CallSignature
	if !p.speculateOnce(ruleFunctionType, func() bool {
		sig = p.parseSignatureHead()
		return sig != nil && p.at(lexer.ARROW)
	}) {
		return nil, false
	}
	p.next() // '=>'
	if sig.ReturnType = p.parseReturnType(); sig.ReturnType == nil {
		return nil, true
	}
	sig.Loc = p.coverFrom(sig.Loc)
	fn := &FunctionType{Constructor: constructor, Signature: sig}
	fn.Loc = p.spanFrom(start)
	return fn, true
}

// parseReturnType parses a return type, which may be a predicate `x is T`.
func (p *Parser) parseReturnType() TypeNode {
	tok := p.peek(0)
	is := p.peek(1)
	if (isIdentifierToken(tok) || tok.Type == lexer.THIS) && is.Type == lexer.IDENT && is.Literal == "is" && !is.NewlineBefore {
		p.next()
		p.next()
		target := p.parseType()
		if target == nil {
			return nil
		}
		pred := &TypePredicate{ParameterName: p.newIdentifier(tok, RoleReference), Type: target}
		pred.Loc = p.spanFrom(tok)
		return pred
	}
	return p.parseType()
}

func (p *Parser) parseTypeLiteral() TypeNode {
	start := p.peek(0)
	members, ok := p.parseTypeMembers(false)
	if !ok {
		return nil
	}
	lit := &TypeLiteral{Members: members}
	lit.Loc = p.spanFrom(start)
	return lit
}

// parseTupleType parses `[A, B?, ...C]`; element labels are skipped.
func (p *Parser) parseTupleType() TypeNode {
	start := p.next() // '['
	tuple := &TupleType{Elements: []TypeNode{}}
	for !p.at(lexer.RBRACKET) {
		elemStart := p.peek(0)
		rest := p.eat(lexer.SPREAD)
		if isIdentifierToken(p.peek(0)) {
			if p.peek(1).Type == lexer.COLON {
				p.next()
				p.next()
			} else if p.peek(1).Type == lexer.QUESTION && p.peek(2).Type == lexer.COLON {
				p.next()
				p.next()
				p.next()
			}
		}
		elem := p.parseType()
		if elem == nil {
			return nil
		}
		p.eat(lexer.QUESTION)
		if rest {
			rt := &RestType{Type: elem}
			rt.Loc = p.spanFrom(elemStart)
			elem = rt
		}
		tuple.Elements = append(tuple.Elements, elem)
		if !p.eat(lexer.COMMA) {
			break
		}
	}
	if !p.expect(lexer.RBRACKET) {
		return nil
	}
	tuple.Loc = p.spanFrom(start)
	return tuple
}

// parseTypeReference parses `A.B.C<T>`.
func (p *Parser) parseTypeReference() TypeNode {
	start := p.peek(0)
	name := p.parseEntityName()
	if name == nil {
		return nil
	}
	ref := &TypeReference{TypeName: name}
	if p.at(lexer.LT) && !p.peek(0).NewlineBefore {
		if ref.TypeArguments = p.parseTypeArguments(); ref.TypeArguments == nil {
			return nil
		}
	}
	ref.Loc = p.spanFrom(start)
	return ref
}

// parseHeritageReference parses one entry of an extends or implements list.
func (p *Parser) parseHeritageReference() *TypeReference {
	if t := p.parseTypeReference(); t != nil {
		return t.(*TypeReference)
	}
	return nil
}

// parseEntityName parses a dotted name. Segments are taken greedily while
// a '.' is followed by an identifier; a single segment stays an
// *Identifier. A '.' followed by anything else reports
// InvalidQualifiedName and ends the name.
func (p *Parser) parseEntityName() EntityName {
	start := p.peek(0)
	first := p.parseIdentifier(RoleReference)
	if first == nil {
		return nil
	}
	segments := []*Identifier{first}
	for p.at(lexer.DOT) {
		next := p.peek(1)
		if !isIdentifierName(next) {
			dot := p.next()
			span := dot.Span()
			if next.Type != lexer.EOF {
				span = span.Cover(next.Span())
			}
			p.addError(errors.InvalidQualifiedName, span, "identifier expected after '.', got %s", next.Describe())
			break
		}
		p.next()
		segments = append(segments, p.parseIdentifierName(RoleReference))
	}
	if len(segments) == 1 {
		return first
	}
	qn := &QualifiedName{Segments: segments}
	qn.Loc = start.Span().Cover(segments[len(segments)-1].Loc)
	return qn
}

// parseTypeQuery parses `typeof x`, `typeof A.B` and `typeof import("m").X`.
func (p *Parser) parseTypeQuery() TypeNode {
	start := p.next() // 'typeof'
	tq := &TypeQuery{}
	if p.at(lexer.IMPORT) {
		p.next()
		if !p.expect(lexer.LPAREN) {
			return nil
		}
		if tq.ImportSpecifier = p.parseModuleSpecifier(); tq.ImportSpecifier == nil || !p.expect(lexer.RPAREN) {
			return nil
		}
		tq.IsImportType = true
		if p.eat(lexer.DOT) {
			if tq.ExprName = p.parseEntityName(); tq.ExprName == nil {
				return nil
			}
		}
	} else if tq.ExprName = p.parseEntityName(); tq.ExprName == nil {
		return nil
	}
	if p.at(lexer.LT) && !p.peek(0).NewlineBefore {
		if tq.TypeArguments = p.parseTypeArguments(); tq.TypeArguments == nil {
			return nil
		}
	}
	tq.Loc = p.spanFrom(start)
	return tq
}

// parseImportType parses `import("m").X<T>` in a type position.
func (p *Parser) parseImportType() TypeNode {
	start := p.next() // 'import'
	if !p.expect(lexer.LPAREN) {
		return nil
	}
	it := &ImportType{}
	if it.Argument = p.parseModuleSpecifier(); it.Argument == nil || !p.expect(lexer.RPAREN) {
		return nil
	}
	if p.eat(lexer.DOT) {
		if it.Qualifier = p.parseEntityName(); it.Qualifier == nil {
			return nil
		}
	}
	if p.at(lexer.LT) && !p.peek(0).NewlineBefore {
		if it.TypeArguments = p.parseTypeArguments(); it.TypeArguments == nil {
			return nil
		}
	}
	it.Loc = p.spanFrom(start)
	return it
}

// parseTypeArguments parses `<A, B>`. It returns nil on failure.
func (p *Parser) parseTypeArguments() []TypeNode {
	if !p.expect(lexer.LT) {
		return nil
	}
	args := []TypeNode{}
	for !p.at(lexer.GT) {
		t := p.parseType()
		if t == nil {
			return nil
		}
		args = append(args, t)
		if !p.eat(lexer.COMMA) {
			break
		}
	}
	if !p.expect(lexer.GT) {
		return nil
	}
	return args
}

// parseTypeParameters parses `<T, U extends V = D>`.
func (p *Parser) parseTypeParameters() ([]*TypeParameter, bool) {
	if !p.expect(lexer.LT) {
		return nil, false
	}
	params := []*TypeParameter{}
	for !p.at(lexer.GT) {
		start := p.peek(0)
		if start.Type == lexer.CONST || start.Type == lexer.IN || (start.Literal == "out" && isIdentifierToken(p.peek(1))) {
			p.next() // variance and const modifiers
		}
		tp := &TypeParameter{Name: p.parseIdentifier(RoleDeclaration)}
		if tp.Name == nil {
			return nil, false
		}
		if p.eat(lexer.EXTENDS) {
			if tp.Constraint = p.parseType(); tp.Constraint == nil {
				return nil, false
			}
		}
		if p.eat(lexer.ASSIGN) {
			if tp.Default = p.parseType(); tp.Default == nil {
				return nil, false
			}
		}
		tp.Loc = p.spanFrom(start)
		params = append(params, tp)
		if !p.eat(lexer.COMMA) {
			break
		}
	}
	if !p.expect(lexer.GT) {
		return nil, false
	}
	return params, true
}
