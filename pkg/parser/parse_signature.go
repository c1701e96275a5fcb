package parser

import (
	"github.com/nooga/tsparse/pkg/errors"
	"github.com/nooga/tsparse/pkg/lexer"
)

// parseCallSignature parses `<T>(params): R`; the type parameters and the
// return type are optional.
func (p *Parser) parseCallSignature() *CallSignature {
	sig := p.parseSignatureHead()
	if sig == nil {
		return nil
	}
	if p.eat(lexer.COLON) {
		if sig.ReturnType = p.parseReturnType(); sig.ReturnType == nil {
			return nil
		}
		sig.Loc = p.coverFrom(sig.Loc)
	}
	return sig
}

// parseSignatureHead parses `<T>(params)` without a return type.
func (p *Parser) parseSignatureHead() *CallSignature {
	start := p.peek(0)
	sig := &CallSignature{}
	if p.at(lexer.LT) {
		params, ok := p.parseTypeParameters()
		if !ok {
			return nil
		}
		sig.TypeParameters = params
	}
	params, ok := p.parseParameterList()
	if !ok {
		return nil
	}
	sig.Parameters = params
	sig.Loc = p.spanFrom(start)
	return sig
}

// parseParameterList parses `(a, b?: T, ...rest: U[])`. A rest parameter
// that is not last is reported and kept.
func (p *Parser) parseParameterList() ([]*Parameter, bool) {
	if !p.expect(lexer.LPAREN) {
		return nil, false
	}
	restore := p.allowIn()
	defer restore()

	params := []*Parameter{}
	for !p.at(lexer.RPAREN) {
		param := p.parseParameter()
		if param == nil {
			return nil, false
		}
		params = append(params, param)
		if !p.eat(lexer.COMMA) {
			break
		}
	}
	if !p.expect(lexer.RPAREN) {
		return nil, false
	}
	for i, param := range params {
		if param.Rest && i < len(params)-1 {
			p.addError(errors.RestMustBeLast, param.Loc, "a rest parameter must be last in a parameter list")
		}
	}
	return params, true
}

// Modifiers that turn a constructor parameter into a class property.
var parameterModifiers = map[string]ModifierFlags{
	"public":    ModPublic,
	"private":   ModPrivate,
	"protected": ModProtected,
	"readonly":  ModReadonly,
}

func (p *Parser) parseParameter() *Parameter {
	start := p.peek(0)
	param := &Parameter{}
	for {
		tok := p.peek(0)
		flag, ok := parameterModifiers[tok.Literal]
		if !ok || tok.Type != lexer.IDENT {
			break
		}
		next := p.peek(1)
		if !isIdentifierToken(next) && !next.Is(lexer.SPREAD, lexer.THIS) {
			break // a parameter named like a modifier
		}
		p.next()
		param.Modifiers |= flag
	}

	param.Rest = p.eat(lexer.SPREAD)
	if tok := p.peek(0); tok.Type == lexer.THIS {
		p.next()
		param.Name = p.newIdentifier(tok, RoleDeclaration)
	} else if param.Name = p.parseBindingName(); param.Name == nil {
		return nil
	}
	param.Optional = p.eat(lexer.QUESTION)
	if p.eat(lexer.COLON) {
		if param.Type = p.parseType(); param.Type == nil {
			return nil
		}
	}
	if p.eat(lexer.ASSIGN) {
		if param.Initializer = p.parseExpression(LOWEST); param.Initializer == nil {
			return nil
		}
	}
	param.Loc = p.spanFrom(start)
	return param
}

// parseTypeMembers parses the braces of an interface body (body == true)
// or a type literal. An interface body recovers from a bad member and
// reports an unclosed brace as UnterminatedBlock; a type literal fails.
func (p *Parser) parseTypeMembers(body bool) ([]TypeMember, bool) {
	open := p.peek(0)
	if !p.expect(lexer.LBRACE) {
		return nil, false
	}
	members := []TypeMember{}
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		start := p.cur.Index()
		member := p.parseTypeMember()
		if member == nil {
			if !body {
				return nil, false
			}
			p.skipMember(start)
			continue
		}
		members = append(members, member)
		if p.eat(lexer.SEMICOLON) || p.eat(lexer.COMMA) || p.at(lexer.RBRACE) || p.peek(0).NewlineBefore {
			continue
		}
		p.unexpected(p.peek(0), "';'")
		if !body {
			return nil, false
		}
		p.skipMember(p.cur.Index())
	}
	if body {
		p.closeBrace(open)
		return members, true
	}
	if !p.expect(lexer.RBRACE) {
		return nil, false
	}
	return members, true
}

// skipMember skips the rest of a member that failed to parse: through a
// separator, or up to the closing '}' or the first token of the next line.
func (p *Parser) skipMember(start int) {
	if p.cur.Index() == start && !p.at(lexer.RBRACE) {
		tok := p.next()
		if tok.Is(lexer.SEMICOLON, lexer.COMMA) {
			return
		}
	}
	depth := 0
	for {
		tok := p.peek(0)
		switch tok.Type {
		case lexer.EOF:
			return
		case lexer.LBRACE, lexer.LPAREN, lexer.LBRACKET:
			depth++
		case lexer.RPAREN, lexer.RBRACKET:
			if depth > 0 {
				depth--
			}
		case lexer.RBRACE:
			if depth == 0 {
				return
			}
			depth--
		case lexer.SEMICOLON, lexer.COMMA:
			if depth == 0 {
				p.next()
				return
			}
		}
		if depth == 0 && tok.NewlineBefore && p.cur.Index() != start {
			return
		}
		p.next()
	}
}

func (p *Parser) parseTypeMember() TypeMember {
	start := p.peek(0)
	if p.atAny(lexer.LPAREN, lexer.LT) {
		if sig := p.parseCallSignature(); sig != nil {
			return sig
		}
		return nil
	}
	if start.Type == lexer.NEW && p.peek(1).Is(lexer.LPAREN, lexer.LT) {
		p.next()
		sig := p.parseCallSignature()
		if sig == nil {
			return nil
		}
		cs := &ConstructSignature{Signature: sig}
		cs.Loc = p.spanFrom(start)
		return cs
	}

	var mods ModifierFlags
	if start.Type == lexer.IDENT && start.Literal == "readonly" && p.startsPropertyName(p.peek(1)) && !p.peek(1).NewlineBefore {
		p.next()
		mods |= ModReadonly
	}
	if p.atIndexSignature() {
		if is := p.parseIndexSignature(mods, start); is != nil {
			return is
		}
		return nil
	}
	if tok := p.peek(0); tok.Type == lexer.IDENT && (tok.Literal == "get" || tok.Literal == "set") &&
		p.startsPropertyName(p.peek(1)) && !p.peek(1).NewlineBefore {
		p.next()
	}

	name := p.parsePropertyName()
	if name == nil {
		return nil
	}
	optional := p.eat(lexer.QUESTION)
	if p.atAny(lexer.LPAREN, lexer.LT) {
		sig := p.parseCallSignature()
		if sig == nil {
			return nil
		}
		ms := &MethodSignature{Name: name, Optional: optional, Signature: sig}
		ms.Loc = p.spanFrom(start)
		return ms
	}
	ps := &PropertySignature{Modifiers: mods, Name: name, Optional: optional}
	if p.eat(lexer.COLON) {
		if ps.Type = p.parseType(); ps.Type == nil {
			return nil
		}
	}
	ps.Loc = p.spanFrom(start)
	return ps
}

// atIndexSignature reports whether the cursor is at `[name:`.
func (p *Parser) atIndexSignature() bool {
	return p.at(lexer.LBRACKET) && isIdentifierToken(p.peek(1)) && p.peek(2).Type == lexer.COLON
}

// parseIndexSignature parses `[key: K]: T`; start is the first modifier
// token, if any.
func (p *Parser) parseIndexSignature(mods ModifierFlags, start lexer.Token) *IndexSignature {
	p.next() // '['
	paramStart := p.peek(0)
	key := p.parseIdentifier(RoleDeclaration)
	if key == nil || !p.expect(lexer.COLON) {
		return nil
	}
	param := &Parameter{Name: key}
	if param.Type = p.parseType(); param.Type == nil {
		return nil
	}
	param.Loc = p.spanFrom(paramStart)
	if !p.expect(lexer.RBRACKET) || !p.expect(lexer.COLON) {
		return nil
	}
	is := &IndexSignature{Modifiers: mods, Parameter: param}
	if is.Type = p.parseType(); is.Type == nil {
		return nil
	}
	is.Loc = p.spanFrom(start)
	return is
}
