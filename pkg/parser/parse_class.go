package parser

import (
	"github.com/nooga/tsparse/pkg/lexer"
)

// parseClassDeclaration parses a class declaration statement
// Syntax: class ClassName[<T>] [extends Base<T>] [implements I, J] { classBody }
func (p *Parser) parseClassDeclaration(mods ModifierFlags, start lexer.Token) Statement {
	p.next() // 'class'
	cd := &ClassDeclaration{Modifiers: mods}

	if isIdentifierToken(p.peek(0)) {
		cd.Name = p.parseIdentifier(RoleDeclaration)
	} else if !mods.Has(ModDefault) {
		p.unexpected(p.peek(0), "class name")
		return nil
	}
	if p.at(lexer.LT) {
		params, ok := p.parseTypeParameters()
		if !ok {
			return nil
		}
		cd.TypeParameters = params
	}
	if p.eat(lexer.EXTENDS) {
		if cd.Extends = p.parseHeritageReference(); cd.Extends == nil {
			return nil
		}
	}
	if p.eat(lexer.IMPLEMENTS) {
		refs, ok := p.parseHeritageList()
		if !ok {
			return nil
		}
		cd.Implements = refs
	}
	if cd.Body = p.parseClassBody(); cd.Body == nil {
		return nil
	}
	cd.Loc = p.spanFrom(start)
	return cd
}

// parseHeritageList parses `A, B.C<T>` after extends or implements.
func (p *Parser) parseHeritageList() ([]*TypeReference, bool) {
	var refs []*TypeReference
	for {
		ref := p.parseHeritageReference()
		if ref == nil {
			return nil, false
		}
		refs = append(refs, ref)
		if !p.eat(lexer.COMMA) {
			return refs, true
		}
	}
}

// parseClassBody parses the body of a class. Its members become the
// statements of a BlockClassBody block; a member that fails to parse is
// skipped.
func (p *Parser) parseClassBody() *Block {
	open := p.peek(0)
	if !p.expect(lexer.LBRACE) {
		return nil
	}
	body := &Block{Kind: BlockClassBody, Statements: []Statement{}}
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		if p.eat(lexer.SEMICOLON) {
			continue
		}
		start := p.cur.Index()
		member := p.parseClassMember()
		if member == nil {
			p.skipMember(start)
			continue
		}
		body.Statements = append(body.Statements, member)
	}
	p.closeBrace(open)
	body.Loc = p.spanFrom(open)
	return body
}

// Modifier keywords accepted on class members; static and declare are
// keyword tokens and handled separately.
var memberModifiers = map[string]ModifierFlags{
	"public":    ModPublic,
	"private":   ModPrivate,
	"protected": ModProtected,
	"readonly":  ModReadonly,
	"abstract":  ModAbstract,
	"async":     ModAsync,
}

// memberModifier returns the modifier flag for tok when it is used as a
// modifier, i.e. followed on the same line by something that can continue
// a member. Otherwise tok is the member name and 0 is returned.
func (p *Parser) memberModifier(tok lexer.Token) ModifierFlags {
	var flag ModifierFlags
	switch tok.Type {
	case lexer.STATIC:
		flag = ModStatic
	case lexer.DECLARE:
		flag = ModDeclare
	case lexer.IDENT:
		flag = memberModifiers[tok.Literal]
	}
	if flag == 0 {
		return 0
	}
	next := p.peek(1)
	if next.NewlineBefore || !p.startsPropertyName(next) {
		return 0
	}
	return flag
}

// parseClassMember parses a property, method, accessor, constructor or
// index signature.
// Syntax: [modifiers] [get|set] name[?|!] [(params)[: R] [{ body }] | [: T] [= init]]
func (p *Parser) parseClassMember() Statement {
	start := p.peek(0)
	var mods ModifierFlags
	for {
		flag := p.memberModifier(p.peek(0))
		if flag == 0 {
			break
		}
		p.next()
		mods |= flag
	}

	if p.atIndexSignature() {
		if is := p.parseIndexSignature(mods, start); is != nil {
			p.consumeSemicolon()
			return is
		}
		return nil
	}

	accessor := ""
	if tok := p.peek(0); tok.Type == lexer.IDENT && (tok.Literal == "get" || tok.Literal == "set") &&
		p.startsPropertyName(p.peek(1)) && !p.peek(1).NewlineBefore {
		p.next()
		accessor = tok.Literal
	}
	p.eat(lexer.ASTERISK)

	name := p.parsePropertyName()
	if name == nil {
		return nil
	}
	optional := p.eat(lexer.QUESTION)
	if !optional {
		p.eat(lexer.BANG) // definite assignment
	}

	if p.atAny(lexer.LPAREN, lexer.LT) {
		md := &MethodDeclaration{Modifiers: mods, Accessor: accessor, Name: name, Optional: optional}
		if md.Signature = p.parseCallSignature(); md.Signature == nil {
			return nil
		}
		if p.at(lexer.LBRACE) {
			if md.Body = p.parseBlock(BlockFunction); md.Body == nil {
				return nil
			}
		} else {
			p.consumeSemicolon() // overload or abstract method
		}
		md.Loc = p.spanFrom(start)
		return md
	}

	pd := &PropertyDeclaration{Modifiers: mods, Name: name, Optional: optional}
	if p.eat(lexer.COLON) {
		if pd.Type = p.parseType(); pd.Type == nil {
			return nil
		}
	}
	if p.eat(lexer.ASSIGN) {
		if pd.Init = p.parseExpression(LOWEST); pd.Init == nil {
			return nil
		}
	}
	p.consumeSemicolon()
	pd.Loc = p.spanFrom(start)
	return pd
}

// parseInterfaceDeclaration parses an interface declaration
// Syntax: interface Name[<T>] [extends A, B] { members }
func (p *Parser) parseInterfaceDeclaration(mods ModifierFlags, start lexer.Token) Statement {
	p.next() // 'interface'
	id := &InterfaceDeclaration{Modifiers: mods}
	if id.Name = p.parseIdentifier(RoleDeclaration); id.Name == nil {
		return nil
	}
	if p.at(lexer.LT) {
		params, ok := p.parseTypeParameters()
		if !ok {
			return nil
		}
		id.TypeParameters = params
	}
	if p.eat(lexer.EXTENDS) {
		refs, ok := p.parseHeritageList()
		if !ok {
			return nil
		}
		id.Extends = refs
	}
	members, ok := p.parseTypeMembers(true)
	if !ok {
		return nil
	}
	id.Members = members
	id.Loc = p.spanFrom(start)
	return id
}

// parseTypeAliasDeclaration parses a type alias
// Syntax: type Name[<T>] = Type;
func (p *Parser) parseTypeAliasDeclaration(mods ModifierFlags, start lexer.Token) Statement {
	p.next() // 'type'
	ta := &TypeAliasDeclaration{Modifiers: mods}
	if ta.Name = p.parseIdentifier(RoleDeclaration); ta.Name == nil {
		return nil
	}
	if p.at(lexer.LT) {
		params, ok := p.parseTypeParameters()
		if !ok {
			return nil
		}
		ta.TypeParameters = params
	}
	if !p.expect(lexer.ASSIGN) {
		return nil
	}
	if ta.Type = p.parseType(); ta.Type == nil {
		return nil
	}
	p.consumeSemicolon()
	ta.Loc = p.spanFrom(start)
	return ta
}
