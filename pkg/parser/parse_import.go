package parser

import (
	"github.com/nooga/tsparse/pkg/errors"
	"github.com/nooga/tsparse/pkg/lexer"
)

// parseImportDeclaration parses an import declaration
// Syntax: import "module";
//
//	import [type] Default [, * as NS | , { a, type b, c as d }] from "module" [with { k: "v" }];
//	import [type] * as NS from "module";
//	import [type] { a, b as c } from "module";
func (p *Parser) parseImportDeclaration() Statement {
	start := p.next() // 'import'
	ic := &ImportClause{}

	if p.at(lexer.STRING) {
		ic.IsSideEffectOnly = true
		ic.ModuleSpecifier = p.stringLiteral(p.next())
		return p.finishImport(ic, start)
	}

	if p.at(lexer.TYPE) && p.atTypeOnlyMarker() {
		p.next()
		ic.IsTypeOnly = true
	}

	needBindings := true
	if isIdentifierToken(p.peek(0)) {
		if ic.DefaultBinding = p.parseIdentifier(RoleDeclaration); ic.DefaultBinding == nil {
			return nil
		}
		needBindings = p.eat(lexer.COMMA)
	}
	if needBindings {
		switch {
		case p.at(lexer.ASTERISK):
			p.next()
			if !p.expect(lexer.AS) {
				return nil
			}
			if ic.NamespaceBinding = p.parseIdentifier(RoleDeclaration); ic.NamespaceBinding == nil {
				return nil
			}
		case p.at(lexer.LBRACE):
			specs, ok := p.parseImportSpecifiers()
			if !ok {
				return nil
			}
			ic.NamedBindings = specs
		default:
			p.unexpected(p.peek(0), "import bindings")
			return nil
		}
	}

	if ic.ModuleSpecifier = p.parseFromClause(start); ic.ModuleSpecifier == nil {
		return nil
	}
	return p.finishImport(ic, start)
}

// atTypeOnlyMarker reports whether the `type` at the cursor marks a
// type-only import rather than naming the default binding.
func (p *Parser) atTypeOnlyMarker() bool {
	next := p.peek(1)
	switch {
	case next.Is(lexer.LBRACE, lexer.ASTERISK):
		return true
	case next.Type == lexer.FROM:
		// `import type from "m"` imports a default named type.
		return p.peek(2).Type != lexer.STRING
	}
	return isIdentifierToken(next)
}

// parseFromClause parses `from "module"`, reporting MissingModuleSpecifier
// over the statement so far when it is absent.
func (p *Parser) parseFromClause(start lexer.Token) *StringLiteral {
	if p.at(lexer.FROM) && p.peek(1).Type == lexer.STRING {
		p.next()
		return p.stringLiteral(p.next())
	}
	p.eat(lexer.FROM)
	p.addError(errors.MissingModuleSpecifier, p.spanFrom(start), "'from \"module\"' expected, got %s", p.peek(0).Describe())
	return nil
}

// finishImport parses optional import attributes and the terminating
// semicolon.
func (p *Parser) finishImport(ic *ImportClause, start lexer.Token) Statement {
	if tok := p.peek(0); tok.Type == lexer.IDENT && (tok.Literal == "with" || tok.Literal == "assert") &&
		!tok.NewlineBefore && p.peek(1).Type == lexer.LBRACE {
		p.next()
		attrs, ok := p.parseImportAttributes()
		if !ok {
			return nil
		}
		ic.Attributes = attrs
	}
	p.consumeSemicolon()
	ic.Loc = p.spanFrom(start)
	return ic
}

// parseImportSpecifiers parses `{ a, type b, c as d }`.
func (p *Parser) parseImportSpecifiers() ([]*ImportSpecifier, bool) {
	if !p.expect(lexer.LBRACE) {
		return nil, false
	}
	specs := []*ImportSpecifier{}
	for !p.at(lexer.RBRACE) {
		start := p.peek(0)
		spec := &ImportSpecifier{}
		if start.Type == lexer.TYPE && isIdentifierName(p.peek(1)) && p.peek(1).Type != lexer.AS {
			p.next()
			spec.IsTypeOnly = true
		}
		if spec.Name = p.parseIdentifierName(RoleDeclaration); spec.Name == nil {
			return nil, false
		}
		if p.eat(lexer.AS) {
			if spec.Alias = p.parseIdentifier(RoleDeclaration); spec.Alias == nil {
				return nil, false
			}
			spec.Name.Role = RoleReference
			spec.IsAlias = true
		}
		spec.Loc = p.spanFrom(start)
		specs = append(specs, spec)
		if !p.eat(lexer.COMMA) {
			break
		}
	}
	if !p.expect(lexer.RBRACE) {
		return nil, false
	}
	return specs, true
}

// parseImportAttributes parses `{ type: "json" }`.
func (p *Parser) parseImportAttributes() ([]*ImportAttribute, bool) {
	if !p.expect(lexer.LBRACE) {
		return nil, false
	}
	var attrs []*ImportAttribute
	for !p.at(lexer.RBRACE) {
		start := p.peek(0)
		attr := &ImportAttribute{}
		if start.Type == lexer.STRING {
			p.next()
			attr.Key = p.newIdentifier(start, RoleReference)
		} else if attr.Key = p.parseIdentifierName(RoleReference); attr.Key == nil {
			return nil, false
		}
		if !p.expect(lexer.COLON) {
			return nil, false
		}
		if !p.at(lexer.STRING) {
			p.unexpected(p.peek(0), "string literal")
			return nil, false
		}
		attr.Value = p.stringLiteral(p.next())
		attr.Loc = p.spanFrom(start)
		attrs = append(attrs, attr)
		if !p.eat(lexer.COMMA) {
			break
		}
	}
	if !p.expect(lexer.RBRACE) {
		return nil, false
	}
	return attrs, true
}

// parseExportDeclaration parses every form starting with `export`
// Syntax: export default <declaration or expression>;
//
//	export = expr;
//	export [type] * [as ns] from "module";
//	export [type] { a, b as c } [from "module"];
//	export <declaration>
func (p *Parser) parseExportDeclaration() Statement {
	start := p.next() // 'export'
	tok := p.peek(0)

	switch {
	case tok.Type == lexer.DEFAULT:
		p.next()
		next := p.peek(0)
		if next.Is(lexer.FUNCTION, lexer.CLASS, lexer.INTERFACE) ||
			(next.Type == lexer.IDENT && (next.Literal == "abstract" || next.Literal == "async") &&
				p.peek(1).Is(lexer.CLASS, lexer.FUNCTION) && !p.peek(1).NewlineBefore) {
			return p.parseDeclarationWithModifiers(ModExport|ModDefault, start)
		}
		return p.parseExportAssignment(start, false)

	case tok.Type == lexer.ASSIGN:
		p.next()
		return p.parseExportAssignment(start, true)

	case tok.Type == lexer.ASTERISK,
		tok.Type == lexer.LBRACE,
		tok.Type == lexer.TYPE && p.peek(1).Is(lexer.ASTERISK, lexer.LBRACE):
		return p.parseExportList(start)
	}
	return p.parseDeclarationWithModifiers(ModExport, start)
}

func (p *Parser) parseExportAssignment(start lexer.Token, equals bool) Statement {
	ea := &ExportAssignment{IsExportEquals: equals}
	if ea.Expression = p.parseExpression(LOWEST); ea.Expression == nil {
		return nil
	}
	p.consumeSemicolon()
	ea.Loc = p.spanFrom(start)
	return ea
}

// parseExportList parses `export [type] * ...` and `export [type] { ... }`.
func (p *Parser) parseExportList(start lexer.Token) Statement {
	ed := &ExportDeclaration{}
	if p.eat(lexer.TYPE) {
		ed.IsTypeOnly = true
	}

	if p.eat(lexer.ASTERISK) {
		ed.IsNamespace = true
		if p.eat(lexer.AS) {
			if ed.NamespaceAlias = p.parseIdentifierName(RoleReference); ed.NamespaceAlias == nil {
				return nil
			}
		}
		if ed.ModuleSpecifier = p.parseFromClause(start); ed.ModuleSpecifier == nil {
			return nil
		}
	} else {
		specs, ok := p.parseExportSpecifiers()
		if !ok {
			return nil
		}
		ed.Specifiers = specs
		if p.at(lexer.FROM) {
			if ed.ModuleSpecifier = p.parseFromClause(start); ed.ModuleSpecifier == nil {
				return nil
			}
		}
	}
	p.consumeSemicolon()
	ed.Loc = p.spanFrom(start)
	return ed
}

// parseExportSpecifiers parses `{ a, type b, c as d }` of an export.
func (p *Parser) parseExportSpecifiers() ([]*ExportSpecifier, bool) {
	if !p.expect(lexer.LBRACE) {
		return nil, false
	}
	specs := []*ExportSpecifier{}
	for !p.at(lexer.RBRACE) {
		start := p.peek(0)
		spec := &ExportSpecifier{}
		if start.Type == lexer.TYPE && isIdentifierName(p.peek(1)) && p.peek(1).Type != lexer.AS {
			p.next()
			spec.IsTypeOnly = true
		}
		if spec.Name = p.parseIdentifierName(RoleReference); spec.Name == nil {
			return nil, false
		}
		if p.eat(lexer.AS) {
			if spec.Alias = p.parseIdentifierName(RoleReference); spec.Alias == nil {
				return nil, false
			}
		}
		spec.Loc = p.spanFrom(start)
		specs = append(specs, spec)
		if !p.eat(lexer.COMMA) {
			break
		}
	}
	if !p.expect(lexer.RBRACE) {
		return nil, false
	}
	return specs, true
}
