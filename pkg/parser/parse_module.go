package parser

import (
	"github.com/nooga/tsparse/pkg/errors"
	"github.com/nooga/tsparse/pkg/lexer"
)

// parseModuleDeclaration parses namespace, ambient module and global
// augmentation declarations; start is the first modifier token, or the
// keyword itself.
// Syntax: namespace A.B.C { body }
//
//	module A.B { body }
//	module "name" [{ body }]
//	global { body }
func (p *Parser) parseModuleDeclaration(mods ModifierFlags, start lexer.Token) Statement {
	kw := p.next() // 'namespace', 'module' or 'global'
	md := &ModuleDeclaration{Modifiers: mods}

	switch {
	case kw.Type == lexer.GLOBAL:
		md.Kind = ModuleGlobal
	case kw.Type == lexer.MODULE && p.at(lexer.STRING):
		md.Kind = ModuleAmbient
		md.Name = p.stringLiteral(p.next())
		if !p.at(lexer.LBRACE) {
			// declare module "m"; is shorthand for a module exporting any
			p.consumeSemicolon()
			md.Loc = p.spanFrom(start)
			return md
		}
	default:
		md.Kind = ModuleNamespace
		if md.PathSegments = p.parseNamespacePath(); md.PathSegments == nil {
			return nil
		}
	}

	if md.Body = p.parseModuleBlock(); md.Body == nil {
		return nil
	}
	md.Loc = p.spanFrom(start)
	return md
}

// parseNamespacePath parses the dotted name of a namespace, one declared
// identifier per segment.
func (p *Parser) parseNamespacePath() []*Identifier {
	first := p.parseIdentifier(RoleDeclaration)
	if first == nil {
		return nil
	}
	segments := []*Identifier{first}
	for p.at(lexer.DOT) {
		next := p.peek(1)
		if !isIdentifierToken(next) {
			dot := p.next()
			span := dot.Span()
			if next.Type != lexer.EOF {
				span = span.Cover(next.Span())
			}
			p.addError(errors.InvalidQualifiedName, span, "identifier expected after '.', got %s", next.Describe())
			break
		}
		p.next()
		segments = append(segments, p.parseIdentifier(RoleDeclaration))
	}
	return segments
}

// parseModuleBlock parses `{ statements }` of a module declaration.
func (p *Parser) parseModuleBlock() *ModuleBlock {
	open := p.peek(0)
	if !p.expect(lexer.LBRACE) {
		return nil
	}
	mb := &ModuleBlock{}
	mb.Statements = p.parseStatementList(lexer.RBRACE)
	p.closeBrace(open)
	mb.Loc = p.spanFrom(open)
	return mb
}
