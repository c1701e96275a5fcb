package parser

import (
	"github.com/nooga/tsparse/pkg/errors"
	"github.com/nooga/tsparse/pkg/lexer"
)

// parseSwitchStatement parses a switch statement
// Syntax: switch (expr) { case a: stmts... default: stmts... }
func (p *Parser) parseSwitchStatement() Statement {
	start := p.next() // 'switch'
	ss := &SwitchStatement{Cases: []*Case{}}
	if ss.Discriminant = p.parseParenExpression(); ss.Discriminant == nil {
		return nil
	}
	open := p.peek(0)
	if !p.expect(lexer.LBRACE) {
		return nil
	}

	var seenDefault bool
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		label := p.peek(0)
		c := &Case{}
		switch label.Type {
		case lexer.CASE:
			p.next()
			if c.Test = p.parseExpression(LOWEST); c.Test == nil {
				p.skipToCaseLabel()
				continue
			}
		case lexer.DEFAULT:
			p.next()
		default:
			p.unexpected(label, "'case' or 'default'")
			p.skipToCaseLabel()
			continue
		}
		if !p.expect(lexer.COLON) {
			p.skipToCaseLabel()
			continue
		}
		c.Consequent = p.parseStatementList(lexer.CASE, lexer.DEFAULT, lexer.RBRACE)
		c.Loc = p.spanFrom(label)

		if c.Test == nil {
			if seenDefault {
				p.addError(errors.DuplicateDefaultCase, label.Span(), "a switch statement can only have one 'default' clause")
				continue
			}
			seenDefault = true
		}
		ss.Cases = append(ss.Cases, c)
	}
	p.closeBrace(open)

	markFallthrough(ss.Cases)
	ss.Loc = p.spanFrom(start)
	return ss
}

// skipToCaseLabel skips a broken clause up to the next case or default
// label, or the end of the switch.
func (p *Parser) skipToCaseLabel() {
	depth := 0
	for !p.at(lexer.EOF) {
		switch p.peek(0).Type {
		case lexer.CASE, lexer.DEFAULT:
			if depth == 0 {
				return
			}
		case lexer.LBRACE:
			depth++
		case lexer.RBRACE:
			if depth == 0 {
				return
			}
			depth--
		}
		p.next()
	}
}

// markFallthrough sets FallsThrough on each clause. An empty clause always
// falls through to the next label. Otherwise a clause falls through when
// its last statement is not break, return, throw or continue and another
// clause follows it.
func markFallthrough(cases []*Case) {
	for i, c := range cases {
		if len(c.Consequent) == 0 {
			c.FallsThrough = true
			continue
		}
		switch c.Consequent[len(c.Consequent)-1].(type) {
		case *BreakStatement, *ReturnStatement, *ThrowStatement, *ContinueStatement:
			c.FallsThrough = false
		default:
			c.FallsThrough = i < len(cases)-1
		}
	}
}
