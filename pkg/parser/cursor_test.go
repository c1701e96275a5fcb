package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nooga/tsparse/pkg/lexer"
)

func TestCursorPeekAdvance(t *testing.T) {
	var seen []string
	c := NewCursor(lexer.NewLexer("a . b"), func(tok lexer.Token) { seen = append(seen, tok.Literal) })

	assert.Equal(t, "a", c.Peek(0).Literal)
	assert.Equal(t, lexer.DOT, c.Peek(1).Type)
	assert.Equal(t, "b", c.Peek(2).Literal)
	assert.Equal(t, lexer.EOF, c.Peek(3).Type)
	assert.Equal(t, lexer.EOF, c.Peek(10).Type, "peeking past the end keeps returning EOF")

	assert.Equal(t, "a", c.Advance().Literal)
	assert.Equal(t, "a", c.Prev().Literal)
	assert.Equal(t, 1, c.Index())
	c.Advance()
	c.Advance()
	assert.Equal(t, lexer.EOF, c.Advance().Type)
	assert.Equal(t, lexer.EOF, c.Advance().Type, "advance at EOF stays put")
	assert.Equal(t, 3, c.Index())

	require.Equal(t, []string{"a", ".", "b", ""}, seen, "each token is reported once")
}

func TestCursorMarkReset(t *testing.T) {
	var count int
	c := NewCursor(lexer.NewLexer("x y z"), func(lexer.Token) { count++ })

	c.Advance()
	cp := c.Mark()
	c.Advance()
	c.Advance()
	assert.Equal(t, lexer.EOF, c.Current().Type)

	c.Reset(cp)
	assert.Equal(t, "y", c.Current().Literal)
	assert.Equal(t, "x", c.Prev().Literal)
	c.Advance()
	assert.Equal(t, "z", c.Current().Literal)
	assert.Equal(t, 4, count, "backtracking never re-scans")
}
