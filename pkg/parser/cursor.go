package parser

import (
	"github.com/nooga/tsparse/pkg/lexer"
)

// Cursor buffers tokens from a lexer and lets the parser look ahead and
// backtrack. Tokens are pulled from the lexer on demand and never
// re-scanned; each token is handed to onToken exactly once, when it is
// first buffered.
type Cursor struct {
	l       *lexer.Lexer
	buf     []lexer.Token
	pos     int
	onToken func(lexer.Token)
}

// Checkpoint is an opaque cursor position returned by Mark.
type Checkpoint struct {
	pos int
}

// NewCursor returns a cursor over l. onToken may be nil.
func NewCursor(l *lexer.Lexer, onToken func(lexer.Token)) *Cursor {
	return &Cursor{l: l, onToken: onToken}
}

func (c *Cursor) fill(n int) {
	for len(c.buf) < n {
		if len(c.buf) > 0 && c.buf[len(c.buf)-1].Type == lexer.EOF {
			c.buf = append(c.buf, c.buf[len(c.buf)-1])
			continue
		}
		tok := c.l.NextToken()
		if c.onToken != nil {
			c.onToken(tok)
		}
		c.buf = append(c.buf, tok)
	}
}

// Peek returns the token k positions ahead; Peek(0) is the current token.
// Peeking past the end keeps returning EOF.
func (c *Cursor) Peek(k int) lexer.Token {
	c.fill(c.pos + k + 1)
	return c.buf[c.pos+k]
}

// Current is Peek(0).
func (c *Cursor) Current() lexer.Token { return c.Peek(0) }

// Advance consumes and returns the current token. At EOF it stays put.
func (c *Cursor) Advance() lexer.Token {
	tok := c.Peek(0)
	if tok.Type != lexer.EOF {
		c.pos++
	}
	return tok
}

// Prev returns the most recently consumed token, or the zero token at the
// start of input.
func (c *Cursor) Prev() lexer.Token {
	if c.pos == 0 {
		return lexer.Token{Line: 1, Column: 1}
	}
	return c.buf[c.pos-1]
}

// Mark returns a checkpoint for the current position.
func (c *Cursor) Mark() Checkpoint { return Checkpoint{pos: c.pos} }

// Reset rewinds (or fast-forwards) to a checkpoint taken on this cursor.
func (c *Cursor) Reset(cp Checkpoint) { c.pos = cp.pos }

// Index returns the number of tokens consumed so far.
func (c *Cursor) Index() int { return c.pos }
