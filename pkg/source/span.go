package source

import "fmt"

// Span is a half-open byte range [Start, End) together with the 1-based
// line and column of Start.
type Span struct {
	Start  int
	End    int
	Line   int
	Column int
}

// Len returns the number of bytes covered.
func (s Span) Len() int { return s.End - s.Start }

// Contains reports whether other lies entirely inside s.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// Cover returns the smallest span that contains both s and other; the
// line and column come from whichever starts first.
func (s Span) Cover(other Span) Span {
	out := s
	if other.Start < s.Start {
		out.Start, out.Line, out.Column = other.Start, other.Line, other.Column
	}
	if other.End > out.End {
		out.End = other.End
	}
	return out
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d[%d,%d)", s.Line, s.Column, s.Start, s.End)
}
