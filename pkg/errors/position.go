package errors

import "github.com/nooga/tsparse/pkg/source"

// Position represents a specific location in the source code.
// It includes line and column numbers (1-based) for human-readability,
// and byte offsets (0-based) for tooling (like LSP).
type Position struct {
	Line     int                // 1-based line number
	Column   int                // 1-based column number (rune index within the line)
	StartPos int                // 0-based byte offset of the start of the span
	EndPos   int                // 0-based byte offset of the end of the span (exclusive)
	Source   *source.SourceFile // Reference to the source file
}

// PositionOf builds a Position covering span inside src.
func PositionOf(src *source.SourceFile, span source.Span) Position {
	return Position{
		Line:     span.Line,
		Column:   span.Column,
		StartPos: span.Start,
		EndPos:   span.End,
		Source:   src,
	}
}

// Span returns the byte range of the position.
func (p Position) Span() source.Span {
	return source.Span{Start: p.StartPos, End: p.EndPos, Line: p.Line, Column: p.Column}
}

// File returns the display path of the source, or "" when unknown.
func (p Position) File() string {
	if p.Source == nil {
		return ""
	}
	return p.Source.DisplayPath()
}
