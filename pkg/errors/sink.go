package errors

import (
	"fmt"

	"github.com/nooga/tsparse/pkg/source"
)

// DefaultMaxErrors bounds the number of error diagnostics kept per file.
const DefaultMaxErrors = 1000

// Sink collects the diagnostics of one parse. Lexical diagnostics are kept
// apart from parse diagnostics so that rolling back a failed speculative
// parse never loses a lexical error whose token stays buffered.
type Sink struct {
	src       *source.SourceFile
	maxErrors int
	lex       []*Diagnostic
	parse     []*Diagnostic
	overflow  *Diagnostic
}

// NewSink returns a sink for src. A maxErrors of zero or less selects
// DefaultMaxErrors.
func NewSink(src *source.SourceFile, maxErrors int) *Sink {
	if maxErrors <= 0 {
		maxErrors = DefaultMaxErrors
	}
	return &Sink{src: src, maxErrors: maxErrors}
}

// Report records a diagnostic of kind at span with the kind's default
// severity. It returns nil if the error limit has been reached.
func (s *Sink) Report(kind Kind, span source.Span, format string, args ...any) *Diagnostic {
	d := &Diagnostic{
		Position: PositionOf(s.src, span),
		Severity: kind.DefaultSeverity(),
		Kind:     kind,
		Msg:      fmt.Sprintf(format, args...),
	}
	if d.IsError() && s.ErrorCount() >= s.maxErrors {
		if s.overflow == nil {
			s.overflow = &Diagnostic{
				Position: PositionOf(s.src, span),
				Severity: SeverityError,
				Kind:     TooManyErrors,
				Msg:      fmt.Sprintf("too many errors (limit %d), further errors suppressed", s.maxErrors),
			}
		}
		return nil
	}
	if kind.IsLexical() {
		s.lex = append(s.lex, d)
	} else {
		s.parse = append(s.parse, d)
	}
	return d
}

// Checkpoint returns a marker for Rollback.
func (s *Sink) Checkpoint() int { return len(s.parse) }

// Rollback drops the parse diagnostics reported after checkpoint.
func (s *Sink) Rollback(checkpoint int) {
	if checkpoint < len(s.parse) {
		s.parse = s.parse[:checkpoint]
	}
}

// ErrorCount returns the number of error-severity diagnostics kept so far.
func (s *Sink) ErrorCount() int {
	n := 0
	for _, d := range s.lex {
		if d.IsError() {
			n++
		}
	}
	for _, d := range s.parse {
		if d.IsError() {
			n++
		}
	}
	return n
}

// Len returns the number of diagnostics kept so far.
func (s *Sink) Len() int {
	n := len(s.lex) + len(s.parse)
	if s.overflow != nil {
		n++
	}
	return n
}

// Diagnostics returns every diagnostic ordered by position. The
// TooManyErrors marker, if any, comes last.
func (s *Sink) Diagnostics() []*Diagnostic {
	out := make([]*Diagnostic, 0, s.Len())
	out = append(out, s.lex...)
	out = append(out, s.parse...)
	SortDiagnostics(out)
	if s.overflow != nil {
		out = append(out, s.overflow)
	}
	return out
}

// Err folds the error-severity diagnostics into one error.
func (s *Sink) Err() error {
	return Combine(s.Diagnostics())
}
