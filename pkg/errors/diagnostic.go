package errors

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"
)

// Diagnostic is a single problem found while scanning or parsing a file.
type Diagnostic struct {
	Position
	Severity Severity
	Kind     Kind
	Msg      string
	Cause    error // Underlying cause, if any
}

func (d *Diagnostic) Error() string {
	loc := fmt.Sprintf("%d:%d", d.Line, d.Column)
	if file := d.File(); file != "" {
		loc = file + ":" + loc
	}
	return fmt.Sprintf("%s: %s[%s]: %s", loc, d.Severity, d.Kind.Code(), d.Msg)
}

func (d *Diagnostic) Pos() Position   { return d.Position }
func (d *Diagnostic) Message() string { return d.Msg }
func (d *Diagnostic) Unwrap() error   { return d.Cause }

// CausedBy attaches an underlying cause.
func (d *Diagnostic) CausedBy(cause error) *Diagnostic {
	d.Cause = cause
	return d
}

// IsError reports whether the diagnostic has error severity.
func (d *Diagnostic) IsError() bool { return d.Severity == SeverityError }

// SortDiagnostics orders diagnostics by start offset, keeping the relative
// order of diagnostics that start at the same place.
func SortDiagnostics(diags []*Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		return diags[i].StartPos < diags[j].StartPos
	})
}

// Combine folds the error-severity diagnostics into a single error.
// It returns nil when there are none.
func Combine(diags []*Diagnostic) error {
	var result *multierror.Error
	for _, d := range diags {
		if d.IsError() {
			result = multierror.Append(result, d)
		}
	}
	if result == nil {
		return nil
	}
	result.ErrorFormat = func(es []error) string {
		if len(es) == 1 {
			return es[0].Error()
		}
		s := fmt.Sprintf("%d errors:", len(es))
		for _, e := range es {
			s += "\n\t" + e.Error()
		}
		return s
	}
	return result.ErrorOrNil()
}
