package errors

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// DisplayOptions controls Display.
type DisplayOptions struct {
	Color bool
}

// Display writes diagnostics in a user-friendly format, including the
// source line and a marker under the offending span:
//
//	file.ts:3:7: error[E2001]: expected ';', got '}'
//	  let x = }
//	          ^
func Display(w io.Writer, diags []*Diagnostic, opts DisplayOptions) {
	errColor := color.New(color.FgRed, color.Bold)
	warnColor := color.New(color.FgYellow, color.Bold)
	locColor := color.New(color.Bold)
	markColor := color.New(color.FgCyan)
	for _, c := range []*color.Color{errColor, warnColor, locColor, markColor} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	for _, d := range diags {
		sev := errColor
		if d.Severity == SeverityWarning {
			sev = warnColor
		}
		loc := fmt.Sprintf("%d:%d", d.Line, d.Column)
		if file := d.File(); file != "" {
			loc = file + ":" + loc
		}
		fmt.Fprintf(w, "%s: %s: %s\n",
			locColor.Sprint(loc),
			sev.Sprintf("%s[%s]", d.Severity, d.Kind.Code()),
			d.Msg)

		if d.Source == nil || d.Line < 1 {
			continue
		}
		line := d.Source.LineText(d.Line)
		if line == "" && d.Line > len(d.Source.Lines()) {
			continue
		}
		line = strings.TrimRight(line, " \t")
		fmt.Fprintf(w, "  %s\n", strings.ReplaceAll(line, "\t", " "))
		fmt.Fprintf(w, "  %s\n", markColor.Sprint(marker(line, d.Column, d.EndPos-d.StartPos)))
	}
}

// marker builds "   ^~~~" under a span starting at column and covering
// width bytes, clipped to the end of the line.
func marker(line string, column, width int) string {
	pad := column - 1
	if pad < 0 {
		pad = 0
	}
	rest := utf8.RuneCountInString(line) - pad
	span := max(width, 1)
	if rest > 0 && span > rest {
		span = rest
	}
	if span < 1 {
		span = 1
	}
	return strings.Repeat(" ", pad) + "^" + strings.Repeat("~", span-1)
}
