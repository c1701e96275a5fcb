package main

import (
	"fmt"
	"io"

	"github.com/hokaccha/go-prettyjson"

	"github.com/nooga/tsparse/pkg/batch"
	"github.com/nooga/tsparse/pkg/config"
	tserrors "github.com/nooga/tsparse/pkg/errors"
	"github.com/nooga/tsparse/pkg/parser"
)

type fileReport struct {
	File        string              `json:"file"`
	Module      bool                `json:"module"`
	Imports     []string            `json:"imports,omitempty"`
	Diagnostics []diagnosticReport  `json:"diagnostics"`
	AST         *parser.OutlineNode `json:"ast"`
}

type diagnosticReport struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
}

// render writes results in the chosen format. Diagnostics go to errW
// except in json mode, where they are part of the document.
func render(out, errW io.Writer, results []*batch.Result, format string, outColor, errColor bool) error {
	switch format {
	case config.FormatJSON:
		return renderJSON(out, results, outColor)
	case config.FormatAST:
		renderAST(out, results)
		renderDiagnostics(errW, results, errColor)
	default:
		renderDiagnostics(errW, results, errColor)
		renderSummary(errW, results)
	}
	return nil
}

func renderDiagnostics(w io.Writer, results []*batch.Result, colored bool) {
	for _, r := range results {
		tserrors.Display(w, r.Diagnostics, tserrors.DisplayOptions{Color: colored})
	}
}

func renderSummary(w io.Writer, results []*batch.Result) {
	var errs, warnings int
	for _, r := range results {
		for _, d := range r.Diagnostics {
			if d.IsError() {
				errs++
			} else {
				warnings++
			}
		}
	}
	fmt.Fprintf(w, "%d file(s): %d error(s), %d warning(s)\n", len(results), errs, warnings)
}

func renderAST(w io.Writer, results []*batch.Result) {
	d := parser.NewDumper()
	for _, r := range results {
		if len(results) > 1 {
			fmt.Fprintf(w, "== %s ==\n", r.File)
		}
		io.WriteString(w, d.Dump(r.Program))
	}
}

func renderJSON(w io.Writer, results []*batch.Result, colored bool) error {
	reports := make([]fileReport, len(results))
	for i, r := range results {
		reports[i] = fileReport{
			File:        r.File,
			Module:      r.Program.IsExternalModule,
			Imports:     r.Imports,
			Diagnostics: make([]diagnosticReport, len(r.Diagnostics)),
			AST:         parser.Outline(r.Program),
		}
		for j, d := range r.Diagnostics {
			reports[i].Diagnostics[j] = diagnosticReport{
				Severity: d.Severity.String(),
				Code:     d.Kind.Code(),
				Kind:     d.Kind.String(),
				Message:  d.Msg,
				Line:     d.Line,
				Column:   d.Column,
				Start:    d.StartPos,
				End:      d.EndPos,
			}
		}
	}

	f := prettyjson.NewFormatter()
	f.DisabledColor = !colored
	data, err := f.Marshal(reports)
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
