package main

import (
	"errors"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nooga/tsparse/pkg/batch"
	"github.com/nooga/tsparse/pkg/config"
	"github.com/nooga/tsparse/pkg/source"
)

func newParseCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [files...]",
		Short: "Parse files and report diagnostics",
		Example: `  tsparse parse src/*.ts
  tsparse parse --code 'namespace A.B { }' --output ast
  cat types.d.ts | tsparse parse --stdin --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, v, args)
		},
	}
	cmd.Flags().StringP("code", "c", "", "Code to parse")
	cmd.Flags().Bool("stdin", false, "Read code from stdin")
	cmd.Flags().StringP("output", "o", config.FormatText, "Output format: text, json or ast")
	cmd.Flags().Int("max-errors", 0, "Error diagnostics kept per file (0 = default cap)")
	cmd.Flags().Bool("comments", false, "Keep leading comments of statements in ast and json output")
	cmd.Flags().Int("workers", 0, "Parse workers (0 = one per CPU)")
	return cmd
}

func runParse(cmd *cobra.Command, v *viper.Viper, args []string) error {
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}
	stderr := cmd.ErrOrStderr()
	colored := useColor(cfg.Output.Color, stderr)
	logger, err := newLogger(v.GetString("log-level"), stderr, colored)
	if err != nil {
		return err
	}

	sources, err := collectSources(cmd, v, args, cfg.Batch.Workers)
	if err != nil {
		return err
	}

	results, err := batch.ParseAll(cmd.Context(), sources, cfg.Batch, logger, cfg.ParserOptions()...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := render(out, stderr, results, cfg.Output.Format, useColor(cfg.Output.Color, out), colored); err != nil {
		return err
	}
	for _, r := range results {
		if r.HasErrors() {
			return &exitError{code: 1}
		}
	}
	return nil
}

// collectSources resolves the single input source: --code, --stdin, or
// file paths.
func collectSources(cmd *cobra.Command, v *viper.Viper, args []string, workers int) ([]*source.SourceFile, error) {
	codeSet := cmd.Flags().Lookup("code").Changed
	stdinSet := v.GetBool("stdin")
	inputs := 0
	for _, set := range []bool{codeSet, stdinSet, len(args) > 0} {
		if set {
			inputs++
		}
	}
	switch {
	case inputs > 1:
		return nil, errors.New("multiple input sources specified")
	case inputs == 0:
		return nil, errors.New("no input: pass files, --code or --stdin")
	case codeSet:
		return []*source.SourceFile{source.NewInlineSource(v.GetString("code"))}, nil
	case stdinSet:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, err
		}
		return []*source.SourceFile{source.NewStdinSource(string(data))}, nil
	}
	return loadFiles(cmd.Context(), args, workers)
}
