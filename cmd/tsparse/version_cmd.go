package main

import (
	"fmt"

	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("output")
			out := cmd.OutOrStdout()
			if format != "json" {
				fmt.Fprintf(out, "tsparse %s (commit %s, built %s)\n", version, commit, date)
				return nil
			}
			f := prettyjson.NewFormatter()
			noColor, _ := cmd.Flags().GetBool("no-color")
			f.DisabledColor = noColor || !useColor("auto", out)
			info, err := f.Marshal(map[string]any{
				"version": version,
				"commit":  commit,
				"date":    date,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(info))
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "text", "Output format: text or json")
	return cmd
}
