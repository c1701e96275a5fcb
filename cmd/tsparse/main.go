package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		printError(err.Error())
		os.Exit(2)
	}
}

// exitError ends the process with a status code and no message; the
// command has already reported the problem.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("TSPARSE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "tsparse",
		Short: "Parse TypeScript sources and report syntax diagnostics",
		Long: `tsparse parses a subset of TypeScript: blocks, call signatures, switch
statements, identifiers, import clauses, namespace and module declarations,
qualified names and type queries. It reports every syntax diagnostic it
finds and can print the resulting syntax tree.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return v.BindPFlags(cmd.Flags())
		},
	}

	root.PersistentFlags().String("config", "", "Config file (.toml, .yaml or .yml)")
	root.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
	root.PersistentFlags().Bool("no-color", false, "Disable colored output")

	root.AddCommand(newParseCmd(v), newWatchCmd(v), newVersionCmd())
	return root
}

func printError(msg string) {
	if useColor("auto", os.Stderr) {
		msg = color.New(color.FgRed).Sprint(msg)
	}
	os.Stderr.WriteString(msg + "\n")
}
