package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/nooga/tsparse/pkg/config"
	"github.com/nooga/tsparse/pkg/source"
)

// loadConfig starts from the config file (or the defaults) and layers set
// flags and TSPARSE_* variables on top.
func loadConfig(v *viper.Viper) (*config.Config, error) {
	cfg := config.Default()
	if path := v.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if v.IsSet("max-errors") {
		cfg.Parser.MaxErrors = v.GetInt("max-errors")
	}
	if v.IsSet("comments") {
		cfg.Parser.AttachComments = v.GetBool("comments")
	}
	if v.IsSet("workers") {
		if cfg.Batch.Workers = v.GetInt("workers"); cfg.Batch.Workers == 0 {
			cfg.Batch.Workers = runtime.NumCPU()
		}
	}
	if v.IsSet("output") {
		cfg.Output.Format = v.GetString("output")
	}
	if v.GetBool("no-color") {
		cfg.Output.Color = config.ColorNever
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds a console logger on w.
func newLogger(level string, w io.Writer, colored bool) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q", level)
	}
	out := zerolog.ConsoleWriter{Out: w, NoColor: !colored}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

// useColor resolves a colour mode for w. "auto" colours terminals unless
// NO_COLOR is set.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// loadFiles reads paths concurrently, at most limit at a time, keeping
// their order.
func loadFiles(ctx context.Context, paths []string, limit int) ([]*source.SourceFile, error) {
	files := make([]*source.SourceFile, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			files[i] = source.FromFile(path, string(data))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}
