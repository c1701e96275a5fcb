package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nooga/tsparse/pkg/batch"
	"github.com/nooga/tsparse/pkg/config"
)

func newWatchCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch files...",
		Short: "Re-parse files whenever they change",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, v, args)
		},
	}
	cmd.Flags().Int("max-errors", 0, "Error diagnostics kept per file (0 = default cap)")
	cmd.Flags().Bool("comments", false, "Keep leading comments of statements in ast and json output")
	return cmd
}

// watcher re-parses a fixed set of files. Parent directories are watched
// rather than the files, so editors that save by rename are still seen.
type watcher struct {
	cfg     *config.Config
	logger  zerolog.Logger
	out     io.Writer
	colored bool
	files   map[string]bool // Cleaned absolute paths
	fs      *fsnotify.Watcher
}

func runWatch(cmd *cobra.Command, v *viper.Viper, args []string) error {
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

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer fs.Close()

	w := &watcher{
		cfg:     cfg,
		logger:  logger,
		out:     stderr,
		colored: colored,
		files:   make(map[string]bool),
		fs:      fs,
	}
	if err := w.add(args); err != nil {
		return err
	}

	ctx := cmd.Context()
	w.parse(ctx, args)
	return w.loop(ctx)
}

func (w *watcher) add(paths []string) error {
	dirs := make(map[string]bool)
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		w.files[filepath.Clean(abs)] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	return nil
}

func (w *watcher) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if name := filepath.Clean(ev.Name); w.files[name] {
				w.logger.Debug().Str("file", name).Str("op", ev.Op.String()).Msg("change detected")
				w.parse(ctx, []string{name})
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().Err(err).Msg("watch error")
		}
	}
}

// parse reports the diagnostics of paths. Failures are logged; watching
// continues.
func (w *watcher) parse(ctx context.Context, paths []string) {
	sources, err := loadFiles(ctx, paths, w.cfg.Batch.Workers)
	if err != nil {
		w.logger.Warn().Err(err).Msg("skipping unreadable files")
		return
	}
	results, err := batch.ParseAll(ctx, sources, w.cfg.Batch, w.logger, w.cfg.ParserOptions()...)
	if err != nil {
		w.logger.Warn().Err(err).Msg("parse interrupted")
		return
	}
	for _, r := range results {
		if len(r.Diagnostics) == 0 {
			fmt.Fprintf(w.out, "%s: ok\n", r.File)
			continue
		}
		renderDiagnostics(w.out, []*batch.Result{r}, w.colored)
	}
}
