package batch

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/nooga/tsparse/pkg/config"
	"github.com/nooga/tsparse/pkg/parser"
	"github.com/nooga/tsparse/pkg/source"
)

// ParseAll parses files on a worker pool and returns one result per file,
// in input order. Cancelling ctx stops the run between jobs and returns
// the context error.
func ParseAll(ctx context.Context, files []*source.SourceFile, cfg config.BatchConfig, logger zerolog.Logger, opts ...parser.Option) ([]*Result, error) {
	results := make([]*Result, len(files))
	if len(files) == 0 {
		return results, nil
	}

	pool := NewPool(cfg, logger, opts...)
	g, gctx := errgroup.WithContext(ctx)
	if err := pool.Start(gctx); err != nil {
		return nil, err
	}

	// Submitter
	g.Go(func() error {
		defer func() {
			sctx := context.WithoutCancel(ctx)
			if cfg.ShutdownTimeout.Duration > 0 {
				var cancel context.CancelFunc
				sctx, cancel = context.WithTimeout(sctx, cfg.ShutdownTimeout.Duration)
				defer cancel()
			}
			if err := pool.Shutdown(sctx); err != nil {
				logger.Warn().Err(err).Msg("worker pool shutdown timed out")
			}
		}()
		for i, src := range files {
			if err := pool.Submit(NewJob(i, src)); err != nil {
				return fmt.Errorf("submit %s: %w", src.DisplayPath(), err)
			}
		}
		return nil
	})

	// Collector
	g.Go(func() error {
		for r := range pool.Results() {
			results[r.Index] = r
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for i, r := range results {
		if r == nil {
			return nil, fmt.Errorf("no result for %s", files[i].DisplayPath())
		}
	}

	stats := pool.Stats()
	logger.Debug().
		Int("files", stats.TotalJobs).
		Int("failed", stats.FailedJobs).
		Dur("total", stats.TotalTime).
		Dur("average", stats.AverageTime).
		Msg("batch finished")
	return results, nil
}
