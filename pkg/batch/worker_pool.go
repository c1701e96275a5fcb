// Package batch parses many files concurrently. Every job gets its own
// lexer, cursor and diagnostic sink, so workers share nothing but the
// read-only keyword tables.
package batch

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nooga/tsparse/pkg/config"
	"github.com/nooga/tsparse/pkg/errors"
	"github.com/nooga/tsparse/pkg/lexer"
	"github.com/nooga/tsparse/pkg/parser"
	"github.com/nooga/tsparse/pkg/source"
)

// Job is one file to parse.
type Job struct {
	ID     uuid.UUID
	Index  int // Position of the file in the caller's input
	Source *source.SourceFile
}

// NewJob creates a job with a fresh ID.
func NewJob(index int, src *source.SourceFile) *Job {
	return &Job{ID: uuid.New(), Index: index, Source: src}
}

// Result is the outcome of one job.
type Result struct {
	JobID       uuid.UUID
	Index       int
	File        string
	Program     *parser.Program
	Diagnostics []*errors.Diagnostic
	Imports     []string // Module specifiers the file depends on or declares
	WorkerID    int
	Duration    time.Duration
	Timestamp   time.Time
}

// HasErrors reports whether any diagnostic has error severity.
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.IsError() {
			return true
		}
	}
	return false
}

// Stats contains statistics about worker pool performance
type Stats struct {
	TotalJobs     int           // Jobs submitted
	ActiveJobs    int           // Jobs queued or in progress
	CompletedJobs int           // Jobs parsed without error diagnostics
	FailedJobs    int           // Jobs with at least one error diagnostic
	AverageTime   time.Duration // Average parse time per job
	TotalTime     time.Duration // Total time spent parsing
	WorkerCount   int
}

// Pool is a fixed set of parse workers fed through a job queue.
type Pool struct {
	// Configuration
	numWorkers   int
	jobBuffer    int
	resultBuffer int
	parseOpts    []parser.Option
	logger       zerolog.Logger

	// Channels
	jobQueue   chan *Job
	resultChan chan *Result

	// Control
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	quit     chan struct{} // Closed by Shutdown; wakes blocked submitters
	submitMu sync.RWMutex  // Held shared by Submit, exclusively to close jobQueue

	// State
	started    int32 // atomic
	stopped    int32 // atomic
	activeJobs int32 // atomic

	// Statistics
	stats      Stats
	statsMutex sync.RWMutex
}

// worker is a single worker goroutine
type worker struct {
	id         int
	pool       *Pool
	jobQueue   <-chan *Job
	resultChan chan<- *Result
}

// NewPool creates a worker pool. A non-positive worker count selects one
// worker per CPU.
func NewPool(cfg config.BatchConfig, logger zerolog.Logger, opts ...parser.Option) *Pool {
	numWorkers := cfg.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Pool{
		numWorkers:   numWorkers,
		jobBuffer:    cfg.JobBuffer,
		resultBuffer: cfg.ResultBuffer,
		parseOpts:    opts,
		logger:       logger.With().Str("component", "batch").Logger(),
	}
}

// Start launches the workers. They stop when ctx is cancelled or after
// Shutdown.
func (p *Pool) Start(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&p.started, 0, 1) {
		return fmt.Errorf("worker pool already started")
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.jobQueue = make(chan *Job, p.jobBuffer)
	p.quit = make(chan struct{})
	p.resultChan = make(chan *Result, p.resultBuffer)
	p.stats = Stats{WorkerCount: p.numWorkers}

	for i := 0; i < p.numWorkers; i++ {
		w := &worker{
			id:         i,
			pool:       p,
			jobQueue:   p.jobQueue,
			resultChan: p.resultChan,
		}
		p.wg.Add(1)
		go w.run(p.ctx)
	}
	p.logger.Debug().Int("workers", p.numWorkers).Msg("worker pool started")
	return nil
}

// Submit queues a job, blocking while the queue is full. It is safe to
// call concurrently with Shutdown.
func (p *Pool) Submit(job *Job) error {
	if atomic.LoadInt32(&p.started) == 0 {
		return fmt.Errorf("worker pool not started")
	}
	p.submitMu.RLock()
	defer p.submitMu.RUnlock()
	if atomic.LoadInt32(&p.stopped) == 1 {
		return errStopped
	}

	// Counted before the send: a worker may finish the job before select returns.
	atomic.AddInt32(&p.activeJobs, 1)
	select {
	case p.jobQueue <- job:
		p.statsMutex.Lock()
		p.stats.TotalJobs++
		p.statsMutex.Unlock()
		return nil
	case <-p.quit:
		atomic.AddInt32(&p.activeJobs, -1)
		return errStopped
	case <-p.ctx.Done():
		atomic.AddInt32(&p.activeJobs, -1)
		return p.ctx.Err()
	}
}

var errStopped = fmt.Errorf("worker pool stopped")

// Results returns the channel of parse results. It is closed once
// Shutdown has stopped every worker.
func (p *Pool) Results() <-chan *Result {
	return p.resultChan
}

// Shutdown stops accepting jobs and waits for the queued ones to finish.
// If ctx expires first, the workers are cancelled between jobs and the
// remaining queued jobs are dropped.
func (p *Pool) Shutdown(ctx context.Context) error {
	if atomic.LoadInt32(&p.started) == 0 {
		return fmt.Errorf("worker pool not started")
	}
	if !atomic.CompareAndSwapInt32(&p.stopped, 0, 1) {
		return fmt.Errorf("worker pool already stopped")
	}

	close(p.quit)
	p.submitMu.Lock()
	close(p.jobQueue)
	p.submitMu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		p.cancel()
		<-done
		err = ctx.Err()
	}
	p.cancel()
	close(p.resultChan)
	p.logger.Debug().Err(err).Msg("worker pool stopped")
	return err
}

// HasActiveJobs returns true if there are jobs in progress
func (p *Pool) HasActiveJobs() bool {
	return atomic.LoadInt32(&p.activeJobs) > 0
}

// Stats returns current worker pool statistics
func (p *Pool) Stats() Stats {
	p.statsMutex.RLock()
	defer p.statsMutex.RUnlock()

	stats := p.stats
	stats.ActiveJobs = int(atomic.LoadInt32(&p.activeJobs))
	return stats
}

// run is the main worker loop. Cancellation is observed only between jobs.
func (w *worker) run(ctx context.Context) {
	defer w.pool.wg.Done()

	for {
		select {
		case job, ok := <-w.jobQueue:
			if !ok {
				return
			}
			if ctx.Err() != nil {
				atomic.AddInt32(&w.pool.activeJobs, -1)
				return
			}

			result := w.processJob(job)
			w.record(result)
			atomic.AddInt32(&w.pool.activeJobs, -1)

			select {
			case w.resultChan <- result:
			case <-ctx.Done():
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func (w *worker) record(result *Result) {
	p := w.pool
	p.statsMutex.Lock()
	defer p.statsMutex.Unlock()
	if result.HasErrors() {
		p.stats.FailedJobs++
	} else {
		p.stats.CompletedJobs++
	}
	p.stats.TotalTime += result.Duration
	if n := p.stats.CompletedJobs + p.stats.FailedJobs; n > 0 {
		p.stats.AverageTime = p.stats.TotalTime / time.Duration(n)
	}
}

// processJob parses a single file with a lexer and parser of its own.
func (w *worker) processJob(job *Job) *Result {
	start := time.Now()
	file := job.Source.DisplayPath()
	w.pool.logger.Debug().Str("job", job.ID.String()).Str("file", file).Int("worker", w.id).Msg("parse started")

	p := parser.NewParser(lexer.NewLexerWithSource(job.Source), w.pool.parseOpts...)
	program, diags := p.ParseProgram()

	result := &Result{
		JobID:       job.ID,
		Index:       job.Index,
		File:        file,
		Program:     program,
		Diagnostics: diags,
		Imports:     ExtractImports(program),
		WorkerID:    w.id,
		Duration:    time.Since(start),
		Timestamp:   start,
	}
	w.pool.logger.Debug().
		Str("job", job.ID.String()).
		Str("file", file).
		Int("worker", w.id).
		Dur("duration", result.Duration).
		Int("diagnostics", len(diags)).
		Msg("parse finished")
	return result
}

// ExtractImports lists the module specifiers a file refers to: import
// clauses, re-exports, string-literal dynamic imports and the names of
// ambient module declarations. Each specifier appears once, in source
// order.
func ExtractImports(program *parser.Program) []string {
	var specs []string
	seen := make(map[string]bool)
	add := func(lit *parser.StringLiteral) {
		if lit != nil && !seen[lit.Value] {
			seen[lit.Value] = true
			specs = append(specs, lit.Value)
		}
	}

	parser.Inspect(program, func(n parser.Node) bool {
		switch node := n.(type) {
		case *parser.ImportClause:
			add(node.ModuleSpecifier)
		case *parser.ExportDeclaration:
			add(node.ModuleSpecifier)
		case *parser.ModuleDeclaration:
			if node.Kind == parser.ModuleAmbient {
				add(node.Name)
			}
		case *parser.ImportCall:
			if lit, ok := node.Argument.(*parser.StringLiteral); ok {
				add(lit)
			}
		}
		return true
	})
	return specs
}
