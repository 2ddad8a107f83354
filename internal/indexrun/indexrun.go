// Package indexrun drives one pass over a set of files: parse each
// through the language registry, buffer its symbols, and write them into
// the store with one transaction per file. The optional worker pool is
// grounded on providers/golang/pipeline.go's transformChan/resultChan
// fan-out/fan-in, generalized from per-node transform jobs to per-file
// parse jobs.
package indexrun

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ebcode/sourceminder/internal/buffer"
	"github.com/ebcode/sourceminder/internal/extract"
	"github.com/ebcode/sourceminder/internal/filter"
	"github.com/ebcode/sourceminder/internal/lang"
	"github.com/ebcode/sourceminder/internal/metrics"
	"github.com/ebcode/sourceminder/internal/store"
)

// Options configures one indexing run.
type Options struct {
	Registry *lang.Registry
	Filter   *filter.Filter
	Store    *store.Store
	Root     string
	Workers  int // 0 or 1 = single-threaded per spec.md §5's default
	Metrics  bool
	Log      *slog.Logger
}

// Result tallies the outcome of a run for the CLI's summary line.
type Result struct {
	FilesIndexed int
	FilesFailed  int
	SymbolsTotal int
}

// Run indexes every file, single-threaded by default or fanned out across
// Options.Workers goroutines when set above 1.
func Run(ctx context.Context, files []string, opts Options) Result {
	if opts.Workers <= 1 {
		return runSequential(ctx, files, opts)
	}
	return runParallel(ctx, files, opts)
}

func runSequential(ctx context.Context, files []string, opts Options) Result {
	var res Result
	for _, f := range files {
		select {
		case <-ctx.Done():
			return res
		default:
		}
		n, err := indexOne(f, opts)
		if err != nil {
			res.FilesFailed++
			opts.Log.Warn("index file failed", "file", f, "error", err)
			continue
		}
		res.FilesIndexed++
		res.SymbolsTotal += n
	}
	return res
}

type parseJob struct {
	path string
}

type parseResult struct {
	path    string
	symbols int
	err     error
}

func runParallel(ctx context.Context, files []string, opts Options) Result {
	jobs := make(chan parseJob, len(files))
	results := make(chan parseResult, len(files))

	var wg sync.WaitGroup
	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				n, err := indexOne(job.path, opts)
				results <- parseResult{path: job.path, symbols: n, err: err}
			}
		}()
	}

	for _, f := range files {
		jobs <- parseJob{path: f}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	var res Result
	for r := range results {
		if r.err != nil {
			res.FilesFailed++
			opts.Log.Warn("index file failed", "file", r.path, "error", r.err)
			continue
		}
		res.FilesIndexed++
		res.SymbolsTotal += r.symbols
	}
	return res
}

// indexOne parses one file, buffers its symbols, and atomically replaces
// its rows in the store. The parse tree is released before returning,
// regardless of outcome.
func indexOne(path string, opts Options) (symbols int, err error) {
	start := time.Now()
	defer func() {
		if !opts.Metrics {
			return
		}
		if err != nil {
			metrics.FilesFailed.Inc()
			return
		}
		metrics.FilesIndexed.Inc()
		metrics.SymbolsEmitted.Add(float64(symbols))
		metrics.IndexDuration.Observe(time.Since(start).Seconds())
	}()

	src, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}

	d, ok := opts.Registry.ForFile(path)
	if !ok {
		return 0, lang.ErrUnknownExtension(filepath.Ext(path))
	}

	directory, filename := extract.CleanPath(opts.Root, path)
	buf := buffer.New(64)
	ctx := &lang.EmitContext{
		Lang: d.Language(), Directory: directory, Filename: filename,
		Filter: opts.Filter, Buf: buf, Source: src,
	}

	if err := lang.Dispatch(d, src, ctx); err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}

	rows := buf.Rows()
	if err := opts.Store.ReplaceFile(directory, filename, rows); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	return len(rows), nil
}
