package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/yaklabco/thesismd/pkg/fsutil"
	"github.com/yaklabco/thesismd/pkg/thesislint"
)

// Runner orchestrates multi-file linting with a thesislint.Engine.
type Runner struct {
	Engine *thesislint.Engine
}

// New creates a new Runner over the given engine.
func New(engine *thesislint.Engine) *Runner {
	return &Runner{Engine: engine}
}

// Run discovers files under opts.Paths and lints them concurrently.
// Outcomes are returned in the sorted discovery order regardless of which
// worker finished first.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)

	outcomes := ForEach(ctx, files, opts.Jobs, func(ctx context.Context, path string) FileOutcome {
		return r.lintFile(ctx, path, opts)
	})

	for _, outcome := range outcomes {
		if outcome.Path != "" {
			result.accumulate(outcome)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}

	return result, nil
}

func (r *Runner) lintFile(ctx context.Context, path string, opts Options) FileOutcome {
	outcome := FileOutcome{Path: path}

	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}

	fr, err := r.Engine.LintFile(ctx, path, content, opts.Config)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Result = fr

	return outcome
}

// ForEach calls fn for every item using at most jobs workers and returns
// the results in input order. Items not reached before ctx is cancelled
// keep the zero value. jobs <= 0 means runtime.NumCPU().
func ForEach[T any](ctx context.Context, items []string, jobs int, fn func(context.Context, string) T) []T {
	results := make([]T, len(items))
	if len(items) == 0 {
		return results
	}

	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(items))

	workCh := make(chan int)
	var wg sync.WaitGroup

	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range workCh {
				if ctx.Err() != nil {
					continue
				}
				// Each index is written by exactly one worker.
				results[idx] = fn(ctx, items[idx])
			}
		}()
	}

	func() {
		defer close(workCh)
		for idx := range items {
			select {
			case <-ctx.Done():
				return
			case workCh <- idx:
			}
		}
	}()

	wg.Wait()
	return results
}
