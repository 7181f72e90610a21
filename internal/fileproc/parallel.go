// Package fileproc provides concurrent file processing utilities.
package fileproc

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/panbanda/scry/pkg/ast/treesitter"
)

// ProcessingError represents an error that occurred while processing a file.
type ProcessingError struct {
	Path string
	Err  error
}

func (e ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e ProcessingError) Unwrap() error {
	return e.Err
}

// ProcessingErrors collects multiple file processing errors.
type ProcessingErrors struct {
	Errors []ProcessingError
	mu     sync.Mutex
}

// Add appends an error to the collection (thread-safe).
func (e *ProcessingErrors) Add(path string, err error) {
	e.mu.Lock()
	e.Errors = append(e.Errors, ProcessingError{Path: path, Err: err})
	e.mu.Unlock()
}

// HasErrors returns true if any errors were collected.
func (e *ProcessingErrors) HasErrors() bool {
	if e == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Errors) > 0
}

// Error implements the error interface.
func (e *ProcessingErrors) Error() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d files failed to process (first: %v)", len(e.Errors), e.Errors[0])
}

// DefaultWorkerMultiplier is the multiplier applied to NumCPU for worker count.
const DefaultWorkerMultiplier = 2

// ProgressFunc is called after each file is processed.
type ProgressFunc func()

// ErrorFunc is called when a file processing error occurs.
type ErrorFunc func(path string, err error)

// Options configures a MapFiles run. The zero value uses 2x NumCPU workers
// and no callbacks.
type Options struct {
	MaxWorkers int
	OnProgress ProgressFunc
	OnError    ErrorFunc
}

func (o Options) workers() int {
	if o.MaxWorkers > 0 {
		return o.MaxWorkers
	}
	return runtime.NumCPU() * DefaultWorkerMultiplier
}

// MapFiles processes files in parallel, calling fn for each file with a
// dedicated tree-sitter provider. Results keep the order of files; entries
// whose fn failed or that were cancelled hold the zero value and are
// reported in the returned ProcessingErrors (nil when every file succeeded).
func MapFiles[T any](ctx context.Context, files []string, opts Options, fn func(*treesitter.Provider, string) (T, error)) ([]T, *ProcessingErrors) {
	return run(ctx, files, opts, func(path string) (T, error) {
		provider := treesitter.New()
		defer provider.Close()
		return fn(provider, path)
	})
}

// ForEachFile processes files in parallel without a parser. Results keep
// the order of files.
func ForEachFile[T any](ctx context.Context, files []string, opts Options, fn func(string) (T, error)) ([]T, *ProcessingErrors) {
	return run(ctx, files, opts, fn)
}

func run[T any](ctx context.Context, files []string, opts Options, fn func(string) (T, error)) ([]T, *ProcessingErrors) {
	if len(files) == 0 {
		return nil, nil
	}

	results := make([]T, len(files))
	errs := &ProcessingErrors{}

	fail := func(path string, err error) {
		errs.Add(path, err)
		if opts.OnError != nil {
			opts.OnError(path, err)
		}
	}

	p := pool.New().WithMaxGoroutines(opts.workers()).WithContext(ctx)
	for i, path := range files {
		p.Go(func(ctx context.Context) error {
			defer func() {
				if opts.OnProgress != nil {
					opts.OnProgress()
				}
			}()

			if err := ctx.Err(); err != nil {
				fail(path, err)
				return nil
			}

			result, err := fn(path)
			if err != nil {
				fail(path, err)
				return nil
			}
			results[i] = result
			return nil
		})
	}
	_ = p.Wait()

	if !errs.HasErrors() {
		return results, nil
	}
	return results, errs
}
