package core

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Task produces one recognition result. Tasks handed to a Runner are
// independent of each other.
type Task func(ctx context.Context) (*OcrResponse, error)

// Runner executes tasks and returns their results in input order:
// results[i] belongs to tasks[i].
//
// Runners are fail-fast: the first error aborts the batch and is returned
// with a nil result slice.
type Runner interface {
	Run(ctx context.Context, tasks []Task) ([]*OcrResponse, error)
}

// SequentialRunner runs tasks one at a time in order.
type SequentialRunner struct{}

// Run executes tasks in order and stops at the first error.
func (SequentialRunner) Run(ctx context.Context, tasks []Task) ([]*OcrResponse, error) {
	results := make([]*OcrResponse, 0, len(tasks))
	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := task(ctx)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// ConcurrentRunner runs tasks on separate goroutines.
// Limit bounds the number of tasks in flight; zero or negative means unbounded.
// When a task fails the context passed to the remaining tasks is cancelled.
type ConcurrentRunner struct {
	Limit int
}

// Run executes tasks concurrently and joins the results back into input order.
func (r ConcurrentRunner) Run(ctx context.Context, tasks []Task) ([]*OcrResponse, error) {
	results := make([]*OcrResponse, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	if r.Limit > 0 {
		g.SetLimit(r.Limit)
	}

	for i, task := range tasks {
		g.Go(func() error {
			res, err := task(gctx)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Compile-time checks.
var (
	_ Runner = SequentialRunner{}
	_ Runner = ConcurrentRunner{}
)
