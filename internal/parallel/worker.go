// Package parallel provides parallel processing utilities for vault export
// fan-out, generalizing the original sync worker pool to cancel remaining
// work once the first error is seen rather than letting every in-flight
// task run to completion regardless of outcome.
package parallel

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Pool bounds how many tasks run concurrently.
type Pool struct {
	concurrency int
}

// NewPool creates a new Pool with the given concurrency. Values below 1
// are treated as 1.
func NewPool(concurrency int) *Pool {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pool{concurrency: concurrency}
}

// Task is one unit of work's outcome: the input it was given, and either
// a nil error or the failure that occurred processing it.
type Task[T any] struct {
	Input T
	Err   error
}

// Process runs fn over every item in inputs, bounded to the pool's
// concurrency. As soon as any call to fn returns an error, the pool stops
// starting new work — per §5's "stop accepting new work on first error"
// rule — but tasks already in flight are allowed to finish naturally
// rather than being forcibly killed. Process returns every task's outcome,
// in input order, and the first error encountered (nil if none).
func Process[T any](ctx context.Context, pool *Pool, inputs []T, fn func(context.Context, T) error) ([]Task[T], error) {
	results := make([]Task[T], len(inputs))
	for i, in := range inputs {
		results[i].Input = in
	}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(pool.concurrency)

	for i, in := range inputs {
		i, in := i, in
		group.Go(func() error {
			select {
			case <-gctx.Done():
				results[i].Err = gctx.Err()
				return nil
			default:
			}
			err := fn(gctx, in)
			results[i].Err = err
			return err
		})
	}

	firstErr := group.Wait()
	return results, firstErr
}

// ProcessWithProgress is Process plus a progress callback invoked after
// each task completes, reporting how many of the total have finished so
// far (successfully or not).
func ProcessWithProgress[T any](
	ctx context.Context,
	pool *Pool,
	inputs []T,
	fn func(context.Context, T) error,
	progress func(completed, total int),
) ([]Task[T], error) {
	results := make([]Task[T], len(inputs))
	for i, in := range inputs {
		results[i].Input = in
	}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(pool.concurrency)

	total := len(inputs)
	var completed atomic.Int32

	for i, in := range inputs {
		i, in := i, in
		group.Go(func() error {
			select {
			case <-gctx.Done():
				results[i].Err = gctx.Err()
				return nil
			default:
			}
			err := fn(gctx, in)
			results[i].Err = err
			n := completed.Add(1)
			if progress != nil {
				progress(int(n), total)
			}
			return err
		})
	}

	firstErr := group.Wait()
	return results, firstErr
}
