package simulation

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job runs one independent simulation. index is the job's position in the batch
// and is what seeds must be derived from, so results do not depend on scheduling.
type Job[T any] func(ctx context.Context, index int) (T, error)

// Runner is a fixed-size worker pool. Every job owns its own game, so workers
// share nothing.
type Runner struct {
	Workers int
	logger  *zap.Logger
}

// NewRunner creates a runner; workers <= 0 means one per CPU.
func NewRunner(workers int, logger *zap.Logger) *Runner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{Workers: workers, logger: logger}
}

type result[T any] struct {
	index int
	value T
	err   error
}

// Run executes n jobs on the pool and returns their results in job order. The
// first failing job cancels the rest and its error is returned.
func Run[T any](ctx context.Context, r *Runner, name string, n int, job Job[T]) ([]T, error) {
	if n <= 0 {
		return nil, nil
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	start := time.Now()
	tasks := make(chan int, n)
	results := make(chan result[T], n)

	var wg sync.WaitGroup
	for range min(r.Workers, n) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range tasks {
				if err := ctx.Err(); err != nil {
					results <- result[T]{index: i, err: err}
					continue
				}
				v, err := job(ctx, i)
				if err != nil {
					cancel()
				}
				results <- result[T]{index: i, value: v, err: err}
			}
		}()
	}

	for i := range n {
		tasks <- i
	}
	close(tasks)

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]T, n)
	var firstErr error
	for res := range results {
		if res.err != nil {
			// A job's own failure wins over the cancellations it caused.
			if firstErr == nil || errors.Is(firstErr, context.Canceled) && !errors.Is(res.err, context.Canceled) {
				firstErr = res.err
			}
			cancel()
			continue
		}
		out[res.index] = res.value
	}
	if firstErr != nil {
		r.logger.Warn("batch failed", zap.String("batch", name), zap.Error(firstErr))
		return nil, firstErr
	}
	r.logger.Info("batch done",
		zap.String("batch", name),
		zap.Int("jobs", n),
		zap.Int("workers", min(r.Workers, n)),
		zap.Duration("elapsed", time.Since(start)))
	return out, nil
}
