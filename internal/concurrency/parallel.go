package concurrency

import (
	"context"
	"sync"
)

// ParallelOptions configures bounded parallel processing.
type ParallelOptions struct {
	MaxWorkers int
}

func DefaultOptions() ParallelOptions {
	return ParallelOptions{MaxWorkers: 10}
}

// ProcessParallel runs itemFunc over items using at most MaxWorkers
// goroutines. Results come back in input order. Individual failures are
// collected and returned alongside the results; they never abort the batch,
// so a partially failed fan-out still yields every successful item.
func ProcessParallel[T any, R any](
	ctx context.Context,
	items []T,
	opts ParallelOptions,
	itemFunc func(ctx context.Context, index int, item T) (R, error),
) ([]R, []error) {
	if len(items) == 0 {
		return []R{}, nil
	}

	maxWorkers := opts.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = DefaultOptions().MaxWorkers
	}
	if maxWorkers > len(items) {
		maxWorkers = len(items)
	}

	type outcome struct {
		index  int
		result R
		err    error
	}

	jobs := make(chan int, len(items))
	results := make(chan outcome, len(items))

	var wg sync.WaitGroup
	for w := 0; w < maxWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					results <- outcome{index: i, err: err}
					continue
				}
				r, err := itemFunc(ctx, i, items[i])
				results <- outcome{index: i, result: r, err: err}
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]R, len(items))
	var errs []error
	for i := 0; i < len(items); i++ {
		o := <-results
		if o.err != nil {
			errs = append(errs, o.err)
		}
		out[o.index] = o.result
	}

	return out, errs
}
