// Package workerpool runs a function over a slice of items with bounded
// concurrency.
package workerpool

import (
	"context"
	"errors"
	"sync"
)

// Run executes fn for each item in items using up to workers goroutines and
// waits for all of them. Items not yet started when ctx is cancelled are
// skipped and reported through ctx.Err(). Every error returned by fn is
// included in the joined result.
func Run[T any](ctx context.Context, items []T, workers int, fn func(context.Context, T) error) error {
	if len(items) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = 1
	}

	sem := make(chan struct{}, workers)
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for _, item := range items {
		if ctx.Err() == nil {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
			}
		}
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return errors.Join(append(errs, err)...)
		}

		wg.Add(1)
		go func(it T) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := fn(ctx, it); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(item)
	}

	wg.Wait()
	return errors.Join(errs...)
}
