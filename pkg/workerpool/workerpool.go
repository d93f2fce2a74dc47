// Package workerpool bounds the concurrency of batch operations.
package workerpool

import (
	"context"
	"runtime"
	"sync"
)

// Run invokes fn once per item on at most workers goroutines. The first
// error cancels the remaining work and is returned; fn receives the item's
// index so callers can write results into a pre-sized slice without locks.
// A non-positive worker count defaults to GOMAXPROCS.
func Run[T any](ctx context.Context, workers int, items []T, fn func(ctx context.Context, index int, item T) error) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(items) {
		workers = len(items)
	}
	if len(items) == 0 {
		return ctx.Err()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	indexes := make(chan int)
	errs := make(chan error, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				if err := fn(ctx, i, items[i]); err != nil {
					select {
					case errs <- err:
					default:
					}
					cancel()
					return
				}
			}
		}()
	}

	go func() {
		defer close(indexes)
		for i := range items {
			select {
			case <-ctx.Done():
				return
			case indexes <- i:
			}
		}
	}()

	wg.Wait()
	close(errs)

	if err := <-errs; err != nil {
		return err
	}
	return ctx.Err()
}
