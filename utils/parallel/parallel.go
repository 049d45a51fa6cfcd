package parallel

import (
	"context"
	"sync"
)

// Parallel runs fn for indexes [0, times) with at most concurrency goroutines
// and returns the collected results in index order.
func Parallel(fn func(int) any, times, concurrency int) []any {
	var wg sync.WaitGroup
	var results = make([]any, times)
	c := make(chan struct{}, concurrency)
	for i := 0; i < times; i++ {
		wg.Add(1)
		c <- struct{}{}
		go func(index int) {
			defer wg.Done()
			results[index] = fn(index)
			<-c
		}(i)
	}

	wg.Wait()
	close(c)
	return results
}

// ParallelCtx is like Parallel but stops launching new tasks once ctx is
// done. In-flight tasks run to completion; slots whose task never started
// keep a nil result. The returned error is ctx.Err() when the fan-out was
// cut short, nil otherwise.
func ParallelCtx(ctx context.Context, fn func(context.Context, int) any, times, concurrency int) ([]any, error) {
	var wg sync.WaitGroup
	var results = make([]any, times)
	c := make(chan struct{}, concurrency)

	var ctxErr error
	for i := 0; i < times; i++ {
		select {
		case <-ctx.Done():
			ctxErr = ctx.Err()
		case c <- struct{}{}:
		}
		if ctxErr != nil {
			break
		}
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			results[index] = fn(ctx, index)
			<-c
		}(i)
	}

	wg.Wait()
	close(c)
	return results, ctxErr
}
