package parallel

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParallelPreservesOrder(t *testing.T) {
	results := Parallel(func(i int) any { return i * i }, 8, 3)
	require.Len(t, results, 8)
	for i, r := range results {
		assert.Equal(t, i*i, r)
	}
}

func TestParallelBoundsConcurrency(t *testing.T) {
	var inFlight, peak int32
	Parallel(func(i int) any {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return nil
	}, 10, 2)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestParallelCtxRunsToCompletion(t *testing.T) {
	results, err := ParallelCtx(context.Background(), func(ctx context.Context, i int) any {
		return i + 1
	}, 5, 2)
	require.NoError(t, err)
	for i, r := range results {
		assert.Equal(t, i+1, r)
	}
}

func TestParallelCtxStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var started int32
	results, err := ParallelCtx(ctx, func(ctx context.Context, i int) any {
		atomic.AddInt32(&started, 1)
		if i == 0 {
			cancel()
		}
		time.Sleep(5 * time.Millisecond)
		return i
	}, 100, 1)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, atomic.LoadInt32(&started), int32(100))
	// Slots whose task never started stay nil.
	assert.Nil(t, results[99])
}
