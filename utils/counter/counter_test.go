package counter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestAddCounts(t *testing.T) {
	c := NewCounter(WithTotal(3), WithDesc("progress"))
	c.Add()
	c.Add()
	assert.Equal(t, 2, c.Count())
}

func TestAddNeverLogsInfiniteThroughput(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	c := NewCounter(
		WithTotal(2),
		WithDesc("progress"),
		WithLogger(zap.New(core).Sugar()),
	)

	// Immediately after construction the clock may not have advanced.
	c.Add()

	entries := logs.All()
	require.Len(t, entries, 1)
	for key, v := range entries[0].ContextMap() {
		if key != "per_second" && key != "eta_seconds" {
			continue
		}
		f, ok := v.(float64)
		require.True(t, ok, key)
		assert.False(t, math.IsInf(f, 0), key)
		assert.False(t, math.IsNaN(f), key)
	}
}
