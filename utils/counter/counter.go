package counter

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Counter tracks progress of a long-running batch and logs throughput.
type Counter struct {
	count     int
	total     int
	mutex     sync.Mutex
	desc      string
	log       *zap.SugaredLogger
	startTime time.Time
}

func NewCounter(opts ...Option) *Counter {
	options := &Options{
		log: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Counter{
		count:     0,
		total:     options.total,
		desc:      options.desc,
		log:       options.log,
		startTime: time.Now(),
	}
}

func (c *Counter) Add() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.count++
	fields := []any{
		"done", c.count,
		"total", c.total,
	}
	// Throughput is meaningless before the clock has advanced.
	if elapsed := time.Since(c.startTime).Seconds(); elapsed > 0 {
		speed := float64(c.count) / elapsed
		fields = append(fields,
			"per_second", speed,
			"eta_seconds", float64(c.total-c.count)/speed,
		)
	}
	c.log.Infow(c.desc, fields...)
}

// Count returns the number of completed items.
func (c *Counter) Count() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.count
}
