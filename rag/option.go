package rag

import "go.uber.org/zap"

const (
	_defaultMinCommunitySize        = 2
	_defaultMaxCommunitiesPerQuery  = 20
	_defaultGlobalQuestionThreshold = 3
	_defaultLLMCallConcurrency      = 6
)

// DefaultSnapshotYears are the reference years for snapshot communities.
var DefaultSnapshotYears = []int{1946, 1950, 1961, 1970, 1975, 1980, 1989}

// Config carries the tunables shared by detection, summarization and query
// answering.
type Config struct {
	MinCommunitySize          int
	MaxCommunitiesPerQuery    int
	GlobalQuestionThreshold   int
	LLMCallConcurrency        int
	LLMCallsPerSecond         float64
	LLMCallBurst              int64
	ParallelSummaryGeneration bool
	PromptVersion             string
	SnapshotYears             []int
	Logger                    *zap.SugaredLogger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns a Config with production defaults and a no-op
// logger.
func DefaultConfig() *Config {
	return &Config{
		MinCommunitySize:          _defaultMinCommunitySize,
		MaxCommunitiesPerQuery:    _defaultMaxCommunitiesPerQuery,
		GlobalQuestionThreshold:   _defaultGlobalQuestionThreshold,
		LLMCallConcurrency:        _defaultLLMCallConcurrency,
		ParallelSummaryGeneration: true,
		PromptVersion:             DefaultPromptVersion,
		SnapshotYears:             DefaultSnapshotYears,
		Logger:                    zap.NewNop().Sugar(),
	}
}

// WithMinCommunitySize drops communities smaller than n at detection time.
func WithMinCommunitySize(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MinCommunitySize = n
		}
	}
}

// WithMaxCommunitiesPerQuery caps the communities analyzed per global query.
func WithMaxCommunitiesPerQuery(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxCommunitiesPerQuery = n
		}
	}
}

// WithGlobalQuestionThreshold sets the keyword score at or above which a
// question routes to the global path.
func WithGlobalQuestionThreshold(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.GlobalQuestionThreshold = n
		}
	}
}

// WithRateLimit bounds model calls to rate per second with the given burst.
// A non-positive rate disables limiting.
func WithRateLimit(rate float64, burst int64) Option {
	return func(c *Config) {
		c.LLMCallsPerSecond = rate
		c.LLMCallBurst = burst
	}
}

// WithLLMCallConcurrency bounds concurrent model calls during map and
// summary generation.
func WithLLMCallConcurrency(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.LLMCallConcurrency = n
		}
	}
}

// WithParallelSummaryGeneration toggles concurrent summary generation.
func WithParallelSummaryGeneration(b bool) Option {
	return func(c *Config) { c.ParallelSummaryGeneration = b }
}

// WithPromptVersion tags summary cache keys with a prompt revision.
func WithPromptVersion(v string) Option {
	return func(c *Config) {
		if v != "" {
			c.PromptVersion = v
		}
	}
}

// WithSnapshotYears overrides the reference years for snapshot communities.
func WithSnapshotYears(years []int) Option {
	return func(c *Config) {
		if len(years) > 0 {
			c.SnapshotYears = years
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Config) {
		if log != nil {
			c.Logger = log
		}
	}
}
