package rag

import "github.com/pkg/errors"

var (
	// ErrGraphUnavailable wraps failures reading the transport graph.
	ErrGraphUnavailable = errors.New("graph store unavailable")

	// ErrNoCommunities means detection produced nothing to analyze for the
	// requested dimension and scope.
	ErrNoCommunities = errors.New("no communities detected")

	// ErrGenerationUnavailable means the language model rejected or failed
	// a call after retries were exhausted.
	ErrGenerationUnavailable = errors.New("generation unavailable")

	// ErrGenerationTimeout means the call deadline expired before the
	// model responded.
	ErrGenerationTimeout = errors.New("generation timed out")

	// ErrSummaryUnavailable means a community summary could not be
	// produced and no fallback was requested.
	ErrSummaryUnavailable = errors.New("summary unavailable")

	// ErrCacheCorrupt means a cache entry failed integrity checks and was
	// quarantined.
	ErrCacheCorrupt = errors.New("cache entry corrupt")
)
