// Package cache provides a persistent, parameter-keyed store for detected
// communities and generated summaries. Keys are namespaced so that each
// artifact kind can be inspected and invalidated independently:
//
//	community/<dimension>/<scope>/<hash>
//	summary/<communityID>/<provider>/<promptVersion>
//	quarantine/<original key>
//
// The hash component is a canonical digest of the detection parameters, so
// logically identical parameter sets map to the same entry regardless of
// the order the caller supplied them in.
package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
)

const (
	// PrefixCommunity namespaces community set entries.
	PrefixCommunity = "community/"
	// PrefixSummary namespaces community summary entries.
	PrefixSummary = "summary/"
	// PrefixQuarantine holds entries that failed integrity checks.
	PrefixQuarantine = "quarantine/"
)

// Stats reports cache contents by namespace.
type Stats struct {
	CommunityEntries  int   `json:"community_entries"`
	SummaryEntries    int   `json:"summary_entries"`
	QuarantineEntries int   `json:"quarantine_entries"`
	TotalBytes        int64 `json:"total_bytes"`
}

// ValidationReport is the outcome of an integrity scan.
type ValidationReport struct {
	Healthy     int      `json:"healthy"`
	Corrupt     int      `json:"corrupt"`
	Quarantined []string `json:"quarantined,omitempty"`
}

// Cache is a namespaced key-value store with integrity checking.
type Cache interface {
	// Get returns the payload for key, or found=false on a miss. A corrupt
	// entry is quarantined and reported as a miss with a non-nil error.
	Get(ctx context.Context, key string) (payload []byte, found bool, err error)
	// Put stores payload under key, replacing any previous entry.
	Put(ctx context.Context, key string, payload []byte) error
	// Invalidate removes one entry. Removing a missing key is not an error.
	Invalidate(ctx context.Context, key string) error
	// InvalidatePrefix removes every entry under prefix and returns the
	// number removed.
	InvalidatePrefix(ctx context.Context, prefix string) (int, error)
	// Clear removes all entries, the quarantine included.
	Clear(ctx context.Context) (int, error)
	// Stats counts entries by namespace.
	Stats(ctx context.Context) (*Stats, error)
	// Validate scans all live entries, quarantines corrupt ones, and
	// reports counts.
	Validate(ctx context.Context) (*ValidationReport, error)
	// Close releases the underlying store.
	Close() error
}

// ParamsHash digests a parameter set into a fixed hex string. Pairs are
// sorted by key before hashing so insertion order never changes the digest.
func ParamsHash(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
		b.WriteByte(';')
	}
	sum := sha256.Sum256([]byte(b.String()))
	return fmt.Sprintf("%x", sum[:16])
}

// CommunityKey builds the cache key for a detected community set.
func CommunityKey(dimension, scope string, params map[string]string) string {
	return PrefixCommunity + dimension + "/" + scope + "/" + ParamsHash(params)
}

// SummaryKey builds the cache key for one community's summary under one
// provider and prompt revision.
func SummaryKey(communityID, provider, promptVersion string) string {
	return PrefixSummary + communityID + "/" + provider + "/" + promptVersion
}
