package cache

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/transitlab/graphrag/rag"
)

// GetCommunities loads a cached community set.
func GetCommunities(ctx context.Context, c Cache, key string) ([]*rag.Community, bool, error) {
	payload, found, err := c.Get(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}
	var communities []*rag.Community
	if err := json.Unmarshal(payload, &communities); err != nil {
		return nil, false, errors.Wrap(err, "decode cached communities")
	}
	return communities, true, nil
}

// PutCommunities stores a community set.
func PutCommunities(ctx context.Context, c Cache, key string, communities []*rag.Community) error {
	payload, err := json.Marshal(communities)
	if err != nil {
		return errors.Wrap(err, "encode communities")
	}
	return c.Put(ctx, key, payload)
}

// GetSummary loads a cached community summary.
func GetSummary(ctx context.Context, c Cache, key string) (*rag.CommunitySummary, bool, error) {
	payload, found, err := c.Get(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}
	var summary rag.CommunitySummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, false, errors.Wrap(err, "decode cached summary")
	}
	return &summary, true, nil
}

// PutSummary stores a community summary.
func PutSummary(ctx context.Context, c Cache, key string, summary *rag.CommunitySummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return errors.Wrap(err, "encode summary")
	}
	return c.Put(ctx, key, payload)
}
