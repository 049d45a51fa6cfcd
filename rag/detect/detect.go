// Package detect partitions the transport graph into communities along four
// dimensions: geographic containment, operational topology, temporal
// activity and service type. Detection is deterministic, identical inputs
// always produce identical community ids and membership, which the cache
// layer depends on.
package detect

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/transitlab/graphrag/graphstore"
	"github.com/transitlab/graphrag/rag"
)

type detectFunc func(ctx context.Context, d *Detector, scope rag.YearScope) ([]*rag.Community, error)

// dispatch maps each dimension to its detection function.
var dispatch = map[rag.Dimension]detectFunc{
	rag.DimensionGeographic:  detectGeographic,
	rag.DimensionOperational: detectOperational,
	rag.DimensionTemporal:    detectTemporal,
	rag.DimensionServiceType: detectServiceType,
}

// Detector reads the graph store and produces communities.
type Detector struct {
	store graphstore.Store
	cfg   *rag.Config
	log   *zap.SugaredLogger
}

// NewDetector builds a Detector over a graph store.
func NewDetector(store graphstore.Store, opts ...rag.Option) (*Detector, error) {
	if store == nil {
		return nil, errors.New("graph store is required")
	}
	cfg := rag.DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Detector{store: store, cfg: cfg, log: cfg.Logger}, nil
}

// Detect partitions the graph along one dimension. Communities smaller than
// the configured minimum are dropped and logged, never merged. Missing
// optional data degrades to fewer communities, only graph store failures
// surface as errors.
func (d *Detector) Detect(ctx context.Context, dimension rag.Dimension, scope rag.YearScope) ([]*rag.Community, error) {
	fn, ok := dispatch[dimension]
	if !ok {
		return nil, errors.Errorf("unknown community dimension %q", dimension)
	}

	communities, err := fn(ctx, d, scope)
	if err != nil {
		return nil, err
	}

	kept := communities[:0]
	for _, c := range communities {
		if c.Size() < d.cfg.MinCommunitySize {
			d.log.Infow("dropping undersized community",
				"id", c.ID, "size", c.Size(), "min", d.cfg.MinCommunitySize)
			continue
		}
		kept = append(kept, c)
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].ID < kept[j].ID })
	if dimension == rag.DimensionGeographic {
		linkHierarchy(kept)
	}
	d.log.Debugw("community detection completed",
		"dimension", dimension, "scope", scope.String(), "communities", len(kept))
	return kept, nil
}

// DetectAll runs detection for every dimension in canonical order.
func (d *Detector) DetectAll(ctx context.Context, scope rag.YearScope) (map[rag.Dimension][]*rag.Community, error) {
	result := make(map[rag.Dimension][]*rag.Community, len(dispatch))
	for _, dim := range rag.AllDimensions() {
		communities, err := d.Detect(ctx, dim, scope)
		if err != nil {
			return nil, err
		}
		result[dim] = communities
	}
	return result, nil
}

// Params returns the parameter set that influences detection output for one
// dimension. It feeds the cache key so any change invalidates entries.
func (d *Detector) Params(dimension rag.Dimension) map[string]string {
	params := map[string]string{
		"min_size": itoa(d.cfg.MinCommunitySize),
	}
	if dimension == rag.DimensionTemporal {
		years := make([]string, len(d.cfg.SnapshotYears))
		for i, y := range d.cfg.SnapshotYears {
			years[i] = itoa(y)
		}
		params["snapshot_years"] = strings.Join(years, ",")
	}
	return params
}

func (d *Detector) snapshot(ctx context.Context, scope rag.YearScope) (*graphstore.Snapshot, error) {
	snap, err := d.store.Snapshot(ctx, scope)
	if err != nil {
		return nil, wrapGraphErr(err)
	}
	return snap, nil
}

func wrapGraphErr(err error) error {
	return errors.Wrap(rag.ErrGraphUnavailable, err.Error())
}

// linkHierarchy connects geographic district communities to their
// neighborhood children.
func linkHierarchy(geographic []*rag.Community) {
	districts := make(map[string]*rag.Community)
	for _, c := range geographic {
		if c.Level == 0 {
			c.ChildIDs = nil
			districts[c.ID] = c
		}
	}
	for _, c := range geographic {
		if c.Level != 1 || c.ParentID == "" {
			continue
		}
		if parent, ok := districts[c.ParentID]; ok {
			parent.ChildIDs = append(parent.ChildIDs, c.ID)
		}
	}
	for _, parent := range districts {
		sort.Strings(parent.ChildIDs)
	}
}
