package detect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitlab/graphrag/graphstore"
	"github.com/transitlab/graphrag/rag"
)

type fakeStore struct {
	snap    *graphstore.Snapshot
	periods []graphstore.ActivityPeriod
	err     error

	snapshotCalls int
}

func (f *fakeStore) Snapshot(ctx context.Context, scope graphstore.YearScope) (*graphstore.Snapshot, error) {
	f.snapshotCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.snap, nil
}

func (f *fakeStore) ActivityPeriods(ctx context.Context) ([]graphstore.ActivityPeriod, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.periods, nil
}

func ptr(v float64) *float64 { return &v }

func twoDistrictStore() *fakeStore {
	return &fakeStore{
		snap: &graphstore.Snapshot{
			Stations: map[string]*graphstore.Station{
				"s1": {ID: "s1", Name: "Alexanderplatz", EastWest: "east", Bezirk: "Mitte", LineIDs: []string{"l1"}},
				"s2": {ID: "s2", Name: "Hackescher Markt", EastWest: "east", Bezirk: "Mitte", LineIDs: []string{"l1"}},
				"s3": {ID: "s3", Name: "Zoologischer Garten", EastWest: "west", Bezirk: "Charlottenburg", LineIDs: []string{"l2"}},
				"s4": {ID: "s4", Name: "Savignyplatz", EastWest: "west", Bezirk: "Charlottenburg", LineIDs: []string{"l2"}},
			},
			Lines: map[string]*graphstore.Line{
				"l1": {ID: "l1", Name: "S3", Mode: "sbahn", EastWest: "east", Capacity: 900, Frequency: 10, LengthKM: 12, StationIDs: []string{"s1", "s2"}},
				"l2": {ID: "l2", Name: "S5", Mode: "sbahn", EastWest: "west", Capacity: 800, Frequency: 5, LengthKM: 9, StationIDs: []string{"s3", "s4"}},
			},
		},
	}
}

func TestDetectGeographicTwoDistricts(t *testing.T) {
	d, err := NewDetector(twoDistrictStore())
	require.NoError(t, err)

	communities, err := d.Detect(context.Background(), rag.DimensionGeographic, rag.YearScope{})
	require.NoError(t, err)
	require.Len(t, communities, 2)

	byID := map[string]*rag.Community{}
	for _, c := range communities {
		byID[c.ID] = c
	}
	mitte := byID["geo_bezirk_mitte"]
	require.NotNil(t, mitte)
	assert.Equal(t, []string{"s1", "s2"}, mitte.StationIDs)
	assert.Equal(t, "east", mitte.Political)
	assert.Equal(t, 0, mitte.Level)

	charlottenburg := byID["geo_bezirk_charlottenburg"]
	require.NotNil(t, charlottenburg)
	assert.Equal(t, []string{"s3", "s4"}, charlottenburg.StationIDs)
	assert.Equal(t, "west", charlottenburg.Political)
}

func TestDetectGeographicUnassigned(t *testing.T) {
	store := twoDistrictStore()
	store.snap.Stations["s5"] = &graphstore.Station{ID: "s5", Name: "Ghost A", LineIDs: []string{"l1"}}
	store.snap.Stations["s6"] = &graphstore.Station{ID: "s6", Name: "Ghost B", LineIDs: []string{"l2"}}

	d, err := NewDetector(store)
	require.NoError(t, err)

	communities, err := d.Detect(context.Background(), rag.DimensionGeographic, rag.YearScope{})
	require.NoError(t, err)

	var unassigned *rag.Community
	for _, c := range communities {
		if c.ID == "geo_unassigned" {
			unassigned = c
		}
	}
	require.NotNil(t, unassigned)
	assert.Equal(t, []string{"s5", "s6"}, unassigned.StationIDs)
}

func TestDetectDropsUndersizedCommunities(t *testing.T) {
	store := twoDistrictStore()
	// A district with a single station falls below the default minimum.
	store.snap.Stations["s7"] = &graphstore.Station{ID: "s7", Name: "Lone", Bezirk: "Spandau"}

	d, err := NewDetector(store)
	require.NoError(t, err)

	communities, err := d.Detect(context.Background(), rag.DimensionGeographic, rag.YearScope{})
	require.NoError(t, err)
	for _, c := range communities {
		assert.NotEqual(t, "geo_bezirk_spandau", c.ID)
	}
}

func TestDetectDeterministic(t *testing.T) {
	d, err := NewDetector(twoDistrictStore())
	require.NoError(t, err)

	for _, dim := range rag.AllDimensions() {
		first, err := d.Detect(context.Background(), dim, rag.YearScope{})
		require.NoError(t, err)
		second, err := d.Detect(context.Background(), dim, rag.YearScope{})
		require.NoError(t, err)
		assert.Equal(t, first, second, "dimension %s", dim)
	}
}

func TestDetectGraphUnavailable(t *testing.T) {
	d, err := NewDetector(&fakeStore{err: assert.AnError})
	require.NoError(t, err)

	_, err = d.Detect(context.Background(), rag.DimensionGeographic, rag.YearScope{})
	require.Error(t, err)
	assert.ErrorIs(t, err, rag.ErrGraphUnavailable)
}

func TestDetectOperationalSeparatesDisjointSubnetworks(t *testing.T) {
	d, err := NewDetector(twoDistrictStore())
	require.NoError(t, err)

	communities, err := d.Detect(context.Background(), rag.DimensionOperational, rag.YearScope{})
	require.NoError(t, err)
	require.Len(t, communities, 2)

	// Each cluster holds one line and its two stations.
	for _, c := range communities {
		assert.Len(t, c.StationIDs, 2)
		assert.Len(t, c.LineIDs, 1)
	}
	assert.NotEqual(t, communities[0].StationIDs, communities[1].StationIDs)
}

func TestDetectServiceTypeOneCommunityPerMode(t *testing.T) {
	store := twoDistrictStore()
	store.snap.Lines["l3"] = &graphstore.Line{ID: "l3", Name: "U2", Mode: "ubahn", Capacity: 750, StationIDs: []string{"s1", "s3"}}

	d, err := NewDetector(store)
	require.NoError(t, err)

	communities, err := d.Detect(context.Background(), rag.DimensionServiceType, rag.YearScope{})
	require.NoError(t, err)
	require.Len(t, communities, 2)

	assert.Equal(t, "service_sbahn", communities[0].ID)
	assert.Equal(t, "service_ubahn", communities[1].ID)
	assert.Equal(t, []string{"l1", "l2"}, communities[0].LineIDs)
	assert.Equal(t, []string{"s1", "s3"}, communities[1].StationIDs)
}

func TestDetectTemporalBuckets(t *testing.T) {
	store := twoDistrictStore()
	store.periods = []graphstore.ActivityPeriod{
		{StationID: "s1", StartYear: 1946, EndYear: 1989, ObservedYears: []int{1946, 1961, 1989}},
		{StationID: "s2", StartYear: 1947, EndYear: 1950, ObservedYears: []int{1946, 1950}},
		{StationID: "s3", StartYear: 1961, EndYear: 1961, ObservedYears: []int{1961}},
		{StationID: "s4", StartYear: 1980, EndYear: 1989, ObservedYears: []int{1980, 1989}},
	}

	d, err := NewDetector(store, rag.WithMinCommunitySize(1))
	require.NoError(t, err)

	communities, err := d.Detect(context.Background(), rag.DimensionTemporal, rag.YearScope{})
	require.NoError(t, err)

	byID := map[string][]string{}
	for _, c := range communities {
		byID[c.ID] = c.StationIDs
	}

	assert.Equal(t, []string{"s1", "s2"}, byID["temporal_era_post_war_1946_1949"])
	assert.Equal(t, []string{"s3"}, byID["temporal_era_pre_wall_1950_1961"])
	assert.Equal(t, []string{"s4"}, byID["temporal_era_late_era_1976_1989"])

	assert.Equal(t, []string{"s3"}, byID["temporal_evolution_single_year_operations"])
	assert.Equal(t, []string{"s2"}, byID["temporal_evolution_short_term_operations"])
	assert.Equal(t, []string{"s4"}, byID["temporal_evolution_medium_term_operations"])
	assert.Equal(t, []string{"s1"}, byID["temporal_evolution_long_term_operations"])

	assert.Equal(t, []string{"s1", "s3"}, byID["temporal_snapshot_1961"])
	assert.Equal(t, []string{"s1", "s4"}, byID["temporal_snapshot_1989"])
}

func TestDetectAllLinksGeographicHierarchy(t *testing.T) {
	store := twoDistrictStore()
	store.snap.Stations["s1"].Ortsteil = "Alexanderplatz"
	store.snap.Stations["s2"].Ortsteil = "Alexanderplatz"

	d, err := NewDetector(store)
	require.NoError(t, err)

	all, err := d.DetectAll(context.Background(), rag.YearScope{})
	require.NoError(t, err)

	var parent, child *rag.Community
	for _, c := range all[rag.DimensionGeographic] {
		switch c.ID {
		case "geo_bezirk_mitte":
			parent = c
		case "geo_ortsteil_alexanderplatz":
			child = c
		}
	}
	require.NotNil(t, parent)
	require.NotNil(t, child)
	assert.Equal(t, "geo_bezirk_mitte", child.ParentID)
	assert.Contains(t, parent.ChildIDs, child.ID)
}

func TestDetectGeographicLinksHierarchy(t *testing.T) {
	store := twoDistrictStore()
	store.snap.Stations["s1"].Ortsteil = "Alexanderplatz"
	store.snap.Stations["s2"].Ortsteil = "Alexanderplatz"

	d, err := NewDetector(store)
	require.NoError(t, err)

	// A single-dimension detection pass carries the parent/child links, so
	// cached and queried communities keep the hierarchy.
	communities, err := d.Detect(context.Background(), rag.DimensionGeographic, rag.YearScope{})
	require.NoError(t, err)

	byID := map[string]*rag.Community{}
	for _, c := range communities {
		byID[c.ID] = c
	}
	require.NotNil(t, byID["geo_bezirk_mitte"])
	assert.Equal(t, []string{"geo_ortsteil_alexanderplatz"}, byID["geo_bezirk_mitte"].ChildIDs)

	// Repeat detection does not duplicate child links.
	again, err := d.Detect(context.Background(), rag.DimensionGeographic, rag.YearScope{})
	require.NoError(t, err)
	for _, c := range again {
		if c.ID == "geo_bezirk_mitte" {
			assert.Equal(t, []string{"geo_ortsteil_alexanderplatz"}, c.ChildIDs)
		}
	}
}

func TestDetectScopedIDsCarryScope(t *testing.T) {
	d, err := NewDetector(twoDistrictStore())
	require.NoError(t, err)

	communities, err := d.Detect(context.Background(), rag.DimensionGeographic, graphstore.Year(1961))
	require.NoError(t, err)
	require.NotEmpty(t, communities)
	for _, c := range communities {
		assert.Contains(t, c.ID, "_1961")
	}
}

func TestLouvainTwoTriangles(t *testing.T) {
	g := newWeightedGraph()
	// Two tight triangles joined by one weak edge.
	g.addEdge("a1", "a2", 3)
	g.addEdge("a2", "a3", 3)
	g.addEdge("a1", "a3", 3)
	g.addEdge("b1", "b2", 3)
	g.addEdge("b2", "b3", 3)
	g.addEdge("b1", "b3", 3)
	g.addEdge("a3", "b1", 1)

	groups := louvain(g)
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"a1", "a2", "a3"}, groups[0])
	assert.Equal(t, []string{"b1", "b2", "b3"}, groups[1])
}

func TestLouvainDeterministic(t *testing.T) {
	build := func() *weightedGraph {
		g := newWeightedGraph()
		g.addEdge("s1", "s2", 2)
		g.addEdge("s2", "s3", 2)
		g.addEdge("s3", "s4", 1)
		g.addEdge("s4", "s5", 2)
		g.addEdge("s5", "s6", 2)
		return g
	}
	first := louvain(build())
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, louvain(build()))
	}
}

func TestParamsHashStableAcrossOrder(t *testing.T) {
	d, err := NewDetector(twoDistrictStore(), rag.WithSnapshotYears([]int{1961, 1989}))
	require.NoError(t, err)

	params := d.Params(rag.DimensionTemporal)
	assert.Equal(t, "1961,1989", params["snapshot_years"])
	assert.Equal(t, "2", params["min_size"])
}
