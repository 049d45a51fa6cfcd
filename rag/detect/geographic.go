package detect

import (
	"context"
	"sort"

	"github.com/transitlab/graphrag/graphstore"
	"github.com/transitlab/graphrag/rag"
)

// detectGeographic groups stations by administrative containment. Level 0
// communities cover districts (Bezirk), level 1 covers neighborhoods
// (Ortsteil) with a parent link to their district. Stations without any
// containment go into a single unassigned community instead of being
// dropped.
func detectGeographic(ctx context.Context, d *Detector, scope rag.YearScope) ([]*rag.Community, error) {
	snap, err := d.snapshot(ctx, scope)
	if err != nil {
		return nil, err
	}

	byBezirk := map[string][]string{}
	byOrtsteil := map[string][]string{}
	var unassigned []string
	for id, s := range snap.Stations {
		switch {
		case s.Bezirk != "":
			byBezirk[s.Bezirk] = append(byBezirk[s.Bezirk], id)
			if s.Ortsteil != "" {
				byOrtsteil[s.Ortsteil] = append(byOrtsteil[s.Ortsteil], id)
			}
		case s.Ortsteil != "":
			byOrtsteil[s.Ortsteil] = append(byOrtsteil[s.Ortsteil], id)
		default:
			unassigned = append(unassigned, id)
		}
	}

	var communities []*rag.Community
	for _, bezirk := range sortedKeys(byBezirk) {
		communities = append(communities, d.geoCommunity(snap, scope, geoSeed{
			id:    communityID(scope, "geo_bezirk", slug(bezirk)),
			name:  "Bezirk " + bezirk,
			level: 0,
			areas: []rag.AdminArea{{Name: bezirk, Kind: "bezirk"}},
		}, byBezirk[bezirk]))
	}

	for _, ortsteil := range sortedKeys(byOrtsteil) {
		ids := byOrtsteil[ortsteil]
		seed := geoSeed{
			id:    communityID(scope, "geo_ortsteil", slug(ortsteil)),
			name:  "Ortsteil " + ortsteil,
			level: 1,
			areas: []rag.AdminArea{{Name: ortsteil, Kind: "ortsteil"}},
		}
		// Parent district comes from any member station.
		if bezirk := parentBezirk(snap, ids); bezirk != "" {
			seed.areas = append(seed.areas, rag.AdminArea{Name: bezirk, Kind: "bezirk"})
			seed.parentID = communityID(scope, "geo_bezirk", slug(bezirk))
		}
		communities = append(communities, d.geoCommunity(snap, scope, seed, ids))
	}

	if len(unassigned) > 0 {
		communities = append(communities, d.geoCommunity(snap, scope, geoSeed{
			id:    communityID(scope, "geo_unassigned"),
			name:  "Unassigned Stations",
			level: 0,
		}, unassigned))
	}

	return communities, nil
}

type geoSeed struct {
	id       string
	name     string
	level    int
	areas    []rag.AdminArea
	parentID string
}

func (d *Detector) geoCommunity(snap *graphstore.Snapshot, scope rag.YearScope, seed geoSeed, ids []string) *rag.Community {
	stations := stationList(snap, ids)
	lines := linesServing(snap, stations)

	metrics := lineMetrics(lines)
	metrics.StationCount = len(stations)

	return &rag.Community{
		ID:         seed.id,
		Dimension:  rag.DimensionGeographic,
		Level:      seed.level,
		Name:       seed.name,
		StationIDs: stationIDs(stations),
		LineIDs:    lineIDs(lines),
		Areas:      seed.areas,
		Scope:      scope,
		Bounds:     stationBounds(stations),
		Metrics:    metrics,
		Political:  dominantPolitical(stationPolitics(stations)),
		ParentID:   seed.parentID,
	}
}

func parentBezirk(snap *graphstore.Snapshot, stationIDs []string) string {
	sorted := append([]string(nil), stationIDs...)
	sort.Strings(sorted)
	for _, id := range sorted {
		if s, ok := snap.Stations[id]; ok && s.Bezirk != "" {
			return s.Bezirk
		}
	}
	return ""
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
