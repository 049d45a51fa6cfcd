package detect

import (
	"context"
	"sort"

	"github.com/transitlab/graphrag/graphstore"
	"github.com/transitlab/graphrag/rag"
)

// detectServiceType groups lines by declared transport mode, one community
// per mode per year scope.
func detectServiceType(ctx context.Context, d *Detector, scope rag.YearScope) ([]*rag.Community, error) {
	snap, err := d.snapshot(ctx, scope)
	if err != nil {
		return nil, err
	}

	byMode := map[string][]*graphstore.Line{}
	for _, l := range snap.Lines {
		if l.Mode == "" {
			continue
		}
		byMode[l.Mode] = append(byMode[l.Mode], l)
	}

	modes := make([]string, 0, len(byMode))
	for mode := range byMode {
		modes = append(modes, mode)
	}
	sort.Strings(modes)

	var communities []*rag.Community
	for _, mode := range modes {
		lines := byMode[mode]
		stations := stationsServed(snap, lines)

		metrics := lineMetrics(lines)
		metrics.StationCount = len(stations)

		communities = append(communities, &rag.Community{
			ID:         communityID(scope, "service", slug(mode)),
			Dimension:  rag.DimensionServiceType,
			Level:      0,
			Name:       titleWords(mode) + " Network",
			StationIDs: stationIDs(stations),
			LineIDs:    lineIDs(lines),
			Scope:      scope,
			Bounds:     stationBounds(stations),
			Metrics:    metrics,
			Political:  dominantPolitical(stationPolitics(stations)),
		})
	}
	return communities, nil
}

func stationsServed(snap *graphstore.Snapshot, lines []*graphstore.Line) []*graphstore.Station {
	seen := map[string]bool{}
	var stations []*graphstore.Station
	for _, l := range lines {
		for _, sid := range l.StationIDs {
			if seen[sid] {
				continue
			}
			seen[sid] = true
			if s, ok := snap.Stations[sid]; ok {
				stations = append(stations, s)
			}
		}
	}
	return stations
}
