package detect

import (
	"context"
	"fmt"
	"strings"

	"github.com/transitlab/graphrag/graphstore"
	"github.com/transitlab/graphrag/rag"
)

// Relationship weights for the operational graph. A line serving a station
// binds tighter than two stations sharing a line, which binds tighter than
// mere administrative co-location.
const (
	weightServes   = 3.0
	weightConnects = 2.0
	weightContains = 1.0
)

const (
	stationNodePrefix = "station:"
	lineNodePrefix    = "line:"
)

// detectOperational builds a weighted graph over stations and lines and
// clusters it by modularity maximization.
func detectOperational(ctx context.Context, d *Detector, scope rag.YearScope) ([]*rag.Community, error) {
	snap, err := d.snapshot(ctx, scope)
	if err != nil {
		return nil, err
	}

	g := buildOperationalGraph(snap)
	groups := louvain(g)

	var communities []*rag.Community
	idx := 0
	for _, members := range groups {
		stations, lines := splitMembers(snap, members)
		if len(stations)+len(lines) == 0 {
			continue
		}

		metrics := lineMetrics(lines)
		metrics.StationCount = len(stations)

		communities = append(communities, &rag.Community{
			ID:         communityID(scope, "operational_cluster", itoa(idx)),
			Dimension:  rag.DimensionOperational,
			Level:      0,
			Name:       fmt.Sprintf("Operational Cluster %d", idx+1),
			StationIDs: stationIDs(stations),
			LineIDs:    lineIDs(lines),
			Scope:      scope,
			Bounds:     stationBounds(stations),
			Metrics:    metrics,
			Political:  dominantPolitical(stationPolitics(stations)),
		})
		idx++
	}
	return communities, nil
}

func buildOperationalGraph(snap *graphstore.Snapshot) *weightedGraph {
	g := newWeightedGraph()

	for id := range snap.Stations {
		g.addNode(stationNodePrefix + id)
	}
	for id, line := range snap.Lines {
		lineNode := lineNodePrefix + id
		g.addNode(lineNode)

		// serves: line to each station on it
		for _, sid := range line.StationIDs {
			g.addEdge(lineNode, stationNodePrefix+sid, weightServes)
		}
		// connects: stations sharing a line
		for i := 0; i < len(line.StationIDs); i++ {
			for j := i + 1; j < len(line.StationIDs); j++ {
				g.addEdge(stationNodePrefix+line.StationIDs[i],
					stationNodePrefix+line.StationIDs[j], weightConnects)
			}
		}
	}

	// contains: stations in the same neighborhood
	byOrtsteil := map[string][]string{}
	for id, s := range snap.Stations {
		if s.Ortsteil != "" {
			byOrtsteil[s.Ortsteil] = append(byOrtsteil[s.Ortsteil], id)
		}
	}
	for _, ids := range byOrtsteil {
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				g.addEdge(stationNodePrefix+ids[i], stationNodePrefix+ids[j], weightContains)
			}
		}
	}
	return g
}

func splitMembers(snap *graphstore.Snapshot, members []string) ([]*graphstore.Station, []*graphstore.Line) {
	var stations []*graphstore.Station
	var lines []*graphstore.Line
	for _, node := range members {
		switch {
		case strings.HasPrefix(node, stationNodePrefix):
			if s, ok := snap.Stations[strings.TrimPrefix(node, stationNodePrefix)]; ok {
				stations = append(stations, s)
			}
		case strings.HasPrefix(node, lineNodePrefix):
			if l, ok := snap.Lines[strings.TrimPrefix(node, lineNodePrefix)]; ok {
				lines = append(lines, l)
			}
		}
	}
	return stations, lines
}
