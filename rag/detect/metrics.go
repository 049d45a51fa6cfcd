package detect

import (
	"sort"
	"strconv"
	"strings"

	"github.com/thoas/go-funk"

	"github.com/transitlab/graphrag/graphstore"
	"github.com/transitlab/graphrag/rag"
)

func itoa(n int) string { return strconv.Itoa(n) }

// slug normalizes a display name into an id component.
func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, " ", "_")
}

// communityID builds a deterministic id from the dimension-specific parts
// and the year scope.
func communityID(scope rag.YearScope, parts ...string) string {
	id := strings.Join(parts, "_")
	if !scope.All() {
		id += "_" + scope.String()
	}
	return id
}

// lineMetrics aggregates operational figures over a set of lines. Lines
// with missing capacity, frequency or length are skipped per figure rather
// than zeroed into the averages.
func lineMetrics(lines []*graphstore.Line) rag.AggregateMetrics {
	m := rag.AggregateMetrics{
		LineCount:    len(lines),
		PoliticalMix: map[string]int{"east": 0, "west": 0, "unified": 0},
	}

	var capSum, capN, freqSum, freqN float64
	modes := map[string]bool{}
	for _, l := range lines {
		if l.Capacity > 0 {
			capSum += l.Capacity
			capN++
		}
		if l.Frequency > 0 {
			freqSum += l.Frequency
			freqN++
		}
		m.TotalLengthKM += l.LengthKM
		if l.Mode != "" {
			modes[l.Mode] = true
		}
		if _, ok := m.PoliticalMix[l.EastWest]; ok {
			m.PoliticalMix[l.EastWest]++
		}
	}
	if capN > 0 {
		m.AvgCapacity = capSum / capN
	}
	if freqN > 0 {
		m.AvgFrequency = freqSum / freqN
	}

	for mode := range modes {
		m.Modes = append(m.Modes, mode)
	}
	sort.Strings(m.Modes)
	return m
}

// stationBounds computes the bounding box over stations that carry
// coordinates. Returns nil when none do.
func stationBounds(stations []*graphstore.Station) *rag.GeoBounds {
	var b *rag.GeoBounds
	for _, s := range stations {
		if s.Latitude == nil || s.Longitude == nil {
			continue
		}
		lat, lon := *s.Latitude, *s.Longitude
		if b == nil {
			b = &rag.GeoBounds{MinLat: lat, MaxLat: lat, MinLon: lon, MaxLon: lon}
			continue
		}
		if lat < b.MinLat {
			b.MinLat = lat
		}
		if lat > b.MaxLat {
			b.MaxLat = lat
		}
		if lon < b.MinLon {
			b.MinLon = lon
		}
		if lon > b.MaxLon {
			b.MaxLon = lon
		}
	}
	return b
}

// dominantPolitical picks the most frequent east/west value, ties broken
// alphabetically, "unknown" when nothing is labeled.
func dominantPolitical(values []string) string {
	counts := map[string]int{}
	for _, v := range values {
		if v != "" {
			counts[v]++
		}
	}
	if len(counts) == 0 {
		return "unknown"
	}
	keys := funk.Keys(counts).([]string)
	sort.Strings(keys)
	best := keys[0]
	for _, k := range keys[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return best
}

// stationIDs returns sorted ids for deterministic membership listings.
func stationIDs(stations []*graphstore.Station) []string {
	ids := make([]string, len(stations))
	for i, s := range stations {
		ids[i] = s.ID
	}
	sort.Strings(ids)
	return ids
}

func lineIDs(lines []*graphstore.Line) []string {
	ids := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = l.ID
	}
	sort.Strings(ids)
	return ids
}

// stationList resolves ids against a snapshot, sorted by id.
func stationList(snap *graphstore.Snapshot, ids []string) []*graphstore.Station {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	stations := make([]*graphstore.Station, 0, len(sorted))
	for _, id := range sorted {
		if s, ok := snap.Stations[id]; ok {
			stations = append(stations, s)
		}
	}
	return stations
}

// linesServing collects the lines that touch any of the given stations.
func linesServing(snap *graphstore.Snapshot, stations []*graphstore.Station) []*graphstore.Line {
	seen := map[string]bool{}
	var lines []*graphstore.Line
	for _, s := range stations {
		for _, lineID := range s.LineIDs {
			if seen[lineID] {
				continue
			}
			seen[lineID] = true
			if l, ok := snap.Lines[lineID]; ok {
				lines = append(lines, l)
			}
		}
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ID < lines[j].ID })
	return lines
}

func stationPolitics(stations []*graphstore.Station) []string {
	values := make([]string, 0, len(stations))
	for _, s := range stations {
		values = append(values, s.EastWest)
	}
	return values
}
