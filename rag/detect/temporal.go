package detect

import (
	"context"
	"sort"
	"strings"

	"github.com/transitlab/graphrag/graphstore"
	"github.com/transitlab/graphrag/rag"
)

// Historical era buckets with fixed year boundaries, keyed by the year a
// station first appears.
var eraBuckets = []struct {
	key   string
	until int
}{
	{"post_war_1946_1949", 1949},
	{"pre_wall_1950_1961", 1961},
	{"wall_era_1962_1975", 1975},
	{"late_era_1976_1989", 9999},
}

// Evolution buckets keyed by how many years a station stayed in service.
const (
	evolutionSingle = "single_year_operations"
	evolutionShort  = "short_term_operations"
	evolutionMedium = "medium_term_operations"
	evolutionLong   = "long_term_operations"
)

func evolutionBucket(duration int) string {
	switch {
	case duration == 0:
		return evolutionSingle
	case duration <= 5:
		return evolutionShort
	case duration <= 15:
		return evolutionMedium
	default:
		return evolutionLong
	}
}

// detectTemporal groups stations by activity period into era, evolution and
// snapshot communities. Stations without an activity period are skipped,
// detection degrades rather than fails.
func detectTemporal(ctx context.Context, d *Detector, scope rag.YearScope) ([]*rag.Community, error) {
	periods, err := d.store.ActivityPeriods(ctx)
	if err != nil {
		return nil, wrapGraphErr(err)
	}

	eras := map[string][]graphstore.ActivityPeriod{}
	evolutions := map[string][]graphstore.ActivityPeriod{}
	snapshots := map[int][]graphstore.ActivityPeriod{}

	for _, p := range periods {
		if p.StartYear == 0 {
			continue
		}
		if !scope.All() && !scope.Contains(p.StartYear) && !scope.Contains(p.EndYear) {
			continue
		}

		for _, bucket := range eraBuckets {
			if p.StartYear <= bucket.until {
				eras[bucket.key] = append(eras[bucket.key], p)
				break
			}
		}

		evolutions[evolutionBucket(p.Duration())] = append(evolutions[evolutionBucket(p.Duration())], p)

		for _, year := range d.cfg.SnapshotYears {
			if observedIn(p, year) {
				snapshots[year] = append(snapshots[year], p)
			}
		}
	}

	var communities []*rag.Community
	for _, bucket := range eraBuckets {
		members := eras[bucket.key]
		if len(members) == 0 {
			continue
		}
		communities = append(communities, temporalCommunity(scope, temporalSeed{
			id:    communityID(scope, "temporal_era", bucket.key),
			name:  "Transport Era: " + titleWords(bucket.key),
			level: 0,
			kind:  rag.TemporalEra,
			key:   bucket.key,
		}, members))
	}

	for _, key := range []string{evolutionSingle, evolutionShort, evolutionMedium, evolutionLong} {
		members := evolutions[key]
		if len(members) == 0 {
			continue
		}
		communities = append(communities, temporalCommunity(scope, temporalSeed{
			id:    communityID(scope, "temporal_evolution", key),
			name:  "Evolution Pattern: " + titleWords(key),
			level: 1,
			kind:  rag.TemporalEvolution,
			key:   key,
		}, members))
	}

	years := append([]int(nil), d.cfg.SnapshotYears...)
	sort.Ints(years)
	for _, year := range years {
		members := snapshots[year]
		if len(members) == 0 {
			continue
		}
		key := itoa(year)
		communities = append(communities, temporalCommunity(scope, temporalSeed{
			id:    communityID(scope, "temporal_snapshot", key),
			name:  "Network Snapshot: " + key,
			level: 2,
			kind:  rag.TemporalSnapshot,
			key:   key,
		}, members))
	}

	return communities, nil
}

type temporalSeed struct {
	id    string
	name  string
	level int
	kind  rag.TemporalKind
	key   string
}

func temporalCommunity(scope rag.YearScope, seed temporalSeed, members []graphstore.ActivityPeriod) *rag.Community {
	ids := make([]string, len(members))
	politics := make([]string, len(members))
	for i, p := range members {
		ids[i] = p.StationID
		politics[i] = p.EastWest
	}
	sort.Strings(ids)

	return &rag.Community{
		ID:           seed.id,
		Dimension:    rag.DimensionTemporal,
		Level:        seed.level,
		Name:         seed.name,
		StationIDs:   ids,
		Scope:        scope,
		TemporalKind: seed.kind,
		TemporalKey:  seed.key,
		Metrics:      rag.AggregateMetrics{StationCount: len(ids)},
		Political:    dominantPolitical(politics),
	}
}

func observedIn(p graphstore.ActivityPeriod, year int) bool {
	for _, y := range p.ObservedYears {
		if y == year {
			return true
		}
	}
	return false
}

func titleWords(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
