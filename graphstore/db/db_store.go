// Package db implements graphstore.Store over a relational snapshot of the
// transport graph.
package db

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/transitlab/graphrag/graphstore"
)

type Store struct {
	db *gorm.DB
}

var _ graphstore.Store = (*Store)(nil)

// NewStore returns a store over an opened gorm connection.
func NewStore(opts ...StoreOption) (*Store, error) {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}
	if s.db == nil {
		return nil, errors.New("db is required")
	}
	return s, nil
}

func (s *Store) Snapshot(ctx context.Context, scope graphstore.YearScope) (*graphstore.Snapshot, error) {
	var services []ServiceRow
	q := s.db.WithContext(ctx)
	if !scope.All() {
		q = q.Where("year >= ? AND year <= ?", scope.Start, scope.End)
	}
	if err := q.Find(&services).Error; err != nil {
		return nil, errors.Wrap(err, "graph store unavailable: list services")
	}

	stationIDs := make([]string, 0, len(services))
	lineIDs := make([]string, 0, len(services))
	seenStation := make(map[string]struct{}, len(services))
	seenLine := make(map[string]struct{}, len(services))
	for _, svc := range services {
		if _, ok := seenStation[svc.StationID]; !ok {
			seenStation[svc.StationID] = struct{}{}
			stationIDs = append(stationIDs, svc.StationID)
		}
		if _, ok := seenLine[svc.LineID]; !ok {
			seenLine[svc.LineID] = struct{}{}
			lineIDs = append(lineIDs, svc.LineID)
		}
	}

	snapshot := &graphstore.Snapshot{
		Scope:    scope,
		Stations: make(map[string]*graphstore.Station, len(stationIDs)),
		Lines:    make(map[string]*graphstore.Line, len(lineIDs)),
	}
	if len(services) == 0 {
		return snapshot, nil
	}

	var stationRows []StationRow
	if err := s.db.WithContext(ctx).
		Where("station_id IN ?", stationIDs).
		Find(&stationRows).Error; err != nil {
		return nil, errors.Wrap(err, "graph store unavailable: list stations")
	}
	for _, row := range stationRows {
		snapshot.Stations[row.StationID] = &graphstore.Station{
			ID:         row.StationID,
			Name:       row.Name,
			Type:       row.Type,
			EastWest:   row.EastWest,
			Latitude:   row.Latitude,
			Longitude:  row.Longitude,
			Ortsteil:   row.Ortsteil,
			Bezirk:     row.Bezirk,
			BezirkSide: row.BezirkSide,
		}
	}

	var lineRows []LineRow
	if err := s.db.WithContext(ctx).
		Where("line_id IN ?", lineIDs).
		Find(&lineRows).Error; err != nil {
		return nil, errors.Wrap(err, "graph store unavailable: list lines")
	}
	for _, row := range lineRows {
		snapshot.Lines[row.LineID] = &graphstore.Line{
			ID:        row.LineID,
			Name:      row.Name,
			Mode:      row.Mode,
			EastWest:  row.EastWest,
			Capacity:  row.Capacity,
			Frequency: row.Frequency,
			LengthKM:  row.LengthKM,
		}
	}

	// Join service relationships onto both sides, deduplicated and sorted
	// so snapshots are deterministic.
	stationLines := make(map[string]map[string]struct{})
	lineStations := make(map[string]map[string]struct{})
	for _, svc := range services {
		if snapshot.Stations[svc.StationID] == nil || snapshot.Lines[svc.LineID] == nil {
			continue
		}
		if stationLines[svc.StationID] == nil {
			stationLines[svc.StationID] = make(map[string]struct{})
		}
		if lineStations[svc.LineID] == nil {
			lineStations[svc.LineID] = make(map[string]struct{})
		}
		stationLines[svc.StationID][svc.LineID] = struct{}{}
		lineStations[svc.LineID][svc.StationID] = struct{}{}
	}
	for stationID, lines := range stationLines {
		ids := make([]string, 0, len(lines))
		for id := range lines {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		snapshot.Stations[stationID].LineIDs = ids
	}
	for lineID, stations := range lineStations {
		ids := make([]string, 0, len(stations))
		for id := range stations {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		snapshot.Lines[lineID].StationIDs = ids
	}

	return snapshot, nil
}

func (s *Store) ActivityPeriods(ctx context.Context) ([]graphstore.ActivityPeriod, error) {
	var rows []ActivityRow
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "graph store unavailable: list activity periods")
	}

	periods := make([]graphstore.ActivityPeriod, 0, len(rows))
	for _, row := range rows {
		periods = append(periods, graphstore.ActivityPeriod{
			StationID:     row.StationID,
			Name:          row.Name,
			EastWest:      row.EastWest,
			StartYear:     row.StartYear,
			EndYear:       row.EndYear,
			ObservedYears: parseYears(row.ObservedYears),
		})
	}
	return periods, nil
}

func parseYears(csv string) []int {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	years := make([]int, 0, len(parts))
	for _, part := range parts {
		year, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		years = append(years, year)
	}
	sort.Ints(years)
	return years
}
