// Package graphstore defines read-only access to a versioned snapshot of the
// historical transport graph. The engine never mutates the graph; detection
// builds everything it needs from the listings returned here.
package graphstore

import (
	"context"
	"fmt"
)

// YearScope restricts a query to a single year or a year range. The zero
// value means all years.
type YearScope struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Year returns a scope covering a single year.
func Year(year int) YearScope {
	return YearScope{Start: year, End: year}
}

// Range returns a scope covering [start, end].
func Range(start, end int) YearScope {
	return YearScope{Start: start, End: end}
}

// All reports whether the scope is unrestricted.
func (s YearScope) All() bool {
	return s.Start == 0 && s.End == 0
}

// Contains reports whether year falls inside the scope.
func (s YearScope) Contains(year int) bool {
	if s.All() {
		return true
	}
	return year >= s.Start && year <= s.End
}

func (s YearScope) String() string {
	switch {
	case s.All():
		return "all"
	case s.Start == s.End:
		return fmt.Sprintf("%d", s.Start)
	default:
		return fmt.Sprintf("%d-%d", s.Start, s.End)
	}
}

// Station is a transport stop node. Administrative containment and
// coordinates are optional; detection degrades rather than fails when they
// are missing.
type Station struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	EastWest      string   `json:"east_west"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	Ortsteil      string   `json:"ortsteil,omitempty"`
	Bezirk        string   `json:"bezirk,omitempty"`
	BezirkSide    string   `json:"bezirk_east_west,omitempty"`
	LineIDs       []string `json:"line_ids"`
}

// Line is a transit service node (one line of one mode).
type Line struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Mode       string   `json:"mode"`
	EastWest   string   `json:"east_west"`
	Capacity   float64  `json:"capacity"`
	Frequency  float64  `json:"frequency"`
	LengthKM   float64  `json:"length_km"`
	StationIDs []string `json:"station_ids"`
}

// Snapshot is the joined station/line view of the network for one scope.
type Snapshot struct {
	Scope    YearScope           `json:"scope"`
	Stations map[string]*Station `json:"stations"`
	Lines    map[string]*Line    `json:"lines"`
}

// ActivityPeriod describes the observed lifetime of a core station across
// snapshot years.
type ActivityPeriod struct {
	StationID     string `json:"station_id"`
	Name          string `json:"name"`
	EastWest      string `json:"east_west"`
	StartYear     int    `json:"start_year"`
	EndYear       int    `json:"end_year"`
	ObservedYears []int  `json:"observed_years"`
}

// Duration returns the observed lifetime in years.
func (p ActivityPeriod) Duration() int {
	if p.StartYear == 0 || p.EndYear == 0 {
		return 0
	}
	return p.EndYear - p.StartYear
}

// Store is the read-only query capability the engine consumes. Failures here
// are the only fatal failures of community detection.
type Store interface {
	// Snapshot returns stations and lines connected by service
	// relationships inside the scope, with administrative containment
	// joined in where it exists.
	Snapshot(ctx context.Context, scope YearScope) (*Snapshot, error)
	// ActivityPeriods returns per-station activity periods used by
	// temporal detection.
	ActivityPeriods(ctx context.Context) ([]ActivityPeriod, error)
}
