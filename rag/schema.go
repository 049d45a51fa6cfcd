package rag

import (
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/transitlab/graphrag/graphstore"
)

const (
	// DefaultTokenEncoding is the tiktoken encoding used for all prompt
	// budgeting.
	DefaultTokenEncoding = "cl100k_base"

	// DefaultPromptVersion tags cache keys so prompt changes invalidate
	// stale summaries without a full clear.
	DefaultPromptVersion = "v1"
)

// YearScope restricts detection and queries to a year or a year range. The
// zero value means all years.
type YearScope = graphstore.YearScope

// Dimension is the clustering criterion of a community.
type Dimension string

const (
	DimensionGeographic  Dimension = "geographic"
	DimensionOperational Dimension = "operational"
	DimensionTemporal    Dimension = "temporal"
	DimensionServiceType Dimension = "service_type"
)

// AllDimensions returns every dimension in canonical order.
func AllDimensions() []Dimension {
	return []Dimension{
		DimensionGeographic,
		DimensionOperational,
		DimensionTemporal,
		DimensionServiceType,
	}
}

// ParseDimension validates a dimension string.
func ParseDimension(s string) (Dimension, error) {
	switch Dimension(s) {
	case DimensionGeographic, DimensionOperational,
		DimensionTemporal, DimensionServiceType:
		return Dimension(s), nil
	}
	return "", errors.Errorf("unknown community dimension %q", s)
}

// TemporalKind distinguishes the three flavors of temporal communities.
type TemporalKind string

const (
	TemporalEra       TemporalKind = "era"
	TemporalEvolution TemporalKind = "evolution"
	TemporalSnapshot  TemporalKind = "snapshot"
)

// AdminArea is an administrative containment reference.
type AdminArea struct {
	Name string `json:"name"`
	Kind string `json:"kind"` // bezirk or ortsteil
}

// GeoBounds is the bounding box of a community's stations, when coordinates
// exist.
type GeoBounds struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// AggregateMetrics is the numeric summary computed once at detection time.
type AggregateMetrics struct {
	StationCount  int            `json:"station_count"`
	LineCount     int            `json:"line_count"`
	AvgCapacity   float64        `json:"avg_capacity"`
	AvgFrequency  float64        `json:"avg_frequency"`
	TotalLengthKM float64        `json:"total_length_km"`
	Modes         []string       `json:"modes"`
	PoliticalMix  map[string]int `json:"political_mix"` // east / west / unified counts
}

// Community is a named, typed cluster of graph entities along one dimension.
// Ids are deterministic from (dimension, partition key, year scope) so that
// identical detection inputs always produce identical communities.
type Community struct {
	ID           string           `json:"id"`
	Dimension    Dimension        `json:"dimension"`
	Level        int              `json:"level"`
	Name         string           `json:"name"`
	StationIDs   []string         `json:"station_ids"`
	LineIDs      []string         `json:"line_ids"`
	Areas        []AdminArea      `json:"areas,omitempty"`
	Scope        YearScope        `json:"scope"`
	TemporalKind TemporalKind     `json:"temporal_kind,omitempty"`
	TemporalKey  string           `json:"temporal_key,omitempty"`
	Bounds       *GeoBounds       `json:"bounds,omitempty"`
	Metrics      AggregateMetrics `json:"metrics"`
	Political    string           `json:"political"` // east, west, unified, mixed, unknown
	ParentID     string           `json:"parent_id,omitempty"`
	ChildIDs     []string         `json:"child_ids,omitempty"`
}

// Size returns the member count across stations and lines.
func (c *Community) Size() int {
	return len(c.StationIDs) + len(c.LineIDs)
}

// SortCommunities orders communities by descending size, ties broken by
// ascending id. This is the truncation preference of the answer engine.
func SortCommunities(communities []*Community) {
	sort.Slice(communities, func(i, j int) bool {
		if communities[i].Size() != communities[j].Size() {
			return communities[i].Size() > communities[j].Size()
		}
		return communities[i].ID < communities[j].ID
	})
}

// CommunitySummary is the generated description of one community for one
// provider. At most one summary per (community, provider) is retained.
type CommunitySummary struct {
	CommunityID   string    `json:"community_id"`
	Provider      string    `json:"provider"`
	PromptVersion string    `json:"prompt_version"`
	Text          string    `json:"text"`
	TokenCount    int       `json:"token_count"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// QuestionType classifies a question as requiring cross-community analysis
// or a single-entity lookup.
type QuestionType string

const (
	QuestionGlobal QuestionType = "global"
	QuestionLocal  QuestionType = "local"
)

// InsufficientInformationAnswer is returned when no community produced a
// relevant partial answer. It is a fixed sentinel, never fabricated content.
const InsufficientInformationAnswer = "Insufficient information: none of the " +
	"analyzed transport communities contain information relevant to this question."

// QueryResult is the immutable outcome of one query.
type QueryResult struct {
	Answer              string        `json:"answer"`
	QuestionType        QuestionType  `json:"question_type"`
	CommunitiesAnalyzed int           `json:"communities_analyzed"`
	ContextItemCount    int           `json:"context_item_count"`
	ExecutionTime       time.Duration `json:"execution_time"`
	Approach            string        `json:"approach"`
	Provider            string        `json:"provider"`
	Truncated           bool          `json:"truncated"`
	FailedCommunities   int           `json:"failed_communities"`
	DegradedCoverage    bool          `json:"degraded_coverage"`
}

// ActionReport is the outcome of a cache management action.
type ActionReport struct {
	Action            string        `json:"action"`
	CommunitiesCached int           `json:"communities_cached,omitempty"`
	SummariesCached   int           `json:"summaries_cached,omitempty"`
	EntriesRemoved    int           `json:"entries_removed,omitempty"`
	HealthyEntries    int           `json:"healthy_entries,omitempty"`
	CorruptEntries    int           `json:"corrupt_entries,omitempty"`
	Duration          time.Duration `json:"duration"`
}
