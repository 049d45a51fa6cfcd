package summarize

import (
	"fmt"
	"strings"

	"github.com/transitlab/graphrag/prompt"
	"github.com/transitlab/graphrag/rag"
	"github.com/transitlab/graphrag/rag/prompts"
)

// BuildSummaryPrompt assembles the structured summarization prompt for one
// community. Temporal communities get era, evolution or snapshot specific
// context and analysis instructions, everything else gets the generic set.
func BuildSummaryPrompt(c *rag.Community) (string, error) {
	var b strings.Builder

	header, err := render(prompts.SummaryHeader, map[string]any{
		"name":      c.Name,
		"dimension": string(c.Dimension),
		"level":     c.Level,
		"political": c.Political,
	})
	if err != nil {
		return "", err
	}
	b.WriteString(header)

	switch c.TemporalKind {
	case rag.TemporalEra:
		section, err := render(prompts.SummaryEraContext, map[string]any{"period": c.TemporalKey})
		if err != nil {
			return "", err
		}
		b.WriteString(section)
	case rag.TemporalEvolution:
		section, err := render(prompts.SummaryEvolutionContext, map[string]any{"pattern": c.TemporalKey})
		if err != nil {
			return "", err
		}
		b.WriteString(section)
	case rag.TemporalSnapshot:
		section, err := render(prompts.SummarySnapshotContext, map[string]any{"year": c.TemporalKey})
		if err != nil {
			return "", err
		}
		b.WriteString(section)
	}

	infra, err := render(prompts.SummaryInfrastructure, map[string]any{
		"station_count":   c.Metrics.StationCount,
		"line_count":      c.Metrics.LineCount,
		"transport_types": modeList(c.Metrics.Modes),
		"avg_capacity":    num(c.Metrics.AvgCapacity),
		"avg_frequency":   num(c.Metrics.AvgFrequency),
		"total_length_km": num(c.Metrics.TotalLengthKM),
		"east_count":      c.Metrics.PoliticalMix["east"],
		"west_count":      c.Metrics.PoliticalMix["west"],
		"unified_count":   c.Metrics.PoliticalMix["unified"],
	})
	if err != nil {
		return "", err
	}
	b.WriteString(infra)

	if len(c.Areas) > 0 {
		names := make([]string, len(c.Areas))
		for i, area := range c.Areas {
			names[i] = area.Name
		}
		section, err := render(prompts.SummaryGeographicCoverage, map[string]any{
			"areas": strings.Join(names, ", "),
		})
		if err != nil {
			return "", err
		}
		b.WriteString(section)
	}

	if c.Bounds != nil {
		section, err := render(prompts.SummaryGeographicBounds, map[string]any{
			"min_lat": fmt.Sprintf("%.4f", c.Bounds.MinLat),
			"max_lat": fmt.Sprintf("%.4f", c.Bounds.MaxLat),
			"min_lon": fmt.Sprintf("%.4f", c.Bounds.MinLon),
			"max_lon": fmt.Sprintf("%.4f", c.Bounds.MaxLon),
		})
		if err != nil {
			return "", err
		}
		b.WriteString(section)
	}

	historical, err := render(prompts.SummaryHistoricalContext, map[string]any{
		"time_period": c.Scope.String(),
	})
	if err != nil {
		return "", err
	}
	b.WriteString(historical)

	switch c.TemporalKind {
	case rag.TemporalEra:
		b.WriteString(prompts.SummaryEraInstructions)
	case rag.TemporalEvolution:
		b.WriteString(prompts.SummaryEvolutionInstructions)
	case rag.TemporalSnapshot:
		b.WriteString(prompts.SummarySnapshotInstructions)
	default:
		b.WriteString(prompts.SummaryGenericInstructions)
	}

	return b.String(), nil
}

func renderFallback(c *rag.Community) string {
	text, err := render(prompts.FallbackSummary, map[string]any{
		"name":            c.Name,
		"dimension":       string(c.Dimension),
		"station_count":   c.Metrics.StationCount,
		"line_count":      c.Metrics.LineCount,
		"transport_types": modeList(c.Metrics.Modes),
		"political":       c.Political,
	})
	if err != nil {
		// The fallback template has fixed variables, this cannot happen
		// with a well-formed template.
		return c.Name
	}
	return text
}

func render(template string, values map[string]any) (string, error) {
	t, err := prompt.NewPromptTemplate(template)
	if err != nil {
		return "", err
	}
	return t.Format(values)
}

func modeList(modes []string) string {
	if len(modes) == 0 {
		return "unknown"
	}
	return strings.Join(modes, ", ")
}

func num(v float64) string {
	if v == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", v)
}
