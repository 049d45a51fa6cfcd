// Package query classifies incoming questions and answers global ones with
// a map-reduce pass over community summaries.
package query

import (
	"strings"

	"github.com/transitlab/graphrag/rag"
)

// Keyword lists for the routing heuristic. Global indicators signal
// system-wide, comparative or multi-period analysis, local indicators a
// single station, line or journey.
var (
	globalIndicators = []string{
		"overall", "main", "key", "primary", "major", "most important",
		"trends", "patterns", "development", "evolution", "changes",
		"comparison", "compare", "differences", "similarities",
		"network", "system", "infrastructure", "coverage",
		"east", "west", "political", "division", "sector",
	}
	localIndicators = []string{
		"specific", "particular", "individual", "single",
		"station", "line", "route", "connection",
		"how to get", "travel from", "journey", "trip",
	}
)

// Router classifies questions as global or local.
type Router struct {
	cfg *rag.Config
}

// NewRouter builds a Router.
func NewRouter(opts ...rag.Option) *Router {
	cfg := rag.DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Router{cfg: cfg}
}

// Classify scores the question against both indicator lists. A question is
// global when global indicators outnumber local ones, or when the global
// score reaches the configured threshold regardless of local matches.
func (r *Router) Classify(question string) rag.QuestionType {
	lower := strings.ToLower(question)

	globalScore := score(lower, globalIndicators)
	localScore := score(lower, localIndicators)

	if globalScore > localScore || globalScore >= r.cfg.GlobalQuestionThreshold {
		return rag.QuestionGlobal
	}
	return rag.QuestionLocal
}

func score(question string, indicators []string) int {
	n := 0
	for _, indicator := range indicators {
		if strings.Contains(question, indicator) {
			n++
		}
	}
	return n
}
