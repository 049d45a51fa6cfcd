package query

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"

	"github.com/transitlab/graphrag/llm"
	"github.com/transitlab/graphrag/prompt"
	"github.com/transitlab/graphrag/rag"
	"github.com/transitlab/graphrag/rag/cache"
	"github.com/transitlab/graphrag/rag/detect"
	"github.com/transitlab/graphrag/rag/prompts"
	"github.com/transitlab/graphrag/rag/summarize"
	"github.com/transitlab/graphrag/utils/parallel"
	"github.com/transitlab/graphrag/utils/ratelimit"
)

const (
	mapMaxTokens      = 500
	mapTemperature    = 0.3
	reduceMaxTokens   = 1500
	reduceTemperature = 0.4

	// reduceContextTokens caps the combined partial answers fed into the
	// reduce prompt.
	reduceContextTokens = 6000

	// reduceGraceTimeout bounds the reduce call when the caller deadline
	// expired during the map fan-out but partial answers completed.
	reduceGraceTimeout = 30 * time.Second
)

// Engine answers global questions: select communities, ensure summaries,
// map each summary against the question, reduce the partial answers into
// one synthesized answer.
type Engine struct {
	detector   *detect.Detector
	summarizer *summarize.Summarizer
	model      llm.LLM
	cache      cache.Cache
	limiter    *ratelimit.TokenBucket
	encoder    *tiktoken.Tiktoken
	cfg        *rag.Config
	log        *zap.SugaredLogger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithRateLimit bounds model calls to rate per second with the given burst.
func WithRateLimit(rate float64, burst int64) EngineOption {
	return func(e *Engine) { e.limiter = ratelimit.NewTokenBucket(rate, burst) }
}

// NewEngine builds the map-reduce answer engine. The cache may be nil.
func NewEngine(detector *detect.Detector, summarizer *summarize.Summarizer, model llm.LLM, c cache.Cache, cfg *rag.Config, opts ...EngineOption) (*Engine, error) {
	if detector == nil || summarizer == nil || model == nil {
		return nil, errors.New("detector, summarizer and llm are required")
	}
	if cfg == nil {
		cfg = rag.DefaultConfig()
	}
	encoder, err := tiktoken.GetEncoding(rag.DefaultTokenEncoding)
	if err != nil {
		return nil, errors.Wrap(err, "load token encoding")
	}
	e := &Engine{
		detector:   detector,
		summarizer: summarizer,
		model:      model,
		cache:      c,
		encoder:    encoder,
		cfg:        cfg,
		log:        cfg.Logger,
	}
	if cfg.LLMCallsPerSecond > 0 {
		burst := cfg.LLMCallBurst
		if burst <= 0 {
			burst = 1
		}
		e.limiter = ratelimit.NewTokenBucket(cfg.LLMCallsPerSecond, burst)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

type partialAnswer struct {
	communityID string
	text        string
}

// AnswerGlobal runs the full map-reduce pass. Per-community failures are
// absorbed into result metadata, only graph store unavailability, an empty
// community selection or total generation failure surface as errors.
func (e *Engine) AnswerGlobal(ctx context.Context, question string, scope rag.YearScope, dimensions []rag.Dimension) (*rag.QueryResult, error) {
	start := time.Now()

	communities, truncated, err := e.SelectCommunities(ctx, scope, dimensions)
	if err != nil {
		return nil, err
	}
	if len(communities) == 0 {
		return nil, rag.ErrNoCommunities
	}

	summaries, failed := e.EnsureSummaries(ctx, communities)
	if len(summaries) == 0 {
		return nil, errors.Wrap(rag.ErrGenerationUnavailable,
			"no community summaries could be produced")
	}

	partials, mapTimedOut := e.mapPhase(ctx, question, summaries)
	if len(partials) == 0 {
		if mapTimedOut {
			return nil, errors.Wrap(rag.ErrGenerationTimeout,
				"deadline expired before any community answered")
		}
		return e.result(start, communities, summaries, failed, truncated,
			rag.InsufficientInformationAnswer), nil
	}

	answer, dropped, err := e.reducePhase(ctx, question, partials)
	if err != nil {
		return nil, err
	}

	result := e.result(start, communities, summaries, failed, truncated, answer)
	result.Truncated = result.Truncated || dropped > 0
	result.DegradedCoverage = result.DegradedCoverage || mapTimedOut
	return result, nil
}

// SelectCommunities resolves communities for the requested dimensions,
// cache first, detecting and caching on miss. Truncation keeps the largest
// communities up to the configured cap, ties broken by ascending id.
func (e *Engine) SelectCommunities(ctx context.Context, scope rag.YearScope, dimensions []rag.Dimension) ([]*rag.Community, bool, error) {
	if len(dimensions) == 0 {
		dimensions = rag.AllDimensions()
	}

	var all []*rag.Community
	for _, dim := range dimensions {
		communities, err := e.communitiesFor(ctx, dim, scope)
		if err != nil {
			return nil, false, err
		}
		all = append(all, communities...)
	}

	rag.SortCommunities(all)
	if len(all) > e.cfg.MaxCommunitiesPerQuery {
		e.log.Infow("truncating community selection",
			"selected", len(all), "cap", e.cfg.MaxCommunitiesPerQuery)
		return all[:e.cfg.MaxCommunitiesPerQuery], true, nil
	}
	return all, false, nil
}

func (e *Engine) communitiesFor(ctx context.Context, dim rag.Dimension, scope rag.YearScope) ([]*rag.Community, error) {
	if e.cache == nil {
		return e.detector.Detect(ctx, dim, scope)
	}

	key := cache.CommunityKey(string(dim), scope.String(), e.detector.Params(dim))
	cached, found, err := cache.GetCommunities(ctx, e.cache, key)
	if err != nil {
		e.log.Warnw("community cache read failed", "key", key, "err", err)
	}
	if found {
		return cached, nil
	}

	communities, err := e.detector.Detect(ctx, dim, scope)
	if err != nil {
		return nil, err
	}
	if err := cache.PutCommunities(ctx, e.cache, key, communities); err != nil {
		e.log.Warnw("community cache write failed", "key", key, "err", err)
	}
	return communities, nil
}

type summarized struct {
	community *rag.Community
	summary   *rag.CommunitySummary
}

// EnsureSummaries produces a summary per community, concurrently up to the
// configured limit. Communities whose generation fails after retries are
// excluded and counted rather than aborting the query.
func (e *Engine) EnsureSummaries(ctx context.Context, communities []*rag.Community) ([]summarized, int) {
	concurrency := e.cfg.LLMCallConcurrency
	if !e.cfg.ParallelSummaryGeneration {
		concurrency = 1
	}

	results, _ := parallel.ParallelCtx(ctx, func(ctx context.Context, i int) any {
		if err := e.waitLimiter(ctx); err != nil {
			return err
		}
		summary, err := e.summarizer.Summarize(ctx, communities[i])
		if err != nil {
			e.log.Warnw("community summary failed",
				"community", communities[i].ID, "err", err)
			return err
		}
		return summary
	}, len(communities), concurrency)

	var summaries []summarized
	failed := 0
	for i, r := range results {
		summary, ok := r.(*rag.CommunitySummary)
		if !ok {
			failed++
			continue
		}
		summaries = append(summaries, summarized{community: communities[i], summary: summary})
	}
	return summaries, failed
}

// mapPhase asks, per community, how its summary answers the question.
// Summaries producing no relevant signal contribute nothing. Reports
// whether the deadline cut the fan-out short.
func (e *Engine) mapPhase(ctx context.Context, question string, summaries []summarized) ([]partialAnswer, bool) {
	results, ctxErr := parallel.ParallelCtx(ctx, func(ctx context.Context, i int) any {
		if err := e.waitLimiter(ctx); err != nil {
			return nil
		}
		text, err := e.generate(ctx, prompts.MapAnswer, map[string]any{
			"question": question,
			"summary":  summaries[i].summary.Text,
		}, mapMaxTokens, mapTemperature)
		if err != nil {
			e.log.Warnw("map step failed",
				"community", summaries[i].community.ID, "err", err)
			return nil
		}
		if !relevant(text) {
			return nil
		}
		return partialAnswer{communityID: summaries[i].community.ID, text: text}
	}, len(summaries), e.cfg.LLMCallConcurrency)

	var partials []partialAnswer
	for _, r := range results {
		if p, ok := r.(partialAnswer); ok {
			partials = append(partials, p)
		}
	}
	// Deterministic reduce input regardless of completion order.
	sort.Slice(partials, func(i, j int) bool {
		return partials[i].communityID < partials[j].communityID
	})
	// The fan-out may launch every task before the deadline expires, in
	// which case ParallelCtx reports no error but the map calls themselves
	// failed on the dead context. Check the context directly.
	return partials, ctxErr != nil || ctx.Err() != nil
}

// reducePhase synthesizes the final answer. Partial answers beyond the
// context token budget are dropped from the end of the id-ordered list,
// never silently truncated mid-text. Partials that completed before an
// expired caller deadline are still synthesized, on a bounded grace
// context, rather than discarded.
func (e *Engine) reducePhase(ctx context.Context, question string, partials []partialAnswer) (string, int, error) {
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.WithoutCancel(ctx), reduceGraceTimeout)
		defer cancel()
	}

	var b strings.Builder
	budget := reduceContextTokens
	included := 0
	for _, p := range partials {
		cost := len(e.encoder.Encode(p.text, nil, nil))
		if included > 0 && cost > budget {
			break
		}
		if included > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Community Analysis %d:\n%s", included+1, p.text)
		budget -= cost
		included++
	}
	dropped := len(partials) - included
	if dropped > 0 {
		e.log.Infow("reduce context budget reached",
			"included", included, "dropped", dropped)
	}

	answer, err := e.generate(ctx, prompts.ReduceAnswer, map[string]any{
		"question": question,
		"analyses": b.String(),
	}, reduceMaxTokens, reduceTemperature)
	if err != nil {
		if ctx.Err() != nil {
			return "", 0, errors.Wrap(rag.ErrGenerationTimeout, err.Error())
		}
		return "", 0, errors.Wrap(rag.ErrGenerationUnavailable, err.Error())
	}
	return answer, dropped, nil
}

func (e *Engine) generate(ctx context.Context, template string, values map[string]any, maxTokens int, temperature float32) (string, error) {
	t, err := prompt.NewPromptTemplate(template)
	if err != nil {
		return "", err
	}
	text, err := t.Format(values)
	if err != nil {
		return "", err
	}
	generation, err := e.model.Generate(ctx, text,
		llm.WithMaxTokens(maxTokens),
		llm.WithTemperature(temperature))
	if err != nil {
		return "", err
	}
	return generation.Content, nil
}

func (e *Engine) waitLimiter(ctx context.Context) error {
	if e.limiter == nil {
		return nil
	}
	return e.limiter.Wait(ctx)
}

func (e *Engine) result(start time.Time, communities []*rag.Community, summaries []summarized, failed int, truncated bool, answer string) *rag.QueryResult {
	return &rag.QueryResult{
		Answer:              answer,
		QuestionType:        rag.QuestionGlobal,
		CommunitiesAnalyzed: len(communities),
		ContextItemCount:    len(summaries),
		ExecutionTime:       time.Since(start),
		Approach:            "graphrag_map_reduce",
		Provider:            e.summarizer.Provider(),
		Truncated:           truncated,
		FailedCommunities:   failed,
		DegradedCoverage:    failed > 0,
	}
}

// Phrases a map answer uses to signal the community holds nothing relevant.
var irrelevantMarkers = []string{
	"does not contain relevant",
	"doesn't contain relevant",
	"no relevant information",
	"not relevant to this question",
	"cannot answer this question",
}

func relevant(answer string) bool {
	if strings.TrimSpace(answer) == "" {
		return false
	}
	lower := strings.ToLower(answer)
	for _, marker := range irrelevantMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}
