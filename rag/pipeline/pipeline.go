// Package pipeline wires the detector, summarizer, cache and answer engine
// into one query-facing facade.
package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/transitlab/graphrag/graphstore"
	"github.com/transitlab/graphrag/llm"
	"github.com/transitlab/graphrag/rag"
	"github.com/transitlab/graphrag/rag/cache"
	"github.com/transitlab/graphrag/rag/detect"
	"github.com/transitlab/graphrag/rag/query"
	"github.com/transitlab/graphrag/rag/summarize"
	"github.com/transitlab/graphrag/utils/counter"
)

// Engine is the hierarchical community retrieval engine.
type Engine struct {
	router     *query.Router
	answer     *query.Engine
	detector   *detect.Detector
	summarizer *summarize.Summarizer
	cache      cache.Cache
	cfg        *rag.Config
	log        *zap.SugaredLogger
}

// New assembles the engine. The cache may be nil to disable memoization.
func New(store graphstore.Store, model llm.LLM, provider string, c cache.Cache, opts ...rag.Option) (*Engine, error) {
	cfg := rag.DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	detector, err := detect.NewDetector(store, opts...)
	if err != nil {
		return nil, err
	}
	summarizer, err := summarize.NewSummarizer(model, provider, c, opts...)
	if err != nil {
		return nil, err
	}
	answer, err := query.NewEngine(detector, summarizer, model, c, cfg)
	if err != nil {
		return nil, err
	}

	return &Engine{
		router:     query.NewRouter(opts...),
		answer:     answer,
		detector:   detector,
		summarizer: summarizer,
		cache:      c,
		cfg:        cfg,
		log:        cfg.Logger,
	}, nil
}

// Query classifies the question and dispatches it. Local questions return
// the redirect result, global questions run the map-reduce pass.
func (e *Engine) Query(ctx context.Context, question string, scope rag.YearScope, dimensions []rag.Dimension) (*rag.QueryResult, error) {
	start := time.Now()

	kind := e.router.Classify(question)
	e.log.Infow("routing question", "type", kind, "scope", scope.String())

	if kind == rag.QuestionLocal {
		return query.AnswerLocal(question, start), nil
	}
	return e.answer.AnswerGlobal(ctx, question, scope, dimensions)
}

// CacheStats reports cache contents. Errors when no cache is configured.
func (e *Engine) CacheStats(ctx context.Context) (*cache.Stats, error) {
	if e.cache == nil {
		return nil, errors.New("no cache configured")
	}
	return e.cache.Stats(ctx)
}

// Warm detects communities for every dimension at the given scope, caches
// the partitions, and pre-generates every summary.
func (e *Engine) Warm(ctx context.Context, scope rag.YearScope) (*rag.ActionReport, error) {
	if e.cache == nil {
		return nil, errors.New("no cache configured")
	}
	start := time.Now()

	report := &rag.ActionReport{Action: "warm"}
	var all []*rag.Community
	for _, dim := range rag.AllDimensions() {
		communities, err := e.detector.Detect(ctx, dim, scope)
		if err != nil {
			return nil, err
		}
		key := cache.CommunityKey(string(dim), scope.String(), e.detector.Params(dim))
		if err := cache.PutCommunities(ctx, e.cache, key, communities); err != nil {
			return nil, err
		}
		report.CommunitiesCached += len(communities)
		all = append(all, communities...)
	}

	progress := counter.NewCounter(
		counter.WithTotal(len(all)),
		counter.WithDesc("warming summaries"),
		counter.WithLogger(e.log),
	)
	for _, community := range all {
		if _, err := e.summarizer.Summarize(ctx, community); err != nil {
			e.log.Warnw("warm summary failed", "community", community.ID, "err", err)
			continue
		}
		report.SummariesCached++
		progress.Add()
	}

	report.Duration = time.Since(start)
	return report, nil
}

// ClearCache removes every cache entry.
func (e *Engine) ClearCache(ctx context.Context) (*rag.ActionReport, error) {
	if e.cache == nil {
		return nil, errors.New("no cache configured")
	}
	start := time.Now()
	removed, err := e.cache.Clear(ctx)
	if err != nil {
		return nil, err
	}
	return &rag.ActionReport{
		Action:         "clear",
		EntriesRemoved: removed,
		Duration:       time.Since(start),
	}, nil
}

// ValidateCache scans for corrupt entries and quarantines them.
func (e *Engine) ValidateCache(ctx context.Context) (*rag.ActionReport, error) {
	if e.cache == nil {
		return nil, errors.New("no cache configured")
	}
	start := time.Now()
	report, err := e.cache.Validate(ctx)
	if err != nil {
		return nil, err
	}
	return &rag.ActionReport{
		Action:         "validate",
		HealthyEntries: report.Healthy,
		CorruptEntries: report.Corrupt,
		Duration:       time.Since(start),
	}, nil
}
