// Package summarize turns detected communities into natural-language
// summaries through a text-generation model, with a cache-first lookup per
// (community, provider, prompt version).
package summarize

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"

	"github.com/transitlab/graphrag/llm"
	"github.com/transitlab/graphrag/rag"
	"github.com/transitlab/graphrag/rag/cache"
)

const (
	summaryMaxTokens   = 1000
	summaryTemperature = 0.3

	// maxAttempts bounds generation retries before surfacing failure.
	maxAttempts = 3

	retryInitialInterval = 500 * time.Millisecond
)

// Summarizer generates and caches community summaries for one provider.
type Summarizer struct {
	model    llm.LLM
	provider string
	cache    cache.Cache
	cfg      *rag.Config
	log      *zap.SugaredLogger
	encoder  *tiktoken.Tiktoken
}

// NewSummarizer builds a Summarizer. The cache may be nil, in which case
// every call generates.
func NewSummarizer(model llm.LLM, provider string, c cache.Cache, opts ...rag.Option) (*Summarizer, error) {
	if model == nil {
		return nil, errors.New("llm is required")
	}
	if provider == "" {
		return nil, errors.New("provider name is required")
	}
	cfg := rag.DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	encoder, err := tiktoken.GetEncoding(rag.DefaultTokenEncoding)
	if err != nil {
		return nil, errors.Wrap(err, "load token encoding")
	}
	return &Summarizer{
		model:    model,
		provider: provider,
		cache:    c,
		cfg:      cfg,
		log:      cfg.Logger,
		encoder:  encoder,
	}, nil
}

// Provider returns the provider name summaries are keyed under.
func (s *Summarizer) Provider() string { return s.provider }

// Summarize returns the summary for a community, from cache when possible.
// Generation failures are retried with exponential backoff up to the
// attempt bound, then surfaced as a typed error. Failed generations are
// never written to the cache.
func (s *Summarizer) Summarize(ctx context.Context, community *rag.Community) (*rag.CommunitySummary, error) {
	key := cache.SummaryKey(community.ID, s.provider, s.cfg.PromptVersion)

	if s.cache != nil {
		cached, found, err := cache.GetSummary(ctx, s.cache, key)
		if err != nil {
			s.log.Warnw("summary cache read failed", "key", key, "err", err)
		}
		if found {
			return cached, nil
		}
	}

	promptText, err := BuildSummaryPrompt(community)
	if err != nil {
		return nil, err
	}

	text, err := s.generate(ctx, promptText, summaryMaxTokens, summaryTemperature)
	if err != nil {
		return nil, err
	}

	summary := &rag.CommunitySummary{
		CommunityID:   community.ID,
		Provider:      s.provider,
		PromptVersion: s.cfg.PromptVersion,
		Text:          text,
		TokenCount:    len(s.encoder.Encode(text, nil, nil)),
		GeneratedAt:   time.Now().UTC(),
	}

	if s.cache != nil {
		if err := cache.PutSummary(ctx, s.cache, key, summary); err != nil {
			s.log.Warnw("summary cache write failed", "key", key, "err", err)
		}
	}
	return summary, nil
}

// Fallback builds a metrics-only summary with no model call. Callers opt in
// when generation failed but the community should still contribute counts.
func (s *Summarizer) Fallback(community *rag.Community) *rag.CommunitySummary {
	text := renderFallback(community)
	return &rag.CommunitySummary{
		CommunityID:   community.ID,
		Provider:      s.provider,
		PromptVersion: s.cfg.PromptVersion,
		Text:          text,
		TokenCount:    len(s.encoder.Encode(text, nil, nil)),
		GeneratedAt:   time.Now().UTC(),
	}
}

func (s *Summarizer) generate(ctx context.Context, promptText string, maxTokens int, temperature float32) (string, error) {
	var text string

	operation := func() error {
		generation, err := s.model.Generate(ctx, promptText,
			llm.WithMaxTokens(maxTokens),
			llm.WithTemperature(temperature))
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		text = generation.Content
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = retryInitialInterval
	err := backoff.Retry(operation,
		backoff.WithContext(backoff.WithMaxRetries(policy, maxAttempts-1), ctx))
	if err != nil {
		if ctx.Err() != nil {
			return "", errors.Wrap(rag.ErrGenerationTimeout, err.Error())
		}
		return "", errors.Wrap(rag.ErrSummaryUnavailable, err.Error())
	}
	return text, nil
}
