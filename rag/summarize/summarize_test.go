package summarize

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitlab/graphrag/llm"
	"github.com/transitlab/graphrag/rag"
	"github.com/transitlab/graphrag/rag/cache"
)

type stubLLM struct {
	calls int32
	reply string
	err   error
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.GenerateOption) (*llm.Generation, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.err != nil {
		return nil, s.err
	}
	return &llm.Generation{Content: s.reply}, nil
}

func (s *stubLLM) GenerateContent(ctx context.Context, messages []llm.Message, options ...llm.GenerateOption) (*llm.Generation, error) {
	return s.Generate(ctx, "")
}

func newTestCache(t *testing.T) cache.Cache {
	t.Helper()
	c, err := cache.NewBadgerCache(cache.WithInMemory())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func testCommunity() *rag.Community {
	return &rag.Community{
		ID:        "geo_bezirk_mitte",
		Dimension: rag.DimensionGeographic,
		Name:      "Bezirk Mitte",
		Political: "east",
		Metrics: rag.AggregateMetrics{
			StationCount: 12,
			LineCount:    3,
			AvgCapacity:  850,
			Modes:        []string{"sbahn", "ubahn"},
			PoliticalMix: map[string]int{"east": 3, "west": 0, "unified": 0},
		},
	}
}

func TestSummarizeGeneratesAndCaches(t *testing.T) {
	model := &stubLLM{reply: "A dense eastern district network."}
	s, err := NewSummarizer(model, "openai", newTestCache(t))
	require.NoError(t, err)

	summary, err := s.Summarize(context.Background(), testCommunity())
	require.NoError(t, err)
	assert.Equal(t, "A dense eastern district network.", summary.Text)
	assert.Equal(t, "openai", summary.Provider)
	assert.Equal(t, "geo_bezirk_mitte", summary.CommunityID)
	assert.Positive(t, summary.TokenCount)

	// Second call is served from the cache.
	again, err := s.Summarize(context.Background(), testCommunity())
	require.NoError(t, err)
	assert.Equal(t, summary.Text, again.Text)
	assert.Equal(t, int32(1), atomic.LoadInt32(&model.calls))
}

func TestSummarizeProviderIsolation(t *testing.T) {
	c := newTestCache(t)

	first, err := NewSummarizer(&stubLLM{reply: "from openai"}, "openai", c)
	require.NoError(t, err)
	second, err := NewSummarizer(&stubLLM{reply: "from mistral"}, "mistral", c)
	require.NoError(t, err)

	a, err := first.Summarize(context.Background(), testCommunity())
	require.NoError(t, err)
	b, err := second.Summarize(context.Background(), testCommunity())
	require.NoError(t, err)

	assert.Equal(t, "from openai", a.Text)
	assert.Equal(t, "from mistral", b.Text)
}

func TestSummarizeFailureNotCached(t *testing.T) {
	model := &stubLLM{err: errors.New("provider down")}
	c := newTestCache(t)
	s, err := NewSummarizer(model, "openai", c)
	require.NoError(t, err)

	_, err = s.Summarize(context.Background(), testCommunity())
	require.Error(t, err)
	assert.ErrorIs(t, err, rag.ErrSummaryUnavailable)

	// The failure was retried, never cached.
	assert.GreaterOrEqual(t, atomic.LoadInt32(&model.calls), int32(2))
	key := cache.SummaryKey("geo_bezirk_mitte", "openai", rag.DefaultPromptVersion)
	_, found, err := c.Get(context.Background(), key)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSummarizeCancelledContext(t *testing.T) {
	model := &stubLLM{err: errors.New("call aborted")}
	s, err := NewSummarizer(model, "openai", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Summarize(ctx, testCommunity())
	require.Error(t, err)
	assert.ErrorIs(t, err, rag.ErrGenerationTimeout)
}

func TestFallbackSummary(t *testing.T) {
	s, err := NewSummarizer(&stubLLM{}, "openai", nil)
	require.NoError(t, err)

	summary := s.Fallback(testCommunity())
	assert.Contains(t, summary.Text, "Bezirk Mitte")
	assert.Contains(t, summary.Text, "12 stations")
	assert.Contains(t, summary.Text, "sbahn, ubahn")
	assert.Positive(t, summary.TokenCount)
}

func TestBuildSummaryPromptTemporalFlavors(t *testing.T) {
	base := testCommunity()

	generic, err := BuildSummaryPrompt(base)
	require.NoError(t, err)
	assert.Contains(t, generic, "Bezirk Mitte")
	assert.Contains(t, generic, "Network Characteristics")

	era := *base
	era.TemporalKind = rag.TemporalEra
	era.TemporalKey = "wall_era_1962_1975"
	eraPrompt, err := BuildSummaryPrompt(&era)
	require.NoError(t, err)
	assert.Contains(t, eraPrompt, "DIACHRONIC ANALYSIS")
	assert.Contains(t, eraPrompt, "wall_era_1962_1975")

	snapshot := *base
	snapshot.TemporalKind = rag.TemporalSnapshot
	snapshot.TemporalKey = "1961"
	snapPrompt, err := BuildSummaryPrompt(&snapshot)
	require.NoError(t, err)
	assert.Contains(t, snapPrompt, "SYNCHRONIC ANALYSIS")
	assert.Contains(t, snapPrompt, "Snapshot Year**: 1961")
}
