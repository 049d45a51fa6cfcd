// Command transitrag answers questions about the historical Berlin
// transport network through hierarchical community retrieval, and manages
// the cache that backs it.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/transitlab/graphrag/graphstore/db"
	"github.com/transitlab/graphrag/llm"
	"github.com/transitlab/graphrag/llm/mistral"
	"github.com/transitlab/graphrag/llm/openai"
	"github.com/transitlab/graphrag/rag"
	"github.com/transitlab/graphrag/rag/cache"
	"github.com/transitlab/graphrag/rag/pipeline"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "transitrag",
		Short:         "Community-based retrieval over the historical Berlin transport network",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "transitrag.yaml", "path to config file")

	root.AddCommand(newQueryCmd(), newCacheCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// buildEngine assembles the full engine from the config file.
func buildEngine() (*pipeline.Engine, func(), error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, nil, errors.Wrap(err, "init logger")
	}
	log := logger.Sugar()

	gormDB, err := db.Open(cfg.Database.DSN)
	if err != nil {
		return nil, nil, err
	}
	store, err := db.NewStore(db.WithDB(gormDB))
	if err != nil {
		return nil, nil, err
	}

	model, err := buildModel(cfg)
	if err != nil {
		return nil, nil, err
	}

	c, err := cache.NewBadgerCache(
		cache.WithPath(cfg.Cache.Path),
		cache.WithLogger(log),
	)
	if err != nil {
		return nil, nil, err
	}

	opts := []rag.Option{rag.WithLogger(log)}
	if cfg.Engine.MinCommunitySize > 0 {
		opts = append(opts, rag.WithMinCommunitySize(cfg.Engine.MinCommunitySize))
	}
	if cfg.Engine.MaxCommunitiesPerQuery > 0 {
		opts = append(opts, rag.WithMaxCommunitiesPerQuery(cfg.Engine.MaxCommunitiesPerQuery))
	}
	if cfg.Engine.LLMCallConcurrency > 0 {
		opts = append(opts, rag.WithLLMCallConcurrency(cfg.Engine.LLMCallConcurrency))
	}
	if cfg.Engine.LLMCallsPerSecond > 0 {
		opts = append(opts, rag.WithRateLimit(cfg.Engine.LLMCallsPerSecond, cfg.Engine.LLMCallBurst))
	}
	if len(cfg.Engine.SnapshotYears) > 0 {
		opts = append(opts, rag.WithSnapshotYears(cfg.Engine.SnapshotYears))
	}

	engine, err := pipeline.New(store, model, cfg.LLM.Provider, c, opts...)
	if err != nil {
		c.Close()
		return nil, nil, err
	}

	cleanup := func() {
		c.Close()
		_ = logger.Sync()
	}
	return engine, cleanup, nil
}

func buildModel(cfg *Config) (llm.LLM, error) {
	switch cfg.LLM.Provider {
	case "openai":
		opts := []openai.Option{openai.WithToken(cfg.LLM.Token)}
		if cfg.LLM.Model != "" {
			opts = append(opts, openai.WithModel(cfg.LLM.Model))
		}
		if cfg.LLM.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.LLM.BaseURL))
		}
		return openai.New(opts...)
	case "mistral":
		opts := []mistral.Option{mistral.WithToken(cfg.LLM.Token)}
		if cfg.LLM.Model != "" {
			opts = append(opts, mistral.WithModel(cfg.LLM.Model))
		}
		if cfg.LLM.BaseURL != "" {
			opts = append(opts, mistral.WithBaseURL(cfg.LLM.BaseURL))
		}
		return mistral.New(opts...)
	}
	return nil, errors.Errorf("unknown llm provider %q", cfg.LLM.Provider)
}
