package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config is the file-backed runtime configuration.
type Config struct {
	Database struct {
		DSN string `yaml:"dsn"`
	} `yaml:"database"`

	Cache struct {
		Path string `yaml:"path"`
	} `yaml:"cache"`

	LLM struct {
		Provider string `yaml:"provider"` // openai or mistral
		Token    string `yaml:"token"`
		Model    string `yaml:"model"`
		BaseURL  string `yaml:"base_url"`
	} `yaml:"llm"`

	Engine struct {
		MinCommunitySize       int     `yaml:"min_community_size"`
		MaxCommunitiesPerQuery int     `yaml:"max_communities_per_query"`
		LLMCallConcurrency     int     `yaml:"llm_call_concurrency"`
		LLMCallsPerSecond      float64 `yaml:"llm_calls_per_second"`
		LLMCallBurst           int64   `yaml:"llm_call_burst"`
		SnapshotYears          []int   `yaml:"snapshot_years"`
	} `yaml:"engine"`
}

// LoadConfig reads and parses a yaml config file. Environment variables
// override the token so secrets stay out of config files.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	if token := os.Getenv("TRANSITRAG_LLM_TOKEN"); token != "" {
		cfg.LLM.Token = token
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "openai"
	}
	return cfg, nil
}
