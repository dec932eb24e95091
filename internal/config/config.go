package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type LLMConfig struct {
	Provider    string `yaml:"provider"` // "openai" or "ollama"
	BaseURL     string `yaml:"base_url"`
	Key         string `yaml:"key"`
	KeyEnv      string `yaml:"key_env"`
	Model       string `yaml:"model"`
	Dimensions  int    `yaml:"dimensions"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries"`
}

type StoreConfig struct {
	Type       string `yaml:"type"` // "chromem", "postgres" or "memory"
	Path       string `yaml:"path"`
	Collection string `yaml:"collection"`
	DSN        string `yaml:"dsn"`
	Password   string `yaml:"password"`
	Debug      bool   `yaml:"debug"`
}

type IngestConfig struct {
	Workers        int    `yaml:"workers"`
	StagingDir     string `yaml:"staging_dir"`
	OverflowPolicy string `yaml:"overflow_policy"` // "abort-document" or "skip-chunk"
	MaxInputTokens int    `yaml:"max_input_tokens"`
}

type RAGConfig struct {
	TopK         int    `yaml:"top_k"`
	SystemPrompt string `yaml:"system_prompt"`
}

type Config struct {
	EmbedLLM LLMConfig    `yaml:"embed_llm"`
	ChatLLM  LLMConfig    `yaml:"chat_llm"`
	Store    StoreConfig  `yaml:"store"`
	Ingest   IngestConfig `yaml:"ingest"`
	RAG      RAGConfig    `yaml:"rag"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	applyDefaults(&cfg)
	resolveKeys(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.EmbedLLM.Provider == "" {
		cfg.EmbedLLM.Provider = "openai"
	}
	if cfg.EmbedLLM.Dimensions == 0 {
		cfg.EmbedLLM.Dimensions = 3072
	}
	if cfg.EmbedLLM.TimeoutSecs == 0 {
		cfg.EmbedLLM.TimeoutSecs = 30
	}
	if cfg.EmbedLLM.MaxRetries == 0 {
		cfg.EmbedLLM.MaxRetries = 3
	}
	if cfg.ChatLLM.Provider == "" {
		cfg.ChatLLM.Provider = "openai"
	}
	if cfg.ChatLLM.TimeoutSecs == 0 {
		cfg.ChatLLM.TimeoutSecs = 60
	}
	if cfg.Store.Type == "" {
		cfg.Store.Type = "chromem"
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "./chromemdb"
	}
	if cfg.Store.Collection == "" {
		cfg.Store.Collection = "chunks"
	}
	if cfg.Ingest.Workers == 0 {
		cfg.Ingest.Workers = 4
	}
	if cfg.Ingest.StagingDir == "" {
		cfg.Ingest.StagingDir = "./staging"
	}
	if cfg.Ingest.OverflowPolicy == "" {
		cfg.Ingest.OverflowPolicy = "abort-document"
	}
	if cfg.Ingest.MaxInputTokens == 0 {
		cfg.Ingest.MaxInputTokens = 8191
	}
	if cfg.RAG.TopK == 0 {
		cfg.RAG.TopK = 3
	}
}

// resolveKeys fills credentials from the environment so they can stay out of
// the config file.
func resolveKeys(cfg *Config) {
	for _, llm := range []*LLMConfig{&cfg.EmbedLLM, &cfg.ChatLLM} {
		if llm.Key == "" && llm.KeyEnv != "" {
			llm.Key = os.Getenv(llm.KeyEnv)
		}
		if llm.Key == "" {
			llm.Key = os.Getenv("OPENAI_API_KEY")
		}
	}
	if cfg.Store.Password == "" {
		cfg.Store.Password = os.Getenv("STORE_PASSWORD")
	}
}
