package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/haasonsaas/letta-lite/internal/memory/embeddings"
	embedollama "github.com/haasonsaas/letta-lite/internal/memory/embeddings/ollama"
	embedopenai "github.com/haasonsaas/letta-lite/internal/memory/embeddings/openai"
	"github.com/haasonsaas/letta-lite/internal/storage"
	"github.com/haasonsaas/letta-lite/internal/sync"
	"github.com/haasonsaas/letta-lite/pkg/models"
)

// EmbeddingConfig selects and configures the optional embedder wired into
// archival_insert. Provider is "" (no embedder, the default), "openai" or
// "ollama"; only the matching sub-section is used.
type EmbeddingConfig struct {
	Provider string             `yaml:"provider"`
	OpenAI   embedopenai.Config `yaml:"openai"`
	Ollama   embedollama.Config `yaml:"ollama"`
}

// CLIConfig is the on-disk shape loaded by --config; any section absent
// from the file keeps its package default.
type CLIConfig struct {
	Agent      models.AgentConfig `yaml:"agent"`
	Storage    storage.Config     `yaml:"storage"`
	Sync       sync.Config        `yaml:"sync"`
	Embeddings EmbeddingConfig    `yaml:"embeddings"`
}

func defaultCLIConfig() CLIConfig {
	return CLIConfig{
		Agent:   models.DefaultAgentConfig(),
		Storage: storage.DefaultConfig(),
		Sync:    sync.DefaultConfig(),
	}
}

// buildEmbedder constructs the embedder named by cfg.Provider, or returns
// (nil, nil) when no provider is configured — archival_insert then
// persists chunks with a NULL embedding column.
func buildEmbedder(cfg EmbeddingConfig) (embeddings.Provider, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "openai":
		return embedopenai.New(cfg.OpenAI)
	case "ollama":
		return embedollama.New(cfg.Ollama)
	default:
		return nil, fmt.Errorf("unknown embeddings provider: %s", cfg.Provider)
	}
}

// loadConfig reads path if it exists, overlaying its fields onto the
// defaults; a path that does not exist yields the bare defaults rather
// than an error, so the CLI runs with zero setup.
func loadConfig(path string) (CLIConfig, error) {
	cfg := defaultCLIConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
