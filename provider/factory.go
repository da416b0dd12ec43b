package provider

import (
	"fmt"
	"os"

	"github.com/orlevii/agent-prism/config"
	"github.com/orlevii/agent-prism/model"
)

// ProviderType identifies a backend kind for the factory.
type ProviderType string

const (
	ProviderTypeAgent  ProviderType = "agent"
	ProviderTypeOllama ProviderType = "ollama"
	ProviderTypeOpenAI ProviderType = "openai"
)

// Config carries the constructor parameters common to all backends.
type Config struct {
	Type    ProviderType
	BaseURL string
	APIKey  string
	Target  string

	// Ollama only
	Temperature float64
	Think       bool
}

// NewProvider creates a provider based on configuration. This is the
// centralized factory for every backend kind.
func NewProvider(cfg Config) (model.Provider, error) {
	switch cfg.Type {
	case ProviderTypeAgent:
		return NewAgentProvider(cfg.BaseURL, cfg.Target)
	case ProviderTypeOllama:
		return NewOllamaProvider(cfg.BaseURL, cfg.Target, cfg.Temperature, cfg.Think)
	case ProviderTypeOpenAI:
		return NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Target)
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

// FromAppConfig builds the provider selected by the application config.
func FromAppConfig(cfg *config.Config) (model.Provider, error) {
	switch cfg.Backend {
	case "agent", "":
		return NewAgentProvider(cfg.AgentBaseURL, cfg.DefaultAgent)
	case "ollama":
		return NewOllamaProvider(cfg.OllamaHost, cfg.OllamaModel, cfg.Temperature, cfg.Think)
	case "openai":
		apiKey := os.Getenv(cfg.OpenAIKeyEnv)
		if apiKey == "" {
			return nil, fmt.Errorf("OpenAI API key not set (expected in $%s)", cfg.OpenAIKeyEnv)
		}
		return NewOpenAIProvider(cfg.OpenAIBaseURL, apiKey, cfg.OpenAIModel)
	default:
		return nil, fmt.Errorf("unknown backend %q (want agent, ollama, or openai)", cfg.Backend)
	}
}
