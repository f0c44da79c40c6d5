package llm

import (
	"errors"
	"fmt"
	"os"
	"time"
)

type Provider string

const (
	ProviderOpenAI   Provider = "openai"
	ProviderTogether Provider = "together"
)

const (
	TogetherBaseURL = "https://api.together.xyz/v1"
	defaultTimeout  = 120 * time.Second
)

type Config struct {
	Provider Provider
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

// LoadConfigFromEnv reads provider credentials:
// OPENAI_API_KEY / OPENAI_BASE_URL or TOGETHER_API_KEY / TOGETHER_BASE_URL,
// plus an optional LLM_TIMEOUT duration shared by both.
func LoadConfigFromEnv(provider Provider) (*Config, error) {
	cfg := &Config{Provider: provider, Timeout: defaultTimeout}

	switch provider {
	case ProviderOpenAI:
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		cfg.BaseURL = os.Getenv("OPENAI_BASE_URL")
		if cfg.APIKey == "" {
			return nil, errors.New("OPENAI_API_KEY environment variable not set")
		}
	case ProviderTogether:
		cfg.APIKey = os.Getenv("TOGETHER_API_KEY")
		cfg.BaseURL = os.Getenv("TOGETHER_BASE_URL")
		if cfg.BaseURL == "" {
			cfg.BaseURL = TogetherBaseURL
		}
		if cfg.APIKey == "" {
			return nil, errors.New("TOGETHER_API_KEY environment variable not set")
		}
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}

	if raw := os.Getenv("LLM_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("parse LLM_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}

	return cfg, nil
}
