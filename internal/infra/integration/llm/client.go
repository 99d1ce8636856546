// Package llm talks to hosted generative-text APIs.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

var (
	ErrNotConfigured = errors.New("llm api key not configured")
	ErrEmptyResponse = errors.New("llm returned no text")
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	defaultOpenAIModel    = "gpt-4o-mini"
	defaultAnthropicModel = "claude-3-5-haiku-latest"
	defaultMaxTokens      = 800
	defaultTemperature    = 0.7
)

type Config struct {
	Provider string
	APIKey   string
	BaseURL  string // optional; OpenAI-compatible gateways or a proxy
	Model    string
}

// Client is implemented by every provider.
type Client interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
	Configured() bool
	Name() string
}

func NewClient(cfg Config, logger *zap.Logger) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderOpenAI:
		return NewOpenAIClient(cfg, logger), nil
	case ProviderAnthropic:
		return NewAnthropicClient(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
