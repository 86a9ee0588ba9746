package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/genescan/internal/config"
	"go.uber.org/zap"
)

// defaultTokenEnv names the variable consulted when no key is configured.
var defaultTokenEnv = map[string]string{
	"openai": "OPENAI_API_KEY",
	"claude": "ANTHROPIC_API_KEY",
	"gemini": "GEMINI_API_KEY",
}

// TokensFor picks the credential source for a backend config:
// an inline key, then api_key_env, then the provider's conventional variable.
func TokensFor(cfg config.BackendConfig) TokenProvider {
	if cfg.APIKey != "" {
		return StaticToken(cfg.APIKey)
	}
	if cfg.APIKeyEnv != "" {
		return EnvToken{Var: cfg.APIKeyEnv}
	}
	return EnvToken{Var: defaultTokenEnv[strings.ToLower(cfg.Provider)]}
}

// NewBackend builds the adapter named by cfg.Provider.
func NewBackend(ctx context.Context, cfg config.BackendConfig) (Backend, error) {
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case "openai":
		return NewOpenAIBackend(ctx, TokensFor(cfg), OpenAIOptions{
			Model:       cfg.Model,
			BaseURL:     cfg.BaseURL,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		})

	case "gemini":
		return NewGeminiBackend(ctx, TokensFor(cfg), cfg.Model, cfg.Temperature, cfg.MaxTokens)

	case "claude":
		return NewClaudeBackend(ctx, TokensFor(cfg), cfg.Model, cfg.BaseURL, cfg.Temperature, cfg.MaxTokens)

	case "ollama":
		zap.L().Info("using local ollama backend", zap.String("base_url", cfg.BaseURL), zap.String("model", cfg.Model))
		return NewOllamaBackend(cfg.Model, cfg.BaseURL, cfg.Temperature, cfg.MaxTokens), nil

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}
}

// RetryPolicyFrom converts the [retry] config section.
func RetryPolicyFrom(r config.RetryConfig) RetryPolicy {
	return RetryPolicy{
		MaxRetries:  r.MaxRetries,
		BackoffStep: r.BackoffStep.Duration,
		Timeout:     r.Timeout.Duration,
	}
}
