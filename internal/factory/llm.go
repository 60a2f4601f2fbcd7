package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ryan-kosiba/nutriclaude/internal/config"
	"github.com/ryan-kosiba/nutriclaude/internal/llm"
	"github.com/ryan-kosiba/nutriclaude/internal/llm/anthropic"
	"github.com/ryan-kosiba/nutriclaude/internal/llm/gemini"
)

// NewGenerator creates the text-generation provider selected by cfg.LLMProvider.
func NewGenerator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (llm.Generator, error) {
	var (
		gen llm.Generator
		err error
	)
	switch cfg.LLMProvider {
	case "", "anthropic":
		gen, err = anthropic.New(anthropic.Config{
			APIKey:    cfg.AnthropicAPIKey,
			Model:     cfg.AnthropicModel,
			BaseURL:   cfg.AnthropicBaseURL,
			MaxTokens: cfg.LLMMaxTokens,
			Timeout:   time.Duration(cfg.HTTPWriteTimeoutSec) * time.Second,
		})
	case "gemini":
		gen, err = gemini.New(ctx, gemini.Config{
			APIKey:    cfg.GeminiAPIKey,
			Model:     cfg.GeminiModel,
			MaxTokens: cfg.LLMMaxTokens,
		})
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER: %s", cfg.LLMProvider)
	}
	if err != nil {
		return nil, err
	}
	log.Debug().Str("provider", cfg.LLMProvider).Msg("language model provider ready")
	return gen, nil
}
