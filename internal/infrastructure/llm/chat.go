// Package llm adapts the Anthropic API: a langchaingo chat model for the
// tool-calling analyst and a Messages client for document extraction.
package llm

import (
	"errors"
	"net/http"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"

	"github.com/rooted/analytics/internal/infrastructure/config"
)

// Default models
const (
	DefaultChatModel       = "claude-haiku-4-5-20251001"
	DefaultExtractionModel = "claude-sonnet-4-20250514"
)

// ErrNoAPIKey is returned when no Anthropic key is configured
var ErrNoAPIKey = errors.New("ANTHROPIC_API_KEY not set")

// NewChatModel returns the Anthropic chat model. The result is the langchaingo
// llms.Model, so callers can swap in fakes.
func NewChatModel(cfg config.LLMConfig) (llms.Model, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	model := cfg.Model
	if model == "" {
		model = DefaultChatModel
	}

	opts := []anthropic.Option{
		anthropic.WithToken(cfg.APIKey),
		anthropic.WithModel(model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, anthropic.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}
	return anthropic.New(opts...)
}
