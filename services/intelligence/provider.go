// Package ai wraps the generative providers used to draft weekly exchange suggestions.
package ai

import (
	"context"
	"errors"
	"fmt"

	"secondlife/config"
	"secondlife/models"
)

// WeeklySuggestionsInput is the theme context sent to a provider.
type WeeklySuggestionsInput struct {
	ThemeTitle   string `json:"themeTitle" validate:"min=3,max=100"`
	ThemeSlug    string `json:"themeSlug" validate:"min=3,max=80,themeslug"`
	WeekStartISO string `json:"weekStartIso" validate:"isodatetime"`
	WeekEndISO   string `json:"weekEndIso" validate:"isodatetime"`
	DesiredCount int    `json:"desiredCount" validate:"min=3,max=20"`
	Language     string `json:"language" validate:"min=2,max=10"`
}

// WeeklySuggestionsOutput is the validated provider answer.
type WeeklySuggestionsOutput struct {
	Suggestions []models.SuggestionDraft `json:"suggestions" validate:"min=3,max=20,dive"`
}

// Provider generates suggestion drafts for a theme week.
type Provider interface {
	Name() string
	GenerateWeeklySuggestions(ctx context.Context, input WeeklySuggestionsInput) (*WeeklySuggestionsOutput, error)
}

var (
	ErrMissingGeminiKey = errors.New("missing GEMINI_API_KEY for Gemini provider")
	ErrMissingOpenAIKey = errors.New("missing OPENAI_API_KEY for OpenAI provider")
)

// NewProvider builds the provider selected by AI_PROVIDER.
func NewProvider(ctx context.Context, cfg config.Config) (Provider, error) {
	switch cfg.AIProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, ErrMissingOpenAIKey
		}
		return NewOpenAIProvider(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	case "gemini", "":
		if cfg.GeminiAPIKey == "" {
			return nil, ErrMissingGeminiKey
		}
		return NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.AIProvider)
	}
}
