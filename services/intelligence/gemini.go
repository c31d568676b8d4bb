package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// textGenerator is the part of *genai.GenerativeModel the provider uses.
type textGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type GeminiProvider struct {
	client *genai.Client
	model  textGenerator
}

// NewGeminiProvider creates a Gemini client configured for JSON answers.
func NewGeminiProvider(ctx context.Context, apiKey, modelName string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.3)
	model.SetTopK(32)
	model.SetTopP(0.95)
	model.ResponseMIMEType = "application/json"

	return &GeminiProvider{client: client, model: model}, nil
}

func (g *GeminiProvider) Name() string { return "gemini" }

func (g *GeminiProvider) GenerateWeeklySuggestions(ctx context.Context, input WeeklySuggestionsInput) (*WeeklySuggestionsOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(geminiPrompt(input)))
	if err != nil {
		return nil, fmt.Errorf("gemini generate error: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return nil, errors.New("gemini response did not contain text")
	}
	zap.L().Debug("gemini_response_received", zap.Int("length", len(text)))
	return ParseOutput(text)
}

// Close releases the underlying client.
func (g *GeminiProvider) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return sb.String()
}
