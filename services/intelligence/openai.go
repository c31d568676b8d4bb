package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const openAITimeout = 60 * time.Second

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model          string            `json:"model"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format"`
	Messages       []chatMessage     `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type OpenAIProvider struct {
	http  *resty.Client
	model string
}

// NewOpenAIProvider targets the chat completions API under baseURL.
func NewOpenAIProvider(baseURL, apiKey, model string) *OpenAIProvider {
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(openAITimeout)
	return &OpenAIProvider{http: client, model: model}
}

func (o *OpenAIProvider) Name() string { return "openai" }

func (o *OpenAIProvider) GenerateWeeklySuggestions(ctx context.Context, input WeeklySuggestionsInput) (*WeeklySuggestionsOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	body := chatCompletionRequest{
		Model:          o.model,
		Temperature:    0.3,
		ResponseFormat: map[string]string{"type": "json_object"},
		Messages: []chatMessage{
			{Role: "system", Content: openAISystemPrompt},
			{Role: "user", Content: openAIUserPrompt(input)},
		},
	}

	var result chatCompletionResponse
	resp, err := o.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("OpenAI API error (%d): %s", resp.StatusCode(), resp.String())
	}

	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return nil, errors.New("openai response did not contain content")
	}
	return ParseOutput(result.Choices[0].Message.Content)
}
