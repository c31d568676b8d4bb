package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"secondlife/config"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	resp   *genai.GenerateContentResponse
	err    error
	prompt string
}

func (f *fakeGenerator) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	if len(parts) > 0 {
		if text, ok := parts[0].(genai.Text); ok {
			f.prompt = string(text)
		}
	}
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{}
	for _, p := range parts {
		content.Parts = append(content.Parts, genai.Text(p))
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestGeminiProviderParsesSplitParts(t *testing.T) {
	raw := mustJSON(t, validOutput())
	gen := &fakeGenerator{resp: textResponse(raw[:20], raw[20:])}
	p := &GeminiProvider{model: gen}

	out, err := p.GenerateWeeklySuggestions(context.Background(), validInput())
	require.NoError(t, err)
	assert.Len(t, out.Suggestions, 3)
	assert.Contains(t, gen.prompt, "Theme context: Repair week (repair-week)")
	assert.Contains(t, gen.prompt, "Suggestion count: 3")
	assert.Contains(t, gen.prompt, diversityInstruction)
}

func TestGeminiProviderRejectsEmptyAnswer(t *testing.T) {
	p := &GeminiProvider{model: &fakeGenerator{resp: &genai.GenerateContentResponse{}}}

	_, err := p.GenerateWeeklySuggestions(context.Background(), validInput())
	assert.Error(t, err)
}

func TestGeminiProviderValidatesInputFirst(t *testing.T) {
	gen := &fakeGenerator{}
	p := &GeminiProvider{model: gen}
	in := validInput()
	in.Language = "f"

	_, err := p.GenerateWeeklySuggestions(context.Background(), in)
	assert.Error(t, err)
	assert.Empty(t, gen.prompt)
}

func TestOpenAIProviderSendsChatCompletion(t *testing.T) {
	var got chatCompletionRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		resp := map[string]any{"choices": []any{
			map[string]any{"message": map[string]any{"content": mustJSON(t, validOutput())}},
		}}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	p := NewOpenAIProvider(srv.URL, "sk-test", "gpt-4o-mini")
	out, err := p.GenerateWeeklySuggestions(context.Background(), validInput())
	require.NoError(t, err)
	assert.Len(t, out.Suggestions, 3)

	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.Equal(t, "json_object", got.ResponseFormat["type"])
	require.Len(t, got.Messages, 2)
	assert.Equal(t, openAISystemPrompt, got.Messages[0].Content)
	assert.Contains(t, got.Messages[1].Content, "Count: 3")
	assert.Contains(t, got.Messages[1].Content, "Week: 2026-03-02T00:00:00Z -> 2026-03-08T23:59:59Z")
}

func TestOpenAIProviderSurfacesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"quota"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewOpenAIProvider(srv.URL, "sk-test", "gpt-4o-mini")
	_, err := p.GenerateWeeklySuggestions(context.Background(), validInput())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestNewProviderRequiresKeys(t *testing.T) {
	_, err := NewProvider(context.Background(), config.Config{AIProvider: "openai"})
	assert.ErrorIs(t, err, ErrMissingOpenAIKey)

	_, err = NewProvider(context.Background(), config.Config{AIProvider: "gemini"})
	assert.ErrorIs(t, err, ErrMissingGeminiKey)

	p, err := NewProvider(context.Background(), config.Config{AIProvider: "openai", OpenAIAPIKey: "k", OpenAIBaseURL: "http://localhost"})
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())
}
