package docagent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// NullReferenceProvider always declines an external query, so a run
// compiles and executes end-to-end without a live internet-search
// backend configured.
type NullReferenceProvider struct{}

// Answer always returns an error; the Searcher records it as the context
// value for the query and continues.
func (NullReferenceProvider) Answer(ctx context.Context, query string) (string, error) {
	return "", fmt.Errorf("external retrieval is not configured")
}

// PerplexityReferenceProvider answers external queries through
// Perplexity's chat-completions-compatible API, for the rare case a
// component implements a novel or recently published algorithm the
// Reader cannot otherwise contextualize.
type PerplexityReferenceProvider struct {
	apiKey string
	model  string
	client *http.Client
}

// NewPerplexityReferenceProvider constructs a provider backed by apiKey.
// model defaults to "sonar" when empty.
func NewPerplexityReferenceProvider(apiKey, model string) *PerplexityReferenceProvider {
	if model == "" {
		model = "sonar"
	}
	return &PerplexityReferenceProvider{apiKey: apiKey, model: model, client: &http.Client{}}
}

type perplexityMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type perplexityRequest struct {
	Model    string              `json:"model"`
	Messages []perplexityMessage `json:"messages"`
}

type perplexityChoice struct {
	Message perplexityMessage `json:"message"`
}

type perplexityResponse struct {
	Choices []perplexityChoice `json:"choices"`
}

// Answer sends query as a single-turn chat completion and returns the
// model's reply text.
func (p *PerplexityReferenceProvider) Answer(ctx context.Context, query string) (string, error) {
	reqBody := perplexityRequest{
		Model: p.model,
		Messages: []perplexityMessage{
			{Role: "user", Content: query},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling perplexity request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.perplexity.ai/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating perplexity request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("perplexity request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("reading perplexity response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("perplexity returned status %d: %s", httpResp.StatusCode, string(respBody))
	}

	var resp perplexityResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("unmarshaling perplexity response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("perplexity returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
