package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// OllamaClient calls a local Ollama server. It is the default LLMClient for
// development and examples; hosted providers plug in through the same
// interface.
type OllamaClient struct {
	URL    string
	Model  string
	Client *http.Client
}

// NewOllamaClient creates a client for the given endpoint (e.g.
// "http://localhost:11434") and model name.
func NewOllamaClient(endpoint string, modelName string) *OllamaClient {
	return &OllamaClient{
		URL:    strings.TrimSuffix(endpoint, "/") + "/api/generate",
		Model:  modelName,
		Client: http.DefaultClient,
	}
}

type ollamaRequest struct {
	Model  string `json:"model"`
	System string `json:"system,omitempty"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response   string `json:"response"`
	DoneReason string `json:"done_reason"`
}

// maxResponseBytes caps how much of the model response is read.
const maxResponseBytes = 10 << 20 // 10 MB

// Complete implements LLMClient with a single blocking generate call.
func (c *OllamaClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	modelName := req.Model
	if modelName == "" {
		modelName = c.Model
	}

	var prompt strings.Builder
	for _, msg := range req.Messages {
		if prompt.Len() > 0 {
			prompt.WriteString("\n\n")
		}
		prompt.WriteString(msg.Content)
	}

	body, err := json.Marshal(ollamaRequest{
		Model:  modelName,
		System: strings.Join(req.System, "\n\n"),
		Prompt: prompt.String(),
		Stream: false,
	})
	if err != nil {
		return LLMResponse{}, fmt.Errorf("marshal ollama request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return LLMResponse{}, fmt.Errorf("create ollama request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(httpReq)
	if err != nil {
		return LLMResponse{}, err
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close on HTTP response body

	if resp.StatusCode != http.StatusOK {
		return LLMResponse{}, fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return LLMResponse{}, err
	}

	var parsed ollamaResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return LLMResponse{}, fmt.Errorf("ollama response parse error: %w", err)
	}

	return LLMResponse{
		Text:       parsed.Response,
		StopReason: parsed.DoneReason,
	}, nil
}
