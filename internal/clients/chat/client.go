// internal/clients/chat/client.go
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"nft-query-router/internal/common/config"
	commonhttp "nft-query-router/internal/common/http"
)

var (
	ErrRequestFailed     = errors.New("CHAT_REQUEST_FAILED")
	ErrMalformedResponse = errors.New("CHAT_MALFORMED_RESPONSE")
)

// Completer sends one free-text instruction and returns the reply text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model                 string    `json:"model,omitempty"`
	Messages              []message `json:"messages"`
	Stream                bool      `json:"stream"`
	IncludeFunctionsInfo  bool      `json:"include_functions_info"`
	IncludeRetrievalInfo  bool      `json:"include_retrieval_info"`
	IncludeGuardrailsInfo bool      `json:"include_guardrails_info"`
}

// HTTPClient posts to an OpenAI-shaped chat-completions endpoint.
type HTTPClient struct {
	url    string
	apiKey string
	model  string
	http   *http.Client
}

func NewHTTPClient(cfg config.LLMConfig) *HTTPClient {
	return &HTTPClient{
		url:    cfg.BaseURL,
		apiKey: cfg.APIKey,
		model:  cfg.Model,
		http:   commonhttp.NewClient(config.GetDuration(cfg.Timeout)),
	}
}

func (c *HTTPClient) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:    c.model,
		Messages: []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrRequestFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}

	return parseCompletion(raw)
}

// parseCompletion extracts choices[0].message.content. Any other shape is malformed.
func parseCompletion(raw []byte) (string, error) {
	var payload struct {
		Choices []struct {
			Message *struct {
				Content *string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(payload.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}
	msg := payload.Choices[0].Message
	if msg == nil || msg.Content == nil {
		return "", fmt.Errorf("%w: missing message content", ErrMalformedResponse)
	}
	if strings.TrimSpace(*msg.Content) == "" {
		return "", fmt.Errorf("%w: empty content", ErrMalformedResponse)
	}
	return *msg.Content, nil
}

// New returns the Completer selected by cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig) (Completer, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGeminiClient(ctx, cfg)
	case "", "openai":
		return NewHTTPClient(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}
