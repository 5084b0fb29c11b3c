package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"nft-query-router/internal/common/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig(url string) config.LLMConfig {
	return config.LLMConfig{
		Provider: "openai",
		BaseURL:  url,
		APIKey:   "secret",
		Timeout:  2000,
	}
}

func TestComplete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, false, body["stream"])
		assert.Equal(t, false, body["include_functions_info"])
		assert.Equal(t, false, body["include_retrieval_info"])
		assert.Equal(t, false, body["include_guardrails_info"])
		msgs := body["messages"].([]interface{})
		assert.Equal(t, "hello", msgs[0].(map[string]interface{})["content"])

		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hi!"}}]}`))
	}))
	defer server.Close()

	out, err := NewHTTPClient(createTestConfig(server.URL)).Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi!", out)
}

func TestComplete_MalformedShapes(t *testing.T) {
	bodies := map[string]string{
		"not json":        `oops`,
		"no choices":      `{"choices":[]}`,
		"missing message": `{"choices":[{}]}`,
		"missing content": `{"choices":[{"message":{"role":"assistant"}}]}`,
		"empty content":   `{"choices":[{"message":{"content":"  "}}]}`,
		"other shape":     `{"error":"quota"}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer server.Close()

			_, err := NewHTTPClient(createTestConfig(server.URL)).Complete(context.Background(), "x")
			assert.True(t, errors.Is(err, ErrMalformedResponse), "got %v", err)
		})
	}
}

func TestComplete_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewHTTPClient(createTestConfig(server.URL)).Complete(context.Background(), "x")
	assert.True(t, errors.Is(err, ErrRequestFailed))
}

func TestComplete_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewHTTPClient(createTestConfig(url)).Complete(context.Background(), "x")
	assert.True(t, errors.Is(err, ErrRequestFailed))
}

func TestNew_SelectsProvider(t *testing.T) {
	c, err := New(context.Background(), createTestConfig("http://localhost"))
	require.NoError(t, err)
	assert.IsType(t, &HTTPClient{}, c)

	_, err = New(context.Background(), config.LLMConfig{Provider: "anthropic"})
	assert.Error(t, err)
}

func TestGeminiClient_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "gemini-2.5-flash:generateContent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"gm"}]}}]}`))
	}))
	defer server.Close()

	c, err := NewGeminiClient(context.Background(), config.LLMConfig{
		Provider: "gemini",
		BaseURL:  server.URL,
		APIKey:   "k",
		Model:    "gemini-2.5-flash",
		Timeout:  2000,
	})
	require.NoError(t, err)

	out, err := c.Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "gm", out)
}
