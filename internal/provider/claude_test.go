package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClaudeGenerate_JoinsTextBlocks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/messages", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("x-api-key"))
		require.Equal(t, claudeAPIVersion, r.Header.Get("anthropic-version"))

		var req claudeMessagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		require.Equal(t, "user", req.Messages[0].Role)

		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"{\"a\":"},{"type":"text","text":"1}"}],"stop_reason":"end_turn"}`))
	}))
	defer srv.Close()

	cfg := testConfig(t)
	cfg.Providers.Claude.BaseURL = srv.URL
	cfg.Providers.Claude.APIKey = "test-key"

	c := NewClaude(cfg, zap.NewNop().Sugar())
	out, err := c.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	require.Equal(t, `{"a":1}`, out)
}

func TestClaudeGenerate_MissingKey(t *testing.T) {
	cfg := testConfig(t)
	cfg.Providers.Claude.APIKey = ""

	c := NewClaude(cfg, zap.NewNop().Sugar())
	_, err := c.Generate(context.Background(), "prompt")
	require.Error(t, err)
	require.Contains(t, err.Error(), "CLAUDE_API_KEY")
}

func TestRegistryResolve(t *testing.T) {
	cfg := testConfig(t)
	log := zap.NewNop().Sugar()

	reg, err := NewRegistry([]Provider{
		NewOllama(cfg, log),
		NewClaude(cfg, log),
		NewPerplexity(cfg, log),
	}, cfg, log)
	require.NoError(t, err)

	p, err := reg.Resolve("")
	require.NoError(t, err)
	require.Equal(t, "ollama", p.Name())

	p, err = reg.Resolve("Claude")
	require.NoError(t, err)
	require.Equal(t, "claude", p.Name())

	_, err = reg.Resolve("gemini")
	require.Error(t, err)
}
