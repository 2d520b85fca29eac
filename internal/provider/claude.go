package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"blueprintforge/config"
)

const (
	claudeAPIVersion     = "2023-06-01"
	claudeMaxTokens      = 8192
	claudeRequestTimeout = 3 * time.Minute
)

// Claude calls the Anthropic messages API.
type Claude struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  *zap.SugaredLogger
}

func NewClaude(cfg *config.Config, logger *zap.SugaredLogger) *Claude {
	return &Claude{
		baseURL: strings.TrimRight(cfg.Providers.Claude.BaseURL, "/"),
		apiKey:  strings.TrimSpace(cfg.Providers.Claude.APIKey),
		model:   cfg.Providers.Claude.Model,
		client:  &http.Client{Timeout: claudeRequestTimeout},
		logger:  logger,
	}
}

func (c *Claude) Name() string { return "claude" }

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeMessagesRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeMessagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func (c *Claude) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("claude disabled: set CLAUDE_API_KEY")
	}

	body, err := json.Marshal(claudeMessagesRequest{
		Model:     c.model,
		MaxTokens: claudeMaxTokens,
		Messages:  []claudeMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal claude request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build claude request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", claudeAPIVersion)

	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("claude request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read claude response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("claude returned status %d: %s", resp.StatusCode, truncateForError(raw))
	}

	var out claudeMessagesResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode claude response: %w", err)
	}

	var text strings.Builder
	for _, block := range out.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("claude returned no text content (stop_reason=%s)", out.StopReason)
	}

	c.logger.Infow("claude_generate_done",
		"model", c.model,
		"duration_ms", time.Since(started).Milliseconds(),
		"stop_reason", out.StopReason,
		"output_len", text.Len(),
	)
	return text.String(), nil
}
