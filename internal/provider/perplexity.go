package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"blueprintforge/config"
)

// Perplexity uses the OpenAI-compatible chat completions surface that
// Perplexity exposes at api.perplexity.ai.
type Perplexity struct {
	client *openai.Client
	model  string
	logger *zap.SugaredLogger

	disabled bool
}

func NewPerplexity(cfg *config.Config, logger *zap.SugaredLogger) *Perplexity {
	apiKey := strings.TrimSpace(cfg.Providers.Perplexity.APIKey)
	if apiKey == "" {
		return &Perplexity{disabled: true, logger: logger}
	}

	cc := openai.DefaultConfig(apiKey)
	cc.BaseURL = strings.TrimRight(cfg.Providers.Perplexity.BaseURL, "/")

	return &Perplexity{
		client: openai.NewClientWithConfig(cc),
		model:  cfg.Providers.Perplexity.Model,
		logger: logger,
	}
}

func (p *Perplexity) Name() string { return "perplexity" }

func (p *Perplexity) Generate(ctx context.Context, prompt string) (string, error) {
	if p.disabled {
		return "", fmt.Errorf("perplexity disabled: set PERPLEXITY_API_KEY")
	}

	started := time.Now()
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("perplexity request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("perplexity returned no choices")
	}

	out := resp.Choices[0].Message.Content
	p.logger.Infow("perplexity_generate_done",
		"model", p.model,
		"duration_ms", time.Since(started).Milliseconds(),
		"output_len", len(out),
	)
	return out, nil
}
