package ai

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/v0xg/demoreel/internal/crawler"
	"github.com/v0xg/demoreel/internal/demo"
	"go.uber.org/zap"
)

// ClaudeProvider implements Provider with Anthropic's Messages API.
type ClaudeProvider struct {
	client    *anthropic.Client
	model     string
	maxTokens int
	logger    *zap.Logger
}

// NewClaudeProvider creates a Claude provider. The key falls back to
// ANTHROPIC_API_KEY.
func NewClaudeProvider(s Settings) (*ClaudeProvider, error) {
	apiKey := s.AnthropicKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.New("an Anthropic API key is required (DEMOREEL_AI_ANTHROPIC_KEY or ANTHROPIC_API_KEY)")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	model := s.Model
	if model == "" {
		model = string(anthropic.ModelClaudeSonnet4_20250514)
	}
	return &ClaudeProvider{
		client:    &client,
		model:     model,
		maxTokens: s.MaxTokens,
		logger:    s.Logger.Named("ai.claude"),
	}, nil
}

// GenerateDemo implements Provider.
func (p *ClaudeProvider) GenerateDemo(ctx context.Context, pageMap *crawler.PageMap, prompt string) (*demo.Demo, error) {
	pageMapJSON, err := marshalPageMap(pageMap)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("Requesting demo", zap.String("model", p.model), zap.String("page", pageMap.Summary()))
	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(p.maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildUserPrompt(pageMapJSON, prompt))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Claude API error: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return nil, errors.New("empty response from Claude")
	}
	return finish(p.logger, "Claude", text, pageMap.URL)
}
