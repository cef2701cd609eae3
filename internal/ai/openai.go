package ai

import (
	"context"
	"errors"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
	"github.com/v0xg/demoreel/internal/crawler"
	"github.com/v0xg/demoreel/internal/demo"
	"go.uber.org/zap"
)

// OpenAIProvider implements Provider with OpenAI chat completions.
type OpenAIProvider struct {
	client    *openai.Client
	model     string
	maxTokens int
	logger    *zap.Logger
}

// NewOpenAIProvider creates an OpenAI provider. The key falls back to
// OPENAI_API_KEY.
func NewOpenAIProvider(s Settings) (*OpenAIProvider, error) {
	apiKey := s.OpenAIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.New("an OpenAI API key is required (DEMOREEL_AI_OPENAI_KEY or OPENAI_API_KEY)")
	}

	model := s.Model
	if model == "" {
		model = openai.GPT4o
	}
	return &OpenAIProvider{
		client:    openai.NewClient(apiKey),
		model:     model,
		maxTokens: s.MaxTokens,
		logger:    s.Logger.Named("ai.openai"),
	}, nil
}

// GenerateDemo implements Provider.
func (p *OpenAIProvider) GenerateDemo(ctx context.Context, pageMap *crawler.PageMap, prompt string) (*demo.Demo, error) {
	pageMapJSON, err := marshalPageMap(pageMap)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("Requesting demo", zap.String("model", p.model), zap.String("page", pageMap.Summary()))
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(pageMapJSON, prompt)},
		},
		MaxTokens: p.maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("empty response from OpenAI")
	}
	return finish(p.logger, "OpenAI", resp.Choices[0].Message.Content, pageMap.URL)
}
