// Package ai asks a language model to author a demo file for a page.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/v0xg/demoreel/internal/crawler"
	"github.com/v0xg/demoreel/internal/demo"
	"go.uber.org/zap"
)

// Provider writes a demo for the mapped page from a natural language brief.
type Provider interface {
	GenerateDemo(ctx context.Context, pageMap *crawler.PageMap, prompt string) (*demo.Demo, error)
}

// Settings selects and configures a provider. Empty keys fall back to the
// vendor's usual environment variable.
type Settings struct {
	Provider     string
	Model        string
	AnthropicKey string
	OpenAIKey    string
	MaxTokens    int
	Logger       *zap.Logger
}

// NewProvider creates the provider named in s.
func NewProvider(s Settings) (Provider, error) {
	if s.MaxTokens <= 0 {
		s.MaxTokens = defaultMaxTokens
	}
	if s.Logger == nil {
		s.Logger = zap.NewNop()
	}
	switch strings.ToLower(s.Provider) {
	case "", "claude", "anthropic":
		return NewClaudeProvider(s)
	case "openai", "gpt":
		return NewOpenAIProvider(s)
	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: claude, openai)", s.Provider)
	}
}

// finish turns a raw model response into a demo, logging dropped
// instructions.
func finish(logger *zap.Logger, vendor, response, url string) (*demo.Demo, error) {
	d, dropped, err := parseDemo(response, url)
	for _, in := range dropped {
		logger.Warn("Dropping unrecognized instruction from model", zap.String("instruction", in))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to use %s response: %w\nResponse: %s", vendor, err, response)
	}
	return d, nil
}
