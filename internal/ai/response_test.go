package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/v0xg/demoreel/internal/crawler"
	"go.uber.org/zap"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"a":1}`, `{"a":1}`},
		{"fenced", "Here you go:\n```json\n{\"a\":{\"b\":2}}\n```\nEnjoy", `{"a":{"b":2}}`},
		{"braces in strings", `{"s":"overlay(title:{x}},fade_in,0)"} trailing }`, `{"s":"overlay(title:{x}},fade_in,0)"}`},
		{"escaped quote", `{"s":"say \"}\" now"}`, `{"s":"say \"}\" now"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSONObject(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := extractJSONObject("no json here")
	assert.Error(t, err)
	_, err = extractJSONObject(`{"open": true`)
	assert.Error(t, err)
}

func TestParseDemo(t *testing.T) {
	response := `{
		"name": "Search tour",
		"beats": [
			{"label": "intro", "narration": " Meet search. ", "instructions": ["overlay(title:Search,fade_in,1500)", "wait(500)"]},
			{"label": "query", "instructions": ["click(#q)", "type(#q, hello)", "wheel(300)"], "holdMs": 700},
			{"label": "empty", "instructions": ["bogus()"]}
		]
	}`

	d, dropped, err := parseDemo(response, "https://search.example.com")
	require.NoError(t, err)

	assert.Equal(t, "Search tour", d.Name)
	assert.Equal(t, "https://search.example.com", d.URL)
	require.Len(t, d.Beats, 2, "beats left empty after dropping are removed")
	assert.Equal(t, "Meet search.", d.Beats[0].Narration)
	assert.Equal(t, []string{"click(#q)", "wheel(300)"}, d.Beats[1].Instructions)
	assert.Equal(t, 700, d.Beats[1].HoldMs)
	assert.Equal(t, []string{"type(#q, hello)", "bogus()"}, dropped)
}

func TestParseDemo_Unusable(t *testing.T) {
	_, _, err := parseDemo(`{"name":"x","beats":[]}`, "https://x")
	assert.Error(t, err)

	_, _, err = parseDemo(`{"name": 5}`, "https://x")
	assert.Error(t, err)
}

func TestBuildUserPrompt(t *testing.T) {
	pm := &crawler.PageMap{URL: "https://x", Title: "X", Elements: []crawler.Element{{Selector: "#go", Type: "button"}}}
	js, err := marshalPageMap(pm)
	require.NoError(t, err)

	prompt := buildUserPrompt(js, "show the go button")
	assert.True(t, strings.HasPrefix(prompt, "Page map:\n{"))
	assert.Contains(t, prompt, `"selector": "#go"`)
	assert.True(t, strings.HasSuffix(prompt, "Demo brief: show the go button"))
}

func TestNewProvider(t *testing.T) {
	_, err := NewProvider(Settings{Provider: "bard"})
	assert.ErrorContains(t, err, "unknown provider")

	p, err := NewProvider(Settings{Provider: "openai", OpenAIKey: "sk-test"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIProvider{}, p)

	p, err = NewProvider(Settings{Provider: "claude", AnthropicKey: "sk-ant-test", Logger: zap.NewNop()})
	require.NoError(t, err)
	assert.IsType(t, &ClaudeProvider{}, p)
}
