package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/v0xg/demoreel/internal/demo"
	"github.com/v0xg/demoreel/internal/script"
)

type demoResponse struct {
	Name  string         `json:"name"`
	Beats []beatResponse `json:"beats"`
}

type beatResponse struct {
	Label        string   `json:"label"`
	Narration    string   `json:"narration"`
	Instructions []string `json:"instructions"`
	HoldMs       int      `json:"holdMs"`
}

// parseDemo decodes a model response into a validated demo for url.
// Instructions the parser rejects are dropped and returned separately.
func parseDemo(response, url string) (*demo.Demo, []string, error) {
	raw, err := extractJSONObject(response)
	if err != nil {
		return nil, nil, err
	}

	var r demoResponse
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, nil, fmt.Errorf("failed to parse demo JSON: %w", err)
	}

	d := &demo.Demo{Name: r.Name, URL: url}
	var dropped []string
	for _, b := range r.Beats {
		beat := demo.Beat{Label: b.Label, Narration: strings.TrimSpace(b.Narration), HoldMs: max(0, b.HoldMs)}
		for _, in := range b.Instructions {
			if _, ok := script.Parse(in); !ok {
				dropped = append(dropped, in)
				continue
			}
			beat.Instructions = append(beat.Instructions, strings.TrimSpace(in))
		}
		if len(beat.Instructions) == 0 && beat.Narration == "" {
			continue
		}
		d.Beats = append(d.Beats, beat)
	}

	if err := d.Validate(); err != nil {
		return nil, dropped, fmt.Errorf("model returned an unusable demo: %w", err)
	}
	return d, dropped, nil
}

// extractJSONObject returns the first balanced {...} in s, tolerating
// prose or code fences around it.
func extractJSONObject(s string) (string, error) {
	start := strings.Index(s, "{")
	if start == -1 {
		return "", errors.New("no JSON object found in response")
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", errors.New("no matching closing brace found")
}
