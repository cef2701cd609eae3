// Package demo reads and writes demo files: a target URL plus an ordered
// list of beats, each carrying instruction strings and optional narration.
package demo

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/v0xg/demoreel/internal/script"
	"gopkg.in/yaml.v3"
)

// Viewport is the browser window size used for a recording.
type Viewport struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Beat is one narrated step of a demo.
type Beat struct {
	Label        string   `yaml:"label,omitempty" json:"label,omitempty"`
	Instructions []string `yaml:"instructions" json:"instructions"`
	Narration    string   `yaml:"narration,omitempty" json:"narration,omitempty"`
	// HoldMs keeps the last frame on screen after the instructions finish.
	HoldMs int `yaml:"hold_ms,omitempty" json:"holdMs,omitempty"`
}

// Demo is the root of a demo file.
type Demo struct {
	Name     string    `yaml:"name" json:"name"`
	URL      string    `yaml:"url" json:"url"`
	Viewport *Viewport `yaml:"viewport,omitempty" json:"viewport,omitempty"`
	Beats    []Beat    `yaml:"beats" json:"beats"`
}

var (
	ErrNoBeats   = errors.New("demo has no beats")
	ErrNoURL     = errors.New("demo has no url")
	ErrEmptyBeat = errors.New("beat has neither instructions nor narration")
)

// Read loads and validates a demo file.
func Read(path string) (*Demo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read demo file: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Parse decodes and validates YAML demo content.
func Parse(data []byte) (*Demo, error) {
	var d Demo
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to decode demo: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Write encodes d as YAML to path.
func Write(path string, d *Demo) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode demo: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write demo file: %w", err)
	}
	return nil
}

// Validate checks the structural rules of a demo. Individual instructions
// are not checked here; unrecognized ones are skipped at replay time and
// reported by Lint.
func (d *Demo) Validate() error {
	if strings.TrimSpace(d.URL) == "" {
		return ErrNoURL
	}
	if len(d.Beats) == 0 {
		return ErrNoBeats
	}
	if d.Viewport != nil && (d.Viewport.Width <= 0 || d.Viewport.Height <= 0) {
		return fmt.Errorf("invalid viewport %dx%d", d.Viewport.Width, d.Viewport.Height)
	}
	for i, b := range d.Beats {
		if len(b.Instructions) == 0 && strings.TrimSpace(b.Narration) == "" {
			return fmt.Errorf("beat %d (%s): %w", i+1, b.Name(i), ErrEmptyBeat)
		}
		if b.HoldMs < 0 {
			return fmt.Errorf("beat %d (%s): negative hold_ms", i+1, b.Name(i))
		}
	}
	return nil
}

// Issue is an instruction that will be skipped at replay time.
type Issue struct {
	Beat        int
	Index       int
	Instruction string
}

func (i Issue) String() string {
	return fmt.Sprintf("beat %d, instruction %d: unrecognized %q", i.Beat+1, i.Index+1, i.Instruction)
}

// Lint lists every instruction the parser rejects.
func (d *Demo) Lint() []Issue {
	var issues []Issue
	for bi, b := range d.Beats {
		for ii, raw := range b.Instructions {
			if _, ok := script.Parse(raw); !ok {
				issues = append(issues, Issue{Beat: bi, Index: ii, Instruction: raw})
			}
		}
	}
	return issues
}

// Name returns the beat label, or a positional name when it has none.
func (b Beat) Name(index int) string {
	if b.Label != "" {
		return b.Label
	}
	return fmt.Sprintf("beat-%02d", index+1)
}
