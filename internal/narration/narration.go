// Package narration synthesizes per-beat voice-over tracks.
package narration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Synthesizer turns text into encoded speech.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (io.ReadCloser, error)
}

// Line is one piece of narration to synthesize.
type Line struct {
	Beat int
	Text string
}

// Track is a synthesized narration file.
type Track struct {
	Beat int
	Text string
	Path string
}

// Narrator writes tracks into a directory with bounded parallelism.
type Narrator struct {
	synth       Synthesizer
	concurrency int
	logger      *zap.Logger
}

// NewNarrator creates a Narrator. Concurrency below one means one request
// at a time.
func NewNarrator(synth Synthesizer, concurrency int, logger *zap.Logger) *Narrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Narrator{
		synth:       synth,
		concurrency: max(1, concurrency),
		logger:      logger.Named("narration"),
	}
}

// Narrate synthesizes every non-blank line into dir. The returned map is
// keyed by beat index; beats with blank text have no entry.
func (n *Narrator) Narrate(ctx context.Context, lines []Line, dir string) (map[int]Track, error) {
	if n.synth == nil {
		return nil, errors.New("no speech synthesizer configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create narration dir: %w", err)
	}

	tracks := make([]*Track, len(lines))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(n.concurrency)

	for i, line := range lines {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}
		g.Go(func() error {
			path := filepath.Join(dir, fmt.Sprintf("narration_%03d.mp3", line.Beat))
			if err := n.synthesizeTo(ctx, text, path); err != nil {
				return fmt.Errorf("beat %d: %w", line.Beat, err)
			}
			tracks[i] = &Track{Beat: line.Beat, Text: text, Path: path}
			n.logger.Debug("Narration synthesized", zap.Int("beat", line.Beat), zap.String("path", path))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[int]Track)
	for _, t := range tracks {
		if t != nil {
			out[t.Beat] = *t
		}
	}
	n.logger.Info("Narration ready", zap.Int("tracks", len(out)))
	return out, nil
}

func (n *Narrator) synthesizeTo(ctx context.Context, text, path string) error {
	audio, err := n.synth.Synthesize(ctx, text)
	if err != nil {
		return fmt.Errorf("speech request failed: %w", err)
	}
	defer audio.Close()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, audio); err != nil {
		f.Close()
		return fmt.Errorf("failed to write speech: %w", err)
	}
	return f.Close()
}
