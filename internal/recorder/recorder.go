// Package recorder drives a whole demo: each beat is planned, replayed in
// the browser and captured, narration is synthesized alongside, and the
// result is assembled into a GIF or an MP4.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/v0xg/demoreel/internal/cursor"
	"github.com/v0xg/demoreel/internal/demo"
	"github.com/v0xg/demoreel/internal/encode"
	"github.com/v0xg/demoreel/internal/executor"
	"github.com/v0xg/demoreel/internal/geom"
	"github.com/v0xg/demoreel/internal/gifgen"
	"github.com/v0xg/demoreel/internal/narration"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Output formats.
const (
	FormatGIF = "gif"
	FormatMP4 = "mp4"
)

const defaultFPS = 20

// Narrator synthesizes narration lines into audio files.
type Narrator interface {
	Narrate(ctx context.Context, lines []narration.Line, dir string) (map[int]narration.Track, error)
}

// Assembler encodes beat clips and joins them.
type Assembler interface {
	EncodeClip(ctx context.Context, name string, c encode.Clip, out string) error
	Concat(ctx context.Context, clips []string, out string) error
	WorkDir() string
}

// Options configures a recording.
type Options struct {
	Format      string
	DrawCursor  bool
	FPS         int
	GifMaxWidth uint
	Workers     int
}

// Deps are the collaborators of a Recorder. Narrator is optional. Assembler
// is required for MP4 output.
type Deps struct {
	Driver    executor.Driver
	Planner   *Planner
	Executor  executor.Options
	Narrator  Narrator
	Assembler Assembler
	// ProbeDuration measures narration files. Defaults to encode.ProbeDuration.
	ProbeDuration func(path string) (float64, error)
	// WriteGIF defaults to gifgen.Generate.
	WriteGIF func(ctx context.Context, frames []image.Image, path string) (int64, error)
}

// BeatReport summarizes one recorded beat.
type BeatReport struct {
	Name       string  `json:"name"`
	Frames     int     `json:"frames"`
	Executed   int     `json:"executed"`
	Failed     int     `json:"failed"`
	Dropped    int     `json:"dropped"`
	DurationMs float64 `json:"durationMs"`
	Narrated   bool    `json:"narrated"`
}

// Report summarizes a finished recording.
type Report struct {
	Output string       `json:"output"`
	Format string       `json:"format"`
	Bytes  int64        `json:"bytes"`
	Beats  []BeatReport `json:"beats"`
}

// Recorder records demos.
type Recorder struct {
	opts   Options
	deps   Deps
	logger *zap.Logger
}

type beatCapture struct {
	plan   BeatPlan
	frames []image.Image
	result *executor.Result
}

// New creates a Recorder.
func New(opts Options, deps Deps, logger *zap.Logger) (*Recorder, error) {
	if deps.Driver == nil {
		return nil, errors.New("recorder needs a browser driver")
	}
	if deps.Planner == nil {
		return nil, errors.New("recorder needs a planner")
	}
	if opts.Format == "" {
		opts.Format = FormatMP4
	}
	switch opts.Format {
	case FormatMP4:
		if deps.Assembler == nil {
			return nil, errors.New("mp4 output needs an assembler")
		}
	case FormatGIF:
	default:
		return nil, fmt.Errorf("unknown output format %q", opts.Format)
	}
	if opts.FPS <= 0 {
		opts.FPS = deps.Executor.FPS
	}
	if opts.FPS <= 0 {
		opts.FPS = defaultFPS
	}
	if deps.Executor.FPS <= 0 {
		deps.Executor.FPS = opts.FPS
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.ProbeDuration == nil {
		deps.ProbeDuration = encode.ProbeDuration
	}
	if deps.WriteGIF == nil {
		gifOpts := gifgen.Options{FPS: opts.FPS, MaxWidth: opts.GifMaxWidth, Workers: opts.Workers}
		deps.WriteGIF = func(ctx context.Context, frames []image.Image, path string) (int64, error) {
			return gifgen.Generate(ctx, frames, path, gifOpts)
		}
	}
	return &Recorder{opts: opts, deps: deps, logger: logger.Named("recorder")}, nil
}

// Record replays d and writes the assembled result to out.
func (r *Recorder) Record(ctx context.Context, d *demo.Demo, out string) (*Report, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	r.logger.Info("Recording demo",
		zap.String("name", d.Name),
		zap.String("url", d.URL),
		zap.Int("beats", len(d.Beats)),
		zap.String("format", r.opts.Format),
	)

	if err := r.deps.Driver.Navigate(ctx, d.URL); err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", d.URL, err)
	}

	var (
		captures []beatCapture
		tracks   map[int]narration.Track
	)
	g, gctx := errgroup.WithContext(ctx)
	if lines := r.narrationLines(d); len(lines) > 0 {
		g.Go(func() error {
			var err error
			tracks, err = r.deps.Narrator.Narrate(gctx, lines, filepath.Join(r.deps.Assembler.WorkDir(), "narration"))
			if err != nil {
				return fmt.Errorf("narration failed: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		var err error
		captures, err = r.capture(gctx, d)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Output: out, Format: r.opts.Format}
	for _, c := range captures {
		_, narrated := tracks[c.plan.Index]
		report.Beats = append(report.Beats, BeatReport{
			Name:       c.plan.Name,
			Frames:     len(c.frames),
			Executed:   c.result.Executed,
			Failed:     c.result.Failed,
			Dropped:    len(c.plan.Dropped),
			DurationMs: c.result.DurationMs,
			Narrated:   narrated,
		})
	}

	var err error
	if r.opts.Format == FormatGIF {
		report.Bytes, err = r.assembleGIF(ctx, captures, out)
	} else {
		report.Bytes, err = r.assembleMP4(ctx, captures, tracks, out)
	}
	if err != nil {
		return nil, err
	}

	r.logger.Info("Demo recorded", zap.String("output", out), zap.Int64("bytes", report.Bytes))
	return report, nil
}

// narrationLines returns the lines to synthesize, or nil when narration is
// disabled or cannot be used with the output format.
func (r *Recorder) narrationLines(d *demo.Demo) []narration.Line {
	var lines []narration.Line
	for i, b := range d.Beats {
		if strings.TrimSpace(b.Narration) != "" {
			lines = append(lines, narration.Line{Beat: i, Text: b.Narration})
		}
	}
	if len(lines) == 0 || r.deps.Narrator == nil {
		return nil
	}
	if r.opts.Format == FormatGIF {
		r.logger.Warn("GIF output has no audio track, narration skipped", zap.Int("lines", len(lines)))
		return nil
	}
	return lines
}

func (r *Recorder) capture(ctx context.Context, d *demo.Demo) ([]beatCapture, error) {
	exec := executor.New(r.deps.Driver, r.deps.Executor, r.logger)
	minHold := int(math.Ceil(exec.FrameMs()))

	captures := make([]beatCapture, 0, len(d.Beats))
	for i, b := range d.Beats {
		pos := exec.Cursor()
		origin := geom.Pt(float64(pos.X), float64(pos.Y))

		bp := r.deps.Planner.PlanBeat(i, b, &origin)
		if len(bp.Plan.Actions) == 0 && bp.Plan.HoldMs < minHold {
			// Narration-only beats still need a picture.
			bp.Plan.HoldMs = minHold
		}

		res, err := exec.Run(ctx, bp.Plan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", bp.Name, err)
		}

		frames := res.Frames
		if r.opts.DrawCursor {
			frames = cursor.Apply(frames, res.Cursor)
		}
		captures = append(captures, beatCapture{plan: bp, frames: frames, result: res})

		r.logger.Info("Beat recorded",
			zap.String("beat", bp.Name),
			zap.Int("frames", len(frames)),
			zap.Int("executed", res.Executed),
			zap.Int("failed", res.Failed),
		)
	}
	return captures, nil
}

func (r *Recorder) assembleGIF(ctx context.Context, captures []beatCapture, out string) (int64, error) {
	var frames []image.Image
	for _, c := range captures {
		frames = append(frames, c.frames...)
	}
	size, err := r.deps.WriteGIF(ctx, frames, out)
	if err != nil {
		return 0, fmt.Errorf("failed to write gif: %w", err)
	}
	return size, nil
}

func (r *Recorder) assembleMP4(ctx context.Context, captures []beatCapture, tracks map[int]narration.Track, out string) (int64, error) {
	var clips []string
	for _, c := range captures {
		if len(c.frames) == 0 {
			r.logger.Warn("Beat captured no frames, leaving it out", zap.String("beat", c.plan.Name))
			continue
		}

		clip := encode.Clip{Frames: c.frames}
		if t, ok := tracks[c.plan.Index]; ok {
			clip.Audio = t.Path
			sec, err := r.deps.ProbeDuration(t.Path)
			if err != nil {
				r.logger.Warn("Could not measure narration, clip will not be padded",
					zap.String("beat", c.plan.Name), zap.Error(err))
			}
			clip.AudioSec = sec
		}

		name := fmt.Sprintf("beat_%03d", c.plan.Index)
		path := filepath.Join(r.deps.Assembler.WorkDir(), name+".mp4")
		if err := r.deps.Assembler.EncodeClip(ctx, name, clip, path); err != nil {
			return 0, err
		}
		clips = append(clips, path)
	}
	if len(clips) == 0 {
		return 0, errors.New("no beat produced any frames")
	}

	if err := r.deps.Assembler.Concat(ctx, clips, out); err != nil {
		return 0, err
	}
	info, err := os.Stat(out)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
