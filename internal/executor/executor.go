// Package executor replays humanized actions against a browser while
// capturing frames at a fixed rate and recording where the synthetic
// cursor is for each frame.
package executor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/v0xg/demoreel/internal/cursor"
	"github.com/v0xg/demoreel/internal/geom"
	"github.com/v0xg/demoreel/internal/humanize"
	"github.com/v0xg/demoreel/internal/overlay"
	"github.com/v0xg/demoreel/internal/script"
	"go.uber.org/zap"
)

const (
	defaultFPS     = 20
	defaultMoveMs  = 500
	defaultClickMs = 300
	scrollSteps    = 10
)

// Options configures replay.
type Options struct {
	FPS int
	// Origin is where the cursor starts before the first move.
	Origin geom.Point
	// MoveMs is the duration of pointer moves that carry no humanized path.
	MoveMs float64
	// ClickMs is how long the click ripple stays visible.
	ClickMs float64
	// Sleep paces frame capture. Nil uses a context-aware time.Sleep.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Result is everything captured while replaying one plan.
type Result struct {
	Frames   []image.Image
	Cursor   []cursor.Sample
	Executed int
	Failed   int
	// DurationMs is the length of the captured timeline.
	DurationMs float64
}

type pendingOverlay struct {
	id       string
	removeAt float64 // timeline ms; 0 means end of plan
}

// Executor replays plans on one Driver. Cursor position carries over from
// one plan to the next.
type Executor struct {
	driver Driver
	opts   Options
	logger *zap.Logger

	cursor     cursor.Sample
	clickUntil float64
	elapsed    float64
	overlays   []pendingOverlay
	result     *Result
}

// New creates an Executor.
func New(driver Driver, opts Options, logger *zap.Logger) *Executor {
	if opts.FPS <= 0 {
		opts.FPS = defaultFPS
	}
	if opts.MoveMs <= 0 {
		opts.MoveMs = defaultMoveMs
	}
	if opts.ClickMs <= 0 {
		opts.ClickMs = defaultClickMs
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	x, y := opts.Origin.Round()
	return &Executor{
		driver: driver,
		opts:   opts,
		logger: logger.Named("executor"),
		cursor: cursor.Sample{X: x, Y: y},
	}
}

// FrameMs is the timeline length of one captured frame.
func (e *Executor) FrameMs() float64 {
	return 1000 / float64(e.opts.FPS)
}

// Run replays p. Failing actions are logged and skipped; only context
// cancellation aborts the run.
func (e *Executor) Run(ctx context.Context, p Plan) (*Result, error) {
	e.result = &Result{}
	e.elapsed = 0
	e.clickUntil = 0
	queue := p.Overlays

	defer func() { e.result = nil }()

	for i, a := range p.Actions {
		if err := ctx.Err(); err != nil {
			return e.result, err
		}

		var err error
		if a.Kind == script.KindOverlay {
			if len(queue) == 0 {
				err = errors.New("no descriptor left for overlay action")
			} else {
				err = e.showOverlay(ctx, queue[0])
				queue = queue[1:]
			}
		} else {
			err = e.execute(ctx, a)
		}

		if err != nil {
			if ctx.Err() != nil {
				return e.result, ctx.Err()
			}
			e.result.Failed++
			e.logger.Warn("Action failed, skipping",
				zap.Int("index", i),
				zap.String("action", a.String()),
				zap.Error(err),
			)
			continue
		}
		e.result.Executed++
		e.logger.Debug("Action done",
			zap.Int("index", i),
			zap.String("action", a.String()),
			zap.Bool("synthetic", a.Synthetic),
		)
	}

	if p.HoldMs > 0 {
		if err := e.hold(ctx, float64(p.HoldMs)); err != nil {
			return e.result, err
		}
	}
	if err := e.clearOverlays(ctx); err != nil {
		return e.result, err
	}

	e.result.DurationMs = e.elapsed
	return e.result, nil
}

func (e *Executor) execute(ctx context.Context, a humanize.Action) error {
	switch a.Kind {
	case script.KindHover:
		target, err := e.driver.ElementCenter(ctx, a.Selector)
		if err != nil {
			return err
		}
		e.cursor.State = cursor.StatePointer
		if err := e.moveTo(ctx, target, nil, e.opts.MoveMs); err != nil {
			return err
		}
		return e.hold(ctx, a.DurationMs)

	case script.KindClick:
		target, err := e.clickTarget(ctx, a.Action)
		if err != nil {
			return err
		}
		if err := e.moveTo(ctx, target, nil, e.opts.MoveMs); err != nil {
			return err
		}
		if err := e.driver.MouseDown(ctx); err != nil {
			return err
		}
		if err := e.driver.MouseUp(ctx); err != nil {
			return err
		}
		e.clickUntil = e.elapsed + e.opts.ClickMs
		return e.capture(ctx)

	case script.KindMouseMove:
		target, _ := a.Coordinates()
		duration := a.DurationMs
		if duration <= 0 {
			duration = e.opts.MoveMs
		}
		e.cursor.State = cursor.StateDefault
		return e.moveTo(ctx, target, a.Trajectory, duration)

	case script.KindMouseDrag:
		return e.drag(ctx, *a.At, *a.To)

	case script.KindWheel:
		step := float64(a.Delta) / scrollSteps
		for i := 0; i < scrollSteps; i++ {
			if err := e.driver.Scroll(ctx, step); err != nil {
				return err
			}
			if err := e.capture(ctx); err != nil {
				return err
			}
		}
		return nil

	case script.KindWait:
		return e.hold(ctx, a.Ms)

	case script.KindGoto:
		if err := e.driver.Navigate(ctx, a.URL); err != nil {
			return err
		}
		return e.capture(ctx)

	case script.KindWaitForSelector:
		if err := e.driver.WaitForSelector(ctx, a.Selector); err != nil {
			return err
		}
		return e.capture(ctx)

	case script.KindScreenshot:
		return e.screenshot(ctx, a.Action.Path)

	default:
		return fmt.Errorf("unsupported action kind %q", a.Kind)
	}
}

func (e *Executor) clickTarget(ctx context.Context, a script.Action) (geom.Point, error) {
	if p, ok := a.Coordinates(); ok {
		return p, nil
	}
	e.cursor.State = cursor.StatePointer
	return e.driver.ElementCenter(ctx, a.Selector)
}

// moveTo animates the pointer to target over durationMs, following path
// when one is given and a straight eased line otherwise. A path that starts
// away from the real pointer is bent so it starts at the pointer.
func (e *Executor) moveTo(ctx context.Context, target geom.Point, path []geom.Point, durationMs float64) error {
	from := e.position()
	if len(path) == 0 {
		if from.Dist(target) < 1 {
			e.cursor.Hidden = false
			return e.driver.MoveTo(ctx, target)
		}
		path = []geom.Point{from, target}
	}
	offset := from.Sub(path[0])

	steps := e.framesFor(durationMs)
	for i := 1; i <= steps; i++ {
		t := easeInOutQuad(float64(i) / float64(steps))
		p := geom.PointAt(path, t).Add(offset.Mul(1 - t))
		if i == steps {
			p = target
		}
		if err := e.driver.MoveTo(ctx, p); err != nil {
			return err
		}
		e.setPosition(p)
		if err := e.capture(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) drag(ctx context.Context, from, to geom.Point) error {
	if err := e.moveTo(ctx, from, nil, e.opts.MoveMs); err != nil {
		return err
	}
	if err := e.driver.MouseDown(ctx); err != nil {
		return err
	}
	e.cursor.State = cursor.StateGrab
	defer func() { e.cursor.State = cursor.StateDefault }()

	if err := e.moveTo(ctx, to, nil, e.opts.MoveMs); err != nil {
		_ = e.driver.MouseUp(ctx)
		return err
	}
	return e.driver.MouseUp(ctx)
}

func (e *Executor) showOverlay(ctx context.Context, d overlay.Descriptor) error {
	if err := e.driver.Eval(ctx, d.Script()); err != nil {
		return fmt.Errorf("failed to inject overlay %s: %w", d.ID, err)
	}
	pending := pendingOverlay{id: d.ID}
	if d.DisplayMs > 0 {
		pending.removeAt = e.elapsed + float64(d.DisplayMs)
	}
	e.overlays = append(e.overlays, pending)
	return nil
}

// expireOverlays removes overlays whose display time has passed.
func (e *Executor) expireOverlays(ctx context.Context) error {
	kept := e.overlays[:0]
	for _, o := range e.overlays {
		if o.removeAt > 0 && e.elapsed >= o.removeAt {
			if err := e.driver.Eval(ctx, overlay.RemoveScript(o.id)); err != nil {
				e.logger.Warn("Failed to remove overlay", zap.String("id", o.id), zap.Error(err))
			}
			continue
		}
		kept = append(kept, o)
	}
	e.overlays = kept
	return ctx.Err()
}

func (e *Executor) clearOverlays(ctx context.Context) error {
	for _, o := range e.overlays {
		if err := e.driver.Eval(ctx, overlay.RemoveScript(o.id)); err != nil {
			e.logger.Warn("Failed to remove overlay", zap.String("id", o.id), zap.Error(err))
		}
	}
	e.overlays = nil
	return ctx.Err()
}

func (e *Executor) hold(ctx context.Context, ms float64) error {
	for i := e.framesFor(ms); i > 0; i-- {
		if err := e.capture(ctx); err != nil {
			return err
		}
	}
	return nil
}

// capture grabs one frame, advances the timeline by one frame interval and
// sleeps for the same interval. A failed screenshot still advances time.
func (e *Executor) capture(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	img, err := e.driver.Capture(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		e.logger.Debug("Frame capture failed", zap.Error(err))
	} else {
		sample := e.cursor
		sample.Click = e.elapsed < e.clickUntil
		e.result.Frames = append(e.result.Frames, img)
		e.result.Cursor = append(e.result.Cursor, sample)
	}

	e.elapsed += e.FrameMs()
	if err := e.expireOverlays(ctx); err != nil {
		return err
	}
	return e.opts.Sleep(ctx, time.Duration(e.FrameMs()*float64(time.Millisecond)))
}

func (e *Executor) screenshot(ctx context.Context, path string) error {
	img, err := e.driver.Capture(ctx)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// framesFor converts a duration to a frame count, at least one.
func (e *Executor) framesFor(ms float64) int {
	return max(1, int(math.Round(ms/e.FrameMs())))
}

func (e *Executor) position() geom.Point {
	return geom.Pt(float64(e.cursor.X), float64(e.cursor.Y))
}

func (e *Executor) setPosition(p geom.Point) {
	e.cursor.X, e.cursor.Y = p.Round()
	e.cursor.Hidden = false
}

// Cursor returns the current cursor sample.
func (e *Executor) Cursor() cursor.Sample {
	return e.cursor
}

func easeInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - (-2*t+2)*(-2*t+2)/2
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
