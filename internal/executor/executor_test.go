package executor

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/v0xg/demoreel/internal/cursor"
	"github.com/v0xg/demoreel/internal/geom"
	"github.com/v0xg/demoreel/internal/humanize"
	"github.com/v0xg/demoreel/internal/overlay"
	"github.com/v0xg/demoreel/internal/script"
)

type fakeDriver struct {
	elements  map[string]geom.Point
	moves     []geom.Point
	calls     []string
	evals     []string
	captures  int
	failEval  bool
	onCapture func()
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{elements: map[string]geom.Point{"#buy": geom.Pt(300, 400)}}
}

func (f *fakeDriver) MoveTo(_ context.Context, p geom.Point) error {
	f.moves = append(f.moves, p)
	return nil
}

func (f *fakeDriver) MouseDown(context.Context) error {
	f.calls = append(f.calls, "down")
	return nil
}

func (f *fakeDriver) MouseUp(context.Context) error {
	f.calls = append(f.calls, "up")
	return nil
}

func (f *fakeDriver) Scroll(context.Context, float64) error {
	f.calls = append(f.calls, "scroll")
	return nil
}

func (f *fakeDriver) Navigate(_ context.Context, url string) error {
	f.calls = append(f.calls, "goto "+url)
	return nil
}

func (f *fakeDriver) WaitForSelector(_ context.Context, sel string) error {
	if _, ok := f.elements[sel]; !ok {
		return errors.New("timeout")
	}
	return nil
}

func (f *fakeDriver) ElementCenter(_ context.Context, sel string) (geom.Point, error) {
	p, ok := f.elements[sel]
	if !ok {
		return geom.Point{}, errors.New("element not found: " + sel)
	}
	return p, nil
}

func (f *fakeDriver) Capture(context.Context) (image.Image, error) {
	f.captures++
	if f.onCapture != nil {
		f.onCapture()
	}
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}

func (f *fakeDriver) Eval(_ context.Context, js string) error {
	if f.failEval {
		return errors.New("eval failed")
	}
	f.evals = append(f.evals, js)
	return nil
}

func noSleep(context.Context, time.Duration) error { return nil }

func newTestExecutor(d Driver) *Executor {
	return New(d, Options{FPS: 10, Origin: geom.Pt(640, 360), Sleep: noSleep}, nil)
}

func plain(a script.Action) humanize.Action {
	return humanize.Action{Action: a}
}

func TestRun_WaitCapturesFramesForDuration(t *testing.T) {
	d := newFakeDriver()
	e := newTestExecutor(d)

	res, err := e.Run(context.Background(), Plan{Actions: []humanize.Action{plain(script.Wait(500))}})
	require.NoError(t, err)

	assert.Len(t, res.Frames, 5)
	assert.Len(t, res.Cursor, 5)
	assert.Equal(t, 500.0, res.DurationMs)
	assert.Equal(t, 1, res.Executed)
	for _, s := range res.Cursor {
		assert.Equal(t, 640, s.X)
		assert.Equal(t, 360, s.Y)
	}
}

func TestRun_HumanizedClickSequence(t *testing.T) {
	d := newFakeDriver()
	e := newTestExecutor(d)

	actions := humanize.New(humanize.DefaultConfig(), humanize.NewSource(1), nil).
		Humanize([]script.Action{script.Click("#buy"), script.MouseMove(100, 100)})

	res, err := e.Run(context.Background(), Plan{Actions: actions})
	require.NoError(t, err)

	assert.Equal(t, len(actions), res.Executed)
	assert.Zero(t, res.Failed)
	assert.Equal(t, []string{"down", "up"}, d.calls)

	require.NotEmpty(t, d.moves)
	assert.Equal(t, geom.Pt(100, 100), d.moves[len(d.moves)-1], "moves end on the final target")
	assert.Contains(t, d.moves, geom.Pt(300, 400), "pointer reaches the clicked element")

	var clicked bool
	for _, s := range res.Cursor {
		if s.Click {
			clicked = true
			assert.Equal(t, 300, s.X)
			assert.Equal(t, 400, s.Y)
		}
	}
	assert.True(t, clicked, "click ripple is recorded")
	assert.Equal(t, cursor.Sample{X: 100, Y: 100}, e.Cursor())
}

func TestRun_FollowsHumanizedPath(t *testing.T) {
	d := newFakeDriver()
	e := newTestExecutor(d)

	path := []geom.Point{geom.Pt(640, 360), geom.Pt(500, 300), geom.Pt(200, 200)}
	move := humanize.Action{
		Action:     script.MouseMove(200, 200),
		Synthetic:  true,
		Trajectory: path,
		DurationMs: 400,
	}
	res, err := e.Run(context.Background(), Plan{Actions: []humanize.Action{move}})
	require.NoError(t, err)

	assert.Len(t, d.moves, 4)
	assert.Len(t, res.Frames, 4)
	assert.Equal(t, geom.Pt(200, 200), d.moves[3])
}

func TestRun_SkipsFailingActions(t *testing.T) {
	d := newFakeDriver()
	e := newTestExecutor(d)

	res, err := e.Run(context.Background(), Plan{Actions: []humanize.Action{
		plain(script.Click("#missing")),
		plain(script.Action{Kind: script.KindWaitForSelector, Selector: "#nope"}),
		plain(script.Wait(100)),
	}})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Failed)
	assert.Equal(t, 1, res.Executed)
	assert.Empty(t, d.calls)
}

func TestRun_OverlaysConsumedInOrderAndRemoved(t *testing.T) {
	d := newFakeDriver()
	e := newTestExecutor(d)
	b := overlay.NewBuilder(1280, 720, overlay.Options{}, nil)

	descriptors := b.BuildOverlays([]string{
		"overlay(title:First,fade_in,200)",
		"overlay(badge:Second)",
	})
	require.Len(t, descriptors, 2)

	actions := []humanize.Action{
		plain(script.Action{Kind: script.KindOverlay, Raw: "title:First,fade_in,200"}),
		plain(script.Wait(500)),
		plain(script.Action{Kind: script.KindOverlay, Raw: "badge:Second"}),
		plain(script.Action{Kind: script.KindOverlay, Raw: "chip:Third"}),
	}
	res, err := e.Run(context.Background(), Plan{Actions: actions, Overlays: descriptors, HoldMs: 100})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Failed, "third overlay has no descriptor")
	require.Len(t, d.evals, 4)
	assert.Contains(t, d.evals[0], descriptors[0].ID)
	assert.Contains(t, d.evals[0], "createElement")
	assert.Contains(t, d.evals[1], descriptors[0].ID, "first overlay expires during the wait")
	assert.Contains(t, d.evals[1], "getElementById")
	assert.Contains(t, d.evals[2], descriptors[1].ID)
	assert.True(t, strings.Contains(d.evals[3], "getElementById") && strings.Contains(d.evals[3], descriptors[1].ID),
		"untimed overlay is removed at the end of the beat")
}

func TestRun_WheelScrollsInSteps(t *testing.T) {
	d := newFakeDriver()
	e := newTestExecutor(d)

	res, err := e.Run(context.Background(), Plan{Actions: []humanize.Action{plain(script.Wheel(500))}})
	require.NoError(t, err)
	assert.Len(t, res.Frames, scrollSteps)
	assert.Len(t, d.calls, scrollSteps)
}

func TestRun_DragUsesGrabState(t *testing.T) {
	d := newFakeDriver()
	e := newTestExecutor(d)

	res, err := e.Run(context.Background(), Plan{Actions: []humanize.Action{
		plain(script.MouseDrag(geom.Pt(100, 100), geom.Pt(400, 100))),
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{"down", "up"}, d.calls)

	var grabbed int
	for _, s := range res.Cursor {
		if s.State == cursor.StateGrab {
			grabbed++
		}
	}
	assert.Positive(t, grabbed)
	assert.Equal(t, cursor.StateDefault, e.Cursor().State)
	assert.Equal(t, 400, e.Cursor().X)
}

func TestRun_Screenshot(t *testing.T) {
	d := newFakeDriver()
	e := newTestExecutor(d)
	path := filepath.Join(t.TempDir(), "shots", "step.png")

	_, err := e.Run(context.Background(), Plan{Actions: []humanize.Action{
		plain(script.Action{Kind: script.KindScreenshot, Path: path}),
	}})
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRun_ContextCancellation(t *testing.T) {
	d := newFakeDriver()
	e := newTestExecutor(d)

	ctx, cancel := context.WithCancel(context.Background())
	d.onCapture = func() {
		if d.captures == 3 {
			cancel()
		}
	}

	res, err := e.Run(ctx, Plan{Actions: []humanize.Action{plain(script.Wait(10_000)), plain(script.Wait(10_000))}})
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.Len(t, res.Frames, 3)
}
