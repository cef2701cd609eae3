// Package humanize turns a parsed action sequence into one that looks like
// unscripted use: hover-and-pause before selector clicks, settle pauses after
// pointer actions, and curved, timed transitions between coordinates.
package humanize

import (
	"fmt"
	"sync"

	"github.com/v0xg/demoreel/internal/geom"
	"github.com/v0xg/demoreel/internal/script"
	"go.uber.org/zap"
)

// Action is a parsed action plus the fields the humanizer synthesizes.
// Synthetic actions did not appear in the input; Comment says why they were
// inserted and carries no behavior.
type Action struct {
	script.Action
	Synthetic  bool         `json:"synthetic,omitempty"`
	Trajectory []geom.Point `json:"trajectory,omitempty"`
	DurationMs float64      `json:"durationMs,omitempty"`
	Comment    string       `json:"comment,omitempty"`
}

// Humanizer applies a Config with a shared random source.
type Humanizer struct {
	mu     sync.Mutex
	cfg    Config
	rng    Source
	logger *zap.Logger
}

// New creates a Humanizer. A nil rng is replaced by a time-seeded source and
// a nil logger by a no-op one.
func New(cfg Config, rng Source, logger *zap.Logger) *Humanizer {
	if rng == nil {
		rng = defaultSource()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Humanizer{cfg: cfg, rng: rng, logger: logger.Named("humanize")}
}

// Humanize runs the configured transformation.
func (h *Humanizer) Humanize(actions []script.Action) []Action {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := h.cfg.humanize(actions, h.rng)
	h.logger.Debug("Humanized action sequence",
		zap.Int("input", len(actions)),
		zap.Int("output", len(out)),
	)
	return out
}

// Humanize transforms actions with DefaultConfig.
func Humanize(actions []script.Action, rng Source) []Action {
	if rng == nil {
		rng = defaultSource()
	}
	return DefaultConfig().humanize(actions, rng)
}

// foldState is the accumulator threaded through the single pass.
type foldState struct {
	last *geom.Point
}

func (c Config) humanize(actions []script.Action, rng Source) []Action {
	state := foldState{}
	if c.Origin != nil {
		origin := *c.Origin
		state.last = &origin
	}

	out := make([]Action, 0, len(actions)*3)
	for i, a := range actions {
		var next *script.Action
		if i+1 < len(actions) {
			next = &actions[i+1]
		}
		var emitted []Action
		emitted, state = c.step(state, a, next, rng)
		out = append(out, emitted...)
	}
	return out
}

// step emits everything produced for one input action and returns the
// updated accumulator.
func (c Config) step(state foldState, a script.Action, next *script.Action, rng Source) ([]Action, foldState) {
	var emitted []Action

	if a.Kind == script.KindClick && a.Selector != "" {
		emitted = append(emitted,
			Action{
				Action:     script.Hover(a.Selector),
				Synthetic:  true,
				DurationMs: c.HoverMs,
				Comment:    "hover before click",
			},
			c.pause(rng, c.DeliberationMs, "pause before click"),
		)
	}

	emitted = append(emitted, Action{Action: a})

	if settle := c.settle(a.Kind); settle > 0 {
		emitted = append(emitted, c.pause(rng, settle, fmt.Sprintf("settle after %s", a.Kind)))
	}

	if end, ok := a.EndPosition(); ok {
		state.last = &end
	}

	if next != nil && state.last != nil {
		if target, ok := next.Coordinates(); ok {
			emitted = append(emitted, c.transition(*state.last, target, rng))
			state.last = &target
		}
	}

	return emitted, state
}

func (c Config) pause(rng Source, base float64, comment string) Action {
	ms := randomizeTiming(rng, base, c.TimingVarianceMs, c.MinWaitMs)
	return Action{
		Action:     script.Wait(ms),
		Synthetic:  true,
		DurationMs: ms,
		Comment:    comment,
	}
}

func (c Config) transition(from, to geom.Point, rng Source) Action {
	path := c.generatePath(from, to, rng)
	duration := randomizeTiming(rng, c.pathDuration(path), c.PathVarianceMs, c.MinWaitMs)
	return Action{
		Action:     script.MouseMove(to.X, to.Y),
		Synthetic:  true,
		Trajectory: path,
		DurationMs: duration,
		Comment:    fmt.Sprintf("transition %s -> %s", from, to),
	}
}
