package recorder

import (
	"github.com/v0xg/demoreel/internal/demo"
	"github.com/v0xg/demoreel/internal/executor"
	"github.com/v0xg/demoreel/internal/geom"
	"github.com/v0xg/demoreel/internal/humanize"
	"github.com/v0xg/demoreel/internal/overlay"
	"github.com/v0xg/demoreel/internal/script"
	"go.uber.org/zap"
)

// BeatPlan is one beat after parsing, humanizing and overlay layout.
type BeatPlan struct {
	Index     int           `json:"index"`
	Name      string        `json:"name"`
	Plan      executor.Plan `json:"plan"`
	Narration string        `json:"narration,omitempty"`
	// Dropped lists instructions that did not parse.
	Dropped []string `json:"dropped,omitempty"`
}

// Planner prepares beats for replay without touching a browser.
type Planner struct {
	humanize humanize.Config
	rng      humanize.Source
	builder  *overlay.Builder
	logger   *zap.Logger
}

// NewPlanner creates a Planner. cfg.Origin is where the first beat starts;
// later beats start where the previous one left the cursor.
func NewPlanner(cfg humanize.Config, rng humanize.Source, builder *overlay.Builder, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rng == nil {
		rng = humanize.NewSource(0)
	}
	return &Planner{humanize: cfg, rng: rng, builder: builder, logger: logger}
}

// PlanBeat plans one beat starting from origin. A nil origin keeps the
// configured one.
func (p *Planner) PlanBeat(index int, b demo.Beat, origin *geom.Point) BeatPlan {
	var (
		actions []script.Action
		dropped []string
	)
	for _, raw := range b.Instructions {
		a, ok := script.Parse(raw)
		if !ok {
			dropped = append(dropped, raw)
			continue
		}
		actions = append(actions, a)
	}
	if len(dropped) > 0 {
		p.logger.Warn("Dropped unrecognized instructions",
			zap.String("beat", b.Name(index)),
			zap.Strings("instructions", dropped),
		)
	}

	cfg := p.humanize
	if origin != nil {
		o := *origin
		cfg.Origin = &o
	}

	return BeatPlan{
		Index: index,
		Name:  b.Name(index),
		Plan: executor.Plan{
			Actions:  humanize.New(cfg, p.rng, p.logger).Humanize(actions),
			Overlays: p.builder.BuildFromActions(actions),
			HoldMs:   b.HoldMs,
		},
		Narration: b.Narration,
		Dropped:   dropped,
	}
}

// PlanDemo plans every beat, chaining cursor positions between beats.
func (p *Planner) PlanDemo(d *demo.Demo) []BeatPlan {
	plans := make([]BeatPlan, 0, len(d.Beats))
	var origin *geom.Point
	for i, b := range d.Beats {
		bp := p.PlanBeat(i, b, origin)
		if end, ok := lastPosition(bp.Plan.Actions); ok {
			origin = &end
		}
		plans = append(plans, bp)
	}
	return plans
}

// lastPosition is where the pointer rests after actions, when known.
func lastPosition(actions []humanize.Action) (geom.Point, bool) {
	for i := len(actions) - 1; i >= 0; i-- {
		if p, ok := actions[i].EndPosition(); ok {
			return p, true
		}
	}
	return geom.Point{}, false
}

// EstimatedMs is the planned timeline length: humanized durations, explicit
// waits and the final hold. Browser latency is not included.
func (bp BeatPlan) EstimatedMs() float64 {
	total := float64(bp.Plan.HoldMs)
	for _, a := range bp.Plan.Actions {
		switch {
		case a.DurationMs > 0:
			total += a.DurationMs
		case a.Kind == script.KindWait:
			total += a.Ms
		}
	}
	return total
}
