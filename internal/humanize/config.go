package humanize

import (
	"github.com/v0xg/demoreel/internal/geom"
	"github.com/v0xg/demoreel/internal/script"
)

// Config holds the timing and path parameters of the humanizer. All times are
// in milliseconds and all distances in viewport pixels.
type Config struct {
	// Origin is where the cursor is assumed to rest before the first action.
	// A nil Origin means the position is unknown until an action provides one.
	Origin *geom.Point

	HoverMs          float64
	DeliberationMs   float64
	TimingVarianceMs float64
	MinWaitMs        float64

	// SettleMs is the pause inserted after an action of the given kind.
	// Kinds without an entry get no pause.
	SettleMs map[script.Kind]float64

	ShortPathThreshold float64
	ShortPathJitter    float64
	PointSpacing       float64
	PathJitter         float64

	PathMsPerPixel float64
	MinPathMs      float64
	MaxPathMs      float64
	PathVarianceMs float64
}

// DefaultConfig returns the parameters for a 1280x720 recording.
func DefaultConfig() Config {
	origin := geom.Pt(640, 360)
	return Config{
		Origin:           &origin,
		HoverMs:          500,
		DeliberationMs:   300,
		TimingVarianceMs: 50,
		MinWaitMs:        100,
		SettleMs: map[script.Kind]float64{
			script.KindClick:     500,
			script.KindWheel:     400,
			script.KindMouseMove: 200,
			script.KindMouseDrag: 600,
		},
		ShortPathThreshold: 100,
		ShortPathJitter:    10,
		PointSpacing:       150,
		PathJitter:         15,
		PathMsPerPixel:     2,
		MinPathMs:          300,
		MaxPathMs:          1000,
		PathVarianceMs:     100,
	}
}

// settle returns the post-action pause for kind.
func (c Config) settle(kind script.Kind) float64 {
	return c.SettleMs[kind]
}
