package humanize

import (
	"math"
	"math/rand"
	"time"
)

// Source supplies uniformly distributed values in [0,1). *rand.Rand
// satisfies it; tests pass a seeded one.
type Source interface {
	Float64() float64
}

// NewSource returns a deterministic Source for seed.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

func defaultSource() Source {
	return NewSource(time.Now().UnixNano())
}

// uniform samples U[-spread, +spread].
func uniform(rng Source, spread float64) float64 {
	return (rng.Float64()*2 - 1) * spread
}

// RandomizeTiming returns base jittered by up to ±variance, floored at 100ms.
func RandomizeTiming(rng Source, base, variance float64) float64 {
	return randomizeTiming(rng, base, variance, DefaultConfig().MinWaitMs)
}

func randomizeTiming(rng Source, base, variance, floor float64) float64 {
	return math.Max(floor, base+uniform(rng, variance))
}
