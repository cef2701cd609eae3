package humanize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/v0xg/demoreel/internal/geom"
)

func TestRandomizeTiming(t *testing.T) {
	rng := NewSource(7)

	t.Run("StaysWithinVariance", func(t *testing.T) {
		for i := 0; i < 500; i++ {
			v := RandomizeTiming(rng, 300, 50)
			assert.GreaterOrEqual(t, v, 250.0)
			assert.LessOrEqual(t, v, 350.0)
		}
	})

	t.Run("FloorsAt100", func(t *testing.T) {
		for i := 0; i < 500; i++ {
			assert.GreaterOrEqual(t, RandomizeTiming(rng, 0, 50), 100.0)
		}
	})
}

func TestGeneratePath_EndpointsExact(t *testing.T) {
	rng := NewSource(42)
	cases := []struct{ from, to geom.Point }{
		{geom.Pt(0, 0), geom.Pt(0, 0)},
		{geom.Pt(10, 10), geom.Pt(50, 60)},
		{geom.Pt(640, 360), geom.Pt(300, 400)},
		{geom.Pt(0, 0), geom.Pt(1280, 720)},
		{geom.Pt(1200.5, 80.25), geom.Pt(15.75, 700)},
	}

	for _, c := range cases {
		path := GeneratePath(c.from, c.to, rng)
		require.GreaterOrEqual(t, len(path), 3)
		assert.Equal(t, c.from, path[0])
		assert.Equal(t, c.to, path[len(path)-1])
	}
}

func TestGeneratePath_PointCount(t *testing.T) {
	rng := NewSource(1)

	t.Run("ShortDistanceHasThreePoints", func(t *testing.T) {
		from, to := geom.Pt(100, 100), geom.Pt(150, 150)
		path := GeneratePath(from, to, rng)
		require.Len(t, path, 3)

		// Only the vertical axis of the midpoint is jittered.
		mid := from.Midpoint(to)
		assert.Equal(t, mid.X, path[1].X)
		assert.InDelta(t, mid.Y, path[1].Y, 10)
	})

	t.Run("LongDistanceFollowsSpacing", func(t *testing.T) {
		for _, d := range []float64{100, 149, 300, 449, 450, 1000, 1468.6} {
			from := geom.Pt(0, 0)
			to := geom.Pt(d, 0)
			want := int(math.Max(3, math.Floor(d/150)))
			assert.Len(t, GeneratePath(from, to, rng), want, "distance %v", d)
		}
	})

	t.Run("InteriorJitterIsBounded", func(t *testing.T) {
		from, to := geom.Pt(0, 0), geom.Pt(1500, 0)
		path := GeneratePath(from, to, rng)
		require.Len(t, path, 10)
		for i := 1; i < len(path)-1; i++ {
			ideal := from.Lerp(to, float64(i)/float64(len(path)-1))
			assert.InDelta(t, ideal.X, path[i].X, 15)
			assert.InDelta(t, ideal.Y, path[i].Y, 15)
		}
	})
}

func TestPathDuration_Bounds(t *testing.T) {
	rng := NewSource(99)

	assert.Equal(t, 300.0, PathDuration([]geom.Point{geom.Pt(0, 0), geom.Pt(10, 0)}))
	assert.Equal(t, 1000.0, PathDuration([]geom.Point{geom.Pt(0, 0), geom.Pt(900, 0)}))
	assert.Equal(t, 400.0, PathDuration([]geom.Point{geom.Pt(0, 0), geom.Pt(200, 0)}))

	for i := 0; i < 200; i++ {
		from := geom.Pt(rng.Float64()*1280, rng.Float64()*720)
		to := geom.Pt(rng.Float64()*1280, rng.Float64()*720)
		d := PathDuration(GeneratePath(from, to, rng))
		assert.GreaterOrEqual(t, d, 300.0)
		assert.LessOrEqual(t, d, 1000.0)
	}
}
