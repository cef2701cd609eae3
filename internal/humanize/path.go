package humanize

import (
	"math"

	"github.com/v0xg/demoreel/internal/geom"
)

// GeneratePath builds a slightly irregular pointer trajectory from one point
// to another using the default parameters. The first and last points are
// exactly from and to.
func GeneratePath(from, to geom.Point, rng Source) []geom.Point {
	return DefaultConfig().generatePath(from, to, rng)
}

// PathDuration is the un-jittered travel time for path in milliseconds:
// twice its length, clamped to [300, 1000].
func PathDuration(path []geom.Point) float64 {
	return DefaultConfig().pathDuration(path)
}

func (c Config) generatePath(from, to geom.Point, rng Source) []geom.Point {
	d := from.Dist(to)

	// Short hops get a single gentle bend at the midpoint.
	if d < c.ShortPathThreshold {
		mid := from.Midpoint(to)
		mid.Y += uniform(rng, c.ShortPathJitter)
		return []geom.Point{from, mid, to}
	}

	n := int(math.Floor(d / c.PointSpacing))
	if n < 3 {
		n = 3
	}

	path := make([]geom.Point, n)
	path[0] = from
	path[n-1] = to
	for i := 1; i < n-1; i++ {
		t := float64(i) / float64(n-1)
		p := from.Lerp(to, t)
		p.X += uniform(rng, c.PathJitter)
		p.Y += uniform(rng, c.PathJitter)
		path[i] = p
	}
	return path
}

func (c Config) pathDuration(path []geom.Point) float64 {
	ms := geom.PathLength(path) * c.PathMsPerPixel
	return math.Min(c.MaxPathMs, math.Max(c.MinPathMs, ms))
}
