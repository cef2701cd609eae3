package geom

import (
	"fmt"
	"math"
)

// Point is a position in viewport pixels. It doubles as a 2D vector for the
// path math in the humanizer.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p + other.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns p - other.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Mul scales p by a scalar.
func (p Point) Mul(scalar float64) Point {
	return Point{X: p.X * scalar, Y: p.Y * scalar}
}

// Mag is the Euclidean length of p treated as a vector.
func (p Point) Mag() float64 {
	return math.Hypot(p.X, p.Y)
}

// Dist is the Euclidean distance between p and other.
func (p Point) Dist(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Lerp interpolates linearly from p to other; t=0 yields p, t=1 yields other.
func (p Point) Lerp(other Point, t float64) Point {
	return Point{
		X: p.X + (other.X-p.X)*t,
		Y: p.Y + (other.Y-p.Y)*t,
	}
}

// Midpoint returns the point halfway between p and other.
func (p Point) Midpoint(other Point) Point {
	return p.Lerp(other, 0.5)
}

// Round returns integer pixel coordinates.
func (p Point) Round() (int, int) {
	return int(math.Round(p.X)), int(math.Round(p.Y))
}

func (p Point) String() string {
	return fmt.Sprintf("(%s,%s)", formatCoord(p.X), formatCoord(p.Y))
}

// PathLength sums the segment lengths of a polyline.
func PathLength(path []Point) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += path[i-1].Dist(path[i])
	}
	return total
}

func formatCoord(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

// PointAt returns the point a fraction t of the way along path, measured
// by arc length. t is clamped to [0,1].
func PointAt(path []Point, t float64) Point {
	switch len(path) {
	case 0:
		return Point{}
	case 1:
		return path[0]
	}
	t = math.Max(0, math.Min(1, t))

	total := PathLength(path)
	if total == 0 {
		return path[len(path)-1]
	}
	target := t * total
	for i := 1; i < len(path); i++ {
		seg := path[i-1].Dist(path[i])
		if target <= seg && seg > 0 {
			return path[i-1].Lerp(path[i], target/seg)
		}
		target -= seg
	}
	return path[len(path)-1]
}
