// Package cursor paints a synthetic mouse pointer onto captured frames.
// Headless screenshots never contain the system cursor, so the replay step
// records where the pointer was for every frame and this package draws it.
package cursor

import (
	"image"
	"image/draw"
	"math"
)

// State is the visual style of the pointer.
type State int

const (
	StateDefault State = iota
	StatePointer
	StateText
	StateGrab
)

// Sample is the pointer at the moment one frame was captured.
type Sample struct {
	X, Y  int
	State State
	Click bool
	// Hidden samples are drawn without a pointer, e.g. before the first move.
	Hidden bool
}

// Apply returns copies of frames with the pointer drawn on each. When the
// sample count differs from the frame count the samples are resampled
// with easing first.
func Apply(frames []image.Image, samples []Sample) []image.Image {
	if len(samples) == 0 {
		return frames
	}
	if len(samples) != len(frames) {
		samples = Resample(samples, len(frames))
	}

	out := make([]image.Image, len(frames))
	for i, frame := range frames {
		out[i] = drawOnFrame(frame, samples[i])
	}
	return out
}

// Resample stretches samples over n frames, easing between neighbours.
func Resample(samples []Sample, n int) []Sample {
	out := make([]Sample, n)
	if len(samples) == 0 || n == 0 {
		return out
	}

	for i := 0; i < n; i++ {
		pos := float64(i) / float64(n) * float64(len(samples))
		idx := min(int(pos), len(samples)-1)
		cur := samples[idx]

		if idx == len(samples)-1 {
			out[i] = cur
			continue
		}
		next := samples[idx+1]
		t := easeInOut(pos - float64(idx))

		s := cur
		s.X = int(math.Round(float64(cur.X) + t*float64(next.X-cur.X)))
		s.Y = int(math.Round(float64(cur.Y) + t*float64(next.Y-cur.Y)))
		out[i] = s
	}
	return out
}

func easeInOut(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}

func drawOnFrame(frame image.Image, s Sample) image.Image {
	bounds := frame.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, frame, bounds.Min, draw.Src)

	if s.Hidden {
		return dst
	}
	if s.Click {
		drawRipple(dst, s.X, s.Y)
	}
	drawArrow(dst, s.X, s.Y, s.State)
	return dst
}
