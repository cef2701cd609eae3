package cursor

import (
	"image"
	"image/color"
	"math"
)

var (
	outline     = color.RGBA{0, 0, 0, 255}
	fill        = color.RGBA{255, 255, 255, 255}
	grabFill    = color.RGBA{226, 232, 240, 255}
	textBeam    = color.RGBA{15, 23, 42, 255}
	rippleColor = color.RGBA{66, 133, 244, 160}
)

const rippleRadius = 15

// arrow outline, relative to the hotspot at (0,0)
var arrowOutline = []image.Point{
	{0, 0}, {0, 16}, {4, 12}, {7, 18}, {10, 17}, {7, 11}, {12, 11},
}

func drawArrow(img *image.RGBA, x, y int, state State) {
	if state == StateText {
		drawIBeam(img, x, y)
		return
	}

	body := fill
	if state == StateGrab {
		body = grabFill
	}
	for dy := 0; dy <= 16; dy++ {
		for dx := 0; dx <= 12; dx++ {
			if insideArrow(dx, dy) {
				setPixel(img, x+dx, y+dy, body)
			}
		}
	}
	for i, p := range arrowOutline {
		q := arrowOutline[(i+1)%len(arrowOutline)]
		drawLine(img, x+p.X, y+p.Y, x+q.X, y+q.Y, outline)
	}
}

func insideArrow(dx, dy int) bool {
	switch {
	case dx < 0 || dy < 0 || dy > 16:
		return false
	case dy <= 11:
		return dx <= dy*12/16
	default:
		return dx <= 4
	}
}

func drawIBeam(img *image.RGBA, x, y int) {
	drawLine(img, x, y-8, x, y+8, textBeam)
	drawLine(img, x-3, y-8, x+3, y-8, textBeam)
	drawLine(img, x-3, y+8, x+3, y+8, textBeam)
}

func drawRipple(img *image.RGBA, x, y int) {
	for deg := 0; deg < 360; deg++ {
		rad := float64(deg) * math.Pi / 180
		px := x + int(math.Round(rippleRadius*math.Cos(rad)))
		py := y + int(math.Round(rippleRadius*math.Sin(rad)))
		setPixel(img, px, py, rippleColor)
		setPixel(img, px+1, py, rippleColor)
		setPixel(img, px, py+1, rippleColor)
	}
}

// drawLine is Bresenham's algorithm.
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	dx, dy := abs(x2-x1), abs(y2-y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		setPixel(img, x1, y1, c)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func setPixel(img *image.RGBA, x, y int, c color.RGBA) {
	if (image.Point{x, y}).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
