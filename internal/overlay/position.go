package overlay

import "strings"

// CalculateSafePosition returns the top-left corner that anchors a box of
// the given size at pos without entering the margin band. Oversized boxes
// are clamped to the safe area first.
func (b *Builder) CalculateSafePosition(pos Position, size Size) (x, y int) {
	size = b.clampSize(size)
	w, h := size.Width, size.Height

	left := b.marginX
	right := b.width - b.marginX - w
	top := b.marginY
	bottom := b.height - b.marginY - h
	midX := (b.width - w) / 2
	midY := (b.height - h) / 2

	switch pos {
	case PositionTopLeft:
		return left, top
	case PositionTopRight:
		return right, top
	case PositionBottomLeft:
		return left, bottom
	case PositionBottomRight:
		return right, bottom
	case PositionLeft:
		return left, midY
	case PositionRight:
		return right, midY
	case PositionTop:
		return midX, top
	case PositionBottom:
		return midX, bottom
	default:
		return midX, midY
	}
}

func (b *Builder) clampSize(size Size) Size {
	maxW := max(0, b.width-2*b.marginX)
	maxH := max(0, b.height-2*b.marginY)
	return Size{
		Width:  min(max(0, size.Width), maxW),
		Height: min(max(0, size.Height), maxH),
	}
}

var animationNames = map[string]AnimationType{
	"in":        FadeIn,
	"fade":      FadeIn,
	"fade_in":   FadeIn,
	"out":       FadeOut,
	"fade_out":  FadeOut,
	"slide":     SlideIn,
	"slide_in":  SlideIn,
	"slide_out": SlideOut,
	"scale":     ScaleIn,
	"scale_in":  ScaleIn,
	"zoom":      ScaleIn,
	"zoom_in":   ScaleIn,
	"pop":       ScaleIn,
	"scale_out": ScaleOut,
	"zoom_out":  ScaleOut,
}

var directions = map[string]string{
	"left": "left", "right": "right",
	"top": "top", "up": "top",
	"bottom": "bottom", "down": "bottom",
}

// parseAnimation decodes "type[:from]". Slides without a direction enter
// from the side the overlay is anchored to.
func parseAnimation(token string, durationMs int, pos Position) Animation {
	name, from, _ := strings.Cut(strings.ToLower(strings.TrimSpace(token)), ":")
	name = strings.ReplaceAll(name, "-", "_")

	typ, ok := animationNames[name]
	if !ok {
		typ = FadeIn
	}

	anim := Animation{Type: typ, DurationMs: durationMs}
	if typ != SlideIn && typ != SlideOut {
		return anim
	}
	if dir, ok := directions[strings.TrimSpace(from)]; ok {
		anim.From = dir
	} else {
		anim.From = anchorSide(pos)
	}
	return anim
}

func anchorSide(pos Position) string {
	switch pos {
	case PositionLeft, PositionTopLeft, PositionBottomLeft:
		return "left"
	case PositionRight, PositionTopRight, PositionBottomRight:
		return "right"
	case PositionTop:
		return "top"
	default:
		return "bottom"
	}
}
