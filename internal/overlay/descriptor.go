package overlay

import "strings"

// Kind is the closed set of overlay styles.
type Kind string

const (
	KindTitle      Kind = "title"
	KindSubtitle   Kind = "subtitle"
	KindCallout    Kind = "callout"
	KindBadge      Kind = "badge"
	KindChip       Kind = "chip"
	KindStatus     Kind = "status"
	KindPanel      Kind = "panel"
	KindLabel      Kind = "label"
	KindCard       Kind = "card"
	KindImage      Kind = "image"
	KindFullscreen Kind = "fullscreen"
	KindLowerThird Kind = "lowerThird"
	KindGeneric    Kind = "generic"
)

var kindNames = map[string]Kind{
	"title":       KindTitle,
	"subtitle":    KindSubtitle,
	"callout":     KindCallout,
	"badge":       KindBadge,
	"chip":        KindChip,
	"status":      KindStatus,
	"panel":       KindPanel,
	"label":       KindLabel,
	"card":        KindCard,
	"image":       KindImage,
	"diagram":     KindImage,
	"fullscreen":  KindFullscreen,
	"lowerthird":  KindLowerThird,
	"lower_third": KindLowerThird,
	"lower-third": KindLowerThird,
	"generic":     KindGeneric,
}

// ParseKind maps an instruction type to a Kind. Unknown names map to
// KindGeneric.
func ParseKind(name string) Kind {
	if k, ok := kindNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return k
	}
	return KindGeneric
}

// Position is one of nine anchors inside the safe area.
type Position string

const (
	PositionCenter      Position = "center"
	PositionTopLeft     Position = "top-left"
	PositionTopRight    Position = "top-right"
	PositionBottomLeft  Position = "bottom-left"
	PositionBottomRight Position = "bottom-right"
	PositionLeft        Position = "left"
	PositionRight       Position = "right"
	PositionTop         Position = "top"
	PositionBottom      Position = "bottom"
)

// Positions lists every anchor.
var Positions = []Position{
	PositionCenter,
	PositionTopLeft, PositionTopRight, PositionBottomLeft, PositionBottomRight,
	PositionLeft, PositionRight, PositionTop, PositionBottom,
}

// ParsePosition accepts "top-left", "top_left" or "topleft" spellings.
func ParsePosition(name string) (Position, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "_", "-")
	for _, p := range Positions {
		if n == string(p) || n == strings.ReplaceAll(string(p), "-", "") {
			return p, true
		}
	}
	return "", false
}

// AnimationType is the entrance or exit effect of an overlay.
type AnimationType string

const (
	FadeIn   AnimationType = "fade_in"
	FadeOut  AnimationType = "fade_out"
	SlideIn  AnimationType = "slide_in"
	SlideOut AnimationType = "slide_out"
	ScaleIn  AnimationType = "scale_in"
	ScaleOut AnimationType = "scale_out"
)

// Animation describes how an overlay appears, or for exit types how it
// leaves when removed.
type Animation struct {
	Type       AnimationType `json:"type"`
	DurationMs int           `json:"durationMs"`
	From       string        `json:"from,omitempty"`
}

// Size is a box size in CSS pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Descriptor is everything the DOM injection step needs to materialize one
// overlay. X and Y are the top-left corner in viewport pixels.
type Descriptor struct {
	ID           string    `json:"id"`
	Kind         Kind      `json:"kind"`
	Text         string    `json:"text,omitempty"`
	File         string    `json:"file,omitempty"`
	Position     Position  `json:"position"`
	X            int       `json:"x"`
	Y            int       `json:"y"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	Background   string    `json:"background"`
	BorderAccent string    `json:"borderAccent"`
	TextColor    string    `json:"textColor"`
	FontSize     int       `json:"fontSize"`
	Animation    Animation `json:"animation"`

	// DisplayMs is how long the overlay stays up. Zero keeps it until the
	// end of the beat.
	DisplayMs int `json:"displayMs,omitempty"`
}

// Size returns the descriptor's box size.
func (d Descriptor) Size() Size {
	return Size{Width: d.Width, Height: d.Height}
}
