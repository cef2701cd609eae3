package script

import (
	"strings"
)

// DefaultOverlayAnimation is used when an overlay instruction omits its
// animation field.
const DefaultOverlayAnimation = "in"

// OverlaySpec is the decoded payload of an overlay(...) instruction:
//
//	type[@position][:content],animation,timingMs
//
// Content may itself contain commas; the last two fields are always the
// animation and the timing.
type OverlaySpec struct {
	Type      string  `json:"type"`
	Position  string  `json:"position,omitempty"`
	Content   string  `json:"content,omitempty"`
	Animation string  `json:"animation"`
	TimingMs  float64 `json:"timingMs"`
}

// ParseOverlay decodes an overlay payload (the text inside the parentheses).
func ParseOverlay(payload string) (OverlaySpec, bool) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return OverlaySpec{}, false
	}

	fields := strings.Split(payload, ",")
	spec := OverlaySpec{Animation: DefaultOverlayAnimation}

	var head string
	switch n := len(fields); {
	case n == 1:
		head = fields[0]
	case n == 2:
		head = fields[0]
		extra := strings.TrimSpace(fields[1])
		if strings.Contains(head, ":") {
			head += "," + fields[1]
		} else if extra != "" {
			head += ":" + extra
		}
	default:
		timing, ok := parseNumber(fields[n-1])
		if !ok || timing < 0 {
			return OverlaySpec{}, false
		}
		spec.TimingMs = timing
		if anim := strings.TrimSpace(fields[n-2]); anim != "" {
			spec.Animation = anim
		}
		head = strings.Join(fields[:n-2], ",")
	}

	typ, content, _ := strings.Cut(head, ":")
	typ = strings.TrimSpace(typ)
	if name, pos, found := strings.Cut(typ, "@"); found {
		typ = strings.TrimSpace(name)
		spec.Position = strings.TrimSpace(pos)
	}
	if typ == "" {
		return OverlaySpec{}, false
	}

	spec.Type = typ
	spec.Content = strings.TrimSpace(content)
	return spec, true
}

// Overlay decodes the payload of an overlay action.
func (a Action) Overlay() (OverlaySpec, bool) {
	if a.Kind != KindOverlay {
		return OverlaySpec{}, false
	}
	return ParseOverlay(a.Raw)
}
