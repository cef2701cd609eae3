package script

import (
	"fmt"
	"strconv"

	"github.com/v0xg/demoreel/internal/geom"
)

// Kind identifies which variant of Action is populated.
type Kind string

const (
	KindClick           Kind = "click"
	KindMouseMove       Kind = "mouseMove"
	KindMouseDrag       Kind = "mouseDrag"
	KindWheel           Kind = "wheel"
	KindWait            Kind = "wait"
	KindGoto            Kind = "goto"
	KindWaitForSelector Kind = "waitForSelector"
	KindScreenshot      Kind = "screenshot"
	KindOverlay         Kind = "overlay"

	// KindHover is never produced by Parse. The humanizer inserts it ahead of
	// selector clicks.
	KindHover Kind = "hover"
)

// Action is a single parsed instruction. Exactly one Kind is active and only
// the fields belonging to that kind are set.
type Action struct {
	Kind     Kind        `json:"action"`
	Selector string      `json:"selector,omitempty"` // click, hover, waitForSelector
	At       *geom.Point `json:"at,omitempty"`       // click, mouseMove, drag start
	To       *geom.Point `json:"to,omitempty"`       // drag end
	Delta    int         `json:"delta,omitempty"`    // wheel
	Ms       float64     `json:"ms,omitempty"`       // wait
	URL      string      `json:"url,omitempty"`      // goto
	Path     string      `json:"path,omitempty"`     // screenshot
	Raw      string      `json:"raw,omitempty"`      // overlay payload
}

// Click targets an element by selector.
func Click(selector string) Action {
	return Action{Kind: KindClick, Selector: selector}
}

// ClickAt targets a viewport coordinate.
func ClickAt(x, y float64) Action {
	p := geom.Pt(x, y)
	return Action{Kind: KindClick, At: &p}
}

// MouseMove moves the pointer to a coordinate.
func MouseMove(x, y float64) Action {
	p := geom.Pt(x, y)
	return Action{Kind: KindMouseMove, At: &p}
}

// MouseDrag presses at from and releases at to.
func MouseDrag(from, to geom.Point) Action {
	return Action{Kind: KindMouseDrag, At: &from, To: &to}
}

// Wheel scrolls vertically by delta pixels.
func Wheel(delta int) Action {
	return Action{Kind: KindWheel, Delta: delta}
}

// Wait pauses for ms milliseconds.
func Wait(ms float64) Action {
	return Action{Kind: KindWait, Ms: ms}
}

// Hover rests the pointer over an element.
func Hover(selector string) Action {
	return Action{Kind: KindHover, Selector: selector}
}

// Coordinates returns the point the pointer must reach before this action
// starts, if the action is coordinate-bearing.
func (a Action) Coordinates() (geom.Point, bool) {
	switch a.Kind {
	case KindClick, KindMouseMove, KindMouseDrag:
		if a.At != nil {
			return *a.At, true
		}
	}
	return geom.Point{}, false
}

// EndPosition returns where the pointer rests after this action. It differs
// from Coordinates only for drags.
func (a Action) EndPosition() (geom.Point, bool) {
	if a.Kind == KindMouseDrag && a.To != nil {
		return *a.To, true
	}
	return a.Coordinates()
}

// String re-serializes the action into instruction form.
func (a Action) String() string {
	switch a.Kind {
	case KindClick:
		if a.Selector != "" {
			return fmt.Sprintf("click(%s)", a.Selector)
		}
		if a.At != nil {
			return fmt.Sprintf("mouseClick(%s,%s)", num(a.At.X), num(a.At.Y))
		}
	case KindMouseMove:
		if a.At != nil {
			return fmt.Sprintf("mouseMove(%s,%s)", num(a.At.X), num(a.At.Y))
		}
	case KindMouseDrag:
		if a.At != nil && a.To != nil {
			return fmt.Sprintf("mouseDrag(%s,%s,%s,%s)", num(a.At.X), num(a.At.Y), num(a.To.X), num(a.To.Y))
		}
	case KindWheel:
		return fmt.Sprintf("wheel(%d)", a.Delta)
	case KindWait:
		return fmt.Sprintf("wait(%s)", num(a.Ms))
	case KindGoto:
		return fmt.Sprintf("goto(%s)", a.URL)
	case KindWaitForSelector:
		return fmt.Sprintf("waitForSelector(%s)", a.Selector)
	case KindScreenshot:
		return fmt.Sprintf("screenshot(%s)", a.Path)
	case KindOverlay:
		return fmt.Sprintf("overlay(%s)", a.Raw)
	case KindHover:
		return fmt.Sprintf("hover(%s)", a.Selector)
	}
	return string(a.Kind) + "()"
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
