package executor

import (
	"context"
	"image"

	"github.com/v0xg/demoreel/internal/geom"
	"github.com/v0xg/demoreel/internal/humanize"
	"github.com/v0xg/demoreel/internal/overlay"
)

// Driver is the browser surface the replay needs. internal/browser
// implements it on top of rod; tests use a fake.
type Driver interface {
	MoveTo(ctx context.Context, p geom.Point) error
	MouseDown(ctx context.Context) error
	MouseUp(ctx context.Context) error
	Scroll(ctx context.Context, dy float64) error
	Navigate(ctx context.Context, url string) error
	WaitForSelector(ctx context.Context, selector string) error
	ElementCenter(ctx context.Context, selector string) (geom.Point, error)
	Capture(ctx context.Context) (image.Image, error)
	Eval(ctx context.Context, js string) error
}

// Plan is one beat ready for replay. Overlay descriptors are consumed in
// order, one per overlay action.
type Plan struct {
	Actions  []humanize.Action    `json:"actions"`
	Overlays []overlay.Descriptor `json:"overlays,omitempty"`
	HoldMs   int                  `json:"holdMs,omitempty"`
}
