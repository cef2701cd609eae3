package browser

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png"

	"github.com/go-rod/rod/lib/proto"
	"github.com/v0xg/demoreel/internal/executor"
	"github.com/v0xg/demoreel/internal/geom"
)

var _ executor.Driver = (*Browser)(nil)

func (b *Browser) MoveTo(ctx context.Context, p geom.Point) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.page.Mouse.MoveTo(proto.Point{X: p.X, Y: p.Y})
}

func (b *Browser) MouseDown(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.page.Mouse.Down(proto.InputMouseButtonLeft, 1)
}

func (b *Browser) MouseUp(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.page.Mouse.Up(proto.InputMouseButtonLeft, 1)
}

func (b *Browser) Scroll(ctx context.Context, dy float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.page.Mouse.Scroll(0, dy, 1)
}

func (b *Browser) Navigate(ctx context.Context, url string) error {
	return b.Open(ctx, url)
}

func (b *Browser) WaitForSelector(ctx context.Context, selector string) error {
	if _, err := b.page.Context(ctx).Timeout(b.opts.Timeout).Element(selector); err != nil {
		return fmt.Errorf("waiting for %s: %w", selector, err)
	}
	return nil
}

// ElementCenter scrolls the element into view and returns the centre of
// its first content quad.
func (b *Browser) ElementCenter(ctx context.Context, selector string) (geom.Point, error) {
	el, err := b.page.Context(ctx).Timeout(b.opts.Timeout).Element(selector)
	if err != nil {
		return geom.Point{}, fmt.Errorf("element not found: %s", selector)
	}
	if err := el.ScrollIntoView(); err != nil {
		return geom.Point{}, err
	}
	shape, err := el.Shape()
	if err != nil {
		return geom.Point{}, err
	}
	if len(shape.Quads) == 0 {
		return geom.Point{}, fmt.Errorf("element has no shape: %s", selector)
	}
	q := shape.Quads[0]
	return geom.Pt((q[0]+q[2]+q[4]+q[6])/4, (q[1]+q[3]+q[5]+q[7])/4), nil
}

func (b *Browser) Capture(ctx context.Context) (image.Image, error) {
	data, err := b.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (b *Browser) Eval(ctx context.Context, js string) error {
	_, err := b.page.Context(ctx).Eval(js)
	return err
}
