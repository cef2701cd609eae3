// Package browser launches Chromium through rod and exposes the page as
// an executor.Driver.
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// Options configures the launched browser.
type Options struct {
	Width    int
	Height   int
	Headless bool
	// ProfileDir reuses a Chrome/Chromium profile for authenticated sessions.
	// The browser owning the profile must be closed first.
	ProfileDir string
	// Bin overrides browser discovery.
	Bin string
	// Timeout bounds element lookups and selector waits.
	Timeout time.Duration
}

// Browser wraps the rod browser and its single page.
type Browser struct {
	browser *rod.Browser
	page    *rod.Page
	opts    Options
	logger  *zap.Logger
}

// Launch starts a browser and opens a blank page with the configured
// viewport.
func Launch(ctx context.Context, opts Options, logger *zap.Logger) (*Browser, error) {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("browser")

	bin := opts.Bin
	if bin == "" {
		path, found := launcher.LookPath()
		if !found {
			return nil, errors.New("no Chrome or Chromium binary found")
		}
		bin = path
	}

	l := launcher.New().Context(ctx).Bin(bin).Headless(opts.Headless)
	if opts.ProfileDir != "" {
		l = l.UserDataDir(opts.ProfileDir)
	}
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	rb := rod.New().ControlURL(u).Context(ctx)
	if err := rb.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := rb.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = rb.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	b := &Browser{browser: rb, page: page, opts: opts, logger: logger}
	if err := b.SetViewport(opts.Width, opts.Height); err != nil {
		b.Close()
		return nil, err
	}
	logger.Info("Browser launched",
		zap.String("bin", bin),
		zap.Bool("headless", opts.Headless),
		zap.Int("width", opts.Width),
		zap.Int("height", opts.Height),
	)
	return b, nil
}

// SetViewport resizes the emulated viewport.
func (b *Browser) SetViewport(width, height int) error {
	err := b.page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to set viewport: %w", err)
	}
	b.opts.Width, b.opts.Height = width, height
	return nil
}

// Open navigates to url and waits for the page to settle.
func (b *Browser) Open(ctx context.Context, url string) error {
	if err := b.page.Context(ctx).Navigate(url); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	b.Settle(ctx)
	return nil
}

// Settle waits for load, a short network idle, and for interactive
// elements to render. SPAs need the extra wait to hydrate.
func (b *Browser) Settle(ctx context.Context) {
	page := b.page.Context(ctx)
	if err := page.WaitLoad(); err != nil {
		b.logger.Debug("Wait for load failed", zap.Error(err))
	}
	// Bounded so persistent connections (websockets, polling) cannot hang us.
	page.Timeout(5*time.Second).WaitRequestIdle(500*time.Millisecond, nil, nil, nil)()
	b.waitForInteractiveElements(ctx, 5*time.Second)
}

func (b *Browser) waitForInteractiveElements(ctx context.Context, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) && ctx.Err() == nil {
		res, err := b.page.Context(ctx).Eval(countVisibleJS)
		if err == nil && res.Value.Int() > 0 {
			time.Sleep(300 * time.Millisecond)
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
}

// Page returns the underlying rod page.
func (b *Browser) Page() *rod.Page {
	return b.page
}

// Close releases the page and the browser process.
func (b *Browser) Close() {
	if b.page != nil {
		_ = b.page.Close()
	}
	if b.browser != nil {
		_ = b.browser.Close()
	}
}

const countVisibleJS = `() => {
	const sel = 'button, [role="button"], input:not([type="hidden"]), textarea, a[href]';
	let visible = 0;
	document.querySelectorAll(sel).forEach(el => { if (el.offsetParent) visible++; });
	return visible;
}`
