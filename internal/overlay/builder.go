// Package overlay turns overlay(...) instructions into layout descriptors
// that the replay step injects into the recorded page. Every descriptor is
// placed inside the viewport's safe area and never overlaps the margin band.
package overlay

import (
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/v0xg/demoreel/internal/script"
	"go.uber.org/zap"
)

const (
	DefaultMinMargin   = 60
	DefaultMarginRatio = 0.05

	calloutMaxWords = 10
)

// Options tunes the safe margins.
type Options struct {
	MinMargin   int
	MarginRatio float64
}

// Builder produces descriptors for one viewport.
type Builder struct {
	width, height int
	marginX       int
	marginY       int
	opts          Options
	logger        *zap.Logger
}

// NewBuilder creates a Builder for a width x height viewport. Zero option
// values fall back to the defaults.
func NewBuilder(width, height int, opts Options, logger *zap.Logger) *Builder {
	if opts.MinMargin <= 0 {
		opts.MinMargin = DefaultMinMargin
	}
	if opts.MarginRatio <= 0 {
		opts.MarginRatio = DefaultMarginRatio
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Builder{opts: opts, logger: logger.Named("overlay")}
	b.SetViewport(width, height)
	return b
}

// SetViewport changes the viewport and recomputes the safe margins.
func (b *Builder) SetViewport(width, height int) {
	b.width, b.height = width, height
	b.marginX = b.margin(width)
	b.marginY = b.margin(height)
}

func (b *Builder) margin(dimension int) int {
	return int(math.Ceil(math.Max(float64(b.opts.MinMargin), float64(dimension)*b.opts.MarginRatio)))
}

// Viewport returns the configured viewport size.
func (b *Builder) Viewport() Size {
	return Size{Width: b.width, Height: b.height}
}

// SafeMargins returns the horizontal and vertical margin widths.
func (b *Builder) SafeMargins() (int, int) {
	return b.marginX, b.marginY
}

// BuildOverlays returns one descriptor per overlay instruction, in order.
// Other instructions and unparseable overlays are skipped.
func (b *Builder) BuildOverlays(instructions []string) []Descriptor {
	return b.BuildFromActions(script.ParseAll(instructions))
}

// BuildFromActions is BuildOverlays for already parsed actions.
func (b *Builder) BuildFromActions(actions []script.Action) []Descriptor {
	var out []Descriptor
	for _, a := range actions {
		spec, ok := a.Overlay()
		if !ok {
			continue
		}
		out = append(out, b.Build(spec))
	}
	b.logger.Debug("Built overlay descriptors", zap.Int("count", len(out)))
	return out
}

// Build converts one decoded overlay instruction into a descriptor.
func (b *Builder) Build(spec script.OverlaySpec) Descriptor {
	kind := ParseKind(spec.Type)

	var d Descriptor
	switch kind {
	case KindCallout:
		d = b.CreateCalloutOverlay(spec.Content)
	case KindStatus:
		d = b.CreateStatusOverlay(spec.Content)
	case KindImage:
		d = b.CreateImageOverlay(spec.Content)
	default:
		d = b.fromRule(kind, spec.Content)
	}

	if pos, ok := ParsePosition(spec.Position); ok {
		b.place(&d, pos)
	} else if spec.Position != "" {
		b.logger.Debug("Ignoring unknown overlay position", zap.String("position", spec.Position))
	}

	d.Animation = parseAnimation(spec.Animation, ruleFor(kind).animationMs, d.Position)
	d.DisplayMs = int(math.Round(spec.TimingMs))
	return d
}

// CreateCalloutOverlay builds a callout, keeping only the first ten words.
func (b *Builder) CreateCalloutOverlay(text string) Descriptor {
	words := strings.Fields(text)
	if len(words) > calloutMaxWords {
		words = words[:calloutMaxWords]
	}
	return b.fromRule(KindCallout, strings.Join(words, " "))
}

// CreateStatusOverlay builds a status line whose accent reflects the risk
// level mentioned in text.
func (b *Builder) CreateStatusOverlay(text string) Descriptor {
	d := b.fromRule(KindStatus, text)
	d.BorderAccent = "4px solid " + StatusAccent(text)
	return d
}

// CreateImageOverlay shows an image or diagram file.
func (b *Builder) CreateImageOverlay(file string) Descriptor {
	d := b.fromRule(KindImage, "")
	d.File = file
	return d
}

// StatusAccent classifies free text: "high" is an emergency, "medium" a
// warning, anything else a success.
func StatusAccent(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "high"):
		return AccentEmergency
	case strings.Contains(lower, "medium"):
		return AccentWarning
	default:
		return AccentSuccess
	}
}

func (b *Builder) fromRule(kind Kind, text string) Descriptor {
	r := ruleFor(kind)
	d := Descriptor{
		ID:           "demoreel-overlay-" + uuid.NewString(),
		Kind:         kind,
		Text:         text,
		Width:        r.size.Width,
		Height:       r.size.Height,
		Background:   r.background,
		BorderAccent: r.border,
		TextColor:    r.textColor,
		FontSize:     r.fontSize,
		Animation:    Animation{Type: FadeIn, DurationMs: r.animationMs},
	}
	b.place(&d, r.position)
	return d
}

// place clamps the descriptor to the safe area and anchors it at pos.
func (b *Builder) place(d *Descriptor, pos Position) {
	size := b.clampSize(d.Size())
	d.Width, d.Height = size.Width, size.Height
	d.Position = pos
	d.X, d.Y = b.CalculateSafePosition(pos, size)
}
