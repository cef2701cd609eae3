package overlay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/v0xg/demoreel/internal/script"
)

func newTestBuilder() *Builder {
	return NewBuilder(1280, 720, Options{}, nil)
}

func TestBuilder_SafeMargins(t *testing.T) {
	b := newTestBuilder()
	mx, my := b.SafeMargins()
	assert.Equal(t, 64, mx, "5% of 1280 beats the 60px floor")
	assert.Equal(t, 60, my, "5% of 720 is below the 60px floor")

	b.SetViewport(1920, 1080)
	mx, my = b.SafeMargins()
	assert.Equal(t, 96, mx)
	assert.Equal(t, 60, my)

	b.SetViewport(800, 600)
	mx, my = b.SafeMargins()
	assert.Equal(t, 60, mx)
	assert.Equal(t, 60, my)
}

func TestCalculateSafePosition_Containment(t *testing.T) {
	viewports := []Size{{1280, 720}, {1920, 1080}, {800, 600}, {390, 844}}
	sizes := []Size{{0, 0}, {10, 10}, {180, 48}, {400, 80}, {960, 140}, {5000, 5000}}

	for _, vp := range viewports {
		b := NewBuilder(vp.Width, vp.Height, Options{}, nil)
		mx, my := b.SafeMargins()
		for _, size := range sizes {
			clamped := b.clampSize(size)
			for _, pos := range Positions {
				x, y := b.CalculateSafePosition(pos, size)
				assert.GreaterOrEqual(t, x, mx, "%v %v %v", vp, size, pos)
				assert.GreaterOrEqual(t, y, my, "%v %v %v", vp, size, pos)
				assert.LessOrEqual(t, x+clamped.Width, vp.Width-mx, "%v %v %v", vp, size, pos)
				assert.LessOrEqual(t, y+clamped.Height, vp.Height-my, "%v %v %v", vp, size, pos)
			}
		}
	}
}

func TestCalculateSafePosition_Anchors(t *testing.T) {
	b := newTestBuilder()
	size := Size{Width: 200, Height: 100}

	tests := []struct {
		pos  Position
		x, y int
	}{
		{PositionTopLeft, 64, 60},
		{PositionTopRight, 1280 - 64 - 200, 60},
		{PositionBottomLeft, 64, 720 - 60 - 100},
		{PositionBottomRight, 1280 - 64 - 200, 720 - 60 - 100},
		{PositionCenter, 540, 310},
		{PositionLeft, 64, 310},
		{PositionRight, 1016, 310},
		{PositionTop, 540, 60},
		{PositionBottom, 540, 560},
	}
	for _, tt := range tests {
		t.Run(string(tt.pos), func(t *testing.T) {
			x, y := b.CalculateSafePosition(tt.pos, size)
			assert.Equal(t, tt.x, x)
			assert.Equal(t, tt.y, y)
		})
	}
}

func TestCreateCalloutOverlay_Truncates(t *testing.T) {
	b := newTestBuilder()

	d := b.CreateCalloutOverlay("one two three four five six seven eight nine ten eleven twelve")
	assert.Len(t, strings.Fields(d.Text), 10)
	assert.Equal(t, "one two three four five six seven eight nine ten", d.Text)
	assert.Equal(t, KindCallout, d.Kind)

	short := b.CreateCalloutOverlay("  just   three words ")
	assert.Equal(t, "just three words", short.Text)
}

func TestCreateStatusOverlay_RiskColors(t *testing.T) {
	b := newTestBuilder()

	tests := []struct {
		text   string
		accent string
	}{
		{"High risk area", AccentEmergency},
		{"HIGH", AccentEmergency},
		{"Medium alert", AccentWarning},
		{"All clear", AccentSuccess},
		{"", AccentSuccess},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			d := b.CreateStatusOverlay(tt.text)
			assert.Equal(t, tt.accent, StatusAccent(tt.text))
			assert.True(t, strings.HasSuffix(d.BorderAccent, tt.accent), d.BorderAccent)
		})
	}
}

func TestBuildOverlays(t *testing.T) {
	b := newTestBuilder()

	out := b.BuildOverlays([]string{
		"click(#a)",
		"overlay(title:Welcome to Acme,fade_in,2000)",
		"overlay(mystery:Something odd)",
		"wait(500)",
		"overlay(badge@bottom-left:Beta,slide_in,800)",
		"overlay(diagram:assets/flow.png,scale_in,0)",
		"overlay(title:broken,fade_in,later)",
		"overlay(status:Risk is medium, watch it,slide_in:top,1500)",
	})
	require.Len(t, out, 5)

	title := out[0]
	assert.Equal(t, KindTitle, title.Kind)
	assert.Equal(t, "Welcome to Acme", title.Text)
	assert.Equal(t, PositionCenter, title.Position)
	assert.Equal(t, FadeIn, title.Animation.Type)
	assert.Equal(t, 2000, title.DisplayMs)
	assert.NotEmpty(t, title.ID)

	generic := out[1]
	assert.Equal(t, KindGeneric, generic.Kind)
	assert.Equal(t, 400, generic.Width)
	assert.Equal(t, 80, generic.Height)
	assert.Equal(t, "Something odd", generic.Text)

	badge := out[2]
	assert.Equal(t, KindBadge, badge.Kind)
	assert.Equal(t, PositionBottomLeft, badge.Position)
	assert.Equal(t, 64, badge.X)
	assert.Equal(t, 720-60-48, badge.Y)
	assert.Equal(t, SlideIn, badge.Animation.Type)
	assert.Equal(t, "left", badge.Animation.From)

	image := out[3]
	assert.Equal(t, KindImage, image.Kind)
	assert.Equal(t, "assets/flow.png", image.File)
	assert.Empty(t, image.Text)
	assert.Equal(t, ScaleIn, image.Animation.Type)

	status := out[4]
	assert.Equal(t, KindStatus, status.Kind)
	assert.Equal(t, "Risk is medium, watch it", status.Text)
	assert.Contains(t, status.BorderAccent, AccentWarning)
	assert.Equal(t, "top", status.Animation.From)
	assert.Equal(t, 1500, status.DisplayMs)
}

func TestBuild_FullscreenFitsSafeArea(t *testing.T) {
	b := newTestBuilder()
	d := b.Build(script.OverlaySpec{Type: "fullscreen", Content: "Thanks for watching", Animation: "in"})
	assert.Equal(t, 1280-2*64, d.Width)
	assert.Equal(t, 720-2*60, d.Height)
	assert.Equal(t, 64, d.X)
	assert.Equal(t, 60, d.Y)
}

func TestBuild_EveryKindStaysInsideMargins(t *testing.T) {
	b := NewBuilder(640, 480, Options{}, nil)
	mx, my := b.SafeMargins()

	for name := range kindNames {
		for _, pos := range Positions {
			d := b.Build(script.OverlaySpec{Type: name, Position: string(pos), Content: "x", Animation: "in"})
			assert.GreaterOrEqual(t, d.X, mx, "%s@%s", name, pos)
			assert.GreaterOrEqual(t, d.Y, my, "%s@%s", name, pos)
			assert.LessOrEqual(t, d.X+d.Width, 640-mx, "%s@%s", name, pos)
			assert.LessOrEqual(t, d.Y+d.Height, 480-my, "%s@%s", name, pos)
		}
	}
}

func TestParseAnimation(t *testing.T) {
	tests := []struct {
		token string
		pos   Position
		want  Animation
	}{
		{"in", PositionCenter, Animation{Type: FadeIn, DurationMs: 300}},
		{"out", PositionCenter, Animation{Type: FadeOut, DurationMs: 300}},
		{"zoom", PositionCenter, Animation{Type: ScaleIn, DurationMs: 300}},
		{"slide_out:right", PositionCenter, Animation{Type: SlideOut, DurationMs: 300, From: "right"}},
		{"slide", PositionTopRight, Animation{Type: SlideIn, DurationMs: 300, From: "right"}},
		{"slide-in:up", PositionCenter, Animation{Type: SlideIn, DurationMs: 300, From: "top"}},
		{"sparkle", PositionCenter, Animation{Type: FadeIn, DurationMs: 300}},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, parseAnimation(tt.token, 300, tt.pos))
		})
	}
}

func TestParseKindAndPosition(t *testing.T) {
	assert.Equal(t, KindLowerThird, ParseKind("lower-third"))
	assert.Equal(t, KindLowerThird, ParseKind("lowerThird"))
	assert.Equal(t, KindImage, ParseKind("Diagram"))
	assert.Equal(t, KindGeneric, ParseKind("banner"))

	p, ok := ParsePosition("bottom_right")
	require.True(t, ok)
	assert.Equal(t, PositionBottomRight, p)

	p, ok = ParsePosition("topleft")
	require.True(t, ok)
	assert.Equal(t, PositionTopLeft, p)

	_, ok = ParsePosition("middle")
	assert.False(t, ok)
}

func TestDescriptorScript(t *testing.T) {
	b := newTestBuilder()
	d := b.CreateCalloutOverlay(`Say "hi" </script>`)

	js := d.Script()
	assert.True(t, strings.HasPrefix(js, "() => ("))
	assert.Contains(t, js, `"id":"`+d.ID+`"`)
	assert.Contains(t, js, `"kind":"callout"`)
	assert.Contains(t, js, `\"hi\"`)

	rm := RemoveScript(d.ID)
	assert.Contains(t, rm, `("`+d.ID+`")`)
	assert.Contains(t, rm, "getElementById")
}

func TestDescriptorScript_ExitAnimationRunsOnRemoval(t *testing.T) {
	b := newTestBuilder()
	d := b.Build(script.OverlaySpec{Type: "callout", Content: "bye", Animation: "slide_out:right"})
	require.Equal(t, SlideOut, d.Animation.Type)

	js := d.Script()
	assert.Contains(t, js, `"type":"slide_out"`)
	assert.Contains(t, js, "el.dataset.exit = a.type", "exit effect is stored on the element")
	assert.NotContains(t, js, "from = { opacity: 1 }", "injection never starts fully opaque and fades away")

	rm := RemoveScript(d.ID)
	assert.Contains(t, rm, "el.dataset.exit")
	assert.Contains(t, rm, "onfinish = () => el.remove()")
	assert.Contains(t, rm, "'slide_out'")
	assert.Contains(t, rm, "'scale_out'")
}
