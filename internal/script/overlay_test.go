package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOverlay(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    OverlaySpec
	}{
		{
			name:    "TypeOnly",
			payload: "title",
			want:    OverlaySpec{Type: "title", Animation: "in"},
		},
		{
			name:    "TypeWithContent",
			payload: "title:Welcome",
			want:    OverlaySpec{Type: "title", Content: "Welcome", Animation: "in"},
		},
		{
			name:    "TwoFieldsSecondIsContent",
			payload: "badge,New",
			want:    OverlaySpec{Type: "badge", Content: "New", Animation: "in"},
		},
		{
			name:    "TwoFieldsContentKeepsComma",
			payload: "callout:Hello, world",
			want:    OverlaySpec{Type: "callout", Content: "Hello, world", Animation: "in"},
		},
		{
			name:    "Full",
			payload: "title:Welcome,fade_in,2000",
			want:    OverlaySpec{Type: "title", Content: "Welcome", Animation: "fade_in", TimingMs: 2000},
		},
		{
			name:    "ContentWithCommas",
			payload: "callout:First, second, and third,slide_in,1200",
			want:    OverlaySpec{Type: "callout", Content: "First, second, and third", Animation: "slide_in", TimingMs: 1200},
		},
		{
			name:    "ContentWithColon",
			payload: "status:Risk: high,in,0",
			want:    OverlaySpec{Type: "status", Content: "Risk: high", Animation: "in", TimingMs: 0},
		},
		{
			name:    "PositionSuffix",
			payload: "badge@top-left:Beta,scale_in,800",
			want:    OverlaySpec{Type: "badge", Position: "top-left", Content: "Beta", Animation: "scale_in", TimingMs: 800},
		},
		{
			name:    "EmptyAnimationDefaults",
			payload: "chip:Live,,500",
			want:    OverlaySpec{Type: "chip", Content: "Live", Animation: "in", TimingMs: 500},
		},
		{
			name:    "ImageFile",
			payload: "image:assets/diagram.png,fade_in,3000",
			want:    OverlaySpec{Type: "image", Content: "assets/diagram.png", Animation: "fade_in", TimingMs: 3000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseOverlay(tt.payload)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseOverlay_Rejects(t *testing.T) {
	for _, payload := range []string{"", "  ", ":text", "@top:text", "title:x,in,abc", "title:x,in,-1"} {
		_, ok := ParseOverlay(payload)
		assert.False(t, ok, "expected %q to be rejected", payload)
	}
}

func TestAction_Overlay(t *testing.T) {
	a, ok := Parse("overlay(lowerThird:Jane Doe, CTO,slide_in,2500)")
	require.True(t, ok)

	spec, ok := a.Overlay()
	require.True(t, ok)
	assert.Equal(t, "lowerThird", spec.Type)
	assert.Equal(t, "Jane Doe, CTO", spec.Content)
	assert.Equal(t, 2500.0, spec.TimingMs)

	_, ok = Wait(1).Overlay()
	assert.False(t, ok)
}
