package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/v0xg/demoreel/internal/geom"
)

func TestParse_WellFormed(t *testing.T) {
	tests := []struct {
		raw  string
		want Action
	}{
		{"click(text=Submit)", Click("text=Submit")},
		{"click(#login > button.primary)", Click("#login > button.primary")},
		{"click(120, 340)", ClickAt(120, 340)},
		{"mouseClick(10,20)", ClickAt(10, 20)},
		{"mouseMove(300,400)", MouseMove(300, 400)},
		{"  mouseMove( 1.5 , -2 )  ", MouseMove(1.5, -2)},
		{"mouseDrag(10,20,30,40)", MouseDrag(geom.Pt(10, 20), geom.Pt(30, 40))},
		{"wheel(-100)", Wheel(-100)},
		{"wheel(250)", Wheel(250)},
		{"wait(500)", Wait(500)},
		{"wait(0)", Wait(0)},
		{"goto(https://example.com/a?b=1,2)", Action{Kind: KindGoto, URL: "https://example.com/a?b=1,2"}},
		{"waitForSelector(.dashboard)", Action{Kind: KindWaitForSelector, Selector: ".dashboard"}},
		{"screenshot(out/step1.png)", Action{Kind: KindScreenshot, Path: "out/step1.png"}},
		{"overlay(title:Welcome,fade_in,2000)", Action{Kind: KindOverlay, Raw: "title:Welcome,fade_in,2000"}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := Parse(tt.raw)
			require.True(t, ok, "expected %q to parse", tt.raw)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_RoundTrip(t *testing.T) {
	raws := []string{
		"click(text=Submit)",
		"mouseClick(10,20)",
		"mouseMove(300,400)",
		"mouseDrag(10,20,30.5,40)",
		"wheel(-100)",
		"wait(750)",
		"goto(https://example.com)",
		"waitForSelector(#app)",
		"screenshot(shot.png)",
		"overlay(callout:Look here, please,slide_in:left,1500)",
	}

	for _, raw := range raws {
		a, ok := Parse(raw)
		require.True(t, ok, raw)
		assert.Equal(t, raw, a.String())

		again, ok := Parse(a.String())
		require.True(t, ok, raw)
		assert.Equal(t, a, again)
	}
}

func TestParse_Rejects(t *testing.T) {
	raws := []string{
		"",
		"   ",
		"foo(bar)",
		"click",
		"click(",
		"click)",
		"click()",
		"(click)",
		"mouseMove(1)",
		"mouseMove(a,b)",
		"mouseMove(1,2,3)",
		"mouseClick(#id)",
		"mouseDrag(1,2,3)",
		"mouseDrag(1,2,3,x)",
		"wheel()",
		"wheel(fast)",
		"wait(abc)",
		"wait(-5)",
		"wait(NaN)",
		"goto()",
		"overlay()",
		"overlay(:orphan)",
		"overlay(title:Hi,fade_in,soon)",
		"Click(#x)",
		"click(#x",
		"((((",
		"))))",
	}

	for _, raw := range raws {
		t.Run(raw, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, ok := Parse(raw)
				assert.False(t, ok, "expected %q to be rejected", raw)
			})
		})
	}
}

func TestParseAll_DropsUnparseable(t *testing.T) {
	actions := ParseAll([]string{
		"click(#a)",
		"nonsense",
		"wait(abc)",
		"wheel(-100)",
	})

	require.Len(t, actions, 2)
	assert.Equal(t, Click("#a"), actions[0])
	assert.Equal(t, Wheel(-100), actions[1])
}

func TestAction_Coordinates(t *testing.T) {
	t.Run("SelectorClickHasNone", func(t *testing.T) {
		_, ok := Click("#a").Coordinates()
		assert.False(t, ok)
	})

	t.Run("CoordinateClick", func(t *testing.T) {
		p, ok := ClickAt(5, 6).Coordinates()
		require.True(t, ok)
		assert.Equal(t, geom.Pt(5, 6), p)
	})

	t.Run("DragStartsAtFromEndsAtTo", func(t *testing.T) {
		drag := MouseDrag(geom.Pt(1, 2), geom.Pt(3, 4))
		start, ok := drag.Coordinates()
		require.True(t, ok)
		assert.Equal(t, geom.Pt(1, 2), start)

		end, ok := drag.EndPosition()
		require.True(t, ok)
		assert.Equal(t, geom.Pt(3, 4), end)
	})

	t.Run("WaitHasNone", func(t *testing.T) {
		_, ok := Wait(10).EndPosition()
		assert.False(t, ok)
	})
}
