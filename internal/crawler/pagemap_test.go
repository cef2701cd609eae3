package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageMap_Selectors(t *testing.T) {
	pm := &PageMap{
		URL:        "https://example.com",
		Title:      "Example",
		Elements:   []Element{{Selector: "#login", Type: "button"}, {Selector: "input[name=\"q\"]", Type: "search"}},
		Navigation: []NavItem{{Selector: "a[href=\"/docs\"]", Href: "/docs"}},
		IsSPA:      true,
	}

	assert.Equal(t, []string{"#login", "input[name=\"q\"]", "a[href=\"/docs\"]"}, pm.Selectors())
	assert.Equal(t, `"Example" at https://example.com: 2 elements, 1 nav links (SPA)`, pm.Summary())
}

func TestPageMap_Empty(t *testing.T) {
	pm := &PageMap{}
	assert.Empty(t, pm.Selectors())
	assert.Equal(t, `"" at : 0 elements, 0 nav links`, pm.Summary())
}
