package crawler

import (
	"fmt"
	"strings"
)

// PageMap is the analyzed structure of a page.
type PageMap struct {
	URL        string    `json:"url"`
	Title      string    `json:"title"`
	Headings   []string  `json:"headings,omitempty"`
	Elements   []Element `json:"elements"`
	Navigation []NavItem `json:"navigation"`
	IsSPA      bool      `json:"isSPA"`
}

// Element is an interactive element.
type Element struct {
	Selector    string `json:"selector"`
	Type        string `json:"type"` // button, link, select, checkbox, radio or an input type
	Text        string `json:"text,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Name        string `json:"name,omitempty"`
	ID          string `json:"id,omitempty"`
}

// NavItem is a navigation link.
type NavItem struct {
	Selector string `json:"selector"`
	Text     string `json:"text"`
	Href     string `json:"href"`
}

// Selectors returns every selector the map knows, elements first.
func (m *PageMap) Selectors() []string {
	out := make([]string, 0, len(m.Elements)+len(m.Navigation))
	for _, e := range m.Elements {
		out = append(out, e.Selector)
	}
	for _, n := range m.Navigation {
		out = append(out, n.Selector)
	}
	return out
}

// Summary is a one-line description for logs.
func (m *PageMap) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%q at %s: %d elements, %d nav links", m.Title, m.URL, len(m.Elements), len(m.Navigation))
	if m.IsSPA {
		b.WriteString(" (SPA)")
	}
	return b.String()
}
