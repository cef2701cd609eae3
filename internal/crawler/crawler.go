// Package crawler extracts a compact map of the interactive parts of the
// current page. The map is what the AI provider sees when it writes a demo.
package crawler

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/v0xg/demoreel/internal/browser"
	"go.uber.org/zap"
)

// Crawl opens url in b and maps the page.
func Crawl(ctx context.Context, b *browser.Browser, url string, logger *zap.Logger) (*PageMap, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := b.Open(ctx, url); err != nil {
		return nil, err
	}
	pm, err := Extract(ctx, b.Page())
	if err != nil {
		return nil, err
	}
	logger.Named("crawler").Info("Page mapped",
		zap.String("url", pm.URL),
		zap.Int("elements", len(pm.Elements)),
		zap.Int("navigation", len(pm.Navigation)),
		zap.Bool("spa", pm.IsSPA),
	)
	return pm, nil
}

// Extract maps the page in its current state without navigating.
func Extract(ctx context.Context, page *rod.Page) (*PageMap, error) {
	page = page.Context(ctx)

	info, err := page.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to read page info: %w", err)
	}

	spa, err := page.Eval(detectSPAJS)
	if err != nil {
		return nil, fmt.Errorf("failed to detect framework: %w", err)
	}

	elements, err := extractElements(page)
	if err != nil {
		return nil, err
	}
	navigation, err := extractNavigation(page)
	if err != nil {
		return nil, err
	}
	headings, err := page.Eval(headingsJS)
	if err != nil {
		return nil, fmt.Errorf("failed to read headings: %w", err)
	}

	pm := &PageMap{
		URL:        info.URL,
		Title:      info.Title,
		Elements:   elements,
		Navigation: navigation,
		IsSPA:      spa.Value.Bool(),
	}
	for _, h := range headings.Value.Arr() {
		pm.Headings = append(pm.Headings, h.String())
	}
	return pm, nil
}

func extractElements(page *rod.Page) ([]Element, error) {
	res, err := page.Eval(elementsJS)
	if err != nil {
		return nil, fmt.Errorf("failed to extract elements: %w", err)
	}
	var elements []Element
	for _, v := range res.Value.Arr() {
		elements = append(elements, Element{
			Selector:    v.Get("selector").String(),
			Type:        v.Get("type").String(),
			Text:        v.Get("text").String(),
			Placeholder: v.Get("placeholder").String(),
			Name:        v.Get("name").String(),
			ID:          v.Get("id").String(),
		})
	}
	return elements, nil
}

func extractNavigation(page *rod.Page) ([]NavItem, error) {
	res, err := page.Eval(navigationJS)
	if err != nil {
		return nil, fmt.Errorf("failed to extract navigation: %w", err)
	}
	var items []NavItem
	for _, v := range res.Value.Arr() {
		items = append(items, NavItem{
			Selector: v.Get("selector").String(),
			Text:     v.Get("text").String(),
			Href:     v.Get("href").String(),
		})
	}
	return items, nil
}

const detectSPAJS = `() => {
	if (window.__REACT_DEVTOOLS_GLOBAL_HOOK__ || document.querySelector('[data-reactroot]') || document.querySelector('#__next')) return true;
	if (window.__VUE__ || document.querySelector('[data-v-app]')) return true;
	if (window.ng || document.querySelector('[ng-version]') || document.querySelector('app-root')) return true;
	if (document.querySelector('[class*="svelte-"]')) return true;
	return false;
}`

const headingsJS = `() => Array.from(document.querySelectorAll('h1, h2, h3'))
	.filter(el => el.offsetParent)
	.map(el => (el.textContent || '').trim().slice(0, 80))
	.filter(t => t.length > 0)
	.slice(0, 20)`

// elementsJS lists visible interactive elements, each with the shortest
// selector that is unique on the page.
const elementsJS = `() => {
	const safeIdent = s => !!s && /^[A-Za-z_][\w-]*$/.test(s);
	const unique = sel => { try { return document.querySelectorAll(sel).length === 1; } catch (e) { return false; } };

	const selectorFor = el => {
		const tag = el.tagName.toLowerCase();
		if (safeIdent(el.id)) return '#' + el.id;
		for (const attr of ['data-testid', 'data-test', 'name', 'aria-label']) {
			const v = el.getAttribute(attr);
			if (v && !v.includes('"')) {
				const sel = tag + '[' + attr + '="' + v + '"]';
				if (unique(sel)) return sel;
			}
		}
		if (typeof el.className === 'string') {
			const classes = el.className.trim().split(/\s+/).filter(safeIdent).slice(0, 2);
			if (classes.length) {
				const sel = tag + '.' + classes.join('.');
				if (unique(sel)) return sel;
			}
		}
		const parent = el.parentElement;
		if (!parent || parent === document.documentElement) return tag;
		const nth = Array.from(parent.children).indexOf(el) + 1;
		return selectorFor(parent) + ' > ' + tag + ':nth-child(' + nth + ')';
	};

	const groups = [
		['button, [role="button"], input[type="submit"], input[type="button"]', () => 'button'],
		['input[type="checkbox"], input[type="radio"]', el => el.type],
		['input:not([type="hidden"]):not([type="submit"]):not([type="button"]), textarea', el => el.type || 'text'],
		['select', () => 'select'],
		['a[href]:not([href^="#"]):not([href^="javascript:"])', () => 'link'],
	];

	const out = [];
	const seen = new Set();
	for (const [query, typeOf] of groups) {
		document.querySelectorAll(query).forEach(el => {
			if (!el.offsetParent) return;
			const selector = selectorFor(el);
			if (seen.has(selector)) return;
			seen.add(selector);
			out.push({
				selector,
				type: typeOf(el),
				text: (el.textContent || el.value || '').trim().replace(/\s+/g, ' ').slice(0, 50) || undefined,
				placeholder: el.placeholder || undefined,
				name: el.getAttribute('name') || undefined,
				id: el.id || undefined,
			});
		});
	}
	return out.slice(0, 150);
}`

const navigationJS = `() => {
	const out = [];
	const seen = new Set();
	document.querySelectorAll('nav a[href], header a[href], [role="navigation"] a[href]').forEach(el => {
		if (!el.offsetParent) return;
		const href = el.getAttribute('href');
		if (href === '#' || href.startsWith('javascript:') || seen.has(href)) return;
		seen.add(href);
		out.push({
			selector: el.id ? '#' + el.id : 'a[href="' + href.replace(/"/g, '\\"') + '"]',
			text: (el.textContent || '').trim().slice(0, 30),
			href,
		});
	});
	return out;
}`
