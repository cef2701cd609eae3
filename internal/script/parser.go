// Package script parses the terse instruction language used in demo beats,
// e.g. click(#submit), mouseMove(300,400), wheel(-100), wait(500) and
// overlay(title:Welcome,fade_in,2000).
//
// Unrecognized or malformed instructions are not errors. Parse reports them
// with ok == false and callers drop them, so one bad line never stops a
// recording.
package script

import (
	"math"
	"strconv"
	"strings"

	"github.com/v0xg/demoreel/internal/geom"
)

type payloadParser func(payload string, fields []string) (Action, bool)

var parsers = map[string]payloadParser{
	"click":           parseClick,
	"mouseClick":      parseMouseClick,
	"mouseMove":       parseMouseMove,
	"mouseDrag":       parseMouseDrag,
	"wheel":           parseWheel,
	"wait":            parseWait,
	"goto":            parseGoto,
	"waitForSelector": parseWaitForSelector,
	"screenshot":      parseScreenshot,
	"overlay":         parseOverlayAction,
}

// Parse converts one instruction string into an Action.
func Parse(raw string) (Action, bool) {
	raw = strings.TrimSpace(raw)
	open := strings.IndexByte(raw, '(')
	if open <= 0 || !strings.HasSuffix(raw, ")") || len(raw) < open+2 {
		return Action{}, false
	}

	parse, known := parsers[raw[:open]]
	if !known {
		return Action{}, false
	}

	payload := strings.TrimSpace(raw[open+1 : len(raw)-1])
	return parse(payload, splitFields(payload))
}

// ParseAll parses instructions in order, dropping any that Parse rejects.
func ParseAll(raws []string) []Action {
	actions := make([]Action, 0, len(raws))
	for _, raw := range raws {
		if a, ok := Parse(raw); ok {
			actions = append(actions, a)
		}
	}
	return actions
}

func splitFields(payload string) []string {
	if payload == "" {
		return nil
	}
	fields := strings.Split(payload, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

func parseClick(payload string, fields []string) (Action, bool) {
	if payload == "" {
		return Action{}, false
	}
	if len(fields) == 2 {
		if p, ok := parsePoint(fields[0], fields[1]); ok {
			return Action{Kind: KindClick, At: &p}, true
		}
	}
	return Click(payload), true
}

func parseMouseClick(_ string, fields []string) (Action, bool) {
	if len(fields) != 2 {
		return Action{}, false
	}
	p, ok := parsePoint(fields[0], fields[1])
	if !ok {
		return Action{}, false
	}
	return Action{Kind: KindClick, At: &p}, true
}

func parseMouseMove(_ string, fields []string) (Action, bool) {
	if len(fields) != 2 {
		return Action{}, false
	}
	p, ok := parsePoint(fields[0], fields[1])
	if !ok {
		return Action{}, false
	}
	return Action{Kind: KindMouseMove, At: &p}, true
}

func parseMouseDrag(_ string, fields []string) (Action, bool) {
	if len(fields) != 4 {
		return Action{}, false
	}
	from, ok := parsePoint(fields[0], fields[1])
	if !ok {
		return Action{}, false
	}
	to, ok := parsePoint(fields[2], fields[3])
	if !ok {
		return Action{}, false
	}
	return MouseDrag(from, to), true
}

func parseWheel(_ string, fields []string) (Action, bool) {
	if len(fields) != 1 {
		return Action{}, false
	}
	delta, ok := parseNumber(fields[0])
	if !ok {
		return Action{}, false
	}
	return Wheel(int(math.Round(delta))), true
}

func parseWait(_ string, fields []string) (Action, bool) {
	if len(fields) != 1 {
		return Action{}, false
	}
	ms, ok := parseNumber(fields[0])
	if !ok || ms < 0 {
		return Action{}, false
	}
	return Wait(ms), true
}

func parseGoto(payload string, _ []string) (Action, bool) {
	if payload == "" {
		return Action{}, false
	}
	return Action{Kind: KindGoto, URL: payload}, true
}

func parseWaitForSelector(payload string, _ []string) (Action, bool) {
	if payload == "" {
		return Action{}, false
	}
	return Action{Kind: KindWaitForSelector, Selector: payload}, true
}

func parseScreenshot(payload string, _ []string) (Action, bool) {
	if payload == "" {
		return Action{}, false
	}
	return Action{Kind: KindScreenshot, Path: payload}, true
}

func parseOverlayAction(payload string, _ []string) (Action, bool) {
	if _, ok := ParseOverlay(payload); !ok {
		return Action{}, false
	}
	return Action{Kind: KindOverlay, Raw: payload}, true
}

func parsePoint(xs, ys string) (geom.Point, bool) {
	x, ok := parseNumber(xs)
	if !ok {
		return geom.Point{}, false
	}
	y, ok := parseNumber(ys)
	if !ok {
		return geom.Point{}, false
	}
	return geom.Pt(x, y), true
}

// parseNumber rejects anything that is not a finite decimal. A malformed
// number drops the whole instruction rather than defaulting to zero.
func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
