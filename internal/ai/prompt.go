package ai

import (
	"encoding/json"
	"fmt"
)

const defaultMaxTokens = 2048

const systemPrompt = `You write scripted product demos for web applications. The demo is replayed by a recorder that moves a visible cursor, clicks, scrolls and shows overlays on top of the page while a narrator reads a voice-over.

You will receive:
1. A page map with the URL, title, headings and the interactive elements of the page (each with a CSS selector)
2. A brief describing what the demo should show

Output a single JSON object:
{
  "name": "short demo title",
  "beats": [
    {"label": "intro", "narration": "one or two spoken sentences", "instructions": ["..."], "holdMs": 800}
  ]
}

Each instruction is one string in this language:
- click(selector)            click an element from the page map
- mouseClick(x,y)            click a viewport coordinate
- mouseMove(x,y)             move the cursor
- mouseDrag(x1,y1,x2,y2)     press, drag and release
- wheel(delta)               scroll vertically by delta pixels (positive scrolls down)
- wait(ms)                   pause
- goto(url)                  navigate
- waitForSelector(selector)  wait until an element appears
- overlay(type[@position]:text,animation,displayMs)

Overlay types: title, subtitle, callout, badge, chip, status, panel, label, card, image, fullscreen, lowerThird.
Positions: center, top-left, top-right, bottom-left, bottom-right, left, right, top, bottom.
Animations: fade_in, fade_out, slide_in, slide_out, scale_in, scale_out.
Callouts show at most ten words. A status text containing "high" or "medium" is coloured as a risk level.

Guidelines:
- Use only selectors from the page map; do not guess selectors for content that is not on the page yet
- After a click that changes the page, add waitForSelector or a wait of 800-1500ms before using new elements
- Open with a title overlay and keep narration in step with what is on screen
- Keep the demo between 3 and 8 beats
- Do not type secrets or submit destructive actions

Respond ONLY with the JSON object, no explanation or markdown.`

func buildUserPrompt(pageMapJSON string, brief string) string {
	return "Page map:\n" + pageMapJSON + "\n\nDemo brief: " + brief
}

func marshalPageMap(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal page map: %w", err)
	}
	return string(data), nil
}
