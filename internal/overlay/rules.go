package overlay

// rule holds the fixed styling of one overlay kind.
type rule struct {
	size        Size
	position    Position
	background  string
	border      string
	textColor   string
	fontSize    int
	animationMs int
}

const (
	darkGlass  = "rgba(15,23,42,0.9)"
	lightGlass = "rgba(255,255,255,0.96)"
	white      = "#ffffff"
	ink        = "#0f172a"
)

// Accent colours for status overlays.
const (
	AccentEmergency = "#dc2626"
	AccentWarning   = "#f59e0b"
	AccentSuccess   = "#16a34a"
)

var rules = map[Kind]rule{
	KindTitle: {
		size: Size{960, 140}, position: PositionCenter,
		background: "linear-gradient(135deg, rgba(15,23,42,0.94), rgba(49,46,129,0.94))",
		border:     "4px solid #6366f1", textColor: white, fontSize: 48, animationMs: 600,
	},
	KindSubtitle: {
		size: Size{800, 80}, position: PositionBottom,
		background: "rgba(15,23,42,0.85)", border: "2px solid #94a3b8",
		textColor: white, fontSize: 28, animationMs: 400,
	},
	KindCallout: {
		size: Size{420, 120}, position: PositionTopRight,
		background: lightGlass, border: "3px solid #f59e0b",
		textColor: ink, fontSize: 22, animationMs: 300,
	},
	KindBadge: {
		size: Size{180, 48}, position: PositionTopRight,
		background: "#6366f1", border: "2px solid #4338ca",
		textColor: white, fontSize: 18, animationMs: 250,
	},
	KindChip: {
		size: Size{220, 40}, position: PositionBottomLeft,
		background: "rgba(30,41,59,0.9)", border: "1px solid #64748b",
		textColor: white, fontSize: 16, animationMs: 250,
	},
	KindStatus: {
		size: Size{360, 64}, position: PositionTopLeft,
		background: darkGlass, border: "4px solid " + AccentSuccess,
		textColor: white, fontSize: 20, animationMs: 300,
	},
	KindPanel: {
		size: Size{480, 360}, position: PositionRight,
		background: lightGlass, border: "1px solid #e2e8f0",
		textColor: ink, fontSize: 18, animationMs: 400,
	},
	KindLabel: {
		size: Size{240, 44}, position: PositionTop,
		background: "rgba(0,0,0,0.75)", border: "1px solid rgba(255,255,255,0.2)",
		textColor: white, fontSize: 16, animationMs: 200,
	},
	KindCard: {
		size: Size{400, 240}, position: PositionCenter,
		background: white, border: "1px solid #cbd5e1",
		textColor: ink, fontSize: 20, animationMs: 400,
	},
	KindImage: {
		size: Size{800, 450}, position: PositionCenter,
		background: "transparent", border: "2px solid #e2e8f0",
		textColor: ink, fontSize: 0, animationMs: 500,
	},
	KindFullscreen: {
		// Clamped to the safe area by the builder.
		size: Size{1 << 16, 1 << 16}, position: PositionCenter,
		background: "rgba(2,6,23,0.95)", border: "none",
		textColor: white, fontSize: 56, animationMs: 600,
	},
	KindLowerThird: {
		size: Size{720, 110}, position: PositionBottomLeft,
		background: "linear-gradient(90deg, rgba(15,23,42,0.95), rgba(15,23,42,0.6))",
		border:     "6px solid #22d3ee", textColor: white, fontSize: 26, animationMs: 500,
	},
	KindGeneric: {
		size: Size{400, 80}, position: PositionCenter,
		background: "rgba(0,0,0,0.8)", border: "1px solid #ffffff",
		textColor: white, fontSize: 20, animationMs: 300,
	},
}

func ruleFor(kind Kind) rule {
	if r, ok := rules[kind]; ok {
		return r
	}
	return rules[KindGeneric]
}
