// Package config loads demoreel settings from defaults, demoreel.yaml and
// DEMOREEL_* environment variables through viper.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/v0xg/demoreel/internal/geom"
	"github.com/v0xg/demoreel/internal/humanize"
	"github.com/v0xg/demoreel/internal/overlay"
	"github.com/v0xg/demoreel/internal/script"
)

// EnvPrefix is prepended to every environment override, with dots in the
// key replaced by underscores: DEMOREEL_BROWSER_FPS.
const EnvPrefix = "DEMOREEL"

// Config is the full application configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	Browser   BrowserConfig   `mapstructure:"browser" yaml:"browser"`
	Humanize  HumanizeConfig  `mapstructure:"humanize" yaml:"humanize"`
	Overlay   OverlayConfig   `mapstructure:"overlay" yaml:"overlay"`
	Narration NarrationConfig `mapstructure:"narration" yaml:"narration"`
	Output    OutputConfig    `mapstructure:"output" yaml:"output"`
	AI        AIConfig        `mapstructure:"ai" yaml:"ai"`
}

// LoggerConfig configures zap and the optional rotated log file.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig maps log levels to terminal colour names.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// BrowserConfig configures the recording browser.
type BrowserConfig struct {
	Headless   bool          `mapstructure:"headless" yaml:"headless"`
	Width      int           `mapstructure:"width" yaml:"width"`
	Height     int           `mapstructure:"height" yaml:"height"`
	ProfileDir string        `mapstructure:"profile_dir" yaml:"profile_dir"`
	Bin        string        `mapstructure:"bin" yaml:"bin"`
	FPS        int           `mapstructure:"fps" yaml:"fps"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// HumanizeConfig mirrors humanize.Config in file form.
type HumanizeConfig struct {
	// Origin is "center", "none" or "x,y".
	Origin             string             `mapstructure:"origin" yaml:"origin"`
	Seed               int64              `mapstructure:"seed" yaml:"seed"`
	HoverMs            float64            `mapstructure:"hover_ms" yaml:"hover_ms"`
	DeliberationMs     float64            `mapstructure:"deliberation_ms" yaml:"deliberation_ms"`
	TimingVarianceMs   float64            `mapstructure:"timing_variance_ms" yaml:"timing_variance_ms"`
	MinWaitMs          float64            `mapstructure:"min_wait_ms" yaml:"min_wait_ms"`
	SettleMs           map[string]float64 `mapstructure:"settle_ms" yaml:"settle_ms"`
	ShortPathThreshold float64            `mapstructure:"short_path_threshold" yaml:"short_path_threshold"`
	ShortPathJitter    float64            `mapstructure:"short_path_jitter" yaml:"short_path_jitter"`
	PointSpacing       float64            `mapstructure:"point_spacing" yaml:"point_spacing"`
	PathJitter         float64            `mapstructure:"path_jitter" yaml:"path_jitter"`
	PathMsPerPixel     float64            `mapstructure:"path_ms_per_pixel" yaml:"path_ms_per_pixel"`
	MinPathMs          float64            `mapstructure:"min_path_ms" yaml:"min_path_ms"`
	MaxPathMs          float64            `mapstructure:"max_path_ms" yaml:"max_path_ms"`
	PathVarianceMs     float64            `mapstructure:"path_variance_ms" yaml:"path_variance_ms"`
}

// OverlayConfig configures the safe area.
type OverlayConfig struct {
	MinMargin   int     `mapstructure:"min_margin" yaml:"min_margin"`
	MarginRatio float64 `mapstructure:"margin_ratio" yaml:"margin_ratio"`
}

// NarrationConfig configures text-to-speech.
type NarrationConfig struct {
	Enabled     bool    `mapstructure:"enabled" yaml:"enabled"`
	Model       string  `mapstructure:"model" yaml:"model"`
	Voice       string  `mapstructure:"voice" yaml:"voice"`
	Speed       float64 `mapstructure:"speed" yaml:"speed"`
	Concurrency int     `mapstructure:"concurrency" yaml:"concurrency"`
	APIKey      string  `mapstructure:"api_key" yaml:"-"`
}

// OutputConfig configures assembly.
type OutputConfig struct {
	Format      string `mapstructure:"format" yaml:"format"`
	Dir         string `mapstructure:"dir" yaml:"dir"`
	GifMaxWidth int    `mapstructure:"gif_max_width" yaml:"gif_max_width"`
	Preset      string `mapstructure:"preset" yaml:"preset"`
	CRF         int    `mapstructure:"crf" yaml:"crf"`
	Workers     int    `mapstructure:"workers" yaml:"workers"`
	KeepFrames  bool   `mapstructure:"keep_frames" yaml:"keep_frames"`
	Cursor      bool   `mapstructure:"cursor" yaml:"cursor"`
}

// AIConfig selects the demo authoring model.
type AIConfig struct {
	Provider     string `mapstructure:"provider" yaml:"provider"`
	Model        string `mapstructure:"model" yaml:"model"`
	MaxTokens    int    `mapstructure:"max_tokens" yaml:"max_tokens"`
	AnthropicKey string `mapstructure:"anthropic_key" yaml:"-"`
	OpenAIKey    string `mapstructure:"openai_key" yaml:"-"`
}

// Output formats.
const (
	FormatGIF = "gif"
	FormatMP4 = "mp4"
)

// NewDefaultConfig returns the configuration produced by SetDefaults alone.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config: defaults do not decode: %v", err))
	}
	return &cfg
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "demoreel")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.width", 1280)
	v.SetDefault("browser.height", 720)
	v.SetDefault("browser.profile_dir", "")
	v.SetDefault("browser.bin", "")
	v.SetDefault("browser.fps", 20)
	v.SetDefault("browser.timeout", "30s")

	h := humanize.DefaultConfig()
	v.SetDefault("humanize.origin", "center")
	v.SetDefault("humanize.seed", 0)
	v.SetDefault("humanize.hover_ms", h.HoverMs)
	v.SetDefault("humanize.deliberation_ms", h.DeliberationMs)
	v.SetDefault("humanize.timing_variance_ms", h.TimingVarianceMs)
	v.SetDefault("humanize.min_wait_ms", h.MinWaitMs)
	settle := make(map[string]float64, len(h.SettleMs))
	for k, ms := range h.SettleMs {
		settle[strings.ToLower(string(k))] = ms
	}
	v.SetDefault("humanize.settle_ms", settle)
	v.SetDefault("humanize.short_path_threshold", h.ShortPathThreshold)
	v.SetDefault("humanize.short_path_jitter", h.ShortPathJitter)
	v.SetDefault("humanize.point_spacing", h.PointSpacing)
	v.SetDefault("humanize.path_jitter", h.PathJitter)
	v.SetDefault("humanize.path_ms_per_pixel", h.PathMsPerPixel)
	v.SetDefault("humanize.min_path_ms", h.MinPathMs)
	v.SetDefault("humanize.max_path_ms", h.MaxPathMs)
	v.SetDefault("humanize.path_variance_ms", h.PathVarianceMs)

	v.SetDefault("overlay.min_margin", overlay.DefaultMinMargin)
	v.SetDefault("overlay.margin_ratio", overlay.DefaultMarginRatio)

	v.SetDefault("narration.enabled", true)
	v.SetDefault("narration.model", "tts-1")
	v.SetDefault("narration.voice", "alloy")
	v.SetDefault("narration.speed", 1.0)
	v.SetDefault("narration.concurrency", 3)
	v.SetDefault("narration.api_key", "")

	v.SetDefault("output.format", FormatMP4)
	v.SetDefault("output.dir", "out")
	v.SetDefault("output.gif_max_width", 800)
	v.SetDefault("output.preset", "medium")
	v.SetDefault("output.crf", 20)
	v.SetDefault("output.workers", 4)
	v.SetDefault("output.keep_frames", false)
	v.SetDefault("output.cursor", true)

	v.SetDefault("ai.provider", "claude")
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.max_tokens", 2048)
	v.SetDefault("ai.anthropic_key", "")
	v.SetDefault("ai.openai_key", "")
}

// NewConfigFromViper decodes and validates the configuration held by v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	// Vendor variables are honoured when the prefixed ones are unset.
	_ = v.BindEnv("ai.anthropic_key", EnvPrefix+"_AI_ANTHROPIC_KEY", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("ai.openai_key", EnvPrefix+"_AI_OPENAI_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("narration.api_key", EnvPrefix+"_NARRATION_API_KEY", "OPENAI_API_KEY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if c.Browser.Width <= 0 || c.Browser.Height <= 0 {
		return fmt.Errorf("browser viewport must be positive, got %dx%d", c.Browser.Width, c.Browser.Height)
	}
	if c.Browser.FPS <= 0 || c.Browser.FPS > 60 {
		return fmt.Errorf("browser.fps must be between 1 and 60, got %d", c.Browser.FPS)
	}
	if _, err := c.Humanize.origin(c.Browser.Width, c.Browser.Height); err != nil {
		return err
	}
	if c.Humanize.MaxPathMs < c.Humanize.MinPathMs {
		return errors.New("humanize.max_path_ms must not be below humanize.min_path_ms")
	}
	for kind := range c.Humanize.SettleMs {
		if _, ok := settleKinds[strings.ToLower(kind)]; !ok {
			return fmt.Errorf("humanize.settle_ms: unknown action %q", kind)
		}
	}
	if c.Overlay.MinMargin < 0 || c.Overlay.MarginRatio < 0 || c.Overlay.MarginRatio >= 0.5 {
		return errors.New("overlay margins must be non-negative and the ratio below 0.5")
	}
	switch c.Output.Format {
	case FormatGIF, FormatMP4:
	default:
		return fmt.Errorf("output.format must be %q or %q, got %q", FormatGIF, FormatMP4, c.Output.Format)
	}
	if c.Output.Workers <= 0 {
		return errors.New("output.workers must be a positive integer")
	}
	if c.Narration.Enabled && (c.Narration.Speed < 0.25 || c.Narration.Speed > 4) {
		return fmt.Errorf("narration.speed must be between 0.25 and 4, got %g", c.Narration.Speed)
	}
	return nil
}

// settleKinds maps lower-cased config keys to action kinds.
var settleKinds = map[string]script.Kind{
	"click":           script.KindClick,
	"mousemove":       script.KindMouseMove,
	"mousedrag":       script.KindMouseDrag,
	"wheel":           script.KindWheel,
	"wait":            script.KindWait,
	"goto":            script.KindGoto,
	"waitforselector": script.KindWaitForSelector,
	"screenshot":      script.KindScreenshot,
	"overlay":         script.KindOverlay,
}

// HumanizerConfig converts the file form for a viewport of the given size.
func (h HumanizeConfig) HumanizerConfig(width, height int) (humanize.Config, error) {
	origin, err := h.origin(width, height)
	if err != nil {
		return humanize.Config{}, err
	}
	settle := make(map[script.Kind]float64, len(h.SettleMs))
	for k, ms := range h.SettleMs {
		kind, ok := settleKinds[strings.ToLower(k)]
		if !ok {
			return humanize.Config{}, fmt.Errorf("humanize.settle_ms: unknown action %q", k)
		}
		settle[kind] = ms
	}
	return humanize.Config{
		Origin:             origin,
		HoverMs:            h.HoverMs,
		DeliberationMs:     h.DeliberationMs,
		TimingVarianceMs:   h.TimingVarianceMs,
		MinWaitMs:          h.MinWaitMs,
		SettleMs:           settle,
		ShortPathThreshold: h.ShortPathThreshold,
		ShortPathJitter:    h.ShortPathJitter,
		PointSpacing:       h.PointSpacing,
		PathJitter:         h.PathJitter,
		PathMsPerPixel:     h.PathMsPerPixel,
		MinPathMs:          h.MinPathMs,
		MaxPathMs:          h.MaxPathMs,
		PathVarianceMs:     h.PathVarianceMs,
	}, nil
}

func (h HumanizeConfig) origin(width, height int) (*geom.Point, error) {
	switch s := strings.ToLower(strings.TrimSpace(h.Origin)); s {
	case "", "center", "centre":
		p := geom.Pt(float64(width)/2, float64(height)/2)
		return &p, nil
	case "none":
		return nil, nil
	default:
		xs, ys, ok := strings.Cut(s, ",")
		if !ok {
			return nil, fmt.Errorf("humanize.origin must be center, none or x,y; got %q", h.Origin)
		}
		x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
		if errX != nil || errY != nil {
			return nil, fmt.Errorf("humanize.origin has a malformed coordinate: %q", h.Origin)
		}
		p := geom.Pt(x, y)
		return &p, nil
	}
}

// OverlayOptions converts to builder options.
func (o OverlayConfig) OverlayOptions() overlay.Options {
	return overlay.Options{MinMargin: o.MinMargin, MarginRatio: o.MarginRatio}
}
