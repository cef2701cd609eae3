package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/v0xg/demoreel/internal/geom"
	"github.com/v0xg/demoreel/internal/humanize"
	"github.com/v0xg/demoreel/internal/script"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 1280, cfg.Browser.Width)
	assert.Equal(t, 720, cfg.Browser.Height)
	assert.Equal(t, 20, cfg.Browser.FPS)
	assert.Equal(t, 30*time.Second, cfg.Browser.Timeout)
	assert.Equal(t, FormatMP4, cfg.Output.Format)
	assert.Equal(t, "claude", cfg.AI.Provider)
	assert.Equal(t, 60, cfg.Overlay.MinMargin)
	assert.Equal(t, 500.0, cfg.Humanize.SettleMs["click"])
}

func TestHumanizerConfig_MatchesPackageDefaults(t *testing.T) {
	cfg := NewDefaultConfig()
	got, err := cfg.Humanize.HumanizerConfig(1280, 720)
	require.NoError(t, err)
	assert.Equal(t, humanize.DefaultConfig(), got)
}

func TestHumanizerConfig_Origin(t *testing.T) {
	h := NewDefaultConfig().Humanize

	h.Origin = "none"
	got, err := h.HumanizerConfig(1920, 1080)
	require.NoError(t, err)
	assert.Nil(t, got.Origin)

	h.Origin = "center"
	got, err = h.HumanizerConfig(1920, 1080)
	require.NoError(t, err)
	assert.Equal(t, geom.Pt(960, 540), *got.Origin)

	h.Origin = " 10 , 20 "
	got, err = h.HumanizerConfig(1920, 1080)
	require.NoError(t, err)
	assert.Equal(t, geom.Pt(10, 20), *got.Origin)

	h.Origin = "top"
	_, err = h.HumanizerConfig(1920, 1080)
	assert.Error(t, err)

	h.Origin = "1,x"
	_, err = h.HumanizerConfig(1920, 1080)
	assert.Error(t, err)
}

func TestHumanizerConfig_SettleKinds(t *testing.T) {
	h := NewDefaultConfig().Humanize
	h.SettleMs = map[string]float64{"goto": 900, "MouseMove": 50}

	got, err := h.HumanizerConfig(1280, 720)
	require.NoError(t, err)
	assert.Equal(t, map[script.Kind]float64{script.KindGoto: 900, script.KindMouseMove: 50}, got.SettleMs)

	h.SettleMs = map[string]float64{"teleport": 1}
	_, err = h.HumanizerConfig(1280, 720)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"zero width", func(c *Config) { c.Browser.Width = 0 }, "viewport"},
		{"fps too high", func(c *Config) { c.Browser.FPS = 120 }, "fps"},
		{"bad origin", func(c *Config) { c.Humanize.Origin = "somewhere" }, "origin"},
		{"path bounds", func(c *Config) { c.Humanize.MaxPathMs = 10 }, "max_path_ms"},
		{"settle kind", func(c *Config) { c.Humanize.SettleMs = map[string]float64{"jump": 1} }, "settle_ms"},
		{"margin ratio", func(c *Config) { c.Overlay.MarginRatio = 0.6 }, "margin"},
		{"format", func(c *Config) { c.Output.Format = "webm" }, "output.format"},
		{"workers", func(c *Config) { c.Output.Workers = 0 }, "workers"},
		{"speed", func(c *Config) { c.Narration.Speed = 9 }, "speed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	cfg := NewDefaultConfig()
	cfg.Narration.Enabled = false
	cfg.Narration.Speed = 0
	assert.NoError(t, cfg.Validate(), "speed is ignored when narration is off")
}

func TestNewConfigFromViper_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demoreel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
browser:
  width: 1920
  height: 1080
  fps: 30
output:
  format: gif
humanize:
  origin: none
`), 0o644))

	t.Setenv("DEMOREEL_BROWSER_FPS", "24")
	t.Setenv("OPENAI_API_KEY", "sk-fallback")

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	require.NoError(t, v.ReadInConfig())

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 1920, cfg.Browser.Width)
	assert.Equal(t, 24, cfg.Browser.FPS, "environment overrides the file")
	assert.Equal(t, FormatGIF, cfg.Output.Format)
	assert.Equal(t, "none", cfg.Humanize.Origin)
	assert.Equal(t, "sk-fallback", cfg.AI.OpenAIKey)
	assert.Equal(t, "sk-fallback", cfg.Narration.APIKey)
}

func TestNewConfigFromViper_Invalid(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("output.format", "avi")

	_, err := NewConfigFromViper(v)
	assert.ErrorContains(t, err, "invalid configuration")
}
