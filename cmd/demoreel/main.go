package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/v0xg/demoreel/internal/config"
	"github.com/v0xg/demoreel/internal/demo"
	"github.com/v0xg/demoreel/internal/humanize"
	"github.com/v0xg/demoreel/internal/observability"
	"go.uber.org/zap"
)

// app carries what every subcommand needs once the root has loaded config.
type app struct {
	cfgFile string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	// Load .env file if present (silently ignore if not found)
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	observability.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "demoreel",
		Short: "Record scripted, humanized demo videos of web apps",
		Long: `demoreel replays a demo file of beats against a real browser, moving the
cursor like a person would, drawing overlays, and assembles the capture
into an MP4 with voice-over or a GIF.

Example:
  demoreel generate https://myapp.com "sign up and create a project" --out signup.yaml
  demoreel plan signup.yaml
  demoreel record signup.yaml --output signup.mp4`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./demoreel.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Show detailed progress")

	rootCmd.AddCommand(newPlanCmd(a), newRecordCmd(a), newGenerateCmd(a))
	return rootCmd
}

func (a *app) init() error {
	v, err := loadViper(a.cfgFile)
	if err != nil {
		return err
	}
	if a.verbose {
		v.Set("logger.level", "debug")
	}

	cfg, err := config.NewConfigFromViper(v)
	if err != nil {
		observability.InitializeLogger(config.NewDefaultConfig().Logger)
		return err
	}
	observability.InitializeLogger(cfg.Logger)

	a.cfg = cfg
	a.logger = observability.GetLogger()
	return nil
}

// loadViper reads the config file, if any, and the DEMOREEL_ environment.
func loadViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	config.SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("demoreel")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return v, nil
}

// viewport prefers the demo's own viewport over the configured one.
func (a *app) viewport(d *demo.Demo) (int, int) {
	if d != nil && d.Viewport != nil {
		return d.Viewport.Width, d.Viewport.Height
	}
	return a.cfg.Browser.Width, a.cfg.Browser.Height
}

// source returns a seeded random source. Zero seeds from the clock.
func source(seed int64) humanize.Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return humanize.NewSource(seed)
}

// readDemo loads a demo file and reports instructions that will be dropped.
func (a *app) readDemo(path string) (*demo.Demo, error) {
	d, err := demo.Read(path)
	if err != nil {
		return nil, err
	}
	for _, issue := range d.Lint() {
		a.logger.Warn("Instruction will be skipped", zap.String("issue", issue.String()))
	}
	return d, nil
}
