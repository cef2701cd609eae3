package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"github.com/v0xg/demoreel/internal/browser"
	"github.com/v0xg/demoreel/internal/config"
	"github.com/v0xg/demoreel/internal/encode"
	"github.com/v0xg/demoreel/internal/executor"
	"github.com/v0xg/demoreel/internal/geom"
	"github.com/v0xg/demoreel/internal/narration"
	"github.com/v0xg/demoreel/internal/recorder"
	"go.uber.org/zap"
)

type recordFlags struct {
	output      string
	format      string
	noCursor    bool
	noNarration bool
	seed        int64
}

func newRecordCmd(a *app) *cobra.Command {
	f := &recordFlags{}

	cmd := &cobra.Command{
		Use:   "record <demo.yaml>",
		Short: "Replay a demo in the browser and write the video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("seed") {
				f.seed = a.cfg.Humanize.Seed
			}
			return a.record(cmd, args[0], f)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output file (default <output.dir>/<demo name>.<format>)")
	cmd.Flags().StringVar(&f.format, "format", "", "Output format: mp4 or gif (default from config)")
	cmd.Flags().BoolVar(&f.noCursor, "no-cursor", false, "Disable cursor overlay")
	cmd.Flags().BoolVar(&f.noNarration, "no-narration", false, "Skip voice-over synthesis")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "Random seed for humanization (0 uses the clock)")
	return cmd
}

func (a *app) record(cmd *cobra.Command, path string, f *recordFlags) error {
	ctx := cmd.Context()
	cfg := a.cfg
	logger := a.logger

	d, err := a.readDemo(path)
	if err != nil {
		return err
	}

	format := strings.ToLower(f.format)
	if format == "" {
		format = cfg.Output.Format
	}
	out := f.output
	if out == "" {
		out = filepath.Join(cfg.Output.Dir, slug(d.Name, path)+"."+format)
	}

	planner, err := a.planner(d, f.seed)
	if err != nil {
		return err
	}
	w, h := a.viewport(d)

	b, err := browser.Launch(ctx, browser.Options{
		Width:      w,
		Height:     h,
		Headless:   cfg.Browser.Headless,
		ProfileDir: cfg.Browser.ProfileDir,
		Bin:        cfg.Browser.Bin,
		Timeout:    cfg.Browser.Timeout,
	}, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	deps := recorder.Deps{
		Driver:  b,
		Planner: planner,
		Executor: executor.Options{
			FPS:    cfg.Browser.FPS,
			Origin: geom.Pt(float64(w)/2, float64(h)/2),
		},
	}

	if format == config.FormatMP4 {
		enc, err := encode.New(os.TempDir(), encode.Options{
			FPS:     cfg.Browser.FPS,
			Preset:  cfg.Output.Preset,
			CRF:     cfg.Output.CRF,
			Workers: cfg.Output.Workers,
		}, logger)
		if err != nil {
			return err
		}
		if cfg.Output.KeepFrames {
			logger.Info("Keeping intermediate files", zap.String("dir", enc.WorkDir()))
		} else {
			defer enc.Cleanup()
		}
		deps.Assembler = enc

		if cfg.Narration.Enabled && !f.noNarration {
			deps.Narrator = a.narrator()
		}
	}

	rec, err := recorder.New(recorder.Options{
		Format:      format,
		DrawCursor:  cfg.Output.Cursor && !f.noCursor,
		FPS:         cfg.Browser.FPS,
		GifMaxWidth: uint(cfg.Output.GifMaxWidth),
		Workers:     cfg.Output.Workers,
	}, deps, logger)
	if err != nil {
		return err
	}

	report, err := rec.Record(ctx, d, out)
	if err != nil {
		return err
	}
	printReport(cmd, report)
	return nil
}

// narrator returns nil, with a warning, when no speech key is configured.
func (a *app) narrator() recorder.Narrator {
	synth, err := narration.NewOpenAISynthesizer(narration.OpenAISettings{
		APIKey: a.cfg.Narration.APIKey,
		Model:  a.cfg.Narration.Model,
		Voice:  a.cfg.Narration.Voice,
		Speed:  a.cfg.Narration.Speed,
	})
	if err != nil {
		a.logger.Warn("Narration disabled", zap.Error(err))
		return nil
	}
	return narration.NewNarrator(synth, a.cfg.Narration.Concurrency, a.logger)
}

func printReport(cmd *cobra.Command, r *recorder.Report) {
	w := cmd.OutOrStdout()
	for _, b := range r.Beats {
		status := "ok"
		if b.Failed > 0 || b.Dropped > 0 {
			status = fmt.Sprintf("%d failed, %d dropped", b.Failed, b.Dropped)
		}
		voice := ""
		if b.Narrated {
			voice = ", narrated"
		}
		fmt.Fprintf(w, "  %-20s %4d frames  %5.1fs%s  %s\n", b.Name, b.Frames, b.DurationMs/1000, voice, status)
	}
	fmt.Fprintf(w, "✓ Saved to %s (%s)\n", r.Output, humanSize(r.Bytes))
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// slug names the output after the demo, falling back to the demo file name.
func slug(name, path string) string {
	s := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if s != "" {
		return s
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
