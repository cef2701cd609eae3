package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/v0xg/demoreel/internal/demo"
	"github.com/v0xg/demoreel/internal/overlay"
	"github.com/v0xg/demoreel/internal/recorder"
)

func newPlanCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		seed   int64
	)

	cmd := &cobra.Command{
		Use:   "plan <demo.yaml>",
		Short: "Show the humanized actions and overlays without recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.readDemo(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				seed = a.cfg.Humanize.Seed
			}

			plans, err := a.plan(d, seed)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(plans)
			}
			printPlan(cmd.OutOrStdout(), d, plans)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the plan as JSON")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed for humanization (0 uses the clock)")
	return cmd
}

func (a *app) plan(d *demo.Demo, seed int64) ([]recorder.BeatPlan, error) {
	planner, err := a.planner(d, seed)
	if err != nil {
		return nil, err
	}
	return planner.PlanDemo(d), nil
}

func (a *app) planner(d *demo.Demo, seed int64) (*recorder.Planner, error) {
	w, h := a.viewport(d)
	hcfg, err := a.cfg.Humanize.HumanizerConfig(w, h)
	if err != nil {
		return nil, err
	}
	builder := overlay.NewBuilder(w, h, a.cfg.Overlay.OverlayOptions(), a.logger)
	return recorder.NewPlanner(hcfg, source(seed), builder, a.logger), nil
}

func printPlan(w io.Writer, d *demo.Demo, plans []recorder.BeatPlan) {
	fmt.Fprintf(w, "%s (%s), %d beats\n", d.Name, d.URL, len(plans))
	for _, bp := range plans {
		fmt.Fprintf(w, "\n== %s (~%.1fs)\n", bp.Name, bp.EstimatedMs()/1000)
		for _, a := range bp.Plan.Actions {
			marker := " "
			if a.Synthetic {
				marker = "+"
			}
			line := fmt.Sprintf("  %s %-36s", marker, a.String())
			if a.DurationMs > 0 {
				line += fmt.Sprintf(" %6.0fms", a.DurationMs)
			}
			if a.Comment != "" {
				line += "  " + a.Comment
			}
			fmt.Fprintln(w, strings.TrimRight(line, " "))
		}
		for _, o := range bp.Plan.Overlays {
			fmt.Fprintf(w, "  # overlay %s at %s (%d,%d) %dx%d, %s\n",
				o.Kind, o.Position, o.X, o.Y, o.Width, o.Height, o.Animation.Type)
		}
		if bp.Plan.HoldMs > 0 {
			fmt.Fprintf(w, "  hold %dms\n", bp.Plan.HoldMs)
		}
		if bp.Narration != "" {
			fmt.Fprintf(w, "  narration: %q\n", bp.Narration)
		}
		for _, raw := range bp.Dropped {
			fmt.Fprintf(w, "  ! dropped %q\n", raw)
		}
	}
}
