package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediaforge/internal/imageedit"
	"mediaforge/internal/preflight"
	"mediaforge/internal/vdisplay"
)

type depsOutput struct {
	Checks  []preflight.Result     `json:"checks"`
	Display preflight.DisplayProbe `json:"display"`
}

func newDepsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Check external tools and directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := ctx.configAndLogger()
			if err != nil {
				return err
			}

			display := vdisplay.NewManager(vdisplay.Options{
				Binary:   cfg.Tools.Xvfb,
				Display:  cfg.Image.Display,
				Screen:   cfg.Image.Screen,
				LockPath: cfg.DisplayLockPath(),
			}, logger)
			defer display.Close()
			images := imageedit.NewExecutor(cfg, display, logger)
			defer images.Close()

			results := preflight.RunAll(cmd.Context(), cfg)
			results = append(results, preflight.CheckPrimaryImage(cmd.Context(), cfg, images))
			probe := preflight.ProbeDisplay(cmd.Context(), cfg, nil)

			if jsonOutput {
				if err := writeJSON(cmd, depsOutput{Checks: results, Display: probe}); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				rows := make([][]string, 0, len(results)+1)
				for _, r := range results {
					rows = append(rows, []string{r.Name, checkState(r), yesNo(!r.Optional), r.Detail})
				}
				if cfg.Image.PrimaryEnabled {
					rows = append(rows, []string{"Virtual display", "info", "no", probe.Detail()})
				}
				fmt.Fprintln(out, renderTable(out, []string{"Check", "State", "Required", "Detail"}, rows, nil))
			}

			if blocking := preflight.Blocking(results); len(blocking) > 0 {
				return fmt.Errorf("%d required check(s) failed", len(blocking))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func checkState(r preflight.Result) string {
	switch {
	case r.Passed:
		return "ok"
	case r.Optional:
		return "missing"
	default:
		return "FAIL"
	}
}
