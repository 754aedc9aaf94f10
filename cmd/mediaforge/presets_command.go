package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mediaforge/internal/batch"
	"mediaforge/internal/imageedit"
	"mediaforge/internal/operations"
)

func newPresetsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List target-format presets and design templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			table := batch.PresetsFromConfig(cfg)
			_, defaultFound := table.Lookup(cfg.Batch.DefaultPreset)
			fallback, _ := table.Lookup("")

			rows := make([][]string, 0)
			for _, name := range table.Names() {
				p, _ := table.Lookup(name)
				marker := ""
				if name == fallback.Name {
					marker = "*"
				}
				rows = append(rows, []string{
					name + marker,
					displayLabel(name),
					joinOrDash(p.VideoTags, ", "),
					joinOrDash(p.ImageTags, ", "),
					longVideoLabel(p),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out, []string{"Preset", "Label", "Video tags", "Image tags", "Long video"}, rows, nil))
			if !defaultFound {
				fmt.Fprintf(out, "batch.default_preset %q is unknown; unknown names use %q\n", cfg.Batch.DefaultPreset, fallback.Name)
			} else {
				fmt.Fprintln(out, "* default for unknown preset names")
			}
			fmt.Fprintf(out, "Templates: %s\n", strings.Join(imageedit.TemplateNames(), ", "))
			return nil
		},
	}
}

func longVideoLabel(p operations.Preset) string {
	if p.LongVideoSeconds <= 0 || len(p.LongVideoTags) == 0 {
		return "-"
	}
	return fmt.Sprintf(">%gs: %s", p.LongVideoSeconds, strings.Join(p.LongVideoTags, ", "))
}
