package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"mediaforge/internal/imageedit"
)

func newTemplateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "template <name> [output]",
		Short: "Render a blank design template",
		Long: "Render a blank design template. Unknown names render the default template.\n" +
			"The output defaults to <output_dir>/template_<name>.png.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			tmpl, found := imageedit.LookupTemplate(args[0])
			out := cmd.OutOrStdout()
			if !found {
				fmt.Fprintf(cmd.ErrOrStderr(), "unknown template %q; using %q\n", args[0], tmpl.Name)
			}

			output := filepath.Join(cfg.Paths.OutputDir, "template_"+tmpl.Name+".png")
			if len(args) == 2 {
				output = expandInput(args[1])
			}
			fallback := imageedit.Fallback{
				JPEGQuality: cfg.Image.FallbackJPEGQuality,
				WebPQuality: cfg.Image.WebPQuality,
			}
			rendered, err := fallback.RenderTemplate(tmpl.Name, output)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Rendered %s (%dx%d) to %s\n", rendered.Name, rendered.Width, rendered.Height, output)
			return nil
		},
	}
}
