package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"mediaforge/internal/operations"
)

// intentFlags collects the flags that select what a batch does.
type intentFlags struct {
	preset string
	tags   []string
	props  []string
	label  string
}

func (f *intentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.preset, "preset", "p", "", "Target-format preset (web, social, presentation, mobile, or a configured one)")
	cmd.Flags().StringSliceVarP(&f.tags, "tag", "t", nil, "Operation tag; repeat or comma-separate. Overrides --preset")
	cmd.Flags().StringArrayVar(&f.props, "prop", nil, "Request property as key=value (e.g. target_size_mb=8, fps=30)")
	cmd.Flags().StringVar(&f.label, "label", "", "Output label for --tag requests (default \"custom\")")
}

// build turns the flags into an Intent. Explicit tags win over a preset. An
// unknown preset name resolves to the default entry with a notice on warn.
func (f *intentFlags) build(presets operations.PresetTable, warn io.Writer) (operations.Intent, error) {
	if len(f.tags) > 0 {
		req := operations.NewRequest(f.tags...)
		if err := req.ParseProps(f.props); err != nil {
			return operations.Intent{}, err
		}
		return operations.CustomIntent(f.label, req), nil
	}

	preset, found := presets.Lookup(f.preset)
	if !found && strings.TrimSpace(f.preset) != "" && warn != nil {
		fmt.Fprintf(warn, "unknown preset %q; using %q\n", f.preset, preset.Name)
	}
	intent := preset.Intent(nil)
	if err := intent.Video.ParseProps(f.props); err != nil {
		return operations.Intent{}, err
	}
	if err := intent.Image.ParseProps(f.props); err != nil {
		return operations.Intent{}, err
	}
	return intent, nil
}

func displayLabel(label string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(label, "_", " "))
}
