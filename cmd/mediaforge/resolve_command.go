package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mediaforge/internal/batch"
	"mediaforge/internal/encoding"
	"mediaforge/internal/imageedit"
	"mediaforge/internal/operations"
)

type resolveOutput struct {
	Kind        operations.MediaKind `json:"kind"`
	Label       string               `json:"label"`
	Stages      []string             `json:"stages"`
	Compress    bool                 `json:"compress,omitempty"`
	VideoFilter string               `json:"video_filter,omitempty"`
	AudioFilter string               `json:"audio_filter,omitempty"`
	Muted       bool                 `json:"muted,omitempty"`
	BridgeOps   []string             `json:"bridge_ops,omitempty"`
}

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var flags intentFlags
	var strict bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "resolve <file|video|image>",
		Short: "Show the filter chain a request resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			kind := operations.MediaKind(strings.ToLower(args[0]))
			if kind != operations.KindVideo && kind != operations.KindImage {
				kind = operations.DetectKind(args[0])
			}

			intent, err := flags.build(batch.PresetsFromConfig(cfg), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			resolver := operations.Resolver{Strict: strict || cfg.Batch.StrictTags}
			chain, err := resolver.Resolve(intent.For(kind), kind)
			if err != nil {
				return err
			}

			res := resolveOutput{Kind: kind, Label: intent.Label, Stages: chain.Names(), Compress: chain.Compress}
			if kind == operations.KindVideo {
				if res.VideoFilter, err = encoding.VideoFilter(chain); err != nil {
					return err
				}
				res.AudioFilter = encoding.AudioFilter(chain)
				res.Muted = chain.Muted()
			} else {
				if res.BridgeOps, err = imageedit.BridgeOps(chain); err != nil {
					return err
				}
			}
			if jsonOutput {
				return writeJSON(cmd, res)
			}

			out := cmd.OutOrStdout()
			rows := [][]string{
				{"Kind", string(res.Kind)},
				{"Label", res.Label},
				{"Stages", joinOrDash(res.Stages, " -> ")},
			}
			if kind == operations.KindVideo {
				audio := res.AudioFilter
				if res.Muted {
					audio = "(muted)"
				}
				rows = append(rows,
					[]string{"Compress", yesNo(res.Compress)},
					[]string{"-vf", orDash(res.VideoFilter)},
					[]string{"-af", orDash(audio)},
				)
			} else {
				rows = append(rows, []string{"Bridge ops", joinOrDash(res.BridgeOps, " ")})
			}
			fmt.Fprintln(out, renderTable(out, []string{"Field", "Value"}, rows, nil))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&strict, "strict", false, "Reject tags no media kind recognizes")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func joinOrDash(items []string, sep string) string {
	return orDash(strings.Join(items, sep))
}
