package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediaforge/internal/media/ffprobe"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "probe <file>",
		Short: "Inspect a media file with ffprobe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			prober := ffprobe.New(cfg.Tools.FFprobe, cfg.ProbeTimeout())
			info, err := prober.Probe(cmd.Context(), expandInput(args[0]))
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, info)
			}

			out := cmd.OutOrStdout()
			rows := [][]string{
				{"Duration", fmt.Sprintf("%.2fs", info.DurationSeconds)},
				{"Size", fmt.Sprintf("%d bytes", info.SizeBytes)},
				{"Bitrate", fmt.Sprintf("%d bps", info.BitrateBps)},
			}
			if info.Video != nil {
				rows = append(rows, []string{"Video", fmt.Sprintf("%s %dx%d", info.Video.CodecName, info.Video.Width, info.Video.Height)})
			} else {
				rows = append(rows, []string{"Video", "none"})
			}
			if info.Audio != nil {
				rows = append(rows, []string{"Audio", info.Audio.CodecName})
			} else {
				rows = append(rows, []string{"Audio", "none"})
			}
			fmt.Fprintln(out, renderTable(out, []string{"Field", "Value"}, rows, nil))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
