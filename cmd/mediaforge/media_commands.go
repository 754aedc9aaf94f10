package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediaforge/internal/encoding"
)

func newExtractAudioCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "extract-audio <input> <output>",
		Short: "Copy the audio track of a video into its own file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := ctx.configAndLogger()
			if err != nil {
				return err
			}
			executor := encoding.NewExecutor(cfg, logger)
			output := expandInput(args[1])
			if err := executor.ExtractAudio(cmd.Context(), expandInput(args[0]), output, cfg.ExtractAudioTimeout()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Audio written to %s\n", output)
			return nil
		},
	}
}

func newFramesCommand(ctx *commandContext) *cobra.Command {
	var fps float64

	cmd := &cobra.Command{
		Use:   "frames <pattern> <output>",
		Short: "Assemble an image sequence (e.g. frames/%04d.png) into a video",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := ctx.configAndLogger()
			if err != nil {
				return err
			}
			executor := encoding.NewExecutor(cfg, logger)
			output := expandInput(args[1])
			if err := executor.FramesToVideo(cmd.Context(), expandInput(args[0]), output, fps, cfg.FramesTimeout()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Video written to %s\n", output)
			return nil
		},
	}
	cmd.Flags().Float64Var(&fps, "fps", 24, "Frames per second")
	return cmd
}
