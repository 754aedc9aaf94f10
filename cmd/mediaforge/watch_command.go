package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mediaforge/internal/batch"
	"mediaforge/internal/config"
	"mediaforge/internal/jobs"
	"mediaforge/internal/preflight"
	"mediaforge/internal/watcher"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var flags intentFlags
	var outputDir string
	var settle time.Duration

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Process new media files as they appear in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := ctx.configAndLogger()
			if err != nil {
				return err
			}
			if strings.TrimSpace(outputDir) != "" {
				expanded, err := config.ExpandPath(outputDir)
				if err != nil {
					return fmt.Errorf("resolve output dir: %w", err)
				}
				cfg.Paths.OutputDir = expanded
				if err := cfg.EnsureDirectories(); err != nil {
					return err
				}
			}
			if blocking := preflight.Blocking(preflight.RunAll(cmd.Context(), cfg)); len(blocking) > 0 {
				return fmt.Errorf("preflight failed: %s: %s", blocking[0].Name, blocking[0].Detail)
			}

			rt, err := batch.NewRuntime(cfg, logger)
			if err != nil {
				return err
			}
			defer rt.Close()

			if strings.TrimSpace(flags.preset) == "" && len(flags.tags) == 0 {
				flags.preset = cfg.Batch.DefaultPreset
			}
			intent, err := flags.build(rt.Presets, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			out := cmd.OutOrStdout()
			w := &watcher.Watcher{
				Dir:    expandInput(args[0]),
				Intent: intent,
				Runner: rt,
				Settle: settle,
				Logger: logger,
				OnResult: func(result jobs.BatchResult) {
					item := result.Items[0]
					fmt.Fprintf(out, "%s -> %s [%s]\n", item.InputPath, itemDetail(item.Result), itemStatus(item.Result))
				},
			}
			fmt.Fprintf(out, "Watching %s with %s (Ctrl-C to stop)\n", w.Dir, displayLabel(intent.Label))
			return w.Watch(signalCtx)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default paths.output_dir)")
	cmd.Flags().DurationVar(&settle, "settle", watcher.DefaultSettle, "Quiet period before a new file is processed")
	return cmd
}
