package main

import (
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"mediaforge/internal/batch"
	"mediaforge/internal/config"
	"mediaforge/internal/jobs"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags intentFlags
	var outputDir string
	var workers int
	var strict bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "run <file|dir>...",
		Short: "Process a batch of media files; directories contribute their media files",
		Args:  cobra.MinimumNArgs(1),
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
			}
			if cmd.Flags().Changed("workers") {
				if workers < 1 {
					return fmt.Errorf("--workers must be at least 1")
				}
				cfg.Batch.Workers = workers
			}
			if strict {
				cfg.Batch.StrictTags = true
			}

			rt, err := batch.NewRuntime(cfg, logger)
			if err != nil {
				return err
			}
			defer rt.Close()

			intent, err := flags.build(rt.Presets, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			inputs := make([]string, len(args))
			for i, arg := range args {
				inputs[i] = expandInput(arg)
			}
			inputs, err = batch.ExpandInputs(inputs)
			if err != nil {
				return err
			}
			if len(inputs) == 0 {
				return fmt.Errorf("no media files found in %s", strings.Join(args, ", "))
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			result, err := rt.Run(signalCtx, inputs, intent)
			if err != nil {
				return err
			}
			if jsonOutput {
				if err := writeJSON(cmd, batchJSON(result)); err != nil {
					return err
				}
			} else {
				printBatch(cmd.OutOrStdout(), result)
			}
			return batchError(result)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default paths.output_dir)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent jobs (default batch.workers)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Reject tags no media kind recognizes")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func expandInput(arg string) string {
	expanded, err := config.ExpandPath(arg)
	if err != nil {
		return arg
	}
	return expanded
}

type batchOutput struct {
	jobs.BatchResult
	Status    jobs.Status `json:"status"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}

func batchJSON(result jobs.BatchResult) batchOutput {
	return batchOutput{
		BatchResult: result,
		Status:      result.Status(),
		Succeeded:   result.Succeeded(),
		Failed:      result.Failed(),
	}
}

func batchError(result jobs.BatchResult) error {
	if failed := result.Failed(); failed > 0 {
		return fmt.Errorf("batch %s: %d of %d items failed", result.ID, failed, result.ProcessedCount)
	}
	return nil
}

func printBatch(out io.Writer, result jobs.BatchResult) {
	fmt.Fprintf(out, "%s batch %s: %s (%d/%d succeeded)\n",
		displayLabel(result.Label), result.ID, result.Status(), result.Succeeded(), result.ProcessedCount)
	if len(result.Items) == 0 {
		return
	}
	rows := make([][]string, 0, len(result.Items))
	for i, item := range result.Items {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			filepath.Base(item.InputPath),
			itemStatus(item.Result),
			backendLabel(item.Result.Backend),
			itemDetail(item.Result),
		})
	}
	fmt.Fprintln(out, renderTable(out, []string{"#", "Input", "Status", "Backend", "Output / Error"}, rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft}))
}

func itemStatus(res jobs.JobResult) string {
	if res.Success {
		return "ok"
	}
	if res.Error == nil {
		return "failed"
	}
	if res.Error.Timeout {
		return string(res.Error.Kind) + " (timeout)"
	}
	return string(res.Error.Kind)
}

func backendLabel(b jobs.Backend) string {
	if b == jobs.BackendNone {
		return "-"
	}
	return string(b)
}

func itemDetail(res jobs.JobResult) string {
	if res.Success {
		return res.OutputPath
	}
	if res.Error == nil {
		return ""
	}
	return truncate(res.Error.Message, 80)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
