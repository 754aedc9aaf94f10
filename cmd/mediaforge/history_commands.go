package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"mediaforge/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded batches",
	}
	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))
	return historyCmd
}

func withHistory(ctx *commandContext, fn func(*history.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		if errors.Is(err, history.ErrSchemaMismatch) {
			return fmt.Errorf("%w (remove %s to start fresh)", err, cfg.HistoryPath())
		}
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent batches",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(ctx, func(store *history.Store) error {
				batches, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, batches)
				}
				out := cmd.OutOrStdout()
				if len(batches) == 0 {
					fmt.Fprintln(out, "No batches recorded")
					return nil
				}
				rows := make([][]string, 0, len(batches))
				for _, b := range batches {
					rows = append(rows, []string{
						b.ID,
						displayLabel(b.Label),
						string(b.Status),
						fmt.Sprintf("%d/%d", b.Succeeded, b.ProcessedCount),
						b.StartedAt.Local().Format(time.DateTime),
						b.FinishedAt.Sub(b.StartedAt).Round(time.Millisecond).String(),
					})
				}
				fmt.Fprintln(out, renderTable(out, []string{"ID", "Label", "Status", "OK", "Started", "Elapsed"}, rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignRight}))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum batches to list")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

type historyShowOutput struct {
	Batch history.Batch  `json:"batch"`
	Items []history.Item `json:"items"`
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <batch-id>",
		Short: "Show the items of one batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(ctx, func(store *history.Store) error {
				b, items, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, historyShowOutput{Batch: b, Items: items})
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s batch %s: %s (%d/%d succeeded)\n",
					displayLabel(b.Label), b.ID, b.Status, b.Succeeded, b.ProcessedCount)
				rows := make([][]string, 0, len(items))
				for _, it := range items {
					status, detail := "ok", it.OutputPath
					if !it.Success {
						status, detail = string(it.ErrorKind), truncate(it.ErrorMsg, 80)
					}
					rows = append(rows, []string{
						fmt.Sprintf("%d", it.Index+1),
						filepath.Base(it.InputPath),
						status,
						backendLabel(it.Backend),
						detail,
					})
				}
				fmt.Fprintln(out, renderTable(out, []string{"#", "Input", "Status", "Backend", "Output / Error"}, rows,
					[]columnAlignment{alignRight}))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded batches",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(ctx, func(store *history.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d batch(es)\n", removed)
				return nil
			})
		},
	}
}
