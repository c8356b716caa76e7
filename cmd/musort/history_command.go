package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"musort/internal/history"
)

func newHistoryCommand(ctx *commandContext, jsonFlag *bool) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show past sorting runs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			if len(args) == 1 {
				return showRunOperations(cmd, store, args[0], *jsonFlag)
			}
			return showRecentRuns(cmd, store, limit, *jsonFlag)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of runs to list")
	return cmd
}

func showRecentRuns(cmd *cobra.Command, store *history.Store, limit int, jsonOut bool) error {
	runs, err := store.RecentRuns(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if jsonOut {
		return writeJSON(cmd, runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			run.Root,
			run.Mode,
			fmt.Sprintf("%d", run.Executed),
			fmt.Sprintf("%d", run.Skipped),
			fmt.Sprintf("%d", run.Failed),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Run", "Started", "Root", "Mode", "Executed", "Skipped", "Failed"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
	))
	return nil
}

func showRunOperations(cmd *cobra.Command, store *history.Store, runID string, jsonOut bool) error {
	records, err := store.RunOperations(cmd.Context(), runID)
	if err != nil {
		return fmt.Errorf("list operations: %w", err)
	}
	if jsonOut {
		return writeJSON(cmd, records)
	}
	if len(records) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No operations recorded for run %s\n", runID)
		return nil
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		outcome := rec.Status
		if rec.Reason != "" {
			outcome += " (" + rec.Reason + ")"
		}
		if rec.Error != "" {
			outcome += ": " + rec.Error
		}
		rows = append(rows, []string{rec.Kind, rec.Source, rec.Destination, outcome})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Kind", "Source", "Destination", "Outcome"},
		rows,
		nil,
	))
	return nil
}
