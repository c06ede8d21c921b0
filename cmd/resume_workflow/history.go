package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rakshit/resume-workflow/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show mirrored runs from the history database",
	Long:  "List recent workflow runs recorded in PostgreSQL, or the per-stage outcomes of one run. Requires DATABASE_URL.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of runs to list")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("history requires DATABASE_URL to be set")
	}

	store, err := history.Connect(cmd.Context(), databaseURL)
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) == 1 {
		return printRunHistory(cmd, store, args[0])
	}

	runs, err := store.ListRuns(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stdout, "No runs recorded.")
		return nil
	}

	for _, run := range runs {
		line := fmt.Sprintf("%s  %-10s  %s  started %s", run.RunID, run.Status, run.Config, run.StartedAt.Format("2006-01-02 15:04"))
		if run.FinishedAt != nil {
			line += fmt.Sprintf(", finished %s", run.FinishedAt.Format("2006-01-02 15:04"))
		}
		fmt.Fprintln(os.Stdout, line)
	}
	return nil
}

func printRunHistory(cmd *cobra.Command, store *history.Store, runID string) error {
	run, err := store.GetRun(cmd.Context(), runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %s was never recorded", runID)
	}

	fmt.Fprintf(os.Stdout, "Run %s (%s): %s\n", run.RunID, run.Config, run.Status)

	records, err := store.ListStages(cmd.Context(), runID)
	if err != nil {
		return err
	}
	for _, rec := range records {
		line := fmt.Sprintf("  %-16s %s", rec.Stage, rec.Status)
		if rec.Detail != "" {
			line += fmt.Sprintf(" (%s)", rec.Detail)
		}
		fmt.Fprintln(os.Stdout, line)
	}
	return nil
}
