package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Baillie11/seo/internal/config"
	"github.com/Baillie11/seo/internal/history"
	"github.com/Baillie11/seo/internal/report"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
// This command browses past analysis runs stored in the database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse past analysis runs",
		Long: `History lists analysis runs stored in the local database.

Each audit run is saved automatically unless --no-history was given.
Use --show to print the full stored report for a run.

Examples:
  # List the most recent runs
  seoaudit history

  # List more runs
  seoaudit history --limit 50

  # Print the full stored report for run 5
  seoaudit history --show 5

  # Print the stored report as JSON
  seoaudit history --show 5 --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 20,
		"Maximum number of runs to list")
	cmd.Flags().Int64P("show", "s", 0,
		"Print the full stored report for the specified run ID")
	cmd.Flags().BoolP("json", "j", false,
		"Output the stored report in JSON format (with --show)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	showID, err := cmd.Flags().GetInt64("show")
	if err != nil {
		return err
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	// Run history lives in the XDG data directory
	store, err := history.Open(config.XDGDataDir(), history.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer store.Close()

	ctx := context.Background()

	if showID > 0 {
		return showRun(ctx, cmd, store, showID, jsonOutput)
	}

	return listRuns(ctx, store, limit)
}

// listRuns lists recent analysis runs.
func listRuns(ctx context.Context, store *history.Store, limit int) error {
	runs, err := store.Recent(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No analysis runs found in the database.")
		fmt.Println("\nUse 'seoaudit audit <url>' to analyze a website.")
		return nil
	}

	fmt.Printf("Analysis runs (%d):\n\n", len(runs))
	fmt.Printf("  %-6s  %-20s  %-10s  %-8s  %s\n", "ID", "Date", "Warnings", "Errors", "Website")
	fmt.Println("  " + strings.Repeat("-", 72))

	for _, run := range runs {
		fmt.Printf("  %-6d  %-20s  %-10d  %-8d  %s\n",
			run.ID,
			run.AnalysisDate.Format("2006-01-02 15:04:05"),
			run.WarningCount,
			run.ErrorCount,
			run.URL,
		)
	}

	fmt.Println("\nUse 'seoaudit history --show <id>' to print a stored report.")

	return nil
}

// showRun prints the full stored report for a run.
func showRun(ctx context.Context, cmd *cobra.Command, store *history.Store, id int64, jsonOutput bool) error {
	stored, err := store.Report(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load run %d: %w", id, err)
	}
	if stored == nil {
		return fmt.Errorf("no run found with ID %d (use 'seoaudit history' to list runs)", id)
	}

	output := cmd.OutOrStdout()
	if jsonOutput {
		writer := report.NewJSONWriter(output, report.WithPrettyPrint())
		_, err = writer.Write(stored)
		return err
	}

	writer := report.NewSimpleWriter(output)
	_, err = writer.Write(stored)
	return err
}
