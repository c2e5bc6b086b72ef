package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/retailops/salesdw/internal/db"
	"github.com/retailops/salesdw/internal/etl"
	"github.com/retailops/salesdw/internal/etl/quality"
)

var statusLimit int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recent run-log entries and quality-check results",
	RunE:  runStatusCmd,
}

func init() {
	statusCmd.Flags().IntVar(&statusLimit, "limit", 20,
		"number of recent entries to show")
}

func runStatusCmd(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := connectInitialized(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	if v, err := db.GetMetadataValue(ctx, pool, "initialized_at"); err == nil {
		cmd.Printf("Initialized at: %s\n\n", v)
	}

	entries, err := etl.RecentLogs(ctx, pool, statusLimit)
	if err != nil {
		return fmt.Errorf("failed to read run log: %w", err)
	}

	cmd.Println("Recent run log:")
	if len(entries) == 0 {
		cmd.Println("  (no entries)")
	}
	for _, e := range entries {
		cmd.Printf("  %s  %-8s %-9s %-22s %s\n",
			e.LoggedAt.Format("2006-01-02 15:04:05"), e.Status, e.Layer, e.TableName, e.Message)
	}

	results, err := quality.RecentResults(ctx, pool, statusLimit)
	if err != nil {
		return fmt.Errorf("failed to read quality results: %w", err)
	}

	cmd.Println()
	cmd.Println("Recent quality checks:")
	if len(results) == 0 {
		cmd.Println("  (no results)")
	}
	for _, r := range results {
		line := fmt.Sprintf("  %-8s %-32s %s", r.Status, r.Name, r.Table)
		if r.Message != "" {
			line += "  (" + r.Message + ")"
		}
		cmd.Println(line)
	}

	return nil
}
