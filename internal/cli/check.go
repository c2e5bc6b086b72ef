package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/retailops/salesdw/internal/etl"
	"github.com/retailops/salesdw/internal/etl/quality"
	"github.com/retailops/salesdw/internal/logging"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the quality-check battery",
	Long: `Run every quality check against the staging and warehouse layers:
key integrity, referential integrity, relationship cardinality, and
business rules. One result row per check is persisted per run.`,
	RunE: runCheckCmd,
}

func runCheckCmd(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := connectInitialized(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	batchTag := etl.NewBatchTag()
	logging.Info().Str("batch", batchTag).Msg("Running quality checks")

	results, err := quality.NewChecker().Run(ctx, pool, batchTag)
	if err != nil {
		return err
	}

	printResults(cmd, results)
	return nil
}

func printResults(cmd *cobra.Command, results []quality.Result) {
	for _, r := range results {
		line := fmt.Sprintf("%-8s %-22s %-32s %s", r.Status, r.Category, r.Name, r.Table)
		if r.Message != "" {
			line += "  (" + r.Message + ")"
		}
		cmd.Println(line)
	}

	s := quality.Summarize(results)
	cmd.Println()
	cmd.Printf("%d checks: %d passed, %d failed, %d warnings\n",
		len(results), s.Passed, s.Failed, s.Warnings)
}
