package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/retailops/salesdw/internal/etl"
	"github.com/retailops/salesdw/internal/etl/quality"
	"github.com/retailops/salesdw/internal/etl/rawload"
	"github.com/retailops/salesdw/internal/etl/staging"
	"github.com/retailops/salesdw/internal/etl/warehouse"
	"github.com/retailops/salesdw/internal/logging"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: load, stage, warehouse, check",
	Long: `Run all four pipeline stages in sequence under a single batch tag.
A failing stage is reported but does not stop the later stages; quality
checks always run so the damage is visible in one place.

Example:
  salesdw run --source-dir data --connection "postgres://..."`,
	RunE: runRunCmd,
}

func runRunCmd(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateLoad(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := connectInitialized(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	// One batch tag groups all four stages' log and result rows.
	batchTag := etl.NewBatchTag()
	logging.Info().Str("batch", batchTag).Msg("Starting pipeline run")

	var errs []error
	if err := rawload.NewLoader(cfg.SourceDir).Run(ctx, pool, batchTag); err != nil {
		errs = append(errs, err)
	}
	if err := staging.NewStager().Run(ctx, pool, batchTag); err != nil {
		errs = append(errs, err)
	}
	if err := warehouse.NewLoader().Run(ctx, pool, batchTag); err != nil {
		errs = append(errs, err)
	}

	results, err := quality.NewChecker().Run(ctx, pool, batchTag)
	if err != nil {
		errs = append(errs, err)
	}
	printResults(cmd, results)

	if len(errs) > 0 {
		return fmt.Errorf("pipeline run %s finished with errors: %w", batchTag, errors.Join(errs...))
	}

	logging.Info().Str("batch", batchTag).Msg("Pipeline run complete")
	return nil
}
