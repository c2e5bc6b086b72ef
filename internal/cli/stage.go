package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/retailops/salesdw/internal/etl"
	"github.com/retailops/salesdw/internal/etl/staging"
	"github.com/retailops/salesdw/internal/logging"
)

var stageCmd = &cobra.Command{
	Use:   "stage",
	Short: "Transform the raw layer into the staging layer",
	Long: `Truncate and repopulate every staging table from its raw
counterpart: typed columns, trimmed text, standardized categorical
values, deduplicated keys, and derived line-item sales amounts.`,
	RunE: runStageCmd,
}

func runStageCmd(cmd *cobra.Command, args []string) error {
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
	logging.Info().Str("batch", batchTag).Msg("Loading staging layer")

	if err := staging.NewStager().Run(ctx, pool, batchTag); err != nil {
		return err
	}

	logging.Info().Str("batch", batchTag).Msg("Staging layer load complete")
	return nil
}
