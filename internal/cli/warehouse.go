package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/retailops/salesdw/internal/etl"
	"github.com/retailops/salesdw/internal/etl/warehouse"
	"github.com/retailops/salesdw/internal/logging"
)

var warehouseCmd = &cobra.Command{
	Use:   "warehouse",
	Short: "Derive the star-schema warehouse layer from staging",
	Long: `Truncate and repopulate the warehouse dimensions and facts:
denormalized customer, product, store, and staff dimensions, a ranked
date dimension, and the sales and inventory fact tables.`,
	RunE: runWarehouseCmd,
}

func runWarehouseCmd(cmd *cobra.Command, args []string) error {
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
	logging.Info().Str("batch", batchTag).Msg("Loading warehouse layer")

	if err := warehouse.NewLoader().Run(ctx, pool, batchTag); err != nil {
		return err
	}

	logging.Info().Str("batch", batchTag).Msg("Warehouse layer load complete")
	return nil
}
