package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/retailops/salesdw/internal/db"
	"github.com/retailops/salesdw/internal/etl"
	"github.com/retailops/salesdw/internal/etl/rawload"
	"github.com/retailops/salesdw/internal/etl/staging"
	"github.com/retailops/salesdw/internal/etl/warehouse"
	"github.com/retailops/salesdw/internal/logging"
)

var initDropExisting bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the warehouse database schemas",
	Long: `Initialize a PostgreSQL database with the raw, staging, and
warehouse schemas plus the etl run-log and quality-check tables.

Example:
  salesdw init --connection "postgres://..."`,
	RunE: runInitCmd,
}

func init() {
	initCmd.Flags().BoolVar(&initDropExisting, "drop-existing", false,
		"drop existing schemas before initialization")
}

func runInitCmd(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if initDropExisting {
		cfg.Init.DropExisting = true
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	already, err := db.Initialized(ctx, pool)
	if err != nil {
		return fmt.Errorf("failed to check initialization state: %w", err)
	}
	if already && !cfg.Init.DropExisting {
		return fmt.Errorf("database is already initialized; use --drop-existing to reinitialize")
	}

	if cfg.Init.DropExisting {
		logging.Info().Msg("Dropping existing schemas")
		if err := warehouse.DropSchema(ctx, pool); err != nil {
			return fmt.Errorf("failed to drop warehouse schema: %w", err)
		}
		if err := staging.DropSchema(ctx, pool); err != nil {
			return fmt.Errorf("failed to drop staging schema: %w", err)
		}
		if err := rawload.DropSchema(ctx, pool); err != nil {
			return fmt.Errorf("failed to drop raw schema: %w", err)
		}
		if err := etl.DropInfra(ctx, pool); err != nil {
			return fmt.Errorf("failed to drop etl schema: %w", err)
		}
		if err := db.DropMetadata(ctx, pool); err != nil {
			logging.Debug().Err(err).Msg("No metadata table to drop")
		}
	}

	logging.Info().Msg("Creating schemas")
	if err := rawload.CreateSchema(ctx, pool); err != nil {
		return fmt.Errorf("failed to create raw schema: %w", err)
	}
	if err := staging.CreateSchema(ctx, pool); err != nil {
		return fmt.Errorf("failed to create staging schema: %w", err)
	}
	if err := warehouse.CreateSchema(ctx, pool); err != nil {
		return fmt.Errorf("failed to create warehouse schema: %w", err)
	}
	if err := etl.EnsureInfra(ctx, pool); err != nil {
		return fmt.Errorf("failed to create etl schema: %w", err)
	}

	if err := db.SaveMetadata(ctx, pool); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}

	logging.Info().Msg("Database initialization complete")
	return nil
}
