package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retailops/salesdw/internal/db"
	"github.com/retailops/salesdw/internal/etl"
	"github.com/retailops/salesdw/internal/etl/rawload"
	"github.com/retailops/salesdw/internal/logging"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load source flat files into the raw layer",
	Long: `Truncate and reload every raw table from its source flat file.
File contents are kept verbatim; cleaning happens in the staging layer.

Example:
  salesdw load --source-dir data --connection "postgres://..."`,
	RunE: runLoadCmd,
}

func runLoadCmd(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateLoad(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := connectInitialized(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	batchTag := etl.NewBatchTag()
	logging.Info().
		Str("batch", batchTag).
		Str("dir", cfg.SourceDir).
		Msg("Loading raw layer")

	if err := rawload.NewLoader(cfg.SourceDir).Run(ctx, pool, batchTag); err != nil {
		return err
	}

	logging.Info().Str("batch", batchTag).Msg("Raw layer load complete")
	return nil
}

// connectInitialized connects and verifies the database has been prepared
// by init.
func connectInitialized(ctx context.Context) (*pgxpool.Pool, error) {
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ok, err := db.Initialized(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to check initialization state: %w", err)
	}
	if !ok {
		pool.Close()
		return nil, fmt.Errorf("database is not initialized; run 'salesdw init' first")
	}
	return pool, nil
}
