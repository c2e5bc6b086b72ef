package cli

import (
	"github.com/spf13/cobra"

	"github.com/retailops/salesdw/internal/logging"
	"github.com/retailops/salesdw/internal/seed"
)

var (
	seedCustomers int
	seedProducts  int
	seedOrders    int
	seedStores    int
	seedStaffs    int
	seedDirtyRate float64
	seedRandom    uint64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate sample source flat files",
	Long: `Generate the nine source flat files the raw loader expects, with a
configurable share of dirty rows (duplicates, blanked keys, whitespace
padding) for the staging transforms to clean.

Example:
  salesdw seed --source-dir data --orders 1000 --dirty-rate 0.05`,
	RunE: runSeedCmd,
}

func init() {
	seedCmd.Flags().IntVar(&seedCustomers, "customers", 0,
		"number of customers to generate")
	seedCmd.Flags().IntVar(&seedProducts, "products", 0,
		"number of products to generate")
	seedCmd.Flags().IntVar(&seedOrders, "orders", 0,
		"number of orders to generate")
	seedCmd.Flags().IntVar(&seedStores, "stores", 0,
		"number of stores to generate")
	seedCmd.Flags().IntVar(&seedStaffs, "staffs", 0,
		"number of staff members to generate")
	seedCmd.Flags().Float64Var(&seedDirtyRate, "dirty-rate", -1,
		"fraction of rows duplicated or given a null key (0 - 0.5)")
	seedCmd.Flags().Uint64Var(&seedRandom, "random-seed", 0,
		"generator seed for reproducible output (0 = random)")
}

func runSeedCmd(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if seedCustomers > 0 {
		cfg.Seed.Customers = seedCustomers
	}
	if seedProducts > 0 {
		cfg.Seed.Products = seedProducts
	}
	if seedOrders > 0 {
		cfg.Seed.Orders = seedOrders
	}
	if seedStores > 0 {
		cfg.Seed.Stores = seedStores
	}
	if seedStaffs > 0 {
		cfg.Seed.Staffs = seedStaffs
	}
	if seedDirtyRate >= 0 {
		cfg.Seed.DirtyRate = seedDirtyRate
	}
	if seedRandom > 0 {
		cfg.Seed.RandomSeed = seedRandom
	}

	if err := cfg.ValidateSeed(); err != nil {
		return err
	}

	logging.Info().
		Str("dir", cfg.SourceDir).
		Int("orders", cfg.Seed.Orders).
		Float64("dirty_rate", cfg.Seed.DirtyRate).
		Msg("Generating source files")

	if err := seed.NewSeeder(cfg.SourceDir, cfg.Seed).Run(); err != nil {
		return err
	}

	logging.Info().Msg("Source file generation complete")
	return nil
}
