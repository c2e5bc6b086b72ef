// Package cli implements the command-line interface for salesdw.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/retailops/salesdw/internal/config"
	"github.com/retailops/salesdw/internal/logging"
	"github.com/retailops/salesdw/pkg/version"
)

var (
	// Global flags
	cfgFile    string
	connection string
	sourceDir  string
	logLevel   string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "salesdw",
		Short: "Layered ETL pipeline for a retail sales data warehouse",
		Long: `salesdw loads retail sales flat files into a PostgreSQL data
warehouse through three layers: raw (verbatim file contents), staging
(typed, deduplicated, standardized), and warehouse (star-schema
dimensions and facts).

Every table-level step is recorded in a run log, and a quality-check
battery validates keys, references, relationships, and business rules
after each load.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./salesdw.yaml)")
	rootCmd.PersistentFlags().StringVar(&connection, "connection", "",
		"PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVar(&sourceDir, "source-dir", "",
		"directory holding the source flat files")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(stageCmd)
	rootCmd.AddCommand(warehouseCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if connection != "" {
		cfg.Connection = connection
	}
	if sourceDir != "" {
		cfg.SourceDir = sourceDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}
