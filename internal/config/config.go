// Package config handles configuration management for salesdw.
// Configuration is loaded from config files and CLI flags (no environment
// variables). CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for salesdw.
type Config struct {
	// Connection is the PostgreSQL connection string.
	Connection string `mapstructure:"connection"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// SourceDir is the directory holding the source flat files.
	SourceDir string `mapstructure:"source_dir"`

	// Init holds configuration for the init subcommand.
	Init InitConfig `mapstructure:"init"`

	// Seed holds configuration for the seed subcommand.
	Seed SeedConfig `mapstructure:"seed"`
}

// InitConfig holds configuration for database initialization.
type InitConfig struct {
	// DropExisting drops existing schemas before initialization.
	DropExisting bool `mapstructure:"drop_existing"`
}

// SeedConfig holds configuration for sample source file generation.
type SeedConfig struct {
	// Customers is the number of customers to generate.
	Customers int `mapstructure:"customers"`

	// Products is the number of products to generate.
	Products int `mapstructure:"products"`

	// Orders is the number of orders to generate.
	Orders int `mapstructure:"orders"`

	// Stores is the number of stores to generate.
	Stores int `mapstructure:"stores"`

	// Staffs is the number of staff members to generate.
	Staffs int `mapstructure:"staffs"`

	// DirtyRate is the fraction of rows duplicated or given a null key,
	// so the staging transforms have something to clean (0.0 - 0.5).
	DirtyRate float64 `mapstructure:"dirty_rate"`

	// RandomSeed seeds the generator for reproducible output (0 = random).
	RandomSeed uint64 `mapstructure:"random_seed"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "info",
		SourceDir: "data",
		Seed: SeedConfig{
			Customers: 200,
			Products:  120,
			Orders:    500,
			Stores:    3,
			Staffs:    10,
			DirtyRate: 0.02,
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./salesdw.yaml
// 3. ~/.config/salesdw/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("salesdw")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "salesdw"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Connection == "" {
		return fmt.Errorf("connection string is required")
	}
	return nil
}

// ValidateLoad checks configuration required for the load command.
func (c *Config) ValidateLoad() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.SourceDir == "" {
		return fmt.Errorf("source directory is required for load")
	}
	return nil
}

// ValidateSeed checks configuration required for the seed command.
func (c *Config) ValidateSeed() error {
	if c.SourceDir == "" {
		return fmt.Errorf("source directory is required for seed")
	}
	if c.Seed.Customers < 1 {
		return fmt.Errorf("seed customers must be at least 1")
	}
	if c.Seed.Products < 1 {
		return fmt.Errorf("seed products must be at least 1")
	}
	if c.Seed.Orders < 1 {
		return fmt.Errorf("seed orders must be at least 1")
	}
	if c.Seed.Stores < 1 {
		return fmt.Errorf("seed stores must be at least 1")
	}
	if c.Seed.Staffs < 1 {
		return fmt.Errorf("seed staffs must be at least 1")
	}
	if c.Seed.DirtyRate < 0 || c.Seed.DirtyRate > 0.5 {
		return fmt.Errorf("seed dirty_rate must be between 0 and 0.5")
	}
	return nil
}
