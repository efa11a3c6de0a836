package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix = "FIXTUREGEN"

	flagConfig      = "config"
	flagDriver      = "driver"
	flagDSN         = "dsn"
	flagSchema      = "schema"
	flagSnapshotDir = "snapshot-dir"
	flagMigrations  = "migrations"
	flagBatchSize   = "batch-size"
	flagVerbose     = "verbose"

	driverPostgres = "postgres"
	driverSQLite   = "sqlite3"

	defaultSnapshotDir = "testdata/scenarios"
	defaultMigrations  = "migrations"
	defaultBatchSize   = 500
)

var (
	ErrMissingDSN        = errors.New("no database dsn configured, use --dsn or FIXTUREGEN_DSN")
	ErrMissingSchemaFile = errors.New("no schema definition file configured, use --schema or FIXTUREGEN_SCHEMA")
	ErrUnsupportedDriver = errors.New("unsupported driver, use postgres or sqlite3")
)

// Config is the resolved configuration: flags win over environment variables, which win over the config file.
type Config struct {
	Driver      string `mapstructure:"driver"`
	DSN         string `mapstructure:"dsn"`
	SchemaFile  string `mapstructure:"schema"`
	SnapshotDir string `mapstructure:"snapshot-dir"`
	Migrations  string `mapstructure:"migrations"`
	BatchSize   int    `mapstructure:"batch-size"`
	Verbose     bool   `mapstructure:"verbose"`
}

func addPersistentFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String(flagConfig, "", "optional YAML config file")
	flags.String(flagDriver, driverPostgres, "database driver: postgres or sqlite3")
	flags.String(flagDSN, "", "database connection string")
	flags.String(flagSchema, "", "schema definition file (.json, .yaml or .yml)")
	flags.String(flagSnapshotDir, defaultSnapshotDir, "directory of the scenario snapshot files")
	flags.String(flagMigrations, defaultMigrations, "directory of the migration files")
	flags.Int(flagBatchSize, defaultBatchSize, "maximum number of rows per INSERT statement")
	flags.BoolP(flagVerbose, "v", false, "log at debug level, including every SQL statement")
}

func loadConfig(cmd *cobra.Command) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return Config{}, err
	}

	if file := v.GetString(flagConfig); file != "" {
		v.SetConfigFile(file)

		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	return cfg, nil
}

func (c Config) validateDatabase() error {
	if c.DSN == "" {
		return ErrMissingDSN
	}

	switch c.Driver {
	case driverPostgres, driverSQLite:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedDriver, c.Driver)
	}
}
