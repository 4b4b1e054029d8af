package config

import (
	"fmt"

	"github.com/kosatnkn/txservices/mysql"
	"github.com/kosatnkn/txservices/postgres"
	"github.com/kosatnkn/txservices/sqlite"
)

// Supported database drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the configuration of the transaction services.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// DatabaseConfig selects a driver and holds the configuration of each one.
type DatabaseConfig struct {
	Driver   string          `mapstructure:"driver"`
	MySQL    mysql.Config    `mapstructure:"mysql"`
	Postgres postgres.Config `mapstructure:"postgres"`
	SQLite   sqlite.Config   `mapstructure:"sqlite"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

// MetricsConfig configures engine metrics.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Validate checks the configuration for values that cannot work.
func (c Config) Validate() error {

	switch c.Database.Driver {
	case DriverMySQL, DriverPostgres:
	case DriverSQLite:
		if c.Database.SQLite.Path == "" {
			return fmt.Errorf("config: database.sqlite.path is required")
		}
	default:
		return fmt.Errorf("config: unsupported database driver '%s'", c.Database.Driver)
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: unsupported log format '%s'", c.Log.Format)
	}

	return nil
}
