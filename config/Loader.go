package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding file values,
// for example TXSERVICES_DATABASE_DRIVER.
const EnvPrefix = "TXSERVICES"

// Load reads the configuration file at path, applies defaults and environment
// overrides and validates the result.
//
// An empty path loads defaults and environment variables only.
func Load(path string) (Config, error) {

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: cannot read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: cannot decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {

	v.SetDefault("database.driver", DriverSQLite)

	v.SetDefault("database.mysql.host", "127.0.0.1")
	v.SetDefault("database.mysql.port", 3306)
	v.SetDefault("database.mysql.pool_size", 10)
	v.SetDefault("database.mysql.conn_max_lifetime", "1h")
	v.SetDefault("database.mysql.check", true)

	v.SetDefault("database.postgres.host", "127.0.0.1")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.ssl_mode", "disable")
	v.SetDefault("database.postgres.pool_size", 10)
	v.SetDefault("database.postgres.check", true)

	v.SetDefault("database.sqlite.path", "txservices.db")
	v.SetDefault("database.sqlite.busy_timeout_ms", 5000)
	v.SetDefault("database.sqlite.check", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("metrics.enabled", false)
}

// bindEnv makes keys without a default reachable through the environment.
func bindEnv(v *viper.Viper) {

	for _, key := range []string{
		"database.mysql.database",
		"database.mysql.user",
		"database.mysql.password",
		"database.postgres.database",
		"database.postgres.user",
		"database.postgres.password",
		"database.postgres.conn_max_lifetime",
	} {
		_ = v.BindEnv(key)
	}
}
