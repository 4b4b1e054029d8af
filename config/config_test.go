package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kosatnkn/txservices/config"
)

func writeConfig(t *testing.T, content string) string {

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadDefaults(t *testing.T) {

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, config.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "txservices.db", cfg.Database.SQLite.Path)
	assert.Equal(t, 3306, cfg.Database.MySQL.Port)
	assert.Equal(t, time.Hour, cfg.Database.MySQL.ConnMaxLifetime)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadFile(t *testing.T) {

	path := writeConfig(t, `
database:
  driver: mysql
  mysql:
    host: db.local
    port: 3307
    database: sample
    user: root
    password: root
    pool_size: 4
    conn_max_lifetime: 30m
log:
  level: debug
  format: console
metrics:
  enabled: true
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, config.DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, "db.local", cfg.Database.MySQL.Host)
	assert.Equal(t, 3307, cfg.Database.MySQL.Port)
	assert.Equal(t, "sample", cfg.Database.MySQL.Database)
	assert.Equal(t, 4, cfg.Database.MySQL.PoolSize)
	assert.Equal(t, 30*time.Minute, cfg.Database.MySQL.ConnMaxLifetime)
	assert.True(t, cfg.Database.MySQL.Check)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadEnvOverride(t *testing.T) {

	path := writeConfig(t, "database:\n  driver: mysql\n")

	t.Setenv("TXSERVICES_DATABASE_DRIVER", "postgres")
	t.Setenv("TXSERVICES_LOG_LEVEL", "warn")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, config.DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvCredentials(t *testing.T) {

	t.Setenv("TXSERVICES_DATABASE_MYSQL_USER", "app")
	t.Setenv("TXSERVICES_DATABASE_MYSQL_PASSWORD", "s3cret")
	t.Setenv("TXSERVICES_DATABASE_MYSQL_DATABASE", "sample")
	t.Setenv("TXSERVICES_DATABASE_POSTGRES_USER", "pg")
	t.Setenv("TXSERVICES_DATABASE_POSTGRES_PASSWORD", "pgpass")
	t.Setenv("TXSERVICES_DATABASE_POSTGRES_DATABASE", "orders")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "app", cfg.Database.MySQL.User)
	assert.Equal(t, "s3cret", cfg.Database.MySQL.Password)
	assert.Equal(t, "sample", cfg.Database.MySQL.Database)
	assert.Equal(t, "pg", cfg.Database.Postgres.User)
	assert.Equal(t, "pgpass", cfg.Database.Postgres.Password)
	assert.Equal(t, "orders", cfg.Database.Postgres.Database)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {

	path := writeConfig(t, "database:\n  driver: oracle\n")

	_, err := config.Load(path)
	assert.EqualError(t, err, "config: unsupported database driver 'oracle'")
}

func TestLoadMissingFile(t *testing.T) {

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {

	cfg := config.Config{
		Database: config.DatabaseConfig{Driver: config.DriverSQLite},
		Log:      config.LogConfig{Format: "json"},
	}
	assert.EqualError(t, cfg.Validate(), "config: database.sqlite.path is required")

	cfg.Database.SQLite.Path = "x.db"
	assert.NoError(t, cfg.Validate())

	cfg.Log.Format = "xml"
	assert.EqualError(t, cfg.Validate(), "config: unsupported log format 'xml'")
}
