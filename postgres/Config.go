package postgres

import "time"

// Config holds the configuration of a Postgres adapter.
type Config struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Database        string        `mapstructure:"database"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	Check           bool          `mapstructure:"check"`
}
