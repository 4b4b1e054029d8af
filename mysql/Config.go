package mysql

import "time"

// Config holds the configuration of a MySQL/MariaDB adapter.
type Config struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Database        string        `mapstructure:"database"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	Check           bool          `mapstructure:"check"`
}
