package sqlite

// Config holds the configuration of a SQLite adapter.
type Config struct {
	// Path is the database file. It is created when missing.
	Path string `mapstructure:"path"`

	// BusyTimeoutMS sets how long a connection waits for a lock before failing.
	BusyTimeoutMS int `mapstructure:"busy_timeout_ms"`

	Check bool `mapstructure:"check"`
}
