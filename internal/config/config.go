package config

import "time"

// RewardsConfig is the root configuration for a rewards service instance.
type RewardsConfig struct {
	Instance    InstanceConfig    `yaml:"instance"`
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
	Refresher   RefresherConfig   `yaml:"refresher"`
	Live        LiveConfig        `yaml:"live"`
}

// InstanceConfig identifies this service instance.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig selects and configures the backing store.
type DatabaseConfig struct {
	Driver   string       `yaml:"driver"` // "postgres" or "sqlite"
	Postgres DBConfig     `yaml:"postgres"`
	SQLite   SQLiteConfig `yaml:"sqlite"`
}

// DBConfig holds a PostgreSQL connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// SQLiteConfig holds a SQLite database file for single-host deployments.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// LeaderboardConfig holds leaderboard engine settings.
type LeaderboardConfig struct {
	CacheTTL     time.Duration `yaml:"cache_ttl"`
	CacheEntries int           `yaml:"cache_entries"`
	DefaultLimit int           `yaml:"default_limit"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	Timezone     string        `yaml:"timezone"` // reference timezone for calendar dates
}

// RefresherConfig holds cache warmer settings.
type RefresherConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Interval    time.Duration `yaml:"interval"`
	Timeframes  []string      `yaml:"timeframes"`
	Limit       int           `yaml:"limit"`
	Concurrency int           `yaml:"concurrency"`
}

// LiveConfig holds WebSocket hub settings.
type LiveConfig struct {
	Enabled      bool          `yaml:"enabled"`
	SendBuffer   int           `yaml:"send_buffer"`
	PingInterval time.Duration `yaml:"ping_interval"`
}
