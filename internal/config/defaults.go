package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultServerPort         = 8080
	DefaultDriver             = "sqlite"
	DefaultDBPort             = 5432
	DefaultDBSSLMode          = "prefer"
	DefaultMaxConns           = 10
	DefaultMinConns           = 2
	DefaultSQLitePath         = "data/rewards.db"
	DefaultCacheTTL           = 30 * time.Second
	DefaultCacheEntries       = 10
	DefaultLeaderboardLimit   = 50
	DefaultFetchTimeout       = 15 * time.Second
	DefaultTimezone           = "UTC"
	DefaultRefreshInterval    = 5 * time.Minute
	DefaultRefreshLimit       = 50
	DefaultRefreshConcurrency = 2
	DefaultSendBuffer         = 256
	DefaultPingInterval       = 30 * time.Second
)

// DefaultRefreshTimeframes are the windows kept warm between requests.
var DefaultRefreshTimeframes = []string{"1d", "7d", "30d"}

func (c *RewardsConfig) applyDefaults() {
	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}

	// Database defaults
	if c.Database.Driver == "" {
		c.Database.Driver = DefaultDriver
	}
	applyDBDefaults(&c.Database.Postgres)
	if c.Database.SQLite.Path == "" {
		c.Database.SQLite.Path = DefaultSQLitePath
	}

	// Leaderboard defaults
	if c.Leaderboard.CacheTTL == 0 {
		c.Leaderboard.CacheTTL = DefaultCacheTTL
	}
	if c.Leaderboard.CacheEntries == 0 {
		c.Leaderboard.CacheEntries = DefaultCacheEntries
	}
	if c.Leaderboard.DefaultLimit == 0 {
		c.Leaderboard.DefaultLimit = DefaultLeaderboardLimit
	}
	if c.Leaderboard.FetchTimeout == 0 {
		c.Leaderboard.FetchTimeout = DefaultFetchTimeout
	}
	if c.Leaderboard.Timezone == "" {
		c.Leaderboard.Timezone = DefaultTimezone
	}

	// Refresher defaults
	if c.Refresher.Interval == 0 {
		c.Refresher.Interval = DefaultRefreshInterval
	}
	if len(c.Refresher.Timeframes) == 0 {
		c.Refresher.Timeframes = DefaultRefreshTimeframes
	}
	if c.Refresher.Limit == 0 {
		c.Refresher.Limit = DefaultRefreshLimit
	}
	if c.Refresher.Concurrency == 0 {
		c.Refresher.Concurrency = DefaultRefreshConcurrency
	}

	// Live defaults
	if c.Live.SendBuffer == 0 {
		c.Live.SendBuffer = DefaultSendBuffer
	}
	if c.Live.PingInterval == 0 {
		c.Live.PingInterval = DefaultPingInterval
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
