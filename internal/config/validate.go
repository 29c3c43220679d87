package config

import (
	"errors"
	"fmt"
	"time"
)

// knownTimeframes mirrors the leaderboard token table. Kept here so config
// validation does not import the engine package.
var knownTimeframes = map[string]bool{
	"1d": true, "7d": true, "14d": true, "28d": true, "30d": true, "90d": true, "1y": true,
}

// Validate checks that all required fields are set and values are valid.
func (c *RewardsConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	switch c.Database.Driver {
	case "postgres":
		if err := c.Database.Postgres.validate("database.postgres"); err != nil {
			return err
		}
	case "sqlite":
		if c.Database.SQLite.Path == "" {
			return errors.New("database.sqlite.path is required")
		}
	default:
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	}

	if c.Leaderboard.CacheTTL < 0 {
		return errors.New("leaderboard.cache_ttl must be >= 0")
	}
	if c.Leaderboard.CacheEntries < 1 {
		return errors.New("leaderboard.cache_entries must be >= 1")
	}
	if c.Leaderboard.DefaultLimit < 1 {
		return errors.New("leaderboard.default_limit must be >= 1")
	}
	if c.Leaderboard.FetchTimeout < time.Second {
		return errors.New("leaderboard.fetch_timeout must be >= 1s")
	}
	if _, err := time.LoadLocation(c.Leaderboard.Timezone); err != nil {
		return fmt.Errorf("leaderboard.timezone %q is not a valid location: %w", c.Leaderboard.Timezone, err)
	}

	if c.Refresher.Enabled {
		if c.Refresher.Interval < time.Second {
			return errors.New("refresher.interval must be >= 1s")
		}
		if c.Refresher.Concurrency < 1 {
			return errors.New("refresher.concurrency must be >= 1")
		}
		for _, tf := range c.Refresher.Timeframes {
			if !knownTimeframes[tf] {
				return fmt.Errorf("refresher.timeframes contains unknown token %q", tf)
			}
		}
	}

	if c.Live.Enabled && c.Live.SendBuffer < 1 {
		return errors.New("live.send_buffer must be >= 1")
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
