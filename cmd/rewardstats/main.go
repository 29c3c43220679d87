// Command rewardstats computes a leaderboard or a single account ranking
// from the configured store and prints it as JSON, without running the
// daemon. Useful for operators checking stats from a shell.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/BlakeMcBride1625/8bp-rewards-5.2-Public-sub002/internal/config"
	"github.com/BlakeMcBride1625/8bp-rewards-5.2-Public-sub002/internal/leaderboard"
	"github.com/BlakeMcBride1625/8bp-rewards-5.2-Public-sub002/internal/store"
)

func main() {
	configPath := flag.String("config", "configs/rewards.local.yaml", "path to config file")
	timeframe := flag.String("timeframe", "7d", "lookback window token (1d, 7d, 14d, 28d, 30d, 90d, 1y)")
	limit := flag.Int("limit", 0, "max entries (0 = configured default)")
	accountID := flag.String("account", "", "compute a single account's ranking instead of the leaderboard")
	flag.Parse()

	// Quiet logging: this tool's output is the JSON on stdout.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		fatal("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	st, err := store.Open(ctx, cfg.Database, logger)
	if err != nil {
		fatal("open store: %v", err)
	}
	defer st.Close()

	loc, err := time.LoadLocation(cfg.Leaderboard.Timezone)
	if err != nil {
		fatal("load timezone: %v", err)
	}

	engine := leaderboard.New(leaderboard.Config{
		CacheTTL:     cfg.Leaderboard.CacheTTL,
		CacheEntries: cfg.Leaderboard.CacheEntries,
		DefaultLimit: cfg.Leaderboard.DefaultLimit,
		FetchTimeout: cfg.Leaderboard.FetchTimeout,
		Location:     loc,
	}, st, logger)

	var out any
	if *accountID != "" {
		out, err = engine.ComputeAccountRanking(ctx, *accountID, *timeframe)
	} else {
		out, err = engine.ComputeLeaderboard(ctx, *timeframe, *limit)
	}
	if err != nil {
		fatal("compute: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fatal("encode output: %v", err)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "rewardstats: "+format+"\n", args...)
	os.Exit(1)
}
