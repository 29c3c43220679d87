package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BlakeMcBride1625/8bp-rewards-5.2-Public-sub002/internal/config"
	"github.com/BlakeMcBride1625/8bp-rewards-5.2-Public-sub002/internal/leaderboard"
	"github.com/BlakeMcBride1625/8bp-rewards-5.2-Public-sub002/internal/live"
	"github.com/BlakeMcBride1625/8bp-rewards-5.2-Public-sub002/internal/refresher"
	"github.com/BlakeMcBride1625/8bp-rewards-5.2-Public-sub002/internal/server"
	"github.com/BlakeMcBride1625/8bp-rewards-5.2-Public-sub002/internal/store"
	"github.com/BlakeMcBride1625/8bp-rewards-5.2-Public-sub002/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/rewards.local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting rewardsd",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"driver", cfg.Database.Driver,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Open backing store
	st, err := store.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	logger.Info("store connected")

	// Reference timezone for calendar-date bucketing
	loc, err := time.LoadLocation(cfg.Leaderboard.Timezone)
	if err != nil {
		logger.Error("failed to load timezone", "timezone", cfg.Leaderboard.Timezone, "error", err)
		os.Exit(1)
	}

	// Leaderboard engine
	engine := leaderboard.New(leaderboard.Config{
		CacheTTL:     cfg.Leaderboard.CacheTTL,
		CacheEntries: cfg.Leaderboard.CacheEntries,
		DefaultLimit: cfg.Leaderboard.DefaultLimit,
		FetchTimeout: cfg.Leaderboard.FetchTimeout,
		Location:     loc,
	}, st, logger)

	// Live hub (optional)
	var hub *live.Hub
	if cfg.Live.Enabled {
		hub = live.New(live.Config{
			SendBuffer:   cfg.Live.SendBuffer,
			PingInterval: cfg.Live.PingInterval,
		}, logger)
		if err := hub.Start(ctx); err != nil {
			logger.Error("failed to start live hub", "error", err)
			os.Exit(1)
		}
		defer stopComponent(hub.Stop, "live hub", logger)
	}

	// Cache refresher (optional)
	if cfg.Refresher.Enabled {
		var handler refresher.RefreshHandler
		if hub != nil {
			handler = refresher.RefreshHandlerFunc(func(timeframe string, resp *leaderboard.Response) {
				hub.BroadcastUpdate("leaderboard-refresh", map[string]any{
					"timeframe": timeframe,
					"period":    resp.Period,
				})
			})
		}
		ref := refresher.New(refresher.Config{
			Interval:    cfg.Refresher.Interval,
			Timeframes:  cfg.Refresher.Timeframes,
			Limit:       cfg.Refresher.Limit,
			Concurrency: cfg.Refresher.Concurrency,
		}, engine, handler, logger)
		if err := ref.Start(ctx); err != nil {
			logger.Error("failed to start refresher", "error", err)
			os.Exit(1)
		}
		defer stopComponent(ref.Stop, "refresher", logger)
	}

	// HTTP server
	srv := server.New(server.Config{Port: cfg.Server.Port}, engine, st, hub, logger)
	if err := srv.Start(ctx); err != nil {
		logger.Error("failed to start http server", "error", err)
		os.Exit(1)
	}
	defer stopComponent(srv.Stop, "http server", logger)

	logger.Info("rewardsd running",
		"instance_id", cfg.Instance.ID,
		"port", cfg.Server.Port,
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")
}

// stopComponent runs a bounded-wait Stop during shutdown.
func stopComponent(stop func(context.Context) error, name string, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := stop(ctx); err != nil {
		logger.Warn("component stop failed", "component", name, "error", err)
	}
}
