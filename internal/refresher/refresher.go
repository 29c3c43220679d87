package refresher

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/BlakeMcBride1625/8bp-rewards-5.2-Public-sub002/internal/leaderboard"
)

// LeaderboardSource computes leaderboards to keep warm.
type LeaderboardSource interface {
	ComputeLeaderboard(ctx context.Context, timeframe string, limit int) (*leaderboard.Response, error)
}

// RefreshHandler receives each freshly computed response.
type RefreshHandler interface {
	HandleRefresh(timeframe string, resp *leaderboard.Response)
}

// RefreshHandlerFunc is a function adapter for RefreshHandler.
type RefreshHandlerFunc func(string, *leaderboard.Response)

func (f RefreshHandlerFunc) HandleRefresh(timeframe string, resp *leaderboard.Response) {
	f(timeframe, resp)
}

// Config holds refresher configuration.
type Config struct {
	Interval    time.Duration // refresh interval (default: 5m)
	Timeframes  []string      // windows to keep warm (default: 1d, 7d, 30d)
	Limit       int           // entry limit per refresh (default: 50)
	Concurrency int           // max concurrent recomputes (default: 2)
	Timeout     time.Duration // per-recompute timeout (default: 30s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:    5 * time.Minute,
		Timeframes:  []string{"1d", "7d", "30d"},
		Limit:       50,
		Concurrency: 2,
		Timeout:     30 * time.Second,
	}
}

// Refresher periodically recomputes the configured timeframes so dashboard
// requests land on a warm cache instead of paying the fetch cost.
type Refresher struct {
	cfg     Config
	source  LeaderboardSource
	handler RefreshHandler
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Refresher. handler may be nil.
func New(cfg Config, source LeaderboardSource, handler RefreshHandler, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if len(cfg.Timeframes) == 0 {
		cfg.Timeframes = def.Timeframes
	}
	if cfg.Limit <= 0 {
		cfg.Limit = def.Limit
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = def.Concurrency
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	return &Refresher{
		cfg:     cfg,
		source:  source,
		handler: handler,
		logger:  logger,
	}
}

// Start begins the refresh loop.
func (r *Refresher) Start(ctx context.Context) error {
	r.ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go r.run()

	r.logger.Info("leaderboard refresher started",
		"interval", r.cfg.Interval,
		"timeframes", r.cfg.Timeframes,
	)
	return nil
}

// Stop gracefully shuts down the refresher.
func (r *Refresher) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("leaderboard refresher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main refresh loop.
func (r *Refresher) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	// Warm immediately on start.
	r.refreshAll()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.refreshAll()
		}
	}
}

// refreshAll recomputes every configured timeframe concurrently.
func (r *Refresher) refreshAll() {
	start := time.Now()

	// Semaphore for bounded concurrency.
	sem := make(chan struct{}, r.cfg.Concurrency)
	var wg sync.WaitGroup
	var refreshed, errors atomic.Int64

	for _, timeframe := range r.cfg.Timeframes {
		wg.Add(1)
		go func(timeframe string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-r.ctx.Done():
				return
			}

			if err := r.refresh(timeframe); err != nil {
				r.logger.Warn("failed to refresh timeframe",
					"timeframe", timeframe,
					"err", err,
				)
				errors.Add(1)
				return
			}

			refreshed.Add(1)
		}(timeframe)
	}

	wg.Wait()

	r.logger.Info("refresh cycle complete",
		"timeframes", len(r.cfg.Timeframes),
		"refreshed", refreshed.Load(),
		"errors", errors.Load(),
		"duration", time.Since(start),
	)
}

// refresh recomputes one timeframe and hands the response to the handler.
func (r *Refresher) refresh(timeframe string) error {
	ctx, cancel := context.WithTimeout(r.ctx, r.cfg.Timeout)
	defer cancel()

	resp, err := r.source.ComputeLeaderboard(ctx, timeframe, r.cfg.Limit)
	if err != nil {
		return err
	}

	if r.handler != nil {
		r.handler.HandleRefresh(timeframe, resp)
	}
	return nil
}
