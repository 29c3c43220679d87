package leaderboard

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/BlakeMcBride1625/8bp-rewards-5.2-Public-sub002/internal/cache"
	"github.com/BlakeMcBride1625/8bp-rewards-5.2-Public-sub002/internal/identity"
	"github.com/BlakeMcBride1625/8bp-rewards-5.2-Public-sub002/internal/model"
	"github.com/BlakeMcBride1625/8bp-rewards-5.2-Public-sub002/internal/rank"
	"github.com/BlakeMcBride1625/8bp-rewards-5.2-Public-sub002/internal/reconcile"
)

// Source provides raw claim records and account profiles. The store package
// implements it; tests use fakes.
type Source interface {
	FetchClaimRecords(ctx context.Context, filter model.ClaimFilter) ([]model.ClaimRecord, error)
	FetchAccountProfiles(ctx context.Context, filter model.ProfileFilter) ([]model.AccountProfile, error)
}

// Config holds engine configuration.
type Config struct {
	CacheTTL     time.Duration  // validity of a cached response (default: 30s)
	CacheEntries int            // response cache bound (default: 10)
	DefaultLimit int            // entry limit when the caller passes <= 0 (default: 50)
	FetchTimeout time.Duration  // upstream fetch bound (default: 15s)
	Location     *time.Location // reference timezone for calendar dates (default: UTC)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		CacheTTL:     cache.DefaultTTL,
		CacheEntries: cache.DefaultMaxEntries,
		DefaultLimit: 50,
		FetchTimeout: 15 * time.Second,
		Location:     time.UTC,
	}
}

// Response is a composed leaderboard for one timeframe.
//
// TotalSuccessfulClaims and TotalFailedClaims are raw window-wide counts
// without the same-day dedup applied to per-entry totals. The source system
// computed the summary with a separate query that skipped the dedup rule;
// the asymmetry is reproduced, not reconciled.
type Response struct {
	Period                string                   `json:"period"`
	TotalUsers            int                      `json:"totalUsers"`
	TotalSuccessfulClaims int                      `json:"totalSuccessfulClaims"`
	TotalFailedClaims     int                      `json:"totalFailedClaims"`
	Entries               []model.LeaderboardEntry `json:"entries"`
}

// AccountRanking is one account's position within a timeframe.
type AccountRanking struct {
	Rank      int                    `json:"rank"`
	Aggregate model.AccountAggregate `json:"aggregate"`
}

// Key identifies one cached leaderboard response.
type Key struct {
	Timeframe string
	Limit     int
}

// Stats holds engine counters.
type Stats struct {
	Computes  int64
	CacheHits int64
	Degraded  int64
	Cache     cache.Stats
}

// Engine computes ranked leaderboards from raw claim records.
//
// Reconciliation, ranking and identity resolution are pure over the fetched
// snapshot; the response cache is the only shared mutable state. Fetch
// failures fail open: the engine logs and returns a zeroed response instead
// of propagating the error. Retry policy belongs to the caller.
type Engine struct {
	cfg        Config
	source     Source
	reconciler *reconcile.Reconciler
	cache      *cache.TTLCache[Key, *Response]
	logger     *slog.Logger
	now        func() time.Time

	computes  atomic.Int64
	cacheHits atomic.Int64
	degraded  atomic.Int64
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used for window starts and cache timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New creates an Engine.
func New(cfg Config, source Source, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = def.CacheTTL
	}
	if cfg.CacheEntries <= 0 {
		cfg.CacheEntries = def.CacheEntries
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = def.DefaultLimit
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = def.FetchTimeout
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	e := &Engine{
		cfg:        cfg,
		source:     source,
		reconciler: reconcile.New(cfg.Location),
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.cache = cache.NewWithClock[Key, *Response](cfg.CacheTTL, cfg.CacheEntries, e.now)
	return e
}

// ComputeLeaderboard returns the ranked leaderboard for a timeframe token,
// serving from cache when a response younger than the TTL exists for the
// (timeframe, limit) pair. limit <= 0 means the configured default.
func (e *Engine) ComputeLeaderboard(ctx context.Context, timeframe string, limit int) (*Response, error) {
	if limit <= 0 {
		limit = e.cfg.DefaultLimit
	}

	key := Key{Timeframe: timeframe, Limit: limit}
	if resp, ok := e.cache.Get(key); ok {
		e.cacheHits.Add(1)
		return resp, nil
	}

	records, profiles, err := e.fetch(ctx, model.ClaimFilter{
		ClaimedFrom: WindowStart(e.now(), timeframe).UTC().Format(time.RFC3339),
	})
	if err != nil {
		// Caller cancellation is not a degraded result.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e.degraded.Add(1)
		e.logger.Warn("leaderboard fetch failed, serving empty response",
			"timeframe", timeframe,
			"error", err,
		)
		return emptyResponse(timeframe), nil
	}

	resp := e.compose(timeframe, limit, records, profiles)

	// Degraded responses never reach the cache; only computed ones do.
	e.cache.Set(key, resp)
	e.computes.Add(1)
	return resp, nil
}

// ComputeAccountRanking returns one account's rank and aggregate within a
// timeframe. An account with no records in the window ranks one past the
// ranked list with a zeroed aggregate. Results are not cached.
func (e *Engine) ComputeAccountRanking(ctx context.Context, accountID, timeframe string) (*AccountRanking, error) {
	records, err := e.fetchRecords(ctx, model.ClaimFilter{
		ClaimedFrom: WindowStart(e.now(), timeframe).UTC().Format(time.RFC3339),
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e.degraded.Add(1)
		e.logger.Warn("account ranking fetch failed, serving zero result",
			"account_id", accountID,
			"timeframe", timeframe,
			"error", err,
		)
		return &AccountRanking{Aggregate: model.AccountAggregate{AccountID: accountID}}, nil
	}

	aggs := e.reconciler.AggregateAll(records)
	e.verifyTotals(aggs)
	ranked := rank.Sort(aggs)

	for i, agg := range ranked {
		if agg.AccountID == accountID {
			return &AccountRanking{Rank: i + 1, Aggregate: agg}, nil
		}
	}
	return &AccountRanking{
		Rank:      len(ranked) + 1,
		Aggregate: model.AccountAggregate{AccountID: accountID},
	}, nil
}

// InvalidateCache drops every cached response. External collaborators call
// this whenever claim records or account profiles change.
func (e *Engine) InvalidateCache() {
	e.cache.Clear()
	e.logger.Debug("leaderboard cache invalidated")
}

// Stats returns current counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Computes:  e.computes.Load(),
		CacheHits: e.cacheHits.Load(),
		Degraded:  e.degraded.Load(),
		Cache:     e.cache.Stats(),
	}
}

// fetch loads window records and all profiles concurrently, bounded by the
// configured fetch timeout.
func (e *Engine) fetch(ctx context.Context, filter model.ClaimFilter) ([]model.ClaimRecord, []model.AccountProfile, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout)
	defer cancel()

	var (
		records  []model.ClaimRecord
		profiles []model.AccountProfile
	)

	g, gctx := errgroup.WithContext(fetchCtx)
	g.Go(func() error {
		var err error
		records, err = e.source.FetchClaimRecords(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		profiles, err = e.source.FetchAccountProfiles(gctx, model.ProfileFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return records, profiles, nil
}

func (e *Engine) fetchRecords(ctx context.Context, filter model.ClaimFilter) ([]model.ClaimRecord, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout)
	defer cancel()
	return e.source.FetchClaimRecords(fetchCtx, filter)
}

// compose reconciles, ranks and enriches one leaderboard response.
func (e *Engine) compose(timeframe string, limit int, records []model.ClaimRecord, profiles []model.AccountProfile) *Response {
	aggs := e.reconciler.AggregateAll(records)
	e.verifyTotals(aggs)

	entries := rank.Entries(rank.Sort(aggs), limit)

	byAccount := make(map[string]model.AccountProfile, len(profiles))
	for _, p := range profiles {
		byAccount[p.AccountID] = p
	}
	for i := range entries {
		// A missing profile resolves through a zero value: empty username,
		// nil avatar. No Discord session exists in this context.
		id := identity.Resolve(byAccount[entries[i].AccountID], "")
		entries[i].DisplayUsername = id.DisplayUsername
		entries[i].AvatarURL = id.AvatarURL
	}

	resp := &Response{
		Period:     timeframe,
		TotalUsers: len(aggs),
		Entries:    entries,
	}
	// Window-wide summary over raw records, dedup not applied. Diverges from
	// the per-entry deduped totals on mixed days; preserved from the source.
	for _, rec := range records {
		if rec.Status == model.StatusSuccess {
			resp.TotalSuccessfulClaims++
		} else {
			resp.TotalFailedClaims++
		}
	}
	return resp
}

// verifyTotals checks the aggregate invariant and proceeds with the
// recomputed total on mismatch. A mismatch is a data-integrity warning, not
// an error.
func (e *Engine) verifyTotals(aggs []model.AccountAggregate) {
	for i := range aggs {
		sum := aggs[i].SuccessfulClaims + aggs[i].FailedClaims
		if aggs[i].TotalClaims != sum {
			e.logger.Warn("claim total mismatch, using recomputed total",
				"account_id", aggs[i].AccountID,
				"total_claims", aggs[i].TotalClaims,
				"recomputed", sum,
			)
			aggs[i].TotalClaims = sum
		}
	}
}

func emptyResponse(timeframe string) *Response {
	return &Response{
		Period:  timeframe,
		Entries: []model.LeaderboardEntry{},
	}
}
