package refresher

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/BlakeMcBride1625/8bp-rewards-5.2-Public-sub002/internal/leaderboard"
)

// fakeLeaderboard records compute calls per timeframe.
type fakeLeaderboard struct {
	mu    sync.Mutex
	calls map[string]int
	err   error
}

func newFakeLeaderboard() *fakeLeaderboard {
	return &fakeLeaderboard{calls: make(map[string]int)}
}

func (f *fakeLeaderboard) ComputeLeaderboard(ctx context.Context, timeframe string, limit int) (*leaderboard.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[timeframe]++
	if f.err != nil {
		return nil, f.err
	}
	return &leaderboard.Response{Period: timeframe}, nil
}

func (f *fakeLeaderboard) callCount(timeframe string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[timeframe]
}

func stopRefresher(t *testing.T, r *Refresher) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.Stop(ctx); err != nil {
		t.Errorf("Stop: %v", err)
	}
}

func TestRefresher_WarmsOnStart(t *testing.T) {
	src := newFakeLeaderboard()

	var handled atomic.Int64
	handler := RefreshHandlerFunc(func(timeframe string, resp *leaderboard.Response) {
		if resp.Period != timeframe {
			t.Errorf("handler got Period %q for timeframe %q", resp.Period, timeframe)
		}
		handled.Add(1)
	})

	cfg := DefaultConfig()
	cfg.Interval = time.Hour // only the immediate warm runs in this test
	cfg.Timeframes = []string{"1d", "7d", "30d"}

	r := New(cfg, src, handler, nil)
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for handled.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("handled = %d, want 3", handled.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}

	stopRefresher(t, r)

	for _, tf := range cfg.Timeframes {
		if got := src.callCount(tf); got != 1 {
			t.Errorf("compute calls for %s = %d, want 1", tf, got)
		}
	}
}

func TestRefresher_PeriodicRefresh(t *testing.T) {
	src := newFakeLeaderboard()

	cfg := DefaultConfig()
	cfg.Interval = 20 * time.Millisecond
	cfg.Timeframes = []string{"7d"}

	r := New(cfg, src, nil, nil)
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for src.callCount("7d") < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("compute calls = %d, want >= 3", src.callCount("7d"))
		}
		time.Sleep(5 * time.Millisecond)
	}

	stopRefresher(t, r)
}

func TestRefresher_ErrorsDoNotStopLoop(t *testing.T) {
	src := newFakeLeaderboard()
	src.err = errors.New("store down")

	cfg := DefaultConfig()
	cfg.Interval = 20 * time.Millisecond
	cfg.Timeframes = []string{"7d"}

	r := New(cfg, src, nil, nil)
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for src.callCount("7d") < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("compute calls = %d, want >= 2 despite errors", src.callCount("7d"))
		}
		time.Sleep(5 * time.Millisecond)
	}

	stopRefresher(t, r)
}

func TestRefresher_StopBeforeTick(t *testing.T) {
	src := newFakeLeaderboard()

	cfg := DefaultConfig()
	cfg.Interval = time.Hour
	cfg.Timeframes = []string{"1d"}

	r := New(cfg, src, nil, nil)
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Stop must return promptly without waiting for the next tick.
	start := time.Now()
	stopRefresher(t, r)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Stop took %v, want prompt return", elapsed)
	}
}
