package leaderboard

import (
	"testing"
	"time"
)

func TestDays(t *testing.T) {
	tests := []struct {
		token string
		want  int
	}{
		{"1d", 1},
		{"7d", 7},
		{"14d", 14},
		{"28d", 28},
		{"30d", 30},
		{"90d", 90},
		{"1y", 365},
		{"", 7},
		{"2w", 7},
		{"forever", 7},
	}

	for _, tt := range tests {
		if got := Days(tt.token); got != tt.want {
			t.Errorf("Days(%q) = %d, want %d", tt.token, got, tt.want)
		}
	}
}

func TestKnownTimeframe(t *testing.T) {
	if !KnownTimeframe("7d") {
		t.Error("KnownTimeframe(7d) = false, want true")
	}
	if KnownTimeframe("2w") {
		t.Error("KnownTimeframe(2w) = true, want false")
	}
}

func TestWindowStart_ExactDuration(t *testing.T) {
	now := time.Date(2025, 6, 15, 13, 45, 30, 0, time.UTC)

	got := WindowStart(now, "7d")
	want := now.Add(-7 * 24 * time.Hour)
	if !got.Equal(want) {
		t.Errorf("WindowStart(7d) = %v, want %v", got, want)
	}

	// Not calendar-day aligned: time of day is preserved.
	if got.Hour() != 13 || got.Minute() != 45 || got.Second() != 30 {
		t.Errorf("WindowStart(7d) = %v, want time of day preserved", got)
	}
}
