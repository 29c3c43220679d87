package leaderboard

import "time"

// DefaultTimeframeDays is used for unrecognized timeframe tokens.
const DefaultTimeframeDays = 7

// timeframeDays maps caller-supplied lookback tokens to day counts.
var timeframeDays = map[string]int{
	"1d":  1,
	"7d":  7,
	"14d": 14,
	"28d": 28,
	"30d": 30,
	"90d": 90,
	"1y":  365,
}

// Days returns the day count for a timeframe token. Unrecognized tokens
// default to 7.
func Days(token string) int {
	if days, ok := timeframeDays[token]; ok {
		return days
	}
	return DefaultTimeframeDays
}

// KnownTimeframe reports whether token maps to a defined day count.
func KnownTimeframe(token string) bool {
	_, ok := timeframeDays[token]
	return ok
}

// WindowStart returns now minus the token's day count as an exact duration.
// The window is not calendar-day aligned.
func WindowStart(now time.Time, token string) time.Time {
	return now.Add(-time.Duration(Days(token)) * 24 * time.Hour)
}
