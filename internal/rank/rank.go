package rank

import (
	"math"
	"sort"

	"github.com/BlakeMcBride1625/8bp-rewards-5.2-Public-sub002/internal/model"
)

// Sort orders aggregates by TotalItemsClaimed descending. The sort is stable:
// ties keep the relative order of the input sequence. No secondary key is
// defined upstream, so none is invented here. The input slice is not modified.
func Sort(aggs []model.AccountAggregate) []model.AccountAggregate {
	sorted := make([]model.AccountAggregate, len(aggs))
	copy(sorted, aggs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalItemsClaimed > sorted[j].TotalItemsClaimed
	})
	return sorted
}

// Entries converts sorted aggregates into leaderboard entries ranked 1..N by
// position, then truncates to limit. Truncation happens only after the full
// sort, so limit never changes which accounts outrank which. Identity fields
// are left blank for the resolver to fill. limit <= 0 means no truncation.
func Entries(sorted []model.AccountAggregate, limit int) []model.LeaderboardEntry {
	entries := make([]model.LeaderboardEntry, 0, len(sorted))
	for i, agg := range sorted {
		entries = append(entries, model.LeaderboardEntry{
			Rank:              i + 1,
			AccountID:         agg.AccountID,
			SuccessfulClaims:  agg.SuccessfulClaims,
			FailedClaims:      agg.FailedClaims,
			TotalClaims:       agg.TotalClaims,
			TotalItemsClaimed: agg.TotalItemsClaimed,
			SuccessRate:       SuccessRate(agg.SuccessfulClaims, agg.TotalClaims),
			LastClaimed:       agg.LastClaimed,
		})
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// SuccessRate returns round(successful/total*100) as an integer in [0,100],
// or 0 when total is 0.
func SuccessRate(successful, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(successful) / float64(total) * 100))
}
