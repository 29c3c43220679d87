// Package leaderboard composes the reward-claim leaderboard.
//
// The Engine:
//   - Fetches window-filtered claim records and profiles from a Source
//   - Reconciles them with the same-day dedup rule (internal/reconcile)
//   - Ranks aggregates by total items claimed (internal/rank)
//   - Enriches entries with resolved display identities (internal/identity)
//   - Memoizes composed responses in a bounded TTL cache (internal/cache)
//
// Fetch failures fail open to an empty response; caller cancellation
// propagates as the context error with no partial state written.
package leaderboard
