// Package cache provides the Result Cache for computed leaderboard responses.
//
// The source system used a bare global map with a TTL; here the cache is an
// explicit instance with an injected clock and an external Clear hook, so
// invalidation and expiry are deterministic under test. Eviction is strict
// FIFO by insertion order, never LRU-by-access.
package cache
