// Package live implements the dashboard push hub.
//
// The hub:
//   - Accepts WebSocket connections from dashboard clients
//   - Broadcasts JSON update envelopes (leaderboard-refresh, cache-invalidated)
//   - Drops clients that fall behind their send buffer
//
// Clients hold no server-side state beyond the connection; on any update they
// re-fetch over the HTTP API.
package live
