// Package server exposes the leaderboard engine over HTTP.
//
// Routes:
//   - GET  /health
//   - GET  /api/leaderboard?timeframe=&limit=
//   - GET  /api/leaderboard/accounts/{accountId}?timeframe=
//   - POST /api/cache/invalidate
//   - GET  /ws (when the live hub is enabled)
//
// Thin glue: handlers parse query parameters and JSON-encode engine output
// verbatim. No auth, no middleware stack.
package server
