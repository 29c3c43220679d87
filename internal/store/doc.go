// Package store persists claim records and account profiles.
//
// Two thin adapters over existing drivers:
//   - Postgres (pgx): batch inserts with ON CONFLICT DO NOTHING, schema
//     provisioned externally
//   - SQLite (mattn): single-host deployments, schema bootstrapped on open
//
// Both return window-filtered claim records in (claimed_at, id) order; the
// leaderboard core treats that storage order as the ranking tie-break order.
package store
