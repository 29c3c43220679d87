// Package database provides connection helpers for the backing store.
//
// Deployments choose one driver:
//   - PostgreSQL (pgxpool): shared multi-instance deployments
//   - SQLite: single-host deployments, schema bootstrapped on open
package database
