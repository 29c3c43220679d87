// Package rank implements the Ranking Engine.
//
// The Ranking Engine:
//   - Stable-sorts account aggregates by total items claimed, descending
//   - Assigns ranks 1..N by position (ROW_NUMBER semantics)
//   - Computes integer success rates (0-100)
//   - Truncates to the caller's limit only after the full sort
//
// Ties carry no defined secondary key; the stable sort preserves input order,
// which downstream is the store's incidental row order.
package rank
