// Package model defines shared data types used across the rewards leaderboard core.
//
// Conventions:
//   - Timestamps: raw stored text, RFC 3339 when written by this repo; compared
//     lexicographically where the source system compared text columns
//   - IDs: string account IDs, uuid.UUID for claim record IDs
//   - Optional strings: "" means absent
package model
