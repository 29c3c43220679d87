package model

import "github.com/google/uuid"

// ClaimStatus is the outcome of a single claim attempt.
type ClaimStatus string

const (
	StatusSuccess ClaimStatus = "success"
	StatusFailed  ClaimStatus = "failed"
)

// Valid reports whether s is a known claim status.
func (s ClaimStatus) Valid() bool {
	return s == StatusSuccess || s == StatusFailed
}

// ClaimRecord is one logged attempt to collect an in-game reward for an
// account. Records are written by the external claiming process and are
// immutable once created.
type ClaimRecord struct {
	ID           uuid.UUID   `json:"id"`
	AccountID    string      `json:"accountId"`
	Status       ClaimStatus `json:"status"`
	ItemsClaimed []string    `json:"itemsClaimed"` // ordered, may be empty
	// ClaimedAt is the raw stored timestamp text (RFC 3339 when written by
	// this repo's stores). Comparisons the source system did with SQL MAX/>=
	// over text columns are reproduced as lexicographic string comparisons.
	ClaimedAt string `json:"claimedAt"`
}

// AccountProfile holds display identity fields for an account. Owned and
// mutated by external account-management flows; read-only here. Optional
// string fields use "" for absent.
type AccountProfile struct {
	AccountID                   string `json:"accountId"`
	Username                    string `json:"username"`
	DiscordID                   string `json:"discordId,omitempty"`
	DiscordAvatarHash           string `json:"discordAvatarHash,omitempty"`
	UseDiscordAvatar            bool   `json:"useDiscordAvatar"`
	UseDiscordUsername          bool   `json:"useDiscordUsername"`
	EightBallPoolAvatarFilename string `json:"eightBallPoolAvatarFilename,omitempty"`
	ProfileImageURL             string `json:"profileImageUrl,omitempty"`
	LeaderboardImageURL         string `json:"leaderboardImageUrl,omitempty"`
	AccountLevel                int    `json:"accountLevel,omitempty"`
	AccountRank                 string `json:"accountRank,omitempty"`
}

// AccountAggregate is the reconciled per-account view of a claim window.
// Derived, never persisted.
//
// Invariant: TotalClaims == SuccessfulClaims + FailedClaims.
type AccountAggregate struct {
	AccountID         string `json:"accountId"`
	SuccessfulClaims  int    `json:"successfulClaims"`
	FailedClaims      int    `json:"failedClaims"`
	TotalClaims       int    `json:"totalClaims"`
	TotalItemsClaimed int    `json:"totalItemsClaimed"`
	LastClaimed       string `json:"lastClaimed"`
}

// LeaderboardEntry is one ranked row of a computed leaderboard.
type LeaderboardEntry struct {
	Rank              int     `json:"rank"`
	AccountID         string  `json:"accountId"`
	DisplayUsername   string  `json:"displayUsername"`
	AvatarURL         *string `json:"avatarUrl"` // null = caller renders initial-letter fallback
	SuccessfulClaims  int     `json:"successfulClaims"`
	FailedClaims      int     `json:"failedClaims"`
	TotalClaims       int     `json:"totalClaims"`
	TotalItemsClaimed int     `json:"totalItemsClaimed"`
	SuccessRate       int     `json:"successRate"` // 0-100 integer
	LastClaimed       string  `json:"lastClaimed"`
}

// ClaimFilter selects claim records from a store.
type ClaimFilter struct {
	AccountID   string // optional; "" = all accounts
	ClaimedFrom string // RFC 3339 text, compared lexicographically against ClaimedAt
}

// ProfileFilter selects account profiles from a store.
type ProfileFilter struct {
	AccountID string // optional
	DiscordID string // optional
}
