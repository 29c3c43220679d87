package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/BlakeMcBride1625/8bp-rewards-5.2-Public-sub002/internal/model"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS claim_records (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		status TEXT NOT NULL,
		items_claimed TEXT NOT NULL DEFAULT '[]',
		claimed_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_claim_records_claimed_at ON claim_records(claimed_at)`,
	`CREATE INDEX IF NOT EXISTS idx_claim_records_account ON claim_records(account_id, claimed_at)`,
	`CREATE TABLE IF NOT EXISTS account_profiles (
		account_id TEXT PRIMARY KEY,
		username TEXT NOT NULL DEFAULT '',
		discord_id TEXT NOT NULL DEFAULT '',
		discord_avatar_hash TEXT NOT NULL DEFAULT '',
		use_discord_avatar INTEGER NOT NULL DEFAULT 0,
		use_discord_username INTEGER NOT NULL DEFAULT 0,
		eight_ball_pool_avatar_filename TEXT NOT NULL DEFAULT '',
		profile_image_url TEXT NOT NULL DEFAULT '',
		leaderboard_image_url TEXT NOT NULL DEFAULT '',
		account_level INTEGER NOT NULL DEFAULT 0,
		account_rank TEXT NOT NULL DEFAULT ''
	)`,
}

// SQLite is the single-host store. The schema is bootstrapped on open;
// items_claimed is stored as JSON text.
type SQLite struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLite creates a SQLite store over an open database, creating tables
// and indexes as needed.
func NewSQLite(db *sql.DB, logger *slog.Logger) (*SQLite, error) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, stmt := range sqliteSchema {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("bootstrap sqlite schema: %w", err)
		}
	}
	return &SQLite{db: db, logger: logger}, nil
}

// FetchClaimRecords returns window-filtered records in (claimed_at, id)
// order, the incidental tie-break order the ranking stage preserves.
func (s *SQLite) FetchClaimRecords(ctx context.Context, filter model.ClaimFilter) ([]model.ClaimRecord, error) {
	query := `
		SELECT id, account_id, status, items_claimed, claimed_at
		FROM claim_records
		WHERE claimed_at >= ?
	`
	args := []any{filter.ClaimedFrom}
	if filter.AccountID != "" {
		query += " AND account_id = ?"
		args = append(args, filter.AccountID)
	}
	query += " ORDER BY claimed_at, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query claim records: %w", err)
	}
	defer rows.Close()

	var records []model.ClaimRecord
	for rows.Next() {
		var (
			rec       model.ClaimRecord
			id        string
			itemsJSON string
		)
		if err := rows.Scan(&id, &rec.AccountID, &rec.Status, &itemsJSON, &rec.ClaimedAt); err != nil {
			return nil, fmt.Errorf("scan claim record: %w", err)
		}
		rec.ID, _ = uuid.Parse(id)
		if err := json.Unmarshal([]byte(itemsJSON), &rec.ItemsClaimed); err != nil {
			s.logger.Warn("malformed items_claimed, treating as empty",
				"record_id", id,
				"error", err,
			)
			rec.ItemsClaimed = nil
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// FetchAccountProfiles returns profiles matching the filter.
func (s *SQLite) FetchAccountProfiles(ctx context.Context, filter model.ProfileFilter) ([]model.AccountProfile, error) {
	query := `
		SELECT account_id, username, discord_id, discord_avatar_hash,
		       use_discord_avatar, use_discord_username,
		       eight_ball_pool_avatar_filename, profile_image_url,
		       leaderboard_image_url, account_level, account_rank
		FROM account_profiles
		WHERE 1=1
	`
	var args []any
	if filter.AccountID != "" {
		query += " AND account_id = ?"
		args = append(args, filter.AccountID)
	}
	if filter.DiscordID != "" {
		query += " AND discord_id = ?"
		args = append(args, filter.DiscordID)
	}
	query += " ORDER BY account_id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query account profiles: %w", err)
	}
	defer rows.Close()

	var profiles []model.AccountProfile
	for rows.Next() {
		var p model.AccountProfile
		if err := rows.Scan(
			&p.AccountID, &p.Username, &p.DiscordID, &p.DiscordAvatarHash,
			&p.UseDiscordAvatar, &p.UseDiscordUsername,
			&p.EightBallPoolAvatarFilename, &p.ProfileImageURL,
			&p.LeaderboardImageURL, &p.AccountLevel, &p.AccountRank,
		); err != nil {
			return nil, fmt.Errorf("scan account profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// InsertClaimRecords writes records with INSERT OR IGNORE so replayed claims
// are idempotent. Returns the number of rows inserted.
func (s *SQLite) InsertClaimRecords(ctx context.Context, records []model.ClaimRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert transaction: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	for _, rec := range records {
		id := rec.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		items := rec.ItemsClaimed
		if items == nil {
			items = []string{}
		}
		itemsJSON, err := json.Marshal(items)
		if err != nil {
			return inserted, fmt.Errorf("marshal items: %w", err)
		}

		res, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO claim_records (id, account_id, status, items_claimed, claimed_at)
			VALUES (?, ?, ?, ?, ?)
		`, id.String(), rec.AccountID, string(rec.Status), string(itemsJSON), rec.ClaimedAt)
		if err != nil {
			return inserted, fmt.Errorf("insert claim record: %w", err)
		}
		n, _ := res.RowsAffected()
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert transaction: %w", err)
	}

	if conflicts := len(records) - inserted; conflicts > 0 {
		s.logger.Debug("skipped duplicate claim records", "conflicts", conflicts)
	}
	return inserted, nil
}

// UpsertAccountProfile writes a profile, replacing any existing row for the
// account.
func (s *SQLite) UpsertAccountProfile(ctx context.Context, profile model.AccountProfile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO account_profiles (
			account_id, username, discord_id, discord_avatar_hash,
			use_discord_avatar, use_discord_username,
			eight_ball_pool_avatar_filename, profile_image_url,
			leaderboard_image_url, account_level, account_rank
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (account_id) DO UPDATE SET
			username = excluded.username,
			discord_id = excluded.discord_id,
			discord_avatar_hash = excluded.discord_avatar_hash,
			use_discord_avatar = excluded.use_discord_avatar,
			use_discord_username = excluded.use_discord_username,
			eight_ball_pool_avatar_filename = excluded.eight_ball_pool_avatar_filename,
			profile_image_url = excluded.profile_image_url,
			leaderboard_image_url = excluded.leaderboard_image_url,
			account_level = excluded.account_level,
			account_rank = excluded.account_rank
	`,
		profile.AccountID, profile.Username, profile.DiscordID, profile.DiscordAvatarHash,
		profile.UseDiscordAvatar, profile.UseDiscordUsername,
		profile.EightBallPoolAvatarFilename, profile.ProfileImageURL,
		profile.LeaderboardImageURL, profile.AccountLevel, profile.AccountRank,
	)
	if err != nil {
		return fmt.Errorf("upsert account profile: %w", err)
	}
	return nil
}

// Ping verifies the database is reachable.
func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
