package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BlakeMcBride1625/8bp-rewards-5.2-Public-sub002/internal/model"
)

// Postgres is the PostgreSQL store for shared multi-instance deployments.
// Schema is assumed provisioned by migrations.
type Postgres struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgres creates a Postgres store over an existing pool.
func NewPostgres(db *pgxpool.Pool, logger *slog.Logger) *Postgres {
	if logger == nil {
		logger = slog.Default()
	}
	return &Postgres{db: db, logger: logger}
}

// FetchClaimRecords returns window-filtered records. Rows come back in
// (claimed_at, id) order; that storage order is the incidental tie-break
// order the ranking stage preserves.
func (s *Postgres) FetchClaimRecords(ctx context.Context, filter model.ClaimFilter) ([]model.ClaimRecord, error) {
	query := `
		SELECT id, account_id, status, items_claimed, claimed_at
		FROM claim_records
		WHERE claimed_at >= $1
	`
	args := []any{filter.ClaimedFrom}
	if filter.AccountID != "" {
		query += " AND account_id = $2"
		args = append(args, filter.AccountID)
	}
	query += " ORDER BY claimed_at, id"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query claim records: %w", err)
	}
	defer rows.Close()

	var records []model.ClaimRecord
	for rows.Next() {
		var (
			rec   model.ClaimRecord
			id    string
			items []string
		)
		if err := rows.Scan(&id, &rec.AccountID, &rec.Status, &items, &rec.ClaimedAt); err != nil {
			return nil, fmt.Errorf("scan claim record: %w", err)
		}
		rec.ID, _ = uuid.Parse(id)
		rec.ItemsClaimed = items
		records = append(records, rec)
	}
	return records, rows.Err()
}

// FetchAccountProfiles returns profiles matching the filter.
func (s *Postgres) FetchAccountProfiles(ctx context.Context, filter model.ProfileFilter) ([]model.AccountProfile, error) {
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
		args = append(args, filter.AccountID)
		query += fmt.Sprintf(" AND account_id = $%d", len(args))
	}
	if filter.DiscordID != "" {
		args = append(args, filter.DiscordID)
		query += fmt.Sprintf(" AND discord_id = $%d", len(args))
	}
	query += " ORDER BY account_id"

	rows, err := s.db.Query(ctx, query, args...)
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

// InsertClaimRecords batch-inserts records with ON CONFLICT DO NOTHING, so
// replayed claims are idempotent. Returns the number of rows inserted.
func (s *Postgres) InsertClaimRecords(ctx context.Context, records []model.ClaimRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, rec := range records {
		id := rec.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		batch.Queue(`
			INSERT INTO claim_records (id, account_id, status, items_claimed, claimed_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO NOTHING
		`, id.String(), rec.AccountID, string(rec.Status), rec.ItemsClaimed, rec.ClaimedAt)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range records {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("insert claim record: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}

	if conflicts := len(records) - inserted; conflicts > 0 {
		s.logger.Debug("skipped duplicate claim records", "conflicts", conflicts)
	}
	return inserted, nil
}

// UpsertAccountProfile writes a profile, replacing any existing row for the
// account.
func (s *Postgres) UpsertAccountProfile(ctx context.Context, profile model.AccountProfile) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO account_profiles (
			account_id, username, discord_id, discord_avatar_hash,
			use_discord_avatar, use_discord_username,
			eight_ball_pool_avatar_filename, profile_image_url,
			leaderboard_image_url, account_level, account_rank
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (account_id) DO UPDATE SET
			username = EXCLUDED.username,
			discord_id = EXCLUDED.discord_id,
			discord_avatar_hash = EXCLUDED.discord_avatar_hash,
			use_discord_avatar = EXCLUDED.use_discord_avatar,
			use_discord_username = EXCLUDED.use_discord_username,
			eight_ball_pool_avatar_filename = EXCLUDED.eight_ball_pool_avatar_filename,
			profile_image_url = EXCLUDED.profile_image_url,
			leaderboard_image_url = EXCLUDED.leaderboard_image_url,
			account_level = EXCLUDED.account_level,
			account_rank = EXCLUDED.account_rank
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

// Ping verifies the connection is healthy.
func (s *Postgres) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close releases the pool.
func (s *Postgres) Close() error {
	s.db.Close()
	return nil
}
