package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BlakeMcBride1625/8bp-rewards-5.2-Public-sub002/internal/config"
	"github.com/BlakeMcBride1625/8bp-rewards-5.2-Public-sub002/internal/database"
	"github.com/BlakeMcBride1625/8bp-rewards-5.2-Public-sub002/internal/model"
)

// Store persists claim records and account profiles. The read side is the
// leaderboard engine's Source; the write side exists for the external
// claiming process and account-management flows.
type Store interface {
	FetchClaimRecords(ctx context.Context, filter model.ClaimFilter) ([]model.ClaimRecord, error)
	FetchAccountProfiles(ctx context.Context, filter model.ProfileFilter) ([]model.AccountProfile, error)

	// InsertClaimRecords writes records idempotently, returning the number
	// actually inserted. Records whose ID already exists are skipped.
	InsertClaimRecords(ctx context.Context, records []model.ClaimRecord) (int, error)
	UpsertAccountProfile(ctx context.Context, profile model.AccountProfile) error

	Ping(ctx context.Context) error
	Close() error
}

// Open creates the store selected by the database config.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (Store, error) {
	switch cfg.Driver {
	case "postgres":
		pool, err := database.Connect(ctx, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return NewPostgres(pool, logger), nil
	case "sqlite":
		db, err := database.OpenSQLite(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return NewSQLite(db, logger)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
