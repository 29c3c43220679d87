package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/BlakeMcBride1625/8bp-rewards-5.2-Public-sub002/internal/model"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s, err := NewSQLite(db, nil)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	return s
}

func TestSQLite_ClaimRecordRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	records := []model.ClaimRecord{
		{
			ID:           uuid.New(),
			AccountID:    "a1",
			Status:       model.StatusSuccess,
			ItemsClaimed: []string{"coins", "cue"},
			ClaimedAt:    "2025-06-14T08:00:00Z",
		},
		{
			ID:        uuid.New(),
			AccountID: "a1",
			Status:    model.StatusFailed,
			ClaimedAt: "2025-06-15T08:00:00Z",
		},
	}

	inserted, err := s.InsertClaimRecords(ctx, records)
	if err != nil {
		t.Fatalf("InsertClaimRecords: %v", err)
	}
	if inserted != 2 {
		t.Errorf("inserted = %d, want 2", inserted)
	}

	got, err := s.FetchClaimRecords(ctx, model.ClaimFilter{ClaimedFrom: "2025-06-01T00:00:00Z"})
	if err != nil {
		t.Fatalf("FetchClaimRecords: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(got))
	}
	if got[0].ID != records[0].ID {
		t.Errorf("records[0].ID = %v, want %v (claimed_at order)", got[0].ID, records[0].ID)
	}
	if len(got[0].ItemsClaimed) != 2 || got[0].ItemsClaimed[0] != "coins" {
		t.Errorf("ItemsClaimed = %v, want [coins cue]", got[0].ItemsClaimed)
	}
	if len(got[1].ItemsClaimed) != 0 {
		t.Errorf("records[1].ItemsClaimed = %v, want empty", got[1].ItemsClaimed)
	}
}

func TestSQLite_InsertIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := model.ClaimRecord{
		ID:        uuid.New(),
		AccountID: "a1",
		Status:    model.StatusSuccess,
		ClaimedAt: "2025-06-14T08:00:00Z",
	}

	if _, err := s.InsertClaimRecords(ctx, []model.ClaimRecord{rec}); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	inserted, err := s.InsertClaimRecords(ctx, []model.ClaimRecord{rec})
	if err != nil {
		t.Fatalf("replay insert: %v", err)
	}
	if inserted != 0 {
		t.Errorf("replay inserted = %d, want 0", inserted)
	}

	got, err := s.FetchClaimRecords(ctx, model.ClaimFilter{ClaimedFrom: ""})
	if err != nil {
		t.Fatalf("FetchClaimRecords: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("len(records) = %d, want 1", len(got))
	}
}

func TestSQLite_WindowAndAccountFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	records := []model.ClaimRecord{
		{ID: uuid.New(), AccountID: "a1", Status: model.StatusSuccess, ClaimedAt: "2025-05-01T08:00:00Z"},
		{ID: uuid.New(), AccountID: "a1", Status: model.StatusSuccess, ClaimedAt: "2025-06-14T08:00:00Z"},
		{ID: uuid.New(), AccountID: "a2", Status: model.StatusFailed, ClaimedAt: "2025-06-14T09:00:00Z"},
	}
	if _, err := s.InsertClaimRecords(ctx, records); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// Window filter is a lexicographic text comparison.
	windowed, err := s.FetchClaimRecords(ctx, model.ClaimFilter{ClaimedFrom: "2025-06-01T00:00:00Z"})
	if err != nil {
		t.Fatalf("fetch windowed: %v", err)
	}
	if len(windowed) != 2 {
		t.Errorf("windowed records = %d, want 2", len(windowed))
	}

	byAccount, err := s.FetchClaimRecords(ctx, model.ClaimFilter{
		AccountID:   "a1",
		ClaimedFrom: "2025-06-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("fetch by account: %v", err)
	}
	if len(byAccount) != 1 || byAccount[0].AccountID != "a1" {
		t.Errorf("by-account records = %+v, want one a1 record", byAccount)
	}
}

func TestSQLite_ProfileUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	profile := model.AccountProfile{
		AccountID:        "a1",
		Username:         "player",
		DiscordID:        "123456789012345678",
		UseDiscordAvatar: true,
		AccountLevel:     42,
	}
	if err := s.UpsertAccountProfile(ctx, profile); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	profile.Username = "renamed"
	profile.LeaderboardImageURL = "https://img.example.com/lb.png"
	if err := s.UpsertAccountProfile(ctx, profile); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := s.FetchAccountProfiles(ctx, model.ProfileFilter{AccountID: "a1"})
	if err != nil {
		t.Fatalf("FetchAccountProfiles: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(profiles) = %d, want 1 (upsert duplicated a row?)", len(got))
	}
	if got[0].Username != "renamed" {
		t.Errorf("Username = %q, want %q", got[0].Username, "renamed")
	}
	if got[0].LeaderboardImageURL != "https://img.example.com/lb.png" {
		t.Errorf("LeaderboardImageURL = %q, want updated value", got[0].LeaderboardImageURL)
	}
	if !got[0].UseDiscordAvatar || got[0].AccountLevel != 42 {
		t.Errorf("profile = %+v, want UseDiscordAvatar and AccountLevel preserved", got[0])
	}
}

func TestSQLite_ProfileFilterByDiscordID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, p := range []model.AccountProfile{
		{AccountID: "a1", Username: "one", DiscordID: "111"},
		{AccountID: "a2", Username: "two", DiscordID: "222"},
	} {
		if err := s.UpsertAccountProfile(ctx, p); err != nil {
			t.Fatalf("upsert %s: %v", p.AccountID, err)
		}
	}

	got, err := s.FetchAccountProfiles(ctx, model.ProfileFilter{DiscordID: "222"})
	if err != nil {
		t.Fatalf("FetchAccountProfiles: %v", err)
	}
	if len(got) != 1 || got[0].AccountID != "a2" {
		t.Errorf("profiles = %+v, want only a2", got)
	}
}
