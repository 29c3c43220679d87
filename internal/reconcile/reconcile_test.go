package reconcile

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/BlakeMcBride1625/8bp-rewards-5.2-Public-sub002/internal/model"
)

func rec(accountID string, status model.ClaimStatus, claimedAt string, items ...string) model.ClaimRecord {
	return model.ClaimRecord{
		AccountID:    accountID,
		Status:       status,
		ItemsClaimed: items,
		ClaimedAt:    claimedAt,
	}
}

func TestReconciler_Aggregate(t *testing.T) {
	r := New(nil)

	tests := []struct {
		name    string
		records []model.ClaimRecord
		want    model.AccountAggregate
	}{
		{
			name:    "empty window",
			records: nil,
			want:    model.AccountAggregate{AccountID: "a1"},
		},
		{
			// Scenario: success and failure on D1, lone failure on D2.
			// The D1 failure is suppressed; the D2 failure counts.
			name: "success suppresses same-day failure",
			records: []model.ClaimRecord{
				rec("a1", model.StatusSuccess, "2025-06-01T08:00:00Z", "coins", "cue"),
				rec("a1", model.StatusFailed, "2025-06-01T20:00:00Z"),
				rec("a1", model.StatusFailed, "2025-06-02T08:00:00Z"),
			},
			want: model.AccountAggregate{
				AccountID:         "a1",
				SuccessfulClaims:  1,
				FailedClaims:      1,
				TotalClaims:       2,
				TotalItemsClaimed: 2,
				LastClaimed:       "2025-06-02T08:00:00Z",
			},
		},
		{
			name: "failures never exclude themselves",
			records: []model.ClaimRecord{
				rec("a1", model.StatusFailed, "2025-06-01T08:00:00Z"),
				rec("a1", model.StatusFailed, "2025-06-01T09:00:00Z"),
			},
			want: model.AccountAggregate{
				AccountID:    "a1",
				FailedClaims: 2,
				TotalClaims:  2,
				LastClaimed:  "2025-06-01T09:00:00Z",
			},
		},
		{
			name: "successes are never deduped against each other",
			records: []model.ClaimRecord{
				rec("a1", model.StatusSuccess, "2025-06-01T08:00:00Z", "coins"),
				rec("a1", model.StatusSuccess, "2025-06-01T09:00:00Z", "cash", "cue"),
			},
			want: model.AccountAggregate{
				AccountID:         "a1",
				SuccessfulClaims:  2,
				TotalClaims:       2,
				TotalItemsClaimed: 3,
				LastClaimed:       "2025-06-01T09:00:00Z",
			},
		},
		{
			// Failure arrives before the success in input order; the bucket
			// still suppresses it.
			name: "dedup is order independent within a day",
			records: []model.ClaimRecord{
				rec("a1", model.StatusFailed, "2025-06-01T06:00:00Z"),
				rec("a1", model.StatusSuccess, "2025-06-01T23:00:00Z", "coins"),
			},
			want: model.AccountAggregate{
				AccountID:         "a1",
				SuccessfulClaims:  1,
				TotalClaims:       1,
				TotalItemsClaimed: 1,
				LastClaimed:       "2025-06-01T23:00:00Z",
			},
		},
		{
			name: "sqlite datetime layout accepted",
			records: []model.ClaimRecord{
				rec("a1", model.StatusSuccess, "2025-06-01 08:00:00", "coins"),
				rec("a1", model.StatusFailed, "2025-06-01 20:00:00"),
			},
			want: model.AccountAggregate{
				AccountID:         "a1",
				SuccessfulClaims:  1,
				TotalClaims:       1,
				TotalItemsClaimed: 1,
				LastClaimed:       "2025-06-01 20:00:00",
			},
		},
		{
			// Two failures with identical garbage timestamps land in separate
			// buckets; a same-garbage success suppresses neither.
			name: "unparseable timestamps never merge",
			records: []model.ClaimRecord{
				rec("a1", model.StatusSuccess, "not-a-date", "coins"),
				rec("a1", model.StatusFailed, "not-a-date"),
				rec("a1", model.StatusFailed, "not-a-date"),
			},
			want: model.AccountAggregate{
				AccountID:         "a1",
				SuccessfulClaims:  1,
				FailedClaims:      2,
				TotalClaims:       3,
				TotalItemsClaimed: 1,
				LastClaimed:       "not-a-date",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Aggregate("a1", tt.records)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Aggregate() = %+v, want %+v", got, tt.want)
			}
			if got.TotalClaims != got.SuccessfulClaims+got.FailedClaims {
				t.Errorf("TotalClaims = %d, want SuccessfulClaims+FailedClaims = %d",
					got.TotalClaims, got.SuccessfulClaims+got.FailedClaims)
			}
		})
	}
}

func TestReconciler_Aggregate_Timezone(t *testing.T) {
	// 2025-06-01T23:30:00Z is already 2025-06-02 in UTC+2, so the success and
	// failure split across days there and the failure survives.
	loc := time.FixedZone("UTC+2", 2*60*60)

	records := []model.ClaimRecord{
		rec("a1", model.StatusFailed, "2025-06-01T10:00:00Z"),
		rec("a1", model.StatusSuccess, "2025-06-01T23:30:00Z", "coins"),
	}

	utc := New(time.UTC).Aggregate("a1", records)
	if utc.FailedClaims != 0 {
		t.Errorf("UTC FailedClaims = %d, want 0 (same day as success)", utc.FailedClaims)
	}

	shifted := New(loc).Aggregate("a1", records)
	if shifted.FailedClaims != 1 {
		t.Errorf("UTC+2 FailedClaims = %d, want 1 (success rolled to next day)", shifted.FailedClaims)
	}
}

func TestReconciler_Aggregate_Idempotent(t *testing.T) {
	r := New(nil)
	records := []model.ClaimRecord{
		rec("a1", model.StatusSuccess, "2025-06-01T08:00:00Z", "coins"),
		rec("a1", model.StatusFailed, "2025-06-01T20:00:00Z"),
		rec("a1", model.StatusFailed, "bogus"),
	}

	first := r.Aggregate("a1", records)
	for i := 0; i < 10; i++ {
		if got := r.Aggregate("a1", records); !reflect.DeepEqual(got, first) {
			t.Fatalf("invocation %d = %+v, want %+v", i, got, first)
		}
	}
}

func TestGroupByAccount(t *testing.T) {
	records := []model.ClaimRecord{
		rec("b", model.StatusSuccess, "2025-06-01T08:00:00Z"),
		rec("a", model.StatusFailed, "2025-06-01T09:00:00Z"),
		rec("b", model.StatusFailed, "2025-06-02T08:00:00Z"),
		rec("c", model.StatusSuccess, "2025-06-02T09:00:00Z"),
	}

	order, groups := GroupByAccount(records)

	wantOrder := []string{"b", "a", "c"}
	if !reflect.DeepEqual(order, wantOrder) {
		t.Errorf("order = %v, want %v", order, wantOrder)
	}
	if len(groups["b"]) != 2 || len(groups["a"]) != 1 || len(groups["c"]) != 1 {
		t.Errorf("group sizes = b:%d a:%d c:%d, want b:2 a:1 c:1",
			len(groups["b"]), len(groups["a"]), len(groups["c"]))
	}
}

func TestReconciler_AggregateAll_Order(t *testing.T) {
	r := New(nil)

	var records []model.ClaimRecord
	accounts := []string{"y", "z", "w"}
	for _, id := range accounts {
		records = append(records, rec(id, model.StatusSuccess, "2025-06-01T08:00:00Z"))
	}

	aggs := r.AggregateAll(records)
	if len(aggs) != len(accounts) {
		t.Fatalf("len(aggs) = %d, want %d", len(aggs), len(accounts))
	}
	for i, id := range accounts {
		if aggs[i].AccountID != id {
			t.Errorf("aggs[%d].AccountID = %q, want %q", i, aggs[i].AccountID, id)
		}
	}
}

func TestReconciler_Aggregate_Concurrent(t *testing.T) {
	r := New(nil)
	records := make([]model.ClaimRecord, 0, 100)
	for i := 0; i < 100; i++ {
		status := model.StatusSuccess
		if i%3 == 0 {
			status = model.StatusFailed
		}
		records = append(records, rec("a1", status,
			fmt.Sprintf("2025-06-%02dT08:00:00Z", i%28+1), "item"))
	}
	want := r.Aggregate("a1", records)

	done := make(chan model.AccountAggregate, 8)
	for i := 0; i < 8; i++ {
		go func() {
			done <- r.Aggregate("a1", records)
		}()
	}
	for i := 0; i < 8; i++ {
		if got := <-done; !reflect.DeepEqual(got, want) {
			t.Errorf("concurrent Aggregate() = %+v, want %+v", got, want)
		}
	}
}
