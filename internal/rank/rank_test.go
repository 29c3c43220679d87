package rank

import (
	"testing"

	"github.com/BlakeMcBride1625/8bp-rewards-5.2-Public-sub002/internal/model"
)

func agg(accountID string, successful, failed, items int) model.AccountAggregate {
	return model.AccountAggregate{
		AccountID:         accountID,
		SuccessfulClaims:  successful,
		FailedClaims:      failed,
		TotalClaims:       successful + failed,
		TotalItemsClaimed: items,
	}
}

func TestSort_DescendingByItems(t *testing.T) {
	input := []model.AccountAggregate{
		agg("a", 1, 0, 3),
		agg("b", 1, 0, 9),
		agg("c", 1, 0, 5),
	}

	sorted := Sort(input)

	wantOrder := []string{"b", "c", "a"}
	for i, id := range wantOrder {
		if sorted[i].AccountID != id {
			t.Errorf("sorted[%d] = %q, want %q", i, sorted[i].AccountID, id)
		}
	}

	// Input untouched.
	if input[0].AccountID != "a" {
		t.Errorf("input mutated: input[0] = %q, want %q", input[0].AccountID, "a")
	}

	for i := 0; i < len(sorted)-1; i++ {
		if sorted[i].TotalItemsClaimed > sorted[i+1].TotalItemsClaimed {
			continue
		}
		if sorted[i].TotalItemsClaimed < sorted[i+1].TotalItemsClaimed {
			t.Errorf("sorted[%d].TotalItemsClaimed = %d < sorted[%d] = %d",
				i, sorted[i].TotalItemsClaimed, i+1, sorted[i+1].TotalItemsClaimed)
		}
	}
}

func TestSort_TiesKeepInputOrder(t *testing.T) {
	// Scenario: totals [10, 7, 7] in input order [y, z, w]. Rank 1 is y;
	// rank 2 is whichever tied account appears first in the input.
	input := []model.AccountAggregate{
		agg("y", 5, 0, 10),
		agg("z", 3, 0, 7),
		agg("w", 4, 0, 7),
	}

	entries := Entries(Sort(input), 2)

	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].AccountID != "y" || entries[0].Rank != 1 {
		t.Errorf("entries[0] = %q rank %d, want y rank 1", entries[0].AccountID, entries[0].Rank)
	}
	if entries[1].AccountID != "z" || entries[1].Rank != 2 {
		t.Errorf("entries[1] = %q rank %d, want z rank 2 (input order)", entries[1].AccountID, entries[1].Rank)
	}
}

func TestEntries_TruncateAfterSort(t *testing.T) {
	input := []model.AccountAggregate{
		agg("low", 1, 0, 1),
		agg("high", 1, 0, 100),
		agg("mid", 1, 0, 50),
	}

	entries := Entries(Sort(input), 1)

	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	// Truncation must not drop the top account just because it appeared late.
	if entries[0].AccountID != "high" {
		t.Errorf("entries[0] = %q, want %q", entries[0].AccountID, "high")
	}
}

func TestEntries_NoLimit(t *testing.T) {
	input := []model.AccountAggregate{agg("a", 1, 0, 1), agg("b", 1, 0, 2)}

	if got := len(Entries(Sort(input), 0)); got != 2 {
		t.Errorf("len(Entries(limit=0)) = %d, want 2", got)
	}
	if got := len(Entries(Sort(input), 50)); got != 2 {
		t.Errorf("len(Entries(limit=50)) = %d, want 2", got)
	}
}

func TestSuccessRate(t *testing.T) {
	tests := []struct {
		name       string
		successful int
		total      int
		want       int
	}{
		{"zero total", 0, 0, 0},
		{"all successful", 5, 5, 100},
		{"none successful", 0, 5, 0},
		{"half", 1, 2, 50},
		{"one third rounds down", 1, 3, 33},
		{"two thirds rounds up", 2, 3, 67},
		{"rounds half up", 1, 8, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuccessRate(tt.successful, tt.total)
			if got != tt.want {
				t.Errorf("SuccessRate(%d, %d) = %d, want %d", tt.successful, tt.total, got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("SuccessRate(%d, %d) = %d, outside [0,100]", tt.successful, tt.total, got)
			}
		})
	}
}
