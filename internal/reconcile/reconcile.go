package reconcile

import (
	"fmt"
	"time"

	"github.com/BlakeMcBride1625/8bp-rewards-5.2-Public-sub002/internal/model"
)

// Timestamp layouts accepted for calendar-date bucketing. Stores written by
// this repo emit RFC 3339; SQLite's datetime() default is the space-separated
// form.
var claimedAtLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// Reconciler applies the same-day dedup rule to raw claim records.
//
// A failed claim is suppressed when a success exists for the same account on
// the same calendar date. Successes always count. The calendar date is taken
// in a fixed reference timezone.
type Reconciler struct {
	loc *time.Location
}

// New creates a Reconciler using loc as the reference timezone for calendar
// dates. A nil loc means UTC.
func New(loc *time.Location) *Reconciler {
	if loc == nil {
		loc = time.UTC
	}
	return &Reconciler{loc: loc}
}

// GroupByAccount splits records into per-account slices, returning account IDs
// in first-seen input order. That order is the incidental tie-break order the
// ranking stage preserves.
func GroupByAccount(records []model.ClaimRecord) ([]string, map[string][]model.ClaimRecord) {
	order := make([]string, 0)
	groups := make(map[string][]model.ClaimRecord)
	for _, rec := range records {
		if _, seen := groups[rec.AccountID]; !seen {
			order = append(order, rec.AccountID)
		}
		groups[rec.AccountID] = append(groups[rec.AccountID], rec)
	}
	return order, groups
}

// Aggregate reduces one account's window records to a single aggregate.
//
// Records are bucketed by calendar date. Every success counts toward
// SuccessfulClaims and contributes len(ItemsClaimed); a failure counts toward
// FailedClaims only when no record in its date bucket succeeded. A failure
// never excludes itself from that check, so two failures on a no-success day
// both count. TotalClaims is computed post-dedup, not a raw record count.
// LastClaimed is the maximum ClaimedAt over all window records regardless of
// dedup outcome.
func (r *Reconciler) Aggregate(accountID string, records []model.ClaimRecord) model.AccountAggregate {
	agg := model.AccountAggregate{AccountID: accountID}
	if len(records) == 0 {
		return agg
	}

	type bucket struct {
		hasSuccess bool
		failures   int
	}
	buckets := make(map[string]*bucket)
	keys := make([]string, 0, len(records))

	for i, rec := range records {
		key := r.dateKey(rec.ClaimedAt, i)
		b := buckets[key]
		if b == nil {
			b = &bucket{}
			buckets[key] = b
			keys = append(keys, key)
		}

		switch rec.Status {
		case model.StatusSuccess:
			b.hasSuccess = true
			agg.SuccessfulClaims++
			agg.TotalItemsClaimed += len(rec.ItemsClaimed)
		default:
			b.failures++
		}

		if rec.ClaimedAt > agg.LastClaimed {
			agg.LastClaimed = rec.ClaimedAt
		}
	}

	for _, key := range keys {
		if b := buckets[key]; !b.hasSuccess {
			agg.FailedClaims += b.failures
		}
	}

	agg.TotalClaims = agg.SuccessfulClaims + agg.FailedClaims
	return agg
}

// AggregateAll reconciles every account in the input, preserving first-seen
// input order in the result.
func (r *Reconciler) AggregateAll(records []model.ClaimRecord) []model.AccountAggregate {
	order, groups := GroupByAccount(records)
	aggs := make([]model.AccountAggregate, 0, len(order))
	for _, accountID := range order {
		aggs = append(aggs, r.Aggregate(accountID, groups[accountID]))
	}
	return aggs
}

// dateKey buckets a raw timestamp by calendar date in the reference timezone.
// Unparseable text gets a bucket of its own keyed by record position, so it
// never merges with any other record, even one carrying identical raw text.
// The source system behaved this way; preserved rather than fixed.
func (r *Reconciler) dateKey(claimedAt string, idx int) string {
	for _, layout := range claimedAtLayouts {
		if t, err := time.Parse(layout, claimedAt); err == nil {
			return t.In(r.loc).Format("2006-01-02")
		}
	}
	return fmt.Sprintf("unparsed-%d", idx)
}
