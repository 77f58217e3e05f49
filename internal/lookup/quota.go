package lookup

import (
	"context"
	"time"
)

// QuotaSnapshot is the persisted form of the per-source daily counters.
// Date is an ISO calendar date; rollover is detected by string equality
// against today, checked lazily on every load.
type QuotaSnapshot struct {
	Date string         `json:"fecha"`
	Used map[string]int `json:"usados"`
}

// QuotaStore persists quota counters. Both persistence backends implement
// it, so counters follow whichever store is active.
type QuotaStore interface {
	LoadQuotaCounters(ctx context.Context) (*QuotaSnapshot, error)
	SaveQuotaCounters(ctx context.Context, snap *QuotaSnapshot) error
}

// QuotaTracker wraps a QuotaStore with date-rollover and reset logic. The
// counters are read-then-written, not atomically incremented; a single
// operator session is assumed to drive lookups.
type QuotaTracker struct {
	store QuotaStore
	now   func() time.Time
}

// NewQuotaTracker creates a tracker over the given store.
func NewQuotaTracker(store QuotaStore) *QuotaTracker {
	return &QuotaTracker{store: store, now: time.Now}
}

func (t *QuotaTracker) today() string {
	return t.now().Format("2006-01-02")
}

// LoadCounters returns today's usage per source. A snapshot persisted under
// any other date yields all-zero counters regardless of its values.
func (t *QuotaTracker) LoadCounters(ctx context.Context) (map[string]int, error) {
	snap, err := t.store.LoadQuotaCounters(ctx)
	if err != nil {
		return nil, err
	}
	if snap == nil || snap.Date != t.today() || snap.Used == nil {
		return map[string]int{}, nil
	}

	out := make(map[string]int, len(snap.Used))
	for k, v := range snap.Used {
		out[k] = v
	}
	return out, nil
}

// Increment adds one use to a source and persists the updated snapshot.
func (t *QuotaTracker) Increment(ctx context.Context, source string) error {
	used, err := t.LoadCounters(ctx)
	if err != nil {
		return err
	}
	used[source]++
	return t.store.SaveQuotaCounters(ctx, &QuotaSnapshot{Date: t.today(), Used: used})
}

// ManualReset zeroes all counters immediately. Operator escape hatch.
func (t *QuotaTracker) ManualReset(ctx context.Context) error {
	return t.store.SaveQuotaCounters(ctx, &QuotaSnapshot{Date: t.today(), Used: map[string]int{}})
}
