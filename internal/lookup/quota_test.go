package lookup

import (
	"context"
	"testing"
	"time"
)

// fakeQuotaStore holds a single snapshot in memory for tracker tests.
type fakeQuotaStore struct {
	snap  *QuotaSnapshot
	saves int
}

func (f *fakeQuotaStore) LoadQuotaCounters(ctx context.Context) (*QuotaSnapshot, error) {
	if f.snap == nil {
		return nil, nil
	}
	cp := &QuotaSnapshot{Date: f.snap.Date, Used: make(map[string]int, len(f.snap.Used))}
	for k, v := range f.snap.Used {
		cp.Used[k] = v
	}
	return cp, nil
}

func (f *fakeQuotaStore) SaveQuotaCounters(ctx context.Context, snap *QuotaSnapshot) error {
	f.snap = snap
	f.saves++
	return nil
}

func fixedClock(date string) func() time.Time {
	t, _ := time.Parse("2006-01-02", date)
	return func() time.Time { return t }
}

func TestQuotaTracker_Increment(t *testing.T) {
	fs := &fakeQuotaStore{}
	tracker := NewQuotaTracker(fs)
	tracker.now = fixedClock("2025-03-10")
	ctx := context.Background()

	if err := tracker.Increment(ctx, "boostr"); err != nil {
		t.Fatalf("Failed to increment: %v", err)
	}
	if err := tracker.Increment(ctx, "boostr"); err != nil {
		t.Fatalf("Failed to increment: %v", err)
	}
	if err := tracker.Increment(ctx, "autoapi"); err != nil {
		t.Fatalf("Failed to increment: %v", err)
	}

	used, err := tracker.LoadCounters(ctx)
	if err != nil {
		t.Fatalf("Failed to load counters: %v", err)
	}
	if used["boostr"] != 2 {
		t.Errorf("Expected boostr=2, got %d", used["boostr"])
	}
	if used["autoapi"] != 1 {
		t.Errorf("Expected autoapi=1, got %d", used["autoapi"])
	}
	if fs.snap.Date != "2025-03-10" {
		t.Errorf("Snapshot should carry today's date, got %s", fs.snap.Date)
	}
}

func TestQuotaTracker_DateRollover(t *testing.T) {
	// Counters persisted yesterday, loaded today
	fs := &fakeQuotaStore{snap: &QuotaSnapshot{
		Date: "2025-03-09",
		Used: map[string]int{"boostr": 50, "autoapi": 100},
	}}
	tracker := NewQuotaTracker(fs)
	tracker.now = fixedClock("2025-03-10")
	ctx := context.Background()

	used, err := tracker.LoadCounters(ctx)
	if err != nil {
		t.Fatalf("Failed to load counters: %v", err)
	}
	if len(used) != 0 {
		t.Errorf("A stale snapshot should read as all zeros, got %v", used)
	}

	// The first increment after rollover rewrites the snapshot under the
	// new date with only the fresh counter
	if err := tracker.Increment(ctx, "boostr"); err != nil {
		t.Fatalf("Failed to increment: %v", err)
	}
	if fs.snap.Date != "2025-03-10" {
		t.Errorf("Expected snapshot date 2025-03-10, got %s", fs.snap.Date)
	}
	if fs.snap.Used["boostr"] != 1 {
		t.Errorf("Expected boostr=1 after rollover, got %d", fs.snap.Used["boostr"])
	}
	if _, ok := fs.snap.Used["autoapi"]; ok {
		t.Error("Stale counters should not survive rollover")
	}
}

func TestQuotaTracker_MissingSnapshot(t *testing.T) {
	tracker := NewQuotaTracker(&fakeQuotaStore{})
	tracker.now = fixedClock("2025-03-10")

	used, err := tracker.LoadCounters(context.Background())
	if err != nil {
		t.Fatalf("Failed to load counters: %v", err)
	}
	if used == nil {
		t.Fatal("LoadCounters should return an empty map, not nil")
	}
	if len(used) != 0 {
		t.Errorf("Expected zero counters, got %v", used)
	}
}

func TestQuotaTracker_ManualReset(t *testing.T) {
	fs := &fakeQuotaStore{snap: &QuotaSnapshot{
		Date: "2025-03-10",
		Used: map[string]int{"boostr": 49},
	}}
	tracker := NewQuotaTracker(fs)
	tracker.now = fixedClock("2025-03-10")
	ctx := context.Background()

	if err := tracker.ManualReset(ctx); err != nil {
		t.Fatalf("Failed to reset: %v", err)
	}
	used, err := tracker.LoadCounters(ctx)
	if err != nil {
		t.Fatalf("Failed to load counters: %v", err)
	}
	if len(used) != 0 {
		t.Errorf("Reset should zero all counters, got %v", used)
	}
}
