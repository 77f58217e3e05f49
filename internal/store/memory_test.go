package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/lookup"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/models"
)

func newTestStore(t *testing.T) *MemoryStore {
	t.Helper()
	s, err := NewMemoryStore("", zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("Failed to create memory store: %v", err)
	}
	return s
}

func TestMemoryStore_CreateOrderDefaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateOrder(ctx, &models.Order{
		Plate:             "ab1234",
		IntakeDescription: "Cambio de aceite",
		CreatedBy:         "valentina@taller.cl",
	})
	if err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}

	if created.ID != 1 {
		t.Errorf("First order in an empty store should get id 1, got %d", created.ID)
	}
	if created.Plate != "AB1234" {
		t.Errorf("Plate should be normalized on write, got %q", created.Plate)
	}
	if created.Status != models.OrderStatusPending {
		t.Errorf("Default status should be pendiente, got %s", created.Status)
	}
	if created.IntakeAt.IsZero() {
		t.Error("fecha_ingreso should be stamped at creation")
	}
	if created.ReadyAt != nil || created.DeliveredAt != nil || created.CompletedAt != nil {
		t.Error("Lifecycle dates should start null")
	}
}

func TestMemoryStore_OrderIDAllocation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := s.CreateOrder(ctx, &models.Order{Plate: "AB1234"}); err != nil {
			t.Fatalf("Failed to create order: %v", err)
		}
	}

	// Deleting the highest id frees it for reuse: allocation is max+1, not
	// a monotonic counter
	if err := s.DeleteOrder(ctx, 3); err != nil {
		t.Fatalf("Failed to delete order: %v", err)
	}
	o, err := s.CreateOrder(ctx, &models.Order{Plate: "AB1234"})
	if err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}
	if o.ID != 3 {
		t.Errorf("Expected id 3 after deleting the max, got %d", o.ID)
	}
}

func TestMemoryStore_NotFoundIsNilNil(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	o, err := s.GetOrderByID(ctx, 99)
	if err != nil || o != nil {
		t.Errorf("Missing order should be (nil, nil), got (%v, %v)", o, err)
	}
	v, err := s.FindVehicleByPlate(ctx, "ZZZZ99")
	if err != nil || v != nil {
		t.Errorf("Missing vehicle should be (nil, nil), got (%v, %v)", v, err)
	}
	c, err := s.FindClientByTaxID(ctx, "11.111.111-1")
	if err != nil || c != nil {
		t.Errorf("Missing client should be (nil, nil), got (%v, %v)", c, err)
	}
	p, err := s.FindStaffByEmail(ctx, "nadie@taller.cl")
	if err != nil || p != nil {
		t.Errorf("Missing staff should be (nil, nil), got (%v, %v)", p, err)
	}
	updated, err := s.UpdateOrder(ctx, 99, &models.OrderPatch{})
	if err != nil || updated != nil {
		t.Errorf("Updating a missing order should be (nil, nil), got (%v, %v)", updated, err)
	}
}

func TestMemoryStore_UpdateOrderExplicitNull(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now()
	created, err := s.CreateOrder(ctx, &models.Order{
		Plate:   "KJXZ34",
		Status:  models.OrderStatusReady,
		ReadyAt: &now,
	})
	if err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}

	updated, err := s.UpdateOrder(ctx, created.ID, &models.OrderPatch{
		Status:  models.Some(models.OrderStatusPending),
		ReadyAt: models.Null[time.Time](),
	})
	if err != nil {
		t.Fatalf("Failed to update order: %v", err)
	}
	if updated.Status != models.OrderStatusPending {
		t.Errorf("Expected pendiente, got %s", updated.Status)
	}
	if updated.ReadyAt != nil {
		t.Error("Explicit null should clear fecha_lista")
	}

	// The store persists exactly what the patch says: an absent field
	// survives a later unrelated update
	again, err := s.UpdateOrder(ctx, created.ID, &models.OrderPatch{
		Total: models.Some(50000.0),
	})
	if err != nil {
		t.Fatalf("Failed to update order: %v", err)
	}
	if again.ReadyAt != nil {
		t.Error("fecha_lista should stay null when the patch omits it")
	}
	if again.Total != 50000 {
		t.Errorf("Expected total 50000, got %v", again.Total)
	}
}

func TestMemoryStore_ListOrdersFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seed := []models.Order{
		{Plate: "AB1234", Status: models.OrderStatusPending},
		{Plate: "AB1234", Status: models.OrderStatusReady},
		{Plate: "CD5678", Status: models.OrderStatusPending},
	}
	for i := range seed {
		if _, err := s.CreateOrder(ctx, &seed[i]); err != nil {
			t.Fatalf("Failed to seed order: %v", err)
		}
	}

	all, err := s.ListOrders(ctx, nil)
	if err != nil {
		t.Fatalf("Failed to list orders: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 orders, got %d", len(all))
	}
	// Sorted by id
	for i := 1; i < len(all); i++ {
		if all[i-1].ID > all[i].ID {
			t.Error("ListOrders should sort by id")
		}
	}

	pending, err := s.ListOrders(ctx, &OrderFilter{Status: models.OrderStatusPending})
	if err != nil {
		t.Fatalf("Failed to list pending orders: %v", err)
	}
	if len(pending) != 2 {
		t.Errorf("Expected 2 pending orders, got %d", len(pending))
	}

	byPlate, err := s.ListOrders(ctx, &OrderFilter{Plate: "ab-12 34"})
	if err != nil {
		t.Fatalf("Failed to list orders by plate: %v", err)
	}
	if len(byPlate) != 2 {
		t.Errorf("Plate filter should normalize its input, got %d orders", len(byPlate))
	}

	// Mutating a returned slice must not leak into the store
	all[0].IntakeDescription = "mutated"
	fresh, _ := s.GetOrderByID(ctx, all[0].ID)
	if fresh.IntakeDescription == "mutated" {
		t.Error("List results should be copies, not live references")
	}
}

func TestMemoryStore_ClientStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	client, err := s.CreateClient(ctx, &models.Client{
		FullName: "Carolina Méndez",
		TaxID:    "12.345.678-5",
	})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	if _, err := s.CreateVehicle(ctx, &models.Vehicle{Plate: "AB1234", ClientID: &client.ID}); err != nil {
		t.Fatalf("Failed to create vehicle: %v", err)
	}
	if _, err := s.CreateVehicle(ctx, &models.Vehicle{Plate: "CD5678", ClientID: &client.ID}); err != nil {
		t.Fatalf("Failed to create vehicle: %v", err)
	}
	// Orphan vehicle, must not count
	if _, err := s.CreateVehicle(ctx, &models.Vehicle{Plate: "EF9012"}); err != nil {
		t.Fatalf("Failed to create vehicle: %v", err)
	}

	for _, plate := range []string{"AB1234", "AB1234", "CD5678", "EF9012"} {
		if _, err := s.CreateOrder(ctx, &models.Order{Plate: plate}); err != nil {
			t.Fatalf("Failed to create order: %v", err)
		}
	}

	list, err := s.ListClients(ctx, "carolina")
	if err != nil {
		t.Fatalf("Failed to list clients: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("Expected 1 client for query, got %d", len(list))
	}
	if list[0].VehicleCount != 2 {
		t.Errorf("Expected 2 vehicles, got %d", list[0].VehicleCount)
	}
	if list[0].OrderCount != 3 {
		t.Errorf("Expected 3 orders through the client's vehicles, got %d", list[0].OrderCount)
	}

	// Query with no match
	none, err := s.ListClients(ctx, "nadie")
	if err != nil {
		t.Fatalf("Failed to list clients: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("Expected no clients, got %d", len(none))
	}
}

func TestMemoryStore_SaveChecklistUpsertsByOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.SaveChecklist(ctx, &models.Checklist{OrderID: 5})
	if err != nil {
		t.Fatalf("Failed to save checklist: %v", err)
	}
	second, err := s.SaveChecklist(ctx, &models.Checklist{OrderID: 5, Reviewed: true})
	if err != nil {
		t.Fatalf("Failed to save checklist: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("Saving for the same order should reuse the row, got ids %d and %d", first.ID, second.ID)
	}
	got, err := s.GetChecklistByOrderID(ctx, 5)
	if err != nil {
		t.Fatalf("Failed to get checklist: %v", err)
	}
	if got == nil || !got.Reviewed {
		t.Error("Upsert should have replaced the checklist contents")
	}
}

func TestMemoryStore_SnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taller.json")
	ctx := context.Background()
	logger := zap.NewNop().Sugar()

	s1, err := NewMemoryStore(path, logger)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	if _, err := s1.CreateVehicle(ctx, &models.Vehicle{Plate: "AB1234", Make: "Toyota"}); err != nil {
		t.Fatalf("Failed to create vehicle: %v", err)
	}
	if _, err := s1.CreateOrder(ctx, &models.Order{Plate: "AB1234", IntakeDescription: "Frenos"}); err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}
	if err := s1.SaveQuotaCounters(ctx, &lookup.QuotaSnapshot{
		Date: "2025-03-10",
		Used: map[string]int{"boostr": 7},
	}); err != nil {
		t.Fatalf("Failed to save quota counters: %v", err)
	}

	// A second store over the same file picks up where the first left off
	s2, err := NewMemoryStore(path, logger)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	v, err := s2.FindVehicleByPlate(ctx, "AB1234")
	if err != nil {
		t.Fatalf("Failed to find vehicle: %v", err)
	}
	if v == nil || v.Make != "Toyota" {
		t.Error("Vehicle should survive the snapshot round trip")
	}
	o, err := s2.GetOrderByID(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to get order: %v", err)
	}
	if o == nil || o.IntakeDescription != "Frenos" {
		t.Error("Order should survive the snapshot round trip")
	}
	snap, err := s2.LoadQuotaCounters(ctx)
	if err != nil {
		t.Fatalf("Failed to load quota counters: %v", err)
	}
	if snap == nil || snap.Date != "2025-03-10" || snap.Used["boostr"] != 7 {
		t.Errorf("Quota snapshot should survive the round trip, got %+v", snap)
	}
}

func TestMemoryStore_QuotaCopyIsolation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := &lookup.QuotaSnapshot{Date: "2025-03-10", Used: map[string]int{"boostr": 1}}
	if err := s.SaveQuotaCounters(ctx, in); err != nil {
		t.Fatalf("Failed to save quota counters: %v", err)
	}

	// Mutating the caller's map after the save must not affect the store
	in.Used["boostr"] = 99

	out, err := s.LoadQuotaCounters(ctx)
	if err != nil {
		t.Fatalf("Failed to load quota counters: %v", err)
	}
	if out.Used["boostr"] != 1 {
		t.Errorf("Store should hold its own copy, got %d", out.Used["boostr"])
	}

	// Same the other way: mutating the loaded map must not leak back in
	out.Used["boostr"] = 42
	again, _ := s.LoadQuotaCounters(ctx)
	if again.Used["boostr"] != 1 {
		t.Errorf("Loaded snapshot should be a copy, got %d", again.Used["boostr"])
	}
}

func TestResolveMode(t *testing.T) {
	cases := []struct {
		in   string
		want Mode
	}{
		{"remote", ModeRemote},
		{" REMOTE ", ModeRemote},
		{"local", ModeLocal},
		{"", ModeLocal},
		{"postgres", ModeLocal},
	}
	for _, c := range cases {
		if got := ResolveMode(c.in); got != c.want {
			t.Errorf("ResolveMode(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}
