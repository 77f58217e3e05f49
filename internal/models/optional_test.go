package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestOptional_AbsentNullValue(t *testing.T) {
	// Absent field: zero Optional, nothing touched
	var p1 OrderPatch
	if err := json.Unmarshal([]byte(`{}`), &p1); err != nil {
		t.Fatalf("Failed to unmarshal empty patch: %v", err)
	}
	if p1.ReadyAt.Set {
		t.Error("Absent fecha_lista should not be Set")
	}

	// Explicit null: Set with nil value
	var p2 OrderPatch
	if err := json.Unmarshal([]byte(`{"fecha_lista": null}`), &p2); err != nil {
		t.Fatalf("Failed to unmarshal null patch: %v", err)
	}
	if !p2.ReadyAt.Set {
		t.Error("Explicit null fecha_lista should be Set")
	}
	if p2.ReadyAt.Value != nil {
		t.Error("Explicit null fecha_lista should carry nil value")
	}

	// Concrete value
	var p3 OrderPatch
	if err := json.Unmarshal([]byte(`{"fecha_lista": "2025-03-10T14:30:00Z"}`), &p3); err != nil {
		t.Fatalf("Failed to unmarshal value patch: %v", err)
	}
	if !p3.ReadyAt.Set || p3.ReadyAt.Value == nil {
		t.Fatal("fecha_lista should be Set with a value")
	}
	want := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	if !p3.ReadyAt.Value.Equal(want) {
		t.Errorf("Expected %v, got %v", want, *p3.ReadyAt.Value)
	}
}

func TestOrderPatch_ApplyNullClearsTimestamp(t *testing.T) {
	now := time.Now()
	order := &Order{
		ID:          7,
		Status:      OrderStatusReady,
		ReadyAt:     &now,
		DeliveredAt: &now,
	}

	patch := &OrderPatch{
		Status:  Some(OrderStatusPending),
		ReadyAt: Null[time.Time](),
	}
	patch.Apply(order)

	if order.Status != OrderStatusPending {
		t.Errorf("Expected status pendiente, got %s", order.Status)
	}
	if order.ReadyAt != nil {
		t.Error("Explicit null should clear fecha_lista")
	}
	// DeliveredAt was absent from the patch and must survive
	if order.DeliveredAt == nil {
		t.Error("Absent fecha_entrega must not be touched")
	}
}

func TestOrder_PaymentsBalance(t *testing.T) {
	o := &Order{Total: 120000}

	// No payment lines always balance
	if !o.PaymentsBalance() {
		t.Error("Order without payment lines should balance")
	}

	o.PaymentMethods = []PaymentLine{
		{Method: "efectivo", Amount: 50000},
		{Method: "tarjeta", Amount: 70000},
	}
	if !o.PaymentsBalance() {
		t.Error("Matching payment lines should balance")
	}

	o.PaymentMethods = []PaymentLine{
		{Method: "efectivo", Amount: 50000},
	}
	if o.PaymentsBalance() {
		t.Error("Short payment lines should not balance")
	}

	// Rounding noise within half a cent is tolerated
	o.Total = 0.30
	o.PaymentMethods = []PaymentLine{
		{Method: "tarjeta", Amount: 0.1},
		{Method: "tarjeta", Amount: 0.2},
	}
	if !o.PaymentsBalance() {
		t.Error("Floating point rounding should be tolerated")
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	if !OrderStatusCompleted.IsTerminal() {
		t.Error("completada should be terminal")
	}
	if !OrderStatusCancelled.IsTerminal() {
		t.Error("cancelada should be terminal")
	}
	if OrderStatusReady.IsTerminal() {
		t.Error("lista should not be terminal")
	}
	if OrderStatusPending.IsTerminal() {
		t.Error("pendiente should not be terminal")
	}
}
