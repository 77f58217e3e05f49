package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/config"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/lookup"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/lookup/boostr"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/models"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/services/workshop"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/store"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/utils"
)

// setupTestServer wires a full router over a fresh memory store and returns
// a valid Bearer token for the seeded admin.
func setupTestServer(t *testing.T) (*httptest.Server, string, *store.MemoryStore) {
	t.Helper()

	logger := zap.NewNop().Sugar()
	st, err := store.NewMemoryStore("", logger)
	if err != nil {
		t.Fatalf("Failed to create memory store: %v", err)
	}

	cfg := &config.Config{JWTSecret: "test-secret-key-12345"}

	hash, err := utils.HashPassword("admin123")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	admin, err := st.CreateStaffProfile(context.Background(), &models.StaffProfile{
		FullName:     "Valentina Rojas",
		Role:         models.StaffRoleAdmin,
		Active:       true,
		Email:        "valentina@taller.cl",
		PasswordHash: hash,
	})
	if err != nil {
		t.Fatalf("Failed to seed admin: %v", err)
	}
	token, err := utils.GenerateToken(admin, cfg.JWTSecret)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	registry := lookup.NewRegistry()
	if err := registry.Register(boostr.NewSource(boostr.Config{}), 50, time.Second, true); err != nil {
		t.Fatalf("Failed to register source: %v", err)
	}
	engine := lookup.NewEngine(registry, lookup.NewQuotaTracker(st), logger)

	svc := workshop.NewService(st, engine, nil, logger)
	router := NewRouter(cfg, st, svc, engine, nil)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, token, st
}

func doJSON(t *testing.T, method, url, token string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	return resp
}

func TestRouter_Login(t *testing.T) {
	srv, _, _ := setupTestServer(t)

	resp := doJSON(t, "POST", srv.URL+"/auth/login", "", map[string]string{
		"email":    "valentina@taller.cl",
		"password": "admin123",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var out struct {
		AccessToken string              `json:"accessToken"`
		Profile     models.StaffProfile `json:"perfil"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if out.AccessToken == "" {
		t.Error("Login should return a token")
	}
	if out.Profile.Email != "valentina@taller.cl" {
		t.Errorf("Expected seeded profile, got %s", out.Profile.Email)
	}

	bad := doJSON(t, "POST", srv.URL+"/auth/login", "", map[string]string{
		"email":    "valentina@taller.cl",
		"password": "wrong",
	})
	defer bad.Body.Close()
	if bad.StatusCode != http.StatusUnauthorized {
		t.Errorf("Wrong password should give 401, got %d", bad.StatusCode)
	}
}

func TestRouter_RequiresToken(t *testing.T) {
	srv, _, _ := setupTestServer(t)

	resp := doJSON(t, "GET", srv.URL+"/api/ordenes", "", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Missing token should give 401, got %d", resp.StatusCode)
	}

	garbage := doJSON(t, "GET", srv.URL+"/api/ordenes", "not-a-jwt", nil)
	defer garbage.Body.Close()
	if garbage.StatusCode != http.StatusUnauthorized {
		t.Errorf("Invalid token should give 401, got %d", garbage.StatusCode)
	}
}

func TestRouter_OrderLifecycle(t *testing.T) {
	srv, token, _ := setupTestServer(t)

	create := doJSON(t, "POST", srv.URL+"/api/ordenes", token, map[string]interface{}{
		"patente_vehiculo":    "ab-12 34",
		"descripcion_ingreso": "Cambio de correa",
		"creado_por":          "valentina@taller.cl",
	})
	defer create.Body.Close()
	if create.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", create.StatusCode)
	}
	var created models.Order
	if err := json.NewDecoder(create.Body).Decode(&created); err != nil {
		t.Fatalf("Failed to decode order: %v", err)
	}
	if created.ID != 1 || created.Plate != "AB1234" || created.Status != models.OrderStatusPending {
		t.Errorf("Unexpected created order: %+v", created)
	}

	// Wire format check: lifecycle dates serialize as explicit nulls
	get := doJSON(t, "GET", fmt.Sprintf("%s/api/ordenes/%d", srv.URL, created.ID), token, nil)
	defer get.Body.Close()
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(get.Body).Decode(&raw); err != nil {
		t.Fatalf("Failed to decode raw order: %v", err)
	}
	if string(raw["fecha_lista"]) != "null" {
		t.Errorf("fecha_lista should serialize as null, got %s", raw["fecha_lista"])
	}

	update := doJSON(t, "PUT", fmt.Sprintf("%s/api/ordenes/%d", srv.URL, created.ID), token, map[string]interface{}{
		"estado": "lista",
	})
	defer update.Body.Close()
	if update.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", update.StatusCode)
	}
	var updated models.Order
	if err := json.NewDecoder(update.Body).Decode(&updated); err != nil {
		t.Fatalf("Failed to decode updated order: %v", err)
	}
	if updated.Status != models.OrderStatusReady || updated.ReadyAt == nil {
		t.Errorf("Advancing to lista should stamp fecha_lista, got %+v", updated)
	}

	missing := doJSON(t, "GET", srv.URL+"/api/ordenes/999", token, nil)
	defer missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("Missing order should give 404, got %d", missing.StatusCode)
	}
}

func TestRouter_CreateOrderValidation(t *testing.T) {
	srv, token, _ := setupTestServer(t)

	noPlate := doJSON(t, "POST", srv.URL+"/api/ordenes", token, map[string]interface{}{
		"descripcion_ingreso": "Sin patente",
	})
	defer noPlate.Body.Close()
	if noPlate.StatusCode != http.StatusBadRequest {
		t.Errorf("Missing plate should give 400, got %d", noPlate.StatusCode)
	}

	negative := doJSON(t, "POST", srv.URL+"/api/ordenes", token, map[string]interface{}{
		"patente_vehiculo": "AB1234",
		"precio_total":     -100,
	})
	defer negative.Body.Close()
	if negative.StatusCode != http.StatusBadRequest {
		t.Errorf("Negative total should give 400, got %d", negative.StatusCode)
	}

	mismatch := doJSON(t, "POST", srv.URL+"/api/ordenes", token, map[string]interface{}{
		"patente_vehiculo": "AB1234",
		"precio_total":     100000,
		"metodos_pago":     []map[string]interface{}{{"metodo": "efectivo", "monto": 1000}},
	})
	defer mismatch.Body.Close()
	if mismatch.StatusCode != http.StatusBadRequest {
		t.Errorf("Payment mismatch should give 400, got %d", mismatch.StatusCode)
	}
}

func TestRouter_LookupStatusAndReset(t *testing.T) {
	srv, token, st := setupTestServer(t)

	if err := st.SaveQuotaCounters(context.Background(), &lookup.QuotaSnapshot{
		Date: time.Now().Format("2006-01-02"),
		Used: map[string]int{"boostr": 12},
	}); err != nil {
		t.Fatalf("Failed to seed quota: %v", err)
	}

	status := doJSON(t, "GET", srv.URL+"/api/lookup/status", token, nil)
	defer status.Body.Close()
	if status.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status.StatusCode)
	}
	var sources []lookup.SourceStatus
	if err := json.NewDecoder(status.Body).Decode(&sources); err != nil {
		t.Fatalf("Failed to decode status: %v", err)
	}
	if len(sources) != 1 || sources[0].Name != "boostr" || sources[0].Used != 12 {
		t.Errorf("Unexpected status payload: %+v", sources)
	}

	reset := doJSON(t, "POST", srv.URL+"/api/lookup/reset", token, nil)
	defer reset.Body.Close()
	if reset.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", reset.StatusCode)
	}
	after := doJSON(t, "GET", srv.URL+"/api/lookup/status", token, nil)
	defer after.Body.Close()
	var cleared []lookup.SourceStatus
	if err := json.NewDecoder(after.Body).Decode(&cleared); err != nil {
		t.Fatalf("Failed to decode status: %v", err)
	}
	if cleared[0].Used != 0 {
		t.Errorf("Reset should zero counters, got %d", cleared[0].Used)
	}
}

func TestRouter_LookupSetActive(t *testing.T) {
	srv, token, _ := setupTestServer(t)

	off := doJSON(t, "POST", srv.URL+"/api/lookup/sources/boostr/active", token, map[string]bool{
		"activa": false,
	})
	defer off.Body.Close()
	if off.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", off.StatusCode)
	}

	status := doJSON(t, "GET", srv.URL+"/api/lookup/status", token, nil)
	defer status.Body.Close()
	var sources []lookup.SourceStatus
	if err := json.NewDecoder(status.Body).Decode(&sources); err != nil {
		t.Fatalf("Failed to decode status: %v", err)
	}
	if sources[0].Active {
		t.Error("boostr should report inactive after the toggle")
	}

	unknown := doJSON(t, "POST", srv.URL+"/api/lookup/sources/nope/active", token, map[string]bool{
		"activa": true,
	})
	defer unknown.Body.Close()
	if unknown.StatusCode != http.StatusNotFound {
		t.Errorf("Unknown source should give 404, got %d", unknown.StatusCode)
	}
}

func TestRouter_ResolvePlateInvalid(t *testing.T) {
	srv, token, _ := setupTestServer(t)

	resp := doJSON(t, "GET", srv.URL+"/api/lookup/---", token, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Invalid plate should give 400, got %d", resp.StatusCode)
	}
}

func TestRouter_ConfirmAppointment(t *testing.T) {
	srv, token, st := setupTestServer(t)

	appt, err := st.CreateAppointment(context.Background(), &models.Appointment{
		StartsAt:         time.Now().Add(24 * time.Hour),
		ClientName:       "Pedro Fuentealba",
		Plate:            "LMWQ78",
		RequestedService: "Alineación",
		CreatedBy:        "valentina@taller.cl",
	})
	if err != nil {
		t.Fatalf("Failed to seed appointment: %v", err)
	}

	resp := doJSON(t, "POST", fmt.Sprintf("%s/api/citas/%d/confirmar", srv.URL, appt.ID), token, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	var order models.Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		t.Fatalf("Failed to decode order: %v", err)
	}
	if order.Plate != "LMWQ78" || order.IntakeDescription != "Alineación" {
		t.Errorf("Order should copy appointment fields, got %+v", order)
	}

	again := doJSON(t, "POST", fmt.Sprintf("%s/api/citas/%d/confirmar", srv.URL, appt.ID), token, nil)
	defer again.Body.Close()
	if again.StatusCode != http.StatusConflict {
		t.Errorf("Re-confirming should give 409, got %d", again.StatusCode)
	}
}
