package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/config"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/lookup"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/middleware"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/services/workshop"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/store"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/ws"
)

// Router wraps the mux router and the application's collaborators
type Router struct {
	*mux.Router
	store  store.Store
	svc    *workshop.Service
	engine *lookup.Engine
	hub    *ws.Hub
	cfg    *config.Config
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(cfg *config.Config, st store.Store, svc *workshop.Service, engine *lookup.Engine, hub *ws.Hub) *Router {
	r := &Router{
		Router: mux.NewRouter(),
		store:  st,
		svc:    svc,
		engine: engine,
		hub:    hub,
		cfg:    cfg,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Auth routes
	r.HandleFunc("/auth/login", r.login).Methods("POST")

	// Workshop board event stream
	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		ws.ServeWs(hub, w, req)
	})

	// API routes (protected)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(cfg.JWTSecret))

	// Vehicles
	api.HandleFunc("/vehiculos", r.findOrListVehicles).Methods("GET")
	api.HandleFunc("/vehiculos", r.createVehicle).Methods("POST")
	api.HandleFunc("/vehiculos/{patente}", r.updateVehicle).Methods("PUT")

	// Orders
	api.HandleFunc("/ordenes", r.listOrders).Methods("GET")
	api.HandleFunc("/ordenes", r.createOrder).Methods("POST")
	api.HandleFunc("/ordenes/{id}", r.getOrder).Methods("GET")
	api.HandleFunc("/ordenes/{id}", r.updateOrder).Methods("PUT")
	api.HandleFunc("/ordenes/{id}", r.deleteOrder).Methods("DELETE")
	api.HandleFunc("/ordenes/{id}/checklist", r.getOrderChecklist).Methods("GET")

	// Appointments
	api.HandleFunc("/citas", r.listAppointments).Methods("GET")
	api.HandleFunc("/citas", r.createAppointment).Methods("POST")
	api.HandleFunc("/citas/{id}", r.updateAppointment).Methods("PUT")
	api.HandleFunc("/citas/{id}", r.deleteAppointment).Methods("DELETE")
	api.HandleFunc("/citas/{id}/confirmar", r.confirmAppointment).Methods("POST")

	// Clients
	api.HandleFunc("/clientes", r.listClients).Methods("GET")
	api.HandleFunc("/clientes", r.createClient).Methods("POST")
	api.HandleFunc("/clientes/buscar", r.findClientByTaxID).Methods("GET")
	api.HandleFunc("/clientes/{id}", r.updateClient).Methods("PUT")

	// Staff profiles
	api.HandleFunc("/perfiles", r.listStaffProfiles).Methods("GET")
	api.HandleFunc("/perfiles/{id}", r.getStaffProfile).Methods("GET")
	api.HandleFunc("/perfiles/{id}", r.updateStaffProfile).Methods("PUT")

	// Checklists
	api.HandleFunc("/checklists", r.saveChecklist).Methods("POST")
	api.HandleFunc("/checklists/{id}", r.updateChecklist).Methods("PUT")
	api.HandleFunc("/checklists/{id}/revisar", r.confirmIntakeReview).Methods("POST")

	// Plate lookup
	api.HandleFunc("/lookup/status", r.lookupStatus).Methods("GET")
	api.HandleFunc("/lookup/reset", r.lookupReset).Methods("POST")
	api.HandleFunc("/lookup/sources/{name}/active", r.lookupSetActive).Methods("POST")
	api.HandleFunc("/lookup/{patente}", r.resolvePlate).Methods("GET")

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
