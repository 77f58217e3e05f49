package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/lookup"
)

// resolvePlate resolves external vehicle data through the source chain
func (r *Router) resolvePlate(w http.ResponseWriter, req *http.Request) {
	plate := mux.Vars(req)["patente"]

	data, err := r.svc.ResolvePlate(req.Context(), plate)
	if err != nil {
		if errors.Is(err, lookup.ErrInvalidPlate) {
			respondError(w, http.StatusBadRequest, "Invalid plate")
			return
		}
		if errors.Is(err, lookup.ErrAllSourcesExhausted) {
			// Terminal: the UI falls back to manual data entry
			respondError(w, http.StatusNotFound, "All lookup sources exhausted, enter data manually")
			return
		}
		respondError(w, http.StatusServiceUnavailable, "Backend unavailable")
		return
	}
	respondJSON(w, http.StatusOK, data)
}

// lookupStatus reports per-source quota usage for operators
func (r *Router) lookupStatus(w http.ResponseWriter, req *http.Request) {
	status, err := r.engine.Status(req.Context())
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "Backend unavailable")
		return
	}
	respondJSON(w, http.StatusOK, status)
}

// lookupReset zeroes all quota counters immediately
func (r *Router) lookupReset(w http.ResponseWriter, req *http.Request) {
	if err := r.engine.Quotas().ManualReset(req.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "Backend unavailable")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Quota counters reset",
	})
}

// setActiveRequest toggles a lookup source
type setActiveRequest struct {
	Active bool `json:"activa"`
}

// lookupSetActive enables or disables one source without touching its
// counter
func (r *Router) lookupSetActive(w http.ResponseWriter, req *http.Request) {
	name := mux.Vars(req)["name"]

	var body setActiveRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := r.engine.Registry().SetActive(name, body.Active); err != nil {
		respondError(w, http.StatusNotFound, "Source not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"fuente": name,
		"activa": body.Active,
	})
}
