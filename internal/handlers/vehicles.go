package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/models"
)

// findOrListVehicles returns one vehicle when ?patente= is given, or the
// full list otherwise
func (r *Router) findOrListVehicles(w http.ResponseWriter, req *http.Request) {
	if plate := req.URL.Query().Get("patente"); plate != "" {
		if models.NormalizePlate(plate) == "" {
			respondError(w, http.StatusBadRequest, "Invalid plate")
			return
		}
		vehicle, err := r.store.FindVehicleByPlate(req.Context(), plate)
		if err != nil {
			respondError(w, http.StatusServiceUnavailable, "Backend unavailable")
			return
		}
		if vehicle == nil {
			respondError(w, http.StatusNotFound, "Vehicle not found")
			return
		}
		respondJSON(w, http.StatusOK, vehicle)
		return
	}

	vehicles, err := r.store.ListVehicles(req.Context())
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "Backend unavailable")
		return
	}
	respondJSON(w, http.StatusOK, vehicles)
}

// createVehicle creates a new vehicle record
func (r *Router) createVehicle(w http.ResponseWriter, req *http.Request) {
	var vehicle models.Vehicle
	if err := json.NewDecoder(req.Body).Decode(&vehicle); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if models.NormalizePlate(vehicle.Plate) == "" {
		respondError(w, http.StatusBadRequest, "Plate is required")
		return
	}

	created, err := r.store.CreateVehicle(req.Context(), &vehicle)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create vehicle")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// updateVehicle applies a partial update by plate
func (r *Router) updateVehicle(w http.ResponseWriter, req *http.Request) {
	plate := mux.Vars(req)["patente"]

	var patch models.VehiclePatch
	if err := json.NewDecoder(req.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	updated, err := r.store.UpdateVehicle(req.Context(), plate, &patch)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "Backend unavailable")
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, "Vehicle not found")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}
