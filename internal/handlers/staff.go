package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/models"
)

// listStaffProfiles returns all staff profiles
func (r *Router) listStaffProfiles(w http.ResponseWriter, req *http.Request) {
	profiles, err := r.store.ListStaffProfiles(req.Context())
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "Backend unavailable")
		return
	}
	respondJSON(w, http.StatusOK, profiles)
}

// getStaffProfile returns one staff profile by ID
func (r *Router) getStaffProfile(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	profile, err := r.store.GetStaffByID(req.Context(), id)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "Backend unavailable")
		return
	}
	if profile == nil {
		respondError(w, http.StatusNotFound, "Staff profile not found")
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// updateStaffProfile applies a partial update
func (r *Router) updateStaffProfile(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var patch models.StaffPatch
	if err := json.NewDecoder(req.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	updated, err := r.store.UpdateStaffProfile(req.Context(), id, &patch)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "Backend unavailable")
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, "Staff profile not found")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}
