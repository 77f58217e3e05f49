package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/models"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/services/workshop"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/store"
)

// listAppointments returns appointments, optionally bounded by
// ?desde= and ?hasta= (RFC 3339)
func (r *Router) listAppointments(w http.ResponseWriter, req *http.Request) {
	rng := &store.AppointmentRange{}
	if v := req.URL.Query().Get("desde"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid 'desde' timestamp")
			return
		}
		rng.From = &t
	}
	if v := req.URL.Query().Get("hasta"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid 'hasta' timestamp")
			return
		}
		rng.To = &t
	}

	appointments, err := r.store.ListAppointments(req.Context(), rng)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "Backend unavailable")
		return
	}
	respondJSON(w, http.StatusOK, appointments)
}

// createAppointment creates a new appointment
func (r *Router) createAppointment(w http.ResponseWriter, req *http.Request) {
	var appt models.Appointment
	if err := json.NewDecoder(req.Body).Decode(&appt); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if appt.StartsAt.IsZero() {
		respondError(w, http.StatusBadRequest, "Start time is required")
		return
	}

	created, err := r.store.CreateAppointment(req.Context(), &appt)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create appointment")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// updateAppointment applies a partial update
func (r *Router) updateAppointment(w http.ResponseWriter, req *http.Request) {
	id, err := parseID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid appointment ID")
		return
	}

	var patch models.AppointmentPatch
	if err := json.NewDecoder(req.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	updated, err := r.store.UpdateAppointment(req.Context(), id, &patch)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "Backend unavailable")
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, "Appointment not found")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// deleteAppointment removes an appointment
func (r *Router) deleteAppointment(w http.ResponseWriter, req *http.Request) {
	id, err := parseID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid appointment ID")
		return
	}

	if err := r.store.DeleteAppointment(req.Context(), id); err != nil {
		respondError(w, http.StatusServiceUnavailable, "Backend unavailable")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Appointment deleted successfully",
	})
}

// confirmAppointment converts an appointment into a work order
func (r *Router) confirmAppointment(w http.ResponseWriter, req *http.Request) {
	id, err := parseID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid appointment ID")
		return
	}

	order, err := r.svc.ConfirmAppointment(req.Context(), id)
	if err != nil {
		if errors.Is(err, workshop.ErrAppointmentNotPending) {
			respondError(w, http.StatusConflict, "Only pending appointments can be confirmed")
			return
		}
		respondError(w, http.StatusServiceUnavailable, "Backend unavailable")
		return
	}
	if order == nil {
		respondError(w, http.StatusNotFound, "Appointment not found")
		return
	}
	respondJSON(w, http.StatusCreated, order)
}
