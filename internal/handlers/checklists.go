package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/models"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/services/workshop"
)

// saveChecklist creates or replaces the checklist for an order
func (r *Router) saveChecklist(w http.ResponseWriter, req *http.Request) {
	var checklist models.Checklist
	if err := json.NewDecoder(req.Body).Decode(&checklist); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if checklist.OrderID == 0 {
		respondError(w, http.StatusBadRequest, "orden_id is required")
		return
	}

	saved, err := r.store.SaveChecklist(req.Context(), &checklist)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save checklist")
		return
	}
	respondJSON(w, http.StatusCreated, saved)
}

// updateChecklist merges a partial update onto a checklist
func (r *Router) updateChecklist(w http.ResponseWriter, req *http.Request) {
	id, err := parseID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid checklist ID")
		return
	}

	var patch models.ChecklistPatch
	if err := json.NewDecoder(req.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	updated, err := r.store.UpdateChecklist(req.Context(), id, &patch)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "Backend unavailable")
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, "Checklist not found")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// confirmIntakeReviewRequest optionally carries the exit checklist
type confirmIntakeReviewRequest struct {
	ExitData json.RawMessage `json:"checklist_salida,omitempty"`
}

// confirmIntakeReview marks the intake checklist reviewed
func (r *Router) confirmIntakeReview(w http.ResponseWriter, req *http.Request) {
	id, err := parseID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid checklist ID")
		return
	}

	var body confirmIntakeReviewRequest
	if req.ContentLength > 0 {
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}
	}

	reviewed, err := r.svc.ConfirmIntakeReview(req.Context(), id, body.ExitData)
	if err != nil {
		if errors.Is(err, workshop.ErrMissingIntakePhotos) {
			respondError(w, http.StatusConflict, "Fuel-level and odometer photos are required before review")
			return
		}
		respondError(w, http.StatusServiceUnavailable, "Backend unavailable")
		return
	}
	if reviewed == nil {
		respondError(w, http.StatusNotFound, "Checklist not found")
		return
	}
	respondJSON(w, http.StatusOK, reviewed)
}
