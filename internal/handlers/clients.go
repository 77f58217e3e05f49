package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/models"
)

// listClients returns clients with vehicle/order counters, optionally
// filtered by ?q= against name and tax id
func (r *Router) listClients(w http.ResponseWriter, req *http.Request) {
	clients, err := r.store.ListClients(req.Context(), req.URL.Query().Get("q"))
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "Backend unavailable")
		return
	}
	respondJSON(w, http.StatusOK, clients)
}

// findClientByTaxID looks up one client by ?rut=
func (r *Router) findClientByTaxID(w http.ResponseWriter, req *http.Request) {
	taxID := req.URL.Query().Get("rut")
	if taxID == "" {
		respondError(w, http.StatusBadRequest, "rut query parameter is required")
		return
	}

	client, err := r.store.FindClientByTaxID(req.Context(), taxID)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "Backend unavailable")
		return
	}
	if client == nil {
		respondError(w, http.StatusNotFound, "Client not found")
		return
	}
	respondJSON(w, http.StatusOK, client)
}

// createClient creates a new client
func (r *Router) createClient(w http.ResponseWriter, req *http.Request) {
	var client models.Client
	if err := json.NewDecoder(req.Body).Decode(&client); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if client.FullName == "" {
		respondError(w, http.StatusBadRequest, "Full name is required")
		return
	}

	created, err := r.store.CreateClient(req.Context(), &client)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create client (tax id might exist)")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// updateClient applies a partial update
func (r *Router) updateClient(w http.ResponseWriter, req *http.Request) {
	id, err := parseID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid client ID")
		return
	}

	var patch models.ClientPatch
	if err := json.NewDecoder(req.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	updated, err := r.store.UpdateClient(req.Context(), id, &patch)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "Backend unavailable")
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, "Client not found")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}
