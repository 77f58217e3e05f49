package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/models"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/services/workshop"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/store"
)

// parseID extracts the numeric {id} route variable
func parseID(req *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 32)
	return uint(id), err
}

// listOrders returns orders, optionally filtered by ?estado= and ?patente=
func (r *Router) listOrders(w http.ResponseWriter, req *http.Request) {
	filter := &store.OrderFilter{
		Status: models.OrderStatus(req.URL.Query().Get("estado")),
		Plate:  req.URL.Query().Get("patente"),
	}

	orders, err := r.store.ListOrders(req.Context(), filter)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "Backend unavailable")
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// getOrder returns a single order by ID
func (r *Router) getOrder(w http.ResponseWriter, req *http.Request) {
	id, err := parseID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	order, err := r.store.GetOrderByID(req.Context(), id)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "Backend unavailable")
		return
	}
	if order == nil {
		respondError(w, http.StatusNotFound, "Order not found")
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// createOrder creates a new work order
func (r *Router) createOrder(w http.ResponseWriter, req *http.Request) {
	var order models.Order
	if err := json.NewDecoder(req.Body).Decode(&order); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if models.NormalizePlate(order.Plate) == "" {
		respondError(w, http.StatusBadRequest, "Plate is required")
		return
	}
	if order.Total < 0 {
		respondError(w, http.StatusBadRequest, "Price total cannot be negative")
		return
	}

	created, err := r.svc.CreateOrder(req.Context(), &order)
	if err != nil {
		if errors.Is(err, workshop.ErrPaymentMismatch) {
			respondError(w, http.StatusBadRequest, "Payment methods do not sum to order total")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// updateOrder applies a partial update through the workshop service
func (r *Router) updateOrder(w http.ResponseWriter, req *http.Request) {
	id, err := parseID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var patch models.OrderPatch
	if err := json.NewDecoder(req.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if patch.Total.Set && patch.Total.Value != nil && *patch.Total.Value < 0 {
		respondError(w, http.StatusBadRequest, "Price total cannot be negative")
		return
	}

	updated, err := r.svc.UpdateOrder(req.Context(), id, &patch)
	if err != nil {
		if errors.Is(err, workshop.ErrPaymentMismatch) {
			respondError(w, http.StatusBadRequest, "Payment methods do not sum to order total")
			return
		}
		respondError(w, http.StatusServiceUnavailable, "Backend unavailable")
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, "Order not found")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// deleteOrder removes an order
func (r *Router) deleteOrder(w http.ResponseWriter, req *http.Request) {
	id, err := parseID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	if err := r.store.DeleteOrder(req.Context(), id); err != nil {
		respondError(w, http.StatusServiceUnavailable, "Backend unavailable")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Order deleted successfully",
	})
}

// getOrderChecklist returns the checklist attached to an order
func (r *Router) getOrderChecklist(w http.ResponseWriter, req *http.Request) {
	id, err := parseID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	checklist, err := r.store.GetChecklistByOrderID(req.Context(), id)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "Backend unavailable")
		return
	}
	if checklist == nil {
		respondError(w, http.StatusNotFound, "Checklist not found")
		return
	}
	respondJSON(w, http.StatusOK, checklist)
}
