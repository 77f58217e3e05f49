package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/utils"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login handles staff login
func (r *Router) login(w http.ResponseWriter, req *http.Request) {
	var loginReq LoginRequest
	if err := json.NewDecoder(req.Body).Decode(&loginReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	staff, err := r.store.FindStaffByEmail(req.Context(), loginReq.Email)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "Backend unavailable")
		return
	}
	if staff == nil || !staff.Active {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if !utils.CheckPasswordHash(loginReq.Password, staff.PasswordHash) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateToken(staff, r.cfg.JWTSecret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"accessToken": token,
		"perfil":      staff,
	})
}
