package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"nekoyaBack/internal/models"
	"nekoyaBack/internal/services"
)

type PlayerHandler struct {
	Service  *services.PlayerService
	UserData *services.UserDataService
}

func (h *PlayerHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	if req.DeviceID == "" || req.DeviceSecret == "" {
		http.Error(w, "Device id and secret are required", http.StatusBadRequest)
		return
	}

	resp, err := h.Service.SignUp(r.Context(), req)
	if err == models.ErrDuplicateDevice {
		http.Error(w, "Device already registered", http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, "Failed to sign up", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

func (h *PlayerHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}

	resp, err := h.Service.SignIn(r.Context(), req)
	if err == models.ErrInvalidCredentials {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		http.Error(w, "Failed to sign in", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(resp)
}

func (h *PlayerHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}

	resp, err := h.Service.RefreshTokens(r.Context(), req.RefreshToken)
	if err == models.ErrNoRecord || err == models.ErrSessionExpired {
		http.Error(w, "Invalid refresh token", http.StatusUnauthorized)
		return
	}
	if err != nil {
		http.Error(w, "Failed to refresh", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(resp)
}

func (h *PlayerHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	playerID, ok := playerIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.Service.SignOut(r.Context(), playerID); err != nil {
		http.Error(w, "Failed to sign out", http.StatusInternalServerError)
		return
	}
	h.UserData.Forget(playerID)
	w.WriteHeader(http.StatusNoContent)
}

// GetProfile serves the player snapshot, preferring cached state over a
// database read.
func (h *PlayerHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	playerID, ok := playerIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	player, err := h.UserData.PlayerProfile(r.Context(), playerID)
	if err != nil {
		http.Error(w, "Failed to fetch", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(player)
}

func (h *PlayerHandler) RegisterFCMToken(w http.ResponseWriter, r *http.Request) {
	playerID, ok := playerIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.UpdateFCMTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	if req.FCMToken == "" {
		http.Error(w, "Token is required", http.StatusBadRequest)
		return
	}

	if err := h.Service.RegisterFCMToken(r.Context(), playerID, req.FCMToken); err != nil {
		http.Error(w, "Failed to register token", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PlayerHandler) TicketHistory(w http.ResponseWriter, r *http.Request) {
	playerID, ok := playerIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.Service.TicketHistory(r.Context(), playerID, limit)
	if err != nil {
		http.Error(w, "Failed to fetch", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(entries)
}
