package handlers

import (
	"encoding/json"
	"net/http"

	"nekoyaBack/internal/screens"
)

type StockCleanupHandler struct {
	Screens *screens.Registry
}

// GetScreen opens the cleanup screen session for the player, running the
// initial load on first open, and responds with the rendered screen state.
func (h *StockCleanupHandler) GetScreen(w http.ResponseWriter, r *http.Request) {
	playerID, ok := playerIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	scr, _ := h.Screens.Open(r.Context(), playerID)
	json.NewEncoder(w).Encode(scr.Render())
}

// Retry re-runs the screen's load. This backs the error panel's retry action.
func (h *StockCleanupHandler) Retry(w http.ResponseWriter, r *http.Request) {
	playerID, ok := playerIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	scr, created := h.Screens.Open(r.Context(), playerID)
	if !created {
		scr.Load(r.Context())
	}
	json.NewEncoder(w).Encode(scr.Render())
}

// CleanupItem runs the cleanup action for one listed item and responds with
// the refreshed screen state.
func (h *StockCleanupHandler) CleanupItem(w http.ResponseWriter, r *http.Request) {
	playerID, ok := playerIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	itemID := getParam(r, "item_id")
	if itemID == "" {
		http.Error(w, "Missing item id", http.StatusBadRequest)
		return
	}

	scr, _ := h.Screens.Open(r.Context(), playerID)
	scr.Cleanup(r.Context(), itemID)
	json.NewEncoder(w).Encode(scr.Render())
}

// Dismiss destroys the player's screen session.
func (h *StockCleanupHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	playerID, ok := playerIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	h.Screens.Close(playerID)
	w.WriteHeader(http.StatusNoContent)
}
