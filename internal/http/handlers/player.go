package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/supersaha/server/internal/middleware"
	"github.com/supersaha/server/internal/repo"
)

// PlayerHandler handles player profile endpoints (protected)
type PlayerHandler struct {
	playerRepo repo.PlayerRepo
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(playerRepo repo.PlayerRepo) *PlayerHandler {
	return &PlayerHandler{playerRepo: playerRepo}
}

// updateMeRequest is the request body for PATCH /me
type updateMeRequest struct {
	DisplayName string `json:"display_name"`
}

// HandleUpdateMe handles PATCH /me
func (h *PlayerHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	player, ok := middleware.GetPlayer(r.Context())
	if !ok || player == nil {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req updateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if req.DisplayName == "" {
		respondWithError(w, http.StatusBadRequest, "display_name is required")
		return
	}

	if err := h.playerRepo.UpdateDisplayName(r.Context(), player.ID, req.DisplayName); err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	respondJSON(w, http.StatusOK, playerResponse{
		ID:          player.ID.String(),
		PhoneNumber: player.PhoneNumber,
		DisplayName: req.DisplayName,
	})
}
