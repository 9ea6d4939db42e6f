package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/supersaha/server/internal/middleware"
	"github.com/supersaha/server/internal/repo"
)

// DeviceHandler handles device pairing endpoints (protected)
type DeviceHandler struct {
	deviceRepo repo.DeviceRepo
}

// NewDeviceHandler creates a new device handler
func NewDeviceHandler(deviceRepo repo.DeviceRepo) *DeviceHandler {
	return &DeviceHandler{deviceRepo: deviceRepo}
}

// pairRequest is the request body for POST /devices/pair
type pairRequest struct {
	DeviceName string `json:"device_name"`
}

// deviceResponse is a device pairing in API responses
type deviceResponse struct {
	ID         string     `json:"id"`
	DeviceName string     `json:"device_name"`
	PairedAt   time.Time  `json:"paired_at"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
}

// HandlePair handles POST /devices/pair
func (h *DeviceHandler) HandlePair(w http.ResponseWriter, r *http.Request) {
	playerID, ok := middleware.GetPlayerID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req pairRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.DeviceName = strings.TrimSpace(req.DeviceName)
	if req.DeviceName == "" {
		respondWithError(w, http.StatusBadRequest, "device_name is required")
		return
	}

	pairing, err := h.deviceRepo.Create(r.Context(), playerID, req.DeviceName)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to pair device")
		return
	}

	respondJSON(w, http.StatusCreated, deviceResponse{
		ID:         pairing.ID.String(),
		DeviceName: pairing.DeviceName,
		PairedAt:   pairing.PairedAt,
	})
}

// HandleList handles GET /devices
func (h *DeviceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	playerID, ok := middleware.GetPlayerID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	pairings, err := h.deviceRepo.ListByPlayer(r.Context(), playerID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to list devices")
		return
	}

	out := make([]deviceResponse, 0, len(pairings))
	for _, p := range pairings {
		out = append(out, deviceResponse{
			ID:         p.ID.String(),
			DeviceName: p.DeviceName,
			PairedAt:   p.PairedAt,
			LastSeenAt: p.LastSeenAt,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"devices": out})
}
