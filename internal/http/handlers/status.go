package handlers

import "net/http"

// statusResponse is the liveness payload. It reports only that the process is
// up; upstream provider reachability is deliberately not checked here.
type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// StatusHandler handles the liveness endpoint
type StatusHandler struct{}

// NewStatusHandler creates a new status handler
func NewStatusHandler() *StatusHandler {
	return &StatusHandler{}
}

// ServeHTTP handles GET /status
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, statusResponse{
		Status:  "online",
		Message: "SuperSaha verification service",
	})
}
