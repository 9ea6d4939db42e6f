package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/supersaha/server/internal/phone"
	"github.com/supersaha/server/internal/verify"
)

// VerifyHandler exposes the verification gateway over HTTP. Every endpoint
// follows the same policy: missing fields are rejected with 400 before any
// upstream call, gateway failures become 400 with the provider's error text,
// and only request-parsing faults produce 500.
type VerifyHandler struct {
	gateway verify.Gateway
}

// NewVerifyHandler creates a new verify handler
func NewVerifyHandler(gateway verify.Gateway) *VerifyHandler {
	return &VerifyHandler{gateway: gateway}
}

// failureResponse is the uniform error body for the verify endpoints
type failureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// startRequest is the request body for POST /verify/start
type startRequest struct {
	Phone string `json:"phone"`
}

// checkRequest is the request body for POST /verify/check
type checkRequest struct {
	RequestID string `json:"request_id"`
	Code      string `json:"code"`
}

// cancelRequest is the request body for POST /verify/cancel
type cancelRequest struct {
	RequestID string `json:"request_id"`
}

// sendSMSRequest is the request body for POST /sms/send
type sendSMSRequest struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

// HandleStart handles POST /verify/start
func (h *VerifyHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if !decodeBody(w, r, &req) {
		return
	}

	req.Phone = strings.TrimSpace(req.Phone)
	if req.Phone == "" {
		respondFailure(w, http.StatusBadRequest, "phone is required")
		return
	}

	res := h.gateway.Start(r.Context(), phone.Normalize(req.Phone))
	if !res.Success {
		logMaskedPhone(req.Phone, "verification start rejected: %s", res.Error)
	}
	respondResult(w, res)
}

// HandleCheck handles POST /verify/check
func (h *VerifyHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if !decodeBody(w, r, &req) {
		return
	}

	req.RequestID = strings.TrimSpace(req.RequestID)
	req.Code = strings.TrimSpace(req.Code)
	if req.RequestID == "" || req.Code == "" {
		respondFailure(w, http.StatusBadRequest, "request_id and code are required")
		return
	}

	respondResult(w, h.gateway.Check(r.Context(), req.RequestID, req.Code))
}

// HandleCancel handles POST /verify/cancel
func (h *VerifyHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if !decodeBody(w, r, &req) {
		return
	}

	req.RequestID = strings.TrimSpace(req.RequestID)
	if req.RequestID == "" {
		respondFailure(w, http.StatusBadRequest, "request_id is required")
		return
	}

	respondResult(w, h.gateway.Cancel(r.Context(), req.RequestID))
}

// HandleSendSMS handles POST /sms/send
func (h *VerifyHandler) HandleSendSMS(w http.ResponseWriter, r *http.Request) {
	var req sendSMSRequest
	if !decodeBody(w, r, &req) {
		return
	}

	req.To = strings.TrimSpace(req.To)
	if req.To == "" || req.Text == "" {
		respondFailure(w, http.StatusBadRequest, "to and text are required")
		return
	}

	res := h.gateway.SendSMS(r.Context(), phone.Normalize(req.To), req.Text)
	if !res.Success {
		logMaskedPhone(req.To, "SMS send rejected: %s", res.Error)
	}
	respondResult(w, res)
}

// decodeBody decodes the JSON request body, answering 500 on parse faults.
// Returns false if a response has already been written.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondFailure(w, http.StatusInternalServerError, "invalid request body")
		return false
	}
	return true
}

// respondResult maps a gateway result onto the fixed status-code policy:
// success is 200, any gateway failure is 400.
func respondResult(w http.ResponseWriter, res verify.Result) {
	status := http.StatusOK
	if !res.Success {
		status = http.StatusBadRequest
	}
	respondJSON(w, status, res)
}

func respondFailure(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, failureResponse{Success: false, Error: message})
}
