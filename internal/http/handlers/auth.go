package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/supersaha/server/internal/auth"
	"github.com/supersaha/server/internal/middleware"
	"github.com/supersaha/server/internal/phone"
	"github.com/supersaha/server/internal/verify"
)

// AuthHandler handles player sign-in endpoints
type AuthHandler struct {
	authService *auth.AuthService
	gateway     verify.Gateway
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.AuthService, gateway verify.Gateway) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		gateway:     gateway,
	}
}

// requestOTPRequest is the request body for POST /auth/request_otp
type requestOTPRequest struct {
	Phone string `json:"phone"`
}

// requestOTPResponse is the JSON response for request_otp. The client must
// retain request_id and send it back on verify; the server keeps nothing.
type requestOTPResponse struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// verifyOTPRequest is the request body for POST /auth/verify_otp
type verifyOTPRequest struct {
	Phone     string `json:"phone"`
	RequestID string `json:"request_id"`
	OTP       string `json:"otp"`
}

// verifyOTPResponse is the JSON response for verify_otp
type verifyOTPResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	TokenType    string         `json:"token_type"`
	User         playerResponse `json:"user"`
}

// playerResponse is the player object in API responses
type playerResponse struct {
	ID          string `json:"id"`
	PhoneNumber string `json:"phone_number"`
	DisplayName string `json:"display_name,omitempty"`
}

// HandleRequestOTP handles POST /auth/request_otp
func (h *AuthHandler) HandleRequestOTP(w http.ResponseWriter, r *http.Request) {
	var req requestOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	req.Phone = strings.TrimSpace(req.Phone)
	if req.Phone == "" {
		respondWithError(w, http.StatusBadRequest, "phone is required")
		return
	}

	res := h.gateway.Start(r.Context(), phone.Normalize(req.Phone))
	if !res.Success {
		logMaskedPhone(req.Phone, "Failed to start verification: %s", res.Error)
		respondWithError(w, http.StatusBadRequest, res.Error)
		return
	}

	respondJSON(w, http.StatusOK, requestOTPResponse{
		Message:   "otp_sent",
		RequestID: res.RequestID,
	})
}

// HandleVerifyOTP handles POST /auth/verify_otp
func (h *AuthHandler) HandleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Phone = strings.TrimSpace(req.Phone)
	req.RequestID = strings.TrimSpace(req.RequestID)
	req.OTP = strings.TrimSpace(req.OTP)

	if req.Phone == "" || req.RequestID == "" || req.OTP == "" {
		respondWithError(w, http.StatusBadRequest, "phone, request_id and otp are required")
		return
	}

	player, accessToken, refreshToken, err := h.authService.VerifyCodeAndIssueTokens(r.Context(), req.Phone, req.RequestID, req.OTP)
	if err != nil {
		logMaskedPhone(req.Phone, "OTP verification failed: %v", err)
		respondWithError(w, http.StatusUnauthorized, "invalid or expired code")
		return
	}

	respondJSON(w, http.StatusOK, verifyOTPResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		User: playerResponse{
			ID:          player.ID.String(),
			PhoneNumber: player.PhoneNumber,
			DisplayName: player.DisplayName,
		},
	})
}

// refreshRequest is the request body for POST /auth/refresh
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// refreshResponse is the JSON response for refresh
type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// HandleRefresh handles POST /auth/refresh
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.RefreshToken = strings.TrimSpace(req.RefreshToken)
	if req.RefreshToken == "" {
		respondWithError(w, http.StatusBadRequest, "refresh_token is required")
		return
	}
	accessToken, refreshToken, err := h.authService.RefreshTokens(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrRefreshTokenReuseDetected) {
			respondWithError(w, http.StatusUnauthorized, "refresh_token_reuse_detected")
			return
		}
		respondWithError(w, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	}
	respondJSON(w, http.StatusOK, refreshResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	})
}

// logoutRequest is the request body for POST /auth/logout
type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// HandleLogout handles POST /auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.RefreshToken = strings.TrimSpace(req.RefreshToken)
	if req.RefreshToken == "" {
		respondWithError(w, http.StatusBadRequest, "refresh_token is required")
		return
	}
	if err := h.authService.Logout(r.Context(), req.RefreshToken); err != nil {
		respondWithError(w, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleMe handles GET /me (protected). Returns the authenticated player.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	player, ok := middleware.GetPlayer(r.Context())
	if !ok || player == nil {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	respondJSON(w, http.StatusOK, playerResponse{
		ID:          player.ID.String(),
		PhoneNumber: player.PhoneNumber,
		DisplayName: player.DisplayName,
	})
}
