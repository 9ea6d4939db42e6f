package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/supersaha/server/internal/auth"
	"github.com/supersaha/server/internal/model"
	"github.com/supersaha/server/internal/repo"
)

type contextKey string

const (
	playerKey   contextKey = "player"
	playerIDKey contextKey = "player_id"
)

// AuthMiddleware validates JWT tokens, loads the player from DB, and attaches it to context
func AuthMiddleware(jwtService *auth.JWTService, playerRepo repo.PlayerRepo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondWithError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondWithError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			tokenString := strings.TrimSpace(parts[1])
			if tokenString == "" {
				respondWithError(w, http.StatusUnauthorized, "missing token")
				return
			}

			claims, err := jwtService.VerifyToken(tokenString)
			if err != nil {
				respondWithError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			player, err := playerRepo.GetByID(r.Context(), claims.PlayerID.String())
			if err != nil {
				respondWithError(w, http.StatusUnauthorized, "player not found")
				return
			}

			ctx := context.WithValue(r.Context(), playerKey, &player)
			ctx = context.WithValue(ctx, playerIDKey, claims.PlayerID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPlayer returns the player attached to the request context (set by AuthMiddleware)
func GetPlayer(ctx context.Context) (*model.Player, bool) {
	p, ok := ctx.Value(playerKey).(*model.Player)
	return p, ok
}

// GetPlayerID extracts the player ID from context
func GetPlayerID(ctx context.Context) (uuid.UUID, bool) {
	playerID, ok := ctx.Value(playerIDKey).(uuid.UUID)
	return playerID, ok
}

// respondWithError sends a JSON error response
func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	response := map[string]string{"error": message}
	_ = json.NewEncoder(w).Encode(response)
}
