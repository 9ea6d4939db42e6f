package http

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/supersaha/server/internal/auth"
	"github.com/supersaha/server/internal/http/handlers"
	"github.com/supersaha/server/internal/middleware"
	"github.com/supersaha/server/internal/repo"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(
	verifyHandler *handlers.VerifyHandler,
	authHandler *handlers.AuthHandler,
	playerHandler *handlers.PlayerHandler,
	deviceHandler *handlers.DeviceHandler,
	jwtService *auth.JWTService,
	playerRepo repo.PlayerRepo,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	statusHandler := handlers.NewStatusHandler()
	r.Get("/status", statusHandler.ServeHTTP)

	// Verification front door (stateless proxy to the provider)
	r.Route("/verify", func(r chi.Router) {
		r.Post("/start", verifyHandler.HandleStart)
		r.Post("/check", verifyHandler.HandleCheck)
		r.Post("/cancel", verifyHandler.HandleCancel)
	})
	r.Post("/sms/send", verifyHandler.HandleSendSMS)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/request_otp", authHandler.HandleRequestOTP)
		r.Post("/verify_otp", authHandler.HandleVerifyOTP)
		r.Post("/refresh", authHandler.HandleRefresh)
		r.Post("/logout", authHandler.HandleLogout)
	})

	// Protected routes (require valid JWT)
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(jwtService, playerRepo))
		r.Get("/me", authHandler.HandleMe)
		r.Patch("/me", playerHandler.HandleUpdateMe)
		r.Post("/devices/pair", deviceHandler.HandlePair)
		r.Get("/devices", deviceHandler.HandleList)
	})

	return r
}
