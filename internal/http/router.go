package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/wanderon/auth-service/internal/http/features/account"
	"github.com/wanderon/auth-service/internal/http/features/admin"
	authapi "github.com/wanderon/auth-service/internal/http/features/auth"
	"github.com/wanderon/auth-service/internal/http/middleware"
	"github.com/wanderon/auth-service/internal/httputil"
	"github.com/wanderon/auth-service/pkg/auth"
	"github.com/wanderon/auth-service/pkg/domain"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger       *slog.Logger
	AuthService  *auth.Service
	TokenService *auth.TokenService

	RateLimitEnabled   bool
	APIRateLimit       int
	AuthRateLimit      int
	RateLimitWindow    time.Duration
	MaxRequestBodySize int64
}

// NewRouter creates the HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequestSizeLimit(cfg.MaxRequestBodySize))

	// Health check, exempt from rate limiting
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.OK(w, http.StatusOK, "Server is running")
	})

	apiLimiter := middleware.NoRateLimit()
	authLimiter := middleware.NoRateLimit()
	if cfg.RateLimitEnabled {
		apiLimiter = middleware.RateLimit(middleware.RateLimitConfig{
			Requests: cfg.APIRateLimit,
			Window:   cfg.RateLimitWindow,
			Logger:   cfg.Logger,
		})
		authLimiter = middleware.RateLimit(middleware.RateLimitConfig{
			Requests: cfg.AuthRateLimit,
			Window:   cfg.RateLimitWindow,
			Logger:   cfg.Logger,
		})
	}

	requireAuth := middleware.Auth(cfg.Logger, cfg.TokenService, cfg.AuthService)

	authHandler := authapi.NewHandler(cfg.Logger, cfg.AuthService, cfg.TokenService)
	accountHandler := account.NewHandler(cfg.Logger, cfg.AuthService, cfg.TokenService)
	adminHandler := admin.NewHandler(cfg.Logger, cfg.AuthService)

	r.Route("/api", func(r chi.Router) {
		r.Use(apiLimiter)

		// Authentication routes carry a stricter per-address cap on top
		// of the general API cap.
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter)

			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", authHandler.Me)
				r.Get("/logout", authHandler.Logout)
				r.Put("/updatepassword", accountHandler.UpdatePassword)
				r.Put("/updateprofile", accountHandler.UpdateProfile)
				r.Delete("/deleteaccount", accountHandler.DeleteAccount)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAuth)
			r.Use(middleware.RequireRole(domain.RoleAdmin))
			r.Get("/users", adminHandler.ListUsers)
		})
	})

	// Shaped 404 for unknown routes
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.Fail(w, http.StatusNotFound, "Route not found")
	})

	return r
}
