package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/wanderon/auth-service/internal/config"
	httpserver "github.com/wanderon/auth-service/internal/http"
	"github.com/wanderon/auth-service/pkg/auth"
	"github.com/wanderon/auth-service/pkg/repository"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Connect to database
	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("connected to database")

	// Apply schema migrations
	if err := repository.Migrate(context.Background(), db); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	// Initialize store and services
	usersRepo := repository.NewUsersRepository(db)

	hasher := auth.NewHasher(cfg.BcryptCost)

	sameSite := http.SameSiteStrictMode
	if cfg.CookieCrossSite {
		sameSite = http.SameSiteNoneMode
	}
	tokenService := auth.NewTokenService(auth.TokenConfig{
		Secret:         []byte(cfg.JWTSecret),
		TTL:            cfg.TokenTTL,
		Issuer:         cfg.JWTIssuer,
		Audience:       cfg.JWTAudience,
		CookieName:     cfg.CookieName,
		CookieSecure:   cfg.IsProduction() || cfg.CookieCrossSite,
		CookieSameSite: sameSite,
	})

	authService := auth.NewService(usersRepo, hasher, auth.LockoutPolicy{
		MaxAttempts:  cfg.MaxLoginAttempts,
		LockDuration: cfg.LockoutDuration,
	})

	// Create router
	router := httpserver.NewRouter(httpserver.RouterConfig{
		Logger:             logger,
		AuthService:        authService,
		TokenService:       tokenService,
		RateLimitEnabled:   cfg.RateLimitEnabled,
		APIRateLimit:       cfg.APIRateLimit,
		AuthRateLimit:      cfg.AuthRateLimit,
		RateLimitWindow:    cfg.RateLimitWindow,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.ServerAddr, cfg.ServerPort)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
