package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/langzhe001/cf-domain/internal/app"
	"github.com/langzhe001/cf-domain/internal/config"
	"github.com/langzhe001/cf-domain/internal/database"
	"github.com/langzhe001/cf-domain/internal/dns"
	"github.com/langzhe001/cf-domain/internal/logging"
	"github.com/langzhe001/cf-domain/internal/password"
	"github.com/langzhe001/cf-domain/internal/server"
	"github.com/langzhe001/cf-domain/internal/token"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.RunMigrations(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func runGracefulShutdown(srv *server.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	pool := setupDB(cfg)
	defer pool.Close()

	provider, err := dns.NewCloudflareProvider(cfg.CloudflareAPIToken, cfg.CloudflareZoneID)
	if err != nil {
		slog.Error("Failed to create DNS provider", "error", err)
		os.Exit(1)
	}

	userRepo := database.NewUserRepo(pool)
	tokens := token.NewService(cfg.SessionSecret, cfg.TokenTTL, clock)
	hasher := password.NewBcryptHasher()

	appSvc := app.NewService(userRepo, provider, tokens, hasher)

	healthChecks := []server.HealthCheck{
		{Name: "database", Check: pool.Ping},
	}

	srv := server.NewServer(cfg, appSvc, healthChecks)

	done := runGracefulShutdown(srv)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
