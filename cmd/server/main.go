// Package main is the entry point for the StockPulse correlation dashboard backend.
// It serves the stock universe, per-stock price charts and the live correlation
// heatmap, and keeps correlation snapshots fresh on a background schedule.
//
// The application follows the same layering throughout:
// - Domain layer is pure (no infrastructure dependencies)
// - Dependency injection via DI container
// - Service layer for business logic
// - HTTP handlers for API endpoints
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/stockpulse/internal/config"
	"github.com/aristath/stockpulse/internal/di"
	"github.com/aristath/stockpulse/internal/server"
	"github.com/aristath/stockpulse/pkg/logger"
)

// main is the application entry point. Startup sequence:
// 1. Loads configuration from environment variables (.env supported)
// 2. Initializes logging
// 3. Wires all dependencies via DI container (clients, services, scheduler, jobs)
// 4. Runs an initial correlation refresh and starts the scheduler
// 5. Starts the HTTP server
// 6. Waits for shutdown signal and performs graceful shutdown
func main() {
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "stockpulse",
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("version", server.Version).
		Str("stock_api", cfg.StockAPIBaseURL).
		Msg("Starting StockPulse")

	// Cancelled on shutdown; bounds every background refresh
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	container, jobs, err := di.Wire(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	// Warm the snapshot store so the first dashboard load does not wait on upstream
	go func() {
		if err := container.Scheduler.RunNow(jobs.RefreshCorrelations); err != nil {
			log.Warn().Err(err).Msg("Initial correlation refresh failed")
		}
	}()

	container.Scheduler.Start()
	log.Info().Str("schedule", cfg.RefreshSchedule).Msg("Scheduler started")

	srv := server.New(server.Config{
		Log:       log,
		Port:      cfg.Port,
		DevMode:   cfg.DevMode,
		Container: container,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Abort in-flight refreshes before waiting on the scheduler
	cancel()
	container.Scheduler.Stop()
	log.Info().Msg("Scheduler stopped")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
