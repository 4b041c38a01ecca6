package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/stemsi/campus-portal/internal/config"
	"github.com/stemsi/campus-portal/internal/devapi"
	"github.com/stemsi/campus-portal/internal/logger"
	"github.com/stemsi/campus-portal/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, "devapi")
	log.Info().
		Str("port", cfg.DevAPIPort).
		Str("mode", cfg.GinMode).
		Msg("Starting development API")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	// ─── Build and Seed ────────────────────────────────────────────────
	app := devapi.New(cfg, log)
	if err := app.Seed(context.Background(), cfg.SeedPassword); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed development data")
	}
	for _, u := range devapi.SeedAccounts {
		log.Info().Str("email", u.Email).Str("role", string(u.Role)).Msg("Seeded account")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.DevAPIPort,
		Handler:           app.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
