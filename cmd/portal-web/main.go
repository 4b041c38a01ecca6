package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/stemsi/campus-portal/internal/apiclient"
	"github.com/stemsi/campus-portal/internal/config"
	"github.com/stemsi/campus-portal/internal/database"
	"github.com/stemsi/campus-portal/internal/handler"
	"github.com/stemsi/campus-portal/internal/logger"
	"github.com/stemsi/campus-portal/internal/middleware"
	"github.com/stemsi/campus-portal/internal/router"
	"github.com/stemsi/campus-portal/internal/session"
	"github.com/stemsi/campus-portal/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, "portal-web")
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("api", cfg.APIBaseURL).
		Msg("Starting campus portal")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to Redis (optional) ───────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	if rdb != nil {
		defer rdb.Close()
	}

	// ─── API Gateway ───────────────────────────────────────────────────
	api := apiclient.New(cfg.APIBaseURL, cfg.APITimeout, log)

	var identityCache session.IdentityCache
	var loginLimiter middleware.Limiter
	if rdb != nil {
		identityCache = session.NewRedisIdentityCache(rdb, cfg.IdentityCacheTTL)
		loginLimiter = middleware.NewRedisLimiter(rdb, cfg.LoginRateLimit, time.Minute)
	} else {
		loginLimiter = middleware.NewMemoryLimiter(ctx, cfg.LoginRateLimit, time.Minute)
	}

	renderer, err := handler.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse templates")
	}

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(api, log),
		Dashboard:  handler.NewDashboardHandler(api, log),
		Admin:      handler.NewAdminHandler(api, log),
		Course:     handler.NewCourseHandler(api, log),
		Attendance: handler.NewAttendanceHandler(api, log),
		Grade:      handler.NewGradeHandler(api, log),
		System:     handler.NewSystemHandler(api, rdb, log),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(cfg, router.Deps{
		Gateway:       api,
		IdentityCache: identityCache,
		LoginLimiter:  loginLimiter,
		Renderer:      renderer,
		Log:           log,
	}, handlers)

	serve(r, cfg.ServerPort, log)
}

// serve runs the HTTP server until SIGINT/SIGTERM, then shuts down gracefully.
func serve(h http.Handler, port string, log zerolog.Logger) {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

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
