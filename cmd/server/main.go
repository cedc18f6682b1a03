package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/eventgate/checkin-server-go/internal/config"
	"github.com/eventgate/checkin-server-go/internal/database"
	"github.com/eventgate/checkin-server-go/internal/handler"
	"github.com/eventgate/checkin-server-go/internal/jobs"
	"github.com/eventgate/checkin-server-go/internal/metrics"
	"github.com/eventgate/checkin-server-go/internal/middleware"
	"github.com/eventgate/checkin-server-go/internal/redis"
	"github.com/eventgate/checkin-server-go/internal/repository"
	"github.com/eventgate/checkin-server-go/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	isProduction := os.Getenv("FLY_APP_NAME") != ""
	if err := cfg.Validate(isProduction); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	metrics.MustRegister()

	eventRepo := repository.NewEventRepository(db.DB)
	scannerRepo := repository.NewScannerRepository(db.DB)
	assignmentRepo := repository.NewAssignmentRepository(db.DB)
	inviteRepo := repository.NewInviteRepository(db)

	tokenService := service.NewTokenService(cfg.SessionSecret, cfg.SessionTTL())
	eventService := service.NewEventService(eventRepo, inviteRepo)
	scannerService := service.NewScannerService(scannerRepo, assignmentRepo, eventRepo, inviteRepo, tokenService)
	redemptionService := service.NewRedemptionService(eventRepo, scannerRepo, assignmentRepo, inviteRepo)

	authMiddleware := middleware.NewAuthMiddleware(tokenService)
	adminKeyMiddleware := middleware.NewAdminKeyMiddleware(cfg.AdminAPIKey)
	rateLimitMiddleware := middleware.NewRedisRateLimitMiddleware(redisClient.Client, cfg.ScanRateLimitPerMin)
	loginLimiter := middleware.NewLoginRateLimiter()
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(0)

	eventHandler := handler.NewEventHandler(eventService)
	scannerHandler := handler.NewScannerHandler(scannerService)
	redemptionHandler := handler.NewRedemptionHandler(redemptionService)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(bodyLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Method("GET", "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(loginLimiter.Handler)
			r.Post("/scanners/login", scannerHandler.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Handler)
			r.Use(rateLimitMiddleware.Handler)
			r.Mount("/redemptions", redemptionHandler.Routes())
		})

		r.Group(func(r chi.Router) {
			r.Use(adminKeyMiddleware.Handler)
			r.Mount("/events", eventHandler.Routes())
			r.Mount("/scanners", scannerHandler.Routes())
			r.Mount("/invites", eventHandler.InviteRoutes())
			r.Mount("/patterns", eventHandler.PatternRoutes())
		})
	})

	expiryJob := jobs.NewEventExpiryJob(eventRepo, config.EventExpiryJobInterval)
	expiryJob.Start()
	defer expiryJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: 0,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
