package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bramley-breezers/club-records/config"
	"github.com/bramley-breezers/club-records/db"
	"github.com/bramley-breezers/club-records/handlers"
	"github.com/bramley-breezers/club-records/live"
	"github.com/bramley-breezers/club-records/repositories"
	api "github.com/bramley-breezers/club-records/routes"
	"github.com/bramley-breezers/club-records/services"
	"github.com/bramley-breezers/club-records/storage"
	"github.com/go-chi/chi/v5"
)

const rebuildCheckInterval = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	rdb, err := db.Connect(cfg.RedisURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			logger.Error("failed to close redis connection", slog.Any("error", err))
		} else {
			logger.Info("redis connection closed")
		}
	}()
	logger.Info("redis connection established")

	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 credentials missing, logo upload disabled")
	}

	wsHub := live.NewHub(logger)
	go wsHub.Run()
	logger.Info("live hub started")

	memberRepo := repositories.NewRedisMemberRepository(rdb)
	resultRepo := repositories.NewRedisResultRepository(rdb)
	pendingRepo := repositories.NewRedisPendingRepository(rdb)
	champSubRepo := repositories.NewRedisChampSubmissionRepository(rdb)
	champResultRepo := repositories.NewRedisChampResultRepository(rdb)
	calendarRepo := repositories.NewRedisCalendarRepository(rdb)
	referenceRepo := repositories.NewRedisReferenceTimeRepository(rdb)
	settingsRepo := repositories.NewRedisSettingsRepository(rdb)
	cacheRepo := repositories.NewRedisCacheRepository(rdb)
	logger.Info("repositories initialized")

	authService := services.NewAuthService(settingsRepo)
	memberService := services.NewMemberService(memberRepo, cacheRepo)
	resultService := services.NewResultService(memberRepo, resultRepo, pendingRepo, cacheRepo)
	championshipService := services.NewChampionshipService(
		calendarRepo,
		referenceRepo,
		champSubRepo,
		champResultRepo,
		memberRepo,
		settingsRepo,
		cacheRepo,
	)
	cacheService := services.NewCacheService(
		memberRepo,
		resultRepo,
		champResultRepo,
		calendarRepo,
		settingsRepo,
		cacheRepo,
		wsHub,
		logger,
	)
	settingsService := services.NewSettingsService(settingsRepo, cacheRepo, uploader, wsHub)
	maintenanceService := services.NewMaintenanceService(
		memberRepo,
		resultRepo,
		pendingRepo,
		champSubRepo,
		champResultRepo,
		cacheRepo,
		cacheService,
		logger,
	)
	logger.Info("services initialized")

	if err := authService.EnsurePassword(context.Background(), cfg.AdminPassword); err != nil {
		logger.Error("failed to seed admin password", slog.Any("error", err))
		os.Exit(1)
	}

	// Background rebuild: any mutation bumps the data generation and this
	// loop catches up shortly after, keeping reads cheap.
	go func() {
		ticker := time.NewTicker(rebuildCheckInterval)
		defer ticker.Stop()
		logger.Info("cache rebuild scheduler started", slog.Duration("interval", rebuildCheckInterval))

		if err := cacheService.Rebuild(context.Background()); err != nil {
			logger.Error("scheduler: initial rebuild failed", slog.Any("error", err))
		}

		for range ticker.C {
			stale, err := cacheService.Stale(context.Background())
			if err != nil {
				logger.Error("scheduler: staleness check failed", slog.Any("error", err))
				continue
			}
			if !stale {
				continue
			}
			if err := cacheService.Rebuild(context.Background()); err != nil {
				logger.Error("scheduler: rebuild failed", slog.Any("error", err))
			}
		}
	}()

	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	memberHandler := handlers.NewMemberHandler(memberService)
	resultHandler := handlers.NewResultHandler(resultService)
	leaderboardHandler := handlers.NewLeaderboardHandler(cacheService)
	championshipHandler := handlers.NewChampionshipHandler(championshipService, cacheService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	maintenanceHandler := handlers.NewMaintenanceHandler(maintenanceService, cacheService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		authHandler,
		memberHandler,
		resultHandler,
		leaderboardHandler,
		championshipHandler,
		settingsHandler,
		maintenanceHandler,
		webSocketHandler,
		cfg.JWTSecretKey,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
