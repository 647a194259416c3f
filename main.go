package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	database "github.com/luisbelezaPF-sys/encontroDeus/app/db"
	appLogger "github.com/luisbelezaPF-sys/encontroDeus/app/logger"
	"github.com/luisbelezaPF-sys/encontroDeus/app/observability/metrics"
	"github.com/luisbelezaPF-sys/encontroDeus/app/tracer"
	"github.com/luisbelezaPF-sys/encontroDeus/config"
	"github.com/luisbelezaPF-sys/encontroDeus/internal/api/admin"
	"github.com/luisbelezaPF-sys/encontroDeus/internal/api/auth"
	"github.com/luisbelezaPF-sys/encontroDeus/internal/api/dailycontent"
	generativeAI "github.com/luisbelezaPF-sys/encontroDeus/internal/api/generative_ai"
	"github.com/luisbelezaPF-sys/encontroDeus/internal/api/progress"
	"github.com/luisbelezaPF-sys/encontroDeus/internal/api/subscription"
	api "github.com/luisbelezaPF-sys/encontroDeus/internal/router"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger(cfg.Mode)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tracer.InitTracingAndMetrics(cfg.Server.MetricsPort)
	metrics.InitAppMetrics()

	// --- Database Setup ---
	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}

	if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if !database.WaitForDB(ctx, pool, logger) {
		logger.Error("Database not ready after waiting, exiting.")
		os.Exit(1)
	}

	// --- Dependency Injection ---
	authRepo := auth.NewPostgresAuthRepo(pool, logger)
	authService := auth.NewAuthService(authRepo, cfg.JWT, cfg.Subscription.TrialDays, logger)
	authHandler := auth.NewAuthHandler(authService, logger)

	subscriptionRepo := subscription.NewPostgresSubscriptionRepo(pool, logger)
	subscriptionService := subscription.NewSubscriptionService(subscriptionRepo, cfg.Subscription, logger)
	subscriptionHandler := subscription.NewSubscriptionHandler(subscriptionService, logger)

	verseClient := dailycontent.NewBibleAPIClient(cfg.BibleAPI.BaseURL, cfg.BibleAPI.Timeout)

	// Gemini is optional enrichment; without a key the local reflection
	// fallback serves.
	var reflections dailycontent.ReflectionGenerator
	if aiClient, err := generativeAI.NewAIClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model); err != nil {
		logger.Warn("Gemini client unavailable, using local reflections", slog.Any("error", err))
	} else {
		reflections = aiClient
	}

	dailyContentRepo := dailycontent.NewPostgresDailyContentRepo(pool, logger)
	dailyContentService := dailycontent.NewDailyContentService(
		dailyContentRepo, verseClient, reflections,
		cfg.BibleAPI.Timeout, cfg.Gemini.Timeout, logger)
	dailyContentHandler := dailycontent.NewDailyContentHandler(dailyContentService, logger)

	progressRepo := progress.NewPostgresProgressRepo(pool, logger)
	progressService := progress.NewProgressService(progressRepo, logger)
	progressHandler := progress.NewProgressHandler(progressService, logger)

	adminRepo := admin.NewPostgresAdminRepo(pool, logger)
	adminHandler := admin.NewAdminHandler(adminRepo, logger)

	// --- Router Setup ---
	routerConfig := &api.Config{
		AuthHandler:            authHandler,
		SubscriptionHandler:    subscriptionHandler,
		DailyContentHandler:    dailyContentHandler,
		ProgressHandler:        progressHandler,
		AdminHandler:           adminHandler,
		AuthenticateMiddleware: auth.Authenticate(logger, cfg.JWT),
		RequireAdminMiddleware: auth.RequireAdmin(logger),
	}
	mainRouter := api.SetupRouter(routerConfig)

	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(appLogger.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(middleware.Compress(5, "application/json"))
	router.Mount("/", mainRouter)

	// --- HTTP Server Setup ---
	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	logger.Info("Application shut down complete.")
}

// setupLogger configures and returns the application logger.
func setupLogger(mode string) *slog.Logger {
	var logger *slog.Logger

	if mode == "development" || mode == "" {
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		jsonOpts := &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
