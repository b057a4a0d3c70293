package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
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

	appLogger "github.com/citymeteo/go-city-weather/app/logger"
	"github.com/citymeteo/go-city-weather/app/observability/metrics"
	"github.com/citymeteo/go-city-weather/app/tracer"
	"github.com/citymeteo/go-city-weather/config"
	"github.com/citymeteo/go-city-weather/internal/api/forecast"
	"github.com/citymeteo/go-city-weather/internal/api/geocode"
	"github.com/citymeteo/go-city-weather/internal/api/history"
	"github.com/citymeteo/go-city-weather/internal/api/weather"
	"github.com/citymeteo/go-city-weather/internal/render"
	api "github.com/citymeteo/go-city-weather/internal/router"
)

//go:embed static
var staticFS embed.FS

func main() {
	// --- Initial Loading ---
	// Use standard log until slog is configured, in case godotenv fails
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	// --- Logger Setup ---
	logger := setupLogger()
	slog.SetDefault(logger)

	// --- Application Context & Shutdown ---
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Observability Setup ---
	tracer.InitTracingAndMetrics(cfg.Handlers.Prometheus.Port)
	metrics.InitAppMetrics()

	// --- Dependency Injection ---
	geocoder := geocode.NewNominatimClient(
		cfg.Providers.Geocoder.BaseURL,
		cfg.Providers.Geocoder.UserAgent,
		cfg.Providers.Geocoder.Timeout,
		cfg.Cache.GeocodeTTL,
		logger,
	)
	forecaster := forecast.NewOpenMeteoClient(
		cfg.Providers.Forecast.BaseURL,
		cfg.Providers.Forecast.Timeout,
		cfg.Cache.ForecastTTL,
		logger,
	)
	historyStore := history.NewStore()

	renderer, err := render.New(logger)
	if err != nil {
		logger.Error("Failed to initialize renderer", slog.Any("error", err))
		os.Exit(1)
	}

	staticRoot, err := fs.Sub(staticFS, "static")
	if err != nil {
		logger.Error("Failed to mount static assets", slog.Any("error", err))
		os.Exit(1)
	}

	weatherService := weather.NewService(geocoder, forecaster, logger)
	weatherHandler := weather.NewHandler(weatherService, historyStore, renderer, logger)
	historyHandler := history.NewHandler(historyStore, logger)

	// --- Router Setup ---
	mainRouter := api.SetupRouter(&api.Config{
		WeatherHandler: weatherHandler,
		HistoryHandler: historyHandler,
		StaticFS:       staticRoot,
	})

	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(appLogger.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(cfg.Server.Timeout))
	router.Use(middleware.Compress(5, "application/json", "text/html"))
	router.Mount("/", mainRouter)

	// --- HTTP Server Setup ---
	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError), // Pipe server errors to slog
	}

	// --- Start Server Goroutine ---
	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel() // Trigger shutdown if server fails unexpectedly
		}
	}()

	// --- Wait for Shutdown Signal ---
	<-ctx.Done()

	// --- Graceful Shutdown ---
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
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" { // Default to development if not set
		// Colored logs for development
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
	} else {
		// JSON logs for production or other environments
		jsonOpts := &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
	}
	return logger
}
