package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/i474232898/weather-tagger/internal/api/http"
	"github.com/i474232898/weather-tagger/internal/config"
	"github.com/i474232898/weather-tagger/internal/logger"
	"github.com/i474232898/weather-tagger/internal/store"
	"github.com/i474232898/weather-tagger/internal/weather"
	"github.com/i474232898/weather-tagger/internal/weather/providers"
)

func main() {
	log := logger.New("weather-tagger")

	// Load configuration (.env first, then the environment).
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.SetLevel(cfg.LogLevel)

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provider, err := providers.New(cfg.WeatherProvider, httpClient, cfg.WeatherAPIKey, cfg.WeatherBaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure weather provider")
	}
	if cfg.WeatherAPIKey == "" {
		log.Warn().Str("provider", provider.Name()).Msg("WEATHER_API_KEY is not set; fetches will fail")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	recordStore, err := store.Open(ctx, cfg.DatabaseURL, cfg.MongoDatabase)
	if err != nil {
		log.Fatal().Err(err).Str("store", store.Kind(cfg.DatabaseURL)).Msg("failed to open record store")
	}
	defer func() {
		if err := recordStore.Close(); err != nil {
			log.Error().Err(err).Msg("error closing record store")
		}
	}()

	service := weather.NewService(recordStore, provider, log)
	app := httpapi.NewApp(service, log)

	// Start server with graceful shutdown
	go func() {
		log.Info().
			Str("addr", cfg.ListenAddr()).
			Str("provider", provider.Name()).
			Str("store", store.Kind(cfg.DatabaseURL)).
			Msg("weather-tagger listening")
		if err := app.Listen(cfg.ListenAddr()); err != nil {
			log.Error().Err(err).Msg("fiber server stopped")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
}
