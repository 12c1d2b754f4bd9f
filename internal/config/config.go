package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ServerConfig is the backend configuration, read from the environment.
type ServerConfig struct {
	// WeatherAPIKey authenticates calls to the weather provider.
	WeatherAPIKey string `envconfig:"WEATHER_API_KEY"`
	// WeatherProvider selects the upstream: openweather or weatherapi.
	WeatherProvider string `envconfig:"WEATHER_PROVIDER" default:"openweather"`
	// WeatherBaseURL overrides the provider endpoint (tests, proxies).
	WeatherBaseURL string `envconfig:"WEATHER_BASE_URL"`

	// DatabaseURL selects the record store: memory://, sqlite://, postgres://, mongodb://.
	DatabaseURL   string `envconfig:"DATABASE_URL" default:"memory://"`
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"weather"`

	Port        int           `envconfig:"PORT" default:"5001"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`
}

// ListenAddr returns the host:port string for the HTTP server.
func (c ServerConfig) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// ClientConfig configures weatherctl.
type ClientConfig struct {
	// APIBaseURL is the backend base URL including the /api prefix.
	APIBaseURL string        `envconfig:"API_BASE_URL" default:"http://localhost:5001/api"`
	APITimeout time.Duration `envconfig:"API_TIMEOUT" default:"15s"`
	LogLevel   string        `envconfig:"LOG_LEVEL" default:"warn"`
}

// Load reads the server configuration from the environment, after loading
// an optional .env file.
func Load() (*ServerConfig, error) {
	_ = godotenv.Load() // ignore missing file

	var cfg ServerConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid PORT: %d", cfg.Port)
	}
	return &cfg, nil
}

// LoadClient reads the weatherctl configuration.
func LoadClient() (*ClientConfig, error) {
	_ = godotenv.Load()

	var cfg ClientConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is required")
	}
	return &cfg, nil
}
