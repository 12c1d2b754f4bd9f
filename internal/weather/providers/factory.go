package providers

import (
	"fmt"
	"net/http"

	"github.com/i474232898/weather-tagger/internal/weather"
)

// New returns the provider registered under name.
func New(name string, client *http.Client, apiKey, baseURL string) (weather.Provider, error) {
	switch name {
	case "", "openweather", "openweathermap":
		return NewOpenWeatherProvider(client, apiKey, baseURL), nil
	case "weatherapi":
		return NewWeatherAPIProvider(client, apiKey, baseURL), nil
	default:
		return nil, fmt.Errorf("unknown weather provider %q", name)
	}
}
