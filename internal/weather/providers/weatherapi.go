package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
	_ "time/tzdata"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-tagger/internal/weather"
)

const weatherAPIURL = "https://api.weatherapi.com/v1/current.json"

// WeatherAPIProvider implements weather.Provider for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey, baseURL string) *WeatherAPIProvider {
	if baseURL == "" {
		baseURL = weatherAPIURL
	}
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  client,
		circuit: newBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

type weatherAPIPayload struct {
	Location struct {
		Name string `json:"name"`
		TzID string `json:"tz_id"`
	} `json:"location"`
	Current *struct {
		LastUpdatedEpoch int64   `json:"last_updated_epoch"`
		TempC            float64 `json:"temp_c"`
		Condition        struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
}

func (p *WeatherAPIProvider) Current(ctx context.Context, city string) (weather.Observation, error) {
	if p.apiKey == "" {
		return weather.Observation{}, fmt.Errorf("weatherapi: %w", errMissingKey)
	}

	values := url.Values{}
	values.Set("key", p.apiKey)
	// WeatherAPI accepts "city" or "city,country" in q.
	values.Set("q", city)

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", p.baseURL, values.Encode()), nil)
	if err != nil {
		return weather.Observation{}, err
	}

	resp, err := doRequest(ctx, p.client, p.circuit, req)
	if err != nil {
		return weather.Observation{}, err
	}
	defer resp.Body.Close()

	var payload weatherAPIPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Observation{}, fmt.Errorf("%w: %v", errMalformed, err)
	}
	if payload.Current == nil || payload.Location.Name == "" || payload.Current.Condition.Text == "" {
		return weather.Observation{}, fmt.Errorf("%w: missing location or current conditions", errMalformed)
	}

	observed := time.Unix(payload.Current.LastUpdatedEpoch, 0).UTC()

	return weather.Observation{
		City:           payload.Location.Name,
		TemperatureC:   payload.Current.TempC,
		Description:    payload.Current.Condition.Text,
		ObservedAt:     observed,
		TimezoneOffset: zoneOffset(payload.Location.TzID, observed),
	}, nil
}

// zoneOffset returns the UTC offset in seconds of the named zone at t, or 0
// when the zone is unknown.
func zoneOffset(tzID string, t time.Time) int {
	if tzID == "" {
		return 0
	}
	loc, err := time.LoadLocation(tzID)
	if err != nil {
		return 0
	}
	_, offset := t.In(loc).Zone()
	return offset
}
