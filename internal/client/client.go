// Package client talks to the weather-tagger HTTP API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/i474232898/weather-tagger/internal/weather"
)

const (
	// allPageSize is the page size ListAll walks the listing with.
	allPageSize = 100

	defaultErrorMessage = "Failed to fetch weather data."
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Query holds the listing parameters. Zero values are omitted.
type Query struct {
	Page   int
	Limit  int
	Tag    string
	Cities []string
}

// ListResponse mirrors GET /api/weather.
type ListResponse struct {
	Data  []weather.Record `json:"data"`
	Total int              `json:"total"`
	Page  int              `json:"page"`
	Pages int              `json:"pages"`
}

type fetchResponse struct {
	Message string         `json:"message"`
	Data    weather.Record `json:"data"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Client is a thin wrapper over the REST endpoints.
type Client struct {
	http *resty.Client
}

// New creates a client for baseURL, which includes the /api prefix.
func New(baseURL string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)
	return &Client{http: c}
}

// FetchCity asks the backend to fetch and store the current weather for city.
func (c *Client) FetchCity(ctx context.Context, city string) (weather.Record, error) {
	var out fetchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("city", city).
		Get("/weather/fetch")
	if err := decode(resp, err, &out); err != nil {
		return weather.Record{}, err
	}
	return out.Data, nil
}

// List returns one page of records.
func (c *Client) List(ctx context.Context, q Query) (ListResponse, error) {
	req := c.http.R().SetContext(ctx)
	if q.Page > 0 {
		req.SetQueryParam("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(q.Limit))
	}
	if q.Tag != "" {
		req.SetQueryParam("tag", q.Tag)
	}
	if len(q.Cities) > 0 {
		req.SetQueryParam("city", strings.Join(q.Cities, ","))
	}

	var out ListResponse
	resp, err := req.Get("/weather")
	if err := decode(resp, err, &out); err != nil {
		return ListResponse{}, err
	}
	if out.Data == nil {
		out.Data = []weather.Record{}
	}
	return out, nil
}

// ListAll walks every page of the listing and returns all matching records,
// newest first. q.Page and q.Limit are ignored.
func (c *Client) ListAll(ctx context.Context, q Query) ([]weather.Record, error) {
	q.Limit = allPageSize
	all := make([]weather.Record, 0)
	for page := 1; ; page++ {
		q.Page = page
		resp, err := c.List(ctx, q)
		if err != nil {
			return nil, err
		}
		all = append(all, resp.Data...)
		if page >= resp.Pages || len(resp.Data) == 0 {
			return all, nil
		}
	}
}

// UpdateTags replaces the tags of record id.
func (c *Client) UpdateTags(ctx context.Context, id string, tags []string) (weather.Record, error) {
	if tags == nil {
		tags = []string{}
	}

	var out weather.Record
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string][]string{"tags": tags}).
		SetPathParam("id", id).
		Put("/weather/{id}/tags")
	if err := decode(resp, err, &out); err != nil {
		return weather.Record{}, err
	}
	return out, nil
}

func decode(resp *resty.Response, err error, out any) error {
	if err != nil {
		return fmt.Errorf("weather api request: %w", err)
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		apiErr := &APIError{Status: resp.StatusCode(), Message: defaultErrorMessage}
		var body errorResponse
		if json.Unmarshal(resp.Body(), &body) == nil && body.Error != "" {
			apiErr.Message = body.Error
		}
		return apiErr
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
