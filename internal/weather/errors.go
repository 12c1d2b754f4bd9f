package weather

import "errors"

var (
	// ErrInvalidRequest marks missing or malformed client input.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("weather data not found")
	// ErrUpstreamFailure wraps any failure of the external weather provider.
	ErrUpstreamFailure = errors.New("upstream weather provider failure")
)
