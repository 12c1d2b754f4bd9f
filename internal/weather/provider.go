package weather

import (
	"context"
)

// Provider abstracts the external weather source (OpenWeatherMap, WeatherAPI).
type Provider interface {
	Name() string
	Current(ctx context.Context, city string) (Observation, error)
}

// Store is the contract every record backend (memory, sqlite, postgres, mongo) satisfies.
type Store interface {
	// Create persists a new record and returns it with its assigned ID.
	Create(ctx context.Context, rec Record) (Record, error)
	// List returns the requested page ordered by date descending plus the
	// number of records matching the filter.
	List(ctx context.Context, q ListQuery) ([]Record, int, error)
	// UpdateTags replaces the tags of a record. Unknown ids yield ErrNotFound.
	UpdateTags(ctx context.Context, id string, tags []string) (Record, error)
	Close() error
}
