package weather

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

var validate = validator.New()

// Service fetches observations from the provider and manages stored records.
type Service struct {
	store    Store
	provider Provider
	log      zerolog.Logger
}

// NewService creates a new Service.
func NewService(store Store, provider Provider, log zerolog.Logger) *Service {
	return &Service{
		store:    store,
		provider: provider,
		log:      log.With().Str("component", "weather.service").Logger(),
	}
}

// Fetch asks the provider for the current weather in city and stores it as a
// new record. Repeated fetches for one city create additional records.
func (s *Service) Fetch(ctx context.Context, city string) (Record, error) {
	if strings.TrimSpace(city) == "" {
		return Record{}, fmt.Errorf("%w: city is required", ErrInvalidRequest)
	}
	if s.provider == nil {
		return Record{}, fmt.Errorf("%w: no weather provider configured", ErrUpstreamFailure)
	}

	obs, err := s.provider.Current(ctx, city)
	if err != nil {
		s.log.Error().Err(err).Str("provider", s.provider.Name()).Str("city", city).Msg("provider fetch failed")
		return Record{}, fmt.Errorf("%w: %s: %v", ErrUpstreamFailure, s.provider.Name(), err)
	}

	rec, err := s.store.Create(ctx, NewRecord(obs))
	if err != nil {
		return Record{}, fmt.Errorf("store record for %s: %w", city, err)
	}

	s.log.Info().Str("id", rec.ID).Str("city", rec.City).Str("date", rec.Date).Msg("weather record stored")
	return rec, nil
}

// List returns one page of records matching q.Filter, newest first.
func (s *Service) List(ctx context.Context, q ListQuery) (Page, error) {
	if err := validate.Struct(q); err != nil {
		return Page{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	records, total, err := s.store.List(ctx, q)
	if err != nil {
		return Page{}, fmt.Errorf("list records: %w", err)
	}
	if records == nil {
		records = []Record{}
	}

	return Page{
		Records: records,
		Total:   total,
		Page:    q.Page,
		Pages:   PageCount(total, q.Limit),
	}, nil
}

// UpdateTags replaces the full tag list of the record with the given id.
// A nil slice is rejected; an empty one clears the tags.
func (s *Service) UpdateTags(ctx context.Context, id string, tags []string) (Record, error) {
	if tags == nil {
		return Record{}, fmt.Errorf("%w: tags must be provided", ErrInvalidRequest)
	}

	rec, err := s.store.UpdateTags(ctx, id, tags)
	if err != nil {
		return Record{}, err
	}

	s.log.Debug().Str("id", id).Strs("tags", tags).Msg("tags replaced")
	return rec, nil
}

// ParseCities splits a comma-separated city parameter and trims each entry.
// An empty parameter means no city filter. Blank entries are kept, so a
// parameter made only of commas or spaces matches no record.
func ParseCities(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	cities := make([]string, len(parts))
	for i, c := range parts {
		cities[i] = strings.TrimSpace(c)
	}
	return cities
}
