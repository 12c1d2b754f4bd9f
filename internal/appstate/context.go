// Package appstate holds the client's session-wide cache of weather records.
package appstate

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/i474232898/weather-tagger/internal/client"
	"github.com/i474232898/weather-tagger/internal/weather"
)

// Lister loads every record matching a query.
type Lister interface {
	ListAll(ctx context.Context, q client.Query) ([]weather.Record, error)
}

// DataContext caches "all records" as last fetched without filters. It is
// created once per session and handed to every view that needs it.
type DataContext struct {
	api Lister
	log zerolog.Logger

	mu        sync.RWMutex
	records   []weather.Record
	loading   bool
	listeners map[int]func()
	nextID    int
}

// New returns an empty DataContext. Call Refresh to populate it.
func New(api Lister, log zerolog.Logger) *DataContext {
	return &DataContext{
		api:       api,
		log:       log.With().Str("component", "appstate").Logger(),
		records:   []weather.Record{},
		listeners: make(map[int]func()),
	}
}

// Records returns a copy of the cached records.
func (d *DataContext) Records() []weather.Record {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]weather.Record, len(d.records))
	copy(out, d.records)
	return out
}

// Loading reports whether a refresh is in flight.
func (d *DataContext) Loading() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loading
}

// Refresh re-fetches all records and replaces the cache. On failure the
// previous cache is kept and listeners are not notified.
func (d *DataContext) Refresh(ctx context.Context) error {
	d.setLoading(true)
	records, err := d.api.ListAll(ctx, client.Query{})
	if err != nil {
		d.setLoading(false)
		d.log.Error().Err(err).Msg("Error fetching weather data")
		return err
	}

	d.mu.Lock()
	d.records = records
	d.loading = false
	listeners := make([]func(), 0, len(d.listeners))
	for _, fn := range d.listeners {
		listeners = append(listeners, fn)
	}
	d.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
	return nil
}

// Subscribe registers fn to run after every successful refresh. The returned
// function removes the subscription.
func (d *DataContext) Subscribe(fn func()) (unsubscribe func()) {
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.listeners[id] = fn
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		delete(d.listeners, id)
		d.mu.Unlock()
	}
}

func (d *DataContext) setLoading(v bool) {
	d.mu.Lock()
	d.loading = v
	d.mu.Unlock()
}
