package view

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-tagger/internal/appstate"
	"github.com/i474232898/weather-tagger/internal/client"
	"github.com/i474232898/weather-tagger/internal/notify"
	"github.com/i474232898/weather-tagger/internal/store"
	"github.com/i474232898/weather-tagger/internal/weather"
)

func init() {
	color.NoColor = true
}

type stubProvider struct {
	mu    sync.Mutex
	now   time.Time
	fail  map[string]bool
	calls []string
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Current(_ context.Context, city string) (weather.Observation, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, city)
	if p.fail[city] {
		return weather.Observation{}, errors.New("city not found")
	}
	p.now = p.now.Add(time.Minute)
	name, _, _ := strings.Cut(city, ",")
	return weather.Observation{
		City:           name,
		TemperatureC:   12.5,
		Description:    "broken clouds",
		ObservedAt:     p.now,
		TimezoneOffset: 7200,
	}, nil
}

func (p *stubProvider) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

// serviceAPI serves the client calls straight from a weather.Service, the
// way the HTTP handlers would.
type serviceAPI struct {
	svc     *weather.Service
	listErr error
}

func (a *serviceAPI) ListAll(ctx context.Context, q client.Query) ([]weather.Record, error) {
	if a.listErr != nil {
		return nil, a.listErr
	}
	query := weather.ListQuery{
		Page:  1,
		Limit: 100,
		Filter: weather.Filter{
			Tag:    q.Tag,
			Cities: weather.ParseCities(strings.Join(q.Cities, ",")),
		},
	}
	var all []weather.Record
	for {
		page, err := a.svc.List(ctx, query)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Records...)
		if query.Page >= page.Pages {
			return all, nil
		}
		query.Page++
	}
}

func (a *serviceAPI) FetchCity(ctx context.Context, city string) (weather.Record, error) {
	return a.svc.Fetch(ctx, city)
}

func (a *serviceAPI) UpdateTags(ctx context.Context, id string, tags []string) (weather.Record, error) {
	return a.svc.UpdateTags(ctx, id, tags)
}

type harness struct {
	store    *store.MemoryStore
	provider *stubProvider
	api      *serviceAPI
	data     *appstate.DataContext
	notes    *notify.Notifier
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	st := store.NewMemoryStore()
	prov := &stubProvider{
		now:  time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC),
		fail: map[string]bool{},
	}
	api := &serviceAPI{svc: weather.NewService(st, prov, zerolog.Nop())}
	notes := notify.New(notify.WithTTL(time.Minute))
	t.Cleanup(notes.Close)
	return &harness{
		store:    st,
		provider: prov,
		api:      api,
		data:     appstate.New(api, zerolog.Nop()),
		notes:    notes,
	}
}

func (h *harness) seed(t *testing.T, city, date string, tags ...string) weather.Record {
	t.Helper()
	if tags == nil {
		tags = []string{}
	}
	rec, err := h.store.Create(context.Background(), weather.Record{
		City:        city,
		Temperature: 20,
		Description: "clear sky",
		Date:        date,
		Tags:        tags,
		Timezone:    7200,
	})
	require.NoError(t, err)
	return rec
}
