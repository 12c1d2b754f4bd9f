package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpapi "github.com/i474232898/weather-tagger/internal/api/http"
	"github.com/i474232898/weather-tagger/internal/client"
	"github.com/i474232898/weather-tagger/internal/store"
	"github.com/i474232898/weather-tagger/internal/weather"
)

func init() {
	color.NoColor = true
}

type stubProvider struct {
	mu   sync.Mutex
	now  time.Time
	fail map[string]bool
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Current(_ context.Context, city string) (weather.Observation, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail[city] {
		return weather.Observation{}, errors.New("city not found")
	}
	p.now = p.now.Add(time.Minute)
	name, _, _ := strings.Cut(city, ",")
	return weather.Observation{
		City:           name,
		TemperatureC:   9.5,
		Description:    "overcast clouds",
		ObservedAt:     p.now,
		TimezoneOffset: 7200,
	}, nil
}

// startServer runs the real HTTP API over a memory store and returns a client
// pointed at it.
func startServer(t *testing.T, prov *stubProvider) *client.Client {
	t.Helper()
	svc := weather.NewService(store.NewMemoryStore(), prov, zerolog.Nop())
	app := httpapi.NewApp(svc, zerolog.Nop())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	return client.New("http://"+ln.Addr().String()+"/api", 5*time.Second)
}

func newProvider() *stubProvider {
	return &stubProvider{
		now:  time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
		fail: map[string]bool{},
	}
}

func run(t *testing.T, api Backend, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(api, zerolog.Nop())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestFetchAndList(t *testing.T) {
	api := startServer(t, newProvider())

	out, err := run(t, api, "", "fetch", "Berlin", "munich")
	require.NoError(t, err)
	assert.Contains(t, out, "Stored Berlin 9.5°C overcast clouds")
	assert.Contains(t, out, "Stored Munich")

	out, err = run(t, api, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 2 record(s), page 1 of 1")
	assert.Less(t, strings.Index(out, "Munich"), strings.Index(out, "Berlin"), "newest first")

	out, err = run(t, api, "", "list", "--city", "Berlin")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 record(s)")
	assert.NotContains(t, out, "Munich")
	assert.Contains(t, out, "2024-03-10 10:01:00 CET")

	out, err = run(t, api, "", "list", "--tag", "Sunny")
	require.NoError(t, err)
	assert.Contains(t, out, "No weather data available.")
}

func TestFetchStopsAtFirstFailure(t *testing.T) {
	prov := newProvider()
	prov.fail["Munich,de"] = true
	api := startServer(t, prov)

	out, err := run(t, api, "", "fetch", "Berlin", "Munich", "Hamburg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to add cities: Failed to fetch weather data")
	assert.Contains(t, out, "Stored Berlin")
	assert.NotContains(t, out, "Hamburg")

	recs, err := api.ListAll(context.Background(), client.Query{})
	require.NoError(t, err)
	require.Len(t, recs, 1)
}

func TestTagAddAndRemove(t *testing.T) {
	api := startServer(t, newProvider())
	rec, err := api.FetchCity(context.Background(), "Hamburg,de")
	require.NoError(t, err)

	out, err := run(t, api, "", "tag", "add", rec.ID, " Cloudy ")
	require.NoError(t, err)
	assert.Contains(t, out, "Tag added successfully!")

	out, err = run(t, api, "", "tag", "add", rec.ID, "cloudy")
	require.Error(t, err)
	assert.Contains(t, out, "Tag already exists.")

	out, err = run(t, api, "", "list", "--tag", "Cloudy")
	require.NoError(t, err)
	assert.Contains(t, out, "[Cloudy]")

	out, err = run(t, api, "", "tag", "rm", rec.ID, "CLOUDY")
	require.NoError(t, err)
	assert.Contains(t, out, "Tag deleted successfully!")

	recs, err := api.ListAll(context.Background(), client.Query{})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Empty(t, recs[0].Tags)

	_, err = run(t, api, "", "tag", "add", "no-such-id", "Cold")
	assert.ErrorIs(t, err, weather.ErrNotFound)
}

func TestBrowseSession(t *testing.T) {
	api := startServer(t, newProvider())
	seed, err := api.FetchCity(context.Background(), "Cologne,de")
	require.NoError(t, err)

	script := strings.Join([]string{
		"help",
		"cities Berlin Atlantis",
		"cities",
		"add " + seed.ID + " Windy",
		"page 7",
		"page x",
		"frobnicate",
		"quit",
		"show",
	}, "\n")

	out, err := run(t, api, script, "browse")
	require.NoError(t, err)

	assert.Contains(t, out, "Weather Forecasts")
	assert.Contains(t, out, "commands:")
	assert.Contains(t, out, "cities: Berlin, DE")
	assert.Contains(t, out, "Selected cities added successfully!")
	assert.Contains(t, out, "Tag added successfully!")
	assert.Contains(t, out, "[Windy]")
	assert.Contains(t, out, "page 1 of 1")
	assert.Contains(t, out, "Page must be a number.")
	assert.Contains(t, out, `unknown command "frobnicate"`)

	recs, err := api.ListAll(context.Background(), client.Query{})
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestBrowseTagFilter(t *testing.T) {
	api := startServer(t, newProvider())
	ctx := context.Background()
	a, err := api.FetchCity(ctx, "Berlin,de")
	require.NoError(t, err)
	_, err = api.FetchCity(ctx, "Munich,de")
	require.NoError(t, err)
	_, err = api.UpdateTags(ctx, a.ID, []string{"Foggy"})
	require.NoError(t, err)

	pr, pw := io.Pipe()
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() { done <- (&app{api: api, log: zerolog.Nop()}).browse(ctx, pr, &out) }()

	_, _ = pw.Write([]byte("tag foggy\n"))
	time.Sleep(500 * time.Millisecond)
	_, _ = pw.Write([]byte("show\nquit\n"))
	require.NoError(t, <-done)
	_ = pw.Close()

	text := out.String()
	last := text[strings.LastIndex(text, "Weather Forecasts"):]
	assert.Contains(t, last, "tag: foggy")
	assert.Contains(t, last, "1 records")
	assert.Contains(t, last, "Berlin")
	assert.NotContains(t, last, "Munich")
}
