package view

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-tagger/internal/client"
	"github.com/i474232898/weather-tagger/internal/notify"
	"github.com/i474232898/weather-tagger/internal/weather"
)

type failingUpdater struct{ calls int }

func (f *failingUpdater) UpdateTags(context.Context, string, []string) (weather.Record, error) {
	f.calls++
	return weather.Record{}, errors.New("server down")
}

type countingRefresher struct{ calls int }

func (c *countingRefresher) Refresh(context.Context) error {
	c.calls++
	return nil
}

func TestFormatRecordDate(t *testing.T) {
	tests := []struct {
		name string
		date string
		city string
		want string
	}{
		{"berlin summer", "2024-07-01T12:00:00.000Z", "Berlin", "2024-07-01 14:00:00 CEST"},
		{"munich winter", "2024-01-15T08:30:00.000Z", "Munich", "2024-01-15 09:30:00 CET"},
		{"unknown city", "2024-07-01T12:00:00.000Z", "Paris", "2024-07-01 12:00:00 UTC"},
		{"malformed", "yesterday", "Berlin", "Invalid date"},
		{"empty", "", "Berlin", "Invalid date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRecordDate(tt.date, tt.city))
		})
	}
}

func TestIconFor(t *testing.T) {
	tests := map[string]Icon{
		"broken clouds":           IconCloud,
		"Sunny":                   IconSun,
		"clear sky":               IconSun,
		"light snow":              IconSnow,
		"moderate rain":           IconRain,
		"light intensity drizzle": IconRain,
		"thunderstorm":            IconThunderstorm,
		"thunderstorm with rain":  IconRain,
		"mist":                    IconNone,
		"":                        IconNone,
	}
	for desc, want := range tests {
		assert.Equal(t, want, IconFor(desc), desc)
	}
	assert.Equal(t, "", IconNone.Glyph())
	assert.NotEmpty(t, IconCloud.Glyph())
}

func TestLookupCity(t *testing.T) {
	for _, in := range []string{"Berlin", "berlin,de", "Berlin, DE", " BERLIN "} {
		c, ok := LookupCity(in)
		require.True(t, ok, in)
		assert.Equal(t, "Berlin,de", c.Value)
	}
	_, ok := LookupCity("Paris")
	assert.False(t, ok)
}

func TestAddTag(t *testing.T) {
	h := newHarness(t)
	rec := h.seed(t, "Berlin", "2024-07-01T12:00:00.000Z", "Warm")
	data := &countingRefresher{}
	rv := NewRecordView(rec, h.api, data, h.notes, zerolog.Nop())

	require.NoError(t, rv.AddTag(context.Background(), "  Sunny "))
	assert.Equal(t, []string{"Warm", "Sunny"}, rv.Record().Tags)
	assert.Equal(t, 1, data.calls)
	assertNote(t, h.notes, notify.Success, "Tag added successfully!")

	stored, err := h.api.ListAll(context.Background(), client.Query{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Warm", "Sunny"}, stored[0].Tags)
}

func TestAddTagRejectsEmptyAndDuplicate(t *testing.T) {
	h := newHarness(t)
	rec := h.seed(t, "Berlin", "2024-07-01T12:00:00.000Z", "Sunny")
	updater := &failingUpdater{}
	rv := NewRecordView(rec, updater, &countingRefresher{}, h.notes, zerolog.Nop())

	assert.ErrorIs(t, rv.AddTag(context.Background(), "   "), ErrEmptyTag)
	assertNote(t, h.notes, notify.Warning, "Tag cannot be empty.")

	assert.ErrorIs(t, rv.AddTag(context.Background(), "sunny"), ErrDuplicateTag)
	assertNote(t, h.notes, notify.Warning, "Tag already exists.")

	assert.Zero(t, updater.calls)
}

func TestAddTagFailure(t *testing.T) {
	h := newHarness(t)
	rec := h.seed(t, "Berlin", "2024-07-01T12:00:00.000Z")
	data := &countingRefresher{}
	rv := NewRecordView(rec, &failingUpdater{}, data, h.notes, zerolog.Nop())

	require.Error(t, rv.AddTag(context.Background(), "Rainy"))
	assert.Empty(t, rv.Record().Tags)
	assert.Zero(t, data.calls)
	assertNote(t, h.notes, notify.Error, "Failed to add tag.")
}

func TestRemoveTagDropsAllCaseInsensitiveMatches(t *testing.T) {
	h := newHarness(t)
	rec := h.seed(t, "Berlin", "2024-07-01T12:00:00.000Z", "Sunny", "Warm", "SUNNY")
	rv := NewRecordView(rec, h.api, &countingRefresher{}, h.notes, zerolog.Nop())

	require.NoError(t, rv.RemoveTag(context.Background(), "sunny"))
	assert.Equal(t, []string{"Warm"}, rv.Record().Tags)
	assertNote(t, h.notes, notify.Success, "Tag deleted successfully!")

	rv = NewRecordView(rv.Record(), &failingUpdater{}, &countingRefresher{}, h.notes, zerolog.Nop())
	require.Error(t, rv.RemoveTag(context.Background(), "Warm"))
	assertNote(t, h.notes, notify.Error, "Failed to delete tag.")
}

func TestRecordRender(t *testing.T) {
	rec := weather.Record{
		ID:          "abc",
		City:        "Hamburg",
		Temperature: 17.3,
		Description: "light rain",
		Date:        "2024-07-01T12:00:00.000Z",
		Tags:        []string{"Rainy"},
	}
	var buf bytes.Buffer
	NewRecordView(rec, &failingUpdater{}, &countingRefresher{}, notify.New(), zerolog.Nop()).Render(&buf)

	out := buf.String()
	assert.Contains(t, out, "Hamburg")
	assert.Contains(t, out, "17.3°C")
	assert.Contains(t, out, "light rain")
	assert.Contains(t, out, "2024-07-01 14:00:00 CEST")
	assert.Contains(t, out, "[Rainy]")
	assert.Contains(t, out, "id: abc")
}

func assertNote(t *testing.T, n *notify.Notifier, sev notify.Severity, msg string) {
	t.Helper()
	got, ok := n.Current()
	require.True(t, ok, "no notification shown")
	assert.Equal(t, sev, got.Severity)
	assert.Equal(t, msg, got.Message)
}
