// Package storetest holds a compliance suite shared by all weather.Store implementations.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-tagger/internal/weather"
)

// Run exercises every Store operation. makeStore must return a clean,
// isolated store; it is called once per subtest.
func Run(t *testing.T, makeStore func(t *testing.T) weather.Store) {
	t.Helper()

	t.Run("CreateAssignsIDAndEmptyTags", func(t *testing.T) {
		s := makeStore(t)
		ctx := context.Background()

		a, err := s.Create(ctx, record("Berlin", 0))
		require.NoError(t, err)
		b, err := s.Create(ctx, record("Berlin", 0))
		require.NoError(t, err)

		assert.NotEmpty(t, a.ID)
		assert.NotEqual(t, a.ID, b.ID, "repeated fetches must create distinct records")
		assert.Equal(t, []string{}, a.Tags)
		assert.Equal(t, "Berlin", a.City)
	})

	t.Run("ListOrdersByDateDescending", func(t *testing.T) {
		s := makeStore(t)
		ctx := context.Background()

		for i, city := range []string{"Berlin", "Munich", "Hamburg"} {
			_, err := s.Create(ctx, record(city, i))
			require.NoError(t, err)
		}

		got, total, err := s.List(ctx, query(1, 10, weather.Filter{}))
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Equal(t, []string{"Hamburg", "Munich", "Berlin"}, cities(got))
	})

	t.Run("ListPaginates", func(t *testing.T) {
		s := makeStore(t)
		ctx := context.Background()

		for i := 0; i < 15; i++ {
			_, err := s.Create(ctx, record(fmt.Sprintf("City%02d", i), i))
			require.NoError(t, err)
		}

		got, total, err := s.List(ctx, query(2, 10, weather.Filter{}))
		require.NoError(t, err)
		assert.Equal(t, 15, total)
		// Ranks 11-15 are the five oldest records.
		assert.Equal(t, []string{"City04", "City03", "City02", "City01", "City00"}, cities(got))

		got, total, err = s.List(ctx, query(3, 10, weather.Filter{}))
		require.NoError(t, err)
		assert.Equal(t, 15, total)
		assert.Empty(t, got)
	})

	t.Run("ListFiltersByCityAndTag", func(t *testing.T) {
		s := makeStore(t)
		ctx := context.Background()

		berlin, err := s.Create(ctx, record("Berlin", 0))
		require.NoError(t, err)
		munich, err := s.Create(ctx, record("Munich", 1))
		require.NoError(t, err)
		_, err = s.Create(ctx, record("Cologne", 2))
		require.NoError(t, err)

		_, err = s.UpdateTags(ctx, berlin.ID, []string{"Cold", "Windy"})
		require.NoError(t, err)
		_, err = s.UpdateTags(ctx, munich.ID, []string{"cold"})
		require.NoError(t, err)

		got, total, err := s.List(ctx, query(1, 10, weather.Filter{Cities: []string{"Berlin", "Munich"}}))
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Equal(t, []string{"Munich", "Berlin"}, cities(got))

		got, total, err = s.List(ctx, query(1, 10, weather.Filter{Tag: "Cold"}))
		require.NoError(t, err)
		assert.Equal(t, 1, total, "tag match is case-sensitive")
		assert.Equal(t, []string{"Berlin"}, cities(got))

		got, total, err = s.List(ctx, query(1, 10, weather.Filter{Tag: "cold", Cities: []string{"Berlin"}}))
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, got)

		got, total, err = s.List(ctx, query(1, 10, weather.Filter{Cities: []string{"", ""}}))
		require.NoError(t, err)
		assert.Zero(t, total, "blank city entries match no record")
		assert.Empty(t, got)
	})

	t.Run("UpdateTagsRoundTrip", func(t *testing.T) {
		s := makeStore(t)
		ctx := context.Background()

		rec, err := s.Create(ctx, record("Hamburg", 0))
		require.NoError(t, err)

		tags := []string{"Rainy", "windy", "Rainy", ""}
		updated, err := s.UpdateTags(ctx, rec.ID, tags)
		require.NoError(t, err)
		assert.Equal(t, tags, updated.Tags)
		assert.Equal(t, rec.Date, updated.Date)
		assert.Equal(t, rec.Temperature, updated.Temperature)

		again, err := s.UpdateTags(ctx, rec.ID, tags)
		require.NoError(t, err)
		assert.Equal(t, updated, again)

		got, _, err := s.List(ctx, query(1, 10, weather.Filter{}))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, tags, got[0].Tags)

		cleared, err := s.UpdateTags(ctx, rec.ID, []string{})
		require.NoError(t, err)
		assert.Equal(t, []string{}, cleared.Tags)
	})

	t.Run("UpdateTagsUnknownID", func(t *testing.T) {
		s := makeStore(t)
		_, err := s.UpdateTags(context.Background(), "does-not-exist", []string{"x"})
		assert.ErrorIs(t, err, weather.ErrNotFound)
	})

	t.Run("ConcurrentCreates", func(t *testing.T) {
		s := makeStore(t)
		ctx := context.Background()

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := s.Create(ctx, record("Berlin", i))
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		_, total, err := s.List(ctx, query(1, 1, weather.Filter{}))
		require.NoError(t, err)
		assert.Equal(t, 8, total)
	})
}

var base = time.Date(2024, 11, 20, 9, 0, 0, 0, time.UTC)

func record(city string, minutes int) weather.Record {
	return weather.NewRecord(weather.Observation{
		City:           city,
		TemperatureC:   3.2,
		Description:    "light rain",
		ObservedAt:     base.Add(time.Duration(minutes) * time.Minute),
		TimezoneOffset: 3600,
	})
}

func query(page, limit int, f weather.Filter) weather.ListQuery {
	return weather.ListQuery{Page: page, Limit: limit, Filter: f}
}

func cities(records []weather.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.City)
	}
	return out
}
