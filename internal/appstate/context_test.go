package appstate

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-tagger/internal/client"
	"github.com/i474232898/weather-tagger/internal/weather"
)

type fakeLister struct {
	records []weather.Record
	err     error
	queries []client.Query
	during  func()
}

func (f *fakeLister) ListAll(_ context.Context, q client.Query) ([]weather.Record, error) {
	f.queries = append(f.queries, q)
	if f.during != nil {
		f.during()
	}
	return f.records, f.err
}

func TestRefreshReplacesCacheAndNotifies(t *testing.T) {
	api := &fakeLister{records: []weather.Record{{ID: "1", City: "Berlin"}}}
	dc := New(api, zerolog.Nop())
	assert.Empty(t, dc.Records())

	var sawLoading bool
	api.during = func() { sawLoading = dc.Loading() }

	notified := 0
	unsubscribe := dc.Subscribe(func() { notified++ })

	require.NoError(t, dc.Refresh(context.Background()))
	assert.True(t, sawLoading)
	assert.False(t, dc.Loading())
	assert.Equal(t, api.records, dc.Records())
	assert.Equal(t, 1, notified)
	assert.Equal(t, []client.Query{{}}, api.queries, "refresh must not filter")

	api.records = []weather.Record{{ID: "2", City: "Munich"}}
	require.NoError(t, dc.Refresh(context.Background()))
	assert.Equal(t, []weather.Record{{ID: "2", City: "Munich"}}, dc.Records())

	unsubscribe()
	require.NoError(t, dc.Refresh(context.Background()))
	assert.Equal(t, 2, notified)
}

func TestRefreshFailureKeepsCache(t *testing.T) {
	api := &fakeLister{records: []weather.Record{{ID: "1"}}}
	dc := New(api, zerolog.Nop())
	require.NoError(t, dc.Refresh(context.Background()))

	notified := 0
	dc.Subscribe(func() { notified++ })

	api.err = errors.New("connection refused")
	api.records = nil
	require.Error(t, dc.Refresh(context.Background()))
	assert.False(t, dc.Loading())
	assert.Equal(t, []weather.Record{{ID: "1"}}, dc.Records())
	assert.Zero(t, notified)
}

func TestRecordsReturnsCopy(t *testing.T) {
	api := &fakeLister{records: []weather.Record{{ID: "1"}}}
	dc := New(api, zerolog.Nop())
	require.NoError(t, dc.Refresh(context.Background()))

	got := dc.Records()
	got[0].ID = "changed"
	assert.Equal(t, "1", dc.Records()[0].ID)
}
