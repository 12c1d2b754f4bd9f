package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-tagger/internal/weather"
)

func TestFetchCity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/weather/fetch", r.URL.Path)
		assert.Equal(t, "Berlin,de", r.URL.Query().Get("city"))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"ok","data":{"id":"1","city":"Berlin","tags":[]}}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/api/", time.Second)
	rec, err := c.FetchCity(context.Background(), "Berlin,de")
	require.NoError(t, err)
	assert.Equal(t, "1", rec.ID)
	assert.Equal(t, "Berlin", rec.City)
}

func TestAPIErrorCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/weather/fetch" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"Failed to fetch weather data."}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`<html>nope</html>`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/api", time.Second)
	_, err := c.FetchCity(context.Background(), "Atlantis")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "Failed to fetch weather data.", apiErr.Error())

	_, err = c.UpdateTags(context.Background(), "x", []string{"a"})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, defaultErrorMessage, apiErr.Message)
}

func TestUpdateTagsSendsFullList(t *testing.T) {
	var got map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/weather/abc/tags", r.URL.Path)
		b, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(b, &got))
		_, _ = w.Write([]byte(`{"id":"abc","city":"Berlin","tags":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/api", time.Second)
	_, err := c.UpdateTags(context.Background(), "abc", nil)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"tags": {}}, got)
}

func TestListAllWalksPages(t *testing.T) {
	const total = 230
	var pages []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		pages = append(pages, q.Get("page"))
		assert.Equal(t, "100", q.Get("limit"))
		assert.Equal(t, "Berlin,Munich", q.Get("city"))
		assert.Empty(t, q.Get("tag"))

		var page int
		_, _ = fmt.Sscan(q.Get("page"), &page)
		resp := ListResponse{Total: total, Page: page, Pages: weather.PageCount(total, 100), Data: []weather.Record{}}
		for i := (page - 1) * 100; i < page*100 && i < total; i++ {
			resp.Data = append(resp.Data, weather.Record{ID: fmt.Sprint(i)})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := New(srv.URL+"/api", time.Second)
	all, err := c.ListAll(context.Background(), Query{Cities: []string{"Berlin", "Munich"}})
	require.NoError(t, err)
	assert.Len(t, all, total)
	assert.Equal(t, []string{"1", "2", "3"}, pages)
	assert.Equal(t, "229", all[total-1].ID)
}

func TestListAllEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[],"total":0,"page":1,"pages":0}`))
	}))
	defer srv.Close()

	all, err := New(srv.URL, time.Second).ListAll(context.Background(), Query{})
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}
