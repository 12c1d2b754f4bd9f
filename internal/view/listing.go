package view

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/i474232898/weather-tagger/internal/client"
	"github.com/i474232898/weather-tagger/internal/debounce"
	"github.com/i474232898/weather-tagger/internal/notify"
	"github.com/i474232898/weather-tagger/internal/weather"
)

const (
	// PageSize is the number of records shown per page.
	PageSize = 15
	// TagFilterWait is the quiet period before a tag filter edit applies.
	TagFilterWait = 300 * time.Millisecond

	msgCitiesAdded = "Selected cities added successfully!"
)

// API is the part of the backend client the views use.
type API interface {
	TagUpdater
	ListAll(ctx context.Context, q client.Query) ([]weather.Record, error)
	FetchCity(ctx context.Context, city string) (weather.Record, error)
}

// DataSource is the shared record cache the listing follows.
type DataSource interface {
	Refresher
	Subscribe(fn func()) (unsubscribe func())
}

// ListingOption configures a ListingView.
type ListingOption func(*ListingView)

// WithScrollToTop sets the hook run on every page change.
func WithScrollToTop(fn func()) ListingOption {
	return func(v *ListingView) { v.scrollToTop = fn }
}

// WithFilterWait overrides TagFilterWait.
func WithFilterWait(d time.Duration) ListingOption {
	return func(v *ListingView) { v.filterWait = d }
}

// ListingView is the filtered, paginated record list.
type ListingView struct {
	ctx   context.Context
	api   API
	data  DataSource
	notes *notify.Notifier
	log   zerolog.Logger

	filterWait  time.Duration
	debouncer   *debounce.Debouncer
	scrollToTop func()
	unsubscribe func()

	mu         sync.Mutex
	selected   []City
	tagFilter  string
	page       int
	totalPages int
	filtered   []weather.Record
	loading    bool
	// reloadGen increases with every Reload; only the latest one may
	// publish its result.
	reloadGen uint64
}

// NewListingView builds the listing and subscribes it to data refreshes.
// ctx bounds reloads that are not started by a caller, such as debounced
// filter edits and refresh notifications.
func NewListingView(ctx context.Context, api API, data DataSource, notes *notify.Notifier, log zerolog.Logger, opts ...ListingOption) *ListingView {
	v := &ListingView{
		ctx:         ctx,
		api:         api,
		data:        data,
		notes:       notes,
		log:         log.With().Str("component", "listing").Logger(),
		filterWait:  TagFilterWait,
		scrollToTop: func() {},
		page:        1,
		filtered:    []weather.Record{},
	}
	for _, opt := range opts {
		opt(v)
	}
	v.debouncer = debounce.New(v.filterWait)
	v.unsubscribe = data.Subscribe(func() { _ = v.Reload(v.ctx) })
	return v
}

// SetTagFilter schedules a tag filter change. Only the last edit within the
// quiet period applies.
func (v *ListingView) SetTagFilter(raw string) {
	v.debouncer.Trigger(func() {
		v.mu.Lock()
		v.tagFilter = strings.TrimSpace(raw)
		v.page = 1
		v.mu.Unlock()
		_ = v.Reload(v.ctx)
	})
}

// FlushTagFilter applies a pending tag filter edit now.
func (v *ListingView) FlushTagFilter() {
	v.debouncer.Flush()
}

// TagFilter returns the applied tag filter.
func (v *ListingView) TagFilter() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tagFilter
}

// SelectCities replaces the selection, reloads, then fetches fresh weather
// for every newly selected city one at a time. The first failed fetch stops
// the sequence; cities fetched before it stay stored.
func (v *ListingView) SelectCities(ctx context.Context, cities []City) error {
	v.mu.Lock()
	added := newCities(v.selected, cities)
	v.selected = append([]City(nil), cities...)
	v.page = 1
	v.mu.Unlock()

	_ = v.Reload(ctx)
	if len(added) == 0 {
		return nil
	}

	for _, c := range added {
		if _, err := v.api.FetchCity(ctx, c.Value); err != nil {
			v.log.Error().Err(err).Str("city", c.Value).Msg("Error fetching weather data for city")
			v.notes.Error("Failed to add cities: " + err.Error())
			return err
		}
		_ = v.data.Refresh(ctx)
	}

	v.mu.Lock()
	v.page = 1
	v.mu.Unlock()
	v.notes.Success(msgCitiesAdded)
	return nil
}

// Selected returns the current city selection.
func (v *ListingView) Selected() []City {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]City(nil), v.selected...)
}

// Reload lists records for the selected cities and applies the tag filter.
// When reloads overlap, only the most recently started one updates the view.
func (v *ListingView) Reload(ctx context.Context) error {
	v.mu.Lock()
	v.reloadGen++
	gen := v.reloadGen
	q := client.Query{Cities: cityValues(v.selected)}
	tag := v.tagFilter
	v.loading = true
	v.mu.Unlock()

	records, err := v.api.ListAll(ctx, q)

	v.mu.Lock()
	if gen != v.reloadGen {
		v.mu.Unlock()
		return nil
	}
	v.loading = false
	if err != nil {
		v.mu.Unlock()
		v.log.Error().Err(err).Msg("Error fetching filtered data")
		v.notes.Error("Error: " + err.Error())
		return err
	}

	v.filtered = filterByTag(records, tag)
	v.totalPages = weather.PageCount(len(v.filtered), PageSize)
	v.page = min(v.page, max(v.totalPages, 1))
	v.mu.Unlock()
	return nil
}

// SetPage moves to page n, clamped to the available pages.
func (v *ListingView) SetPage(n int) {
	v.mu.Lock()
	last := max(v.totalPages, 1)
	v.page = min(max(n, 1), last)
	v.mu.Unlock()
	v.scrollToTop()
}

// Page returns the current page number, starting at 1.
func (v *ListingView) Page() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

// TotalPages returns the page count of the filtered records.
func (v *ListingView) TotalPages() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.totalPages
}

// Loading reports whether a reload is in flight.
func (v *ListingView) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// Filtered returns every record that passed the filters.
func (v *ListingView) Filtered() []weather.Record {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]weather.Record(nil), v.filtered...)
}

// PageRecords returns the records on the current page.
func (v *ListingView) PageRecords() []weather.Record {
	v.mu.Lock()
	defer v.mu.Unlock()

	start := (v.page - 1) * PageSize
	if start >= len(v.filtered) {
		return []weather.Record{}
	}
	end := min(start+PageSize, len(v.filtered))
	return append([]weather.Record(nil), v.filtered[start:end]...)
}

// RecordView returns a card for the record with the given id on any page.
func (v *ListingView) RecordView(id string) (*RecordView, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, r := range v.filtered {
		if r.ID == id {
			return NewRecordView(r, v.api, v.data, v.notes, v.log), true
		}
	}
	return nil, false
}

// Render writes the header, the current page of cards, the pager and the
// visible notification.
func (v *ListingView) Render(w io.Writer) {
	selected := v.Selected()
	tag := v.TagFilter()
	records := v.PageRecords()
	total := len(v.Filtered())

	fmt.Fprintln(w, color.New(color.Bold, color.Underline).Sprint("Weather Forecasts"))

	labels := make([]string, len(selected))
	for i, c := range selected {
		labels[i] = c.Label
	}
	cities := "all"
	if len(labels) > 0 {
		cities = strings.Join(labels, "; ")
	}
	if tag == "" {
		tag = "-"
	}
	fmt.Fprintf(w, "cities: %s  tag: %s\n", cities, tag)

	if v.Loading() {
		fmt.Fprintln(w, color.New(color.FgBlue).Sprint("loading..."))
	}
	if total == 0 {
		fmt.Fprintln(w, "No weather data available.")
	} else {
		fmt.Fprintf(w, "%d records\n\n", total)
		for _, r := range records {
			NewRecordView(r, v.api, v.data, v.notes, v.log).Render(w)
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "page %d of %d\n", v.Page(), max(v.TotalPages(), 1))
	}

	if n, ok := v.notes.Current(); ok {
		fmt.Fprintln(w, RenderNotification(n))
	}
}

// Close stops pending filter edits and the refresh subscription.
func (v *ListingView) Close() {
	v.debouncer.Stop()
	v.unsubscribe()
}

// RenderNotification colors a notification by severity.
func RenderNotification(n notify.Notification) string {
	switch n.Severity {
	case notify.Success:
		return color.New(color.FgGreen).Sprint(n.Message)
	case notify.Warning:
		return color.New(color.FgYellow).Sprint(n.Message)
	default:
		return color.New(color.FgRed).Sprint(n.Message)
	}
}

func newCities(prev, next []City) []City {
	seen := make(map[string]bool, len(prev))
	for _, c := range prev {
		seen[c.Value] = true
	}
	var added []City
	for _, c := range next {
		if !seen[c.Value] {
			seen[c.Value] = true
			added = append(added, c)
		}
	}
	return added
}

func cityValues(cities []City) []string {
	if len(cities) == 0 {
		return nil
	}
	out := make([]string, len(cities))
	for i, c := range cities {
		out[i] = c.Value
	}
	return out
}

func filterByTag(records []weather.Record, tag string) []weather.Record {
	if tag == "" {
		return records
	}
	out := make([]weather.Record, 0, len(records))
	for _, r := range records {
		for _, t := range r.Tags {
			if strings.EqualFold(t, tag) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}
