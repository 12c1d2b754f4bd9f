package weather

import (
	"time"
)

// DateLayout is the ISO-8601 form used for Record.Date (UTC, millisecond precision).
const DateLayout = "2006-01-02T15:04:05.000Z"

// Record is one stored observation for a city, with user-managed tags.
// Only Tags may change after creation.
type Record struct {
	ID          string   `json:"id"`
	City        string   `json:"city"`
	Temperature float64  `json:"temperature"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Tags        []string `json:"tags"`
	Timezone    int      `json:"timezone"` // seconds east of UTC
}

// FormatDate renders t in the layout stored in Record.Date.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseDate parses a Record.Date value. RFC3339 input with any precision is accepted.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// Filter restricts a listing. Zero values mean "no restriction".
type Filter struct {
	// Tag must be present in the record's tags (exact, case-sensitive).
	Tag string
	// Cities lists the accepted record cities (exact match).
	Cities []string
}

// Match reports whether r satisfies the filter.
func (f Filter) Match(r Record) bool {
	if f.Tag != "" && !containsExact(r.Tags, f.Tag) {
		return false
	}
	if len(f.Cities) > 0 && !containsExact(f.Cities, r.City) {
		return false
	}
	return true
}

// ListQuery holds the parameters of a paginated listing.
type ListQuery struct {
	Page   int `validate:"min=1"`
	Limit  int `validate:"min=1"`
	Filter Filter
}

// Offset is the number of matching records skipped before the page starts.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Page is one slice of a listing plus totals computed before pagination.
type Page struct {
	Records []Record `json:"data"`
	Total   int      `json:"total"`
	Page    int      `json:"page"`
	Pages   int      `json:"pages"`
}

// PageCount returns ceil(total/limit).
func PageCount(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Observation is a provider's normalized reading for one city.
type Observation struct {
	City         string
	TemperatureC float64
	Description  string
	ObservedAt   time.Time
	// TimezoneOffset is the city's offset from UTC in seconds.
	TimezoneOffset int
}

// NewRecord maps an observation to an untagged record without an ID.
func NewRecord(obs Observation) Record {
	return Record{
		City:        obs.City,
		Temperature: obs.TemperatureC,
		Description: obs.Description,
		Date:        FormatDate(obs.ObservedAt),
		Tags:        []string{},
		Timezone:    obs.TimezoneOffset,
	}
}

func containsExact(items []string, want string) bool {
	for _, it := range items {
		if it == want {
			return true
		}
	}
	return false
}
