// Package view holds the terminal presentation of weather records: the
// filtered, paginated listing and the per-record card with tag editing.
package view

import (
	"strings"
	"time"
)

// City is one selectable city. Value is what the backend fetch expects.
type City struct {
	Label string
	Value string
}

// Cities are the cities offered for selection.
var Cities = []City{
	{Label: "Berlin, DE", Value: "Berlin,de"},
	{Label: "Munich, DE", Value: "Munich,de"},
	{Label: "Hamburg, DE", Value: "Hamburg,de"},
	{Label: "Cologne, DE", Value: "Cologne,de"},
}

var cityTimezones = map[string]string{
	"Berlin":  "Europe/Berlin",
	"Munich":  "Europe/Berlin",
	"Hamburg": "Europe/Berlin",
	"Cologne": "Europe/Berlin",
}

// SuggestedTags are offered when adding a tag.
var SuggestedTags = []string{
	"Sunny", "Rainy", "Cloudy", "Windy", "Snowy",
	"Thunderstorm", "Foggy", "Drizzle", "Hail", "Cold",
	"Warm", "Humid", "Dry", "Clear", "Overcast",
}

// LookupCity finds a known city by label, value or bare name, ignoring case.
func LookupCity(s string) (City, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Cities {
		name, _, _ := strings.Cut(c.Value, ",")
		if strings.EqualFold(s, c.Label) || strings.EqualFold(s, c.Value) || strings.EqualFold(s, name) {
			return c, true
		}
	}
	return City{}, false
}

// CityLocation returns the display zone for a record's city. Unknown cities
// are shown in UTC.
func CityLocation(city string) *time.Location {
	name, ok := cityTimezones[city]
	if !ok {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
