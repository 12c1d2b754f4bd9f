package view

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/i474232898/weather-tagger/internal/common"
	"github.com/i474232898/weather-tagger/internal/notify"
	"github.com/i474232898/weather-tagger/internal/weather"

	_ "time/tzdata"
)

const displayLayout = "2006-01-02 15:04:05 MST"

const (
	msgTagEmpty      = "Tag cannot be empty."
	msgTagExists     = "Tag already exists."
	msgTagAdded      = "Tag added successfully!"
	msgTagAddFailed  = "Failed to add tag."
	msgTagDeleted    = "Tag deleted successfully!"
	msgTagDelFailed  = "Failed to delete tag."
	invalidDateLabel = "Invalid date"
)

var (
	ErrEmptyTag     = errors.New("tag is empty")
	ErrDuplicateTag = errors.New("tag already exists")
)

// Icon names the glyph shown next to a description.
type Icon string

const (
	IconNone         Icon = ""
	IconCloud        Icon = "cloud"
	IconSun          Icon = "sun"
	IconSnow         Icon = "snow"
	IconRain         Icon = "rain"
	IconThunderstorm Icon = "thunderstorm"
)

var iconGlyphs = map[Icon]string{
	IconCloud:        "☁",
	IconSun:          "☀",
	IconSnow:         "❄",
	IconRain:         "☂",
	IconThunderstorm: "⚡",
}

// Glyph is the terminal symbol for the icon, or "" for IconNone.
func (i Icon) Glyph() string { return iconGlyphs[i] }

// TagUpdater replaces a record's tag list.
type TagUpdater interface {
	UpdateTags(ctx context.Context, id string, tags []string) (weather.Record, error)
}

// Refresher reloads the shared record cache.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RecordView renders one record and edits its tags.
type RecordView struct {
	record weather.Record
	api    TagUpdater
	data   Refresher
	notes  *notify.Notifier
	log    zerolog.Logger
}

// NewRecordView returns a card for rec. Tag edits go through api and then
// refresh data.
func NewRecordView(rec weather.Record, api TagUpdater, data Refresher, notes *notify.Notifier, log zerolog.Logger) *RecordView {
	return &RecordView{record: rec, api: api, data: data, notes: notes, log: log}
}

// Record returns the record as last seen by this view.
func (r *RecordView) Record() weather.Record { return r.record }

// FormattedDate shows the stored UTC date in the city's zone.
func (r *RecordView) FormattedDate() string {
	return FormatRecordDate(r.record.Date, r.record.City)
}

// FormatRecordDate converts an ISO-8601 UTC date to the city's zone and
// formats it. Malformed dates yield "Invalid date".
func FormatRecordDate(date, city string) string {
	t, err := weather.ParseDate(date)
	if err != nil {
		return invalidDateLabel
	}
	return t.In(CityLocation(city)).Format(displayLayout)
}

// Icon picks the record's icon from its description.
func (r *RecordView) Icon() Icon {
	return IconFor(r.record.Description)
}

// IconFor picks an icon from a condition description. The first matching
// rule wins.
func IconFor(description string) Icon {
	switch {
	case common.HasAnyFold(description, "cloud"):
		return IconCloud
	case common.HasAnyFold(description, "sun", "clear"):
		return IconSun
	case common.HasAnyFold(description, "snow"):
		return IconSnow
	case common.HasAnyFold(description, "rain", "drizzle"):
		return IconRain
	case common.HasAnyFold(description, "thunderstorm"):
		return IconThunderstorm
	default:
		return IconNone
	}
}

// AddTag appends input, trimmed and in its original case, unless it is empty
// or already present ignoring case.
func (r *RecordView) AddTag(ctx context.Context, input string) error {
	tag := strings.TrimSpace(input)
	if tag == "" {
		r.notes.Warning(msgTagEmpty)
		return ErrEmptyTag
	}
	if common.ContainsFold(r.record.Tags, tag) {
		r.notes.Warning(msgTagExists)
		return ErrDuplicateTag
	}

	tags := make([]string, 0, len(r.record.Tags)+1)
	tags = append(tags, r.record.Tags...)
	tags = append(tags, tag)

	if err := r.saveTags(ctx, tags); err != nil {
		r.notes.Error(msgTagAddFailed)
		return err
	}
	r.notes.Success(msgTagAdded)
	return nil
}

// RemoveTag drops every tag equal to tag ignoring case.
func (r *RecordView) RemoveTag(ctx context.Context, tag string) error {
	if err := r.saveTags(ctx, common.RemoveFold(r.record.Tags, tag)); err != nil {
		r.notes.Error(msgTagDelFailed)
		return err
	}
	r.notes.Success(msgTagDeleted)
	return nil
}

func (r *RecordView) saveTags(ctx context.Context, tags []string) error {
	updated, err := r.api.UpdateTags(ctx, r.record.ID, tags)
	if err != nil {
		r.log.Error().Err(err).Str("id", r.record.ID).Msg("Error updating tags")
		return err
	}
	r.record = updated
	// A failed refresh is logged by the data context; the update itself stood.
	_ = r.data.Refresh(ctx)
	return nil
}

// Render writes the record card.
func (r *RecordView) Render(w io.Writer) {
	rec := r.record
	title := color.New(color.Bold).Sprint(rec.City)
	icon := r.Icon().Glyph()
	if icon != "" {
		icon = " " + color.New(color.FgCyan).Sprint(icon)
	}

	fmt.Fprintf(w, "%s  %s%s\n", title, color.New(color.FgYellow).Sprintf("%.1f°C", rec.Temperature), icon)
	fmt.Fprintf(w, "  %s\n", rec.Description)
	fmt.Fprintf(w, "  %s\n", r.FormattedDate())
	if len(rec.Tags) > 0 {
		chips := make([]string, len(rec.Tags))
		for i, t := range rec.Tags {
			chips[i] = color.New(color.FgGreen).Sprintf("[%s]", t)
		}
		fmt.Fprintf(w, "  tags: %s\n", strings.Join(chips, " "))
	}
	fmt.Fprintf(w, "  id: %s\n", color.New(color.Faint).Sprint(rec.ID))
}
