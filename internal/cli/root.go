// Package cli implements the weatherctl commands.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/i474232898/weather-tagger/internal/appstate"
	"github.com/i474232898/weather-tagger/internal/client"
	"github.com/i474232898/weather-tagger/internal/notify"
	"github.com/i474232898/weather-tagger/internal/view"
	"github.com/i474232898/weather-tagger/internal/weather"
)

// Backend is the API surface weatherctl needs.
type Backend interface {
	view.API
	List(ctx context.Context, q client.Query) (client.ListResponse, error)
}

type app struct {
	api Backend
	log zerolog.Logger
}

// NewRootCmd builds the weatherctl command tree on top of api.
func NewRootCmd(api Backend, log zerolog.Logger) *cobra.Command {
	a := &app{api: api, log: log}

	rootCmd := &cobra.Command{
		Use:   "weatherctl",
		Short: "Fetch, browse and tag stored weather records",
		Long: `weatherctl talks to the weather-tagger API.

It fetches current weather for German cities, lists the stored records
with city and tag filters, and edits record tags. Run 'weatherctl browse'
for an interactive session.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(a.listCmd())
	rootCmd.AddCommand(a.fetchCmd())
	rootCmd.AddCommand(a.tagCmd())
	rootCmd.AddCommand(a.browseCmd())
	return rootCmd
}

// printingNotifier shows every notification on out as soon as it is raised.
func printingNotifier(out io.Writer) *notify.Notifier {
	return notify.New(notify.WithSink(func(n notify.Notification) {
		fmt.Fprintln(out, view.RenderNotification(n))
	}))
}

// recordView finds record id among all stored records.
func (a *app) recordView(ctx context.Context, id string, notes *notify.Notifier) (*view.RecordView, error) {
	data := appstate.New(a.api, a.log)
	if err := data.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("failed to load weather data: %w", err)
	}
	for _, rec := range data.Records() {
		if rec.ID == id {
			return view.NewRecordView(rec, a.api, data, notes, a.log), nil
		}
	}
	return nil, fmt.Errorf("record %s: %w", id, weather.ErrNotFound)
}
