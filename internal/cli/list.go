package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-tagger/internal/appstate"
	"github.com/i474232898/weather-tagger/internal/client"
	"github.com/i474232898/weather-tagger/internal/view"
	"github.com/i474232898/weather-tagger/internal/weather"
)

func (a *app) listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored weather records, newest first",
		Long: `List stored weather records, newest first.

Examples:
  weatherctl list
  weatherctl list --city Berlin,Munich
  weatherctl list --tag Sunny --page 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cities, _ := cmd.Flags().GetString("city")
			tag, _ := cmd.Flags().GetString("tag")
			page, _ := cmd.Flags().GetInt("page")
			limit, _ := cmd.Flags().GetInt("limit")

			resp, err := a.api.List(cmd.Context(), client.Query{
				Page:   page,
				Limit:  limit,
				Tag:    tag,
				Cities: weather.ParseCities(cities),
			})
			if err != nil {
				return fmt.Errorf("failed to list weather data: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(resp.Data) == 0 {
				fmt.Fprintln(out, "No weather data available.")
				return nil
			}

			notes := printingNotifier(out)
			defer notes.Close()
			data := appstate.New(a.api, a.log)

			fmt.Fprintf(out, "Found %d record(s), page %d of %d:\n\n", resp.Total, resp.Page, resp.Pages)
			for _, rec := range resp.Data {
				view.NewRecordView(rec, a.api, data, notes, a.log).Render(out)
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().String("city", "", "Comma-separated cities to include")
	cmd.Flags().String("tag", "", "Only records carrying this exact tag")
	cmd.Flags().Int("page", 1, "Page number")
	cmd.Flags().Int("limit", view.PageSize, "Records per page")
	return cmd
}
