package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/i474232898/weather-tagger/internal/view"
)

func (a *app) fetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <city>...",
		Short: "Fetch and store the current weather for one or more cities",
		Long: `Fetch and store the current weather for one or more cities.

Cities are fetched one at a time. The first failure stops the run; records
stored before it are kept. Known cities may be given by name (Berlin),
label (Berlin, DE) or value (Berlin,de).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, arg := range args {
				city := arg
				if c, ok := view.LookupCity(arg); ok {
					city = c.Value
				}

				rec, err := a.api.FetchCity(cmd.Context(), city)
				if err != nil {
					return fmt.Errorf("failed to add cities: %w", err)
				}
				fmt.Fprintf(out, "%s Stored %s %.1f°C %s (%s)\n",
					color.New(color.FgGreen).Sprint("✓"), rec.City, rec.Temperature, rec.Description, rec.ID)
			}
			return nil
		},
	}
}
