package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-tagger/internal/appstate"
	"github.com/i474232898/weather-tagger/internal/notify"
	"github.com/i474232898/weather-tagger/internal/view"
)

const (
	prompt    = "> "
	separator = "----------------------------------------"
)

const browseHelp = `commands:
  cities <name>...   select cities (Berlin Munich ...); no names clears the selection
  tag <text>         filter by tag; applies after a short pause, then use show
  page <n>           go to page n
  add <id> <tag>     add a tag to a record
  rm <id> <tag>      remove a tag from a record
  refresh            reload all records
  show               print the current page
  help               print this help
  quit               leave`

func (a *app) browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Interactive session over the stored records",
		Long: `Interactive session over the stored records.

Selecting cities fetches fresh weather for every newly selected city.
Type 'help' inside the session for the command list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.browse(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func (a *app) browse(ctx context.Context, in io.Reader, out io.Writer) error {
	notes := notify.New()
	defer notes.Close()

	data := appstate.New(a.api, a.log)
	if err := data.Refresh(ctx); err != nil {
		notes.Error("Error: " + err.Error())
	}

	lv := view.NewListingView(ctx, a.api, data, notes, a.log,
		view.WithScrollToTop(func() { fmt.Fprintln(out, separator) }))
	defer lv.Close()

	_ = lv.Reload(ctx)
	lv.Render(out)

	sc := bufio.NewScanner(in)
	fmt.Fprint(out, prompt)
	for sc.Scan() {
		verb, rest, _ := strings.Cut(strings.TrimSpace(sc.Text()), " ")
		rest = strings.TrimSpace(rest)

		switch verb {
		case "":
		case "quit", "exit":
			return nil
		case "help":
			fmt.Fprintln(out, browseHelp)
		case "show":
			lv.Render(out)
		case "cities":
			cities, unknown := parseCities(rest)
			if len(unknown) > 0 {
				notes.Warning("Unknown cities: " + strings.Join(unknown, ", "))
			}
			_ = lv.SelectCities(ctx, cities)
			lv.Render(out)
		case "tag":
			lv.SetTagFilter(rest)
		case "page":
			n, err := strconv.Atoi(rest)
			if err != nil {
				notes.Warning("Page must be a number.")
				lv.Render(out)
				break
			}
			lv.SetPage(n)
			lv.Render(out)
		case "add", "rm":
			id, tag, _ := strings.Cut(rest, " ")
			rv, ok := lv.RecordView(id)
			if !ok {
				notes.Warning("Unknown record id.")
			} else if verb == "add" {
				_ = rv.AddTag(ctx, tag)
			} else {
				_ = rv.RemoveTag(ctx, strings.TrimSpace(tag))
			}
			lv.Render(out)
		case "refresh":
			_ = data.Refresh(ctx)
			lv.Render(out)
		default:
			fmt.Fprintf(out, "unknown command %q, type help\n", verb)
		}
		fmt.Fprint(out, prompt)
	}
	return sc.Err()
}

func parseCities(raw string) (cities []view.City, unknown []string) {
	for _, name := range strings.Fields(raw) {
		c, ok := view.LookupCity(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		cities = append(cities, c)
	}
	return cities, unknown
}
