package commands

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"housemembers/internal/config"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Prints the configured sources and whether they will run.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"Source", "Kind", "Endpoint", "Enabled", "Notes"})

		congress := cfg.Sources.Congress
		note := "api key set"
		if congress.APIKey == "" {
			note = "no api key, will be skipped"
		}

		t.AppendRow(table.Row{congress.Label, config.SourceCongress, congress.BaseURL, congress.IsEnabled(), note})

		govtrack := cfg.Sources.GovTrack
		t.AppendRow(table.Row{govtrack.Label, config.SourceGovTrack, govtrack.BaseURL, govtrack.IsEnabled(), ""})

		web := cfg.Sources.Web
		for _, page := range web.Pages {
			kinds := make([]string, 0, len(web.StrategiesFor(page)))
			for _, s := range web.StrategiesFor(page) {
				kinds = append(kinds, s.Kind+" "+s.Selector)
			}

			t.AppendRow(table.Row{
				page.Name,
				config.SourceWeb,
				page.URL,
				web.IsEnabled() && page.IsEnabled(),
				strings.Join(kinds, ", "),
			})
		}

		t.Render()

		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
