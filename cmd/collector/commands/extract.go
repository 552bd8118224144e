package commands

import (
	"fmt"
	"os"

	"github.com/PuerkitoBio/goquery"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"housemembers/internal/config"
	"housemembers/internal/crawler"
	"housemembers/internal/extractor"
	"housemembers/internal/normalizer"
)

var (
	extractSelector string
	extractKind     string
	extractPageURL  string
)

var extractCmd = &cobra.Command{
	Use:   "extract <file.html>",
	Short: "Runs the web strategies against a local HTML file and prints the members found.",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractSelector, "selector", "", "CSS selector to try instead of the configured default strategies")
	extractCmd.Flags().StringVar(&extractKind, "kind", config.StrategyElements, "strategy kind for --selector: elements, table, links")
	extractCmd.Flags().StringVar(&extractPageURL, "page-url", "", "URL used to resolve relative profile links")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log := newLogger(cfg)

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", args[0], err)
	}

	page := config.WebPageConfig{Name: args[0], URL: extractPageURL}
	if extractSelector != "" {
		page.Strategies = []config.StrategyConfig{{Kind: extractKind, Selector: extractSelector}}
	}

	src, err := crawler.NewWebSource(cfg.Sources.Web, page, extractor.New(), crawler.NewScraper(), log)
	if err != nil {
		return err
	}

	fragments, strategy := src.Scan(doc)
	if strategy == "" {
		cmd.Println("⚠️  No members found")

		return nil
	}

	cmd.Printf("🔍 Strategy %q matched %d fragments\n", strategy, len(fragments))

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Name", "Party", "State", "District", "Profile"})

	kept := 0

	for _, frag := range fragments {
		m, ok := normalizer.Normalize(frag)
		if !ok {
			continue
		}

		kept++
		t.AppendRow(table.Row{kept, m.Name, m.Party, m.State, m.District, m.ProfileURL})
	}

	t.Render()

	return nil
}
