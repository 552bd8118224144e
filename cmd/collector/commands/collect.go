package commands

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"housemembers/internal/crawler"
	"housemembers/internal/logger"
	"housemembers/internal/pipeline"
	"housemembers/internal/sink"
	"housemembers/internal/validator"
)

var (
	onlySources []string
	apiKey      string
	outputDir   string
	congressNum int
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Fetches members from every enabled source and writes CSV, JSON and a summary.",
	RunE:  runCollect,
}

func init() {
	collectCmd.Flags().StringSliceVar(&onlySources, "only", nil, "run only these sources: congress, govtrack, web")
	collectCmd.Flags().StringVar(&apiKey, "api-key", "", "Congress.gov API key (overrides CONGRESS_API_KEY and the config file)")
	collectCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "output directory (overrides config)")
	collectCmd.Flags().IntVar(&congressNum, "congress", 0, "congress number to query (overrides config)")

	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if apiKey != "" {
		cfg.Sources.Congress.APIKey = apiKey
	}

	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}

	if congressNum > 0 {
		cfg.Sources.Congress.Congress = congressNum
	}

	if err := cfg.Restrict(onlySources); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	runID := uuid.NewString()
	log := newLogger(cfg).With("run", runID)

	cmd.Printf("✅ Configuration loaded: %s\n\n", cfg)

	client := crawler.NewClient(cfg, log)

	sources, err := client.BuildSources(cfg)
	if err != nil {
		return err
	}

	if len(sources) == 0 {
		return errors.New("no sources to run")
	}

	cmd.Printf("🚀 Collecting from %d sources...\n", len(sources))

	start := time.Now()

	res := pipeline.Run(cmd.Context(), sources, pipeline.Options{
		NearDuplicateThreshold: cfg.Dedupe.NearDuplicateThreshold,
		Logger:                 log,
	})

	for _, s := range res.PerSource {
		marker := "✅"
		if s.Collected == 0 {
			marker = "⚠️ "
		}

		cmd.Printf("%s %s: %d collected, %d kept after normalization\n", marker, s.Name, s.Collected, s.Normalized)
	}

	client.LogAttemptSummary()

	cmd.Printf("\n📊 %d collected, %d normalized, %d unique (%.1fs)\n\n",
		len(res.Collected), len(res.Normalized), len(res.Unique), time.Since(start).Seconds())

	paths, err := sink.New(cfg.Output, cmd.OutOrStdout(), log).WithRunID(runID).Write(res.Unique)
	if err != nil {
		if errors.Is(err, sink.ErrNoMembers) {
			cmd.Println("⚠️  No members collected, nothing written")
		}

		return err
	}

	cmd.Printf("\n💾 Saved %d members\n", len(res.Unique))
	cmd.Printf("   CSV:  %s\n", paths.CSV)
	cmd.Printf("   JSON: %s\n", paths.JSON)

	if paths.Summary != "" {
		cmd.Printf("   Summary: %s\n", paths.Summary)

		checkReport(cmd, paths.Summary, log)
	}

	return nil
}

// checkReport re-reads the summary just written. A failed check is logged,
// the data files are still good.
func checkReport(cmd *cobra.Command, path string, log *logger.Logger) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("could not re-read summary", "path", path, "error", err)

		return
	}

	result := validator.NewReportValidator(true).Validate(string(data))
	if !result.IsValid {
		log.Warn("summary report failed validation", "path", path, "errors", len(result.Errors))
		result.PrintErrors(cmd.ErrOrStderr())
	}
}
