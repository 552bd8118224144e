package crawler

import (
	"fmt"

	"housemembers/internal/config"
	"housemembers/internal/extractor"
	"housemembers/internal/logger"
)

// Client owns the shared scraper and builds the sources for a run.
type Client struct {
	scraper   *Scraper
	extractor *extractor.Extractor
	log       *logger.Logger
}

// NewClient creates a client whose scraper follows cfg's retry and rate-limit settings.
func NewClient(cfg *config.Config, log *logger.Logger, opts ...Option) *Client {
	opts = append([]Option{WithLogger(log)}, opts...)

	return NewClientWithDeps(NewScraperWithConfig(&cfg.Retry, cfg.RateLimit, opts...), extractor.New(), log)
}

// NewClientWithDeps creates a client with injected dependencies.
func NewClientWithDeps(scraper *Scraper, ext *extractor.Extractor, log *logger.Logger) *Client {
	return &Client{
		scraper:   scraper,
		extractor: ext,
		log:       log,
	}
}

// Scraper returns the shared scraper.
func (c *Client) Scraper() *Scraper {
	return c.scraper
}

// BuildSources returns the enabled sources in run order: Congress.gov,
// GovTrack, then one source per enabled web page. A Congress source without
// an API key is skipped with a warning.
func (c *Client) BuildSources(cfg *config.Config) ([]Source, error) {
	var sources []Source

	if congress := cfg.Sources.Congress; congress.IsEnabled() {
		if congress.APIKey == "" {
			c.log.Warn("no Congress.gov API key configured, skipping source",
				"source", congress.Label, "env", config.EnvCongressAPIKey)
		} else {
			sources = append(sources, NewCongressSource(congress, c.scraper, c.log))
		}
	}

	if govtrack := cfg.Sources.GovTrack; govtrack.IsEnabled() {
		sources = append(sources, NewGovTrackSource(govtrack, c.scraper, c.log))
	}

	if web := cfg.Sources.Web; web.IsEnabled() {
		for _, page := range web.EnabledPages() {
			src, err := NewWebSource(web, page, c.extractor, c.scraper, c.log)
			if err != nil {
				return nil, fmt.Errorf("failed to build web source %q: %w", page.URL, err)
			}

			sources = append(sources, src)
		}
	}

	return sources, nil
}

// LogAttemptSummary logs request statistics for the run.
func (c *Client) LogAttemptSummary() {
	stats := c.scraper.Attempts().Stats()

	c.log.Info("request summary",
		"urls", stats.URLs,
		"requests", stats.Requests,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
		"duration", stats.Duration,
	)
}
