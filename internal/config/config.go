// Package config provides configuration management for the member collector.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"housemembers/pkg/utils"
)

// Configuration validation errors.
var (
	ErrNoEnabledSources         = errors.New("at least one source must be enabled")
	ErrMissingBaseURL           = errors.New("base_url is required")
	ErrInvalidURL               = errors.New("url must be an absolute http(s) URL")
	ErrInvalidPageSize          = errors.New("page_size must be at least 1")
	ErrInvalidCongress          = errors.New("congress.congress must be at least 1")
	ErrNoWebPages               = errors.New("web.pages must not be empty when web is enabled")
	ErrWebPageMissingURL        = errors.New("web page url is required")
	ErrInvalidStrategyKind      = errors.New("strategy kind must be one of: elements, table, links")
	ErrEmptySelector            = errors.New("strategy selector is required")
	ErrInvalidFallbackPattern   = errors.New("web.fallback_link_pattern is invalid regex")
	ErrInvalidFallbackLimit     = errors.New("web.fallback_link_limit must be non-negative")
	ErrInvalidPageInterval      = errors.New("rate_limit.page_interval_ms must be non-negative")
	ErrInvalidCooldown          = errors.New("rate_limit.cooldown_sec must be non-negative")
	ErrInvalidRateLimitRetries  = errors.New("rate_limit.max_retries must be at least 1")
	ErrInvalidMaxAttempts       = errors.New("retry.max_attempts must be at least 1")
	ErrInvalidInitialDelay      = errors.New("retry.initial_delay_ms must be non-negative")
	ErrInvalidBackoffMultiplier = errors.New("retry.backoff_multiplier must be >= 1.0")
	ErrInvalidTimeout           = errors.New("retry.timeout_sec must be at least 1")
	ErrMissingOutputDir         = errors.New("output.dir is required")
	ErrMissingOutputBasename    = errors.New("output.basename is required")
	ErrInvalidThreshold         = errors.New("dedupe.near_duplicate_threshold must be between 0 and 1")
	ErrInvalidLogLevel          = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat         = errors.New("logging.format must be 'text' or 'json'")
	ErrUnknownSource            = errors.New("unknown source name")
)

// Source names as used by --only and in log attributes.
const (
	SourceCongress = "congress"
	SourceGovTrack = "govtrack"
	SourceWeb      = "web"
)

// Strategy kinds understood by the web source.
const (
	StrategyElements = "elements"
	StrategyTable    = "table"
	StrategyLinks    = "links"
)

// Environment variables that override file values.
const (
	EnvCongressAPIKey = "CONGRESS_API_KEY"
	EnvLogLevel       = "COLLECTOR_LOG_LEVEL"
	EnvOutputDir      = "COLLECTOR_OUTPUT_DIR"
)

// Config represents the complete collector configuration.
type Config struct {
	Sources   SourcesConfig   `yaml:"sources"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Retry     RetryPolicy     `yaml:"retry"`
	Output    OutputConfig    `yaml:"output"`
	Dedupe    DedupeConfig    `yaml:"dedupe"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SourcesConfig groups the three source families.
type SourcesConfig struct {
	Congress CongressConfig `yaml:"congress"`
	GovTrack GovTrackConfig `yaml:"govtrack"`
	Web      WebConfig      `yaml:"web"`
}

// CongressConfig configures the Congress.gov member API.
type CongressConfig struct {
	Enabled     *bool  `yaml:"enabled"`
	Label       string `yaml:"label"`
	BaseURL     string `yaml:"base_url"`
	APIKey      string `yaml:"api_key"`
	UserAgent   string `yaml:"user_agent"`
	Congress    int    `yaml:"congress"`
	PageSize    int    `yaml:"page_size"`
	CurrentOnly *bool  `yaml:"current_only"`
}

// GovTrackConfig configures the GovTrack role API.
type GovTrackConfig struct {
	Enabled   *bool  `yaml:"enabled"`
	Label     string `yaml:"label"`
	BaseURL   string `yaml:"base_url"`
	UserAgent string `yaml:"user_agent"`
	PageSize  int    `yaml:"page_size"`
}

// WebConfig configures HTML scraping.
type WebConfig struct {
	Enabled             *bool            `yaml:"enabled"`
	UserAgent           string           `yaml:"user_agent"`
	FallbackLinkPattern string           `yaml:"fallback_link_pattern"`
	FallbackLinkLimit   int              `yaml:"fallback_link_limit"`
	DefaultStrategies   []StrategyConfig `yaml:"default_strategies"`
	Pages               []WebPageConfig  `yaml:"pages"`
}

// WebPageConfig is one document to scrape.
type WebPageConfig struct {
	Name       string            `yaml:"name"`
	URL        string            `yaml:"url"`
	Strategies []StrategyConfig  `yaml:"strategies"`
	Overrides  map[string]string `yaml:"overrides"`
	Enabled    *bool             `yaml:"enabled"`
}

// StrategyConfig is one entry of a selector cascade.
type StrategyConfig struct {
	Kind     string `yaml:"kind"`
	Selector string `yaml:"selector"`
	// MaxRows caps table strategies; zero means unlimited.
	MaxRows int `yaml:"max_rows"`
}

// RateLimitConfig controls pacing and HTTP 429 handling.
type RateLimitConfig struct {
	PageIntervalMs int `yaml:"page_interval_ms"`
	CooldownSec    int `yaml:"cooldown_sec"`
	MaxRetries     int `yaml:"max_retries"`
}

// RetryPolicy defines retry behavior for transport failures.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	TimeoutSec        int     `yaml:"timeout_sec"`
}

// OutputConfig defines where results are written.
type OutputConfig struct {
	Dir           string `yaml:"dir"`
	Basename      string `yaml:"basename"`
	SummaryReport *bool  `yaml:"summary_report"`
	SampleSize    int    `yaml:"sample_size"`
}

// DedupeConfig tunes the near-duplicate diagnostic.
type DedupeConfig struct {
	NearDuplicateThreshold float64 `yaml:"near_duplicate_threshold"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func boolPtr(b bool) *bool {
	return &b
}

// BrowserUserAgent is sent to web pages that expect a real browser.
const BrowserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Sources: SourcesConfig{
			Congress: CongressConfig{
				Enabled:     boolPtr(true),
				Label:       "Congress.gov API",
				BaseURL:     "https://api.congress.gov/v3",
				UserAgent:   "Congressional-Data-Collector/1.0",
				Congress:    119,
				PageSize:    250,
				CurrentOnly: boolPtr(true),
			},
			GovTrack: GovTrackConfig{
				Enabled:   boolPtr(true),
				Label:     "GovTrack.us API",
				BaseURL:   "https://www.govtrack.us/api/v2",
				UserAgent: "Congressional-Data-Collector/1.0 (Educational-Use)",
				PageSize:  500,
			},
			Web: WebConfig{
				Enabled:             boolPtr(true),
				UserAgent:           BrowserUserAgent,
				FallbackLinkPattern: `(?i)members?|representatives?`,
				FallbackLinkLimit:   10,
				DefaultStrategies: []StrategyConfig{
					{Kind: StrategyElements, Selector: ".leadership-member"},
					{Kind: StrategyElements, Selector: ".member-info"},
					{Kind: StrategyElements, Selector: ".leadership-card"},
					{Kind: StrategyElements, Selector: `[class*="leader"]`},
					{Kind: StrategyElements, Selector: ".bio-card"},
				},
				Pages: []WebPageConfig{
					{Name: "House.gov Leadership", URL: "https://www.house.gov/leadership"},
				},
			},
		},
		RateLimit: RateLimitConfig{
			PageIntervalMs: 100,
			CooldownSec:    60,
			MaxRetries:     5,
		},
		Retry: RetryPolicy{
			MaxAttempts:       3,
			InitialDelayMs:    500,
			MaxDelayMs:        30000,
			BackoffMultiplier: 2.0,
			TimeoutSec:        10,
		},
		Output: OutputConfig{
			Dir:           "data",
			Basename:      "house_members",
			SummaryReport: boolPtr(true),
			SampleSize:    5,
		},
		Dedupe: DedupeConfig{
			NearDuplicateThreshold: 0.95,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from a YAML file, fills defaults and applies env overrides.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig builds a validated configuration from YAML bytes.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.ApplyDefaults(); err != nil {
		return nil, err
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns the built-in configuration with env overrides applied.
func DefaultConfig() *Config {
	cfg := Defaults()
	cfg.ApplyEnv()

	return &cfg
}

// ApplyDefaults fills every zero-valued field from Defaults. Switches that
// were set explicitly keep their value, including false.
func (c *Config) ApplyDefaults() error {
	switches := c.switches()

	explicit := make([]*bool, len(switches))
	for i, sw := range switches {
		if *sw != nil {
			explicit[i] = boolPtr(**sw)
		}
	}

	if err := mergo.Merge(c, Defaults()); err != nil {
		return fmt.Errorf("failed to merge defaults: %w", err)
	}

	// mergo follows a non-nil *bool and treats false as unset.
	for i, sw := range switches {
		if explicit[i] != nil {
			*sw = explicit[i]
		}
	}

	return nil
}

func (c *Config) switches() []**bool {
	return []**bool{
		&c.Sources.Congress.Enabled,
		&c.Sources.Congress.CurrentOnly,
		&c.Sources.GovTrack.Enabled,
		&c.Sources.Web.Enabled,
		&c.Output.SummaryReport,
	}
}

// ApplyEnv overrides values from the process environment.
func (c *Config) ApplyEnv() {
	if key := strings.TrimSpace(os.Getenv(EnvCongressAPIKey)); key != "" {
		c.Sources.Congress.APIKey = key
	}

	if lvl := strings.TrimSpace(os.Getenv(EnvLogLevel)); lvl != "" {
		c.Logging.Level = strings.ToLower(lvl)
	}

	if dir := strings.TrimSpace(os.Getenv(EnvOutputDir)); dir != "" {
		c.Output.Dir = dir
	}
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	enabledCount := 0

	congress := c.Sources.Congress
	if isOn(congress.Enabled) {
		enabledCount++

		if congress.BaseURL == "" {
			return fmt.Errorf("%w: sources.congress", ErrMissingBaseURL)
		}

		if !urls.IsValidURL(congress.BaseURL) {
			return fmt.Errorf("%w: sources.congress.base_url %q", ErrInvalidURL, congress.BaseURL)
		}

		if congress.PageSize < 1 {
			return fmt.Errorf("%w: sources.congress", ErrInvalidPageSize)
		}

		if congress.Congress < 1 {
			return ErrInvalidCongress
		}
	}

	govtrack := c.Sources.GovTrack
	if isOn(govtrack.Enabled) {
		enabledCount++

		if govtrack.BaseURL == "" {
			return fmt.Errorf("%w: sources.govtrack", ErrMissingBaseURL)
		}

		if !urls.IsValidURL(govtrack.BaseURL) {
			return fmt.Errorf("%w: sources.govtrack.base_url %q", ErrInvalidURL, govtrack.BaseURL)
		}

		if govtrack.PageSize < 1 {
			return fmt.Errorf("%w: sources.govtrack", ErrInvalidPageSize)
		}
	}

	if isOn(c.Sources.Web.Enabled) {
		enabledCount++

		if err := c.Sources.Web.validate(); err != nil {
			return err
		}
	}

	if enabledCount == 0 {
		return ErrNoEnabledSources
	}

	if c.RateLimit.PageIntervalMs < 0 {
		return ErrInvalidPageInterval
	}

	if c.RateLimit.CooldownSec < 0 {
		return ErrInvalidCooldown
	}

	if c.RateLimit.MaxRetries < 1 {
		return ErrInvalidRateLimitRetries
	}

	// Validate retry policy
	if c.Retry.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if c.Retry.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}

	if c.Retry.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoffMultiplier
	}

	if c.Retry.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Output.Dir == "" {
		return ErrMissingOutputDir
	}

	if c.Output.Basename == "" {
		return ErrMissingOutputBasename
	}

	if c.Dedupe.NearDuplicateThreshold < 0 || c.Dedupe.NearDuplicateThreshold > 1 {
		return ErrInvalidThreshold
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

var urls = utils.NewHTTPHelper()

func (w *WebConfig) validate() error {
	if len(w.EnabledPages()) == 0 {
		return ErrNoWebPages
	}

	if _, err := regexp.Compile(w.FallbackLinkPattern); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFallbackPattern, err)
	}

	if w.FallbackLinkLimit < 0 {
		return ErrInvalidFallbackLimit
	}

	if err := validateStrategies("web.default_strategies", w.DefaultStrategies); err != nil {
		return err
	}

	for i, page := range w.Pages {
		if page.URL == "" {
			return fmt.Errorf("%w: web.pages[%d]", ErrWebPageMissingURL, i)
		}

		if !urls.IsValidURL(page.URL) {
			return fmt.Errorf("%w: web.pages[%d] %q", ErrInvalidURL, i, page.URL)
		}

		if err := validateStrategies(fmt.Sprintf("web.pages[%d].strategies", i), page.Strategies); err != nil {
			return err
		}
	}

	return nil
}

func validateStrategies(path string, strategies []StrategyConfig) error {
	for i, s := range strategies {
		switch s.Kind {
		case StrategyElements, StrategyTable, StrategyLinks:
		default:
			return fmt.Errorf("%w: %s[%d] (%q)", ErrInvalidStrategyKind, path, i, s.Kind)
		}

		if strings.TrimSpace(s.Selector) == "" {
			return fmt.Errorf("%w: %s[%d]", ErrEmptySelector, path, i)
		}
	}

	return nil
}

func isOn(b *bool) bool {
	return b != nil && *b
}

// IsEnabled reports whether the Congress.gov source should run.
func (c CongressConfig) IsEnabled() bool { return isOn(c.Enabled) }

// IsEnabled reports whether the GovTrack source should run.
func (g GovTrackConfig) IsEnabled() bool { return isOn(g.Enabled) }

// IsEnabled reports whether web scraping should run.
func (w WebConfig) IsEnabled() bool { return isOn(w.Enabled) }

// IsEnabled reports whether the page is scraped; pages default to enabled.
func (p WebPageConfig) IsEnabled() bool { return p.Enabled == nil || *p.Enabled }

// IsCurrentOnly reports whether only sitting members are requested.
func (c CongressConfig) IsCurrentOnly() bool { return isOn(c.CurrentOnly) }

// WantsSummaryReport reports whether the markdown summary is written.
func (o OutputConfig) WantsSummaryReport() bool { return isOn(o.SummaryReport) }

// EnabledPages returns only the pages that should be fetched.
func (w WebConfig) EnabledPages() []WebPageConfig {
	var enabled []WebPageConfig

	for _, p := range w.Pages {
		if p.IsEnabled() {
			enabled = append(enabled, p)
		}
	}

	return enabled
}

// StrategiesFor returns the page's own cascade, or the default cascade if it has none.
func (w WebConfig) StrategiesFor(page WebPageConfig) []StrategyConfig {
	if len(page.Strategies) > 0 {
		return page.Strategies
	}

	return w.DefaultStrategies
}

// Restrict disables every source not named in names. An empty list keeps the config as is.
func (c *Config) Restrict(names []string) error {
	if len(names) == 0 {
		return nil
	}

	keep := map[string]bool{}

	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		switch n {
		case SourceCongress, SourceGovTrack, SourceWeb:
			keep[n] = true
		case "":
		default:
			return fmt.Errorf("%w: %q", ErrUnknownSource, n)
		}
	}

	if !keep[SourceCongress] {
		c.Sources.Congress.Enabled = boolPtr(false)
	}

	if !keep[SourceGovTrack] {
		c.Sources.GovTrack.Enabled = boolPtr(false)
	}

	if !keep[SourceWeb] {
		c.Sources.Web.Enabled = boolPtr(false)
	}

	return nil
}

// GetRetryDelay calculates exponential backoff delay for attempt number.
func (rp *RetryPolicy) GetRetryDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delayMs := float64(rp.InitialDelayMs)
	for i := 1; i < attempt; i++ {
		delayMs *= rp.BackoffMultiplier
	}

	// Cap at max delay
	if int(delayMs) > rp.MaxDelayMs {
		delayMs = float64(rp.MaxDelayMs)
	}

	return time.Duration(int(delayMs)) * time.Millisecond
}

// GetTimeout returns the timeout duration.
func (rp *RetryPolicy) GetTimeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}

// PageInterval returns the minimum delay between two page requests.
func (r RateLimitConfig) PageInterval() time.Duration {
	return time.Duration(r.PageIntervalMs) * time.Millisecond
}

// Cooldown returns the wait applied after an HTTP 429.
func (r RateLimitConfig) Cooldown() time.Duration {
	return time.Duration(r.CooldownSec) * time.Second
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Congress: %t, GovTrack: %t, WebPages: %d, MaxAttempts: %d, Output: %s}",
		c.Sources.Congress.IsEnabled(),
		c.Sources.GovTrack.IsEnabled(),
		len(c.Sources.Web.EnabledPages()),
		c.Retry.MaxAttempts,
		c.Output.Dir,
	)
}
