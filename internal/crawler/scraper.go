package crawler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"housemembers/internal/config"
	"housemembers/internal/logger"
	"housemembers/pkg/utils"
)

// Accept headers.
const (
	AcceptJSON = "application/json"
	AcceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the real SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Request describes one GET.
type Request struct {
	URL       string
	Query     map[string]string
	UserAgent string
	Accept    string
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
	Duration   time.Duration
}

// Scraper performs paced GET requests with config-driven retry logic.
type Scraper struct {
	http        *resty.Client
	retryPolicy *config.RetryPolicy
	limiter     *rate.Limiter
	cooldown    time.Duration
	maxCooldown int
	sleep       SleepFunc
	headers     *utils.HTTPHelper
	attempts    *AttemptLog
	log         *logger.Logger
}

// Option customises a Scraper.
type Option func(*Scraper)

// WithSleep replaces the function used for retry delays and 429 cooldowns.
func WithSleep(sleep SleepFunc) Option {
	return func(s *Scraper) { s.sleep = sleep }
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(s *Scraper) { s.log = log }
}

// WithHTTPClient replaces the resty client.
func WithHTTPClient(client *resty.Client) Option {
	return func(s *Scraper) { s.http = client }
}

// NewScraper creates a new scraper with the default config.
func NewScraper(opts ...Option) *Scraper {
	defaults := config.Defaults()

	return NewScraperWithConfig(&defaults.Retry, defaults.RateLimit, opts...)
}

// NewScraperWithConfig creates a new scraper with a custom retry policy and rate limit.
func NewScraperWithConfig(retryPolicy *config.RetryPolicy, rateLimit config.RateLimitConfig, opts ...Option) *Scraper {
	limit := rate.Inf
	if interval := rateLimit.PageInterval(); interval > 0 {
		limit = rate.Every(interval)
	}

	s := &Scraper{
		http:        resty.New().SetTimeout(retryPolicy.GetTimeout()),
		retryPolicy: retryPolicy,
		limiter:     rate.NewLimiter(limit, 1),
		cooldown:    rateLimit.Cooldown(),
		maxCooldown: rateLimit.MaxRetries,
		sleep:       Sleep,
		headers:     utils.NewHTTPHelper(),
		attempts:    NewAttemptLog(),
		log:         logger.Discard(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Attempts returns the log of every request made by this scraper.
func (s *Scraper) Attempts() *AttemptLog {
	return s.attempts
}

// Get performs one logical GET. Transport failures and transient statuses
// (408, 503, 504) are retried per the retry policy. Any other status is
// returned as-is with a nil error; callers classify it.
func (s *Scraper) Get(ctx context.Context, req Request) (*Response, error) {
	var lastErr error

	for attempt := 1; attempt <= s.retryPolicy.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := s.sleep(ctx, s.retryPolicy.GetRetryDelay(attempt)); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrTransport, err)
			}
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTransport, err)
		}

		startTime := time.Now()

		r := s.http.R().SetContext(ctx)

		headers := s.headers.BuildHeaders(req.UserAgent, req.Accept, nil)
		for key := range headers {
			r.SetHeader(key, headers.Get(key))
		}

		if len(req.Query) > 0 {
			r.SetQueryParams(req.Query)
		}

		res, err := r.Get(req.URL)
		duration := time.Since(startTime)

		if err != nil {
			lastErr = fmt.Errorf("%w: request failed (attempt %d/%d): %w", ErrTransport, attempt, s.retryPolicy.MaxAttempts, err)
			s.attempts.RecordAttempt(req.URL, false, lastErr, 0, duration)
			s.log.Debug("request failed", "url", req.URL, "attempt", attempt, "error", err)

			if ctx.Err() != nil {
				break
			}

			continue
		}

		status := res.StatusCode()
		s.attempts.RecordAttempt(req.URL, status == http.StatusOK, ClassifyStatus(status), status, duration)

		if isRetryableStatus(status) && attempt < s.retryPolicy.MaxAttempts {
			lastErr = ClassifyStatus(status)
			s.log.Debug("retrying transient status", "url", req.URL, "status", status, "attempt", attempt)

			continue
		}

		return &Response{StatusCode: status, Body: res.Body(), Duration: duration}, nil
	}

	return nil, lastErr
}

// GetPage is Get with HTTP 429 handling: after a 429 it waits the fixed
// cooldown and retries the same request, up to the configured number of
// cooldowns. Non-200 statuses are returned as classified errors.
func (s *Scraper) GetPage(ctx context.Context, req Request) (*Response, error) {
	for cooldowns := 0; ; cooldowns++ {
		res, err := s.Get(ctx, req)
		if err != nil {
			return nil, err
		}

		if res.StatusCode != http.StatusTooManyRequests {
			if err := ClassifyStatus(res.StatusCode); err != nil {
				return res, err
			}

			return res, nil
		}

		if cooldowns >= s.maxCooldown {
			return res, fmt.Errorf("%w: still limited after %d cooldowns", ErrRateLimited, cooldowns)
		}

		s.log.Warn("rate limited, cooling down", "url", req.URL, "cooldown", s.cooldown)

		if err := s.sleep(ctx, s.cooldown); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTransport, err)
		}
	}
}

// isRetryableStatus determines if we should retry based on HTTP status code.
// 429 is handled by GetPage.
func isRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusServiceUnavailable: // 503
		return true
	case http.StatusGatewayTimeout: // 504
		return true
	case http.StatusRequestTimeout: // 408
		return true
	}

	return false
}
