package crawler

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure classes. Every adapter error wraps exactly one of these.
var (
	ErrTransport            = errors.New("transport failure")
	ErrRateLimited          = errors.New("rate limited")
	ErrAuth                 = errors.New("authentication rejected")
	ErrClientStatus         = errors.New("client error status")
	ErrServerStatus         = errors.New("server error status")
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrParse                = errors.New("malformed payload")
	ErrMissingAPIKey        = errors.New("api key is required")
)

// SourceError records which adapter failed and at what stage.
type SourceError struct {
	Source string
	Stage  string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %q failed at %s: %v", e.Source, e.Stage, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError creates a new SourceError.
func NewSourceError(source, stage string, err error) *SourceError {
	return &SourceError{
		Source: source,
		Stage:  stage,
		Err:    err,
	}
}

// ClassifyStatus maps an HTTP status to nil (200) or a failure class.
func ClassifyStatus(status int) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %d", ErrRateLimited, status)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %d", ErrAuth, status)
	case status >= 400 && status < 500:
		return fmt.Errorf("%w: %d", ErrClientStatus, status)
	case status >= 500:
		return fmt.Errorf("%w: %d", ErrServerStatus, status)
	}

	return fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, status)
}

// Kind returns a short label for the failure class of err, for logs and stats.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrAuth):
		return "auth"
	case errors.Is(err, ErrClientStatus):
		return "client_status"
	case errors.Is(err, ErrServerStatus):
		return "server_status"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrMissingAPIKey):
		return "missing_api_key"
	case errors.Is(err, ErrTransport):
		return "transport"
	}

	return "other"
}
