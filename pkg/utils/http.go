// Package utils provides common utility functions.
package utils

import (
	"net/http"
	"net/url"
)

// HTTPHelper provides HTTP utility functions.
type HTTPHelper struct{}

// NewHTTPHelper creates a new HTTP helper.
func NewHTTPHelper() *HTTPHelper {
	return &HTTPHelper{}
}

// IsValidURL reports whether raw is an absolute http(s) URL.
func (h *HTTPHelper) IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Resolve resolves href against base. Unparseable input is returned unchanged.
func (h *HTTPHelper) Resolve(base, href string) string {
	if href == "" {
		return ""
	}

	b, err := url.Parse(base)
	if err != nil {
		return href
	}

	ref, err := url.Parse(href)
	if err != nil {
		return href
	}

	return b.ResolveReference(ref).String()
}

// BuildHeaders creates HTTP headers with defaults.
func (h *HTTPHelper) BuildHeaders(userAgent, accept string, customHeaders map[string]string) http.Header {
	headers := http.Header{}

	if userAgent == "" {
		userAgent = "Congressional-Data-Collector/1.0"
	}

	if accept == "" {
		accept = "application/json, text/html"
	}

	headers.Set("User-Agent", userAgent)
	headers.Set("Accept", accept)

	for key, value := range customHeaders {
		headers.Set(key, value)
	}

	return headers
}
