package crawler

import (
	"time"
)

// AttemptResult records the result of one HTTP request.
type AttemptResult struct {
	Timestamp  time.Time
	URL        string
	Error      string
	Attempt    int
	Duration   time.Duration
	StatusCode int
	Success    bool
}

// AttemptLog keeps every request made during a run, keyed by URL.
type AttemptLog struct {
	order    []string
	attempts map[string][]AttemptResult
}

// NewAttemptLog creates an empty log.
func NewAttemptLog() *AttemptLog {
	return &AttemptLog{
		attempts: make(map[string][]AttemptResult),
	}
}

// RecordAttempt appends one request outcome.
func (l *AttemptLog) RecordAttempt(url string, success bool, err error, statusCode int, duration time.Duration) {
	if _, seen := l.attempts[url]; !seen {
		l.order = append(l.order, url)
	}

	result := AttemptResult{
		Timestamp:  time.Now(),
		URL:        url,
		Attempt:    len(l.attempts[url]) + 1,
		Duration:   duration,
		StatusCode: statusCode,
		Success:    success,
	}

	if err != nil {
		result.Error = err.Error()
	}

	l.attempts[url] = append(l.attempts[url], result)
}

// Attempts returns the requests made to url, oldest first.
func (l *AttemptLog) Attempts(url string) []AttemptResult {
	return l.attempts[url]
}

// AttemptStats summarises the log.
type AttemptStats struct {
	URLs      int
	Requests  int
	Succeeded int
	Failed    int
	Duration  time.Duration
}

// Stats aggregates all recorded attempts.
func (l *AttemptLog) Stats() AttemptStats {
	stats := AttemptStats{URLs: len(l.order)}

	for _, url := range l.order {
		for _, a := range l.attempts[url] {
			stats.Requests++
			stats.Duration += a.Duration

			if a.Success {
				stats.Succeeded++
			} else {
				stats.Failed++
			}
		}
	}

	return stats
}
