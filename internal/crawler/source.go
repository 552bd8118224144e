// Package crawler fetches raw member candidates from APIs and web pages.
package crawler

import (
	"context"
	"errors"
	"log/slog"

	"housemembers/internal/logger"
	"housemembers/internal/models"
)

// Source is one adapter. Fetch never fails: a broken source is logged and
// yields no candidates, so the rest of the run is unaffected.
type Source interface {
	Name() string
	Fetch(ctx context.Context) []models.RawCandidate
}

// collector is the fallible core every adapter implements.
type collector interface {
	Name() string
	Collect(ctx context.Context) ([]models.RawCandidate, error)
}

// swallow turns a collector result into the never-failing Source contract.
func swallow(ctx context.Context, c collector, log *logger.Logger) []models.RawCandidate {
	candidates, err := c.Collect(ctx)
	if err == nil {
		return candidates
	}

	attrs := []any{"source", c.Name(), "kind", Kind(err), "error", err}

	var srcErr *SourceError
	if errors.As(err, &srcErr) {
		attrs = append(attrs, "stage", srcErr.Stage)
	}

	level, msg := slog.LevelWarn, "source failed, skipping"
	if errors.Is(err, ErrAuth) || errors.Is(err, ErrMissingAPIKey) {
		level, msg = slog.LevelError, "source rejected credentials, skipping"
	}

	log.Log(ctx, level, msg, attrs...)

	return nil
}
