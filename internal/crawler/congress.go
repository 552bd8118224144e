package crawler

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"housemembers/internal/config"
	"housemembers/internal/logger"
	"housemembers/internal/models"
)

type congressPage struct {
	Members    []json.RawMessage `json:"members"`
	Pagination struct {
		Count int               `json:"count"`
		Next  models.FlexString `json:"next"`
	} `json:"pagination"`
}

// CongressSource pages through the Congress.gov House member list.
type CongressSource struct {
	cfg     config.CongressConfig
	scraper *Scraper
	log     *logger.Logger
}

// NewCongressSource creates the Congress.gov adapter.
func NewCongressSource(cfg config.CongressConfig, scraper *Scraper, log *logger.Logger) *CongressSource {
	return &CongressSource{
		cfg:     cfg,
		scraper: scraper,
		log:     log.With("source", cfg.Label),
	}
}

// Name implements Source.
func (s *CongressSource) Name() string { return s.cfg.Label }

// Endpoint returns the member list URL for the configured congress.
func (s *CongressSource) Endpoint() string {
	return fmt.Sprintf("%s/member/congress/%d/house", strings.TrimRight(s.cfg.BaseURL, "/"), s.cfg.Congress)
}

// Fetch implements Source.
func (s *CongressSource) Fetch(ctx context.Context) []models.RawCandidate {
	return swallow(ctx, s, s.log)
}

// Collect fetches every page. Any failed page aborts the whole source; a
// page that is not valid JSON ends pagination with what was already read.
func (s *CongressSource) Collect(ctx context.Context) ([]models.RawCandidate, error) {
	if s.cfg.APIKey == "" {
		return nil, NewSourceError(s.Name(), "config", ErrMissingAPIKey)
	}

	endpoint := s.Endpoint()

	var (
		candidates []models.RawCandidate
		offset     int
	)

	for {
		query := map[string]string{
			"api_key": s.cfg.APIKey,
			"limit":   strconv.Itoa(s.cfg.PageSize),
			"offset":  strconv.Itoa(offset),
			"format":  "json",
		}
		if s.cfg.IsCurrentOnly() {
			query["currentMember"] = "true"
		}

		res, err := s.scraper.GetPage(ctx, Request{
			URL:       endpoint,
			Query:     query,
			UserAgent: s.cfg.UserAgent,
			Accept:    AcceptJSON,
		})
		if err != nil {
			return nil, NewSourceError(s.Name(), fmt.Sprintf("page offset=%d", offset), err)
		}

		var page congressPage
		if err := json.Unmarshal(res.Body, &page); err != nil {
			s.log.Warn("malformed page, stopping pagination",
				"offset", offset, "kept", len(candidates), "error", fmt.Errorf("%w: %w", ErrParse, err))

			break
		}

		if len(page.Members) == 0 {
			break
		}

		for i, raw := range page.Members {
			var member models.CongressMember
			if err := json.Unmarshal(raw, &member); err != nil {
				s.log.Debug("skipping undecodable member", "offset", offset, "index", i, "error", err)

				continue
			}

			member.Congress = s.cfg.Congress
			member.Label = s.cfg.Label
			candidates = append(candidates, member)
		}

		s.log.Debug("page collected", "offset", offset, "members", len(page.Members))

		if page.Pagination.Next == "" {
			break
		}

		// The API caps limit at 250.
		offset += len(page.Members)
	}

	s.log.Info("source collected", "records", len(candidates))

	return candidates, nil
}
