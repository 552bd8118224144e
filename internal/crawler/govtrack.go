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

const representativeRole = "representative"

type govtrackPage struct {
	Meta struct {
		Limit      int               `json:"limit"`
		Offset     int               `json:"offset"`
		TotalCount int               `json:"total_count"`
		Next       models.FlexString `json:"next"`
	} `json:"meta"`
	Objects []json.RawMessage `json:"objects"`
}

// GovTrackSource pages through current representative roles on GovTrack.
type GovTrackSource struct {
	cfg     config.GovTrackConfig
	scraper *Scraper
	log     *logger.Logger
}

// NewGovTrackSource creates the GovTrack adapter.
func NewGovTrackSource(cfg config.GovTrackConfig, scraper *Scraper, log *logger.Logger) *GovTrackSource {
	return &GovTrackSource{
		cfg:     cfg,
		scraper: scraper,
		log:     log.With("source", cfg.Label),
	}
}

// Name implements Source.
func (s *GovTrackSource) Name() string { return s.cfg.Label }

// Endpoint returns the role list URL.
func (s *GovTrackSource) Endpoint() string {
	return strings.TrimRight(s.cfg.BaseURL, "/") + "/role"
}

// Fetch implements Source.
func (s *GovTrackSource) Fetch(ctx context.Context) []models.RawCandidate {
	return swallow(ctx, s, s.log)
}

// Collect fetches every page of current House roles.
func (s *GovTrackSource) Collect(ctx context.Context) ([]models.RawCandidate, error) {
	endpoint := s.Endpoint()

	var (
		candidates []models.RawCandidate
		offset     int
	)

	for {
		res, err := s.scraper.GetPage(ctx, Request{
			URL: endpoint,
			Query: map[string]string{
				"current":   "true",
				"role_type": representativeRole,
				"limit":     strconv.Itoa(s.cfg.PageSize),
				"offset":    strconv.Itoa(offset),
				"format":    "json",
			},
			UserAgent: s.cfg.UserAgent,
			Accept:    AcceptJSON,
		})
		if err != nil {
			return nil, NewSourceError(s.Name(), fmt.Sprintf("page offset=%d", offset), err)
		}

		var page govtrackPage
		if err := json.Unmarshal(res.Body, &page); err != nil {
			s.log.Warn("malformed page, stopping pagination",
				"offset", offset, "kept", len(candidates), "error", fmt.Errorf("%w: %w", ErrParse, err))

			break
		}

		if len(page.Objects) == 0 {
			break
		}

		for i, raw := range page.Objects {
			var role models.GovTrackRole
			if err := json.Unmarshal(raw, &role); err != nil {
				s.log.Debug("skipping undecodable role", "offset", offset, "index", i, "error", err)

				continue
			}

			if !strings.EqualFold(role.RoleType, representativeRole) {
				continue
			}

			role.Label = s.cfg.Label
			role.SourceURL = endpoint
			candidates = append(candidates, role)
		}

		s.log.Debug("page collected", "offset", offset, "roles", len(page.Objects))

		more := page.Meta.Next != "" || offset+len(page.Objects) < page.Meta.TotalCount
		if !more {
			break
		}

		// The server may cap limit below PageSize.
		offset += len(page.Objects)
	}

	s.log.Info("source collected", "records", len(candidates))

	return candidates, nil
}
