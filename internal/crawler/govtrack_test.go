package crawler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housemembers/internal/config"
	"housemembers/internal/logger"
	"housemembers/internal/models"
)

func govtrackConfig(baseURL string, pageSize int) config.GovTrackConfig {
	cfg := config.Defaults().Sources.GovTrack
	cfg.BaseURL = baseURL
	cfg.PageSize = pageSize

	return cfg
}

var govtrackRoles = []map[string]any{
	{
		"role_type": "representative",
		"state":     "CA",
		"district":  12,
		"party":     "Democrat",
		"title":     "Rep.",
		"startdate": "2025-01-03",
		"enddate":   "2027-01-03",
		"website":   "https://pelosi.house.gov",
		"phone":     "202-225-4965",
		"extra":     map[string]any{"address": "1236 Longworth HOB"},
		"person": map[string]any{
			"id": 400314, "bioguideid": "P000197", "name": "Rep. Nancy Pelosi [D-CA12]",
			"firstname": "Nancy", "lastname": "Pelosi", "gender": "female", "twitterid": "SpeakerPelosi",
		},
	},
	{
		"role_type": "senator",
		"state":     "CA",
		"party":     "Democrat",
		"person":    map[string]any{"firstname": "Alex", "lastname": "Padilla"},
	},
	{
		"role_type": "representative",
		"state":     "WY",
		"district":  0,
		"party":     "Republican",
		"person":    map[string]any{"id": 456789, "firstname": "Harriet", "lastname": "Hageman"},
	},
}

// govtrackServer pages through govtrackRoles reporting only total_count.
func govtrackServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()

	return cappedGovTrackServer(t, govtrackRoles, 0, calls)
}

// cappedGovTrackServer pages through roles, returning at most maxLimit per
// page. Zero means no cap.
func cappedGovTrackServer(t *testing.T, roles []map[string]any, maxLimit int, calls *atomic.Int32) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		assert.Equal(t, "/role", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("current"))
		assert.Equal(t, "representative", r.URL.Query().Get("role_type"))

		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if maxLimit > 0 && limit > maxLimit {
			limit = maxLimit
		}

		objects := []map[string]any{}
		for i := offset; i < len(roles) && i < offset+limit; i++ {
			objects = append(objects, roles[i])
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"meta":    map[string]any{"limit": limit, "offset": offset, "total_count": len(roles), "next": nil},
			"objects": objects,
		})
	}))
}

func TestGovTrackSource_PaginatesByTotalCount(t *testing.T) {
	var calls atomic.Int32

	server := govtrackServer(t, &calls)
	defer server.Close()

	s, _ := newTestScraper(t)
	src := NewGovTrackSource(govtrackConfig(server.URL, 2), s, logger.Discard())

	candidates := src.Fetch(context.Background())
	require.Len(t, candidates, 2, "senator role must be skipped")
	assert.Equal(t, int32(2), calls.Load())

	pelosi := candidates[0].(models.GovTrackRole)
	assert.Equal(t, "12", pelosi.District.String())
	assert.Equal(t, "400314", pelosi.Person.ID.String())
	assert.Equal(t, "P000197", pelosi.Person.BioguideID)
	assert.Equal(t, "SpeakerPelosi", pelosi.Person.TwitterID)
	assert.Equal(t, "1236 Longworth HOB", pelosi.Extra["address"])
	assert.Equal(t, server.URL+"/role", pelosi.SourceURL)
	assert.Equal(t, "GovTrack.us API", pelosi.SourceLabel())

	hageman := candidates[1].(models.GovTrackRole)
	assert.Equal(t, "0", hageman.District.String())
}

func TestGovTrackSource_ServerCappedLimitLosesNothing(t *testing.T) {
	var roles []map[string]any

	for i := range 6 {
		roles = append(roles, map[string]any{
			"role_type": "representative",
			"state":     "OH",
			"district":  i + 1,
			"person":    map[string]any{"id": 1000 + i, "firstname": "Test", "lastname": fmt.Sprintf("Member%d", i)},
		})
	}

	var calls atomic.Int32

	server := cappedGovTrackServer(t, roles, 2, &calls)
	defer server.Close()

	s, _ := newTestScraper(t)
	src := NewGovTrackSource(govtrackConfig(server.URL, 5), s, logger.Discard())

	candidates := src.Fetch(context.Background())
	require.Len(t, candidates, 6)
	assert.Equal(t, int32(3), calls.Load())

	for i, c := range candidates {
		assert.Equal(t, strconv.Itoa(1000+i), c.(models.GovTrackRole).Person.ID.String())
	}
}

func TestGovTrackSource_FollowsMetaNext(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)

		next := "/role?offset=1"
		if n == 2 {
			next = ""
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"meta":    map[string]any{"total_count": 0, "next": next},
			"objects": []map[string]any{govtrackRoles[0]},
		})
	}))
	defer server.Close()

	s, _ := newTestScraper(t)
	src := NewGovTrackSource(govtrackConfig(server.URL, 1), s, logger.Discard())

	assert.Len(t, src.Fetch(context.Background()), 2)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGovTrackSource_EmptyObjectsStops(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"meta": {"total_count": 50, "next": "/role?offset=10"}, "objects": []}`))
	}))
	defer server.Close()

	s, _ := newTestScraper(t)
	src := NewGovTrackSource(govtrackConfig(server.URL, 10), s, logger.Discard())

	assert.Empty(t, src.Fetch(context.Background()))
	assert.Equal(t, int32(1), calls.Load())
}

func TestGovTrackSource_ServerErrorAbortsSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("offset") != "0" {
			w.WriteHeader(http.StatusInternalServerError)

			return
		}

		_, _ = w.Write([]byte(`{"meta": {"total_count": 4}, "objects": [{"role_type": "representative", "person": {"firstname": "A", "lastname": "B"}}]}`))
	}))
	defer server.Close()

	s, _ := newTestScraper(t)
	src := NewGovTrackSource(govtrackConfig(server.URL, 1), s, logger.Discard())

	_, err := src.Collect(context.Background())
	require.ErrorIs(t, err, ErrServerStatus)
	assert.Empty(t, src.Fetch(context.Background()))
}
