package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"housemembers/internal/config"
	"housemembers/internal/crawler"
	"housemembers/internal/logger"
)

var congressMembers = []map[string]any{
	{"bioguideId": "J000299", "name": "Johnson, Mike", "state": "Louisiana", "district": 4, "partyName": "Republican"},
	{"bioguideId": "J000294", "name": "Jeffries, Hakeem", "state": "New York", "district": 8, "partyName": "Democratic"},
	{"bioguideId": "S001176", "name": "Scalise, Steve", "state": "Louisiana", "district": 1, "partyName": "Republican"},
}

var govtrackRoles = []map[string]any{
	{
		"role_type": "representative", "state": "WY", "district": 0, "party": "Republican", "title": "Rep.",
		"person": map[string]any{"id": 456789, "firstname": "Harriet", "lastname": "Hageman"},
	},
	{
		"role_type": "representative", "state": "NY", "district": 8, "party": "Democrat",
		"person": map[string]any{"id": 412561, "firstname": "Hakeem", "lastname": "Jeffries"},
	},
	{
		"role_type": "senator", "state": "NY", "party": "Democrat",
		"person": map[string]any{"firstname": "Chuck", "lastname": "Schumer"},
	},
}

// fakeUpstream serves both APIs and the HTML fixtures. Individual routes
// can be switched to fail with a status code.
type fakeUpstream struct {
	t        *testing.T
	server   *httptest.Server
	mu       sync.Mutex
	failures map[string][]int
	requests atomic.Int32
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()

	u := &fakeUpstream{t: t, failures: map[string][]int{}}
	u.server = httptest.NewServer(http.HandlerFunc(u.handle))
	t.Cleanup(u.server.Close)

	return u
}

// failWith makes the next len(statuses) requests to path return those statuses.
func (u *fakeUpstream) failWith(path string, statuses ...int) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.failures[path] = append(u.failures[path], statuses...)
}

func (u *fakeUpstream) nextFailure(path string) int {
	u.mu.Lock()
	defer u.mu.Unlock()

	queue := u.failures[path]
	if len(queue) == 0 {
		return 0
	}

	u.failures[path] = queue[1:]

	return queue[0]
}

func (u *fakeUpstream) handle(w http.ResponseWriter, r *http.Request) {
	u.requests.Add(1)

	if status := u.nextFailure(r.URL.Path); status != 0 {
		w.WriteHeader(status)

		return
	}

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	switch r.URL.Path {
	case "/congress/member/congress/119/house":
		page := slice(congressMembers, offset, limit)

		next := ""
		if offset+limit < len(congressMembers) {
			next = "more"
		}

		writeJSON(w, map[string]any{"members": page, "pagination": map[string]any{"count": len(congressMembers), "next": next}})
	case "/govtrack/role":
		writeJSON(w, map[string]any{
			"meta":    map[string]any{"total_count": len(govtrackRoles), "offset": offset, "limit": limit},
			"objects": slice(govtrackRoles, offset, limit),
		})
	case "/web/leadership", "/web/directory", "/web/committee":
		data, err := os.ReadFile(filepath.Join("..", "fixtures", filepath.Base(r.URL.Path)+".html"))
		if err != nil {
			u.t.Errorf("fixture: %v", err)
			w.WriteHeader(http.StatusInternalServerError)

			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(data)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func slice(items []map[string]any, offset, limit int) []map[string]any {
	if offset >= len(items) {
		return []map[string]any{}
	}

	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}

	return items[offset:end]
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// testConfig points every source at the fake upstream.
func (u *fakeUpstream) testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.Defaults()
	cfg.Sources.Congress.BaseURL = u.server.URL + "/congress"
	cfg.Sources.Congress.APIKey = "integration-key"
	cfg.Sources.Congress.PageSize = 2
	cfg.Sources.GovTrack.BaseURL = u.server.URL + "/govtrack"
	cfg.Sources.GovTrack.PageSize = 2
	cfg.Sources.Web.Pages = []config.WebPageConfig{
		{Name: "Leadership", URL: u.server.URL + "/web/leadership", Overrides: map[string]string{"committee": "Leadership"}},
		{
			Name:       "Directory",
			URL:        u.server.URL + "/web/directory",
			Strategies: []config.StrategyConfig{{Kind: config.StrategyTable, Selector: "table.table"}},
		},
		{Name: "Committee", URL: u.server.URL + "/web/committee"},
	}
	cfg.RateLimit.PageIntervalMs = 0
	cfg.Retry.InitialDelayMs = 1
	cfg.Output.Dir = t.TempDir()

	return &cfg
}

type sleepCounter struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

func (s *sleepCounter) sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sleeps = append(s.sleeps, d)

	return nil
}

func (s *sleepCounter) count(d time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0

	for _, got := range s.sleeps {
		if got == d {
			n++
		}
	}

	return n
}

func buildSources(t *testing.T, cfg *config.Config, sleeps *sleepCounter) []crawler.Source {
	t.Helper()

	client := crawler.NewClient(cfg, logger.Discard(), crawler.WithSleep(sleeps.sleep))

	sources, err := client.BuildSources(cfg)
	if err != nil {
		t.Fatalf("BuildSources failed: %v", err)
	}

	return sources
}
