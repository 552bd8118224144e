package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housemembers/internal/crawler"
	"housemembers/internal/models"
)

type stubSource struct {
	name       string
	candidates []models.RawCandidate
	calls      int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(context.Context) []models.RawCandidate {
	s.calls++

	return s.candidates
}

func web(name, label string) models.RawCandidate {
	return models.WebFragment{Name: name, Party: "Democrat", State: "CA", Label: label}
}

func TestRun(t *testing.T) {
	first := &stubSource{name: "first", candidates: []models.RawCandidate{
		web("Jane Doe", "first"),
		web("John Roe", "first"),
		web("", "first"),
	}}
	broken := &stubSource{name: "broken"}
	second := &stubSource{name: "second", candidates: []models.RawCandidate{
		web("Rep. Jane Doe", "second"),
		web("Ann Lee", "second"),
	}}

	res := Run(context.Background(), []crawler.Source{first, broken, second}, Options{})

	assert.Len(t, res.Collected, 5)
	assert.Len(t, res.Normalized, 4)
	require.Len(t, res.Unique, 3)

	assert.Equal(t, "Jane Doe", res.Unique[0].Name)
	assert.Equal(t, "first", res.Unique[0].Source, "first source wins")
	assert.Equal(t, "Ann Lee", res.Unique[2].Name)

	assert.Equal(t, []SourceResult{
		{Name: "first", Collected: 3, Normalized: 2},
		{Name: "broken", Collected: 0, Normalized: 0},
		{Name: "second", Collected: 2, Normalized: 2},
	}, res.PerSource)

	for _, s := range []*stubSource{first, broken, second} {
		assert.Equal(t, 1, s.calls)
	}
}

func TestRun_UniqueDoesNotShareState(t *testing.T) {
	src := &stubSource{name: "s", candidates: []models.RawCandidate{
		models.WebFragment{Name: "Jane Doe", PageURL: "https://example.com", Label: "s"},
	}}

	res := Run(context.Background(), []crawler.Source{src}, Options{})
	require.Len(t, res.Unique, 1)

	res.Unique[0].Extra["scraped_from"] = "changed"
	assert.Equal(t, "https://example.com", res.Normalized[0].Extra["scraped_from"])
}

func TestRun_NearDuplicates(t *testing.T) {
	src := &stubSource{name: "s", candidates: []models.RawCandidate{
		web("Jon Smith", "a"),
		web("John Smith", "b"),
	}}

	res := Run(context.Background(), []crawler.Source{src}, Options{NearDuplicateThreshold: 0.9})

	assert.Len(t, res.Unique, 2, "near duplicates are reported, not removed")
	require.Len(t, res.Near, 1)

	res = Run(context.Background(), []crawler.Source{src}, Options{})
	assert.Empty(t, res.Near)
}

func TestRun_CancelledContext(t *testing.T) {
	src := &stubSource{name: "s", candidates: []models.RawCandidate{web("Jane Doe", "s")}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := Run(ctx, []crawler.Source{src}, Options{})
	assert.Empty(t, res.Unique)
	assert.Zero(t, src.calls)
}

func TestRun_NoSources(t *testing.T) {
	res := Run(context.Background(), nil, Options{})
	assert.Empty(t, res.Collected)
	assert.Empty(t, res.Unique)
}
