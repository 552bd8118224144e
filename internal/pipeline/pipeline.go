// Package pipeline runs sources, normalization and deduplication in order.
package pipeline

import (
	"context"

	"housemembers/internal/crawler"
	"housemembers/internal/dedupe"
	"housemembers/internal/logger"
	"housemembers/internal/models"
	"housemembers/internal/normalizer"
)

// Options tunes a run.
type Options struct {
	// NearDuplicateThreshold enables the near-duplicate diagnostic when > 0.
	NearDuplicateThreshold float64
	Logger                 *logger.Logger
}

// SourceResult is what one source contributed.
type SourceResult struct {
	Name       string
	Collected  int
	Normalized int
}

// Result holds every stage's output. All slices are owned by the result.
type Result struct {
	Collected  []models.RawCandidate
	Normalized []models.Member
	Unique     []models.Member
	PerSource  []SourceResult
	Near       []dedupe.Pair
}

// Run fetches every source in order, normalizes each candidate, then
// deduplicates the whole list once. Sources never fail the run.
func Run(ctx context.Context, sources []crawler.Source, opts Options) Result {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	processor := normalizer.NewProcessorWithLogger(log)

	var res Result

	for _, src := range sources {
		if ctx.Err() != nil {
			log.Warn("run cancelled, skipping remaining sources", "next", src.Name())

			break
		}

		candidates := src.Fetch(ctx)
		members := processor.NormalizeAll(candidates)

		res.Collected = append(res.Collected, candidates...)
		res.Normalized = append(res.Normalized, members...)
		res.PerSource = append(res.PerSource, SourceResult{
			Name:       src.Name(),
			Collected:  len(candidates),
			Normalized: len(members),
		})

		log.Info("source done", "source", src.Name(), "collected", len(candidates), "normalized", len(members))
	}

	unique := dedupe.Dedupe(res.Normalized)

	res.Unique = make([]models.Member, len(unique))
	for i, m := range unique {
		res.Unique[i] = m.Clone()
	}

	log.Info("deduplicated",
		"normalized", len(res.Normalized),
		"unique", len(res.Unique),
		"dropped", len(res.Normalized)-len(res.Unique))

	if opts.NearDuplicateThreshold > 0 {
		res.Near = dedupe.NearDuplicates(res.Unique, opts.NearDuplicateThreshold)

		for _, p := range res.Near {
			log.Warn("possible duplicate member",
				"left", p.Left.Name, "left_source", p.Left.Source,
				"right", p.Right.Name, "right_source", p.Right.Source,
				"similarity", p.Similarity)
		}
	}

	return res
}
