// Package normalizer maps raw candidates from every source onto the
// canonical member record.
package normalizer

import (
	"housemembers/internal/logger"
	"housemembers/internal/models"
)

// Processor runs transform, canonicalize and validate for each candidate.
type Processor struct {
	validator   *Validator
	transformer *Transformer
	log         *logger.Logger
}

// NewProcessor creates a new processor instance.
func NewProcessor() *Processor {
	return NewProcessorWithLogger(logger.Discard())
}

// NewProcessorWithLogger creates a processor that logs dropped candidates at debug level.
func NewProcessorWithLogger(log *logger.Logger) *Processor {
	return &Processor{
		validator:   NewValidator(),
		transformer: NewTransformer(),
		log:         log,
	}
}

// Normalize maps raw into a canonical member. The bool is false when the
// candidate is dropped, which happens only when no usable name remains.
func (p *Processor) Normalize(raw models.RawCandidate) (models.Member, bool) {
	m, err := p.transformer.Transform(raw)
	if err != nil {
		p.log.Debug("dropping candidate", "error", err)

		return models.Member{}, false
	}

	m = Canonicalize(m)

	if err := p.validator.Validate(m); err != nil {
		p.log.Debug("dropping candidate", "source", m.Source, "error", err)

		return models.Member{}, false
	}

	return m, true
}

// NormalizeAll normalizes every candidate, preserving order and skipping drops.
func (p *Processor) NormalizeAll(raws []models.RawCandidate) []models.Member {
	members := make([]models.Member, 0, len(raws))

	for _, raw := range raws {
		if m, ok := p.Normalize(raw); ok {
			members = append(members, m)
		}
	}

	return members
}

var defaultProcessor = NewProcessor()

// Normalize maps raw with a processor that does not log.
func Normalize(raw models.RawCandidate) (models.Member, bool) {
	return defaultProcessor.Normalize(raw)
}
