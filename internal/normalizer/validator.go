package normalizer

import (
	"errors"

	"housemembers/internal/models"
)

// Validation errors.
var (
	ErrEmptyName     = errors.New("member name is empty after cleaning")
	ErrInvalidParty  = errors.New("party is not a canonical value")
	ErrInvalidState  = errors.New("state is neither a postal code nor Unknown")
	ErrMissingSource = errors.New("member has no source")
)

// Validator checks that a canonicalized member can be kept.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks if a canonical member meets requirements.
func (v *Validator) Validate(m models.Member) error {
	if m.Name == "" {
		return ErrEmptyName
	}

	switch m.Party {
	case models.PartyRepublican, models.PartyDemocrat, models.PartyIndependent, models.PartyUnknown:
	default:
		return ErrInvalidParty
	}

	if _, ok := stateNames[m.State]; !ok && m.State != models.Unknown {
		return ErrInvalidState
	}

	if m.Source == "" {
		return ErrMissingSource
	}

	return nil
}
