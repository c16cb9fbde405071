package driving

import "github.com/custodia-labs/scholardocs/internal/core/domain"

// RequirementService computes the document checklist for a selection.
type RequirementService interface {
	// Evaluate returns the ordered checklist for a complete selection.
	// Returns domain.ErrIncompleteSelection when stream, course, category
	// or year is missing, and domain.ErrInvalidSelection on contradictions.
	// The returned result is owned by the caller.
	Evaluate(state domain.SelectionState) (*domain.RequirementResult, error)
}
