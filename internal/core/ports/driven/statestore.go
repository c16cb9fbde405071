package driven

import (
	"context"

	"github.com/custodia-labs/scholardocs/internal/core/domain"
)

// StateStore persists the wizard session between runs.
type StateStore interface {
	// Load returns the saved state, or domain.ErrNotFound when none exists.
	Load(ctx context.Context) (*domain.WizardState, error)

	// Save replaces the saved state.
	Save(ctx context.Context, state domain.WizardState) error

	// Clear removes the saved state.
	Clear(ctx context.Context) error
}
