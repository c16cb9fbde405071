package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/scholardocs/internal/core/domain"
	"github.com/custodia-labs/scholardocs/internal/core/ports/driven"
)

// Ensure StateStore implements the interface.
var _ driven.StateStore = (*StateStore)(nil)

// StateStore is an in-memory implementation of driven.StateStore.
type StateStore struct {
	mu    sync.RWMutex
	state *domain.WizardState
}

// NewStateStore creates a new in-memory state store.
func NewStateStore() *StateStore {
	return &StateStore{}
}

// Load returns the saved state.
func (s *StateStore) Load(_ context.Context) (*domain.WizardState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return nil, domain.ErrNotFound
	}
	state := copyWizardState(*s.state)
	return &state, nil
}

// Save replaces the saved state.
func (s *StateStore) Save(_ context.Context, state domain.WizardState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := copyWizardState(state)
	s.state = &saved
	return nil
}

// Clear removes the saved state.
func (s *StateStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = nil
	return nil
}

// copyWizardState detaches the tri-state pointer from the caller's copy.
func copyWizardState(state domain.WizardState) domain.WizardState {
	if state.Selection.DirectSecondYear != nil {
		state.Selection.DirectSecondYear = domain.BoolPtr(*state.Selection.DirectSecondYear)
	}
	return state
}
