package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/scholardocs/internal/core/domain"
	"github.com/custodia-labs/scholardocs/internal/core/ports/driven"
	"github.com/custodia-labs/scholardocs/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.JobHistoryService = (*HistoryService)(nil)

// DefaultHistoryLimit is used when the caller asks for a non-positive limit.
const DefaultHistoryLimit = 20

// HistoryService lists past document tool runs.
type HistoryService struct {
	store driven.JobStore
}

// NewHistoryService creates a history service.
func NewHistoryService(store driven.JobStore) *HistoryService {
	return &HistoryService{store: store}
}

// ListRecent returns up to limit records, newest first.
func (s *HistoryService) ListRecent(ctx context.Context, limit int) ([]domain.JobRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	records, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list job history: %w", err)
	}
	return records, nil
}
