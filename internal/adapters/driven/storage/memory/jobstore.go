package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/scholardocs/internal/core/domain"
	"github.com/custodia-labs/scholardocs/internal/core/ports/driven"
)

// Ensure JobStore implements the interface.
var _ driven.JobStore = (*JobStore)(nil)

// JobStore is an in-memory implementation of driven.JobStore.
type JobStore struct {
	mu      sync.RWMutex
	records []domain.JobRecord
}

// NewJobStore creates a new in-memory job store.
func NewJobStore() *JobStore {
	return &JobStore{}
}

// Record appends a finished job.
func (s *JobStore) Record(_ context.Context, rec domain.JobRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// ListRecent returns up to limit records, newest first.
func (s *JobStore) ListRecent(_ context.Context, limit int) ([]domain.JobRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.records) {
		limit = len(s.records)
	}
	result := make([]domain.JobRecord, 0, limit)
	for i := len(s.records) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, s.records[i])
	}
	return result, nil
}
