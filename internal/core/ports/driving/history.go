package driving

import (
	"context"

	"github.com/custodia-labs/scholardocs/internal/core/domain"
)

// JobHistoryService exposes past document tool runs.
type JobHistoryService interface {
	// ListRecent returns up to limit records, newest first.
	ListRecent(ctx context.Context, limit int) ([]domain.JobRecord, error)
}
