package driven

import (
	"context"

	"github.com/custodia-labs/scholardocs/internal/core/domain"
)

// JobStore persists the document tool run history.
type JobStore interface {
	// Record appends a finished job.
	Record(ctx context.Context, rec domain.JobRecord) error

	// ListRecent returns up to limit records, newest first.
	ListRecent(ctx context.Context, limit int) ([]domain.JobRecord, error)
}
