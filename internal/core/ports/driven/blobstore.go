package driven

import (
	"time"

	"github.com/custodia-labs/scholardocs/internal/core/domain"
)

// BlobStore holds produced files in memory until they are downloaded.
type BlobStore interface {
	// Put stores an output and returns an opaque handle.
	Put(output *domain.ToolOutput) (string, error)

	// Get returns a held output, or domain.ErrBlobReleased once released.
	Get(handle string) (*domain.ToolOutput, error)

	// Release drops an output after the grace period. A zero grace releases now.
	Release(handle string, grace time.Duration) error
}
