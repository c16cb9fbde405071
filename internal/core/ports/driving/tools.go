package driving

import (
	"context"

	"github.com/custodia-labs/scholardocs/internal/core/domain"
)

// DocumentToolService produces upload-ready PDFs.
type DocumentToolService interface {
	// Run executes one job. Jobs are serialised: a second caller waits
	// until the running job finishes or ctx is done. Once started, a job
	// runs to completion. Failures are *domain.ToolError values.
	Run(ctx context.Context, job domain.ToolJob, onProgress domain.ProgressFunc) (*domain.ToolOutput, error)

	// SuggestedNames returns canonical file names for an operation,
	// drawn from the checklist of the given selection when it is complete.
	SuggestedNames(op domain.ToolOperation, state domain.SelectionState) []string

	// Hold keeps an output in memory and returns an opaque handle for it.
	Hold(output *domain.ToolOutput) (string, error)

	// Download writes a held output to dir under name and schedules its release.
	// An empty name uses the output's suggested name. Returns the written path.
	Download(handle, dir, name string) (string, error)

	// Discard releases a held output immediately.
	Discard(handle string) error

	// Limits returns the effective input and output ceilings.
	Limits() domain.ToolSettings
}
