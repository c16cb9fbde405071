package mcp

import (
	"github.com/custodia-labs/scholardocs/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Requirements evaluates document checklists.
	Requirements driving.RequirementService

	// Tools produces upload-ready PDFs. Optional.
	Tools driving.DocumentToolService

	// Wizard exposes the saved wizard session. Optional.
	Wizard driving.WizardService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Requirements == nil {
		return ErrMissingRequirementService
	}
	return nil
}
