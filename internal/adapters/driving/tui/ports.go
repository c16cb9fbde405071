// Package tui provides an interactive terminal user interface for scholardocs.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/scholardocs/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Requirements evaluates the document checklist.
	Requirements driving.RequirementService

	// Wizard drives the six-step question flow.
	Wizard driving.WizardService

	// Tools produces upload-ready PDFs.
	Tools driving.DocumentToolService

	// History lists past tool runs. Optional.
	History driving.JobHistoryService

	// Settings manages application settings. Optional.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the required services.
func NewPorts(
	requirements driving.RequirementService,
	wizard driving.WizardService,
	tools driving.DocumentToolService,
) *Ports {
	return &Ports{
		Requirements: requirements,
		Wizard:       wizard,
		Tools:        tools,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Wizard == nil {
		return ErrMissingWizardService
	}
	if p.Requirements == nil {
		return ErrMissingRequirementService
	}
	if p.Tools == nil {
		return ErrMissingToolService
	}
	return nil
}
