package tui

import "errors"

// ErrMissingWizardService is returned when the wizard service is not provided.
var ErrMissingWizardService = errors.New("tui: wizard service is required")

// ErrMissingRequirementService is returned when the requirement service is not provided.
var ErrMissingRequirementService = errors.New("tui: requirement service is required")

// ErrMissingToolService is returned when the document tool service is not provided.
var ErrMissingToolService = errors.New("tui: document tool service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
