// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/scholardocs/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewWizard walks the student through the selection steps.
	ViewWizard
	// ViewChecklist shows the document checklist for the saved answers.
	ViewChecklist
	// ViewTool runs merge, compress and image conversion.
	ViewTool
	// ViewHistory lists recent tool runs.
	ViewHistory
	// ViewSettings is the settings configuration view.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewWizard:
		return "wizard"
	case ViewChecklist:
		return "checklist"
	case ViewTool:
		return "tool"
	case ViewHistory:
		return "history"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// WizardUpdated carries the wizard state after a load or an action.
// Err is set when the action was rejected; State is then the last good state.
type WizardUpdated struct {
	State *domain.WizardState
	Err   error
}

// ChecklistLoaded carries the evaluated checklist for the saved answers.
type ChecklistLoaded struct {
	Selection domain.SelectionState
	Result    *domain.RequirementResult
	Err       error
}

// ToolProgress reports job progress in percent.
type ToolProgress struct {
	Percent int
}

// ToolFinished signals a tool job completed and its output is held.
type ToolFinished struct {
	Output *domain.ToolOutput
	Handle string
	Names  []string
	Err    error
}

// ToolSaved signals a held output was written to disk.
type ToolSaved struct {
	Path string
	Err  error
}

// HistoryLoaded carries recent tool runs.
type HistoryLoaded struct {
	Records []domain.JobRecord
	Err     error
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Err error
}
