package domain

// WizardStep is a position in the six-step wizard.
type WizardStep int

// Wizard steps in order.
const (
	StepStream WizardStep = iota + 1
	StepCourse
	StepCategory
	StepYear
	StepLogin
	StepChecklist
)

// IsValid returns true for steps 1 through 6.
func (s WizardStep) IsValid() bool {
	return s >= StepStream && s <= StepChecklist
}

// Description returns a human-readable step title.
func (s WizardStep) Description() string {
	switch s {
	case StepStream:
		return "Select Stream"
	case StepCourse:
		return "Select Course"
	case StepCategory:
		return "Select Category"
	case StepYear:
		return "Current Year"
	case StepLogin:
		return "Portal Login Check"
	case StepChecklist:
		return "Document Checklist"
	default:
		return unknownDescription
	}
}

// WizardState is the persisted wizard session.
type WizardState struct {
	Step      WizardStep     `json:"step"`
	Language  Language       `json:"language"`
	Selection SelectionState `json:"selection"`
}

// NewWizardState returns a fresh session at the first step.
func NewWizardState(lang Language) WizardState {
	if !lang.IsValid() {
		lang = LanguageEnglish
	}
	return WizardState{Step: StepStream, Language: lang}
}

// PortalRules returns the upload rules shown above the checklist.
func PortalRules() []string {
	return []string{
		"Upload PDF files only.",
		"Each file must be 230 KB or smaller.",
		"Name each file exactly as suggested, e.g. Aadhaar_Card.pdf.",
	}
}
