package driving

import (
	"context"

	"github.com/custodia-labs/scholardocs/internal/core/domain"
)

// WizardService is the state-transition layer of the six-step wizard.
// Every mutating call persists the resulting state.
type WizardService interface {
	// Current returns the persisted state, or a fresh one when none exists.
	Current(ctx context.Context) (*domain.WizardState, error)

	// SelectStream sets the stream and clears course, year and category.
	SelectStream(ctx context.Context, stream domain.Stream) (*domain.WizardState, error)

	// SelectCourse sets the course and clears year and category.
	SelectCourse(ctx context.Context, course domain.CourseType) (*domain.WizardState, error)

	// SelectCategory sets the category and clears the hosteller flag.
	SelectCategory(ctx context.Context, category domain.Category) (*domain.WizardState, error)

	// SelectYear sets the current year within the course's cap.
	SelectYear(ctx context.Context, year int) (*domain.WizardState, error)

	// SetGap records a gap year. Only meaningful for fresh applications.
	SetGap(ctx context.Context, hadGap bool) (*domain.WizardState, error)

	// SetHosteller records hostel residence. Only allowed when hostel-eligible.
	SetHosteller(ctx context.Context, hosteller bool) (*domain.WizardState, error)

	// SetDirectSecondYear records lateral entry. Only allowed for B-Pharmacy year 2.
	SetDirectSecondYear(ctx context.Context, direct bool) (*domain.WizardState, error)

	// ToggleLogin flips one login readiness item ("username", "password" or "mobile").
	ToggleLogin(ctx context.Context, item string) (*domain.WizardState, error)

	// SetLanguage changes the interface language.
	SetLanguage(ctx context.Context, lang domain.Language) (*domain.WizardState, error)

	// Next advances to the following step if the current one is answered.
	Next(ctx context.Context) (*domain.WizardState, error)

	// Back returns to the previous step.
	Back(ctx context.Context) (*domain.WizardState, error)

	// Restart clears every answer and returns to the first step, keeping the language.
	Restart(ctx context.Context) (*domain.WizardState, error)
}
