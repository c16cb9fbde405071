package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/scholardocs/internal/core/domain"
	"github.com/custodia-labs/scholardocs/internal/core/ports/driven"
	"github.com/custodia-labs/scholardocs/internal/core/ports/driving"
)

// Ensure WizardService implements the interface.
var _ driving.WizardService = (*WizardService)(nil)

// Login readiness items accepted by ToggleLogin.
const (
	LoginItemUsername = "username"
	LoginItemPassword = "password"
	LoginItemMobile   = "mobile"
)

// WizardService applies wizard actions to the persisted session.
// Dependent answers are cleared whenever an answer they rely on changes.
type WizardService struct {
	mu       sync.Mutex
	store    driven.StateStore
	language domain.Language
}

// NewWizardService creates a wizard service.
// defaultLanguage is used when no session has been saved yet.
func NewWizardService(store driven.StateStore, defaultLanguage domain.Language) *WizardService {
	return &WizardService{
		store:    store,
		language: defaultLanguage,
	}
}

// Current returns the persisted state, or a fresh one.
func (s *WizardService) Current(ctx context.Context) (*domain.WizardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// SelectStream sets the stream and clears everything that depends on it.
func (s *WizardService) SelectStream(ctx context.Context, stream domain.Stream) (*domain.WizardState, error) {
	return s.update(ctx, func(w *domain.WizardState) error {
		if !stream.IsValid() {
			return fmt.Errorf("%w: unknown stream %q", domain.ErrInvalidInput, stream)
		}
		w.Selection = domain.SelectionState{Stream: stream, Login: w.Selection.Login}
		return nil
	})
}

// SelectCourse sets the course and clears year and category.
func (s *WizardService) SelectCourse(ctx context.Context, course domain.CourseType) (*domain.WizardState, error) {
	return s.update(ctx, func(w *domain.WizardState) error {
		if !course.IsValid() {
			return fmt.Errorf("%w: unknown course %q", domain.ErrInvalidInput, course)
		}
		if course.Stream() != w.Selection.Stream {
			return fmt.Errorf("%w: %s is not offered in %s", domain.ErrInvalidTransition,
				course.Description(), w.Selection.Stream.Description())
		}
		w.Selection = domain.SelectionState{
			Stream: w.Selection.Stream,
			Course: course,
			Login:  w.Selection.Login,
		}
		return nil
	})
}

// SelectCategory sets the category and clears the hosteller flag.
func (s *WizardService) SelectCategory(ctx context.Context, category domain.Category) (*domain.WizardState, error) {
	return s.update(ctx, func(w *domain.WizardState) error {
		if !category.IsValid() {
			return fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, category)
		}
		if !w.Selection.Stream.IsValid() {
			return fmt.Errorf("%w: choose a stream first", domain.ErrInvalidTransition)
		}
		w.Selection.Category = category
		w.Selection.Hosteller = false
		return nil
	})
}

// SelectYear sets the current year and clears year-dependent answers.
func (s *WizardService) SelectYear(ctx context.Context, year int) (*domain.WizardState, error) {
	return s.update(ctx, func(w *domain.WizardState) error {
		if !w.Selection.Stream.IsValid() {
			return fmt.Errorf("%w: choose a stream first", domain.ErrInvalidTransition)
		}
		if w.Selection.Stream.HasCourseChoice() && w.Selection.Course == "" {
			return fmt.Errorf("%w: choose a course first", domain.ErrInvalidTransition)
		}
		if year < 1 || year > w.Selection.YearCap() {
			return fmt.Errorf("%w: year must be between 1 and %d", domain.ErrInvalidInput, w.Selection.YearCap())
		}
		w.Selection.CurrentYear = year
		if year != 1 {
			w.Selection.HadGap = false
		}
		w.Selection.DirectSecondYear = nil
		return nil
	})
}

// SetGap records whether the student had a gap year.
func (s *WizardService) SetGap(ctx context.Context, hadGap bool) (*domain.WizardState, error) {
	return s.update(ctx, func(w *domain.WizardState) error {
		if !w.Selection.IsFresh() {
			return fmt.Errorf("%w: gap year only applies to first-year applications", domain.ErrInvalidTransition)
		}
		w.Selection.HadGap = hadGap
		return nil
	})
}

// SetHosteller records whether the student lives in a hostel.
func (s *WizardService) SetHosteller(ctx context.Context, hosteller bool) (*domain.WizardState, error) {
	return s.update(ctx, func(w *domain.WizardState) error {
		if !w.Selection.HostelEligible() {
			return fmt.Errorf("%w: hostel allowance not available for this stream and category", domain.ErrInvalidTransition)
		}
		w.Selection.Hosteller = hosteller
		return nil
	})
}

// SetDirectSecondYear records lateral entry for B-Pharmacy year 2.
func (s *WizardService) SetDirectSecondYear(ctx context.Context, direct bool) (*domain.WizardState, error) {
	return s.update(ctx, func(w *domain.WizardState) error {
		if !w.Selection.DirectSecondYearApplicable() {
			return fmt.Errorf("%w: direct second year only applies to B-Pharmacy year 2", domain.ErrInvalidTransition)
		}
		w.Selection.DirectSecondYear = domain.BoolPtr(direct)
		return nil
	})
}

// ToggleLogin flips one login readiness item.
func (s *WizardService) ToggleLogin(ctx context.Context, item string) (*domain.WizardState, error) {
	return s.update(ctx, func(w *domain.WizardState) error {
		switch item {
		case LoginItemUsername:
			w.Selection.Login.Username = !w.Selection.Login.Username
		case LoginItemPassword:
			w.Selection.Login.Password = !w.Selection.Login.Password
		case LoginItemMobile:
			w.Selection.Login.Mobile = !w.Selection.Login.Mobile
		default:
			return fmt.Errorf("%w: unknown login item %q", domain.ErrInvalidInput, item)
		}
		return nil
	})
}

// SetLanguage changes the interface language.
func (s *WizardService) SetLanguage(ctx context.Context, lang domain.Language) (*domain.WizardState, error) {
	return s.update(ctx, func(w *domain.WizardState) error {
		if !lang.IsValid() {
			return fmt.Errorf("%w: unknown language %q", domain.ErrInvalidInput, lang)
		}
		w.Language = lang
		return nil
	})
}

// Next advances past the current step once it is answered.
func (s *WizardService) Next(ctx context.Context) (*domain.WizardState, error) {
	return s.update(ctx, func(w *domain.WizardState) error {
		next, err := nextStep(w)
		if err != nil {
			return err
		}
		w.Step = next
		return nil
	})
}

// Back returns to the previous step.
func (s *WizardService) Back(ctx context.Context) (*domain.WizardState, error) {
	return s.update(ctx, func(w *domain.WizardState) error {
		prev, err := previousStep(w)
		if err != nil {
			return err
		}
		w.Step = prev
		return nil
	})
}

// Restart clears every answer, keeping the language.
func (s *WizardService) Restart(ctx context.Context) (*domain.WizardState, error) {
	return s.update(ctx, func(w *domain.WizardState) error {
		*w = domain.NewWizardState(w.Language)
		return nil
	})
}

func nextStep(w *domain.WizardState) (domain.WizardStep, error) {
	sel := w.Selection
	switch w.Step {
	case domain.StepStream:
		if !sel.Stream.IsValid() {
			return 0, fmt.Errorf("%w: choose a stream", domain.ErrInvalidTransition)
		}
		if sel.Stream.HasCourseChoice() {
			return domain.StepCourse, nil
		}
		return domain.StepCategory, nil
	case domain.StepCourse:
		if sel.Course == "" {
			return 0, fmt.Errorf("%w: choose a course", domain.ErrInvalidTransition)
		}
		return domain.StepCategory, nil
	case domain.StepCategory:
		if !sel.Category.IsValid() {
			return 0, fmt.Errorf("%w: choose a category", domain.ErrInvalidTransition)
		}
		return domain.StepYear, nil
	case domain.StepYear:
		if sel.CurrentYear < 1 {
			return 0, fmt.Errorf("%w: choose the current year", domain.ErrInvalidTransition)
		}
		if sel.IsRenewal() {
			return domain.StepLogin, nil
		}
		return domain.StepChecklist, nil
	case domain.StepLogin:
		if !sel.Login.Ready() {
			return 0, fmt.Errorf("%w: confirm username, password and registered mobile first", domain.ErrInvalidTransition)
		}
		return domain.StepChecklist, nil
	default:
		return 0, fmt.Errorf("%w: already at the checklist", domain.ErrInvalidTransition)
	}
}

func previousStep(w *domain.WizardState) (domain.WizardStep, error) {
	switch w.Step {
	case domain.StepCourse:
		return domain.StepStream, nil
	case domain.StepCategory:
		if w.Selection.Stream.HasCourseChoice() {
			return domain.StepCourse, nil
		}
		return domain.StepStream, nil
	case domain.StepYear:
		return domain.StepCategory, nil
	case domain.StepLogin:
		return domain.StepYear, nil
	case domain.StepChecklist:
		if w.Selection.IsRenewal() {
			return domain.StepLogin, nil
		}
		return domain.StepYear, nil
	default:
		return 0, fmt.Errorf("%w: already at the first step", domain.ErrInvalidTransition)
	}
}

func (s *WizardService) update(
	ctx context.Context,
	fn func(w *domain.WizardState) error,
) (*domain.WizardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(state); err != nil {
		return nil, err
	}
	if err := state.Selection.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, *state); err != nil {
		return nil, fmt.Errorf("save wizard state: %w", err)
	}
	return state, nil
}

func (s *WizardService) load(ctx context.Context) (*domain.WizardState, error) {
	state, err := s.store.Load(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		fresh := domain.NewWizardState(s.language)
		return &fresh, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load wizard state: %w", err)
	}
	if !state.Step.IsValid() {
		state.Step = domain.StepStream
	}
	return state, nil
}
