// Package wizard provides the step-by-step selection view for the TUI.
package wizard

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scholardocs/internal/core/domain"
	"github.com/custodia-labs/scholardocs/internal/core/ports/driving"
	"github.com/custodia-labs/scholardocs/internal/core/services"
)

// actionKind is what choosing a row does.
type actionKind int

const (
	actStream actionKind = iota
	actCourse
	actCategory
	actYear
	actGap
	actHostel
	actDirect
	actLogin
	actContinue
	actShowChecklist
	actBack
	actRestart
)

type action struct {
	kind  actionKind
	value string
	year  int
}

// View walks the student through stream, course, category, year and the
// portal login check. Every answer is saved by the wizard service as soon as
// it is given, so leaving and coming back resumes where the student stopped.
type View struct {
	styles *styles.Styles
	wizard driving.WizardService
	ctx    context.Context

	state   *domain.WizardState
	err     error
	loading bool

	// advancing is set while a pick-and-advance command is in flight so the
	// view jumps to the checklist when the last step is answered.
	advancing bool

	list    *list.OptionList
	actions []action
	keys    *keymap.KeyMap
	bar     *status.Bar

	width  int
	height int
	ready  bool
}

// NewView creates a new wizard view.
func NewView(s *styles.Styles, wizard driving.WizardService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	keys := keymap.DefaultKeyMap()

	return &View{
		styles: s,
		wizard: wizard,
		ctx:    context.Background(),
		list:   list.NewOptionList(s),
		keys:   keys,
		bar:    status.NewBar(s, keys, status.ModeWizard),
		width:  80,
		height: 24,
	}
}

// WithContext sets the context passed to the wizard service.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the saved wizard state.
func (v *View) Init() tea.Cmd {
	if v.wizard == nil {
		return func() tea.Msg {
			return messages.WizardUpdated{Err: fmt.Errorf("wizard service not available")}
		}
	}
	v.loading = true
	return v.run(false, v.wizard.Current)
}

// Reset clears transient view state before the view is shown again.
func (v *View) Reset() {
	v.err = nil
	v.advancing = false
}

// run calls fn and, when advance is set, moves to the next step afterwards.
func (v *View) run(advance bool, fn func(ctx context.Context) (*domain.WizardState, error)) tea.Cmd {
	ctx := v.ctx
	wizard := v.wizard
	return func() tea.Msg {
		state, err := fn(ctx)
		if err != nil || !advance {
			return messages.WizardUpdated{State: state, Err: err}
		}
		next, err := wizard.Next(ctx)
		if err != nil {
			return messages.WizardUpdated{State: state, Err: err}
		}
		return messages.WizardUpdated{State: next}
	}
}

// Update handles messages for the wizard view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.WizardUpdated:
		return v.handleUpdated(msg)

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *View) handleUpdated(msg messages.WizardUpdated) (*View, tea.Cmd) {
	v.loading = false
	advancing := v.advancing
	v.advancing = false

	if msg.State != nil {
		prevStep := domain.WizardStep(0)
		if v.state != nil {
			prevStep = v.state.Step
		}
		v.state = msg.State
		v.rebuild(prevStep != v.state.Step)
	}
	v.err = msg.Err
	v.bar.SetError(msg.Err)
	if msg.Err != nil {
		return v, nil
	}

	if advancing && v.state != nil && v.state.Step == domain.StepChecklist {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewChecklist}
		}
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.state == nil {
		if key.Matches(msg, v.keys.Back) {
			return v, changeView(messages.ViewMenu)
		}
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.Back):
		if v.state.Step == domain.StepStream {
			return v, changeView(messages.ViewMenu)
		}
		return v, v.run(false, v.wizard.Back)

	case key.Matches(msg, v.keys.Language):
		next := nextLanguage(v.state.Language)
		return v, v.run(false, func(ctx context.Context) (*domain.WizardState, error) {
			return v.wizard.SetLanguage(ctx, next)
		})

	case key.Matches(msg, v.keys.Restart):
		return v, v.run(false, v.wizard.Restart)

	case key.Matches(msg, v.keys.Select):
		return v, v.choose(true)

	case key.Matches(msg, v.keys.Toggle):
		return v, v.choose(false)
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

// choose applies the row under the cursor. Space only toggles; it never
// advances to the next step.
func (v *View) choose(enter bool) tea.Cmd {
	idx := v.list.Selected()
	if idx < 0 || idx >= len(v.actions) {
		return nil
	}
	act := v.actions[idx]
	sel := v.state.Selection
	w := v.wizard

	switch act.kind {
	case actStream, actCourse, actCategory:
		if !enter {
			return nil
		}
		v.advancing = true
		return v.run(true, func(ctx context.Context) (*domain.WizardState, error) {
			switch act.kind {
			case actStream:
				return w.SelectStream(ctx, domain.Stream(act.value))
			case actCourse:
				return w.SelectCourse(ctx, domain.CourseType(act.value))
			default:
				return w.SelectCategory(ctx, domain.Category(act.value))
			}
		})

	case actYear:
		if sel.CurrentYear == act.year {
			return nil
		}
		return v.run(false, func(ctx context.Context) (*domain.WizardState, error) {
			return w.SelectYear(ctx, act.year)
		})

	case actGap:
		return v.run(false, func(ctx context.Context) (*domain.WizardState, error) {
			return w.SetGap(ctx, !sel.HadGap)
		})

	case actHostel:
		return v.run(false, func(ctx context.Context) (*domain.WizardState, error) {
			return w.SetHosteller(ctx, !sel.Hosteller)
		})

	case actDirect:
		return v.run(false, func(ctx context.Context) (*domain.WizardState, error) {
			return w.SetDirectSecondYear(ctx, !sel.IsDirectSecondYear())
		})

	case actLogin:
		return v.run(false, func(ctx context.Context) (*domain.WizardState, error) {
			return w.ToggleLogin(ctx, act.value)
		})

	case actContinue:
		if !enter {
			return nil
		}
		v.advancing = true
		return v.run(false, w.Next)

	case actShowChecklist:
		if !enter {
			return nil
		}
		return changeView(messages.ViewChecklist)

	case actBack:
		if !enter {
			return nil
		}
		return v.run(false, w.Back)

	case actRestart:
		if !enter {
			return nil
		}
		return v.run(false, w.Restart)
	}
	return nil
}

// rebuild regenerates the rows for the current step.
// The cursor moves to the current answer when the step changed.
func (v *View) rebuild(stepChanged bool) {
	sel := v.state.Selection
	var opts []list.Option
	var acts []action
	current := -1
	add := func(opt list.Option, act action, isCurrent bool) {
		if isCurrent {
			current = len(opts)
		}
		opts = append(opts, opt)
		acts = append(acts, act)
	}

	checkable := false
	switch v.state.Step {
	case domain.StepStream:
		for _, s := range domain.AllStreams() {
			add(list.Option{Label: s.Description()}, action{kind: actStream, value: string(s)}, s == sel.Stream)
		}

	case domain.StepCourse:
		for _, c := range sel.Stream.Courses() {
			add(list.Option{Label: c.Description()}, action{kind: actCourse, value: string(c)}, c == sel.Course)
		}

	case domain.StepCategory:
		for _, c := range domain.AllCategories() {
			add(list.Option{Label: c.Description()}, action{kind: actCategory, value: string(c)}, c == sel.Category)
		}

	case domain.StepYear:
		checkable = true
		for y := 1; y <= sel.YearCap(); y++ {
			hint := "renewal"
			if y == 1 {
				hint = "fresh application"
			}
			add(list.Option{Label: fmt.Sprintf("Year %d", y), Hint: hint, Checked: y == sel.CurrentYear},
				action{kind: actYear, year: y}, y == sel.CurrentYear)
		}
		if sel.IsFresh() {
			add(list.Option{Label: "I had a gap after my last qualification", Checked: sel.HadGap},
				action{kind: actGap}, false)
		}
		if sel.HostelEligible() {
			add(list.Option{Label: "I live in a hostel", Checked: sel.Hosteller}, action{kind: actHostel}, false)
		}
		if sel.DirectSecondYearApplicable() {
			add(list.Option{Label: "I was admitted directly to the second year", Checked: sel.IsDirectSecondYear()},
				action{kind: actDirect}, false)
		}
		if sel.CurrentYear > 0 {
			add(list.Option{Label: "Continue"}, action{kind: actContinue}, false)
		}

	case domain.StepLogin:
		checkable = true
		login := sel.Login
		add(list.Option{Label: "I know my portal username", Checked: login.Username},
			action{kind: actLogin, value: services.LoginItemUsername}, false)
		add(list.Option{Label: "I know my portal password", Checked: login.Password},
			action{kind: actLogin, value: services.LoginItemPassword}, false)
		add(list.Option{Label: "My registered mobile number is active", Checked: login.Mobile},
			action{kind: actLogin, value: services.LoginItemMobile}, false)
		add(list.Option{Label: "Continue"}, action{kind: actContinue}, false)

	case domain.StepChecklist:
		add(list.Option{Label: "Show my checklist"}, action{kind: actShowChecklist}, false)
		add(list.Option{Label: "Change my answers"}, action{kind: actBack}, false)
		add(list.Option{Label: "Start over"}, action{kind: actRestart}, false)
	}

	v.list.SetCheckable(checkable)
	v.list.SetOptions(opts)
	v.actions = acts
	if stepChanged {
		if current < 0 {
			current = 0
		}
		v.list.Select(current)
	}
}

// View renders the wizard.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Document Wizard"))
	b.WriteString("\n\n")

	if v.state == nil {
		if v.loading {
			b.WriteString(v.styles.Muted.Render("Loading saved answers..."))
		} else if v.err != nil {
			b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		}
		b.WriteString("\n")
		return b.String()
	}

	step := v.state.Step
	b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("Step %d of %d: %s",
		int(step), int(domain.StepChecklist), step.Description())))
	b.WriteString("  ")
	b.WriteString(v.styles.Muted.Render("Language: " + v.state.Language.Description()))
	b.WriteString("\n\n")

	if v.state.Selection.Complete() {
		b.WriteString(v.styles.Pills(v.state.Selection.Pills()))
		b.WriteString("\n\n")
	}

	b.WriteString(v.styles.Normal.Render(question(v.state)))
	b.WriteString("\n\n")
	b.WriteString(v.list.View())

	if step == domain.StepLogin && !v.state.Selection.Login.Ready() {
		b.WriteString("\n")
		b.WriteString(v.styles.Warning.Render(loginGuidance))
		b.WriteString("\n")
	}

	if v.err != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render(v.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.bar.View())
	return b.String()
}

const loginGuidance = "Recover your username or password from the portal's forgot-password page, " +
	"and update your mobile number at the college scholarship desk, before you continue."

func question(state *domain.WizardState) string {
	switch state.Step {
	case domain.StepStream:
		return "Which stream are you studying in?"
	case domain.StepCourse:
		return "Which " + state.Selection.Stream.Description() + " course are you in?"
	case domain.StepCategory:
		return "Which category are you applying under?"
	case domain.StepYear:
		return "Which year are you in now? Tick anything else that applies."
	case domain.StepLogin:
		return "Before renewing, make sure you can log in to the scholarship portal."
	case domain.StepChecklist:
		return "Your answers are complete."
	default:
		return ""
	}
}

func nextLanguage(current domain.Language) domain.Language {
	langs := domain.AllLanguages()
	for i, l := range langs {
		if l == current {
			return langs[(i+1)%len(langs)]
		}
	}
	return langs[0]
}

func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg {
		return messages.ViewChanged{View: view}
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.bar.SetWidth(width)
	rows := height - 14
	if rows < 3 {
		rows = 3
	}
	v.list.SetDimensions(width, rows)
}

// State returns the last loaded wizard state.
func (v *View) State() *domain.WizardState {
	return v.state
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
