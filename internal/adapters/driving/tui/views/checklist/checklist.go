// Package checklist provides the document checklist view for the TUI.
package checklist

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scholardocs/internal/core/domain"
	"github.com/custodia-labs/scholardocs/internal/core/ports/driving"
)

// View shows the documents required for the saved wizard answers.
type View struct {
	styles       *styles.Styles
	wizard       driving.WizardService
	requirements driving.RequirementService
	ctx          context.Context

	selection domain.SelectionState
	result    *domain.RequirementResult
	err       error

	lines  []string
	offset int
	keys   *keymap.KeyMap
	bar    *status.Bar

	width  int
	height int
	ready  bool
}

// NewView creates a new checklist view.
func NewView(s *styles.Styles, wizard driving.WizardService, requirements driving.RequirementService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	keys := keymap.DefaultKeyMap()

	return &View{
		styles:       s,
		wizard:       wizard,
		requirements: requirements,
		ctx:          context.Background(),
		keys:         keys,
		bar:          status.NewBar(s, keys, status.ModeChecklist),
		width:        80,
		height:       24,
	}
}

// WithContext sets the context passed to the services.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init evaluates the checklist for the saved answers.
func (v *View) Init() tea.Cmd {
	v.offset = 0
	return v.load()
}

func (v *View) load() tea.Cmd {
	ctx := v.ctx
	wizard := v.wizard
	requirements := v.requirements
	return func() tea.Msg {
		if wizard == nil || requirements == nil {
			return messages.ChecklistLoaded{Err: fmt.Errorf("requirement service not available")}
		}
		state, err := wizard.Current(ctx)
		if err != nil {
			return messages.ChecklistLoaded{Err: err}
		}
		if !state.Selection.Complete() {
			return messages.ChecklistLoaded{
				Selection: state.Selection,
				Err:       fmt.Errorf("%w: finish the wizard first", domain.ErrIncompleteSelection),
			}
		}
		result, err := requirements.Evaluate(state.Selection)
		return messages.ChecklistLoaded{Selection: state.Selection, Result: result, Err: err}
	}
}

// Update handles messages for the checklist view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.ChecklistLoaded:
		v.selection = msg.Selection
		v.result = msg.Result
		v.err = msg.Err
		v.offset = 0
		v.lines = v.render()
		if v.result != nil {
			v.bar.SetItemCount(countDocuments(v.result))
		} else {
			v.bar.SetItemCount(0)
		}
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back, v.keys.Quit):
		return v, changeView(messages.ViewMenu)
	case key.Matches(msg, v.keys.Up):
		v.offset = max(v.offset-1, 0)
	case key.Matches(msg, v.keys.Down):
		v.offset = min(v.offset+1, v.maxOffset())
	case key.Matches(msg, v.keys.PageDown):
		v.offset = min(v.offset+v.pageSize(), v.maxOffset())
	case key.Matches(msg, v.keys.PageUp):
		v.offset = max(v.offset-v.pageSize(), 0)
	case key.Matches(msg, v.keys.Tools):
		return v, changeView(messages.ViewTool)
	case key.Matches(msg, v.keys.Answers, v.keys.Select):
		return v, changeView(messages.ViewWizard)
	case key.Matches(msg, v.keys.Restart):
		if v.wizard == nil {
			return v, nil
		}
		ctx := v.ctx
		wizard := v.wizard
		return v, func() tea.Msg {
			if _, err := wizard.Restart(ctx); err != nil {
				return messages.ErrorOccurred{Err: err}
			}
			return messages.ViewChanged{View: messages.ViewWizard}
		}
	}
	return v, nil
}

// render builds the full checklist as lines so it can scroll.
func (v *View) render() []string {
	if v.err != nil {
		return []string{
			v.styles.Error.Render(v.err.Error()),
			"",
			v.styles.Muted.Render("Press enter to open the wizard."),
		}
	}
	if v.result == nil {
		return nil
	}

	var lines []string
	lines = append(lines, v.styles.Pills(v.selection.Pills()), "")

	lines = append(lines, v.styles.Subtitle.Render("Portal rules"))
	for _, rule := range domain.PortalRules() {
		lines = append(lines, "  • "+rule)
	}
	lines = append(lines, "")

	lines = v.group(lines, "Academic Documents", v.result.Academic)
	lines = v.group(lines, "Government Documents", v.result.Government)
	if len(v.result.Hostel) > 0 {
		lines = v.group(lines, "Hostel Documents", v.result.Hostel)
	}
	if v.result.HasChoiceGroup() {
		lines = v.group(lines, "Upload any one of", v.result.ChoiceGroup)
	}

	if len(v.result.Declarations) > 0 {
		lines = append(lines, v.styles.Subtitle.Render("Declarations"))
		for _, f := range v.result.Declarations {
			lines = append(lines, "  [ ] "+v.styles.Normal.Render(f.Title))
			if f.Instruction != "" {
				lines = append(lines, "      "+v.styles.Muted.Render(f.Instruction))
			}
			lines = append(lines, "      File: "+f.SuggestedFileName)
			if f.DownloadURL != "" {
				lines = append(lines, "      Download: "+v.styles.Muted.Render(f.DownloadURL))
			}
		}
		lines = append(lines, "")
	}

	return lines
}

func (v *View) group(lines []string, title string, docs []domain.DocumentRequirement) []string {
	if len(docs) == 0 {
		return lines
	}
	lines = append(lines, v.styles.Subtitle.Render(title))
	for _, d := range docs {
		line := "  [ ] " + v.styles.Normal.Render(d.Name)
		if badge := v.styles.Badge(d.Badge); badge != "" {
			line += " " + badge
		}
		lines = append(lines, line)
		if d.FileNameHint != "" {
			lines = append(lines, "      File: "+v.styles.Muted.Render(d.FileNameHint))
		}
	}
	return append(lines, "")
}

// View renders the checklist.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Your Document Checklist"))
	b.WriteString("\n\n")

	if v.lines == nil {
		b.WriteString(v.styles.Muted.Render("Loading..."))
		b.WriteString("\n")
	}

	end := v.offset + v.pageSize()
	if end > len(v.lines) {
		end = len(v.lines)
	}
	for _, line := range v.lines[v.offset:end] {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if end < len(v.lines) {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  ... %d more lines", len(v.lines)-end)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.bar.View())
	return b.String()
}

func (v *View) pageSize() int {
	size := v.height - 6
	if size < 5 {
		size = 5
	}
	return size
}

func (v *View) maxOffset() int {
	m := len(v.lines) - v.pageSize()
	if m < 0 {
		return 0
	}
	return m
}

func countDocuments(r *domain.RequirementResult) int {
	n := len(r.Academic) + len(r.Government) + len(r.Hostel) + len(r.Declarations)
	if r.HasChoiceGroup() {
		n++
	}
	return n
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
	if v.offset > v.maxOffset() {
		v.offset = v.maxOffset()
	}
}

// Result returns the loaded checklist.
func (v *View) Result() *domain.RequirementResult {
	return v.result
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
