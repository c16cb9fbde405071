package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/views/checklist"
	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/views/history"
	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/views/tool"
	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/views/wizard"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	menuView      *menu.View
	wizardView    *wizard.View
	checklistView *checklist.View
	toolView      *tool.View
	historyView   *history.View
	settingsView  *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		menuView:      menu.NewView(s),
		wizardView:    wizard.NewView(s, ports.Wizard),
		checklistView: checklist.NewView(s, ports.Wizard, ports.Requirements),
		toolView:      tool.NewView(s, ports.Tools, ports.Wizard),
		historyView:   history.NewView(s, ports.History),
		settingsView:  settings.NewView(s, ports.Settings),
		currentView:   messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.wizardView.WithContext(ctx)
	a.checklistView.WithContext(ctx)
	a.toolView.WithContext(ctx)
	a.historyView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("scholardocs - Scholarship Renewal Documents"),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message router
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.routeKey(msg)

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.WizardUpdated:
		a.wizardView, cmd = a.wizardView.Update(msg)
		return a, cmd

	case messages.ChecklistLoaded:
		a.checklistView, cmd = a.checklistView.Update(msg)
		return a, cmd

	// Tool events keep flowing while another view is shown so the
	// background job's channel is always drained.
	case messages.ToolProgress, messages.ToolFinished, messages.ToolSaved:
		a.toolView, cmd = a.toolView.Update(msg)
		return a, cmd

	case messages.HistoryLoaded:
		a.historyView, cmd = a.historyView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded, messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.forward(msg)
}

func (a *App) routeKey(msg tea.KeyMsg) tea.Cmd {
	if a.currentView == messages.ViewHelp {
		if msg.Type == tea.KeyEsc || msg.String() == "q" {
			a.currentView = messages.ViewMenu
		}
		return nil
	}
	return a.forward(msg)
}

// forward hands msg to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewWizard:
		a.wizardView, cmd = a.wizardView.Update(msg)
	case messages.ViewChecklist:
		a.checklistView, cmd = a.checklistView.Update(msg)
	case messages.ViewTool:
		a.toolView, cmd = a.toolView.Update(msg)
	case messages.ViewHistory:
		a.historyView, cmd = a.historyView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
	}
	return cmd
}

// switchTo makes view active and returns its load command.
func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	a.currentView = view
	a.err = nil
	switch view {
	case messages.ViewWizard:
		a.wizardView.Reset()
		return a.wizardView.Init()
	case messages.ViewChecklist:
		return a.checklistView.Init()
	case messages.ViewTool:
		// A job that is still running keeps its screen.
		if a.toolView.Phase() != tool.PhaseRunning {
			a.toolView.Reset()
		}
		return a.toolView.Init()
	case messages.ViewHistory:
		return a.historyView.Init()
	case messages.ViewSettings:
		a.settingsView.Reset()
		return a.settingsView.Init()
	case messages.ViewMenu, messages.ViewHelp:
	}
	return nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewWizard:
		body = a.wizardView.View()
	case messages.ViewChecklist:
		body = a.checklistView.View()
	case messages.ViewTool:
		body = a.toolView.View()
	case messages.ViewHistory:
		body = a.historyView.View()
	case messages.ViewSettings:
		body = a.settingsView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.menuView.View()
	}

	if a.err != nil {
		body += "\n" + a.styles.Error.Render("Error: "+a.err.Error())
	}
	return body
}

func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Document Wizard:
  enter       Choose answer and continue
  space, x    Tick or untick a box
  l           Change language
  r           Start over
  esc         Previous question

Checklist:
  j/k, pgup/pgdn   Scroll
  t           Open document tools
  w           Change answers

Document Tools:
  (type)      Path of a file, or drag it into the terminal
  enter       Add file, or start when the path is empty
  ctrl+u      Remove the last file

Each uploaded file must be 230 KB or smaller.

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.wizardView.SetDimensions(width, height)
	a.checklistView.SetDimensions(width, height)
	a.toolView.SetDimensions(width, height)
	a.historyView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
