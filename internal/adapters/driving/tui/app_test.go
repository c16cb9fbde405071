package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/views/tool"
	"github.com/custodia-labs/scholardocs/internal/core/domain"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := NewApp(newTestPorts(t))
	require.NoError(t, err)
	app.SetDimensions(100, 40)
	return app
}

// pump runs cmd and every command it produces, feeding messages back into
// the app. It stops at tea.Quit-like nil messages.
func pump(t *testing.T, app *App, cmd tea.Cmd) {
	t.Helper()
	for i := 0; cmd != nil && i < 100; i++ {
		msg := cmd()
		if msg == nil {
			return
		}
		if _, ok := msg.(tea.BatchMsg); ok {
			return
		}
		_, cmd = app.Update(msg)
	}
}

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(newTestPorts(t))

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.False(t, app.Ready())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	ports := newTestPorts(t)
	ports.Tools = nil

	app, err := NewApp(ports)

	assert.ErrorIs(t, err, ErrMissingToolService)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app, _ := NewApp(newTestPorts(t))

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Equal(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_Init(t *testing.T) {
	app, _ := NewApp(newTestPorts(t))

	assert.NotNil(t, app.Init())
}

func TestApp_Update_WindowSize(t *testing.T) {
	app, _ := NewApp(newTestPorts(t))

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
	assert.Contains(t, app.View(), "ScholarDocs")
}

func TestApp_View_NotReady(t *testing.T) {
	app, _ := NewApp(newTestPorts(t))

	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_Update_KeyMsg_CtrlC(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_Update_Quit(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_MenuOpensWizard(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	pump(t, app, cmd)

	assert.Equal(t, messages.ViewWizard, app.CurrentView())
	assert.Contains(t, app.View(), "Which stream are you studying in?")
}

func TestApp_WizardToChecklist(t *testing.T) {
	app := newTestApp(t)
	pump(t, app, func() tea.Msg { return messages.ViewChanged{View: messages.ViewWizard} })

	enter := tea.KeyMsg{Type: tea.KeyEnter}
	for i := 0; i < 3; i++ { // engineering, open, year 1
		_, cmd := app.Update(enter)
		pump(t, app, cmd)
	}
	require.Equal(t, messages.ViewWizard, app.CurrentView())

	// Continue is the last option on the year step.
	for i := 0; i < 10; i++ {
		app.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	_, cmd := app.Update(enter)
	pump(t, app, cmd)

	assert.Equal(t, messages.ViewChecklist, app.CurrentView())
	output := app.View()
	assert.Contains(t, output, "Your Document Checklist")
	assert.Contains(t, output, "Fresh Application")
}

func TestApp_ChecklistWithoutAnswers(t *testing.T) {
	app := newTestApp(t)

	pump(t, app, func() tea.Msg { return messages.ViewChanged{View: messages.ViewChecklist} })

	assert.Equal(t, messages.ViewChecklist, app.CurrentView())
	assert.Contains(t, app.View(), "finish the wizard first")
}

func TestApp_ToolRun(t *testing.T) {
	app := newTestApp(t)
	pump(t, app, func() tea.Msg { return messages.ViewChanged{View: messages.ViewTool} })
	require.Equal(t, messages.ViewTool, app.CurrentView())

	// Compress starts as soon as its file is added.
	app.Update(tea.KeyMsg{Type: tea.KeyDown})
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	path := filepath.Join(t.TempDir(), "scan.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0600))
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(path)})
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	pump(t, app, cmd)

	assert.Equal(t, tool.PhaseDone, app.toolView.Phase())
	assert.Contains(t, app.View(), "Your PDF is ready")
}

func TestApp_ToolEventsReachToolViewFromElsewhere(t *testing.T) {
	app := newTestApp(t)
	app.Update(messages.ViewChanged{View: messages.ViewMenu})

	app.Update(messages.ToolFinished{Err: errors.New("decode failed")})

	assert.EqualError(t, app.toolView.Err(), "decode failed")
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_HistoryAndSettingsLoad(t *testing.T) {
	app := newTestApp(t)

	pump(t, app, func() tea.Msg { return messages.ViewChanged{View: messages.ViewHistory} })
	assert.Contains(t, app.View(), "No tool runs yet")

	pump(t, app, func() tea.Msg { return messages.ViewChanged{View: messages.ViewSettings} })
	assert.Contains(t, app.View(), "Language: English")
}

func TestApp_HelpView(t *testing.T) {
	app := newTestApp(t)
	app.Update(messages.ViewChanged{View: messages.ViewHelp})

	assert.Contains(t, app.View(), "Document Wizard:")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_ErrorOccurred(t *testing.T) {
	app := newTestApp(t)

	app.Update(messages.ErrorOccurred{Err: errors.New("state store unavailable")})

	assert.EqualError(t, app.Err(), "state store unavailable")
	assert.Contains(t, app.View(), "Error: state store unavailable")

	// Switching views clears it.
	app.Update(messages.ViewChanged{View: messages.ViewHelp})
	assert.NoError(t, app.Err())
}

func TestApp_EscFromViewsReturnsToMenu(t *testing.T) {
	for _, view := range []messages.ViewType{
		messages.ViewChecklist, messages.ViewTool, messages.ViewHistory, messages.ViewSettings,
	} {
		t.Run(view.String(), func(t *testing.T) {
			app := newTestApp(t)
			pump(t, app, func() tea.Msg { return messages.ViewChanged{View: view} })

			_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
			pump(t, app, cmd)

			assert.Equal(t, messages.ViewMenu, app.CurrentView())
		})
	}
}

func TestApp_SelectionSurvivesNavigation(t *testing.T) {
	ports := newTestPorts(t)
	app, err := NewApp(ports)
	require.NoError(t, err)
	app.SetDimensions(100, 40)

	_, err = ports.Wizard.SelectStream(context.Background(), domain.StreamNursing)
	require.NoError(t, err)

	pump(t, app, func() tea.Msg { return messages.ViewChanged{View: messages.ViewWizard} })

	require.NotNil(t, app.wizardView.State())
	assert.Equal(t, domain.StreamNursing, app.wizardView.State().Selection.Stream)
}
