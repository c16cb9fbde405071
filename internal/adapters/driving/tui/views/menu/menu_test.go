package menu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/styles"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewView(t *testing.T) {
	view := NewView(styles.DefaultStyles())

	require.NotNil(t, view)
	assert.Len(t, view.items, 7)
	assert.Equal(t, 0, view.Selected())
	assert.Nil(t, view.Init())
}

func TestNewView_NilStyles(t *testing.T) {
	view := NewView(nil)

	assert.NotNil(t, view.styles)
	assert.NotNil(t, view.keys)
}

func TestView_Update_WindowSize(t *testing.T) {
	view := NewView(nil)

	updated, cmd := view.Update(tea.WindowSizeMsg{Width: 100, Height: 50})

	assert.Equal(t, view, updated)
	assert.Nil(t, cmd)
	assert.True(t, view.ready)
	assert.Equal(t, 100, view.width)
}

func TestView_Navigation(t *testing.T) {
	view := NewView(nil)

	view.Update(tea.KeyMsg{Type: tea.KeyDown})
	view.Update(runes("j"))
	assert.Equal(t, 2, view.Selected())

	for i := 0; i < 10; i++ {
		view.Update(runes("j"))
	}
	assert.Equal(t, 6, view.Selected(), "stops at the last item")

	view.Update(tea.KeyMsg{Type: tea.KeyUp})
	view.Update(runes("k"))
	assert.Equal(t, 4, view.Selected())

	for i := 0; i < 10; i++ {
		view.Update(tea.KeyMsg{Type: tea.KeyUp})
	}
	assert.Equal(t, 0, view.Selected(), "stops at the first item")
}

func TestView_EnterOpensSelected(t *testing.T) {
	tests := []struct {
		selected int
		want     messages.ViewType
	}{
		{0, messages.ViewWizard},
		{1, messages.ViewChecklist},
		{2, messages.ViewTool},
		{3, messages.ViewHistory},
		{4, messages.ViewSettings},
		{5, messages.ViewHelp},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			view := NewView(nil)
			view.selected = tt.selected

			_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

			require.NotNil(t, cmd)
			assert.Equal(t, messages.ViewChanged{View: tt.want}, cmd())
		})
	}
}

func TestView_DigitShortcuts(t *testing.T) {
	view := NewView(nil)

	_, cmd := view.Update(runes("3"))

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewTool}, cmd())
	assert.Equal(t, 2, view.Selected())

	_, cmd = view.Update(runes("9"))
	assert.Nil(t, cmd, "no item behind 9")
}

func TestView_HelpKey(t *testing.T) {
	view := NewView(nil)

	_, cmd := view.Update(runes("?"))

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewHelp}, cmd())
}

func TestView_Quit(t *testing.T) {
	view := NewView(nil)
	_, cmd := view.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	view.selected = 6
	_, cmd = view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = view.Update(runes("7"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestView_View(t *testing.T) {
	view := NewView(nil)
	assert.Equal(t, "Initialising...", view.View())

	view.SetDimensions(80, 24)
	output := view.View()

	assert.Contains(t, output, "ScholarDocs")
	assert.Contains(t, output, "230 KB")
	assert.Contains(t, output, "1. Document Wizard")
	assert.Contains(t, output, "7. Quit")
	assert.Contains(t, output, "answer a few questions")
	assert.NotContains(t, output, "recent tool runs", "only the selected item shows its hint")
}

func TestShortcut(t *testing.T) {
	i, ok := shortcut("1")
	assert.True(t, ok)
	assert.Equal(t, 0, i)

	_, ok = shortcut("0")
	assert.False(t, ok)
	_, ok = shortcut("12")
	assert.False(t, ok)
	_, ok = shortcut("a")
	assert.False(t, ok)
}
