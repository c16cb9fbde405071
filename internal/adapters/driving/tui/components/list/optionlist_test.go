package list

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func options(n int) []Option {
	opts := make([]Option, n)
	for i := range opts {
		opts[i] = Option{Label: fmt.Sprintf("Option %d", i+1)}
	}
	return opts
}

func TestNewOptionList(t *testing.T) {
	l := NewOptionList(nil)

	require.NotNil(t, l)
	assert.NotNil(t, l.styles)
	assert.Equal(t, 0, l.Selected())
	assert.Equal(t, 10, l.Height())
	assert.Nil(t, l.Init())
}

func TestOptionList_Navigation(t *testing.T) {
	l := NewOptionList(nil)
	l.SetOptions(options(3))

	l.MoveUp()
	assert.Equal(t, 0, l.Selected())

	l.Update(tea.KeyMsg{Type: tea.KeyDown})
	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 2, l.Selected())

	l.MoveDown()
	assert.Equal(t, 2, l.Selected())

	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 1, l.Selected())

	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	assert.Equal(t, 2, l.Selected())

	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	assert.Equal(t, 0, l.Selected())
}

func TestOptionList_SetOptionsClampsCursor(t *testing.T) {
	l := NewOptionList(nil)
	l.SetOptions(options(5))
	l.Select(4)

	l.SetOptions(options(2))
	assert.Equal(t, 1, l.Selected())

	l.SetOptions(nil)
	assert.Equal(t, 0, l.Selected())
	_, ok := l.SelectedOption()
	assert.False(t, ok)
}

func TestOptionList_Select(t *testing.T) {
	l := NewOptionList(nil)
	l.SetOptions(options(4))

	l.Select(-3)
	assert.Equal(t, 0, l.Selected())

	l.Select(99)
	assert.Equal(t, 3, l.Selected())

	opt, ok := l.SelectedOption()
	require.True(t, ok)
	assert.Equal(t, "Option 4", opt.Label)
}

func TestOptionList_ScrollsWithCursor(t *testing.T) {
	l := NewOptionList(nil)
	l.SetOptions(options(10))
	l.SetDimensions(80, 3)

	for i := 0; i < 5; i++ {
		l.MoveDown()
	}

	view := l.View()
	assert.Contains(t, view, "Option 6")
	assert.NotContains(t, view, "Option 1\n")
	assert.Contains(t, view, "more above")
	assert.Contains(t, view, "more below")
}

func TestOptionList_View(t *testing.T) {
	l := NewOptionList(nil)
	assert.Contains(t, l.View(), "Nothing to choose from")

	l.SetOptions([]Option{
		{Label: "Engineering", Hint: "B.E. / B.Tech"},
		{Label: "Pharmacy"},
	})
	view := l.View()
	assert.Contains(t, view, "> ")
	assert.Contains(t, view, "Engineering")
	assert.Contains(t, view, "B.E. / B.Tech")
	assert.NotContains(t, view, "[ ]")
}

func TestOptionList_Checkable(t *testing.T) {
	l := NewOptionList(nil)
	l.SetCheckable(true)
	l.SetOptions([]Option{
		{Label: "Username", Checked: true},
		{Label: "Password"},
	})

	view := l.View()
	assert.Contains(t, view, "[x]")
	assert.Contains(t, view, "[ ]")
}

func TestOptionList_SetDimensionsMinimumHeight(t *testing.T) {
	l := NewOptionList(nil)

	l.SetDimensions(40, 0)

	assert.Equal(t, 1, l.Height())
}
