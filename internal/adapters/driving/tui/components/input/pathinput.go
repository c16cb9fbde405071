// Package input provides text input components for the TUI.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/styles"
)

// PathInput wraps a bubbles textinput for entering one file path at a time.
// Paths dropped onto a terminal often arrive quoted or with escaped spaces;
// Path undoes both.
type PathInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	label     string
	width     int
}

// NewPathInput creates a new path input component.
func NewPathInput(s *styles.Styles, label string) *PathInput {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if label == "" {
		label = "File"
	}

	ti := textinput.New()
	ti.Placeholder = "/path/to/file (drag a file here)"
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = 50

	return &PathInput{
		textinput: ti,
		styles:    s,
		label:     label,
		width:     50,
	}
}

// Init initialises the path input.
func (p *PathInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (p *PathInput) Update(msg tea.Msg) (*PathInput, tea.Cmd) {
	var cmd tea.Cmd
	p.textinput, cmd = p.textinput.Update(msg)
	return p, cmd
}

// View renders the path input.
func (p *PathInput) View() string {
	label := p.styles.Title.Render(p.label + ": ")
	field := p.styles.InputField.Render(p.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Value returns the raw input value.
func (p *PathInput) Value() string {
	return p.textinput.Value()
}

// Path returns the input as a file path with surrounding quotes and
// shell escapes removed.
func (p *PathInput) Path() string {
	return CleanPath(p.textinput.Value())
}

// SetValue sets the input value.
func (p *PathInput) SetValue(value string) {
	p.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (p *PathInput) Focus() tea.Cmd {
	return p.textinput.Focus()
}

// Blur removes focus from the input.
func (p *PathInput) Blur() {
	p.textinput.Blur()
}

// Focused returns whether the input is focused.
func (p *PathInput) Focused() bool {
	return p.textinput.Focused()
}

// SetWidth sets the width of the input.
func (p *PathInput) SetWidth(width int) {
	p.width = width
	// Account for label and padding
	inputWidth := width - len(p.label) - 8
	if inputWidth < 20 {
		inputWidth = 20
	}
	p.textinput.Width = inputWidth
}

// Width returns the current width.
func (p *PathInput) Width() int {
	return p.width
}

// Reset clears the input.
func (p *PathInput) Reset() {
	p.textinput.Reset()
}

// CleanPath trims whitespace, one pair of matching quotes and backslash
// escapes from a pasted path.
func CleanPath(raw string) string {
	path := strings.TrimSpace(raw)
	if len(path) >= 2 {
		first, last := path[0], path[len(path)-1]
		if (first == '"' || first == '\'') && first == last {
			return path[1 : len(path)-1]
		}
	}
	if !strings.Contains(path, `\`) {
		return path
	}

	var b strings.Builder
	escaped := false
	for _, r := range path {
		if r == '\\' && !escaped {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}
