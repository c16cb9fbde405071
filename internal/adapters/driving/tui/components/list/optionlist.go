// Package list provides list components for the TUI.
package list

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/styles"
)

// Option is one selectable row.
type Option struct {
	Label string
	Hint  string

	// Checked is only rendered when the list is checkable.
	Checked bool
}

// OptionList is a scrolling single-cursor list used by the wizard steps,
// the tool picker and the settings view.
type OptionList struct {
	styles    *styles.Styles
	options   []Option
	selected  int
	offset    int
	height    int
	width     int
	checkable bool
}

// NewOptionList creates a new option list.
func NewOptionList(s *styles.Styles) *OptionList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &OptionList{
		styles: s,
		height: 10,
		width:  80,
	}
}

// Init initialises the list.
func (l *OptionList) Init() tea.Cmd {
	return nil
}

// Update handles navigation keys.
func (l *OptionList) Update(msg tea.Msg) (*OptionList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		case "home", "g":
			l.selected = 0
			l.offset = 0
		case "end", "G":
			if len(l.options) > 0 {
				l.selected = len(l.options) - 1
				l.scrollToSelected()
			}
		}
	}
	return l, nil
}

// View renders the visible window of options.
func (l *OptionList) View() string {
	if len(l.options) == 0 {
		return l.styles.Muted.Render("Nothing to choose from.")
	}

	var b strings.Builder
	end := l.offset + l.height
	if end > len(l.options) {
		end = len(l.options)
	}

	for i := l.offset; i < end; i++ {
		opt := l.options[i]
		cursor := "  "
		label := l.styles.Normal.Render(opt.Label)
		if i == l.selected {
			cursor = "> "
			label = l.styles.Selected.Render(opt.Label)
		}

		b.WriteString(cursor)
		if l.checkable {
			if opt.Checked {
				b.WriteString(l.styles.Success.Render("[x] "))
			} else {
				b.WriteString("[ ] ")
			}
		}
		b.WriteString(label)
		if opt.Hint != "" {
			b.WriteString("  ")
			b.WriteString(l.styles.Muted.Render(opt.Hint))
		}
		b.WriteString("\n")
	}

	if len(l.options) > l.height {
		b.WriteString(l.styles.Muted.Render(strings.Repeat(" ", 2) + scrollHint(l.offset, end, len(l.options))))
		b.WriteString("\n")
	}

	return b.String()
}

func scrollHint(from, to, total int) string {
	var parts []string
	if from > 0 {
		parts = append(parts, "more above")
	}
	if to < total {
		parts = append(parts, "more below")
	}
	return strings.Join(parts, ", ")
}

// SetOptions replaces the options, keeping the cursor in range.
func (l *OptionList) SetOptions(options []Option) {
	l.options = options
	if l.selected >= len(options) {
		l.selected = len(options) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
	l.scrollToSelected()
}

// Options returns the current options.
func (l *OptionList) Options() []Option {
	return l.options
}

// SetCheckable turns checkbox rendering on or off.
func (l *OptionList) SetCheckable(checkable bool) {
	l.checkable = checkable
}

// MoveUp moves the cursor up one row.
func (l *OptionList) MoveUp() {
	if l.selected > 0 {
		l.selected--
		l.scrollToSelected()
	}
}

// MoveDown moves the cursor down one row.
func (l *OptionList) MoveDown() {
	if l.selected < len(l.options)-1 {
		l.selected++
		l.scrollToSelected()
	}
}

// Select moves the cursor to index, clamped to the list.
func (l *OptionList) Select(index int) {
	if len(l.options) == 0 {
		l.selected = 0
		return
	}
	if index < 0 {
		index = 0
	}
	if index >= len(l.options) {
		index = len(l.options) - 1
	}
	l.selected = index
	l.scrollToSelected()
}

// Selected returns the cursor index.
func (l *OptionList) Selected() int {
	return l.selected
}

// SelectedOption returns the option under the cursor.
func (l *OptionList) SelectedOption() (Option, bool) {
	if l.selected < 0 || l.selected >= len(l.options) {
		return Option{}, false
	}
	return l.options[l.selected], true
}

// SetDimensions sets the list size. Height is in rows.
func (l *OptionList) SetDimensions(width, height int) {
	l.width = width
	if height < 1 {
		height = 1
	}
	l.height = height
	l.scrollToSelected()
}

// Height returns the number of visible rows.
func (l *OptionList) Height() int {
	return l.height
}

func (l *OptionList) scrollToSelected() {
	if l.selected < l.offset {
		l.offset = l.selected
	}
	if l.selected >= l.offset+l.height {
		l.offset = l.selected - l.height + 1
	}
	if l.offset < 0 {
		l.offset = 0
	}
}
