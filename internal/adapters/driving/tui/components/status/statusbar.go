// Package status provides the one-line footer shown under the wizard and
// the checklist.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/styles"
)

// Mode selects the key hints shown on the right.
type Mode int

// Footer modes.
const (
	ModeDefault Mode = iota
	ModeWizard
	ModeChecklist
)

// Bar shows an error, a notice or a document count on the left and key
// hints on the right.
type Bar struct {
	styles    *styles.Styles
	keys      *keymap.KeyMap
	mode      Mode
	err       error
	notice    string
	itemCount int
	width     int
}

// NewBar creates a footer for mode.
func NewBar(s *styles.Styles, km *keymap.KeyMap, mode Mode) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{styles: s, keys: km, mode: mode, width: 80}
}

// View renders the footer padded to the bar width.
func (b *Bar) View() string {
	left := b.left()
	right := b.hints()
	inner := b.width - b.styles.StatusBar.GetHorizontalFrameSize()
	gap := max(inner-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return b.styles.StatusBar.Width(b.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (b *Bar) left() string {
	switch {
	case b.err != nil:
		return b.styles.Error.Render("Error: " + b.err.Error())
	case b.notice != "":
		return b.styles.Success.Render(b.notice)
	case b.itemCount == 1:
		return b.styles.Normal.Render("1 document")
	case b.itemCount > 1:
		return b.styles.Normal.Render(fmt.Sprintf("%d documents", b.itemCount))
	}
	return b.styles.Muted.Render("Ready")
}

func (b *Bar) hints() string {
	var bindings []key.Binding
	switch b.mode {
	case ModeWizard:
		bindings = b.keys.WizardHelp()
	case ModeChecklist:
		bindings = b.keys.ChecklistHelp()
	default:
		bindings = b.keys.ShortHelp()
	}

	hints := make([]string, len(bindings))
	for i, kb := range bindings {
		h := kb.Help()
		hints[i] = h.Key + ": " + h.Desc
	}
	return b.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetError shows err until it is cleared with nil. An error hides the notice.
func (b *Bar) SetError(err error) {
	b.err = err
}

// Err returns the error on display.
func (b *Bar) Err() error {
	return b.err
}

// SetNotice shows a short success message.
func (b *Bar) SetNotice(notice string) {
	b.notice = notice
}

// SetItemCount sets the number of checklist documents.
func (b *Bar) SetItemCount(count int) {
	b.itemCount = count
}

// ItemCount returns the number of checklist documents.
func (b *Bar) ItemCount() int {
	return b.itemCount
}

// SetWidth sets the footer width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}

// Clear drops the error, the notice and the count.
func (b *Bar) Clear() {
	b.err = nil
	b.notice = ""
	b.itemCount = 0
}
