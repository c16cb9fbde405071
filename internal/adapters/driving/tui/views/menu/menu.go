// Package menu provides the start screen of the TUI.
package menu

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/styles"
)

// Item is one entry on the start screen.
type Item struct {
	Label string
	Hint  string
	View  messages.ViewType
	Quit  bool
}

// DefaultItems are the entries in display order. Digits 1..9 jump to them.
var DefaultItems = []Item{
	{Label: "Document Wizard", Hint: "answer a few questions", View: messages.ViewWizard},
	{Label: "Checklist", Hint: "documents for your saved answers", View: messages.ViewChecklist},
	{Label: "Document Tools", Hint: "merge, compress, images to PDF", View: messages.ViewTool},
	{Label: "History", Hint: "recent tool runs", View: messages.ViewHistory},
	{Label: "Settings", Hint: "language, storage, output folder", View: messages.ViewSettings},
	{Label: "Help", View: messages.ViewHelp},
	{Label: "Quit", Quit: true},
}

// View is the start screen.
type View struct {
	styles   *styles.Styles
	keys     *keymap.KeyMap
	items    []Item
	selected int
	width    int
	height   int
	ready    bool
}

// NewView creates the start screen.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		keys:   keymap.DefaultKeyMap(),
		items:  DefaultItems,
		width:  80,
		height: 24,
	}
}

// Init implements the view lifecycle; the menu loads nothing.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update moves the cursor or opens an entry.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Up):
			v.selected = max(v.selected-1, 0)
		case key.Matches(msg, v.keys.Down):
			v.selected = min(v.selected+1, len(v.items)-1)
		case key.Matches(msg, v.keys.Select):
			return v, v.open(v.selected)
		case key.Matches(msg, v.keys.Help):
			return v, changeView(messages.ViewHelp)
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		default:
			if i, ok := shortcut(msg.String()); ok && i < len(v.items) {
				v.selected = i
				return v, v.open(i)
			}
		}
	}
	return v, nil
}

func (v *View) open(i int) tea.Cmd {
	item := v.items[i]
	if item.Quit {
		return tea.Quit
	}
	return changeView(item.View)
}

func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg {
		return messages.ViewChanged{View: view}
	}
}

// shortcut maps "1".."9" to an item index.
func shortcut(s string) (int, bool) {
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return 0, false
	}
	return int(s[0] - '1'), true
}

// View renders the start screen.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("ScholarDocs"))
	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render("Scholarship Renewal Documents"))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Every upload must be a PDF of 230 KB or less."))
	b.WriteString("\n\n")

	for i, item := range v.items {
		label := fmt.Sprintf("%d. %s", i+1, item.Label)
		if i != v.selected {
			b.WriteString("  " + v.styles.Normal.Render(label) + "\n")
			continue
		}
		line := "> " + v.styles.Selected.Render(label)
		if item.Hint != "" {
			line += "  " + v.styles.Muted.Render(item.Hint)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [1-7] Jump  [Enter] Select  [?] Help  [q] Quit"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the index under the cursor.
func (v *View) Selected() int {
	return v.selected
}
