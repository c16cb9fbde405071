// Package keymap defines the key bindings shared by the TUI views.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds every binding. Views match keys with key.Matches so the
// help text and the behaviour come from one place.
type KeyMap struct {
	Quit     key.Binding
	Help     key.Binding
	Back     key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Select   key.Binding

	// Toggle ticks a login readiness box.
	Toggle key.Binding
	// Language cycles English, Hindi and Marathi.
	Language key.Binding
	// Restart clears the wizard answers but keeps the language.
	Restart key.Binding
	// Tools opens the document tools from the checklist.
	Tools key.Binding
	// Answers reopens the wizard from the checklist.
	Answers key.Binding
	// RemoveLast drops the most recently added tool input.
	RemoveLast key.Binding
	// Refresh reloads the job history.
	Refresh key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Back:       key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:     key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown:   key.NewBinding(key.WithKeys("pgdown", " "), key.WithHelp("pgdn", "page down")),
		Select:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Toggle:     key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		Language:   key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "language")),
		Restart:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		Tools:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tools")),
		Answers:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "change answers")),
		RemoveLast: key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "remove last file")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

// ShortHelp returns the bindings shown when a view has nothing specific.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help}
}

// WizardHelp returns the bindings for the wizard steps.
func (k *KeyMap) WizardHelp() []key.Binding {
	return []key.Binding{k.Up, k.Select, k.Toggle, k.Language, k.Back}
}

// ChecklistHelp returns the bindings for the checklist.
func (k *KeyMap) ChecklistHelp() []key.Binding {
	return []key.Binding{k.Up, k.Tools, k.Answers, k.Restart, k.Back}
}

// FullHelp groups every binding for a help screen.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Select},
		{k.Toggle, k.Language, k.Restart},
		{k.Tools, k.Answers, k.RemoveLast, k.Refresh},
		{k.Back, k.Help, k.Quit},
	}
}
