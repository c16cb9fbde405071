// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scholardocs/internal/core/domain"
	"github.com/custodia-labs/scholardocs/internal/core/ports/driving"
)

// Section tracks which settings section is active.
type Section int

const (
	SectionOverview Section = iota
	SectionLanguage
	SectionStorage
	SectionOutputDir
)

// Key constants for key handling.
const (
	keyDown  = "down"
	keyEnter = "enter"
)

const overviewItems = 3

// View is the settings configuration view.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	settings *domain.AppSettings
	err      error
	notice   string

	section  Section
	selected int

	outputDirInput textinput.Model

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	outputDirInput := textinput.New()
	outputDirInput.Placeholder = "Folder for produced PDFs (empty for current folder)"
	outputDirInput.CharLimit = 1024
	outputDirInput.Width = 50

	return &View{
		styles:          s,
		settingsService: settingsService,
		section:         SectionOverview,
		outputDirInput:  outputDirInput,
		width:           80,
		height:          24,
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsLoaded{Err: fmt.Errorf("settings service not available")}
		}
		settings, err := svc.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.notice = "Saved. Storage changes apply on the next start."
		v.backToOverview()
		return v, v.loadSettings()

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == "esc" {
		if v.section == SectionOverview {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
		v.backToOverview()
		return v, nil
	}

	switch v.section {
	case SectionOverview:
		return v.handleOverviewKeys(msg)
	case SectionLanguage:
		langs := domain.AllLanguages()
		if v.moveSelection(msg, len(langs)) {
			return v, v.setLanguage(langs[v.selected])
		}
	case SectionStorage:
		backends := domain.AllStorageBackends()
		if v.moveSelection(msg, len(backends)) {
			return v, v.setStorage(backends[v.selected])
		}
	case SectionOutputDir:
		if msg.String() == keyEnter {
			return v, v.setOutputDir(v.outputDirInput.Value())
		}
		var cmd tea.Cmd
		v.outputDirInput, cmd = v.outputDirInput.Update(msg)
		return v, cmd
	}
	return v, nil
}

// moveSelection handles list navigation and reports whether enter was pressed.
func (v *View) moveSelection(msg tea.KeyMsg, count int) bool {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < count-1 {
			v.selected++
		}
	case keyEnter:
		return v.selected >= 0 && v.selected < count
	}
	return false
}

func (v *View) handleOverviewKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	if !v.moveSelection(msg, overviewItems) {
		return v, nil
	}
	v.notice = ""
	switch v.selected {
	case 0:
		v.section = SectionLanguage
		v.selected = v.languageIndex()
	case 1:
		v.section = SectionStorage
		v.selected = v.storageIndex()
	case 2:
		v.section = SectionOutputDir
		v.selected = 0
		if v.settings != nil {
			v.outputDirInput.SetValue(v.settings.Tools.OutputDir)
		}
		return v, v.outputDirInput.Focus()
	}
	return v, nil
}

func (v *View) backToOverview() {
	v.section = SectionOverview
	v.selected = 0
	v.outputDirInput.Blur()
}

// Commands to update settings.

func (v *View) setLanguage(lang domain.Language) tea.Cmd {
	return v.save(func(svc driving.SettingsService) error {
		return svc.SetLanguage(lang)
	})
}

func (v *View) setStorage(backend domain.StorageBackend) tea.Cmd {
	return v.save(func(svc driving.SettingsService) error {
		return svc.SetStorageBackend(backend)
	})
}

func (v *View) setOutputDir(dir string) tea.Cmd {
	return v.save(func(svc driving.SettingsService) error {
		return svc.SetOutputDir(dir)
	})
}

func (v *View) save(fn func(driving.SettingsService) error) tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsSaved{Err: fmt.Errorf("settings service not available")}
		}
		return messages.SettingsSaved{Err: fn(svc)}
	}
}

func (v *View) languageIndex() int {
	if v.settings == nil {
		return 0
	}
	for i, l := range domain.AllLanguages() {
		if l == v.settings.Language {
			return i
		}
	}
	return 0
}

func (v *View) storageIndex() int {
	if v.settings == nil {
		return 0
	}
	for i, b := range domain.AllStorageBackends() {
		if b == v.settings.Storage {
			return i
		}
	}
	return 0
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	switch v.section {
	case SectionOverview:
		b.WriteString(v.renderOverview())
	case SectionLanguage:
		b.WriteString(v.renderChoices("Select Language", languageLabels(), v.languageIndex()))
	case SectionStorage:
		b.WriteString(v.renderChoices("Select Storage", storageLabels(), v.storageIndex()))
	case SectionOutputDir:
		b.WriteString(v.styles.Subtitle.Render("Output Folder"))
		b.WriteString("\n\n")
		b.WriteString(v.outputDirInput.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

func (v *View) renderOverview() string {
	var b strings.Builder

	outputDir := v.settings.Tools.OutputDir
	if outputDir == "" {
		outputDir = "current folder"
	}

	items := []struct {
		label string
		value string
	}{
		{label: "Language", value: v.settings.Language.Description()},
		{label: "Storage", value: v.settings.Storage.Description()},
		{label: "Output Folder", value: outputDir},
	}

	for i, item := range items {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}
		line := fmt.Sprintf("%s%s: %s", indicator, item.label, item.value)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  Input limit: %d KB   Output target: %d KB",
		v.settings.Tools.MaxInputBytes>>10, v.settings.Tools.TargetBytes>>10)))
	b.WriteString("\n\n")

	if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
	} else if v.settingsService != nil {
		if err := v.settingsService.Validate(); err != nil {
			b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Warning: %s", err.Error())))
		} else {
			b.WriteString(v.styles.Success.Render("Configuration is valid"))
		}
	}
	b.WriteString("\n")

	return b.String()
}

func (v *View) renderChoices(title string, labels []string, current int) string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render(title))
	b.WriteString("\n\n")

	for i, label := range labels {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}
		suffix := ""
		if i == current {
			suffix = v.styles.Success.Render(" (current)")
		}
		line := indicator + label + suffix
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func languageLabels() []string {
	langs := domain.AllLanguages()
	labels := make([]string, len(langs))
	for i, l := range langs {
		labels[i] = l.Description()
	}
	return labels
}

func storageLabels() []string {
	backends := domain.AllStorageBackends()
	labels := make([]string, len(backends))
	for i, b := range backends {
		labels[i] = b.Description()
	}
	return labels
}

func (v *View) renderHelp() string {
	switch v.section {
	case SectionOverview:
		return v.styles.Help.Render("[j/k] navigate  [enter] edit  [esc] back")
	case SectionLanguage, SectionStorage:
		return v.styles.Help.Render("[j/k] navigate  [enter] select  [esc] back")
	case SectionOutputDir:
		return v.styles.Help.Render("[enter] save  [esc] back")
	default:
		return ""
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	w := width - 10
	if w < 20 {
		w = 20
	}
	v.outputDirInput.Width = w
}

// Reset resets the view to initial state.
func (v *View) Reset() {
	v.backToOverview()
	v.err = nil
	v.notice = ""
	v.outputDirInput.SetValue("")
}

// Section returns the active section.
func (v *View) Section() Section {
	return v.section
}

// Settings returns the loaded settings.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
