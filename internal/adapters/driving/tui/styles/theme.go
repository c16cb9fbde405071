// Package styles provides the colour theme and lipgloss styles for the TUI.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/scholardocs/internal/core/domain"
)

// Theme is the colour palette.
type Theme struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Background lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Border     lipgloss.Color
}

// DefaultTheme returns the dark blue palette.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#2563EB"),
		Secondary:  lipgloss.Color("#06B6D4"),
		Background: lipgloss.Color("#1E1E2E"),
		Foreground: lipgloss.Color("#CDD6F4"),
		Muted:      lipgloss.Color("#6C7086"),
		Success:    lipgloss.Color("#A6E3A1"),
		Warning:    lipgloss.Color("#F9E2AF"),
		Error:      lipgloss.Color("#F38BA8"),
		Border:     lipgloss.Color("#45475A"),
	}
}

// Styles holds the styles every view renders with.
type Styles struct {
	theme *Theme

	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Normal     lipgloss.Style
	Muted      lipgloss.Style
	Selected   lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	Warning    lipgloss.Style
	Help       lipgloss.Style
	InputField lipgloss.Style
	StatusBar  lipgloss.Style

	// Pill renders one selection summary chip.
	Pill lipgloss.Style

	// badges maps a badge tone to its style.
	badges map[domain.BadgeTone]lipgloss.Style
}

// NewStyles creates styles from a theme. A nil theme uses DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	fg := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}

	return &Styles{
		theme:    theme,
		Title:    fg(theme.Primary).Bold(true),
		Subtitle: fg(theme.Secondary).Bold(true),
		Normal:   fg(theme.Foreground),
		Muted:    fg(theme.Muted),
		Selected: fg(theme.Foreground).Background(theme.Primary).Bold(true),
		Error:    fg(theme.Error),
		Success:  fg(theme.Success),
		Warning:  fg(theme.Warning),
		Help:     fg(theme.Muted),
		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
		StatusBar: fg(theme.Muted).
			Background(lipgloss.Color("#181825")).
			Padding(0, 1),
		Pill: fg(theme.Background).
			Background(theme.Secondary).
			Padding(0, 1),
		badges: map[domain.BadgeTone]lipgloss.Style{
			domain.ToneInfo:     fg(theme.Secondary),
			domain.ToneMuted:    fg(theme.Muted).Italic(true),
			domain.ToneWarning:  fg(theme.Warning).Bold(true),
			domain.ToneCritical: fg(theme.Error).Bold(true),
		},
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Badge renders a checklist badge in the style of its tone.
// BadgeNone and unknown kinds render as an empty string.
func (s *Styles) Badge(kind domain.BadgeKind) string {
	meta, ok := kind.Meta()
	if !ok {
		return ""
	}
	style, ok := s.badges[meta.Tone]
	if !ok {
		style = s.badges[domain.ToneInfo]
	}
	return style.Render("[" + meta.Label + "]")
}

// Pills renders the selection summary as a row of chips.
func (s *Styles) Pills(labels []string) string {
	chips := make([]string, len(labels))
	for i, l := range labels {
		chips[i] = s.Pill.Render(l)
	}
	return strings.Join(chips, " ")
}
