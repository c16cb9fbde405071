package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scholardocs/internal/core/domain"
)

func TestDefaultTheme_AccentsAreDistinct(t *testing.T) {
	theme := DefaultTheme()

	seen := make(map[lipgloss.Color]bool)
	for _, c := range []lipgloss.Color{theme.Primary, theme.Secondary, theme.Success, theme.Warning, theme.Error} {
		require.NotEmpty(t, string(c))
		assert.False(t, seen[c], "duplicate accent %s", c)
		seen[c] = true
	}
}

func TestNewStyles(t *testing.T) {
	theme := DefaultTheme()
	assert.Equal(t, theme, NewStyles(theme).Theme())

	s := NewStyles(nil)
	require.NotNil(t, s.Theme())
	assert.Equal(t, DefaultTheme().Primary, s.Theme().Primary)
	assert.Len(t, s.badges, 4)
}

func TestStyles_Initialised(t *testing.T) {
	s := DefaultStyles()

	for name, style := range map[string]lipgloss.Style{
		"Title": s.Title, "Subtitle": s.Subtitle, "Normal": s.Normal, "Muted": s.Muted,
		"Selected": s.Selected, "Error": s.Error, "Success": s.Success, "Warning": s.Warning,
		"Help": s.Help, "InputField": s.InputField, "StatusBar": s.StatusBar, "Pill": s.Pill,
	} {
		assert.NotEqual(t, lipgloss.Style{}, style, name)
	}
}

func TestStyles_Badge(t *testing.T) {
	s := DefaultStyles()

	for _, kind := range domain.AllBadgeKinds() {
		meta, ok := kind.Meta()
		require.True(t, ok)
		assert.Contains(t, s.Badge(kind), "["+meta.Label+"]", kind)
	}
	assert.Empty(t, s.Badge(domain.BadgeNone))
	assert.Empty(t, s.Badge(domain.BadgeKind("sparkly")))
}

func TestStyles_Pills(t *testing.T) {
	s := DefaultStyles()

	out := s.Pills([]string{"Engineering", "Open / General", "3 Year", "Renewal Application"})

	for _, label := range []string{"Engineering", "Open / General", "3 Year", "Renewal Application"} {
		assert.Contains(t, out, label)
	}
	assert.Empty(t, s.Pills(nil))
}
