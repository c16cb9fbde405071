package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view ViewType
		want string
	}{
		{ViewMenu, "menu"},
		{ViewWizard, "wizard"},
		{ViewChecklist, "checklist"},
		{ViewTool, "tool"},
		{ViewHistory, "history"},
		{ViewSettings, "settings"},
		{ViewHelp, "help"},
		{ViewType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.view.String())
		})
	}
}

func TestViewType_Distinct(t *testing.T) {
	seen := make(map[ViewType]bool)
	for _, v := range []ViewType{ViewMenu, ViewWizard, ViewChecklist, ViewTool, ViewHistory, ViewSettings, ViewHelp} {
		assert.False(t, seen[v], "duplicate view type %d", v)
		seen[v] = true
	}
}

func TestToolFinished_CarriesError(t *testing.T) {
	err := errors.New("boom")
	msg := ToolFinished{Err: err}

	assert.Nil(t, msg.Output)
	assert.Empty(t, msg.Handle)
	assert.ErrorIs(t, msg.Err, err)
}
