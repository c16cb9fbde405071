package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func promptCmd(out *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	return cmd
}

func TestAskChoice_RetriesUntilValid(t *testing.T) {
	out := new(bytes.Buffer)
	reader := bufio.NewReader(strings.NewReader("9\nfoo\n2\n"))

	idx, back, err := askChoice(promptCmd(out), reader, []string{"one", "two"}, false)
	require.NoError(t, err)
	assert.False(t, back)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 2, strings.Count(out.String(), "Please enter a number between 1 and 2."))
}

func TestAskChoice_Back(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("B\n"))

	_, back, err := askChoice(promptCmd(new(bytes.Buffer)), reader, []string{"one"}, true)
	require.NoError(t, err)
	assert.True(t, back)
}

func TestAskChoice_BackNotAllowed(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("b\n1"))

	idx, back, err := askChoice(promptCmd(new(bytes.Buffer)), reader, []string{"one"}, false)
	require.NoError(t, err)
	assert.False(t, back)
	assert.Equal(t, 0, idx)
}

func TestAskChoice_InputEnded(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("7\n"))

	_, _, err := askChoice(promptCmd(new(bytes.Buffer)), reader, []string{"one"}, false)
	assert.ErrorIs(t, err, errInputEnded)
}

func TestAskYesNo(t *testing.T) {
	tests := []struct {
		input string
		def   bool
		want  bool
	}{
		{"y\n", false, true},
		{"YES\n", false, true},
		{"n\n", true, false},
		{"\n", true, true},
		{"\n", false, false},
		{"maybe\ny\n", false, true},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			reader := bufio.NewReader(strings.NewReader(tt.input))
			got, err := askYesNo(promptCmd(new(bytes.Buffer)), reader, "Continue?", tt.def)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequireTerminal_AllowsNonFileReaders(t *testing.T) {
	assert.NoError(t, requireTerminal(strings.NewReader("")))
}
