package tool

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scholardocs/internal/core/domain"
	"github.com/custodia-labs/scholardocs/internal/core/ports/driving"
)

var _ driving.DocumentToolService = (*mockTools)(nil)

type mockTools struct {
	mu        sync.Mutex
	jobs      []domain.ToolJob
	runErr    error
	discarded []string
	savedName string
}

func (m *mockTools) Run(_ context.Context, job domain.ToolJob, onProgress domain.ProgressFunc) (*domain.ToolOutput, error) {
	m.mu.Lock()
	m.jobs = append(m.jobs, job)
	m.mu.Unlock()
	if onProgress != nil {
		onProgress(40)
		onProgress(90)
	}
	if m.runErr != nil {
		return nil, m.runErr
	}
	return &domain.ToolOutput{Data: make([]byte, 2048), Pages: 3, SuggestedName: "merged.pdf", Stage: -1}, nil
}

func (m *mockTools) SuggestedNames(op domain.ToolOperation, sel domain.SelectionState) []string {
	if op != domain.OpMerge {
		return nil
	}
	return []string{"merged.pdf", "Bonafide_Fees.pdf"}
}

func (m *mockTools) Hold(*domain.ToolOutput) (string, error) {
	return "handle-1", nil
}

func (m *mockTools) Download(handle, dir, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.savedName = name
	return filepath.Join("/out", name), nil
}

func (m *mockTools) Discard(handle string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.discarded = append(m.discarded, handle)
	return nil
}

func (m *mockTools) Limits() domain.ToolSettings {
	return domain.ToolSettings{MaxInputBytes: domain.MaxInputBytes, TargetBytes: domain.TargetOutputBytes}
}

func newTestView(t *testing.T, tools *mockTools) *View {
	t.Helper()
	v := NewView(nil, tools, nil)
	v.SetDimensions(100, 40)
	return v
}

func writeFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.7 test"), 0600))
	return path
}

// runToEnd feeds every message from cmd back into the view until the job
// finishes.
func runToEnd(t *testing.T, v *View, cmd tea.Cmd) {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return
		}
		_, cmd = v.Update(msg)
	}
}

func pickOperation(v *View, index int) {
	v.ops.Select(index)
	v.Update(tea.KeyMsg{Type: tea.KeyEnter})
}

func addPath(v *View, path string) tea.Cmd {
	v.path.SetValue(path)
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return cmd
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil, nil)

	require.NotNil(t, v)
	assert.Equal(t, PhasePick, v.Phase())
	assert.Len(t, v.ops.Options(), 3)
	assert.Equal(t, 80, v.width)
	assert.False(t, v.ready)
	assert.Contains(t, v.View(), "Initialising")
	assert.Nil(t, v.Init())
}

func TestView_MergeFlow(t *testing.T) {
	tools := &mockTools{}
	v := newTestView(t, tools)

	pickOperation(v, 0)
	require.Equal(t, PhaseFiles, v.Phase())
	assert.Contains(t, v.View(), "Merge PDFs")

	first := writeFile(t, "bonafide.pdf")
	second := writeFile(t, "fees.pdf")
	assert.Nil(t, addPath(v, first))
	assert.Nil(t, addPath(v, `"`+second+`"`))
	assert.Equal(t, []string{first, second}, v.Files())
	assert.Contains(t, v.View(), "2. fees.pdf")

	cmd := addPath(v, "")
	require.NotNil(t, cmd)
	assert.Equal(t, PhaseRunning, v.Phase())
	runToEnd(t, v, cmd)

	require.Equal(t, PhaseDone, v.Phase())
	require.Len(t, tools.jobs, 1)
	assert.Equal(t, domain.OpMerge, tools.jobs[0].Operation)
	assert.Len(t, tools.jobs[0].Inputs, 2)
	assert.Equal(t, 100, v.percent)

	output := v.View()
	assert.Contains(t, output, "Your PDF is ready")
	assert.Contains(t, output, "Pages: 3")
	assert.Contains(t, output, "2 KB")
	assert.NotContains(t, output, "Compression level")

	// The default name is not repeated.
	names := v.names.Options()
	require.Len(t, names, 2)
	assert.Equal(t, "merged.pdf", names[0].Label)
	assert.Equal(t, "Bonafide_Fees.pdf", names[1].Label)

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	v.Update(cmd())

	assert.Equal(t, PhaseSaved, v.Phase())
	assert.Equal(t, "Bonafide_Fees.pdf", tools.savedName)
	assert.Contains(t, v.View(), filepath.Join("/out", "Bonafide_Fees.pdf"))
	assert.Empty(t, v.handle)
}

func TestView_CompressRunsAfterOneFile(t *testing.T) {
	tools := &mockTools{}
	v := newTestView(t, tools)

	pickOperation(v, 1)
	cmd := addPath(v, writeFile(t, "big.pdf"))

	require.NotNil(t, cmd)
	assert.Equal(t, PhaseRunning, v.Phase())
	runToEnd(t, v, cmd)
	assert.Equal(t, PhaseDone, v.Phase())
	assert.Equal(t, domain.OpCompress, tools.jobs[0].Operation)
}

func TestView_FileErrors(t *testing.T) {
	v := newTestView(t, &mockTools{})
	pickOperation(v, 2)

	// Empty input with no files.
	assert.Nil(t, addPath(v, ""))
	assert.Contains(t, v.Err().Error(), "add at least one file")

	assert.Nil(t, addPath(v, filepath.Join(t.TempDir(), "missing.jpg")))
	assert.ErrorIs(t, v.Err(), os.ErrNotExist)

	assert.Nil(t, addPath(v, t.TempDir()))
	assert.Contains(t, v.Err().Error(), "is a folder")
	assert.Empty(t, v.Files())
	assert.Contains(t, v.View(), "Error:")
}

func TestView_ToolErrorShowsSuggestion(t *testing.T) {
	tools := &mockTools{runErr: domain.NewToolError(domain.ToolErrCannotCompressUnderTarget, "still 400 KB", nil)}
	v := newTestView(t, tools)

	pickOperation(v, 1)
	runToEnd(t, v, addPath(v, writeFile(t, "scan.pdf")))

	assert.Equal(t, PhaseFiles, v.Phase())
	kind, ok := domain.ToolErrorKindOf(v.Err())
	require.True(t, ok)
	assert.Equal(t, domain.ToolErrCannotCompressUnderTarget, kind)
	assert.Contains(t, v.View(), "Reduce the page count")
}

func TestView_RemoveLastFile(t *testing.T) {
	v := newTestView(t, &mockTools{})
	pickOperation(v, 0)
	addPath(v, writeFile(t, "a.pdf"))
	addPath(v, writeFile(t, "b.pdf"))

	v.Update(tea.KeyMsg{Type: tea.KeyCtrlU})

	require.Len(t, v.Files(), 1)
	assert.Equal(t, "a.pdf", filepath.Base(v.Files()[0]))
}

func TestView_EscDiscardsHeldOutput(t *testing.T) {
	tools := &mockTools{}
	v := newTestView(t, tools)
	pickOperation(v, 1)
	runToEnd(t, v, addPath(v, writeFile(t, "scan.pdf")))
	require.Equal(t, PhaseDone, v.Phase())

	v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, PhasePick, v.Phase())
	assert.Equal(t, []string{"handle-1"}, tools.discarded)
	assert.Empty(t, v.Files())
}

func TestView_Navigation(t *testing.T) {
	v := newTestView(t, &mockTools{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())

	pickOperation(v, 0)
	v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, PhasePick, v.Phase())
}

func TestView_KeysIgnoredWhileRunning(t *testing.T) {
	v := newTestView(t, &mockTools{})
	v.phase = PhaseRunning

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Nil(t, cmd)
	assert.Equal(t, PhaseRunning, v.Phase())
}

func TestView_ProgressNeverDecreases(t *testing.T) {
	v := newTestView(t, &mockTools{})

	v.Update(messages.ToolProgress{Percent: 60})
	v.Update(messages.ToolProgress{Percent: 30})

	assert.Equal(t, 60, v.percent)
}

func TestView_PickShowsLimits(t *testing.T) {
	v := newTestView(t, &mockTools{})

	output := v.View()

	assert.Contains(t, output, "Images to PDF")
	assert.Contains(t, output, "7.0 MB")
	assert.Contains(t, output, "230 KB")
}

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "512 B", humanSize(512))
	assert.Equal(t, "230 KB", humanSize(230<<10))
	assert.Equal(t, "7.0 MB", humanSize(7<<20))
}
