package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scholardocs/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/scholardocs/internal/core/domain"
	"github.com/custodia-labs/scholardocs/internal/core/ports/driving"
	"github.com/custodia-labs/scholardocs/internal/core/services"
)

// stubTools implements driving.DocumentToolService without touching PDFs.
type stubTools struct {
	jobs      []domain.ToolJob
	runErr    error
	discarded []string
}

var _ driving.DocumentToolService = (*stubTools)(nil)

func (s *stubTools) Run(_ context.Context, job domain.ToolJob, onProgress domain.ProgressFunc) (*domain.ToolOutput, error) {
	s.jobs = append(s.jobs, job)
	if onProgress != nil {
		onProgress(100)
	}
	if s.runErr != nil {
		return nil, s.runErr
	}
	return &domain.ToolOutput{Data: make([]byte, 150<<10), SuggestedName: "out.pdf", Pages: len(job.Inputs), Stage: 1}, nil
}

func (s *stubTools) SuggestedNames(op domain.ToolOperation, sel domain.SelectionState) []string {
	if sel.Complete() {
		return []string{"Sem1_Sem2_Marksheet.pdf"}
	}
	return []string{"Merged.pdf"}
}

func (s *stubTools) Hold(*domain.ToolOutput) (string, error) {
	return "h1", nil
}

func (s *stubTools) Download(_, dir, name string) (string, error) {
	return filepath.Join(dir, name), nil
}

func (s *stubTools) Discard(handle string) error {
	s.discarded = append(s.discarded, handle)
	return nil
}

func (s *stubTools) Limits() domain.ToolSettings {
	return domain.DefaultAppSettings().Tools
}

// testServices holds the services installed for a test.
type testServices struct {
	Tools *stubTools
	Jobs  *memory.JobStore
	Services
}

// setupTestServices installs real services over in-memory stores and
// restores the previous wiring when the test ends.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()

	prev := Services{
		Requirements: requirementService,
		Wizard:       wizardService,
		Tools:        toolService,
		History:      historyService,
		Settings:     settingsService,
	}
	t.Cleanup(func() { SetServices(prev) })

	reqs, err := services.NewRequirementService(nil, 8)
	require.NoError(t, err)

	ts := &testServices{Tools: &stubTools{}, Jobs: memory.NewJobStore()}
	ts.Services = Services{
		Requirements: reqs,
		Wizard:       services.NewWizardService(memory.NewStateStore(), domain.LanguageEnglish),
		Tools:        ts.Tools,
		History:      services.NewHistoryService(ts.Jobs),
		Settings:     services.NewSettingsService(memory.NewConfigStore()),
	}
	SetServices(ts.Services)
	return ts
}

// resetFlags puts every flag back to its default so commands can run
// more than once in a test binary.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// runCommand executes the root command with args and returns its output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}
