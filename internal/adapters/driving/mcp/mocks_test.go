package mcp

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scholardocs/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/scholardocs/internal/core/domain"
	"github.com/custodia-labs/scholardocs/internal/core/ports/driving"
	"github.com/custodia-labs/scholardocs/internal/core/services"
)

// mockToolService is a mock implementation of driving.DocumentToolService.
type mockToolService struct {
	output    *domain.ToolOutput
	err       error
	jobs      []domain.ToolJob
	discarded int
	dir, name string
}

var _ driving.DocumentToolService = (*mockToolService)(nil)

func (m *mockToolService) Run(_ context.Context, job domain.ToolJob, _ domain.ProgressFunc) (*domain.ToolOutput, error) {
	m.jobs = append(m.jobs, job)
	if m.err != nil {
		return nil, m.err
	}
	if m.output != nil {
		return m.output, nil
	}
	return &domain.ToolOutput{Data: make([]byte, 100), SuggestedName: "merged.pdf", Pages: 2, Stage: -1}, nil
}

func (m *mockToolService) SuggestedNames(domain.ToolOperation, domain.SelectionState) []string {
	return []string{"Sem1_Sem2_Marksheet.pdf"}
}

func (m *mockToolService) Hold(*domain.ToolOutput) (string, error) {
	return "handle", nil
}

func (m *mockToolService) Download(_, dir, name string) (string, error) {
	m.dir, m.name = dir, name
	if name == "" {
		name = "merged.pdf"
	}
	return filepath.Join(dir, name), nil
}

func (m *mockToolService) Discard(string) error {
	m.discarded++
	return nil
}

func (m *mockToolService) Limits() domain.ToolSettings {
	return domain.DefaultAppSettings().Tools
}

// newTestPorts wires the real requirement and wizard services over memory stores.
func newTestPorts(t *testing.T) *Ports {
	t.Helper()
	reqs, err := services.NewRequirementService(nil, 8)
	require.NoError(t, err)
	return &Ports{
		Requirements: reqs,
		Tools:        &mockToolService{},
		Wizard:       services.NewWizardService(memory.NewStateStore(), domain.LanguageEnglish),
	}
}
