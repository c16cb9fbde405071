package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scholardocs/internal/core/domain"
)

func writeInputs(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(paths[i], []byte("%PDF-1.4 "+name), 0600))
	}
	return paths
}

func TestToolMerge(t *testing.T) {
	ts := setupTestServices(t)
	paths := writeInputs(t, "sem3.pdf", "sem4.pdf")
	outDir := t.TempDir()

	out, err := runCommand(t, append([]string{"tool", "merge", "-o", outDir, "-n", "Sem3_Sem4_Marksheet.pdf"}, paths...)...)

	require.NoError(t, err)
	assert.Contains(t, out, "Saved "+filepath.Join(outDir, "Sem3_Sem4_Marksheet.pdf"))
	assert.Contains(t, out, "Pages: 2")
	assert.Contains(t, out, "Size:  150 KB")
	assert.NotContains(t, out, "Compression level")

	require.Len(t, ts.Tools.jobs, 1)
	job := ts.Tools.jobs[0]
	assert.Equal(t, domain.OpMerge, job.Operation)
	require.Len(t, job.Inputs, 2)
	assert.Equal(t, "sem3.pdf", job.Inputs[0].Name)
}

func TestToolImages_ShowsCompressionLevel(t *testing.T) {
	setupTestServices(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "aadhaar.jpg")
	require.NoError(t, os.WriteFile(path, []byte{0xFF, 0xD8, 0xFF}, 0600))

	out, err := runCommand(t, "tool", "images", "-o", dir, path)

	require.NoError(t, err)
	assert.Contains(t, out, "Compression level: 2")
}

func TestToolCompress_RequiresOneFile(t *testing.T) {
	setupTestServices(t)
	paths := writeInputs(t, "a.pdf", "b.pdf")

	_, err := runCommand(t, "tool", "compress", paths[0], paths[1])

	assert.Error(t, err)
}

func TestToolMerge_FailureCarriesSuggestion(t *testing.T) {
	ts := setupTestServices(t)
	ts.Tools.runErr = domain.NewToolError(domain.ToolErrMergeTooLarge, "merged file is 400 KB", nil)
	paths := writeInputs(t, "a.pdf", "b.pdf")

	_, err := runCommand(t, append([]string{"tool", "merge"}, paths...)...)

	require.Error(t, err)
	kind, ok := domain.ToolErrorKindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.ToolErrMergeTooLarge, kind)
	assert.Contains(t, err.Error(), domain.ToolErrMergeTooLarge.Suggestion())
}

func TestToolMerge_MissingFile(t *testing.T) {
	ts := setupTestServices(t)

	_, err := runCommand(t, "tool", "merge", filepath.Join(t.TempDir(), "missing.pdf"))

	assert.Error(t, err)
	assert.Empty(t, ts.Tools.jobs)
}

func TestToolNames(t *testing.T) {
	ts := setupTestServices(t)

	out, err := runCommand(t, "tool", "names", "merge")
	require.NoError(t, err)
	assert.Contains(t, out, "No complete answers saved")
	assert.Contains(t, out, "Merged.pdf")

	ctx := context.Background()
	_, err = ts.Wizard.SelectStream(ctx, domain.StreamNursing)
	require.NoError(t, err)
	_, err = ts.Wizard.SelectCategory(ctx, domain.CategoryST)
	require.NoError(t, err)
	_, err = ts.Wizard.SelectYear(ctx, 2)
	require.NoError(t, err)

	out, err = runCommand(t, "tool", "names", "merge")
	require.NoError(t, err)
	assert.NotContains(t, out, "No complete answers saved")
	assert.Contains(t, out, "Sem1_Sem2_Marksheet.pdf")

	_, err = runCommand(t, "tool", "names", "rotate")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestToolHistory(t *testing.T) {
	ts := setupTestServices(t)

	out, err := runCommand(t, "tool", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No tool runs recorded.")

	ctx := context.Background()
	require.NoError(t, ts.Jobs.Record(ctx, domain.JobRecord{
		ID: "1", Operation: domain.OpCompress, InputCount: 1,
		InputBytes: 2 << 20, OutputBytes: 220 << 10,
		Outcome: domain.JobOutcomeOK, CreatedAt: time.Now(),
	}))
	require.NoError(t, ts.Jobs.Record(ctx, domain.JobRecord{
		ID: "2", Operation: domain.OpMerge, InputCount: 4,
		InputBytes: 900 << 10, Outcome: string(domain.ToolErrMergeTooLarge),
		CreatedAt: time.Now().Add(time.Minute),
	}))

	out, err = runCommand(t, "tool", "history", "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "OPERATION")
	assert.Contains(t, out, "2.0 MB")
	assert.Contains(t, out, "220 KB")
	assert.Contains(t, out, "merge too large")
}

func TestParseOperation(t *testing.T) {
	tests := []struct {
		in   string
		want domain.ToolOperation
	}{
		{"merge", domain.OpMerge},
		{"Compress", domain.OpCompress},
		{"images", domain.OpImagesToPDF},
		{"images-to-pdf", domain.OpImagesToPDF},
	}
	for _, tt := range tests {
		got, err := parseOperation(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "512 B", humanSize(512))
	assert.Equal(t, "230 KB", humanSize(230<<10))
	assert.Equal(t, "7.0 MB", humanSize(7<<20))
}
