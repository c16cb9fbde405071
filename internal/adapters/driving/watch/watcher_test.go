package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scholardocs/internal/core/domain"
	"github.com/custodia-labs/scholardocs/internal/core/ports/driving"
)

var _ driving.DocumentToolService = (*fakeTools)(nil)

// fakeTools turns any input into a fixed PDF and writes it like the real service.
type fakeTools struct {
	mu   sync.Mutex
	jobs []domain.ToolJob
	held map[string]*domain.ToolOutput
	err  error
}

func newFakeTools() *fakeTools {
	return &fakeTools{held: make(map[string]*domain.ToolOutput)}
}

func (f *fakeTools) Run(_ context.Context, job domain.ToolJob, _ domain.ProgressFunc) (*domain.ToolOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, job)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.ToolOutput{Data: []byte("%PDF-fake"), Pages: 1, SuggestedName: "out.pdf"}, nil
}

func (f *fakeTools) SuggestedNames(domain.ToolOperation, domain.SelectionState) []string { return nil }

func (f *fakeTools) Hold(out *domain.ToolOutput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h := "h" + string(rune('0'+len(f.held)))
	f.held[h] = out
	return h, nil
}

func (f *fakeTools) Download(handle, dir, name string) (string, error) {
	f.mu.Lock()
	out := f.held[handle]
	f.mu.Unlock()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	return path, os.WriteFile(path, out.Data, 0600)
}

func (f *fakeTools) Discard(string) error { return nil }

func (f *fakeTools) Limits() domain.ToolSettings {
	return domain.ToolSettings{MaxInputBytes: domain.MaxInputBytes, TargetBytes: 64}
}

func (f *fakeTools) jobCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.jobs)
}

func nextResult(t *testing.T, results <-chan Result) Result {
	t.Helper()
	select {
	case res, ok := <-results:
		require.True(t, ok, "results channel closed")
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for watch result")
		return Result{}
	}
}

func TestWatcher_ConvertsDroppedImage(t *testing.T) {
	dir := t.TempDir()
	tools := newFakeTools()
	w := New(dir, tools, WithSettle(20*time.Millisecond))
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	results, err := w.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "Aadhaar Scan.jpg"), []byte("jpeg bytes"), 0600))

	res := nextResult(t, results)
	require.NoError(t, res.Err)
	assert.Equal(t, domain.OpImagesToPDF, res.Operation)
	assert.Equal(t, filepath.Join(dir, "converted", "Aadhaar Scan.pdf"), res.Output)
	assert.Equal(t, 1, res.Pages)
	assert.FileExists(t, res.Output)

	tools.mu.Lock()
	job := tools.jobs[0]
	tools.mu.Unlock()
	require.Len(t, job.Inputs, 1)
	assert.Equal(t, "Aadhaar Scan.jpg", job.Inputs[0].Name)
	assert.Equal(t, "image/jpeg", job.Inputs[0].MIMEHint)
}

func TestWatcher_CompressesLargePDFAndSkipsSmallOne(t *testing.T) {
	dir := t.TempDir()
	out := t.TempDir()
	tools := newFakeTools()
	w := New(dir, tools, WithSettle(20*time.Millisecond), WithOutputDir(out))
	defer w.Close()
	assert.Equal(t, out, w.OutputDir())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	results, err := w.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "small.pdf"), []byte("%PDF-tiny"), 0600))
	res := nextResult(t, results)
	assert.Equal(t, domain.OpCompress, res.Operation)
	assert.Equal(t, "already under the size limit", res.Skipped)
	assert.Empty(t, res.Output)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "big.pdf"), make([]byte, 1024), 0600))
	res = nextResult(t, results)
	require.NoError(t, res.Err)
	assert.Equal(t, filepath.Join(out, "big.pdf"), res.Output)
	assert.Equal(t, 1, tools.jobCount())
}

func TestWatcher_ReportsToolErrors(t *testing.T) {
	dir := t.TempDir()
	tools := newFakeTools()
	tools.err = domain.NewToolError(domain.ToolErrDecodeFailed, "bad image", nil)
	w := New(dir, tools, WithSettle(20*time.Millisecond))
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	results, err := w.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("nope"), 0600))

	res := nextResult(t, results)
	kind, ok := domain.ToolErrorKindOf(res.Err)
	require.True(t, ok)
	assert.Equal(t, domain.ToolErrDecodeFailed, kind)
}

func TestWatcher_OutputInsideWatchedDirIsNotReprocessed(t *testing.T) {
	dir := t.TempDir()
	tools := newFakeTools()
	w := New(dir, tools, WithSettle(20*time.Millisecond), WithOutputDir(dir))
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	results, err := w.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "scan.png"), []byte("png"), 0600))
	res := nextResult(t, results)
	require.NoError(t, res.Err)
	assert.Equal(t, filepath.Join(dir, "scan.pdf"), res.Output)

	select {
	case extra := <-results:
		t.Fatalf("output was processed again: %+v", extra)
	case <-time.After(300 * time.Millisecond):
	}
	assert.Equal(t, 1, tools.jobCount())
}

func TestWatcher_ChannelClosesOnCancel(t *testing.T) {
	w := New(t.TempDir(), newFakeTools())
	ctx, cancel := context.WithCancel(context.Background())

	results, err := w.Watch(ctx)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-results:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel did not close after context cancellation")
	}
}

func TestWatcher_Errors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		w := New(filepath.Join(t.TempDir(), "missing"), newFakeTools())
		results, err := w.Watch(context.Background())
		assert.Nil(t, results)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "watch dir error")
	})

	t.Run("file instead of directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file.pdf")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0600))
		_, err := New(file, newFakeTools()).Watch(context.Background())
		assert.Error(t, err)
	})

	t.Run("closed", func(t *testing.T) {
		w := New(t.TempDir(), newFakeTools())
		require.NoError(t, w.Close())
		_, err := w.Watch(context.Background())
		assert.ErrorIs(t, err, ErrClosed)
	})
}

func TestHandleFsEvent(t *testing.T) {
	dir := t.TempDir()
	w := New(dir, newFakeTools())

	write := func(name string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("x"), 0600))
		return p
	}
	scan := write("scan.jpg")
	doc := write("doc.PDF")
	notes := write("notes.txt")
	hidden := write(".scan.jpg")
	sub := filepath.Join(dir, "folder.jpg")
	require.NoError(t, os.Mkdir(sub, 0755))

	tests := []struct {
		name string
		path string
		op   fsnotify.Op
		want bool
	}{
		{"create image", scan, fsnotify.Create, true},
		{"write pdf", doc, fsnotify.Write, true},
		{"chmod ignored", scan, fsnotify.Chmod, false},
		{"remove ignored", scan, fsnotify.Remove, false},
		{"unsupported extension", notes, fsnotify.Create, false},
		{"hidden file", hidden, fsnotify.Create, false},
		{"directory", sub, fsnotify.Create, false},
		{"already gone", filepath.Join(dir, "gone.jpg"), fsnotify.Create, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, ok := w.handleFsEvent(fsnotify.Event{Name: tt.path, Op: tt.op})
			assert.Equal(t, tt.want, ok)
			if tt.want {
				assert.Equal(t, tt.path, path)
			}
		})
	}
}

func TestOperationFor(t *testing.T) {
	tests := map[string]struct {
		op domain.ToolOperation
		ok bool
	}{
		"a.pdf":  {domain.OpCompress, true},
		"a.JPEG": {domain.OpImagesToPDF, true},
		"a.heic": {domain.OpImagesToPDF, true},
		"a.webp": {domain.OpImagesToPDF, true},
		"a.docx": {"", false},
		"a":      {"", false},
	}
	for path, want := range tests {
		t.Run(path, func(t *testing.T) {
			op, ok := operationFor(path)
			assert.Equal(t, want.ok, ok)
			assert.Equal(t, want.op, op)
		})
	}
}

func TestIsHidden(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{".hidden", true},
		{"path/to/.hidden", true},
		{"/a/.b/file.txt", true},
		{"file.txt", false},
		{"file.hidden", false},
		{".", false},
		{"..", false},
		{"path/../file", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, isHidden(tt.path))
		})
	}
}
