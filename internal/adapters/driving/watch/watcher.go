// Package watch converts files dropped into a folder into portal-ready PDFs.
//
// Images become single-page PDFs through the images-to-PDF pipeline and PDFs
// over the size target are compressed. Results are written to an output
// folder, "converted" inside the watched folder by default.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/scholardocs/internal/adapters/driving/request"
	"github.com/custodia-labs/scholardocs/internal/core/domain"
	"github.com/custodia-labs/scholardocs/internal/core/ports/driving"
	"github.com/custodia-labs/scholardocs/internal/logger"
)

const (
	// DefaultSettle is how long a file must stay unchanged before it is read.
	DefaultSettle = 750 * time.Millisecond

	defaultOutputDir = "converted"
)

// ErrClosed is returned by Watch after Close.
var ErrClosed = errors.New("watcher closed")

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true,
	".tif": true, ".tiff": true, ".webp": true, ".heic": true, ".heif": true,
}

// Result reports what happened to one dropped file.
type Result struct {
	Input     string
	Output    string
	Operation domain.ToolOperation
	Pages     int
	Bytes     int64
	// Skipped holds the reason a file was left alone. Empty when processed.
	Skipped string
	Err     error
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithOutputDir sets where converted files are written.
func WithOutputDir(dir string) Option {
	return func(w *Watcher) {
		if dir != "" {
			w.outDir = dir
		}
	}
}

// WithSettle sets the quiet period before a changed file is processed.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.settle = d
		}
	}
}

// Watcher processes files as they appear in one directory. Subdirectories
// are not watched.
type Watcher struct {
	dir    string
	outDir string
	settle time.Duration
	tools  driving.DocumentToolService

	mu      sync.Mutex
	closed  bool
	pending map[string]*time.Timer
	written map[string]bool
	cancel  context.CancelFunc
}

// New creates a watcher for dir.
func New(dir string, tools driving.DocumentToolService, opts ...Option) *Watcher {
	w := &Watcher{
		dir:     dir,
		outDir:  filepath.Join(dir, defaultOutputDir),
		settle:  DefaultSettle,
		tools:   tools,
		pending: make(map[string]*time.Timer),
		written: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// OutputDir returns where converted files are written.
func (w *Watcher) OutputDir() string {
	return w.outDir
}

// Watch starts watching and returns a channel of results. The channel is
// closed when ctx is cancelled or Close is called.
func (w *Watcher) Watch(ctx context.Context) (<-chan Result, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, ErrClosed
	}
	w.mu.Unlock()

	info, err := os.Stat(w.dir)
	if err != nil {
		return nil, fmt.Errorf("watch dir error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch dir error: %s is not a directory", w.dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", w.dir, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	w.mu.Lock()
	w.cancel = cancel
	w.mu.Unlock()

	results := make(chan Result)
	ready := make(chan string, 32)

	go func() {
		defer cancel()
		defer close(results)
		defer fsw.Close()
		defer w.stopTimers()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				if path, ok := w.handleFsEvent(event); ok {
					w.schedule(ctx, path, ready)
				}

			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				logger.Warn("watch: %v", err)

			case path := <-ready:
				res := w.process(ctx, path)
				select {
				case results <- res:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	logger.Debug("watch: watching %s, writing to %s", w.dir, w.outDir)
	return results, nil
}

// Close stops any running watch.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	if w.cancel != nil {
		w.cancel()
	}
	return nil
}

// handleFsEvent returns the path to process for a create or write of a
// supported, visible file.
func (w *Watcher) handleFsEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if isHidden(filepath.Base(event.Name)) {
		return "", false
	}
	if _, ok := operationFor(event.Name); !ok {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return "", false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.written[filepath.Clean(event.Name)] {
		return "", false
	}
	return event.Name, true
}

// schedule debounces a path: each new event restarts its settle timer.
func (w *Watcher) schedule(ctx context.Context, path string, ready chan<- string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		select {
		case ready <- path:
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) process(ctx context.Context, path string) Result {
	op, _ := operationFor(path)
	res := Result{Input: path, Operation: op}

	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = fmt.Errorf("reading %s: %w", path, err)
		return res
	}
	if len(data) == 0 {
		res.Skipped = "file is empty"
		return res
	}
	if op == domain.OpCompress && int64(len(data)) <= w.tools.Limits().TargetBytes {
		res.Skipped = "already under the size limit"
		return res
	}

	name := filepath.Base(path)
	job := domain.ToolJob{
		Operation: op,
		Inputs:    []domain.InputFile{{Name: name, MIMEHint: request.MIMEHint(path), Data: data}},
	}
	out, err := w.tools.Run(ctx, job, nil)
	if err != nil {
		res.Err = err
		return res
	}

	handle, err := w.tools.Hold(out)
	if err != nil {
		res.Err = err
		return res
	}
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	written, err := w.tools.Download(handle, w.outDir, stem+".pdf")
	if err != nil {
		res.Err = err
		return res
	}

	w.mu.Lock()
	w.written[filepath.Clean(written)] = true
	w.mu.Unlock()

	res.Output = written
	res.Pages = out.Pages
	res.Bytes = int64(len(out.Data))
	return res
}

// operationFor picks the tool for a dropped file by extension.
func operationFor(path string) (domain.ToolOperation, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".pdf":
		return domain.OpCompress, true
	case imageExts[ext]:
		return domain.OpImagesToPDF, true
	default:
		return "", false
	}
}

// isHidden reports whether any path element starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "" || part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
