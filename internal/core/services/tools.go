package services

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/scholardocs/internal/core/domain"
	"github.com/custodia-labs/scholardocs/internal/core/ports/driven"
	"github.com/custodia-labs/scholardocs/internal/core/ports/driving"
	"github.com/custodia-labs/scholardocs/internal/logger"
)

// Ensure ToolService implements the interface.
var _ driving.DocumentToolService = (*ToolService)(nil)

// DefaultDecodeConcurrency bounds parallel image decoding within one job.
const DefaultDecodeConcurrency = 4

// Progress checkpoints for the images-to-PDF path.
const decodeProgressShare = 20

// Default output names when the caller has not picked one.
const (
	defaultMergedName = "Merged_Document.pdf"
	defaultImagesName = "Scanned_Document.pdf"
)

// fallbackNames are offered when no complete selection is available.
var fallbackNames = []string{
	"Aadhaar_Card.pdf",
	"Income_Certificate.pdf",
	"Domicile_Certificate.pdf",
	"10th_Marksheet.pdf",
	"12th_Marksheet.pdf",
	"Admission_Receipt.pdf",
}

// ToolOption configures a ToolService.
type ToolOption func(*ToolService)

// WithLimits sets the input ceiling, output target, output dir and release grace.
func WithLimits(limits domain.ToolSettings) ToolOption {
	return func(s *ToolService) {
		s.limits = limits
	}
}

// WithStages replaces the compression ladder.
func WithStages(stages []domain.CompressionStage) ToolOption {
	return func(s *ToolService) {
		if len(stages) > 0 {
			s.stages = stages
		}
	}
}

// WithImageConverter enables HEIC normalisation.
func WithImageConverter(c driven.ImageConverter) ToolOption {
	return func(s *ToolService) {
		s.converter = c
	}
}

// WithJobStore records every finished job.
func WithJobStore(store driven.JobStore) ToolOption {
	return func(s *ToolService) {
		s.jobs = store
	}
}

// WithDecodeConcurrency sets how many images are decoded at once.
func WithDecodeConcurrency(n int) ToolOption {
	return func(s *ToolService) {
		if n > 0 {
			s.decodeLimit = n
		}
	}
}

// ToolService turns user files into a single PDF under the target size.
// Only one job runs at a time.
type ToolService struct {
	pdf          driven.PDFEngine
	raster       driven.RasterEncoder
	blobs        driven.BlobStore
	requirements driving.RequirementService
	converter    driven.ImageConverter
	jobs         driven.JobStore

	limits      domain.ToolSettings
	stages      []domain.CompressionStage
	decodeLimit int

	slot chan struct{}
}

// NewToolService creates a document tool service.
// requirements may be nil, in which case SuggestedNames offers a fixed list.
func NewToolService(
	pdf driven.PDFEngine,
	raster driven.RasterEncoder,
	blobs driven.BlobStore,
	requirements driving.RequirementService,
	opts ...ToolOption,
) *ToolService {
	s := &ToolService{
		pdf:          pdf,
		raster:       raster,
		blobs:        blobs,
		requirements: requirements,
		limits:       domain.DefaultAppSettings().Tools,
		stages:       domain.DefaultCompressionStages(),
		decodeLimit:  DefaultDecodeConcurrency,
		slot:         make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Limits returns the effective ceilings.
func (s *ToolService) Limits() domain.ToolSettings {
	return s.limits
}

// Run executes one job after any running job has finished.
// ctx only bounds the wait for the slot; a started job always completes.
func (s *ToolService) Run(
	ctx context.Context,
	job domain.ToolJob,
	onProgress domain.ProgressFunc,
) (*domain.ToolOutput, error) {
	select {
	case s.slot <- struct{}{}:
	case <-ctx.Done():
		return nil, domain.NewToolError(domain.ToolErrProcessingFailed,
			"another job is still running", fmt.Errorf("%w: %w", domain.ErrToolBusy, ctx.Err()))
	}
	defer func() { <-s.slot }()
	defer logger.Timed("tools: " + job.Operation.String())()

	logger.Section(fmt.Sprintf("Tool: %s", job.Operation.Description()))
	logger.Debug("tools: %d input(s), %d bytes", len(job.Inputs), job.TotalBytes())

	started := time.Now()
	progress := newProgressReporter(onProgress)
	out, err := s.execute(job, progress)
	s.record(job, out, err, started)

	if err != nil {
		logger.Debug("tools: job failed: %v", err)
		return nil, err
	}
	logger.Debug("tools: produced %d bytes, %d page(s)", len(out.Data), out.Pages)
	return out, nil
}

// execute runs the job and converts any panic into a ProcessingFailed error.
func (s *ToolService) execute(job domain.ToolJob, p *progressReporter) (out *domain.ToolOutput, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = panicError(r)
		}
	}()

	if err := s.checkJob(job); err != nil {
		return nil, err
	}
	p.report(0)

	switch job.Operation {
	case domain.OpImagesToPDF:
		return s.imagesToPDF(job, p)
	default:
		return s.mergePDFs(job, p)
	}
}

func (s *ToolService) checkJob(job domain.ToolJob) error {
	if !job.Operation.IsValid() {
		return domain.NewToolError(domain.ToolErrProcessingFailed,
			fmt.Sprintf("unknown operation %q", job.Operation), domain.ErrUnsupportedType)
	}
	if len(job.Inputs) == 0 {
		return domain.NewToolError(domain.ToolErrProcessingFailed, "no input files", domain.ErrInvalidInput)
	}
	if job.Operation == domain.OpCompress && len(job.Inputs) != 1 {
		return domain.NewToolError(domain.ToolErrProcessingFailed,
			"compress takes exactly one PDF; use merge for several", domain.ErrInvalidInput)
	}
	if total := job.TotalBytes(); total > s.limits.MaxInputBytes {
		return domain.NewToolError(domain.ToolErrInputTooLarge,
			fmt.Sprintf("inputs total %s, limit is %s", formatBytes(total), formatBytes(s.limits.MaxInputBytes)), nil)
	}
	return nil
}

// mergePDFs concatenates pages structurally and re-serialises compactly.
// Embedded images are never re-encoded on this path.
func (s *ToolService) mergePDFs(job domain.ToolJob, p *progressReporter) (*domain.ToolOutput, error) {
	docs := make([][]byte, len(job.Inputs))
	for i, in := range job.Inputs {
		if _, err := s.pdf.PageCount(in.Data); err != nil {
			return nil, domain.NewToolError(domain.ToolErrDecodeFailed,
				fmt.Sprintf("could not read %s as a PDF", displayName(in, i)), err)
		}
		docs[i] = in.Data
		p.report(30 * (i + 1) / len(job.Inputs))
	}

	merged := docs[0]
	if len(docs) > 1 {
		var err error
		merged, err = s.pdf.Merge(docs)
		if err != nil {
			return nil, domain.NewToolError(domain.ToolErrProcessingFailed, "merging failed", err)
		}
	}
	p.report(60)

	optimized, err := s.pdf.Optimize(merged)
	if err != nil {
		return nil, domain.NewToolError(domain.ToolErrProcessingFailed, "optimising failed", err)
	}
	// The optimise pass can grow an already-compact file; keep the smaller.
	if len(merged) < len(optimized) {
		optimized = merged
	}
	p.report(90)
	logger.Debug("tools: merged %d bytes, optimised %d bytes", len(merged), len(optimized))

	if int64(len(optimized)) > s.limits.TargetBytes {
		return nil, domain.NewToolError(domain.ToolErrMergeTooLarge,
			fmt.Sprintf("result is %s, limit is %s", formatBytes(int64(len(optimized))), formatBytes(s.limits.TargetBytes)), nil)
	}

	pages, err := s.pdf.PageCount(optimized)
	if err != nil {
		return nil, domain.NewToolError(domain.ToolErrProcessingFailed, "result could not be re-read", err)
	}
	p.report(100)

	name := defaultMergedName
	if job.Operation == domain.OpCompress {
		name = pdfName(job.Inputs[0].Name, defaultMergedName)
	}
	return &domain.ToolOutput{Data: optimized, SuggestedName: name, Pages: pages, Stage: -1}, nil
}

// imagesToPDF walks the compression ladder until the output fits.
func (s *ToolService) imagesToPDF(job domain.ToolJob, p *progressReporter) (*domain.ToolOutput, error) {
	images, err := s.decodeImages(job.Inputs, p)
	if err != nil {
		return nil, err
	}
	p.report(decodeProgressShare)

	for i, stage := range s.stages {
		jpegs := make([][]byte, len(images))
		for j, img := range images {
			jpegs[j], err = s.raster.Encode(img, stage)
			if err != nil {
				return nil, domain.NewToolError(domain.ToolErrProcessingFailed,
					fmt.Sprintf("encoding %s failed", displayName(job.Inputs[j], j)), err)
			}
		}

		pdf, err := s.pdf.ImagesToPDF(jpegs)
		if err != nil {
			return nil, domain.NewToolError(domain.ToolErrProcessingFailed, "building the PDF failed", err)
		}
		logger.Debug("tools: stage %d (%s) produced %d bytes", i, stage, len(pdf))

		if int64(len(pdf)) <= s.limits.TargetBytes {
			p.report(100)
			return &domain.ToolOutput{
				Data:          pdf,
				SuggestedName: defaultImagesName,
				Pages:         len(images),
				Stage:         i,
			}, nil
		}
		p.report(decodeProgressShare + (100-decodeProgressShare)*(i+1)/(len(s.stages)+1))
	}

	return nil, domain.NewToolError(domain.ToolErrCannotCompressUnderTarget,
		fmt.Sprintf("%d page(s) do not fit in %s even at the lowest quality",
			len(images), formatBytes(s.limits.TargetBytes)), nil)
}

// decodeImages decodes inputs in parallel. Each goroutine writes only its own slot.
func (s *ToolService) decodeImages(inputs []domain.InputFile, p *progressReporter) ([]image.Image, error) {
	images := make([]image.Image, len(inputs))
	var done atomic.Int32

	var g errgroup.Group
	g.SetLimit(s.decodeLimit)
	for i, in := range inputs {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = panicError(r)
				}
			}()

			img, err := s.raster.Decode(s.normalise(in))
			if err != nil {
				return domain.NewToolError(domain.ToolErrDecodeFailed,
					fmt.Sprintf("could not read %s as an image", displayName(in, i)), err)
			}
			images[i] = img
			p.report(decodeProgressShare * int(done.Add(1)) / len(inputs))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}

// normalise converts HEIC input to JPEG, passing the original bytes through on failure.
func (s *ToolService) normalise(in domain.InputFile) []byte {
	if s.converter == nil || !s.converter.Accepts(in.Name, in.MIMEHint, in.Data) {
		return in.Data
	}
	converted, err := s.converter.ToJPEG(in.Data)
	if err != nil {
		logger.Warn("tools: could not convert %s, using original bytes: %v", in.Name, err)
		return in.Data
	}
	return converted
}

func (s *ToolService) record(job domain.ToolJob, out *domain.ToolOutput, err error, started time.Time) {
	if s.jobs == nil {
		return
	}
	rec := domain.JobRecord{
		ID:         uuid.NewString(),
		Operation:  job.Operation,
		InputCount: len(job.Inputs),
		InputBytes: job.TotalBytes(),
		Outcome:    domain.JobOutcomeOK,
		Stage:      -1,
		Duration:   time.Since(started),
		CreatedAt:  started,
	}
	if out != nil {
		rec.OutputBytes = int64(len(out.Data))
		rec.Stage = out.Stage
	}
	if err != nil {
		rec.Outcome = string(domain.ToolErrProcessingFailed)
		if kind, ok := domain.ToolErrorKindOf(err); ok {
			rec.Outcome = string(kind)
		}
	}
	// History is best effort; a failed write never fails the job.
	if recErr := s.jobs.Record(context.Background(), rec); recErr != nil {
		logger.Warn("tools: could not record job: %v", recErr)
	}
}

// SuggestedNames returns canonical file names for an operation.
func (s *ToolService) SuggestedNames(op domain.ToolOperation, state domain.SelectionState) []string {
	if s.requirements == nil || !state.Complete() {
		return append([]string(nil), fallbackNames...)
	}
	result, err := s.requirements.Evaluate(state)
	if err != nil {
		return append([]string(nil), fallbackNames...)
	}
	if op != domain.OpMerge {
		return result.FileNames()
	}

	// Merged uploads first: these are the documents that must be combined.
	var merged, rest []string
	for _, group := range [][]domain.DocumentRequirement{result.Academic, result.Government, result.Hostel} {
		for _, d := range group {
			if d.Badge == domain.BadgeMergeRequired {
				merged = append(merged, d.FileNameHint)
			} else {
				rest = append(rest, d.FileNameHint)
			}
		}
	}
	return append(merged, rest...)
}

// Hold keeps an output in memory.
func (s *ToolService) Hold(output *domain.ToolOutput) (string, error) {
	if output == nil {
		return "", domain.ErrInvalidInput
	}
	return s.blobs.Put(output)
}

// Download writes a held output to disk and schedules its release.
func (s *ToolService) Download(handle, dir, name string) (string, error) {
	out, err := s.blobs.Get(handle)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = s.limits.OutputDir
	}
	if dir == "" {
		dir = "."
	}
	name = pdfName(name, out.SuggestedName)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, out.Data, 0600); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := s.blobs.Release(handle, s.limits.ReleaseGrace); err != nil {
		logger.Warn("tools: could not schedule release of %s: %v", handle, err)
	}
	return path, nil
}

// Discard releases a held output immediately.
func (s *ToolService) Discard(handle string) error {
	return s.blobs.Release(handle, 0)
}

// progressReporter forwards only increasing percentages. Safe for concurrent use.
type progressReporter struct {
	mu   sync.Mutex
	last int
	fn   domain.ProgressFunc
}

func newProgressReporter(fn domain.ProgressFunc) *progressReporter {
	return &progressReporter{last: -1, fn: fn}
}

func (p *progressReporter) report(percent int) {
	if percent > 100 {
		percent = 100
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if percent <= p.last {
		return
	}
	p.last = percent
	if p.fn != nil {
		p.fn(percent)
	}
}

func panicError(r any) error {
	cause, ok := r.(error)
	if !ok {
		cause = fmt.Errorf("%v", r)
	}
	return domain.NewToolError(domain.ToolErrProcessingFailed, "unexpected internal failure",
		errors.Join(errors.New("panic"), cause))
}

func displayName(in domain.InputFile, i int) string {
	if in.Name != "" {
		return in.Name
	}
	return fmt.Sprintf("file %d", i+1)
}

// pdfName returns a safe base file name ending in .pdf.
func pdfName(name, fallback string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = fallback
	}
	ext := filepath.Ext(name)
	if !strings.EqualFold(ext, ".pdf") {
		name = strings.TrimSuffix(name, ext) + ".pdf"
	}
	return name
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%d KB", n>>10)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
