package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/scholardocs/internal/core/domain"
	"github.com/custodia-labs/scholardocs/internal/core/ports/driven"
)

// --- Fakes for the document tool pipeline ---

// A fake PDF is "%PDF" followed by one "[p]" marker per page and zero padding.
const (
	fakePDFHeader = "%PDF"
	fakePageMark  = "[p]"
)

func fakePDF(pages, padding int) []byte {
	b := []byte(fakePDFHeader)
	for i := 0; i < pages; i++ {
		b = append(b, fakePageMark...)
	}
	return append(b, make([]byte, padding)...)
}

// fakeImage is recognised by mockRasterEncoder.Decode.
func fakeImage(padding int) []byte {
	return append([]byte("IMG"), make([]byte, padding)...)
}

var _ driven.PDFEngine = (*mockPDFEngine)(nil)

// mockPDFEngine implements driven.PDFEngine over fake PDFs.
type mockPDFEngine struct {
	optimize  func([]byte) ([]byte, error)
	mergeErr  error
	imagesErr error
	panicMsg  string

	// started and release let a test hold a job inside Merge.
	started chan struct{}
	release chan struct{}

	mergeCalls  atomic.Int32
	imagesCalls atomic.Int32
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (m *mockPDFEngine) Merge(inputs [][]byte) ([]byte, error) {
	m.mergeCalls.Add(1)
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		cur := m.maxInFlight.Load()
		if n <= cur || m.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}
	if m.started != nil {
		m.started <- struct{}{}
	}
	if m.release != nil {
		<-m.release
	}

	if m.mergeErr != nil {
		return nil, m.mergeErr
	}
	out := []byte(fakePDFHeader)
	for _, in := range inputs {
		if !bytes.HasPrefix(in, []byte(fakePDFHeader)) {
			return nil, errors.New("not a pdf")
		}
		out = append(out, in[len(fakePDFHeader):]...)
	}
	return out, nil
}

func (m *mockPDFEngine) Optimize(pdf []byte) ([]byte, error) {
	if m.optimize != nil {
		return m.optimize(pdf)
	}
	return append([]byte(nil), pdf...), nil
}

func (m *mockPDFEngine) ImagesToPDF(jpegs [][]byte) ([]byte, error) {
	m.imagesCalls.Add(1)
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	if m.imagesErr != nil {
		return nil, m.imagesErr
	}
	out := []byte(fakePDFHeader)
	for _, j := range jpegs {
		out = append(out, fakePageMark...)
		out = append(out, j...)
	}
	return out, nil
}

func (m *mockPDFEngine) PageCount(pdf []byte) (int, error) {
	if !bytes.HasPrefix(pdf, []byte(fakePDFHeader)) {
		return 0, errors.New("not a pdf")
	}
	return bytes.Count(pdf, []byte(fakePageMark)), nil
}

var _ driven.RasterEncoder = (*mockRasterEncoder)(nil)

// mockRasterEncoder decodes fake images and encodes to a size
// proportional to quality and scaled area.
type mockRasterEncoder struct {
	// fullSize is the encoded size of one image at quality 1, scale 1.
	fullSize int

	mu     sync.Mutex
	stages []domain.CompressionStage
}

func (m *mockRasterEncoder) Decode(data []byte) (image.Image, error) {
	switch {
	case bytes.HasPrefix(data, []byte("PANIC")):
		panic("decoder exploded")
	case bytes.HasPrefix(data, []byte("IMG")):
		return image.NewGray(image.Rect(0, 0, 10, 10)), nil
	default:
		return nil, errors.New("unknown image format")
	}
}

func (m *mockRasterEncoder) Encode(_ image.Image, stage domain.CompressionStage) ([]byte, error) {
	m.mu.Lock()
	m.stages = append(m.stages, stage)
	m.mu.Unlock()

	n := int(float64(m.fullSize) * stage.Quality * stage.Scale * stage.Scale)
	if stage.Grayscale {
		n /= 2
	}
	return make([]byte, n), nil
}

func (m *mockRasterEncoder) encodedStages() []domain.CompressionStage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.CompressionStage(nil), m.stages...)
}

var _ driven.ImageConverter = (*mockImageConverter)(nil)

// mockImageConverter accepts .heic files and turns "HEIC" bytes into a fake image.
type mockImageConverter struct {
	fail  bool
	calls atomic.Int32
}

func (m *mockImageConverter) Accepts(name, _ string, _ []byte) bool {
	return strings.HasSuffix(strings.ToLower(name), ".heic")
}

func (m *mockImageConverter) ToJPEG(data []byte) ([]byte, error) {
	m.calls.Add(1)
	if m.fail {
		return nil, errors.New("libheif missing")
	}
	return append([]byte("IMG"), bytes.TrimPrefix(data, []byte("HEIC"))...), nil
}

// failingJobStore rejects every write.
type failingJobStore struct{}

func (failingJobStore) Record(_ context.Context, _ domain.JobRecord) error {
	return errors.New("disk full")
}

func (failingJobStore) ListRecent(_ context.Context, _ int) ([]domain.JobRecord, error) {
	return nil, errors.New("disk full")
}
