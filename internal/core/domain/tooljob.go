package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Portal limits. Configuration may lower them but never raise them.
const (
	// MaxInputBytes is the total size ceiling of a job's inputs (7 MiB).
	MaxInputBytes int64 = 7 << 20

	// TargetOutputBytes is the portal's upload ceiling (230 KiB).
	TargetOutputBytes int64 = 230 << 10

	// DefaultReleaseGrace is how long a produced file stays downloadable.
	DefaultReleaseGrace = 2 * time.Minute
)

// ToolOperation identifies what a document job does.
type ToolOperation string

// Available operations.
const (
	// OpMerge concatenates several PDFs into one.
	OpMerge ToolOperation = "merge"

	// OpCompress re-serialises a single PDF compactly.
	OpCompress ToolOperation = "compress"

	// OpImagesToPDF places one image per A4 page.
	OpImagesToPDF ToolOperation = "images_to_pdf"
)

// AllToolOperations returns all available operations.
func AllToolOperations() []ToolOperation {
	return []ToolOperation{OpMerge, OpCompress, OpImagesToPDF}
}

// IsValid returns true if the operation is recognised.
func (o ToolOperation) IsValid() bool {
	switch o {
	case OpMerge, OpCompress, OpImagesToPDF:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (o ToolOperation) String() string {
	return string(o)
}

// Description returns a human-readable description of the operation.
func (o ToolOperation) Description() string {
	switch o {
	case OpMerge:
		return "Merge PDFs"
	case OpCompress:
		return "Compress PDF"
	case OpImagesToPDF:
		return "Images to PDF"
	default:
		return unknownDescription
	}
}

// AcceptsImages returns true when inputs are raster images rather than PDFs.
func (o ToolOperation) AcceptsImages() bool {
	return o == OpImagesToPDF
}

// InputFile is one user-supplied file.
type InputFile struct {
	Name     string
	MIMEHint string
	Data     []byte
}

// ToolJob is a single document production request. Inputs are ordered.
type ToolJob struct {
	Operation ToolOperation
	Inputs    []InputFile
}

// TotalBytes returns the combined size of all inputs.
func (j ToolJob) TotalBytes() int64 {
	var total int64
	for _, in := range j.Inputs {
		total += int64(len(in.Data))
	}
	return total
}

// ToolOutput is a produced file.
type ToolOutput struct {
	// Data is the PDF. It is never larger than the target size.
	Data []byte

	// SuggestedName is the default file name for download.
	SuggestedName string

	// Pages is the page count of the produced PDF.
	Pages int

	// Stage is the compression stage that succeeded, or -1 when no raster stage ran.
	Stage int
}

// ProgressFunc receives job progress in percent. Values never decrease.
type ProgressFunc func(percent int)

// ToolErrorKind classifies a failed job.
type ToolErrorKind string

// Available failure kinds.
const (
	ToolErrInputTooLarge             ToolErrorKind = "input_too_large"
	ToolErrDecodeFailed              ToolErrorKind = "decode_failed"
	ToolErrCannotCompressUnderTarget ToolErrorKind = "cannot_compress_under_target"
	ToolErrMergeTooLarge             ToolErrorKind = "merge_too_large"
	ToolErrProcessingFailed          ToolErrorKind = "processing_failed"
)

// AllToolErrorKinds returns every failure kind.
func AllToolErrorKinds() []ToolErrorKind {
	return []ToolErrorKind{
		ToolErrInputTooLarge,
		ToolErrDecodeFailed,
		ToolErrCannotCompressUnderTarget,
		ToolErrMergeTooLarge,
		ToolErrProcessingFailed,
	}
}

// String returns the string representation.
func (k ToolErrorKind) String() string {
	return string(k)
}

// Suggestion returns the default remedy shown for the failure kind.
func (k ToolErrorKind) Suggestion() string {
	switch k {
	case ToolErrInputTooLarge:
		return "Total input must be under 7 MB. Split the files into smaller batches."
	case ToolErrDecodeFailed:
		return "Check the file is a valid PDF or image and is not password protected."
	case ToolErrCannotCompressUnderTarget:
		return "Cannot compress further. Reduce the page count."
	case ToolErrMergeTooLarge:
		return "Reduce pages or pre-compress the inputs."
	case ToolErrProcessingFailed:
		return "Try again. If it keeps failing, re-save the file and retry."
	default:
		return ""
	}
}

// ToolError is a typed, user-facing job failure.
type ToolError struct {
	Kind       ToolErrorKind
	Message    string
	Suggestion string
	Err        error
}

// NewToolError builds a ToolError with the kind's default suggestion.
func NewToolError(kind ToolErrorKind, message string, cause error) *ToolError {
	return &ToolError{
		Kind:       kind,
		Message:    message,
		Suggestion: kind.Suggestion(),
		Err:        cause,
	}
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ToolError) Unwrap() error {
	return e.Err
}

// ToolErrorKindOf returns the kind of a ToolError anywhere in err's chain.
func ToolErrorKindOf(err error) (ToolErrorKind, bool) {
	var te *ToolError
	if errors.As(err, &te) {
		return te.Kind, true
	}
	return "", false
}

// CompressionStage is one rung of the images-to-PDF quality ladder.
type CompressionStage struct {
	// Quality is the JPEG quality in (0, 1].
	Quality float64

	// Scale multiplies both image dimensions, in (0, 1].
	Scale float64

	// Grayscale drops colour before encoding.
	Grayscale bool
}

// JPEGQuality returns the quality on the 1..100 encoder scale.
func (s CompressionStage) JPEGQuality() int {
	q := int(math.Round(s.Quality * 100))
	if q < 1 {
		return 1
	}
	if q > 100 {
		return 100
	}
	return q
}

// Valid returns true when quality and scale are in range.
func (s CompressionStage) Valid() bool {
	return s.Quality > 0 && s.Quality <= 1 && s.Scale > 0 && s.Scale <= 1
}

// AtLeastAsAggressiveAs returns true when s never keeps more detail than prev.
func (s CompressionStage) AtLeastAsAggressiveAs(prev CompressionStage) bool {
	if s.Quality > prev.Quality || s.Scale > prev.Scale {
		return false
	}
	return s.Grayscale || !prev.Grayscale
}

// String returns a compact description for logs.
func (s CompressionStage) String() string {
	return fmt.Sprintf("q=%.2f scale=%.2f gray=%t", s.Quality, s.Scale, s.Grayscale)
}

// DefaultCompressionStages returns the ordered quality ladder.
func DefaultCompressionStages() []CompressionStage {
	return []CompressionStage{
		{Quality: 0.8, Scale: 1.0},
		{Quality: 0.8, Scale: 0.8},
		{Quality: 0.7, Scale: 0.7},
		{Quality: 0.6, Scale: 0.6},
		{Quality: 0.5, Scale: 0.5},
		{Quality: 0.4, Scale: 0.5, Grayscale: true},
		{Quality: 0.2, Scale: 0.4, Grayscale: true},
	}
}
