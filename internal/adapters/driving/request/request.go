// Package request holds the validated request types shared by the CLI and
// MCP adapters. Both surfaces build a request from their own input format,
// call Validate, and only then hand the result to a core service.
package request

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/scholardocs/internal/core/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, "stream", func(fl validator.FieldLevel) bool {
		return domain.Stream(fl.Field().String()).IsValid()
	})
	mustRegister(v, "course", func(fl validator.FieldLevel) bool {
		return domain.CourseType(fl.Field().String()).IsValid()
	})
	mustRegister(v, "category", func(fl validator.FieldLevel) bool {
		return domain.Category(fl.Field().String()).IsValid()
	})
	mustRegister(v, "tool_operation", func(fl validator.FieldLevel) bool {
		return domain.ToolOperation(fl.Field().String()).IsValid()
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("registering %s validation: %v", tag, err))
	}
}

// RequirementsRequest describes a student's situation for a one-shot
// checklist evaluation.
type RequirementsRequest struct {
	Stream           string `json:"stream" validate:"required,stream" jsonschema:"engineering, pharmacy, nursing, management or asc"`
	Course           string `json:"course,omitempty" validate:"omitempty,course" jsonschema:"course code such as bpharm or mba; required for pharmacy, management and asc"`
	Category         string `json:"category" validate:"required,category" jsonschema:"open, obc, sc, st, sbc, vjnt, sebc or minority"`
	Year             int    `json:"year" validate:"required,min=1,max=4" jsonschema:"current year of study, starting at 1"`
	HadGap           bool   `json:"had_gap,omitempty" jsonschema:"first-year student with a gap after their last qualification"`
	Hosteller        bool   `json:"hosteller,omitempty" jsonschema:"student lives in a hostel"`
	DirectSecondYear *bool  `json:"direct_second_year,omitempty" jsonschema:"B-Pharmacy year 2 student admitted directly to the second year"`
}

// Selection converts the request into a domain selection.
func (r RequirementsRequest) Selection() domain.SelectionState {
	return domain.SelectionState{
		Stream:           domain.Stream(strings.ToLower(r.Stream)),
		Course:           domain.CourseType(strings.ToLower(r.Course)),
		Category:         domain.Category(strings.ToLower(r.Category)),
		CurrentYear:      r.Year,
		HadGap:           r.HadGap,
		Hosteller:        r.Hosteller,
		DirectSecondYear: r.DirectSecondYear,
	}
}

// Validate checks field formats and then the cross-field rules of the
// resulting selection.
func (r RequirementsRequest) Validate() error {
	r.Stream = strings.ToLower(r.Stream)
	r.Course = strings.ToLower(r.Course)
	r.Category = strings.ToLower(r.Category)
	if err := validate.Struct(r); err != nil {
		return describe(err)
	}

	sel := r.Selection()
	if err := sel.Validate(); err != nil {
		return err
	}
	if !sel.Complete() {
		return fmt.Errorf("%w: course is required for %s", domain.ErrIncompleteSelection, sel.Stream.Description())
	}
	return nil
}

// ToolRequest describes one document tool run over local files.
type ToolRequest struct {
	Operation string   `json:"operation" validate:"required,tool_operation" jsonschema:"merge, compress or images_to_pdf"`
	Paths     []string `json:"paths" validate:"required,min=1,dive,required" jsonschema:"absolute paths of the input files, in order"`
	Name      string   `json:"name,omitempty" validate:"omitempty,max=120" jsonschema:"output file name; .pdf is added when missing"`
	OutputDir string   `json:"output_dir,omitempty" jsonschema:"directory to write the result to; defaults to the configured output directory"`
}

// Validate checks the request shape. Compress takes exactly one file.
func (r ToolRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return describe(err)
	}
	if domain.ToolOperation(r.Operation) == domain.OpCompress && len(r.Paths) != 1 {
		return fmt.Errorf("%w: compress takes exactly one file, got %d", domain.ErrInvalidInput, len(r.Paths))
	}
	return nil
}

// Job reads every input file and builds the tool job.
// Files are stat'ed first so an oversized batch is rejected before any
// bytes are read.
func (r ToolRequest) Job(maxInputBytes int64) (domain.ToolJob, error) {
	if err := r.Validate(); err != nil {
		return domain.ToolJob{}, err
	}

	var total int64
	for _, p := range r.Paths {
		info, err := os.Stat(p)
		if err != nil {
			return domain.ToolJob{}, fmt.Errorf("reading %s: %w", p, err)
		}
		if info.IsDir() {
			return domain.ToolJob{}, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, p)
		}
		total += info.Size()
	}
	if maxInputBytes > 0 && total > maxInputBytes {
		return domain.ToolJob{}, domain.NewToolError(domain.ToolErrInputTooLarge,
			fmt.Sprintf("inputs total %d bytes, limit is %d", total, maxInputBytes), nil)
	}

	job := domain.ToolJob{Operation: domain.ToolOperation(r.Operation)}
	for _, p := range r.Paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return domain.ToolJob{}, fmt.Errorf("reading %s: %w", p, err)
		}
		job.Inputs = append(job.Inputs, domain.InputFile{
			Name:     filepath.Base(p),
			MIMEHint: MIMEHint(p),
			Data:     data,
		})
	}
	return job, nil
}

// MIMEHint guesses a MIME type from the file extension.
func MIMEHint(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		if i := strings.IndexByte(t, ';'); i >= 0 {
			t = t[:i]
		}
		return t
	}
	return ""
}

// describe turns validator errors into a single readable error wrapping
// domain.ErrInvalidInput.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min", "max":
		return fmt.Sprintf("%s must be %s %s", field, map[string]string{"min": "at least", "max": "at most"}[fe.Tag()], fe.Param())
	case "stream", "course", "category", "tool_operation":
		return fmt.Sprintf("unknown %s %q", strings.ReplaceAll(fe.Tag(), "_", " "), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
