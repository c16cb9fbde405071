// Package pdf implements the PDF engine on pdfcpu.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/custodia-labs/scholardocs/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.PDFEngine = (*Engine)(nil)

// pageLayout places one image per A4 portrait page, centred and scaled to
// fill it. pos:full would size the page to the image instead.
const pageLayout = "f:A4, pos:c, sc:1.0"

var errNoInput = errors.New("no input documents")

func init() {
	// Keep pdfcpu from creating a config directory in the user's home.
	model.ConfigPath = "disable"
}

// Engine is a stateless pdfcpu-backed PDFEngine. Safe for concurrent use.
type Engine struct {
	layout *pdfcpu.Import
}

// NewEngine creates a PDF engine.
func NewEngine() (*Engine, error) {
	layout, err := api.Import(pageLayout, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("pdf: page layout: %w", err)
	}
	return &Engine{layout: layout}, nil
}

// configuration returns a fresh config writing object and xref streams.
func configuration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.WriteObjectStream = true
	conf.WriteXRefStream = true
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Merge concatenates the pages of every input, in order.
func (e *Engine) Merge(inputs [][]byte) ([]byte, error) {
	if len(inputs) == 0 {
		return nil, errNoInput
	}
	readers := make([]io.ReadSeeker, len(inputs))
	for i, in := range inputs {
		readers[i] = bytes.NewReader(in)
	}

	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, configuration()); err != nil {
		return nil, fmt.Errorf("pdf: merge: %w", err)
	}
	return out.Bytes(), nil
}

// Optimize drops redundant objects and writes compressed streams.
func (e *Engine) Optimize(pdf []byte) ([]byte, error) {
	var out bytes.Buffer
	if err := api.Optimize(bytes.NewReader(pdf), &out, configuration()); err != nil {
		return nil, fmt.Errorf("pdf: optimize: %w", err)
	}
	return out.Bytes(), nil
}

// ImagesToPDF builds a new document with one page per JPEG.
func (e *Engine) ImagesToPDF(jpegs [][]byte) ([]byte, error) {
	if len(jpegs) == 0 {
		return nil, errNoInput
	}
	readers := make([]io.Reader, len(jpegs))
	for i, j := range jpegs {
		readers[i] = bytes.NewReader(j)
	}

	layout := *e.layout
	var out bytes.Buffer
	if err := api.ImportImages(nil, &out, readers, &layout, configuration()); err != nil {
		return nil, fmt.Errorf("pdf: import images: %w", err)
	}
	return out.Bytes(), nil
}

// PageCount validates the document and returns its page count.
func (e *Engine) PageCount(pdf []byte) (int, error) {
	if len(pdf) == 0 {
		return 0, errNoInput
	}
	n, err := api.PageCount(bytes.NewReader(pdf), configuration())
	if err != nil {
		return 0, fmt.Errorf("pdf: read: %w", err)
	}
	return n, nil
}
