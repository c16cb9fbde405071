//go:build !cgo

package heif

import (
	"github.com/custodia-labs/scholardocs/internal/core/domain"
	"github.com/custodia-labs/scholardocs/internal/core/ports/driven"
)

// Ensure Converter implements the interface.
var _ driven.ImageConverter = (*Converter)(nil)

// Converter recognises HEIC input but cannot decode it.
// This is a stub for builds without CGO.
type Converter struct{}

// New creates a converter.
// This is a stub for builds without CGO.
func New(_ int) *Converter {
	return &Converter{}
}

// Available reports whether conversion is compiled in.
func Available() bool {
	return false
}

// Accepts returns true for HEIC/HEIF input.
func (c *Converter) Accepts(name, mimeHint string, data []byte) bool {
	return isHEIF(name, mimeHint, data)
}

// ToJPEG always fails without CGO.
func (c *Converter) ToJPEG(_ []byte) ([]byte, error) {
	return nil, domain.ErrNotImplemented
}
