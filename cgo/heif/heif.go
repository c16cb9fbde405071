//go:build cgo

package heif

import (
	"bytes"
	"fmt"
	"image/jpeg"

	"github.com/jdeng/goheif"

	"github.com/custodia-labs/scholardocs/internal/core/ports/driven"
)

// Ensure Converter implements the interface.
var _ driven.ImageConverter = (*Converter)(nil)

// Converter decodes HEIC with goheif and re-encodes as JPEG.
type Converter struct {
	quality int
}

// New creates a converter. quality <= 0 uses DefaultQuality.
func New(quality int) *Converter {
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	return &Converter{quality: quality}
}

// Available reports whether conversion is compiled in.
func Available() bool {
	return true
}

// Accepts returns true for HEIC/HEIF input.
func (c *Converter) Accepts(name, mimeHint string, data []byte) bool {
	return isHEIF(name, mimeHint, data)
}

// ToJPEG converts a HEIC photo to JPEG bytes.
func (c *Converter) ToJPEG(data []byte) (out []byte, err error) {
	// libde265 bindings panic on some truncated inputs.
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("heif: decode: %v", r)
		}
	}()

	img, err := goheif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("heif: decode: %w", err)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: c.quality}); err != nil {
		return nil, fmt.Errorf("heif: encode: %w", err)
	}
	return buf.Bytes(), nil
}
