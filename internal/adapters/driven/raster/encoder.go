// Package raster decodes photos and scans and re-encodes them as JPEG
// at a given compression stage.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	// Registered decoders.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/custodia-labs/scholardocs/internal/core/domain"
	"github.com/custodia-labs/scholardocs/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.RasterEncoder = (*Encoder)(nil)

// DefaultMaxEdge is the longest side kept before stage scaling (A4 at 300 dpi).
const DefaultMaxEdge = 3508

// maxPixels rejects decompression bombs before allocating.
const maxPixels = 60_000_000

var errEmptyImage = errors.New("image has no pixels")

// Encoder implements RasterEncoder with x/image scaling. Safe for concurrent use.
type Encoder struct {
	maxEdge int
	scaler  draw.Scaler
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithMaxEdge caps the longest side before stage scaling. Zero disables the cap.
func WithMaxEdge(px int) Option {
	return func(e *Encoder) {
		if px >= 0 {
			e.maxEdge = px
		}
	}
}

// WithScaler sets the interpolation used for resizing.
func WithScaler(s draw.Scaler) Option {
	return func(e *Encoder) {
		if s != nil {
			e.scaler = s
		}
	}
}

// NewEncoder creates an encoder.
func NewEncoder(opts ...Option) *Encoder {
	e := &Encoder{
		maxEdge: DefaultMaxEdge,
		scaler:  draw.CatmullRom,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Decode parses any registered format.
func (e *Encoder) Decode(data []byte) (image.Image, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("raster: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("raster: %s: %w", format, errEmptyImage)
	}
	if cfg.Width*cfg.Height > maxPixels {
		return nil, fmt.Errorf("raster: %s image is %dx%d, too many pixels", format, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("raster: %s: %w", format, err)
	}
	return img, nil
}

// Encode scales img for the stage, optionally drops colour and writes JPEG.
func (e *Encoder) Encode(img image.Image, stage domain.CompressionStage) ([]byte, error) {
	if !stage.Valid() {
		return nil, fmt.Errorf("raster: invalid stage %s", stage)
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("raster: %w", errEmptyImage)
	}

	w, h := TargetSize(bounds.Dx(), bounds.Dy(), e.maxEdge, stage.Scale)
	var dst draw.Image
	if stage.Grayscale {
		dst = image.NewGray(image.Rect(0, 0, w, h))
	} else {
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
	}

	// JPEG has no alpha: composite onto white.
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	if w == bounds.Dx() && h == bounds.Dy() {
		draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Over)
	} else {
		e.scaler.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: stage.JPEGQuality()}); err != nil {
		return nil, fmt.Errorf("raster: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// TargetSize returns the output dimensions: capped to maxEdge, then scaled.
// Each side is at least one pixel.
func TargetSize(w, h, maxEdge int, scale float64) (int, int) {
	factor := scale
	if longest := max(w, h); maxEdge > 0 && longest > maxEdge {
		factor *= float64(maxEdge) / float64(longest)
	}
	if factor >= 1 {
		return w, h
	}
	return max(1, int(float64(w)*factor+0.5)), max(1, int(float64(h)*factor+0.5))
}
