package driven

import (
	"image"

	"github.com/custodia-labs/scholardocs/internal/core/domain"
)

// RasterEncoder decodes user images and re-encodes them for one compression stage.
type RasterEncoder interface {
	// Decode parses JPEG, PNG, GIF, WebP, BMP or TIFF data.
	Decode(data []byte) (image.Image, error)

	// Encode scales, optionally greys and JPEG-encodes img for the stage.
	Encode(img image.Image, stage domain.CompressionStage) ([]byte, error)
}

// ImageConverter normalises formats the raster encoder cannot read.
type ImageConverter interface {
	// Accepts returns true if the converter handles the file.
	Accepts(name, mimeHint string, data []byte) bool

	// ToJPEG converts the file to JPEG bytes.
	ToJPEG(data []byte) ([]byte, error)
}
