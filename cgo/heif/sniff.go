package heif

import (
	"bytes"
	"path/filepath"
	"strings"
)

// DefaultQuality is the JPEG quality of converted photos.
const DefaultQuality = 92

// heifBrands are the ISO-BMFF major brands used by HEIC/HEIF files.
var heifBrands = [][]byte{
	[]byte("heic"), []byte("heix"), []byte("hevc"), []byte("hevx"),
	[]byte("heim"), []byte("heis"), []byte("mif1"), []byte("msf1"),
}

// isHEIF reports whether the file looks like HEIC by name, MIME hint or content.
func isHEIF(name, mimeHint string, data []byte) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".heic", ".heif":
		return true
	}
	switch strings.ToLower(strings.TrimSpace(mimeHint)) {
	case "image/heic", "image/heif", "image/heic-sequence", "image/heif-sequence":
		return true
	}
	return hasHEIFBrand(data)
}

// hasHEIFBrand checks the ftyp box: bytes 4..8 are "ftyp", 8..12 the brand.
func hasHEIFBrand(data []byte) bool {
	if len(data) < 12 || !bytes.Equal(data[4:8], []byte("ftyp")) {
		return false
	}
	for _, brand := range heifBrands {
		if bytes.Equal(data[8:12], brand) {
			return true
		}
	}
	return false
}
