// Package heif converts HEIC/HEIF photos to JPEG.
// It implements the driven.ImageConverter interface.
//
// Build requires CGO; goheif vendors libde265 so no system library is needed.
// Without CGO the converter still recognises HEIC input but ToJPEG returns
// domain.ErrNotImplemented, and callers pass the original bytes through.
package heif
