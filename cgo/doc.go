// Package cgo provides CGO bindings for native libraries.
// This package isolates all CGO code from the pure Go core.
//
// Sub-packages:
//   - heif: HEIC/HEIF photo decoding via libde265 (goheif)
package cgo
