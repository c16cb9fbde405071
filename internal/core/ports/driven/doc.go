// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ConfigStore: Application configuration (TOML)
//   - StateStore: Wizard session persistence
//   - JobStore: Document tool run history
//   - PDFEngine: Merge, optimise and build PDFs (pdfcpu)
//   - RasterEncoder: Decode and re-encode images per compression stage
//   - BlobStore: In-memory holding area for produced files
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ImageConverter: HEIC to JPEG. Without it, HEIC bytes are passed through
//     and usually fail to decode.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
