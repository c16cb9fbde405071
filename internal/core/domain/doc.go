// Package domain defines the core business entities for scholardocs.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SelectionState: A student's wizard answers (stream, course, category, year...)
//   - RequirementResult: The ordered document checklist derived from a selection
//   - ToolJob: A one-shot document production request (merge, compress, images to PDF)
//   - ToolError: A typed, user-facing failure of a tool job
//
// Branch predicates used by the requirement rules (Master's courses, year
// caps, hostel eligibility and so on) live here as named methods so there is
// exactly one definition of each rule.
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
