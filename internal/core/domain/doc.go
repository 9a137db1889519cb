// Package domain defines the core business entities for verdict extraction.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - FieldSpec: How one metadata field is located in verdict text
//   - FieldValue: An extracted value, scalar or ordered list
//   - RawFields: The ordered field mapping a strategy produces
//   - ExtractionResult: The cleaned, scored result for one document
//   - Verdict: A stored source document and its ingest status
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
