// Package diag defines the diagnostic codes and records produced when a
// formula cannot be evaluated or a lookup fails.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Span – byte range inside the flattened formula expression.
//   - Token – index of the formula token the span falls into, -1 if none.
//
// Package diag does not perform formatting or IO. Rendering lives in the
// CLI (cmd/tagcalc) and the terminal editor (internal/ui).
package diag
