// Package diag defines the diagnostic model shared by the reflection engine,
// the manifest loader and the script driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error.
//   - Code: compact numeric identifier with a stable string form (REF1001).
//   - Message: short human text.
//   - Primary: the source.Span the finding points at. For engine failures this
//     is the span of the query that was evaluated.
//   - Notes: optional secondary spans.
//
// # Emitting
//
// Producers talk to a Reporter, never to storage. The reflection engine treats
// the Reporter as an append-only sink: a failing query appends at most one
// diagnostic and a nil Reporter is valid (the failure is still returned).
// BagReporter collects into a Bag. DedupReporter keeps one engine
// diagnostic per script statement.
package diag
