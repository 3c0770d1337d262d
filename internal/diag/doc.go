// Package diag defines the diagnostic model shared by the scanner, the
// placeholder parser, the record builder and the driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error.
//   - Code – numeric identifier with a stable string id (PAR1001, COL2001, ...).
//   - Message – short, actionable text.
//   - Primary – the source.Span of the offending placeholder.
//   - Notes – secondary spans, e.g. the first occurrence of a duplicate name.
//   - Fixes – optional text edits the fix engine can apply.
//
// Package diag does no formatting and no IO. Rendering lives in
// internal/diagfmt, applying fixes lives in internal/fix.
//
// # Emitting diagnostics
//
// Producers take a diag.Reporter and either call Report directly or chain a
// ReportBuilder (ReportError / ReportWarning, WithNote, WithFix, Emit).
// BagReporter stores diagnostics in a Bag, which supports limits, sorting,
// deduplication and merging of per-file bags.
package diag
