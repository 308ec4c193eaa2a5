// Package diag defines the diagnostic model shared by the loader, the
// lowering engine and the driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error (severity.go).
//   - Code: compact numeric identifier with a stable string form (codes.go).
//     Ranges: LOW1xxx unimplemented constructs, LOW2xxx unresolved or
//     dependent references, LOW3xxx degraded lowering, DMP4xxx unit dump
//     loading, PRJ5xxx project manifest, OBS6xxx observability, LOW9xxx
//     internal invariants.
//   - Message: short, actionable text.
//   - Primary: the source.Span of the foreign node the finding is about.
//   - Notes: optional secondary spans.
//
// # Emitting diagnostics
//
// Producers hold a Reporter and either call Report directly or chain a
// ReportBuilder:
//
//	diag.ReportWarning(r, diag.LowUnresolvedSymbol, span, "no symbol for 'x'").
//		WithNote(declSpan, "declared here").
//		Emit()
//
// BagReporter collects into a Bag (bounded, sortable, deduplicable);
// DedupReporter drops repeats before forwarding.
//
// Package diag does no IO. Rendering lives in internal/diagfmt.
package diag
