// Package diag defines the diagnostic model shared by the evaluator and the
// suite driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error (severity.go).
//   - Code: compact numeric identifier with a stable string form (codes.go).
//     Constant evaluation failures live in the CEV range, suite problems in
//     SUI, file access in IO.
//   - Message: human oriented text. Evaluator messages keep the wording users
//     of shading-language compilers expect, e.g.
//     "'2147483647 + 1' cannot be represented as 'abstract-int'".
//   - Primary span and Notes. Notes carry context such as
//     "when calculating normalize", appended while a failure unwinds.
//
// # Emitting diagnostics
//
// Producers talk to a Reporter. The evaluator opens a ReportBuilder at the
// point of failure, chains WithNote from each enclosing call and calls Emit
// once the outermost call returns. BagReporter collects into a Bag, which
// supports limits, sorting and deduplication; DedupReporter filters repeats.
//
// Rendering lives in internal/diagfmt. FormatGoldenDiagnostics gives a
// stable one-line form used by tests and by suite expectations.
package diag
