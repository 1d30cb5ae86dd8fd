// Package diag defines the diagnostic model shared by the lexer, the parser
// and the lint rules.
//
// Diagnostic is the central record: Severity, a compact numeric Code with a
// stable string form (LEX*, SYN*, PRJ*, HON*), a Message, the Primary span,
// optional Notes and optional Fixes.
//
// A Fix carries concrete TextEdits plus an Applicability. Only
// FixApplicabilityAlwaysSafe fixes are applied by `hone fix --all`; the other
// levels are shown to the user as suggestions.
//
// Producers emit through a Reporter (usually a ReportBuilder chained with
// WithNote / WithFixSuggestion and finished with Emit). BagReporter collects
// into a Bag that supports sorting, filtering and deduplication.
//
// Package diag does no formatting and no IO; rendering lives in
// internal/diagfmt and fix application in internal/fix.
package diag
