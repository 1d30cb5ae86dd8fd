package diag

import (
	"hone/internal/source"
)

type Note struct {
	Span source.Span `msgpack:"span"`
	Msg  string      `msgpack:"msg"`
}

// TextEdit replaces the bytes under Span with NewText. OldText, when set, is
// checked against the file before the edit is applied.
type TextEdit struct {
	Span    source.Span `msgpack:"span"`
	NewText string      `msgpack:"new"`
	OldText string      `msgpack:"old,omitempty"`
}

// FixKind is a coarse classification of a fix.
type FixKind uint8

const (
	FixKindQuickFix FixKind = iota
	FixKindRefactor
	FixKindRefactorRewrite
	FixKindSourceAction
)

func (k FixKind) String() string {
	switch k {
	case FixKindQuickFix:
		return "quickfix"
	case FixKindRefactor:
		return "refactor"
	case FixKindRefactorRewrite:
		return "rewrite"
	case FixKindSourceAction:
		return "source"
	}
	return "unknown"
}

// FixApplicability says how much a fix can be trusted.
type FixApplicability uint8

const (
	// FixApplicabilityAlwaysSafe fixes may be applied without review.
	FixApplicabilityAlwaysSafe FixApplicability = iota
	// FixApplicabilitySafeWithHeuristics fixes are probably right but a human
	// should look at them.
	FixApplicabilitySafeWithHeuristics
	// FixApplicabilityHasPlaceholders fixes contain text the user must fill in.
	FixApplicabilityHasPlaceholders
	FixApplicabilityManualReview
)

func (a FixApplicability) String() string {
	switch a {
	case FixApplicabilityAlwaysSafe:
		return "always-safe"
	case FixApplicabilitySafeWithHeuristics:
		return "safe-with-heuristics"
	case FixApplicabilityHasPlaceholders:
		return "has-placeholders"
	case FixApplicabilityManualReview:
		return "manual-review"
	}
	return "unknown"
}

// Fix is a suggested rewrite attached to a diagnostic.
type Fix struct {
	ID            string           `msgpack:"id,omitempty"`
	Title         string           `msgpack:"title"`
	Kind          FixKind          `msgpack:"kind"`
	Applicability FixApplicability `msgpack:"applicability"`
	IsPreferred   bool             `msgpack:"preferred,omitempty"`
	Edits         []TextEdit       `msgpack:"edits"`
}

type Diagnostic struct {
	Severity Severity    `msgpack:"sev"`
	Code     Code        `msgpack:"code"`
	Message  string      `msgpack:"msg"`
	Primary  source.Span `msgpack:"primary"`
	Notes    []Note      `msgpack:"notes,omitempty"`
	Fixes    []Fix       `msgpack:"fixes,omitempty"`
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// WithFix appends an always-safe quick fix built from edits.
func (d Diagnostic) WithFix(title string, edits ...TextEdit) Diagnostic {
	d.Fixes = append(d.Fixes, Fix{
		Title:         title,
		Kind:          FixKindQuickFix,
		Applicability: FixApplicabilityAlwaysSafe,
		Edits:         edits,
	})
	return d
}

// WithFixSuggestion appends a fully configured fix.
func (d Diagnostic) WithFixSuggestion(fix Fix) Diagnostic {
	d.Fixes = append(d.Fixes, fix)
	return d
}
