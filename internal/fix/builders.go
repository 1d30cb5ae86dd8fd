package fix

import (
	"fmt"

	"hone/internal/diag"
	"hone/internal/source"
)

// Option adjusts a fix while it is built.
type Option func(*diag.Fix)

func WithApplicability(app diag.FixApplicability) Option {
	return func(f *diag.Fix) { f.Applicability = app }
}

func WithKind(kind diag.FixKind) Option {
	return func(f *diag.Fix) { f.Kind = kind }
}

// Preferred marks the fix that `hone fix` picks when a diagnostic has several.
func Preferred() Option {
	return func(f *diag.Fix) { f.IsPreferred = true }
}

func WithID(id string) Option {
	return func(f *diag.Fix) { f.ID = id }
}

// MakeFixID names a fix by its code and the edited range, so the same
// finding gets the same ID on every run over unchanged input.
func MakeFixID(code diag.Code, sp source.Span) string {
	return fmt.Sprintf("%s@%d:%d-%d", code.ID(), sp.File, sp.Start, sp.End)
}

// Replace builds a single-edit quick fix that is always safe unless an option
// says otherwise. An empty span inserts text. A non-empty guard must equal
// the text under span for the edit to apply.
func Replace(title string, span source.Span, text, guard string, opts ...Option) diag.Fix {
	f := diag.Fix{
		Title:         title,
		Kind:          diag.FixKindQuickFix,
		Applicability: diag.FixApplicabilityAlwaysSafe,
		Edits:         []diag.TextEdit{{Span: span, NewText: text, OldText: guard}},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&f)
		}
	}
	return f
}

// InsertText inserts text at the start of at.
func InsertText(title string, at source.Span, text, guard string, opts ...Option) diag.Fix {
	at.End = at.Start
	return Replace(title, at, text, guard, opts...)
}
