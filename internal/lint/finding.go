package lint

import (
	"hone/internal/diag"
	"hone/internal/fix"
	"hone/internal/source"
)

// Applicability classifies how safe a suggestion is to apply unattended.
type Applicability uint8

const (
	MachineApplicable Applicability = iota
	MaybeIncorrect
	HasPlaceholders
	Unspecified
)

func (a Applicability) String() string {
	switch a {
	case MachineApplicable:
		return "machine-applicable"
	case MaybeIncorrect:
		return "maybe-incorrect"
	case HasPlaceholders:
		return "has-placeholders"
	}
	return "unspecified"
}

// Fix maps the applicability onto the fix engine's scale.
func (a Applicability) Fix() diag.FixApplicability {
	switch a {
	case MachineApplicable:
		return diag.FixApplicabilityAlwaysSafe
	case MaybeIncorrect:
		return diag.FixApplicabilitySafeWithHeuristics
	case HasPlaceholders:
		return diag.FixApplicabilityHasPlaceholders
	}
	return diag.FixApplicabilityManualReview
}

// Suggestion replaces Span with Replacement. An empty span inserts.
type Suggestion struct {
	Span          source.Span
	Replacement   string
	Applicability Applicability
}

// Finding is one lint hit. Lint is the rule name; Code and Severity are
// filled in by the Pass.
type Finding struct {
	Lint       string
	Code       diag.Code
	Severity   diag.Severity
	Span       source.Span
	Message    string
	Help       string
	Notes      []diag.Note
	Suggestion *Suggestion
}

// Diagnostic converts the finding into a diagnostic with an attached fix.
func (f Finding) Diagnostic() diag.Diagnostic {
	d := diag.New(f.Severity, f.Code, f.Span, f.Message)
	for _, n := range f.Notes {
		d = d.WithNote(n.Span, n.Msg)
	}
	if f.Suggestion == nil {
		return d
	}
	sg := f.Suggestion
	title := f.Help
	if title == "" {
		title = "apply suggestion"
	}
	opts := []fix.Option{
		fix.WithApplicability(sg.Applicability.Fix()),
		fix.WithID(fix.MakeFixID(f.Code, sg.Span)),
	}
	if sg.Applicability == MachineApplicable {
		opts = append(opts, fix.Preferred())
	}
	return d.WithFixSuggestion(fix.Replace(title, sg.Span, sg.Replacement, "", opts...))
}

// ReporterSink forwards findings into a diag.Reporter.
type ReporterSink struct {
	Reporter diag.Reporter
}

func (s ReporterSink) Emit(f Finding) {
	if s.Reporter == nil {
		return
	}
	diag.Forward(s.Reporter, f.Diagnostic())
}
