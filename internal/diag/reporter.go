package diag

import "hone/internal/source"

// Reporter принимает диагностики от парсера и lint-прохода.
// Реализации: BagReporter, DedupReporter.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix)
}

// Forward hands a complete diagnostic to r.
func Forward(r Reporter, d Diagnostic) {
	if r != nil {
		r.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes, d.Fixes)
	}
}

// ReportBuilder collects notes and fixes of one diagnostic; Emit sends it once.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

func NewReportBuilder(r Reporter, sev Severity, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{reporter: r, diag: New(sev, code, primary, msg)}
}

func (b *ReportBuilder) update(f func(Diagnostic) Diagnostic) *ReportBuilder {
	if b != nil && !b.emitted {
		b.diag = f(b.diag)
	}
	return b
}

func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	return b.update(func(d Diagnostic) Diagnostic { return d.WithNote(sp, msg) })
}

// WithFix appends an always-safe quick fix made of edits.
func (b *ReportBuilder) WithFix(title string, edits ...TextEdit) *ReportBuilder {
	return b.update(func(d Diagnostic) Diagnostic { return d.WithFix(title, edits...) })
}

func (b *ReportBuilder) WithFixSuggestion(fix Fix) *ReportBuilder {
	return b.update(func(d Diagnostic) Diagnostic { return d.WithFixSuggestion(fix) })
}

func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	b.emitted = true
	Forward(b.reporter, b.diag)
}

// BagReporter складывает диагностики в Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Primary: primary, Notes: notes, Fixes: fixes,
	})
}
