package diag

import (
	"testing"

	"hone/internal/source"
)

func TestBag_LimitAndSort(t *testing.T) {
	bag := NewBag(3)
	rep := BagReporter{Bag: bag}
	rep.Report(LintCollapsibleIf, SevWarning, source.Span{File: 0, Start: 20, End: 30}, "b", nil, nil)
	rep.Report(SynUnexpectedToken, SevError, source.Span{File: 0, Start: 20, End: 30}, "a", nil, nil)
	rep.Report(LintNewWithoutDefault, SevWarning, source.Span{File: 0, Start: 1, End: 2}, "c", nil, nil)
	rep.Report(LintNewWithoutDefault, SevWarning, source.Span{File: 0, Start: 3, End: 4}, "dropped", nil, nil)

	if bag.Len() != 3 {
		t.Fatalf("Len = %d, want 3", bag.Len())
	}
	bag.Sort()
	items := bag.Items()
	if items[0].Message != "c" || items[1].Message != "a" || items[2].Message != "b" {
		t.Fatalf("unexpected order: %q %q %q", items[0].Message, items[1].Message, items[2].Message)
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatalf("HasErrors/HasWarnings mismatch")
	}
}

func TestBag_DedupAndFilter(t *testing.T) {
	bag := NewBag(0)
	sp := source.Span{File: 1, Start: 5, End: 9}
	bag.Add(New(SevWarning, LintCollapsibleIf, sp, "x"))
	bag.Add(New(SevWarning, LintCollapsibleIf, sp, "x"))
	bag.Add(New(SevWarning, LintNewWithoutDefault, sp, "y"))
	bag.Dedup()
	if bag.Len() != 2 {
		t.Fatalf("Dedup left %d items, want 2", bag.Len())
	}
	bag.Filter(func(d Diagnostic) bool { return d.Code != LintCollapsibleIf })
	if bag.Len() != 1 || bag.Items()[0].Code != LintNewWithoutDefault {
		t.Fatalf("Filter result: %+v", bag.Items())
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	rep := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{Start: 1, End: 2}
	NewReportBuilder(rep, SevWarning, LintCollapsibleIf, sp, "same").Emit()
	NewReportBuilder(rep, SevWarning, LintCollapsibleIf, sp, "same").Emit()
	NewReportBuilder(rep, SevWarning, LintCollapsibleIf, sp, "other").Emit()
	if bag.Len() != 2 {
		t.Fatalf("DedupReporter forwarded %d diagnostics, want 2", bag.Len())
	}
}

func TestReportBuilder_EmitOnce(t *testing.T) {
	bag := NewBag(0)
	b := NewReportBuilder(BagReporter{Bag: bag}, SevWarning, LintCollapsibleIf, source.Span{}, "msg").
		WithNote(source.Span{Start: 1, End: 2}, "note").
		WithFix("try", TextEdit{Span: source.Span{Start: 0, End: 1}, NewText: "x"})
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("Emit twice produced %d diagnostics", bag.Len())
	}
	d := bag.Items()[0]
	if len(d.Notes) != 1 || len(d.Fixes) != 1 || d.Fixes[0].Applicability != FixApplicabilityAlwaysSafe {
		t.Fatalf("builder lost details: %+v", d)
	}
}

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		LexUnknownChar:              "LEX1001",
		SynUnexpectedToken:          "SYN2001",
		ProjUnknownLint:             "PRJ5001",
		LintCollapsibleIf:           "HON9001",
		LintNewWithoutDefaultDerive: "HON9003",
		Code(7):                     "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("Code(%d).ID() = %q, want %q", code, got, want)
		}
	}
	if LintCollapsibleIf.Title() != "collapsible_if" || !LintCollapsibleIf.IsLint() || SynInfo.IsLint() {
		t.Fatalf("lint code metadata mismatch")
	}
}
