package lint_test

import (
	"bytes"
	"strings"
	"testing"

	"hone/internal/ast"
	"hone/internal/diag"
	"hone/internal/lint"
	"hone/internal/lint/linttest"
	"hone/internal/source"
	"hone/internal/trace"
)

// fnRule reports every fn item under its own name.
type fnRule struct{ name string }

func (r fnRule) Name() string { return r.name }

func (r fnRule) CheckItem(p *lint.Pass, id ast.ItemID) {
	item := p.Builder.Items.Get(id)
	if item.Kind != ast.ItemFn {
		return
	}
	p.Emit(lint.Finding{Lint: r.name, Span: item.Span, Message: "fn " + p.Builder.Name(item.Name)})
}

type panicRule struct{}

func (panicRule) Name() string { return "boom" }

func (panicRule) CheckExpr(*lint.Pass, ast.ExprID) { panic("exploded") }

func def(name, group string, lvl lint.Level) lint.RuleDef {
	return lint.RuleDef{Name: name, Code: diag.LintCollapsibleIf, Group: group, Level: lvl}
}

func TestRegistry(t *testing.T) {
	reg := lint.NewRegistry()
	reg.MustRegister(func() lint.Rule { return fnRule{"b_rule"} }, def("b_rule", "style", lint.Warn))
	reg.MustRegister(func() lint.Rule { return fnRule{"a_rule"} }, def("a_rule", "pedantic", lint.Allow), def("a_extra", "style", lint.Allow))

	if err := reg.Register(func() lint.Rule { return fnRule{"x"} }, def("b_rule", "", lint.Warn)); err == nil {
		t.Fatalf("duplicate lint must be rejected")
	}
	if reg.Len() != 3 {
		t.Fatalf("Len = %d", reg.Len())
	}
	for _, name := range []string{"b_rule", "clippy::b_rule", "hone::b-rule"} {
		if _, ok := reg.Lookup(name); !ok {
			t.Errorf("Lookup(%q) failed", name)
		}
	}
	var names []string
	for _, d := range reg.All() {
		names = append(names, d.Name)
	}
	if strings.Join(names, ",") != "a_extra,a_rule,b_rule" {
		t.Fatalf("All = %v", names)
	}
	if got := strings.Join(reg.Groups(), ","); got != "style,pedantic" {
		t.Fatalf("Groups = %s", got)
	}

	if rules := reg.Rules(nil); len(rules) != 1 || rules[0].Name() != "b_rule" {
		t.Fatalf("default rules = %v", rules)
	}
	if rules := reg.Rules(lint.Levels{"style": lint.Warn}); len(rules) != 2 {
		t.Fatalf("a rule with one enabled lint must be instantiated, got %d", len(rules))
	}
	if rules := reg.Rules(lint.Levels{"all": lint.Allow}); len(rules) != 0 {
		t.Fatalf("all=allow must disable everything, got %d", len(rules))
	}
}

func TestLevels(t *testing.T) {
	d := def("collapsible_if", "style", lint.Warn)
	tests := []struct {
		levels lint.Levels
		want   lint.Level
	}{
		{nil, lint.Warn},
		{lint.Levels{"all": lint.Deny}, lint.Deny},
		{lint.Levels{"all": lint.Deny, "style": lint.Allow}, lint.Allow},
		{lint.Levels{"style": lint.Allow, "collapsible_if": lint.Deny}, lint.Deny},
	}
	for i, tt := range tests {
		if got := tt.levels.Of(d); got != tt.want {
			t.Errorf("case %d: got %v, want %v", i, got, tt.want)
		}
	}
	for in, want := range map[string]lint.Level{"allow": lint.Allow, "Warning": lint.Warn, "forbid": lint.Deny, " deny ": lint.Deny} {
		got, err := lint.ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := lint.ParseLevel("loud"); err == nil {
		t.Fatalf("unknown level must fail")
	}
	if lint.Deny.Severity() != diag.SevError || lint.Warn.Severity() != diag.SevWarning {
		t.Fatalf("severity mapping")
	}
}

func run(t *testing.T, src string, levels lint.Levels, rules ...lint.Rule) *linttest.Result {
	t.Helper()
	r := linttest.Parse(t, src)
	reg := lint.NewRegistry()
	for _, rule := range rules {
		rule := rule
		reg.MustRegister(func() lint.Rule { return rule }, def(rule.Name(), "style", lint.Warn))
	}
	lint.Run(r.Pass(reg, levels), reg.Rules(levels))
	return r
}

func TestAttributesOverrideLevels(t *testing.T) {
	src := `#![deny(clippy::style)]
fn a() {}
#[allow(clippy::fns)]
fn b() {}
mod m {
    #![warn(fns)]
    fn c() {}
    #[allow(fns)]
    fn d() {}
}
`
	r := run(t, src, nil, fnRule{"fns"})
	got := map[string]diag.Severity{}
	for _, f := range r.Findings {
		got[f.Message] = f.Severity
		if f.Code != diag.LintCollapsibleIf || f.Lint != "fns" {
			t.Fatalf("finding not completed by the pass: %+v", f)
		}
	}
	want := map[string]diag.Severity{"fn a": diag.SevError, "fn c": diag.SevWarning}
	if len(got) != len(want) {
		t.Fatalf("findings = %v", r.Messages())
	}
	for msg, sev := range want {
		if got[msg] != sev {
			t.Errorf("%s: severity %v, want %v", msg, got[msg], sev)
		}
	}
}

func TestGloballyAllowedStaysOff(t *testing.T) {
	r := run(t, "#[warn(fns)]\nfn a() {}", lint.Levels{"fns": lint.Allow}, fnRule{"fns"})
	if len(r.Findings) != 0 {
		t.Fatalf("findings = %v", r.Messages())
	}
}

func TestPanickingRuleBecomesInternalError(t *testing.T) {
	r := run(t, "fn a() { x; }\nfn b() {}", nil, panicRule{}, fnRule{"fns"})
	var internal, regular int
	for _, f := range r.Findings {
		switch f.Code {
		case diag.LintInternalError:
			internal++
			if f.Severity != diag.SevError || !strings.Contains(f.Message, "exploded") {
				t.Fatalf("internal error finding = %+v", f)
			}
		default:
			regular++
		}
	}
	if internal != 1 || regular != 2 {
		t.Fatalf("internal=%d regular=%d: %v", internal, regular, r.Messages())
	}
}

func TestFindingDiagnostic(t *testing.T) {
	sp := source.Span{File: 1, Start: 10, End: 20}
	f := lint.Finding{
		Code:       diag.LintCollapsibleIf,
		Severity:   diag.SevWarning,
		Span:       sp,
		Message:    "collapse",
		Help:       "try",
		Suggestion: &lint.Suggestion{Span: sp, Replacement: "x", Applicability: lint.MachineApplicable},
	}
	d := f.Diagnostic()
	if len(d.Fixes) != 1 {
		t.Fatalf("fixes = %d", len(d.Fixes))
	}
	fx := d.Fixes[0]
	if fx.Title != "try" || !fx.IsPreferred || fx.Applicability != diag.FixApplicabilityAlwaysSafe {
		t.Fatalf("fix = %+v", fx)
	}
	if len(fx.Edits) != 1 || fx.Edits[0].NewText != "x" || fx.Edits[0].Span != sp {
		t.Fatalf("edits = %+v", fx.Edits)
	}

	f.Suggestion = &lint.Suggestion{Span: sp.At(), Replacement: "#[derive(Default)]\n", Applicability: lint.MaybeIncorrect}
	fx = f.Diagnostic().Fixes[0]
	if fx.IsPreferred || fx.Applicability != diag.FixApplicabilitySafeWithHeuristics {
		t.Fatalf("advisory fix = %+v", fx)
	}
	if !fx.Edits[0].Span.Empty() {
		t.Fatalf("insertion must use an empty span")
	}

	f.Suggestion = nil
	if len(f.Diagnostic().Fixes) != 0 {
		t.Fatalf("no suggestion, no fix")
	}
}

func TestReporterSink(t *testing.T) {
	bag := diag.NewBag(10)
	sink := lint.ReporterSink{Reporter: &diag.BagReporter{Bag: bag}}
	sink.Emit(lint.Finding{Code: diag.LintNewWithoutDefault, Severity: diag.SevWarning, Message: "m"})
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LintNewWithoutDefault {
		t.Fatalf("bag = %+v", bag.Items())
	}
}

func TestFindingInMacroPointsAtInvocation(t *testing.T) {
	r := run(t, "fn a() {}\nmake! { fn g() {} }\n", nil, fnRule{"fns"})
	if len(r.Findings) != 2 {
		t.Fatalf("findings = %v", r.Messages())
	}
	for _, f := range r.Findings {
		switch f.Message {
		case "fn a":
			if len(f.Notes) != 0 {
				t.Fatalf("hand-written code must not get a note: %+v", f.Notes)
			}
		case "fn g":
			if len(f.Notes) != 1 || f.Notes[0].Msg != "in this expansion of `make!`" {
				t.Fatalf("notes = %+v", f.Notes)
			}
			if got := r.Text(f.Notes[0].Span); !strings.HasPrefix(got, "make!") {
				t.Fatalf("note must cover the invocation, got %q", got)
			}
			if d := f.Diagnostic(); len(d.Notes) != 1 {
				t.Fatalf("note lost in the diagnostic")
			}
		}
	}
}

func TestRuleSpanCountsFindings(t *testing.T) {
	var buf bytes.Buffer
	r := linttest.Parse(t, "fn a() {}\nfn b() {}\n")
	reg := lint.NewRegistry()
	reg.MustRegister(func() lint.Rule { return fnRule{"fns"} }, def("fns", "style", lint.Warn))
	p := r.Pass(reg, nil)
	p.Tracer = trace.NewStreamTracer(&buf, trace.LevelDebug, trace.FormatText)
	lint.Run(p, reg.Rules(nil))
	if p.Emitted() != 2 {
		t.Fatalf("Emitted = %d", p.Emitted())
	}
	if out := buf.String(); !strings.Contains(out, "← rule:fns {findings=2}") {
		t.Fatalf("trace:\n%s", out)
	}
}
