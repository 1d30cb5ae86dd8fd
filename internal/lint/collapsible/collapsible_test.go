package collapsible

import (
	"testing"

	"hone/internal/ast"
	"hone/internal/lint"
	"hone/internal/lint/linttest"
)

func check(t *testing.T, src string) *linttest.Result {
	t.Helper()
	return linttest.Check(t, src, New, Def)
}

func ctxOf(r *linttest.Result) Context {
	return Context{Builder: r.Builder, Spans: r.Hygiene, Source: r.FS}
}

func fixed(t *testing.T, r *linttest.Result) string {
	t.Helper()
	out, err := r.Fixed()
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	return out
}

func TestNestedIfIsMerged(t *testing.T) {
	r := check(t, "fn f() { if x { if y { z(); } } }")
	if len(r.Findings) != 1 {
		t.Fatalf("got %d findings, want 1: %v", len(r.Findings), r.Messages())
	}
	f := r.Findings[0]
	if f.Message != "this if statement can be collapsed" || f.Help != "try" {
		t.Fatalf("unexpected finding %+v", f)
	}
	if got := r.Text(f.Span); got != "if x { if y { z(); } }" {
		t.Fatalf("finding span = %q", got)
	}
	if f.Suggestion == nil || f.Suggestion.Replacement != "if x && y { z(); }" {
		t.Fatalf("suggestion = %+v", f.Suggestion)
	}
	if f.Suggestion.Applicability != lint.MachineApplicable {
		t.Fatalf("applicability = %v", f.Suggestion.Applicability)
	}
}

func TestElseBlockBecomesElseIf(t *testing.T) {
	r := check(t, "fn f() { if x { a(); } else { if y { b(); } } }")
	if len(r.Findings) != 1 {
		t.Fatalf("got %d findings, want 1: %v", len(r.Findings), r.Messages())
	}
	f := r.Findings[0]
	if f.Message != "this `else { if .. }` block can be collapsed" {
		t.Fatalf("message = %q", f.Message)
	}
	if got := r.Text(f.Suggestion.Span); got != "{ if y { b(); } }" {
		t.Fatalf("replaced span = %q", got)
	}
	if f.Suggestion.Replacement != "if y { b(); }" {
		t.Fatalf("replacement = %q", f.Suggestion.Replacement)
	}
	if got := fixed(t, r); got != "fn f() { if x { a(); } else if y { b(); } }" {
		t.Fatalf("fixed = %q", got)
	}
}

func TestElseBlockKeepsInnerIfLetAndElse(t *testing.T) {
	r := check(t, "fn f() { if x { a(); } else { if let Some(v) = o { b(v); } else { c(); } } }")
	if len(r.Findings) != 1 {
		t.Fatalf("got %d findings: %v", len(r.Findings), r.Messages())
	}
	want := "fn f() { if x { a(); } else if let Some(v) = o { b(v); } else { c(); } }"
	if got := fixed(t, r); got != want {
		t.Fatalf("fixed = %q", got)
	}
}

func TestMultilineSuggestionIsReindented(t *testing.T) {
	src := `fn f() {
    if x {
        if y {
            z();
        }
    }
}
`
	want := `fn f() {
    if x && y {
        z();
    }
}
`
	r := check(t, src)
	if len(r.Findings) != 1 {
		t.Fatalf("got %d findings", len(r.Findings))
	}
	if got := fixed(t, r); got != want {
		t.Fatalf("fixed:\n%s\nwant:\n%s", got, want)
	}
}

func TestConditionsAreParenthesized(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"fn f() { if a || b { if c {} } }", "if (a || b) && c {}"},
		{"fn f() { if c { if a || b {} } }", "if c && (a || b) {}"},
		{"fn f() { if a && b { if c {} } }", "if a && b && c {}"},
		{"fn f() { if a == b { if !c {} } }", "if a == b && !c {}"},
		{"fn f() { if (a || b) { if c {} } }", "if (a || b) && c {}"},
	}
	for _, tt := range tests {
		r := check(t, tt.src)
		if len(r.Findings) != 1 {
			t.Fatalf("%s: got %d findings", tt.src, len(r.Findings))
		}
		if got := r.Findings[0].Suggestion.Replacement; got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestNoMatchShapes(t *testing.T) {
	tests := []string{
		"fn f() { if x { a(); } }",
		"fn f() { if x { if y {} a(); } }",
		"fn f() { if x { if y {} } else { b(); } }",
		"fn f() { if x { if y {} else {} } }",
		"fn f() { if x { if let Some(v) = o {} } }",
		"fn f() { if let Some(v) = o { if v {} } }",
		"fn f() { if x { a(); } else { b(); if y {} } }",
		"fn f() { if x { a(); } else { loop {} } }",
		"fn f() { if x { a(); } else if y { b(); } }",
	}
	for _, src := range tests {
		if r := check(t, src); len(r.Findings) != 0 {
			t.Errorf("%s: unexpected findings %v", src, r.Messages())
		}
	}
}

func TestCommentsBlockTheSuggestion(t *testing.T) {
	tests := []string{
		"fn f() { if x {\n    // keep\n    if y { z(); }\n} }",
		"fn f() { if x { a(); } else {\n    if y { b(); } // trailing\n} }",
	}
	for _, src := range tests {
		if r := check(t, src); len(r.Findings) != 0 {
			t.Errorf("%q: unexpected findings %v", src, r.Messages())
		}
	}
}

const wrapMacro = "macro_rules! wrap { ($($t:tt)*) => { $($t)* } }\n"

func TestHygieneBoundary(t *testing.T) {
	tests := []string{
		// inner if comes from a different expansion than the outer one
		wrapMacro + "fn f() { if x { wrap! { if y { z(); } } } }",
		// inner if of the else block is macro generated
		wrapMacro + "fn f() { if x { a(); } else { wrap! { if y { b(); } } } }",
		// the whole conditional is generated
		wrapMacro + "fn f() { wrap! { if x { if y { z(); } } } }",
		wrapMacro + "fn f() { wrap! { if x { a(); } else { if y { b(); } } } }",
	}
	for _, src := range tests {
		if r := check(t, src); len(r.Findings) != 0 {
			t.Errorf("%s: unexpected findings %v", src, r.Messages())
		}
	}
}

func TestElseChainIsExhausted(t *testing.T) {
	src := "fn f() { if a {} else { if b {} else { if c {} } } }"
	r := check(t, src)
	if len(r.Findings) != 2 {
		t.Fatalf("rule: got %d findings, want 2: %v", len(r.Findings), r.Messages())
	}
	for i, f := range r.Findings {
		if f.Message != msgElseBlock {
			t.Fatalf("finding %d = %q", i, f.Message)
		}
	}
	if got := r.Text(r.Findings[1].Span); got != "{ if c {} }" {
		t.Fatalf("second level captured the wrong block: %q", got)
	}

	top := r.StmtExpr(t, r.FnBody(t, "f")[0])
	verdicts := MatchChain(ctxOf(r), top)
	if len(verdicts) != 2 || verdicts[0].If != top {
		t.Fatalf("chain: got %d verdicts, want 2", len(verdicts))
	}
	if r.Text(r.Builder.Exprs.Get(verdicts[1].Inner).Span) != "if c {}" {
		t.Fatalf("second level captured the wrong if")
	}
}

func TestChainMixesBothShapes(t *testing.T) {
	r := check(t, "fn f() { if a {} else { if b { if c {} } } }")
	if len(r.Findings) != 2 || r.Findings[0].Message != msgElseBlock || r.Findings[1].Message != msgNestedIf {
		t.Fatalf("findings = %v", r.Messages())
	}
	top := r.StmtExpr(t, r.FnBody(t, "f")[0])
	verdicts := MatchChain(ctxOf(r), top)
	if len(verdicts) != 2 || verdicts[0].Kind != ElseBlock || verdicts[1].Kind != NestedIf {
		t.Fatalf("verdicts = %+v", verdicts)
	}
}

func TestDeepElseIfChainReportsEachLevelOnce(t *testing.T) {
	src := "fn f() { if a {} else if b {} else { if c {} else { if d {} } } }"
	r := check(t, src)
	if len(r.Findings) != 2 {
		t.Fatalf("findings = %v", r.Messages())
	}
	seen := map[string]bool{}
	for _, f := range r.Findings {
		text := r.Text(f.Span)
		if seen[text] {
			t.Fatalf("level reported twice: %q", text)
		}
		seen[text] = true
	}
}

func TestMatcherIsIdempotent(t *testing.T) {
	r := linttest.Parse(t, "fn f() { if x { a(); } if y { if z {} } if p {} else { if q {} } }")
	ctx := ctxOf(r)
	for _, st := range r.FnBody(t, "f") {
		id := r.StmtExpr(t, st)
		first, second := MatchChain(ctx, id), MatchChain(ctx, id)
		if len(first) != len(second) {
			t.Fatalf("verdict count changed: %d vs %d", len(first), len(second))
		}
		for i := range first {
			if first[i] != second[i] {
				t.Fatalf("verdict %d changed: %+v vs %+v", i, first[i], second[i])
			}
		}
		if MatchNested(ctx, id) != MatchNested(ctx, id) {
			t.Fatalf("nested verdict changed")
		}
	}
}

func TestVerdictCapturesAreSubNodes(t *testing.T) {
	r := linttest.Parse(t, "fn f() { if x { if y { z(); } } }")
	id := r.StmtExpr(t, r.FnBody(t, "f")[0])
	v := MatchNested(ctxOf(r), id)
	if v.Kind != NestedIf {
		t.Fatalf("kind = %v", v.Kind)
	}
	outer := r.Builder.Exprs.Get(id).Span
	for _, sub := range []ast.ExprID{v.Inner, v.OuterCond, v.InnerCond, v.InnerThen} {
		if !outer.Contains(r.Builder.Exprs.Get(sub).Span) {
			t.Fatalf("capture %d outside the outer if", sub)
		}
	}
}

// Applying (a) and reparsing keeps the inner condition and body.
func TestElseBlockFixReparses(t *testing.T) {
	src := `fn f() {
    if x {
        a();
    } else {
        if y == 1 {
            b();
            c();
        } else {
            d();
        }
    }
}
`
	r := check(t, src)
	if len(r.Findings) != 1 {
		t.Fatalf("got %d findings", len(r.Findings))
	}
	out := fixed(t, r)
	again := linttest.Parse(t, out)
	top := again.StmtExpr(t, again.FnBody(t, "f")[0])
	outer, ok := again.Builder.Exprs.If(top)
	if !ok {
		t.Fatalf("fixed code lost the if:\n%s", out)
	}
	inner, ok := again.Builder.Exprs.If(outer.Else)
	if !ok {
		t.Fatalf("else branch is not an else-if:\n%s", out)
	}
	if got := again.Text(again.Builder.Exprs.Get(inner.Cond).Span); got != "y == 1" {
		t.Fatalf("condition = %q", got)
	}
	then, _ := again.Builder.Exprs.Block(inner.Then)
	if len(then.Stmts) != 2 {
		t.Fatalf("body has %d statements", len(then.Stmts))
	}
	if !inner.Else.IsValid() {
		t.Fatalf("inner else was dropped")
	}
	if fresh := check(t, out); len(fresh.Findings) != 0 {
		t.Fatalf("fixed code still triggers: %v", fresh.Messages())
	}
}

func TestAllowAttributeSilences(t *testing.T) {
	r := check(t, "#[allow(clippy::collapsible_if)]\nfn f() { if x { if y {} } }\nfn g() { if x { if y {} } }")
	if len(r.Findings) != 1 {
		t.Fatalf("got %d findings, want only g: %v", len(r.Findings), r.Messages())
	}
}
