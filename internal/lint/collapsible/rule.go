package collapsible

import (
	"hone/internal/ast"
	"hone/internal/diag"
	"hone/internal/lint"
	"hone/internal/source"
	"hone/internal/sugg"
)

// Name of the lint.
const Name = "collapsible_if"

var Def = lint.RuleDef{
	Name:        Name,
	Code:        diag.LintCollapsibleIf,
	Group:       "style",
	Level:       lint.Warn,
	Description: "nested `if` without `else`, or `else { if .. }`, that can be collapsed",
	Rationale:   "Each extra level of nesting makes the code harder to read.",
	BadExample: `if x {
    if y {
        work();
    }
}`,
	GoodExample: `if x && y {
    work();
}`,
	Fix: true,
}

// Rule reports collapsible conditionals. An else chain is judged from its
// outermost if; levels already reported are skipped when the walk reaches
// them. A Rule serves one file.
type Rule struct {
	reported map[ast.ExprID]bool
}

func New() lint.Rule { return &Rule{reported: make(map[ast.ExprID]bool)} }

func (*Rule) Name() string { return Name }

func (r *Rule) CheckExpr(p *lint.Pass, id ast.ExprID) {
	if r.reported[id] {
		return
	}
	e := p.Builder.Exprs.Get(id)
	if e == nil || (e.Kind != ast.ExprIf && e.Kind != ast.ExprIfLet) {
		return
	}
	if p.Spans != nil && p.Spans.InMacroExpansion(e.Span) {
		return
	}
	ctx := Context{Builder: p.Builder, Spans: p.Spans, Source: p.Source}
	for _, v := range MatchChain(ctx, id) {
		if r.reported[v.If] {
			continue
		}
		r.reported[v.If] = true
		p.Emit(Finding(ctx, v))
	}
}

// Finding builds the report for a verdict.
func Finding(ctx Context, v Verdict) lint.Finding {
	f := lint.Finding{Lint: Name, Message: v.Message, Help: "try"}
	var src lint.SourceAccess = noSource{}
	appl := lint.HasPlaceholders
	if ctx.Source != nil {
		src, appl = ctx.Source, lint.MachineApplicable
	}
	switch v.Kind {
	case ElseBlock:
		els, _ := ctx.span(v.Else)
		inner, _ := ctx.span(v.Inner)
		f.Span = els.Span
		f.Suggestion = &lint.Suggestion{
			Span:          els.Span,
			Replacement:   sugg.SnippetBlock(src, inner.Span, "..", els.Span),
			Applicability: appl,
		}
	case NestedIf:
		outer, _ := ctx.span(v.Outer)
		then, _ := ctx.span(v.InnerThen)
		lhs := sugg.FromExpr(ctx.Builder, src, v.OuterCond, "..")
		rhs := sugg.FromExpr(ctx.Builder, src, v.InnerCond, "..")
		f.Span = outer.Span
		f.Suggestion = &lint.Suggestion{
			Span:          outer.Span,
			Replacement:   "if " + lhs.And(rhs).Text + " " + sugg.SnippetBlock(src, then.Span, "{ .. }", outer.Span),
			Applicability: appl,
		}
	}
	return f
}

// noSource yields only placeholders.
type noSource struct{}

func (noSource) SourceText(_ source.Span, fallback string) string { return fallback }
func (noSource) LineIndent(source.Span) string                    { return "" }
