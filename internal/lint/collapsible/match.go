// Package collapsible implements collapsible_if: nested conditionals that can
// be merged into one `if` or an `else if`.
package collapsible

import (
	"strings"
	"unicode"

	"hone/internal/ast"
	"hone/internal/lint"
)

type VerdictKind uint8

const (
	NoMatch   VerdictKind = iota
	ElseBlock             // else { if .. } -> else if ..
	NestedIf              // if a { if b { .. } } -> if a && b { .. }
)

func (k VerdictKind) String() string {
	switch k {
	case ElseBlock:
		return "else-block"
	case NestedIf:
		return "nested-if"
	}
	return "no-match"
}

const (
	msgElseBlock = "this `else { if .. }` block can be collapsed"
	msgNestedIf  = "this if statement can be collapsed"
)

// Verdict captures the sub-nodes a suggestion is built from. All of them lie
// inside the node the matcher was invoked on.
type Verdict struct {
	Kind    VerdictKind
	Message string
	// If is the if or if-let that was judged; set by Match.
	If ast.ExprID
	// ElseBlock: the else block and the if inside it.
	Else  ast.ExprID
	Inner ast.ExprID
	// NestedIf: the outer if, both conditions and the inner body.
	Outer     ast.ExprID
	OuterCond ast.ExprID
	InnerCond ast.ExprID
	InnerThen ast.ExprID
}

// Context is what the matcher needs: the tree, hygiene and source text.
type Context struct {
	Builder *ast.Builder
	Spans   lint.SpanOracle
	Source  lint.SourceAccess
}

func (c Context) span(id ast.ExprID) (ast.Expr, bool) {
	e := c.Builder.Exprs.Get(id)
	if e == nil {
		return ast.Expr{}, false
	}
	return *e, true
}

// MatchElse checks an else branch: a block holding a single if or if-let
// expression not produced by a macro.
func MatchElse(ctx Context, elseBranch ast.ExprID) Verdict {
	inner, ok := ctx.singleExpr(elseBranch)
	if !ok {
		return Verdict{}
	}
	e, ok := ctx.span(inner)
	if !ok || (e.Kind != ast.ExprIf && e.Kind != ast.ExprIfLet) {
		return Verdict{}
	}
	if ctx.Spans != nil && ctx.Spans.InMacroExpansion(e.Span) {
		return Verdict{}
	}
	if ctx.hasComments(elseBranch, inner) {
		return Verdict{}
	}
	return Verdict{Kind: ElseBlock, Message: msgElseBlock, Else: elseBranch, Inner: inner}
}

// MatchNested checks an if without else whose body is a single if without
// else. Both must come from the same expansion context.
func MatchNested(ctx Context, ifExpr ast.ExprID) Verdict {
	outer, ok := ctx.Builder.Exprs.If(ifExpr)
	if !ok || outer.Else.IsValid() {
		return Verdict{}
	}
	inner, ok := ctx.singleExpr(outer.Then)
	if !ok {
		return Verdict{}
	}
	in, ok := ctx.Builder.Exprs.If(inner)
	if !ok || in.Else.IsValid() {
		return Verdict{}
	}
	outerExpr, _ := ctx.span(ifExpr)
	innerExpr, _ := ctx.span(inner)
	if ctx.Spans != nil && !ctx.Spans.SameExpansionContext(outerExpr.Span, innerExpr.Span) {
		return Verdict{}
	}
	if ctx.hasComments(outer.Then, inner) {
		return Verdict{}
	}
	return Verdict{
		Kind:      NestedIf,
		Message:   msgNestedIf,
		Outer:     ifExpr,
		Inner:     inner,
		OuterCond: outer.Cond,
		InnerCond: in.Cond,
		InnerThen: in.Then,
	}
}

// Match judges one if or if-let: its else branch when it has one, the
// nested shape otherwise.
func Match(ctx Context, id ast.ExprID) Verdict {
	e, ok := ctx.span(id)
	if !ok || (e.Kind != ast.ExprIf && e.Kind != ast.ExprIfLet) {
		return Verdict{}
	}
	var v Verdict
	if els := ctx.elseOf(id); els.IsValid() {
		v = MatchElse(ctx, els)
	} else if e.Kind == ast.ExprIf {
		v = MatchNested(ctx, id)
	}
	if v.Kind != NoMatch {
		v.If = id
	}
	return v
}

// MatchChain judges every level of the else chain starting at ifExpr and
// returns one verdict per collapsible level, outermost first. The chain ends
// at a level produced by a macro.
func MatchChain(ctx Context, ifExpr ast.ExprID) []Verdict {
	var out []Verdict
	for cur := ifExpr; cur.IsValid(); cur = ctx.nextInChain(ctx.elseOf(cur)) {
		e, ok := ctx.span(cur)
		if !ok || (e.Kind != ast.ExprIf && e.Kind != ast.ExprIfLet) {
			break
		}
		if ctx.Spans != nil && ctx.Spans.InMacroExpansion(e.Span) {
			break
		}
		if v := Match(ctx, cur); v.Kind != NoMatch {
			out = append(out, v)
		}
	}
	return out
}

// nextInChain returns the if that continues the chain after an else branch:
// the branch itself for `else if`, or the lone if inside `else { if .. }`.
func (c Context) nextInChain(els ast.ExprID) ast.ExprID {
	e, ok := c.span(els)
	if !ok {
		return ast.NoExprID
	}
	if e.Kind == ast.ExprIf || e.Kind == ast.ExprIfLet {
		return els
	}
	if inner, ok := c.singleExpr(els); ok {
		return inner
	}
	return ast.NoExprID
}

func (c Context) elseOf(id ast.ExprID) ast.ExprID {
	if d, ok := c.Builder.Exprs.If(id); ok {
		return d.Else
	}
	if d, ok := c.Builder.Exprs.IfLet(id); ok {
		return d.Else
	}
	return ast.NoExprID
}

// singleExpr returns the expression of a block consisting of exactly one
// expression statement, with or without a trailing semicolon.
func (c Context) singleExpr(block ast.ExprID) (ast.ExprID, bool) {
	b, ok := c.Builder.Exprs.Block(block)
	if !ok || b.Unsafe || b.Label != "" || len(b.Stmts) != 1 {
		return ast.NoExprID, false
	}
	st, ok := c.Builder.Stmts.Expr(b.Stmts[0])
	if !ok {
		return ast.NoExprID, false
	}
	return st.Expr, true
}

// hasComments reports text other than braces and whitespace around the inner
// expression; collapsing would drop it.
func (c Context) hasComments(block, inner ast.ExprID) bool {
	if c.Source == nil {
		return false
	}
	b, _ := c.span(block)
	in, _ := c.span(inner)
	if !b.Span.Contains(in.Span) {
		return false
	}
	before := b.Span
	before.End = in.Span.Start
	after := b.Span
	after.Start = in.Span.End
	rest := c.Source.SourceText(before, "") + c.Source.SourceText(after, "")
	return strings.TrimFunc(rest, func(r rune) bool {
		return r == '{' || r == '}' || r == ';' || unicode.IsSpace(r)
	}) != ""
}
