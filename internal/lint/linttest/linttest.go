// Package linttest runs rules over source snippets for tests.
package linttest

import (
	"fmt"
	"sort"
	"testing"

	"hone/internal/ast"
	"hone/internal/diag"
	"hone/internal/hygiene"
	"hone/internal/lint"
	"hone/internal/parser"
	"hone/internal/sema"
	"hone/internal/source"
)

// Result is a parsed and analyzed snippet.
type Result struct {
	FS       *source.FileSet
	Source   *source.File
	Builder  *ast.Builder
	File     ast.FileID
	Hygiene  *hygiene.Table
	Oracle   *sema.Oracle
	Findings []lint.Finding
}

// Parse parses src as lib.rs and builds the semantic oracle. Syntax errors
// fail the test.
func Parse(t testing.TB, src string) *Result {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("lib.rs", []byte(src))
	bag := diag.NewBag(50)
	hyg := hygiene.NewTable()
	b := ast.NewBuilder(ast.Hints{}, nil)
	res := parser.ParseFile(fs, fs.Get(id), b, parser.Options{Reporter: &diag.BagReporter{Bag: bag}, Hygiene: hyg})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %d, first: %s", bag.Len(), bag.Items()[0].Message)
	}
	opts := sema.Options{Hygiene: hyg}
	crate := sema.Build(b, res.File, opts)
	return &Result{
		FS:      fs,
		Source:  fs.Get(id),
		Builder: b,
		File:    res.File,
		Hygiene: hyg,
		Oracle:  sema.NewOracle(crate, opts),
	}
}

// Pass returns a pass over the snippet collecting findings into r.
func (r *Result) Pass(reg *lint.Registry, levels lint.Levels) *lint.Pass {
	return &lint.Pass{
		Builder:  r.Builder,
		File:     r.File,
		Spans:    r.Hygiene,
		Types:    r.Oracle,
		Source:   r.FS,
		Sink:     lint.SinkFunc(func(f lint.Finding) { r.Findings = append(r.Findings, f) }),
		Registry: reg,
		Levels:   levels,
	}
}

// Check runs one rule with its lints at default level.
func Check(t testing.TB, src string, factory lint.Factory, defs ...lint.RuleDef) *Result {
	t.Helper()
	r := Parse(t, src)
	reg := lint.NewRegistry()
	if err := reg.Register(factory, defs...); err != nil {
		t.Fatalf("register: %v", err)
	}
	lint.Run(r.Pass(reg, nil), reg.Rules(nil))
	return r
}

// Text returns the source under sp.
func (r *Result) Text(sp source.Span) string {
	return r.FS.SourceText(sp, "<?>")
}

// Messages lists findings as "lint: message".
func (r *Result) Messages() []string {
	out := make([]string, 0, len(r.Findings))
	for _, f := range r.Findings {
		out = append(out, f.Lint+": "+f.Message)
	}
	return out
}

// Fixed applies every suggestion to the original text.
func (r *Result) Fixed() (string, error) {
	var sugs []lint.Suggestion
	for _, f := range r.Findings {
		if f.Suggestion != nil {
			sugs = append(sugs, *f.Suggestion)
		}
	}
	return Apply(string(r.Source.Content), sugs)
}

// Apply replaces suggestion spans back to front. Overlapping edits are an
// error.
func Apply(content string, sugs []lint.Suggestion) (string, error) {
	sort.SliceStable(sugs, func(i, j int) bool { return sugs[i].Span.Start > sugs[j].Span.Start })
	out := content
	limit := uint32(len(content))
	for _, s := range sugs {
		if s.Span.End > limit || s.Span.Start > s.Span.End {
			return "", fmt.Errorf("suggestion %d..%d overlaps or is out of range", s.Span.Start, s.Span.End)
		}
		out = out[:s.Span.Start] + s.Replacement + out[s.Span.End:]
		limit = s.Span.Start
	}
	return out, nil
}

// FnBody returns the statements of the first top-level fn with the given name.
func (r *Result) FnBody(t testing.TB, name string) []ast.StmtID {
	t.Helper()
	for _, id := range r.Builder.Files.Get(r.File).Items {
		item := r.Builder.Items.Get(id)
		if item.Kind != ast.ItemFn || r.Builder.Strings.MustLookup(item.Name) != name {
			continue
		}
		fn, _ := r.Builder.Items.Fn(id)
		block, ok := r.Builder.Exprs.Block(fn.Body)
		if !ok {
			t.Fatalf("fn %s has no body", name)
		}
		return block.Stmts
	}
	t.Fatalf("fn %s not found", name)
	return nil
}

// StmtExpr returns the expression of an expression statement.
func (r *Result) StmtExpr(t testing.TB, id ast.StmtID) ast.ExprID {
	t.Helper()
	st, ok := r.Builder.Stmts.Expr(id)
	if !ok {
		t.Fatalf("statement is not an expression")
	}
	return st.Expr
}
