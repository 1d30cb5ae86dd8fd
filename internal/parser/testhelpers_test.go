package parser

import (
	"fmt"
	"strings"
	"testing"

	"hone/internal/ast"
	"hone/internal/diag"
	"hone/internal/hygiene"
	"hone/internal/source"
)

type parsed struct {
	b     *ast.Builder
	file  ast.FileID
	bag   *diag.Bag
	hyg   *hygiene.Table
	fs    *source.FileSet
	items []ast.ItemID
}

func parseSource(t *testing.T, src string) parsed {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.rs", []byte(src))
	bag := diag.NewBag(100)
	hyg := hygiene.NewTable()
	b := ast.NewBuilder(ast.Hints{}, nil)
	res := ParseFile(fs, fs.Get(id), b, Options{Reporter: &diag.BagReporter{Bag: bag}, Hygiene: hyg})
	return parsed{b: b, file: res.File, bag: bag, hyg: hyg, fs: fs, items: b.Files.Get(res.File).Items}
}

func parseClean(t *testing.T, src string) parsed {
	t.Helper()
	p := parseSource(t, src)
	if p.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(p.bag))
	}
	return p
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

// fnBody возвращает операторы тела первой функции с именем name.
func (p parsed) fnBody(t *testing.T, name string) []ast.StmtID {
	t.Helper()
	for _, id := range p.items {
		item := p.b.Items.Get(id)
		if item.Kind != ast.ItemFn || p.b.Name(item.Name) != name {
			continue
		}
		fn, _ := p.b.Items.Fn(id)
		blk, ok := p.b.Exprs.Block(fn.Body)
		if !ok {
			t.Fatalf("fn %s has no body", name)
		}
		return blk.Stmts
	}
	t.Fatalf("fn %s not found", name)
	return nil
}

// stmtExpr возвращает выражение оператора-выражения.
func (p parsed) stmtExpr(t *testing.T, id ast.StmtID) ast.ExprID {
	t.Helper()
	e, ok := p.b.Stmts.Expr(id)
	if !ok {
		t.Fatalf("statement %d is not an expression statement", id)
	}
	return e.Expr
}

// letInit возвращает инициализатор let-оператора.
func (p parsed) letInit(t *testing.T, id ast.StmtID) ast.ExprID {
	t.Helper()
	let, ok := p.b.Stmts.Let(id)
	if !ok {
		t.Fatalf("statement %d is not a let", id)
	}
	return let.Init
}

func (p parsed) text(id ast.ExprID) string {
	return p.fs.SourceText(p.b.Exprs.Get(id).Span, "")
}
