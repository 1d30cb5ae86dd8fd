package ast

import (
	"testing"

	"hone/internal/source"
)

type kindCollector struct {
	exprs []ExprKind
	items []ItemKind
}

func (c *kindCollector) VisitItem(_ ItemID, item *Item) bool {
	c.items = append(c.items, item.Kind)
	return true
}

func (c *kindCollector) VisitExpr(_ ExprID, expr *Expr) bool {
	c.exprs = append(c.exprs, expr.Kind)
	return expr.Kind != ExprClosure
}

func TestWalkPreOrder(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	sp := source.Span{}
	name := b.Strings.Intern("x")
	path := func() ExprID {
		return b.Exprs.NewPath(sp, Path{Segments: []PathSegment{{Name: name}}})
	}

	innerThen := b.Exprs.NewBlock(sp, ExprBlockData{})
	inner := b.Exprs.NewIf(sp, path(), innerThen, NoExprID)
	outerThen := b.Exprs.NewBlock(sp, ExprBlockData{
		Stmts: []StmtID{b.Stmts.NewExpr(sp, inner, false)},
	})
	closureBody := b.Exprs.NewBlock(sp, ExprBlockData{})
	closure := b.Exprs.NewClosure(sp, ExprClosureData{Body: closureBody})
	cond := b.Exprs.NewBinary(sp, BinAnd, path(), closure)
	outer := b.Exprs.NewIf(sp, cond, outerThen, NoExprID)
	body := b.Exprs.NewBlock(sp, ExprBlockData{Stmts: []StmtID{b.Stmts.NewExpr(sp, outer, false)}})

	fn := b.Items.NewFn(ItemHeader{Name: b.Strings.Intern("f")}, FnData{Body: body})
	file := b.NewFile(sp)
	b.PushItem(file, fn)

	var c kindCollector
	Walk(b, file, &c)

	want := []ExprKind{ExprBlock, ExprIf, ExprBinary, ExprPath, ExprClosure, ExprBlock, ExprIf, ExprPath, ExprBlock}
	if len(c.exprs) != len(want) {
		t.Fatalf("expr kinds = %v, want %v", c.exprs, want)
	}
	for i := range want {
		if c.exprs[i] != want[i] {
			t.Fatalf("expr[%d] = %v, want %v (all %v)", i, c.exprs[i], want[i], c.exprs)
		}
	}
	if len(c.items) != 1 || c.items[0] != ItemFn {
		t.Fatalf("items = %v", c.items)
	}
}

func TestAccessorsRejectWrongKind(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	blk := b.Exprs.NewBlock(source.Span{}, ExprBlockData{})
	if _, ok := b.Exprs.If(blk); ok {
		t.Fatalf("If() accepted a block")
	}
	if d, ok := b.Exprs.Block(blk); !ok || d == nil {
		t.Fatalf("Block() rejected a block")
	}
	if _, ok := b.Exprs.Block(NoExprID); ok {
		t.Fatalf("Block() accepted NoExprID")
	}
}

func TestUnwrapParens(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	lit := b.Exprs.NewLit(source.Span{}, LitBool, "true")
	p := b.Exprs.NewParen(source.Span{}, b.Exprs.NewParen(source.Span{}, lit))
	if got := b.UnwrapParens(p); got != lit {
		t.Fatalf("UnwrapParens = %d, want %d", got, lit)
	}
}
