package ast

// Visitor receives nodes in source pre-order. Returning false from a Visit
// method skips the node's children.
type Visitor interface {
	VisitItem(id ItemID, item *Item) bool
	VisitExpr(id ExprID, expr *Expr) bool
}

// Walk traverses every item of file and everything nested in it.
func Walk(b *Builder, file FileID, v Visitor) {
	f := b.Files.Get(file)
	if f == nil {
		return
	}
	w := walker{b: b, v: v}
	for _, item := range f.Items {
		w.item(item)
	}
}

// WalkExpr traverses a single expression subtree.
func WalkExpr(b *Builder, id ExprID, v Visitor) {
	w := walker{b: b, v: v}
	w.expr(id)
}

type walker struct {
	b *Builder
	v Visitor
}

func (w *walker) item(id ItemID) {
	item := w.b.Items.Get(id)
	if item == nil || !w.v.VisitItem(id, item) {
		return
	}
	switch item.Kind {
	case ItemFn:
		if fn, ok := w.b.Items.Fn(id); ok {
			w.expr(fn.Body)
		}
	case ItemImpl:
		if impl, ok := w.b.Items.Impl(id); ok {
			for _, sub := range impl.Items {
				w.item(sub)
			}
		}
	case ItemTrait:
		if tr, ok := w.b.Items.Trait(id); ok {
			for _, sub := range tr.Items {
				w.item(sub)
			}
		}
	case ItemMod:
		if mod, ok := w.b.Items.Mod(id); ok {
			for _, sub := range mod.Items {
				w.item(sub)
			}
		}
	case ItemConst, ItemStatic:
		if val, ok := w.b.Items.Value(id); ok {
			w.expr(val.Value)
		}
	}
}

func (w *walker) stmt(id StmtID) {
	stmt := w.b.Stmts.Get(id)
	if stmt == nil {
		return
	}
	switch stmt.Kind {
	case StmtLet:
		if let, ok := w.b.Stmts.Let(id); ok {
			w.expr(let.Init)
			w.expr(let.Else)
		}
	case StmtItem:
		if it, ok := w.b.Stmts.Item(id); ok {
			w.item(it.Item)
		}
	case StmtExpr, StmtSemi:
		if e, ok := w.b.Stmts.Expr(id); ok {
			w.expr(e.Expr)
		}
	}
}

func (w *walker) exprs(ids []ExprID) {
	for _, id := range ids {
		w.expr(id)
	}
}

func (w *walker) expr(id ExprID) {
	if !id.IsValid() {
		return
	}
	expr := w.b.Exprs.Get(id)
	if expr == nil || !w.v.VisitExpr(id, expr) {
		return
	}
	ex := w.b.Exprs
	switch expr.Kind {
	case ExprBinary:
		d, _ := ex.Binary(id)
		w.expr(d.Left)
		w.expr(d.Right)
	case ExprUnary:
		d, _ := ex.Unary(id)
		w.expr(d.Operand)
	case ExprAssign:
		d, _ := ex.Assign(id)
		w.expr(d.Target)
		w.expr(d.Value)
	case ExprCast:
		d, _ := ex.Cast(id)
		w.expr(d.Value)
	case ExprCall:
		d, _ := ex.Call(id)
		w.expr(d.Callee)
		w.exprs(d.Args)
	case ExprMethodCall:
		d, _ := ex.MethodCall(id)
		w.expr(d.Receiver)
		w.exprs(d.Args)
	case ExprField:
		d, _ := ex.Field(id)
		w.expr(d.Target)
	case ExprIndex:
		d, _ := ex.Index(id)
		w.expr(d.Target)
		w.expr(d.Index)
	case ExprTuple, ExprArray:
		d, _ := ex.List(id)
		w.exprs(d.Elems)
		w.expr(d.Repeat)
	case ExprStruct:
		d, _ := ex.Struct(id)
		for _, f := range d.Fields {
			w.expr(f.Value)
		}
		w.expr(d.Base)
	case ExprParen:
		d, _ := ex.Paren(id)
		w.expr(d.Inner)
	case ExprBlock:
		d, _ := ex.Block(id)
		for _, s := range d.Stmts {
			w.stmt(s)
		}
	case ExprIf:
		d, _ := ex.If(id)
		w.expr(d.Cond)
		w.expr(d.Then)
		w.expr(d.Else)
	case ExprIfLet:
		d, _ := ex.IfLet(id)
		w.expr(d.Scrutinee)
		w.expr(d.Then)
		w.expr(d.Else)
	case ExprWhile, ExprLoop, ExprFor:
		d, _ := ex.Loop(id)
		w.expr(d.Head)
		w.expr(d.Body)
	case ExprMatch:
		d, _ := ex.Match(id)
		w.expr(d.Scrutinee)
		for _, arm := range d.Arms {
			w.expr(arm.Guard)
			w.expr(arm.Body)
		}
	case ExprClosure:
		d, _ := ex.Closure(id)
		w.expr(d.Body)
	case ExprRange:
		d, _ := ex.Range(id)
		w.expr(d.Start)
		w.expr(d.End)
	case ExprReturn, ExprBreak, ExprContinue:
		d, _ := ex.Jump(id)
		w.expr(d.Value)
	case ExprTry:
		d, _ := ex.Try(id)
		w.expr(d.Inner)
	}
}
