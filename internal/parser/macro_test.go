package parser

import (
	"testing"

	"hone/internal/ast"
	"hone/internal/source"
)

func TestBraceMacroStatementsAreExpanded(t *testing.T) {
	p := parseClean(t, `
macro_rules! wrap { ($($t:tt)*) => { $($t)* } }
fn f() {
    let before = 1;
    wrap! {
        if a {
            if b {}
        }
    }
    let after = 2;
}`)
	if kind := p.b.Items.Get(p.items[0]).Kind; kind != ast.ItemMacroRules {
		t.Fatalf("first item = %v, want macro_rules", kind)
	}
	body := p.fnBody(t, "f")
	if len(body) != 3 {
		t.Fatalf("expanded body has %d statements, want 3", len(body))
	}
	outer := p.stmtExpr(t, body[1])
	outerSpan := p.b.Exprs.Get(outer).Span
	if outerSpan.Ctxt == source.RootContext {
		t.Fatalf("expanded if must carry a macro context")
	}
	if !p.hyg.InMacroExpansion(outerSpan) {
		t.Fatalf("hygiene table does not know the expansion")
	}
	data, ok := p.hyg.Data(outerSpan.Ctxt)
	if !ok || data.Macro != "wrap" {
		t.Fatalf("expansion data = %+v", data)
	}
	if p.fs.SourceText(data.CallSite, "")[:5] != "wrap!" {
		t.Fatalf("call site must cover the invocation")
	}

	letSpan := p.b.Stmts.Get(body[0]).Span
	if letSpan.Ctxt != source.RootContext {
		t.Fatalf("statements outside the macro must stay in the root context")
	}

	ifData, _ := p.b.Exprs.If(outer)
	then, _ := p.b.Exprs.Block(ifData.Then)
	inner := p.stmtExpr(t, then.Stmts[0])
	if !p.hyg.SameExpansionContext(outerSpan, p.b.Exprs.Get(inner).Span) {
		t.Fatalf("tokens of one expansion must share a context")
	}
}

func TestNestedBraceMacros(t *testing.T) {
	p := parseClean(t, "fn f() { outer! { inner! { x; } } }")
	body := p.fnBody(t, "f")
	if len(body) != 1 {
		t.Fatalf("got %d statements", len(body))
	}
	sp := p.b.Stmts.Get(body[0]).Span
	data, ok := p.hyg.Data(sp.Ctxt)
	if !ok || data.Macro != "inner" {
		t.Fatalf("innermost expansion = %+v", data)
	}
	parent, ok := p.hyg.Data(data.Parent)
	if !ok || parent.Macro != "outer" {
		t.Fatalf("parent expansion = %+v", parent)
	}
}

func TestBraceMacroItemsAreExpanded(t *testing.T) {
	p := parseClean(t, `
define! {
    pub struct Gen;
    impl Gen { pub fn new() -> Self { Gen } }
}
lazy_static!(static ref X: u8 = 1;);
pub struct Plain;
`)
	if len(p.items) != 4 {
		t.Fatalf("got %d items, want 4", len(p.items))
	}
	gen := p.b.Items.Get(p.items[0])
	if gen.Kind != ast.ItemStruct || gen.Span.Ctxt == source.RootContext {
		t.Fatalf("expanded struct = %+v", gen)
	}
	impl := p.b.Items.Get(p.items[1])
	if impl.Kind != ast.ItemImpl || impl.Span.Ctxt != gen.Span.Ctxt {
		t.Fatalf("items of one expansion must share a context")
	}
	call := p.b.Items.Get(p.items[2])
	if call.Kind != ast.ItemMacroCall {
		t.Fatalf("paren macro in item position must stay opaque, got %v", call.Kind)
	}
	plain := p.b.Items.Get(p.items[3])
	if plain.Span.Ctxt != source.RootContext {
		t.Fatalf("items after the macro must be in the root context")
	}
}
