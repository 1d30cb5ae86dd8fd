package parser

import (
	"testing"

	"hone/internal/ast"
)

func TestStructShapes(t *testing.T) {
	p := parseClean(t, `
pub struct Named { pub a: u8, b: Vec<String> }
struct Tuple(pub u8, (i32, bool));
pub(crate) struct Unit;
pub union U { x: u32, y: f32 }
`)
	if len(p.items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(p.items))
	}
	tests := []struct {
		kind   ast.ItemKind
		name   string
		vis    ast.Visibility
		shape  ast.StructShape
		fields int
	}{
		{ast.ItemStruct, "Named", ast.VisPublic, ast.ShapeNamed, 2},
		{ast.ItemStruct, "Tuple", ast.VisPrivate, ast.ShapeTuple, 2},
		{ast.ItemStruct, "Unit", ast.VisCrate, ast.ShapeUnit, 0},
		{ast.ItemUnion, "U", ast.VisPublic, ast.ShapeNamed, 2},
	}
	for i, tt := range tests {
		item := p.b.Items.Get(p.items[i])
		if item.Kind != tt.kind || p.b.Name(item.Name) != tt.name || item.Vis != tt.vis {
			t.Fatalf("item %d: got %v %q vis=%v", i, item.Kind, p.b.Name(item.Name), item.Vis)
		}
		data, ok := p.b.Items.Struct(p.items[i])
		if !ok || data.Shape != tt.shape || len(data.Fields) != tt.fields {
			t.Fatalf("item %d: shape=%v fields=%d", i, data.Shape, len(data.Fields))
		}
	}
}

func TestItemSpanExcludesAttributes(t *testing.T) {
	src := "#[derive(Debug, Clone)]\npub struct S;"
	p := parseClean(t, src)
	item := p.b.Items.Get(p.items[0])
	if got := p.fs.SourceText(item.Span, ""); got != "pub struct S;" {
		t.Fatalf("item span text = %q", got)
	}
	attr, ok := ast.FindAttr(item.Attrs, "derive")
	if !ok {
		t.Fatalf("derive attribute missing")
	}
	if len(attr.Args) != 2 || attr.Args[0] != "Debug" || attr.Args[1] != "Clone" {
		t.Fatalf("derive args = %v", attr.Args)
	}
}

func TestInnerAttributes(t *testing.T) {
	p := parseClean(t, "#![no_core]\n#![allow(clippy::collapsible_if)]\nfn main() {}")
	f := p.b.Files.Get(p.file)
	if len(f.Attrs) != 2 || !f.Attrs[0].Inner || f.Attrs[0].Name != "no_core" {
		t.Fatalf("inner attrs = %+v", f.Attrs)
	}
	if f.Attrs[1].Args[0] != "clippy::collapsible_if" {
		t.Fatalf("allow args = %v", f.Attrs[1].Args)
	}
}

func TestModInnerAttributesBelongToTheMod(t *testing.T) {
	p := parseClean(t, "mod m {\n    #![allow(dead_code)]\n    fn f() {}\n}")
	item := p.b.Items.Get(p.items[0])
	attr, ok := ast.FindAttr(item.Attrs, "allow")
	if !ok || !attr.Inner || attr.Args[0] != "dead_code" {
		t.Fatalf("mod attrs = %+v", item.Attrs)
	}
	if f := p.b.Files.Get(p.file); len(f.Attrs) != 0 {
		t.Fatalf("file attrs = %+v", f.Attrs)
	}
}

func TestImplAndMethods(t *testing.T) {
	p := parseClean(t, `
impl<T> Foo<T> where T: Clone {
    pub fn new() -> Self { Foo { v: Vec::new() } }
    pub const fn empty() -> Self { todo!() }
    fn get(&self, i: usize) -> &T { &self.v[i] }
    fn take(mut self) -> Vec<T> { self.v }
    pub fn generic<U: Into<T>>(u: U) -> Self { unimplemented!() }
}
impl<T: Default> Default for Foo<T> {
    fn default() -> Self { Self::new() }
}
impl !Send for Foo<u8> {}
`)
	if len(p.items) != 3 {
		t.Fatalf("expected 3 impls, got %d", len(p.items))
	}
	inherent, _ := p.b.Items.Impl(p.items[0])
	if inherent.Trait.IsValid() || len(inherent.Items) != 5 || !inherent.Generics.HasTypeParams() {
		t.Fatalf("inherent impl parsed wrong: %+v", inherent)
	}

	type fnShape struct {
		name    string
		vis     ast.Visibility
		self    bool
		params  int
		konst   bool
		generic bool
	}
	want := []fnShape{
		{"new", ast.VisPublic, false, 0, false, false},
		{"empty", ast.VisPublic, false, 0, true, false},
		{"get", ast.VisPrivate, true, 1, false, false},
		{"take", ast.VisPrivate, true, 0, false, false},
		{"generic", ast.VisPublic, false, 1, false, true},
	}
	for i, w := range want {
		item := p.b.Items.Get(inherent.Items[i])
		fn, ok := p.b.Items.Fn(inherent.Items[i])
		if !ok {
			t.Fatalf("impl item %d is not a fn", i)
		}
		got := fnShape{p.b.Name(item.Name), item.Vis, fn.HasSelf, len(fn.Params), fn.Const, fn.Generics.HasTypeParams()}
		if got != w {
			t.Fatalf("fn %d = %+v, want %+v", i, got, w)
		}
	}

	traitImpl, _ := p.b.Items.Impl(p.items[1])
	path, ok := p.b.Types.Path(traitImpl.Trait)
	if !ok || path.Path.String(p.b.Strings) != "Default" {
		t.Fatalf("trait impl trait = %+v", traitImpl.Trait)
	}
	neg, _ := p.b.Items.Impl(p.items[2])
	if !neg.Negative {
		t.Fatalf("negative impl not recognised")
	}
}

func TestNestedGenericsSplitShr(t *testing.T) {
	p := parseClean(t, "fn f() -> Vec<Vec<u8>> { let x: Option<Box<Vec<u8>>>= None; x }")
	fn, _ := p.b.Items.Fn(p.items[0])
	outer, ok := p.b.Types.Path(fn.Ret)
	if !ok {
		t.Fatalf("return type is not a path")
	}
	seg, _ := outer.Path.Last()
	if len(seg.Args) != 1 {
		t.Fatalf("Vec args = %d", len(seg.Args))
	}
	inner, _ := p.b.Types.Path(seg.Args[0])
	innerSeg, _ := inner.Path.Last()
	if p.b.Name(innerSeg.Name) != "Vec" || len(innerSeg.Args) != 1 {
		t.Fatalf("inner type parsed wrong")
	}
}

func TestEnumTraitModUse(t *testing.T) {
	p := parseClean(t, `
use std::collections::{HashMap, HashSet};
extern crate alloc;
mod inner {
    pub enum E { A, B(u8), C { x: i32 } = 3 }
    pub trait T: Clone { type Item; const N: usize; fn f(&self) -> Self::Item; }
}
mod outline;
const LIMIT: usize = 32;
static mut COUNTER: u64 = 0;
type Alias<T> = Vec<T>;
`)
	kinds := []ast.ItemKind{ast.ItemUse, ast.ItemUse, ast.ItemMod, ast.ItemMod, ast.ItemConst, ast.ItemStatic, ast.ItemTypeAlias}
	if len(p.items) != len(kinds) {
		t.Fatalf("got %d items", len(p.items))
	}
	for i, k := range kinds {
		if got := p.b.Items.Get(p.items[i]).Kind; got != k {
			t.Fatalf("item %d kind = %v, want %v", i, got, k)
		}
	}
	mod, _ := p.b.Items.Mod(p.items[2])
	if !mod.Inline || len(mod.Items) != 2 {
		t.Fatalf("inline mod = %+v", mod)
	}
	enum, _ := p.b.Items.Enum(mod.Items[0])
	if len(enum.Variants) != 3 || enum.Variants[2].Shape != ast.ShapeNamed {
		t.Fatalf("enum variants = %+v", enum.Variants)
	}
	trait, _ := p.b.Items.Trait(mod.Items[1])
	if len(trait.Items) != 3 {
		t.Fatalf("trait items = %d", len(trait.Items))
	}
}

func TestItemRecovery(t *testing.T) {
	p := parseSource(t, `
struct S { a: }
pub struct Ok;
`)
	if !p.bag.HasErrors() {
		t.Fatalf("expected syntax errors")
	}
	found := false
	for _, id := range p.items {
		if p.b.Name(p.b.Items.Get(id).Name) == "Ok" {
			found = true
		}
	}
	if !found {
		t.Fatalf("parser did not recover to the next item")
	}
}
