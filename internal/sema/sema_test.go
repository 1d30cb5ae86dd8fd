package sema

import (
	"testing"

	"hone/internal/ast"
	"hone/internal/diag"
	"hone/internal/hygiene"
	"hone/internal/parser"
	"hone/internal/source"
	"hone/internal/types"
)

type fixture struct {
	b      *ast.Builder
	file   ast.FileID
	crate  *Crate
	oracle *Oracle
}

func build(t *testing.T, src string) fixture {
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
	opts := Options{Hygiene: hyg}
	crate := Build(b, res.File, opts)
	return fixture{b: b, file: res.File, crate: crate, oracle: NewOracle(crate, opts)}
}

// adt instantiates a declared ADT with the given arguments.
func (f fixture) adt(t *testing.T, name string, args ...types.TypeID) types.TypeID {
	t.Helper()
	return f.crate.Types.RegisterAdt(f.adtID(t, "", name), name, args)
}

func (f fixture) adtID(t *testing.T, module, name string) types.AdtID {
	t.Helper()
	ids := f.crate.adtIndex[adtKey{module: module, name: name}]
	if len(ids) != 1 {
		t.Fatalf("ADT %s::%s: %d definitions", module, name, len(ids))
	}
	return ids[0]
}

func (f fixture) trait(t *testing.T, path string) types.TraitID {
	t.Helper()
	id, ok := f.oracle.ResolveTraitID(path)
	if !ok {
		t.Fatalf("trait %s not resolved", path)
	}
	return id
}

// method finds the first method with the given name in any impl.
func (f fixture) method(t *testing.T, name string) (ast.ItemID, ast.ItemID) {
	t.Helper()
	for _, impl := range f.crate.Impls() {
		for _, m := range impl.Methods {
			if f.b.Name(f.b.Items.Get(m.Item).Name) == name {
				return impl.Item, m.Item
			}
		}
	}
	t.Fatalf("method %s not found", name)
	return ast.NoItemID, ast.NoItemID
}

func TestResolveTraitID(t *testing.T) {
	f := build(t, "trait Shape {}\n")
	def := f.trait(t, PathDefault)
	if got := f.trait(t, "std::default::Default"); got != def {
		t.Fatalf("std path must resolve to the core trait")
	}
	if got := f.trait(t, "::core::default::Default"); got != def {
		t.Fatalf("global path must resolve to the core trait")
	}
	if _, ok := f.oracle.ResolveTraitID("Shape"); !ok {
		t.Fatalf("local trait not resolved")
	}
	if _, ok := f.oracle.ResolveTraitID("core::missing::Nope"); ok {
		t.Fatalf("unknown path must not resolve")
	}
}

func TestNoCoreHasNoDefault(t *testing.T) {
	f := build(t, "#![no_core]\nstruct Foo;\n")
	if !f.crate.NoCore {
		t.Fatalf("no_core not detected")
	}
	if _, ok := f.oracle.ResolveTraitID(PathDefault); ok {
		t.Fatalf("Default must be unresolvable in no_core crates")
	}
}

func TestBuiltinDefaultTable(t *testing.T) {
	f := build(t, `
pub struct Plain { a: u8 }
pub struct Holder {
    s: String,
    v: Vec<Plain>,
    o: Option<Plain>,
    t: (u8, bool, &'static str),
    arr: [i32; 32],
    big: [i32; 33],
    b: Box<Plain>,
    bs: Box<u64>,
    m: std::collections::HashMap<String, Plain>,
    f: f64,
    r: &'static mut u8,
}
`)
	def := f.trait(t, PathDefault)
	fields, ok := f.oracle.StructuralFields(f.adt(t, "Holder"))
	if !ok {
		t.Fatalf("Holder must be a product type")
	}
	want := []bool{true, true, true, true, true, false, false, true, true, true, false}
	if len(fields) != len(want) {
		t.Fatalf("expected %d fields, got %d", len(want), len(fields))
	}
	for i, field := range fields {
		if got := f.oracle.ImplementsTrait(field, def, nil); got != want[i] {
			t.Errorf("field %d (%s): implements Default = %v, want %v", i, f.oracle.Label(field), got, want[i])
		}
	}
}

func TestDeriveAndExplicitImpls(t *testing.T) {
	f := build(t, `
#[derive(Debug, Default)]
pub struct Derived<T> { x: T }
pub struct Manual;
impl Default for Manual {
    fn default() -> Self { Manual }
}
pub struct Wrapper<T>(T);
impl<T: Default> std::default::Default for Wrapper<T> {
    fn default() -> Self { Wrapper(T::default()) }
}
pub struct NoDefault;
`)
	def := f.trait(t, PathDefault)
	b := f.crate.Types.Builtins()
	noDefault := f.adt(t, "NoDefault")

	cases := []struct {
		name string
		typ  types.TypeID
		want bool
	}{
		{"Manual", f.adt(t, "Manual"), true},
		{"Derived<u8>", f.adt(t, "Derived", f.crate.Types.Intern(types.MakeUint(types.Width8))), true},
		{"Derived<NoDefault>", f.adt(t, "Derived", noDefault), false},
		{"Wrapper<bool>", f.adt(t, "Wrapper", b.Bool), true},
		{"Wrapper<NoDefault>", f.adt(t, "Wrapper", noDefault), false},
		{"NoDefault", noDefault, false},
		{"unknown", b.Unknown, false},
	}
	for _, tc := range cases {
		if got := f.oracle.ImplementsTrait(tc.typ, def, nil); got != tc.want {
			t.Errorf("%s: ImplementsTrait = %v, want %v", tc.name, got, tc.want)
		}
	}
	debug := f.trait(t, PathDebug)
	if f.oracle.ImplementsTrait(f.adt(t, "Manual"), debug, nil) {
		t.Fatalf("Manual does not derive Debug")
	}
}

func TestParamBoundsAndSupertraits(t *testing.T) {
	f := build(t, `
pub struct S<T: Ord, U> { a: T, b: U }
`)
	fields, ok := f.oracle.StructuralFields(f.adt(t, "S",
		f.crate.Types.Builtins().Unknown, f.crate.Types.Builtins().Unknown))
	if !ok || len(fields) != 2 {
		t.Fatalf("expected two fields")
	}
	// substituted with unknown types: nothing holds
	if f.oracle.ImplementsTrait(fields[0], f.trait(t, PathEq), nil) {
		t.Fatalf("unknown type must not implement anything")
	}
	adt, _ := f.crate.Adt(f.adtID(t, "", "S"))
	if !f.oracle.ImplementsTrait(adt.Params[0], f.trait(t, PathEq), nil) {
		t.Fatalf("T: Ord must imply Eq")
	}
	if f.oracle.ImplementsTrait(adt.Params[1], f.trait(t, PathEq), nil) {
		t.Fatalf("unbounded U must not implement Eq")
	}
}

func TestSelfAndReturnTypes(t *testing.T) {
	f := build(t, `
pub struct Foo;
pub struct Other;
impl Foo {
    pub fn new() -> Self { Foo }
    pub fn named() -> Foo { Foo }
    pub fn other() -> Other { Other }
    pub fn unit() {}
}
`)
	impl, newFn := f.method(t, "new")
	self, ok := f.oracle.SelfType(impl)
	if !ok {
		t.Fatalf("self type not recorded")
	}
	for _, name := range []string{"new", "named"} {
		_, fn := f.method(t, name)
		ret, _ := f.oracle.ReturnType(fn)
		if !f.oracle.TypesEqual(self, ret) {
			t.Fatalf("%s: return type %s != %s", name, f.oracle.Label(ret), f.oracle.Label(self))
		}
	}
	_, other := f.method(t, "other")
	if ret, _ := f.oracle.ReturnType(other); f.oracle.TypesEqual(self, ret) {
		t.Fatalf("Other must differ from Foo")
	}
	_, unit := f.method(t, "unit")
	if ret, _ := f.oracle.ReturnType(unit); ret != f.crate.Types.Builtins().Unit {
		t.Fatalf("omitted return type must be unit")
	}
	if !f.oracle.Reachable(newFn) {
		t.Fatalf("pub method on pub type must be reachable")
	}
	if got := f.oracle.Label(self); got != "Foo" {
		t.Fatalf("Label = %q", got)
	}
}

func TestGenericSelfType(t *testing.T) {
	f := build(t, `
pub struct Wrapper<T> { x: T }
impl<T> Wrapper<T> {
    pub fn new() -> Wrapper<T> { todo!() }
}
`)
	impl, fn := f.method(t, "new")
	self, _ := f.oracle.SelfType(impl)
	ret, _ := f.oracle.ReturnType(fn)
	if !f.oracle.TypesEqual(self, ret) {
		t.Fatalf("Wrapper<T> in signature must equal impl self type")
	}
	if got := f.oracle.Label(self); got != "Wrapper<T>" {
		t.Fatalf("Label = %q", got)
	}
}

func TestReachability(t *testing.T) {
	f := build(t, `
struct Private;
impl Private {
    pub fn new() -> Self { Private }
}
pub struct Public;
impl Public {
    fn new() -> Self { Public }
    pub(crate) fn make() -> Self { Public }
}
mod inner {
    pub struct Hidden;
    impl Hidden {
        pub fn new() -> Self { Hidden }
    }
}
pub mod outer {
    pub struct Shown;
    impl Shown {
        pub fn create() -> Self { Shown }
    }
}
`)
	cases := []struct {
		name string
		want bool
	}{
		{"make", false},
		{"create", true},
	}
	for _, tc := range cases {
		_, fn := f.method(t, tc.name)
		if got := f.oracle.Reachable(fn); got != tc.want {
			t.Errorf("%s: Reachable = %v, want %v", tc.name, got, tc.want)
		}
	}
	// every `new` above is unreachable
	for _, impl := range f.crate.Impls() {
		for _, m := range impl.Methods {
			if f.b.Name(f.b.Items.Get(m.Item).Name) == "new" && f.oracle.Reachable(m.Item) {
				t.Errorf("new in impl of %s must be unreachable", f.oracle.Label(impl.Self))
			}
		}
	}
}

func TestStructuralFieldsShapes(t *testing.T) {
	f := build(t, `
pub struct Unit;
pub struct Tuple(u8, String);
pub enum E { A, B }
pub union U { a: u8 }
type Alias = Tuple;
pub struct UsesAlias { t: Alias }
`)
	if fields, ok := f.oracle.StructuralFields(f.adt(t, "Unit")); !ok || len(fields) != 0 {
		t.Fatalf("unit struct must have zero fields")
	}
	if fields, ok := f.oracle.StructuralFields(f.adt(t, "Tuple")); !ok || len(fields) != 2 {
		t.Fatalf("tuple struct must expose its fields")
	}
	for _, name := range []string{"E", "U"} {
		if _, ok := f.oracle.StructuralFields(f.adt(t, name)); ok {
			t.Fatalf("%s is not a product type", name)
		}
	}
	if _, ok := f.oracle.StructuralFields(f.crate.Types.Builtins().Bool); ok {
		t.Fatalf("primitives are not product types")
	}
	fields, _ := f.oracle.StructuralFields(f.adt(t, "UsesAlias"))
	if len(fields) != 1 || fields[0] != f.adt(t, "Tuple") {
		t.Fatalf("alias must resolve to its target")
	}
	if sp, ok := f.oracle.DefinitionSpan(f.adt(t, "Unit")); !ok || sp.Empty() {
		t.Fatalf("definition span missing")
	}
}

func TestMacroDefinedTypeHasNoDefinitionSpan(t *testing.T) {
	f := build(t, `
make! {
    pub struct Generated;
}
`)
	if _, ok := f.oracle.DefinitionSpan(f.adt(t, "Generated")); ok {
		t.Fatalf("types from macro expansions must not expose an insertion point")
	}
}

func TestTypesResolveWithinTheirModule(t *testing.T) {
	f := build(t, `
pub mod a {
    pub struct Foo;
}
pub mod b {
    pub struct Foo(std::fs::File);
    pub struct Uses { here: Foo, there: super::a::Foo, abs: crate::a::Foo }
    impl Foo {
        pub fn new() -> Self { todo!() }
    }
}
pub struct Duration(std::fs::File);
pub struct Clock { d: Duration, lib: std::time::Duration }
`)
	aFoo := f.crate.Types.RegisterAdt(f.adtID(t, "a", "Foo"), "Foo", nil)
	bFoo := f.crate.Types.RegisterAdt(f.adtID(t, "b", "Foo"), "Foo", nil)
	impl, _ := f.method(t, "new")
	if self, _ := f.oracle.SelfType(impl); self != bFoo {
		t.Fatalf("impl in b must target b::Foo, got %s", f.oracle.Label(self))
	}
	uses := f.crate.Types.RegisterAdt(f.adtID(t, "b", "Uses"), "Uses", nil)
	fields, _ := f.oracle.StructuralFields(uses)
	if len(fields) != 3 || fields[0] != bFoo || fields[1] != aFoo || fields[2] != aFoo {
		t.Fatalf("field types resolved to the wrong Foo")
	}

	userDuration := f.adt(t, "Duration")
	clock, _ := f.oracle.StructuralFields(f.adt(t, "Clock"))
	if len(clock) != 2 || clock[0] != userDuration {
		t.Fatalf("user Duration must shadow the library type")
	}
	if clock[1] == userDuration {
		t.Fatalf("std::time::Duration must stay the library type")
	}
	if f.oracle.ImplementsTrait(userDuration, f.trait(t, PathDefault), nil) {
		t.Fatalf("user Duration has no Default")
	}
}

func TestAmbiguousNameResolvesToUnknown(t *testing.T) {
	f := build(t, `
pub mod a { pub struct Foo; }
pub mod b { pub struct Foo; }
pub mod c {
    pub struct Holder { f: Foo }
}
`)
	holder := f.crate.Types.RegisterAdt(f.adtID(t, "c", "Holder"), "Holder", nil)
	fields, _ := f.oracle.StructuralFields(holder)
	if len(fields) != 1 || fields[0] != f.crate.Types.Builtins().Unknown {
		t.Fatalf("Foo imported from one of two modules must stay unknown")
	}
}
