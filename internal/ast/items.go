package ast

import (
	"hone/internal/source"
)

type ItemKind uint8

const (
	ItemFn ItemKind = iota
	ItemStruct
	ItemUnion
	ItemEnum
	ItemTrait
	ItemImpl
	ItemMod
	ItemUse
	ItemConst
	ItemStatic
	ItemTypeAlias
	ItemMacroRules
	ItemMacroCall // unexpanded paren/bracket macro in item position
)

var itemKindNames = [...]string{
	ItemFn: "fn", ItemStruct: "struct", ItemUnion: "union", ItemEnum: "enum",
	ItemTrait: "trait", ItemImpl: "impl", ItemMod: "mod", ItemUse: "use",
	ItemConst: "const", ItemStatic: "static", ItemTypeAlias: "type",
	ItemMacroRules: "macro_rules", ItemMacroCall: "macro call",
}

func (k ItemKind) String() string {
	if int(k) < len(itemKindNames) {
		return itemKindNames[k]
	}
	return "unknown"
}

// Item is a top-level or nested declaration. Name is NoStringID for impl
// blocks, use declarations and macro calls.
type Item struct {
	Kind    ItemKind
	Span    source.Span
	Name    source.StringID
	Attrs   []Attr
	Vis     Visibility
	Payload PayloadID
}

type Param struct {
	Pattern source.Span
	Type    TypeID
	Span    source.Span
}

// SelfParam describes `self`, `&self`, `&mut self`, `mut self: T`.
type SelfParam struct {
	Ref  bool
	Mut  bool
	Type TypeID
	Span source.Span
}

type FnData struct {
	Generics Generics
	HasSelf  bool
	Self     SelfParam
	Params   []Param
	Ret      TypeID
	Body     ExprID // NoExprID for trait method declarations
	Const    bool
	Unsafe   bool
	Async    bool
	Extern   bool
	Sig      source.Span // from `fn` to the end of the return type
}

type StructShape uint8

const (
	ShapeNamed StructShape = iota // struct S { a: T }
	ShapeTuple                    // struct S(T);
	ShapeUnit                     // struct S;
)

type FieldDecl struct {
	Name  source.StringID // NoStringID for tuple fields
	Type  TypeID
	Vis   Visibility
	Attrs []Attr
	Span  source.Span
}

// StructData backs structs and unions.
type StructData struct {
	Generics Generics
	Shape    StructShape
	Fields   []FieldDecl
}

type Variant struct {
	Name   source.StringID
	Shape  StructShape
	Fields []FieldDecl
	Attrs  []Attr
	Span   source.Span
}

type EnumData struct {
	Generics Generics
	Variants []Variant
}

type TraitData struct {
	Generics Generics
	Bounds   []TypeID
	Items    []ItemID
}

type ImplData struct {
	Generics Generics
	Negative bool
	Unsafe   bool
	Trait    TypeID // NoTypeID for inherent impls
	SelfTy   TypeID
	Items    []ItemID
}

type ModData struct {
	Inline bool // mod m { .. } vs mod m;
	Items  []ItemID
}

// ValueData backs const and static items.
type ValueData struct {
	Mut   bool
	Type  TypeID
	Value ExprID
}

type TypeAliasData struct {
	Generics Generics
	Type     TypeID
}

type MacroData struct {
	Path  Path
	Delim MacroDelim
	Body  source.Span
}

type Items struct {
	Arena   *Arena[Item]
	Fns     *Arena[FnData]
	Structs *Arena[StructData]
	Enums   *Arena[EnumData]
	Traits  *Arena[TraitData]
	Impls   *Arena[ImplData]
	Mods    *Arena[ModData]
	Values  *Arena[ValueData]
	Aliases *Arena[TypeAliasData]
	Macros  *Arena[MacroData]
}

func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 6
	}
	small := capHint / 4
	return &Items{
		Arena:   NewArena[Item](capHint),
		Fns:     NewArena[FnData](capHint / 2),
		Structs: NewArena[StructData](small),
		Enums:   NewArena[EnumData](small),
		Traits:  NewArena[TraitData](small),
		Impls:   NewArena[ImplData](small),
		Mods:    NewArena[ModData](small),
		Values:  NewArena[ValueData](small),
		Aliases: NewArena[TypeAliasData](small),
		Macros:  NewArena[MacroData](small),
	}
}

// ItemHeader carries the fields common to every item.
type ItemHeader struct {
	Span  source.Span
	Name  source.StringID
	Attrs []Attr
	Vis   Visibility
}

func (i *Items) new(kind ItemKind, h ItemHeader, payload uint32) ItemID {
	return ItemID(i.Arena.Allocate(Item{
		Kind:    kind,
		Span:    h.Span,
		Name:    h.Name,
		Attrs:   h.Attrs,
		Vis:     h.Vis,
		Payload: PayloadID(payload),
	}))
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}

func (i *Items) payload(id ItemID, kinds ...ItemKind) (uint32, bool) {
	item := i.Get(id)
	if item == nil {
		return 0, false
	}
	for _, k := range kinds {
		if item.Kind == k {
			return uint32(item.Payload), true
		}
	}
	return 0, false
}

func (i *Items) NewFn(h ItemHeader, data FnData) ItemID {
	return i.new(ItemFn, h, i.Fns.Allocate(data))
}

func (i *Items) Fn(id ItemID) (*FnData, bool) {
	p, ok := i.payload(id, ItemFn)
	return i.Fns.Get(p), ok
}

// NewStruct creates a struct, or a union when union is set.
func (i *Items) NewStruct(h ItemHeader, union bool, data StructData) ItemID {
	kind := ItemStruct
	if union {
		kind = ItemUnion
	}
	return i.new(kind, h, i.Structs.Allocate(data))
}

func (i *Items) Struct(id ItemID) (*StructData, bool) {
	p, ok := i.payload(id, ItemStruct, ItemUnion)
	return i.Structs.Get(p), ok
}

func (i *Items) NewEnum(h ItemHeader, data EnumData) ItemID {
	return i.new(ItemEnum, h, i.Enums.Allocate(data))
}

func (i *Items) Enum(id ItemID) (*EnumData, bool) {
	p, ok := i.payload(id, ItemEnum)
	return i.Enums.Get(p), ok
}

func (i *Items) NewTrait(h ItemHeader, data TraitData) ItemID {
	return i.new(ItemTrait, h, i.Traits.Allocate(data))
}

func (i *Items) Trait(id ItemID) (*TraitData, bool) {
	p, ok := i.payload(id, ItemTrait)
	return i.Traits.Get(p), ok
}

func (i *Items) NewImpl(h ItemHeader, data ImplData) ItemID {
	return i.new(ItemImpl, h, i.Impls.Allocate(data))
}

func (i *Items) Impl(id ItemID) (*ImplData, bool) {
	p, ok := i.payload(id, ItemImpl)
	return i.Impls.Get(p), ok
}

func (i *Items) NewMod(h ItemHeader, data ModData) ItemID {
	return i.new(ItemMod, h, i.Mods.Allocate(data))
}

func (i *Items) Mod(id ItemID) (*ModData, bool) {
	p, ok := i.payload(id, ItemMod)
	return i.Mods.Get(p), ok
}

func (i *Items) NewUse(h ItemHeader) ItemID {
	return i.new(ItemUse, h, 0)
}

// NewValue creates a const or static item depending on kind.
func (i *Items) NewValue(kind ItemKind, h ItemHeader, data ValueData) ItemID {
	return i.new(kind, h, i.Values.Allocate(data))
}

func (i *Items) Value(id ItemID) (*ValueData, bool) {
	p, ok := i.payload(id, ItemConst, ItemStatic)
	return i.Values.Get(p), ok
}

func (i *Items) NewTypeAlias(h ItemHeader, data TypeAliasData) ItemID {
	return i.new(ItemTypeAlias, h, i.Aliases.Allocate(data))
}

func (i *Items) TypeAlias(id ItemID) (*TypeAliasData, bool) {
	p, ok := i.payload(id, ItemTypeAlias)
	return i.Aliases.Get(p), ok
}

// NewMacro creates a macro_rules definition or an unexpanded item macro call.
func (i *Items) NewMacro(kind ItemKind, h ItemHeader, data MacroData) ItemID {
	return i.new(kind, h, i.Macros.Allocate(data))
}

func (i *Items) Macro(id ItemID) (*MacroData, bool) {
	p, ok := i.payload(id, ItemMacroRules, ItemMacroCall)
	return i.Macros.Get(p), ok
}
