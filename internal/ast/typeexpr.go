package ast

import (
	"hone/internal/source"
)

type TypeKind uint8

const (
	TypePath        TypeKind = iota // Foo, Vec<T>, Self, core::fmt::Debug
	TypeRef                         // &'a mut T
	TypePtr                         // *const T
	TypeTuple                       // (A, B), () is the empty tuple
	TypeSlice                       // [T]
	TypeArray                       // [T; N]
	TypeNever                       // !
	TypeInfer                       // _
	TypeTraitObject                 // dyn Trait, impl Trait
	TypeFnPtr                       // fn(A) -> B
)

type Type struct {
	Kind    TypeKind
	Span    source.Span
	Payload PayloadID
}

type TypePathData struct {
	Path Path
}

type TypeRefData struct {
	Mut      bool
	Lifetime string
	Elem     TypeID
}

type TypeTupleData struct {
	Elems []TypeID
}

type TypeArrayData struct {
	Elem TypeID
	Len  ExprID // NoExprID for slices
}

type TypeTraitObjectData struct {
	Impl   bool // impl Trait vs dyn Trait
	Bounds []TypeID
}

type TypeFnPtrData struct {
	Params []TypeID
	Ret    TypeID
}

// Types manages allocation of type expressions.
type Types struct {
	Arena   *Arena[Type]
	Paths   *Arena[TypePathData]
	Refs    *Arena[TypeRefData]
	Tuples  *Arena[TypeTupleData]
	Arrays  *Arena[TypeArrayData]
	Objects *Arena[TypeTraitObjectData]
	FnPtrs  *Arena[TypeFnPtrData]
}

func NewTypes(capHint uint) *Types {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Types{
		Arena:   NewArena[Type](capHint),
		Paths:   NewArena[TypePathData](capHint),
		Refs:    NewArena[TypeRefData](capHint / 4),
		Tuples:  NewArena[TypeTupleData](capHint / 8),
		Arrays:  NewArena[TypeArrayData](capHint / 8),
		Objects: NewArena[TypeTraitObjectData](capHint / 8),
		FnPtrs:  NewArena[TypeFnPtrData](capHint / 8),
	}
}

func (t *Types) new(kind TypeKind, span source.Span, payload uint32) TypeID {
	return TypeID(t.Arena.Allocate(Type{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

func (t *Types) Get(id TypeID) *Type {
	return t.Arena.Get(uint32(id))
}

func (t *Types) NewPath(span source.Span, path Path) TypeID {
	return t.new(TypePath, span, t.Paths.Allocate(TypePathData{Path: path}))
}

func (t *Types) Path(id TypeID) (*TypePathData, bool) {
	typ := t.Get(id)
	if typ == nil || typ.Kind != TypePath {
		return nil, false
	}
	return t.Paths.Get(uint32(typ.Payload)), true
}

// NewRef creates a reference (ptr=false) or raw pointer (ptr=true) type.
func (t *Types) NewRef(span source.Span, ptr, mut bool, lifetime string, elem TypeID) TypeID {
	kind := TypeRef
	if ptr {
		kind = TypePtr
	}
	return t.new(kind, span, t.Refs.Allocate(TypeRefData{Mut: mut, Lifetime: lifetime, Elem: elem}))
}

func (t *Types) Ref(id TypeID) (*TypeRefData, bool) {
	typ := t.Get(id)
	if typ == nil || (typ.Kind != TypeRef && typ.Kind != TypePtr) {
		return nil, false
	}
	return t.Refs.Get(uint32(typ.Payload)), true
}

func (t *Types) NewTuple(span source.Span, elems []TypeID) TypeID {
	return t.new(TypeTuple, span, t.Tuples.Allocate(TypeTupleData{Elems: elems}))
}

func (t *Types) Tuple(id TypeID) (*TypeTupleData, bool) {
	typ := t.Get(id)
	if typ == nil || typ.Kind != TypeTuple {
		return nil, false
	}
	return t.Tuples.Get(uint32(typ.Payload)), true
}

// NewArray creates `[T; N]`, or `[T]` when length is NoExprID.
func (t *Types) NewArray(span source.Span, elem TypeID, length ExprID) TypeID {
	kind := TypeArray
	if !length.IsValid() {
		kind = TypeSlice
	}
	return t.new(kind, span, t.Arrays.Allocate(TypeArrayData{Elem: elem, Len: length}))
}

func (t *Types) Array(id TypeID) (*TypeArrayData, bool) {
	typ := t.Get(id)
	if typ == nil || (typ.Kind != TypeArray && typ.Kind != TypeSlice) {
		return nil, false
	}
	return t.Arrays.Get(uint32(typ.Payload)), true
}

func (t *Types) NewTraitObject(span source.Span, impl bool, bounds []TypeID) TypeID {
	return t.new(TypeTraitObject, span, t.Objects.Allocate(TypeTraitObjectData{Impl: impl, Bounds: bounds}))
}

func (t *Types) NewFnPtr(span source.Span, params []TypeID, ret TypeID) TypeID {
	return t.new(TypeFnPtr, span, t.FnPtrs.Allocate(TypeFnPtrData{Params: params, Ret: ret}))
}

func (t *Types) NewNever(span source.Span) TypeID {
	return t.new(TypeNever, span, 0)
}

func (t *Types) NewInfer(span source.Span) TypeID {
	return t.new(TypeInfer, span, 0)
}

func (t *Types) TraitObject(id TypeID) (*TypeTraitObjectData, bool) {
	typ := t.Get(id)
	if typ == nil || typ.Kind != TypeTraitObject {
		return nil, false
	}
	return t.Objects.Get(uint32(typ.Payload)), true
}

func (t *Types) FnPtr(id TypeID) (*TypeFnPtrData, bool) {
	typ := t.Get(id)
	if typ == nil || typ.Kind != TypeFnPtr {
		return nil, false
	}
	return t.FnPtrs.Get(uint32(typ.Payload)), true
}
