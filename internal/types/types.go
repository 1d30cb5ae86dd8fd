package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// AdtID indexes a struct, enum or union definition in the sema crate tables.
type AdtID uint32

// TraitID indexes a trait definition in the sema crate tables.
type TraitID uint32

const (
	NoAdtID   AdtID   = 0
	NoTraitID TraitID = 0
)

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUnknown      // _ and anything sema could not resolve
	KindUnit
	KindNever
	KindBool
	KindChar
	KindInt
	KindUint
	KindFloat
	KindStr // the unsized `str`; `&str` is a reference to it
	KindAdt
	KindParam
	KindTuple
	KindRef
	KindPtr
	KindSlice
	KindArray
	KindSelf // `Self` outside of any impl
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnknown:
		return "unknown"
	case KindUnit:
		return "unit"
	case KindNever:
		return "never"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindStr:
		return "str"
	case KindAdt:
		return "adt"
	case KindParam:
		return "param"
	case KindTuple:
		return "tuple"
	case KindRef:
		return "reference"
	case KindPtr:
		return "pointer"
	case KindSlice:
		return "slice"
	case KindArray:
		return "array"
	case KindSelf:
		return "Self"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Width captures the precision of integers/floats. WidthPtr is isize/usize.
type Width uint8

const (
	WidthPtr Width = 0
	Width8   Width = 8
	Width16  Width = 16
	Width32  Width = 32
	Width64  Width = 64
	Width128 Width = 128
)

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind    Kind
	Elem    TypeID
	Count   uint32 // array length; index for params
	Width   Width  // for numeric primitives
	Mutable bool   // for references and pointers
	Payload uint32 // slot in the adt/tuple/param side tables
}

// Descriptor helpers ---------------------------------------------------------

// MakeInt describes a signed integer of the given width.
func MakeInt(width Width) Type {
	return Type{Kind: KindInt, Width: width}
}

// MakeUint describes an unsigned integer type.
func MakeUint(width Width) Type {
	return Type{Kind: KindUint, Width: width}
}

// MakeFloat describes a floating-point type.
func MakeFloat(width Width) Type {
	return Type{Kind: KindFloat, Width: width}
}

// MakeRef describes &T or &mut T depending on the mutable flag.
func MakeRef(elem TypeID, mutable bool) Type {
	return Type{Kind: KindRef, Elem: elem, Mutable: mutable}
}

// MakePtr describes *const T or *mut T.
func MakePtr(elem TypeID, mutable bool) Type {
	return Type{Kind: KindPtr, Elem: elem, Mutable: mutable}
}

// MakeSlice describes [T].
func MakeSlice(elem TypeID) Type {
	return Type{Kind: KindSlice, Elem: elem}
}

// MakeArray describes [T; n].
func MakeArray(elem TypeID, n uint32) Type {
	return Type{Kind: KindArray, Elem: elem, Count: n}
}
