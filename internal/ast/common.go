package ast

import (
	"strings"

	"hone/internal/source"
)

// Visibility of an item or field.
type Visibility uint8

const (
	VisPrivate Visibility = iota
	VisPublic             // pub
	VisCrate              // pub(crate), pub(super), pub(in ..)
)

// IsExported reports any `pub` form.
func (v Visibility) IsExported() bool { return v != VisPrivate }

// PathSegment is one `::`-separated component, with optional generic args.
type PathSegment struct {
	Name source.StringID
	Args []TypeID
	Span source.Span
}

// Path is a possibly qualified name such as `core::default::Default` or
// `Vec::<u8>::new`.
type Path struct {
	Global   bool // leading ::
	Segments []PathSegment
	Span     source.Span
}

// Last returns the final segment.
func (p Path) Last() (PathSegment, bool) {
	if len(p.Segments) == 0 {
		return PathSegment{}, false
	}
	return p.Segments[len(p.Segments)-1], true
}

// String joins the segment names with `::`, ignoring generic arguments.
func (p Path) String(strs *source.Interner) string {
	parts := make([]string, 0, len(p.Segments))
	for _, seg := range p.Segments {
		parts = append(parts, strs.MustLookup(seg.Name))
	}
	s := strings.Join(parts, "::")
	if p.Global {
		return "::" + s
	}
	return s
}

// Attr is an outer `#[..]` or inner `#![..]` attribute.
// Args holds the comma separated paths inside a single parenthesized list,
// e.g. derive(Default, Debug) gives ["Default", "Debug"].
type Attr struct {
	Span  source.Span
	Inner bool
	Name  string
	Args  []string
	Text  string // raw text between the brackets
}

// FindAttr returns the first attribute with the given name.
func FindAttr(attrs []Attr, name string) (Attr, bool) {
	for _, a := range attrs {
		if a.Name == name {
			return a, true
		}
	}
	return Attr{}, false
}

// GenericParamKind separates lifetimes, type and const parameters.
type GenericParamKind uint8

const (
	GenericLifetime GenericParamKind = iota
	GenericType
	GenericConst
)

type GenericParam struct {
	Kind   GenericParamKind
	Name   source.StringID
	Bounds []TypeID
	Type   TypeID // const parameters only
	Span   source.Span
}

// Generics is the `<..>` list of an item; Span is empty when absent.
type Generics struct {
	Params []GenericParam
	Span   source.Span
}

// TypeParams returns only the type parameters.
func (g Generics) TypeParams() []GenericParam {
	var out []GenericParam
	for _, p := range g.Params {
		if p.Kind == GenericType {
			out = append(out, p)
		}
	}
	return out
}

// HasTypeParams reports whether any type parameter is declared.
func (g Generics) HasTypeParams() bool {
	for _, p := range g.Params {
		if p.Kind == GenericType {
			return true
		}
	}
	return false
}
