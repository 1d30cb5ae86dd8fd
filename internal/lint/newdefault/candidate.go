// Package newdefault implements new_without_default and
// new_without_default_derive: a public `fn new() -> Self` on a type that has
// no Default implementation.
package newdefault

import (
	"hone/internal/ast"
	"hone/internal/lint"
	"hone/internal/source"
	"hone/internal/types"
)

// Candidate is a method that may be a default-like constructor.
type Candidate struct {
	Item          ast.ItemID
	Name          string
	HasSelf       bool
	Params        int
	IsConst       bool
	IsUnsafe      bool
	TypeParams    int
	ReturnType    types.TypeID
	EnclosingType types.TypeID
	Reachable     bool
	Span          source.Span
}

// Shaped reports the syntactic conditions: `fn new()` without receiver,
// parameters, type generics, const or unsafe.
func (c Candidate) Shaped() bool {
	return c.Name == "new" && !c.HasSelf && c.Params == 0 && !c.IsConst && !c.IsUnsafe && c.TypeParams == 0
}

// Eligible adds reachability to Shaped.
func (c Candidate) Eligible() bool {
	return c.Shaped() && c.Reachable
}

// shapeOf fills the syntactic fields of a method.
func shapeOf(b *ast.Builder, fn ast.ItemID) (Candidate, bool) {
	item := b.Items.Get(fn)
	data, ok := b.Items.Fn(fn)
	if item == nil || !ok {
		return Candidate{}, false
	}
	return Candidate{
		Item:       fn,
		Name:       b.Name(item.Name),
		HasSelf:    data.HasSelf,
		Params:     len(data.Params),
		IsConst:    data.Const,
		IsUnsafe:   data.Unsafe,
		TypeParams: len(data.Generics.TypeParams()),
		Span:       item.Span,
	}, true
}

// candidateOf builds a candidate for a method of an inherent impl. The
// oracle is consulted only once the method has the right shape.
func candidateOf(b *ast.Builder, oracle lint.TypeOracle, impl, fn ast.ItemID) (Candidate, bool) {
	c, ok := shapeOf(b, fn)
	if !ok || !c.Shaped() {
		return Candidate{}, false
	}
	c.Reachable = oracle.Reachable(fn)
	if !c.Eligible() {
		return Candidate{}, false
	}
	if c.EnclosingType, ok = oracle.SelfType(impl); !ok {
		return Candidate{}, false
	}
	if c.ReturnType, ok = oracle.ReturnType(fn); !ok {
		return Candidate{}, false
	}
	return c, true
}

// Derivability is the result of CanDerive.
type Derivability struct {
	Derivable bool
	DefSpan   source.Span
}

// CanDerive reports whether `#[derive(Default)]` can be added to t: a user
// struct whose every field implements the trait and whose definition can be
// edited.
func CanDerive(oracle lint.TypeOracle, t types.TypeID, trait types.TraitID) Derivability {
	fields, ok := oracle.StructuralFields(t)
	if !ok {
		return Derivability{}
	}
	for _, f := range fields {
		if !oracle.ImplementsTrait(f, trait, nil) {
			return Derivability{}
		}
	}
	sp, ok := oracle.DefinitionSpan(t)
	if !ok {
		return Derivability{}
	}
	return Derivability{Derivable: true, DefSpan: sp}
}
