package sema

import (
	"hone/internal/ast"
	"hone/internal/source"
	"hone/internal/types"
)

// Oracle answers type and trait questions about a Crate. Answers are
// memoized; a query that depends on itself resolves to false.
type Oracle struct {
	crate *Crate
	hyg   spanChecker
	memo  map[implQuery]verdict
}

type spanChecker interface {
	InMacroExpansion(sp source.Span) bool
}

type implQuery struct {
	t     types.TypeID
	trait types.TraitID
}

type verdict uint8

const (
	verdictPending verdict = iota + 1
	verdictYes
	verdictNo
)

// NewOracle wraps c. opts.Hygiene, when set, hides definition spans that lie
// inside macro expansions.
func NewOracle(c *Crate, opts Options) *Oracle {
	o := &Oracle{crate: c, memo: make(map[implQuery]verdict)}
	if opts.Hygiene != nil {
		o.hyg = opts.Hygiene
	}
	return o
}

// Crate returns the underlying symbol tables.
func (o *Oracle) Crate() *Crate {
	return o.crate
}

// ResolveTraitID maps a qualified trait path to its identity. Lang traits
// are missing from `#![no_core]` crates.
func (o *Oracle) ResolveTraitID(path string) (types.TraitID, bool) {
	return o.crate.lookupTrait(path)
}

// ImplementsTrait reports whether t implements trait. Trait type arguments
// are not modelled; args only has to be empty for the traits queried here.
func (o *Oracle) ImplementsTrait(t types.TypeID, trait types.TraitID, args []types.TypeID) bool {
	if len(args) != 0 {
		return false
	}
	return o.implements(t, trait)
}

func (o *Oracle) implements(t types.TypeID, trait types.TraitID) bool {
	if t == types.NoTypeID || trait == types.NoTraitID {
		return false
	}
	key := implQuery{t: t, trait: trait}
	switch o.memo[key] {
	case verdictYes:
		return true
	case verdictNo, verdictPending:
		return false
	}
	o.memo[key] = verdictPending
	ok := o.builtin(t, trait) || o.derived(t, trait) || o.explicit(t, trait)
	if ok {
		o.memo[key] = verdictYes
	} else {
		o.memo[key] = verdictNo
	}
	return ok
}

// StructuralFields lists the field types of a struct with the type
// arguments substituted. Enums, unions, library and non-ADT types have none.
func (o *Oracle) StructuralFields(t types.TypeID) ([]types.TypeID, bool) {
	adt, info, ok := o.crate.AdtOf(t)
	if !ok || adt.Kind != AdtStruct || adt.Lib != nil {
		return nil, false
	}
	fields := make([]types.TypeID, len(adt.Fields))
	for i, f := range adt.Fields {
		fields[i] = o.crate.Types.Substitute(f, uint32(adt.Item), info.Args)
	}
	return fields, true
}

// TypesEqual is identity of interned types; unknown types equal nothing.
func (o *Oracle) TypesEqual(a, b types.TypeID) bool {
	if a != b || a == types.NoTypeID {
		return false
	}
	switch o.crate.Types.Kind(a) {
	case types.KindUnknown, types.KindSelf, types.KindInvalid:
		return false
	}
	return true
}

// DefinitionSpan returns the span of the item declaring t.
func (o *Oracle) DefinitionSpan(t types.TypeID) (source.Span, bool) {
	adt, _, ok := o.crate.AdtOf(t)
	if !ok || adt.Lib != nil || adt.Item == ast.NoItemID {
		return source.Span{}, false
	}
	if o.hyg != nil && o.hyg.InMacroExpansion(adt.Span) {
		return source.Span{}, false
	}
	return adt.Span, true
}

func (o *Oracle) Label(t types.TypeID) string {
	return types.Label(o.crate.Types, t)
}

// SelfType is the resolved self type of an impl item.
func (o *Oracle) SelfType(impl ast.ItemID) (types.TypeID, bool) {
	rec, ok := o.crate.ImplOf(impl)
	if !ok {
		return types.NoTypeID, false
	}
	return rec.Self, true
}

// ReturnType is the resolved return type of a method, `()` when omitted.
func (o *Oracle) ReturnType(fn ast.ItemID) (types.TypeID, bool) {
	ret, ok := o.crate.methodRet[fn]
	return ret, ok
}

// Reachable reports whether a method can be called from outside the crate:
// the method is pub and its self type is a public ADT inside public modules.
// pub(crate) stays inside the crate.
func (o *Oracle) Reachable(fn ast.ItemID) bool {
	idx, ok := o.crate.methodImpl[fn]
	if !ok || o.crate.methodVis[fn] != ast.VisPublic {
		return false
	}
	adt, _, ok := o.crate.AdtOf(o.crate.impls[idx].Self)
	return ok && adt.Lib == nil && adt.Reachable
}
