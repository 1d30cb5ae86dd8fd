package sema

import "hone/internal/types"

const maxTupleImpl = 12

// supertraits of the lang traits; `T: Ord` also proves Eq, PartialOrd and PartialEq.
var supertraits = map[string][]string{
	PathCopy:       {PathClone},
	PathEq:         {PathPartialEq},
	PathPartialOrd: {PathPartialEq},
	PathOrd:        {PathEq, PathPartialOrd},
}

func (o *Oracle) builtin(t types.TypeID, trait types.TraitID) bool {
	c := o.crate
	tt, ok := c.Types.Lookup(t)
	if !ok {
		return false
	}
	if tt.Kind == types.KindParam {
		return o.bounded(t, trait)
	}
	tr, ok := c.Trait(trait)
	if !ok || !tr.Lang {
		return false
	}
	path := tr.Path
	switch tt.Kind {
	case types.KindInt, types.KindUint, types.KindBool, types.KindChar, types.KindUnit:
		return true
	case types.KindFloat:
		return path != PathEq && path != PathOrd && path != PathHash
	case types.KindNever:
		return path != PathDefault
	case types.KindStr:
		return path != PathDefault && path != PathClone && path != PathCopy
	case types.KindRef:
		switch path {
		case PathDefault:
			// &str, &[T] and their &mut forms
			elem := c.Types.Kind(tt.Elem)
			return elem == types.KindStr || elem == types.KindSlice
		case PathClone, PathCopy:
			return !tt.Mutable
		}
		return o.implements(tt.Elem, trait)
	case types.KindPtr:
		return path != PathDefault
	case types.KindSlice:
		if path == PathDefault || path == PathClone || path == PathCopy {
			return false
		}
		return o.implements(tt.Elem, trait)
	case types.KindArray:
		if path == PathDefault {
			return tt.Count <= 32 && (tt.Count == 0 || o.implements(tt.Elem, trait))
		}
		return o.implements(tt.Elem, trait)
	case types.KindTuple:
		info, ok := c.Types.TupleInfo(t)
		if !ok || len(info.Elems) > maxTupleImpl {
			return false
		}
		for _, elem := range info.Elems {
			if !o.implements(elem, trait) {
				return false
			}
		}
		return true
	case types.KindAdt:
		adt, info, ok := c.AdtOf(t)
		if !ok || adt.Lib == nil {
			return false
		}
		if yes, decided := adt.Lib.verdict(path); decided {
			return yes
		}
		return o.allImplement(info.Args, trait)
	}
	return false
}

// bounded checks the declared bounds of a generic parameter, following
// lang supertraits.
func (o *Oracle) bounded(param types.TypeID, trait types.TraitID) bool {
	c := o.crate
	var proves func(id types.TraitID, depth int) bool
	proves = func(id types.TraitID, depth int) bool {
		if id == trait {
			return true
		}
		tr, ok := c.Trait(id)
		if !ok || !tr.Lang || depth > 4 {
			return false
		}
		for _, sup := range supertraits[tr.Path] {
			if sid, ok := c.traitByPath[sup]; ok && proves(sid, depth+1) {
				return true
			}
		}
		return false
	}
	for _, b := range c.bounds[param] {
		if proves(b, 0) {
			return true
		}
	}
	return false
}

// derived covers `#[derive(..)]`: the generated impl requires every type
// argument to implement the trait as well.
func (o *Oracle) derived(t types.TypeID, trait types.TraitID) bool {
	adt, info, ok := o.crate.AdtOf(t)
	if !ok || adt.Lib != nil {
		return false
	}
	for _, d := range adt.Derives {
		if d == trait {
			return o.allImplement(info.Args, trait)
		}
	}
	return false
}

// explicit matches hand-written impls. Generic impls match by shape, binding
// their parameters, and then require the parameters' bounds.
func (o *Oracle) explicit(t types.TypeID, trait types.TraitID) bool {
	for i := range o.crate.impls {
		impl := &o.crate.impls[i]
		if impl.Trait != trait || impl.Negative {
			continue
		}
		bind := make([]types.TypeID, len(impl.Params))
		if !o.unify(impl.Self, t, impl, bind, 0) {
			continue
		}
		if o.boundsHold(impl, bind) {
			return true
		}
	}
	return false
}

func (o *Oracle) boundsHold(impl *Impl, bind []types.TypeID) bool {
	for i, p := range impl.Params {
		if bind[i] == types.NoTypeID {
			continue
		}
		for _, b := range o.crate.bounds[p] {
			if !o.implements(bind[i], b) {
				return false
			}
		}
	}
	return true
}

func (o *Oracle) unify(pat, t types.TypeID, impl *Impl, bind []types.TypeID, depth int) bool {
	if pat == t {
		return true
	}
	in := o.crate.Types
	pt, ok := in.Lookup(pat)
	if !ok || depth > maxResolveDepth {
		return false
	}
	if pt.Kind == types.KindParam {
		info, ok := in.ParamInfo(pat)
		if !ok || info.Owner != impl.Owner || int(info.Index) >= len(bind) {
			return false
		}
		if bind[info.Index] == types.NoTypeID {
			bind[info.Index] = t
			return true
		}
		return bind[info.Index] == t
	}
	tt, ok := in.Lookup(t)
	if !ok || tt.Kind != pt.Kind {
		return false
	}
	switch pt.Kind {
	case types.KindRef, types.KindPtr, types.KindSlice, types.KindArray:
		return pt.Mutable == tt.Mutable && pt.Count == tt.Count && o.unify(pt.Elem, tt.Elem, impl, bind, depth+1)
	case types.KindTuple:
		pi, _ := in.TupleInfo(pat)
		ti, _ := in.TupleInfo(t)
		return o.unifyAll(pi.Elems, ti.Elems, impl, bind, depth)
	case types.KindAdt:
		pi, _ := in.AdtInfo(pat)
		ti, _ := in.AdtInfo(t)
		return pi.Def == ti.Def && o.unifyAll(pi.Args, ti.Args, impl, bind, depth)
	}
	return false
}

func (o *Oracle) unifyAll(pats, ts []types.TypeID, impl *Impl, bind []types.TypeID, depth int) bool {
	if len(pats) != len(ts) {
		return false
	}
	for i := range pats {
		if !o.unify(pats[i], ts[i], impl, bind, depth+1) {
			return false
		}
	}
	return true
}

func (o *Oracle) allImplement(ids []types.TypeID, trait types.TraitID) bool {
	for _, id := range ids {
		if !o.implements(id, trait) {
			return false
		}
	}
	return true
}
