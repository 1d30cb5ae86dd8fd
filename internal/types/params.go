package types

// ParamInfo stores metadata about a generic type parameter. Owner separates
// the `T` of one item from the `T` of another.
type ParamInfo struct {
	Name  string
	Owner uint32
	Index uint32
}

// RegisterParam returns the TypeID of parameter index of owner.
func (in *Interner) RegisterParam(name string, owner, index uint32) TypeID {
	key := argsKey("param:"+name+":", owner, []TypeID{TypeID(index)})
	if id, ok := in.composite[key]; ok {
		return id
	}
	in.params = append(in.params, ParamInfo{Name: name, Owner: owner, Index: index})
	id := in.internRaw(Type{Kind: KindParam, Count: index, Payload: slotOf(len(in.params) - 1)})
	in.composite[key] = id
	return id
}

// ParamInfo returns metadata for the provided generic parameter.
func (in *Interner) ParamInfo(id TypeID) (*ParamInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindParam || tt.Payload == 0 || int(tt.Payload) >= len(in.params) {
		return nil, false
	}
	return &in.params[tt.Payload], true
}

// Substitute replaces every parameter of owner inside id with args[index].
// Parameters without a matching argument are kept.
func (in *Interner) Substitute(id TypeID, owner uint32, args []TypeID) TypeID {
	return in.substDepth(id, owner, args, 0)
}

func (in *Interner) substDepth(id TypeID, owner uint32, args []TypeID, depth int) TypeID {
	if depth > 32 || len(args) == 0 {
		return id
	}
	tt, ok := in.Lookup(id)
	if !ok {
		return id
	}
	switch tt.Kind {
	case KindParam:
		info, _ := in.ParamInfo(id)
		if info != nil && info.Owner == owner && int(info.Index) < len(args) && args[info.Index] != NoTypeID {
			return args[info.Index]
		}
		return id
	case KindRef, KindPtr, KindSlice, KindArray:
		tt.Elem = in.substDepth(tt.Elem, owner, args, depth+1)
		return in.Intern(tt)
	case KindTuple:
		info, _ := in.TupleInfo(id)
		elems := make([]TypeID, len(info.Elems))
		for i, e := range info.Elems {
			elems[i] = in.substDepth(e, owner, args, depth+1)
		}
		return in.RegisterTuple(elems)
	case KindAdt:
		info, _ := in.AdtInfo(id)
		def, name := info.Def, info.Name
		sub := make([]TypeID, len(info.Args))
		for i, a := range info.Args {
			sub[i] = in.substDepth(a, owner, args, depth+1)
		}
		return in.RegisterAdt(def, name, sub)
	}
	return id
}
