package types

// AdtInfo stores an instantiated struct, enum or union: its definition and
// the type arguments applied to it.
type AdtInfo struct {
	Def  AdtID
	Name string
	Args []TypeID
}

// RegisterAdt returns the TypeID of def applied to args; identical
// instantiations share one ID.
func (in *Interner) RegisterAdt(def AdtID, name string, args []TypeID) TypeID {
	key := argsKey("adt", uint32(def), args)
	if id, ok := in.composite[key]; ok {
		return id
	}
	in.adts = append(in.adts, AdtInfo{Def: def, Name: name, Args: cloneTypeArgs(args)})
	id := in.internRaw(Type{Kind: KindAdt, Payload: slotOf(len(in.adts) - 1)})
	in.composite[key] = id
	return id
}

// AdtInfo returns metadata for an ADT TypeID.
func (in *Interner) AdtInfo(id TypeID) (*AdtInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindAdt || tt.Payload == 0 || int(tt.Payload) >= len(in.adts) {
		return nil, false
	}
	return &in.adts[tt.Payload], true
}
