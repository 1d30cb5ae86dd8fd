package sema

import (
	"fmt"

	"fortio.org/safecast"

	"hone/internal/ast"
	"hone/internal/hygiene"
	"hone/internal/source"
	"hone/internal/types"
)

// Options configure the symbol collection over a file.
type Options struct {
	Types   *types.Interner
	Hygiene *hygiene.Table
}

type AdtKind uint8

const (
	AdtStruct AdtKind = iota
	AdtEnum
	AdtUnion
)

// Adt is a struct, enum or union known to the crate. Library types such as
// String or Vec have no item and no definition span.
type Adt struct {
	Name      string
	Module    string // `a::b` for crate::a::b, empty at the crate root
	Kind      AdtKind
	Item      ast.ItemID
	Span      source.Span
	Reachable bool // pub and every enclosing module pub
	Params    []types.TypeID
	Fields    []types.TypeID // in declaration order, in terms of Params
	Derives   []types.TraitID
	Lib       *libAdt
}

// Trait is a lang trait from the prelude or a trait declared in the file.
type Trait struct {
	Path string
	Name string
	Item ast.ItemID
	Lang bool
}

type Method struct {
	Item ast.ItemID
	Vis  ast.Visibility
	Ret  types.TypeID
}

// Impl is an inherent (Trait == NoTraitID) or trait implementation block.
type Impl struct {
	Item     ast.ItemID
	Trait    types.TraitID
	Negative bool
	Self     types.TypeID
	Owner    uint32
	Params   []types.TypeID
	Methods  []Method
}

// Crate holds every symbol the oracle answers questions about.
type Crate struct {
	Types  *types.Interner
	NoCore bool

	adts   []Adt // 0 reserved
	traits []Trait
	impls  []Impl

	adtIndex    map[adtKey][]types.AdtID
	adtsNamed   map[string][]types.AdtID // user ADTs only
	traitByPath map[string]types.TraitID
	traitByName map[string]types.TraitID
	implByItem  map[ast.ItemID]int
	methodImpl  map[ast.ItemID]int
	methodRet   map[ast.ItemID]types.TypeID
	methodVis   map[ast.ItemID]ast.Visibility
	bounds      map[types.TypeID][]types.TraitID
}

func newCrate(in *types.Interner) *Crate {
	return &Crate{
		Types:       in,
		adts:        []Adt{{}},
		traits:      []Trait{{}},
		adtIndex:    make(map[adtKey][]types.AdtID),
		adtsNamed:   make(map[string][]types.AdtID),
		traitByPath: make(map[string]types.TraitID),
		traitByName: make(map[string]types.TraitID),
		implByItem:  make(map[ast.ItemID]int),
		methodImpl:  make(map[ast.ItemID]int),
		methodRet:   make(map[ast.ItemID]types.TypeID),
		methodVis:   make(map[ast.ItemID]ast.Visibility),
		bounds:      make(map[types.TypeID][]types.TraitID),
	}
}

// Adt returns the definition for id.
func (c *Crate) Adt(id types.AdtID) (*Adt, bool) {
	if id == types.NoAdtID || int(id) >= len(c.adts) {
		return nil, false
	}
	return &c.adts[id], true
}

// Trait returns the definition for id.
func (c *Crate) Trait(id types.TraitID) (*Trait, bool) {
	if id == types.NoTraitID || int(id) >= len(c.traits) {
		return nil, false
	}
	return &c.traits[id], true
}

// Impls lists every impl block in source order.
func (c *Crate) Impls() []Impl {
	return c.impls
}

// ImplOf returns the impl record for an impl item.
func (c *Crate) ImplOf(item ast.ItemID) (*Impl, bool) {
	idx, ok := c.implByItem[item]
	if !ok {
		return nil, false
	}
	return &c.impls[idx], true
}

// AdtOf returns the definition behind an instantiated ADT type.
func (c *Crate) AdtOf(t types.TypeID) (*Adt, *types.AdtInfo, bool) {
	info, ok := c.Types.AdtInfo(t)
	if !ok {
		return nil, nil, false
	}
	adt, ok := c.Adt(info.Def)
	if !ok {
		return nil, nil, false
	}
	return adt, info, true
}

func (c *Crate) addAdt(adt Adt) types.AdtID {
	c.adts = append(c.adts, adt)
	id := types.AdtID(index32(len(c.adts) - 1))
	key := adtKey{module: adt.Module, name: adt.Name}
	c.adtIndex[key] = append(c.adtIndex[key], id)
	if adt.Lib == nil {
		c.adtsNamed[adt.Name] = append(c.adtsNamed[adt.Name], id)
	}
	return id
}

func (c *Crate) addTrait(tr Trait) types.TraitID {
	c.traits = append(c.traits, tr)
	id := types.TraitID(index32(len(c.traits) - 1))
	if tr.Path != "" {
		c.traitByPath[tr.Path] = id
	}
	if _, dup := c.traitByName[tr.Name]; !dup && !tr.Lang {
		c.traitByName[tr.Name] = id
	}
	return id
}

func index32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("sema table overflow: %w", err))
	}
	return v
}
