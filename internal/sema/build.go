package sema

import (
	"fmt"

	"hone/internal/ast"
	"hone/internal/hygiene"
	"hone/internal/types"
)

// Build collects ADTs, traits and impls of a parsed file. Type expressions
// in field declarations, impl headers and method signatures are resolved
// against the file's own declarations, the lang prelude and the known
// library types. Unresolvable names become the unknown type.
func Build(builder *ast.Builder, fileID ast.FileID, opts Options) *Crate {
	in := opts.Types
	if in == nil {
		in = types.NewInterner()
	}
	c := newCrate(in)
	if builder == nil || fileID == ast.NoFileID {
		return c
	}
	file := builder.Files.Get(fileID)
	if file == nil {
		return c
	}

	col := collector{
		b:           builder,
		c:           c,
		hyg:         opts.Hygiene,
		aliases:     make(map[adtKey]ast.ItemID),
		aliasModule: make(map[ast.ItemID]string),
		implModule:  make(map[ast.ItemID]string),
		inAlias:     make(map[ast.ItemID]bool),
		adtItems:    make(map[ast.ItemID]types.AdtID),
	}
	_, c.NoCore = ast.FindAttr(file.Attrs, "no_core")
	if !c.NoCore {
		col.registerPrelude()
	}
	col.declare(file.Items, true, "")
	col.define()
	return c
}

type collector struct {
	b   *ast.Builder
	c   *Crate
	hyg *hygiene.Table

	adtOrder    []ast.ItemID
	adtItems    map[ast.ItemID]types.AdtID
	impls       []ast.ItemID
	implModule  map[ast.ItemID]string
	aliases     map[adtKey]ast.ItemID
	aliasModule map[ast.ItemID]string
	inAlias     map[ast.ItemID]bool
}

func (col *collector) registerPrelude() {
	for _, path := range langTraits {
		col.c.addTrait(Trait{Path: path, Name: lastSegment(path), Lang: true})
	}
	for i := range libAdts {
		lib := &libAdts[i]
		params := make([]types.TypeID, lib.params)
		for p := range params {
			params[p] = col.c.Types.RegisterParam(string(rune('A'+p)), 0, uint32(p))
		}
		col.c.addAdt(Adt{Name: lib.name, Module: libModule, Kind: AdtStruct, Params: params, Lib: lib})
	}
}

// declare registers names under module; reachable tells whether the
// enclosing modules are all public.
func (col *collector) declare(ids []ast.ItemID, reachable bool, module string) {
	for _, id := range ids {
		item := col.b.Items.Get(id)
		if item == nil {
			continue
		}
		switch item.Kind {
		case ast.ItemStruct, ast.ItemUnion, ast.ItemEnum:
			col.declareAdt(id, item, reachable, module)
		case ast.ItemTrait:
			name := col.b.Name(item.Name)
			col.c.addTrait(Trait{Path: "crate::" + name, Name: name, Item: id})
			if tr, ok := col.b.Items.Trait(id); ok {
				col.declareBodies(tr.Items, module)
			}
		case ast.ItemImpl:
			col.impls = append(col.impls, id)
			col.implModule[id] = module
			if impl, ok := col.b.Items.Impl(id); ok {
				col.declareBodies(impl.Items, module)
			}
		case ast.ItemMod:
			if mod, ok := col.b.Items.Mod(id); ok {
				col.declare(mod.Items, reachable && item.Vis == ast.VisPublic, joinModule(module, col.b.Name(item.Name)))
			}
		case ast.ItemTypeAlias:
			key := adtKey{module: module, name: col.b.Name(item.Name)}
			if _, dup := col.aliases[key]; !dup {
				col.aliases[key] = id
				col.aliasModule[id] = module
			}
		case ast.ItemFn:
			col.declareBodies([]ast.ItemID{id}, module)
		}
	}
}

func (col *collector) declareAdt(id ast.ItemID, item *ast.Item, reachable bool, module string) {
	kind := AdtStruct
	var generics ast.Generics
	switch item.Kind {
	case ast.ItemEnum:
		kind = AdtEnum
		if data, ok := col.b.Items.Enum(id); ok {
			generics = data.Generics
		}
	default:
		if item.Kind == ast.ItemUnion {
			kind = AdtUnion
		}
		if data, ok := col.b.Items.Struct(id); ok {
			generics = data.Generics
		}
	}
	adt := Adt{
		Name:      col.b.Name(item.Name),
		Module:    module,
		Kind:      kind,
		Item:      id,
		Span:      item.Span,
		Reachable: reachable && item.Vis == ast.VisPublic,
		Params:    col.registerParams(generics, uint32(id)),
	}
	col.adtItems[id] = col.c.addAdt(adt)
	col.adtOrder = append(col.adtOrder, id)
}

// declareBodies finds items declared inside function bodies. Such items are
// never reachable from outside and live in a block scope of their own.
func (col *collector) declareBodies(ids []ast.ItemID, module string) {
	for _, id := range ids {
		fn, ok := col.b.Items.Fn(id)
		if !ok || !fn.Body.IsValid() {
			continue
		}
		block := joinModule(module, fmt.Sprintf("{fn#%d}", id))
		ast.WalkExpr(col.b, fn.Body, localItems{col: col, module: block})
	}
}

type localItems struct {
	col    *collector
	module string
}

func (l localItems) VisitItem(id ast.ItemID, _ *ast.Item) bool {
	l.col.declare([]ast.ItemID{id}, false, l.module)
	return false
}

func (l localItems) VisitExpr(ast.ExprID, *ast.Expr) bool {
	return true
}

func (col *collector) registerParams(g ast.Generics, owner uint32) []types.TypeID {
	var out []types.TypeID
	for _, p := range g.TypeParams() {
		out = append(out, col.c.Types.RegisterParam(col.b.Name(p.Name), owner, uint32(len(out))))
	}
	return out
}

func (col *collector) define() {
	for _, id := range col.adtOrder {
		col.defineAdt(id)
	}
	for _, id := range col.impls {
		col.defineImpl(id)
	}
}

func (col *collector) defineAdt(id ast.ItemID) {
	adt, _ := col.c.Adt(col.adtItems[id])
	item := col.b.Items.Get(id)
	sc := newScope(nil)
	sc.module = adt.Module
	var generics ast.Generics
	if data, ok := col.b.Items.Struct(id); ok {
		generics = data.Generics
	} else if data, ok := col.b.Items.Enum(id); ok {
		generics = data.Generics
	}
	col.bindParams(sc, generics, adt.Params)
	sc.self = col.c.Types.RegisterAdt(col.adtItems[id], adt.Name, adt.Params)

	if data, ok := col.b.Items.Struct(id); ok {
		for _, field := range data.Fields {
			adt.Fields = append(adt.Fields, col.resolveType(field.Type, sc))
		}
	}
	for _, attr := range item.Attrs {
		if attr.Name != "derive" {
			continue
		}
		for _, arg := range attr.Args {
			if tr, ok := col.c.lookupDerive(arg); ok {
				adt.Derives = append(adt.Derives, tr)
			}
		}
	}
}

// bindParams makes params visible by name in sc and records their bounds.
func (col *collector) bindParams(sc *scope, g ast.Generics, params []types.TypeID) {
	for i, p := range g.TypeParams() {
		if i >= len(params) {
			break
		}
		sc.params[col.b.Name(p.Name)] = params[i]
	}
	for i, p := range g.TypeParams() {
		if i >= len(params) {
			break
		}
		for _, bound := range p.Bounds {
			if tr, ok := col.traitRef(bound); ok {
				col.c.bounds[params[i]] = append(col.c.bounds[params[i]], tr)
			}
		}
	}
}

func (col *collector) defineImpl(id ast.ItemID) {
	data, ok := col.b.Items.Impl(id)
	if !ok {
		return
	}
	owner := uint32(id)
	params := col.registerParams(data.Generics, owner)
	sc := newScope(nil)
	sc.module = col.implModule[id]
	col.bindParams(sc, data.Generics, params)
	sc.self = col.resolveType(data.SelfTy, sc)

	rec := Impl{
		Item:     id,
		Negative: data.Negative,
		Self:     sc.self,
		Owner:    owner,
		Params:   params,
	}
	if data.Trait.IsValid() {
		tr, ok := col.traitRef(data.Trait)
		if !ok {
			// impl of a trait we cannot name; never mistake it for an inherent impl
			return
		}
		rec.Trait = tr
	}
	idx := len(col.c.impls)
	for _, sub := range data.Items {
		fn, ok := col.b.Items.Fn(sub)
		if !ok {
			continue
		}
		fsc := newScope(sc)
		col.bindParams(fsc, fn.Generics, col.registerParams(fn.Generics, uint32(sub)))
		ret := col.c.Types.Builtins().Unit
		if fn.Ret.IsValid() {
			ret = col.resolveType(fn.Ret, fsc)
		}
		vis := col.b.Items.Get(sub).Vis
		rec.Methods = append(rec.Methods, Method{Item: sub, Vis: vis, Ret: ret})
		col.c.methodRet[sub] = ret
		col.c.methodVis[sub] = vis
		col.c.methodImpl[sub] = idx
	}
	col.c.impls = append(col.c.impls, rec)
	col.c.implByItem[id] = idx
}

// traitRef resolves a bound or impl header naming a trait.
func (col *collector) traitRef(id ast.TypeID) (types.TraitID, bool) {
	path, ok := col.b.Types.Path(id)
	if !ok {
		return types.NoTraitID, false
	}
	return col.c.lookupTrait(path.Path.String(col.b.Strings))
}

// lookupTrait accepts a bare name (`Default`), a crate path (`crate::Shape`)
// or a library path (`std::default::Default`).
func (c *Crate) lookupTrait(path string) (types.TraitID, bool) {
	canon := canonicalTraitPath(path)
	if id, ok := c.traitByPath[canon]; ok {
		return id, true
	}
	name := lastSegment(canon)
	if canon == name || canon == "crate::"+name || canon == "self::"+name {
		if id, ok := c.traitByName[name]; ok {
			return id, true
		}
		if canon == name {
			for _, p := range langTraits {
				if lastSegment(p) == name {
					id, ok := c.traitByPath[p]
					return id, ok
				}
			}
		}
	}
	return types.NoTraitID, false
}

// lookupDerive resolves a derive argument; builtin derives win over traits of
// the same name declared in the file.
func (c *Crate) lookupDerive(arg string) (types.TraitID, bool) {
	name := lastSegment(canonicalTraitPath(arg))
	for _, p := range langTraits {
		if lastSegment(p) == name {
			if id, ok := c.traitByPath[p]; ok {
				return id, true
			}
		}
	}
	return c.lookupTrait(arg)
}
