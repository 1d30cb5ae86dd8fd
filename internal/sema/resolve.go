package sema

import (
	"strconv"
	"strings"

	"hone/internal/ast"
	"hone/internal/types"
)

type scope struct {
	parent *scope
	params map[string]types.TypeID
	self   types.TypeID
	module string
}

func newScope(parent *scope) *scope {
	sc := &scope{parent: parent, params: make(map[string]types.TypeID)}
	if parent != nil {
		sc.self = parent.self
		sc.module = parent.module
	}
	return sc
}

func (s *scope) param(name string) (types.TypeID, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if id, ok := cur.params[name]; ok {
			return id, true
		}
	}
	return types.NoTypeID, false
}

const maxResolveDepth = 64

func (col *collector) resolveType(id ast.TypeID, sc *scope) types.TypeID {
	return col.resolveDepth(id, sc, 0)
}

func (col *collector) resolveDepth(id ast.TypeID, sc *scope, depth int) types.TypeID {
	in := col.c.Types
	unknown := in.Builtins().Unknown
	typ := col.b.Types.Get(id)
	if typ == nil || depth > maxResolveDepth {
		return unknown
	}
	switch typ.Kind {
	case ast.TypePath:
		data, _ := col.b.Types.Path(id)
		return col.resolvePath(data.Path, sc, depth)
	case ast.TypeRef, ast.TypePtr:
		data, _ := col.b.Types.Ref(id)
		elem := col.resolveDepth(data.Elem, sc, depth+1)
		if typ.Kind == ast.TypePtr {
			return in.Intern(types.MakePtr(elem, data.Mut))
		}
		return in.Intern(types.MakeRef(elem, data.Mut))
	case ast.TypeTuple:
		data, _ := col.b.Types.Tuple(id)
		elems := make([]types.TypeID, len(data.Elems))
		for i, e := range data.Elems {
			elems[i] = col.resolveDepth(e, sc, depth+1)
		}
		return in.RegisterTuple(elems)
	case ast.TypeSlice:
		data, _ := col.b.Types.Array(id)
		return in.Intern(types.MakeSlice(col.resolveDepth(data.Elem, sc, depth+1)))
	case ast.TypeArray:
		data, _ := col.b.Types.Array(id)
		n, ok := col.arrayLen(data.Len)
		if !ok {
			return unknown
		}
		return in.Intern(types.MakeArray(col.resolveDepth(data.Elem, sc, depth+1), n))
	case ast.TypeNever:
		return in.Builtins().Never
	}
	// _, dyn/impl Trait, fn pointers
	return unknown
}

// arrayLen understands integer literals such as `4`, `1_000` or `8usize`.
func (col *collector) arrayLen(id ast.ExprID) (uint32, bool) {
	lit, ok := col.b.Exprs.Lit(col.b.UnwrapParens(id))
	if !ok || lit.Kind != ast.LitInt {
		return 0, false
	}
	text := strings.ReplaceAll(lit.Text, "_", "")
	text = strings.TrimRightFunc(text, func(r rune) bool { return r < '0' || r > '9' })
	n, err := strconv.ParseUint(text, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

func (col *collector) resolvePath(path ast.Path, sc *scope, depth int) types.TypeID {
	in := col.c.Types
	unknown := in.Builtins().Unknown
	last, ok := path.Last()
	if !ok {
		return unknown
	}
	name := col.b.Name(last.Name)
	single := len(path.Segments) == 1 && !path.Global

	if single {
		if name == "Self" {
			if sc != nil && sc.self != types.NoTypeID {
				return sc.self
			}
			return in.Builtins().Self
		}
		if sc != nil {
			if p, ok := sc.param(name); ok {
				return p
			}
		}
		if prim, ok := col.primitive(name); ok {
			return prim
		}
	} else if first := col.b.Name(path.Segments[0].Name); first == "Self" {
		// associated type projection
		return unknown
	}

	module := ""
	if sc != nil {
		module = sc.module
	}
	var id types.AdtID
	if single {
		alias, adt, ok := col.lookupInScope(module, name)
		if !ok {
			return unknown
		}
		if alias != ast.NoItemID {
			return col.resolveAlias(alias, last.Args, sc, depth)
		}
		id = adt
	} else {
		var ok bool
		if id, ok = col.lookupQualified(path, module); !ok {
			return unknown
		}
	}

	args := make([]types.TypeID, len(last.Args))
	for i, a := range last.Args {
		args[i] = col.resolveDepth(a, sc, depth+1)
	}
	adt, _ := col.c.Adt(id)
	for len(args) < len(adt.Params) {
		args = append(args, unknown)
	}
	return in.RegisterAdt(id, adt.Name, args[:len(adt.Params)])
}

// lookupInScope resolves a bare type name used inside module. Items of the
// module and of the enclosing fn bodies shadow everything else. A name not
// declared there came in through a `use`; it resolves only when exactly one
// candidate exists across the crate and the library.
func (col *collector) lookupInScope(module, name string) (ast.ItemID, types.AdtID, bool) {
	for m := module; ; m = parentModule(m) {
		key := adtKey{module: m, name: name}
		if alias, ok := col.aliases[key]; ok {
			return alias, types.NoAdtID, true
		}
		switch ids := col.c.adtIndex[key]; len(ids) {
		case 0:
		case 1:
			return ast.NoItemID, ids[0], true
		default:
			return ast.NoItemID, types.NoAdtID, false
		}
		if !isBlockModule(m) {
			break
		}
	}
	user := col.c.adtsNamed[name]
	lib := col.c.adtIndex[adtKey{module: libModule, name: name}]
	switch {
	case len(user) == 1 && len(lib) == 0:
		return ast.NoItemID, user[0], true
	case len(user) == 0 && len(lib) == 1:
		return ast.NoItemID, lib[0], true
	}
	return ast.NoItemID, types.NoAdtID, false
}

// lookupQualified resolves `crate::a::Foo`, `super::Foo`, `a::Foo` relative
// to module, or a library path such as `std::fs::File`.
func (col *collector) lookupQualified(path ast.Path, module string) (types.AdtID, bool) {
	segs := make([]string, len(path.Segments))
	for i, seg := range path.Segments {
		segs[i] = col.b.Name(seg.Name)
	}
	name := segs[len(segs)-1]
	var key adtKey
	switch segs[0] {
	case "std", "core", "alloc":
		key = adtKey{module: libModule, name: name}
	default:
		if path.Global {
			return types.NoAdtID, false
		}
		target, ok := moduleOf(module, segs[:len(segs)-1])
		if !ok {
			return types.NoAdtID, false
		}
		key = adtKey{module: target, name: name}
	}
	if ids := col.c.adtIndex[key]; len(ids) == 1 {
		return ids[0], true
	}
	return types.NoAdtID, false
}

func (col *collector) resolveAlias(item ast.ItemID, argExprs []ast.TypeID, sc *scope, depth int) types.TypeID {
	in := col.c.Types
	data, ok := col.b.Items.TypeAlias(item)
	if !ok || col.inAlias[item] {
		return in.Builtins().Unknown
	}
	col.inAlias[item] = true
	defer delete(col.inAlias, item)

	params := col.registerParams(data.Generics, uint32(item))
	asc := newScope(nil)
	asc.module = col.aliasModule[item]
	col.bindParams(asc, data.Generics, params)
	target := col.resolveDepth(data.Type, asc, depth+1)
	if len(params) == 0 {
		return target
	}
	args := make([]types.TypeID, len(params))
	for i := range args {
		args[i] = in.Builtins().Unknown
		if i < len(argExprs) {
			args[i] = col.resolveDepth(argExprs[i], sc, depth+1)
		}
	}
	return in.Substitute(target, uint32(item), args)
}

func (col *collector) primitive(name string) (types.TypeID, bool) {
	if !primitiveNames[name] {
		return types.NoTypeID, false
	}
	in := col.c.Types
	switch name {
	case "bool":
		return in.Builtins().Bool, true
	case "char":
		return in.Builtins().Char, true
	case "str":
		return in.Builtins().Str, true
	case "isize":
		return in.Builtins().Isize, true
	case "usize":
		return in.Builtins().Usize, true
	}
	width, err := strconv.ParseUint(name[1:], 10, 8)
	if err != nil {
		return types.NoTypeID, false
	}
	switch name[0] {
	case 'i':
		return in.Intern(types.MakeInt(types.Width(width))), true
	case 'u':
		return in.Intern(types.MakeUint(types.Width(width))), true
	default:
		return in.Intern(types.MakeFloat(types.Width(width))), true
	}
}
