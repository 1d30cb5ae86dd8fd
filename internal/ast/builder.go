package ast

import (
	"hone/internal/source"
)

type Hints struct{ Files, Items, Stmts, Exprs, Types uint }

// Builder owns every arena of a parse session. Several files may share a
// Builder so that item IDs are unique across a crate.
type Builder struct {
	Files   *Files
	Items   *Items
	Stmts   *Stmts
	Exprs   *Exprs
	Types   *Types
	Strings *source.Interner
}

func NewBuilder(hints Hints, stringsInterner *source.Interner) *Builder {
	if stringsInterner == nil {
		stringsInterner = source.NewInterner()
	}
	return &Builder{
		Files:   NewFiles(hints.Files),
		Items:   NewItems(hints.Items),
		Stmts:   NewStmts(hints.Stmts),
		Exprs:   NewExprs(hints.Exprs),
		Types:   NewTypes(hints.Types),
		Strings: stringsInterner,
	}
}

func (b *Builder) NewFile(span source.Span) FileID {
	return b.Files.New(span)
}

// PushItem appends an item to the file's top-level list.
func (b *Builder) PushItem(file FileID, item ItemID) {
	if f := b.Files.Get(file); f != nil {
		f.Items = append(f.Items, item)
	}
}

// Name resolves an interned identifier; empty for NoStringID.
func (b *Builder) Name(id source.StringID) string {
	if id == source.NoStringID {
		return ""
	}
	s, _ := b.Strings.Lookup(id)
	return s
}

// UnwrapParens strips any number of enclosing parentheses.
func (b *Builder) UnwrapParens(id ExprID) ExprID {
	for {
		p, ok := b.Exprs.Paren(id)
		if !ok {
			return id
		}
		id = p.Inner
	}
}
