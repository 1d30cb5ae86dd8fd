package parser

import (
	"hone/internal/ast"
	"hone/internal/diag"
	"hone/internal/source"
	"hone/internal/token"
)

type fnModifiers struct {
	konst, unsafe, async, extern bool
}

// parseItem выбирает по первому токену нужный распознаватель конструкции.
// Раскрытый brace-макрос может дать несколько items сразу.
func (p *Parser) parseItem() ([]ast.ItemID, bool) {
	attrs := p.parseOuterAttrs()

	if p.atIdent("macro_rules") && p.atN(1, token.Bang) {
		return one(p.parseMacroRules(attrs))
	}
	if p.macroCallAhead() {
		return p.parseItemMacro(attrs)
	}

	start := p.peek().Span
	h := ast.ItemHeader{Span: start, Attrs: attrs, Vis: p.parseVisibility()}

	var mods fnModifiers
	for {
		switch {
		case p.atIdent("default") && !p.atN(1, token.Bang) && !p.atN(1, token.ColonColon):
			p.advance()
			continue
		case p.at(token.KwConst) && (p.atN(1, token.KwFn) || p.atN(1, token.KwUnsafe) || p.peekN(1).IsIdentText("async") || p.peekN(1).IsIdentText("extern")):
			p.advance()
			mods.konst = true
			continue
		case p.atIdent("async") && !p.atN(1, token.LBrace):
			p.advance()
			mods.async = true
			continue
		case p.at(token.KwUnsafe):
			p.advance()
			mods.unsafe = true
			continue
		case p.atIdent("extern") && !p.atN(1, token.KwCrate):
			p.advance()
			mods.extern = true
			p.eat(token.StringLit)
			if p.at(token.LBrace) {
				// extern "C" { ... } — внешние объявления нам не интересны
				p.skipBalanced()
				return nil, true
			}
			continue
		}
		break
	}

	switch tok := p.peek(); {
	case tok.Kind == token.KwFn:
		return one(p.parseFn(h, mods))
	case tok.Kind == token.KwStruct:
		return one(p.parseStruct(h, false))
	case tok.IsIdentText("union") && p.atN(1, token.Ident):
		return one(p.parseStruct(h, true))
	case tok.Kind == token.KwEnum:
		return one(p.parseEnum(h))
	case tok.Kind == token.KwTrait || (tok.IsIdentText("auto") && p.atN(1, token.KwTrait)):
		return one(p.parseTrait(h, mods))
	case tok.Kind == token.KwImpl:
		return one(p.parseImpl(h, mods))
	case tok.Kind == token.KwMod:
		return one(p.parseMod(h))
	case tok.Kind == token.KwUse || tok.IsIdentText("extern"):
		return one(p.parseUse(h))
	case tok.Kind == token.KwConst:
		return one(p.parseValue(ast.ItemConst, h))
	case tok.Kind == token.KwStatic:
		return one(p.parseValue(ast.ItemStatic, h))
	case tok.Kind == token.KwType:
		return one(p.parseTypeAlias(h))
	}
	p.report(diag.SynUnexpectedTopLevel, diag.SevError, p.peek().Span, "expected item, got \""+p.peek().Text+"\"")
	return nil, false
}

func one(id ast.ItemID, ok bool) ([]ast.ItemID, bool) {
	if !ok {
		return nil, false
	}
	return []ast.ItemID{id}, true
}

// parseVisibility: `pub`, `pub(crate)`, `pub(super)`, `pub(self)`, `pub(in path)`.
func (p *Parser) parseVisibility() ast.Visibility {
	if _, ok := p.eat(token.KwPub); !ok {
		if p.at(token.KwCrate) && !p.atN(1, token.ColonColon) {
			p.advance() // старый `crate fn`
			return ast.VisCrate
		}
		return ast.VisPrivate
	}
	if !p.at(token.LParen) {
		return ast.VisPublic
	}
	switch p.peekN(1).Kind {
	case token.KwCrate, token.KwSuper:
		if p.atN(2, token.RParen) {
			p.advance()
			p.advance()
			p.advance()
			return ast.VisCrate
		}
	case token.KwSelfValue:
		if p.atN(2, token.RParen) {
			p.advance()
			p.advance()
			p.advance()
			return ast.VisPrivate
		}
	case token.KwIn:
		p.skipBalanced()
		return ast.VisCrate
	}
	return ast.VisPublic
}

func (p *Parser) finishHeader(h *ast.ItemHeader) {
	h.Span = h.Span.Cover(p.lastSpan)
}

func (p *Parser) parseFn(h ast.ItemHeader, mods fnModifiers) (ast.ItemID, bool) {
	fnTok := p.advance()
	name, _, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	h.Name = name

	data := ast.FnData{
		Const:  mods.konst,
		Unsafe: mods.unsafe,
		Async:  mods.async,
		Extern: mods.extern,
	}
	if data.Generics, ok = p.parseGenerics(); !ok {
		return ast.NoItemID, false
	}
	if !p.parseFnParams(&data) {
		return ast.NoItemID, false
	}
	if _, ok := p.eat(token.Arrow); ok {
		if data.Ret, ok = p.parseType(); !ok {
			return ast.NoItemID, false
		}
	}
	data.Sig = fnTok.Span.Cover(p.lastSpan)
	p.skipWhere()

	if _, ok := p.eat(token.Semicolon); !ok {
		body, ok := p.parseBlockExpr()
		if !ok {
			return ast.NoItemID, false
		}
		data.Body = body
	}
	p.finishHeader(&h)
	return p.arenas.Items.NewFn(h, data), true
}

func (p *Parser) parseFnParams(data *ast.FnData) bool {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after function name"); !ok {
		return false
	}
	for !p.at(token.RParen) && !p.at(token.EOF) {
		p.parseOuterAttrs()
		if len(data.Params) == 0 && !data.HasSelf && p.atSelfParam() {
			data.HasSelf = true
			data.Self = p.parseSelfParam()
		} else {
			param, ok := p.parseParam()
			if !ok {
				return false
			}
			data.Params = append(data.Params, param)
		}
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	_, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after parameters")
	return ok
}

// atSelfParam распознаёт `self`, `mut self`, `&self`, `&'a mut self`.
func (p *Parser) atSelfParam() bool {
	n := 0
	if p.at(token.Amp) {
		n++
		if p.atN(n, token.Lifetime) {
			n++
		}
	}
	if p.atN(n, token.KwMut) {
		n++
	}
	if !p.atN(n, token.KwSelfValue) {
		return false
	}
	next := p.peekN(n + 1).Kind
	return next == token.Comma || next == token.RParen || next == token.Colon
}

func (p *Parser) parseSelfParam() ast.SelfParam {
	start := p.peek().Span
	var sp ast.SelfParam
	if _, ok := p.eat(token.Amp); ok {
		sp.Ref = true
		p.eat(token.Lifetime)
	}
	_, sp.Mut = p.eat(token.KwMut)
	p.advance() // self
	if _, ok := p.eat(token.Colon); ok {
		sp.Type, _ = p.parseType()
	}
	sp.Span = start.Cover(p.lastSpan)
	return sp
}

func (p *Parser) parseParam() (ast.Param, bool) {
	start := p.peek().Span
	pat, ok := p.skipPattern(token.Colon, token.Comma)
	if !ok {
		return ast.Param{}, false
	}
	if _, ok := p.expect(token.Colon, diag.SynExpectType, "expected ':' before parameter type"); !ok {
		return ast.Param{}, false
	}
	ty, ok := p.parseType()
	if !ok {
		return ast.Param{}, false
	}
	return ast.Param{Pattern: pat, Type: ty, Span: start.Cover(p.lastSpan)}, true
}

func (p *Parser) parseStruct(h ast.ItemHeader, union bool) (ast.ItemID, bool) {
	p.advance() // struct | union
	name, _, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	h.Name = name

	var data ast.StructData
	if data.Generics, ok = p.parseGenerics(); !ok {
		return ast.NoItemID, false
	}
	switch {
	case p.at(token.LParen):
		data.Shape = ast.ShapeTuple
		if data.Fields, ok = p.parseTupleFields(); !ok {
			return ast.NoItemID, false
		}
		p.skipWhere()
		if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after tuple struct"); !ok {
			return ast.NoItemID, false
		}
	default:
		p.skipWhere()
		if _, ok := p.eat(token.Semicolon); ok {
			data.Shape = ast.ShapeUnit
			break
		}
		data.Shape = ast.ShapeNamed
		if data.Fields, ok = p.parseNamedFields(); !ok {
			return ast.NoItemID, false
		}
	}
	p.finishHeader(&h)
	return p.arenas.Items.NewStruct(h, union, data), true
}

func (p *Parser) parseNamedFields() ([]ast.FieldDecl, bool) {
	if _, ok := p.expect(token.LBrace, diag.SynExpectBlock, "expected '{' or ';'"); !ok {
		return nil, false
	}
	var fields []ast.FieldDecl
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		attrs := p.parseOuterAttrs()
		start := p.peek().Span
		vis := p.parseVisibility()
		name, _, ok := p.parseIdent()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.Colon, diag.SynExpectType, "expected ':' after field name"); !ok {
			return nil, false
		}
		ty, ok := p.parseType()
		if !ok {
			return nil, false
		}
		fields = append(fields, ast.FieldDecl{Name: name, Type: ty, Vis: vis, Attrs: attrs, Span: start.Cover(p.lastSpan)})
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	_, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' after fields")
	return fields, ok
}

func (p *Parser) parseTupleFields() ([]ast.FieldDecl, bool) {
	p.advance() // (
	var fields []ast.FieldDecl
	for !p.at(token.RParen) && !p.at(token.EOF) {
		attrs := p.parseOuterAttrs()
		start := p.peek().Span
		vis := p.parseVisibility()
		ty, ok := p.parseType()
		if !ok {
			return nil, false
		}
		fields = append(fields, ast.FieldDecl{Type: ty, Vis: vis, Attrs: attrs, Span: start.Cover(p.lastSpan)})
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	_, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after tuple fields")
	return fields, ok
}

func (p *Parser) parseEnum(h ast.ItemHeader) (ast.ItemID, bool) {
	p.advance() // enum
	name, _, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	h.Name = name
	var data ast.EnumData
	if data.Generics, ok = p.parseGenerics(); !ok {
		return ast.NoItemID, false
	}
	p.skipWhere()
	if _, ok := p.expect(token.LBrace, diag.SynExpectBlock, "expected '{' after enum name"); !ok {
		return ast.NoItemID, false
	}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		attrs := p.parseOuterAttrs()
		start := p.peek().Span
		p.parseVisibility()
		vname, _, ok := p.parseIdent()
		if !ok {
			return ast.NoItemID, false
		}
		v := ast.Variant{Name: vname, Attrs: attrs, Shape: ast.ShapeUnit}
		switch {
		case p.at(token.LParen):
			v.Shape = ast.ShapeTuple
			v.Fields, ok = p.parseTupleFields()
		case p.at(token.LBrace):
			v.Shape = ast.ShapeNamed
			v.Fields, ok = p.parseNamedFields()
		}
		if !ok {
			return ast.NoItemID, false
		}
		if _, ok := p.eat(token.Assign); ok {
			if _, ok := p.parseExpr(); !ok {
				return ast.NoItemID, false
			}
		}
		v.Span = start.Cover(p.lastSpan)
		data.Variants = append(data.Variants, v)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' after enum variants"); !ok {
		return ast.NoItemID, false
	}
	p.finishHeader(&h)
	return p.arenas.Items.NewEnum(h, data), true
}

func (p *Parser) parseTrait(h ast.ItemHeader, _ fnModifiers) (ast.ItemID, bool) {
	if p.atIdent("auto") {
		p.advance()
	}
	p.advance() // trait
	name, _, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	h.Name = name
	var data ast.TraitData
	if data.Generics, ok = p.parseGenerics(); !ok {
		return ast.NoItemID, false
	}
	if _, ok := p.eat(token.Colon); ok {
		data.Bounds, _ = p.parseBounds()
	}
	p.skipWhere()
	if data.Items, ok = p.parseItemBlock(&h); !ok {
		return ast.NoItemID, false
	}
	p.finishHeader(&h)
	return p.arenas.Items.NewTrait(h, data), true
}

func (p *Parser) parseImpl(h ast.ItemHeader, mods fnModifiers) (ast.ItemID, bool) {
	p.advance() // impl
	data := ast.ImplData{Unsafe: mods.unsafe}
	var ok bool
	if data.Generics, ok = p.parseGenerics(); !ok {
		return ast.NoItemID, false
	}
	p.eat(token.KwConst)
	_, data.Negative = p.eat(token.Bang)
	first, ok := p.parseType()
	if !ok {
		return ast.NoItemID, false
	}
	if _, isTrait := p.eat(token.KwFor); isTrait {
		data.Trait = first
		if data.SelfTy, ok = p.parseType(); !ok {
			return ast.NoItemID, false
		}
	} else {
		data.SelfTy = first
	}
	p.skipWhere()
	if data.Items, ok = p.parseItemBlock(&h); !ok {
		return ast.NoItemID, false
	}
	p.finishHeader(&h)
	return p.arenas.Items.NewImpl(h, data), true
}

// parseItemBlock разбирает `{ #![..] items }` у trait, impl и mod;
// внутренние атрибуты достаются владельцу.
func (p *Parser) parseItemBlock(h *ast.ItemHeader) ([]ast.ItemID, bool) {
	open, ok := p.expect(token.LBrace, diag.SynExpectBlock, "expected '{'")
	if !ok {
		return nil, false
	}
	h.Attrs = append(h.Attrs, p.parseInnerAttrs()...)
	items := p.parseItemsUntil(token.RBrace)
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}'"); !ok {
		p.report(diag.SynUnclosedDelimiter, diag.SevError, open.Span, "unclosed '{' opened here")
		return items, false
	}
	return items, true
}

func (p *Parser) parseMod(h ast.ItemHeader) (ast.ItemID, bool) {
	p.advance() // mod
	name, _, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	h.Name = name
	var data ast.ModData
	if _, ok := p.eat(token.Semicolon); !ok {
		data.Inline = true
		if data.Items, ok = p.parseItemBlock(&h); !ok {
			return ast.NoItemID, false
		}
	}
	p.finishHeader(&h)
	return p.arenas.Items.NewMod(h, data), true
}

// parseUse пропускает `use ...;` и `extern crate ...;` целиком.
func (p *Parser) parseUse(h ast.ItemHeader) (ast.ItemID, bool) {
	p.advance()
	for !p.at(token.Semicolon) && !p.at(token.EOF) {
		if p.at(token.LBrace) {
			p.skipBalanced()
			continue
		}
		if p.at(token.RBrace) || isItemStarter(p.peek()) {
			break
		}
		p.advance()
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after use declaration"); !ok {
		return ast.NoItemID, false
	}
	p.finishHeader(&h)
	return p.arenas.Items.NewUse(h), true
}

func (p *Parser) parseValue(kind ast.ItemKind, h ast.ItemHeader) (ast.ItemID, bool) {
	p.advance() // const | static
	var data ast.ValueData
	_, data.Mut = p.eat(token.KwMut)
	name, _, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	h.Name = name
	if _, ok := p.eat(token.Colon); ok {
		if data.Type, ok = p.parseType(); !ok {
			return ast.NoItemID, false
		}
	}
	if _, ok := p.eat(token.Assign); ok {
		if data.Value, ok = p.parseExpr(); !ok {
			return ast.NoItemID, false
		}
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after "+kind.String()+" item"); !ok {
		return ast.NoItemID, false
	}
	p.finishHeader(&h)
	return p.arenas.Items.NewValue(kind, h, data), true
}

// parseTypeAlias: `type A<T> = B;` и ассоциированные `type Item: Bound;`.
func (p *Parser) parseTypeAlias(h ast.ItemHeader) (ast.ItemID, bool) {
	p.advance() // type
	name, _, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	h.Name = name
	var data ast.TypeAliasData
	if data.Generics, ok = p.parseGenerics(); !ok {
		return ast.NoItemID, false
	}
	if _, ok := p.eat(token.Colon); ok {
		p.parseBounds()
	}
	p.skipWhere()
	if _, ok := p.eat(token.Assign); ok {
		if data.Type, ok = p.parseType(); !ok {
			return ast.NoItemID, false
		}
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after type alias"); !ok {
		return ast.NoItemID, false
	}
	p.finishHeader(&h)
	return p.arenas.Items.NewTypeAlias(h, data), true
}

func (p *Parser) headerFrom(attrs []ast.Attr, start source.Span) ast.ItemHeader {
	return ast.ItemHeader{Span: start, Attrs: attrs}
}
