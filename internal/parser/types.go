package parser

import (
	"hone/internal/ast"
	"hone/internal/diag"
	"hone/internal/source"
	"hone/internal/token"
)

// parseType разбирает тип: пути, ссылки, указатели, кортежи, массивы,
// `dyn`/`impl` объекты, fn-указатели, `!` и `_`.
func (p *Parser) parseType() (ast.TypeID, bool) {
	types := p.arenas.Types
	tok := p.peek()
	switch tok.Kind {
	case token.Amp, token.AndAnd:
		return p.parseRefType()
	case token.Star:
		p.advance()
		mut := false
		if _, ok := p.eat(token.KwMut); ok {
			mut = true
		} else if _, ok := p.eat(token.KwConst); !ok {
			p.err(diag.SynExpectType, "expected 'const' or 'mut' after '*'")
		}
		elem, ok := p.parseType()
		if !ok {
			return ast.NoTypeID, false
		}
		return types.NewRef(tok.Span.Cover(types.Get(elem).Span), true, mut, "", elem), true
	case token.LParen:
		return p.parseTupleType()
	case token.LBracket:
		p.advance()
		elem, ok := p.parseType()
		if !ok {
			return ast.NoTypeID, false
		}
		length := ast.NoExprID
		if _, ok := p.eat(token.Semicolon); ok {
			length, ok = p.parseExpr()
			if !ok {
				return ast.NoTypeID, false
			}
		}
		closeTok, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' in array type")
		if !ok {
			return ast.NoTypeID, false
		}
		return types.NewArray(tok.Span.Cover(closeTok.Span), elem, length), true
	case token.Bang:
		p.advance()
		return types.NewNever(tok.Span), true
	case token.Underscore:
		p.advance()
		return types.NewInfer(tok.Span), true
	case token.KwDyn, token.KwImpl:
		p.advance()
		bounds, sp := p.parseBounds()
		return types.NewTraitObject(tok.Span.Cover(sp), tok.Kind == token.KwImpl, bounds), true
	case token.KwFn, token.KwUnsafe:
		return p.parseFnPtrType()
	case token.Ident:
		if tok.Text == "extern" {
			return p.parseFnPtrType()
		}
		return p.parsePathType()
	case token.KwSelfType, token.KwSelfValue, token.KwCrate, token.KwSuper, token.ColonColon, token.Lt, token.Shl:
		return p.parsePathType()
	case token.KwFor:
		// for<'a> Fn(&'a T)
		p.advance()
		p.skipGenerics()
		return p.parseType()
	}
	p.err(diag.SynExpectType, "expected type, got \""+tok.Text+"\"")
	return ast.NoTypeID, false
}

func (p *Parser) parseRefType() (ast.TypeID, bool) {
	types := p.arenas.Types
	var amp token.Token
	if p.at(token.AndAnd) {
		amp = p.split(token.Amp, token.Amp)
	} else {
		amp = p.advance()
	}
	lifetime := ""
	if lt, ok := p.eat(token.Lifetime); ok {
		lifetime = lt.Text
	}
	_, mut := p.eat(token.KwMut)
	elem, ok := p.parseType()
	if !ok {
		return ast.NoTypeID, false
	}
	return types.NewRef(amp.Span.Cover(types.Get(elem).Span), false, mut, lifetime, elem), true
}

func (p *Parser) parseTupleType() (ast.TypeID, bool) {
	open := p.advance()
	var elems []ast.TypeID
	trailingComma := false
	for !p.at(token.RParen) && !p.at(token.EOF) {
		elem, ok := p.parseType()
		if !ok {
			return ast.NoTypeID, false
		}
		elems = append(elems, elem)
		trailingComma = false
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
		trailingComma = true
	}
	closeTok, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' in tuple type")
	if !ok {
		return ast.NoTypeID, false
	}
	// (T) — просто скобки
	if len(elems) == 1 && !trailingComma {
		return elems[0], true
	}
	return p.arenas.Types.NewTuple(open.Span.Cover(closeTok.Span), elems), true
}

func (p *Parser) parseFnPtrType() (ast.TypeID, bool) {
	start := p.peek().Span
	p.eat(token.KwUnsafe)
	if p.atIdent("extern") {
		p.advance()
		p.eat(token.StringLit)
	}
	if _, ok := p.expect(token.KwFn, diag.SynExpectType, "expected 'fn'"); !ok {
		return ast.NoTypeID, false
	}
	params, end, ok := p.parseParenTypeList()
	if !ok {
		return ast.NoTypeID, false
	}
	ret := ast.NoTypeID
	if _, ok := p.eat(token.Arrow); ok {
		if ret, ok = p.parseType(); !ok {
			return ast.NoTypeID, false
		}
		end = p.arenas.Types.Get(ret).Span
	}
	return p.arenas.Types.NewFnPtr(start.Cover(end), params, ret), true
}

// parseParenTypeList разбирает `(A, b: B, ...)` у fn-указателей и Fn-трейтов.
func (p *Parser) parseParenTypeList() ([]ast.TypeID, source.Span, bool) {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('"); !ok {
		return nil, source.Span{}, false
	}
	var params []ast.TypeID
	for !p.at(token.RParen) && !p.at(token.EOF) {
		if (p.at(token.Ident) || p.at(token.Underscore)) && p.atN(1, token.Colon) {
			p.advance()
			p.advance()
		}
		if p.at(token.DotDot) { // variadic
			p.advance()
		} else {
			ty, ok := p.parseType()
			if !ok {
				return nil, source.Span{}, false
			}
			params = append(params, ty)
		}
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	closeTok, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'")
	return params, closeTok.Span, ok
}

// parsePathType разбирает путь в позиции типа: здесь `<` сразу открывает
// аргументы, без turbofish.
func (p *Parser) parsePathType() (ast.TypeID, bool) {
	path, ok := p.parsePath(true)
	if !ok {
		return ast.NoTypeID, false
	}
	return p.arenas.Types.NewPath(path.Span, path), true
}

// parsePath разбирает `a::b<T>::c`. В позиции выражения (typePos=false)
// аргументы допускаются только после `::`.
func (p *Parser) parsePath(typePos bool) (ast.Path, bool) {
	var path ast.Path
	start := p.peek().Span
	path.Span = start

	if p.at(token.Lt) || p.at(token.Shl) {
		// <T as Trait>::Name — сохраняем трейт и хвост
		if !p.parseQualifiedSelf(&path) {
			return path, false
		}
	} else if _, ok := p.eat(token.ColonColon); ok {
		path.Global = true
	}

	for {
		seg, ok := p.parsePathSegment(typePos)
		if !ok {
			return path, false
		}
		path.Segments = append(path.Segments, seg)
		path.Span = start.Cover(p.lastSpan)
		if !p.at(token.ColonColon) {
			return path, true
		}
		// `::<` turbofish или `::{` в use — не наш случай
		if p.atN(1, token.Lt) {
			p.advance()
			args, ok := p.parseGenericArgs()
			if !ok {
				return path, false
			}
			last := &path.Segments[len(path.Segments)-1]
			last.Args = append(last.Args, args...)
			last.Span = last.Span.Cover(p.lastSpan)
			path.Span = start.Cover(p.lastSpan)
			if !p.at(token.ColonColon) {
				return path, true
			}
		}
		if !isPathSegmentStart(p.peekN(1).Kind) {
			return path, true
		}
		p.advance() // ::
	}
}

func (p *Parser) parseQualifiedSelf(path *ast.Path) bool {
	p.eatLt()
	if _, ok := p.parseType(); !ok {
		return false
	}
	if _, ok := p.eat(token.KwAs); ok {
		trait, ok := p.parsePath(true)
		if !ok {
			return false
		}
		path.Segments = append(path.Segments, trait.Segments...)
	}
	if _, ok := p.eatGt(); !ok {
		p.err(diag.SynUnexpectedToken, "expected '>' in qualified path")
		return false
	}
	_, ok := p.expect(token.ColonColon, diag.SynUnexpectedToken, "expected '::' after qualified self type")
	return ok
}

func isPathSegmentStart(k token.Kind) bool {
	switch k {
	case token.Ident, token.KwSelfType, token.KwSelfValue, token.KwCrate, token.KwSuper:
		return true
	}
	return false
}

func (p *Parser) parsePathSegment(typePos bool) (ast.PathSegment, bool) {
	tok := p.peek()
	if !isPathSegmentStart(tok.Kind) {
		p.err(diag.SynExpectIdentifier, "expected path segment, got \""+tok.Text+"\"")
		return ast.PathSegment{}, false
	}
	p.advance()
	seg := ast.PathSegment{Name: p.arenas.Strings.Intern(tok.Text), Span: tok.Span}
	if !typePos {
		return seg, true
	}
	switch {
	case p.at(token.Lt) || p.at(token.Shl):
		args, ok := p.parseGenericArgs()
		if !ok {
			return seg, false
		}
		seg.Args = args
	case p.at(token.LParen) && (tok.Text == "Fn" || tok.Text == "FnMut" || tok.Text == "FnOnce"):
		args, _, ok := p.parseParenTypeList()
		if !ok {
			return seg, false
		}
		seg.Args = args
		if _, ok := p.eat(token.Arrow); ok {
			ret, ok := p.parseType()
			if !ok {
				return seg, false
			}
			seg.Args = append(seg.Args, ret)
		}
	}
	seg.Span = seg.Span.Cover(p.lastSpan)
	return seg, true
}

// parseGenericArgs разбирает `<T, 'a, N, Item = U>`. Лайфтаймы и константы
// пропускаются, ассоциированные привязки дают тип справа от '='.
func (p *Parser) parseGenericArgs() ([]ast.TypeID, bool) {
	if _, ok := p.eatLt(); !ok {
		p.err(diag.SynUnexpectedToken, "expected '<'")
		return nil, false
	}
	var args []ast.TypeID
	for !p.at(token.EOF) {
		if _, ok := p.eatGt(); ok {
			return args, true
		}
		switch {
		case p.at(token.Lifetime):
			p.advance()
		case p.at(token.LBrace):
			p.skipBalanced()
		case p.peek().Kind.IsLiteral() || p.at(token.Minus):
			p.parseUnaryExpr()
		case p.at(token.Ident) && (p.atN(1, token.Assign) || p.atN(1, token.Colon)):
			p.advance()
			if _, ok := p.eat(token.Assign); ok {
				ty, ok := p.parseType()
				if !ok {
					return nil, false
				}
				args = append(args, ty)
			} else {
				p.advance()
				p.parseBounds()
			}
		default:
			ty, ok := p.parseType()
			if !ok {
				return nil, false
			}
			args = append(args, ty)
		}
		if _, ok := p.eat(token.Comma); !ok {
			if _, ok := p.eatGt(); ok {
				return args, true
			}
			p.err(diag.SynUnexpectedToken, "expected ',' or '>' in generic arguments")
			return nil, false
		}
	}
	p.err(diag.SynUnclosedDelimiter, "unclosed generic arguments")
	return nil, false
}

// parseBounds разбирает `A + B<T> + 'a + ?Sized`.
func (p *Parser) parseBounds() ([]ast.TypeID, source.Span) {
	var bounds []ast.TypeID
	span := p.peek().Span
	for {
		switch {
		case p.at(token.Lifetime):
			p.advance()
		case p.at(token.LParen):
			// (Trait) в скобках
			p.advance()
			b, _ := p.parseBounds()
			bounds = append(bounds, b...)
			p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' in bound")
		default:
			p.eat(token.Question)
			if p.at(token.KwFor) {
				p.advance()
				p.skipGenerics()
			}
			if !isPathSegmentStart(p.peek().Kind) && !p.at(token.ColonColon) {
				return bounds, span
			}
			ty, ok := p.parsePathType()
			if !ok {
				return bounds, span
			}
			bounds = append(bounds, ty)
		}
		span = span.Cover(p.lastSpan)
		if _, ok := p.eat(token.Plus); !ok {
			return bounds, span
		}
	}
}

// skipGenerics пропускает `<...>` вместе с вложенными угловыми скобками.
func (p *Parser) skipGenerics() {
	if _, ok := p.eatLt(); !ok {
		return
	}
	depth := 1
	for depth > 0 && !p.at(token.EOF) {
		if _, ok := p.eatLt(); ok {
			depth++
			continue
		}
		if _, ok := p.eatGt(); ok {
			depth--
			continue
		}
		p.advance()
	}
}
