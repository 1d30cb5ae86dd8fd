package parser

import (
	"hone/internal/ast"
	"hone/internal/diag"
	"hone/internal/source"
	"hone/internal/token"
)

// parseExpr - главная точка входа для парсинга выражений
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	return p.parseBinaryExpr(ast.PrecAssign)
}

// parseExprNoStruct разбирает заголовок if/while/match/for, где `{`
// открывает тело, а не struct-литерал.
func (p *Parser) parseExprNoStruct() (ast.ExprID, bool) {
	saved := p.noStruct
	p.noStruct = true
	defer func() { p.noStruct = saved }()
	return p.parseExpr()
}

// parseBinaryExpr реализует Pratt parsing для бинарных операторов
func (p *Parser) parseBinaryExpr(minPrec int) (ast.ExprID, bool) {
	left, ok := p.parseUnaryExpr()
	if !ok {
		return ast.NoExprID, false
	}
	return p.parseBinaryFrom(left, minPrec)
}

func (p *Parser) spanOf(id ast.ExprID) source.Span {
	if e := p.arenas.Exprs.Get(id); e != nil {
		return e.Span
	}
	return p.lastSpan
}

// parseBinaryFrom продолжает разбор инфиксных операторов после left.
func (p *Parser) parseBinaryFrom(left ast.ExprID, minPrec int) (ast.ExprID, bool) {
	exprs := p.arenas.Exprs
	for {
		tok := p.peek()
		switch {
		case tok.Kind.IsAssignOp():
			if ast.PrecAssign < minPrec {
				return left, true
			}
			p.advance()
			// присваивание правоассоциативно
			right, ok := p.parseBinaryExpr(ast.PrecAssign)
			if !ok {
				return ast.NoExprID, false
			}
			data := ast.ExprAssignData{Target: left, Value: right}
			if op, compound := compoundOps[tok.Kind]; compound {
				data.Compound = true
				data.Op = op
			}
			left = exprs.NewAssign(p.spanOf(left).Cover(p.spanOf(right)), data)

		case tok.Kind == token.DotDot || tok.Kind == token.DotDotEq:
			if ast.PrecRange < minPrec {
				return left, true
			}
			p.advance()
			right := ast.NoExprID
			end := tok.Span
			if p.canStartExpr() {
				var ok bool
				if right, ok = p.parseBinaryExpr(ast.PrecRange + 1); !ok {
					return ast.NoExprID, false
				}
				end = p.spanOf(right)
			}
			left = exprs.NewRange(p.spanOf(left).Cover(end), left, right, tok.Kind == token.DotDotEq)

		case tok.Kind == token.KwAs:
			if ast.PrecCast < minPrec {
				return left, true
			}
			p.advance()
			ty, ok := p.parseType()
			if !ok {
				return ast.NoExprID, false
			}
			left = exprs.NewCast(p.spanOf(left).Cover(p.arenas.Types.Get(ty).Span), left, ty)

		default:
			op, prec := getBinaryOperatorPrec(tok.Kind)
			if prec < minPrec {
				return left, true
			}
			p.advance()
			right, ok := p.parseBinaryExpr(prec + 1)
			if !ok {
				p.err(diag.SynExpectExpression, "expected expression after binary operator")
				return ast.NoExprID, false
			}
			left = exprs.NewBinary(p.spanOf(left).Cover(p.spanOf(right)), op, left, right)
		}
	}
}

// parseUnaryExpr обрабатывает унарные операторы (префиксы)
func (p *Parser) parseUnaryExpr() (ast.ExprID, bool) {
	exprs := p.arenas.Exprs
	tok := p.peek()
	var op ast.UnaryOp
	switch tok.Kind {
	case token.Bang:
		op = ast.UnaryNot
	case token.Minus:
		op = ast.UnaryNeg
	case token.Star:
		op = ast.UnaryDeref
	case token.Amp, token.AndAnd:
		if tok.Kind == token.AndAnd {
			tok = p.split(token.Amp, token.Amp)
		} else {
			p.advance()
		}
		op = ast.UnaryRef
		if _, ok := p.eat(token.KwMut); ok {
			op = ast.UnaryRefMut
		}
		operand, ok := p.parseUnaryExpr()
		if !ok {
			return ast.NoExprID, false
		}
		return exprs.NewUnary(tok.Span.Cover(p.spanOf(operand)), op, operand), true
	case token.DotDot, token.DotDotEq:
		p.advance()
		end := ast.NoExprID
		span := tok.Span
		if p.canStartExpr() {
			var ok bool
			if end, ok = p.parseBinaryExpr(ast.PrecRange + 1); !ok {
				return ast.NoExprID, false
			}
			span = span.Cover(p.spanOf(end))
		}
		return exprs.NewRange(span, ast.NoExprID, end, tok.Kind == token.DotDotEq), true
	default:
		primary, ok := p.parsePrimaryExpr()
		if !ok {
			return ast.NoExprID, false
		}
		return p.parsePostfixFrom(primary)
	}

	p.advance()
	operand, ok := p.parseUnaryExpr()
	if !ok {
		return ast.NoExprID, false
	}
	return exprs.NewUnary(tok.Span.Cover(p.spanOf(operand)), op, operand), true
}

// parsePostfixFrom навешивает вызовы, поля, индексы и `?`.
func (p *Parser) parsePostfixFrom(expr ast.ExprID) (ast.ExprID, bool) {
	exprs := p.arenas.Exprs
	for {
		switch p.peek().Kind {
		case token.LParen:
			args, closeSpan, ok := p.parseExprList(token.LParen, token.RParen)
			if !ok {
				return ast.NoExprID, false
			}
			expr = exprs.NewCall(p.spanOf(expr).Cover(closeSpan), expr, args)
		case token.LBracket:
			p.advance()
			saved := p.noStruct
			p.noStruct = false
			index, ok := p.parseExpr()
			p.noStruct = saved
			if !ok {
				return ast.NoExprID, false
			}
			closeTok, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' after index")
			if !ok {
				return ast.NoExprID, false
			}
			expr = exprs.NewIndex(p.spanOf(expr).Cover(closeTok.Span), expr, index)
		case token.Question:
			q := p.advance()
			expr = exprs.NewTry(p.spanOf(expr).Cover(q.Span), expr)
		case token.Dot:
			var ok bool
			if expr, ok = p.parseDotSuffix(expr); !ok {
				return ast.NoExprID, false
			}
		default:
			return expr, true
		}
	}
}

func (p *Parser) parseDotSuffix(recv ast.ExprID) (ast.ExprID, bool) {
	exprs := p.arenas.Exprs
	p.advance() // .
	tok := p.peek()
	switch {
	case tok.Kind == token.IntLit:
		p.advance()
		return exprs.NewField(p.spanOf(recv).Cover(tok.Span), recv, p.arenas.Strings.Intern(tok.Text)), true
	case tok.Kind == token.Ident || tok.Kind.IsKeyword():
		p.advance()
		seg := ast.PathSegment{Name: p.arenas.Strings.Intern(tok.Text), Span: tok.Span}
		if p.at(token.ColonColon) && p.atN(1, token.Lt) {
			p.advance()
			args, ok := p.parseGenericArgs()
			if !ok {
				return ast.NoExprID, false
			}
			seg.Args = args
			seg.Span = seg.Span.Cover(p.lastSpan)
		}
		if !p.at(token.LParen) {
			return exprs.NewField(p.spanOf(recv).Cover(tok.Span), recv, seg.Name), true
		}
		args, closeSpan, ok := p.parseExprList(token.LParen, token.RParen)
		if !ok {
			return ast.NoExprID, false
		}
		return exprs.NewMethodCall(p.spanOf(recv).Cover(closeSpan), recv, seg, args), true
	}
	p.err(diag.SynExpectIdentifier, "expected field or method name after '.'")
	return ast.NoExprID, false
}

// parseExprList разбирает `open e, e, ... close` и сбрасывает noStruct внутри.
func (p *Parser) parseExprList(open, closeKind token.Kind) ([]ast.ExprID, source.Span, bool) {
	p.expect(open, diag.SynUnexpectedToken, "expected '"+open.String()+"'")
	saved := p.noStruct
	p.noStruct = false
	defer func() { p.noStruct = saved }()

	var items []ast.ExprID
	for !p.at(closeKind) && !p.at(token.EOF) {
		item, ok := p.parseExpr()
		if !ok {
			return nil, source.Span{}, false
		}
		items = append(items, item)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	closeTok, ok := p.expect(closeKind, diag.SynUnclosedDelimiter, "expected '"+closeKind.String()+"'")
	return items, closeTok.Span, ok
}
