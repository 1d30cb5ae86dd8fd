package parser

import (
	"hone/internal/ast"
	"hone/internal/diag"
	"hone/internal/source"
	"hone/internal/token"
)

func (p *Parser) parsePrimaryExpr() (ast.ExprID, bool) {
	exprs := p.arenas.Exprs
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit, token.FloatLit, token.StringLit, token.CharLit, token.KwTrue, token.KwFalse:
		p.advance()
		return exprs.NewLit(tok.Span, litKind(tok.Kind), tok.Text), true
	case token.LParen:
		return p.parseParenOrTuple()
	case token.LBracket:
		return p.parseArrayLit()
	case token.LBrace:
		return p.parseBlockExpr()
	case token.KwUnsafe:
		p.advance()
		return p.parseBlockWith(tok.Span, "", true)
	case token.KwIf:
		return p.parseIf()
	case token.KwMatch:
		return p.parseMatch()
	case token.KwWhile, token.KwLoop, token.KwFor:
		return p.parseLoop(tok.Span, "")
	case token.Lifetime:
		return p.parseLabeled()
	case token.Pipe, token.OrOr, token.KwMove:
		return p.parseClosure()
	case token.KwReturn, token.KwBreak, token.KwContinue:
		return p.parseJump()
	case token.Ident, token.KwSelfValue, token.KwSelfType, token.KwCrate, token.KwSuper, token.ColonColon, token.Lt, token.Shl:
		if tok.IsIdentText("async") && (p.atN(1, token.LBrace) || p.atN(1, token.KwMove)) {
			p.advance()
			p.eat(token.KwMove)
			return p.parseBlockWith(tok.Span, "", false)
		}
		return p.parsePathExpr()
	}
	p.err(diag.SynExpectExpression, "expected expression, got \""+tok.Text+"\"")
	return ast.NoExprID, false
}

func litKind(k token.Kind) ast.LitKind {
	switch k {
	case token.IntLit:
		return ast.LitInt
	case token.FloatLit:
		return ast.LitFloat
	case token.StringLit:
		return ast.LitStr
	case token.CharLit:
		return ast.LitChar
	default:
		return ast.LitBool
	}
}

// parsePathExpr: путь, вызов макроса или struct-литерал.
func (p *Parser) parsePathExpr() (ast.ExprID, bool) {
	exprs := p.arenas.Exprs
	if p.macroCallAhead() {
		mc, ok := p.parseMacroCall()
		if !ok {
			return ast.NoExprID, false
		}
		return exprs.NewMacro(mc.span, ast.ExprMacroData{Path: mc.path, Delim: mc.delim, Body: mc.body}), true
	}
	path, ok := p.parsePath(false)
	if !ok {
		return ast.NoExprID, false
	}
	if p.at(token.LBrace) && !p.noStruct {
		return p.parseStructLit(path)
	}
	return exprs.NewPath(path.Span, path), true
}

func (p *Parser) parseStructLit(path ast.Path) (ast.ExprID, bool) {
	p.advance() // {
	saved := p.noStruct
	p.noStruct = false
	defer func() { p.noStruct = saved }()

	data := ast.ExprStructData{Path: path}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if _, ok := p.eat(token.DotDot); ok {
			if !p.at(token.RBrace) {
				base, ok := p.parseExpr()
				if !ok {
					return ast.NoExprID, false
				}
				data.Base = base
			}
			break
		}
		p.parseOuterAttrs()
		nameTok := p.peek()
		if nameTok.Kind != token.Ident && nameTok.Kind != token.IntLit {
			p.err(diag.SynExpectIdentifier, "expected field name in struct literal")
			return ast.NoExprID, false
		}
		p.advance()
		field := ast.FieldInit{Name: p.arenas.Strings.Intern(nameTok.Text), Span: nameTok.Span}
		if _, ok := p.eat(token.Colon); ok {
			value, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			field.Value = value
			field.Span = field.Span.Cover(p.spanOf(value))
		} else {
			// сокращение `S { x }`
			short := ast.Path{Segments: []ast.PathSegment{{Name: field.Name, Span: nameTok.Span}}, Span: nameTok.Span}
			field.Value = p.arenas.Exprs.NewPath(nameTok.Span, short)
		}
		data.Fields = append(data.Fields, field)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	closeTok, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' after struct literal fields")
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewStruct(path.Span.Cover(closeTok.Span), data), true
}

// parseParenOrTuple: `()`, `(e)`, `(e,)`, `(a, b)`.
func (p *Parser) parseParenOrTuple() (ast.ExprID, bool) {
	exprs := p.arenas.Exprs
	open := p.advance()
	saved := p.noStruct
	p.noStruct = false
	defer func() { p.noStruct = saved }()

	var elems []ast.ExprID
	trailingComma := false
	for !p.at(token.RParen) && !p.at(token.EOF) {
		e, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		elems = append(elems, e)
		trailingComma = false
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
		trailingComma = true
	}
	closeTok, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'")
	if !ok {
		return ast.NoExprID, false
	}
	span := open.Span.Cover(closeTok.Span)
	if len(elems) == 1 && !trailingComma {
		return exprs.NewParen(span, elems[0]), true
	}
	return exprs.NewTuple(span, elems), true
}

// parseArrayLit: `[a, b]` или `[x; N]`.
func (p *Parser) parseArrayLit() (ast.ExprID, bool) {
	open := p.advance()
	saved := p.noStruct
	p.noStruct = false
	defer func() { p.noStruct = saved }()

	var elems []ast.ExprID
	repeat := ast.NoExprID
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		e, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		elems = append(elems, e)
		if len(elems) == 1 {
			if _, ok := p.eat(token.Semicolon); ok {
				if repeat, ok = p.parseExpr(); !ok {
					return ast.NoExprID, false
				}
				break
			}
		}
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	closeTok, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']'")
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewArray(open.Span.Cover(closeTok.Span), elems, repeat), true
}

// parseIf разбирает `if cond {..}` и `if let pat = e {..}` вместе с цепочкой
// else. `else if` хранится как прямая ссылка на вложенный if.
func (p *Parser) parseIf() (ast.ExprID, bool) {
	exprs := p.arenas.Exprs
	ifTok := p.advance()

	isLet := false
	var pattern source.Span
	if _, ok := p.eat(token.KwLet); ok {
		isLet = true
		var ok bool
		if pattern, ok = p.skipPattern(token.Assign); !ok {
			return ast.NoExprID, false
		}
		if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' in if let"); !ok {
			return ast.NoExprID, false
		}
	}
	cond, ok := p.parseExprNoStruct()
	if !ok {
		return ast.NoExprID, false
	}
	then, ok := p.parseBlockExpr()
	if !ok {
		return ast.NoExprID, false
	}

	els := ast.NoExprID
	if _, ok := p.eat(token.KwElse); ok {
		if p.at(token.KwIf) {
			els, ok = p.parseIf()
		} else {
			els, ok = p.parseBlockExpr()
		}
		if !ok {
			return ast.NoExprID, false
		}
	}

	span := ifTok.Span.Cover(p.lastSpan)
	if isLet {
		return exprs.NewIfLet(span, ast.ExprIfLetData{Pattern: pattern, Scrutinee: cond, Then: then, Else: els}), true
	}
	return exprs.NewIf(span, cond, then, els), true
}

func (p *Parser) parseMatch() (ast.ExprID, bool) {
	matchTok := p.advance()
	scrutinee, ok := p.parseExprNoStruct()
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.LBrace, diag.SynExpectBlock, "expected '{' after match scrutinee"); !ok {
		return ast.NoExprID, false
	}
	saved := p.noStruct
	p.noStruct = false
	defer func() { p.noStruct = saved }()

	var arms []ast.MatchArm
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		p.parseOuterAttrs()
		start := p.peek().Span
		p.eat(token.Pipe)
		pat, ok := p.skipPattern(token.FatArrow, token.KwIf)
		if !ok {
			return ast.NoExprID, false
		}
		arm := ast.MatchArm{Pattern: pat}
		if _, ok := p.eat(token.KwIf); ok {
			if arm.Guard, ok = p.parseExpr(); !ok {
				return ast.NoExprID, false
			}
		}
		if _, ok := p.expect(token.FatArrow, diag.SynUnexpectedToken, "expected '=>' in match arm"); !ok {
			return ast.NoExprID, false
		}
		blockLike := p.isBlockLike()
		if arm.Body, ok = p.parseArmBody(blockLike); !ok {
			return ast.NoExprID, false
		}
		arm.Span = start.Cover(p.spanOf(arm.Body))
		arms = append(arms, arm)
		if _, ok := p.eat(token.Comma); !ok && !blockLike && !p.at(token.RBrace) {
			p.err(diag.SynUnexpectedToken, "expected ',' after match arm")
			return ast.NoExprID, false
		}
	}
	closeTok, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' after match arms")
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewMatch(matchTok.Span.Cover(closeTok.Span), scrutinee, arms), true
}

// parseArmBody: блочное тело завершает ветку, если за ним нет `.` или `?`.
func (p *Parser) parseArmBody(blockLike bool) (ast.ExprID, bool) {
	if !blockLike {
		return p.parseExpr()
	}
	body, ok := p.parsePrimaryExpr()
	if !ok {
		return ast.NoExprID, false
	}
	if p.at(token.Dot) || p.at(token.Question) {
		if body, ok = p.parsePostfixFrom(body); !ok {
			return ast.NoExprID, false
		}
		return p.parseBinaryFrom(body, ast.PrecAssign)
	}
	return body, true
}

// parseLabeled: `'a: loop {}`, `'a: while ..`, `'a: for ..`, `'a: {}`.
func (p *Parser) parseLabeled() (ast.ExprID, bool) {
	label := p.advance()
	if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' after label"); !ok {
		return ast.NoExprID, false
	}
	if p.at(token.LBrace) {
		return p.parseBlockWith(label.Span, label.Text, false)
	}
	if !p.atOr(token.KwLoop, token.KwWhile, token.KwFor) {
		p.err(diag.SynUnexpectedToken, "expected loop or block after label")
		return ast.NoExprID, false
	}
	return p.parseLoop(label.Span, label.Text)
}

func (p *Parser) parseLoop(start source.Span, label string) (ast.ExprID, bool) {
	kw := p.advance()
	data := ast.ExprLoopData{Label: label}
	var kind ast.ExprKind
	var ok bool
	switch kw.Kind {
	case token.KwLoop:
		kind = ast.ExprLoop
	case token.KwWhile:
		kind = ast.ExprWhile
		if _, isLet := p.eat(token.KwLet); isLet {
			if data.Pattern, ok = p.skipPattern(token.Assign); !ok {
				return ast.NoExprID, false
			}
			if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' in while let"); !ok {
				return ast.NoExprID, false
			}
		}
		if data.Head, ok = p.parseExprNoStruct(); !ok {
			return ast.NoExprID, false
		}
	default:
		kind = ast.ExprFor
		if data.Pattern, ok = p.skipPattern(token.KwIn); !ok {
			return ast.NoExprID, false
		}
		if _, ok := p.expect(token.KwIn, diag.SynUnexpectedToken, "expected 'in' in for loop"); !ok {
			return ast.NoExprID, false
		}
		if data.Head, ok = p.parseExprNoStruct(); !ok {
			return ast.NoExprID, false
		}
	}
	if data.Body, ok = p.parseBlockExpr(); !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewLoop(kind, start.Cover(p.lastSpan), data), true
}

func (p *Parser) parseClosure() (ast.ExprID, bool) {
	start := p.peek().Span
	var data ast.ExprClosureData
	_, data.Move = p.eat(token.KwMove)

	if _, ok := p.eat(token.OrOr); !ok {
		if _, ok := p.expect(token.Pipe, diag.SynUnexpectedToken, "expected '|' to open closure parameters"); !ok {
			return ast.NoExprID, false
		}
		for !p.at(token.Pipe) && !p.at(token.EOF) {
			p.parseOuterAttrs()
			pat, ok := p.skipPattern(token.Pipe, token.Comma, token.Colon)
			if !ok {
				return ast.NoExprID, false
			}
			if _, ok := p.eat(token.Colon); ok {
				if _, ok := p.parseType(); !ok {
					return ast.NoExprID, false
				}
				pat = pat.Cover(p.lastSpan)
			}
			data.Params = append(data.Params, pat)
			if _, ok := p.eat(token.Comma); !ok {
				break
			}
		}
		if _, ok := p.expect(token.Pipe, diag.SynUnexpectedToken, "expected '|' to close closure parameters"); !ok {
			return ast.NoExprID, false
		}
	}

	var ok bool
	if _, hasRet := p.eat(token.Arrow); hasRet {
		if data.Ret, ok = p.parseType(); !ok {
			return ast.NoExprID, false
		}
		data.Body, ok = p.parseBlockExpr()
	} else {
		data.Body, ok = p.parseExpr()
	}
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewClosure(start.Cover(p.spanOf(data.Body)), data), true
}

// parseJump: return/break/continue с необязательными меткой и значением.
func (p *Parser) parseJump() (ast.ExprID, bool) {
	kw := p.advance()
	kind := ast.ExprReturn
	switch kw.Kind {
	case token.KwBreak:
		kind = ast.ExprBreak
	case token.KwContinue:
		kind = ast.ExprContinue
	}
	label := ""
	if kind != ast.ExprReturn {
		if lt, ok := p.eat(token.Lifetime); ok {
			label = lt.Text
		}
	}
	value := ast.NoExprID
	if kind != ast.ExprContinue && p.canStartExpr() {
		var ok bool
		if value, ok = p.parseExpr(); !ok {
			return ast.NoExprID, false
		}
	}
	return p.arenas.Exprs.NewJump(kind, kw.Span.Cover(p.lastSpan), label, value), true
}
