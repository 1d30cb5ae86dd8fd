package parser

import (
	"hone/internal/ast"
	"hone/internal/diag"
	"hone/internal/fix"
	"hone/internal/source"
	"hone/internal/token"
)

// parseBlockExpr разбирает `{ stmts }` и возвращает ExprBlock.
func (p *Parser) parseBlockExpr() (ast.ExprID, bool) {
	return p.parseBlockWith(source.Span{}, "", false)
}

// parseBlockWith разбирает блок; start задаёт начало span для
// `unsafe {` и `'label: {`.
func (p *Parser) parseBlockWith(start source.Span, label string, unsafe bool) (ast.ExprID, bool) {
	openTok, ok := p.expect(token.LBrace, diag.SynExpectBlock, "expected '{'")
	if !ok {
		return ast.NoExprID, false
	}
	if start == (source.Span{}) {
		start = openTok.Span
	}
	saved := p.noStruct
	p.noStruct = false
	stmts := p.parseStmtsUntil(token.RBrace)
	p.noStruct = saved

	closeTok, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close block")
	if !ok {
		insertSpan := p.lastSpan.After()
		p.reportWith(diag.SynUnclosedDelimiter, diag.SevError, openTok.Span, "unclosed block", func(b *diag.ReportBuilder) {
			b.WithFixSuggestion(fix.InsertText(
				"insert '}' to close block",
				insertSpan,
				"}",
				"",
				fix.WithID(fix.MakeFixID(diag.SynUnclosedDelimiter, insertSpan)),
				fix.WithKind(diag.FixKindRefactor),
			))
			b.WithNote(insertSpan, "insert missing closing brace")
		})
		return ast.NoExprID, false
	}
	data := ast.ExprBlockData{Stmts: stmts, Unsafe: unsafe, Label: label}
	return p.arenas.Exprs.NewBlock(start.Cover(closeTok.Span), data), true
}

// parseStmtsUntil — цикл statements до end; раскрытые brace-макросы
// вклеиваются на месте вызова.
func (p *Parser) parseStmtsUntil(end token.Kind) []ast.StmtID {
	var stmts []ast.StmtID
	for !p.at(token.EOF) && !p.at(end) {
		start := p.pos
		ids, ok := p.parseStmt(end)
		if ok {
			stmts = append(stmts, ids...)
		} else {
			// ошибка при парсинге statement — восстанавливаемся до следующего statement
			p.resyncStatement(end)
		}
		if p.pos == start {
			p.advance()
		}
	}
	return stmts
}

// resyncStatement пропускает токены до ';' (съедая его) или до end.
func (p *Parser) resyncStatement(end token.Kind) {
	for !p.at(token.EOF) && !p.at(end) {
		if p.at(token.Semicolon) {
			p.advance()
			return
		}
		if p.at(token.LBrace) {
			p.skipBalanced()
			continue
		}
		if p.at(token.KwLet) || p.at(token.KwFn) {
			return
		}
		p.advance()
	}
}

func (p *Parser) parseStmt(end token.Kind) ([]ast.StmtID, bool) {
	stmts := p.arenas.Stmts
	if semi, ok := p.eat(token.Semicolon); ok {
		return []ast.StmtID{stmts.NewEmpty(semi.Span)}, true
	}

	attrs := p.parseOuterAttrs()

	if p.atStmtItem() {
		ids, ok := p.parseItemWithAttrs(attrs)
		if !ok {
			return nil, false
		}
		out := make([]ast.StmtID, 0, len(ids))
		for _, id := range ids {
			out = append(out, stmts.NewItem(p.arenas.Items.Get(id).Span, id))
		}
		return out, true
	}

	if p.at(token.KwLet) {
		id, ok := p.parseLet()
		if !ok {
			return nil, false
		}
		return []ast.StmtID{id}, true
	}

	if p.macroCallAhead() && p.braceMacroAhead() {
		mc, ok := p.parseMacroCall()
		if !ok {
			return nil, false
		}
		p.eat(token.Semicolon)
		sub := p.expansion(mc)
		return sub.parseStmtsUntil(token.EOF), true
	}

	id, ok := p.parseExprStmt(end)
	if !ok {
		return nil, false
	}
	return []ast.StmtID{id}, true
}

// braceMacroAhead — вызов макроса с фигурными скобками (после проверки
// macroCallAhead).
func (p *Parser) braceMacroAhead() bool {
	for n := 0; ; n++ {
		if p.atN(n, token.Bang) {
			return p.atN(n+1, token.LBrace)
		}
		if p.atN(n, token.EOF) {
			return false
		}
	}
}

// atStmtItem отличает вложенные объявления от выражений.
func (p *Parser) atStmtItem() bool {
	tok := p.peek()
	switch tok.Kind {
	case token.KwFn, token.KwPub, token.KwStruct, token.KwEnum, token.KwTrait, token.KwImpl,
		token.KwMod, token.KwUse, token.KwStatic, token.KwType:
		return true
	case token.KwConst:
		next := p.peekN(1)
		return next.Kind == token.Ident || next.Kind == token.Underscore || next.Kind == token.KwFn || next.Kind == token.KwUnsafe
	case token.KwUnsafe:
		return !p.atN(1, token.LBrace)
	case token.Ident:
		switch tok.Text {
		case "macro_rules":
			return p.atN(1, token.Bang)
		case "union":
			return p.atN(1, token.Ident)
		case "extern":
			return p.atN(1, token.StringLit) || p.atN(1, token.KwFn) || p.atN(1, token.KwCrate)
		}
	}
	return false
}

// parseItemWithAttrs — parseItem с уже собранными атрибутами.
func (p *Parser) parseItemWithAttrs(attrs []ast.Attr) ([]ast.ItemID, bool) {
	ids, ok := p.parseItem()
	if ok && len(attrs) > 0 && len(ids) == 1 {
		item := p.arenas.Items.Get(ids[0])
		item.Attrs = append(attrs, item.Attrs...)
	}
	return ids, ok
}

func (p *Parser) parseLet() (ast.StmtID, bool) {
	letTok := p.advance()
	var data ast.StmtLetData
	pat, ok := p.skipPattern(token.Colon, token.Assign, token.Semicolon)
	if !ok {
		return ast.NoStmtID, false
	}
	data.Pattern = pat
	if _, ok := p.eat(token.Colon); ok {
		if data.Type, ok = p.parseType(); !ok {
			return ast.NoStmtID, false
		}
	}
	if _, ok := p.eat(token.Assign); ok {
		if data.Init, ok = p.parseExpr(); !ok {
			return ast.NoStmtID, false
		}
		if _, ok := p.eat(token.KwElse); ok {
			if data.Else, ok = p.parseBlockExpr(); !ok {
				return ast.NoStmtID, false
			}
		}
	}
	if !p.expectSemicolon("expected ';' after let statement") {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewLet(letTok.Span.Cover(p.lastSpan), data), true
}

// expectSemicolon репортит отсутствующую ';' с фиксом-вставкой.
func (p *Parser) expectSemicolon(msg string) bool {
	if _, ok := p.eat(token.Semicolon); ok {
		return true
	}
	insertSpan := p.lastSpan.After()
	p.reportWith(diag.SynExpectSemicolon, diag.SevError, insertSpan, msg, func(b *diag.ReportBuilder) {
		b.WithFixSuggestion(fix.InsertText(
			"insert ';'",
			insertSpan,
			";",
			"",
			fix.WithID(fix.MakeFixID(diag.SynExpectSemicolon, insertSpan)),
			fix.Preferred(),
		))
	})
	return false
}

// isBlockLike — выражения, которые завершают statement без ';'.
func (p *Parser) isBlockLike() bool {
	switch p.peek().Kind {
	case token.LBrace, token.KwIf, token.KwMatch, token.KwWhile, token.KwLoop, token.KwFor:
		return true
	case token.KwUnsafe:
		return p.atN(1, token.LBrace)
	case token.Lifetime:
		return p.atN(1, token.Colon)
	}
	return false
}

func (p *Parser) parseExprStmt(end token.Kind) (ast.StmtID, bool) {
	stmts := p.arenas.Stmts
	if p.isBlockLike() {
		expr, ok := p.parsePrimaryExpr()
		if !ok {
			return ast.NoStmtID, false
		}
		if p.at(token.Dot) || p.at(token.Question) {
			if expr, ok = p.parsePostfixFrom(expr); !ok {
				return ast.NoStmtID, false
			}
			if expr, ok = p.parseBinaryFrom(expr, 0); !ok {
				return ast.NoStmtID, false
			}
		}
		span := p.arenas.Exprs.Get(expr).Span
		if semi, ok := p.eat(token.Semicolon); ok {
			return stmts.NewExpr(span.Cover(semi.Span), expr, true), true
		}
		return stmts.NewExpr(span, expr, false), true
	}

	expr, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	span := p.arenas.Exprs.Get(expr).Span
	if semi, ok := p.eat(token.Semicolon); ok {
		return stmts.NewExpr(span.Cover(semi.Span), expr, true), true
	}
	if p.at(end) || p.at(token.EOF) {
		return stmts.NewExpr(span, expr, false), true
	}
	p.expectSemicolon("expected ';' after expression")
	return stmts.NewExpr(span, expr, true), true
}
