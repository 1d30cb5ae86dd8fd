package parser

import (
	"hone/internal/ast"
	"hone/internal/diag"
	"hone/internal/hygiene"
	"hone/internal/lexer"
	"hone/internal/source"
	"hone/internal/token"
)

// macroCallAhead смотрит, начинается ли с текущей позиции `path! (`.
func (p *Parser) macroCallAhead() bool {
	n := 0
	if p.atN(n, token.ColonColon) {
		n++
	}
	for {
		if !isPathSegmentStart(p.peekN(n).Kind) {
			return false
		}
		n++
		if !p.atN(n, token.ColonColon) {
			break
		}
		n++
	}
	if !p.atN(n, token.Bang) {
		return false
	}
	switch p.peekN(n + 1).Kind {
	case token.LParen, token.LBracket, token.LBrace:
		return true
	}
	return false
}

// macroCall — разобранный вызов `path!(..)` без раскрытия.
type macroCall struct {
	path  ast.Path
	delim ast.MacroDelim
	body  source.Span // между разделителями
	span  source.Span // весь вызов
}

func (p *Parser) parseMacroCall() (macroCall, bool) {
	var mc macroCall
	path, ok := p.parsePath(false)
	if !ok {
		return mc, false
	}
	mc.path = path
	p.advance() // !
	open := p.peek()
	switch open.Kind {
	case token.LParen:
		mc.delim = ast.DelimParen
	case token.LBracket:
		mc.delim = ast.DelimBracket
	default:
		mc.delim = ast.DelimBrace
	}
	closeTok, ok := p.skipBalanced()
	if !ok {
		return mc, false
	}
	mc.body = source.Span{File: open.Span.File, Start: open.Span.End, End: closeTok.Span.Start, Ctxt: open.Span.Ctxt}
	mc.span = path.Span.Cover(closeTok.Span)
	return mc, true
}

func (p *Parser) macroName(path ast.Path) string {
	last, ok := path.Last()
	if !ok {
		return ""
	}
	return p.arenas.Name(last.Name)
}

// parseMacroRules фиксирует определение `macro_rules! name { .. }` и
// пропускает его тело.
func (p *Parser) parseMacroRules(attrs []ast.Attr) (ast.ItemID, bool) {
	start := p.advance().Span // macro_rules
	p.advance()               // !
	name, _, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	open := p.peek()
	if _, ok := open.Kind.Closing(); !ok {
		p.err(diag.SynMacroBody, "expected macro body")
		return ast.NoItemID, false
	}
	closeTok, ok := p.skipBalanced()
	if !ok {
		return ast.NoItemID, false
	}
	if open.Kind != token.LBrace {
		p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after macro definition")
	}
	h := p.headerFrom(attrs, start)
	h.Name = name
	p.finishHeader(&h)
	data := ast.MacroData{
		Body: source.Span{File: open.Span.File, Start: open.Span.End, End: closeTok.Span.Start, Ctxt: open.Span.Ctxt},
	}
	return p.arenas.Items.NewMacro(ast.ItemMacroRules, h, data), true
}

// parseItemMacro: `name! { items }` раскрывается на месте,
// `name!(..);` остаётся непрозрачным item.
func (p *Parser) parseItemMacro(attrs []ast.Attr) ([]ast.ItemID, bool) {
	mc, ok := p.parseMacroCall()
	if !ok {
		return nil, false
	}
	if mc.delim == ast.DelimBrace {
		sub := p.expansion(mc)
		items := sub.parseItemsUntil(token.EOF)
		return items, true
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after macro invocation"); !ok {
		return nil, false
	}
	h := p.headerFrom(attrs, mc.span)
	p.finishHeader(&h)
	data := ast.MacroData{Path: mc.path, Delim: mc.delim, Body: mc.body}
	return []ast.ItemID{p.arenas.Items.NewMacro(ast.ItemMacroCall, h, data)}, true
}

// expansion заводит дочерний парсер над телом макроса: токены заново
// лексируются и получают свежий синтаксический контекст.
func (p *Parser) expansion(mc macroCall) *Parser {
	ctxt := p.opts.Hygiene.Fresh(hygiene.ExpnBang, p.macroName(mc.path), mc.span)
	// лексер уже отчитался об ошибках в этих байтах при первом проходе
	lx := lexer.NewRange(p.src, mc.body, lexer.Options{Ctxt: ctxt})
	sub := newParser(p.fs, p.src, p.arenas, lx.All(), p.opts)
	sub.file = p.file
	return sub
}
