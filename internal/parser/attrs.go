package parser

import (
	"strings"

	"hone/internal/ast"
	"hone/internal/diag"
	"hone/internal/source"
	"hone/internal/token"
)

// parseInnerAttrs разбирает `#![..]` в начале файла или модуля.
func (p *Parser) parseInnerAttrs() []ast.Attr {
	var attrs []ast.Attr
	for p.at(token.Pound) && p.atN(1, token.Bang) && p.atN(2, token.LBracket) {
		pound := p.advance()
		p.advance() // !
		if attr, ok := p.parseAttrBody(pound.Span); ok {
			attr.Inner = true
			attrs = append(attrs, attr)
		}
	}
	return attrs
}

// parseOuterAttrs разбирает последовательность `#[..]`.
func (p *Parser) parseOuterAttrs() []ast.Attr {
	var attrs []ast.Attr
	for p.at(token.Pound) && p.atN(1, token.LBracket) {
		pound := p.advance()
		if attr, ok := p.parseAttrBody(pound.Span); ok {
			attrs = append(attrs, attr)
		}
	}
	return attrs
}

// parseAttrBody разбирает `[path(args)]` начиная с '['.
func (p *Parser) parseAttrBody(start source.Span) (ast.Attr, bool) {
	open := p.advance() // [
	attr := ast.Attr{Span: start}

	var name []string
	for p.at(token.Ident) || p.peek().Kind.IsKeyword() || p.at(token.ColonColon) {
		tok := p.advance()
		name = append(name, tok.Text)
	}
	attr.Name = strings.Join(name, "")
	if attr.Name == "" {
		p.err(diag.SynBadAttribute, "expected attribute name")
	}

	if p.at(token.LParen) {
		attr.Args = p.parseAttrArgs()
	}
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		if _, ok := p.peek().Kind.Closing(); ok {
			p.skipBalanced()
			continue
		}
		p.advance()
	}
	closeTok, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' to close attribute")
	if !ok {
		return attr, false
	}
	inner := source.Span{File: open.Span.File, Start: open.Span.End, End: closeTok.Span.Start, Ctxt: open.Span.Ctxt}
	attr.Text = strings.TrimSpace(p.text(inner))
	attr.Span = start.Cover(closeTok.Span)
	return attr, true
}

// parseAttrArgs делит содержимое скобок по запятым верхнего уровня.
func (p *Parser) parseAttrArgs() []string {
	open := p.advance() // (
	var (
		args  []string
		depth int
		from  = open.Span.End
	)
	flush := func(end uint32) {
		sp := source.Span{File: open.Span.File, Start: from, End: end}
		if s := strings.TrimSpace(p.text(sp)); s != "" {
			args = append(args, s)
		}
	}
	for !p.at(token.EOF) {
		tok := p.peek()
		switch {
		case tok.Kind == token.LParen || tok.Kind == token.LBracket || tok.Kind == token.LBrace:
			depth++
		case tok.Kind == token.RParen && depth == 0:
			flush(tok.Span.Start)
			p.advance()
			return args
		case tok.Kind == token.RParen || tok.Kind == token.RBracket || tok.Kind == token.RBrace:
			depth--
		case tok.Kind == token.Comma && depth == 0:
			flush(tok.Span.Start)
			from = tok.Span.End
		}
		p.advance()
	}
	p.report(diag.SynUnclosedDelimiter, diag.SevError, open.Span, "unclosed attribute arguments")
	return args
}
