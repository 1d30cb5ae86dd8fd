package parser

import (
	"hone/internal/ast"
	"hone/internal/diag"
	"hone/internal/token"
)

// parseGenerics разбирает объявление параметров `<'a, T: Bound = D, const N: usize>`.
// Отсутствие `<` даёт пустой список.
func (p *Parser) parseGenerics() (ast.Generics, bool) {
	var g ast.Generics
	if !p.at(token.Lt) {
		return g, true
	}
	open := p.advance()
	for !p.at(token.EOF) {
		if closeTok, ok := p.eatGt(); ok {
			g.Span = open.Span.Cover(closeTok.Span)
			return g, true
		}
		p.parseOuterAttrs()
		param, ok := p.parseGenericParam()
		if !ok {
			return g, false
		}
		g.Params = append(g.Params, param)
		if _, ok := p.eat(token.Comma); !ok {
			closeTok, ok := p.eatGt()
			if !ok {
				p.err(diag.SynUnexpectedToken, "expected ',' or '>' in generic parameters")
				return g, false
			}
			g.Span = open.Span.Cover(closeTok.Span)
			return g, true
		}
	}
	p.err(diag.SynUnclosedDelimiter, "unclosed generic parameters")
	return g, false
}

func (p *Parser) parseGenericParam() (ast.GenericParam, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.Lifetime:
		p.advance()
		param := ast.GenericParam{Kind: ast.GenericLifetime, Name: p.arenas.Strings.Intern(tok.Text), Span: tok.Span}
		if _, ok := p.eat(token.Colon); ok {
			for p.at(token.Lifetime) {
				p.advance()
				if _, ok := p.eat(token.Plus); !ok {
					break
				}
			}
		}
		param.Span = param.Span.Cover(p.lastSpan)
		return param, true
	case token.KwConst:
		p.advance()
		name, _, ok := p.parseIdent()
		if !ok {
			return ast.GenericParam{}, false
		}
		param := ast.GenericParam{Kind: ast.GenericConst, Name: name}
		if _, ok := p.expect(token.Colon, diag.SynExpectType, "expected ':' after const parameter"); !ok {
			return param, false
		}
		if param.Type, ok = p.parseType(); !ok {
			return param, false
		}
		if _, ok := p.eat(token.Assign); ok {
			if p.at(token.LBrace) {
				p.skipBalanced()
			} else {
				p.parseUnaryExpr()
			}
		}
		param.Span = tok.Span.Cover(p.lastSpan)
		return param, true
	default:
		name, sp, ok := p.parseIdent()
		if !ok {
			return ast.GenericParam{}, false
		}
		param := ast.GenericParam{Kind: ast.GenericType, Name: name, Span: sp}
		if _, ok := p.eat(token.Colon); ok {
			param.Bounds, _ = p.parseBounds()
		}
		if _, ok := p.eat(token.Assign); ok {
			if _, ok := p.parseType(); !ok {
				return param, false
			}
		}
		param.Span = sp.Cover(p.lastSpan)
		return param, true
	}
}

// skipWhere пропускает where-клаузу до '{' или ';' верхнего уровня.
func (p *Parser) skipWhere() {
	if _, ok := p.eat(token.KwWhere); !ok {
		return
	}
	for !p.at(token.EOF) && !p.at(token.LBrace) && !p.at(token.Semicolon) {
		if p.at(token.LParen) || p.at(token.LBracket) {
			p.skipBalanced()
			continue
		}
		if p.at(token.Lt) || p.at(token.Shl) {
			p.skipGenerics()
			continue
		}
		p.advance()
	}
}
