package parser

import (
	"slices"

	"hone/internal/diag"
	"hone/internal/source"
	"hone/internal/token"
)

// skipPattern пропускает образец до одного из stops на нулевой глубине
// скобок и возвращает его span. Структура образцов правилам не нужна.
func (p *Parser) skipPattern(stops ...token.Kind) (source.Span, bool) {
	start := p.peek().Span
	first := p.pos
	for !p.at(token.EOF) {
		tok := p.peek()
		if slices.Contains(stops, tok.Kind) {
			break
		}
		if _, ok := tok.Kind.Closing(); ok {
			p.skipBalanced()
			continue
		}
		if tok.Kind == token.RParen || tok.Kind == token.RBracket || tok.Kind == token.RBrace {
			break
		}
		p.advance()
	}
	if p.pos == first {
		p.err(diag.SynExpectPattern, "expected pattern, got \""+p.peek().Text+"\"")
		return start, false
	}
	return start.Cover(p.lastSpan), true
}
