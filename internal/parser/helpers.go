package parser

import (
	"slices"

	"hone/internal/diag"
	"hone/internal/source"
	"hone/internal/token"
)

func (p *Parser) peek() token.Token {
	return p.peekN(0)
}

// peekN смотрит на n токенов вперёд; за концом потока всегда EOF.
func (p *Parser) peekN(n int) token.Token {
	if i := p.pos + n; i < len(p.toks) {
		return p.toks[i]
	}
	if len(p.toks) > 0 {
		return p.toks[len(p.toks)-1]
	}
	return token.Token{Kind: token.EOF}
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atN(n int, k token.Kind) bool {
	return p.peekN(n).Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

func (p *Parser) atIdent(text string) bool {
	return p.peek().IsIdentText(text)
}

// advance — съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind != token.EOF {
		p.pos++
		p.lastSpan = tok.Span
	}
	return tok
}

// eat съедает токен k, если он следующий.
func (p *Parser) eat(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

// split отрезает от составного токена первый символ kind и оставляет
// остаток в потоке: `>>` внутри `Vec<Vec<u8>>`, `&&` в `&&x`, `||` у замыкания.
func (p *Parser) split(kind, rest token.Kind) token.Token {
	tok := p.peek()
	first := tok
	first.Kind = kind
	first.Span.End = tok.Span.Start + 1
	first.Text = tok.Text[:1]

	remainder := tok
	remainder.Kind = rest
	remainder.Span.Start = tok.Span.Start + 1
	remainder.Text = tok.Text[1:]
	remainder.Leading = nil

	p.toks[p.pos] = remainder
	p.lastSpan = first.Span
	return first
}

// eatGt съедает `>` с учётом составных `>>`, `>=`, `>>=`.
func (p *Parser) eatGt() (token.Token, bool) {
	switch p.peek().Kind {
	case token.Gt:
		return p.advance(), true
	case token.Shr:
		return p.split(token.Gt, token.Gt), true
	case token.GtEq:
		return p.split(token.Gt, token.Assign), true
	case token.ShrAssign:
		return p.split(token.Gt, token.GtEq), true
	}
	return token.Token{}, false
}

// eatLt съедает `<` с учётом `<<` (`<<T as Trait>::X>`).
func (p *Parser) eatLt() (token.Token, bool) {
	switch p.peek().Kind {
	case token.Lt:
		return p.advance(), true
	case token.Shl:
		return p.split(token.Lt, token.Lt), true
	}
	return token.Token{}, false
}

// getDiagnosticSpan — возвращает лучший span для диагностики.
// Для EOF используем позицию после lastSpan.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return p.lastSpan.After()
	}
	return peek.Span
}

// expect — ожидаем конкретный токен. Если нет — репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	diagSpan := p.getDiagnosticSpan()
	p.report(code, diag.SevError, diagSpan, msg)
	return token.Token{Kind: token.Invalid, Span: diagSpan, Text: p.peek().Text}, false
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.getDiagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	return p.reportWith(code, sev, sp, msg, nil)
}

// reportWith позволяет дополнить диагностику заметками и фиксами.
func (p *Parser) reportWith(code diag.Code, sev diag.Severity, sp source.Span, msg string, extra func(*diag.ReportBuilder)) bool {
	if p.opts.Reporter == nil {
		return false // нет reporter - ничего не записали
	}
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	if p.opts.Enough() {
		return false // достигли максимального количества ошибок
	}
	b := diag.NewReportBuilder(p.opts.Reporter, sev, code, sp, msg)
	if extra != nil {
		extra(b)
	}
	b.Emit()
	return true
}

// skipBalanced пропускает токен-открыватель вместе с содержимым до парного
// закрывателя и возвращает span закрывающего токена.
func (p *Parser) skipBalanced() (token.Token, bool) {
	open := p.advance()
	closeKind, ok := open.Kind.Closing()
	if !ok {
		return open, false
	}
	stack := []token.Kind{closeKind}
	for !p.at(token.EOF) {
		tok := p.advance()
		if c, ok := tok.Kind.Closing(); ok {
			stack = append(stack, c)
			continue
		}
		if tok.Kind == stack[len(stack)-1] {
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return tok, true
			}
		}
	}
	p.report(diag.SynUnclosedDelimiter, diag.SevError, open.Span, "unclosed delimiter '"+open.Text+"'")
	return open, false
}

// text returns the source text of sp.
func (p *Parser) text(sp source.Span) string {
	s, _ := p.src.Text(sp)
	return s
}
