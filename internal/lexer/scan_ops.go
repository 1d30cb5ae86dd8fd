package lexer

import (
	"hone/internal/diag"
	"hone/internal/token"
)

// scanOperatorOrPunct is greedy: three-byte operators first, then two, then one.
// `>>` is produced as one token; the parser splits it when closing generics.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	switch {
	case lx.try3('.', '.', '='):
		return lx.emit(token.DotDotEq, start)
	case lx.try3('<', '<', '='):
		return lx.emit(token.ShlAssign, start)
	case lx.try3('>', '>', '='):
		return lx.emit(token.ShrAssign, start)
	}

	for _, op := range twoByteOps {
		if lx.try2(op.a, op.b) {
			return lx.emit(op.kind, start)
		}
	}

	ch := lx.cursor.Bump()
	if k, ok := oneByteOps[ch]; ok {
		return lx.emit(k, start)
	}
	// неизвестный символ: съедаем целую руну
	lx.cursor.Reset(start)
	lx.bumpRune()
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnknownChar, tok.Span, "unknown character")
	return tok
}

var twoByteOps = [...]struct {
	a, b byte
	kind token.Kind
}{
	{'.', '.', token.DotDot},
	{':', ':', token.ColonColon},
	{'-', '>', token.Arrow},
	{'=', '>', token.FatArrow},
	{'&', '&', token.AndAnd},
	{'|', '|', token.OrOr},
	{'=', '=', token.EqEq},
	{'!', '=', token.BangEq},
	{'<', '=', token.LtEq},
	{'>', '=', token.GtEq},
	{'<', '<', token.Shl},
	{'>', '>', token.Shr},
	{'+', '=', token.PlusAssign},
	{'-', '=', token.MinusAssign},
	{'*', '=', token.StarAssign},
	{'/', '=', token.SlashAssign},
	{'%', '=', token.PercentAssign},
	{'&', '=', token.AmpAssign},
	{'|', '=', token.PipeAssign},
	{'^', '=', token.CaretAssign},
}

var oneByteOps = map[byte]token.Kind{
	'+': token.Plus, '-': token.Minus, '*': token.Star, '/': token.Slash, '%': token.Percent,
	'=': token.Assign, '!': token.Bang, '<': token.Lt, '>': token.Gt, '&': token.Amp,
	'|': token.Pipe, '^': token.Caret, '?': token.Question, ':': token.Colon,
	';': token.Semicolon, ',': token.Comma, '.': token.Dot, '(': token.LParen,
	')': token.RParen, '{': token.LBrace, '}': token.RBrace, '[': token.LBracket,
	']': token.RBracket, '@': token.At, '#': token.Pound, '$': token.Dollar, '_': token.Underscore,
}
