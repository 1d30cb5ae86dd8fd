package lexer

import (
	"hone/internal/diag"
	"hone/internal/token"
)

// scanNumber handles 0b/0o/0x prefixes, '_' separators, fractions, exponents
// and type suffixes (1u8, 2.5f32). After a '.' token only an integer is
// scanned, so `t.0.1` stays two tuple indices.
func (lx *Lexer) scanNumber(afterDot bool) token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	if lx.cursor.Peek() == '0' {
		switch lx.cursor.PeekAt(1) {
		case 'b', 'B':
			lx.cursor.Off += 2
			lx.eatDigits(func(b byte) bool { return b == '0' || b == '1' })
			return lx.finishNumber(start, kind)
		case 'o', 'O':
			lx.cursor.Off += 2
			lx.eatDigits(func(b byte) bool { return b >= '0' && b <= '7' })
			return lx.finishNumber(start, kind)
		case 'x', 'X':
			lx.cursor.Off += 2
			lx.eatDigits(isHex)
			return lx.finishNumber(start, kind)
		}
	}

	lx.eatDigits(isDec)
	if afterDot {
		return lx.finishNumber(start, kind)
	}

	// дробная часть: только если за точкой цифра
	if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		lx.cursor.Bump()
		lx.eatDigits(isDec)
		kind = token.FloatLit
	}

	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		mark := lx.cursor.Mark()
		lx.cursor.Bump()
		if s := lx.cursor.Peek(); s == '+' || s == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			lx.cursor.Reset(mark)
			tok := lx.finishNumber(start, kind)
			lx.errLex(diag.LexBadNumber, tok.Span, "expected digit after exponent")
			return tok
		}
		lx.eatDigits(isDec)
		kind = token.FloatLit
	}
	return lx.finishNumber(start, kind)
}

func (lx *Lexer) eatDigits(ok func(byte) bool) {
	for {
		b := lx.cursor.Peek()
		if !ok(b) && b != '_' {
			return
		}
		lx.cursor.Bump()
	}
}

// finishNumber consumes a type suffix and emits the literal.
func (lx *Lexer) finishNumber(start Mark, kind token.Kind) token.Token {
	suffixStart := lx.cursor.Off
	if isIdentStartByte(lx.cursor.Peek()) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	if suffix := string(lx.file.Content[suffixStart:lx.cursor.Off]); suffix == "f32" || suffix == "f64" {
		kind = token.FloatLit
	}
	return lx.emit(kind, start)
}
