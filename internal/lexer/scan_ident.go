package lexer

import (
	"golang.org/x/text/unicode/norm"

	"hone/internal/token"
)

const utf8RuneSelf = 0x80

// scanIdentOrKeyword сканирует идентификатор и проверяет LookupKeyword.
// Non-ASCII identifiers are NFC-normalized so that precomposed and decomposed
// spellings name the same thing; Text then differs from the raw source bytes.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	ascii := true

	r, sz := lx.peekRune()
	switch {
	case sz == 0:
		return lx.emit(token.Invalid, start)
	case r < utf8RuneSelf:
		if !isIdentStartByte(byte(r)) {
			return lx.scanOperatorOrPunct()
		}
		lx.cursor.Bump()
	default:
		if !isIdentStartRune(r) {
			lx.bumpRune()
			tok := lx.emit(token.Invalid, start)
			lx.errLex(diagUnknownChar, tok.Span, "unknown character")
			return tok
		}
		ascii = false
		lx.bumpRune()
	}

	for {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if !isIdentContinueByte(b) || lx.cursor.EOF() {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r2, sz2 := lx.peekRune()
		if sz2 == 0 || !isIdentContinueRune(r2) {
			break
		}
		ascii = false
		lx.bumpRune()
	}

	tok := lx.emit(token.Ident, start)
	if tok.Text == "_" {
		tok.Kind = token.Underscore
		return tok
	}
	if k, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = k
		return tok
	}
	if !ascii {
		tok.Text = norm.NFC.String(tok.Text)
	}
	return tok
}
