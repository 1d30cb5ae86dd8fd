package lexer

import (
	"hone/internal/diag"
	"hone/internal/token"
)

const diagUnknownChar = diag.LexUnknownChar

// scanString scans "..." with escapes. Newlines are allowed inside strings.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		switch lx.cursor.Bump() {
		case '"':
			return lx.emit(token.StringLit, start)
		case '\\':
			lx.cursor.Bump()
		}
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated string literal")
	return tok
}

// atRawString reports r"..." or r#"..."#.
func (lx *Lexer) atRawString() bool {
	n := uint32(1)
	for lx.cursor.PeekAt(n) == '#' {
		n++
	}
	return lx.cursor.PeekAt(n) == '"'
}

func (lx *Lexer) scanRawString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // r
	hashes := 0
	for lx.cursor.Eat('#') {
		hashes++
	}
	lx.cursor.Bump() // '"'
	for !lx.cursor.EOF() {
		if lx.cursor.Bump() != '"' {
			continue
		}
		n := 0
		for n < hashes && lx.cursor.Peek() == '#' {
			lx.cursor.Bump()
			n++
		}
		if n == hashes {
			return lx.emit(token.StringLit, start)
		}
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated raw string")
	return tok
}

// scanByteLiteral handles b"..." and b'x'.
func (lx *Lexer) scanByteLiteral() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // b
	var tok token.Token
	if lx.cursor.Peek() == '"' {
		tok = lx.scanString()
	} else {
		tok = lx.scanCharOrLifetime()
	}
	sp := lx.cursor.SpanFrom(start)
	tok.Span = sp
	tok.Text = lx.text(sp)
	return tok
}

// scanCharOrLifetime distinguishes 'x', '\n' from 'a (lifetime / label).
func (lx *Lexer) scanCharOrLifetime() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '

	if lx.cursor.Peek() == '\\' {
		lx.cursor.Bump()
		for !lx.cursor.EOF() {
			b := lx.cursor.Bump()
			if b == '\'' {
				return lx.emit(token.CharLit, start)
			}
			if b == '\n' {
				break
			}
		}
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexUnterminatedChar, tok.Span, "unterminated character literal")
		return tok
	}

	r, sz := lx.peekRune()
	if sz == 0 {
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexUnterminatedChar, tok.Span, "unterminated character literal")
		return tok
	}
	lx.bumpRune()
	if lx.cursor.Eat('\'') {
		return lx.emit(token.CharLit, start)
	}
	if !isIdentStartRune(r) {
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexUnterminatedChar, tok.Span, "unterminated character literal")
		return tok
	}
	for {
		r2, sz2 := lx.peekRune()
		if sz2 == 0 || !isIdentContinueRune(r2) {
			break
		}
		lx.bumpRune()
	}
	return lx.emit(token.Lifetime, start)
}
