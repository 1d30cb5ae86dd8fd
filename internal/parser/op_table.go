package parser

import (
	"hone/internal/ast"
	"hone/internal/token"
)

// binaryOps сопоставляет токены бинарным операторам
var binaryOps = map[token.Kind]ast.BinaryOp{
	token.OrOr:    ast.BinOr,
	token.AndAnd:  ast.BinAnd,
	token.EqEq:    ast.BinEq,
	token.BangEq:  ast.BinNe,
	token.Lt:      ast.BinLt,
	token.LtEq:    ast.BinLe,
	token.Gt:      ast.BinGt,
	token.GtEq:    ast.BinGe,
	token.Pipe:    ast.BinBitOr,
	token.Caret:   ast.BinBitXor,
	token.Amp:     ast.BinBitAnd,
	token.Shl:     ast.BinShl,
	token.Shr:     ast.BinShr,
	token.Plus:    ast.BinAdd,
	token.Minus:   ast.BinSub,
	token.Star:    ast.BinMul,
	token.Slash:   ast.BinDiv,
	token.Percent: ast.BinRem,
}

// compoundOps — операторы составного присваивания
var compoundOps = map[token.Kind]ast.BinaryOp{
	token.PlusAssign:    ast.BinAdd,
	token.MinusAssign:   ast.BinSub,
	token.StarAssign:    ast.BinMul,
	token.SlashAssign:   ast.BinDiv,
	token.PercentAssign: ast.BinRem,
	token.AmpAssign:     ast.BinBitAnd,
	token.PipeAssign:    ast.BinBitOr,
	token.CaretAssign:   ast.BinBitXor,
	token.ShlAssign:     ast.BinShl,
	token.ShrAssign:     ast.BinShr,
}

// getBinaryOperatorPrec возвращает приоритет бинарного оператора или -1.
func getBinaryOperatorPrec(kind token.Kind) (ast.BinaryOp, int) {
	op, ok := binaryOps[kind]
	if !ok {
		return 0, -1
	}
	return op, op.Precedence()
}

// canStartExpr — может ли токен начинать выражение.
func (p *Parser) canStartExpr() bool {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident, token.KwSelfValue, token.KwSelfType, token.KwCrate, token.KwSuper, token.ColonColon,
		token.IntLit, token.FloatLit, token.StringLit, token.CharLit, token.KwTrue, token.KwFalse,
		token.LParen, token.LBracket, token.Bang, token.Minus, token.Star, token.Amp, token.AndAnd,
		token.Pipe, token.OrOr, token.DotDot, token.DotDotEq, token.Lt, token.KwIf, token.KwMatch,
		token.KwWhile, token.KwLoop, token.KwFor, token.KwUnsafe, token.KwReturn, token.KwBreak,
		token.KwContinue, token.KwMove, token.Lifetime:
		return true
	case token.LBrace:
		return !p.noStruct
	}
	return false
}
