// Package sugg builds replacement snippets out of verbatim source text while
// keeping operator precedence intact.
package sugg

import (
	"hone/internal/ast"
	"hone/internal/source"
)

// Kind classifies how a snippet behaves when it becomes an operand.
type Kind uint8

const (
	NonParen   Kind = iota // never needs parentheses: paths, calls, literals, blocks
	MaybeParen             // prefix operators, closures, if/match
	BinOp                  // binary, assignment, cast or range operator
)

// Op names the operator of a BinOp snippet.
type Op uint8

const (
	OpNone Op = iota
	OpBinary
	OpAssign
	OpAssignOp
	OpCast
	OpRange
)

// Sugg is a snippet plus the precedence information needed to combine it.
type Sugg struct {
	Kind Kind
	Op   Op
	Bin  ast.BinaryOp // for OpBinary and OpAssignOp
	Prec int
	Text string
}

// SourceAccess provides verbatim source text.
type SourceAccess interface {
	SourceText(sp source.Span, fallback string) string
}

func (s Sugg) String() string {
	return s.Text
}

// FromExpr classifies expr and captures its source text, or fallback when the
// text is unavailable.
func FromExpr(b *ast.Builder, src SourceAccess, id ast.ExprID, fallback string) Sugg {
	expr := b.Exprs.Get(id)
	if expr == nil {
		return Sugg{Kind: NonParen, Prec: ast.PrecAtom, Text: fallback}
	}
	text := src.SourceText(expr.Span, fallback)
	prec := b.Precedence(id)
	switch expr.Kind {
	case ast.ExprBinary:
		data, _ := b.Exprs.Binary(id)
		return Sugg{Kind: BinOp, Op: OpBinary, Bin: data.Op, Prec: prec, Text: text}
	case ast.ExprAssign:
		data, _ := b.Exprs.Assign(id)
		if data.Compound {
			return Sugg{Kind: BinOp, Op: OpAssignOp, Bin: data.Op, Prec: prec, Text: text}
		}
		return Sugg{Kind: BinOp, Op: OpAssign, Prec: prec, Text: text}
	case ast.ExprCast:
		return Sugg{Kind: BinOp, Op: OpCast, Prec: prec, Text: text}
	case ast.ExprRange:
		return Sugg{Kind: BinOp, Op: OpRange, Prec: prec, Text: text}
	case ast.ExprUnary:
		return Sugg{Kind: MaybeParen, Prec: ast.PrecPrefix, Text: text}
	case ast.ExprClosure, ast.ExprIf, ast.ExprIfLet, ast.ExprMatch,
		ast.ExprReturn, ast.ExprBreak, ast.ExprContinue:
		return Sugg{Kind: MaybeParen, Prec: ast.PrecJump, Text: text}
	}
	return Sugg{Kind: NonParen, Prec: ast.PrecAtom, Text: text}
}

// And builds `lhs && rhs`.
func (s Sugg) And(rhs Sugg) Sugg {
	return MakeBinary(ast.BinAnd, s, rhs)
}

// operand renders s as the operand of a prefix operator of the given strength.
func (s Sugg) operand(prec int) string {
	if s.Kind != NonParen && s.Prec < prec {
		return "(" + s.Text + ")"
	}
	return s.Text
}

type assoc uint8

const (
	assocNone  assoc = iota
	assocLeft        // a - b - c == (a - b) - c
	assocRight       // a = b = c == a = (b = c)
	assocBoth        // a && b && c needs no parentheses either way
)

func associativity(s Sugg) assoc {
	switch s.Op {
	case OpAssign, OpAssignOp:
		return assocRight
	case OpBinary:
		switch s.Bin {
		case ast.BinAnd, ast.BinOr, ast.BinAdd, ast.BinMul, ast.BinBitAnd, ast.BinBitOr, ast.BinBitXor:
			return assocBoth
		case ast.BinEq, ast.BinNe, ast.BinLt, ast.BinLe, ast.BinGt, ast.BinGe:
			return assocNone
		}
		return assocLeft
	case OpCast:
		return assocLeft
	}
	return assocNone
}

func sameOp(a, b Sugg) bool {
	return a.Op == b.Op && ((a.Op != OpBinary && a.Op != OpAssignOp) || a.Bin == b.Bin)
}

func isShift(s Sugg) bool {
	return s.Op == OpBinary && (s.Bin == ast.BinShl || s.Bin == ast.BinShr)
}

func isArith(s Sugg) bool {
	if s.Op != OpBinary {
		return false
	}
	switch s.Bin {
	case ast.BinAdd, ast.BinSub, ast.BinMul, ast.BinDiv, ast.BinRem:
		return true
	}
	return false
}

// needsParen reports whether other, placed on side dir of op, must be
// parenthesized. Shifts mixed with arithmetic are always parenthesized for
// readability.
func needsParen(op, other Sugg, dir assoc) bool {
	if other.Prec < op.Prec {
		return true
	}
	if other.Prec == op.Prec {
		if !sameOp(op, other) && associativity(op) != dir {
			return true
		}
		if sameOp(op, other) && associativity(op) != assocBoth {
			return true
		}
	}
	return (isShift(op) && isArith(other)) || (isShift(other) && isArith(op))
}

// MakeBinary combines lhs and rhs with a binary operator, adding parentheses
// only where precedence or associativity demand them.
func MakeBinary(bin ast.BinaryOp, lhs, rhs Sugg) Sugg {
	op := Sugg{Kind: BinOp, Op: OpBinary, Bin: bin, Prec: bin.Precedence()}
	op.Text = side(op, lhs, assocLeft) + " " + bin.String() + " " + side(op, rhs, assocRight)
	return op
}

func side(op, s Sugg, dir assoc) string {
	switch s.Kind {
	case BinOp:
		if needsParen(op, s, dir) {
			return "(" + s.Text + ")"
		}
	case MaybeParen:
		return s.operand(ast.PrecPrefix)
	}
	return s.Text
}
