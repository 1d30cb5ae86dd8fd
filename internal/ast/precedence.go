package ast

// Приоритеты выражений: чем больше число, тем сильнее связывание.
const (
	PrecJump       = 0 // closures, return, break
	PrecAssign     = 1 // = += -= ...
	PrecRange      = 2 // .. ..=
	PrecOr         = 3 // ||
	PrecAnd        = 4 // &&
	PrecEquality   = 5 // == !=
	PrecCompare    = 6 // < <= > >=
	PrecBitOr      = 7 // |
	PrecBitXor     = 8 // ^
	PrecBitAnd     = 9 // &
	PrecShift      = 10
	PrecAdditive   = 11
	PrecMultiplier = 12
	PrecCast       = 13 // as
	PrecPrefix     = 14 // ! - * &
	PrecPostfix    = 15 // calls, fields, index, ?
	PrecAtom       = 16
)

// Precedence returns the binding strength of a binary operator.
func (op BinaryOp) Precedence() int {
	switch op {
	case BinOr:
		return PrecOr
	case BinAnd:
		return PrecAnd
	case BinEq, BinNe:
		return PrecEquality
	case BinLt, BinLe, BinGt, BinGe:
		return PrecCompare
	case BinBitOr:
		return PrecBitOr
	case BinBitXor:
		return PrecBitXor
	case BinBitAnd:
		return PrecBitAnd
	case BinShl, BinShr:
		return PrecShift
	case BinAdd, BinSub:
		return PrecAdditive
	default:
		return PrecMultiplier
	}
}

// Precedence reports how tightly the expression binds when printed as an
// operand of another expression.
func (b *Builder) Precedence(id ExprID) int {
	expr := b.Exprs.Get(id)
	if expr == nil {
		return PrecAtom
	}
	switch expr.Kind {
	case ExprClosure, ExprReturn, ExprBreak, ExprContinue:
		return PrecJump
	case ExprAssign:
		return PrecAssign
	case ExprRange:
		return PrecRange
	case ExprBinary:
		d, _ := b.Exprs.Binary(id)
		return d.Op.Precedence()
	case ExprCast:
		return PrecCast
	case ExprUnary:
		return PrecPrefix
	case ExprCall, ExprMethodCall, ExprField, ExprIndex, ExprTry:
		return PrecPostfix
	default:
		return PrecAtom
	}
}
