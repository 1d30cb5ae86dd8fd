package ast

import (
	"hone/internal/source"
)

type ExprKind uint8

const (
	ExprPath ExprKind = iota
	ExprLit
	ExprBinary
	ExprUnary
	ExprAssign
	ExprCast
	ExprCall
	ExprMethodCall
	ExprField
	ExprIndex
	ExprTuple
	ExprArray
	ExprStruct
	ExprParen
	ExprBlock
	ExprIf
	ExprIfLet
	ExprWhile
	ExprLoop
	ExprFor
	ExprMatch
	ExprClosure
	ExprRange
	ExprReturn
	ExprBreak
	ExprContinue
	ExprTry
	ExprMacro
)

var exprKindNames = [...]string{
	ExprPath: "path", ExprLit: "literal", ExprBinary: "binary", ExprUnary: "unary",
	ExprAssign: "assign", ExprCast: "cast", ExprCall: "call", ExprMethodCall: "method call",
	ExprField: "field", ExprIndex: "index", ExprTuple: "tuple", ExprArray: "array",
	ExprStruct: "struct literal", ExprParen: "paren", ExprBlock: "block", ExprIf: "if",
	ExprIfLet: "if let", ExprWhile: "while", ExprLoop: "loop", ExprFor: "for",
	ExprMatch: "match", ExprClosure: "closure", ExprRange: "range", ExprReturn: "return",
	ExprBreak: "break", ExprContinue: "continue", ExprTry: "try", ExprMacro: "macro call",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "unknown"
}

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type BinaryOp uint8

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinRem
	BinAnd // &&
	BinOr  // ||
	BinBitAnd
	BinBitOr
	BinBitXor
	BinShl
	BinShr
	BinEq
	BinNe
	BinLt
	BinLe
	BinGt
	BinGe
)

var binaryOpText = [...]string{
	BinAdd: "+", BinSub: "-", BinMul: "*", BinDiv: "/", BinRem: "%", BinAnd: "&&", BinOr: "||",
	BinBitAnd: "&", BinBitOr: "|", BinBitXor: "^", BinShl: "<<", BinShr: ">>", BinEq: "==",
	BinNe: "!=", BinLt: "<", BinLe: "<=", BinGt: ">", BinGe: ">=",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpText) {
		return binaryOpText[op]
	}
	return "?"
}

type UnaryOp uint8

const (
	UnaryNot    UnaryOp = iota // !
	UnaryNeg                   // -
	UnaryDeref                 // *
	UnaryRef                   // &
	UnaryRefMut                // &mut
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryNot:
		return "!"
	case UnaryNeg:
		return "-"
	case UnaryDeref:
		return "*"
	case UnaryRef:
		return "&"
	case UnaryRefMut:
		return "&mut "
	}
	return "?"
}

type LitKind uint8

const (
	LitInt LitKind = iota
	LitFloat
	LitStr
	LitChar
	LitBool
)

type ExprPathData struct {
	Path Path
}

type ExprLitData struct {
	Kind LitKind
	Text string
}

type ExprBinaryData struct {
	Op    BinaryOp
	Left  ExprID
	Right ExprID
}

type ExprUnaryData struct {
	Op      UnaryOp
	Operand ExprID
}

// ExprAssignData covers `=` (Compound=false) and `op=`.
type ExprAssignData struct {
	Compound bool
	Op       BinaryOp
	Target   ExprID
	Value    ExprID
}

type ExprCastData struct {
	Value ExprID
	Type  TypeID
}

type ExprCallData struct {
	Callee ExprID
	Args   []ExprID
}

type ExprMethodCallData struct {
	Receiver ExprID
	Method   PathSegment
	Args     []ExprID
}

type ExprFieldData struct {
	Target ExprID
	Name   source.StringID // tuple indices are interned as their digits
}

type ExprIndexData struct {
	Target ExprID
	Index  ExprID
}

// ExprListData backs tuples and arrays; Repeat is the N of `[x; N]`.
type ExprListData struct {
	Elems  []ExprID
	Repeat ExprID
}

type FieldInit struct {
	Name  source.StringID
	Value ExprID // shorthand `Foo { x }` stores a path expression
	Span  source.Span
}

type ExprStructData struct {
	Path   Path
	Fields []FieldInit
	Base   ExprID // ..base
}

type ExprParenData struct {
	Inner ExprID
}

type ExprBlockData struct {
	Stmts  []StmtID
	Unsafe bool
	Label  string
}

type ExprIfData struct {
	Cond ExprID
	Then ExprID // always an ExprBlock
	Else ExprID // ExprBlock, ExprIf, ExprIfLet or NoExprID
}

type ExprIfLetData struct {
	Pattern   source.Span
	Scrutinee ExprID
	Then      ExprID
	Else      ExprID
}

// ExprLoopData backs while, while let, loop and for. Pattern is empty for
// plain while and loop; Head is the condition, scrutinee or iterator.
type ExprLoopData struct {
	Label   string
	Pattern source.Span
	Head    ExprID
	Body    ExprID
}

type MatchArm struct {
	Pattern source.Span
	Guard   ExprID
	Body    ExprID
	Span    source.Span
}

type ExprMatchData struct {
	Scrutinee ExprID
	Arms      []MatchArm
}

type ExprClosureData struct {
	Move   bool
	Params []source.Span
	Ret    TypeID
	Body   ExprID
}

type ExprRangeData struct {
	Start     ExprID
	End       ExprID
	Inclusive bool
}

// ExprJumpData backs return, break and continue.
type ExprJumpData struct {
	Label string
	Value ExprID
}

type ExprTryData struct {
	Inner ExprID
}

// MacroDelim is the delimiter used at a macro call site.
type MacroDelim uint8

const (
	DelimParen MacroDelim = iota
	DelimBracket
	DelimBrace
)

// ExprMacroData is an unexpanded macro call; Body is the token range between
// the delimiters.
type ExprMacroData struct {
	Path  Path
	Delim MacroDelim
	Body  source.Span
}
