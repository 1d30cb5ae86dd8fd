package ast

import (
	"hone/internal/source"
)

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena       *Arena[Expr]
	Paths       *Arena[ExprPathData]
	Lits        *Arena[ExprLitData]
	Binaries    *Arena[ExprBinaryData]
	Unaries     *Arena[ExprUnaryData]
	Assigns     *Arena[ExprAssignData]
	Casts       *Arena[ExprCastData]
	Calls       *Arena[ExprCallData]
	MethodCalls *Arena[ExprMethodCallData]
	Fields      *Arena[ExprFieldData]
	Indices     *Arena[ExprIndexData]
	Lists       *Arena[ExprListData]
	Structs     *Arena[ExprStructData]
	Parens      *Arena[ExprParenData]
	Blocks      *Arena[ExprBlockData]
	Ifs         *Arena[ExprIfData]
	IfLets      *Arena[ExprIfLetData]
	Loops       *Arena[ExprLoopData]
	Matches     *Arena[ExprMatchData]
	Closures    *Arena[ExprClosureData]
	Ranges      *Arena[ExprRangeData]
	Jumps       *Arena[ExprJumpData]
	Tries       *Arena[ExprTryData]
	Macros      *Arena[ExprMacroData]
}

// NewExprs creates per-kind arenas; capHint 0 means 256.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := capHint / 8
	return &Exprs{
		Arena:       NewArena[Expr](capHint),
		Paths:       NewArena[ExprPathData](capHint / 2),
		Lits:        NewArena[ExprLitData](capHint / 4),
		Binaries:    NewArena[ExprBinaryData](capHint / 4),
		Unaries:     NewArena[ExprUnaryData](small),
		Assigns:     NewArena[ExprAssignData](small),
		Casts:       NewArena[ExprCastData](small),
		Calls:       NewArena[ExprCallData](capHint / 4),
		MethodCalls: NewArena[ExprMethodCallData](small),
		Fields:      NewArena[ExprFieldData](small),
		Indices:     NewArena[ExprIndexData](small),
		Lists:       NewArena[ExprListData](small),
		Structs:     NewArena[ExprStructData](small),
		Parens:      NewArena[ExprParenData](small),
		Blocks:      NewArena[ExprBlockData](capHint / 4),
		Ifs:         NewArena[ExprIfData](small),
		IfLets:      NewArena[ExprIfLetData](small),
		Loops:       NewArena[ExprLoopData](small),
		Matches:     NewArena[ExprMatchData](small),
		Closures:    NewArena[ExprClosureData](small),
		Ranges:      NewArena[ExprRangeData](small),
		Jumps:       NewArena[ExprJumpData](small),
		Tries:       NewArena[ExprTryData](small),
		Macros:      NewArena[ExprMacroData](small),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: PayloadID(payload),
	}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

// payload returns the payload index of id when it has the wanted kind.
func (e *Exprs) payload(id ExprID, kinds ...ExprKind) (uint32, bool) {
	expr := e.Get(id)
	if expr == nil {
		return 0, false
	}
	for _, k := range kinds {
		if expr.Kind == k {
			return uint32(expr.Payload), true
		}
	}
	return 0, false
}

func (e *Exprs) NewPath(span source.Span, path Path) ExprID {
	return e.new(ExprPath, span, e.Paths.Allocate(ExprPathData{Path: path}))
}

func (e *Exprs) Path(id ExprID) (*ExprPathData, bool) {
	p, ok := e.payload(id, ExprPath)
	return e.Paths.Get(p), ok
}

func (e *Exprs) NewLit(span source.Span, kind LitKind, text string) ExprID {
	return e.new(ExprLit, span, e.Lits.Allocate(ExprLitData{Kind: kind, Text: text}))
}

func (e *Exprs) Lit(id ExprID) (*ExprLitData, bool) {
	p, ok := e.payload(id, ExprLit)
	return e.Lits.Get(p), ok
}

func (e *Exprs) NewBinary(span source.Span, op BinaryOp, left, right ExprID) ExprID {
	return e.new(ExprBinary, span, e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right}))
}

func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	p, ok := e.payload(id, ExprBinary)
	return e.Binaries.Get(p), ok
}

func (e *Exprs) NewUnary(span source.Span, op UnaryOp, operand ExprID) ExprID {
	return e.new(ExprUnary, span, e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand}))
}

func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	p, ok := e.payload(id, ExprUnary)
	return e.Unaries.Get(p), ok
}

func (e *Exprs) NewAssign(span source.Span, data ExprAssignData) ExprID {
	return e.new(ExprAssign, span, e.Assigns.Allocate(data))
}

func (e *Exprs) Assign(id ExprID) (*ExprAssignData, bool) {
	p, ok := e.payload(id, ExprAssign)
	return e.Assigns.Get(p), ok
}

func (e *Exprs) NewCast(span source.Span, value ExprID, typ TypeID) ExprID {
	return e.new(ExprCast, span, e.Casts.Allocate(ExprCastData{Value: value, Type: typ}))
}

func (e *Exprs) Cast(id ExprID) (*ExprCastData, bool) {
	p, ok := e.payload(id, ExprCast)
	return e.Casts.Get(p), ok
}

func (e *Exprs) NewCall(span source.Span, callee ExprID, args []ExprID) ExprID {
	return e.new(ExprCall, span, e.Calls.Allocate(ExprCallData{Callee: callee, Args: args}))
}

func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	p, ok := e.payload(id, ExprCall)
	return e.Calls.Get(p), ok
}

func (e *Exprs) NewMethodCall(span source.Span, recv ExprID, method PathSegment, args []ExprID) ExprID {
	return e.new(ExprMethodCall, span, e.MethodCalls.Allocate(ExprMethodCallData{Receiver: recv, Method: method, Args: args}))
}

func (e *Exprs) MethodCall(id ExprID) (*ExprMethodCallData, bool) {
	p, ok := e.payload(id, ExprMethodCall)
	return e.MethodCalls.Get(p), ok
}

func (e *Exprs) NewField(span source.Span, target ExprID, name source.StringID) ExprID {
	return e.new(ExprField, span, e.Fields.Allocate(ExprFieldData{Target: target, Name: name}))
}

func (e *Exprs) Field(id ExprID) (*ExprFieldData, bool) {
	p, ok := e.payload(id, ExprField)
	return e.Fields.Get(p), ok
}

func (e *Exprs) NewIndex(span source.Span, target, index ExprID) ExprID {
	return e.new(ExprIndex, span, e.Indices.Allocate(ExprIndexData{Target: target, Index: index}))
}

func (e *Exprs) Index(id ExprID) (*ExprIndexData, bool) {
	p, ok := e.payload(id, ExprIndex)
	return e.Indices.Get(p), ok
}

func (e *Exprs) NewTuple(span source.Span, elems []ExprID) ExprID {
	return e.new(ExprTuple, span, e.Lists.Allocate(ExprListData{Elems: elems}))
}

func (e *Exprs) NewArray(span source.Span, elems []ExprID, repeat ExprID) ExprID {
	return e.new(ExprArray, span, e.Lists.Allocate(ExprListData{Elems: elems, Repeat: repeat}))
}

// List returns the payload of a tuple or array expression.
func (e *Exprs) List(id ExprID) (*ExprListData, bool) {
	p, ok := e.payload(id, ExprTuple, ExprArray)
	return e.Lists.Get(p), ok
}

func (e *Exprs) NewStruct(span source.Span, data ExprStructData) ExprID {
	return e.new(ExprStruct, span, e.Structs.Allocate(data))
}

func (e *Exprs) Struct(id ExprID) (*ExprStructData, bool) {
	p, ok := e.payload(id, ExprStruct)
	return e.Structs.Get(p), ok
}

func (e *Exprs) NewParen(span source.Span, inner ExprID) ExprID {
	return e.new(ExprParen, span, e.Parens.Allocate(ExprParenData{Inner: inner}))
}

func (e *Exprs) Paren(id ExprID) (*ExprParenData, bool) {
	p, ok := e.payload(id, ExprParen)
	return e.Parens.Get(p), ok
}

func (e *Exprs) NewBlock(span source.Span, data ExprBlockData) ExprID {
	return e.new(ExprBlock, span, e.Blocks.Allocate(data))
}

func (e *Exprs) Block(id ExprID) (*ExprBlockData, bool) {
	p, ok := e.payload(id, ExprBlock)
	return e.Blocks.Get(p), ok
}

func (e *Exprs) NewIf(span source.Span, cond, then, els ExprID) ExprID {
	return e.new(ExprIf, span, e.Ifs.Allocate(ExprIfData{Cond: cond, Then: then, Else: els}))
}

func (e *Exprs) If(id ExprID) (*ExprIfData, bool) {
	p, ok := e.payload(id, ExprIf)
	return e.Ifs.Get(p), ok
}

func (e *Exprs) NewIfLet(span source.Span, data ExprIfLetData) ExprID {
	return e.new(ExprIfLet, span, e.IfLets.Allocate(data))
}

func (e *Exprs) IfLet(id ExprID) (*ExprIfLetData, bool) {
	p, ok := e.payload(id, ExprIfLet)
	return e.IfLets.Get(p), ok
}

// NewLoop creates a while, loop or for expression depending on kind.
func (e *Exprs) NewLoop(kind ExprKind, span source.Span, data ExprLoopData) ExprID {
	return e.new(kind, span, e.Loops.Allocate(data))
}

func (e *Exprs) Loop(id ExprID) (*ExprLoopData, bool) {
	p, ok := e.payload(id, ExprWhile, ExprLoop, ExprFor)
	return e.Loops.Get(p), ok
}

func (e *Exprs) NewMatch(span source.Span, scrutinee ExprID, arms []MatchArm) ExprID {
	return e.new(ExprMatch, span, e.Matches.Allocate(ExprMatchData{Scrutinee: scrutinee, Arms: arms}))
}

func (e *Exprs) Match(id ExprID) (*ExprMatchData, bool) {
	p, ok := e.payload(id, ExprMatch)
	return e.Matches.Get(p), ok
}

func (e *Exprs) NewClosure(span source.Span, data ExprClosureData) ExprID {
	return e.new(ExprClosure, span, e.Closures.Allocate(data))
}

func (e *Exprs) Closure(id ExprID) (*ExprClosureData, bool) {
	p, ok := e.payload(id, ExprClosure)
	return e.Closures.Get(p), ok
}

func (e *Exprs) NewRange(span source.Span, start, end ExprID, inclusive bool) ExprID {
	return e.new(ExprRange, span, e.Ranges.Allocate(ExprRangeData{Start: start, End: end, Inclusive: inclusive}))
}

func (e *Exprs) Range(id ExprID) (*ExprRangeData, bool) {
	p, ok := e.payload(id, ExprRange)
	return e.Ranges.Get(p), ok
}

// NewJump creates return, break or continue depending on kind.
func (e *Exprs) NewJump(kind ExprKind, span source.Span, label string, value ExprID) ExprID {
	return e.new(kind, span, e.Jumps.Allocate(ExprJumpData{Label: label, Value: value}))
}

func (e *Exprs) Jump(id ExprID) (*ExprJumpData, bool) {
	p, ok := e.payload(id, ExprReturn, ExprBreak, ExprContinue)
	return e.Jumps.Get(p), ok
}

func (e *Exprs) NewTry(span source.Span, inner ExprID) ExprID {
	return e.new(ExprTry, span, e.Tries.Allocate(ExprTryData{Inner: inner}))
}

func (e *Exprs) Try(id ExprID) (*ExprTryData, bool) {
	p, ok := e.payload(id, ExprTry)
	return e.Tries.Get(p), ok
}

func (e *Exprs) NewMacro(span source.Span, data ExprMacroData) ExprID {
	return e.new(ExprMacro, span, e.Macros.Allocate(data))
}

func (e *Exprs) Macro(id ExprID) (*ExprMacroData, bool) {
	p, ok := e.payload(id, ExprMacro)
	return e.Macros.Get(p), ok
}
