package ast

import (
	"hone/internal/source"
)

type StmtKind uint8

const (
	StmtLet   StmtKind = iota // let pat: T = init else { .. };
	StmtItem                  // nested fn, struct, impl ...
	StmtExpr                  // expression without trailing semicolon
	StmtSemi                  // expression followed by ;
	StmtEmpty                 // lone ;
)

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

type StmtLetData struct {
	Pattern source.Span
	Type    TypeID
	Init    ExprID
	Else    ExprID
}

type StmtItemData struct {
	Item ItemID
}

type StmtExprData struct {
	Expr ExprID
}

type Stmts struct {
	Arena *Arena[Stmt]
	Lets  *Arena[StmtLetData]
	Items *Arena[StmtItemData]
	Exprs *Arena[StmtExprData]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Stmts{
		Arena: NewArena[Stmt](capHint),
		Lets:  NewArena[StmtLetData](capHint / 4),
		Items: NewArena[StmtItemData](capHint / 8),
		Exprs: NewArena[StmtExprData](capHint),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload uint32) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) NewLet(span source.Span, data StmtLetData) StmtID {
	return s.new(StmtLet, span, s.Lets.Allocate(data))
}

func (s *Stmts) Let(id StmtID) (*StmtLetData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtLet {
		return nil, false
	}
	return s.Lets.Get(uint32(stmt.Payload)), true
}

func (s *Stmts) NewItem(span source.Span, item ItemID) StmtID {
	return s.new(StmtItem, span, s.Items.Allocate(StmtItemData{Item: item}))
}

func (s *Stmts) Item(id StmtID) (*StmtItemData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtItem {
		return nil, false
	}
	return s.Items.Get(uint32(stmt.Payload)), true
}

// NewExpr creates an expression statement; semi selects StmtSemi.
func (s *Stmts) NewExpr(span source.Span, expr ExprID, semi bool) StmtID {
	kind := StmtExpr
	if semi {
		kind = StmtSemi
	}
	return s.new(kind, span, s.Exprs.Allocate(StmtExprData{Expr: expr}))
}

// Expr returns the expression of a StmtExpr or StmtSemi.
func (s *Stmts) Expr(id StmtID) (*StmtExprData, bool) {
	stmt := s.Get(id)
	if stmt == nil || (stmt.Kind != StmtExpr && stmt.Kind != StmtSemi) {
		return nil, false
	}
	return s.Exprs.Get(uint32(stmt.Payload)), true
}

func (s *Stmts) NewEmpty(span source.Span) StmtID {
	return s.new(StmtEmpty, span, 0)
}
