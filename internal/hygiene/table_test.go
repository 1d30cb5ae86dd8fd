package hygiene

import (
	"slices"
	"testing"

	"hone/internal/source"
)

func TestTable_FreshAndData(t *testing.T) {
	tbl := NewTable()
	call := source.Span{File: 0, Start: 10, End: 30}
	ctxt := tbl.Fresh(ExpnBang, "wrap", call)
	if ctxt == source.RootContext {
		t.Fatalf("fresh context must not be root")
	}
	data, ok := tbl.Data(ctxt)
	if !ok {
		t.Fatalf("Data(%d) not found", ctxt)
	}
	if data.Macro != "wrap" || data.CallSite != call || data.Parent != source.RootContext {
		t.Fatalf("unexpected expansion data: %+v", data)
	}
	if tbl.Len() != 2 {
		t.Fatalf("Len = %d, want 2", tbl.Len())
	}
	if _, ok := tbl.Data(42); ok {
		t.Fatalf("unknown context must not resolve")
	}
}

func TestTable_Oracle(t *testing.T) {
	tbl := NewTable()
	ctxt := tbl.Fresh(ExpnBang, "m", source.Span{Start: 0, End: 5})
	plain := source.Span{Start: 1, End: 2}
	expanded := plain.WithCtxt(ctxt)

	if tbl.InMacroExpansion(plain) {
		t.Fatalf("hand-written span reported as expanded")
	}
	if !tbl.InMacroExpansion(expanded) {
		t.Fatalf("expanded span not reported")
	}
	if tbl.SameExpansionContext(plain, expanded) {
		t.Fatalf("different contexts reported equal")
	}
	if !tbl.SameExpansionContext(expanded, source.Span{Start: 40, End: 41, Ctxt: ctxt}) {
		t.Fatalf("same context reported different")
	}
}

func TestTable_NestedExpansions(t *testing.T) {
	tbl := NewTable()
	outerCall := source.Span{Start: 100, End: 150}
	outer := tbl.Fresh(ExpnBang, "outer", outerCall)
	innerCall := source.Span{Start: 110, End: 140, Ctxt: outer}
	inner := tbl.Fresh(ExpnBang, "inner", innerCall)

	sp := source.Span{Start: 120, End: 125, Ctxt: inner}
	if got := tbl.OutermostCallSite(sp); got != outerCall {
		t.Fatalf("OutermostCallSite = %v, want %v", got, outerCall)
	}
	if got := tbl.Backtrace(sp); !slices.Equal(got, []string{"inner", "outer"}) {
		t.Fatalf("Backtrace = %v", got)
	}
	root := source.Span{Start: 1, End: 2}
	if got := tbl.OutermostCallSite(root); got != root {
		t.Fatalf("root span changed: %v", got)
	}
}
