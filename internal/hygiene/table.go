// Package hygiene tracks macro expansions so later passes can tell hand-written
// code from generated code.
//
// Every expansion gets a fresh source.SyntaxContext. Nodes produced while
// parsing a macro body carry that context in their spans; nodes written by hand
// carry source.RootContext. Contexts form a tree through ExpnData.Parent so
// nested expansions can be walked back to the outermost call site.
package hygiene

import (
	"fmt"

	"fortio.org/safecast"

	"hone/internal/source"
)

// ExpnKind classifies the producer of an expansion.
type ExpnKind uint8

const (
	ExpnRoot ExpnKind = iota
	// ExpnBang is a `name! { .. }` invocation.
	ExpnBang
)

func (k ExpnKind) String() string {
	switch k {
	case ExpnRoot:
		return "root"
	case ExpnBang:
		return "macro"
	default:
		return "unknown"
	}
}

// ExpnData describes one expansion.
type ExpnData struct {
	Kind     ExpnKind
	Macro    string
	CallSite source.Span
	Parent   source.SyntaxContext
}

// Table owns all expansions of a single file analysis.
type Table struct {
	expns []ExpnData // expns[0] is the root context
}

// NewTable returns a table that only knows the root context.
func NewTable() *Table {
	return &Table{expns: []ExpnData{{Kind: ExpnRoot}}}
}

// Fresh allocates a new context for an expansion of macro at callSite.
// The parent is the context the call site itself was written in.
func (t *Table) Fresh(kind ExpnKind, macro string, callSite source.Span) source.SyntaxContext {
	n, err := safecast.Conv[uint32](len(t.expns))
	if err != nil {
		panic(fmt.Errorf("expansion table overflow: %w", err))
	}
	t.expns = append(t.expns, ExpnData{
		Kind:     kind,
		Macro:    macro,
		CallSite: callSite,
		Parent:   callSite.Ctxt,
	})
	return source.SyntaxContext(n)
}

// Data returns the expansion record for ctxt.
func (t *Table) Data(ctxt source.SyntaxContext) (ExpnData, bool) {
	if t == nil || int(ctxt) >= len(t.expns) {
		return ExpnData{}, false
	}
	return t.expns[ctxt], true
}

// Len counts contexts, the root included.
func (t *Table) Len() int {
	if t == nil {
		return 1
	}
	return len(t.expns)
}

// InMacroExpansion reports whether sp was produced by any expansion.
func (t *Table) InMacroExpansion(sp source.Span) bool {
	return sp.Ctxt != source.RootContext
}

// SameExpansionContext reports whether a and b were produced by the same
// expansion (or are both hand-written).
func (t *Table) SameExpansionContext(a, b source.Span) bool {
	return a.Ctxt == b.Ctxt
}

// OutermostCallSite walks the expansion chain of sp back to the call site
// written by hand. Spans that are not in a macro are returned as is.
func (t *Table) OutermostCallSite(sp source.Span) source.Span {
	cur := sp
	// цепочка конечна: Parent всегда меньше потомка
	for cur.Ctxt != source.RootContext {
		data, ok := t.Data(cur.Ctxt)
		if !ok {
			return cur
		}
		cur = data.CallSite
	}
	return cur
}

// Backtrace lists the macro names from the innermost expansion outwards.
func (t *Table) Backtrace(sp source.Span) []string {
	var names []string
	ctxt := sp.Ctxt
	for ctxt != source.RootContext {
		data, ok := t.Data(ctxt)
		if !ok {
			break
		}
		names = append(names, data.Macro)
		ctxt = data.Parent
	}
	return names
}
