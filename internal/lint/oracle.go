package lint

import (
	"hone/internal/ast"
	"hone/internal/source"
	"hone/internal/types"
)

// SpanOracle answers macro-hygiene questions about spans.
type SpanOracle interface {
	InMacroExpansion(sp source.Span) bool
	SameExpansionContext(a, b source.Span) bool
	// OutermostCallSite is the hand-written invocation sp came from.
	OutermostCallSite(sp source.Span) source.Span
	// Backtrace names the macros of sp, innermost first.
	Backtrace(sp source.Span) []string
}

// TypeOracle answers type and trait questions. Every "don't know" answer is
// false.
type TypeOracle interface {
	ResolveTraitID(path string) (types.TraitID, bool)
	ImplementsTrait(t types.TypeID, trait types.TraitID, args []types.TypeID) bool
	// StructuralFields lists field types of a plain struct; false otherwise.
	StructuralFields(t types.TypeID) ([]types.TypeID, bool)
	TypesEqual(a, b types.TypeID) bool
	DefinitionSpan(t types.TypeID) (source.Span, bool)
	Label(t types.TypeID) string

	// SelfType resolves the self type of an impl item.
	SelfType(impl ast.ItemID) (types.TypeID, bool)
	// ReturnType resolves the declared return type of a method.
	ReturnType(fn ast.ItemID) (types.TypeID, bool)
	// Reachable reports whether a method is visible outside the crate.
	Reachable(fn ast.ItemID) bool
}

// SourceAccess returns verbatim source text, or fallback when the span
// cannot be resolved.
type SourceAccess interface {
	SourceText(sp source.Span, fallback string) string
	LineIndent(sp source.Span) string
}

// Sink receives findings. It never reports back.
type Sink interface {
	Emit(f Finding)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Finding)

func (f SinkFunc) Emit(fd Finding) { f(fd) }
