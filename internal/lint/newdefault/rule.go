package newdefault

import (
	"fmt"
	"strings"

	"hone/internal/ast"
	"hone/internal/diag"
	"hone/internal/lint"
	"hone/internal/source"
)

const (
	Name       = "new_without_default"
	NameDerive = "new_without_default_derive"
)

var (
	Def = lint.RuleDef{
		Name:        Name,
		Code:        diag.LintNewWithoutDefault,
		Group:       "style",
		Level:       lint.Warn,
		Description: "public `fn new() -> Self` on a type without a `Default` implementation",
		Rationale:   "Users expect a type with a no-argument constructor to work with `Default`, e.g. `unwrap_or_default()`.",
		BadExample: `pub struct Foo(Bar);

impl Foo {
    pub fn new() -> Self {
        Foo(Bar::new())
    }
}`,
		GoodExample: `impl Default for Foo {
    fn default() -> Self {
        Foo::new()
    }
}`,
	}
	DefDerive = lint.RuleDef{
		Name:        NameDerive,
		Code:        diag.LintNewWithoutDefaultDerive,
		Group:       "style",
		Level:       lint.Warn,
		Description: "public `fn new() -> Self` on a struct whose `Default` could be derived",
		Rationale:   "Deriving `Default` is shorter than writing it by hand and stays in sync with the fields.",
		BadExample: `pub struct Foo;

impl Foo {
    pub fn new() -> Self {
        Foo
    }
}`,
		GoodExample: `#[derive(Default)]
pub struct Foo;`,
	}
)

// Rule reports constructors without a Default obligation.
type Rule struct{}

func New() lint.Rule { return Rule{} }

func (Rule) Name() string { return Name }

func (Rule) CheckItem(p *lint.Pass, id ast.ItemID) {
	if p.Types == nil {
		return
	}
	item := p.Builder.Items.Get(id)
	impl, ok := p.Builder.Items.Impl(id)
	if !ok || impl.Trait.IsValid() || impl.Negative {
		return
	}
	if p.Spans != nil && p.Spans.InMacroExpansion(item.Span) {
		return
	}
	for _, sub := range impl.Items {
		subItem := p.Builder.Items.Get(sub)
		if subItem == nil || subItem.Kind != ast.ItemFn {
			continue
		}
		if p.Spans != nil && p.Spans.InMacroExpansion(subItem.Span) {
			continue
		}
		c, ok := candidateOf(p.Builder, p.Types, id, sub)
		if !ok {
			continue
		}
		if f, ok := checkCandidate(p, id, c); ok {
			p.Emit(f)
		}
	}
}

// checkCandidate runs the type questions for one candidate.
func checkCandidate(p *lint.Pass, impl ast.ItemID, c Candidate) (lint.Finding, bool) {
	o := p.Types
	if !o.TypesEqual(c.EnclosingType, c.ReturnType) {
		return lint.Finding{}, false
	}
	path := p.DefaultTrait()
	trait, ok := o.ResolveTraitID(path)
	if !ok {
		return lint.Finding{}, false
	}
	if o.ImplementsTrait(c.EnclosingType, trait, nil) {
		return lint.Finding{}, false
	}
	label := o.Label(c.EnclosingType)
	name := traitName(path)
	if d := CanDerive(o, c.EnclosingType, trait); d.Derivable {
		return lint.Finding{
			Lint:    NameDerive,
			Span:    c.Span,
			Message: fmt.Sprintf("you should consider deriving a `%s` implementation for `%s`", name, label),
			Help:    "try this",
			Suggestion: &lint.Suggestion{
				Span:          d.DefSpan.At(),
				Replacement:   "#[derive(" + name + ")]\n" + indentOf(p, d.DefSpan),
				Applicability: lint.MaybeIncorrect,
			},
		}, true
	}
	implItem := p.Builder.Items.Get(impl)
	return lint.Finding{
		Lint:    Name,
		Span:    c.Span,
		Message: fmt.Sprintf("you should consider adding a `%s` implementation for `%s`", name, label),
		Help:    "try this",
		Suggestion: &lint.Suggestion{
			Span:          implItem.Span.After(),
			Replacement:   manualImpl(p, impl, name, label),
			Applicability: lint.MaybeIncorrect,
		},
	}, true
}

// manualImpl renders the impl block inserted after the inherent impl, at the
// impl's indentation.
func manualImpl(p *lint.Pass, impl ast.ItemID, trait, label string) string {
	data, _ := p.Builder.Items.Impl(impl)
	implItem := p.Builder.Items.Get(impl)
	header := "impl"
	if !data.Generics.Span.Empty() {
		header += p.SourceText(data.Generics.Span, "")
	}
	self := label
	if ty := p.Builder.Types.Get(data.SelfTy); ty != nil {
		self = p.SourceText(ty.Span, label)
	}
	lines := []string{
		fmt.Sprintf("%s %s for %s {", header, trait, self),
		"    fn default() -> Self {",
		"        Self::new()",
		"    }",
		"}",
	}
	indent := indentOf(p, implItem.Span)
	return "\n\n" + indent + strings.Join(lines, "\n"+indent)
}

func indentOf(p *lint.Pass, sp source.Span) string {
	if p.Source == nil {
		return ""
	}
	return p.Source.LineIndent(sp)
}

// traitName is the spelling used in generated code: `Default` for the
// prelude trait, the configured path otherwise.
func traitName(path string) string {
	if path == lint.DefaultTraitPath || path == "std::default::Default" {
		return "Default"
	}
	return path
}
