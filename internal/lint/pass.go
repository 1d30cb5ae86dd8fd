package lint

import (
	"fmt"
	"strconv"
	"strings"

	"hone/internal/ast"
	"hone/internal/diag"
	"hone/internal/source"
	"hone/internal/trace"
)

// DefaultTraitPath is the trait new_without_default asks about.
const DefaultTraitPath = "core::default::Default"

// Settings are rule options coming from configuration.
type Settings struct {
	DefaultTrait string
}

// Pass is the per-file context handed to rules. Oracles are injected by the
// caller; rules never look them up elsewhere.
type Pass struct {
	Builder  *ast.Builder
	File     ast.FileID
	Spans    SpanOracle
	Types    TypeOracle
	Source   SourceAccess
	Sink     Sink
	Registry *Registry
	Levels   Levels
	Settings Settings
	Tracer   trace.Tracer
	// TraceParent is the span rule spans nest under.
	TraceParent uint64

	scopes  []levelScope
	emitted int
}

// levelScope is a lint level attribute (#[allow(..)], #![deny(..)]) and the
// span it covers.
type levelScope struct {
	span  source.Span
	name  string // lint or group name
	level Level
}

// DefaultTrait returns the configured trait path.
func (p *Pass) DefaultTrait() string {
	if p.Settings.DefaultTrait == "" {
		return DefaultTraitPath
	}
	return p.Settings.DefaultTrait
}

// SourceText returns the text under sp, or fallback.
func (p *Pass) SourceText(sp source.Span, fallback string) string {
	if p.Source == nil {
		return fallback
	}
	return p.Source.SourceText(sp, fallback)
}

// Emitted counts findings that reached the sink.
func (p *Pass) Emitted() int {
	return p.emitted
}

// Emit reports f unless its lint is allowed at f.Span.
func (p *Pass) Emit(f Finding) {
	if p.Sink == nil || p.Registry == nil {
		return
	}
	def, ok := p.Registry.Lookup(f.Lint)
	if !ok {
		return
	}
	lvl := p.LevelAt(def, f.Span)
	if lvl == Allow {
		return
	}
	f.Lint = def.Name
	f.Code = def.Code
	f.Severity = lvl.Severity()
	if p.Spans != nil && p.Spans.InMacroExpansion(f.Span) {
		f.Notes = append(f.Notes, p.expansionNote(f.Span))
	}
	p.emitted++
	p.Sink.Emit(f)
}

// expansionNote points at the invocation that produced sp.
func (p *Pass) expansionNote(sp source.Span) diag.Note {
	names := p.Spans.Backtrace(sp)
	msg := "in this macro invocation"
	if len(names) > 0 {
		msg = "in this expansion of `" + strings.Join(names, "!` inside `") + "!`"
	}
	return diag.Note{Span: p.Spans.OutermostCallSite(sp), Msg: msg}
}

// LevelAt applies level attributes of every item enclosing sp, innermost last.
func (p *Pass) LevelAt(def RuleDef, sp source.Span) Level {
	lvl := p.Levels.Of(def)
	if lvl == Allow {
		return Allow
	}
	for _, sc := range p.scopes {
		if sc.name != def.Name && sc.name != def.Group && sc.name != "all" {
			continue
		}
		if sc.span.Contains(sp) {
			lvl = sc.level
		}
	}
	return lvl
}

func (p *Pass) collectScopes() {
	p.scopes = p.scopes[:0]
	f := p.Builder.Files.Get(p.File)
	if f == nil {
		return
	}
	p.addScopes(f.Span, f.Attrs)
	ast.Walk(p.Builder, p.File, scopeCollector{p: p})
}

type scopeCollector struct {
	p *Pass
}

func (c scopeCollector) VisitItem(_ ast.ItemID, item *ast.Item) bool {
	c.p.addScopes(item.Span, item.Attrs)
	return true
}

func (c scopeCollector) VisitExpr(ast.ExprID, *ast.Expr) bool {
	return true
}

func (p *Pass) addScopes(sp source.Span, attrs []ast.Attr) {
	for _, attr := range attrs {
		lvl, err := ParseLevel(attr.Name)
		if err != nil {
			continue
		}
		for _, arg := range attr.Args {
			p.scopes = append(p.scopes, levelScope{span: sp, name: NormalizeName(arg), level: lvl})
		}
	}
}

// Run walks the file once per rule in document pre-order. A panicking rule
// is reported as an internal error and the remaining rules still run.
func Run(p *Pass, rules []Rule) {
	if p == nil || p.Builder == nil {
		return
	}
	p.collectScopes()
	for _, r := range rules {
		p.runRule(r)
	}
}

func (p *Pass) runRule(r Rule) {
	tracer := p.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	span := trace.Begin(tracer, trace.ScopeRule, "rule:"+r.Name(), p.TraceParent)
	before := p.Emitted()
	defer func() {
		if rec := recover(); rec != nil {
			trace.Point(tracer, trace.ScopeRule, "rule:"+r.Name(), fmt.Sprint(rec), span.ID())
			span.End("panic")
			p.internalError(r, rec)
			return
		}
		span.Attr("findings", strconv.Itoa(p.Emitted()-before)).End("")
	}()
	ast.Walk(p.Builder, p.File, ruleVisitor{p: p, rule: r})
}

func (p *Pass) internalError(r Rule, rec any) {
	if p.Sink == nil {
		return
	}
	var at source.Span
	if f := p.Builder.Files.Get(p.File); f != nil {
		at = f.Span.At()
	}
	p.Sink.Emit(Finding{
		Lint:     r.Name(),
		Code:     diag.LintInternalError,
		Severity: diag.SevError,
		Span:     at,
		Message:  fmt.Sprintf("rule %s failed: %v", r.Name(), rec),
	})
}

type ruleVisitor struct {
	p    *Pass
	rule Rule
}

func (v ruleVisitor) VisitItem(id ast.ItemID, _ *ast.Item) bool {
	if ir, ok := v.rule.(ItemRule); ok {
		ir.CheckItem(v.p, id)
	}
	return true
}

func (v ruleVisitor) VisitExpr(id ast.ExprID, _ *ast.Expr) bool {
	if er, ok := v.rule.(ExprRule); ok {
		er.CheckExpr(v.p, id)
	}
	return true
}
