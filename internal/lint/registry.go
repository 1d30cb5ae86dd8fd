package lint

import (
	"fmt"
	"sort"
	"sync"

	"hone/internal/ast"
	"hone/internal/diag"
)

// RuleDef documents one lint. A rule implementation may report several
// lints (new_without_default reports two).
type RuleDef struct {
	Name        string
	Code        diag.Code
	Group       string
	Level       Level // default level
	Description string
	Rationale   string
	BadExample  string
	GoodExample string
	Fix         bool // suggestions are machine-applicable
}

// ID is the stable diagnostic code, e.g. HON9001.
func (d RuleDef) ID() string {
	return d.Code.ID()
}

// Rule is a rule instance; one per Pass.
type Rule interface {
	Name() string
}

// ExprRule is called for every expression in document pre-order.
type ExprRule interface {
	Rule
	CheckExpr(p *Pass, id ast.ExprID)
}

// ItemRule is called for every item in document pre-order.
type ItemRule interface {
	Rule
	CheckItem(p *Pass, id ast.ItemID)
}

// Factory creates a fresh rule instance.
type Factory func() Rule

type registered struct {
	names   []string
	factory Factory
}

// Registry collects rule definitions and their factories.
type Registry struct {
	mu      sync.Mutex
	defs    map[string]RuleDef
	entries []registered
}

// NewRegistry creates an empty rule registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]RuleDef)}
}

// Register adds a factory with the lints it reports. Names must be unique.
func (r *Registry) Register(factory Factory, defs ...RuleDef) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(defs))
	for _, def := range defs {
		if _, dup := r.defs[def.Name]; dup {
			return fmt.Errorf("lint %q registered twice", def.Name)
		}
		names = append(names, def.Name)
	}
	for _, def := range defs {
		r.defs[def.Name] = def
	}
	r.entries = append(r.entries, registered{names: names, factory: factory})
	return nil
}

// MustRegister is Register for static tables.
func (r *Registry) MustRegister(factory Factory, defs ...RuleDef) {
	if err := r.Register(factory, defs...); err != nil {
		panic(err)
	}
}

// Lookup finds a lint by name; tool prefixes are accepted.
func (r *Registry) Lookup(name string) (RuleDef, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	def, ok := r.defs[NormalizeName(name)]
	return def, ok
}

// All returns every lint sorted by name.
func (r *Registry) All() []RuleDef {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RuleDef, 0, len(r.defs))
	for _, def := range r.defs {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Groups returns the distinct group names.
func (r *Registry) Groups() []string {
	seen := make(map[string]bool)
	var out []string
	for _, def := range r.All() {
		if def.Group != "" && !seen[def.Group] {
			seen[def.Group] = true
			out = append(out, def.Group)
		}
	}
	return out
}

// Len returns the number of registered lints.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.defs)
}

// Rules instantiates every rule that reports at least one lint not allowed
// by levels. A lint allowed globally stays off even under #[warn(..)].
func (r *Registry) Rules(levels Levels) []Rule {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Rule
	for _, e := range r.entries {
		for _, name := range e.names {
			if levels.Of(r.defs[name]) != Allow {
				out = append(out, e.factory())
				break
			}
		}
	}
	return out
}
