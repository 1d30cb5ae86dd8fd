// Package rules lists the lints hone ships with.
package rules

import (
	"hone/internal/lint"
	"hone/internal/lint/collapsible"
	"hone/internal/lint/newdefault"
)

// Register adds every built-in rule to reg.
func Register(reg *lint.Registry) error {
	if err := reg.Register(collapsible.New, collapsible.Def); err != nil {
		return err
	}
	return reg.Register(newdefault.New, newdefault.Def, newdefault.DefDerive)
}

// Default returns a registry holding the built-in rules.
func Default() *lint.Registry {
	reg := lint.NewRegistry()
	if err := Register(reg); err != nil {
		panic(err)
	}
	return reg
}
