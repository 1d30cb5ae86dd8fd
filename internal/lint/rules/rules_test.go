package rules

import (
	"testing"

	"hone/internal/diag"
)

func TestDefaultRegistry(t *testing.T) {
	reg := Default()
	want := map[string]diag.Code{
		"collapsible_if":             diag.LintCollapsibleIf,
		"new_without_default":        diag.LintNewWithoutDefault,
		"new_without_default_derive": diag.LintNewWithoutDefaultDerive,
	}
	if reg.Len() != len(want) {
		t.Fatalf("Len = %d", reg.Len())
	}
	for name, code := range want {
		def, ok := reg.Lookup("clippy::" + name)
		if !ok || def.Code != code {
			t.Errorf("%s: %+v", name, def)
		}
		if def.Description == "" {
			t.Errorf("%s has no description", name)
		}
	}
	if rules := reg.Rules(nil); len(rules) != 2 {
		t.Fatalf("rules = %d", len(rules))
	}
	if err := Register(reg); err == nil {
		t.Fatalf("registering twice must fail")
	}
}
