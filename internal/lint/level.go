package lint

import (
	"fmt"
	"strings"

	"hone/internal/diag"
)

// Level is how a lint is reported.
type Level uint8

const (
	Allow Level = iota
	Warn
	Deny
)

func (l Level) String() string {
	switch l {
	case Allow:
		return "allow"
	case Warn:
		return "warn"
	case Deny:
		return "deny"
	}
	return "unknown"
}

// ParseLevel accepts allow, warn, deny and forbid (treated as deny).
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "allow":
		return Allow, nil
	case "warn", "warning":
		return Warn, nil
	case "deny", "forbid", "error":
		return Deny, nil
	}
	return Allow, fmt.Errorf("unknown lint level %q (expected: allow|warn|deny)", s)
}

// Severity of findings reported at this level.
func (l Level) Severity() diag.Severity {
	if l == Deny {
		return diag.SevError
	}
	return diag.SevWarning
}

// Levels overrides default rule levels by lint name or group.
type Levels map[string]Level

// Of returns the effective level for def: name beats group beats default.
func (l Levels) Of(def RuleDef) Level {
	if lvl, ok := l[def.Name]; ok {
		return lvl
	}
	if lvl, ok := l[def.Group]; ok {
		return lvl
	}
	if lvl, ok := l["all"]; ok {
		return lvl
	}
	return def.Level
}

// NormalizeName strips tool prefixes: clippy::collapsible_if and
// hone::collapsible_if both name collapsible_if. Dashes become underscores.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	for _, prefix := range []string{"clippy::", "hone::"} {
		name = strings.TrimPrefix(name, prefix)
	}
	return strings.ReplaceAll(name, "-", "_")
}
