package sema

import "strings"

// libModule holds the standard library stand-ins; no user module path can
// spell it.
const libModule = "{lib}"

type adtKey struct {
	module string
	name   string
}

func joinModule(module, name string) string {
	if module == "" {
		return name
	}
	return module + "::" + name
}

func parentModule(module string) string {
	if i := strings.LastIndex(module, "::"); i >= 0 {
		return module[:i]
	}
	return ""
}

// isBlockModule reports whether module is the scope of a fn body.
func isBlockModule(module string) bool {
	return strings.HasPrefix(lastSegment(module), "{")
}

// namedModule strips fn body scopes: `self` and `super` count from the
// nearest real module.
func namedModule(module string) string {
	for isBlockModule(module) {
		module = parentModule(module)
	}
	return module
}

// moduleOf walks the module prefix of a path starting at from.
func moduleOf(from string, segs []string) (string, bool) {
	cur := namedModule(from)
	for i, seg := range segs {
		switch seg {
		case "crate":
			if i != 0 {
				return "", false
			}
			cur = ""
		case "self":
			if i != 0 {
				return "", false
			}
		case "super":
			if cur == "" {
				return "", false
			}
			cur = parentModule(cur)
		default:
			cur = joinModule(cur, seg)
		}
	}
	return cur, true
}
