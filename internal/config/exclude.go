package config

import (
	"path"
	"path/filepath"
	"strings"
)

// Excluded reports whether rel (slash separated, relative to Root) matches
// one of the exclude patterns. Patterns use path.Match syntax per segment;
// a `**` segment matches any number of segments.
func (c Config) Excluded(rel string) bool {
	rel = filepath.ToSlash(filepath.Clean(rel))
	for _, pattern := range c.Check.Exclude {
		if matchGlob(strings.Split(path.Clean(pattern), "/"), strings.Split(rel, "/")) {
			return true
		}
	}
	return false
}

func matchGlob(pat, name []string) bool {
	for len(pat) > 0 {
		if pat[0] == "**" {
			rest := pat[1:]
			for i := 0; i <= len(name); i++ {
				if matchGlob(rest, name[i:]) {
					return true
				}
			}
			return false
		}
		if len(name) == 0 {
			return false
		}
		if ok, err := path.Match(pat[0], name[0]); err != nil || !ok {
			return false
		}
		pat, name = pat[1:], name[1:]
	}
	return len(name) == 0
}
