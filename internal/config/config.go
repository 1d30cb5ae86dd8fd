package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"hone/internal/lint"
)

// FileName is the configuration file looked up from the target directory.
const FileName = "hone.toml"

var (
	// ErrUnknownKey reports keys that no section understands.
	ErrUnknownKey = errors.New("unknown configuration key")
	// ErrUnknownLint reports a [lints] entry naming no registered lint or group.
	ErrUnknownLint = errors.New("unknown lint")
)

// Config is the decoded hone.toml. The zero value is the default
// configuration.
type Config struct {
	// Path of the file the config came from, empty for defaults.
	Path   string            `toml:"-"`
	Lints  map[string]string `toml:"lints"`
	Check  Check             `toml:"check"`
	Output Output            `toml:"output"`
}

type Check struct {
	Exclude        []string `toml:"exclude"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
	Jobs           int      `toml:"jobs"`
	DefaultTrait   string   `toml:"default_trait"`
}

type Output struct {
	Format string `toml:"format"`
	Color  string `toml:"color"` // auto, on, off
}

// Load parses path. Keys that are not part of the schema are an error so a
// typo never silently disables a setting.
func Load(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: %w: %s", path, ErrUnknownKey, strings.Join(keys, ", "))
	}
	if meta.IsDefined("check", "jobs") && cfg.Check.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: check.jobs must not be negative", path)
	}
	if meta.IsDefined("check", "max_diagnostics") && cfg.Check.MaxDiagnostics < 0 {
		return Config{}, fmt.Errorf("%s: check.max_diagnostics must not be negative", path)
	}
	switch strings.ToLower(cfg.Output.Color) {
	case "", "auto", "on", "off":
	default:
		return Config{}, fmt.Errorf("%s: output.color: unknown value %q (expected: auto|on|off)", path, cfg.Output.Color)
	}
	cfg.Path = path
	return cfg, nil
}

// Find walks up from startDir to locate hone.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the explicit path when set, otherwise the nearest hone.toml
// above startDir, otherwise the defaults.
func Discover(explicit, startDir string) (Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return Config{}, err
	}
	return Load(path)
}

// Root is the directory exclude patterns are relative to.
func (c Config) Root() string {
	if c.Path == "" {
		return ""
	}
	return filepath.Dir(c.Path)
}

// Levels resolves [lints] against reg. Names may carry the clippy:: prefix
// and may name a group or "all".
func (c Config) Levels(reg *lint.Registry) (lint.Levels, error) {
	levels := make(lint.Levels, len(c.Lints))
	names := make([]string, 0, len(c.Lints))
	for name := range c.Lints {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, raw := range names {
		lvl, err := lint.ParseLevel(c.Lints[raw])
		if err != nil {
			return nil, fmt.Errorf("lints.%s: %w", raw, err)
		}
		name := lint.NormalizeName(raw)
		if !knownName(reg, name) {
			return nil, fmt.Errorf("lints.%s: %w", raw, ErrUnknownLint)
		}
		levels[name] = lvl
	}
	return levels, nil
}

func knownName(reg *lint.Registry, name string) bool {
	if name == "all" {
		return true
	}
	if _, ok := reg.Lookup(name); ok {
		return true
	}
	for _, g := range reg.Groups() {
		if g == name {
			return true
		}
	}
	return false
}

// Jobs returns the worker count, GOMAXPROCS when unset.
func (c Config) Jobs() int {
	if c.Check.Jobs > 0 {
		return c.Check.Jobs
	}
	return runtime.GOMAXPROCS(0)
}

// Settings returns the rule options.
func (c Config) Settings() lint.Settings {
	return lint.Settings{DefaultTrait: strings.TrimSpace(c.Check.DefaultTrait)}
}
