package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hone/internal/lint"
	"hone/internal/lint/rules"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadFullConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	writeFile(t, path, `
[lints]
collapsible_if = "allow"
"clippy::new_without_default" = "deny"
style = "warn"

[check]
exclude = ["target/**", "gen/*.rs"]
max_diagnostics = 50
jobs = 3
default_trait = "crate::Zero"

[output]
format = "json"
color = "off"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Path != path || cfg.Root() != dir {
		t.Errorf("path=%q root=%q", cfg.Path, cfg.Root())
	}
	if cfg.Check.MaxDiagnostics != 50 || cfg.Jobs() != 3 {
		t.Errorf("check = %+v", cfg.Check)
	}
	if cfg.Settings().DefaultTrait != "crate::Zero" {
		t.Errorf("default trait = %q", cfg.Settings().DefaultTrait)
	}
	if cfg.Output.Format != "json" || cfg.Output.Color != "off" {
		t.Errorf("output = %+v", cfg.Output)
	}

	levels, err := cfg.Levels(rules.Default())
	if err != nil {
		t.Fatalf("Levels: %v", err)
	}
	want := lint.Levels{"collapsible_if": lint.Allow, "new_without_default": lint.Deny, "style": lint.Warn}
	if len(levels) != len(want) {
		t.Fatalf("levels = %v, want %v", levels, want)
	}
	for name, lvl := range want {
		if levels[name] != lvl {
			t.Errorf("levels[%s] = %v, want %v", name, levels[name], lvl)
		}
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, "[check]\njobz = 2\n")

	_, err := Load(path)
	if !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
	if !strings.Contains(err.Error(), "check.jobz") {
		t.Errorf("error should name the key: %v", err)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"negative jobs": "[check]\njobs = -1\n",
		"negative max":  "[check]\nmax_diagnostics = -5\n",
		"color":         "[output]\ncolor = \"rainbow\"\n",
		"syntax":        "[check\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			writeFile(t, path, content)
			if _, err := Load(path); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLevelsRejectUnknownLintOrLevel(t *testing.T) {
	reg := rules.Default()

	_, err := Config{Lints: map[string]string{"needless_return": "warn"}}.Levels(reg)
	if !errors.Is(err, ErrUnknownLint) {
		t.Fatalf("expected ErrUnknownLint, got %v", err)
	}
	if _, err := (Config{Lints: map[string]string{"collapsible_if": "loud"}}).Levels(reg); err == nil {
		t.Fatalf("expected bad level error")
	}
	levels, err := Config{Lints: map[string]string{"all": "allow", "new-without-default": "warn"}}.Levels(reg)
	if err != nil {
		t.Fatalf("Levels: %v", err)
	}
	if levels["all"] != lint.Allow || levels["new_without_default"] != lint.Warn {
		t.Fatalf("levels = %v", levels)
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), "")
	nested := filepath.Join(root, "src", "deep")
	writeFile(t, filepath.Join(nested, "lib.rs"), "fn main() {}\n")

	for _, start := range []string{nested, filepath.Join(nested, "lib.rs")} {
		path, ok, err := Find(start)
		if err != nil || !ok {
			t.Fatalf("Find(%s) = %q, %v, %v", start, path, ok, err)
		}
		if path != filepath.Join(root, FileName) {
			t.Errorf("Find(%s) = %q", start, path)
		}
	}
}

func TestDiscoverDefaultsWithoutFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Discover("", dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	// в родительских каталогах временной папки hone.toml может оказаться только случайно
	if cfg.Path != "" && !strings.HasSuffix(cfg.Path, FileName) {
		t.Fatalf("unexpected path %q", cfg.Path)
	}
	if (Config{}).Jobs() < 1 {
		t.Fatalf("default jobs must be positive")
	}
}

func TestExcluded(t *testing.T) {
	cfg := Config{Check: Check{Exclude: []string{"target/**", "gen/*.rs", "**/fixtures"}}}
	tests := []struct {
		path string
		want bool
	}{
		{"target", true},
		{"target/debug/build.rs", true},
		{"gen/a.rs", true},
		{"gen/sub/a.rs", false},
		{"src/fixtures", true},
		{"src/fixtures/x.rs", false},
		{"src/lib.rs", false},
		{"./target/x.rs", true},
	}
	for _, tt := range tests {
		if got := cfg.Excluded(tt.path); got != tt.want {
			t.Errorf("Excluded(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
