package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const nestedSrc = `fn main() {
    if x {
        if y {
            run();
        }
    }
}
`

const derivableSrc = `pub struct Foo;

impl Foo {
    pub fn new() -> Self {
        Foo
    }
}
`

// run executes the root command. Flag values stick between calls, so every
// call passes the flags it depends on.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func project(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestCheckShort(t *testing.T) {
	dir := project(t, map[string]string{"hone.toml": "", "lib.rs": nestedSrc, "types.rs": derivableSrc})

	out, stderr, err := run(t, "check", "--no-cache", "--format", "short", "--deny-warnings=false", dir)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, stderr)
	}
	want := "lib.rs:2:5: warning[collapsible_if]: this if statement can be collapsed\n" +
		"types.rs:4:5: warning[new_without_default_derive]: you should consider deriving a `Default` implementation for `Foo`\n"
	if out != want {
		t.Fatalf("output:\n%s\nwant:\n%s", out, want)
	}
	if !strings.Contains(stderr, "checked 2 file(s): 0 error(s), 2 warning(s)") {
		t.Fatalf("summary: %q", stderr)
	}
}

func TestCheckDenyWarningsFails(t *testing.T) {
	dir := project(t, map[string]string{"hone.toml": "", "lib.rs": nestedSrc})

	_, _, err := run(t, "check", "--no-cache", "--format", "short", "--deny-warnings", dir)
	if !errors.Is(err, errFindings) {
		t.Fatalf("expected errFindings, got %v", err)
	}
}

func TestCheckConfigDeny(t *testing.T) {
	dir := project(t, map[string]string{
		"hone.toml": "[lints]\ncollapsible_if = \"deny\"\n",
		"lib.rs":    nestedSrc,
	})

	out, _, err := run(t, "check", "--no-cache", "--format", "short", "--deny-warnings=false", dir)
	if !errors.Is(err, errFindings) {
		t.Fatalf("expected errFindings, got %v", err)
	}
	if !strings.Contains(out, "error[collapsible_if]") {
		t.Fatalf("output: %s", out)
	}
}

func TestCheckJSON(t *testing.T) {
	dir := project(t, map[string]string{"hone.toml": "", "lib.rs": nestedSrc})

	out, stderr, err := run(t, "check", "--no-cache", "--format", "json", "--deny-warnings=false", dir)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out, `"lint": "collapsible_if"`) || !strings.Contains(out, `"count": 1`) {
		t.Fatalf("json output: %s", out)
	}
	if stderr != "" {
		t.Fatalf("machine formats print no summary, got %q", stderr)
	}
}

func TestBaselineHidesAcceptedFindings(t *testing.T) {
	dir := project(t, map[string]string{"hone.toml": "", "lib.rs": nestedSrc})
	file := filepath.Join(dir, "hone-baseline.toml")

	if _, stderr, err := run(t, "baseline", "write", "--no-cache", dir); err != nil {
		t.Fatalf("baseline write: %v\n%s", err, stderr)
	}
	if _, err := os.Stat(file); err != nil {
		t.Fatalf("baseline not written: %v", err)
	}

	out, stderr, err := run(t, "check", "--no-cache", "--format", "short", "--deny-warnings=false", "--baseline", file, dir)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if out != "" {
		t.Fatalf("accepted findings must be hidden:\n%s", out)
	}
	if !strings.Contains(stderr, "1 accepted by baseline") {
		t.Fatalf("summary: %q", stderr)
	}
}

func TestFixAllRewritesFiles(t *testing.T) {
	dir := project(t, map[string]string{"hone.toml": "", "lib.rs": nestedSrc})

	out, _, err := run(t, "fix", "--no-cache", "--all", dir)
	if err != nil {
		t.Fatalf("fix: %v", err)
	}
	if !strings.Contains(out, "Applied 1 fix(es)") {
		t.Fatalf("output: %s", out)
	}
	data, err := os.ReadFile(filepath.Join(dir, "lib.rs"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "if x && y {") || strings.Contains(string(data), "if y {") {
		t.Fatalf("file not rewritten:\n%s", data)
	}
}

func TestFixFlagConflicts(t *testing.T) {
	dir := project(t, map[string]string{"hone.toml": "", "lib.rs": nestedSrc})
	if _, _, err := run(t, "fix", "--no-cache", "--all", "--once", dir); err == nil {
		t.Fatalf("--all with --once must fail")
	}
	// сбрасываем, флаги команд сохраняют значения между вызовами
	_ = fixCmd.Flags().Set("all", "false")
	_ = fixCmd.Flags().Set("once", "false")
	if _, _, err := run(t, "fix", "--no-cache", "--id", "x", "--all", dir); err == nil {
		t.Fatalf("--id with --all must fail")
	}
	_ = fixCmd.Flags().Set("all", "false")
	_ = fixCmd.Flags().Set("id", "")
}

func TestExplain(t *testing.T) {
	out, _, err := run(t, "explain", "clippy::collapsible_if")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if !strings.HasPrefix(out, "HON9001 collapsible_if\n") {
		t.Fatalf("output: %s", out)
	}

	out, _, err = run(t, "explain", "hon9002")
	if err != nil || !strings.HasPrefix(out, "HON9002 new_without_default\n") {
		t.Fatalf("explain by code: %v\n%s", err, out)
	}

	out, _, err = run(t, "explain")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if strings.Count(out, "\n") != 3 {
		t.Fatalf("list: %s", out)
	}

	if _, _, err := run(t, "explain", "needless_return"); err == nil {
		t.Fatalf("unknown lint must fail")
	}
}

func TestVersionJSON(t *testing.T) {
	out, _, err := run(t, "version", "--json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, `"tool": "hone"`) {
		t.Fatalf("output: %s", out)
	}
}

func TestUnknownLintFlag(t *testing.T) {
	dir := project(t, map[string]string{"hone.toml": "", "lib.rs": nestedSrc})
	if _, _, err := run(t, "check", "--no-cache", "-A", "needless_return", dir); err == nil {
		t.Fatalf("unknown lint must fail")
	}
}
