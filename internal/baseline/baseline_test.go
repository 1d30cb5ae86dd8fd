package baseline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hone/internal/diag"
	"hone/internal/source"
)

const src = "fn main() {\n    if a { if b { c(); } }\n}\n"

func findings(t *testing.T, fs *source.FileSet, path, content string) *diag.Bag {
	t.Helper()
	id := fs.AddVirtual(path, []byte(content))
	start := uint32(strings.Index(content, "if a"))
	sp := source.Span{File: id, Start: start, End: start + uint32(len("if a { if b { c(); } }"))}
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevWarning, diag.LintCollapsibleIf, sp, "this if statement can be collapsed"))
	bag.Add(diag.New(diag.SevError, diag.SynExpectSemicolon, sp, "expected `;`"))
	return bag
}

func TestIDIgnoresPositionAndIndentation(t *testing.T) {
	fs := source.NewFileSet()
	a := findings(t, fs, "src/lib.rs", src)
	b := findings(t, fs, "src/lib.rs", "// header\n\nfn main() {\n        if a { if b { c(); } }\n}\n")

	ida := ID(a.Items()[0], fs, "")
	idb := ID(b.Items()[0], fs, "")
	if ida != idb {
		t.Fatalf("ids differ: %s vs %s", ida, idb)
	}
	if len(ida) != idLen {
		t.Fatalf("id length = %d", len(ida))
	}

	other := findings(t, fs, "src/other.rs", src)
	if ID(other.Items()[0], fs, "") == ida {
		t.Fatalf("path must be part of the id")
	}
}

func TestBuildFilterRoundTrip(t *testing.T) {
	fs := source.NewFileSet()
	bag := findings(t, fs, "src/lib.rs", src)

	b := Build(bag, fs, "")
	if b.Len() != 1 {
		t.Fatalf("only lint findings are baselined, got %d", b.Len())
	}
	e := b.Findings[0]
	if e.Rule != "collapsible_if" || e.Path != "src/lib.rs" || e.Message != "this if statement can be collapsed" {
		t.Fatalf("entry = %+v", e)
	}

	file := filepath.Join(t.TempDir(), FileName)
	if err := b.Write(file); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "[[finding]]") {
		t.Fatalf("unexpected file:\n%s", data)
	}

	loaded, err := Load(file)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	fresh := findings(t, fs, "src/lib.rs", src)
	if n := loaded.Filter(fresh, fs, ""); n != 1 {
		t.Fatalf("dropped %d, want 1", n)
	}
	if fresh.Len() != 1 || fresh.Items()[0].Code != diag.SynExpectSemicolon {
		t.Fatalf("remaining = %+v", fresh.Items())
	}
}

func TestFilterMatchesByCount(t *testing.T) {
	fs := source.NewFileSet()
	b := Build(findings(t, fs, "src/lib.rs", src), fs, "")

	bag := findings(t, fs, "src/lib.rs", src)
	bag.Merge(findings(t, fs, "src/lib.rs", src))
	if n := b.Filter(bag, fs, ""); n != 1 {
		t.Fatalf("dropped %d, want 1", n)
	}
	lints := 0
	for _, d := range bag.Items() {
		if d.Code.IsLint() {
			lints++
		}
	}
	if lints != 1 {
		t.Fatalf("a second copy of an accepted finding must be reported, got %d", lints)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName))
	if !errors.Is(err, ErrNoBaseline) {
		t.Fatalf("expected ErrNoBaseline, got %v", err)
	}
}

func TestNilBaselineFiltersNothing(t *testing.T) {
	fs := source.NewFileSet()
	bag := findings(t, fs, "src/lib.rs", src)
	var b *Baseline
	if n := b.Filter(bag, fs, ""); n != 0 || bag.Len() != 2 {
		t.Fatalf("nil baseline dropped %d", n)
	}
}
