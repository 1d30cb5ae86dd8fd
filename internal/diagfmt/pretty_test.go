package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"hone/internal/diag"
	"hone/internal/source"
)

func TestPrettyHeaderAndContext(t *testing.T) {
	bag, fs := nestedBag(t)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})

	want := strings.Join([]string{
		"test.rs:2:5: WARNING HON9001(collapsible_if): this if statement can be collapsed",
		"  |",
		"2 |     if a { if b { c(); } }",
		"  |     ^" + strings.Repeat("~", 21),
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyContextLines(t *testing.T) {
	bag, fs := nestedBag(t)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, Context: 1})

	out := buf.String()
	for _, line := range []string{"1 | fn main() {", "2 |     if a", "3 | }"} {
		if !strings.Contains(out, line) {
			t.Errorf("missing %q in:\n%s", line, out)
		}
	}
}

func TestPrettyNotesAndFixes(t *testing.T) {
	bag, fs := nestedBag(t)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{
		PathMode:    PathModeBasename,
		ShowNotes:   true,
		ShowFixes:   true,
		ShowPreview: true,
	})

	out := buf.String()
	expected := []string{
		"  note: test.rs:2:12: inner if",
		"  fix #1: try [always-safe] id=collapsible_if-1",
		`    edit test.rs:2:5 apply="if a && b { c(); }"`,
		"    preview:",
		"      -     if a { if b { c(); } }",
		"      +     if a && b { c(); }",
	}
	for _, line := range expected {
		if !strings.Contains(out, line+"\n") {
			t.Errorf("missing %q in:\n%s", line, out)
		}
	}
}

func TestPrettyHidesNotesAndFixesByDefault(t *testing.T) {
	bag, fs := nestedBag(t)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})

	out := buf.String()
	if strings.Contains(out, "note:") || strings.Contains(out, "fix #") {
		t.Fatalf("notes and fixes must be hidden:\n%s", out)
	}
}

func TestPrettyTabsAndWideRunes(t *testing.T) {
	fs := source.NewFileSet()
	src := "fn f() {\n\tlet s = \"日本\"; if x { if y {} }\n}\n"
	fileID := fs.AddVirtual("wide.rs", []byte(src))
	line2 := uint32(len("fn f() {\n"))
	start := line2 + uint32(strings.Index("\tlet s = \"日本\"; if x { if y {} }", "if x"))
	end := line2 + uint32(len("\tlet s = \"日本\"; if x { if y {} }"))

	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevWarning, diag.LintCollapsibleIf, source.Span{File: fileID, Start: start, End: end}, "msg"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})

	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 4 {
		t.Fatalf("short output:\n%s", buf.String())
	}
	// таб раскрывается в 4 пробела, каждый иероглиф занимает две колонки
	prefix := strings.Repeat(" ", len("    let s = \"")+4+len("\"; "))
	caret := "^" + strings.Repeat("~", len("if x { if y {} }")-1)
	if want := "  | " + prefix + caret; lines[3] != want {
		t.Fatalf("caret line = %q, want %q", lines[3], want)
	}
}

func TestPrettyWidthClipsLines(t *testing.T) {
	bag, fs := nestedBag(t)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, Width: 10})

	if !strings.Contains(buf.String(), "2 |     if a …\n") {
		t.Fatalf("line not clipped:\n%s", buf.String())
	}
}

func TestShort(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.rs", []byte(nestedSrc))

	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevWarning, diag.LintCollapsibleIf, outerIf(fileID), "this if statement can be collapsed"))
	bag.Add(diag.New(diag.SevError, diag.SynExpectSemicolon, source.Span{File: fileID, Start: 0, End: 2}, "expected `;`"))

	var buf bytes.Buffer
	Short(&buf, bag, fs, PathModeBasename)

	want := "test.rs:2:5: warning[collapsible_if]: this if statement can be collapsed\n" +
		"test.rs:1:1: error[SYN2003]: expected `;`\n"
	if got := buf.String(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderDispatch(t *testing.T) {
	bag, fs := nestedBag(t)

	tests := []struct {
		format Format
		check  func(string) bool
	}{
		{FormatPretty, func(s string) bool { return strings.Contains(s, "WARNING HON9001") }},
		{FormatShort, func(s string) bool { return strings.HasPrefix(s, "test.rs:2:5: warning[collapsible_if]") }},
		{FormatJSON, func(s string) bool { return strings.Contains(s, `"lint": "collapsible_if"`) }},
		{FormatMsgpack, func(s string) bool { return len(s) > 0 && !strings.Contains(s, "WARNING") }},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			opts := Options{
				Format: tt.format,
				Pretty: PrettyOpts{PathMode: PathModeBasename},
				JSON:   JSONOpts{PathMode: PathModeBasename},
			}
			if err := Render(&buf, bag, fs, opts); err != nil {
				t.Fatalf("Render: %v", err)
			}
			if !tt.check(buf.String()) {
				t.Fatalf("unexpected %s output:\n%s", tt.format, buf.String())
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		err  bool
	}{
		{"", FormatPretty, false},
		{"human", FormatPretty, false},
		{"Short", FormatShort, false},
		{" json ", FormatJSON, false},
		{"msgpack", FormatMsgpack, false},
		{"sarif", FormatPretty, true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.err || got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, %v", tt.in, got, err)
		}
	}
}
