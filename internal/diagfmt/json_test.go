package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"hone/internal/diag"
	"hone/internal/source"
)

const nestedSrc = "fn main() {\n    if a { if b { c(); } }\n}\n"

// outerIf covers `if a { if b { c(); } }` on line 2.
func outerIf(file source.FileID) source.Span {
	return source.Span{File: file, Start: 16, End: 38}
}

func nestedBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.rs", []byte(nestedSrc))
	sp := outerIf(fileID)

	d := diag.New(diag.SevWarning, diag.LintCollapsibleIf, sp, "this if statement can be collapsed")
	d = d.WithNote(source.Span{File: fileID, Start: 23, End: 36}, "inner if")
	d = d.WithFixSuggestion(diag.Fix{
		ID:            "collapsible_if-1",
		Title:         "try",
		Kind:          diag.FixKindQuickFix,
		Applicability: diag.FixApplicabilityAlwaysSafe,
		IsPreferred:   true,
		Edits: []diag.TextEdit{{
			Span:    sp,
			NewText: "if a && b { c(); }",
		}},
	})

	bag := diag.NewBag(10)
	bag.Add(d)
	return bag, fs
}

func decodeJSON(t *testing.T, buf *bytes.Buffer) DiagnosticsOutput {
	t.Helper()
	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	return output
}

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	bag, fs := nestedBag(t)

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
	}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	output := decodeJSON(t, &buf)
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic, got count=%d len=%d", output.Count, len(output.Diagnostics))
	}

	d := output.Diagnostics[0]
	if d.Severity != "warning" {
		t.Errorf("Expected severity=warning, got %s", d.Severity)
	}
	if d.Code != "HON9001" {
		t.Errorf("Expected code=HON9001, got %s", d.Code)
	}
	if d.Lint != "collapsible_if" {
		t.Errorf("Expected lint=collapsible_if, got %q", d.Lint)
	}
	if d.Location.File != "test.rs" {
		t.Errorf("Expected file=test.rs, got %s", d.Location.File)
	}
	if d.Location.StartLine != 2 || d.Location.StartCol != 5 {
		t.Errorf("Expected start 2:5, got %d:%d", d.Location.StartLine, d.Location.StartCol)
	}
	if d.Location.EndLine != 2 || d.Location.EndCol != 27 {
		t.Errorf("Expected end 2:27, got %d:%d", d.Location.EndLine, d.Location.EndCol)
	}
	if len(d.Notes) != 0 || len(d.Fixes) != 0 {
		t.Errorf("notes and fixes must be omitted by default, got %+v", d)
	}
}

// TestJSONWithNotesAndFixes проверяет вывод заметок и исправлений
func TestJSONWithNotesAndFixes(t *testing.T) {
	bag, fs := nestedBag(t)

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
		IncludeFixes:     true,
	}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	d := decodeJSON(t, &buf).Diagnostics[0]
	if len(d.Notes) != 1 || d.Notes[0].Message != "inner if" {
		t.Fatalf("unexpected notes: %+v", d.Notes)
	}
	if d.Notes[0].Location.StartCol != 12 {
		t.Errorf("note column = %d, want 12", d.Notes[0].Location.StartCol)
	}

	if len(d.Fixes) != 1 {
		t.Fatalf("Expected 1 fix, got %d", len(d.Fixes))
	}
	fix := d.Fixes[0]
	if fix.ID != "collapsible_if-1" || fix.Title != "try" {
		t.Errorf("unexpected fix header: %+v", fix)
	}
	if fix.Kind != "quickfix" {
		t.Errorf("Expected kind=quickfix, got %s", fix.Kind)
	}
	if fix.Applicability != "always-safe" {
		t.Errorf("Expected applicability=always-safe, got %s", fix.Applicability)
	}
	if !fix.IsPreferred {
		t.Errorf("Expected preferred fix")
	}
	if len(fix.Edits) != 1 || fix.Edits[0].NewText != "if a && b { c(); }" {
		t.Fatalf("unexpected edits: %+v", fix.Edits)
	}
	if fix.Edits[0].BeforeLines != nil {
		t.Errorf("previews must be off unless requested")
	}
}

func TestJSONFixOrdering(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("order.rs", []byte(nestedSrc))
	sp := outerIf(fileID)

	d := diag.New(diag.SevWarning, diag.LintCollapsibleIf, sp, "msg")
	d = d.WithFixSuggestion(diag.Fix{Title: "review", Applicability: diag.FixApplicabilityManualReview})
	d = d.WithFixSuggestion(diag.Fix{Title: "b-safe", Applicability: diag.FixApplicabilityAlwaysSafe})
	d = d.WithFixSuggestion(diag.Fix{Title: "a-safe", Applicability: diag.FixApplicabilityAlwaysSafe})
	d = d.WithFixSuggestion(diag.Fix{Title: "preferred", Applicability: diag.FixApplicabilityHasPlaceholders, IsPreferred: true})

	bag := diag.NewBag(0)
	bag.Add(d)

	output, err := BuildDiagnosticsOutput(bag, fs, JSONOpts{IncludeFixes: true})
	if err != nil {
		t.Fatalf("BuildDiagnosticsOutput error: %v", err)
	}
	var titles []string
	for _, f := range output.Diagnostics[0].Fixes {
		titles = append(titles, f.Title)
	}
	want := []string{"preferred", "a-safe", "b-safe", "review"}
	if len(titles) != len(want) {
		t.Fatalf("titles = %v, want %v", titles, want)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("titles = %v, want %v", titles, want)
		}
	}
}

// TestJSONWithoutPositions проверяет вывод без line/col
func TestJSONWithoutPositions(t *testing.T) {
	bag, fs := nestedBag(t)

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{PathMode: PathModeBasename}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	loc := decodeJSON(t, &buf).Diagnostics[0].Location
	if loc.StartLine != 0 || loc.StartCol != 0 || loc.EndLine != 0 || loc.EndCol != 0 {
		t.Errorf("Expected no line/col, got %+v", loc)
	}
	if loc.StartByte != 16 || loc.EndByte != 38 {
		t.Errorf("Expected bytes 16..38, got %d..%d", loc.StartByte, loc.EndByte)
	}
	if bytes.Contains(buf.Bytes(), []byte("start_line")) {
		t.Errorf("start_line should be omitted:\n%s", buf.String())
	}
}

// TestJSONMaxLimit проверяет ограничение количества диагностик
func TestJSONMaxLimit(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("many.rs", []byte(nestedSrc))

	bag := diag.NewBag(0)
	for i := range uint32(5) {
		bag.Add(diag.New(diag.SevWarning, diag.LintNewWithoutDefault,
			source.Span{File: fileID, Start: i, End: i + 1}, "msg"))
	}

	output, err := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 3})
	if err != nil {
		t.Fatalf("BuildDiagnosticsOutput error: %v", err)
	}
	if output.Count != 3 || len(output.Diagnostics) != 3 {
		t.Errorf("Expected 3 diagnostics, got count=%d len=%d", output.Count, len(output.Diagnostics))
	}
	if bag.Len() != 5 {
		t.Errorf("Max must not touch the bag, len=%d", bag.Len())
	}
}

// TestJSONPathModes проверяет различные режимы отображения путей
func TestJSONPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("src/lib/test.rs", []byte(nestedSrc))
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevWarning, diag.LintCollapsibleIf, outerIf(fileID), "msg"))

	tests := []struct {
		name string
		mode PathMode
		want string
	}{
		{"basename", PathModeBasename, "test.rs"},
		{"auto", PathModeAuto, "src/lib/test.rs"},
		{"relative", PathModeRelative, "src/lib/test.rs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := BuildDiagnosticsOutput(bag, fs, JSONOpts{PathMode: tt.mode})
			if err != nil {
				t.Fatalf("BuildDiagnosticsOutput error: %v", err)
			}
			if got := output.Diagnostics[0].Location.File; got != tt.want {
				t.Errorf("path = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestJSONFixPreview проверяет превью строк до/после исправления
func TestJSONFixPreview(t *testing.T) {
	bag, fs := nestedBag(t)

	output, err := BuildDiagnosticsOutput(bag, fs, JSONOpts{IncludeFixes: true, IncludePreviews: true})
	if err != nil {
		t.Fatalf("BuildDiagnosticsOutput error: %v", err)
	}
	edit := output.Diagnostics[0].Fixes[0].Edits[0]
	if len(edit.BeforeLines) != 1 || edit.BeforeLines[0] != "    if a { if b { c(); } }" {
		t.Errorf("before = %q", edit.BeforeLines)
	}
	if len(edit.AfterLines) != 1 || edit.AfterLines[0] != "    if a && b { c(); }" {
		t.Errorf("after = %q", edit.AfterLines)
	}
}

func TestMsgpackRoundTrip(t *testing.T) {
	bag, fs := nestedBag(t)
	opts := JSONOpts{IncludePositions: true, PathMode: PathModeBasename, IncludeNotes: true, IncludeFixes: true}

	want, err := BuildDiagnosticsOutput(bag, fs, opts)
	if err != nil {
		t.Fatalf("BuildDiagnosticsOutput error: %v", err)
	}

	var buf bytes.Buffer
	if err := Msgpack(&buf, bag, fs, opts); err != nil {
		t.Fatalf("Msgpack() error: %v", err)
	}
	got, err := DecodeMsgpack(&buf)
	if err != nil {
		t.Fatalf("DecodeMsgpack() error: %v", err)
	}
	if got.Count != want.Count {
		t.Fatalf("count = %d, want %d", got.Count, want.Count)
	}
	gd, wd := got.Diagnostics[0], want.Diagnostics[0]
	if gd.Code != wd.Code || gd.Lint != wd.Lint || gd.Location != wd.Location {
		t.Errorf("diagnostic mismatch:\n got %+v\nwant %+v", gd, wd)
	}
	if len(gd.Fixes) != 1 || gd.Fixes[0].Edits[0].NewText != wd.Fixes[0].Edits[0].NewText {
		t.Errorf("fix mismatch: %+v", gd.Fixes)
	}
}
