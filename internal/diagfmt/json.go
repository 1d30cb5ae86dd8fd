package diagfmt

import (
	"cmp"
	"encoding/json"
	"io"
	"slices"

	"hone/internal/diag"
	"hone/internal/source"
)

// LocationJSON is a byte range, with 1-based line/col when positions are
// requested.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// FixEditJSON carries the whole-line preview when previews are requested.
type FixEditJSON struct {
	Location    LocationJSON `json:"location"`
	NewText     string       `json:"new_text"`
	OldText     string       `json:"old_text,omitempty"`
	BeforeLines []string     `json:"before_lines,omitempty"`
	AfterLines  []string     `json:"after_lines,omitempty"`
}

type FixJSON struct {
	ID            string        `json:"id,omitempty"`
	Title         string        `json:"title"`
	Kind          string        `json:"kind"`
	Applicability string        `json:"applicability"`
	IsPreferred   bool          `json:"is_preferred,omitempty"`
	Edits         []FixEditJSON `json:"edits,omitempty"`
}

// DiagnosticJSON is one finding. Lint is set for lint codes only.
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Lint     string       `json:"lint,omitempty"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
	Fixes    []FixJSON    `json:"fixes,omitempty"`
}

// DiagnosticsOutput is the document written by JSON and Msgpack.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

// document converts diagnostics of one file set.
type document struct {
	fs   *source.FileSet
	opts JSONOpts
}

func (doc document) location(span source.Span) LocationJSON {
	loc := LocationJSON{StartByte: span.Start, EndByte: span.End}
	f := doc.fs.Get(span.File)
	if f == nil {
		return loc
	}
	loc.File = f.FormatPath(doc.opts.PathMode.mode(), doc.fs.BaseDir())
	if doc.opts.IncludePositions {
		start, end := doc.fs.Resolve(span)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}

func (doc document) diagnostic(d diag.Diagnostic) DiagnosticJSON {
	out := DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Message:  d.Message,
		Location: doc.location(d.Primary),
	}
	if d.Code.IsLint() {
		out.Lint = d.Code.Title()
	}
	if doc.opts.IncludeNotes {
		for _, n := range d.Notes {
			out.Notes = append(out.Notes, NoteJSON{Message: n.Msg, Location: doc.location(n.Span)})
		}
	}
	if doc.opts.IncludeFixes {
		for _, f := range orderFixes(d.Fixes) {
			out.Fixes = append(out.Fixes, doc.fix(f))
		}
	}
	return out
}

func (doc document) fix(f diag.Fix) FixJSON {
	out := FixJSON{
		ID:            f.ID,
		Title:         f.Title,
		Kind:          f.Kind.String(),
		Applicability: f.Applicability.String(),
		IsPreferred:   f.IsPreferred,
	}
	for _, e := range f.Edits {
		edit := FixEditJSON{
			Location: doc.location(e.Span),
			NewText:  e.NewText,
			OldText:  e.OldText,
		}
		if doc.opts.IncludePreviews {
			if p, err := previewEdit(doc.fs, e); err == nil {
				edit.BeforeLines, edit.AfterLines = p.before, p.after
			}
		}
		out.Edits = append(out.Edits, edit)
	}
	return out
}

// orderFixes puts the preferred fix first, then the safest, then sorts by
// kind, title and ID.
func orderFixes(fixes []diag.Fix) []diag.Fix {
	sorted := slices.Clone(fixes)
	slices.SortStableFunc(sorted, func(a, b diag.Fix) int {
		if a.IsPreferred != b.IsPreferred {
			if a.IsPreferred {
				return -1
			}
			return 1
		}
		return cmp.Or(
			cmp.Compare(a.Applicability, b.Applicability),
			cmp.Compare(a.Kind, b.Kind),
			cmp.Compare(a.Title, b.Title),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return sorted
}

// BuildDiagnosticsOutput converts the bag without encoding it. JSONOpts.Max
// limits the number of diagnostics.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) (DiagnosticsOutput, error) {
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	doc := document{fs: fs, opts: opts}
	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0, len(items))}
	for _, d := range items {
		out.Diagnostics = append(out.Diagnostics, doc.diagnostic(d))
	}
	out.Count = len(out.Diagnostics)
	return out, nil
}

// JSON пишет диагностики одним документом с отступами.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	output, err := BuildDiagnosticsOutput(bag, fs, opts)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}
