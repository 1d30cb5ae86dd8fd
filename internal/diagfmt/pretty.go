package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"hone/internal/diag"
	"hone/internal/source"
)

type palette struct {
	err, warn, info, note, caret, code, help, del, add *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:   color.New(color.FgRed, color.Bold),
		warn:  color.New(color.FgYellow, color.Bold),
		info:  color.New(color.FgCyan, color.Bold),
		note:  color.New(color.FgBlue, color.Bold),
		caret: color.New(color.FgGreen, color.Bold),
		code:  color.New(color.Faint),
		help:  color.New(color.FgCyan),
		del:   color.New(color.FgRed),
		add:   color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.caret, p.code, p.help, p.del, p.add} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		prettyOne(w, d, fs, opts, pal)
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	loc := location(fs, d.Primary, opts.PathMode)
	sev := pal.severity(d.Severity).Sprint(strings.ToUpper(d.Severity.String()))
	code := d.Code.ID()
	if d.Code.IsLint() {
		code += "(" + d.Code.Title() + ")"
	}
	fmt.Fprintf(w, "%s: %s %s: %s\n", loc, sev, pal.code.Sprint(code), d.Message)
	printContext(w, fs, d.Primary, opts, pal)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", pal.note.Sprint("note:"), location(fs, n.Span, opts.PathMode), n.Msg)
		}
	}
	if !opts.ShowFixes {
		return
	}
	for i, f := range d.Fixes {
		fmt.Fprintf(w, "  %s %s [%s]", pal.help.Sprintf("fix #%d:", i+1), f.Title, f.Applicability)
		if f.ID != "" {
			fmt.Fprintf(w, " id=%s", f.ID)
		}
		fmt.Fprintln(w)
		for _, e := range f.Edits {
			fmt.Fprintf(w, "    edit %s apply=%s\n", location(fs, e.Span, opts.PathMode), strconv.Quote(e.NewText))
			if !opts.ShowPreview {
				continue
			}
			preview, err := previewEdit(fs, e)
			if err != nil {
				continue
			}
			fmt.Fprintln(w, "    preview:")
			for _, line := range preview.before {
				fmt.Fprintf(w, "      %s\n", pal.del.Sprint("- "+clip(line, opts.Width)))
			}
			for _, line := range preview.after {
				fmt.Fprintf(w, "      %s\n", pal.add.Sprint("+ "+clip(line, opts.Width)))
			}
		}
	}
}

// location renders path:line:col.
func location(fs *source.FileSet, sp source.Span, mode PathMode) string {
	f := fs.Get(sp.File)
	if f == nil {
		return "<unknown>"
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", f.FormatPath(mode.mode(), fs.BaseDir()), start.Line, start.Col)
}

// printContext prints the lines of sp (plus Context lines around) with a
// caret line under the first line of the span.
func printContext(w io.Writer, fs *source.FileSet, sp source.Span, opts PrettyOpts, pal palette) {
	f := fs.Get(sp.File)
	if f == nil || len(f.Content) == 0 {
		return
	}
	start, end := fs.Resolve(sp)
	ctx, err := safecast.Conv[uint32](max(opts.Context, 0))
	if err != nil {
		return
	}
	first := start.Line
	if first > ctx {
		first -= ctx
	} else {
		first = 1
	}
	lines, err := safecast.Conv[uint32](len(f.LineIdx) + 1)
	if err != nil {
		return
	}
	last := min(end.Line+ctx, lines)
	gutter := len(strconv.FormatUint(uint64(last), 10))

	fmt.Fprintf(w, "%s |\n", strings.Repeat(" ", gutter))
	for n := first; n <= last; n++ {
		line := expandTabs(f.GetLine(n))
		fmt.Fprintf(w, "%*d | %s\n", gutter, n, clip(line, opts.Width))
		if n != start.Line {
			continue
		}
		raw := f.GetLine(n)
		col := min(int(start.Col)-1, len(raw))
		prefix := runewidth.StringWidth(expandTabs(raw[:col]))
		stop := len(raw)
		if end.Line == start.Line {
			stop = min(int(end.Col)-1, len(raw))
		}
		width := 1
		if stop > col {
			width = max(runewidth.StringWidth(expandTabs(raw[col:stop])), 1)
		}
		marks := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, "%s | %s%s\n", strings.Repeat(" ", gutter), strings.Repeat(" ", prefix), pal.caret.Sprint(marks))
	}
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

// clip truncates s to width display columns; 0 means unlimited.
func clip(s string, width uint8) string {
	if width == 0 || runewidth.StringWidth(s) <= int(width) {
		return s
	}
	return runewidth.Truncate(s, int(width), "…")
}
