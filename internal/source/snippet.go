package source

import "strings"

// Text returns the bytes covered by sp as a string.
// ok is false when the span does not fit inside the file.
func (f *File) Text(sp Span) (string, bool) {
	if f == nil || sp.File != f.ID || sp.Start > sp.End || int(sp.End) > len(f.Content) {
		return "", false
	}
	return string(f.Content[sp.Start:sp.End]), true
}

// LineIndent returns the leading whitespace of the line containing off.
func (f *File) LineIndent(off uint32) string {
	if f == nil {
		return ""
	}
	lc := toLineCol(f.LineIdx, off)
	line := f.GetLine(lc.Line)
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// LineStart returns the offset of the first byte of the line containing off.
func (f *File) LineStart(off uint32) uint32 {
	lc := toLineCol(f.LineIdx, off)
	return off - (lc.Col - 1)
}

// SourceText returns the text under sp, or fallback when the span cannot be
// resolved (unknown file, out of range).
func (fileSet *FileSet) SourceText(sp Span, fallback string) string {
	text, ok := fileSet.Get(sp.File).Text(sp)
	if !ok {
		return fallback
	}
	return text
}

// LineIndent returns the indentation of the line sp starts on.
func (fileSet *FileSet) LineIndent(sp Span) string {
	return fileSet.Get(sp.File).LineIndent(sp.Start)
}
