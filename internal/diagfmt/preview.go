package diagfmt

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"hone/internal/diag"
	"hone/internal/source"
)

// editPreview holds the whole lines an edit touches, before and after it is
// applied.
type editPreview struct {
	before []string
	after  []string
}

func previewEdit(fs *source.FileSet, edit diag.TextEdit) (editPreview, error) {
	if fs == nil {
		return editPreview{}, errors.New("no file set")
	}
	file := fs.Get(edit.Span.File)
	if file == nil {
		return editPreview{}, fmt.Errorf("unknown file %d", edit.Span.File)
	}
	content := file.Content
	start, end := int(edit.Span.Start), int(edit.Span.End)
	if start > end || end > len(content) {
		return editPreview{}, fmt.Errorf("edit %d..%d is outside %s", start, end, file.Path)
	}

	// расширяем правку до целых строк
	lo := bytes.LastIndexByte(content[:start], '\n') + 1
	hi := len(content)
	if i := bytes.IndexByte(content[end:], '\n'); i >= 0 {
		hi = end + i
	}

	var after strings.Builder
	after.Grow(hi - lo + len(edit.NewText))
	after.Write(content[lo:start])
	after.WriteString(edit.NewText)
	after.Write(content[end:hi])

	return editPreview{
		before: previewLines(string(content[lo:hi])),
		after:  previewLines(after.String()),
	}, nil
}

func previewLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
