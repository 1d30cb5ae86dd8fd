package fix

import (
	"bytes"
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"hone/internal/diag"
	"hone/internal/source"
)

// pendingEdit is an accepted edit; seq keeps insertions at one offset in the
// order they were accepted.
type pendingEdit struct {
	diag.TextEdit
	seq int
}

// plan collects the accepted edits of every file. Offsets always refer to the
// original contents, so edits are spliced in once at commit.
type plan struct {
	fs     *source.FileSet
	dryRun bool
	edits  map[source.FileID][]pendingEdit
	seq    int
}

func newPlan(fs *source.FileSet, dryRun bool) *plan {
	return &plan{fs: fs, dryRun: dryRun, edits: make(map[source.FileID][]pendingEdit)}
}

// add accepts all edits or none. It returns the number of edits, or the
// reason the set was rejected.
func (p *plan) add(edits []diag.TextEdit) (int, string) {
	for i, e := range edits {
		file := p.fs.Get(e.Span.File)
		switch {
		case file == nil:
			return 0, "unknown target file"
		case file.Flags&source.FileVirtual != 0 && !p.dryRun:
			return 0, "target file is virtual"
		case e.Span.Start > e.Span.End || int(e.Span.End) > len(file.Content):
			return 0, "edit span out of range"
		case e.OldText != "" && string(file.Content[e.Span.Start:e.Span.End]) != e.OldText:
			return 0, "existing text does not match expected content"
		}
		for _, prev := range p.edits[e.Span.File] {
			if spansConflict(prev.TextEdit, e) {
				return 0, "conflicts with previously applied edits in " + displayPath(p.fs, e.Span.File, "auto")
			}
		}
		for _, other := range edits[:i] {
			if other.Span.File == e.Span.File && spansConflict(other, e) {
				return 0, "fix has overlapping edits"
			}
		}
	}
	for _, e := range edits {
		p.seq++
		p.edits[e.Span.File] = append(p.edits[e.Span.File], pendingEdit{TextEdit: e, seq: p.seq})
	}
	return len(edits), ""
}

// commit splices the edits and, unless dry-running, writes every changed
// file in its original layout. Changes are sorted by path.
func (p *plan) commit() ([]FileChange, error) {
	changes := make([]FileChange, 0, len(p.edits))
	for id, edits := range p.edits {
		file := p.fs.Get(id)
		content := onDisk(file, splice(file.Content, edits))
		if !p.dryRun {
			if err := writeAtomic(file.Path, content); err != nil {
				return changes, err
			}
		}
		changes = append(changes, FileChange{
			Path:      displayPath(p.fs, id, "relative"),
			File:      id,
			EditCount: len(edits),
			Content:   content,
		})
	}
	slices.SortFunc(changes, func(a, b FileChange) int { return cmp.Compare(a.Path, b.Path) })
	return changes, nil
}

func splice(content []byte, edits []pendingEdit) []byte {
	slices.SortFunc(edits, func(a, b pendingEdit) int {
		return cmp.Or(cmp.Compare(a.Span.Start, b.Span.Start), cmp.Compare(a.seq, b.seq))
	})
	out := make([]byte, 0, len(content))
	pos := uint32(0)
	for _, e := range edits {
		out = append(out, content[pos:e.Span.Start]...)
		out = append(out, e.NewText...)
		pos = e.Span.End
	}
	return append(out, content[pos:]...)
}

// onDisk undoes what FileSet.Load normalized: the BOM and CRLF line endings.
// A file that mixed endings comes back with CRLF throughout.
func onDisk(file *source.File, content []byte) []byte {
	if file.Flags&source.FileNormalizedCRLF != 0 {
		content = bytes.ReplaceAll(content, []byte("\n"), []byte("\r\n"))
	}
	if file.Flags&source.FileHadBOM != 0 {
		content = append([]byte{0xEF, 0xBB, 0xBF}, content...)
	}
	return content
}

// spansConflict reports whether two edits overlap as half-open ranges. Two
// insertions never conflict; an insertion conflicts with a replacement that
// strictly contains its offset or starts at it.
func spansConflict(a, b diag.TextEdit) bool {
	as, ae := a.Span.Start, a.Span.End
	bs, be := b.Span.Start, b.Span.End
	switch {
	case as == ae && bs == be:
		return false
	case as == ae:
		return bs <= as && as < be
	case bs == be:
		return as <= bs && bs < ae
	}
	return as < be && bs < ae
}

// writeAtomic replaces path through a temporary file in the same directory,
// keeping the original permissions.
func writeAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".hone-fix-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	name := tmp.Name()
	defer os.Remove(name)
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(name, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(name, path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
