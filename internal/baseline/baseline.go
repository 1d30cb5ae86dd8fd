// Package baseline records accepted findings so that `hone check` reports only
// new ones. Finding IDs survive unrelated edits: they hash the lint, the file
// path, the message and the flagged source text, but not the position.
package baseline

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"hone/internal/diag"
	"hone/internal/source"
)

// FileName is the default baseline location, next to hone.toml.
const FileName = "hone-baseline.toml"

const idLen = 16

// Entry is one accepted finding.
type Entry struct {
	ID      string `toml:"id"`
	Rule    string `toml:"rule"`
	Path    string `toml:"path"`
	Message string `toml:"message"`
}

// Baseline is the decoded baseline file.
type Baseline struct {
	Findings []Entry `toml:"finding"`

	ids map[string]int
}

// ErrNoBaseline is returned by Load when the file does not exist.
var ErrNoBaseline = errors.New("baseline file not found")

// ID computes the stable identifier of d. Paths are relative to root when
// possible so a baseline can be committed.
func ID(d diag.Diagnostic, fs *source.FileSet, root string) string {
	h := sha256.New()
	h.Write([]byte(rule(d)))
	h.Write([]byte{0})
	h.Write([]byte(path(d, fs, root)))
	h.Write([]byte{0})
	h.Write([]byte(normalize(d.Message)))
	h.Write([]byte{0})
	h.Write([]byte(normalize(fs.SourceText(d.Primary, ""))))
	return hex.EncodeToString(h.Sum(nil))[:idLen]
}

func rule(d diag.Diagnostic) string {
	if d.Code.IsLint() {
		return d.Code.Title()
	}
	return d.Code.ID()
}

func path(d diag.Diagnostic, fs *source.FileSet, root string) string {
	f := fs.Get(d.Primary.File)
	if f == nil {
		return ""
	}
	if root != "" {
		if rel, err := source.RelativePath(f.Path, root); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(f.Path)
}

// normalize collapses whitespace runs so reindenting code keeps the ID.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Load reads a baseline file.
func Load(file string) (*Baseline, error) {
	var b Baseline
	if _, err := toml.DecodeFile(file, &b); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", file, ErrNoBaseline)
		}
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", file, err)
	}
	b.index()
	return &b, nil
}

func (b *Baseline) index() {
	b.ids = make(map[string]int, len(b.Findings))
	for _, e := range b.Findings {
		b.ids[e.ID]++
	}
}

// Build creates a baseline accepting every lint finding in bag.
func Build(bag *diag.Bag, fs *source.FileSet, root string) *Baseline {
	b := &Baseline{}
	for _, d := range bag.Items() {
		if !d.Code.IsLint() {
			continue
		}
		b.Findings = append(b.Findings, Entry{
			ID:      ID(d, fs, root),
			Rule:    rule(d),
			Path:    path(d, fs, root),
			Message: d.Message,
		})
	}
	sort.SliceStable(b.Findings, func(i, j int) bool {
		fi, fj := b.Findings[i], b.Findings[j]
		if fi.Path != fj.Path {
			return fi.Path < fj.Path
		}
		if fi.Rule != fj.Rule {
			return fi.Rule < fj.Rule
		}
		return fi.ID < fj.ID
	})
	b.index()
	return b
}

// Filter drops accepted findings from bag and returns how many were dropped.
// Identical findings are matched by count: two accepted copies hide at most
// two reports.
func (b *Baseline) Filter(bag *diag.Bag, fs *source.FileSet, root string) int {
	if b == nil || len(b.ids) == 0 {
		return 0
	}
	left := make(map[string]int, len(b.ids))
	for id, n := range b.ids {
		left[id] = n
	}
	dropped := 0
	bag.Filter(func(d diag.Diagnostic) bool {
		if !d.Code.IsLint() {
			return true
		}
		id := ID(d, fs, root)
		if left[id] > 0 {
			left[id]--
			dropped++
			return false
		}
		return true
	})
	return dropped
}

// Write stores the baseline atomically.
func (b *Baseline) Write(file string) error {
	tmp, err := os.CreateTemp(filepath.Dir(file), ".hone-baseline-*")
	if err != nil {
		return fmt.Errorf("create temp baseline: %w", err)
	}
	defer os.Remove(tmp.Name())

	fmt.Fprintln(tmp, "# Accepted hone findings. Regenerate with `hone baseline write`.")
	if len(b.Findings) > 0 {
		fmt.Fprintln(tmp)
	}
	if err := toml.NewEncoder(tmp).Encode(b); err != nil {
		tmp.Close()
		return fmt.Errorf("encode baseline: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp baseline: %w", err)
	}
	if err := os.Rename(tmp.Name(), file); err != nil {
		return fmt.Errorf("replace %s: %w", file, err)
	}
	return nil
}

// Len returns the number of accepted findings.
func (b *Baseline) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Findings)
}
