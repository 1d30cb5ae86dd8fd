package fix

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"hone/internal/diag"
	"hone/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota
	ApplyModeAll
	ApplyModeID
)

type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
	// Heuristic also accepts SafeWithHeuristics fixes in all and once modes
	// (derive/impl suggestions of new_without_default).
	Heuristic bool
	// DryRun computes the new contents without writing files.
	DryRun bool
}

type AppliedFix struct {
	ID            string
	Title         string
	Code          diag.Code
	Message       string
	Applicability diag.FixApplicability
	PrimaryPath   string
	EditCount     int
}

type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange is the new text of one rewritten file.
type FileChange struct {
	Path      string
	File      source.FileID
	EditCount int
	Content   []byte
}

type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

func (r *ApplyResult) skip(f diag.Fix, reason string) {
	r.Skipped = append(r.Skipped, SkippedFix{ID: f.ID, Title: f.Title, Reason: reason})
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

// Apply picks fixes from diagnostics according to opts and rewrites the
// files they touch. All edits refer to the contents held by fs. A fix that
// overlaps an already accepted one, or whose guard text no longer matches,
// is skipped as a whole.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	res := &ApplyResult{}
	if fs == nil {
		return res, errors.New("fix: nil file set")
	}

	cands, skipped := gatherCandidates(diagnostics)
	res.Skipped = append(res.Skipped, skipped...)
	sortCandidates(cands)

	p := newPlan(fs, opts.DryRun)
	for _, c := range selectCandidates(cands, opts, res) {
		n, reason := p.add(c.fix.Edits)
		if reason != "" {
			res.skip(c.fix, reason)
			continue
		}
		res.Applied = append(res.Applied, AppliedFix{
			ID:            c.fix.ID,
			Title:         c.fix.Title,
			Code:          c.diag.Code,
			Message:       c.diag.Message,
			Applicability: c.fix.Applicability,
			PrimaryPath:   displayPath(fs, c.diag.Primary.File, "auto"),
			EditCount:     n,
		})
	}
	if len(res.Applied) == 0 {
		return res, ErrNoFixes
	}

	changes, err := p.commit()
	res.FileChanges = changes
	return res, err
}

// gatherCandidates turns every fix of every diagnostic into a candidate.
// Fixes without edits and fixes whose ID was already seen are skipped. A
// missing ID is synthesized from the diagnostic code, position and index.
func gatherCandidates(diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	var (
		cands []candidate
		skips []SkippedFix
	)
	seen := make(map[string]bool)
	for _, d := range diagnostics {
		for idx, f := range d.Fixes {
			if len(f.Edits) == 0 {
				skips = append(skips, SkippedFix{ID: f.ID, Title: f.Title, Reason: "fix has no edits"})
				continue
			}
			if f.ID == "" {
				f.ID = fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, idx)
			}
			if seen[f.ID] {
				skips = append(skips, SkippedFix{ID: f.ID, Title: f.Title, Reason: "duplicate fix id"})
				continue
			}
			seen[f.ID] = true
			cands = append(cands, candidate{diag: d, fix: f, order: len(cands)})
		}
	}
	return cands, skips
}

// sortCandidates orders by position of the finding, then by the order the
// fixes were reported, so outer findings win conflicts with nested ones.
func sortCandidates(cands []candidate) {
	slices.SortStableFunc(cands, func(a, b candidate) int {
		pa, pb := a.diag.Primary, b.diag.Primary
		return cmp.Or(
			cmp.Compare(pa.File, pb.File),
			cmp.Compare(pa.Start, pb.Start),
			cmp.Compare(pb.End, pa.End),
			cmp.Compare(a.order, b.order),
		)
	})
}

// acceptable reports whether the fix may be applied without naming it.
func acceptable(f diag.Fix, opts ApplyOptions) bool {
	switch f.Applicability {
	case diag.FixApplicabilityAlwaysSafe:
		return true
	case diag.FixApplicabilitySafeWithHeuristics:
		return opts.Heuristic
	}
	return false
}

func selectCandidates(cands []candidate, opts ApplyOptions, res *ApplyResult) []candidate {
	switch opts.Mode {
	case ApplyModeID:
		i := slices.IndexFunc(cands, func(c candidate) bool { return c.fix.ID == opts.TargetID })
		if i < 0 {
			res.Skipped = append(res.Skipped, SkippedFix{ID: opts.TargetID, Reason: "fix id not found"})
			return nil
		}
		if cands[i].fix.Applicability == diag.FixApplicabilityHasPlaceholders {
			res.skip(cands[i].fix, "fix contains placeholders")
			return nil
		}
		return cands[i : i+1]
	case ApplyModeAll:
		var selected []candidate
		for _, c := range cands {
			if !acceptable(c.fix, opts) {
				res.skip(c.fix, "applicability is "+c.fix.Applicability.String())
				continue
			}
			selected = append(selected, c)
		}
		return selected
	default:
		// первый безопасный fix, иначе первый допустимый по эвристике
		if i := slices.IndexFunc(cands, func(c candidate) bool {
			return c.fix.Applicability == diag.FixApplicabilityAlwaysSafe
		}); i >= 0 {
			return cands[i : i+1]
		}
		if i := slices.IndexFunc(cands, func(c candidate) bool { return acceptable(c.fix, opts) }); i >= 0 {
			return cands[i : i+1]
		}
		return nil
	}
}

func displayPath(fs *source.FileSet, id source.FileID, mode string) string {
	file := fs.Get(id)
	if file == nil {
		return ""
	}
	return file.FormatPath(mode, fs.BaseDir())
}
