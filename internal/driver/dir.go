package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"hone/internal/diag"
	"hone/internal/source"
	"hone/internal/trace"
)

// Ext is the source file extension.
const Ext = ".rs"

// ErrNoFiles is returned when the given paths contain no source files.
var ErrNoFiles = errors.New("no source files found")

// ListFiles returns the sorted source files under paths. A path may name a
// file (taken even without the .rs extension) or a directory (walked
// recursively). Hidden directories are skipped, as is everything exclude
// matches relative to root.
func ListFiles(root string, paths []string, exclude func(rel string) bool) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}
	skip := func(p string) bool {
		if exclude == nil {
			return false
		}
		rel, err := source.RelativePath(p, root)
		if err != nil || strings.HasPrefix(rel, "../") {
			return false
		}
		return exclude(rel)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p != path && (strings.HasPrefix(d.Name(), ".") || skip(p)) {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(p, Ext) && !skip(p) {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// AnalyzeDir analyzes every source file under paths in parallel. Results are
// in file order; a file that fails to load gets an IO diagnostic instead of
// failing the run.
func AnalyzeDir(ctx context.Context, root string, paths []string, opts Options) (*source.FileSet, []*Result, error) {
	files, err := ListFiles(root, paths, opts.Exclude)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSetWithBase(root)
	if len(files) == 0 {
		return fileSet, nil, ErrNoFiles
	}

	ctx, runSpan := trace.Start(ctx, trace.ScopeDriver, "analyze")
	defer runSpan.End(fmt.Sprintf("%d files", len(files)))

	// FileSet не потокобезопасен на запись, поэтому всё грузим заранее
	fileIDs := make([]source.FileID, len(files))
	loadErrors := make(map[int]error)
	for i, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
		id, err := fileSet.Load(path)
		if err != nil {
			// пустой файл даёт диагностике путь
			loadErrors[i] = err
			id = fileSet.Add(path, nil, 0)
		}
		fileIDs[i] = id
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	opts.registry()

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]*Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if loadErr, failed := loadErrors[i]; failed {
				bag := diag.NewBag(opts.MaxDiagnostics)
				bag.Add(diag.New(diag.SevError, diag.IOLoadFileError, source.Span{File: fileIDs[i]}, "failed to load file: "+loadErr.Error()))
				results[i] = &Result{Path: path, FileID: fileIDs[i], Bag: bag}
				emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: loadErr})
				return nil
			}
			res := AnalyzeFile(gctx, fileSet, fileIDs[i], opts)
			res.Path = path
			results[i] = res
			status := StatusDone
			if res.Cached {
				status = StatusCached
			}
			emit(opts.Progress, Event{File: path, Stage: StageLint, Status: status, Findings: res.Bag.Len(), Elapsed: res.Elapsed})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

// Merge collects the diagnostics of results into one sorted bag.
func Merge(results []*Result, maxDiagnostics int) *diag.Bag {
	bag := diag.NewBag(maxDiagnostics)
	for _, r := range results {
		if r == nil {
			continue
		}
		for _, d := range r.Bag.Items() {
			if !bag.Add(d) {
				break
			}
		}
	}
	bag.Sort()
	return bag
}

// Elapsed sums the per-file analysis time.
func Elapsed(results []*Result) time.Duration {
	var total time.Duration
	for _, r := range results {
		if r != nil {
			total += r.Elapsed
		}
	}
	return total
}
