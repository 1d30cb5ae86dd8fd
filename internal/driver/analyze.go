package driver

import (
	"context"
	"time"

	"hone/internal/ast"
	"hone/internal/diag"
	"hone/internal/hygiene"
	"hone/internal/lint"
	"hone/internal/lint/rules"
	"hone/internal/parser"
	"hone/internal/sema"
	"hone/internal/source"
	"hone/internal/trace"
)

// Options configure an analysis run.
type Options struct {
	// Registry defaults to the built-in rules.
	Registry       *lint.Registry
	Levels         lint.Levels
	Settings       lint.Settings
	MaxDiagnostics int
	// Jobs bounds the number of files analyzed at once; 0 means GOMAXPROCS.
	Jobs int
	// Exclude skips paths relative to the analysis root.
	Exclude  func(rel string) bool
	Cache    *DiskCache
	Progress ProgressSink
}

func (o *Options) registry() *lint.Registry {
	if o.Registry == nil {
		o.Registry = rules.Default()
	}
	return o.Registry
}

// Result is the outcome for one file.
type Result struct {
	Path    string
	FileID  source.FileID
	Bag     *diag.Bag
	Cached  bool
	Elapsed time.Duration
}

// AnalyzeFile lexes, parses, builds the crate tables of one file and runs
// every enabled lint. Syntax errors do not stop linting: rules see whatever
// the parser recovered.
func AnalyzeFile(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options) *Result {
	file := fs.Get(id)
	res := &Result{FileID: id, Bag: diag.NewBag(opts.MaxDiagnostics)}
	if file == nil {
		return res
	}
	res.Path = file.Path
	started := time.Now()
	defer func() { res.Elapsed = time.Since(started) }()

	reg := opts.registry()
	var key Digest
	if opts.Cache != nil {
		key = CacheKey(file.Hash, RuleSetKey(reg, opts.Levels, opts.Settings))
		if diags, ok := opts.Cache.Load(key, id); ok {
			for _, d := range diags {
				res.Bag.Add(d)
			}
			res.Cached = true
			return res
		}
	}

	ctx, fileSpan := trace.Start(ctx, trace.ScopeFile, "file:"+file.Path)
	defer fileSpan.End("")

	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})
	hyg := hygiene.NewTable()
	builder := ast.NewBuilder(ast.Hints{}, nil)

	emit(opts.Progress, Event{File: file.Path, Stage: StageParse, Status: StatusWorking})
	_, parseSpan := trace.Start(ctx, trace.ScopePass, "parse")
	parsed := parser.ParseFile(fs, file, builder, parser.Options{Reporter: reporter, Hygiene: hyg})
	parseSpan.End("")

	emit(opts.Progress, Event{File: file.Path, Stage: StageLint, Status: StatusWorking})
	lintCtx, lintSpan := trace.Start(ctx, trace.ScopePass, "lint")
	semaOpts := sema.Options{Hygiene: hyg}
	crate := sema.Build(builder, parsed.File, semaOpts)
	pass := &lint.Pass{
		Builder:     builder,
		File:        parsed.File,
		Spans:       hyg,
		Types:       sema.NewOracle(crate, semaOpts),
		Source:      fs,
		Sink:        lint.ReporterSink{Reporter: reporter},
		Registry:    reg,
		Levels:      opts.Levels,
		Settings:    opts.Settings,
		Tracer:      trace.FromContext(lintCtx),
		TraceParent: trace.Parent(lintCtx),
	}
	lint.Run(pass, reg.Rules(opts.Levels))
	lintSpan.End("")

	res.Bag.Sort()
	if opts.Cache != nil {
		// кэш — оптимизация, ошибка записи не роняет анализ
		if err := opts.Cache.Store(key, res.Bag.Items()); err != nil {
			trace.Point(trace.FromContext(ctx), trace.ScopeFile, "cache:store", err.Error(), fileSpan.ID())
		}
	}
	return res
}
