package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"hone/internal/diag"
	"hone/internal/diagfmt"
	"hone/internal/driver"
	"hone/internal/source"
	"hone/internal/ui"
)

type analysis struct {
	fs      *source.FileSet
	results []*driver.Result
	bag     *diag.Bag
}

// analyze runs the driver over the session paths, with the progress UI when
// enabled.
func (s *session) analyze(ctx context.Context, title string) (*analysis, error) {
	machine := s.render.Format == diagfmt.FormatJSON || s.render.Format == diagfmt.FormatMsgpack
	var (
		fs      *source.FileSet
		results []*driver.Result
		err     error
	)
	if shouldUseTUI(s.ui, machine) {
		fs, results, err = s.analyzeWithUI(ctx, title)
	} else {
		fs, results, err = driver.AnalyzeDir(ctx, s.root, s.paths, s.opts)
	}
	if err != nil {
		return nil, err
	}
	return &analysis{fs: fs, results: results, bag: driver.Merge(results, s.opts.MaxDiagnostics)}, nil
}

type analyzeOutcome struct {
	fs      *source.FileSet
	results []*driver.Result
	err     error
}

func (s *session) analyzeWithUI(ctx context.Context, title string) (*source.FileSet, []*driver.Result, error) {
	files, err := driver.ListFiles(s.root, s.paths, s.opts.Exclude)
	if err != nil {
		return nil, nil, err
	}
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan analyzeOutcome, 1)

	go func() {
		opts := s.opts
		opts.Progress = driver.ChannelSink{Ch: events}
		fs, results, err := driver.AnalyzeDir(ctx, s.root, s.paths, opts)
		outcomeCh <- analyzeOutcome{fs: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	// прогресс идёт в stderr, stdout остаётся для диагностик
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// после выхода из UI (в том числе по ctrl+c) дочитываем события,
	// иначе воркеры заблокируются на канале
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}
