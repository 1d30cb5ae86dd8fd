package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"hone/internal/config"
	"hone/internal/diagfmt"
	"hone/internal/driver"
	"hone/internal/lint"
	"hone/internal/lint/rules"
)

// session is the resolved configuration of one command: hone.toml merged
// with the command line.
type session struct {
	cfg      config.Config
	root     string
	paths    []string
	registry *lint.Registry
	opts     driver.Options
	render   diagfmt.Options
	color    bool
	quiet    bool
	ui       uiMode
	deny     bool
}

func newSession(cmd *cobra.Command, args []string) (*session, error) {
	flags := cmd.Root().PersistentFlags()
	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Discover(configPath, paths[0])
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, paths: paths, registry: rules.Default()}
	s.root = cfg.Root()
	if s.root == "" {
		s.root = startDir(paths[0])
	}

	levels, err := cfg.Levels(s.registry)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Path, err)
	}
	if err := s.applyLevelFlags(cmd, levels); err != nil {
		return nil, err
	}

	jobs, err := flags.GetInt("jobs")
	if err != nil {
		return nil, err
	}
	if jobs <= 0 {
		jobs = cfg.Jobs()
	}
	maxDiagnostics, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return nil, err
	}
	if maxDiagnostics <= 0 {
		maxDiagnostics = cfg.Check.MaxDiagnostics
	}
	s.opts = driver.Options{
		Registry:       s.registry,
		Levels:         levels,
		Settings:       cfg.Settings(),
		MaxDiagnostics: maxDiagnostics,
		Jobs:           jobs,
		Exclude:        cfg.Excluded,
	}

	if err := s.setupCache(cmd); err != nil {
		return nil, err
	}
	if err := s.setupOutput(cmd); err != nil {
		return nil, err
	}
	return s, nil
}

func startDir(path string) string {
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return filepath.Dir(path)
	}
	return path
}

// applyLevelFlags applies -A, -W and -D on top of the config, in that order.
func (s *session) applyLevelFlags(cmd *cobra.Command, levels lint.Levels) error {
	flags := cmd.Root().PersistentFlags()
	for _, entry := range []struct {
		flag  string
		level lint.Level
	}{{"allow", lint.Allow}, {"warn", lint.Warn}, {"deny", lint.Deny}} {
		names, err := flags.GetStringArray(entry.flag)
		if err != nil {
			return err
		}
		for _, raw := range names {
			for _, name := range strings.Split(raw, ",") {
				name = lint.NormalizeName(name)
				if name == "" {
					continue
				}
				if !s.knownLint(name) {
					return fmt.Errorf("--%s %s: %w", entry.flag, name, config.ErrUnknownLint)
				}
				levels[name] = entry.level
			}
		}
	}
	return nil
}

func (s *session) knownLint(name string) bool {
	if name == "all" {
		return true
	}
	if _, ok := s.registry.Lookup(name); ok {
		return true
	}
	for _, g := range s.registry.Groups() {
		if g == name {
			return true
		}
	}
	return false
}

func (s *session) setupCache(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	noCache, err := flags.GetBool("no-cache")
	if err != nil {
		return err
	}
	if noCache {
		return nil
	}
	dir, err := flags.GetString("cache-dir")
	if err != nil {
		return err
	}
	cache, err := driver.OpenDiskCache(dir)
	if err != nil {
		// без кэша анализ всё равно работает
		fmt.Fprintf(cmd.ErrOrStderr(), "hone: cache disabled: %v\n", err)
		return nil
	}
	s.opts.Cache = cache
	return nil
}

func (s *session) setupOutput(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()

	formatStr, err := flags.GetString("format")
	if err != nil {
		return err
	}
	if formatStr == "" {
		formatStr = s.cfg.Output.Format
	}
	format, err := diagfmt.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	colorStr, err := flags.GetString("color")
	if err != nil {
		return err
	}
	if colorStr == "" {
		colorStr = s.cfg.Output.Color
	}
	switch strings.ToLower(colorStr) {
	case "", "auto":
		s.color = isTerminal(os.Stdout)
	case "on":
		s.color = true
	case "off":
		s.color = false
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorStr)
	}

	if s.quiet, err = flags.GetBool("quiet"); err != nil {
		return err
	}
	if s.deny, err = flags.GetBool("deny-warnings"); err != nil {
		return err
	}
	uiStr, err := flags.GetString("ui")
	if err != nil {
		return err
	}
	if s.ui, err = readUIMode(uiStr); err != nil {
		return err
	}

	s.render = diagfmt.Options{
		Format: format,
		Pretty: diagfmt.PrettyOpts{
			Color:       s.color,
			PathMode:    diagfmt.PathModeRelative,
			ShowNotes:   true,
			ShowFixes:   true,
			ShowPreview: true,
		},
		JSON: diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeRelative,
			IncludeNotes:     true,
			IncludeFixes:     true,
			IncludePreviews:  true,
		},
	}
	return nil
}
