package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"hone/internal/baseline"
	"hone/internal/diag"
	"hone/internal/diagfmt"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [file.rs|directory]...",
	Short: "Report lint findings",
	Long:  `Analyze source files (all *.rs files of a directory) and report lint findings with suggested rewrites.`,
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("baseline", "", "hide findings accepted in this baseline file")
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args)
	if err != nil {
		return err
	}
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	baselinePath, err := cmd.Flags().GetString("baseline")
	if err != nil {
		return fmt.Errorf("failed to get baseline flag: %w", err)
	}

	res, err := s.analyze(cmd.Context(), "hone check")
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}

	hidden := 0
	if baselinePath != "" {
		b, err := baseline.Load(baselinePath)
		if err != nil {
			return err
		}
		hidden = b.Filter(res.bag, res.fs, baselineRoot(baselinePath))
	}

	out := cmd.OutOrStdout()
	if err := diagfmt.Render(out, res.bag, res.fs, s.render); err != nil {
		return err
	}
	if !s.quiet && s.render.Format != diagfmt.FormatJSON && s.render.Format != diagfmt.FormatMsgpack {
		printSummary(cmd, res.bag, len(res.results), hidden)
	}
	if failed(res.bag, s.deny) {
		return errFindings
	}
	return nil
}

// baselineRoot is the directory finding paths in a baseline are relative to.
func baselineRoot(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Dir(path)
	}
	return filepath.Dir(abs)
}

func failed(bag *diag.Bag, denyWarnings bool) bool {
	return bag.HasErrors() || (denyWarnings && bag.HasWarnings())
}

func printSummary(cmd *cobra.Command, bag *diag.Bag, files, hidden int) {
	errs, warns := 0, 0
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	w := cmd.ErrOrStderr()
	fmt.Fprintf(w, "checked %d file(s): %d error(s), %d warning(s)", files, errs, warns)
	if hidden > 0 {
		fmt.Fprintf(w, ", %d accepted by baseline", hidden)
	}
	if bag.Cap() > 0 && bag.Len() >= bag.Cap() {
		fmt.Fprintf(w, " (output limited to %d)", bag.Cap())
	}
	fmt.Fprintln(w)
}
