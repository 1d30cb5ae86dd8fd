package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"hone/internal/baseline"
)

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Manage the baseline of accepted findings",
}

var baselineWriteCmd = &cobra.Command{
	Use:   "write [flags] [file.rs|directory]...",
	Short: "Record every current finding as accepted",
	RunE:  runBaselineWrite,
}

func init() {
	baselineWriteCmd.Flags().StringP("output", "o", "", "baseline file (default: hone-baseline.toml next to hone.toml)")
	baselineCmd.AddCommand(baselineWriteCmd)
}

func runBaselineWrite(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args)
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if output == "" {
		output = filepath.Join(s.root, baseline.FileName)
	}
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := s.analyze(cmd.Context(), "hone baseline")
	if err != nil {
		return fmt.Errorf("baseline: %w", err)
	}
	b := baseline.Build(res.bag, res.fs, baselineRoot(output))
	if err := b.Write(output); err != nil {
		return err
	}
	if !s.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d finding(s) to %s\n", b.Len(), output)
	}
	return nil
}
