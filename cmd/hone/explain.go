package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"hone/internal/lint"
	"hone/internal/lint/rules"
)

var explainCmd = &cobra.Command{
	Use:   "explain [lint]",
	Short: "Describe a lint, or list all lints",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := rules.Default()
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			listLints(out, reg.All())
			return nil
		}
		def, ok := reg.Lookup(args[0])
		if !ok {
			// коды тоже принимаем: HON9001
			for _, d := range reg.All() {
				if strings.EqualFold(d.ID(), args[0]) {
					def, ok = d, true
					break
				}
			}
		}
		if !ok {
			return fmt.Errorf("unknown lint %q (run `hone explain` for the list)", args[0])
		}
		explainLint(out, def)
		return nil
	},
}

func listLints(out io.Writer, defs []lint.RuleDef) {
	width := 0
	for _, d := range defs {
		width = max(width, len(d.Name))
	}
	for _, d := range defs {
		fmt.Fprintf(out, "%s  %-*s  %-8s %-5s %s\n", d.ID(), width, d.Name, d.Group, d.Level, d.Description)
	}
}

func explainLint(out io.Writer, d lint.RuleDef) {
	fmt.Fprintf(out, "%s %s\n", d.ID(), d.Name)
	fmt.Fprintf(out, "group: %s, default level: %s", d.Group, d.Level)
	if d.Fix {
		fmt.Fprint(out, ", fixable")
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "\n%s\n", d.Description)
	if d.Rationale != "" {
		fmt.Fprintf(out, "\nWhy is this bad?\n%s\n", d.Rationale)
	}
	if d.BadExample != "" {
		fmt.Fprintf(out, "\nExample:\n%s\n", indent(d.BadExample))
	}
	if d.GoodExample != "" {
		fmt.Fprintf(out, "\nUse instead:\n%s\n", indent(d.GoodExample))
	}
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = "    " + l
		}
	}
	return strings.Join(lines, "\n")
}
