package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"hone/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "hone",
	Short:         "Style lints with machine-applicable rewrites",
	Long:          `hone checks Rust-like sources for collapsible conditionals and constructors without Default, and can apply the suggested rewrites.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// errFindings signals that findings were reported at error severity; the
// findings themselves were already printed.
var errFindings = errors.New("findings reported")

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(baselineCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "path to hone.toml (default: nearest one above the target)")
	flags.String("color", "", "colorize output (auto|on|off)")
	flags.String("format", "", "output format (pretty|short|json|msgpack)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Int("jobs", 0, "max parallel workers (0=auto)")
	flags.Int("max-diagnostics", 0, "maximum number of diagnostics to show (0=config or unlimited)")
	flags.String("trace", "", "trace output file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.Bool("no-cache", false, "disable the disk cache")
	flags.String("cache-dir", "", "disk cache directory (default: $XDG_CACHE_HOME/hone)")
	flags.Bool("deny-warnings", false, "treat warnings as errors for the exit status")
	flags.String("ui", "off", "progress UI (auto|on|off)")
	flags.StringArrayP("allow", "A", nil, "set lint or group to allow")
	flags.StringArrayP("warn", "W", nil, "set lint or group to warn")
	flags.StringArrayP("deny", "D", nil, "set lint or group to deny")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFindings) {
			fmt.Fprintf(os.Stderr, "hone: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
