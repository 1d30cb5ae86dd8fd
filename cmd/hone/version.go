package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hone/internal/version"
)

type versionPayload struct {
	Tool       string `json:"tool"`
	Version    string `json:"version"`
	GitCommit  string `json:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
}

var versionJSON bool

func init() {
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "print build metadata as JSON")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show hone build metadata",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if versionJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(versionPayload{
				Tool:       "hone",
				Version:    version.Version,
				GitCommit:  version.GitCommit,
				GitMessage: version.GitMessage,
				BuildDate:  version.BuildDate,
			})
		}
		colorStr, err := cmd.Root().PersistentFlags().GetString("color")
		if err != nil {
			return err
		}
		enabled := colorStr == "on" || ((colorStr == "" || colorStr == "auto") && isTerminal(os.Stdout))
		fmt.Fprint(out, version.Banner(enabled))
		return nil
	},
}
