package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of cargo-genezio",
		Run: func(cmd *cobra.Command, args []string) {
			log.Debug("system", "version", "info", "cargo-genezio version information", "version", Version, "commit", Commit, "date", Date)
			fmt.Fprintf(cmd.OutOrStdout(), "cargo-genezio version %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}
