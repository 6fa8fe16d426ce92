package main

import (
	"fmt"

	"github.com/ZaguanLabs/quicklang"
	"github.com/spf13/cobra"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = quicklang.Version
	commit    = quicklang.GitCommit
	buildDate = quicklang.BuildDate
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", quicklang.Name, version)
			if commit != "unknown" && commit != "" {
				fmt.Fprintf(out, "  commit:  %s\n", commit)
			}
			if buildDate != "unknown" && buildDate != "" {
				fmt.Fprintf(out, "  built:   %s\n", buildDate)
			}
		},
	}
}
