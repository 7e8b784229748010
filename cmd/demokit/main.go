package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "demokit",
		Short: "Instructional reactive front-end primitives for Go",
		Long: `demokit is a teaching repository of reactive front-end primitives:
signals and effects, race-free async resources, a reducer store, scoped
providers, and form validation, each wired into a small demo server.

Start the demos with:

  demokit serve`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
