package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the demokit version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("demokit %s (%s)\n", version, commit)
		},
	}
}
