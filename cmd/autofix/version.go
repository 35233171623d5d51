package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version and Build are set at link time via -ldflags.
var (
	Version = "dev"
	Build   = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the autofix version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("autofix version %s (%s)\n", Version, Build)
	},
}
