package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set by the build process.
var Version = "dev"
var Commit = "none"
var Date = "unknown"

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of kubelift",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("kubelift version: %s\n", Version)
		fmt.Printf("Git Commit: %s\n", Commit)
		fmt.Printf("Build Date: %s\n", Date)
	},
}
