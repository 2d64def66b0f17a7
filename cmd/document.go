package cmd

import (
	"github.com/spf13/cobra"
)

// documentCmd groups every command that operates on a repository's
// dependency-ordered docstring generation run: generate, inspect, search,
// and the interactive setup wizard.
var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Generate, inspect, and search agent-written docstrings",
}

func init() {
	rootCmd.AddCommand(documentCmd)
}
