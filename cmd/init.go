package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docwright/docwright/internal/config"
	projectcontext "github.com/docwright/docwright/internal/context"
)

var initSkipContext bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize docwright configuration with an interactive wizard",
	Long: `Runs an interactive wizard to configure the LLM provider, flow control,
and rate limits, generates a .docwright.yml file, and optionally collects
project-level business context written to .docwright-context.json.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.RunWizard(); err != nil {
			return err
		}
		if initSkipContext {
			return nil
		}

		fmt.Println()
		bctx, err := projectcontext.CollectInteractive()
		if err != nil {
			return fmt.Errorf("collecting project context: %w", err)
		}
		if bctx.IsEmpty() {
			return nil
		}
		if err := bctx.Save(".docwright-context.json"); err != nil {
			return fmt.Errorf("saving project context: %w", err)
		}
		fmt.Println("Project context saved to .docwright-context.json")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initSkipContext, "skip-context", false, "skip the optional project-context questions")
	documentCmd.AddCommand(initCmd)
}
