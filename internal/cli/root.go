package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/multi-llm/bootstrap/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Tiered workspace bootstrap for LLM-native development",
	Long: `bootstrap creates, validates, upgrades, and snapshots development
workspaces that follow the Multi-LLM Development Framework convention.

A workspace is generated at one of three tiers (Lite, Standard,
Enterprise) for a chosen assistant provider (Gemini, Claude, or Codex)
and can be upgraded tier by tier without losing user edits.`,
	Version:       version.GetVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return initDependencies(cmd)
	},
}

// Execute runs the root command with the given context. Errors come
// back to main, which owns the exit-code mapping.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("bootstrap %s\n", version.GetVersion()))

	flags := rootCmd.PersistentFlags()
	flags.Bool("no-color", false, "Disable colored output")
	flags.BoolP("quiet", "q", false, "Suppress non-error output")
	flags.BoolP("verbose", "v", false, "Show detail output and debug logging")
	flags.String("config", "", "Path to a bootstrap config file (default: .gemini-bootstrap.json in the working directory)")
}
