package cli

import (
	"github.com/spf13/cobra"
)

var updateScriptsCmd = &cobra.Command{
	Use:   "update-scripts PATH",
	Short: "Re-render the workspace helper scripts",
	Long: `Regenerate the scripts/ helpers for the workspace's tier in place,
picking up fixes from this release. The previous copies are backed up
next to the upgrade backups first.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdateScripts,
}

func init() {
	rootCmd.AddCommand(updateScriptsCmd)
}

func runUpdateScripts(cmd *cobra.Command, args []string) error {
	return deps.Scripts.Update(cmd.Context(), args[0])
}
