package cli

import (
	"github.com/spf13/cobra"

	"github.com/multi-llm/bootstrap/internal/core/workspace"
)

var upgradeCmd = &cobra.Command{
	Use:   "upgrade PATH",
	Short: "Raise a workspace to a higher tier",
	Long: `Add the structure a higher tier introduces and regenerate the
tier-dependent files (constitution, Makefile, CI workflow, settings).
Overwritten files are backed up first; 'bootstrap rollback' restores
them. Without --tier the workspace moves one tier up. Downgrades are
rejected.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpgrade,
}

func init() {
	rootCmd.AddCommand(upgradeCmd)

	upgradeCmd.Flags().String("tier", "", "Target tier: 2 (Standard) or 3 (Enterprise); default one tier up")
	upgradeCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	upgradeCmd.Flags().Bool("dry-run", false, "Preview the changes without applying them")
}

func runUpgrade(cmd *cobra.Command, args []string) error {
	opts := workspace.UpgradeOptions{
		Yes:    getBoolFlag(cmd, "yes"),
		DryRun: getBoolFlag(cmd, "dry-run"),
	}
	if tierFlag := getStringFlag(cmd, "tier"); tierFlag != "" {
		tier, err := parseTier(tierFlag)
		if err != nil {
			return err
		}
		opts.To = tier
	}

	return deps.Upgrader.Upgrade(cmd.Context(), args[0], opts)
}
