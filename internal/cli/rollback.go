package cli

import (
	"github.com/spf13/cobra"

	"github.com/multi-llm/bootstrap/internal/core/workspace"
)

var rollbackCmd = &cobra.Command{
	Use:   "rollback PATH",
	Short: "Restore a workspace from a snapshot or upgrade backup",
	Long: `Restore files from a named snapshot archive or pre-upgrade backup.
Snapshot restores bring the workspace back to the archived state,
removing files created since (config directories, snapshots, and .git
are kept). Directory-backup restores only overwrite the files that
were backed up. Without --backup the most recent upgrade backup is
used; 'bootstrap snapshot list' shows what is available.`,
	Args: cobra.ExactArgs(1),
	RunE: runRollback,
}

func init() {
	rootCmd.AddCommand(rollbackCmd)

	rollbackCmd.Flags().String("backup", "", "Snapshot or backup name to restore (exact or unique partial match)")
	rollbackCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}

func runRollback(cmd *cobra.Command, args []string) error {
	opts := workspace.RollbackOptions{
		Backup: getStringFlag(cmd, "backup"),
		Yes:    getBoolFlag(cmd, "yes"),
	}
	return deps.Rollback.Rollback(cmd.Context(), args[0], opts)
}
