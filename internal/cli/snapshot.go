package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot PATH",
	Short: "Archive the critical files of a workspace",
	Long: `Write a compressed archive of the workspace's critical files
(metadata, constitution, Makefile, pyproject.toml, src/, .agent/) into
.snapshots/. When the workspace is a git repository a matching tag is
created as well. 'bootstrap rollback --backup NAME' restores one.`,
	Args: cobra.ExactArgs(1),
	RunE: runSnapshotCreate,
}

var snapshotListCmd = &cobra.Command{
	Use:   "list PATH",
	Short: "List snapshots and upgrade backups",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotList,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotListCmd)

	snapshotCmd.Flags().String("name", "", "Snapshot name (default: workspace name)")
}

func runSnapshotCreate(cmd *cobra.Command, args []string) error {
	_, err := deps.Snapshots.Create(cmd.Context(), args[0], getStringFlag(cmd, "name"))
	return err
}

func runSnapshotList(cmd *cobra.Command, args []string) error {
	path := args[0]

	snapshots, err := deps.Snapshots.List(path)
	if err != nil {
		return err
	}
	backups, err := deps.Snapshots.Backups(path)
	if err != nil {
		return err
	}

	if len(snapshots) == 0 && len(backups) == 0 {
		deps.Printer.Info("no snapshots or backups yet; run 'bootstrap snapshot %s' to create one", path)
		return nil
	}

	out := cmd.OutOrStdout()
	if len(snapshots) > 0 {
		_, _ = fmt.Fprintln(out, deps.Theme.Bold("Snapshots"))
		for _, name := range snapshots {
			_, _ = fmt.Fprintf(out, "  %s\n", name)
		}
	}
	if len(backups) > 0 {
		if len(snapshots) > 0 {
			_, _ = fmt.Fprintln(out)
		}
		_, _ = fmt.Fprintln(out, deps.Theme.Bold("Upgrade backups"))
		for _, name := range backups {
			_, _ = fmt.Fprintf(out, "  %s\n", name)
		}
	}
	return nil
}
