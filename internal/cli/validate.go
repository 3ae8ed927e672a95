package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate PATH",
	Short: "Validate workspace structure and metadata",
	Long: `Check that PATH is a well-formed workspace: metadata keys present,
tier directories in place. The workspace's own audit script runs when
it ships one; --audit makes a missing script an error.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().Bool("audit", false, "Require and run scripts/audit.py")
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]

	info, _, err := deps.Inspector.Inspect(path)
	if err != nil {
		return err
	}
	deps.Printer.Info("%s workspace '%s' (v%s)", info.Meta.Tier.Name(), info.Meta.Name, info.Meta.Version)

	runAudit := getBoolFlag(cmd, "audit")
	if !runAudit {
		if _, err := os.Stat(filepath.Join(info.Root, "scripts", "audit.py")); err == nil {
			runAudit = true
		}
	}

	return deps.Inspector.Validate(cmd.Context(), path, runAudit)
}
