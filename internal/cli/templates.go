package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/multi-llm/bootstrap/internal/core/workspace"
	"github.com/multi-llm/bootstrap/internal/template"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Inspect the embedded template bundles",
	Long: `Template bundles layer ready-made project recipes over the tier plan
at creation time ('bootstrap create --from-template NAME').`,
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available template bundles",
	Args:  cobra.NoArgs,
	RunE:  runTemplatesList,
}

var templatesExportCmd = &cobra.Command{
	Use:   "export NAME",
	Short: "Export a bundle definition as YAML",
	Long: `Write a bundle's definition in the registry's YAML format, as a
starting point for a customized copy.`,
	Args: cobra.ExactArgs(1),
	RunE: runTemplatesExport,
}

func init() {
	rootCmd.AddCommand(templatesCmd)
	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesExportCmd)

	templatesExportCmd.Flags().StringP("output", "o", "", "Write to FILE instead of stdout")
}

func runTemplatesList(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	for _, b := range deps.Templates.All() {
		name := deps.Theme.Primary(fmt.Sprintf("%-12s", b.Name))
		_, _ = fmt.Fprintf(out, "  %s Tier %s  %s\n", name, b.Tier, b.Description)
	}
	return nil
}

func runTemplatesExport(cmd *cobra.Command, args []string) error {
	bundle, err := deps.Templates.Get(args[0])
	if err != nil {
		return &workspace.OpError{Category: workspace.CategoryValidation, Err: err}
	}

	data, err := template.EncodeBundles([]template.Bundle{bundle})
	if err != nil {
		return &workspace.OpError{Category: workspace.CategoryConfig, Err: err}
	}

	if path := getStringFlag(cmd, "output"); path != "" {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return &workspace.OpError{Category: workspace.CategoryWorkspace, Err: fmt.Errorf("write %s: %w", path, err)}
		}
		deps.Printer.Success("Exported '%s' to %s", bundle.Name, path)
		return nil
	}

	_, _ = fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}
