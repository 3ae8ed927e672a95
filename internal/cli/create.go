package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/multi-llm/bootstrap/internal/cli/wizard"
	"github.com/multi-llm/bootstrap/internal/core/workspace"
	"github.com/multi-llm/bootstrap/pkg/models"
	"github.com/multi-llm/bootstrap/pkg/version"
)

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new tiered workspace",
	Long: `Create a new workspace directory with the structure, helper scripts,
and assistant configuration for the chosen tier.

Usage patterns:
  bootstrap create my_app --tier 2      Create ./my_app/ as a Standard workspace
  bootstrap create                      Ask tier and name interactively (TTY only)
  bootstrap create my_app --dry-run     Print the generation plan and stop

Tiers:
  1  Lite        Simple scripts & automation
  2  Standard    Modular applications
  3  Enterprise  Multi-domain systems`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().String("name", "", "Workspace name (alternative to the positional argument)")
	createCmd.Flags().String("tier", "", "Workspace tier: 1 (Lite), 2 (Standard), or 3 (Enterprise)")
	createCmd.Flags().String("provider", "", "Assistant provider: gemini, claude, or codex")
	createCmd.Flags().String("parent", "", "Parent directory to create the workspace under")
	createCmd.Flags().String("python-version", "", "Python version for generated manifests (default: 3.11)")
	createCmd.Flags().String("from-template", "", "Apply a template bundle on top of the tier plan")
	createCmd.Flags().String("shared-agent", "", "Team .agent directory to link into the workspace")
	createCmd.Flags().Bool("git", false, "Initialize a git repository after creation")
	createCmd.Flags().Bool("force", false, "Replace an existing directory with the same name")
	createCmd.Flags().Bool("dry-run", false, "Print the generation plan without writing anything")
}

func runCreate(cmd *cobra.Command, args []string) error {
	opts := workspace.CreateOptions{
		Name:            getStringFlag(cmd, "name"),
		ParentDir:       getStringFlag(cmd, "parent"),
		PythonVersion:   getStringFlag(cmd, "python-version"),
		SharedAgentPath: getStringFlag(cmd, "shared-agent"),
		Force:           getBoolFlag(cmd, "force"),
		DryRun:          getBoolFlag(cmd, "dry-run"),
		InitGit:         getBoolFlag(cmd, "git"),
	}
	if len(args) > 0 {
		opts.Name = args[0]
	}

	if tierFlag := getStringFlag(cmd, "tier"); tierFlag != "" {
		tier, err := parseTier(tierFlag)
		if err != nil {
			return err
		}
		opts.Tier = tier
	}

	cfg := deps.Config.Get()
	providerName := getStringFlag(cmd, "provider")

	// Fill what the flags left open: the wizard asks on a TTY, headless
	// runs fall back to team defaults and fail on anything still missing.
	if opts.Name == "" || opts.Tier == "" {
		if deps.Headless.IsHeadless() {
			if opts.Tier == "" {
				if v, ok := deps.Headless.GetDefault("tier"); ok {
					opts.Tier = models.Tier(v)
				}
			}
			if opts.Name == "" || opts.Tier == "" {
				return &workspace.OpError{
					Category: workspace.CategoryValidation,
					Err:      errors.New("no terminal attached: pass --name and --tier (or set team defaults)"),
				}
			}
		} else {
			PrintBanner(version.GetVersion())
			PrintWelcomeMessage()

			result, err := wizard.Run(wizard.DefaultQuestions(cfg, providerOptions(), deps.Git.Available()))
			if err != nil {
				if errors.Is(err, wizard.ErrCancelled) {
					deps.Printer.Plain("Workspace creation cancelled.")
					return nil
				}
				return &workspace.OpError{Category: workspace.CategoryWorkspace, Err: err}
			}

			// Flags win over wizard answers.
			if opts.Name == "" {
				opts.Name = result.Name
			}
			if opts.Tier == "" {
				opts.Tier = result.Tier
			}
			if providerName == "" {
				providerName = result.Provider
			}
			if !cmd.Flags().Changed("git") {
				opts.InitGit = result.Git
			}
		}
	}

	if providerName == "" {
		providerName = cfg.DefaultProvider
	}
	prov, err := deps.Providers.Get(providerName)
	if err != nil {
		return &workspace.OpError{Category: workspace.CategoryConfig, Err: err}
	}
	opts.Provider = prov

	if opts.PythonVersion == "" {
		opts.PythonVersion = cfg.PythonVersion
	}
	if opts.SharedAgentPath == "" {
		opts.SharedAgentPath = cfg.SharedAgentPath
	}

	if bundleName := getStringFlag(cmd, "from-template"); bundleName != "" {
		bundle, err := deps.Templates.Get(bundleName)
		if err != nil {
			return &workspace.OpError{Category: workspace.CategoryValidation, Err: err}
		}
		opts.Bundle = &bundle
	}

	path, err := deps.Creator.Create(cmd.Context(), opts)
	if err != nil {
		return err
	}
	if opts.DryRun {
		return nil
	}

	if !deps.Printer.Quiet() {
		out := cmd.OutOrStdout()
		details := []string{
			renderKeyValueLines([]kvPair{
				{"Path", path},
				{"Tier", fmt.Sprintf("%s (%s)", opts.Tier.Name(), opts.Tier)},
				{"Provider", prov.Title()},
			}),
		}
		_, _ = fmt.Fprintln(out)
		_, _ = fmt.Fprintln(out, renderSuccessCard(fmt.Sprintf("Workspace '%s' ready", opts.Name), details...))
	}
	return nil
}

// providerOptions converts the provider registry into wizard choices.
func providerOptions() []wizard.Option {
	all := deps.Providers.All()
	opts := make([]wizard.Option, 0, len(all))
	for _, p := range all {
		opts = append(opts, wizard.Option{
			Label: p.Title(),
			Value: p.Name(),
			Desc:  p.ConfigFilename() + " / " + p.ConfigDirname(),
		})
	}
	return opts
}

// parseTier converts a --tier value into a Tier. Numeric values ("2")
// and names ("standard") are both accepted.
func parseTier(val string) (models.Tier, error) {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "lite":
		return models.TierLite, nil
	case "2", "standard":
		return models.TierStandard, nil
	case "3", "enterprise":
		return models.TierEnterprise, nil
	}
	return "", &workspace.OpError{
		Category: workspace.CategoryValidation,
		Err:      fmt.Errorf("invalid tier %q: use 1 (Lite), 2 (Standard), or 3 (Enterprise)", val),
	}
}
