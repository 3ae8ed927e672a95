package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/multi-llm/bootstrap/internal/core/workspace"
	"github.com/multi-llm/bootstrap/internal/skill"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Manage skill and workflow documents",
	Long: `Install, list, and remove the markdown documents under .agent/ that
teach the assistant project-specific moves. Commands operate on the
workspace enclosing the current directory.`,
}

var skillAddCmd = &cobra.Command{
	Use:   "add SOURCE",
	Short: "Install a skill from a URL or GitHub shorthand",
	Long: `Fetch a markdown document and install it under .agent/skills/ (or
.agent/workflows/ with --workflow). SOURCE is an http(s) URL or an
owner/repo/path shorthand resolved against the repository's main
branch:

  bootstrap skill add acme/skills/debugging.md
  bootstrap skill add https://example.com/docs/review.md --workflow`,
	Args: cobra.ExactArgs(1),
	RunE: runSkillAdd,
}

var skillListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed skills and workflows",
	Args:  cobra.NoArgs,
	RunE:  runSkillList,
}

var skillRemoveCmd = &cobra.Command{
	Use:   "remove NAME",
	Short: "Remove an installed skill or workflow",
	Args:  cobra.ExactArgs(1),
	RunE:  runSkillRemove,
}

func init() {
	rootCmd.AddCommand(skillCmd)
	skillCmd.AddCommand(skillAddCmd)
	skillCmd.AddCommand(skillListCmd)
	skillCmd.AddCommand(skillRemoveCmd)

	skillAddCmd.Flags().Bool("workflow", false, "Install under .agent/workflows/ instead of .agent/skills/")
	skillAddCmd.Flags().BoolP("yes", "y", false, "Skip the preview and confirmation")
}

func runSkillAdd(cmd *cobra.Command, args []string) error {
	info, err := enclosingWorkspace()
	if err != nil {
		return err
	}

	doc, err := deps.Skills.Fetch(cmd.Context(), args[0])
	if err != nil {
		return wrapSkillErr(err)
	}

	kind := skill.KindSkill
	if getBoolFlag(cmd, "workflow") {
		kind = skill.KindWorkflow
	}

	if !getBoolFlag(cmd, "yes") {
		if !deps.Headless.IsHeadless() {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), skill.Preview(doc.Content, 0))
		} else {
			deps.Printer.Info("'%s' from %s (%d bytes)", doc.Title, doc.Source, len(doc.Content))
		}
		prompt := fmt.Sprintf("Install %s '%s' into %s?", kind, doc.Title, info.Meta.Name)
		if deps.Confirm == nil || !deps.Confirm(prompt) {
			deps.Printer.Info("Installation cancelled")
			return nil
		}
	}

	if _, err := deps.Skills.Install(info.Root, doc, kind); err != nil {
		return wrapSkillErr(err)
	}
	return nil
}

func runSkillList(cmd *cobra.Command, _ []string) error {
	info, err := enclosingWorkspace()
	if err != nil {
		return err
	}

	entries, err := deps.Skills.List(info.Root)
	if err != nil {
		return wrapSkillErr(err)
	}
	if len(entries) == 0 {
		deps.Printer.Info("no skills installed; try 'bootstrap skill add owner/repo/path.md'")
		return nil
	}

	out := cmd.OutOrStdout()
	for _, e := range entries {
		// Pad before styling: ANSI escapes would break %-9s alignment.
		kind := deps.Theme.Muted(fmt.Sprintf("%-9s", string(e.Kind)))
		_, _ = fmt.Fprintf(out, "  %-20s %s %s\n", e.Name, kind, e.Title)
	}
	return nil
}

func runSkillRemove(cmd *cobra.Command, args []string) error {
	info, err := enclosingWorkspace()
	if err != nil {
		return err
	}

	if _, err := deps.Skills.Remove(info.Root, args[0]); err != nil {
		return wrapSkillErr(err)
	}
	return nil
}

// enclosingWorkspace finds the workspace containing the current
// directory. Skill commands take no PATH argument; they follow the
// working directory like git does.
func enclosingWorkspace() (*workspace.Info, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, &workspace.OpError{Category: workspace.CategoryWorkspace, Err: err}
	}
	return workspace.FindRoot(cwd, deps.Providers)
}

// wrapSkillErr maps skill-package failures onto the exit-code taxonomy:
// bad user input is a validation failure, everything operational falls
// under the workspace category.
func wrapSkillErr(err error) error {
	if err == nil {
		return nil
	}
	var opErr *workspace.OpError
	if errors.As(err, &opErr) {
		return err
	}
	if errors.Is(err, skill.ErrBadSource) || errors.Is(err, skill.ErrNotInstalled) {
		return &workspace.OpError{Category: workspace.CategoryValidation, Err: err}
	}
	return &workspace.OpError{Category: workspace.CategoryWorkspace, Err: err}
}
