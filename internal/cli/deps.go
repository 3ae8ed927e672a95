// Package cli provides the Cobra command tree and dependency wiring
// for the bootstrap CLI. This file is the composition root: the only
// place concrete services are instantiated and connected. Commands
// stay thin — they parse flags, call one operation, and let main map
// the returned error category to an exit code.
package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/multi-llm/bootstrap/internal/cli/wizard"
	"github.com/multi-llm/bootstrap/internal/config"
	"github.com/multi-llm/bootstrap/internal/core/git"
	"github.com/multi-llm/bootstrap/internal/core/workspace"
	"github.com/multi-llm/bootstrap/internal/provider"
	"github.com/multi-llm/bootstrap/internal/skill"
	"github.com/multi-llm/bootstrap/internal/template"
	"github.com/multi-llm/bootstrap/internal/ui"
)

// Dependencies holds every service the commands use, wired once per
// invocation from the parsed global flags.
type Dependencies struct {
	Config    *config.Manager
	Providers *provider.Registry
	Library   *template.Library
	Templates *template.Registry

	Theme    *ui.Theme
	Printer  *ui.Printer
	Headless *ui.HeadlessManager
	Progress ui.Progress

	Git       *git.Manager
	Creator   *workspace.Creator
	Inspector *workspace.Inspector
	Upgrader  *workspace.Upgrader
	Rollback  *workspace.Rollbacker
	Snapshots *workspace.Snapshotter
	Scripts   *workspace.ScriptUpdater
	Skills    *skill.Manager

	// Confirm is the shared yes/no prompt; nil when no TTY is attached.
	Confirm workspace.ConfirmFunc

	Logger *slog.Logger
}

// deps is the per-invocation dependency set, built by initDependencies
// from the root command's persistent flags before any RunE executes.
var deps *Dependencies

// initDependencies builds the dependency graph from global flags. It
// runs as the root PersistentPreRunE so every command sees a fully
// wired state.
func initDependencies(cmd *cobra.Command) error {
	quiet := getBoolFlag(cmd, "quiet")
	verbose := getBoolFlag(cmd, "verbose")
	noColor := getBoolFlag(cmd, "no-color")
	configPath := getStringFlag(cmd, "config")

	theme := ui.NewTheme(noColor)
	printer := ui.NewPrinterTo(cmd.OutOrStdout(), cmd.ErrOrStderr(), theme, quiet, verbose)
	headless := ui.NewHeadlessManager()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if verbose {
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	lib := template.NewLibrary()
	providers := provider.NewRegistry(lib)
	templates, err := template.NewRegistry()
	if err != nil {
		return &workspace.OpError{Category: workspace.CategoryConfig, Err: err}
	}

	cfgMgr := config.NewManager(providers.Names())
	if configPath != "" {
		if _, err := cfgMgr.LoadFile(configPath); err != nil {
			return &workspace.OpError{Category: workspace.CategoryConfig, Err: err}
		}
		logger.Debug("loaded bootstrap config", "path", configPath)
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return &workspace.OpError{Category: workspace.CategoryConfig, Err: err}
		}
		if _, err := cfgMgr.Load(cwd); err != nil {
			return &workspace.OpError{Category: workspace.CategoryConfig, Err: err}
		}
		if cfgMgr.FromFile() {
			logger.Debug("loaded team defaults", "dir", cwd)
		}
	}
	seedHeadlessDefaults(headless, cfgMgr.Get())

	gitMgr := git.NewManager()
	progress := ui.NewProgress(theme, headless)
	confirm := confirmFunc(headless)

	deps = &Dependencies{
		Config:    cfgMgr,
		Providers: providers,
		Library:   lib,
		Templates: templates,
		Theme:     theme,
		Printer:   printer,
		Headless:  headless,
		Progress:  progress,
		Git:       gitMgr,
		Creator:   workspace.NewCreator(workspace.NewPlanner(lib), gitMgr, printer, progress),
		Inspector: workspace.NewInspector(providers, printer),
		Upgrader:  workspace.NewUpgrader(providers, lib, printer, confirm),
		Rollback:  workspace.NewRollbacker(providers, printer, confirm),
		Snapshots: workspace.NewSnapshotter(providers, gitMgr, printer),
		Scripts:   workspace.NewScriptUpdater(providers, lib, printer),
		Skills:    skill.NewManager(nil, printer),
		Confirm:   confirm,
		Logger:    logger,
	}
	return nil
}

// seedHeadlessDefaults copies team-config answers into the headless
// manager so off-TTY runs resolve the same way the wizard would.
func seedHeadlessDefaults(hm *ui.HeadlessManager, cfg *config.Config) {
	if cfg == nil {
		return
	}
	defaults := make(map[string]string)
	if cfg.HasTier() {
		defaults["tier"] = string(cfg.DefaultTier)
	}
	if cfg.HasProvider() {
		defaults["provider"] = cfg.DefaultProvider
	}
	if cfg.DefaultGit {
		defaults["git"] = "true"
	}
	hm.SetDefaults(defaults)
}

// confirmFunc returns the interactive yes/no prompt, or nil when no
// TTY is attached. Operations treat a nil confirm as declined, so
// headless runs need --yes.
func confirmFunc(hm *ui.HeadlessManager) workspace.ConfirmFunc {
	if hm.IsHeadless() {
		return nil
	}
	return func(prompt string) bool {
		confirmed := false
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(prompt).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		)).WithTheme(wizard.FormTheme())
		if err := form.Run(); err != nil {
			return false
		}
		return confirmed
	}
}

// getStringFlag reads a string flag, tolerating commands that do not
// define it.
func getStringFlag(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		return ""
	}
	return val
}

// getBoolFlag reads a bool flag, tolerating commands that do not
// define it.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}
	return val
}
