package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/multi-llm/bootstrap/internal/core/git"
	"github.com/multi-llm/bootstrap/internal/defs"
	"github.com/multi-llm/bootstrap/internal/fsops"
	"github.com/multi-llm/bootstrap/internal/provider"
	"github.com/multi-llm/bootstrap/internal/template"
	"github.com/multi-llm/bootstrap/internal/ui"
	"github.com/multi-llm/bootstrap/pkg/models"
)

// dryRunFileLimit caps the file listing in dry-run output.
const dryRunFileLimit = 20

// CreateOptions carries the resolved inputs for workspace creation.
type CreateOptions struct {
	Name     string
	Tier     models.Tier
	Provider provider.Provider
	// ParentDir is the directory to create the workspace under; empty
	// means the current directory.
	ParentDir string
	// Bundle optionally applies a project recipe from the registry.
	Bundle        *template.Bundle
	PythonVersion string
	// SharedAgentPath links or copies a team .agent directory into the
	// new workspace.
	SharedAgentPath string
	Force           bool
	DryRun          bool
	InitGit         bool
}

// Creator materializes workspaces from generation plans.
type Creator struct {
	planner  *Planner
	git      *git.Manager
	printer  *ui.Printer
	progress ui.Progress
}

// NewCreator wires a Creator.
func NewCreator(planner *Planner, gitMgr *git.Manager, printer *ui.Printer, progress ui.Progress) *Creator {
	return &Creator{planner: planner, git: gitMgr, printer: printer, progress: progress}
}

// Create validates inputs, builds the plan, and writes the workspace.
// On any failure after directory creation begins, the partial workspace
// is removed. Returns the created workspace path.
func (c *Creator) Create(ctx context.Context, opts CreateOptions) (string, error) {
	if err := ValidateName(opts.Name); err != nil {
		return "", err
	}
	if opts.PythonVersion != "" {
		if err := ValidatePythonVersion(opts.PythonVersion); err != nil {
			return "", err
		}
	}
	if opts.Provider == nil {
		return "", creationErr("no provider selected")
	}

	parent := opts.ParentDir
	if parent == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", creationErr("resolve working directory: %w", err)
		}
		parent = cwd
	}
	parent, err := filepath.Abs(parent)
	if err != nil {
		return "", creationErr("resolve parent directory: %w", err)
	}
	base := filepath.Join(parent, opts.Name)

	if !opts.Force && c.git.IsRepo(ctx, parent) {
		c.printer.Warning("parent directory is inside a git repository; the new workspace will be nested in it")
	}

	if err := os.MkdirAll(parent, 0o755); err != nil {
		return "", creationErr("create parent directory %s: %w", parent, err)
	}
	if err := c.preflight(parent, opts); err != nil {
		return "", err
	}

	if _, err := os.Lstat(base); err == nil {
		if !opts.Force {
			return "", creationErr("%w: directory %q already exists (use --force to overwrite)", ErrWorkspaceExists, opts.Name)
		}
		c.printer.Warning("overwriting existing directory %s", base)
		if err := os.RemoveAll(base); err != nil {
			return "", creationErr("remove existing directory %s: %w", base, err)
		}
	}

	domain := ""
	if opts.Tier == models.TierEnterprise {
		domain = InferDomain(opts.Name)
	}

	plan, err := c.planner.Plan(PlanSpec{
		Name:          opts.Name,
		Tier:          opts.Tier,
		Provider:      opts.Provider,
		Domain:        domain,
		PythonVersion: opts.PythonVersion,
		ParentDir:     parent,
		Bundle:        opts.Bundle,
		Created:       time.Now(),
	})
	if err != nil {
		return "", err
	}

	if opts.DryRun {
		c.printDryRun(plan, opts)
		return base, nil
	}

	// The config directory goes in first so the workspace lock can be
	// taken before any other write; a concurrent create on the same
	// path fails here instead of interleaving.
	confDir := filepath.Join(base, opts.Provider.ConfigDirname())
	if err := os.MkdirAll(confDir, 0o755); err != nil {
		return "", creationErr("create %s: %w", confDir, err)
	}
	lock, err := AcquireLock(confDir)
	if err != nil {
		return "", creationErr("%w", err)
	}
	defer func() { _ = lock.Release() }()

	if err := c.materialize(ctx, base, plan); err != nil {
		c.cleanup(base)
		return "", err
	}

	c.linkSharedAgent(opts.SharedAgentPath, base)

	if opts.InitGit {
		c.initRepository(ctx, base)
	}

	c.printer.Success("Created '%s' (%s)", opts.Name, opts.Tier.Name())
	c.printer.Plain("👉 cd %s", opts.Name)
	c.printer.Plain("👉 cat docs/GETTING_STARTED.md")
	return base, nil
}

// preflight probes that the parent directory accepts new directories
// before anything is created.
func (c *Creator) preflight(parent string, opts CreateOptions) error {
	probe := filepath.Join(parent, fmt.Sprintf(".%s_preflight_%s", opts.Provider.Name(), opts.Name))
	if err := os.Mkdir(probe, 0o755); err != nil && !os.IsExist(err) {
		return creationErr("parent directory %s is not writable: %w", parent, err)
	}
	if err := os.Remove(probe); err != nil {
		c.printer.Warning("could not remove preflight probe %s: %v", probe, err)
	}
	return nil
}

// materialize creates the plan's directories sequentially, then writes
// its files through the bounded parallel writer.
func (c *Creator) materialize(ctx context.Context, base string, plan *Plan) error {
	bar := c.progress.Start("Creating directories", len(plan.Dirs))
	for _, dir := range plan.Dirs {
		if err := ctx.Err(); err != nil {
			bar.Done()
			return creationErr("creation interrupted: %w", err)
		}
		if err := os.MkdirAll(filepath.Join(base, dir), 0o755); err != nil {
			bar.Done()
			return creationErr("create directory %s: %w", dir, err)
		}
		bar.Incr(1)
	}
	bar.Done()

	writer := fsops.NewWriter(len(plan.Files))
	defer writer.Close()

	bar = c.progress.Start("Writing files", len(plan.Files))
	results, stats := writer.WriteAll(ctx, base, plan.Files, func(fsops.WriteResult) {
		bar.Incr(1)
	})
	bar.Done()

	if err := ctx.Err(); err != nil {
		return creationErr("creation interrupted: %w", err)
	}
	if err := fsops.SummarizeFailures(results); err != nil {
		return creationErr("%w", err)
	}

	c.printer.Dim("%d files in %s", stats.Written, stats.Duration.Round(time.Millisecond))
	return nil
}

// cleanup removes a partially created workspace. A cleanup failure is
// only a warning; the original error matters more.
func (c *Creator) cleanup(base string) {
	if err := os.RemoveAll(base); err != nil {
		c.printer.Warning("cleanup failed: %v; remove %s manually", err, base)
	}
}

// printDryRun lists what creation would produce without touching disk.
func (c *Creator) printDryRun(plan *Plan, opts CreateOptions) {
	c.printer.Header("Dry run: %s (%s)", opts.Name, opts.Tier.Name())
	c.printer.Info("%d directories, %d files", len(plan.Dirs), len(plan.Files))
	c.printer.Plain("")
	for _, dir := range plan.Dirs {
		c.printer.Plain("  %s/", dir)
	}
	c.printer.Plain("")
	for i, path := range plan.Paths() {
		if i == dryRunFileLimit {
			c.printer.Dim("  ... and %d more", plan.FileCount()-dryRunFileLimit)
			break
		}
		c.printer.Plain("  %s", path)
	}
}

// linkSharedAgent makes a team's shared .agent directory available
// inside the workspace, preferring a symlink and copying when the
// filesystem refuses one.
func (c *Creator) linkSharedAgent(source, base string) {
	if source == "" {
		return
	}
	resolved, err := filepath.Abs(expandUser(source))
	if err != nil {
		c.printer.Warning("shared agent path %s: %v", source, err)
		return
	}
	if _, err := os.Stat(resolved); err != nil {
		c.printer.Warning("shared agent path %s does not exist; skipping", resolved)
		return
	}

	dest := filepath.Join(base, defs.AgentDir, "shared")
	if err := os.Symlink(resolved, dest); err == nil {
		c.printer.Info("linked shared agent directory: %s", resolved)
		return
	}
	if err := copyDir(resolved, dest); err != nil {
		c.printer.Warning("could not copy shared agent directory: %v", err)
		return
	}
	c.printer.Info("symlinks unavailable; copied shared agent directory")
}

// initRepository runs git init, degrading to a warning on any failure.
func (c *Creator) initRepository(ctx context.Context, base string) {
	if !c.git.Available() {
		c.printer.Warning("git not found; skipping repository initialization")
		return
	}
	if err := c.git.Init(ctx, base); err != nil {
		c.printer.Warning("git init failed: %v", err)
		return
	}
	c.printer.Info("initialized git repository")
}

// expandUser resolves a leading ~/ against the home directory.
func expandUser(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
