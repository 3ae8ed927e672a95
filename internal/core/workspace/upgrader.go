package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/multi-llm/bootstrap/internal/defs"
	"github.com/multi-llm/bootstrap/internal/provider"
	"github.com/multi-llm/bootstrap/internal/template"
	"github.com/multi-llm/bootstrap/internal/ui"
	"github.com/multi-llm/bootstrap/pkg/models"
)

// UpgradeOptions controls an upgrade run.
type UpgradeOptions struct {
	// To is the target tier. Empty upgrades one tier up.
	To models.Tier
	// Yes skips the confirmation prompt.
	Yes bool
	// DryRun previews the changes without applying them.
	DryRun bool
}

// Upgrader moves a workspace to a higher tier: it adds the structure
// the target tier introduces, regenerates the tier-dependent files, and
// backs up whatever it overwrites. User-authored files are never
// replaced; only the generated surface (constitution, Makefile, CI,
// settings) is rewritten.
type Upgrader struct {
	providers *provider.Registry
	lib       *template.Library
	printer   *ui.Printer
	confirm   ConfirmFunc
}

// NewUpgrader wires an Upgrader.
func NewUpgrader(providers *provider.Registry, lib *template.Library, printer *ui.Printer, confirm ConfirmFunc) *Upgrader {
	return &Upgrader{providers: providers, lib: lib, printer: printer, confirm: confirm}
}

// Upgrade raises the workspace at wsPath to opts.To (default: the next
// tier). Already being at the target tier is a no-op, not an error;
// downgrades are rejected with a pointer at rollback.
func (u *Upgrader) Upgrade(ctx context.Context, wsPath string, opts UpgradeOptions) error {
	info, err := Load(wsPath, u.providers)
	if err != nil {
		return err
	}

	current := info.Meta.Tier
	if !current.Valid() {
		return configErr("workspace has invalid tier %q in %s", current, info.MetaPath())
	}

	target := opts.To
	if target == "" {
		target = current.Next()
		if target == current {
			u.printer.Info("'%s' is already at the highest tier (%s)", info.Meta.Name, current.Name())
			return nil
		}
	}
	if !target.Valid() {
		return validationErr("invalid target tier %q (valid: 1, 2, 3)", target)
	}
	if target == current {
		u.printer.Info("'%s' is already at tier %s (%s)", info.Meta.Name, current, current.Name())
		return nil
	}
	if !target.AtLeast(current) {
		return upgradeErr("%w: %s is below %s; use 'bootstrap rollback' to restore an earlier state",
			ErrDowngrade, target.Name(), current.Name())
	}

	lock, err := AcquireLock(info.ConfigDir())
	if err != nil {
		return upgradeErr("%w", err)
	}
	defer lock.Release()

	changes, err := u.changes(info, target)
	if err != nil {
		return err
	}

	u.printPreview(info, current, target, changes)
	if opts.DryRun {
		u.printer.Info("Dry run: no changes applied")
		return nil
	}

	if !opts.Yes && (u.confirm == nil || !u.confirm(fmt.Sprintf("Upgrade '%s' to %s?", info.Meta.Name, target.Name()))) {
		u.printer.Info("Upgrade cancelled")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return upgradeErr("interrupted: %w", err)
	}

	backupDir, err := u.backup(info)
	if err != nil {
		return err
	}
	if backupDir != "" {
		u.printer.Info("existing files backed up to %s", backupDir)
	}

	if err := u.apply(info, changes); err != nil {
		return err
	}

	info.Meta.PreviousTier = current
	info.Meta.Tier = target
	info.Meta.Upgraded = time.Now().UTC().Format(time.RFC3339)
	if err := info.SaveMeta(); err != nil {
		return err
	}

	u.printer.Success("Upgraded '%s' from %s to %s", info.Meta.Name, current.Name(), target.Name())
	u.printer.Plain("👉 run 'make audit' to verify the upgraded workspace")
	u.printer.Plain("👉 'bootstrap rollback' restores the pre-upgrade files")
	return nil
}

// upgradeChanges is the computed delta that takes a workspace to the
// target tier.
type upgradeChanges struct {
	// dirs are created if missing.
	dirs []string
	// creates are written only when the file is absent, so user edits
	// to previously generated files survive.
	creates map[string][]byte
	// regens are rewritten unconditionally for the target tier.
	regens map[string][]byte
	// removes are deleted with a warning.
	removes []string
}

// changes computes the tier delta. Additions mirror what creation at
// the target tier would have generated, so upgraded and freshly created
// workspaces converge on the same layout.
func (u *Upgrader) changes(info *Info, target models.Tier) (*upgradeChanges, error) {
	current := info.Meta.Tier
	pkg := models.PackageName(info.Meta.Name)
	prov := info.Provider

	domain := DefaultDomain
	if target == models.TierEnterprise {
		domain = InferDomain(info.Meta.Name)
	}
	ctx := template.NewContext(
		template.WithWorkspace(info.Meta.Name),
		template.WithTier(target),
		provider.ContextOption(prov),
		template.WithDomain(domain),
	)

	b := &upgradeBuilder{lib: u.lib, ctx: ctx, changes: &upgradeChanges{
		creates: map[string][]byte{},
		regens:  map[string][]byte{},
	}}

	// Tier-dependent files are regenerated on every upgrade.
	b.regen(prov.ConfigFilename(), prov.Constitution)
	b.regen("Makefile", u.lib.Makefile)
	b.regen(".github/workflows/ci.yml", u.lib.CIWorkflow)
	b.regenJSON(path.Join(prov.ConfigDirname(), defs.SettingsJSON), prov.Settings(target))
	b.regenRaw(".vscode/settings.json", []byte("{}\n"))

	if target.AtLeast(models.TierStandard) && !current.AtLeast(models.TierStandard) {
		b.addDirs(
			"docs/architecture", "docs/api",
			"scripts/shared",
			"tests/unit", "tests/integration",
			path.Join("src", pkg),
		)
		b.create("pyproject.toml", u.lib.PyProject)
		b.createRaw(path.Join("src", pkg, "__init__.py"), packageInit(pkg))
		b.createStatic(path.Join("src", pkg, "main.py"), u.lib.PackageMain)
		b.create(path.Join("tests/unit", "test_"+pkg+".py"), u.lib.UnitTest)
		b.create("tests/integration/test_integration.py", u.lib.IntegrationTest)
		b.create("scripts/create_snapshot.py", u.lib.SnapshotScript)
		b.createStatic("scripts/shared/skillsmp_client.py", u.lib.SkillsMPClientScript)
		b.createStatic("scripts/shared/skillsmp_search.py", u.lib.SkillsMPSearchScript)
		b.createStatic(path.Join(defs.WorkflowsDir, "shared/discover_skills.md"), u.lib.DiscoverSkillsWorkflow)
		b.createStatic(path.Join(defs.SkillsDir, "debug.md"), u.lib.DebugSkill)
		b.createStatic(path.Join(defs.WorkflowsDir, "feature.md"), u.lib.FeatureWorkflow)
		// Dependencies move into pyproject.toml at Standard and above.
		b.changes.removes = append(b.changes.removes, "requirements.txt")
	}

	if target == models.TierEnterprise && current != models.TierEnterprise {
		b.addDirs(
			"docs/evaluations", "docs/decisions",
			"benchmarks",
			"tests/evals",
			path.Join("src", pkg, "frontend"),
			path.Join("src", pkg, "backend"),
			"outputs/contracts",
			path.Join("data", domain, "inputs"),
			path.Join("data", domain, "outputs"),
			"data/shared",
		)
		b.create("tests/evals/test_evals.py", u.lib.EvalTest)
		b.createRaw(path.Join("src", pkg, "frontend", "__init__.py"), packageInit(pkg+".frontend"))
		b.createRaw(path.Join("src", pkg, "backend", "__init__.py"), packageInit(pkg+".backend"))
		b.createDomainContext(path.Join("src", pkg, "frontend", ctx.ConfigFilename), "frontend")
		b.createDomainContext(path.Join("src", pkg, "backend", ctx.ConfigFilename), "backend")
		b.createStatic("docs/decisions/adr-template.md", u.lib.ADRTemplate)
		b.createStatic("scripts/shift_report.py", u.lib.ShiftReportScript)
		b.createStatic(".pre-commit-config.yaml", u.lib.PrecommitConfig)
		b.createStatic(".gitleaks.toml", u.lib.GitleaksConfig)
		for _, dir := range []string{
			"outputs/contracts", "benchmarks", "data/shared",
			path.Join("data", domain, "inputs"), path.Join("data", domain, "outputs"),
		} {
			b.createRaw(path.Join(dir, ".gitkeep"), nil)
		}
	}

	if b.err != nil {
		return nil, upgradeErr("render upgrade files: %w", b.err)
	}
	return b.changes, nil
}

// upgradeBuilder accumulates the change set, capturing the first render
// error like the creation planner does.
type upgradeBuilder struct {
	lib     *template.Library
	ctx     *template.Context
	changes *upgradeChanges
	err     error
}

func (b *upgradeBuilder) addDirs(dirs ...string) {
	b.changes.dirs = append(b.changes.dirs, dirs...)
}

func (b *upgradeBuilder) regen(rel string, fn func(*template.Context) ([]byte, error)) {
	if b.err != nil {
		return
	}
	content, err := fn(b.ctx)
	if err != nil {
		b.err = err
		return
	}
	b.changes.regens[rel] = content
}

func (b *upgradeBuilder) regenRaw(rel string, content []byte) {
	if b.err == nil {
		b.changes.regens[rel] = content
	}
}

func (b *upgradeBuilder) regenJSON(rel string, doc any) {
	if b.err != nil {
		return
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		b.err = fmt.Errorf("encode %s: %w", rel, err)
		return
	}
	b.changes.regens[rel] = append(data, '\n')
}

func (b *upgradeBuilder) create(rel string, fn func(*template.Context) ([]byte, error)) {
	if b.err != nil {
		return
	}
	content, err := fn(b.ctx)
	if err != nil {
		b.err = err
		return
	}
	b.changes.creates[rel] = content
}

func (b *upgradeBuilder) createStatic(rel string, fn func() ([]byte, error)) {
	if b.err != nil {
		return
	}
	content, err := fn()
	if err != nil {
		b.err = err
		return
	}
	b.changes.creates[rel] = content
}

func (b *upgradeBuilder) createRaw(rel string, content []byte) {
	if b.err == nil {
		b.changes.creates[rel] = content
	}
}

func (b *upgradeBuilder) createDomainContext(rel, domain string) {
	if b.err != nil {
		return
	}
	content, err := b.lib.DomainContext(domain)
	if err != nil {
		b.err = err
		return
	}
	b.changes.creates[rel] = content
}

// printPreview shows what the upgrade will do, classified against the
// current workspace contents.
func (u *Upgrader) printPreview(info *Info, current, target models.Tier, c *upgradeChanges) {
	u.printer.Header("Upgrade '%s': %s to %s", info.Meta.Name, current.Name(), target.Name())

	exists := func(rel string) bool {
		_, err := os.Lstat(filepath.Join(info.Root, filepath.FromSlash(rel)))
		return err == nil
	}

	var adds, updates, removes []string
	for _, dir := range c.dirs {
		if !exists(dir) {
			adds = append(adds, dir+"/")
		}
	}
	for _, rel := range sortedKeys(c.creates) {
		if !exists(rel) {
			adds = append(adds, rel)
		}
	}
	for _, rel := range sortedKeys(c.regens) {
		if exists(rel) {
			updates = append(updates, rel)
		} else {
			adds = append(adds, rel)
		}
	}
	for _, rel := range c.removes {
		if exists(rel) {
			removes = append(removes, rel)
		}
	}

	printGroup := func(label string, items []string) {
		if len(items) == 0 {
			return
		}
		u.printer.Info("%s:", label)
		for _, item := range items {
			u.printer.Plain("  %s", item)
		}
	}
	printGroup("Will add", adds)
	printGroup("Will update", updates)
	printGroup("Will remove", removes)
	u.printer.Info("updated files are backed up under %s/%s<timestamp>/",
		path.Join(info.Provider.ConfigDirname(), defs.BackupsDirName), defs.PreUpgradePrefix)
}

// backupTargets lists the files a pre-upgrade backup captures.
func backupTargets(info *Info) []string {
	return []string{
		info.Provider.ConfigFilename(),
		"Makefile",
		path.Join(info.Provider.ConfigDirname(), defs.SettingsJSON),
		".vscode/settings.json",
		".github/workflows/ci.yml",
	}
}

// backup copies the files the upgrade will overwrite into a timestamped
// directory under the backups dir, preserving relative structure.
// Returns "" when nothing needed backing up.
func (u *Upgrader) backup(info *Info) (string, error) {
	stamp := defs.PreUpgradePrefix + time.Now().UTC().Format(defs.BackupTimestampLayout)
	backupDir := filepath.Join(info.BackupsDir(), stamp)

	copied := 0
	for _, rel := range backupTargets(info) {
		src := filepath.Join(info.Root, filepath.FromSlash(rel))
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := copyFile(src, filepath.Join(backupDir, filepath.FromSlash(rel))); err != nil {
			return "", upgradeErr("back up %s: %w", rel, err)
		}
		copied++
	}
	if copied == 0 {
		return "", nil
	}
	return backupDir, nil
}

// apply executes the change set against the workspace.
func (u *Upgrader) apply(info *Info, c *upgradeChanges) error {
	for _, dir := range c.dirs {
		if err := os.MkdirAll(filepath.Join(info.Root, filepath.FromSlash(dir)), 0o755); err != nil {
			return upgradeErr("create %s: %w", dir, err)
		}
	}

	for _, rel := range sortedKeys(c.creates) {
		abs := filepath.Join(info.Root, filepath.FromSlash(rel))
		if _, err := os.Lstat(abs); err == nil {
			continue
		}
		if err := writeGenerated(abs, rel, c.creates[rel]); err != nil {
			return err
		}
	}

	for _, rel := range sortedKeys(c.regens) {
		abs := filepath.Join(info.Root, filepath.FromSlash(rel))
		if err := writeGenerated(abs, rel, c.regens[rel]); err != nil {
			return err
		}
	}

	for _, rel := range c.removes {
		abs := filepath.Join(info.Root, filepath.FromSlash(rel))
		if err := os.Remove(abs); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				u.printer.Warning("could not remove %s: %v", rel, err)
			}
			continue
		}
		u.printer.Warning("removed %s; declare dependencies in pyproject.toml", rel)
	}
	return nil
}

// writeGenerated writes one generated file, creating parents and
// marking scripts executable.
func writeGenerated(abs, rel string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return upgradeErr("create parent of %s: %w", rel, err)
	}
	perm := os.FileMode(0o644)
	if isScriptPath(rel) {
		perm = 0o755
	}
	if err := atomicWriteFile(abs, content, perm); err != nil {
		return upgradeErr("write %s: %w", rel, err)
	}
	return nil
}
