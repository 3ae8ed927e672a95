package workspace

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/multi-llm/bootstrap/internal/defs"
	"github.com/multi-llm/bootstrap/internal/provider"
	"github.com/multi-llm/bootstrap/internal/template"
	"github.com/multi-llm/bootstrap/internal/ui"
	"github.com/multi-llm/bootstrap/pkg/models"
)

// ScriptUpdater regenerates the helper scripts of an existing workspace
// from the current templates. Scripts are generated artifacts, so they
// are overwritten in place; user code elsewhere is untouched.
type ScriptUpdater struct {
	providers *provider.Registry
	lib       *template.Library
	printer   *ui.Printer
}

// NewScriptUpdater wires a ScriptUpdater.
func NewScriptUpdater(providers *provider.Registry, lib *template.Library, printer *ui.Printer) *ScriptUpdater {
	return &ScriptUpdater{providers: providers, lib: lib, printer: printer}
}

// Update rewrites every tier script under scripts/ and stamps the
// refresh time into the workspace metadata. The previous copies are
// kept beside the upgrade backups.
func (s *ScriptUpdater) Update(ctx context.Context, wsPath string) error {
	info, err := Load(wsPath, s.providers)
	if err != nil {
		return err
	}
	if !info.Meta.Tier.Valid() {
		return configErr("workspace has invalid tier %q in %s", info.Meta.Tier, info.MetaPath())
	}

	lock, err := AcquireLock(info.ConfigDir())
	if err != nil {
		return workspaceErr("%w", err)
	}
	defer func() { _ = lock.Release() }()

	tctx := template.NewContext(
		template.WithWorkspace(info.Meta.Name),
		template.WithTier(info.Meta.Tier),
		provider.ContextOption(info.Provider),
	)
	files, err := scriptFiles(s.lib, tctx, info.Meta.Tier)
	if err != nil {
		return workspaceErr("render scripts: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return workspaceErr("interrupted: %w", err)
	}

	if backupDir, err := s.backup(info, files); err != nil {
		return err
	} else if backupDir != "" {
		s.printer.Info("previous scripts backed up to %s", backupDir)
	}

	for _, rel := range sortedKeys(files) {
		abs := filepath.Join(info.Root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return workspaceErr("create parent of %s: %w", rel, err)
		}
		if err := atomicWriteFile(abs, files[rel], 0o755); err != nil {
			return workspaceErr("write %s: %w", rel, err)
		}
		s.printer.Dim("  %s", rel)
	}

	info.Meta.ScriptsUpdated = time.Now().UTC().Format(time.RFC3339)
	if err := info.SaveMeta(); err != nil {
		return err
	}

	s.printer.Success("Refreshed %d helper script(s) for the %s tier", len(files), info.Meta.Tier.Name())
	return nil
}

// backup copies the scripts about to be overwritten into a timestamped
// directory beside the upgrade backups. Returns "" when no script
// exists yet.
func (s *ScriptUpdater) backup(info *Info, files map[string][]byte) (string, error) {
	stamp := time.Now().UTC().Format(defs.BackupTimestampLayout)
	backupDir := filepath.Join(info.BackupsDir(), defs.ScriptsBackupPrefix+stamp)

	copied := 0
	for rel := range files {
		src := filepath.Join(info.Root, filepath.FromSlash(rel))
		if _, err := os.Lstat(src); err != nil {
			continue
		}
		dst := filepath.Join(backupDir, filepath.FromSlash(rel))
		if err := copyFile(src, dst); err != nil {
			return "", workspaceErr("back up %s: %w", rel, err)
		}
		copied++
	}
	if copied == 0 {
		return "", nil
	}
	return backupDir, nil
}

// scriptFiles renders every helper script the tier carries, keyed by
// workspace-relative path.
func scriptFiles(lib *template.Library, tctx *template.Context, tier models.Tier) (map[string][]byte, error) {
	type entry struct {
		rel string
		fn  func() ([]byte, error)
	}

	entries := []entry{
		{"scripts/audit.py", func() ([]byte, error) { return lib.AuditScript(tctx) }},
		{"scripts/session.py", lib.SessionScript},
		{"scripts/doc_indexer.py", lib.DocIndexerScript},
		{"scripts/status.py", func() ([]byte, error) { return lib.StatusScript(tctx) }},
		{"scripts/list_skills.py", lib.ListSkillsScript},
		{"scripts/skill_manager.py", lib.SkillManagerScript},
	}
	if tier.AtLeast(models.TierStandard) {
		entries = append(entries,
			entry{"scripts/create_snapshot.py", func() ([]byte, error) { return lib.SnapshotScript(tctx) }},
			entry{"scripts/shared/skillsmp_client.py", lib.SkillsMPClientScript},
			entry{"scripts/shared/skillsmp_search.py", lib.SkillsMPSearchScript},
		)
	}
	if tier == models.TierEnterprise {
		entries = append(entries, entry{"scripts/shift_report.py", lib.ShiftReportScript})
	}

	out := make(map[string][]byte, len(entries))
	for _, e := range entries {
		content, err := e.fn()
		if err != nil {
			return nil, err
		}
		out[e.rel] = content
	}
	return out, nil
}
