package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/multi-llm/bootstrap/internal/defs"
	"github.com/multi-llm/bootstrap/internal/provider"
	"github.com/multi-llm/bootstrap/internal/ui"
	"github.com/multi-llm/bootstrap/pkg/models"
)

// maxListedBackups caps how many alternatives an error message names.
const maxListedBackups = 5

// ConfirmFunc asks the user to approve a destructive step. A nil func
// declines, so non-interactive callers must set Yes on the options.
type ConfirmFunc func(prompt string) bool

// RollbackOptions controls a rollback run.
type RollbackOptions struct {
	// Backup selects a snapshot or backup by exact name or a unique
	// partial match. Empty selects the most recent pre-upgrade backup.
	Backup string
	// Yes skips the confirmation prompt.
	Yes bool
}

// Rollbacker restores a workspace from a snapshot archive or a
// pre-upgrade backup. Snapshots are tried before backups, so a name
// matching both restores the snapshot; a bare rollback restores the
// most recent pre-upgrade backup.
type Rollbacker struct {
	providers *provider.Registry
	printer   *ui.Printer
	confirm   ConfirmFunc
}

// NewRollbacker wires a Rollbacker.
func NewRollbacker(providers *provider.Registry, printer *ui.Printer, confirm ConfirmFunc) *Rollbacker {
	return &Rollbacker{providers: providers, printer: printer, confirm: confirm}
}

// Rollback restores the workspace at wsPath.
func (r *Rollbacker) Rollback(ctx context.Context, wsPath string, opts RollbackOptions) error {
	info, err := Load(wsPath, r.providers)
	if err != nil {
		return err
	}

	lock, err := AcquireLock(info.ConfigDir())
	if err != nil {
		return rollbackErr("%w", err)
	}
	defer lock.Release()

	if opts.Backup != "" {
		name, err := resolveSnapshot(info.SnapshotsDir(), opts.Backup)
		if err != nil {
			return err
		}
		if name != "" {
			archive := filepath.Join(info.SnapshotsDir(), name+".tar.gz")
			return r.restoreSnapshot(ctx, info, archive, name, opts)
		}
	}
	return r.restoreBackup(ctx, info, opts)
}

// resolveSnapshot matches query against the snapshot archives under
// dir, exact stem first, then unique substring. An empty name with a
// nil error means no snapshot matched and backups should be tried.
func resolveSnapshot(dir, query string) (string, error) {
	names := listSnapshots(dir)
	if slices.Contains(names, query) {
		return query, nil
	}
	matches := matchNames(query, names)
	switch len(matches) {
	case 0:
		return "", nil
	case 1:
		return matches[0], nil
	default:
		return "", rollbackErr("%q matches several snapshots: %s", query, joinNames(matches))
	}
}

// matchNames returns the names containing query as a substring.
func matchNames(query string, names []string) []string {
	var matches []string
	for _, name := range names {
		if strings.Contains(name, query) {
			matches = append(matches, name)
		}
	}
	return matches
}

// restoreSnapshot replaces workspace content with a snapshot archive:
// every archived file is written back, and files absent from the
// archive are removed unless they live under a protected prefix.
func (r *Rollbacker) restoreSnapshot(ctx context.Context, info *Info, archive, name string, opts RollbackOptions) error {
	r.printer.Header("Rollback to snapshot '%s'", name)

	if !r.confirmed(opts, fmt.Sprintf("Restore snapshot %q? Files not in the snapshot will be removed.", name)) {
		r.printer.Info("Rollback cancelled")
		return nil
	}

	tmpDir, err := os.MkdirTemp("", "bootstrap-restore-*")
	if err != nil {
		return rollbackErr("create staging directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	extracted, err := extractArchive(archive, tmpDir)
	if err != nil {
		return rollbackErr("extract snapshot %q: %w", name, err)
	}

	if stamp, ok := readStamp(tmpDir); ok {
		r.printer.Dim("snapshot %s created %s (tier %s)", stamp.Name, stamp.Created, stamp.Tier)
	}

	if err := ctx.Err(); err != nil {
		return rollbackErr("interrupted: %w", err)
	}

	keep := make(map[string]bool, len(extracted))
	restored := 0
	for _, rel := range extracted {
		if rel == defs.SnapshotStampJSON {
			continue
		}
		keep[rel] = true
		src := filepath.Join(tmpDir, filepath.FromSlash(rel))
		dst := filepath.Join(info.Root, filepath.FromSlash(rel))
		if err := copyFile(src, dst); err != nil {
			return rollbackErr("restore %s: %w", rel, err)
		}
		restored++
	}

	removed, err := pruneUnarchived(info, keep)
	if err != nil {
		return rollbackErr("remove stale files: %w", err)
	}

	r.printer.Success("Restored %d file(s), removed %d file(s)", restored, removed)
	r.printer.Plain("👉 verify the workspace with 'make audit' and 'make status'")
	return nil
}

// restoreBackup copies files from a pre-upgrade backup directory back
// into the workspace. Files the backup does not cover are left alone.
func (r *Rollbacker) restoreBackup(ctx context.Context, info *Info, opts RollbackOptions) error {
	backupsDir := info.BackupsDir()
	names, err := listBackups(backupsDir)
	if err != nil {
		if snapshots := listSnapshots(info.SnapshotsDir()); len(snapshots) > 0 {
			return rollbackErr("%w: no backups directory; snapshots available via --backup NAME: %s",
				ErrBackupNotFound, joinNames(snapshots))
		}
		return rollbackErr("%w: no backups directory found in %s", ErrBackupNotFound, backupsDir)
	}
	if len(names) == 0 {
		return rollbackErr("%w: no backups found in %s", ErrBackupNotFound, backupsDir)
	}

	name := opts.Backup
	if name == "" {
		name = names[0]
	} else if !slices.Contains(names, name) {
		switch matches := matchNames(name, names); len(matches) {
		case 1:
			name = matches[0]
		case 0:
			return rollbackErr("%w: %q; available: %s", ErrBackupNotFound, name, joinNames(names))
		default:
			return rollbackErr("%q matches several backups: %s", name, joinNames(matches))
		}
	}

	backupDir := filepath.Join(backupsDir, name)
	files, err := relativeFiles(backupDir)
	if err != nil {
		return rollbackErr("read backup %q: %w", name, err)
	}
	if len(files) == 0 {
		return rollbackErr("backup %q is empty", name)
	}

	r.printer.Header("Rollback from backup '%s'", name)
	r.printer.Info("Restoring %d file(s):", len(files))
	for i, rel := range files {
		if i == 10 {
			r.printer.Dim("  ... and %d more", len(files)-10)
			break
		}
		r.printer.Plain("  %s", rel)
	}

	if !r.confirmed(opts, fmt.Sprintf("Overwrite these files in %s?", info.Root)) {
		r.printer.Info("Rollback cancelled")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return rollbackErr("interrupted: %w", err)
	}

	restored := 0
	for _, rel := range files {
		src := filepath.Join(backupDir, filepath.FromSlash(rel))
		dst := filepath.Join(info.Root, filepath.FromSlash(rel))
		if err := copyFile(src, dst); err != nil {
			r.printer.Warning("could not restore %s: %v", rel, err)
			continue
		}
		restored++
	}

	r.printer.Success("Restored %d file(s) from backup '%s'", restored, name)
	r.printer.Plain("👉 verify the workspace with 'make audit' and 'make status'")
	return nil
}

// confirmed reports whether the operation may proceed.
func (r *Rollbacker) confirmed(opts RollbackOptions, prompt string) bool {
	if opts.Yes {
		return true
	}
	return r.confirm != nil && r.confirm(prompt)
}

// listBackups returns upgrade-backup directory names, newest-first.
// Names embed a UTC timestamp, so reverse-lexical order is
// newest-first. Script-refresh backups share the directory but are not
// rollback targets.
func listBackups(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), defs.PreUpgradePrefix) {
			names = append(names, entry.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

// relativeFiles lists the regular files under root as sorted
// slash-separated relative paths.
func relativeFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// joinNames joins up to maxListedBackups names for an error message.
func joinNames(names []string) string {
	if len(names) > maxListedBackups {
		names = names[:maxListedBackups]
	}
	return strings.Join(names, ", ")
}

// protectedPrefixes lists the slash-separated workspace-relative
// prefixes a snapshot restore never deletes.
func protectedPrefixes(info *Info) []string {
	confDir := filepath.ToSlash(info.Provider.ConfigDirname())
	return []string{
		defs.SnapshotsDir,
		path.Join(confDir, defs.BackupsDirName),
		path.Join(confDir, defs.LockFile),
		".git",
	}
}

// pruneUnarchived removes workspace files that are not in keep and not
// protected, returning how many were removed.
func pruneUnarchived(info *Info, keep map[string]bool) (int, error) {
	protected := protectedPrefixes(info)
	removed := 0
	err := filepath.WalkDir(info.Root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(info.Root, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if isProtected(rel, protected) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if keep[rel] {
			return nil
		}
		if err := os.Remove(p); err != nil {
			return err
		}
		removed++
		return nil
	})
	return removed, err
}

// isProtected reports whether rel equals or lives under a protected prefix.
func isProtected(rel string, protected []string) bool {
	for _, prefix := range protected {
		if rel == prefix || strings.HasPrefix(rel, prefix+"/") {
			return true
		}
	}
	return false
}

// readStamp parses the snapshot stamp out of an extracted archive.
func readStamp(dir string) (models.SnapshotStamp, bool) {
	var stamp models.SnapshotStamp
	data, err := os.ReadFile(filepath.Join(dir, defs.SnapshotStampJSON))
	if err != nil {
		return stamp, false
	}
	if err := json.Unmarshal(data, &stamp); err != nil {
		return stamp, false
	}
	return stamp, true
}
