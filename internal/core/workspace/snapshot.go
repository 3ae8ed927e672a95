package workspace

import (
	"archive/tar"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/multi-llm/bootstrap/internal/core/git"
	"github.com/multi-llm/bootstrap/internal/defs"
	"github.com/multi-llm/bootstrap/internal/provider"
	"github.com/multi-llm/bootstrap/internal/ui"
	"github.com/multi-llm/bootstrap/pkg/models"
)

// Snapshotter creates and lists workspace snapshot archives under
// .snapshots/. An archive captures the critical files (metadata,
// constitution, Makefile, sources, agent directory) plus a stamp that
// rollback uses to describe what it is restoring.
type Snapshotter struct {
	providers *provider.Registry
	git       *git.Manager
	printer   *ui.Printer
}

// NewSnapshotter wires a Snapshotter.
func NewSnapshotter(providers *provider.Registry, gitMgr *git.Manager, printer *ui.Printer) *Snapshotter {
	return &Snapshotter{providers: providers, git: gitMgr, printer: printer}
}

// criticalPaths lists the workspace-relative items a snapshot captures,
// filtered to those that exist.
func criticalPaths(info *Info) []string {
	confDir := info.Provider.ConfigDirname()
	candidates := []string{
		filepath.Join(confDir, defs.WorkspaceJSON),
		filepath.Join(confDir, defs.SettingsJSON),
		info.Provider.ConfigFilename(),
		"Makefile",
		"pyproject.toml",
		"src",
		defs.AgentDir,
	}
	var existing []string
	for _, rel := range candidates {
		if _, err := os.Lstat(filepath.Join(info.Root, rel)); err == nil {
			existing = append(existing, rel)
		}
	}
	return existing
}

// Create writes a snapshot archive for the workspace at wsPath. An
// empty name derives one from the workspace name and a UTC timestamp.
// Returns the archive path.
func (s *Snapshotter) Create(ctx context.Context, wsPath, name string) (string, error) {
	info, err := Load(wsPath, s.providers)
	if err != nil {
		return "", err
	}

	if name == "" {
		name = fmt.Sprintf("%s-%s", info.Meta.Name, time.Now().UTC().Format(defs.BackupTimestampLayout))
	}
	if strings.ContainsAny(name, "/\\") {
		return "", validationErr("snapshot name %q must not contain path separators", name)
	}

	snapshotsDir := info.SnapshotsDir()
	if err := os.MkdirAll(snapshotsDir, 0o755); err != nil {
		return "", rollbackErr("create %s: %w", snapshotsDir, err)
	}

	tag := ""
	if s.git.IsRepo(ctx, info.Root) {
		tag = defs.SnapshotTagPrefix + name
		if err := s.git.CreateTag(ctx, info.Root, tag, "workspace snapshot "+name); err != nil {
			s.printer.Warning("could not create git tag %s: %v", tag, err)
			tag = ""
		}
	}

	stamp := models.SnapshotStamp{
		Name:      name,
		Created:   time.Now().UTC().Format(time.RFC3339),
		Tier:      info.Meta.Tier,
		Workspace: info.Meta.Name,
		GitTag:    tag,
	}

	archivePath := filepath.Join(snapshotsDir, name+".tar.gz")
	count, err := writeArchive(archivePath, info.Root, criticalPaths(info), stamp)
	if err != nil {
		return "", rollbackErr("write snapshot: %w", err)
	}

	s.printer.Success("Snapshot created: %s", archivePath)
	s.printer.Dim("%d file(s) captured", count)
	return archivePath, nil
}

// List returns snapshot names (archive stems) sorted newest-first by
// name, which sorts by timestamp for generated names.
func (s *Snapshotter) List(wsPath string) ([]string, error) {
	info, err := Load(wsPath, s.providers)
	if err != nil {
		return nil, err
	}
	return listSnapshots(info.SnapshotsDir()), nil
}

// Backups returns upgrade-backup directory names, newest-first, so
// listings can show both restore sources side by side.
func (s *Snapshotter) Backups(wsPath string) ([]string, error) {
	info, err := Load(wsPath, s.providers)
	if err != nil {
		return nil, err
	}
	names, err := listBackups(info.BackupsDir())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, rollbackErr("list backups: %w", err)
	}
	return names, nil
}

// listSnapshots returns archive stems under dir, newest-first.
func listSnapshots(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tar.gz") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".tar.gz"))
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names
}

// writeArchive builds the tar.gz at archivePath from the given
// workspace-relative items, appending the stamp as snapshot.json. The
// archive is written to a temp file and renamed into place.
func writeArchive(archivePath, root string, items []string, stamp models.SnapshotStamp) (int, error) {
	tmp, err := os.CreateTemp(filepath.Dir(archivePath), ".snapshot-*")
	if err != nil {
		return 0, err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	gz, err := gzip.NewWriterLevel(tmp, gzip.BestSpeed)
	if err != nil {
		tmp.Close()
		return 0, err
	}
	tw := tar.NewWriter(gz)

	count := 0
	for _, item := range items {
		n, err := addTarEntry(tw, root, item)
		if err != nil {
			tw.Close()
			gz.Close()
			tmp.Close()
			return 0, err
		}
		count += n
	}

	stampData, err := json.MarshalIndent(stamp, "", "  ")
	if err == nil {
		err = writeTarFile(tw, defs.SnapshotStampJSON, append(stampData, '\n'), 0o644)
	}
	if err != nil {
		tw.Close()
		gz.Close()
		tmp.Close()
		return 0, err
	}
	count++

	if err := tw.Close(); err != nil {
		gz.Close()
		tmp.Close()
		return 0, err
	}
	if err := gz.Close(); err != nil {
		tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	return count, os.Rename(tmpName, archivePath)
}

// addTarEntry archives one workspace-relative file or directory tree.
// Symlinks are skipped; a snapshot must stay self-contained.
func addTarEntry(tw *tar.Writer, root, rel string) (int, error) {
	abs := filepath.Join(root, rel)
	count := 0
	err := filepath.WalkDir(abs, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		entryRel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return nil
		}
		name := filepath.ToSlash(entryRel)
		if d.IsDir() {
			header := &tar.Header{
				Name:     name + "/",
				Typeflag: tar.TypeDir,
				Mode:     int64(info.Mode().Perm()),
				ModTime:  info.ModTime(),
			}
			return tw.WriteHeader(header)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := writeTarFile(tw, name, data, info.Mode().Perm()); err != nil {
			return err
		}
		count++
		return nil
	})
	return count, err
}

// writeTarFile writes one regular-file entry.
func writeTarFile(tw *tar.Writer, name string, data []byte, perm os.FileMode) error {
	header := &tar.Header{
		Name:    name,
		Size:    int64(len(data)),
		Mode:    int64(perm),
		ModTime: time.Now(),
	}
	if err := tw.WriteHeader(header); err != nil {
		return err
	}
	_, err := tw.Write(data)
	return err
}

// extractArchive unpacks a snapshot archive into destDir, rejecting
// entries that would escape it. Returns the extracted file paths
// relative to destDir (slash-separated).
func extractArchive(archivePath, destDir string) ([]string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", archivePath, err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	var files []string
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read archive %s: %w", archivePath, err)
		}

		name := filepath.FromSlash(header.Name)
		if !filepath.IsLocal(name) {
			return nil, fmt.Errorf("%w: %q", ErrUnsafeArchivePath, header.Name)
		}
		target := filepath.Join(destDir, name)

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return nil, err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return nil, err
			}
			out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(header.Mode).Perm())
			if err != nil {
				return nil, err
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return nil, err
			}
			if err := out.Close(); err != nil {
				return nil, err
			}
			files = append(files, filepath.ToSlash(name))
		}
	}
	return files, nil
}
