package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/multi-llm/bootstrap/internal/defs"
	"github.com/multi-llm/bootstrap/internal/provider"
	"github.com/multi-llm/bootstrap/pkg/models"
)

// Info is a loaded workspace: its location, the provider that owns it,
// and the parsed metadata.
type Info struct {
	// Root is the absolute workspace path.
	Root string
	// Provider is the provider whose configuration directory matched.
	Provider provider.Provider
	// Meta is the parsed workspace.json.
	Meta models.Meta
}

// ConfigDir returns the absolute provider configuration directory.
func (i *Info) ConfigDir() string {
	return filepath.Join(i.Root, i.Provider.ConfigDirname())
}

// MetaPath returns the absolute path of workspace.json.
func (i *Info) MetaPath() string {
	return filepath.Join(i.ConfigDir(), defs.WorkspaceJSON)
}

// BackupsDir returns the absolute upgrade-backups directory.
func (i *Info) BackupsDir() string {
	return filepath.Join(i.ConfigDir(), defs.BackupsDirName)
}

// SnapshotsDir returns the absolute snapshot-archive directory.
func (i *Info) SnapshotsDir() string {
	return filepath.Join(i.Root, defs.SnapshotsDir)
}

// SaveMeta writes the metadata back atomically.
func (i *Info) SaveMeta() error {
	data, err := json.MarshalIndent(i.Meta, "", "  ")
	if err != nil {
		return configErr("encode workspace metadata: %w", err)
	}
	if err := atomicWriteFile(i.MetaPath(), append(data, '\n'), 0o644); err != nil {
		return configErr("write workspace metadata: %w", err)
	}
	return nil
}

// Load opens the workspace at path by probing every provider's
// configuration directory for workspace.json. A missing directory is a
// validation failure; unreadable or malformed metadata is a
// configuration failure.
func Load(path string, providers *provider.Registry) (*Info, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, validationErr("resolve %s: %w", path, err)
	}
	if info, err := os.Stat(absPath); err != nil || !info.IsDir() {
		return nil, validationErr("%w: %s", ErrPathNotFound, absPath)
	}

	for _, p := range providers.All() {
		metaPath := filepath.Join(absPath, p.ConfigDirname(), defs.WorkspaceJSON)
		data, err := os.ReadFile(metaPath)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, configErr("read %s: %w", metaPath, err)
		}

		var meta models.Meta
		if err := json.Unmarshal(data, &meta); err != nil {
			return nil, configErr("parse %s: %w", metaPath, err)
		}
		return &Info{Root: absPath, Provider: p, Meta: meta}, nil
	}

	return nil, validationErr("%w: no workspace metadata under %s", ErrNotAWorkspace, absPath)
}

// FindRoot locates the workspace enclosing start by walking parent
// directories until one loads. Used by commands that operate "in the
// current workspace" rather than on an explicit path.
func FindRoot(start string, providers *provider.Registry) (*Info, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return nil, validationErr("resolve %s: %w", start, err)
	}
	for {
		info, err := Load(dir, providers)
		if err == nil {
			return info, nil
		}
		if !errors.Is(err, ErrNotAWorkspace) && !errors.Is(err, ErrPathNotFound) {
			return nil, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, validationErr("%w: no workspace found at or above %s", ErrNotAWorkspace, start)
		}
		dir = parent
	}
}

// metaIssues lists the structural problems with loaded metadata that
// validation reports without failing the load itself.
func metaIssues(meta models.Meta) []string {
	var issues []string
	if meta.Version == "" {
		issues = append(issues, "workspace.json missing 'version'")
	}
	if meta.Tier == "" {
		issues = append(issues, "workspace.json missing 'tier'")
	} else if !meta.Tier.Valid() {
		issues = append(issues, fmt.Sprintf("workspace.json has invalid tier %q", meta.Tier))
	}
	if meta.Name == "" {
		issues = append(issues, "workspace.json missing 'name'")
	}
	return issues
}
