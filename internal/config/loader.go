package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/multi-llm/bootstrap/internal/defs"
)

// Loader reads the team-defaults JSON file.
// It is thread-safe via the owning Manager's lock; Loader itself keeps
// no mutable state beyond the loaded flag.
type Loader struct {
	loaded bool
}

// NewLoader creates a new Loader instance.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads .gemini-bootstrap.json from workDir and returns a Config
// with defaults applied for missing fields. A missing, unreadable, or
// malformed file is not an error: the problem is logged and compiled
// defaults are returned, matching the file's advisory role.
func (l *Loader) Load(workDir string) (*Config, error) {
	l.loaded = false
	cfg := NewDefaultConfig()

	path := filepath.Join(filepath.Clean(workDir), defs.BootstrapConfigJSON)

	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		slog.Warn("cannot stat bootstrap config, using defaults", "path", path, "error", err)
		return cfg, nil
	}

	// A symlinked config file must still resolve inside the working
	// directory; anything else is ignored rather than followed.
	if err := checkWithinDir(workDir, path); err != nil {
		slog.Warn("bootstrap config ignored", "path", path, "error", err)
		return cfg, nil
	}

	if err := decodeInto(path, cfg); err != nil {
		slog.Warn("bootstrap config ignored", "path", path, "error", err)
		return NewDefaultConfig(), nil
	}

	l.loaded = true
	return cfg, nil
}

// LoadFile reads an explicitly requested config file. Unlike Load, a
// missing or malformed file is an error here: the user asked for this
// exact file and silently ignoring it would hide a mistake.
func (l *Loader) LoadFile(path string) (*Config, error) {
	l.loaded = false
	cfg := NewDefaultConfig()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("stat config %s: %w", path, err)
	}

	if err := decodeInto(path, cfg); err != nil {
		return nil, err
	}

	l.loaded = true
	return cfg, nil
}

// Loaded reports whether the last Load call applied values from a file
// (as opposed to returning compiled defaults).
func (l *Loader) Loaded() bool {
	return l.loaded
}

// decodeInto parses the JSON file at path over the existing values in
// cfg, so absent fields keep their defaults. Unknown keys are ignored.
func decodeInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), ErrInvalidJSON)
	}

	return nil
}

// checkWithinDir resolves symlinks on both dir and path and verifies
// that path still lives under dir.
func checkWithinDir(dir, path string) error {
	resolvedDir, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", dir, err)
	}
	resolvedPath, err := filepath.EvalSymlinks(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	if resolvedPath != resolvedDir &&
		!strings.HasPrefix(resolvedPath, resolvedDir+string(os.PathSeparator)) {
		return fmt.Errorf("%w: %s", ErrPathTraversal, resolvedPath)
	}
	return nil
}
