package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoaderSymlinkOutsideWorkDir(t *testing.T) {
	t.Parallel()

	// The config file is a symlink escaping the working directory; the
	// loader must fall back to defaults instead of following it.
	outside := t.TempDir()
	target := filepath.Join(outside, "evil.json")
	if err := os.WriteFile(target, []byte(`{"default_tier": "3"}`), 0o644); err != nil {
		t.Fatalf("failed to write target: %v", err)
	}

	workDir := t.TempDir()
	link := filepath.Join(workDir, ".gemini-bootstrap.json")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	l := NewLoader()
	cfg, err := l.Load(workDir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DefaultTier != "" {
		t.Errorf("DefaultTier: got %q, want empty (symlinked file must be ignored)", cfg.DefaultTier)
	}
	if l.Loaded() {
		t.Error("Loaded() should be false for ignored symlinked file")
	}
}

func TestLoaderSymlinkInsideWorkDir(t *testing.T) {
	t.Parallel()

	// Symlinks are fine as long as they resolve within the working
	// directory (for example a checked-in defaults file).
	workDir := t.TempDir()
	target := filepath.Join(workDir, "defaults.json")
	if err := os.WriteFile(target, []byte(`{"default_tier": "2"}`), 0o644); err != nil {
		t.Fatalf("failed to write target: %v", err)
	}
	link := filepath.Join(workDir, ".gemini-bootstrap.json")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	l := NewLoader()
	cfg, err := l.Load(workDir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DefaultTier != "2" {
		t.Errorf("DefaultTier: got %q, want %q", cfg.DefaultTier, "2")
	}
	if !l.Loaded() {
		t.Error("Loaded() should be true for in-directory symlink")
	}
}

func TestLoaderUnknownKeysIgnored(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()
	content := `{"default_tier": "1", "future_option": 42}`
	path := filepath.Join(workDir, ".gemini-bootstrap.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	l := NewLoader()
	cfg, err := l.Load(workDir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DefaultTier != "1" {
		t.Errorf("DefaultTier: got %q, want %q", cfg.DefaultTier, "1")
	}
}
