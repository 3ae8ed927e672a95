package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/multi-llm/bootstrap/pkg/models"
)

// testRollbacker wires a Rollbacker with silent output and no prompt.
func testRollbacker(t *testing.T) *Rollbacker {
	t.Helper()
	return NewRollbacker(testProviders(t), testPrinter(), nil)
}

// seedBackup writes one file into a named backup directory.
func seedBackup(t *testing.T, base, backupName, rel, content string) {
	t.Helper()
	path := filepath.Join(base, ".gemini", "backups", backupName, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRollbackFromSnapshot(t *testing.T) {
	t.Parallel()

	base := createTestWorkspace(t, "demo-app", models.TierStandard)
	original, err := os.ReadFile(filepath.Join(base, "Makefile"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := testSnapshotter(t).Create(context.Background(), base, "stable"); err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	// Drift after the snapshot: an edited file, a new file inside a
	// captured tree, and a file outside the captured set.
	if err := os.WriteFile(filepath.Join(base, "Makefile"), []byte("drifted\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	stray := filepath.Join(base, "src", "demo_app", "extra.py")
	if err := os.WriteFile(stray, []byte("TEMP = True\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	err = testRollbacker(t).Rollback(context.Background(), base, RollbackOptions{Backup: "stable", Yes: true})
	if err != nil {
		t.Fatalf("rollback: %v", err)
	}

	restored, err := os.ReadFile(filepath.Join(base, "Makefile"))
	if err != nil {
		t.Fatal(err)
	}
	if string(restored) != string(original) {
		t.Error("Makefile not restored to the snapshot content")
	}
	if _, statErr := os.Stat(stray); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("file added after the snapshot survived the restore")
	}
	// Files outside the captured set are removed too; only the
	// protected prefixes survive.
	if _, statErr := os.Stat(filepath.Join(base, "README.md")); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("uncaptured file survived the snapshot restore")
	}
	if _, statErr := os.Stat(filepath.Join(base, ".snapshots", "stable.tar.gz")); statErr != nil {
		t.Errorf("snapshot archive removed by its own restore: %v", statErr)
	}
}

func TestRollbackSnapshotDeclined(t *testing.T) {
	t.Parallel()

	base := createTestWorkspace(t, "demo-app", models.TierStandard)
	if _, err := testSnapshotter(t).Create(context.Background(), base, "stable"); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if err := os.WriteFile(filepath.Join(base, "Makefile"), []byte("drifted\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	// No Yes and no confirm func counts as declined.
	if err := testRollbacker(t).Rollback(context.Background(), base, RollbackOptions{Backup: "stable"}); err != nil {
		t.Fatalf("declined rollback returned error: %v", err)
	}
	content, err := os.ReadFile(filepath.Join(base, "Makefile"))
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "drifted\n" {
		t.Error("declined rollback still modified the workspace")
	}
}

func TestRollbackFromBackupDirectory(t *testing.T) {
	t.Parallel()

	base := createTestWorkspace(t, "demo-app", models.TierLite)
	seedBackup(t, base, "pre_upgrade_20260101_000000", "Makefile", "backed up\n")
	if err := os.WriteFile(filepath.Join(base, "Makefile"), []byte("current\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := testRollbacker(t).Rollback(context.Background(), base, RollbackOptions{Yes: true}); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(base, "Makefile"))
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "backed up\n" {
		t.Errorf("Makefile = %q, want backup content", content)
	}
	// Directory-based rollback overwrites; it never deletes.
	if _, statErr := os.Stat(filepath.Join(base, "README.md")); statErr != nil {
		t.Errorf("unrelated file removed by directory rollback: %v", statErr)
	}
}

func TestRollbackPicksMostRecentBackup(t *testing.T) {
	t.Parallel()

	base := createTestWorkspace(t, "demo-app", models.TierLite)
	seedBackup(t, base, "pre_upgrade_20260101_000000", "Makefile", "older\n")
	seedBackup(t, base, "pre_upgrade_20260202_000000", "Makefile", "newer\n")

	if err := testRollbacker(t).Rollback(context.Background(), base, RollbackOptions{Yes: true}); err != nil {
		t.Fatalf("rollback: %v", err)
	}
	content, err := os.ReadFile(filepath.Join(base, "Makefile"))
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "newer\n" {
		t.Errorf("Makefile = %q, want the most recent backup", content)
	}
}

func TestRollbackResolvesPartialNames(t *testing.T) {
	t.Parallel()

	t.Run("snapshot", func(t *testing.T) {
		t.Parallel()
		base := createTestWorkspace(t, "demo-app", models.TierStandard)
		if _, err := testSnapshotter(t).Create(context.Background(), base, "before-refactor"); err != nil {
			t.Fatalf("snapshot: %v", err)
		}
		if err := os.WriteFile(filepath.Join(base, "Makefile"), []byte("drifted\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		err := testRollbacker(t).Rollback(context.Background(), base, RollbackOptions{Backup: "refactor", Yes: true})
		if err != nil {
			t.Fatalf("rollback: %v", err)
		}
		content, err := os.ReadFile(filepath.Join(base, "Makefile"))
		if err != nil {
			t.Fatal(err)
		}
		if string(content) == "drifted\n" {
			t.Error("partial snapshot name did not resolve")
		}
	})

	t.Run("backup", func(t *testing.T) {
		t.Parallel()
		base := createTestWorkspace(t, "demo-app", models.TierLite)
		seedBackup(t, base, "pre_upgrade_20260101_000000", "Makefile", "january\n")
		seedBackup(t, base, "pre_upgrade_20260202_000000", "Makefile", "february\n")

		err := testRollbacker(t).Rollback(context.Background(), base, RollbackOptions{Backup: "20260101", Yes: true})
		if err != nil {
			t.Fatalf("rollback: %v", err)
		}
		content, err := os.ReadFile(filepath.Join(base, "Makefile"))
		if err != nil {
			t.Fatal(err)
		}
		if string(content) != "january\n" {
			t.Errorf("Makefile = %q, want the matched backup content", content)
		}
	})

	t.Run("ambiguous", func(t *testing.T) {
		t.Parallel()
		base := createTestWorkspace(t, "demo-app", models.TierLite)
		seedBackup(t, base, "pre_upgrade_20260101_000000", "Makefile", "a\n")
		seedBackup(t, base, "pre_upgrade_20260202_000000", "Makefile", "b\n")

		err := testRollbacker(t).Rollback(context.Background(), base, RollbackOptions{Backup: "pre_upgrade_2026", Yes: true})
		if err == nil || !strings.Contains(err.Error(), "matches several") {
			t.Fatalf("err = %v, want an ambiguity error", err)
		}
	})
}

func TestRollbackNamedBackupMissing(t *testing.T) {
	t.Parallel()

	base := createTestWorkspace(t, "demo-app", models.TierLite)
	seedBackup(t, base, "pre_upgrade_20260101_000000", "Makefile", "x\n")

	err := testRollbacker(t).Rollback(context.Background(), base, RollbackOptions{Backup: "nope", Yes: true})
	if !errors.Is(err, ErrBackupNotFound) {
		t.Fatalf("err = %v, want ErrBackupNotFound", err)
	}
	if !strings.Contains(err.Error(), "pre_upgrade_20260101_000000") {
		t.Errorf("error %q does not list the available backup", err)
	}
}

func TestRollbackWithoutBackups(t *testing.T) {
	t.Parallel()

	t.Run("nothing_available", func(t *testing.T) {
		t.Parallel()
		base := createTestWorkspace(t, "demo-app", models.TierLite)
		err := testRollbacker(t).Rollback(context.Background(), base, RollbackOptions{Yes: true})
		if !errors.Is(err, ErrBackupNotFound) {
			t.Fatalf("err = %v, want ErrBackupNotFound", err)
		}
	})

	t.Run("mentions_snapshots", func(t *testing.T) {
		t.Parallel()
		base := createTestWorkspace(t, "demo-app", models.TierLite)
		if _, err := testSnapshotter(t).Create(context.Background(), base, "stable"); err != nil {
			t.Fatalf("snapshot: %v", err)
		}
		err := testRollbacker(t).Rollback(context.Background(), base, RollbackOptions{Yes: true})
		if !errors.Is(err, ErrBackupNotFound) {
			t.Fatalf("err = %v, want ErrBackupNotFound", err)
		}
		if !strings.Contains(err.Error(), "stable") {
			t.Errorf("error %q does not mention the available snapshot", err)
		}
	})
}
