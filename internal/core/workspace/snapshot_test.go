package workspace

import (
	"archive/tar"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/multi-llm/bootstrap/internal/core/git"
	"github.com/multi-llm/bootstrap/pkg/models"
)

// testSnapshotter wires a Snapshotter with silent output.
func testSnapshotter(t *testing.T) *Snapshotter {
	t.Helper()
	return NewSnapshotter(testProviders(t), git.NewManager(), testPrinter())
}

func TestSnapshotCreateAndList(t *testing.T) {
	t.Parallel()

	base := createTestWorkspace(t, "demo-app", models.TierStandard)
	snapshotter := testSnapshotter(t)

	archive, err := snapshotter.Create(context.Background(), base, "stable")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if archive != filepath.Join(base, ".snapshots", "stable.tar.gz") {
		t.Errorf("archive path = %s", archive)
	}
	if _, err := os.Stat(archive); err != nil {
		t.Fatalf("archive not written: %v", err)
	}

	names, err := snapshotter.List(base)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !slices.Equal(names, []string{"stable"}) {
		t.Errorf("List = %v, want [stable]", names)
	}

	// An empty name derives one from the workspace and a timestamp.
	if _, err := snapshotter.Create(context.Background(), base, ""); err != nil {
		t.Fatalf("Create with derived name: %v", err)
	}
	names, err = snapshotter.List(base)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("List = %v, want two snapshots", names)
	}
	derived := names[0]
	if derived == "stable" {
		derived = names[1]
	}
	if !strings.HasPrefix(derived, "demo-app-") {
		t.Errorf("derived snapshot name = %q, want demo-app-<timestamp>", derived)
	}
}

func TestSnapshotBackupsListing(t *testing.T) {
	t.Parallel()

	base := createTestWorkspace(t, "demo-app", models.TierLite)
	snapshotter := testSnapshotter(t)

	names, err := snapshotter.Backups(base)
	if err != nil {
		t.Fatalf("Backups: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("Backups = %v, want none", names)
	}

	seedBackup(t, base, "pre_upgrade_20260101_000000", "Makefile", "old\n")
	seedBackup(t, base, "pre_upgrade_20260202_000000", "Makefile", "new\n")
	seedBackup(t, base, "scripts_20260303_000000", "scripts/audit.py", "#!\n")

	names, err = snapshotter.Backups(base)
	if err != nil {
		t.Fatalf("Backups: %v", err)
	}
	want := []string{"pre_upgrade_20260202_000000", "pre_upgrade_20260101_000000"}
	if !slices.Equal(names, want) {
		t.Errorf("Backups = %v, want %v (newest first, script backups excluded)", names, want)
	}
}

func TestSnapshotArchiveContents(t *testing.T) {
	t.Parallel()

	base := createTestWorkspace(t, "demo-app", models.TierStandard)
	makefile, err := os.ReadFile(filepath.Join(base, "Makefile"))
	if err != nil {
		t.Fatal(err)
	}

	archive, err := testSnapshotter(t).Create(context.Background(), base, "stable")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	dest := t.TempDir()
	files, err := extractArchive(archive, dest)
	if err != nil {
		t.Fatalf("extractArchive: %v", err)
	}

	for _, want := range []string{"Makefile", "pyproject.toml", ".gemini/workspace.json", "snapshot.json"} {
		if !slices.Contains(files, want) {
			t.Errorf("archive missing %s (got %v)", want, files)
		}
	}

	restored, err := os.ReadFile(filepath.Join(dest, "Makefile"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(restored, makefile) {
		t.Error("archived Makefile differs from the source")
	}

	stampData, err := os.ReadFile(filepath.Join(dest, "snapshot.json"))
	if err != nil {
		t.Fatalf("read stamp: %v", err)
	}
	var stamp models.SnapshotStamp
	if err := json.Unmarshal(stampData, &stamp); err != nil {
		t.Fatalf("parse stamp: %v", err)
	}
	if stamp.Name != "stable" || stamp.Workspace != "demo-app" || stamp.Tier != models.TierStandard {
		t.Errorf("stamp = %+v", stamp)
	}
}

func TestSnapshotRejectsPathSeparators(t *testing.T) {
	t.Parallel()

	base := createTestWorkspace(t, "demo-app", models.TierLite)
	_, err := testSnapshotter(t).Create(context.Background(), base, "a/b")
	if err == nil {
		t.Fatal("expected error for separator in snapshot name")
	}
}

func TestExtractArchiveRejectsTraversal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	archive := filepath.Join(dir, "evil.tar.gz")

	f, err := os.Create(archive)
	if err != nil {
		t.Fatal(err)
	}
	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	content := []byte("pwned")
	if err := tw.WriteHeader(&tar.Header{Name: "../evil.txt", Size: int64(len(content)), Mode: 0o644}); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(dir, "dest")
	if err := os.Mkdir(dest, 0o755); err != nil {
		t.Fatal(err)
	}
	_, err = extractArchive(archive, dest)
	if !errors.Is(err, ErrUnsafeArchivePath) {
		t.Fatalf("err = %v, want ErrUnsafeArchivePath", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "evil.txt")); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("traversal entry escaped the destination")
	}
}
