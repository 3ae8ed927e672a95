package skill

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeDoc(t *testing.T, root, rel, content string) {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestInstallWritesDocument(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	m := testManager(t, nil)

	doc := &Document{
		Source:  "https://example.com/debug.md",
		Name:    "debug.md",
		Title:   "Debugging Guide",
		Content: []byte("# Debugging Guide\n"),
	}
	entry, err := m.Install(root, doc, KindSkill)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if entry.Path != ".agent/skills/debug.md" {
		t.Errorf("Path = %q, want %q", entry.Path, ".agent/skills/debug.md")
	}
	if entry.Name != "debug" {
		t.Errorf("Name = %q, want %q", entry.Name, "debug")
	}

	got, err := os.ReadFile(filepath.Join(root, ".agent", "skills", "debug.md"))
	if err != nil {
		t.Fatalf("read installed document: %v", err)
	}
	if string(got) != "# Debugging Guide\n" {
		t.Errorf("installed content = %q", got)
	}
}

func TestInstallWorkflowKind(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	m := testManager(t, nil)

	doc := &Document{Name: "release.md", Title: "release", Content: []byte("steps\n")}
	entry, err := m.Install(root, doc, KindWorkflow)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if entry.Path != ".agent/workflows/release.md" {
		t.Errorf("Path = %q, want %q", entry.Path, ".agent/workflows/release.md")
	}
	if _, err := os.Stat(filepath.Join(root, ".agent", "workflows", "release.md")); err != nil {
		t.Errorf("workflow file missing: %v", err)
	}
}

func TestInstallOverwritesExisting(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	m := testManager(t, nil)

	first := &Document{Name: "debug.md", Title: "debug", Content: []byte("old\n")}
	if _, err := m.Install(root, first, KindSkill); err != nil {
		t.Fatal(err)
	}
	second := &Document{Name: "debug.md", Title: "debug", Content: []byte("new\n")}
	if _, err := m.Install(root, second, KindSkill); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(filepath.Join(root, ".agent", "skills", "debug.md"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new\n" {
		t.Errorf("content = %q, want %q", got, "new\n")
	}
}

func TestListGroupsAndSorts(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeDoc(t, root, ".agent/skills/refactor.md", "# Refactoring Moves\n")
	writeDoc(t, root, ".agent/skills/debug.md", "no heading here\n")
	writeDoc(t, root, ".agent/skills/notes.txt", "not markdown\n")
	writeDoc(t, root, ".agent/workflows/release.md", "# Release Checklist\n")

	m := testManager(t, nil)
	entries, err := m.List(root)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("List returned %d entries, want 3", len(entries))
	}

	want := []Entry{
		{Name: "debug", Title: "debug", Kind: KindSkill, Path: ".agent/skills/debug.md"},
		{Name: "refactor", Title: "Refactoring Moves", Kind: KindSkill, Path: ".agent/skills/refactor.md"},
		{Name: "release", Title: "Release Checklist", Kind: KindWorkflow, Path: ".agent/workflows/release.md"},
	}
	for i, entry := range entries {
		if entry != want[i] {
			t.Errorf("entry[%d] = %+v, want %+v", i, entry, want[i])
		}
	}
}

func TestListWithoutAgentDir(t *testing.T) {
	t.Parallel()

	m := testManager(t, nil)
	entries, err := m.List(t.TempDir())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("List returned %d entries, want 0", len(entries))
	}
}

func TestRemoveSearchesBothKinds(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeDoc(t, root, ".agent/skills/debug.md", "# Debug\n")
	writeDoc(t, root, ".agent/workflows/release.md", "# Release\n")

	m := testManager(t, nil)

	rel, err := m.Remove(root, "debug")
	if err != nil {
		t.Fatalf("Remove(debug): %v", err)
	}
	if rel != ".agent/skills/debug.md" {
		t.Errorf("removed path = %q", rel)
	}
	if _, err := os.Stat(filepath.Join(root, ".agent", "skills", "debug.md")); !errors.Is(err, os.ErrNotExist) {
		t.Error("skill file still present after Remove")
	}

	// The .md suffix is accepted and workflows are searched too.
	rel, err = m.Remove(root, "release.md")
	if err != nil {
		t.Fatalf("Remove(release.md): %v", err)
	}
	if rel != ".agent/workflows/release.md" {
		t.Errorf("removed path = %q", rel)
	}
}

func TestRemoveMissingDocument(t *testing.T) {
	t.Parallel()

	m := testManager(t, nil)
	if _, err := m.Remove(t.TempDir(), "ghost"); !errors.Is(err, ErrNotInstalled) {
		t.Fatalf("Remove error = %v, want ErrNotInstalled", err)
	}
}

func TestPreviewFallsBackToRawMarkdown(t *testing.T) {
	t.Parallel()

	content := []byte("# Title\n\nSome body text.\n")
	if got := Preview(content, 0); got == "" {
		t.Error("Preview returned empty output")
	}
}
