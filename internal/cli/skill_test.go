package cli

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/multi-llm/bootstrap/internal/core/workspace"
	"github.com/multi-llm/bootstrap/internal/skill"
)

// skillServer serves a fixed set of markdown documents by path.
func skillServer(t *testing.T) *httptest.Server {
	t.Helper()
	docs := map[string]string{
		"/debug.md":  "# Debugging Guide\n\nReproduce first, then bisect.\n",
		"/review.md": "# Review Flow\n\nSmall diffs, fast turnaround.\n",
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		doc, ok := docs[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(doc))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestSkillAddFromURL(t *testing.T) {
	ws := newWorkspace(t, "1")
	t.Chdir(ws)
	ts := skillServer(t)

	out, err := runCLI(t, "skill", "add", ts.URL+"/debug.md", "--yes", "--no-color")
	if err != nil {
		t.Fatalf("skill add: %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, "Installed skill 'debug'") {
		t.Errorf("missing install confirmation:\n%s", out)
	}

	content, err := os.ReadFile(filepath.Join(".agent", "skills", "debug.md"))
	if err != nil {
		t.Fatalf("installed document: %v", err)
	}
	if !strings.Contains(string(content), "# Debugging Guide") {
		t.Errorf("document content not written verbatim: %q", content)
	}
}

func TestSkillAddWorkflow(t *testing.T) {
	ws := newWorkspace(t, "1")
	t.Chdir(ws)
	ts := skillServer(t)

	out, err := runCLI(t, "skill", "add", ts.URL+"/review.md", "--workflow", "--yes", "--no-color")
	if err != nil {
		t.Fatalf("skill add --workflow: %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, "Installed workflow 'review'") {
		t.Errorf("missing install confirmation:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(".agent", "workflows", "review.md")); err != nil {
		t.Errorf("workflow document: %v", err)
	}
}

func TestSkillAddWithoutYesCancelsHeadless(t *testing.T) {
	ws := newWorkspace(t, "1")
	t.Chdir(ws)
	ts := skillServer(t)

	// No TTY in tests, so the confirmation cannot be asked.
	out, err := runCLI(t, "skill", "add", ts.URL+"/debug.md", "--no-color")
	if err != nil {
		t.Fatalf("declined install should not fail: %v", err)
	}
	if !strings.Contains(out, "Installation cancelled") {
		t.Errorf("missing cancellation notice:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(".agent", "skills", "debug.md")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("document must not be installed without confirmation, stat err = %v", err)
	}
}

func TestSkillListEmpty(t *testing.T) {
	ws := newWorkspace(t, "1")
	t.Chdir(ws)

	out, err := runCLI(t, "skill", "list", "--no-color")
	if err != nil {
		t.Fatalf("skill list: %v", err)
	}
	if !strings.Contains(out, "no skills installed") {
		t.Errorf("empty list should print a hint:\n%s", out)
	}
}

func TestSkillListShowsInstalled(t *testing.T) {
	ws := newWorkspace(t, "1")
	t.Chdir(ws)
	ts := skillServer(t)

	if _, err := runCLI(t, "skill", "add", ts.URL+"/debug.md", "--yes", "--quiet"); err != nil {
		t.Fatalf("install skill: %v", err)
	}
	if _, err := runCLI(t, "skill", "add", ts.URL+"/review.md", "--workflow", "--yes", "--quiet"); err != nil {
		t.Fatalf("install workflow: %v", err)
	}

	out, err := runCLI(t, "skill", "list", "--no-color")
	if err != nil {
		t.Fatalf("skill list: %v", err)
	}
	for _, want := range []string{"debug", "Debugging Guide", "review", "workflow"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
}

func TestSkillRemove(t *testing.T) {
	ws := newWorkspace(t, "1")
	t.Chdir(ws)
	ts := skillServer(t)

	if _, err := runCLI(t, "skill", "add", ts.URL+"/debug.md", "--yes", "--quiet"); err != nil {
		t.Fatalf("install skill: %v", err)
	}

	out, err := runCLI(t, "skill", "remove", "debug", "--no-color")
	if err != nil {
		t.Fatalf("skill remove: %v\noutput: %s", err, out)
	}
	if _, err := os.Stat(filepath.Join(".agent", "skills", "debug.md")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("document should be gone, stat err = %v", err)
	}

	_, err = runCLI(t, "skill", "remove", "debug")
	if !errors.Is(err, skill.ErrNotInstalled) {
		t.Fatalf("second remove = %v, want ErrNotInstalled", err)
	}
	assertCategory(t, err, workspace.CategoryValidation)
}

func TestSkillAddBadSource(t *testing.T) {
	ws := newWorkspace(t, "1")
	t.Chdir(ws)

	_, err := runCLI(t, "skill", "add", "acme", "--yes")
	if !errors.Is(err, skill.ErrBadSource) {
		t.Fatalf("skill add acme = %v, want ErrBadSource", err)
	}
	assertCategory(t, err, workspace.CategoryValidation)
}

func TestSkillAddNotFound(t *testing.T) {
	ws := newWorkspace(t, "1")
	t.Chdir(ws)
	ts := skillServer(t)

	_, err := runCLI(t, "skill", "add", ts.URL+"/missing.md", "--yes")
	if !errors.Is(err, skill.ErrNotFound) {
		t.Fatalf("skill add missing = %v, want ErrNotFound", err)
	}
	assertCategory(t, err, workspace.CategoryWorkspace)
}

func TestSkillCommandsOutsideWorkspace(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := runCLI(t, "skill", "list")
	if !errors.Is(err, workspace.ErrNotAWorkspace) {
		t.Fatalf("skill list outside a workspace = %v, want ErrNotAWorkspace", err)
	}
	assertCategory(t, err, workspace.CategoryValidation)
}
