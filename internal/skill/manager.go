// Package skill installs skill and workflow markdown documents into a
// workspace's cognitive layer (.agent/skills and .agent/workflows).
// Documents are fetched from an absolute URL or a GitHub
// owner/repo/path shorthand and written verbatim; the only parsing is
// a title heuristic used for display.
package skill

import (
	"errors"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/multi-llm/bootstrap/internal/defs"
	"github.com/multi-llm/bootstrap/internal/ui"
)

// Sentinel errors for skill operations.
var (
	// ErrBadSource indicates a source that is neither an http(s) URL nor
	// an owner/repo/path shorthand.
	ErrBadSource = errors.New("skill: source must be an http(s) URL or owner/repo/path shorthand")

	// ErrNotFound indicates the remote document does not exist.
	ErrNotFound = errors.New("skill: document not found")

	// ErrTooLarge indicates the remote document exceeds the size limit.
	ErrTooLarge = errors.New("skill: document too large")

	// ErrNotMarkdown indicates the fetched payload is not a markdown
	// document.
	ErrNotMarkdown = errors.New("skill: not a markdown document")

	// ErrNotInstalled indicates no installed document matches the name.
	ErrNotInstalled = errors.New("skill: no such installed document")
)

// Kind distinguishes the two document classes and their install
// directories.
type Kind string

const (
	// KindSkill installs under .agent/skills.
	KindSkill Kind = "skill"
	// KindWorkflow installs under .agent/workflows.
	KindWorkflow Kind = "workflow"
)

// Dir returns the workspace-relative install directory for the kind.
func (k Kind) Dir() string {
	if k == KindWorkflow {
		return defs.WorkflowsDir
	}
	return defs.SkillsDir
}

// Entry describes one installed document.
type Entry struct {
	Name  string // file name without the .md extension
	Title string // first markdown heading, or the name when absent
	Kind  Kind
	Path  string // workspace-relative slash path
}

// Manager fetches, installs, lists, and removes documents for a
// workspace rooted at a directory the caller resolves.
type Manager struct {
	client  *http.Client
	printer *ui.Printer
}

// NewManager creates a Manager. A nil client gets a default with a
// bounded timeout.
func NewManager(client *http.Client, printer *ui.Printer) *Manager {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	return &Manager{client: client, printer: printer}
}

// Install writes a fetched document into the kind's directory under
// root and returns the resulting entry. An existing document with the
// same name is overwritten.
func (m *Manager) Install(root string, doc *Document, kind Kind) (*Entry, error) {
	relPath := path.Join(kind.Dir(), doc.Name)
	absPath := filepath.Join(root, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(absPath, doc.Content, 0o644); err != nil {
		return nil, err
	}
	entry := &Entry{
		Name:  strings.TrimSuffix(doc.Name, ".md"),
		Title: doc.Title,
		Kind:  kind,
		Path:  relPath,
	}
	m.printer.Success("Installed %s '%s' at %s", kind, entry.Name, relPath)
	return entry, nil
}

// Remove deletes an installed document by name. The name may include
// the .md extension; both skills and workflows are searched. It
// returns the workspace-relative path that was removed.
func (m *Manager) Remove(root, name string) (string, error) {
	stem := strings.TrimSuffix(name, ".md")
	candidates := []string{
		path.Join(defs.SkillsDir, stem+".md"),
		path.Join(defs.WorkflowsDir, stem+".md"),
	}
	for _, rel := range candidates {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		if _, err := os.Lstat(abs); err != nil {
			continue
		}
		if err := os.Remove(abs); err != nil {
			return "", err
		}
		m.printer.Success("Removed %s", rel)
		return rel, nil
	}
	return "", ErrNotInstalled
}

// List returns all installed documents under root, skills before
// workflows, each group sorted by name.
func (m *Manager) List(root string) ([]Entry, error) {
	var entries []Entry
	for _, kind := range []Kind{KindSkill, KindWorkflow} {
		group, err := listDir(root, kind)
		if err != nil {
			return nil, err
		}
		entries = append(entries, group...)
	}
	return entries, nil
}

// listDir scans one kind's directory for markdown documents. A missing
// directory yields an empty group.
func listDir(root string, kind Kind) ([]Entry, error) {
	dir := filepath.Join(root, filepath.FromSlash(kind.Dir()))
	dirents, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var entries []Entry
	for _, dirent := range dirents {
		if dirent.IsDir() || !strings.HasSuffix(dirent.Name(), ".md") {
			continue
		}
		stem := strings.TrimSuffix(dirent.Name(), ".md")
		title := stem
		if content, err := os.ReadFile(filepath.Join(dir, dirent.Name())); err == nil {
			if heading := firstHeading(content); heading != "" {
				title = heading
			}
		}
		entries = append(entries, Entry{
			Name:  stem,
			Title: title,
			Kind:  kind,
			Path:  path.Join(kind.Dir(), dirent.Name()),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}
